// Package refid produces the human-readable reference codes carried by
// procurement entities (T-, PO-, INV-, TXN-, WF-). Codes are random and the
// store's uniqueness constraints are the source of truth: callers must retry
// on conflict rather than assume a token is free.
package refid

import (
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixTender   = "T"
	PrefixPO       = "PO"
	PrefixInvoice  = "INV"
	PrefixPayment  = "TXN"
	PrefixWorkflow = "WF"
)

const tokenLen = 8

// New returns a reference code of the form <prefix>-<8 uppercase hex chars>.
func New(prefix string) string {
	token := strings.ToUpper(uuid.NewString()[:tokenLen])
	return prefix + "-" + token
}
