package refid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	for _, prefix := range []string{PrefixTender, PrefixPO, PrefixInvoice, PrefixPayment, PrefixWorkflow} {
		code := New(prefix)
		require.True(t, strings.HasPrefix(code, prefix+"-"), "code %q should carry prefix %q", code, prefix)

		token := strings.TrimPrefix(code, prefix+"-")
		require.Len(t, token, tokenLen)
		require.Equal(t, strings.ToUpper(token), token)
	}
}

func TestNewDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := New(PrefixPO)
		require.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}
