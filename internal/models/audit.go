package models

import "time"

// Audit actions recorded by the lifecycle engine.
const (
	ActionUserRegistered   = "USER_REGISTERED"
	ActionTenderCreated    = "TENDER_CREATED"
	ActionTenderTransition = "TENDER_STATUS_CHANGED"
	ActionProposalCreated  = "PROPOSAL_CREATED"
	ActionProposalUpdated  = "PROPOSAL_UPDATED"
	ActionContractCreated  = "CONTRACT_CREATED"
	ActionContractSigned   = "CONTRACT_SIGNED"
	ActionContractVetted   = "CONTRACT_VETTING_UPDATED"
	ActionContractMoved    = "CONTRACT_STATUS_CHANGED"
	ActionPOCreated        = "PO_CREATED"
	ActionPOAcknowledged   = "PO_ACKNOWLEDGED"
	ActionInvoiceCreated   = "INVOICE_CREATED"
	ActionInvoiceIssued    = "INVOICE_ISSUED"
	ActionPaymentCreated   = "PAYMENT_CREATED"
	ActionPaymentVerified  = "PAYMENT_VERIFIED"
	ActionPaymentFailed    = "PAYMENT_FAILED"
	ActionMilestoneCreated = "MILESTONE_CREATED"
	ActionMilestoneUpdated = "MILESTONE_UPDATED"
	ActionWorkflowCreated  = "WORKFLOW_CREATED"
	ActionWorkflowAdvanced = "WORKFLOW_ADVANCED"
)

// Entity type labels used in audit rows and approval workflows.
const (
	EntityUser      = "User"
	EntityTender    = "Tender"
	EntityProposal  = "Proposal"
	EntityContract  = "Contract"
	EntityPO        = "PurchaseOrder"
	EntityInvoice   = "Invoice"
	EntityPayment   = "Payment"
	EntityMilestone = "Milestone"
	EntityWorkflow  = "ApprovalWorkflow"
)

type AuditLog struct {
	Id         int       `db:"id" json:"id"`
	UserId     int       `db:"user_id" json:"userId"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityId   int       `db:"entity_id" json:"entityId"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}
