package controller

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"procurement/internal/models"
)

// Register request

type RegisterReq struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
}

func ParseRegisterReq(data []byte) (*RegisterReq, error) {
	req := &RegisterReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}

	if err = checkLengthLimit(req.Username, "username", 100); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(req.FullName, "fullName", 200); err != nil {
		return nil, err
	}

	return req, nil
}

// Login request

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func ParseLoginReq(data []byte) (*LoginReq, error) {
	req := &LoginReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, fmt.Errorf("username and password are required")
	}

	return req, nil
}

// New tender request

type NewTenderReq struct {
	Username         string          `json:"username"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Deadline         time.Time       `json:"deadline"`
	Budget           decimal.Decimal `json:"budget"`
	Quantity         int             `json:"quantity"`
	EstimatedCost    decimal.Decimal `json:"estimatedCost"`
	DeliveryTimeline string          `json:"deliveryTimeline"`
	SubmissionMethod string          `json:"submissionMethod"`
	ClientId         int             `json:"clientId"`
}

func ParseNewTenderReq(data []byte) (*NewTenderReq, error) {
	req := &NewTenderReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}

	if len(req.Title) == 0 {
		return nil, fmt.Errorf("field 'title' is required")
	}
	if err = checkLengthLimit(req.Title, "title", 200); err != nil {
		return nil, err
	}
	if err = checkLengthLimit(req.Description, "description", 2000); err != nil {
		return nil, err
	}
	if req.Deadline.IsZero() {
		return nil, fmt.Errorf("field 'deadline' is required")
	}

	return req, nil
}

// New proposal request

type NewProposalReq struct {
	Username         string          `json:"username"`
	TenderId         int             `json:"tenderId"`
	VendorId         int             `json:"vendorId"`
	TechnicalInput   string          `json:"technicalInput"`
	TechnicalScore   float64         `json:"technicalScore"`
	TechnicalRemarks string          `json:"technicalRemarks"`
	FinancialInput   decimal.Decimal `json:"financialInput"`
	FinancialRemarks string          `json:"financialRemarks"`
	MarginAnalysis   string          `json:"marginAnalysis"`
	DocumentURL      string          `json:"documentUrl"`
}

func ParseNewProposalReq(data []byte) (*NewProposalReq, error) {
	req := &NewProposalReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.TenderId == 0 {
		return nil, fmt.Errorf("field 'tenderId' is required")
	}

	return req, nil
}

// Proposal update request

type ProposalUpdateReq struct {
	Username string `json:"username"`
	models.ProposalUpdate
}

func ParseProposalUpdateReq(data []byte) (*ProposalUpdateReq, error) {
	req := &ProposalUpdateReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// New contract request

type NewContractReq struct {
	Username    string    `json:"username"`
	TenderId    int       `json:"tenderId"`
	Content     string    `json:"content"`
	ScopeOfWork string    `json:"scopeOfWork"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

func ParseNewContractReq(data []byte) (*NewContractReq, error) {
	req := &NewContractReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.TenderId == 0 {
		return nil, fmt.Errorf("field 'tenderId' is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("fields 'startDate' and 'endDate' are required")
	}

	return req, nil
}

// New purchase order request

type NewPOReq struct {
	Username    string          `json:"username"`
	PONumber    string          `json:"poNumber"`
	TenderId    int             `json:"tenderId"`
	VendorId    int             `json:"vendorId"`
	Items       string          `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ApprovedBy  string          `json:"approvedBy"`
}

func ParseNewPOReq(data []byte) (*NewPOReq, error) {
	req := &NewPOReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.TenderId == 0 || req.VendorId == 0 {
		return nil, fmt.Errorf("fields 'tenderId' and 'vendorId' are required")
	}

	return req, nil
}

// New invoice request

type NewInvoiceReq struct {
	Username       string          `json:"username"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	POId           int             `json:"poId"`
	Amount         decimal.Decimal `json:"amount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalPayable   decimal.Decimal `json:"totalPayable"`
}

func ParseNewInvoiceReq(data []byte) (*NewInvoiceReq, error) {
	req := &NewInvoiceReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.POId == 0 {
		return nil, fmt.Errorf("field 'poId' is required")
	}

	return req, nil
}

// New payment request

type NewPaymentReq struct {
	Username      string          `json:"username"`
	InvoiceId     int             `json:"invoiceId"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMode   string          `json:"paymentMode"`
	TransactionId string          `json:"transactionId"`
	PaymentDate   time.Time       `json:"paymentDate"`
}

func ParseNewPaymentReq(data []byte) (*NewPaymentReq, error) {
	req := &NewPaymentReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.InvoiceId == 0 {
		return nil, fmt.Errorf("field 'invoiceId' is required")
	}

	return req, nil
}

// New milestone request

type NewMilestoneReq struct {
	Username    string `json:"username"`
	TenderId    int    `json:"tenderId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func ParseNewMilestoneReq(data []byte) (*NewMilestoneReq, error) {
	req := &NewMilestoneReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if req.TenderId == 0 {
		return nil, fmt.Errorf("field 'tenderId' is required")
	}
	if err = checkLengthLimit(req.Title, "title", 200); err != nil {
		return nil, err
	}

	return req, nil
}

// Milestone update request

type MilestoneUpdateReq struct {
	Username string `json:"username"`
	models.MilestoneUpdate
}

func ParseMilestoneUpdateReq(data []byte) (*MilestoneUpdateReq, error) {
	req := &MilestoneUpdateReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// New workflow request

type NewWorkflowReq struct {
	Username   string `json:"username"`
	EntityType string `json:"entityType"`
	EntityId   int    `json:"entityId"`
	Status     string `json:"status"`
	NextStep   string `json:"nextStep"`
}

func ParseNewWorkflowReq(data []byte) (*NewWorkflowReq, error) {
	req := &NewWorkflowReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}
	if len(req.EntityType) == 0 || req.EntityId == 0 {
		return nil, fmt.Errorf("fields 'entityType' and 'entityId' are required")
	}

	return req, nil
}

// Workflow advance request

type WorkflowAdvanceReq struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	NextStep string `json:"nextStep"`
}

func ParseWorkflowAdvanceReq(data []byte) (*WorkflowAdvanceReq, error) {
	req := &WorkflowAdvanceReq{}

	err := json.Unmarshal(data, req)
	if err != nil {
		return nil, err
	}

	return req, nil
}

// Service

func checkLengthLimit(str, fieldName string, limit int) error {
	if len(str) > limit {
		return fmt.Errorf("field '%s' exceeds length limit: %d / %d", fieldName, len(str), limit)
	}
	return nil
}
