package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"procurement/internal/models"
)

type Service interface {
	Register(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, error)
	Users(ctx context.Context, role models.Role) ([]models.User, error)

	AddTender(ctx context.Context, username string, tender models.Tender) (models.Tender, error)
	Tenders(ctx context.Context, limit, offset int, status models.TenderStatus, clientId int) ([]models.Tender, error)
	TenderById(ctx context.Context, id int) (models.Tender, error)
	TransitionTender(ctx context.Context, username string, id int, to models.TenderStatus) (models.Tender, error)

	AddProposal(ctx context.Context, username string, proposal models.Proposal) (models.Proposal, error)
	Proposals(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.Proposal, error)
	ProposalById(ctx context.Context, id int) (models.Proposal, error)
	UpdateProposal(ctx context.Context, username string, id int, upd models.ProposalUpdate) (models.Proposal, error)

	AddContract(ctx context.Context, username string, contract models.Contract) (models.Contract, error)
	Contracts(ctx context.Context, limit, offset, tenderId int) ([]models.Contract, error)
	ContractById(ctx context.Context, id int) (models.Contract, error)
	SignContract(ctx context.Context, username string, id int) (models.Contract, error)
	TransitionContract(ctx context.Context, username string, id int, to models.ContractStatus) (models.Contract, error)
	VetContract(ctx context.Context, username string, id int, vetting models.VettingStatus) (models.Contract, error)

	AddPO(ctx context.Context, username string, po models.PurchaseOrder) (models.PurchaseOrder, error)
	POs(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.PurchaseOrder, error)
	POById(ctx context.Context, id int) (models.PurchaseOrder, error)
	AcknowledgePO(ctx context.Context, username string, id int) (models.PurchaseOrder, error)

	AddInvoice(ctx context.Context, username string, invoice models.Invoice) (models.Invoice, error)
	Invoices(ctx context.Context, limit, offset, poId int, status models.InvoiceStatus) ([]models.Invoice, error)
	InvoiceById(ctx context.Context, id int) (models.Invoice, error)
	IssueInvoice(ctx context.Context, username string, id int) (models.Invoice, error)

	AddPayment(ctx context.Context, username string, payment models.Payment) (models.Payment, error)
	Payments(ctx context.Context, limit, offset, invoiceId int, status models.PaymentStatus) ([]models.Payment, error)
	VerifyPayment(ctx context.Context, username string, id int, completedAt *time.Time) (models.Payment, error)
	FailPayment(ctx context.Context, username string, id int) (models.Payment, error)

	AddMilestone(ctx context.Context, username string, milestone models.Milestone) (models.Milestone, error)
	Milestones(ctx context.Context, limit, offset, tenderId int) ([]models.Milestone, error)
	UpdateMilestone(ctx context.Context, username string, id int, upd models.MilestoneUpdate) (models.Milestone, error)

	AddWorkflow(ctx context.Context, username string, wf models.ApprovalWorkflow) (models.ApprovalWorkflow, error)
	WorkflowByEntity(ctx context.Context, entityType string, entityId int) (models.ApprovalWorkflow, error)
	Workflows(ctx context.Context, limit, offset int, entityType string) ([]models.ApprovalWorkflow, error)
	AdvanceWorkflow(ctx context.Context, username string, id int, status, nextStep string) (models.ApprovalWorkflow, error)

	RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
	MetricsSummary(ctx context.Context) (models.MetricsSummary, error)
	TenderScores(ctx context.Context, limit, offset int) ([]models.TenderScore, error)
}

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GET /api/ping
func (c *Controller) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

//// Users

// POST /api/users
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseRegisterReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.Register(r.Context(), models.User{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, user)
}

// POST /api/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseLoginReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, user)
}

// GET /api/users
func (c *Controller) GetUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))

	users, err := c.service.Users(r.Context(), role)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, users)
}

//// Tenders

// POST /api/tenders
func (c *Controller) NewTender(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewTenderReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tender, err := c.service.AddTender(r.Context(), req.Username, models.Tender{
		Title:            req.Title,
		Description:      req.Description,
		Deadline:         req.Deadline,
		Budget:           req.Budget,
		Quantity:         req.Quantity,
		EstimatedCost:    req.EstimatedCost,
		DeliveryTimeline: req.DeliveryTimeline,
		SubmissionMethod: req.SubmissionMethod,
		ClientId:         req.ClientId,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, tender)
}

// GET /api/tenders
func (c *Controller) GetTenders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	clientId, err := c.getQueryInt(query, "client_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'client_id' query parameter: "+query.Get("client_id"))
		return
	}

	tenders, err := c.service.Tenders(r.Context(), limit, offset, models.TenderStatus(query.Get("status")), clientId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, tenders)
}

// GET /api/tenders/{id}
func (c *Controller) GetTender(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	tender, err := c.service.TenderById(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, tender)
}

// PUT /api/tenders/{id}/status
func (c *Controller) SetTenderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	status := models.TenderStatus(r.URL.Query().Get("status"))
	if len(status) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty status supplied")
		return
	}

	tender, err := c.service.TransitionTender(r.Context(), username, id, status)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, tender)
}

//// Proposals

// POST /api/proposals
func (c *Controller) NewProposal(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewProposalReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := c.service.AddProposal(r.Context(), req.Username, models.Proposal{
		TenderId:         req.TenderId,
		VendorId:         req.VendorId,
		TechnicalInput:   req.TechnicalInput,
		TechnicalScore:   req.TechnicalScore,
		TechnicalRemarks: req.TechnicalRemarks,
		FinancialInput:   req.FinancialInput,
		FinancialRemarks: req.FinancialRemarks,
		MarginAnalysis:   req.MarginAnalysis,
		DocumentURL:      req.DocumentURL,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, proposal)
}

// GET /api/proposals
func (c *Controller) GetProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	tenderId, err := c.getQueryInt(query, "tender_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'tender_id' query parameter: "+query.Get("tender_id"))
		return
	}
	vendorId, err := c.getQueryInt(query, "vendor_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'vendor_id' query parameter: "+query.Get("vendor_id"))
		return
	}

	proposals, err := c.service.Proposals(r.Context(), limit, offset, tenderId, vendorId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, proposals)
}

// GET /api/proposals/{id}
func (c *Controller) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	proposal, err := c.service.ProposalById(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, proposal)
}

// PATCH /api/proposals/{id}
func (c *Controller) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}
	req, err := ParseProposalUpdateReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	proposal, err := c.service.UpdateProposal(r.Context(), req.Username, id, req.ProposalUpdate)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, proposal)
}

//// Contracts

// POST /api/contracts
func (c *Controller) NewContract(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewContractReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := c.service.AddContract(r.Context(), req.Username, models.Contract{
		TenderId:    req.TenderId,
		Content:     req.Content,
		ScopeOfWork: req.ScopeOfWork,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contract)
}

// GET /api/contracts
func (c *Controller) GetContracts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	tenderId, err := c.getQueryInt(query, "tender_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'tender_id' query parameter: "+query.Get("tender_id"))
		return
	}

	contracts, err := c.service.Contracts(r.Context(), limit, offset, tenderId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contracts)
}

// GET /api/contracts/{id}
func (c *Controller) GetContract(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	contract, err := c.service.ContractById(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contract)
}

// PUT /api/contracts/{id}/sign
func (c *Controller) SignContract(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	contract, err := c.service.SignContract(r.Context(), username, id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contract)
}

// PUT /api/contracts/{id}/status
func (c *Controller) SetContractStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	status := models.ContractStatus(r.URL.Query().Get("status"))
	if len(status) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty status supplied")
		return
	}

	contract, err := c.service.TransitionContract(r.Context(), username, id, status)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contract)
}

// PUT /api/contracts/{id}/vetting
func (c *Controller) SetContractVetting(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	vetting := models.VettingStatus(r.URL.Query().Get("vetting_status"))
	if len(vetting) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty vetting_status supplied")
		return
	}

	contract, err := c.service.VetContract(r.Context(), username, id, vetting)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, contract)
}

//// Purchase orders

// POST /api/purchase_orders
func (c *Controller) NewPO(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewPOReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	po, err := c.service.AddPO(r.Context(), req.Username, models.PurchaseOrder{
		PONumber:    req.PONumber,
		TenderId:    req.TenderId,
		VendorId:    req.VendorId,
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		ApprovedBy:  req.ApprovedBy,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, po)
}

// GET /api/purchase_orders
func (c *Controller) GetPOs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	tenderId, err := c.getQueryInt(query, "tender_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'tender_id' query parameter: "+query.Get("tender_id"))
		return
	}
	vendorId, err := c.getQueryInt(query, "vendor_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'vendor_id' query parameter: "+query.Get("vendor_id"))
		return
	}

	orders, err := c.service.POs(r.Context(), limit, offset, tenderId, vendorId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, orders)
}

// GET /api/purchase_orders/{id}
func (c *Controller) GetPO(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	po, err := c.service.POById(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, po)
}

// PUT /api/purchase_orders/{id}/acknowledge
func (c *Controller) AcknowledgePO(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	po, err := c.service.AcknowledgePO(r.Context(), username, id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, po)
}

//// Invoices

// POST /api/invoices
func (c *Controller) NewInvoice(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewInvoiceReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	invoice, err := c.service.AddInvoice(r.Context(), req.Username, models.Invoice{
		InvoiceNumber:  req.InvoiceNumber,
		POId:           req.POId,
		Amount:         req.Amount,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalPayable:   req.TotalPayable,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, invoice)
}

// GET /api/invoices
func (c *Controller) GetInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	poId, err := c.getQueryInt(query, "po_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'po_id' query parameter: "+query.Get("po_id"))
		return
	}

	invoices, err := c.service.Invoices(r.Context(), limit, offset, poId, models.InvoiceStatus(query.Get("status")))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, invoices)
}

// GET /api/invoices/{id}
func (c *Controller) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	invoice, err := c.service.InvoiceById(r.Context(), id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, invoice)
}

// PUT /api/invoices/{id}/issue
func (c *Controller) IssueInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	invoice, err := c.service.IssueInvoice(r.Context(), username, id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, invoice)
}

//// Payments

// POST /api/payments
func (c *Controller) NewPayment(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewPaymentReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := c.service.AddPayment(r.Context(), req.Username, models.Payment{
		InvoiceId:     req.InvoiceId,
		AmountPaid:    req.AmountPaid,
		PaymentMode:   req.PaymentMode,
		TransactionId: req.TransactionId,
		PaymentDate:   req.PaymentDate,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payment)
}

// GET /api/payments
func (c *Controller) GetPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	invoiceId, err := c.getQueryInt(query, "invoice_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'invoice_id' query parameter: "+query.Get("invoice_id"))
		return
	}

	payments, err := c.service.Payments(r.Context(), limit, offset, invoiceId, models.PaymentStatus(query.Get("status")))
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payments)
}

// PUT /api/payments/{id}/verify?completion_date=RFC3339
func (c *Controller) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	var completedAt *time.Time
	if raw := r.URL.Query().Get("completion_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.errorResponse(w, http.StatusBadRequest, "invalid value of 'completion_date' query parameter: "+raw)
			return
		}
		completedAt = &parsed
	}

	payment, err := c.service.VerifyPayment(r.Context(), username, id, completedAt)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payment)
}

// PUT /api/payments/{id}/fail
func (c *Controller) FailPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}
	username, ok := c.getUsername(w, r)
	if !ok {
		return
	}

	payment, err := c.service.FailPayment(r.Context(), username, id)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, payment)
}

//// Milestones

// POST /api/milestones
func (c *Controller) NewMilestone(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewMilestoneReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	milestone, err := c.service.AddMilestone(r.Context(), req.Username, models.Milestone{
		TenderId:    req.TenderId,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, milestone)
}

// GET /api/milestones
func (c *Controller) GetMilestones(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}
	tenderId, err := c.getQueryInt(query, "tender_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'tender_id' query parameter: "+query.Get("tender_id"))
		return
	}

	milestones, err := c.service.Milestones(r.Context(), limit, offset, tenderId)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, milestones)
}

// PATCH /api/milestones/{id}
func (c *Controller) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}
	req, err := ParseMilestoneUpdateReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	milestone, err := c.service.UpdateMilestone(r.Context(), req.Username, id, req.MilestoneUpdate)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, milestone)
}

//// Workflows

// POST /api/workflows
func (c *Controller) NewWorkflow(w http.ResponseWriter, r *http.Request) {
	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}

	req, err := ParseNewWorkflowReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	wf, err := c.service.AddWorkflow(r.Context(), req.Username, models.ApprovalWorkflow{
		EntityType: req.EntityType,
		EntityId:   req.EntityId,
		Status:     req.Status,
		NextStep:   req.NextStep,
	})
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, wf)
}

// GET /api/workflows
func (c *Controller) GetWorkflows(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}

	entityType := query.Get("entity_type")
	entityId, err := c.getQueryInt(query, "entity_id")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'entity_id' query parameter: "+query.Get("entity_id"))
		return
	}

	// entity_type + entity_id pins down a single workflow
	if len(entityType) > 0 && entityId > 0 {
		wf, err := c.service.WorkflowByEntity(r.Context(), entityType, entityId)
		if err != nil {
			c.serviceErrorResponse(w, err)
			return
		}
		c.marshalResponse(w, wf)
		return
	}

	workflows, err := c.service.Workflows(r.Context(), limit, offset, entityType)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, workflows)
}

// PUT /api/workflows/{id}
func (c *Controller) AdvanceWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := c.getPathId(w, r)
	if !ok {
		return
	}

	data, err := c.readBody(r.Body)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not read request body")
		return
	}
	req, err := ParseWorkflowAdvanceReq(data)
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return
	}

	wf, err := c.service.AdvanceWorkflow(r.Context(), req.Username, id, req.Status, req.NextStep)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, wf)
}

//// Audit and metrics

// GET /api/audit_logs
func (c *Controller) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return
	}

	logs, err := c.service.RecentAuditLogs(r.Context(), limit)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, logs)
}

// GET /api/metrics/summary
func (c *Controller) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.MetricsSummary(r.Context())
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, summary)
}

// GET /api/metrics/tender_scores
func (c *Controller) GetTenderScores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, offset, ok := c.getPageParams(w, query)
	if !ok {
		return
	}

	scores, err := c.service.TenderScores(r.Context(), limit, offset)
	if err != nil {
		c.serviceErrorResponse(w, err)
		return
	}

	c.marshalResponse(w, scores)
}

// Service

type ErrorResponse struct {
	Reason string `json:"reason"`
}

func (c *Controller) getQueryInt(query url.Values, key string) (int, error) {
	strs, ok := query[key]
	if ok && len(strs) > 0 {
		return strconv.Atoi(strs[0])
	}
	return 0, nil
}

func (c *Controller) getPageParams(w http.ResponseWriter, query url.Values) (limit, offset int, ok bool) {
	limit, err := c.getQueryInt(query, "limit")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'limit' query parameter: "+query.Get("limit"))
		return 0, 0, false
	}

	offset, err = c.getQueryInt(query, "offset")
	if err != nil {
		c.errorResponse(w, http.StatusBadRequest, "invalid value of 'offset' query parameter: "+query.Get("offset"))
		return 0, 0, false
	}

	return limit, offset, true
}

func (c *Controller) getPathId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		c.errorResponse(w, http.StatusBadRequest, "malformed id supplied: "+chi.URLParam(r, "id"))
		return 0, false
	}
	return id, true
}

func (c *Controller) getUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.URL.Query().Get("username")
	if len(username) == 0 {
		c.errorResponse(w, http.StatusBadRequest, "empty username supplied")
		return "", false
	}
	return username, true
}

func (c *Controller) errorResponse(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)

	data, err := json.Marshal(ErrorResponse{Reason: text})
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}

	_, err = w.Write(data)
	if err != nil {
		log.Printf("controller.Controller.errorResponse: %s", err)
		return
	}
}

func (c *Controller) serviceErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrCredentials):
		c.errorResponse(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, models.ErrValidation):
		c.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		c.errorResponse(w, http.StatusNotFound, "requested record does not exist")
	case errors.Is(err, models.ErrInvalidTransition):
		c.errorResponse(w, http.StatusConflict, "requested status change is not allowed")
	case errors.Is(err, models.ErrConflict):
		c.errorResponse(w, http.StatusConflict, "request conflicts with an existing record")
	default:
		log.Println("controller:", err)
		c.errorResponse(w, http.StatusInternalServerError, "internal server error: "+err.Error())
	}
}

func (c *Controller) marshalResponse(w http.ResponseWriter, data any) {
	d, err := json.Marshal(data)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not marshal response data")
		return
	}

	_, err = w.Write(d)
	if err != nil {
		c.errorResponse(w, http.StatusInternalServerError, "could not write response data")
		return
	}
}

func (c *Controller) readBody(src io.ReadCloser) ([]byte, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	src.Close()
	return data, nil
}
