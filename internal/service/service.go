package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"procurement/internal/models"
	"procurement/internal/refid"
	"procurement/internal/repository"
)

// refidAttempts bounds regeneration of reference codes on unique collisions.
const refidAttempts = 5

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

//// Users

func (s *Service) Register(ctx context.Context, user models.User) (models.User, error) {
	if user.Username == "" || user.Password == "" {
		return user, fmt.Errorf("service.Service.Register: %w: username and password are required", models.ErrValidation)
	}
	if !models.ValidRole(user.Role) {
		return user, fmt.Errorf("service.Service.Register: %w: unknown role %q", models.ErrValidation, user.Role)
	}

	user, err := s.repo.AddUser(ctx, user)
	if err != nil {
		return user, fmt.Errorf("service.Service.Register: %w", err)
	}
	return user, nil
}

// Login resolves credentials. Unknown usernames and wrong passwords produce
// the same error, so callers cannot probe which usernames exist.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	user, ok, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.Login: %w", err)
	}
	if !ok || user.Password != password {
		return models.User{}, fmt.Errorf("service.Service.Login: %w", models.ErrCredentials)
	}
	return user, nil
}

func (s *Service) Users(ctx context.Context, role models.Role) ([]models.User, error) {
	if role != "" && !models.ValidRole(role) {
		return nil, fmt.Errorf("service.Service.Users: %w: unknown role %q", models.ErrValidation, role)
	}

	users, err := s.repo.Users(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Users: %w", err)
	}
	return users, nil
}

//// Tenders

func (s *Service) AddTender(ctx context.Context, username string, tender models.Tender) (models.Tender, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return tender, fmt.Errorf("service.Service.AddTender: %w", err)
	}

	if tender.ClientId == 0 {
		tender.ClientId = actor.Id
	}
	client, ok, err := s.repo.UserById(ctx, tender.ClientId)
	if err != nil {
		return tender, fmt.Errorf("service.Service.AddTender: %w", err)
	}
	if !ok {
		return tender, fmt.Errorf("service.Service.AddTender: %w: client %d", models.ErrNotFound, tender.ClientId)
	}
	if client.Role != models.RoleClient && client.Role != models.RoleAdmin {
		return tender, fmt.Errorf("service.Service.AddTender: %w: user %s cannot own tenders", models.ErrValidation, client.Username)
	}

	if tender.Budget.IsNegative() || tender.EstimatedCost.IsNegative() {
		return tender, fmt.Errorf("service.Service.AddTender: %w: budget and estimated cost must not be negative", models.ErrValidation)
	}
	if tender.Quantity < 0 {
		return tender, fmt.Errorf("service.Service.AddTender: %w: quantity must not be negative", models.ErrValidation)
	}

	tender.Status = models.TenderOpen

	generate := tender.TenderId == ""
	for attempt := 0; ; attempt++ {
		if generate {
			tender.TenderId = refid.New(refid.PrefixTender)
		}
		tender, err = s.repo.AddTender(ctx, tender, actor.Id)
		if err == nil {
			return tender, nil
		}
		if generate && errors.Is(err, models.ErrConflict) && attempt < refidAttempts {
			continue
		}
		return tender, fmt.Errorf("service.Service.AddTender: %w", err)
	}
}

func (s *Service) Tenders(ctx context.Context, limit, offset int, status models.TenderStatus, clientId int) ([]models.Tender, error) {
	if status != "" && !models.ValidTenderStatus(status) {
		return nil, fmt.Errorf("service.Service.Tenders: %w: unknown status %q", models.ErrValidation, status)
	}

	tenders, err := s.repo.Tenders(ctx, limit, offset, status, clientId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Tenders: %w", err)
	}
	return tenders, nil
}

func (s *Service) TenderById(ctx context.Context, id int) (models.Tender, error) {
	tender, err := s.repo.TenderById(ctx, id)
	if err != nil {
		return tender, fmt.Errorf("service.Service.TenderById: %w", err)
	}
	return tender, nil
}

func (s *Service) TransitionTender(ctx context.Context, username string, id int, to models.TenderStatus) (models.Tender, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Tender{}, fmt.Errorf("service.Service.TransitionTender: %w", err)
	}
	if !models.ValidTenderStatus(to) {
		return models.Tender{}, fmt.Errorf("service.Service.TransitionTender: %w: unknown status %q", models.ErrValidation, to)
	}

	tender, err := s.repo.TransitionTender(ctx, id, to, actor.Id)
	if err != nil {
		return tender, fmt.Errorf("service.Service.TransitionTender: %w", err)
	}
	return tender, nil
}

//// Proposals

func (s *Service) AddProposal(ctx context.Context, username string, proposal models.Proposal) (models.Proposal, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w", err)
	}

	if proposal.VendorId == 0 {
		proposal.VendorId = actor.Id
	}
	vendor, ok, err := s.repo.UserById(ctx, proposal.VendorId)
	if err != nil {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w", err)
	}
	if !ok {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w: vendor %d", models.ErrNotFound, proposal.VendorId)
	}
	if vendor.Role != models.RoleVendor {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w: user %s is not a vendor", models.ErrValidation, vendor.Username)
	}

	if _, err = s.repo.TenderById(ctx, proposal.TenderId); err != nil {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w", err)
	}

	if !proposal.FinancialInput.IsPositive() {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w: financial input must be positive", models.ErrValidation)
	}
	if proposal.TechnicalScore < 0 || proposal.TechnicalScore > 100 {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w: technical score must be within 0..100", models.ErrValidation)
	}

	proposal.Status = models.ProposalSubmitted
	proposal, err = s.repo.AddProposal(ctx, proposal, actor.Id)
	if err != nil {
		return proposal, fmt.Errorf("service.Service.AddProposal: %w", err)
	}
	return proposal, nil
}

func (s *Service) Proposals(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.Proposal, error) {
	proposals, err := s.repo.Proposals(ctx, limit, offset, tenderId, vendorId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Proposals: %w", err)
	}
	return proposals, nil
}

func (s *Service) ProposalById(ctx context.Context, id int) (models.Proposal, error) {
	proposal, err := s.repo.ProposalById(ctx, id)
	if err != nil {
		return proposal, fmt.Errorf("service.Service.ProposalById: %w", err)
	}
	return proposal, nil
}

func (s *Service) UpdateProposal(ctx context.Context, username string, id int, upd models.ProposalUpdate) (models.Proposal, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Proposal{}, fmt.Errorf("service.Service.UpdateProposal: %w", err)
	}

	// an empty update returns the stored row untouched, with no audit entry
	if upd.Empty() {
		proposal, err := s.repo.ProposalById(ctx, id)
		if err != nil {
			return proposal, fmt.Errorf("service.Service.UpdateProposal: %w", err)
		}
		return proposal, nil
	}

	if upd.TechnicalScore != nil && (*upd.TechnicalScore < 0 || *upd.TechnicalScore > 100) {
		return models.Proposal{}, fmt.Errorf("service.Service.UpdateProposal: %w: technical score must be within 0..100", models.ErrValidation)
	}
	if upd.Status != nil && !models.ValidProposalStatus(*upd.Status) {
		return models.Proposal{}, fmt.Errorf("service.Service.UpdateProposal: %w: unknown status %q", models.ErrValidation, *upd.Status)
	}

	proposal, err := s.repo.UpdateProposal(ctx, id, upd, actor.Id)
	if err != nil {
		return proposal, fmt.Errorf("service.Service.UpdateProposal: %w", err)
	}
	return proposal, nil
}

//// Contracts

func (s *Service) AddContract(ctx context.Context, username string, contract models.Contract) (models.Contract, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return contract, fmt.Errorf("service.Service.AddContract: %w", err)
	}

	if !contract.StartDate.Before(contract.EndDate) {
		return contract, fmt.Errorf("service.Service.AddContract: %w: start date must precede end date", models.ErrValidation)
	}

	contract.Status = models.ContractDraft
	contract.VettingStatus = models.VettingPending
	contract, err = s.repo.AddContract(ctx, contract, actor.Id)
	if err != nil {
		return contract, fmt.Errorf("service.Service.AddContract: %w", err)
	}
	return contract, nil
}

func (s *Service) Contracts(ctx context.Context, limit, offset, tenderId int) ([]models.Contract, error) {
	contracts, err := s.repo.Contracts(ctx, limit, offset, tenderId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Contracts: %w", err)
	}
	return contracts, nil
}

func (s *Service) ContractById(ctx context.Context, id int) (models.Contract, error) {
	contract, err := s.repo.ContractById(ctx, id)
	if err != nil {
		return contract, fmt.Errorf("service.Service.ContractById: %w", err)
	}
	return contract, nil
}

func (s *Service) SignContract(ctx context.Context, username string, id int) (models.Contract, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Contract{}, fmt.Errorf("service.Service.SignContract: %w", err)
	}

	contract, err := s.repo.SignContract(ctx, id, actor.Id)
	if err != nil {
		return contract, fmt.Errorf("service.Service.SignContract: %w", err)
	}
	return contract, nil
}

func (s *Service) TransitionContract(ctx context.Context, username string, id int, to models.ContractStatus) (models.Contract, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Contract{}, fmt.Errorf("service.Service.TransitionContract: %w", err)
	}
	if !models.ValidContractStatus(to) {
		return models.Contract{}, fmt.Errorf("service.Service.TransitionContract: %w: unknown status %q", models.ErrValidation, to)
	}

	contract, err := s.repo.TransitionContract(ctx, id, to, actor.Id)
	if err != nil {
		return contract, fmt.Errorf("service.Service.TransitionContract: %w", err)
	}
	return contract, nil
}

func (s *Service) VetContract(ctx context.Context, username string, id int, vetting models.VettingStatus) (models.Contract, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Contract{}, fmt.Errorf("service.Service.VetContract: %w", err)
	}
	if !models.ValidVettingStatus(vetting) {
		return models.Contract{}, fmt.Errorf("service.Service.VetContract: %w: unknown vetting status %q", models.ErrValidation, vetting)
	}

	contract, err := s.repo.VetContract(ctx, id, vetting, actor.Id)
	if err != nil {
		return contract, fmt.Errorf("service.Service.VetContract: %w", err)
	}
	return contract, nil
}

//// Purchase orders

func (s *Service) AddPO(ctx context.Context, username string, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return po, fmt.Errorf("service.Service.AddPO: %w", err)
	}

	vendor, ok, err := s.repo.UserById(ctx, po.VendorId)
	if err != nil {
		return po, fmt.Errorf("service.Service.AddPO: %w", err)
	}
	if !ok {
		return po, fmt.Errorf("service.Service.AddPO: %w: vendor %d", models.ErrNotFound, po.VendorId)
	}
	if vendor.Role != models.RoleVendor {
		return po, fmt.Errorf("service.Service.AddPO: %w: user %s is not a vendor", models.ErrValidation, vendor.Username)
	}

	if _, err = s.repo.TenderById(ctx, po.TenderId); err != nil {
		return po, fmt.Errorf("service.Service.AddPO: %w", err)
	}
	if po.TotalAmount.IsNegative() {
		return po, fmt.Errorf("service.Service.AddPO: %w: total amount must not be negative", models.ErrValidation)
	}

	if po.ApprovedBy == "" {
		po.ApprovedBy = actor.Username
	}
	po.Status = models.POCreated

	generate := po.PONumber == ""
	for attempt := 0; ; attempt++ {
		if generate {
			po.PONumber = refid.New(refid.PrefixPO)
		}
		po, err = s.repo.AddPO(ctx, po, actor.Id)
		if err == nil {
			return po, nil
		}
		if generate && errors.Is(err, models.ErrConflict) && attempt < refidAttempts {
			continue
		}
		return po, fmt.Errorf("service.Service.AddPO: %w", err)
	}
}

func (s *Service) POs(ctx context.Context, limit, offset, tenderId, vendorId int) ([]models.PurchaseOrder, error) {
	orders, err := s.repo.POs(ctx, limit, offset, tenderId, vendorId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.POs: %w", err)
	}
	return orders, nil
}

func (s *Service) POById(ctx context.Context, id int) (models.PurchaseOrder, error) {
	po, err := s.repo.POById(ctx, id)
	if err != nil {
		return po, fmt.Errorf("service.Service.POById: %w", err)
	}
	return po, nil
}

func (s *Service) AcknowledgePO(ctx context.Context, username string, id int) (models.PurchaseOrder, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.AcknowledgePO: %w", err)
	}

	po, err := s.repo.AcknowledgePO(ctx, id, actor.Id)
	if err != nil {
		return po, fmt.Errorf("service.Service.AcknowledgePO: %w", err)
	}
	return po, nil
}

//// Invoices

func (s *Service) AddInvoice(ctx context.Context, username string, invoice models.Invoice) (models.Invoice, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return invoice, fmt.Errorf("service.Service.AddInvoice: %w", err)
	}

	if _, err = s.repo.POById(ctx, invoice.POId); err != nil {
		return invoice, fmt.Errorf("service.Service.AddInvoice: %w", err)
	}

	if invoice.TotalPayable.IsZero() {
		invoice.TotalPayable = invoice.Amount.Add(invoice.TaxAmount).Sub(invoice.DiscountAmount)
	}
	if !invoice.PayableConsistent() {
		return invoice, fmt.Errorf("service.Service.AddInvoice: %w: total payable must equal amount + tax - discount", models.ErrValidation)
	}
	if invoice.TotalPayable.IsNegative() {
		return invoice, fmt.Errorf("service.Service.AddInvoice: %w: total payable must not be negative", models.ErrValidation)
	}

	invoice.Status = models.InvoiceDraft

	generate := invoice.InvoiceNumber == ""
	for attempt := 0; ; attempt++ {
		if generate {
			invoice.InvoiceNumber = refid.New(refid.PrefixInvoice)
		}
		invoice, err = s.repo.AddInvoice(ctx, invoice, actor.Id)
		if err == nil {
			return invoice, nil
		}
		if generate && errors.Is(err, models.ErrConflict) && attempt < refidAttempts {
			continue
		}
		return invoice, fmt.Errorf("service.Service.AddInvoice: %w", err)
	}
}

func (s *Service) Invoices(ctx context.Context, limit, offset, poId int, status models.InvoiceStatus) ([]models.Invoice, error) {
	if status != "" && !models.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("service.Service.Invoices: %w: unknown status %q", models.ErrValidation, status)
	}

	invoices, err := s.repo.Invoices(ctx, limit, offset, poId, status)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Invoices: %w", err)
	}
	return invoices, nil
}

func (s *Service) InvoiceById(ctx context.Context, id int) (models.Invoice, error) {
	invoice, err := s.repo.InvoiceById(ctx, id)
	if err != nil {
		return invoice, fmt.Errorf("service.Service.InvoiceById: %w", err)
	}
	return invoice, nil
}

func (s *Service) IssueInvoice(ctx context.Context, username string, id int) (models.Invoice, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("service.Service.IssueInvoice: %w", err)
	}

	invoice, err := s.repo.IssueInvoice(ctx, id, actor.Id)
	if err != nil {
		return invoice, fmt.Errorf("service.Service.IssueInvoice: %w", err)
	}
	return invoice, nil
}

//// Payments

func (s *Service) AddPayment(ctx context.Context, username string, payment models.Payment) (models.Payment, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return payment, fmt.Errorf("service.Service.AddPayment: %w", err)
	}

	if !payment.AmountPaid.IsPositive() {
		return payment, fmt.Errorf("service.Service.AddPayment: %w: amount paid must be positive", models.ErrValidation)
	}

	payment.Status = models.PaymentPending
	payment.CompletionDate = nil
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}

	generate := payment.TransactionId == ""
	for attempt := 0; ; attempt++ {
		if generate {
			payment.TransactionId = refid.New(refid.PrefixPayment)
		}
		payment, err = s.repo.AddPayment(ctx, payment, actor.Id)
		if err == nil {
			return payment, nil
		}
		if generate && errors.Is(err, models.ErrConflict) && attempt < refidAttempts {
			continue
		}
		return payment, fmt.Errorf("service.Service.AddPayment: %w", err)
	}
}

func (s *Service) Payments(ctx context.Context, limit, offset, invoiceId int, status models.PaymentStatus) ([]models.Payment, error) {
	if status != "" && !models.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("service.Service.Payments: %w: unknown status %q", models.ErrValidation, status)
	}

	payments, err := s.repo.Payments(ctx, limit, offset, invoiceId, status)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Payments: %w", err)
	}
	return payments, nil
}

// VerifyPayment confirms a payment, stamping completedAt as the completion
// date when given, or the current time otherwise.
func (s *Service) VerifyPayment(ctx context.Context, username string, id int, completedAt *time.Time) (models.Payment, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Payment{}, fmt.Errorf("service.Service.VerifyPayment: %w", err)
	}

	payment, err := s.repo.VerifyPayment(ctx, id, completedAt, actor.Id)
	if err != nil {
		return payment, fmt.Errorf("service.Service.VerifyPayment: %w", err)
	}
	return payment, nil
}

func (s *Service) FailPayment(ctx context.Context, username string, id int) (models.Payment, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Payment{}, fmt.Errorf("service.Service.FailPayment: %w", err)
	}

	payment, err := s.repo.FailPayment(ctx, id, actor.Id)
	if err != nil {
		return payment, fmt.Errorf("service.Service.FailPayment: %w", err)
	}
	return payment, nil
}

//// Milestones

func (s *Service) AddMilestone(ctx context.Context, username string, milestone models.Milestone) (models.Milestone, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return milestone, fmt.Errorf("service.Service.AddMilestone: %w", err)
	}

	if _, err = s.repo.TenderById(ctx, milestone.TenderId); err != nil {
		return milestone, fmt.Errorf("service.Service.AddMilestone: %w", err)
	}
	if milestone.Title == "" {
		return milestone, fmt.Errorf("service.Service.AddMilestone: %w: title is required", models.ErrValidation)
	}

	milestone.Status = models.MilestonePending
	milestone.InspectionStatus = models.InspectionPending
	milestone, err = s.repo.AddMilestone(ctx, milestone, actor.Id)
	if err != nil {
		return milestone, fmt.Errorf("service.Service.AddMilestone: %w", err)
	}
	return milestone, nil
}

func (s *Service) Milestones(ctx context.Context, limit, offset, tenderId int) ([]models.Milestone, error) {
	milestones, err := s.repo.Milestones(ctx, limit, offset, tenderId)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Milestones: %w", err)
	}
	return milestones, nil
}

func (s *Service) UpdateMilestone(ctx context.Context, username string, id int, upd models.MilestoneUpdate) (models.Milestone, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.Milestone{}, fmt.Errorf("service.Service.UpdateMilestone: %w", err)
	}

	if upd.Empty() {
		milestone, err := s.repo.MilestoneById(ctx, id)
		if err != nil {
			return milestone, fmt.Errorf("service.Service.UpdateMilestone: %w", err)
		}
		return milestone, nil
	}

	if upd.Status != nil && !models.ValidMilestoneStatus(*upd.Status) {
		return models.Milestone{}, fmt.Errorf("service.Service.UpdateMilestone: %w: unknown status %q", models.ErrValidation, *upd.Status)
	}
	if upd.InspectionStatus != nil && !models.ValidInspectionStatus(*upd.InspectionStatus) {
		return models.Milestone{}, fmt.Errorf("service.Service.UpdateMilestone: %w: unknown inspection status %q", models.ErrValidation, *upd.InspectionStatus)
	}

	milestone, err := s.repo.UpdateMilestone(ctx, id, upd, actor.Id)
	if err != nil {
		return milestone, fmt.Errorf("service.Service.UpdateMilestone: %w", err)
	}
	return milestone, nil
}

//// Approval workflows

func (s *Service) AddWorkflow(ctx context.Context, username string, wf models.ApprovalWorkflow) (models.ApprovalWorkflow, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return wf, fmt.Errorf("service.Service.AddWorkflow: %w", err)
	}

	if wf.EntityType == "" || wf.EntityId == 0 {
		return wf, fmt.Errorf("service.Service.AddWorkflow: %w: entity type and id are required", models.ErrValidation)
	}

	generate := wf.WorkflowId == ""
	for attempt := 0; ; attempt++ {
		if generate {
			wf.WorkflowId = refid.New(refid.PrefixWorkflow)
		}
		wf, err = s.repo.AddWorkflow(ctx, wf, actor.Id)
		if err == nil {
			return wf, nil
		}
		// regenerate only on workflow_id collisions; a second workflow for the
		// same entity is a genuine conflict and surfaces as one
		if generate && errors.Is(err, models.ErrConflict) && attempt < refidAttempts &&
			strings.Contains(err.Error(), "workflow_id") {
			continue
		}
		return wf, fmt.Errorf("service.Service.AddWorkflow: %w", err)
	}
}

func (s *Service) WorkflowByEntity(ctx context.Context, entityType string, entityId int) (models.ApprovalWorkflow, error) {
	wf, err := s.repo.WorkflowByEntity(ctx, entityType, entityId)
	if err != nil {
		return wf, fmt.Errorf("service.Service.WorkflowByEntity: %w", err)
	}
	return wf, nil
}

func (s *Service) Workflows(ctx context.Context, limit, offset int, entityType string) ([]models.ApprovalWorkflow, error) {
	workflows, err := s.repo.Workflows(ctx, limit, offset, entityType)
	if err != nil {
		return nil, fmt.Errorf("service.Service.Workflows: %w", err)
	}
	return workflows, nil
}

func (s *Service) AdvanceWorkflow(ctx context.Context, username string, id int, status, nextStep string) (models.ApprovalWorkflow, error) {
	actor, err := s.actingUser(ctx, username)
	if err != nil {
		return models.ApprovalWorkflow{}, fmt.Errorf("service.Service.AdvanceWorkflow: %w", err)
	}

	wf, err := s.repo.AdvanceWorkflow(ctx, id, status, nextStep, actor.Id)
	if err != nil {
		return wf, fmt.Errorf("service.Service.AdvanceWorkflow: %w", err)
	}
	return wf, nil
}

//// Audit and metrics

func (s *Service) RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	logs, err := s.repo.RecentAuditLogs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service.Service.RecentAuditLogs: %w", err)
	}
	return logs, nil
}

func (s *Service) MetricsSummary(ctx context.Context) (models.MetricsSummary, error) {
	summary, err := s.repo.MetricsSummary(ctx)
	if err != nil {
		return summary, fmt.Errorf("service.Service.MetricsSummary: %w", err)
	}
	return summary, nil
}

func (s *Service) TenderScores(ctx context.Context, limit, offset int) ([]models.TenderScore, error) {
	scores, err := s.repo.TenderScores(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("service.Service.TenderScores: %w", err)
	}
	return scores, nil
}

//// Service

func (s *Service) actingUser(ctx context.Context, username string) (models.User, error) {
	user, ok, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("service.Service.actingUser: %w", err)
	}
	if !ok {
		return models.User{}, fmt.Errorf("service.Service.actingUser: %w: unknown user %s", models.ErrNotFound, username)
	}
	return user, nil
}
