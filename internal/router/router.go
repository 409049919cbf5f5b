package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"procurement/internal/controller"
)

func NewRouter(c *controller.Controller) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", c.Ping)

		r.Post("/users", c.Register)
		r.Get("/users", c.GetUsers)
		r.Post("/login", c.Login)

		r.Route("/tenders", func(r chi.Router) {
			r.Post("/", c.NewTender)
			r.Get("/", c.GetTenders)
			r.Get("/{id}", c.GetTender)
			r.Put("/{id}/status", c.SetTenderStatus)
		})

		r.Route("/proposals", func(r chi.Router) {
			r.Post("/", c.NewProposal)
			r.Get("/", c.GetProposals)
			r.Get("/{id}", c.GetProposal)
			r.Patch("/{id}", c.UpdateProposal)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", c.NewContract)
			r.Get("/", c.GetContracts)
			r.Get("/{id}", c.GetContract)
			r.Put("/{id}/sign", c.SignContract)
			r.Put("/{id}/status", c.SetContractStatus)
			r.Put("/{id}/vetting", c.SetContractVetting)
		})

		r.Route("/purchase_orders", func(r chi.Router) {
			r.Post("/", c.NewPO)
			r.Get("/", c.GetPOs)
			r.Get("/{id}", c.GetPO)
			r.Put("/{id}/acknowledge", c.AcknowledgePO)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", c.NewInvoice)
			r.Get("/", c.GetInvoices)
			r.Get("/{id}", c.GetInvoice)
			r.Put("/{id}/issue", c.IssueInvoice)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", c.NewPayment)
			r.Get("/", c.GetPayments)
			r.Put("/{id}/verify", c.VerifyPayment)
			r.Put("/{id}/fail", c.FailPayment)
		})

		r.Route("/milestones", func(r chi.Router) {
			r.Post("/", c.NewMilestone)
			r.Get("/", c.GetMilestones)
			r.Patch("/{id}", c.UpdateMilestone)
		})

		r.Route("/workflows", func(r chi.Router) {
			r.Post("/", c.NewWorkflow)
			r.Get("/", c.GetWorkflows)
			r.Put("/{id}", c.AdvanceWorkflow)
		})

		r.Get("/audit_logs", c.GetAuditLogs)
		r.Get("/metrics/summary", c.GetMetricsSummary)
		r.Get("/metrics/tender_scores", c.GetTenderScores)
	})

	return r
}
