package main

import (
	"crm-platform/internal/auth"
	"crm-platform/internal/httpapi"
	"crm-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, sessions *auth.Sessions, cookies auth.CookieWriter) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// AUTH routes. Login and refresh set HttpOnly cookies; logout works with
	// or without a live session so clients can always clear state.
	authGroup := r.Group("/v1/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(auth.RequireSession(sessions, cookies))
	v1.Use(rbac.RequireWorkspace())
	{
		v1.GET("/me", h.Me)

		clientsGroup := v1.Group("/clients")
		{
			clientsGroup.POST("", h.CreateClient)
			clientsGroup.GET("", h.ListClients)
			clientsGroup.GET("/:id", h.GetClient)
			clientsGroup.PUT("/:id", h.UpdateClient)
			clientsGroup.POST("/:id/archive", h.ArchiveClient)
		}

		proposalsGroup := v1.Group("/proposals")
		{
			proposalsGroup.POST("", h.CreateProposal)
			proposalsGroup.GET("", h.ListProposals)
			proposalsGroup.GET("/:id", h.GetProposal)
			proposalsGroup.POST("/:id/send", h.SendProposal)
			proposalsGroup.POST("/:id/accept", h.AcceptProposal)
			proposalsGroup.POST("/:id/decline", h.DeclineProposal)
		}

		agreementsGroup := v1.Group("/agreements")
		{
			agreementsGroup.POST("", h.CreateAgreement)
			agreementsGroup.GET("", h.ListAgreements)
			agreementsGroup.GET("/:id", h.GetAgreement)
			agreementsGroup.POST("/:id/terminate", h.TerminateAgreement)
		}

		invoicesGroup := v1.Group("/invoices")
		{
			invoicesGroup.POST("", h.CreateInvoice)
			invoicesGroup.GET("", h.ListInvoices)
			invoicesGroup.GET("/:id", h.GetInvoice)
			invoicesGroup.POST("/:id/issue", h.IssueInvoice)
			invoicesGroup.POST("/:id/void", h.VoidInvoice)
			invoicesGroup.POST("/:id/payments", h.RecordPayment)
			invoicesGroup.GET("/:id/payments", h.ListInvoicePayments)
		}

		expensesGroup := v1.Group("/expenses")
		{
			expensesGroup.POST("", h.CreateExpense)
			expensesGroup.GET("", h.ListExpenses)
			expensesGroup.GET("/:id", h.GetExpense)
			expensesGroup.PUT("/:id", h.UpdateExpense)
		}

		documentsGroup := v1.Group("/documents")
		{
			documentsGroup.POST("", h.RegisterUpload)
			documentsGroup.GET("", h.ListDocuments)
			documentsGroup.GET("/:id", h.GetDocument)
			documentsGroup.GET("/:id/download", h.DocumentDownloadURL)
		}

		reportsGroup := v1.Group("/reports")
		{
			reportsGroup.GET("/revenue", h.RevenueReport)
			reportsGroup.GET("/outstanding", h.OutstandingReport)
			reportsGroup.GET("/expenses", h.ExpenseReport)
		}

		// ADMIN routes. Owner always passes the role gate.
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleOwner, rbac.RoleAdmin))
		{
			admin.POST("/users", h.CreateUser)
			admin.GET("/users", h.ListUsers)
			admin.GET("/users/:id", h.GetUser)
			admin.PUT("/users/:id/role", h.SetUserRole)
			admin.POST("/users/:id/disable", h.DisableUser)

			admin.POST("/tax-rates", h.CreateTaxRate)
			admin.GET("/tax-rates", h.ListTaxRates)
		}
	}
}
