package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"crm-platform/internal/agreements"
	"crm-platform/internal/auth"
	"crm-platform/internal/clients"
	"crm-platform/internal/documents"
	"crm-platform/internal/expenses"
	"crm-platform/internal/invoices"
	"crm-platform/internal/proposals"
	"crm-platform/internal/reporting"
	"crm-platform/internal/taxes"
	"crm-platform/internal/users"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondErr maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with the request-scoped logger.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, clients.ErrNotFound),
		errors.Is(err, proposals.ErrNotFound),
		errors.Is(err, agreements.ErrNotFound),
		errors.Is(err, invoices.ErrNotFound),
		errors.Is(err, expenses.ErrNotFound),
		errors.Is(err, documents.ErrNotFound),
		errors.Is(err, taxes.ErrRateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, users.ErrInvalidArgument),
		errors.Is(err, clients.ErrInvalidArgument),
		errors.Is(err, proposals.ErrInvalidArgument),
		errors.Is(err, agreements.ErrInvalidArgument),
		errors.Is(err, invoices.ErrInvalidArgument),
		errors.Is(err, expenses.ErrInvalidArgument),
		errors.Is(err, documents.ErrInvalidArgument),
		errors.Is(err, taxes.ErrInvalidArgument),
		errors.Is(err, reporting.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, proposals.ErrInvalidTransition),
		errors.Is(err, proposals.ErrProposalExpired),
		errors.Is(err, agreements.ErrProposalNotAccepted),
		errors.Is(err, agreements.ErrAlreadyExists),
		errors.Is(err, agreements.ErrAlreadyTerminated),
		errors.Is(err, invoices.ErrInvalidTransition),
		errors.Is(err, invoices.ErrOverpayment):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logger.From(c.Request.Context()).Error("request failed", "path", c.FullPath(), "err", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return false
	}
	return true
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC 3339"})
		return time.Time{}, false
	}
	return t, true
}

// --- Users (workspace administration) ---

func (h Handlers) CreateUser(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req users.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h Handlers) GetUser(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) ListUsers(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Users.List(c.Request.Context(), wid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h Handlers) SetUserRole(c *gin.Context) {
	wid, actor, ok := identity(c)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Users.SetRole(c.Request.Context(), wid, c.Param("id"), req.Role)
	if err != nil {
		respondErr(c, err)
		return
	}
	h.auditAdmin(c, wid, actor, "role changed to "+req.Role, u.ID)
	c.JSON(http.StatusOK, u)
}

// DisableUser deactivates the account and ends its active session chain.
func (h Handlers) DisableUser(c *gin.Context) {
	wid, actor, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Users.Disable(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	h.auditAdmin(c, wid, actor, "user disabled", u.ID)
	c.JSON(http.StatusOK, u)
}

func (h Handlers) auditAdmin(c *gin.Context, workspaceID, actorID, message, targetUserID string) {
	role, _ := auth.Role(c.Request.Context())
	_ = h.Audit.LogAdminAction(c.Request.Context(), workspaceID, actorID, role, c.ClientIP(), message, targetUserID, "")
}

// --- Clients ---

func (h Handlers) CreateClient(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req clients.UpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.Clients.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (h Handlers) GetClient(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	cl, err := h.Clients.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h Handlers) ListClients(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	f := clients.ListFilter{
		NameQuery:       c.Query("q"),
		IncludeArchived: c.Query("include_archived") == "true",
	}
	list, err := h.Clients.List(c.Request.Context(), wid, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}

func (h Handlers) UpdateClient(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req clients.UpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.Clients.Update(c.Request.Context(), wid, c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h Handlers) ArchiveClient(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	cl, err := h.Clients.Archive(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

// --- Proposals ---

func (h Handlers) CreateProposal(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req proposals.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Proposals.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) GetProposal(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	p, err := h.Proposals.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) ListProposals(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Proposals.List(c.Request.Context(), wid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": list})
}

func (h Handlers) SendProposal(c *gin.Context) {
	h.proposalTransition(c, h.Proposals.Send)
}

func (h Handlers) AcceptProposal(c *gin.Context) {
	h.proposalTransition(c, h.Proposals.Accept)
}

func (h Handlers) DeclineProposal(c *gin.Context) {
	h.proposalTransition(c, h.Proposals.Decline)
}

func (h Handlers) proposalTransition(c *gin.Context, op func(ctx context.Context, workspaceID, id string) (proposals.Proposal, error)) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	p, err := op(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- Agreements ---

func (h Handlers) CreateAgreement(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req agreements.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Agreements.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h Handlers) GetAgreement(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	a, err := h.Agreements.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) ListAgreements(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Agreements.List(c.Request.Context(), wid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agreements": list})
}

func (h Handlers) TerminateAgreement(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	a, err := h.Agreements.Terminate(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// --- Invoices ---

func (h Handlers) CreateInvoice(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req invoices.CreateRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.Invoices.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h Handlers) GetInvoice(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	inv, err := h.Invoices.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h Handlers) ListInvoices(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Invoices.List(c.Request.Context(), wid, invoices.InvoiceStatus(c.Query("status")))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": list})
}

// IssueInvoice assigns the invoice number, applies tax and opens the balance.
func (h Handlers) IssueInvoice(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	inv, err := h.Invoices.Issue(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h Handlers) VoidInvoice(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	inv, err := h.Invoices.Void(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h Handlers) RecordPayment(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req invoices.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	pay, bal, err := h.Invoices.RecordPayment(c.Request.Context(), wid, c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": pay, "outstanding": bal})
}

func (h Handlers) ListInvoicePayments(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Invoices.ListPayments(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

// --- Expenses ---

func (h Handlers) CreateExpense(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req expenses.UpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.Expenses.Create(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h Handlers) GetExpense(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	e, err := h.Expenses.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h Handlers) ListExpenses(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	f := expenses.ListFilter{Category: c.Query("category"), From: from, To: to}
	list, err := h.Expenses.List(c.Request.Context(), wid, f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": list})
}

func (h Handlers) UpdateExpense(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req expenses.UpsertRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.Expenses.Update(c.Request.Context(), wid, c.Param("id"), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// --- Documents ---

// RegisterUpload records metadata and returns a presigned PUT URL.
// The client uploads the bytes directly to object storage.
func (h Handlers) RegisterUpload(c *gin.Context) {
	wid, uid, ok := identity(c)
	if !ok {
		return
	}
	var req documents.RegisterUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	grant, err := h.Documents.RegisterUpload(c.Request.Context(), wid, uid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (h Handlers) GetDocument(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	d, err := h.Documents.Get(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handlers) ListDocuments(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Documents.List(c.Request.Context(), wid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": list})
}

func (h Handlers) DocumentDownloadURL(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	url, err := h.Documents.DownloadURL(c.Request.Context(), wid, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"get_url": url})
}

// --- Tax rates ---

func (h Handlers) CreateTaxRate(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	var req taxes.CreateRateRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Taxes.CreateRate(c.Request.Context(), wid, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h Handlers) ListTaxRates(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	list, err := h.Taxes.ListRates(c.Request.Context(), wid)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": list})
}

// --- Reports ---

func (h Handlers) RevenueReport(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	sum, err := h.Reports.RevenueSummary(c.Request.Context(), reporting.RevenueSummaryRequest{
		WorkspaceID: wid,
		Range:       reporting.TimeRange{From: from, To: to},
		Currency:    c.Query("currency"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h Handlers) OutstandingReport(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	asOf, ok := queryTime(c, "as_of")
	if !ok {
		return
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	sum, err := h.Reports.OutstandingSummary(c.Request.Context(), reporting.OutstandingSummaryRequest{
		WorkspaceID: wid,
		AsOf:        asOf,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h Handlers) ExpenseReport(c *gin.Context) {
	wid, _, ok := identity(c)
	if !ok {
		return
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	sum, err := h.Reports.ExpenseSummary(c.Request.Context(), reporting.ExpenseSummaryRequest{
		WorkspaceID: wid,
		Range:       reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
