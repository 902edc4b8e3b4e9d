package handlers

import (
	"github.com/gin-gonic/gin"

	"bankreco/internal/core/apperror"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/infrastructure/http/v1/dto"
)

// ReconciliationHandler forwards the matching endpoints of a bank.
type ReconciliationHandler struct {
	*BaseHandler
	backend *backend.Client
}

// NewReconciliationHandler creates a new reconciliation handler.
func NewReconciliationHandler(base *BaseHandler, client *backend.Client) *ReconciliationHandler {
	return &ReconciliationHandler{BaseHandler: base, backend: client}
}

func (h *ReconciliationHandler) endpoints(c *gin.Context) *backend.Reconciliation {
	user := h.User(c)
	if user == nil {
		return nil
	}
	reco, err := userBackend(c, h.backend, user).Reconciliation(c.Param("bank"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid bank prefix").WithDetail("bank", c.Param("bank")))
		return nil
	}
	return reco
}

// Transactions handles GET /reco/:bank/transactions?company=&date_from=&date_to=
func (h *ReconciliationHandler) Transactions(c *gin.Context) {
	var q dto.PeriodRequest
	if !h.BindQuery(c, &q) {
		return
	}
	reco := h.endpoints(c)
	if reco == nil {
		return
	}
	items, err := reco.SortedRecoBankTransactions(c.Request.Context(), q.ToPeriod())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, gin.H{"items": items})
}

// Match handles POST /reco/:bank/match
func (h *ReconciliationHandler) Match(c *gin.Context) {
	var req dto.PeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}
	reco := h.endpoints(c)
	if reco == nil {
		return
	}
	result, err := reco.MatchTransactions(c.Request.Context(), req.ToPeriod())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, result)
}

// Taxes handles POST /reco/:bank/taxes
func (h *ReconciliationHandler) Taxes(c *gin.Context) {
	var req dto.PeriodRequest
	if !h.BindJSON(c, &req) {
		return
	}
	reco := h.endpoints(c)
	if reco == nil {
		return
	}
	items, err := reco.ExtractCustomerTaxes(c.Request.Context(), req.ToPeriod())
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}
	h.OK(c, gin.H{"items": items})
}

// RegisterRoutes registers the /reco routes.
func (h *ReconciliationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:bank/transactions", h.Transactions)
	rg.POST("/:bank/match", h.Match)
	rg.POST("/:bank/taxes", h.Taxes)
}
