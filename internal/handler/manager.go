package handler

import (
	"net/http"

	"inventra/internal/dto"
	"inventra/internal/service"

	"github.com/gin-gonic/gin"
)

// ManagerHandler exposes the stock ledger and reports to managers.
type ManagerHandler struct {
	ledger  service.LedgerService
	reports service.ReportService
}

func NewManagerHandler(ledger service.LedgerService, reports service.ReportService) *ManagerHandler {
	return &ManagerHandler{ledger: ledger, reports: reports}
}

// StockIn godoc
// @Summary Receive stock for a product
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.StockMovementRequest true "Movement"
// @Success 200 {object} dto.StockMovementResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /api/manager/stockIn [post]
func (h *ManagerHandler) StockIn(c *gin.Context) {
	var req dto.StockMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.StockIn(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// StockOut godoc
// @Summary Remove stock from a product
// @Tags manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.StockMovementRequest true "Movement"
// @Success 200 {object} dto.StockMovementResponse
// @Failure 400 {object} apierror.InsufficientStock
// @Router /api/manager/stockOut [post]
func (h *ManagerHandler) StockOut(c *gin.Context) {
	var req dto.StockMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.StockOut(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ManagerHandler) ValidateStock(c *gin.Context) {
	resp, err := h.ledger.ValidateStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// GenerateReport godoc
// @Summary Build an inventory, transactions or lowStock report
// @Tags manager
// @Produce json
// @Security BearerAuth
// @Param type query string true "inventory | transactions | lowStock"
// @Router /api/manager/generateReport [get]
func (h *ManagerHandler) GenerateReport(c *gin.Context) {
	resp, err := h.reports.Generate(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ManagerHandler) Transactions(c *gin.Context) {
	var filter dto.TransactionFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}
