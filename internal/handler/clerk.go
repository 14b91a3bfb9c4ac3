package handler

import (
	"net/http"

	"inventra/internal/dto"
	"inventra/internal/service"

	"github.com/gin-gonic/gin"
)

type ClerkHandler struct{ svc service.ClerkService }

func NewClerkHandler(svc service.ClerkService) *ClerkHandler { return &ClerkHandler{svc: svc} }

func (h *ClerkHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ClerkHandler) PendingOrders(c *gin.Context) {
	resp, err := h.svc.PendingOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// CreateOrder godoc
// @Summary Record a pending order awaiting confirmation
// @Tags clerk
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.TransactionResponse
// @Router /api/clerk/orders [post]
func (h *ClerkHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateOrder(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ClerkHandler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateOrder(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

// Reorder godoc
// @Summary Ask every manager to reorder a product
// @Tags clerk
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReorderRequest true "Reorder"
// @Success 200 {object} dto.ReorderResponse
// @Router /api/clerk/reorder [post]
func (h *ClerkHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RequestReorder(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}
