package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	app "tg_pizzeria/internal/application/order"
	domain "tg_pizzeria/internal/domain/order"
)

// OrderService is the slice of the submission service the handlers need.
type OrderService interface {
	Submit(ctx context.Context, cmd app.SubmitCommand) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Patch(ctx context.Context, id string, upd domain.StatusUpdate) error
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// CreateOrder handles POST /orders. Customer-facing error strings stay in
// Swedish, matching the storefront.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var cmd app.SubmitCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Fyll i alla obligatoriska fält"})
		return
	}

	o, err := h.svc.Submit(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Fyll i alla obligatoriska fält"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Kunde inte skapa beställning"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"orderNumber": o.OrderNumber,
		"orderId":     o.ID,
	})
}

// ListOrders handles GET /orders, newest first.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Kunde inte hämta beställningar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

type patchRequest struct {
	OrderID       string `json:"orderId"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateOrder handles PATCH /orders: partial status updates.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID krävs"})
		return
	}
	if req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID krävs"})
		return
	}

	var upd domain.StatusUpdate
	if req.OrderStatus != "" {
		upd.OrderStatus = &req.OrderStatus
	}
	if req.PaymentStatus != "" {
		upd.PaymentStatus = &req.PaymentStatus
	}

	err := h.svc.Patch(c.Request.Context(), req.OrderID, upd)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Beställningen finns inte"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Kunde inte uppdatera beställning"})
	}
}
