package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tg_pizzeria/internal/domain/menu"
)

type MenuHandler struct{}

func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

// GetMenu handles GET /menu.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": menu.Catalog})
}

type quoteRequest struct {
	ItemID   string `json:"itemId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Quote handles POST /quote: price one cart line server-side.
func (h *MenuHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	item, ok := menu.Find(req.ItemID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown menu item"})
		return
	}

	size := menu.Size(req.Size)
	if size == "" {
		size = menu.SizeStandard
	}

	unit, err := menu.UnitPrice(item, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	total, err := menu.LineTotal(item, size, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"unitPrice": unit,
		"lineTotal": total,
	})
}
