package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMenuHandler()
	r.GET("/menu", h.GetMenu)
	r.POST("/quote", h.Quote)
	return r
}

func TestGetMenu(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodGet, "/menu", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, true, got["success"])
	categories, ok := got["categories"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, categories)
}

func TestQuote_StandardSizeByDefault(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodPost, "/quote", gin.H{
		"itemId":   "v1",
		"quantity": 2,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, float64(100), got["unitPrice"])
	assert.Equal(t, float64(200), got["lineTotal"])
}

func TestQuote_FamilySize(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodPost, "/quote", gin.H{
		"itemId":   "v1",
		"size":     "familj",
		"quantity": 1,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(230), decodeBody(t, w)["lineTotal"])
}

func TestQuote_UnknownItem(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodPost, "/quote", gin.H{
		"itemId":   "nope",
		"quantity": 1,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown menu item", decodeBody(t, w)["error"])
}

func TestQuote_UnknownSize(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodPost, "/quote", gin.H{
		"itemId":   "v1",
		"size":     "jätte",
		"quantity": 1,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuote_NonPositiveQuantity(t *testing.T) {
	r := newMenuRouter()

	w := doJSON(t, r, http.MethodPost, "/quote", gin.H{
		"itemId":   "v1",
		"quantity": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
