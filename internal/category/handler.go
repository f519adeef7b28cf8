package category

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopcatalog/internal/httpx"
)

type Handler struct {
	Repo *Repo
	// OnChange runs after a successful mutation, e.g. to refresh views.
	OnChange func(ctx context.Context)
}

func NewHandler(repo *Repo, onChange func(ctx context.Context)) *Handler {
	return &Handler{Repo: repo, OnChange: onChange}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)          // GET /categories
	rg.DELETE("/:id", h.delete) // DELETE /categories/:id
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		httpx.Abort(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		httpx.Abort(c, err, "delete failed")
		return
	}
	if h.OnChange != nil {
		h.OnChange(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
