package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopcatalog/internal/httpx"
)

type Handler struct {
	Controller *Controller
}

func NewHandler(c *Controller) *Handler {
	return &Handler{Controller: c}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.snapshot)       // GET /catalog
	rg.POST("/search", h.search) // POST /catalog/search
	rg.POST("/reload", h.reload) // POST /catalog/reload
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.Controller.Snapshot())
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.Controller.Search(c.Request.Context(), req.Query); err != nil {
		httpx.Abort(c, err, "search failed")
		return
	}
	c.JSON(http.StatusOK, h.Controller.Snapshot())
}

func (h *Handler) reload(c *gin.Context) {
	if err := h.Controller.ReloadAll(c.Request.Context()); err != nil {
		httpx.Abort(c, err, "reload failed")
		return
	}
	c.JSON(http.StatusOK, h.Controller.Snapshot())
}
