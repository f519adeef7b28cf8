package listing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopcatalog/internal/httpx"
	"shopcatalog/pkg/models"
)

type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*models.ProductWithCategoryAndSubcategory, error)
}

type Handler struct {
	Repo     *Repo
	Products ProductLookup
}

func NewHandler(repo *Repo, products ProductLookup) *Handler {
	return &Handler{Repo: repo, Products: products}
}

// RegisterRoutes mounts store and listing routes on the root group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stores", h.listStores)
	rg.POST("/stores", h.createStore)
	rg.GET("/products/:id/listings", h.sortedListings)
	rg.POST("/products/:id/listings", h.createListing)
}

type createStoreRequest struct {
	Name       string `json:"name" binding:"required"`
	WebsiteURL string `json:"website_url" binding:"omitempty,url"`
}

type createListingRequest struct {
	StoreID int64   `json:"store_id" binding:"required,gt=0"`
	Price   float64 `json:"price" binding:"gte=0"`
}

func (h *Handler) listStores(c *gin.Context) {
	items, err := h.Repo.ListStores(c.Request.Context())
	if err != nil {
		httpx.Abort(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(items), "items": items})
}

func (h *Handler) createStore(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := models.Store{Name: req.Name, WebsiteURL: req.WebsiteURL}
	id, err := h.Repo.InsertStore(c.Request.Context(), s)
	if err != nil {
		httpx.Abort(c, err, "create store failed")
		return
	}
	s.ID = id
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) sortedListings(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Abort(c, err, "get product failed")
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	items, err := h.Repo.SortedListingsForProduct(c.Request.Context(), id)
	if err != nil {
		httpx.Abort(c, err, "listings failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": p,
		"total":   len(items),
		"items":   items,
	})
}

func (h *Handler) createListing(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l := models.ProductListing{ProductID: id, StoreID: req.StoreID, Price: req.Price}
	lid, err := h.Repo.InsertListing(c.Request.Context(), l)
	if err != nil {
		httpx.Abort(c, err, "create listing failed")
		return
	}
	l.ID = lid
	c.JSON(http.StatusCreated, l)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
