package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"shopcatalog/internal/catalog"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/grpc/catalogpb"
	"shopcatalog/pkg/models"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id int64) (*models.ProductWithCategoryAndSubcategory, error)
	ListWithCategoryAndSubcategory(ctx context.Context) ([]models.ProductWithCategoryAndSubcategory, error)
}

type ListingRepo interface {
	SortedListingsForProduct(ctx context.Context, productID int64) ([]models.StorePriceListing, error)
}

type Server struct {
	catalogpb.UnimplementedCatalogServiceServer
	Products ProductRepo
	Listings ListingRepo
}

func NewServer(products ProductRepo, listings ListingRepo) *Server {
	return &Server{Products: products, Listings: listings}
}

// ListProducts filters with the same name matching as the catalog
// controller but never touches its published state.
func (s *Server) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	query := req.GetFields()["query"].GetStringValue()

	rows, err := s.Products.ListWithCategoryAndSubcategory(ctx)
	if err != nil {
		return nil, toStatus(err, "list failed")
	}
	rows = catalog.FilterByName(rows, query)

	items := make([]any, 0, len(rows))
	for _, r := range rows {
		items = append(items, productToMap(r))
	}
	resp, err := structpb.NewStruct(map[string]any{
		"query":    query,
		"total":    len(rows),
		"products": items,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	return resp, nil
}

func (s *Server) GetSortedListings(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil || req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "product id required")
	}
	id := req.GetValue()

	p, err := s.Products.GetByID(ctx, id)
	if err != nil {
		return nil, toStatus(err, "get failed")
	}
	if p == nil {
		return nil, status.Error(codes.NotFound, "product not found")
	}

	listings, err := s.Listings.SortedListingsForProduct(ctx, id)
	if err != nil {
		return nil, toStatus(err, "listings failed")
	}

	items := make([]any, 0, len(listings))
	for _, l := range listings {
		items = append(items, map[string]any{
			"price":       l.Price,
			"store_name":  l.StoreName,
			"website_url": l.WebsiteURL,
		})
	}
	resp, err := structpb.NewStruct(map[string]any{
		"product_id": id,
		"product":    p.Name,
		"total":      len(listings),
		"listings":   items,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	return resp, nil
}

func productToMap(p models.ProductWithCategoryAndSubcategory) map[string]any {
	return map[string]any{
		"id":               p.ID,
		"name":             p.Name,
		"price":            p.Price,
		"image_ref":        p.ImageRef,
		"subcategory_id":   p.SubcategoryID,
		"subcategory_name": p.SubcategoryName,
		"category_id":      p.CategoryID,
		"category_name":    p.CategoryName,
	}
}

func toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, database.ErrConstraintViolation):
		return status.Error(codes.FailedPrecondition, msg)
	case errors.Is(err, database.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, msg)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
