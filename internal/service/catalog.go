package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nutrimart/storefront/internal/events"
	"github.com/nutrimart/storefront/internal/models"
	"github.com/nutrimart/storefront/internal/search"
	"github.com/nutrimart/storefront/internal/storage"
	"github.com/nutrimart/storefront/internal/transport"
	"github.com/nutrimart/storefront/pkg/logging"
)

// CatalogService validates payloads before persistence and keeps the search
// index and event stream in sync with catalog mutations. Events and indexing
// are best-effort side effects; a failed mutation leaves the store untouched.
type CatalogService struct {
	Store    storage.Store
	Producer *events.Producer
	Search   *search.Index

	validate *validator.Validate
}

func NewCatalogService(store storage.Store, producer *events.Producer, idx *search.Index) *CatalogService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CatalogService{
		Store:    store,
		Producer: producer,
		Search:   idx,
		validate: v,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	prod, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Store.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	fields := s.checkStruct(req)
	checkPrice(fields, "price", req.Price, true)
	checkNutrient(fields, "protein", req.Protein)
	checkNutrient(fields, "fat", req.Fat)
	checkNutrient(fields, "carbohydrates", req.Carbohydrates)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	prod := models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              *req.Price,
		ImageURL:           req.ImageURL,
		DiscountPercentage: req.DiscountPercentage,
		Protein:            req.Protein,
		Fat:                req.Fat,
		Carbohydrates:      req.Carbohydrates,
	}
	if err := s.Store.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	s.index(ctx, prod)

	return &prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id int, req transport.PatchProductRequest) (*models.Product, error) {
	fields := s.checkStruct(req)
	checkPrice(fields, "price", req.Price, false)
	checkNutrient(fields, "protein", req.Protein)
	checkNutrient(fields, "fat", req.Fat)
	checkNutrient(fields, "carbohydrates", req.Carbohydrates)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	prod, err := s.Store.PatchProduct(ctx, id, storage.ProductPatch{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		ImageURL:           req.ImageURL,
		DiscountPercentage: req.DiscountPercentage,
		Protein:            req.Protein,
		Fat:                req.Fat,
		Carbohydrates:      req.Carbohydrates,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	s.index(ctx, *prod)

	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.publish(ctx, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchUnavailable
	}
	return s.Search.Search(ctx, query, from, size)
}

func (s *CatalogService) checkStruct(req any) FieldErrors {
	fields := FieldErrors{}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
			}
		}
	}
	return fields
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	key := fmt.Sprint(event["productID"])
	if err := s.Producer.PublishEvent(pubCtx, events.TopicProductEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, prod models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", prod.ID, "error", err)
	}
}

func checkPrice(fields FieldErrors, name string, price *decimal.Decimal, required bool) {
	if price == nil {
		if required {
			fields[name] = "is required"
		}
		return
	}
	if price.IsNegative() {
		fields[name] = "must not be negative"
	}
}

func checkNutrient(fields FieldErrors, name string, v *decimal.Decimal) {
	if v != nil && v.IsNegative() {
		fields[name] = "must not be negative"
	}
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "gte":
		return "must be at least " + param
	case "lte":
		return "must be at most " + param
	default:
		return "is invalid"
	}
}
