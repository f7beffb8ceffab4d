package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nutrimart/storefront/internal/service"
	"github.com/nutrimart/storefront/internal/transport"
	"github.com/nutrimart/storefront/internal/util"
	"github.com/nutrimart/storefront/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func validationResponse(c echo.Context, verr *service.ValidationError) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "validation failed",
		"errors":  verr.Fields,
	})
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			l.Warn("create_product_error", "status", 400, "reason", "validation failed", "error", err)
			return validationResponse(c, verr)
		}
		l.Error("create_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			l.Warn("patch_product_error", "status", 400, "reason", "validation failed", "error", err)
			return validationResponse(c, verr)
		case errors.Is(err, service.ErrNotFound):
			l.Warn("patch_product_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		default:
			l.Error("patch_product_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
		}
	}

	l.Info("patch_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_product_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, query, offset, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			l.Warn("search_products_error", "status", 503, "reason", "search is not configured")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
		}
		l.Error("search_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
