package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"saleboard/internal/errors"
	"saleboard/internal/model"
	"saleboard/internal/photo"
	"saleboard/internal/repository"
	"saleboard/internal/service"
)

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	catalog service.CatalogService
	photos  photo.Store
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService, photos photo.Store) *ProductHandler {
	return &ProductHandler{catalog: catalog, photos: photos}
}

// ProductResponse is a product decorated with joined read-only fields. Price
// is the cents value rendered as a fixed two-decimal display string; the
// minor-unit integer stays the contract everywhere else. SellerPhone appears
// only on detail reads.
type ProductResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	Price        string    `json:"price"`
	Quantity     int       `json:"quantity"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	SellerID     uint      `json:"seller_id"`
	SellerName   string    `json:"seller_name"`
	SellerPhone  string    `json:"seller_phone,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	Views        uint      `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToggleResponse reports the new active state after a toggle.
type ToggleResponse struct {
	Message  string `json:"message"`
	IsActive bool   `json:"is_active"`
}

func (h *ProductHandler) toResponse(p *model.Product, withPhone bool) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		Price:        decimal.NewFromInt(p.PriceCents).Div(decimal.NewFromInt(100)).StringFixed(2),
		Quantity:     p.Quantity,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		SellerID:     p.SellerID,
		SellerName:   p.Seller.FullName,
		PhotoURL:     h.photos.URL(p.PhotoKey),
		IsActive:     p.IsActive,
		Views:        p.Views,
		CreatedAt:    p.CreatedAt,
	}
	if withPhone {
		resp.SellerPhone = p.Seller.Phone
	}
	return resp
}

func (h *ProductHandler) toResponseList(products []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, h.toResponse(&products[i], false))
	}
	return out
}

// ListPublic godoc
// @Summary List active products
// @Tags products
// @Produce json
// @Param search query string false "Case-insensitive title substring"
// @Param category_id query int false "Category filter"
// @Param sort query string false "newest | oldest | price_asc | price_desc | most_viewed"
// @Success 200 {array} ProductResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListPublic(c echo.Context) error {
	products, err := h.catalog.ListPublic(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponseList(products))
}

// GetDetail godoc
// @Summary Get a single product with seller contact details
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetDetail(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.GetDetail(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponse(product, true))
}

// Create godoc
// @Summary Create a listing
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param price_cents formData int true "Price in minor currency units"
// @Param quantity formData int true "Quantity, at least 1"
// @Param category_id formData int true "Category ID"
// @Param photo formData file false "Photo"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	priceCents, err := strconv.ParseInt(c.FormValue("price_cents"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "price_cents must be an integer", Code: "INVALID_PRICE",
		})
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "quantity must be an integer", Code: "INVALID_QUANTITY",
		})
	}
	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "category_id must be an integer", Code: "UNKNOWN_CATEGORY",
		})
	}

	draft := service.ProductDraft{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		PriceCents:  priceCents,
		Quantity:    quantity,
		CategoryID:  uint(categoryID),
	}
	if file, err := c.FormFile("photo"); err == nil {
		draft.Photo = file
	}

	product, err := h.catalog.Create(c.Request().Context(), sellerID, draft)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, h.toResponse(product, false))
}

// Update godoc
// @Summary Partially update an owned listing
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param price_cents formData int false "Price in minor currency units"
// @Param quantity formData int false "Quantity"
// @Param category_id formData int false "Category ID"
// @Param photo formData file false "Replacement photo"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	changes, err := changesFromForm(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.Update(c.Request().Context(), sellerID, id, changes)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponse(product, false))
}

// ToggleActive godoc
// @Summary Toggle a listing between active and inactive
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ToggleResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/toggle [patch]
func (h *ProductHandler) ToggleActive(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	active, message, err := h.catalog.ToggleActive(c.Request().Context(), sellerID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ToggleResponse{Message: message, IsActive: active})
}

// HardDelete godoc
// @Summary Permanently delete an owned listing
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/hard [delete]
func (h *ProductHandler) HardDelete(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.catalog.HardDelete(c.Request().Context(), sellerID, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Product permanently deleted",
	})
}

// ListMine godoc
// @Summary List all of the caller's listings, active and inactive
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive title substring"
// @Param category_id query int false "Category filter"
// @Param sort query string false "newest | oldest | price_asc | price_desc | most_viewed"
// @Success 200 {array} ProductResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products/my/all [get]
func (h *ProductHandler) ListMine(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	products, err := h.catalog.ListMine(c.Request().Context(), sellerID, filterFromQuery(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponseList(products))
}

// ListMineActive godoc
// @Summary List the caller's active listings
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products/my/active [get]
func (h *ProductHandler) ListMineActive(c echo.Context) error {
	return h.listMineByState(c, true)
}

// ListMineInactive godoc
// @Summary List the caller's deactivated listings
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /products/my/inactive [get]
func (h *ProductHandler) ListMineInactive(c echo.Context) error {
	return h.listMineByState(c, false)
}

func (h *ProductHandler) listMineByState(c echo.Context, active bool) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	products, err := h.catalog.ListMineByState(c.Request().Context(), sellerID, active)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponseList(products))
}

// filterFromQuery reads the shared search/sort/category query parameters.
// Unparseable category IDs and unknown sort keys degrade to "no constraint"
// and "newest" respectively.
func filterFromQuery(c echo.Context) repository.ProductFilter {
	filter := repository.ProductFilter{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.CategoryID = uint(id)
		}
	}
	return filter
}

// changesFromForm maps present multipart fields to a partial update; absent
// fields stay nil so the service leaves them untouched.
func changesFromForm(c echo.Context) (service.ProductChanges, error) {
	var changes service.ProductChanges

	form, err := c.MultipartForm()
	if err != nil {
		return changes, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid multipart form", Code: "INVALID_FORM",
		})
	}

	if v, ok := formValue(form.Value, "title"); ok {
		changes.Title = &v
	}
	if v, ok := formValue(form.Value, "description"); ok {
		changes.Description = &v
	}
	if v, ok := formValue(form.Value, "price_cents"); ok {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return changes, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "price_cents must be an integer", Code: "INVALID_PRICE",
			})
		}
		changes.PriceCents = &price
	}
	if v, ok := formValue(form.Value, "quantity"); ok {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			return changes, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "quantity must be an integer", Code: "INVALID_QUANTITY",
			})
		}
		changes.Quantity = &quantity
	}
	if v, ok := formValue(form.Value, "category_id"); ok {
		categoryID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return changes, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "category_id must be an integer", Code: "UNKNOWN_CATEGORY",
			})
		}
		id := uint(categoryID)
		changes.CategoryID = &id
	}
	if files := form.File["photo"]; len(files) > 0 {
		changes.Photo = files[0]
	}

	return changes, nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid product ID", Code: "INVALID_ID",
		})
	}
	return uint(id), nil
}

// currentUserID resolves the caller's identity from the verified JWT placed in
// context by the echo-jwt middleware. echo-jwt parses with jwt/v5, so the
// assertions here must use the v5 types even though token minting is on v4.
func currentUserID(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return uint(id), nil
}
