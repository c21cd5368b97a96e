package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProductNotFound is returned when a public read misses.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNotOwned covers both a missing product and a product owned by
	// someone else. The two causes are deliberately indistinguishable so that
	// ownership checks do not leak which product IDs exist.
	ErrProductNotOwned = errors.New("product not found or not authorized")
	// ErrTitleRequired is returned when a product title is empty.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidPrice is returned when price is zero or negative.
	ErrInvalidPrice = errors.New("price must be a positive amount in cents")
	// ErrInvalidQuantity is returned when quantity is below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrUnknownCategory is returned when a category reference does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrNoFieldsToUpdate is returned when a partial update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists or invalid data")
	// ErrBrokenReference signals a product whose category or seller row is
	// missing. The relationship is mandatory, so this is an integrity bug and
	// must surface as an internal error rather than a silently dropped row.
	ErrBrokenReference = errors.New("product references a missing category or seller")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrProductNotOwned):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_OWNED")
	case errors.Is(err, ErrTitleRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TITLE_REQUIRED")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRICE")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrUnknownCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_CATEGORY")
	case errors.Is(err, ErrNoFieldsToUpdate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_FIELDS_TO_UPDATE")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrBrokenReference):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "BROKEN_REFERENCE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
