package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/storefront"
	"storefront/internal/user"
)

type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Navigate storefront.Target `json:"navigate,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromCtx(r.Context()).Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, ErrorResponse{Error: message, Code: code})
}

// writeError maps domain errors to status codes. Anything unknown is a 500
// and its message is not leaked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var status int

	var invalidProduct *product.InvalidProductError
	var invalidShipping *storefront.InvalidShippingError

	switch {
	case errors.Is(err, storefront.ErrNotAuthenticated):
		status, resp.Code, resp.Navigate = http.StatusUnauthorized, "unauthenticated", storefront.TargetLogin
	case errors.Is(err, storefront.ErrForbidden):
		status, resp.Code = http.StatusForbidden, "forbidden"
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		status, resp.Code = http.StatusNotFound, "not_found"
	case errors.As(err, &invalidProduct):
		status, resp.Code, resp.Fields = http.StatusUnprocessableEntity, "invalid_product", invalidProduct.Fields
	case errors.As(err, &invalidShipping):
		status, resp.Code, resp.Fields = http.StatusUnprocessableEntity, "invalid_shipping", invalidShipping.Fields
	case errors.Is(err, cart.ErrOutOfStock):
		status, resp.Code = http.StatusConflict, "out_of_stock"
	case errors.Is(err, order.ErrCartEmpty):
		status, resp.Code = http.StatusUnprocessableEntity, "cart_empty"
	case errors.Is(err, order.ErrInvalidStatus):
		status, resp.Code = http.StatusUnprocessableEntity, "invalid_status"
	case errors.Is(err, user.ErrInvalidRole):
		status, resp.Code = http.StatusUnprocessableEntity, "invalid_role"
	default:
		logger.FromCtx(r.Context()).Error("unhandled error", zap.Error(err))
		status, resp.Code, resp.Error = http.StatusInternalServerError, "internal_error", "internal server error"
	}

	respondJSON(w, r, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest)
}
