package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/storefront"
	"storefront/internal/user"
)

const maxBodyBytes = 1 << 20

// NotificationSource is drained by the presentation layer.
type NotificationSource interface {
	Drain() []notify.Notification
}

type Handler struct {
	svc           storefront.Service
	notifications NotificationSource
	secret        string
}

func NewHandler(svc storefront.Service, notifications NotificationSource, secret string) *Handler {
	return &Handler{svc: svc, notifications: notifications, secret: secret}
}

// ProductView adds the listing badges to a product.
type ProductView struct {
	product.Product
	InStock  bool `json:"inStock"`
	LowStock bool `json:"lowStock"`
}

func newProductView(p product.Product) ProductView {
	return ProductView{Product: p, InStock: p.InStock(), LowStock: p.LowStock()}
}

func newProductViews(ps []product.Product) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p))
	}
	return out
}

// CartItemView tells the cart page when the plus button has to be disabled.
type CartItemView struct {
	cart.Item
	AtStockLimit bool `json:"atStockLimit"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Quote cart.Quote     `json:"quote"`
	Count int            `json:"count"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type LoginRequest struct {
	Role user.Role `json:"role"`
}

type LoginResponse struct {
	User     user.User         `json:"user"`
	Token    string            `json:"token"`
	Navigate storefront.Target `json:"navigate"`
}

type CheckoutResponse struct {
	Order    order.Order       `json:"order"`
	Navigate storefront.Target `json:"navigate"`
}

type StatusRequest struct {
	Status order.Status `json:"status"`
}

// ----------------- Catalog -----------------

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := product.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     product.SortOption(q.Get("sort")),
	}
	if raw := q.Get("maxPrice"); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid_request", "maxPrice must be a number")
			return
		}
		f.MaxPrice = &maxPrice
	}

	respondJSON(w, r, http.StatusOK, newProductViews(h.svc.Search(f)))
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, newProductViews(h.svc.Featured()))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newProductView(p))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.svc.Categories())
}

func (h *Handler) EnhanceDescription(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.EnhanceDescription(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"description": text})
}

func (h *Handler) DraftReview(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.DraftReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"review": text})
}

// ----------------- Cart -----------------

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	req := AddItemRequest{Quantity: 1}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, r, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	if _, err := h.svc.AddToCart(r.Context(), req.ProductID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, h.cartView())
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.svc.UpdateCartQuantity(r.Context(), chi.URLParam(r, "productId"), req.Quantity)
	respondJSON(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.svc.RemoveFromCart(r.Context(), chi.URLParam(r, "productId"))
	respondJSON(w, r, http.StatusOK, h.cartView())
}

func (h *Handler) cartView() CartView {
	snap := h.svc.CartView()

	items := make([]CartItemView, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, CartItemView{Item: it, AtStockLimit: it.AtStockLimit()})
	}
	return CartView{Items: items, Quote: snap.Quote, Count: snap.Count}
}

// ----------------- Checkout -----------------

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req storefront.ShippingDetails
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	o, target, err := h.svc.Checkout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, CheckoutResponse{Order: o, Navigate: target})
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.MyOrders()
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, orders)
}

// ----------------- Session -----------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	u, target, err := h.svc.Login(r.Context(), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := user.IssueToken(u, h.secret)
	if err != nil {
		writeError(w, r, err)
		return
	}
	auth.SetAccessToken(w, token, user.TokenTTL)
	respondJSON(w, r, http.StatusOK, LoginResponse{User: u, Token: token, Navigate: target})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	target := h.svc.Logout(r.Context())
	auth.ClearAccessToken(w)
	respondJSON(w, r, http.StatusOK, map[string]storefront.Target{"navigate": target})
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]*user.User{"user": h.svc.CurrentUser()})
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.notifications.Drain())
}

// ----------------- Admin -----------------

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	p.ID = ""

	saved, err := h.svc.UpsertProduct(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, newProductView(saved))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p product.Product
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved, err := h.svc.UpdateProduct(r.Context(), id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, newProductView(saved))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ok, err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, product.ErrProductNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.AllOrders()
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	ok, err := h.svc.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, order.ErrOrderNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard()
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}

// RequireSession lets a request through only when its token belongs to the
// user currently signed in to the storefront.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFrom(r.Context())
		current := h.svc.CurrentUser()
		if !ok || current == nil || current.ID != claims.UserID {
			writeError(w, r, storefront.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}
