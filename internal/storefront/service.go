package storefront

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/enhance"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/storage"
	"storefront/internal/user"
	"storefront/internal/validation"
)

// Service is the single entry point for every state change of the
// storefront. Calls are serialised, so each one runs to completion before
// the next observes the state.
type Service interface {
	Load(ctx context.Context) error

	// -- Catalog --
	Products() []product.Product
	Product(id string) (product.Product, error)
	Featured() []product.Product
	Categories() []product.Category
	Search(f product.Filter) []product.Product

	// -- Cart --
	AddToCart(ctx context.Context, productID string, quantity int) (cart.Item, error)
	RemoveFromCart(ctx context.Context, productID string) bool
	UpdateCartQuantity(ctx context.Context, productID string, quantity int) (cart.Item, bool)
	CartView() CartView

	// -- Checkout --
	PlaceOrder(ctx context.Context, shippingAddress string) (order.Order, Target, error)
	Checkout(ctx context.Context, details ShippingDetails) (order.Order, Target, error)

	// -- Session --
	Login(ctx context.Context, role user.Role) (user.User, Target, error)
	Logout(ctx context.Context) Target
	CurrentUser() *user.User
	MyOrders() ([]order.Order, error)

	// -- Admin --
	UpsertProduct(ctx context.Context, p product.Product) (product.Product, error)
	UpdateProduct(ctx context.Context, id string, p product.Product) (product.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (bool, error)
	AllOrders() ([]order.Order, error)
	Dashboard() (order.Stats, error)

	// -- Enhancement --
	EnhanceDescription(ctx context.Context, productID string) (string, error)
	DraftReview(ctx context.Context, productID string) (string, error)
}

// Deps are the collaborators of the service. Store and Notifier are
// required; the rest fall back to no-op implementations.
type Deps struct {
	Store    storage.Store
	Notifier notify.Notifier
	Enhancer enhance.Enhancer
	Metrics  Recorder
}

type service struct {
	mu sync.Mutex

	catalog *product.Catalog
	cart    cart.Service
	ledger  *order.Ledger
	factory *order.Factory
	session *user.Session

	store    storage.Store
	notifier notify.Notifier
	enhancer enhance.Enhancer
	metrics  Recorder
	validate *validator.Validate
}

// NewService builds a storefront seeded with the demo catalog and order
// history. Call Load to replace the seed with persisted state.
func NewService(deps Deps) Service {
	catalog := product.NewCatalog(product.SeedProducts(), product.SeedCategories())
	ledger := order.NewLedger(order.SeedOrders())

	s := &service{
		catalog:  catalog,
		cart:     cart.NewService(catalog, deps.Notifier),
		ledger:   ledger,
		factory:  order.NewFactory(ledger),
		session:  user.NewSession(),
		store:    deps.Store,
		notifier: deps.Notifier,
		enhancer: deps.Enhancer,
		metrics:  deps.Metrics,
		validate: validation.New(),
	}
	if s.enhancer == nil {
		s.enhancer = enhance.Noop{}
	}
	if s.metrics == nil {
		s.metrics = noopRecorder{}
	}
	return s
}

// ----------------- Load -----------------

// Load restores all four keys. A missing key keeps the seed value.
func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "storefront"),
		zap.String("method", "Load"),
	)

	var products []product.Product
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyProducts, &products)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if found {
		s.catalog.Replace(products)
	}

	var orders []order.Order
	if found, err = storage.LoadJSON(ctx, s.store, storage.KeyOrders, &orders); err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if found {
		s.ledger.Replace(orders)
	}

	var u *user.User
	if _, err = storage.LoadJSON(ctx, s.store, storage.KeyUser, &u); err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	s.session.Restore(u)

	var items []cart.Item
	if found, err = storage.LoadJSON(ctx, s.store, storage.KeyCart, &items); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if found {
		if removed := s.cart.Restore(ctx, items); len(removed) > 0 {
			s.save(ctx, storage.KeyCart, s.cart.Items())
		}
	}

	log.Info("state loaded",
		zap.Int("products", s.catalog.Len()),
		zap.Int("orders", s.ledger.Len()),
		zap.Int("cart_items", len(s.cart.Items())),
		zap.Bool("signed_in", u != nil),
	)
	return nil
}

// ----------------- Catalog -----------------

func (s *service) Products() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.List()
}

func (s *service) Product(id string) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Get(id)
}

func (s *service) Featured() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Featured()
}

func (s *service) Categories() []product.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Categories()
}

func (s *service) Search(f product.Filter) []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Search(f)
}

// ----------------- Cart -----------------

func (s *service) AddToCart(ctx context.Context, productID string, quantity int) (cart.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(productID)
	if err != nil {
		return cart.Item{}, err
	}

	item, err := s.cart.Add(ctx, p, quantity)
	switch {
	case err == nil:
		s.metrics.CartAdded()
	case errors.Is(err, cart.ErrOutOfStock):
		// a sold-out line may have been dropped
	default:
		return cart.Item{}, err
	}

	s.save(ctx, storage.KeyCart, s.cart.Items())
	return item, err
}

func (s *service) RemoveFromCart(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.Remove(productID) {
		return false
	}
	s.save(ctx, storage.KeyCart, s.cart.Items())
	return true
}

func (s *service) UpdateCartQuantity(ctx context.Context, productID string, quantity int) (cart.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.cart.Items())
	item, ok := s.cart.UpdateQuantity(ctx, productID, quantity)
	if ok || len(s.cart.Items()) != before {
		s.save(ctx, storage.KeyCart, s.cart.Items())
	}
	return item, ok
}

// CartView reads the lines, the quote and the unit count under one lock.
func (s *service) CartView() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CartView{
		Items: s.cart.Items(),
		Quote: s.cart.Quote(),
		Count: s.cart.ItemCount(),
	}
}

// ----------------- Checkout -----------------

// PlaceOrder turns the cart into a pending order for the signed-in user and
// empties the cart. Without a user it returns ErrNotAuthenticated and
// TargetLogin.
func (s *service) PlaceOrder(ctx context.Context, shippingAddress string) (order.Order, Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.placeOrder(ctx, shippingAddress)
}

// Checkout validates the shipping form before placing the order. The
// sign-in check comes first, as on the checkout page.
func (s *service) Checkout(ctx context.Context, details ShippingDetails) (order.Order, Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Current() == nil {
		return order.Order{}, TargetLogin, ErrNotAuthenticated
	}
	if err := s.validate.Struct(details); err != nil {
		return order.Order{}, TargetNone, &InvalidShippingError{Fields: validation.Details(err)}
	}

	return s.placeOrder(ctx, details.Address())
}

func (s *service) placeOrder(ctx context.Context, shippingAddress string) (order.Order, Target, error) {
	o, err := s.factory.PlaceOrder(ctx, s.cart.Items(), s.session.Current(), shippingAddress)
	if errors.Is(err, order.ErrNotAuthenticated) {
		return order.Order{}, TargetLogin, err
	}
	if err != nil {
		return order.Order{}, TargetNone, err
	}

	s.cart.Clear()
	s.save(ctx, storage.KeyOrders, s.ledger.All())
	s.save(ctx, storage.KeyCart, s.cart.Items())

	total, _ := o.Total.Float64()
	s.metrics.OrderPlaced(total)
	s.notify(ctx, "Order placed successfully!", notify.SeveritySuccess)

	return o, TargetProfile, nil
}

// ----------------- Session -----------------

func (s *service) Login(ctx context.Context, role user.Role) (user.User, Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.session.Login(role)
	if err != nil {
		return user.User{}, TargetNone, err
	}

	s.save(ctx, storage.KeyUser, u)
	s.notify(ctx, fmt.Sprintf("Welcome, %s", u.Name), notify.SeverityInfo)

	return u, TargetHome, nil
}

func (s *service) Logout(ctx context.Context) Target {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Logout()
	if err := s.store.Delete(context.WithoutCancel(ctx), storage.KeyUser); err != nil {
		logger.FromCtx(ctx).Error("failed to clear persisted user", zap.Error(err))
	}
	s.notify(ctx, "Signed out", notify.SeverityInfo)

	return TargetHome
}

func (s *service) CurrentUser() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Current()
}

func (s *service) MyOrders() ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.session.Current()
	if u == nil {
		return nil, ErrNotAuthenticated
	}

	out := slices.Collect(s.ledger.ByUser(u.ID))
	if out == nil {
		out = []order.Order{}
	}
	return out, nil
}

// ----------------- Admin -----------------

func (s *service) UpsertProduct(ctx context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return product.Product{}, err
	}

	return s.upsertProduct(ctx, p)
}

// UpdateProduct replaces an existing product. Unlike UpsertProduct it never
// inserts; an unknown id yields ErrProductNotFound.
func (s *service) UpdateProduct(ctx context.Context, id string, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return product.Product{}, err
	}
	if _, err := s.catalog.Get(id); err != nil {
		return product.Product{}, err
	}

	p.ID = id
	return s.upsertProduct(ctx, p)
}

func (s *service) upsertProduct(ctx context.Context, p product.Product) (product.Product, error) {
	saved, err := s.catalog.Upsert(p)
	if err != nil {
		return product.Product{}, err
	}

	logger.FromCtx(ctx).Info("product saved",
		zap.String("layer", "storefront"),
		zap.String("product_id", saved.ID),
	)

	s.save(ctx, storage.KeyProducts, s.catalog.List())
	s.reconcileCart(ctx)
	return saved, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return false, err
	}
	if !s.catalog.Delete(id) {
		return false, nil
	}

	logger.FromCtx(ctx).Info("product deleted",
		zap.String("layer", "storefront"),
		zap.String("product_id", id),
	)

	s.save(ctx, storage.KeyProducts, s.catalog.List())
	s.reconcileCart(ctx)
	return true, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return false, err
	}

	ok, err := s.ledger.UpdateStatus(orderID, status)
	if err != nil || !ok {
		return false, err
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("layer", "storefront"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	s.metrics.StatusUpdated(string(status))
	s.save(ctx, storage.KeyOrders, s.ledger.All())
	return true, nil
}

func (s *service) AllOrders() ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	return s.ledger.All(), nil
}

func (s *service) Dashboard() (order.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(); err != nil {
		return order.Stats{}, err
	}
	return s.ledger.Stats(), nil
}

// ----------------- Enhancement -----------------

// EnhanceDescription asks the model for better copy. The result is for
// display only and is not written back to the catalog.
func (s *service) EnhanceDescription(ctx context.Context, productID string) (string, error) {
	p, err := s.Product(productID)
	if err != nil {
		return "", err
	}
	return s.enhancer.EnhanceDescription(ctx, p.Name, p.Description), nil
}

func (s *service) DraftReview(ctx context.Context, productID string) (string, error) {
	p, err := s.Product(productID)
	if err != nil {
		return "", err
	}
	return s.enhancer.GenerateReview(ctx, p.Name), nil
}

// ----------------- helpers -----------------

func (s *service) requireAdmin() error {
	u := s.session.Current()
	if u == nil {
		return ErrNotAuthenticated
	}
	if !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// reconcileCart brings cart lines in line with the catalog after an admin
// edit, telling the shopper about lines that had to go.
func (s *service) reconcileCart(ctx context.Context) {
	removed := s.cart.Reconcile(ctx)
	s.save(ctx, storage.KeyCart, s.cart.Items())

	for _, id := range removed {
		s.notify(ctx, fmt.Sprintf("An item (%s) is no longer available and was removed from your cart", id), notify.SeverityInfo)
	}
}

// save rewrites key in full. Failures are logged and never undo the change
// already applied in memory.
func (s *service) save(ctx context.Context, key string, value any) {
	if err := storage.SaveJSON(context.WithoutCancel(ctx), s.store, key, value); err != nil {
		logger.FromCtx(ctx).Error("failed to persist state",
			zap.String("layer", "storefront"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *service) notify(ctx context.Context, message string, severity notify.Severity) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, message, severity)
	}
}
