package cart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/irsalhamdi/e-commerce-storefront/core/session"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoUser = errors.New("no signed-in user")
	ErrNoCart = errors.New("no cart loaded")
)

type Gateway interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}

type Users interface {
	Current(ctx context.Context) (session.User, bool)
}

// Store keeps the single in-memory cart snapshot for one user and reconciles
// it against the upstream commerce API, which stays the server of record.
// Every mutation issues exactly one remote call and patches the snapshot only
// after the call succeeded; on failure the previous snapshot stays intact.
// The mutex serializes mutations so two overlapping operations can never
// interleave their patches.
type Store struct {
	gw    Gateway
	users Users
	log   logrus.FieldLogger

	mu      sync.Mutex
	cur     *Cart
	subs    map[int]func(Cart)
	nextSub int
}

func NewStore(gw Gateway, users Users, log logrus.FieldLogger) *Store {
	return &Store{
		gw:    gw,
		users: users,
		log:   log,
		subs:  make(map[int]func(Cart)),
	}
}

// Subscribe registers an observer for published snapshots. Observers are
// invoked on the mutating goroutine with their own copy of the cart and must
// not call back into the store.
func (s *Store) Subscribe(fn func(Cart)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) Snapshot() (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return Cart{}, false
	}
	return s.cur.clone(), true
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return 0
	}
	var n int
	for _, it := range s.cur.Items {
		n += it.Quantity
	}
	return n
}

func (s *Store) TotalAmount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return 0
	}
	return s.cur.total()
}

// Load fetches the user's cart. If the upstream has none, or the call fails,
// it falls back to creating a fresh cart exactly once. Item totals are
// recomputed locally from unit price and quantity rather than trusted from
// the payload.
func (s *Store) Load(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Cart
	if err := s.gw.Get(ctx, "api/cart/user", nil, &c); err != nil {
		s.log.WithField("message", err).Info("cart: nothing to load, creating")
		return s.create(ctx)
	}

	items := make([]Item, len(c.Items))
	for i, it := range c.Items {
		it.TotalPrice = it.UnitPrice * it.Quantity
		items[i] = it
	}
	c.Items = items

	return s.publish(c), nil
}

func (s *Store) Create(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(ctx)
}

func (s *Store) create(ctx context.Context) (Cart, error) {
	u, ok := s.users.Current(ctx)
	if !ok {
		return Cart{}, ErrNoUser
	}

	dto := CartNew{AppUserID: u.ID, CreatedBy: u.ID}

	var c Cart
	if err := s.gw.Post(ctx, "api/cart", dto, &c); err != nil {
		return Cart{}, fmt.Errorf("creating cart: %w", err)
	}

	return s.publish(c), nil
}

// AddItem puts a product in the cart. A missing cart is healed by creating
// one first; if that creation fails the add is abandoned rather than
// retried. An item for the same product is merged into, not duplicated:
// quantities and totals accumulate and the unit price is refreshed to the
// server-confirmed one.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int, unitPrice int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.Current(ctx)
	if !ok {
		return Cart{}, ErrNoUser
	}

	if s.cur == nil {
		if _, err := s.create(ctx); err != nil {
			return Cart{}, err
		}
	}

	dto := ItemNew{
		CartID:     s.cur.ID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: unitPrice * quantity,
		CreatedBy:  u.ID,
	}

	var added Item
	if err := s.gw.Post(ctx, "api/cartitem", dto, &added); err != nil {
		return Cart{}, fmt.Errorf("adding cart item: %w", err)
	}

	next := s.cur.clone()

	merged := false
	for i, it := range next.Items {
		if it.ProductID == added.ProductID {
			it.Quantity += added.Quantity
			it.UnitPrice = added.UnitPrice
			it.TotalPrice += added.TotalPrice
			next.Items[i] = it
			merged = true
			break
		}
	}
	if !merged {
		next.Items = append(next.Items, added)
	}

	return s.publish(next), nil
}

// UpdateQuantity asks the upstream for the new quantity and then copies the
// returned quantity and total verbatim: the server may have applied stock or
// pricing rules the storefront must defer to.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return Cart{}, ErrNoCart
	}

	dto := ItemUp{ID: itemID, Quantity: quantity}

	var upd Item
	if err := s.gw.Put(ctx, "api/cartitem", dto, &upd); err != nil {
		return Cart{}, fmt.Errorf("updating cart item: %w", err)
	}

	next := s.cur.clone()
	for i, it := range next.Items {
		if it.ID == itemID {
			it.Quantity = upd.Quantity
			it.TotalPrice = upd.TotalPrice
			next.Items[i] = it
			break
		}
	}

	return s.publish(next), nil
}

// RemoveItem drops an item from the cart. An id that is not in the snapshot
// is a no-op: no remote call, no error, snapshot unchanged.
func (s *Store) RemoveItem(ctx context.Context, itemID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return Cart{}, ErrNoCart
	}

	found := false
	for _, it := range s.cur.Items {
		if it.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return s.cur.clone(), nil
	}

	if err := s.gw.Delete(ctx, "api/cartitem/"+itemID); err != nil {
		return Cart{}, fmt.Errorf("removing cart item: %w", err)
	}

	next := s.cur.clone()
	items := next.Items[:0]
	for _, it := range next.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	next.Items = items

	return s.publish(next), nil
}

// Clear empties the cart upstream and locally while keeping the cart's
// identity, owner and creation time.
func (s *Store) Clear(ctx context.Context) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return Cart{}, ErrNoCart
	}

	if err := s.gw.Delete(ctx, "api/cart/clear/"+s.cur.ID); err != nil {
		return Cart{}, fmt.Errorf("clearing cart: %w", err)
	}

	next := Cart{
		ID:        s.cur.ID,
		UserID:    s.cur.UserID,
		Items:     []Item{},
		CreatedAt: s.cur.CreatedAt,
	}

	return s.publish(next), nil
}

// publish replaces the held snapshot with a freshly normalized one and
// notifies every observer. The total is recomputed here so that it always
// matches the sum of the item totals, whatever the upstream answered.
func (s *Store) publish(c Cart) Cart {
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.TotalAmount = c.total()

	s.cur = &c

	for _, fn := range s.subs {
		fn(c.clone())
	}

	return c.clone()
}
