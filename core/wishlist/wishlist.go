package wishlist

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

type Item struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
}

type ItemNew struct {
	ProductID string `json:"productId"`
}

type Gateway interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string) error
}

// Store keeps one user's wishlist in memory, synchronized against the
// upstream on load, add and remove. There are no derived fields beyond the
// member count, so reconciliation is plain list membership.
type Store struct {
	gw  Gateway
	log logrus.FieldLogger

	mu    sync.Mutex
	items []Item
}

func NewStore(gw Gateway, log logrus.FieldLogger) *Store {
	return &Store{gw: gw, log: log}
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Load(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []Item
	if err := s.gw.Get(ctx, "api/wishlist", nil, &items); err != nil {
		return nil, fmt.Errorf("loading wishlist: %w", err)
	}

	s.items = items
	return append([]Item(nil), s.items...), nil
}

func (s *Store) Add(ctx context.Context, productID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added Item
	if err := s.gw.Post(ctx, "api/wishlist/add", ItemNew{ProductID: productID}, &added); err != nil {
		return nil, fmt.Errorf("adding wishlist item: %w", err)
	}

	s.items = append(append([]Item(nil), s.items...), added)
	return append([]Item(nil), s.items...), nil
}

func (s *Store) Remove(ctx context.Context, itemID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gw.Delete(ctx, "api/wishlist/items/"+itemID); err != nil {
		return nil, fmt.Errorf("removing wishlist item: %w", err)
	}

	next := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != itemID {
			next = append(next, it)
		}
	}
	s.items = next

	return append([]Item(nil), s.items...), nil
}

// Clear resets the local list only; the upstream keeps its copy until items
// are removed one by one.
func (s *Store) Clear() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return []Item{}
}

// Registry hands out one Store per user.
type Registry struct {
	gw  Gateway
	log logrus.FieldLogger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(gw Gateway, log logrus.FieldLogger) *Registry {
	return &Registry{
		gw:     gw,
		log:    log,
		stores: make(map[string]*Store),
	}
}

func (r *Registry) For(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stores[userID]
	if !ok {
		st = NewStore(r.gw, r.log)
		r.stores[userID] = st
	}
	return st
}
