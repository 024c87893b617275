package cart

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry hands out one Store per user so every signed-in session works
// against its own snapshot.
type Registry struct {
	gw    Gateway
	users Users
	log   logrus.FieldLogger

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(gw Gateway, users Users, log logrus.FieldLogger) *Registry {
	return &Registry{
		gw:     gw,
		users:  users,
		log:    log,
		stores: make(map[string]*Store),
	}
}

// TotalFor reports the current cart total for a user, zero when nothing has
// been loaded yet. The checkout flow reads it when creating the payment.
func (r *Registry) TotalFor(userID string) int {
	return r.For(userID).TotalAmount()
}

func (r *Registry) For(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stores[userID]
	if !ok {
		st = NewStore(r.gw, r.users, r.log)
		r.stores[userID] = st
	}
	return st
}
