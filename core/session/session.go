package session

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
)

const userKey = "user"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func init() {
	gob.Register(User{})
}

type Gateway interface {
	Post(ctx context.Context, path string, body any, out any) error
}

// Manager holds the signed-in user inside the scs session and hands it to
// whoever needs the acting identity.
type Manager struct {
	session *scs.SessionManager
	gw      Gateway
}

func NewManager(sm *scs.SessionManager, gw Gateway) *Manager {
	return &Manager{session: sm, gw: gw}
}

func (m *Manager) Current(ctx context.Context) (User, bool) {
	u, ok := m.session.Get(ctx, userKey).(User)
	return u, ok
}

func (m *Manager) put(ctx context.Context, u User) error {
	if err := m.session.RenewToken(ctx); err != nil {
		return err
	}
	m.session.Put(ctx, userKey, u)
	return nil
}

func (m *Manager) destroy(ctx context.Context) error {
	return m.session.Destroy(ctx)
}

func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			wrapped := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))
			wrapped.ServeHTTP(w, r)

			return err
		}
		return h
	}
	return m
}

func (m *Manager) Authenticate() web.Middleware {
	mw := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, ok := m.Current(ctx); !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return mw
}
