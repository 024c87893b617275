package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/gateway"
	"github.com/irsalhamdi/e-commerce-storefront/validate"
)

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func HandleLogin(m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var creds Credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		var u User
		if err := m.gw.Post(ctx, "api/auth/login", creds, &u); err != nil {
			var rerr *gateway.RemoteError
			if errors.As(err, &rerr) {
				return weberr.NotAuthorized(rerr)
			}
			return err
		}

		if err := m.put(ctx, u); err != nil {
			return err
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := m.destroy(ctx); err != nil {
			return err
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleShowCurrent(m *Manager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := m.Current(ctx)
		if !ok {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}
		return web.Respond(ctx, w, u, http.StatusOK)
	}
}
