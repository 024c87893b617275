package wishlist

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/core/session"
	"github.com/irsalhamdi/e-commerce-storefront/validate"
)

type Users interface {
	Current(ctx context.Context) (session.User, bool)
}

type AddRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
}

func storeFor(ctx context.Context, reg *Registry, users Users) (*Store, error) {
	u, ok := users.Current(ctx)
	if !ok {
		return nil, weberr.NotAuthorized(errors.New("user not authenticated"))
	}
	return reg.For(u.ID), nil
}

func HandleShow(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		items, err := st.Load(ctx)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleAdd(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req AddRequest
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		items, err := st.Add(ctx, req.ProductID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleRemove(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.BadRequest(err)
		}

		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		items, err := st.Remove(ctx, itemID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, items, http.StatusOK)
	}
}

func HandleClear(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, st.Clear(), http.StatusOK)
	}
}
