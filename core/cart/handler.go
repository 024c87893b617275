package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/validate"
)

type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	UnitPrice int    `json:"unitPrice" validate:"gte=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

func storeFor(ctx context.Context, reg *Registry, users Users) (*Store, error) {
	u, ok := users.Current(ctx)
	if !ok {
		return nil, weberr.NotAuthorized(errors.New("user not authenticated"))
	}
	return reg.For(u.ID), nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNoUser):
		return weberr.NotAuthorized(err)
	case errors.Is(err, ErrNoCart):
		return weberr.UnprocessableEntity(err)
	}
	return err
}

func HandleShow(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		c, err := st.Load(ctx)
		if err != nil {
			return translate(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleAddItem(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req AddItemRequest
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

		c, err := st.AddItem(ctx, req.ProductID, req.Quantity, req.UnitPrice)
		if err != nil {
			return translate(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUpdateItem(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.BadRequest(err)
		}

		var req UpdateItemRequest
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

		c, err := st.UpdateQuantity(ctx, itemID, req.Quantity)
		if err != nil {
			return translate(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleRemoveItem(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		itemID := web.Param(r, "id")
		if err := validate.CheckID(itemID); err != nil {
			return weberr.BadRequest(err)
		}

		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		c, err := st.RemoveItem(ctx, itemID)
		if err != nil {
			return translate(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleClear(reg *Registry, users Users) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		st, err := storeFor(ctx, reg, users)
		if err != nil {
			return err
		}

		c, err := st.Clear(ctx)
		if err != nil {
			return translate(err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}
