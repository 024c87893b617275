package checkout

import (
	"context"
	"errors"
	"net/http"

	"github.com/irsalhamdi/e-commerce-storefront/api/web"
	"github.com/irsalhamdi/e-commerce-storefront/api/weberr"
	"github.com/irsalhamdi/e-commerce-storefront/validate"
)

func HandleSaveAddress(s *Saga) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := s.users.Current(ctx)
		if !ok {
			return weberr.NotAuthorized(ErrNoUser)
		}

		var addr Address
		if err := web.Decode(w, r, &addr); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(addr); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		s.SaveAddress(u.ID, addr)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandlePlaceOrder runs the checkout chain. On success the response carries
// the hosted payment session URL and the browser performs the navigation.
func HandlePlaceOrder(s *Saga) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		sink := func(url string) { w.Header().Set("Location", url) }

		res, err := s.Run(ctx, sink)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoUser):
				return weberr.NotAuthorized(err)
			case errors.Is(err, ErrNoAddress):
				return weberr.UnprocessableEntity(err)
			}
			return weberr.BadGateway(err, weberr.WithFields(map[string]any{
				"order_id":   res.OrderID,
				"payment_id": res.PaymentID,
			}))
		}

		return web.Respond(ctx, w, res, http.StatusOK)
	}
}
