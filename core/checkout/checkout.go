package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/irsalhamdi/e-commerce-storefront/core/order"
	"github.com/irsalhamdi/e-commerce-storefront/core/payment"
	"github.com/irsalhamdi/e-commerce-storefront/core/session"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateBuildingAddress State = "BUILDING_ADDRESS"
	StateCreatingOrder   State = "CREATING_ORDER"
	StateCreatingPayment State = "CREATING_PAYMENT"
	StateCreatingSession State = "CREATING_SESSION"
	StateRedirecting     State = "REDIRECTING"
	StateFailed          State = "FAILED"
)

func (s State) IsTerminal() bool {
	return s == StateRedirecting || s == StateFailed
}

var (
	ErrNoUser    = errors.New("no signed-in user")
	ErrNoAddress = errors.New("no shipping address captured")
)

type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
}

func (a Address) String() string {
	return strings.Join([]string{a.Street, a.City, a.Country, a.ZipCode}, ", ")
}

type Gateway interface {
	Post(ctx context.Context, path string, body any, out any) error
}

type Users interface {
	Current(ctx context.Context) (session.User, bool)
}

type Carts interface {
	TotalFor(userID string) int
}

// RedirectSink receives the hosted payment session URL and transfers
// control out of the storefront. Nothing runs after the handoff.
type RedirectSink func(url string)

// Result reports how far a single checkout attempt got.
type Result struct {
	State       State  `json:"state"`
	OrderID     string `json:"orderId,omitempty"`
	PaymentID   string `json:"paymentId,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Saga drives the linear chain order -> payment -> payment session ->
// redirect. Each stage depends on the previous one's output and any stage
// failure is terminal for the attempt: later stages never run, earlier
// resources are left for out-of-band cleanup, and the user has to place the
// order again deliberately.
type Saga struct {
	gw    Gateway
	carts Carts
	users Users
	log   logrus.FieldLogger

	mu        sync.Mutex
	addresses map[string]Address
}

func NewSaga(gw Gateway, carts Carts, users Users, log logrus.FieldLogger) *Saga {
	return &Saga{
		gw:        gw,
		carts:     carts,
		users:     users,
		log:       log,
		addresses: make(map[string]Address),
	}
}

func (s *Saga) SaveAddress(userID string, a Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[userID] = a
}

func (s *Saga) Address(userID string) (Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.addresses[userID]
	return a, ok
}

// Run executes one checkout attempt for the signed-in user. A missing
// address halts before any remote call is issued.
func (s *Saga) Run(ctx context.Context, sink RedirectSink) (Result, error) {
	u, ok := s.users.Current(ctx)
	if !ok {
		return Result{State: StateFailed}, ErrNoUser
	}

	addr, ok := s.Address(u.ID)
	if !ok {
		return Result{State: StateBuildingAddress}, ErrNoAddress
	}

	res := Result{State: StateCreatingOrder}

	var ord order.Order
	dto := order.OrderNew{ShippingAddress: addr.String(), CreatedBy: u.ID}
	if err := s.gw.Post(ctx, "api/order", dto, &ord); err != nil {
		return s.fail(res, fmt.Errorf("creating order: %w", err))
	}
	if ord.ID == "" {
		return s.fail(res, errors.New("creating order: response carries no id"))
	}
	res.OrderID = ord.ID

	res.State = StateCreatingPayment

	var pay payment.Payment
	pdto := payment.PaymentNew{
		OrderID:     ord.ID,
		Method:      payment.Card,
		TotalAmount: s.carts.TotalFor(u.ID),
		CreatedBy:   u.ID,
	}
	if err := s.gw.Post(ctx, "api/payment", pdto, &pay); err != nil {
		return s.fail(res, fmt.Errorf("creating payment for order[%s]: %w", ord.ID, err))
	}
	if pay.ID == "" {
		return s.fail(res, fmt.Errorf("creating payment for order[%s]: response carries no id", ord.ID))
	}
	res.PaymentID = pay.ID

	res.State = StateCreatingSession

	// The session is keyed by order id alone; the payment record exists by
	// now but the session endpoint does not need it.
	var sess payment.Session
	sdto := payment.SessionNew{OrderID: ord.ID}
	if err := s.gw.Post(ctx, "api/payment/session", sdto, &sess); err != nil {
		return s.fail(res, fmt.Errorf("creating payment session for order[%s]: %w", ord.ID, err))
	}
	if sess.URL == "" {
		return s.fail(res, fmt.Errorf("creating payment session for order[%s]: response carries no url", ord.ID))
	}

	res.State = StateRedirecting
	res.RedirectURL = sess.URL
	sink(sess.URL)

	return res, nil
}

func (s *Saga) fail(res Result, err error) (Result, error) {
	s.log.WithFields(logrus.Fields{
		"stage":   res.State,
		"message": err,
	}).Error("checkout halted")

	res.State = StateFailed
	return res, err
}
