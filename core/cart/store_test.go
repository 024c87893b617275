package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/irsalhamdi/e-commerce-storefront/core/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	calls []string

	getFn    func(path string, out any) error
	postFn   func(path string, body any, out any) error
	putFn    func(path string, body any, out any) error
	deleteFn func(path string) error
}

func (f *fakeGateway) Get(ctx context.Context, path string, params url.Values, out any) error {
	f.calls = append(f.calls, "GET "+path)
	return f.getFn(path, out)
}

func (f *fakeGateway) Post(ctx context.Context, path string, body any, out any) error {
	f.calls = append(f.calls, "POST "+path)
	return f.postFn(path, body, out)
}

func (f *fakeGateway) Put(ctx context.Context, path string, body any, out any) error {
	f.calls = append(f.calls, "PUT "+path)
	return f.putFn(path, body, out)
}

func (f *fakeGateway) Delete(ctx context.Context, path string) error {
	f.calls = append(f.calls, "DELETE "+path)
	return f.deleteFn(path)
}

func respond(out any, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

type fakeUsers struct {
	user *session.User
}

func (f *fakeUsers) Current(ctx context.Context) (session.User, bool) {
	if f.user == nil {
		return session.User{}, false
	}
	return *f.user, true
}

var testUser = session.User{ID: "u-1", Name: "Jane", Email: "jane@test.com"}

func newTestStore(gw *fakeGateway) *Store {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStore(gw, &fakeUsers{user: &testUser}, log)
}

func serverCart(items ...Item) Cart {
	return Cart{
		ID:        "c-1",
		UserID:    testUser.ID,
		Items:     items,
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLoadRecomputesTotals(t *testing.T) {
	// The payload carries stale item totals; the store must not trust them.
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 2, UnitPrice: 500, TotalPrice: 1},
				Item{ID: "i-2", ProductID: "p-2", Quantity: 3, UnitPrice: 200, TotalPrice: 9999},
			))
		},
	}
	st := newTestStore(gw)

	c, err := st.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, 1000, c.Items[0].TotalPrice)
	assert.Equal(t, 600, c.Items[1].TotalPrice)
	assert.Equal(t, 1600, c.TotalAmount)
	assert.Equal(t, 1600, st.TotalAmount())
	assert.Equal(t, 5, st.TotalItems())
}

func TestLoadFallsBackToCreateOnce(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return errors.New("no cart for user")
		},
		postFn: func(path string, body any, out any) error {
			return respond(out, serverCart())
		},
	}
	st := newTestStore(gw)

	c, err := st.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"GET api/cart/user", "POST api/cart"}, gw.calls)
	assert.Equal(t, "c-1", c.ID)
	assert.Equal(t, testUser.ID, c.UserID)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalAmount)
}

func TestCreateRequiresUser(t *testing.T) {
	gw := &fakeGateway{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	st := NewStore(gw, &fakeUsers{}, log)

	_, err := st.Create(context.Background())
	require.ErrorIs(t, err, ErrNoUser)
	assert.Empty(t, gw.calls)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 2, UnitPrice: 500, TotalPrice: 1000},
			))
		},
		postFn: func(path string, body any, out any) error {
			return respond(out, Item{ID: "i-9", ProductID: "p-1", Quantity: 3, UnitPrice: 400, TotalPrice: 1200})
		},
	}
	st := newTestStore(gw)

	_, err := st.Load(context.Background())
	require.NoError(t, err)

	c, err := st.AddItem(context.Background(), "p-1", 3, 400)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	it := c.Items[0]
	assert.Equal(t, 5, it.Quantity)
	assert.Equal(t, 400, it.UnitPrice)
	assert.Equal(t, 2200, it.TotalPrice)
	assert.Equal(t, 2200, c.TotalAmount)
}

func TestAddItemAppendsNewProduct(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
			))
		},
		postFn: func(path string, body any, out any) error {
			return respond(out, Item{ID: "i-2", ProductID: "p-2", Quantity: 2, UnitPrice: 300, TotalPrice: 600})
		},
	}
	st := newTestStore(gw)

	_, err := st.Load(context.Background())
	require.NoError(t, err)

	c, err := st.AddItem(context.Background(), "p-2", 2, 300)
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "p-2", c.Items[1].ProductID)
	assert.Equal(t, 1100, c.TotalAmount)
}

func TestAddItemSendsComputedTotal(t *testing.T) {
	var sent ItemNew
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart())
		},
		postFn: func(path string, body any, out any) error {
			sent = body.(ItemNew)
			return respond(out, Item{ID: "i-1", ProductID: "p-1", Quantity: 4, UnitPrice: 250, TotalPrice: 1000})
		},
	}
	st := newTestStore(gw)

	_, err := st.Load(context.Background())
	require.NoError(t, err)

	_, err = st.AddItem(context.Background(), "p-1", 4, 250)
	require.NoError(t, err)

	assert.Equal(t, "c-1", sent.CartID)
	assert.Equal(t, 1000, sent.TotalPrice)
	assert.Equal(t, testUser.ID, sent.CreatedBy)
}

func TestAddItemCreatesMissingCartFirst(t *testing.T) {
	gw := &fakeGateway{
		postFn: func(path string, body any, out any) error {
			if path == "api/cart" {
				return respond(out, serverCart())
			}
			return respond(out, Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 700, TotalPrice: 700})
		},
	}
	st := newTestStore(gw)

	c, err := st.AddItem(context.Background(), "p-1", 1, 700)
	require.NoError(t, err)

	assert.Equal(t, []string{"POST api/cart", "POST api/cartitem"}, gw.calls)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 700, c.TotalAmount)
}

func TestAddItemHaltsWhenCartCreateFails(t *testing.T) {
	gw := &fakeGateway{
		postFn: func(path string, body any, out any) error {
			return errors.New("upstream down")
		},
	}
	st := newTestStore(gw)

	_, err := st.AddItem(context.Background(), "p-1", 1, 700)
	require.Error(t, err)

	// One create attempt, no item call, no retry.
	assert.Equal(t, []string{"POST api/cart"}, gw.calls)
	_, ok := st.Snapshot()
	assert.False(t, ok)
}

func TestUpdateQuantityTrustsServerFigures(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
			))
		},
		putFn: func(path string, body any, out any) error {
			// The server caps the quantity at 3 and reprices.
			return respond(out, Item{ID: "i-1", ProductID: "p-1", Quantity: 3, UnitPrice: 500, TotalPrice: 1400})
		},
	}
	st := newTestStore(gw)

	_, err := st.Load(context.Background())
	require.NoError(t, err)

	c, err := st.UpdateQuantity(context.Background(), "i-1", 10)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 1400, c.Items[0].TotalPrice)
	assert.Equal(t, 1400, c.TotalAmount)
}

func TestRemoveItem(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
				Item{ID: "i-2", ProductID: "p-2", Quantity: 2, UnitPrice: 100, TotalPrice: 200},
			))
		},
		deleteFn: func(path string) error { return nil },
	}
	st := newTestStore(gw)

	_, err := st.Load(context.Background())
	require.NoError(t, err)

	c, err := st.RemoveItem(context.Background(), "i-1")
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "i-2", c.Items[0].ID)
	assert.Equal(t, 200, c.TotalAmount)
}

func TestRemoveNonexistentItemIsNoop(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
			))
		},
	}
	st := newTestStore(gw)

	before, err := st.Load(context.Background())
	require.NoError(t, err)

	after, err := st.RemoveItem(context.Background(), "i-unknown")
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, []string{"GET api/cart/user"}, gw.calls)
}

func TestClearPreservesCartIdentity(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 2, UnitPrice: 500, TotalPrice: 1000},
			))
		},
		deleteFn: func(path string) error { return nil },
	}
	st := newTestStore(gw)

	before, err := st.Load(context.Background())
	require.NoError(t, err)

	c, err := st.Clear(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"GET api/cart/user", "DELETE api/cart/clear/c-1"}, gw.calls)
	assert.Equal(t, before.ID, c.ID)
	assert.Equal(t, before.UserID, c.UserID)
	assert.Equal(t, before.CreatedAt, c.CreatedAt)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.TotalAmount)
}

func TestClearWithoutCart(t *testing.T) {
	gw := &fakeGateway{}
	st := newTestStore(gw)

	_, err := st.Clear(context.Background())
	require.ErrorIs(t, err, ErrNoCart)
	assert.Empty(t, gw.calls)
}

func TestMutationFailureKeepsSnapshot(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart(
				Item{ID: "i-1", ProductID: "p-1", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
			))
		},
	}
	st := newTestStore(gw)

	before, err := st.Load(context.Background())
	require.NoError(t, err)

	gw.postFn = func(path string, body any, out any) error {
		return errors.New("upstream rejected")
	}

	_, err = st.AddItem(context.Background(), "p-2", 1, 100)
	require.Error(t, err)

	after, ok := st.Snapshot()
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestSubscribeAndCancel(t *testing.T) {
	gw := &fakeGateway{
		getFn: func(path string, out any) error {
			return respond(out, serverCart())
		},
	}
	st := newTestStore(gw)

	var seen []Cart
	cancel := st.Subscribe(func(c Cart) { seen = append(seen, c) })

	_, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, "c-1", seen[0].ID)

	cancel()

	_, err = st.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}
