package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/etnz/wallet/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store is down")

// recorder is a Notifier keeping every notification.
type recorder struct {
	mu  sync.Mutex
	got []Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

// flakyStore hides the Batch method of its store and fails the writes
// selected by fail.
type flakyStore struct {
	Store
	fail func(op, collection, id string) bool
}

func (f *flakyStore) Set(ctx context.Context, collection, id string, doc []byte) error {
	if f.fail != nil && f.fail("set", collection, id) {
		return errStoreDown
	}
	return f.Store.Set(ctx, collection, id, doc)
}

func (f *flakyStore) Delete(ctx context.Context, collection, id string) error {
	if f.fail != nil && f.fail("delete", collection, id) {
		return errStoreDown
	}
	return f.Store.Delete(ctx, collection, id)
}

// failingBatch is a Batcher whose batches always fail.
type failingBatch struct{ *docstore.Memory }

func (failingBatch) Batch(context.Context, []docstore.Write) error { return errStoreDown }

// testClock returns a clock advancing one hour at each call.
func testClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Hour)
		return now
	}
}

// testIDs returns a generator of predictable ids.
func testIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func testOptions(n Notifier) Options {
	return Options{Notifier: n, Policy: DefaultPolicy(), Now: testClock(), NewID: testIDs()}
}

func newTestLedger(t *testing.T) (*Ledger, *recorder) {
	t.Helper()
	rec := &recorder{}
	l, err := Open(context.Background(), docstore.NewMemory(), testOptions(rec))
	require.NoError(t, err)
	return l, rec
}

// newTestPortfolio creates a portfolio with capital and a goal at twice the capital.
func newTestPortfolio(t *testing.T, l *Ledger, capital int) Portfolio {
	t.Helper()
	p, err := l.CreatePortfolio(context.Background(), NewPortfolio{
		Name:           "Main",
		InitialCapital: A(capital),
		FirstGoal:      A(2 * capital),
		Currency:       "EGP",
	})
	require.NoError(t, err)
	return p
}

func openTrade(t *testing.T, l *Ledger, id string, price, value int) Trade {
	t.Helper()
	_, tr, err := l.OpenTrade(context.Background(), id, NewTrade{
		StockName:     "comi",
		PurchasePrice: A(price),
		TradeValue:    A(value),
		StopLoss:      A(price).Sub(A(1)),
		TakeProfit:    A(price).Add(A(5)),
	})
	require.NoError(t, err)
	return tr
}

func assertAmount(t *testing.T, want, got Amount, msgAndArgs ...any) {
	t.Helper()
	if !want.Equal(got) {
		assert.Fail(t, fmt.Sprintf("amounts differ: want %s, got %s", want, got), msgAndArgs...)
	}
}

func memStore() Store { return docstore.NewMemory() }
