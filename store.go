package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etnz/wallet/docstore"
)

// Collections and meta document ids used in the Store.
const (
	collPortfolios = "portfolios"
	collExpenses   = "expenses"
	collMeta       = "meta"

	metaSavings  = "savings"
	metaProfile  = "profile"
	metaSettings = "settings"
)

// Store is the persistence collaborator. Documents are JSON, addressed by a
// collection and an id. Get returns docstore.ErrNotFound for a missing document.
type Store interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	List(ctx context.Context, collection string) ([][]byte, error)
	Set(ctx context.Context, collection, id string, doc []byte) error
	Delete(ctx context.Context, collection, id string) error
}

// Batcher is implemented by stores able to apply several writes atomically.
type Batcher interface {
	Batch(ctx context.Context, writes []docstore.Write) error
}

// changeSet accumulates the documents changed by one ledger operation.
type changeSet struct {
	writes []docstore.Write
	err    error
}

func (c *changeSet) put(collection, id string, v any) {
	if c.err != nil {
		return
	}
	doc, err := json.Marshal(v)
	if err != nil {
		c.err = fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
		return
	}
	c.writes = append(c.writes, docstore.Put(collection, id, doc))
}

func (c *changeSet) remove(collection, id string) {
	c.writes = append(c.writes, docstore.Remove(collection, id))
}

// persist writes c to the store, atomically when the store is a Batcher.
//
// Otherwise writes are applied one by one; on failure the documents already
// written are restored to their previous content, and any restore failure is
// joined to the returned error. The returned error always wraps ErrPersistence.
func (l *Ledger) persist(ctx context.Context, c *changeSet) error {
	if c.err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, c.err)
	}
	if len(c.writes) == 0 {
		return nil
	}
	if b, ok := l.store.(Batcher); ok {
		if err := b.Batch(ctx, c.writes); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil
	}

	// previous content, nil when the document did not exist.
	undo := make([]docstore.Write, 0, len(c.writes))
	for _, w := range c.writes {
		prev, err := l.store.Get(ctx, w.Collection, w.ID)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return errors.Join(fmt.Errorf("%w: %w", ErrPersistence, err), l.rollback(ctx, undo))
		}
		if w.IsDelete() {
			err = l.store.Delete(ctx, w.Collection, w.ID)
		} else {
			err = l.store.Set(ctx, w.Collection, w.ID, w.Doc)
		}
		if err != nil {
			return errors.Join(fmt.Errorf("%w: %w", ErrPersistence, err), l.rollback(ctx, undo))
		}
		undo = append(undo, docstore.Write{Collection: w.Collection, ID: w.ID, Doc: prev})
	}
	return nil
}

// rollback restores undo in reverse order.
func (l *Ledger) rollback(ctx context.Context, undo []docstore.Write) error {
	var errs error
	for i := len(undo) - 1; i >= 0; i-- {
		w := undo[i]
		var err error
		if w.IsDelete() {
			err = l.store.Delete(ctx, w.Collection, w.ID)
		} else {
			err = l.store.Set(ctx, w.Collection, w.ID, w.Doc)
		}
		if err != nil {
			l.log.Error().Err(err).Str("collection", w.Collection).Str("id", w.ID).Msg("rollback failed")
			errs = errors.Join(errs, fmt.Errorf("rollback %s/%s: %w", w.Collection, w.ID, err))
		}
	}
	if errs == nil && len(undo) > 0 {
		l.log.Warn().Int("writes", len(undo)).Msg("sequential writes rolled back")
	}
	return errs
}

// load reads the whole account state from the store.
func (l *Ledger) load(ctx context.Context) (state, error) {
	s := newState()

	docs, err := l.store.List(ctx, collPortfolios)
	if err != nil {
		return s, fmt.Errorf("%w: list portfolios: %w", ErrPersistence, err)
	}
	for _, doc := range docs {
		var p Portfolio
		if err := json.Unmarshal(doc, &p); err != nil {
			return s, fmt.Errorf("%w: decode portfolio: %w", ErrValidation, err)
		}
		s.portfolios = append(s.portfolios, p)
	}

	docs, err = l.store.List(ctx, collExpenses)
	if err != nil {
		return s, fmt.Errorf("%w: list expenses: %w", ErrPersistence, err)
	}
	for _, doc := range docs {
		var e Expense
		if err := json.Unmarshal(doc, &e); err != nil {
			return s, fmt.Errorf("%w: decode expense: %w", ErrValidation, err)
		}
		s.expenses = append(s.expenses, e)
	}

	for id, v := range map[string]any{metaSavings: &s.savings, metaProfile: &s.profile, metaSettings: &s.settings} {
		doc, err := l.store.Get(ctx, collMeta, id)
		if errors.Is(err, docstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("%w: get %s: %w", ErrPersistence, id, err)
		}
		if err := json.Unmarshal(doc, v); err != nil {
			return s, fmt.Errorf("%w: decode %s: %w", ErrValidation, id, err)
		}
	}
	return s, nil
}
