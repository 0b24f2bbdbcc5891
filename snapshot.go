package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Snapshot is the full state of an account, as exported and imported.
type Snapshot struct {
	Profile        Profile     `json:"profile"`
	Portfolios     []Portfolio `json:"portfolios"`
	Expenses       []Expense   `json:"expenses"`
	SavingsBalance Amount      `json:"savingsBalance"`
}

// snapshotKeys are the top-level keys every snapshot must carry.
var snapshotKeys = []string{"profile", "portfolios", "expenses", "savingsBalance"}

// snapshotKind returns the JSON kind expected for a top-level snapshot key.
func snapshotKind(key string) string {
	switch key {
	case "profile":
		return "object"
	case "savingsBalance":
		return "number"
	default:
		return "array"
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

// ImportOptions tunes DecodeSnapshot.
type ImportOptions struct {
	// Email, when set, must match the snapshot profile email.
	Email string
}

// EncodeSnapshot writes s as indented JSON.
func EncodeSnapshot(w io.Writer, s Snapshot) error {
	if s.Portfolios == nil {
		s.Portfolios = []Portfolio{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DecodeSnapshot reads and validates a snapshot.
func DecodeSnapshot(r io.Reader, opts ImportOptions) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: malformed snapshot: %w", ErrValidation, err)
	}
	for _, key := range snapshotKeys {
		v, err := jsonpath.Get("$."+key, raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: snapshot has no %q key", ErrValidation, key)
		}
		if got, want := jsonKind(v), snapshotKind(key); got != want {
			return Snapshot{}, fmt.Errorf("%w: snapshot %q is %s, want %s", ErrValidation, key, got, want)
		}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: malformed snapshot: %w", ErrValidation, err)
	}
	if err := checkEmail(s, opts.Email); err != nil {
		return Snapshot{}, err
	}
	if err := s.validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func checkEmail(s Snapshot, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(s.Profile.Email), email) {
		return fmt.Errorf("%w: snapshot belongs to %q, not to %q", ErrValidation, s.Profile.Email, email)
	}
	return nil
}

// validate checks every entity of s and normalizes what older exports omit.
func (s *Snapshot) validate() error {
	var errs []error
	if s.SavingsBalance.IsNegative() {
		errs = append(errs, fmt.Errorf("savings balance is %s", s.SavingsBalance))
	}
	ids := make(map[string]bool)
	for i := range s.Portfolios {
		p := &s.Portfolios[i]
		if p.ID == "" || ids[p.ID] {
			errs = append(errs, fmt.Errorf("portfolio %q has a missing or duplicate id", p.Name))
		}
		ids[p.ID] = true
		p.Currency = normalizeCurrency(p.Currency)
		if err := ValidateCurrency(p.Currency); err != nil {
			errs = append(errs, err)
		}
		if err := p.validate(); err != nil {
			errs = append(errs, err)
		}
		tradeIDs := make(map[string]bool, len(p.Trades))
		for j := range p.Trades {
			t := &p.Trades[j]
			if t.ID == "" || tradeIDs[t.ID] {
				errs = append(errs, fmt.Errorf("trade %q of %q has a missing or duplicate id", t.StockName, p.Name))
			}
			tradeIDs[t.ID] = true
			if t.PortfolioID == "" {
				t.PortfolioID = p.ID
			}
			if t.PortfolioID != p.ID {
				errs = append(errs, fmt.Errorf("trade %s belongs to portfolio %q, not %q", t.ID, t.PortfolioID, p.ID))
			}
			if err := t.validate(); err != nil {
				errs = append(errs, fmt.Errorf("trade %s: %w", t.ID, err))
			}
			if err := t.validateState(); err != nil {
				errs = append(errs, fmt.Errorf("trade %s: %w", t.ID, err))
			}
		}
		goalIDs := make(map[string]bool, len(p.FinancialGoals))
		for _, g := range p.FinancialGoals {
			if _, err := validateGoal(g.Name, g.Amount); err != nil {
				errs = append(errs, fmt.Errorf("goal %s of %q: %w", g.ID, p.Name, err))
			}
			if g.ID == "" || goalIDs[g.ID] {
				errs = append(errs, fmt.Errorf("goal %q of %q has a missing or duplicate id", g.Name, p.Name))
			}
			goalIDs[g.ID] = true
		}
		if p.FinancialGoals == nil {
			p.FinancialGoals = []FinancialGoal{}
		}
		if p.Trades == nil {
			p.Trades = []Trade{}
		}
		if p.Withdrawals == nil {
			p.Withdrawals = []Withdrawal{}
		}
		sortGoals(p.FinancialGoals)
	}
	clear(ids)
	for _, e := range s.Expenses {
		if e.ID == "" || ids[e.ID] {
			errs = append(errs, fmt.Errorf("expense %q has a missing or duplicate id", e.Description))
		}
		ids[e.ID] = true
		if !e.Amount.IsPositive() {
			errs = append(errs, fmt.Errorf("expense %q amount is %s", e.Description, e.Amount))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: invalid snapshot: %w", ErrValidation, err)
	}
	return nil
}

// Export returns a copy of the whole account state.
func (l *Ledger) Export() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.st.clone()
	return Snapshot{
		Profile:        s.profile,
		Portfolios:     s.portfolios,
		Expenses:       s.expenses,
		SavingsBalance: s.savings,
	}
}

// Import replaces the whole account state with s. Documents absent from s are
// deleted. It is all or nothing: an invalid snapshot or a failed write leaves
// the ledger unchanged. The caller is responsible for confirming the
// overwrite.
func (l *Ledger) Import(ctx context.Context, s Snapshot) error {
	if err := checkEmail(s, l.email); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	err := l.apply(ctx, "import", func(t *tx) error {
		keep := make(map[string]bool)
		for _, p := range s.Portfolios {
			keep[p.ID] = true
		}
		for _, p := range t.s.portfolios {
			if !keep[p.ID] {
				t.c.remove(collPortfolios, p.ID)
			}
		}
		clear(keep)
		for _, e := range s.Expenses {
			keep[e.ID] = true
		}
		for _, e := range t.s.expenses {
			if !keep[e.ID] {
				t.c.remove(collExpenses, e.ID)
			}
		}

		imported := (&state{portfolios: s.Portfolios}).clone()
		t.s.portfolios = imported.portfolios
		for i := range t.s.portfolios {
			if err := t.savePortfolio(&t.s.portfolios[i]); err != nil {
				return err
			}
		}
		t.s.expenses = slices.Clone(s.Expenses)
		slices.SortStableFunc(t.s.expenses, func(a, b Expense) int { return b.Date.Compare(a.Date) })
		for _, e := range t.s.expenses {
			t.c.put(collExpenses, e.ID, e)
		}
		t.s.savings = s.SavingsBalance
		t.s.profile = s.Profile
		t.saveSavings()
		t.c.put(collMeta, metaProfile, t.s.profile)
		return nil
	})
	return err
}
