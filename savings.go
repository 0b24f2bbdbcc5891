package wallet

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category classifies an expense.
type Category string

// Expense categories.
const (
	Groceries      Category = "groceries"
	Shopping       Category = "shopping"
	Restaurants    Category = "restaurants"
	Transportation Category = "transportation"
	Travel         Category = "travel"
	Entertainment  Category = "entertainment"
	Utilities      Category = "utilities"
	HealthServices Category = "health-services"
	Services       Category = "services"
	Transfers      Category = "transfers"
	CashWithdrawal Category = "cash-withdrawal"
	Gifts          Category = "gifts"
	Donations      Category = "donations"
	Other          Category = "other"
)

// categoryLabels maps every category to its Arabic display label.
var categoryLabels = map[Category]string{
	Groceries:      "بقالة",
	Shopping:       "تسوق",
	Restaurants:    "مطاعم",
	Transportation: "مواصلات",
	Travel:         "سفر",
	Entertainment:  "ترفيه",
	Utilities:      "مرافق",
	HealthServices: "خدمات صحية",
	Services:       "خدمات",
	Transfers:      "تحويلات",
	CashWithdrawal: "سحب نقدي",
	Gifts:          "هدايا",
	Donations:      "تبرعات",
	Other:          "أخرى",
}

// Categories lists all the categories in display order.
var Categories = []Category{
	Groceries, Shopping, Restaurants, Transportation, Travel, Entertainment, Utilities,
	HealthServices, Services, Transfers, CashWithdrawal, Gifts, Donations, Other,
}

// Label returns the Arabic display label of c.
func (c Category) Label() string { return categoryLabels[c] }

// ParseCategory parses a category from its code or its Arabic label.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if _, ok := categoryLabels[Category(strings.ToLower(s))]; ok {
		return Category(strings.ToLower(s)), nil
	}
	for c, label := range categoryLabels {
		if label == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown expense category %q", ErrValidation, s)
}

// UnmarshalJSON accepts both category codes and Arabic labels, the latter
// being what older exports contain.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*c = Other
		return nil
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// deletedSuffix is appended to the portfolio label of expenses whose
// portfolio was deleted.
const deletedSuffix = " (deleted)"

// Expense is money spent out of the savings balance, or directly out of a
// portfolio when PortfolioID is set.
type Expense struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	Amount        Amount    `json:"amount"`
	Category      Category  `json:"category"`
	Date          time.Time `json:"date"`
	PortfolioID   string    `json:"portfolioId,omitempty"`
	PortfolioName string    `json:"portfolioName,omitempty"`
}

// NewExpense holds the fields required to record an expense.
type NewExpense struct {
	Description string
	Amount      Amount
	Category    Category
	// PortfolioID optionally pays the expense from a portfolio capital
	// instead of the savings balance.
	PortfolioID string
}

// validate checks an expense before it is recorded.
func (in NewExpense) validate() (NewExpense, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, fmt.Errorf("%w: expense description is missing", ErrValidation)
	}
	if err := positive("expense amount", in.Amount); err != nil {
		return in, err
	}
	if in.Category == "" {
		in.Category = Other
	}
	if _, ok := categoryLabels[in.Category]; !ok {
		return in, fmt.Errorf("%w: unknown expense category %q", ErrValidation, in.Category)
	}
	return in, nil
}

// orphan detaches e from its deleted portfolio while keeping a readable label.
func (e *Expense) orphan() {
	e.PortfolioID = ""
	if !strings.HasSuffix(e.PortfolioName, deletedSuffix) {
		e.PortfolioName += deletedSuffix
	}
}

// TotalExpenses sums the amounts of expenses.
func TotalExpenses(expenses []Expense) Amount {
	total := A(0)
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
