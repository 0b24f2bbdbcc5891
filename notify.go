package wallet

import "context"

// Notification is a discrete alert for the user.
type Notification struct {
	Title       string
	Body        string
	PortfolioID string
	GoalID      string
}

// Notifier delivers notifications. It is fire and forget: the ledger logs and
// ignores its errors.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
