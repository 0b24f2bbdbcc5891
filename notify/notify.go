// Package notify provides wallet.Notifier sinks.
package notify

import (
	"context"
	"errors"

	"github.com/etnz/wallet"
	"github.com/rs/zerolog"
)

// Log writes notifications to a logger.
type Log struct {
	log zerolog.Logger
}

// NewLog returns a Notifier logging at info level.
func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log.With().Str("module", "notify").Logger()}
}

func (l *Log) Notify(_ context.Context, n wallet.Notification) error {
	l.log.Info().
		Str("portfolio", n.PortfolioID).
		Str("goal", n.GoalID).
		Str("title", n.Title).
		Msg(n.Body)
	return nil
}

// Func adapts a function to a Notifier.
type Func func(ctx context.Context, n wallet.Notification) error

func (f Func) Notify(ctx context.Context, n wallet.Notification) error { return f(ctx, n) }

// Multi delivers to every notifier, even after a failure, and joins the errors.
type Multi []wallet.Notifier

func (m Multi) Notify(ctx context.Context, n wallet.Notification) error {
	var errs []error
	for _, s := range m {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Chan sends notifications on a channel without blocking; notifications are
// dropped when the channel is full.
type Chan chan wallet.Notification

var ErrDropped = errors.New("notification dropped")

func (c Chan) Notify(_ context.Context, n wallet.Notification) error {
	select {
	case c <- n:
		return nil
	default:
		return ErrDropped
	}
}
