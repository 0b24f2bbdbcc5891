package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/etnz/wallet"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var n = wallet.Notification{Title: "goal", Body: "reached", PortfolioID: "p", GoalID: "g"}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	err := NewLog(zerolog.New(&buf)).Notify(context.Background(), n)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"reached"`)
	assert.Contains(t, buf.String(), `"goal":"g"`)
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	var got []string
	m := Multi{
		Func(func(context.Context, wallet.Notification) error { return boom }),
		Func(func(_ context.Context, n wallet.Notification) error { got = append(got, n.GoalID); return nil }),
	}
	err := m.Notify(context.Background(), n)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"g"}, got)

	assert.NoError(t, Multi{}.Notify(context.Background(), n))
}

func TestChan(t *testing.T) {
	c := make(Chan, 1)
	assert.NoError(t, c.Notify(context.Background(), n))
	assert.ErrorIs(t, c.Notify(context.Background(), n), ErrDropped)
	assert.Equal(t, n, <-c)
}
