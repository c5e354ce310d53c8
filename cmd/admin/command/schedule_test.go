package command

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	noop := func(context.Context) error { return nil }

	c, err := newScheduler(context.Background(), []job{
		{name: "a", schedule: "0 3 * * *", run: noop},
		{name: "disabled", schedule: "", run: noop},
		{name: "b", schedule: "*/15 * * * *", run: noop},
	}, log)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)

	_, err = newScheduler(context.Background(), []job{{name: "bad", schedule: "@every 5m", run: noop}}, log)
	require.Error(t, err)

	_, err = newScheduler(context.Background(), []job{{name: "bad", schedule: "61 * * * *", run: noop}}, log)
	assert.ErrorContains(t, err, "bad")
}
