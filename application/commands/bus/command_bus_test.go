package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type pingCommand struct {
	Target string
}

func (c pingCommand) Validate() error {
	if c.Target == "" {
		return errors.New("target required")
	}
	return nil
}

type otherCommand struct{}

func (otherCommand) Validate() error { return nil }

func TestCommandBus_Send(t *testing.T) {
	b := NewCommandBus()
	var got string
	require.NoError(t, b.Register(pingCommand{}, Typed(func(_ context.Context, c pingCommand) error {
		got = c.Target
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{Target: "muestras"}))
	assert.Equal(t, "muestras", got)
}

func TestCommandBus_Errors(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, Typed(func(context.Context, pingCommand) error {
		return errors.New("boom")
	})))

	assert.ErrorIs(t, b.Send(context.Background(), pingCommand{}), ErrValidationFailed)
	assert.ErrorIs(t, b.Send(context.Background(), otherCommand{}), ErrHandlerNotFound)
	assert.ErrorContains(t, b.Send(context.Background(), pingCommand{Target: "x"}), "boom")
	assert.Error(t, b.Register(pingCommand{}, Typed(func(context.Context, pingCommand) error { return nil })))
}

func TestCommandBus_MiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	b := NewCommandBus(mark("outer"), mark("inner"))
	require.NoError(t, b.Register(pingCommand{}, Typed(func(context.Context, pingCommand) error {
		order = append(order, "handler")
		return nil
	})))

	require.NoError(t, b.Send(context.Background(), pingCommand{Target: "x"}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := NewCommandBus(LoggingMiddleware(zap.New(core)), ValidationMiddleware())
	require.NoError(t, b.Register(pingCommand{}, Typed(func(context.Context, pingCommand) error {
		return errors.New("boom")
	})))

	_ = b.Send(context.Background(), pingCommand{Target: "x"})

	assert.Equal(t, 1, logs.FilterMessage("Executing command").Len())
	assert.Equal(t, 1, logs.FilterMessage("Command failed").Len())
}
