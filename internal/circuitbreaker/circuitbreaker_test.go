package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/internal/circuitbreaker"
)

var errBoom = errors.New("boom")

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := circuitbreaker.DefaultConfig("test")
	cfg.ConsecutiveFailures = 2
	var transitions []gobreaker.State
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}
	cb := circuitbreaker.New[int](cfg)

	fail := func() (int, error) { return 0, errBoom }
	_, err := cb.Execute(fail)
	require.ErrorIs(t, err, errBoom)
	_, err = cb.Execute(fail)
	require.ErrorIs(t, err, errBoom)

	require.Equal(t, gobreaker.StateOpen, cb.State())
	require.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)

	_, err = cb.Execute(func() (int, error) { return 1, nil })
	require.True(t, circuitbreaker.IsOpen(err))
}

func TestCircuitBreaker_IsSuccessfulKeepsClosed(t *testing.T) {
	cfg := circuitbreaker.DefaultConfig("test")
	cfg.ConsecutiveFailures = 1
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, errBoom) }
	cb := circuitbreaker.New[int](cfg)

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errBoom })
		require.ErrorIs(t, err, errBoom)
	}
	require.Equal(t, gobreaker.StateClosed, cb.State())
}
