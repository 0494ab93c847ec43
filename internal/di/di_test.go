package di_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/internal/di"
)

type counter struct{ n int }

func TestContainer_FactoryBuiltOnce(t *testing.T) {
	c := di.NewContainer()
	built := 0
	token := di.NewToken[*counter]("test:counter")
	di.RegisterToken(c, token, func(di.ServiceRegistry) *counter {
		built++
		return &counter{n: built}
	})

	first := di.GetToken(c, token)
	second := di.GetToken(c, token)

	require.Same(t, first, second)
	require.Equal(t, 1, built)
}

func TestContainer_FactoryResolvesDependencies(t *testing.T) {
	c := di.NewContainer()
	c.Register("base", 10)
	token := di.NewToken[int]("test:derived")
	di.RegisterToken(c, token, func(sr di.ServiceRegistry) int {
		return sr.Get("base").(int) * 2
	})

	require.Equal(t, 20, di.GetToken(c, token))
}

func TestContainer_UnknownNamePanics(t *testing.T) {
	c := di.NewContainer()
	require.Panics(t, func() { c.Get("missing") })
}
