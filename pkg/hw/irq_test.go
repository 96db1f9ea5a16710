package hw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorBindRaise(t *testing.T) {
	var v Vector
	var got []IrqSource
	for _, src := range []IrqSource{IrqReceive, IrqTransmit, IrqError} {
		src := src
		require.NoError(t, v.Bind(src, func() { got = append(got, src) }))
	}
	v.Seal()
	v.Raise(IrqTransmit)
	v.Raise(IrqReceive)
	v.Raise(IrqError)
	require.Equal(t, []IrqSource{IrqTransmit, IrqReceive, IrqError}, got)
}

func TestVectorSealed(t *testing.T) {
	var v Vector
	v.Seal()
	require.Equal(t, ErrVectorSealed, v.Bind(IrqReceive, func() {}))
}

func TestVectorBadSource(t *testing.T) {
	var v Vector
	require.Equal(t, ErrBadIrqSource, v.Bind(IrqSource(-1), func() {}))
	require.Equal(t, ErrBadIrqSource, v.Bind(irqSourceCount, func() {}))
	v.Raise(IrqSource(99))
}

func TestVectorUnboundRaise(t *testing.T) {
	var v Vector
	v.Seal()
	v.Raise(IrqReceive)
}
