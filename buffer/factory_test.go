package buffer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-gw/api"
	"github.com/momentics/hioload-gw/buffer"
	"github.com/momentics/hioload-gw/pool"
)

func TestHeapFactoryAllocate(t *testing.T) {
	f := buffer.NewHeapFactory()

	b, err := f.Allocate(32)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ReadableByteCount())
	assert.Equal(t, 32, b.Capacity())

	_, err = f.Allocate(-1)
	assert.ErrorIs(t, err, api.ErrRange)
}

func TestPooledFactoryBlocksReturnToPool(t *testing.T) {
	p := pool.NewRegionPool()
	f := buffer.NewPooledFactory(p)

	b, err := f.Allocate(100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.Capacity(), 100)
	require.NoError(t, b.Write([]byte("data")))

	assert.True(t, b.Release())
	assert.Equal(t, int64(1), p.Stats().TotalFree)

	// The released block is reused, not reallocated.
	b2, err := f.Allocate(64)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Stats().TotalAlloc)
	b2.Release()
}

func TestPooledFactoryRetainDefersReturn(t *testing.T) {
	p := pool.NewRegionPool()
	f := buffer.NewPooledFactory(p)

	b, err := f.Allocate(16)
	require.NoError(t, err)
	h := b.Retain()

	assert.False(t, b.Release())
	assert.Equal(t, int64(0), p.Stats().TotalFree)
	assert.True(t, h.Release())
	assert.Equal(t, int64(1), p.Stats().TotalFree)
}

func TestDirectFactoryRoundTrip(t *testing.T) {
	f := buffer.NewDirectFactory()

	b, err := f.Allocate(4096)
	require.NoError(t, err)
	require.NoError(t, b.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF}))

	dst := make([]byte, 4)
	require.NoError(t, b.Read(dst))
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, dst)
	assert.True(t, b.Release())
}

func TestFactoryWrapIsReadable(t *testing.T) {
	for _, f := range []api.BufferFactory{
		buffer.NewHeapFactory(),
		buffer.NewPooledFactory(pool.NewRegionPool()),
		buffer.NewDirectFactory(),
	} {
		b := f.Wrap([]byte("wrapped"))
		assert.Equal(t, 7, b.ReadableByteCount())
		assert.Equal(t, []byte("wrapped"), b.Copy())
	}
}
