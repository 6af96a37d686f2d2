// File: buffer/factory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer factories binding buffers to an allocation strategy. The factory,
// not the buffer, owns allocation policy; growth inside a buffer goes back
// through the factory's allocator.

package buffer

import (
	"github.com/momentics/hioload-gw/api"
	"github.com/momentics/hioload-gw/pool"
)

// HeapFactory allocates buffer storage on the Go heap.
type HeapFactory struct{}

var _ api.BufferFactory = (*HeapFactory)(nil)

// NewHeapFactory returns a heap-backed factory.
func NewHeapFactory() *HeapFactory {
	return &HeapFactory{}
}

// Allocate returns an empty buffer with the given capacity.
func (f *HeapFactory) Allocate(capacity int) (api.Buffer, error) {
	if capacity < 0 {
		return nil, api.ErrRange
	}
	return newBuf(make([]byte, capacity), 0, nil, nil), nil
}

// Wrap adopts data as the readable content of a new buffer.
func (f *HeapFactory) Wrap(data []byte) api.Buffer {
	return newBuf(data, len(data), nil, nil)
}

// PooledFactory allocates buffer storage from a pool.RegionPool. Blocks go
// back to the pool when a buffer's reference count reaches zero, so pooled
// buffers must be released exactly as often as they were retained.
type PooledFactory struct {
	pool *pool.RegionPool
}

var _ api.BufferFactory = (*PooledFactory)(nil)

// NewPooledFactory returns a factory drawing storage from p.
func NewPooledFactory(p *pool.RegionPool) *PooledFactory {
	return &PooledFactory{pool: p}
}

// Allocate returns an empty buffer backed by a pooled block of at least
// the given capacity. The buffer's capacity is the full block size.
func (f *PooledFactory) Allocate(capacity int) (api.Buffer, error) {
	if capacity < 0 {
		return nil, api.ErrRange
	}
	block, err := f.pool.Get(capacity)
	if err != nil {
		return nil, err
	}
	return newBuf(block, 0, f.pool.Put, f.allocBlock), nil
}

// Wrap adopts data as the readable content of a new buffer. The block is
// not pool-managed; growth past its capacity is.
func (f *PooledFactory) Wrap(data []byte) api.Buffer {
	return newBuf(data, len(data), nil, f.allocBlock)
}

func (f *PooledFactory) allocBlock(size int) ([]byte, func([]byte), error) {
	block, err := f.pool.Get(size)
	if err != nil {
		return nil, nil, err
	}
	return block, f.pool.Put, nil
}

// DirectFactory allocates buffer storage outside the Go heap where the
// platform supports it (anonymous mmap on Linux), falling back to heap
// blocks elsewhere or when the mapping fails.
type DirectFactory struct{}

var _ api.BufferFactory = (*DirectFactory)(nil)

// NewDirectFactory returns a direct-allocation factory.
func NewDirectFactory() *DirectFactory {
	return &DirectFactory{}
}

// Allocate returns an empty buffer over directly allocated storage.
func (f *DirectFactory) Allocate(capacity int) (api.Buffer, error) {
	if capacity < 0 {
		return nil, api.ErrRange
	}
	data, free := directAlloc(capacity)
	return newBuf(data, 0, free, directAllocHook), nil
}

// Wrap adopts data as the readable content of a new buffer. Growth uses
// direct allocation.
func (f *DirectFactory) Wrap(data []byte) api.Buffer {
	return newBuf(data, len(data), nil, directAllocHook)
}

func directAllocHook(size int) ([]byte, func([]byte), error) {
	data, free := directAlloc(size)
	return data, free, nil
}
