// File: pool/regionpool.go
// Package pool implements size-classed pooling of buffer storage blocks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-gw/api"
)

// Predefined (power-of-two spaced) block size classes in bytes.
// This table can be tuned for deployment needs.
var sizeClasses = [...]int{
	256,
	1024,
	4 * 1024,
	16 * 1024,
	64 * 1024,
	256 * 1024,
	1 * 1024 * 1024,
}

// classCapacity bounds how many free blocks each class retains; beyond it
// returned blocks are dropped for the GC.
const classCapacity = 1024

// sizeClassUpperBound returns the smallest class >= requested size, or the
// requested size itself for oversized requests, which bypass pooling.
func sizeClassUpperBound(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return size
}

// RegionPoolStats aggregates block allocation and reuse counters.
type RegionPoolStats struct {
	TotalAlloc int64
	TotalFree  int64
	InUse      int64
}

// RegionPool hands out reusable storage blocks for pooled buffer
// factories. Each size class keeps its own FIFO free list.
type RegionPool struct {
	mu      sync.Mutex
	classes map[int]*classList

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
}

type classList struct {
	mu   sync.Mutex
	free *queue.Queue
}

// NewRegionPool returns an empty pool.
func NewRegionPool() *RegionPool {
	return &RegionPool{classes: make(map[int]*classList)}
}

// Get returns a block of at least size bytes, reusing a pooled block when
// one is available. Oversized requests are allocated exactly and never
// pooled.
func (p *RegionPool) Get(size int) ([]byte, error) {
	if size < 0 {
		return nil, api.ErrAllocation
	}
	clz := sizeClassUpperBound(size)
	if cl := p.class(clz, false); cl != nil {
		cl.mu.Lock()
		if cl.free.Length() > 0 {
			block := cl.free.Remove().([]byte)
			cl.mu.Unlock()
			return block, nil
		}
		cl.mu.Unlock()
	}
	p.totalAlloc.Add(1)
	return make([]byte, clz), nil
}

// Put returns a block to its size class. Blocks whose length is not a
// known class, and blocks beyond the class retention cap, are dropped.
func (p *RegionPool) Put(block []byte) {
	clz := len(block)
	if !isClass(clz) {
		return
	}
	cl := p.class(clz, true)
	cl.mu.Lock()
	if cl.free.Length() < classCapacity {
		cl.free.Add(block)
	}
	cl.mu.Unlock()
	p.totalFree.Add(1)
}

// Stats exposes allocation counters for observability.
func (p *RegionPool) Stats() RegionPoolStats {
	alloc := p.totalAlloc.Load()
	free := p.totalFree.Load()
	return RegionPoolStats{
		TotalAlloc: alloc,
		TotalFree:  free,
		InUse:      alloc - free,
	}
}

// class returns the free list for clz, lazily creating it when create is
// set.
func (p *RegionPool) class(clz int, create bool) *classList {
	p.mu.Lock()
	defer p.mu.Unlock()
	cl, ok := p.classes[clz]
	if !ok && create {
		cl = &classList{free: queue.New()}
		p.classes[clz] = cl
	}
	return cl
}

func isClass(size int) bool {
	for _, c := range sizeClasses {
		if size == c {
			return true
		}
	}
	return false
}
