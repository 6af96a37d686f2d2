// File: buffer/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package buffer

import "sync/atomic"

// region is one shared block of storage. Buffers, slices and composite
// views hold counted references to regions; the block is handed back to
// its allocator when the count reaches zero.
type region struct {
	data []byte
	refs atomic.Int32
	free func([]byte) // allocator release hook, nil for plain heap blocks
}

// newRegion wraps data with an initial reference count of one.
func newRegion(data []byte, free func([]byte)) *region {
	r := &region{data: data, free: free}
	r.refs.Store(1)
	return r
}

func (r *region) retain() {
	r.refs.Add(1)
}

// release decrements the count and reports whether this call freed the
// block. Releasing below zero is a caller error.
func (r *region) release() bool {
	if r.refs.Add(-1) != 0 {
		return false
	}
	if r.free != nil {
		r.free(r.data)
	}
	r.data = nil
	return true
}
