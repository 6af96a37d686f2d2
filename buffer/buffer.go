// File: buffer/buffer.go
// Package buffer implements the gateway's zero-copy, reference-counted
// byte buffers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Storage is an ordered list of shared region windows: one window is the
// contiguous case, several windows form a composite view presented as a
// single logical byte stream. Read and write cursors are global offsets
// over the concatenated windows and are local to each handle, while the
// bytes themselves are shared across handles.

package buffer

import (
	"bytes"

	"github.com/momentics/hioload-gw/api"
)

// minGrow is the smallest region appended when a buffer runs out of
// capacity. Growth appends a region of at least the current capacity so
// repeated small writes stay amortized.
const minGrow = 256

// allocFunc acquires a storage block of the given size, returning the
// block and the hook that releases it. Factories install their own
// allocFunc so growth follows the factory's allocation strategy.
type allocFunc func(size int) ([]byte, func([]byte), error)

// window is a view over part of a region's block.
type window struct {
	reg  *region
	data []byte
}

// Buf is the concrete api.Buffer.
type Buf struct {
	wins  []window
	r, w  int // cursors: 0 <= r <= w <= cap
	cap   int
	alloc allocFunc
}

var _ api.Buffer = (*Buf)(nil)

// newBuf adopts data as a single fresh region with the first `readable`
// bytes considered written.
func newBuf(data []byte, readable int, free func([]byte), alloc allocFunc) *Buf {
	reg := newRegion(data, free)
	return &Buf{
		wins:  []window{{reg: reg, data: reg.data}},
		w:     readable,
		cap:   len(data),
		alloc: alloc,
	}
}

// ReadableByteCount reports the number of unread bytes.
func (b *Buf) ReadableByteCount() int {
	return b.w - b.r
}

// Capacity reports the total capacity across all windows.
func (b *Buf) Capacity() int {
	return b.cap
}

// ReadByte consumes the byte at the read cursor.
func (b *Buf) ReadByte() (byte, error) {
	if b.r == b.w {
		return 0, api.ErrUnderflow
	}
	c := b.byteAt(b.r)
	b.r++
	return c, nil
}

// Read copies exactly len(dst) bytes into dst, advancing the read cursor.
// On underflow nothing is consumed.
func (b *Buf) Read(dst []byte) error {
	n := len(dst)
	if b.w-b.r < n {
		return api.ErrUnderflow
	}
	b.copyOut(dst, b.r)
	b.r += n
	return nil
}

// WriteByte appends one byte at the write cursor.
func (b *Buf) WriteByte(c byte) error {
	if b.w == b.cap {
		if err := b.grow(1); err != nil {
			return err
		}
	}
	b.setByte(b.w, c)
	b.w++
	return nil
}

// Write appends src at the write cursor, growing storage as needed. When
// growth fails the buffer is left in its pre-operation state.
func (b *Buf) Write(src []byte) error {
	need := b.w + len(src) - b.cap
	if need > 0 {
		if err := b.grow(need); err != nil {
			return err
		}
	}
	b.copyIn(src, b.w)
	b.w += len(src)
	return nil
}

// WriteBuffers appends the readable content of each argument, in order,
// by converting the receiver into a composite view that retains each
// argument's storage. Payload bytes are not copied and the arguments'
// cursors are untouched. Unused writable capacity of the receiver is
// dropped so merged bytes follow its readable range directly.
func (b *Buf) WriteBuffers(bufs ...api.Buffer) error {
	for _, other := range bufs {
		ob, ok := other.(*Buf)
		if !ok {
			// Foreign Buffer implementations expose no shareable
			// storage; their readable bytes are copied in.
			if err := b.Write(other.Copy()); err != nil {
				return err
			}
			continue
		}
		b.merge(ob)
	}
	return nil
}

func (b *Buf) merge(ob *Buf) {
	b.truncate(b.w)
	for _, win := range ob.windowsIn(ob.r, ob.w) {
		win.reg.retain()
		b.wins = append(b.wins, win)
		b.cap += len(win.data)
	}
	b.w = b.cap
}

// Slice returns a non-copying view over [index, index+length) of the
// storage, retaining every region it covers. The slice starts fully
// readable: read cursor 0, write cursor length.
func (b *Buf) Slice(index, length int) (api.Buffer, error) {
	if index < 0 || length < 0 || index+length > b.cap {
		return nil, api.ErrRange
	}
	wins := b.windowsIn(index, index+length)
	for _, win := range wins {
		win.reg.retain()
	}
	return &Buf{wins: wins, r: 0, w: length, cap: length, alloc: b.alloc}, nil
}

// IndexOf scans forward from max(from, 0) for the first byte below the
// write cursor satisfying pred.
func (b *Buf) IndexOf(pred func(byte) bool, from int) int {
	if from < 0 {
		from = 0
	}
	if from >= b.w {
		return -1
	}
	idx := from
	for _, win := range b.windowsIn(from, b.w) {
		for _, c := range win.data {
			if pred(c) {
				return idx
			}
			idx++
		}
	}
	return -1
}

// LastIndexOf scans backward from min(from, write-1). A negative from
// yields no match.
func (b *Buf) LastIndexOf(pred func(byte) bool, from int) int {
	if from < 0 {
		return -1
	}
	if from > b.w-1 {
		from = b.w - 1
	}
	for i := from; i >= 0; i-- {
		if pred(b.byteAt(i)) {
			return i
		}
	}
	return -1
}

// Retain increments every referenced region's count and returns a new
// handle over the same storage with independent cursors.
func (b *Buf) Retain() api.Buffer {
	for _, win := range b.wins {
		win.reg.retain()
	}
	return &Buf{
		wins:  append([]window(nil), b.wins...),
		r:     b.r,
		w:     b.w,
		cap:   b.cap,
		alloc: b.alloc,
	}
}

// Release drops this handle's reference on every region. It reports true
// only when the call freed the buffer's storage in full.
func (b *Buf) Release() bool {
	freed := len(b.wins) > 0
	for _, win := range b.wins {
		if !win.reg.release() {
			freed = false
		}
	}
	return freed
}

// Equal reports value equality of the readable ranges.
func (b *Buf) Equal(other api.Buffer) bool {
	if other == nil {
		return false
	}
	if b.ReadableByteCount() != other.ReadableByteCount() {
		return false
	}
	ob, ok := other.(*Buf)
	if !ok {
		return bytes.Equal(b.Copy(), other.Copy())
	}
	return equalWindows(b.windowsIn(b.r, b.w), ob.windowsIn(ob.r, ob.w))
}

// Copy returns the readable range as a standalone slice.
func (b *Buf) Copy() []byte {
	out := make([]byte, b.ReadableByteCount())
	b.copyOut(out, b.r)
	return out
}

// grow appends a fresh region large enough for `need` more writable
// bytes. The region is sized at least the current capacity so growth is
// geometric, and existing regions are never moved.
func (b *Buf) grow(need int) error {
	size := b.cap
	if size < minGrow {
		size = minGrow
	}
	if size < need {
		size = need
	}
	data, free, err := b.allocate(size)
	if err != nil {
		return err
	}
	b.wins = append(b.wins, window{reg: newRegion(data, free), data: data})
	b.cap += len(data)
	return nil
}

func (b *Buf) allocate(size int) ([]byte, func([]byte), error) {
	if b.alloc == nil {
		return make([]byte, size), nil, nil
	}
	return b.alloc(size)
}

// truncate drops capacity beyond the global offset cut, releasing regions
// that fall entirely past it.
func (b *Buf) truncate(cut int) {
	if cut >= b.cap {
		return
	}
	off := cut
	for i := range b.wins {
		n := len(b.wins[i].data)
		if off >= n {
			off -= n
			continue
		}
		keep := i
		if off > 0 {
			b.wins[i].data = b.wins[i].data[:off]
			keep = i + 1
		}
		for _, win := range b.wins[keep:] {
			win.reg.release()
		}
		b.wins = b.wins[:keep]
		b.cap = cut
		return
	}
}

// windowsIn returns sub-windows covering the global range [from, to).
func (b *Buf) windowsIn(from, to int) []window {
	var out []window
	off := 0
	for _, win := range b.wins {
		n := len(win.data)
		lo, hi := from-off, to-off
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		if lo < hi {
			out = append(out, window{reg: win.reg, data: win.data[lo:hi]})
		}
		off += n
		if off >= to {
			break
		}
	}
	return out
}

func (b *Buf) byteAt(i int) byte {
	for _, win := range b.wins {
		if i < len(win.data) {
			return win.data[i]
		}
		i -= len(win.data)
	}
	panic("buffer: offset beyond capacity")
}

func (b *Buf) setByte(i int, c byte) {
	for _, win := range b.wins {
		if i < len(win.data) {
			win.data[i] = c
			return
		}
		i -= len(win.data)
	}
	panic("buffer: offset beyond capacity")
}

func (b *Buf) copyOut(dst []byte, from int) {
	off := from
	for _, win := range b.wins {
		if off >= len(win.data) {
			off -= len(win.data)
			continue
		}
		n := copy(dst, win.data[off:])
		dst = dst[n:]
		off = 0
		if len(dst) == 0 {
			return
		}
	}
}

func (b *Buf) copyIn(src []byte, at int) {
	off := at
	for _, win := range b.wins {
		if off >= len(win.data) {
			off -= len(win.data)
			continue
		}
		n := copy(win.data[off:], src)
		src = src[n:]
		off = 0
		if len(src) == 0 {
			return
		}
	}
}

// equalWindows compares two window lists byte for byte without copying.
func equalWindows(a, b []window) bool {
	var ai, bi, ao, bo int
	for ai < len(a) && bi < len(b) {
		x := a[ai].data[ao:]
		y := b[bi].data[bo:]
		n := len(x)
		if len(y) < n {
			n = len(y)
		}
		if !bytes.Equal(x[:n], y[:n]) {
			return false
		}
		ao += n
		bo += n
		if ao == len(a[ai].data) {
			ai++
			ao = 0
		}
		if bo == len(b[bi].data) {
			bi++
			bo = 0
		}
	}
	return true
}
