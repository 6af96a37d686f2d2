// Package api
// Author: momentics
//
// Zero-copy, reference-counted buffer contract for the gateway client layer.
//
// Buffers wrap shared storage regions. All operations are zero-copy unless
// Copy is explicitly called.

package api

// Buffer describes a resliceable, reference-counted byte region with
// independent read and write cursors.
//
// Cursors always satisfy 0 <= read <= write <= Capacity(). Cursor state is
// local to each handle; the underlying bytes are shared, so in-place writes
// through one handle are visible through every other handle referencing the
// same storage.
type Buffer interface {
	// ReadableByteCount reports the number of unread bytes, i.e. the
	// write cursor minus the read cursor. No side effect.
	ReadableByteCount() int

	// Capacity reports the total byte capacity of the underlying storage.
	Capacity() int

	// ReadByte consumes and returns the byte at the read cursor.
	// Returns ErrUnderflow when no bytes are readable.
	ReadByte() (byte, error)

	// Read copies exactly len(dst) bytes from the read cursor into dst,
	// advancing the cursor. When fewer than len(dst) bytes are readable
	// it returns ErrUnderflow and consumes nothing.
	Read(dst []byte) error

	// WriteByte appends one byte at the write cursor, growing storage
	// when capacity is exhausted.
	WriteByte(b byte) error

	// Write appends src at the write cursor, growing storage when
	// capacity is exhausted. Growth is geometric and never relocates
	// bytes another buffer can observe.
	Write(src []byte) error

	// WriteBuffers appends the readable content of each argument, in
	// argument order, without copying payload bytes: the receiver becomes
	// a composite view retaining each argument's storage. The arguments'
	// own cursors are left untouched.
	WriteBuffers(bufs ...Buffer) error

	// Slice returns a non-copying view over [index, index+length) of the
	// underlying storage. The view retains the storage, so neither side
	// is freed while the other holds a reference. Returns ErrRange on
	// out-of-bounds arguments.
	Slice(index, length int) (Buffer, error)

	// IndexOf returns the first index i >= max(from, 0) below the write
	// cursor whose byte satisfies pred, or -1 when from is at or past the
	// write cursor or no byte matches.
	IndexOf(pred func(byte) bool, from int) int

	// LastIndexOf returns the highest index i <= min(from, write-1) whose
	// byte satisfies pred, scanning backward, or -1. A negative from
	// always yields -1.
	LastIndexOf(pred func(byte) bool, from int) int

	// Retain increments the storage reference count and returns a new
	// handle aliasing the same storage. The new handle's cursors start as
	// independent copies of the receiver's.
	Retain() Buffer

	// Release decrements the storage reference count and reports whether
	// this call freed the storage. Using a buffer after its storage was
	// freed is a caller error; the buffer does not guard against it.
	Release() bool

	// Equal reports byte-for-byte equality of the two readable ranges.
	Equal(other Buffer) bool

	// Copy returns a deep copy of the readable range as a standalone
	// slice. The read cursor is not advanced.
	Copy() []byte
}

// BufferFactory supplies buffers bound to an allocation strategy (heap,
// pooled, direct). Allocation policy belongs to the factory, not to the
// Buffer type; buffers grown past their capacity acquire new storage from
// the factory that created them.
type BufferFactory interface {
	// Allocate returns an empty buffer with at least the given capacity.
	// Returns ErrAllocation when storage cannot be acquired.
	Allocate(capacity int) (Buffer, error)

	// Wrap adopts data as the readable content of a new buffer. The
	// factory takes ownership of data.
	Wrap(data []byte) Buffer
}
