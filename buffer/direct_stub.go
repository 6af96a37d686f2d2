//go:build !linux

// File: buffer/direct_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Direct allocation fallback for platforms without the mmap path.

package buffer

func directAlloc(size int) ([]byte, func([]byte)) {
	return make([]byte, size), nil
}
