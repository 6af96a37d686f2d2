//go:build linux

// File: buffer/direct_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Direct allocation on Linux: anonymous private mappings sized up to the
// page boundary, returned to the OS on final release. Falls back to the Go
// heap when the mapping fails.

package buffer

import "golang.org/x/sys/unix"

func directAlloc(size int) ([]byte, func([]byte)) {
	if size == 0 {
		return nil, nil
	}
	page := unix.Getpagesize()
	length := ((size + page - 1) / page) * page
	data, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANONYMOUS|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, size), nil
	}
	mapped := data
	return data[:size], func([]byte) {
		_ = unix.Munmap(mapped)
	}
}
