// Package wipe overwrites and pins memory that holds captured screen content.
//
// Bytes zero-fills through a call the compiler cannot inline, and keeps the
// slice alive past the stores, so the writes survive even when the memory
// is about to become unreachable. Lock and Unlock pin pages in RAM where
// the platform supports it, keeping frames out of swap.
package wipe

import (
	"errors"
	"runtime"
)

// ErrUnsupported is returned by Lock on platforms without page locking.
var ErrUnsupported = errors.New("wipe: memory locking not supported")

// Bytes overwrites b with zeros.
//
//go:noinline
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	clear(b)
	runtime.KeepAlive(b)
}

// IsZero reports whether every byte of b is zero.
func IsZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
