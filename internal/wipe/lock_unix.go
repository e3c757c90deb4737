//go:build unix

package wipe

import "golang.org/x/sys/unix"

// Lock pins the pages backing b so they are never written to swap.
func Lock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

// Unlock releases a Lock.
func Unlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}
