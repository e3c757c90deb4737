package asciiscreen

import (
	"runtime"

	"github.com/gogpu/asciiscreen/internal/wipe"
)

// DefaultMaxSecureSize bounds SecureBuffer growth. 256 MiB holds an 8K BGRA
// capture with room to spare.
const DefaultMaxSecureSize = 256 << 20

// noCopy makes `go vet` (copylocks) report accidental copies of the
// structs that embed it. A copied SecureBuffer would share storage with
// the original and leave one of them unwiped.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SecureOption configures a SecureBuffer.
type SecureOption func(*secureOptions)

type secureOptions struct {
	maxSize   int
	lockPages bool
}

func defaultSecureOptions() secureOptions {
	return secureOptions{maxSize: DefaultMaxSecureSize}
}

// WithMaxSize limits the size Resize accepts. Larger requests fail with
// ErrOutOfMemory.
func WithMaxSize(n int) SecureOption {
	return func(o *secureOptions) {
		if n >= 0 {
			o.maxSize = n
		}
	}
}

// WithMemoryLock pins the buffer's pages in RAM (mlock) so captured frames
// are never written to swap. Locking is best effort: if the platform or the
// process limits refuse it the buffer still works and a warning is logged.
func WithMemoryLock(enabled bool) SecureOption {
	return func(o *secureOptions) {
		o.lockPages = enabled
	}
}

// secureStorage is the heap object a SecureBuffer's runtime cleanup closes
// over. It is kept separate from SecureBuffer so the cleanup does not keep
// the buffer itself reachable.
type secureStorage struct {
	mem    []byte
	size   int
	locked bool
}

func (s *secureStorage) release() {
	wipe.Bytes(s.mem[:s.size])
	if s.locked {
		_ = wipe.Unlock(s.mem)
	}
	s.mem = nil
	s.size = 0
	s.locked = false
}

// SecureBuffer owns the raw bytes of captured frames.
//
// Every byte range that stops being reachable through the buffer is
// zero-filled first: the tail on shrink, the old storage when a grow has to
// reallocate, and everything on Release. Buffers dropped without Release are
// wiped by a runtime cleanup once they are collected.
//
// The zero value is an empty buffer with default options. A SecureBuffer
// must not be copied; use Move to hand it to a new owner.
// It is not safe for concurrent use.
type SecureBuffer struct {
	noCopy noCopy

	st       *secureStorage
	cleanup  runtime.Cleanup
	attached bool
	opts     secureOptions
}

// NewSecureBuffer returns an empty buffer.
func NewSecureBuffer(opts ...SecureOption) *SecureBuffer {
	o := defaultSecureOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := &SecureBuffer{opts: o}
	b.adopt(&secureStorage{})
	return b
}

func (b *SecureBuffer) adopt(st *secureStorage) {
	if b.attached {
		b.cleanup.Stop()
	}
	b.st = st
	b.cleanup = runtime.AddCleanup(b, releaseDropped, st)
	b.attached = true
}

// releaseDropped runs on the cleanup goroutine for buffers collected
// without Release. Replaced in tests to observe the wipe.
var releaseDropped = (*secureStorage).release

// storage lazily initializes a zero-value SecureBuffer. Such buffers get
// no collection-time cleanup; only NewSecureBuffer registers one.
func (b *SecureBuffer) storage() *secureStorage {
	if b.st == nil {
		b.opts = defaultSecureOptions()
		b.st = &secureStorage{}
	}
	return b.st
}

// allocBytes is replaced in tests to simulate allocation failure.
var allocBytes = func(n int) (mem []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			mem, err = nil, ErrOutOfMemory
		}
	}()
	return make([]byte, n), nil
}

// Resize changes the logical size to n bytes.
//
// Shrinking wipes [n, Size()) before the size changes. Growing within the
// current capacity exposes bytes that were wiped when they were retired, so
// they read as zero. Growing past the capacity allocates new storage,
// copies the live bytes and wipes the old storage before dropping it.
//
// On failure Resize returns ErrOutOfMemory and the buffer keeps its previous
// size and contents.
func (b *SecureBuffer) Resize(n int) error {
	st := b.storage()
	if n < 0 || n > b.opts.maxSize {
		return ErrOutOfMemory
	}
	switch {
	case n == st.size:
		return nil
	case n < st.size:
		wipe.Bytes(st.mem[n:st.size])
		st.size = n
		return nil
	case n <= len(st.mem):
		st.size = n
		return nil
	}

	mem, err := allocBytes(n)
	if err != nil {
		return err
	}
	locked := false
	if b.opts.lockPages {
		if lerr := wipe.Lock(mem); lerr != nil {
			Logger().Warn("secure buffer: mlock refused", "size", n, "err", lerr)
		} else {
			locked = true
		}
	}
	copy(mem, st.mem[:st.size])

	wipe.Bytes(st.mem[:st.size])
	if st.locked {
		_ = wipe.Unlock(st.mem)
	}
	Logger().Debug("secure buffer: reallocated", "from", len(st.mem), "to", n)

	st.mem = mem
	st.size = n
	st.locked = locked
	return nil
}

// Data returns a mutable view of the live bytes. The view is capped at
// Size() so appends cannot write into retired capacity, and it is
// invalidated by the next Resize, Release or Move.
func (b *SecureBuffer) Data() []byte {
	st := b.storage()
	return st.mem[:st.size:st.size]
}

// Size returns the logical size in bytes.
func (b *SecureBuffer) Size() int {
	if b.st == nil {
		return 0
	}
	return b.st.size
}

// Cap returns the size of the underlying storage.
func (b *SecureBuffer) Cap() int {
	if b.st == nil {
		return 0
	}
	return len(b.st.mem)
}

// Locked reports whether the storage is pinned in RAM.
func (b *SecureBuffer) Locked() bool {
	return b.st != nil && b.st.locked
}

// Release wipes the live bytes and drops the storage. The buffer stays
// usable and starts over empty. Release is idempotent.
func (b *SecureBuffer) Release() {
	if b.st == nil {
		return
	}
	b.st.release()
}

// Move transfers the storage to a new SecureBuffer and leaves b empty.
// Nothing is copied, so no unwiped duplicate is created.
func (b *SecureBuffer) Move() *SecureBuffer {
	st := b.storage()
	nb := &SecureBuffer{opts: b.opts}
	nb.adopt(st)
	if b.attached {
		b.adopt(&secureStorage{})
	} else {
		b.st = &secureStorage{}
	}
	return nb
}
