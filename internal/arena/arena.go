// Package arena provides append-only typed storage addressed by handles.
//
// A Handle is only meaningful for the arena that issued it; index 0 is the
// invalid handle and is never returned by Insert.
package arena

import (
	"cmp"
	"fmt"
	"iter"

	"fortio.org/safecast"
)

// Handle addresses one slot of an Arena[T]. The type parameter makes a handle
// to one kind of value unusable where another kind is expected.
type Handle[T any] uint32

// IsValid reports whether h is not the zero handle.
func (h Handle[T]) IsValid() bool { return h != 0 }

// Index returns the slot number; useful for stable sorting and encoding.
func (h Handle[T]) Index() uint32 { return uint32(h) }

func (h Handle[T]) Compare(other Handle[T]) int { return cmp.Compare(h, other) }

func (h Handle[T]) Less(other Handle[T]) bool { return h < other }

// InvariantViolation is panicked when a handle is dereferenced against an
// arena that never issued it.
type InvariantViolation struct {
	Arena  string
	Handle uint32
	Len    int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s handle %d out of range (len %d)", e.Arena, e.Handle, e.Len)
}

// Arena is a slice-backed store. It never deduplicates and never frees.
type Arena[T any] struct {
	name string
	data []T
}

// New creates an arena; name appears in invariant violations.
func New[T any](name string, capacity int) *Arena[T] {
	if capacity <= 0 {
		capacity = 16
	}
	a := &Arena[T]{name: name, data: make([]T, 1, capacity+1)} // slot 0 reserved
	return a
}

// Insert stores v and returns its new handle.
func (a *Arena[T]) Insert(v T) Handle[T] {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", a.name, err))
	}
	a.data = append(a.data, v)
	return Handle[T](n)
}

// Get returns a pointer to the stored value. The pointer is valid until the
// next Insert.
func (a *Arena[T]) Get(h Handle[T]) *T {
	a.check(h)
	return &a.data[h]
}

// Replace overwrites the value stored at h.
func (a *Arena[T]) Replace(h Handle[T], v T) {
	a.check(h)
	a.data[h] = v
}

// Has reports whether h was issued by this arena.
func (a *Arena[T]) Has(h Handle[T]) bool {
	return h != 0 && int(h) < len(a.data)
}

// Len counts stored values, excluding the reserved slot.
func (a *Arena[T]) Len() int { return len(a.data) - 1 }

// All yields handles and values in insertion order.
func (a *Arena[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		for i := 1; i < len(a.data); i++ {
			if !yield(Handle[T](uint32(i)), &a.data[i]) { // #nosec G115 -- bounded by Insert
				return
			}
		}
	}
}

func (a *Arena[T]) check(h Handle[T]) {
	if !a.Has(h) {
		panic(&InvariantViolation{Arena: a.name, Handle: uint32(h), Len: a.Len()})
	}
}
