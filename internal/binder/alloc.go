package binder

import (
	"fmt"
	"reflect"
	"sync"
)

// Allocator provides the memory that bound values live in.
//
// New returns a pointer to a fresh zero value of t. MakeSlice returns a
// slice of type t with n zero entries. Free is called exactly once for
// every value New or MakeSlice returned; freeing anything else is an error.
type Allocator interface {
	New(t reflect.Type) reflect.Value
	MakeSlice(t reflect.Type, n int) reflect.Value
	Free(v reflect.Value) error
}

type heapAllocator struct{}

func (heapAllocator) New(t reflect.Type) reflect.Value {
	return reflect.New(t)
}

func (heapAllocator) MakeSlice(t reflect.Type, n int) reflect.Value {
	return reflect.MakeSlice(t, n, n)
}

func (heapAllocator) Free(reflect.Value) error {
	return nil
}

// CountingAllocator tracks every live allocation so tests can assert that
// nothing leaks and nothing is freed twice. It holds a reference to each
// live value, so a leaked allocation is never collected and its address
// never reused while it is recorded.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type CountingAllocator struct {
	mu     sync.Mutex
	live   map[uintptr]reflect.Value
	allocs int
	frees  int
}

// NewCountingAllocator creates an allocator with no live allocations.
func NewCountingAllocator() *CountingAllocator {
	return &CountingAllocator{live: make(map[uintptr]reflect.Value)}
}

// New allocates a zero value of t and records it.
func (a *CountingAllocator) New(t reflect.Type) reflect.Value {
	v := reflect.New(t)
	a.track(v)
	return v
}

// MakeSlice allocates a slice of n entries and records it.
func (a *CountingAllocator) MakeSlice(t reflect.Type, n int) reflect.Value {
	v := reflect.MakeSlice(t, n, n)
	a.track(v)
	return v
}

// Free releases a recorded allocation.
func (a *CountingAllocator) Free(v reflect.Value) error {
	if !trackable(v) {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	addr := v.Pointer()
	if _, ok := a.live[addr]; !ok {
		return fmt.Errorf("free of untracked %s at %#x", v.Type(), addr)
	}
	delete(a.live, addr)
	a.frees++
	return nil
}

// Live returns the number of allocations not yet freed.
func (a *CountingAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Allocs returns the total number of tracked allocations.
func (a *CountingAllocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Frees returns the total number of tracked releases.
func (a *CountingAllocator) Frees() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frees
}

func (a *CountingAllocator) track(v reflect.Value) {
	if !trackable(v) {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.live[v.Pointer()] = v
	a.allocs++
}

// trackable reports whether v owns distinct memory. Zero-sized values
// share one address, so they cannot be told apart.
func trackable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer:
		return !v.IsNil() && v.Type().Elem().Size() > 0
	case reflect.Slice:
		return v.Len() > 0 && v.Type().Elem().Size() > 0
	}
	return false
}
