// Package compose holds generic plumbing used to assemble heterogeneous
// aggregates from lists of constructors.
package compose

import (
	"fmt"
	"reflect"
)

// Indices returns the sequence 0..n-1.
func Indices(n int) []int {
	if n <= 0 {
		return nil
	}
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// TypeList is an ordered list of types.
type TypeList []reflect.Type

// TypesOf returns the dynamic types of vals in order.
func TypesOf[T any](vals ...T) TypeList {
	l := make(TypeList, len(vals))
	for i, v := range vals {
		l[i] = reflect.TypeOf(v)
	}
	return l
}

// Repeat returns a list holding t n times.
func Repeat(t reflect.Type, n int) TypeList {
	l := make(TypeList, 0, max(n, 0))
	for range Indices(n) {
		l = append(l, t)
	}
	return l
}

// At returns the k-th type, or false when k is out of range.
func (l TypeList) At(k int) (reflect.Type, bool) {
	if k < 0 || k >= len(l) {
		return nil, false
	}
	return l[k], true
}

// FirstRepeat returns the index of the first type already seen earlier in
// the list, or -1.
func (l TypeList) FirstRepeat() int {
	seen := make(map[reflect.Type]struct{}, len(l))
	for i, t := range l {
		if _, ok := seen[t]; ok {
			return i
		}
		seen[t] = struct{}{}
	}
	return -1
}

// Distinct reports whether no type appears twice.
func (l TypeList) Distinct() bool { return l.FirstRepeat() < 0 }

type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

// MakeFrom2 calls ctor with the tuple's fields as ordered arguments.
func MakeFrom2[R, A, B any](ctor func(A, B) (R, error), t Tuple2[A, B]) (R, error) {
	return ctor(t.V0, t.V1)
}

// Constructor builds one element of an aggregate from a shared source.
type Constructor[S, M any] func(src S) (M, error)

// Assemble applies every constructor to src, in order, and returns the
// resulting elements. The first failing constructor aborts assembly.
func Assemble[S, M any](src S, ctors ...Constructor[S, M]) ([]M, error) {
	out := make([]M, len(ctors))
	for _, i := range Indices(len(ctors)) {
		m, err := ctors[i](src)
		if err != nil {
			return nil, fmt.Errorf("compose: element %d: %w", i, err)
		}
		out[i] = m
	}
	return out, nil
}
