// Package seq is the lazy sequence-combinator library that generated lob
// programs call into. A Seq wraps a single-use pull of elements; chained
// transformations build closures and nothing is evaluated until a terminal
// operation consumes the sequence.
//
// Operations that preserve the element type are methods, so one-liners read
// fluently. Operations that change the element type (Map to a new type,
// Chunk, GroupBy, Zip, joins) are free functions, since Go methods cannot
// introduce type parameters.
package seq

import (
	"cmp"
	"iter"
	"slices"
)

// Seq is a lazy sequence of T.
type Seq[T any] struct {
	it iter.Seq[T]
}

// New wraps an iterator.
func New[T any](it iter.Seq[T]) Seq[T] {
	return Seq[T]{it: it}
}

// FromSlice wraps a slice.
func FromSlice[T any](items []T) Seq[T] {
	return New(slices.Values(items))
}

// Iter exposes the underlying iterator for range-over-func consumption.
func (s Seq[T]) Iter() iter.Seq[T] {
	if s.it == nil {
		return func(yield func(T) bool) {}
	}
	return s.it
}

// Filter keeps elements the predicate accepts.
func (s Seq[T]) Filter(pred func(T) bool) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		for v := range src {
			if pred(v) && !yield(v) {
				return
			}
		}
	})
}

// Map transforms each element within the same type. Use the free function
// Map to change the element type.
func (s Seq[T]) Map(f func(T) T) Seq[T] {
	return Map(s, f)
}

// Take yields at most n elements.
func (s Seq[T]) Take(n int) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for v := range src {
			if !yield(v) {
				return
			}
			taken++
			if taken == n {
				return
			}
		}
	})
}

// Skip discards the first n elements.
func (s Seq[T]) Skip(n int) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		skipped := 0
		for v := range src {
			if skipped < n {
				skipped++
				continue
			}
			if !yield(v) {
				return
			}
		}
	})
}

// TakeWhile yields elements until the predicate first fails.
func (s Seq[T]) TakeWhile(pred func(T) bool) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		for v := range src {
			if !pred(v) || !yield(v) {
				return
			}
		}
	})
}

// DropWhile discards elements until the predicate first fails.
func (s Seq[T]) DropWhile(pred func(T) bool) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		dropping := true
		for v := range src {
			if dropping && pred(v) {
				continue
			}
			dropping = false
			if !yield(v) {
				return
			}
		}
	})
}

// Each consumes the sequence, applying f to every element.
func (s Seq[T]) Each(f func(T)) {
	for v := range s.Iter() {
		f(v)
	}
}

// Count consumes the sequence and returns the element count.
func (s Seq[T]) Count() int {
	n := 0
	for range s.Iter() {
		n++
	}
	return n
}

// First returns the first element, ok=false on an empty sequence.
func (s Seq[T]) First() (T, bool) {
	for v := range s.Iter() {
		return v, true
	}
	var zero T
	return zero, false
}

// Last consumes the sequence and returns the final element.
func (s Seq[T]) Last() (T, bool) {
	var last T
	found := false
	for v := range s.Iter() {
		last = v
		found = true
	}
	return last, found
}

// Any reports whether some element satisfies the predicate. Short-circuits.
func (s Seq[T]) Any(pred func(T) bool) bool {
	for v := range s.Iter() {
		if pred(v) {
			return true
		}
	}
	return false
}

// All reports whether every element satisfies the predicate. Short-circuits.
func (s Seq[T]) All(pred func(T) bool) bool {
	for v := range s.Iter() {
		if !pred(v) {
			return false
		}
	}
	return true
}

// Reduce folds the sequence with its own first element as the seed.
// ok=false on an empty sequence.
func (s Seq[T]) Reduce(f func(T, T) T) (T, bool) {
	var acc T
	first := true
	for v := range s.Iter() {
		if first {
			acc = v
			first = false
			continue
		}
		acc = f(acc, v)
	}
	return acc, !first
}

// Collect materializes the sequence into a slice.
func (s Seq[T]) Collect() []T {
	var out []T
	for v := range s.Iter() {
		out = append(out, v)
	}
	return out
}

// ToList is Collect under the name the one-liner vocabulary documents.
func (s Seq[T]) ToList() []T {
	return s.Collect()
}

// Map transforms each element of s with f, possibly changing its type.
func Map[T, U any](s Seq[T], f func(T) U) Seq[U] {
	src := s.Iter()
	return New(func(yield func(U) bool) {
		for v := range src {
			if !yield(f(v)) {
				return
			}
		}
	})
}

// FlatMap maps each element to a sub-slice and flattens the results.
func FlatMap[T, U any](s Seq[T], f func(T) []U) Seq[U] {
	src := s.Iter()
	return New(func(yield func(U) bool) {
		for v := range src {
			for _, u := range f(v) {
				if !yield(u) {
					return
				}
			}
		}
	})
}

// Indexed pairs an element with its zero-based position.
type Indexed[T any] struct {
	Index int
	Value T
}

// Enumerate numbers the elements of s.
func Enumerate[T any](s Seq[T]) Seq[Indexed[T]] {
	src := s.Iter()
	return New(func(yield func(Indexed[T]) bool) {
		i := 0
		for v := range src {
			if !yield(Indexed[T]{Index: i, Value: v}) {
				return
			}
			i++
		}
	})
}

// Unique drops duplicate elements, keeping first occurrences in order.
func Unique[T comparable](s Seq[T]) Seq[T] {
	src := s.Iter()
	return New(func(yield func(T) bool) {
		seen := make(map[T]struct{})
		for v := range src {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			if !yield(v) {
				return
			}
		}
	})
}

// Number covers the element types Sum accepts.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum consumes the sequence and adds its elements.
func Sum[T Number](s Seq[T]) T {
	var total T
	for v := range s.Iter() {
		total += v
	}
	return total
}

// Min consumes the sequence and returns its smallest element.
func Min[T cmp.Ordered](s Seq[T]) (T, bool) {
	return s.Reduce(func(a, b T) T {
		if b < a {
			return b
		}
		return a
	})
}

// Max consumes the sequence and returns its largest element.
func Max[T cmp.Ordered](s Seq[T]) (T, bool) {
	return s.Reduce(func(a, b T) T {
		if b > a {
			return b
		}
		return a
	})
}

// Sorted materializes the sequence in ascending order.
func Sorted[T cmp.Ordered](s Seq[T]) Seq[T] {
	items := s.Collect()
	slices.Sort(items)
	return FromSlice(items)
}

// Fold reduces the sequence into an accumulator of a different type.
func Fold[T, A any](s Seq[T], init A, f func(A, T) A) A {
	acc := init
	for v := range s.Iter() {
		acc = f(acc, v)
	}
	return acc
}

// Pair holds one element from each side of a Zip.
type Pair[A, B any] struct {
	Left  A
	Right B
}

// Zip pairs elements positionally, stopping at the shorter side.
func Zip[A, B any](left Seq[A], right Seq[B]) Seq[Pair[A, B]] {
	return New(func(yield func(Pair[A, B]) bool) {
		next, stop := iter.Pull(right.Iter())
		defer stop()
		for l := range left.Iter() {
			r, ok := next()
			if !ok {
				return
			}
			if !yield(Pair[A, B]{Left: l, Right: r}) {
				return
			}
		}
	})
}
