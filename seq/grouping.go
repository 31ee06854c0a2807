package seq

// Chunk materializes consecutive runs of up to n elements. The final chunk
// may be short; n < 1 yields nothing.
func Chunk[T any](s Seq[T], n int) Seq[[]T] {
	src := s.Iter()
	return New(func(yield func([]T) bool) {
		if n < 1 {
			return
		}
		buf := make([]T, 0, n)
		for v := range src {
			buf = append(buf, v)
			if len(buf) == n {
				out := make([]T, n)
				copy(out, buf)
				if !yield(out) {
					return
				}
				buf = buf[:0]
			}
		}
		if len(buf) > 0 {
			yield(buf)
		}
	})
}

// Window yields every contiguous run of exactly n elements, sliding by one.
// Sequences shorter than n yield nothing.
func Window[T any](s Seq[T], n int) Seq[[]T] {
	src := s.Iter()
	return New(func(yield func([]T) bool) {
		if n < 1 {
			return
		}
		buf := make([]T, 0, n)
		for v := range src {
			buf = append(buf, v)
			if len(buf) < n {
				continue
			}
			out := make([]T, n)
			copy(out, buf)
			if !yield(out) {
				return
			}
			copy(buf, buf[1:])
			buf = buf[:n-1]
		}
	})
}

// Group is one key's worth of elements from a GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets elements by key. Groups come out in first-seen key order
// so repeated runs over the same input produce identical output.
func GroupBy[T any, K comparable](s Seq[T], key func(T) K) Seq[Group[K, T]] {
	src := s.Iter()
	return New(func(yield func(Group[K, T]) bool) {
		buckets := make(map[K][]T)
		var order []K
		for v := range src {
			k := key(v)
			if _, seen := buckets[k]; !seen {
				order = append(order, k)
			}
			buckets[k] = append(buckets[k], v)
		}
		for _, k := range order {
			if !yield(Group[K, T]{Key: k, Items: buckets[k]}) {
				return
			}
		}
	})
}

// Counted is one key's tally from a CountBy.
type Counted[K comparable] struct {
	Key   K
	Count int
}

// CountBy tallies elements per key, in first-seen key order.
func CountBy[T any, K comparable](s Seq[T], key func(T) K) Seq[Counted[K]] {
	return Map(GroupBy(s, key), func(g Group[K, T]) Counted[K] {
		return Counted[K]{Key: g.Key, Count: len(g.Items)}
	})
}
