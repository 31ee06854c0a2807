package seq

// Joined pairs a left element with a matching right element. For left
// joins, Matched reports whether a right element existed.
type Joined[L, R any] struct {
	Left    L
	Right   R
	Matched bool
}

// Join performs an inner join: every left element is paired with every
// right element sharing its key. The right side is materialized into an
// index; the left side streams. Output order follows the left sequence,
// with right matches in their original order.
func Join[L, R any, K comparable](left Seq[L], right Seq[R], leftKey func(L) K, rightKey func(R) K) Seq[Joined[L, R]] {
	src := left.Iter()
	return New(func(yield func(Joined[L, R]) bool) {
		index := indexByKey(right, rightKey)
		for l := range src {
			for _, r := range index[leftKey(l)] {
				if !yield(Joined[L, R]{Left: l, Right: r, Matched: true}) {
					return
				}
			}
		}
	})
}

// LeftJoin is Join that also emits unmatched left elements, with a zero
// Right and Matched=false.
func LeftJoin[L, R any, K comparable](left Seq[L], right Seq[R], leftKey func(L) K, rightKey func(R) K) Seq[Joined[L, R]] {
	src := left.Iter()
	return New(func(yield func(Joined[L, R]) bool) {
		index := indexByKey(right, rightKey)
		for l := range src {
			matches := index[leftKey(l)]
			if len(matches) == 0 {
				var zero R
				if !yield(Joined[L, R]{Left: l, Right: zero}) {
					return
				}
				continue
			}
			for _, r := range matches {
				if !yield(Joined[L, R]{Left: l, Right: r, Matched: true}) {
					return
				}
			}
		}
	})
}

func indexByKey[R any, K comparable](s Seq[R], key func(R) K) map[K][]R {
	index := make(map[K][]R)
	for r := range s.Iter() {
		k := key(r)
		index[k] = append(index[k], r)
	}
	return index
}
