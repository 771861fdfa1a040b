package slice

// Iterator walks a slice's records in time order. It sits between two
// records: Next returns the one after the position, Previous the one
// before. Several iterators over one slice are independent. An iterator
// must not be used after the slice it came from is modified.
type Iterator[T any] struct {
	recs []T
	next int
}

func newIterator[T any](recs []T, pos int) *Iterator[T] {
	return &Iterator[T]{recs: recs, next: pos}
}

// Next returns the next record and advances, or the zero value at the end.
func (it *Iterator[T]) Next() T {
	var zero T
	if !it.HasNext() {
		return zero
	}
	r := it.recs[it.next]
	it.next++
	return r
}

func (it *Iterator[T]) PeekNext() T {
	var zero T
	if !it.HasNext() {
		return zero
	}
	return it.recs[it.next]
}

// Previous returns the previous record and steps back, or the zero value
// at the front.
func (it *Iterator[T]) Previous() T {
	var zero T
	if !it.HasPrevious() {
		return zero
	}
	it.next--
	return it.recs[it.next]
}

func (it *Iterator[T]) PeekPrevious() T {
	var zero T
	if !it.HasPrevious() {
		return zero
	}
	return it.recs[it.next-1]
}

func (it *Iterator[T]) ToFront() { it.next = 0 }
func (it *Iterator[T]) ToBack()  { it.next = len(it.recs) }

func (it *Iterator[T]) HasNext() bool { return it.next < len(it.recs) }

func (it *Iterator[T]) HasPrevious() bool {
	return it.next > 0 && it.next <= len(it.recs)
}

// Clone returns an iterator at the same position.
func (it *Iterator[T]) Clone() *Iterator[T] {
	return &Iterator[T]{recs: it.recs, next: it.next}
}
