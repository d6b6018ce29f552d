package data

import "math/rand"

//IntIterable is the interface for iteration over a collection of sample indices.
type IntIterable interface {
	HasNext() bool
	GetNext() int
	Len() int
}

//Range is an iterator over half interval [begin, end) with the step step.
type Range struct {
	begin, end, step, pos int
}

//NewRange initializes a new iterator over a half interval.
func NewRange(start, end, step int) *Range {
	return &Range{start, end, step, start}
}

//GetNext returns the next element from the iterator and moves iterator to the next position.
func (r *Range) GetNext() int {
	val := r.pos
	r.pos += r.step
	return val
}

//HasNext checks whether there are more values in the iterator.
func (r *Range) HasNext() bool {
	if r.step > 0 {
		return r.pos < r.end
	}
	return r.pos > r.end
}

//Len returns the total number of values the iterator visits.
func (r *Range) Len() int {
	if r.step > 0 {
		if r.end <= r.begin {
			return 0
		}
		return (r.end - r.begin + r.step - 1) / r.step
	}
	if r.end >= r.begin {
		return 0
	}
	return (r.begin - r.end - r.step - 1) / -r.step
}

//Permutation iterates over a uniformly random permutation of [0, n).
type Permutation struct {
	order []int
	pos   int
}

//NewPermutation draws a permutation of [0, n) from rng.
func NewPermutation(rng *rand.Rand, n int) *Permutation {
	return &Permutation{order: rng.Perm(n)}
}

//GetNext returns the next permuted index.
func (p *Permutation) GetNext() int {
	val := p.order[p.pos]
	p.pos++
	return val
}

//HasNext checks whether there are more indices in the permutation.
func (p *Permutation) HasNext() bool {
	return p.pos < len(p.order)
}

//Len returns the size of the permutation.
func (p *Permutation) Len() int {
	return len(p.order)
}

// sampleOrder returns the order samples are visited in: linear, or a permutation
// when shuffling.
func sampleOrder(n int, params SplitParams) IntIterable {
	if params.Shuffle {
		return NewPermutation(params.Rand, n)
	}
	return NewRange(0, n, 1)
}
