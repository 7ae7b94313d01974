package cube

import "sort"

// outputFrame is the transient accumulator of spec.md §3: an output plane
// index, a zero-initialized W×H buffer, and whatever contributions have
// landed in it so far. It is created on first contribution and destroyed
// (flushed and freed) once no future record can still reach it.
type outputFrame struct {
	k   int
	acc []float32
}

// activeSet is the bounded collection of spec.md §4.2: keyed by plane
// index for O(1) lookup on every contribution, with an ordered view kept
// alongside for the ascending flush pass. At any instant it holds at most
// ⌈1/dt⌉+1 entries, since manifest records arrive in non-decreasing rs.
type activeSet struct {
	byIndex map[int]*outputFrame
	order   []int // ascending plane indices currently active
	width   int
	height  int
}

func newActiveSet(width, height int) *activeSet {
	return &activeSet{
		byIndex: make(map[int]*outputFrame),
		width:   width,
		height:  height,
	}
}

// get returns the accumulator for k, creating a zero-initialized one and
// recording it at its ascending position in the ordered view if absent.
func (s *activeSet) get(k int) *outputFrame {
	f, ok := s.byIndex[k]
	if ok {
		return f
	}
	f = &outputFrame{k: k, acc: make([]float32, s.width*s.height)}
	s.byIndex[k] = f
	i := sort.SearchInts(s.order, k)
	s.order = append(s.order, 0)
	copy(s.order[i+1:], s.order[i:])
	s.order[i] = k
	return f
}

// evictBelow removes and returns, in ascending order, every active entry
// with index < k0 — the flush gate's eviction step.
func (s *activeSet) evictBelow(k0 int) []*outputFrame {
	var evicted []*outputFrame
	kept := s.order[:0]
	for _, k := range s.order {
		if k < k0 {
			evicted = append(evicted, s.byIndex[k])
			delete(s.byIndex, k)
		} else {
			kept = append(kept, k)
		}
	}
	s.order = kept
	return evicted
}

// drainAll empties the set and returns every remaining entry in ascending
// order, for the final flush at end of manifest.
func (s *activeSet) drainAll() []*outputFrame {
	out := make([]*outputFrame, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byIndex[k])
	}
	s.byIndex = make(map[int]*outputFrame)
	s.order = nil
	return out
}
