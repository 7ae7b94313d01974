package cube

import "testing"

func TestActiveSetEvictBelowOrdering(t *testing.T) {
	s := newActiveSet(1, 1)
	s.get(0)
	s.get(2)
	s.get(1)

	evicted := s.evictBelow(2)
	if len(evicted) != 2 {
		t.Fatalf("evicted %d entries, want 2", len(evicted))
	}
	if evicted[0].k != 0 || evicted[1].k != 1 {
		t.Errorf("evicted order = %d,%d, want 0,1 (ascending)", evicted[0].k, evicted[1].k)
	}
	if _, ok := s.byIndex[2]; !ok {
		t.Error("entry 2 should remain active")
	}
}

func TestActiveSetDrainAll(t *testing.T) {
	s := newActiveSet(1, 1)
	s.get(5)
	s.get(3)

	drained := s.drainAll()
	if len(drained) != 2 {
		t.Fatalf("drained %d entries, want 2", len(drained))
	}
	if drained[0].k != 3 || drained[1].k != 5 {
		t.Errorf("drained order = %d,%d, want 3,5 (ascending)", drained[0].k, drained[1].k)
	}
	if len(s.order) != 0 || len(s.byIndex) != 0 {
		t.Error("set should be empty after drainAll")
	}
}

func TestActiveSetGetReturnsSameAccumulator(t *testing.T) {
	s := newActiveSet(2, 1)
	f1 := s.get(0)
	f1.acc[0] = 7
	f2 := s.get(0)
	if f2.acc[0] != 7 {
		t.Error("get must return the existing accumulator, not a fresh one")
	}
}
