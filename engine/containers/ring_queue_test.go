package containers

import "testing"

func TestEnqueueDequeue(t *testing.T) {
	rq := NewRingQueue[int](3)

	if !rq.IsEmpty() {
		t.Error("new queue should be empty")
	}
	if _, err := rq.Dequeue(); err == nil {
		t.Error("dequeue on empty queue should fail")
	}

	for i := 1; i <= 3; i++ {
		if err := rq.Enqueue(i); err != nil {
			t.Fatalf("enqueue %d failed: %v", i, err)
		}
	}
	if !rq.IsFull() {
		t.Error("queue with 3/3 elements should be full")
	}
	if err := rq.Enqueue(4); err == nil {
		t.Error("enqueue on full queue should fail")
	}

	for i := 1; i <= 3; i++ {
		v, err := rq.Dequeue()
		if err != nil {
			t.Fatalf("dequeue failed: %v", err)
		}
		if v != i {
			t.Errorf("expected %d, got %d", i, v)
		}
	}
	if !rq.IsEmpty() {
		t.Error("drained queue should be empty")
	}
}

func TestWrapAround(t *testing.T) {
	rq := NewRingQueue[string](2)

	rq.Enqueue("a")
	rq.Enqueue("b")
	rq.Dequeue()
	if err := rq.Enqueue("c"); err != nil {
		t.Fatalf("enqueue after wrap failed: %v", err)
	}

	v, _ := rq.Peek()
	if v != "b" {
		t.Errorf("expected front 'b', got %q", v)
	}
	got := rq.Values()
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("expected [b c], got %v", got)
	}
}

func TestEnqueueEvict(t *testing.T) {
	rq := NewRingQueue[float64](3)

	for i := 0; i < 5; i++ {
		rq.EnqueueEvict(float64(i))
	}
	if rq.Len() != 3 {
		t.Fatalf("expected len 3, got %d", rq.Len())
	}
	got := rq.Values()
	want := []float64{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
