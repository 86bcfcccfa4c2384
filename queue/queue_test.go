package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBlocking_FIFOOrder(t *testing.T) {
	q := NewBlocking[int]()

	for i := 0; i < 10; i++ {
		q.Offer(i)
	}

	if q.Len() != 10 {
		t.Fatalf("Expected length 10, got %d", q.Len())
	}

	for i := 0; i < 10; i++ {
		if got := q.Poll(); got != i {
			t.Errorf("Expected element %d, got %d", i, got)
		}
	}

	if !q.Empty() {
		t.Errorf("Expected queue to be empty after draining")
	}
}

func TestBlocking_PollBlocksUntilOffer(t *testing.T) {
	q := NewBlocking[string]()

	received := make(chan string, 1)
	go func() {
		received <- q.Poll()
	}()

	// The consumer should still be blocked with nothing offered.
	select {
	case got := <-received:
		t.Fatalf("Expected Poll to block on empty queue, got %q", got)
	case <-time.After(50 * time.Millisecond):
	}

	q.Offer("hello")

	select {
	case got := <-received:
		if got != "hello" {
			t.Errorf("Expected %q, got %q", "hello", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected Poll to return after Offer")
	}
}

func TestBlocking_PollTimeoutExpires(t *testing.T) {
	q := NewBlocking[int]()

	start := time.Now()
	_, ok := q.PollTimeout(50 * time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Errorf("Expected PollTimeout to report no element on empty queue")
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected PollTimeout to wait the full window, returned after %v", elapsed)
	}
}

func TestBlocking_PollTimeoutReceivesLateOffer(t *testing.T) {
	q := NewBlocking[int]()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Offer(42)
	}()

	got, ok := q.PollTimeout(time.Second)
	if !ok {
		t.Fatal("Expected PollTimeout to receive the offered element")
	}
	if got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
}

func TestBlocking_ConcurrentProducersPreservePerProducerOrder(t *testing.T) {
	const producers = 8
	const perProducer = 200

	q := NewBlocking[string]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Offer(fmt.Sprintf("%d-%d", p, i))
			}
		}(p)
	}
	wg.Wait()

	if q.Len() != producers*perProducer {
		t.Fatalf("Expected %d elements, got %d", producers*perProducer, q.Len())
	}

	// Elements from one producer must come out in the order that
	// producer offered them, whatever the interleaving between
	// producers.
	next := make(map[int]int)
	for q.Len() > 0 {
		var p, i int
		if _, err := fmt.Sscanf(q.Poll(), "%d-%d", &p, &i); err != nil {
			t.Fatalf("Expected tagged element, got scan error: %v", err)
		}
		if i != next[p] {
			t.Fatalf("Expected element %d from producer %d, got %d", next[p], p, i)
		}
		next[p]++
	}

	for p := 0; p < producers; p++ {
		if next[p] != perProducer {
			t.Errorf("Expected %d elements from producer %d, got %d", perProducer, p, next[p])
		}
	}
}

func TestBlocking_ConcurrentConsumersDrainEverything(t *testing.T) {
	const total = 500

	q := NewBlocking[int]()
	for i := 0; i < total; i++ {
		q.Offer(i)
	}

	seen := make(chan int, total)
	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := q.PollTimeout(100 * time.Millisecond)
				if !ok {
					return
				}
				seen <- v
			}
		}()
	}
	wg.Wait()
	close(seen)

	got := make(map[int]bool)
	for v := range seen {
		if got[v] {
			t.Errorf("Expected each element once, got %d twice", v)
		}
		got[v] = true
	}
	if len(got) != total {
		t.Errorf("Expected %d distinct elements, got %d", total, len(got))
	}
}
