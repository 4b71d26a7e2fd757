package realtime

import "testing"

func TestBrokerFanOut(t *testing.T) {
	t.Parallel()

	b := NewBroker()
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelC()

	b.Publish(Event{Type: "evaluation.completed", Output: "10:15 today - /bin/x"})

	for _, ch := range []<-chan Event{a, c} {
		evt := <-ch
		if evt.ID != 1 || evt.Output != "10:15 today - /bin/x" || evt.At.IsZero() {
			t.Fatalf("unexpected event %+v", evt)
		}
	}

	cancelA()
	if _, ok := <-a; ok {
		t.Fatal("expected closed channel after cancel")
	}
	cancelA()
	if got := b.Subscribers(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
}

func TestBrokerDropsForSlowSubscriber(t *testing.T) {
	t.Parallel()

	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		b.Publish(Event{Type: "evaluation.completed"})
	}
	if got := len(ch); got != cap(ch) {
		t.Fatalf("expected full buffer of %d, got %d", cap(ch), got)
	}
}
