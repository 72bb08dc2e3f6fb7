package client

import (
	"testing"
	"time"

	"github.com/kbukum/eventsource/sse"
)

func TestQueueOrder(t *testing.T) {
	q := newQueue()
	q.push(sse.Event{Kind: sse.KindMessage, Data: "a"})
	q.push(sse.Event{Kind: sse.KindMessage, Data: "b"})
	q.push(sse.Event{Kind: sse.KindMessage, Data: "c"})

	for _, want := range []string{"a", "b", "c"} {
		ev, ok := q.next()
		if !ok {
			t.Fatal("queue exhausted early")
		}
		if ev.Data != want {
			t.Errorf("got %q, want %q", ev.Data, want)
		}
	}
}

func TestQueueNextBlocksUntilPush(t *testing.T) {
	q := newQueue()
	got := make(chan sse.Event)
	go func() {
		ev, _ := q.next()
		got <- ev
	}()

	time.Sleep(10 * time.Millisecond)
	q.push(sse.Event{Kind: sse.KindMessage, Data: "late"})

	select {
	case ev := <-got:
		if ev.Data != "late" {
			t.Errorf("got %q, want %q", ev.Data, "late")
		}
	case <-time.After(time.Second):
		t.Fatal("next did not wake on push")
	}
}

func TestQueueShutdownDrains(t *testing.T) {
	q := newQueue()
	q.push(sse.Event{Kind: sse.KindMessage, Data: "queued"})
	q.shutdown()

	ev, ok := q.next()
	if !ok || ev.Data != "queued" {
		t.Fatalf("queued item lost: ok=%v ev=%+v", ok, ev)
	}
	if _, ok := q.next(); ok {
		t.Error("expected exhaustion after drain")
	}
}

func TestQueuePushAfterShutdownDropped(t *testing.T) {
	q := newQueue()
	q.shutdown()
	q.push(sse.Event{Kind: sse.KindMessage, Data: "late"})

	if _, ok := q.next(); ok {
		t.Error("push after shutdown must be dropped")
	}
}
