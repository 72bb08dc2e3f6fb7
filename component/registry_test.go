package component

import (
	"context"
	"errors"
	"testing"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	started  bool
	stopped  bool
	log      *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	*f.log = append(*f.log, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.stopped = true
	*f.log = append(*f.log, "stop:"+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}

func TestRegistryStartStopOrder(t *testing.T) {
	var log []string
	r := NewRegistry()
	a := &fakeComponent{name: "a", log: &log}
	b := &fakeComponent{name: "b", log: &log}
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatal(err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("got %v, want %v", log, want)
		}
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	var log []string
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "dup", log: &log}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakeComponent{name: "dup", log: &log}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRegistryStartFailureAborts(t *testing.T) {
	var log []string
	r := NewRegistry()
	a := &fakeComponent{name: "a", log: &log}
	bad := &fakeComponent{name: "bad", startErr: errors.New("boom"), log: &log}
	c := &fakeComponent{name: "c", log: &log}
	for _, comp := range []*fakeComponent{a, bad, c} {
		if err := r.Register(comp); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	if err := r.StartAll(ctx); err == nil {
		t.Fatal("expected start error")
	}
	if c.started {
		t.Error("component after the failure must not start")
	}

	// Only started components stop, in reverse order.
	if err := r.StopAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !a.stopped || bad.stopped || c.stopped {
		t.Errorf("unexpected stop set: a=%v bad=%v c=%v", a.stopped, bad.stopped, c.stopped)
	}
}

func TestRegistryHealthAndGet(t *testing.T) {
	var log []string
	r := NewRegistry()
	if err := r.Register(&fakeComponent{name: "a", log: &log}); err != nil {
		t.Fatal(err)
	}

	healths := r.Health(context.Background())
	if len(healths) != 1 || healths[0].Name != "a" {
		t.Errorf("unexpected healths %+v", healths)
	}

	if _, ok := r.Get("a"); !ok {
		t.Error("registered component not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("unregistered component found")
	}
}
