package bootstrap

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type recorder struct{ events []string }

func (r *recorder) component(name string, startErr, stopErr error) Component {
	return Func{
		ID: name,
		StartFn: func(context.Context) error {
			r.events = append(r.events, "start:"+name)
			return startErr
		},
		StopFn: func(context.Context) error {
			r.events = append(r.events, "stop:"+name)
			return stopErr
		},
	}
}

func TestApp_StartShutdownOrder(t *testing.T) {
	rec := &recorder{}
	app := New("trustd", "dev", nil)
	app.Register(rec.component("db", nil, nil), rec.component("http", nil, nil))
	app.OnReady(func(context.Context) error {
		rec.events = append(rec.events, "ready")
		return nil
	})
	app.OnStop(func(context.Context) error {
		rec.events = append(rec.events, "onstop")
		return nil
	})

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	want := []string{"start:db", "start:http", "ready", "onstop", "stop:http", "stop:db"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestApp_StartFailureStopsStarted(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	app := New("trustd", "dev", nil)
	app.Register(rec.component("db", nil, nil), rec.component("http", boom, nil), rec.component("never", nil, nil))

	err := app.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Start error = %v, want boom", err)
	}
	want := []string{"start:db", "start:http", "stop:db"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestApp_ShutdownCollectsErrors(t *testing.T) {
	rec := &recorder{}
	e1, e2 := errors.New("first"), errors.New("second")
	app := New("trustd", "dev", nil)
	app.Register(rec.component("a", nil, e1), rec.component("b", nil, e2))
	if err := app.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := app.Shutdown()
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("Shutdown error = %v, want both", err)
	}
	if !slices.Equal(rec.events, []string{"start:a", "start:b", "stop:b", "stop:a"}) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestApp_RunReturnsOnContextCancel(t *testing.T) {
	rec := &recorder{}
	app := New("trustd", "dev", nil, WithGracefulTimeout(time.Second))
	app.Register(rec.component("http", nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !slices.Equal(rec.events, []string{"start:http", "stop:http"}) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestFunc_NilIsNoop(t *testing.T) {
	f := Func{ID: "noop"}
	if f.Start(context.Background()) != nil || f.Stop(context.Background()) != nil {
		t.Error("nil funcs should be no-ops")
	}
}
