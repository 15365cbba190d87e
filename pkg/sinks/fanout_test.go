package sinks

import (
	"context"
	"errors"
	"testing"
)

type stubSink struct {
	id   string
	err  error
	sent int
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return "stub" }
func (s *stubSink) Send(context.Context, Event) error {
	s.sent++
	return s.err
}

func TestFanoutSendCountsSuccesses(t *testing.T) {
	ok1 := &stubSink{id: "a"}
	ok2 := &stubSink{id: "b"}
	bad := &stubSink{id: "c", err: errors.New("down")}

	f := NewFanout([]Sink{ok1, nil, ok2, bad})
	if f.Size() != 3 {
		t.Fatalf("Size = %d", f.Size())
	}

	n, err := f.Send(context.Background(), Event{IssueKey: "DEV-1"})
	if n != 2 {
		t.Fatalf("successful = %d", n)
	}
	if err == nil {
		t.Fatalf("expected joined error from failing sink")
	}
	if ok1.sent != 1 || ok2.sent != 1 || bad.sent != 1 {
		t.Fatalf("each sink should be attempted once")
	}
}

func TestFanoutEmpty(t *testing.T) {
	var f *Fanout
	if n, err := f.Send(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op, got n=%d err=%v", n, err)
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	if _, err := reg.SinkFor(context.Background(), SinkConfig{ID: "x", Type: "kafka"}, nil); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

func TestBuildAllStopsOnError(t *testing.T) {
	reg := DefaultRegistry()
	cfgs := []SinkConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
		{ID: "bad", Type: "kafka"},
	}
	if _, err := BuildAll(context.Background(), reg, cfgs, nil); err == nil {
		t.Fatalf("expected error from unknown sink type")
	}
}
