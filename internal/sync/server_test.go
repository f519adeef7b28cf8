package sync

import (
	"net"
	"testing"
	"time"
)

func waitRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still accepting after Close")
	}
}

func TestServerCloseBeforeRun(t *testing.T) {
	s := NewServer("127.0.0.1:0", NewHub(nil))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Run() }()
	waitRun(t, done)
}

func TestServerAcceptsThenCloses(t *testing.T) {
	hub := NewHub(nil)
	hub.Broadcast(snapshot(4, "", "Water"))
	s := NewServer("127.0.0.1:0", hub)

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	var addr string
	deadline := time.Now().Add(2 * time.Second)
	for addr == "" && time.Now().Before(deadline) {
		s.mu.Lock()
		if s.ln != nil {
			addr = s.ln.Addr().String()
		}
		s.mu.Unlock()
		if addr == "" {
			time.Sleep(10 * time.Millisecond)
		}
	}
	if addr == "" {
		t.Fatal("server never started listening")
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if ev := waitEvent(t, readEvent(conn)); ev.Seq != 4 {
		t.Errorf("replayed seq = %d, want 4", ev.Seq)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	waitRun(t, done)
}
