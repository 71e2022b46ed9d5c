package state

import (
	"sync"
	"testing"
)

type session struct {
	Stage string
	Name  string
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager[session]()

	if _, ok := m.Get(1); ok {
		t.Fatal("empty manager returned a session")
	}
	if m.Active(1) {
		t.Fatal("empty manager reports active")
	}

	m.Put(1, &session{Stage: "intro"})
	s, ok := m.Get(1)
	if !ok || s.Stage != "intro" {
		t.Fatalf("get = %+v, %v", s, ok)
	}
	if !m.Active(1) || m.Len() != 1 {
		t.Fatalf("active = %v, len = %d", m.Active(1), m.Len())
	}

	// Mutations through the returned pointer are visible on the next Get.
	s.Stage = "research"
	s2, _ := m.Get(1)
	if s2.Stage != "research" {
		t.Fatalf("stage = %q", s2.Stage)
	}

	m.Clear(1)
	if m.Active(1) || m.Len() != 0 {
		t.Fatal("session survived Clear")
	}
}

func TestManagerPutNilClears(t *testing.T) {
	m := NewManager[session]()
	m.Put(7, &session{Stage: "intro"})
	m.Put(7, nil)
	if m.Active(7) {
		t.Fatal("nil Put must clear the session")
	}
}

func TestManagerUpdate(t *testing.T) {
	m := NewManager[session]()
	if m.Update(5, func(s *session) { s.Stage = "x" }) {
		t.Fatal("update reported success without a session")
	}

	m.Put(5, &session{Stage: "intro"})
	if !m.Update(5, func(s *session) { s.Stage = "presentation" }) {
		t.Fatal("update failed")
	}
	s, _ := m.Get(5)
	if s.Stage != "presentation" {
		t.Fatalf("stage = %q", s.Stage)
	}
}

func TestManagerConcurrentChats(t *testing.T) {
	m := NewManager[session]()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.Put(id, &session{Stage: "intro"})
			m.Update(id, func(s *session) { s.Stage = "research" })
			if s, ok := m.Get(id); !ok || s.Stage != "research" {
				t.Errorf("chat %d: session lost", id)
			}
		}(int64(i))
	}
	wg.Wait()
	if m.Len() != 64 {
		t.Fatalf("len = %d", m.Len())
	}
}
