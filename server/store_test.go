package server

import (
	"errors"
	"testing"
	"time"

	"github.com/kbukum/logkit/logapi"
)

func newTestStore() *Store {
	s := NewStore("local", "owner-1")
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestStoreCreateAndGetProject(t *testing.T) {
	s := newTestStore()

	p, err := s.CreateProject(logapi.CreateProjectRequest{Name: "p1", Description: "access logs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != logapi.ProjectStatusNormal {
		t.Errorf("expected Normal, got %q", p.Status)
	}
	if p.Region != "local" || p.Owner != "owner-1" {
		t.Errorf("unexpected region/owner %q/%q", p.Region, p.Owner)
	}
	if p.CreateTime != "1700000000" {
		t.Errorf("expected create time 1700000000, got %q", p.CreateTime)
	}

	got, err := s.GetProject("p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Description != "access logs" {
		t.Errorf("expected description, got %q", got.Description)
	}
}

func TestStoreProjectErrors(t *testing.T) {
	s := newTestStore()

	if _, err := s.CreateProject(logapi.CreateProjectRequest{}); !errors.Is(err, ErrInvalidProjectArg) {
		t.Errorf("expected ErrInvalidProjectArg, got %v", err)
	}
	if _, err := s.GetProject("missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	if err := s.DeleteProject("missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}

	s.CreateProject(logapi.CreateProjectRequest{Name: "p1"})
	if _, err := s.CreateProject(logapi.CreateProjectRequest{Name: "p1"}); !errors.Is(err, ErrProjectExists) {
		t.Errorf("expected ErrProjectExists, got %v", err)
	}
	if err := s.DeleteProject("p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.GetProject("p1"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected project to be deleted, got %v", err)
	}
}

func TestStoreListProjectsSorted(t *testing.T) {
	s := newTestStore()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		s.CreateProject(logapi.CreateProjectRequest{Name: name})
	}

	projects := s.ListProjects()
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}
	for i, want := range []string{"alpha", "bravo", "charlie"} {
		if projects[i].Name != want {
			t.Errorf("expected %q at %d, got %q", want, i, projects[i].Name)
		}
	}
}

func TestStoreLogStores(t *testing.T) {
	s := newTestStore()
	s.CreateProject(logapi.CreateProjectRequest{Name: "p1"})

	for _, name := range []string{"error", "access", "audit"} {
		if err := s.CreateLogStore("p1", logapi.LogStore{Name: name, TTL: 30, ShardCount: 2}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.CreateLogStore("p1", logapi.LogStore{Name: "access"}); !errors.Is(err, ErrLogStoreExists) {
		t.Errorf("expected ErrLogStoreExists, got %v", err)
	}
	if err := s.CreateLogStore("missing", logapi.LogStore{Name: "x"}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}

	ls, err := s.GetLogStore("p1", "audit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ls.TTL != 30 || ls.ShardCount != 2 {
		t.Errorf("unexpected logstore %+v", ls)
	}
	if _, err := s.GetLogStore("p1", "nope"); !errors.Is(err, ErrLogStoreNotFound) {
		t.Errorf("expected ErrLogStoreNotFound, got %v", err)
	}

	tests := []struct {
		offset, size int
		want         []string
	}{
		{0, 0, []string{"access", "audit", "error"}},
		{0, 2, []string{"access", "audit"}},
		{1, 10, []string{"audit", "error"}},
		{5, 10, []string{}},
	}
	for _, tc := range tests {
		names, total, err := s.ListLogStores("p1", tc.offset, tc.size)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		if len(names) != len(tc.want) {
			t.Errorf("offset=%d size=%d: expected %v, got %v", tc.offset, tc.size, tc.want, names)
			continue
		}
		for i := range names {
			if names[i] != tc.want[i] {
				t.Errorf("offset=%d size=%d: expected %v, got %v", tc.offset, tc.size, tc.want, names)
				break
			}
		}
	}
}

func TestFaultQueue(t *testing.T) {
	var q faultQueue
	if _, ok := q.pop(); ok {
		t.Fatal("expected empty queue")
	}
	q.push(Fault{Status: 503}, 2)
	q.push(Fault{Status: 500}, 1)
	if q.pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", q.pending())
	}
	for _, want := range []int{503, 503, 500} {
		f, ok := q.pop()
		if !ok || f.Status != want {
			t.Errorf("expected %d, got %d (ok=%v)", want, f.Status, ok)
		}
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Host != "127.0.0.1" || cfg.Domain != "localhost" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected timeouts %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected port validation error")
	}
}
