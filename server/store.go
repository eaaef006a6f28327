package server

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/logkit/logapi"
)

var (
	ErrProjectNotFound   = errors.New("project does not exist")
	ErrProjectExists     = errors.New("project already exists")
	ErrLogStoreNotFound  = errors.New("logstore does not exist")
	ErrLogStoreExists    = errors.New("logstore already exists")
	ErrInvalidProjectArg = errors.New("project name is required")
)

type projectEntry struct {
	project   logapi.Project
	logstores map[string]logapi.LogStore
}

// Store keeps projects and logstores in memory.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*projectEntry
	region   string
	owner    string
	now      func() time.Time
}

// NewStore creates an empty store that stamps projects with region and owner.
func NewStore(region, owner string) *Store {
	return &Store{
		projects: make(map[string]*projectEntry),
		region:   region,
		owner:    owner,
		now:      time.Now,
	}
}

// CreateProject adds a project.
func (s *Store) CreateProject(req logapi.CreateProjectRequest) (logapi.Project, error) {
	if req.Name == "" {
		return logapi.Project{}, ErrInvalidProjectArg
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[req.Name]; ok {
		return logapi.Project{}, ErrProjectExists
	}
	ts := strconv.FormatInt(s.now().Unix(), 10)
	p := logapi.Project{
		Name:            req.Name,
		Description:     req.Description,
		Status:          logapi.ProjectStatusNormal,
		Owner:           s.owner,
		Region:          s.region,
		ResourceGroupID: req.ResourceGroupID,
		CreateTime:      ts,
		LastModifyTime:  ts,
	}
	s.projects[req.Name] = &projectEntry{project: p, logstores: make(map[string]logapi.LogStore)}
	return p, nil
}

// GetProject returns a project by name.
func (s *Store) GetProject(name string) (logapi.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.projects[name]
	if !ok {
		return logapi.Project{}, ErrProjectNotFound
	}
	return entry.project, nil
}

// DeleteProject removes a project and its logstores.
func (s *Store) DeleteProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[name]; !ok {
		return ErrProjectNotFound
	}
	delete(s.projects, name)
	return nil
}

// ListProjects returns all projects sorted by name.
func (s *Store) ListProjects() []logapi.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]logapi.Project, 0, len(s.projects))
	for _, entry := range s.projects {
		out = append(out, entry.project)
	}
	slices.SortFunc(out, func(a, b logapi.Project) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// CreateLogStore adds a logstore to a project.
func (s *Store) CreateLogStore(project string, ls logapi.LogStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.projects[project]
	if !ok {
		return ErrProjectNotFound
	}
	if _, exists := entry.logstores[ls.Name]; exists {
		return ErrLogStoreExists
	}
	entry.logstores[ls.Name] = ls
	return nil
}

// GetLogStore returns one logstore of a project.
func (s *Store) GetLogStore(project, name string) (logapi.LogStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.projects[project]
	if !ok {
		return logapi.LogStore{}, ErrProjectNotFound
	}
	ls, ok := entry.logstores[name]
	if !ok {
		return logapi.LogStore{}, ErrLogStoreNotFound
	}
	return ls, nil
}

// ListLogStores returns one page of sorted logstore names and the total count.
func (s *Store) ListLogStores(project string, offset, size int) ([]string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.projects[project]
	if !ok {
		return nil, 0, ErrProjectNotFound
	}
	names := make([]string, 0, len(entry.logstores))
	for name := range entry.logstores {
		names = append(names, name)
	}
	slices.Sort(names)

	total := len(names)
	if offset >= total {
		return []string{}, total, nil
	}
	end := total
	if size > 0 && offset+size < total {
		end = offset + size
	}
	return names[offset:end], total, nil
}
