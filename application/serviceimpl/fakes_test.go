package serviceimpl_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"taskmanager/domain/ports"
	"taskmanager/pkg/scheduler"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*ports.TaskEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *ports.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []ports.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateFeed(context.Context) {
	c.calls++
}

type fakeNotifier struct {
	enabled bool
	fail    bool
	sent    []*ports.DueReminder
}

func (n *fakeNotifier) SendDueReminder(_ context.Context, reminder *ports.DueReminder) error {
	n.sent = append(n.sent, reminder)
	if n.fail {
		return errors.New("telegram down")
	}
	return nil
}

func (n *fakeNotifier) IsEnabled() bool { return n.enabled }

type fakeScheduler struct {
	jobs  map[string]func()
	crons map[string]string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: map[string]func(){}, crons: map[string]string{}}
}

func (s *fakeScheduler) Start()          {}
func (s *fakeScheduler) Stop()           {}
func (s *fakeScheduler) IsRunning() bool { return true }

func (s *fakeScheduler) AddJob(id, cronExpr string, task func()) error {
	if err := scheduler.ValidateCronExpression(cronExpr); err != nil {
		return err
	}
	s.jobs[id] = task
	s.crons[id] = cronExpr
	return nil
}

func (s *fakeScheduler) RemoveJob(id string) error {
	delete(s.jobs, id)
	return nil
}

func (s *fakeScheduler) GetJob(id string) (*scheduler.JobInfo, bool) {
	cron, ok := s.crons[id]
	if !ok {
		return nil, false
	}
	return &scheduler.JobInfo{ID: id, CronExpr: cron, IsActive: true}, true
}

func (s *fakeScheduler) ListJobs() map[string]*scheduler.JobInfo {
	out := make(map[string]*scheduler.JobInfo, len(s.crons))
	for id := range s.crons {
		info, _ := s.GetJob(id)
		out[id] = info
	}
	return out
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) UploadFile(_ context.Context, file io.Reader, _ int64, path, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	m.types[path] = contentType
	return m.GetFileURL(path), nil
}

func (m *memoryStorage) DeleteFile(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) DeleteFolder(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path := range m.objects {
		if strings.HasPrefix(path, prefix) {
			delete(m.objects, path)
		}
	}
	return nil
}

func (m *memoryStorage) GetFileURL(path string) string {
	return "memory://" + path
}

func (m *memoryStorage) GetFileContent(_ context.Context, path string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, "", errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), m.types[path], nil
}

func (m *memoryStorage) GetProviderName() string { return "memory" }

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
