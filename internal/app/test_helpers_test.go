package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/reclam/internal/ports/primary"
	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockReclamationRepository implements secondary.ReclamationRepository for testing.
type mockReclamationRepository struct {
	reclamations    map[string]*secondary.ReclamationRecord
	createErr       error
	updateErr       error
	updateStatusErr error
	statusCalls     []statusCall
}

type statusCall struct {
	id, status string
	from       []string
}

func newMockReclamationRepository() *mockReclamationRepository {
	return &mockReclamationRepository{
		reclamations: make(map[string]*secondary.ReclamationRecord),
	}
}

func (m *mockReclamationRepository) Create(ctx context.Context, r *secondary.ReclamationRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *r
	m.reclamations[r.ID] = &cp
	return nil
}

func (m *mockReclamationRepository) GetByID(ctx context.Context, id string) (*secondary.ReclamationRecord, error) {
	if r, ok := m.reclamations[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
}

func (m *mockReclamationRepository) List(ctx context.Context, filters secondary.ReclamationFilters) ([]*secondary.ReclamationRecord, error) {
	var result []*secondary.ReclamationRecord
	for _, r := range m.reclamations {
		if filters.UserID != "" && r.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockReclamationRepository) Update(ctx context.Context, r *secondary.ReclamationRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.reclamations[r.ID]
	if !ok {
		return fmt.Errorf("reclamation %s: %w", r.ID, sentinel.ErrNotFound)
	}
	existing.Title = r.Title
	existing.Description = r.Description
	existing.UserID = r.UserID
	existing.UpdatedAt = r.UpdatedAt
	return nil
}

func (m *mockReclamationRepository) UpdateStatus(ctx context.Context, id, status string, from []string, updatedAt time.Time) error {
	m.statusCalls = append(m.statusCalls, statusCall{id: id, status: status, from: from})
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	existing, ok := m.reclamations[id]
	if !ok {
		return fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	if len(from) > 0 {
		matched := false
		for _, f := range from {
			if existing.Status == f {
				matched = true
			}
		}
		if !matched {
			return fmt.Errorf("reclamation %s changed concurrently: %w", id, sentinel.ErrInvalidTransition)
		}
	}
	existing.Status = status
	existing.UpdatedAt = updatedAt
	return nil
}

func (m *mockReclamationRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.reclamations[id]; !ok {
		return fmt.Errorf("reclamation %s: %w", id, sentinel.ErrNotFound)
	}
	delete(m.reclamations, id)
	return nil
}

func (m *mockReclamationRepository) Ping(ctx context.Context) error {
	return nil
}

// mockIdentityGate implements secondary.IdentityGate for testing.
type mockIdentityGate struct {
	users       map[string]*secondary.UserProfile
	existsErr   error
	profileErr  error
	existsCalls int
}

func newMockIdentityGate() *mockIdentityGate {
	return &mockIdentityGate{
		users: map[string]*secondary.UserProfile{
			"42": {ID: "42", Name: "Alice Martin", Email: "alice@example.com"},
			"43": {ID: "43", Name: "Bob Durand", Email: "bob@example.com"},
		},
	}
}

func (m *mockIdentityGate) Exists(ctx context.Context, userID string) (bool, error) {
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.users[userID]
	return ok, nil
}

func (m *mockIdentityGate) GetUser(ctx context.Context, userID string) (*secondary.UserProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
}

// mockDispatcher implements primary.NotificationDispatcher and records events.
type mockDispatcher struct {
	events      []primary.LifecycleEvent
	dispatchErr error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, event primary.LifecycleEvent) (*primary.Notification, error) {
	m.events = append(m.events, event)
	if m.dispatchErr != nil {
		return nil, m.dispatchErr
	}
	return &primary.Notification{ReclamationID: event.ReclamationID, ActionCode: event.ActionCode, Status: "PENDING"}, nil
}

func (m *mockDispatcher) Shutdown(ctx context.Context) error {
	return nil
}

// mockNotificationRepository implements secondary.NotificationRepository for testing.
// Safe for use from delivery goroutines.
type mockNotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]*secondary.NotificationRecord
	createErr     error
	finalized     chan string
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		notifications: make(map[string]*secondary.NotificationRecord),
		finalized:     make(chan string, 64),
	}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id string) (*secondary.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notifications[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
}

func (m *mockNotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.NotificationRecord
	for _, n := range m.notifications {
		if filters.ReclamationID != "" && n.ReclamationID != filters.ReclamationID {
			continue
		}
		if filters.UserID != "" && n.UserID != filters.UserID {
			continue
		}
		if filters.Status != "" && n.Status != filters.Status {
			continue
		}
		cp := *n
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockNotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return m.finalize(id, func(n *secondary.NotificationRecord) {
		n.Status = "SENT"
		n.SentAt = &sentAt
	})
}

func (m *mockNotificationRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	return m.finalize(id, func(n *secondary.NotificationRecord) {
		n.Status = "FAILED"
		n.ErrorMessage = errorMessage
	})
}

func (m *mockNotificationRepository) finalize(id string, apply func(*secondary.NotificationRecord)) error {
	m.mu.Lock()
	n, ok := m.notifications[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	if n.Status != "PENDING" {
		m.mu.Unlock()
		return fmt.Errorf("notification %s already %s: %w", id, n.Status, sentinel.ErrInvalidTransition)
	}
	apply(n)
	m.mu.Unlock()
	m.finalized <- id
	return nil
}

// waitFinalized blocks until n notifications have been finalized or the timeout elapses.
func (m *mockNotificationRepository) waitFinalized(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-m.finalized:
		case <-deadline:
			return false
		}
	}
	return true
}

// mockMailer implements secondary.Mailer for testing.
type mockMailer struct {
	mu     sync.Mutex
	sent   []string
	sendFn func(to, subject, body string) error
}

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, to)
	fn := m.sendFn
	m.mu.Unlock()
	if fn != nil {
		return fn(to, subject, body)
	}
	return nil
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []string
	err     error
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, fmt.Sprintf("create %s %s", entityType, entityID))
	return m.err
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.entries = append(m.entries, fmt.Sprintf("update %s %s %s %s->%s", entityType, entityID, fieldName, oldValue, newValue))
	return m.err
}

func (m *mockLogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, fmt.Sprintf("delete %s %s", entityType, entityID))
	return m.err
}

// mockActivityLogRepository implements secondary.ActivityLogRepository for testing.
type mockActivityLogRepository struct {
	logs        map[string]*secondary.ActivityLogRecord
	lastFilters secondary.ActivityLogFilters
	listErr     error
	pruned   int
	pruneArg int
}

func newMockActivityLogRepository() *mockActivityLogRepository {
	return &mockActivityLogRepository{logs: make(map[string]*secondary.ActivityLogRecord)}
}

func (m *mockActivityLogRepository) Create(ctx context.Context, log *secondary.ActivityLogRecord) error {
	m.logs[log.ID] = log
	return nil
}

func (m *mockActivityLogRepository) GetByID(ctx context.Context, id string) (*secondary.ActivityLogRecord, error) {
	if l, ok := m.logs[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("activity log %s: %w", id, sentinel.ErrNotFound)
}

func (m *mockActivityLogRepository) List(ctx context.Context, filters secondary.ActivityLogFilters) ([]*secondary.ActivityLogRecord, error) {
	m.lastFilters = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.ActivityLogRecord
	for _, l := range m.logs {
		if filters.EntityID != "" && l.EntityID != filters.EntityID {
			continue
		}
		if filters.Action != "" && l.Action != filters.Action {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.pruneArg = days
	return m.pruned, nil
}

// fixedClock returns a clock that advances by one second per call.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start.Add(-time.Second)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// sequentialIDs returns an ID generator producing prefix-001, prefix-002, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}
