package mocks

import (
	"sync"

	"github.com/you/guardianauth/domain"
)

// MockAuditLogger implements domain.AuditLogger and records events for
// later inspection in tests.
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) LogEvent(event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventTypes returns the recorded event types in order
func (m *MockAuditLogger) EventTypes() []domain.AuditEventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]domain.AuditEventType, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.EventType)
	}
	return types
}
