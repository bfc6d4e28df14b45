package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"escolar/internal/core"
)

// Memory is the reference store: mutex-guarded in-process collections.
// Every mutation validates first and runs to completion under the lock, so
// no caller observes a half-applied change. Insertion order is preserved in
// listings; consumers re-sort as needed.
type Memory struct {
	mu           sync.Mutex
	students     []core.Student
	transactions []core.Transaction

	now func() core.Date
}

func NewMemory() *Memory {
	return &Memory{now: func() core.Date { return core.DateOf(time.Now()) }}
}

// NewMemoryAt pins "today" for tests.
func NewMemoryAt(today core.Date) *Memory {
	return &Memory{now: func() core.Date { return today }}
}

func (m *Memory) CreateStudent(_ context.Context, s core.Student) (core.Student, error) {
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = m.now()
	}
	if s.Status == "" {
		s.Status = core.Active
	}
	if err := s.Validate(); err != nil {
		return core.Student{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append(m.students, s)
	return s, nil
}

func (m *Memory) UpdateStudent(_ context.Context, s core.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == s.ID {
			m.students[i] = s
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) ListStudents(_ context.Context) ([]core.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Student(nil), m.students...), nil
}

func (m *Memory) SearchStudents(_ context.Context, term string) ([]core.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.Student
	for _, s := range m.students {
		if s.Matches(term) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, t)
	return t, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == t.ID {
			m.transactions[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.transactions...), nil
}

func (m *Memory) TogglePayment(_ context.Context, id string, today core.Date) (core.Transaction, error) {
	if today.IsZero() {
		today = m.now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID != id {
			continue
		}
		t := m.transactions[i]
		if t.Paid {
			t.Paid = false
			t.PaymentDate = core.Date{}
		} else {
			t.Paid = true
			if t.PaymentDate.IsZero() {
				t.PaymentDate = today
			}
		}
		m.transactions[i] = t
		return t, nil
	}
	return core.Transaction{}, ErrNotFound
}

var _ Store = (*Memory)(nil)
