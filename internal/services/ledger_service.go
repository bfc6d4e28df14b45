package services

import (
	"context"
	"log/slog"
	"time"

	"escolar/internal/amqp"
	"escolar/internal/core"
	"escolar/internal/metrics"
	"escolar/internal/store"
)

// LedgerService fronts every mutation of the registry and the ledger. The
// store mutation is the source of truth; event publication and metrics ride
// along and never fail the operation.
type LedgerService struct {
	store   store.Store
	events  *amqp.Client
	metrics *metrics.Metrics
	now     func() core.Date
}

func NewLedgerService(s store.Store, events *amqp.Client, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		store:   s,
		events:  events,
		metrics: m,
		now:     func() core.Date { return core.DateOf(time.Now()) },
	}
}

// Store exposes the underlying store for read-only consumers.
func (l *LedgerService) Store() store.Store {
	return l.store
}

// Clock overrides "today" for tests.
func (l *LedgerService) Clock(now func() core.Date) {
	l.now = now
}

func (l *LedgerService) CreateStudent(ctx context.Context, s core.Student) (core.Student, error) {
	created, err := l.store.CreateStudent(ctx, s)
	if err != nil {
		return core.Student{}, err
	}
	l.record(ctx, amqp.EntityStudent, amqp.ActionCreated, created.ID)
	return created, nil
}

func (l *LedgerService) UpdateStudent(ctx context.Context, s core.Student) error {
	if err := l.store.UpdateStudent(ctx, s); err != nil {
		return err
	}
	l.record(ctx, amqp.EntityStudent, amqp.ActionUpdated, s.ID)
	return nil
}

func (l *LedgerService) DeleteStudent(ctx context.Context, id string) error {
	if err := l.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	l.record(ctx, amqp.EntityStudent, amqp.ActionDeleted, id)
	return nil
}

func (l *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := l.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	l.record(ctx, amqp.EntityTransaction, amqp.ActionCreated, created.ID)
	return created, nil
}

func (l *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := l.store.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	l.record(ctx, amqp.EntityTransaction, amqp.ActionUpdated, t.ID)
	return nil
}

func (l *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := l.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	l.record(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	return nil
}

// TogglePayment flips a transaction between pending and settled using
// today's date for the payment date.
func (l *LedgerService) TogglePayment(ctx context.Context, id string) (core.Transaction, error) {
	toggled, err := l.store.TogglePayment(ctx, id, l.now())
	if err != nil {
		return core.Transaction{}, err
	}
	l.record(ctx, amqp.EntityTransaction, amqp.ActionToggled, id)
	return toggled, nil
}

// GenerateTuition runs the monthly batch through the service so each
// synthesized charge is counted; events for the individual creates are not
// published, one batch-level count suffices downstream.
func (l *LedgerService) GenerateTuition(ctx context.Context, ref core.Date) (int, error) {
	gen := NewTuitionGenerator(l.store, l.store)
	count, err := gen.GenerateMonthly(ctx, ref)
	if err != nil {
		return 0, err
	}
	if l.metrics != nil {
		l.metrics.TuitionGenerated.Add(float64(count))
	}
	return count, nil
}

func (l *LedgerService) record(ctx context.Context, entity, action, id string) {
	if l.metrics != nil {
		l.metrics.Mutations.WithLabelValues(entity, action).Inc()
	}
	if l.events == nil {
		return
	}
	if err := l.events.PublishLedgerEvent(ctx, entity, action, id); err != nil {
		// the mutation already succeeded; the event is best effort
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity,
			"action", action,
			"id", id,
			"error", err)
	}
}

// Close releases the event channel if one was wired.
func (l *LedgerService) Close() error {
	if l.events != nil {
		return l.events.Close()
	}
	return nil
}
