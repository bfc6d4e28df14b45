package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"escolar/internal/core"
	"escolar/internal/store"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "escolar.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	repo.now = func() core.Date { return core.NewDate(2023, 11, 3) }
	return repo
}

func TestSQLiteStudentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.CreateStudent(ctx, core.Student{
		Name:         "João Silva",
		TaxID:        "123.456.789-00",
		Email:        "joao@email.com",
		Grade:        "5º Ano A",
		TuitionValue: core.Money{Cents: 120000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Status != core.Active || created.EnrollmentDate.String() != "2023-11-03" {
		t.Fatalf("defaults not applied: %+v", created)
	}

	students, err := repo.ListStudents(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(students) != 1 || students[0] != created {
		t.Fatalf("round trip mismatch: %+v vs %+v", students, created)
	}

	created.Status = core.Graduated
	if err := repo.UpdateStudent(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	students, _ = repo.ListStudents(ctx)
	if students[0].Status != core.Graduated {
		t.Fatalf("update not persisted: %+v", students[0])
	}

	missing := created
	missing.ID = "ghost"
	if err := repo.UpdateStudent(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tx := core.Transaction{
		Description: "Salário Professores",
		Amount:      core.Money{Cents: 850000},
		Type:        core.Expense,
		Category:    core.Salary,
		IssueDate:   core.NewDate(2023, 10, 1),
		DueDate:     core.NewDate(2023, 10, 5),
		PaymentDate: core.NewDate(2023, 10, 5),
		Paid:        true,
	}
	created, err := repo.CreateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0] != created {
		t.Fatalf("round trip mismatch: %+v vs %+v", listed, created)
	}
}

func TestSQLiteRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.CreateTransaction(ctx, core.Transaction{Description: ""})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	listed, _ := repo.ListTransactions(ctx)
	if len(listed) != 0 {
		t.Fatalf("rejected create must not persist, got %d rows", len(listed))
	}
}

func TestSQLiteTogglePayment(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "Mensalidade - Maria Souza",
		Amount:      core.Money{Cents: 110000},
		Type:        core.Income,
		Category:    core.Tuition,
		IssueDate:   core.NewDate(2023, 10, 1),
		DueDate:     core.NewDate(2023, 10, 10),
		StudentID:   "2",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	settled, err := repo.TogglePayment(ctx, created.ID, core.NewDate(2023, 11, 3))
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !settled.Paid || settled.PaymentDate.String() != "2023-11-03" {
		t.Fatalf("expected settlement on 2023-11-03, got %+v", settled)
	}

	persisted, _ := repo.ListTransactions(ctx)
	if persisted[0] != settled {
		t.Fatalf("toggle not persisted: %+v", persisted[0])
	}

	reopened, err := repo.TogglePayment(ctx, created.ID, core.NewDate(2023, 11, 4))
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if reopened.Paid || !reopened.PaymentDate.IsEmpty() {
		t.Fatalf("reopen must clear the payment date: %+v", reopened)
	}

	if _, err := repo.TogglePayment(ctx, "ghost", core.Date{}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestSQLiteDeleteIdempotentNoCascade(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	if err := store.Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.DeleteTransaction(ctx, "103"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "103"); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}

	if err := repo.DeleteStudent(ctx, "1"); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	txs, _ := repo.ListTransactions(ctx)
	var dangling bool
	for _, tx := range txs {
		if tx.StudentID == "1" {
			dangling = true
		}
	}
	if !dangling {
		t.Fatal("student delete must not cascade to transactions")
	}
}

func TestSQLiteSearchStudents(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	if err := store.Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := repo.SearchStudents(ctx, "souza")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != "2" {
		t.Fatalf("search wrong: %+v", found)
	}
}
