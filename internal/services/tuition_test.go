package services

import (
	"context"
	"errors"
	"testing"

	"escolar/internal/core"
	"escolar/internal/store"
)

func seededRegistry(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	students := []core.Student{
		{Name: "João Silva", TuitionValue: core.Money{Cents: 120000}, Status: core.Active, EnrollmentDate: core.NewDate(2023, 1, 15)},
		{Name: "Maria Souza", TuitionValue: core.Money{Cents: 110000}, Status: core.Active, EnrollmentDate: core.NewDate(2023, 2, 10)},
		{Name: "Pedro Santos", TuitionValue: core.Money{Cents: 140000}, Status: core.Inactive, EnrollmentDate: core.NewDate(2023, 1, 20)},
	}
	for _, s := range students {
		if _, err := m.CreateStudent(context.Background(), s); err != nil {
			t.Fatalf("seed student: %v", err)
		}
	}
	return m
}

func TestGenerateMonthly(t *testing.T) {
	ctx := context.Background()
	m := seededRegistry(t)
	gen := NewTuitionGenerator(m, m)

	ref := core.NewDate(2023, 10, 1)
	count, err := gen.GenerateMonthly(ctx, ref)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 charges for 2 active students, got %d", count)
	}

	txs, _ := m.ListTransactions(ctx)
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	wantAmounts := map[string]int64{
		"Mensalidade - João Silva":  120000,
		"Mensalidade - Maria Souza": 110000,
	}
	for _, tx := range txs {
		if tx.Type != core.Income || tx.Category != core.Tuition {
			t.Fatalf("wrong type/category: %+v", tx)
		}
		if tx.Paid || !tx.PaymentDate.IsEmpty() {
			t.Fatalf("generated charge must be unpaid: %+v", tx)
		}
		if tx.IssueDate.String() != "2023-10-01" || tx.DueDate.String() != "2023-10-11" {
			t.Fatalf("wrong dates: issue=%s due=%s", tx.IssueDate, tx.DueDate)
		}
		want, ok := wantAmounts[tx.Description]
		if !ok {
			t.Fatalf("unexpected description %q", tx.Description)
		}
		if tx.Amount.Cents != want {
			t.Fatalf("%s: amount %d, want %d", tx.Description, tx.Amount.Cents, want)
		}
		if tx.StudentID == "" {
			t.Fatalf("charge must reference its student: %+v", tx)
		}
		if err := tx.Validate(); err != nil {
			t.Fatalf("generated charge invalid: %v", err)
		}
	}
}

func TestGenerateMonthlyNoActiveStudents(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	gen := NewTuitionGenerator(m, m)

	count, err := gen.GenerateMonthly(ctx, core.NewDate(2023, 10, 1))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestGenerateMonthlyRequiresReference(t *testing.T) {
	m := store.NewMemory()
	gen := NewTuitionGenerator(m, m)
	if _, err := gen.GenerateMonthly(context.Background(), core.Date{}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestGenerateMonthlyNoDuplicateGuard(t *testing.T) {
	ctx := context.Background()
	m := seededRegistry(t)
	gen := NewTuitionGenerator(m, m)

	ref := core.NewDate(2023, 10, 1)
	if _, err := gen.GenerateMonthly(ctx, ref); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := gen.GenerateMonthly(ctx, ref); err != nil {
		t.Fatalf("second run: %v", err)
	}
	txs, _ := m.ListTransactions(ctx)
	if len(txs) != 4 {
		t.Fatalf("repeated invocation bills twice by design, expected 4 charges, got %d", len(txs))
	}
}

func TestHasTuitionForMonth(t *testing.T) {
	ctx := context.Background()
	m := seededRegistry(t)
	gen := NewTuitionGenerator(m, m)

	ref := core.NewDate(2023, 10, 1)
	has, err := gen.HasTuitionForMonth(ctx, ref)
	if err != nil || has {
		t.Fatalf("empty ledger: has=%v err=%v", has, err)
	}

	if _, err := gen.GenerateMonthly(ctx, ref); err != nil {
		t.Fatalf("generate: %v", err)
	}

	has, err = gen.HasTuitionForMonth(ctx, core.NewDate(2023, 10, 25))
	if err != nil || !has {
		t.Fatalf("same month: has=%v err=%v", has, err)
	}
	has, err = gen.HasTuitionForMonth(ctx, core.NewDate(2023, 11, 1))
	if err != nil || has {
		t.Fatalf("next month: has=%v err=%v", has, err)
	}
}
