// Package services provides business logic and orchestration over the
// registry and the ledger.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"escolar/internal/core"
	"escolar/internal/store"
)

// TuitionGenerator synthesizes the monthly tuition batch: one unpaid income
// transaction per active student. The operation itself carries no duplicate
// guard; calling it twice in the same period bills twice. Callers that need
// idempotence check HasTuitionForMonth first (the worker binary does).
type TuitionGenerator struct {
	students store.StudentRegistry
	ledger   store.TransactionLedger
}

func NewTuitionGenerator(students store.StudentRegistry, ledger store.TransactionLedger) *TuitionGenerator {
	return &TuitionGenerator{students: students, ledger: ledger}
}

// GenerateMonthly appends one tuition charge per active student, issued on
// the reference date and due 10 days later. Returns the number generated.
func (g *TuitionGenerator) GenerateMonthly(ctx context.Context, ref core.Date) (int, error) {
	if ref.IsZero() {
		return 0, fmt.Errorf("%w: reference date required", core.ErrInvalidDate)
	}

	students, err := g.students.ListStudents(ctx)
	if err != nil {
		return 0, fmt.Errorf("list students: %w", err)
	}

	generated := 0
	for _, s := range students {
		if s.Status != core.Active {
			continue
		}
		tx := core.Transaction{
			Description: "Mensalidade - " + s.Name,
			Amount:      s.TuitionValue,
			Type:        core.Income,
			Category:    core.Tuition,
			IssueDate:   ref,
			DueDate:     ref.AddDays(10),
			StudentID:   s.ID,
			Paid:        false,
		}
		if _, err := g.ledger.CreateTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to create tuition charge",
				"student_id", s.ID,
				"student", s.Name,
				"error", err)
			continue
		}
		generated++
	}

	slog.InfoContext(ctx, "Monthly tuition batch generated",
		"generated", generated,
		"reference_date", ref.String())

	return generated, nil
}

// HasTuitionForMonth reports whether the ledger already holds a tuition
// charge issued in the reference date's month.
func (g *TuitionGenerator) HasTuitionForMonth(ctx context.Context, ref core.Date) (bool, error) {
	txs, err := g.ledger.ListTransactions(ctx)
	if err != nil {
		return false, fmt.Errorf("list transactions: %w", err)
	}
	for _, t := range txs {
		if t.Category != core.Tuition || t.IssueDate.IsZero() {
			continue
		}
		if t.IssueDate.Year() == ref.Year() && t.IssueDate.Month() == ref.Month() {
			return true, nil
		}
	}
	return false, nil
}
