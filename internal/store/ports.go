// Package store defines the ports through which the rest of the system
// reaches the student registry and the transaction ledger, together with a
// reference in-memory implementation.
package store

import (
	"context"
	"errors"

	"escolar/internal/core"
)

// ErrNotFound reports an update or toggle aimed at an id absent from the
// collection. Deletes do not return it: deleting a missing id is a no-op.
var ErrNotFound = errors.New("record not found")

type (
	// StudentRegistry owns the collection of students.
	StudentRegistry interface {
		// CreateStudent validates and inserts a student, assigning an id when
		// absent, defaulting the enrollment date to today and the status to
		// Active. Returns the stored record.
		CreateStudent(ctx context.Context, s core.Student) (core.Student, error)

		// UpdateStudent replaces the student with a matching id.
		// Returns ErrNotFound when no record matches.
		UpdateStudent(ctx context.Context, s core.Student) error

		// DeleteStudent removes a student. Idempotent; historical transactions
		// keep their (now dangling) student reference.
		DeleteStudent(ctx context.Context, id string) error

		ListStudents(ctx context.Context) ([]core.Student, error)

		// SearchStudents filters by case-insensitive name substring or tax id
		// substring.
		SearchStudents(ctx context.Context, term string) ([]core.Student, error)
	}

	// TransactionLedger owns the collection of transactions.
	TransactionLedger interface {
		// CreateTransaction validates and inserts a transaction, assigning an
		// id when absent. Returns the stored record.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)

		// UpdateTransaction replaces the transaction with a matching id.
		// Returns ErrNotFound when no record matches.
		UpdateTransaction(ctx context.Context, t core.Transaction) error

		// DeleteTransaction removes a transaction. Idempotent.
		DeleteTransaction(ctx context.Context, id string) error

		ListTransactions(ctx context.Context) ([]core.Transaction, error)

		// TogglePayment flips the paid flag. Settling sets the payment date to
		// today; reopening clears it. The paid/paymentDate invariant holds
		// atomically. Returns the record after the flip, or ErrNotFound.
		TogglePayment(ctx context.Context, id string, today core.Date) (core.Transaction, error)
	}

	// Store combines both collections behind one mutation owner.
	Store interface {
		StudentRegistry
		TransactionLedger
	}
)
