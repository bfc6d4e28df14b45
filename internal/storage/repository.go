// Package storage persists the registry and the ledger in SQLite. It
// implements the same ports as the in-memory store, so the two are
// interchangeable behind the service layer.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"escolar/internal/core"
	"escolar/internal/store"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() core.Date
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		now: func() core.Date { return core.DateOf(time.Now()) },
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateStudent(ctx context.Context, s core.Student) (core.Student, error) {
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = r.now()
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

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, name, tax_id, email, phone, grade, tuition_cents, enrollment_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.TaxID, s.Email, s.Phone, s.Grade,
		s.TuitionValue.Cents, s.EnrollmentDate.String(), string(s.Status))
	if err != nil {
		return core.Student{}, fmt.Errorf("insert student: %w", err)
	}

	slog.InfoContext(ctx, "Student saved", "id", s.ID, "name", s.Name)
	return s, nil
}

func (r *SQLiteRepository) UpdateStudent(ctx context.Context, s core.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = ?, tax_id = ?, email = ?, phone = ?, grade = ?,
		    tuition_cents = ?, enrollment_date = ?, status = ?
		WHERE id = ?`,
		s.Name, s.TaxID, s.Email, s.Phone, s.Grade,
		s.TuitionValue.Cents, s.EnrollmentDate.String(), string(s.Status), s.ID)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteStudent(ctx context.Context, id string) error {
	// idempotent, and no cascade: tuition rows keep their student_id
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListStudents(ctx context.Context) ([]core.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, tax_id, email, phone, grade, tuition_cents, enrollment_date, status
		FROM students ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []core.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SearchStudents(ctx context.Context, term string) ([]core.Student, error) {
	students, err := r.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Student
	for _, s := range students {
		if s.Matches(term) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, amount_cents, type, category, issue_date, due_date, payment_date, student_id, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, string(t.Type), string(t.Category),
		t.IssueDate.String(), t.DueDate.String(), t.PaymentDate.String(),
		t.StudentID, boolToInt(t.Paid))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"type", string(t.Type))
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount_cents = ?, type = ?, category = ?,
		    issue_date = ?, due_date = ?, payment_date = ?, student_id = ?, paid = ?
		WHERE id = ?`,
		t.Description, t.Amount.Cents, string(t.Type), string(t.Category),
		t.IssueDate.String(), t.DueDate.String(), t.PaymentDate.String(),
		t.StudentID, boolToInt(t.Paid), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, type, category, issue_date, due_date, payment_date, student_id, paid
		FROM transactions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TogglePayment flips the paid flag inside one SQL transaction so the
// paid/payment_date pair never disagrees, even across writers.
func (r *SQLiteRepository) TogglePayment(ctx context.Context, id string, today core.Date) (core.Transaction, error) {
	if today.IsZero() {
		today = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin toggle: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, type, category, issue_date, due_date, payment_date, student_id, paid
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}

	if t.Paid {
		t.Paid = false
		t.PaymentDate = core.Date{}
	} else {
		t.Paid = true
		if t.PaymentDate.IsZero() {
			t.PaymentDate = today
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE transactions SET payment_date = ?, paid = ? WHERE id = ?`,
		t.PaymentDate.String(), boolToInt(t.Paid), id); err != nil {
		return core.Transaction{}, fmt.Errorf("apply toggle: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit toggle: %w", err)
	}

	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (core.Student, error) {
	var (
		s          core.Student
		cents      int64
		enrollment string
		status     string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.Grade, &cents, &enrollment, &status); err != nil {
		return core.Student{}, err
	}
	date, err := core.ParseDate(enrollment)
	if err != nil {
		return core.Student{}, fmt.Errorf("student %s: %w", s.ID, err)
	}
	s.TuitionValue = core.Money{Cents: cents}
	s.EnrollmentDate = date
	s.Status = core.StudentStatus(status)
	return s, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                   core.Transaction
		cents               int64
		txType, category    string
		issue, due, payment string
		paid                int
	)
	if err := row.Scan(&t.ID, &t.Description, &cents, &txType, &category, &issue, &due, &payment, &t.StudentID, &paid); err != nil {
		return core.Transaction{}, err
	}
	var err error
	if t.IssueDate, err = core.ParseDate(issue); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	if t.DueDate, err = core.ParseDate(due); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	if t.PaymentDate, err = core.ParseDate(payment); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(txType)
	t.Category = core.TransactionCategory(category)
	t.Paid = paid != 0
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ store.Store = (*SQLiteRepository)(nil)
