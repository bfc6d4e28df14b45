package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Receita"
	Expense TransactionType = "Despesa"
)

const (
	Tuition     TransactionCategory = "Mensalidade"
	Salary      TransactionCategory = "Salário"
	Maintenance TransactionCategory = "Manutenção"
	Supplies    TransactionCategory = "Materiais"
	Other       TransactionCategory = "Outros"
)

const (
	Active    StudentStatus = "Ativo"
	Inactive  StudentStatus = "Inativo"
	Graduated StudentStatus = "Formado"
)

type (
	TransactionType     string
	TransactionCategory string
	StudentStatus       string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Student struct {
		ID             string
		Name           string
		TaxID          string
		Email          string
		Phone          string
		Grade          string
		TuitionValue   Money
		EnrollmentDate Date
		Status         StudentStatus
	}

	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Type        TransactionType
		Category    TransactionCategory
		IssueDate   Date
		DueDate     Date
		PaymentDate Date   // zero while unpaid
		StudentID   string // set only for tuition linked to a student
		Paid        bool
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidCategory    = errors.New("invalid transaction category")
	ErrInvalidStatus      = errors.New("invalid student status")
	ErrPaymentDateMissing = errors.New("paid transaction without payment date")
	ErrPaymentDateSet     = errors.New("unpaid transaction with payment date")
)

// Categories lists every transaction category in declaration order.
// Aggregations iterate this slice so their output order is deterministic.
func Categories() []TransactionCategory {
	return []TransactionCategory{Tuition, Salary, Maintenance, Supplies, Other}
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	}
	return false
}

func (c TransactionCategory) Valid() bool {
	switch c {
	case Tuition, Salary, Maintenance, Supplies, Other:
		return true
	}
	return false
}

func (s StudentStatus) Valid() bool {
	switch s {
	case Active, Inactive, Graduated:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD). The empty string
// parses to the zero Date, which stands for "absent".
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String renders the ISO form, or the empty string for the zero Date.
// Lexicographic order on the output matches chronological order.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s Student) Validate() error {
	if len(strings.TrimSpace(s.Name)) == 0 {
		return ErrEmptyName
	}
	if err := s.TuitionValue.Validate(); err != nil {
		return err
	}
	if s.EnrollmentDate.IsZero() {
		return fmt.Errorf("%w: enrollment date required", ErrInvalidDate)
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Matches reports whether the student matches a free-text search term:
// case-insensitive substring on the name, or substring on the tax id.
func (s Student) Matches(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), strings.ToLower(term)) {
		return true
	}
	return strings.Contains(s.TaxID, term)
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue date required", ErrInvalidDate)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("%w: due date required", ErrInvalidDate)
	}
	// paid and paymentDate must agree after every mutation, not only here
	if t.Paid && t.PaymentDate.IsZero() {
		return ErrPaymentDateMissing
	}
	if !t.Paid && !t.PaymentDate.IsZero() {
		return ErrPaymentDateSet
	}
	return nil
}
