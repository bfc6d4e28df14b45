package http

import (
	"fmt"

	"escolar/internal/core"
)

// UnknownStudentName labels transactions whose student reference no longer
// resolves. Student deletion keeps historical rows, so this shows up on
// purpose, not only on bad data.
const UnknownStudentName = "Aluno desconhecido"

// transactionRequest is the wire shape for creating or replacing a
// transaction. The amount travels as a decimal string so the client never
// does float arithmetic on money.
type transactionRequest struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Category    string `json:"category" validate:"required"`
	IssueDate   string `json:"issueDate" validate:"required"`
	DueDate     string `json:"dueDate" validate:"required"`
	PaymentDate string `json:"paymentDate,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	Paid        bool   `json:"paid"`
}

func (req transactionRequest) toDomain(id string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	issue, err := core.ParseDate(req.IssueDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("issueDate: %w", err)
	}
	due, err := core.ParseDate(req.DueDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("dueDate: %w", err)
	}
	payment, err := core.ParseDate(req.PaymentDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("paymentDate: %w", err)
	}

	return core.Transaction{
		ID:          id,
		Description: req.Description,
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(req.Type),
		Category:    core.TransactionCategory(req.Category),
		IssueDate:   issue,
		DueDate:     due,
		PaymentDate: payment,
		StudentID:   req.StudentID,
		Paid:        req.Paid,
	}, nil
}

type transactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	IssueDate   string `json:"issueDate"`
	DueDate     string `json:"dueDate"`
	PaymentDate string `json:"paymentDate,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	StudentName string `json:"studentName,omitempty"`
	Paid        bool   `json:"paid"`
}

// toTransactionResponse renders a transaction, resolving the student name
// through the given lookup. Ids missing from the lookup come back as
// UnknownStudentName; a nil lookup means no resolution happened and the
// name is omitted entirely.
func toTransactionResponse(t core.Transaction, names map[string]string) transactionResponse {
	resp := transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.BRL(),
		Type:        string(t.Type),
		Category:    string(t.Category),
		IssueDate:   t.IssueDate.String(),
		DueDate:     t.DueDate.String(),
		PaymentDate: t.PaymentDate.String(),
		StudentID:   t.StudentID,
		Paid:        t.Paid,
	}
	if t.StudentID != "" && names != nil {
		if name, ok := names[t.StudentID]; ok {
			resp.StudentName = name
		} else {
			resp.StudentName = UnknownStudentName
		}
	}
	return resp
}

type studentRequest struct {
	Name           string `json:"name" validate:"required"`
	TaxID          string `json:"taxId,omitempty"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty"`
	Grade          string `json:"grade,omitempty"`
	TuitionValue   string `json:"tuitionValue" validate:"required"`
	EnrollmentDate string `json:"enrollmentDate,omitempty"`
	Status         string `json:"status,omitempty"`
}

func (req studentRequest) toDomain(id string) (core.Student, error) {
	cents, err := core.ParseDecimalToCents(req.TuitionValue)
	if err != nil {
		return core.Student{}, fmt.Errorf("tuitionValue: %w", err)
	}
	enrolled, err := core.ParseDate(req.EnrollmentDate)
	if err != nil {
		return core.Student{}, fmt.Errorf("enrollmentDate: %w", err)
	}

	return core.Student{
		ID:             id,
		Name:           req.Name,
		TaxID:          req.TaxID,
		Email:          req.Email,
		Phone:          req.Phone,
		Grade:          req.Grade,
		TuitionValue:   core.Money{Cents: cents},
		EnrollmentDate: enrolled,
		Status:         core.StudentStatus(req.Status),
	}, nil
}

type studentResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TaxID             string `json:"taxId,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Grade             string `json:"grade,omitempty"`
	TuitionValueCents int64  `json:"tuitionValueCents"`
	TuitionValue      string `json:"tuitionValue"`
	EnrollmentDate    string `json:"enrollmentDate"`
	Status            string `json:"status"`
}

func toStudentResponse(s core.Student) studentResponse {
	return studentResponse{
		ID:                s.ID,
		Name:              s.Name,
		TaxID:             s.TaxID,
		Email:             s.Email,
		Phone:             s.Phone,
		Grade:             s.Grade,
		TuitionValueCents: s.TuitionValue.Cents,
		TuitionValue:      s.TuitionValue.BRL(),
		EnrollmentDate:    s.EnrollmentDate.String(),
		Status:            string(s.Status),
	}
}

type categoryAmountResponse struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

type monthFlowResponse struct {
	Month        string `json:"month"`
	IncomeCents  int64  `json:"incomeCents"`
	ExpenseCents int64  `json:"expenseCents"`
}

type dashboardResponse struct {
	IncomeCents    int64                    `json:"incomeCents"`
	ExpenseCents   int64                    `json:"expenseCents"`
	PendingCents   int64                    `json:"pendingCents"`
	BalanceCents   int64                    `json:"balanceCents"`
	Income         string                   `json:"income"`
	Expense        string                   `json:"expense"`
	Pending        string                   `json:"pending"`
	Balance        string                   `json:"balance"`
	ActiveStudents int                      `json:"activeStudents"`
	ByCategory     []categoryAmountResponse `json:"byCategory"`
	MonthlyFlows   []monthFlowResponse      `json:"monthlyFlows"`
}

type tuitionGenerateRequest struct {
	Reference string `json:"reference,omitempty"`
}

type tuitionGenerateResponse struct {
	Generated int    `json:"generated"`
	Reference string `json:"reference"`
}

type reportResponse struct {
	Report string `json:"report"`
}

type errorResponse struct {
	Error string `json:"error"`
}
