package store

import (
	"context"
	"fmt"

	"escolar/internal/core"
)

// SeedStudents is the development roster used by the memory backend.
func SeedStudents() []core.Student {
	return []core.Student{
		{ID: "1", Name: "João Silva", TaxID: "123.456.789-00", Email: "joao@email.com", Phone: "11999999999", Grade: "5º Ano A", TuitionValue: core.Money{Cents: 120000}, EnrollmentDate: core.NewDate(2023, 1, 15), Status: core.Active},
		{ID: "2", Name: "Maria Souza", TaxID: "321.654.987-00", Email: "maria@email.com", Phone: "11888888888", Grade: "3º Ano B", TuitionValue: core.Money{Cents: 110000}, EnrollmentDate: core.NewDate(2023, 2, 10), Status: core.Active},
		{ID: "3", Name: "Pedro Santos", TaxID: "000.111.222-33", Email: "pedro@email.com", Phone: "11777777777", Grade: "9º Ano C", TuitionValue: core.Money{Cents: 140000}, EnrollmentDate: core.NewDate(2023, 1, 20), Status: core.Inactive},
	}
}

// SeedTransactions is the development ledger used by the memory backend.
func SeedTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "101", Description: "Mensalidade - João Silva", Amount: core.Money{Cents: 120000}, Type: core.Income, Category: core.Tuition, IssueDate: core.NewDate(2023, 10, 1), DueDate: core.NewDate(2023, 10, 5), PaymentDate: core.NewDate(2023, 10, 5), StudentID: "1", Paid: true},
		{ID: "102", Description: "Salário Professores", Amount: core.Money{Cents: 850000}, Type: core.Expense, Category: core.Salary, IssueDate: core.NewDate(2023, 10, 1), DueDate: core.NewDate(2023, 10, 5), PaymentDate: core.NewDate(2023, 10, 5), Paid: true},
		{ID: "103", Description: "Material de Limpeza", Amount: core.Money{Cents: 45000}, Type: core.Expense, Category: core.Supplies, IssueDate: core.NewDate(2023, 10, 10), DueDate: core.NewDate(2023, 10, 10), PaymentDate: core.NewDate(2023, 10, 10), Paid: true},
		{ID: "104", Description: "Mensalidade - Maria Souza", Amount: core.Money{Cents: 110000}, Type: core.Income, Category: core.Tuition, IssueDate: core.NewDate(2023, 10, 1), DueDate: core.NewDate(2023, 10, 10), StudentID: "2", Paid: false},
	}
}

// Seed loads the development dataset into an empty store.
func Seed(ctx context.Context, s Store) error {
	for _, st := range SeedStudents() {
		if _, err := s.CreateStudent(ctx, st); err != nil {
			return fmt.Errorf("seed student %s: %w", st.ID, err)
		}
	}
	for _, tx := range SeedTransactions() {
		if _, err := s.CreateTransaction(ctx, tx); err != nil {
			return fmt.Errorf("seed transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}
