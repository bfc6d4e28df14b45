package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-10-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2023-10-01" {
		t.Fatalf("round trip got %q", d.String())
	}

	empty, err := ParseDate("")
	if err != nil {
		t.Fatalf("empty string should parse to zero date, got %v", err)
	}
	if !empty.IsEmpty() {
		t.Fatalf("expected empty date")
	}

	for _, bad := range []string{"01/10/2023", "2023-13-01", "not-a-date"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2023, 10, 1).AddDays(10)
	if d.String() != "2023-10-11" {
		t.Fatalf("expected 2023-10-11, got %s", d)
	}
	// month rollover
	d = NewDate(2024, 2, 28).AddDays(2)
	if d.String() != "2024-03-01" {
		t.Fatalf("leap year rollover got %s", d)
	}
}

func TestEnumValidity(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Fatal("known types must be valid")
	}
	if TransactionType("Transfer").Valid() {
		t.Fatal("unknown type must be invalid")
	}
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("category %s must be valid", c)
		}
	}
	if TransactionCategory("Impostos").Valid() {
		t.Fatal("unknown category must be invalid")
	}
	for _, s := range []StudentStatus{Active, Inactive, Graduated} {
		if !s.Valid() {
			t.Fatalf("status %s must be valid", s)
		}
	}
	if StudentStatus("Trancado").Valid() {
		t.Fatal("unknown status must be invalid")
	}
}

func TestStudentValidate(t *testing.T) {
	good := Student{
		Name:           "João Silva",
		TaxID:          "123.456.789-00",
		TuitionValue:   Money{Cents: 120000},
		EnrollmentDate: NewDate(2023, 1, 15),
		Status:         Active,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Student)
		want error
	}{
		{"empty name", func(s *Student) { s.Name = "  " }, ErrEmptyName},
		{"negative tuition", func(s *Student) { s.TuitionValue = Money{Cents: -1} }, ErrInvalidAmount},
		{"missing enrollment", func(s *Student) { s.EnrollmentDate = Date{} }, ErrInvalidDate},
		{"bad status", func(s *Student) { s.Status = "Trancado" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		s := good
		tc.mut(&s)
		if err := s.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// zero tuition is legal
	s := good
	s.TuitionValue = Money{}
	if err := s.Validate(); err != nil {
		t.Fatalf("zero tuition should validate, got %v", err)
	}
}

func TestStudentMatches(t *testing.T) {
	s := Student{Name: "Maria Souza", TaxID: "321.654.987-00"}
	cases := []struct {
		term string
		want bool
	}{
		{"", true},
		{"maria", true},
		{"SOUZA", true},
		{"321.654", true},
		{"pedro", false},
		{"000.111", false},
	}
	for _, tc := range cases {
		if got := s.Matches(tc.term); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "Mensalidade - João Silva",
		Amount:      Money{Cents: 120000},
		Type:        Income,
		Category:    Tuition,
		IssueDate:   NewDate(2023, 10, 1),
		DueDate:     NewDate(2023, 10, 11),
		StudentID:   "1",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"empty description", func(x *Transaction) { x.Description = "" }, ErrEmptyDescription},
		{"negative amount", func(x *Transaction) { x.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"bad type", func(x *Transaction) { x.Type = "Transfer" }, ErrInvalidType},
		{"bad category", func(x *Transaction) { x.Category = "Impostos" }, ErrInvalidCategory},
		{"missing issue date", func(x *Transaction) { x.IssueDate = Date{} }, ErrInvalidDate},
		{"missing due date", func(x *Transaction) { x.DueDate = Date{} }, ErrInvalidDate},
		{"paid without payment date", func(x *Transaction) { x.Paid = true }, ErrPaymentDateMissing},
		{"unpaid with payment date", func(x *Transaction) { x.PaymentDate = NewDate(2023, 10, 5) }, ErrPaymentDateSet},
	}
	for _, tc := range cases {
		x := good
		tc.mut(&x)
		if err := x.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// the paid invariant holds in the settled direction too
	x := good
	x.Paid = true
	x.PaymentDate = NewDate(2023, 10, 5)
	if err := x.Validate(); err != nil {
		t.Fatalf("settled transaction should validate, got %v", err)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2023, 11, 3)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2023-11-03"` {
		t.Fatalf("marshal got %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %s", back)
	}

	var empty Date
	if err := empty.UnmarshalJSON([]byte(`""`)); err != nil {
		t.Fatalf("empty unmarshal: %v", err)
	}
	if !empty.IsEmpty() {
		t.Fatal("expected empty date")
	}
	if err := empty.UnmarshalJSON([]byte(`null`)); err != nil {
		t.Fatalf("null unmarshal: %v", err)
	}
}
