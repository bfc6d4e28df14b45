package core

// Summary holds the dashboard headline figures for a transaction snapshot.
// Income and Expense count settled transactions only; Pending is unpaid
// income. Balance is always Income minus Expense.
type Summary struct {
	Income  Money
	Expense Money
	Pending Money
	Balance Money
}

// CategoryAmount is an amount aggregated under one category.
type CategoryAmount struct {
	Category TransactionCategory
	Amount   Money
}

// MonthFlow is the settled income/expense total for one calendar month.
type MonthFlow struct {
	Year    int
	Month   int // 1-12
	Income  Money
	Expense Money
}

// Summarize computes the headline figures over a snapshot. All figures are
// zero over an empty snapshot.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch {
		case t.Type == Income && t.Paid:
			s.Income = s.Income.Add(t.Amount)
		case t.Type == Expense && t.Paid:
			s.Expense = s.Expense.Add(t.Amount)
		case t.Type == Income && !t.Paid:
			s.Pending = s.Pending.Add(t.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// BreakdownByCategory sums settled transactions per category. Categories
// without settled transactions are omitted rather than zero-filled. Output
// order follows Categories().
func BreakdownByCategory(txs []Transaction) []CategoryAmount {
	totals := make(map[TransactionCategory]int64)
	for _, t := range txs {
		if !t.Paid {
			continue
		}
		totals[t.Category] += t.Amount.Cents
	}
	var out []CategoryAmount
	for _, c := range Categories() {
		if cents, ok := totals[c]; ok {
			out = append(out, CategoryAmount{Category: c, Amount: Money{Cents: cents}})
		}
	}
	return out
}

// MonthlyFlows returns settled income/expense totals for the n calendar
// months ending at the reference date's month, oldest first.
func MonthlyFlows(txs []Transaction, ref Date, n int) []MonthFlow {
	if n <= 0 {
		return nil
	}
	flows := make([]MonthFlow, n)
	index := make(map[string]*MonthFlow, n)
	for i := 0; i < n; i++ {
		m := NewDate(ref.Year(), int(ref.Month()), 1).AddDate(0, i-n+1, 0)
		flows[i] = MonthFlow{Year: m.Year(), Month: int(m.Month())}
		index[m.Format("2006-01")] = &flows[i]
	}
	for _, t := range txs {
		if !t.Paid || t.IssueDate.IsZero() {
			continue
		}
		flow, ok := index[t.IssueDate.Format("2006-01")]
		if !ok {
			continue
		}
		switch t.Type {
		case Income:
			flow.Income = flow.Income.Add(t.Amount)
		case Expense:
			flow.Expense = flow.Expense.Add(t.Amount)
		}
	}
	return flows
}

// CountActive counts students with Active status.
func CountActive(students []Student) int {
	n := 0
	for _, s := range students {
		if s.Status == Active {
			n++
		}
	}
	return n
}
