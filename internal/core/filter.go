package core

import "sort"

// TransactionFilter selects a subset of the ledger for browsing. The zero
// value matches everything. Date bounds are inclusive and compare against
// the issue date; a zero bound is unbounded on that side.
type TransactionFilter struct {
	Type  TransactionType // empty = all
	Start Date
	End   Date
}

// Match reports whether a transaction passes the filter.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.Start.IsZero() && t.IssueDate.String() < f.Start.String() {
		return false
	}
	if !f.End.IsZero() && t.IssueDate.String() > f.End.String() {
		return false
	}
	return true
}

// FilterTransactions returns the matching subset sorted by issue date
// descending. Ties break by ID descending so the order is reproducible.
func FilterTransactions(txs []Transaction, f TransactionFilter) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].IssueDate.String(), out[j].IssueDate.String()
		if di != dj {
			return di > dj
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// DateRange is a pair of inclusive date bounds for the quick filters.
type DateRange struct {
	Start Date
	End   Date
}

// ThisMonth spans the first through the last day of the reference month.
func ThisMonth(ref Date) DateRange {
	y, m := ref.Year(), int(ref.Month())
	return DateRange{
		Start: NewDate(y, m, 1),
		End:   NewDate(y, m+1, 0), // day 0 of next month = last day of this one
	}
}

// LastMonth spans the previous calendar month. Month length and leap years
// fall out of the day-0 arithmetic.
func LastMonth(ref Date) DateRange {
	y, m := ref.Year(), int(ref.Month())
	return DateRange{
		Start: NewDate(y, m-1, 1),
		End:   NewDate(y, m, 0),
	}
}

// ThisYear spans January 1 through December 31 of the reference year.
func ThisYear(ref Date) DateRange {
	return DateRange{
		Start: NewDate(ref.Year(), 1, 1),
		End:   NewDate(ref.Year(), 12, 31),
	}
}
