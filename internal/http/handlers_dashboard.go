package http

import (
	"net/http"

	"escolar/internal/core"
	"escolar/internal/log"
)

// flowMonths is how many months of income/expense history the dashboard
// chart shows.
const flowMonths = 6

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ref := today()

	filter, err := parseTransactionFilter(r, ref)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	key := dashboardCacheKey(filter)
	if cached, found := s.dashboardCache.Get(key); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard cache hit", "key", key)
		respondJSON(w, http.StatusOK, cached)
		return
	}

	txs, err := s.ledger.Store().ListTransactions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	students, err := s.ledger.Store().ListStudents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	scoped := core.FilterTransactions(txs, filter)
	summary := core.Summarize(scoped)

	resp := dashboardResponse{
		IncomeCents:    summary.Income.Cents,
		ExpenseCents:   summary.Expense.Cents,
		PendingCents:   summary.Pending.Cents,
		BalanceCents:   summary.Balance.Cents,
		Income:         summary.Income.BRL(),
		Expense:        summary.Expense.BRL(),
		Pending:        summary.Pending.BRL(),
		Balance:        summary.Balance.BRL(),
		ActiveStudents: core.CountActive(students),
		ByCategory:     make([]categoryAmountResponse, 0),
		MonthlyFlows:   make([]monthFlowResponse, 0, flowMonths),
	}

	for _, ca := range core.BreakdownByCategory(scoped) {
		resp.ByCategory = append(resp.ByCategory, categoryAmountResponse{
			Category:    string(ca.Category),
			AmountCents: ca.Amount.Cents,
			Amount:      ca.Amount.BRL(),
		})
	}

	// The flow series always covers the trailing window, whatever the filter.
	for _, flow := range core.MonthlyFlows(txs, ref, flowMonths) {
		resp.MonthlyFlows = append(resp.MonthlyFlows, monthFlowResponse{
			Month:        core.NewDate(flow.Year, flow.Month, 1).Format("2006-01"),
			IncomeCents:  flow.Income.Cents,
			ExpenseCents: flow.Expense.Cents,
		})
	}

	s.dashboardCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

func dashboardCacheKey(f core.TransactionFilter) string {
	return string(f.Type) + "|" + f.Start.String() + "|" + f.End.String()
}
