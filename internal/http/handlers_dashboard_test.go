package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func getDashboard(t *testing.T, srv *Server, query string) dashboardResponse {
	t.Helper()
	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/dashboard"+query, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestDashboardHeadlineFigures(t *testing.T) {
	srv := newTestServer(t, true)

	resp := getDashboard(t, srv, "")

	if resp.IncomeCents != 120000 {
		t.Errorf("IncomeCents = %d, want 120000", resp.IncomeCents)
	}
	if resp.ExpenseCents != 895000 {
		t.Errorf("ExpenseCents = %d, want 895000", resp.ExpenseCents)
	}
	if resp.PendingCents != 110000 {
		t.Errorf("PendingCents = %d, want 110000", resp.PendingCents)
	}
	if resp.BalanceCents != -775000 {
		t.Errorf("BalanceCents = %d, want -775000", resp.BalanceCents)
	}
	if resp.ActiveStudents != 2 {
		t.Errorf("ActiveStudents = %d, want 2", resp.ActiveStudents)
	}
	if len(resp.MonthlyFlows) != flowMonths {
		t.Errorf("MonthlyFlows length = %d, want %d", len(resp.MonthlyFlows), flowMonths)
	}
}

func TestDashboardCategoryBreakdown(t *testing.T) {
	srv := newTestServer(t, true)

	resp := getDashboard(t, srv, "")

	want := []categoryAmountResponse{
		{Category: "Mensalidade", AmountCents: 120000},
		{Category: "Salário", AmountCents: 850000},
		{Category: "Materiais", AmountCents: 45000},
	}
	if len(resp.ByCategory) != len(want) {
		t.Fatalf("ByCategory length = %d, want %d (%+v)", len(resp.ByCategory), len(want), resp.ByCategory)
	}
	for i, w := range want {
		got := resp.ByCategory[i]
		if got.Category != w.Category || got.AmountCents != w.AmountCents {
			t.Errorf("ByCategory[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestDashboardTypeFilter(t *testing.T) {
	srv := newTestServer(t, true)

	resp := getDashboard(t, srv, "?type=Receita")

	if resp.IncomeCents != 120000 {
		t.Errorf("IncomeCents = %d, want 120000", resp.IncomeCents)
	}
	if resp.ExpenseCents != 0 {
		t.Errorf("ExpenseCents = %d, want 0 under income filter", resp.ExpenseCents)
	}
}

func TestDashboardCacheInvalidatedOnMutation(t *testing.T) {
	srv := newTestServer(t, true)

	before := getDashboard(t, srv, "")

	rec := postJSON(srv, "/api/transactions", `{
		"description": "Doação recebida",
		"amount": "500,00",
		"type": "Receita",
		"category": "Outros",
		"issueDate": "2023-10-14",
		"dueDate": "2023-10-14",
		"paymentDate": "2023-10-14",
		"paid": true
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	after := getDashboard(t, srv, "")
	if after.IncomeCents != before.IncomeCents+50000 {
		t.Errorf("IncomeCents after mutation = %d, want %d", after.IncomeCents, before.IncomeCents+50000)
	}
}
