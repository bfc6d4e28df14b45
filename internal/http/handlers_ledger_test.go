package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"escolar/internal/report"
)

func TestGenerateTuition(t *testing.T) {
	srv := newTestServer(t, true)

	rec := postJSON(srv, "/api/tuition/generate", `{"reference": "2023-11-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp tuitionGenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// two active students in the seed roster
	if resp.Generated != 2 {
		t.Errorf("Generated = %d, want 2", resp.Generated)
	}
	if resp.Reference != "2023-11-01" {
		t.Errorf("Reference = %q, want 2023-11-01", resp.Reference)
	}

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/transactions?start=2023-11-01&end=2023-11-30", nil))
	var list []transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d generated charges, want 2", len(list))
	}
	for _, tx := range list {
		if tx.Category != "Mensalidade" || tx.Type != "Receita" {
			t.Errorf("charge %s: type=%q category=%q", tx.ID, tx.Type, tx.Category)
		}
		if tx.Paid {
			t.Errorf("charge %s should start pending", tx.ID)
		}
		if tx.DueDate != "2023-11-11" {
			t.Errorf("charge %s due date = %q, want 2023-11-11", tx.ID, tx.DueDate)
		}
	}
}

func TestGenerateTuitionRejectsBadReference(t *testing.T) {
	srv := newTestServer(t, true)

	rec := postJSON(srv, "/api/tuition/generate", `{"reference": "11/2023"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestGenerateReportNotConfigured(t *testing.T) {
	srv := newTestServer(t, true)

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/reports", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp reportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Report != report.NotConfiguredMessage {
		t.Errorf("Report = %q, want the not-configured message", resp.Report)
	}
}
