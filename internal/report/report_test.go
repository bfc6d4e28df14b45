package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"

	"escolar/internal/core"
)

func TestGenerateNotConfigured(t *testing.T) {
	g := NewGenerator("", "", time.Second)
	if g.Configured() {
		t.Fatal("empty key must not count as configured")
	}
	_, err := g.Generate(context.Background(), nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	g := NewGenerator("key", "", 0)
	if g.model != defaultModel {
		t.Fatalf("expected default model, got %s", g.model)
	}
	if g.timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", g.timeout)
	}
}

func TestBuildPrompt(t *testing.T) {
	txs := []core.Transaction{
		{Description: "Mensalidade - João Silva", Amount: core.Money{Cents: 120000}, Type: core.Income},
		{Description: "Salário Professores", Amount: core.Money{Cents: 850000}, Type: core.Expense},
		{Description: "Material de Limpeza", Amount: core.Money{Cents: 45000}, Type: core.Expense},
	}
	prompt := BuildPrompt(txs)

	for _, want := range []string{
		"Total Receitas: R$ 1200,00",
		"Total Despesas: R$ 8950,00",
		"Saldo: -R$ 7750,00",
		"Total de Transações: 3",
		"consultor financeiro escolar",
		"formatação Markdown",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	// largest expense listed first
	salary := strings.Index(prompt, "Salário Professores")
	cleaning := strings.Index(prompt, "Material de Limpeza")
	if salary == -1 || cleaning == -1 || salary > cleaning {
		t.Fatalf("top expenses out of order:\n%s", prompt)
	}
}

func TestBuildPromptTruncatesTopExpenses(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 8; i++ {
		txs = append(txs, core.Transaction{
			Description: "Despesa",
			Amount:      core.Money{Cents: int64(100 * (i + 1))},
			Type:        core.Expense,
		})
	}
	prompt := BuildPrompt(txs)
	if got := strings.Count(prompt, "Despesa:"); got != 5 {
		t.Fatalf("expected 5 top expenses, got %d:\n%s", got, prompt)
	}
}

func TestFirstText(t *testing.T) {
	if got := firstText(nil); got != "" {
		t.Fatalf("nil response must yield empty text, got %q", got)
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text(""),
				genai.Text("## Análise"),
			}}},
		},
	}
	if got := firstText(resp); got != "## Análise" {
		t.Fatalf("expected first non-empty part, got %q", got)
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	inner := errors.New("quota exceeded")
	var err error = &ServiceError{Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("ServiceError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error text: %s", err)
	}
}
