// Package report generates the narrative financial analysis through the
// Generative Language API. The call reads an immutable snapshot of the
// ledger and has no way to mutate it; a concurrent edit is simply not
// reflected in that report.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"escolar/internal/core"
)

// ErrNotConfigured reports a missing API credential. No network call is
// attempted in that case.
var ErrNotConfigured = errors.New("report service not configured")

// ServiceError wraps a transport, auth, quota or timeout failure from the
// report service.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string { return "report service: " + e.Err.Error() }
func (e *ServiceError) Unwrap() error { return e.Err }

// User-facing fallback strings, surfaced by the caller.
const (
	NotConfiguredMessage = "API Key não configurada. Não é possível gerar relatórios inteligentes."
	UnavailableMessage   = "Erro ao comunicar com o serviço de IA. Verifique sua conexão ou chave de API."
	EmptyResultMessage   = "Não foi possível gerar a análise no momento."
)

const defaultModel = "models/gemini-2.5-flash"

type Generator struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// NewGenerator builds a report generator. An empty model falls back to the
// default; the timeout bounds each Generate call.
func NewGenerator(apiKey, model string, timeout time.Duration) *Generator {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{apiKey: apiKey, model: model, timeout: timeout}
}

// Configured reports whether an API credential is present.
func (g *Generator) Configured() bool {
	return g.apiKey != ""
}

// Generate produces a Markdown analysis of the transaction snapshot.
// Returns ErrNotConfigured without calling out when no credential is set;
// any other failure, including timeout, comes back as a ServiceError.
func (g *Generator) Generate(ctx context.Context, txs []core.Transaction) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", &ServiceError{Err: fmt.Errorf("init client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(txs)))
	if err != nil {
		return "", &ServiceError{Err: err}
	}

	text := firstText(resp)
	if text == "" {
		return EmptyResultMessage, nil
	}
	return text, nil
}

// BuildPrompt condenses the snapshot into a compact summary so the model
// sees totals and the five largest expenses instead of every row.
func BuildPrompt(txs []core.Transaction) string {
	var totalIncome, totalExpense core.Money
	var expenses []core.Transaction
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			totalIncome = totalIncome.Add(t.Amount)
		case core.Expense:
			totalExpense = totalExpense.Add(t.Amount)
			expenses = append(expenses, t)
		}
	}

	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Amount.Cents > expenses[j].Amount.Cents
	})
	if len(expenses) > 5 {
		expenses = expenses[:5]
	}
	top := make([]string, 0, len(expenses))
	for _, t := range expenses {
		top = append(top, fmt.Sprintf("%s: %s", t.Description, t.Amount.BRL()))
	}

	var b strings.Builder
	b.WriteString("Atue como um consultor financeiro escolar experiente.\n")
	b.WriteString("Analise os seguintes dados financeiros resumidos de uma escola:\n")
	fmt.Fprintf(&b, "Total Receitas: %s\n", totalIncome.BRL())
	fmt.Fprintf(&b, "Total Despesas: %s\n", totalExpense.BRL())
	fmt.Fprintf(&b, "Saldo: %s\n", totalIncome.Sub(totalExpense).BRL())
	fmt.Fprintf(&b, "Top 5 Despesas: %s\n", strings.Join(top, ", "))
	fmt.Fprintf(&b, "Total de Transações: %d\n", len(txs))
	b.WriteString("\nPor favor, forneça:\n")
	b.WriteString("1. Uma análise breve da saúde financeira.\n")
	b.WriteString("2. Identificação de possíveis pontos de atenção (ex: despesas altas).\n")
	b.WriteString("3. 3 sugestões estratégicas para melhorar o fluxo de caixa.\n")
	b.WriteString("\nUse formatação Markdown. Seja direto e profissional.\n")
	return b.String()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok && t != "" {
				return string(t)
			}
		}
	}
	return ""
}
