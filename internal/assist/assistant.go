// Package assist wraps the Gemini API into a financial chat assistant that
// grounds every conversation in the user's recent spending data.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "trove/internal/errors"
	"trove/internal/logger"
	"trove/internal/services"
)

const (
	historyLimit   = 10
	requestTimeout = 30 * time.Second
)

// Message is one prior turn of the conversation, as sent by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// featurePrompts selects the assistant's persona. Unknown features fall back
// to general.
var featurePrompts = map[string]string{
	"general": "You are a helpful financial assistant. Provide clear, actionable advice about spending, budgeting, and financial goals. Keep responses concise and practical.",
	"budget":  "You are a budget planning specialist. Help users create, review, and optimize their budget plans. Focus on practical recommendations based on their spending patterns. Provide specific dollar amounts and actionable steps.",
	"analytics": `You are an advanced financial data analyst with expertise in spending pattern analysis and statistical insights.

Your capabilities:
- Analyze transaction data to identify trends, patterns, and anomalies
- Calculate key metrics: averages, percentages, growth rates, and variances
- Identify spending spikes, unusual transactions, and category shifts
- Perform comparative analysis across time periods and categories
- Provide data-driven recommendations with specific numbers

When analyzing data:
1. Start with summary statistics and key findings
2. Calculate relevant percentages and ratios
3. Identify trends over time (increasing/decreasing patterns)
4. Highlight outliers and unusual patterns
5. Compare against typical spending behavior
6. Provide actionable insights based on the numbers

Use tables, bullet points, and clear numerical comparisons. Always show your calculations and reasoning.`,
	"goals": "You are a financial goal tracking expert. Help users track their progress toward financial goals, identify obstacles, and suggest strategies to stay on track. Be encouraging and specific about next steps.",
}

// Assistant answers chat requests with the configured Gemini model. A nil
// client means the API key was not configured; every call then degrades to
// ErrAnalysisUnavailable instead of failing at startup.
type Assistant struct {
	client *genai.Client
	model  string
	txs    services.TransactionServicer
	goals  services.GoalServicer
	cards  services.CardServicer
}

func New(client *genai.Client, model string, txs services.TransactionServicer, goals services.GoalServicer, cards services.CardServicer) *Assistant {
	return &Assistant{client: client, model: model, txs: txs, goals: goals, cards: cards}
}

// Chat sends the user's message, the trailing conversation history, and a
// freshly built financial context to the model and returns its reply.
func (a *Assistant) Chat(ctx context.Context, userID uint, message, feature string, history []Message) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.ErrEmptyMessage
	}
	if a.client == nil {
		return "", apperrors.ErrAnalysisUnavailable
	}

	systemPrompt, ok := featurePrompts[feature]
	if !ok {
		systemPrompt = featurePrompts["general"]
	}

	finContext, err := a.financialContext(userID, feature)
	if err != nil {
		return "", err
	}

	contents := make([]*genai.Content, 0, historyLimit+1)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		switch msg.Role {
		case "user":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}
	contents = append(contents, genai.NewContentFromText(finContext+"\n\nUser Question: "+message, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.Models.GenerateContent(callCtx, a.model, contents, config)
	if err != nil {
		logger.Get().Errorw("Assistant generation failed", "user_id", userID, "feature", feature, "error", err)
		return "", apperrors.Wrap(apperrors.ErrAnalysisUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", apperrors.ErrAnalysisUnavailable
	}

	return cleanResponse(text), nil
}

// AnalyzeSpending asks the model for a short written analysis of the last 30
// days. When the model is unreachable the plain-text digest is returned
// instead, so the dashboard still shows something useful.
func (a *Assistant) AnalyzeSpending(ctx context.Context, userID uint) (string, error) {
	summary, err := a.txs.SummaryText(userID)
	if err != nil {
		return "", err
	}
	if a.client == nil {
		return summary, nil
	}

	prompt := summary + "\n\nIn two or three sentences, point out the most notable spending pattern above and one practical way to reduce it."

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := a.client.Models.GenerateContent(callCtx, a.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		logger.Get().Warnw("Spending analysis fell back to digest", "user_id", userID, "error", err)
		return summary, nil
	}

	if text := strings.TrimSpace(resp.Text()); text != "" {
		return cleanResponse(text), nil
	}
	return summary, nil
}

// financialContext renders the data block that precedes the user's question.
// The analytics feature gets a richer block with merchant detail and a
// previous-period comparison.
func (a *Assistant) financialContext(userID uint, feature string) (string, error) {
	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")

	stats, err := a.txs.WindowStats(cutoff, "")
	if err != nil {
		return "", err
	}

	var b strings.Builder

	if feature == "analytics" {
		b.WriteString("FINANCIAL DATA ANALYSIS (Last 30 Days)\n\n=== SUMMARY STATISTICS ===\n")
		fmt.Fprintf(&b, "- Total Transactions: %d\n", stats.TxCount)
		fmt.Fprintf(&b, "- Total Spending: $%.2f\n", stats.TotalSpending)
		fmt.Fprintf(&b, "- Average Transaction: $%.2f\n", stats.AvgAmount)
		fmt.Fprintf(&b, "- Daily Average: $%.2f\n", stats.TotalSpending/30)

		prevCutoff := time.Now().AddDate(0, 0, -60).Format("2006-01-02")
		prev, err := a.txs.WindowStats(prevCutoff, cutoff)
		if err != nil {
			return "", err
		}
		if prev.TotalSpending > 0 {
			changePct := (stats.TotalSpending - prev.TotalSpending) / prev.TotalSpending * 100
			fmt.Fprintf(&b, "- vs. Previous 30 Days: %+.1f%% ($%+.2f)\n",
				changePct, stats.TotalSpending-prev.TotalSpending)
		}

		labels, series, err := a.txs.DailyTotals(7)
		if err != nil {
			return "", err
		}
		if len(series) > 0 {
			b.WriteString("\n=== WEEKLY SPEND TREND ===\n")
			for i := range series {
				fmt.Fprintf(&b, "- %s: $%.2f\n", labels[i], series[i])
			}
		}

		categories, err := a.txs.TopCategories(cutoff, 0)
		if err != nil {
			return "", err
		}
		if len(categories) > 0 {
			b.WriteString("\n=== SPENDING BY CATEGORY ===\n")
			for _, c := range categories {
				pct := 0.0
				if stats.TotalSpending > 0 {
					pct = c.Total / stats.TotalSpending * 100
				}
				fmt.Fprintf(&b, "- %s: $%.2f (%.1f%%) - %d transactions\n", c.Name, c.Total, pct, c.Count)
			}
		}

		merchants, err := a.txs.TopMerchants(cutoff, 5)
		if err != nil {
			return "", err
		}
		if len(merchants) > 0 {
			b.WriteString("\n=== TOP MERCHANTS ===\n")
			for _, m := range merchants {
				fmt.Fprintf(&b, "- %s: $%.2f total - %d transactions\n", m.Name, m.Total, m.Count)
			}
		}
	} else {
		b.WriteString("USER'S FINANCIAL DATA (Last 30 days):\n")
		fmt.Fprintf(&b, "- Transactions: %d transactions\n", stats.TxCount)
		fmt.Fprintf(&b, "- Total Spending: $%.2f\n", stats.TotalSpending)
		fmt.Fprintf(&b, "- Average Transaction: $%.2f\n", stats.AvgAmount)

		categories, err := a.txs.TopCategories(cutoff, 5)
		if err != nil {
			return "", err
		}
		if len(categories) > 0 {
			b.WriteString("\nTop Spending Categories:\n")
			for _, c := range categories {
				fmt.Fprintf(&b, "  - %s: $%.2f\n", c.Name, c.Total)
			}
		}
	}

	goals, err := a.goals.GetUserGoals(userID)
	if err != nil {
		return "", err
	}
	if len(goals) > 0 {
		b.WriteString("\nACTIVE GOALS:\n")
		for _, g := range goals {
			status := "On track"
			switch {
			case g.Percent > 100:
				status = "Over budget"
			case g.Percent >= 75:
				status = "Near limit"
			}
			fmt.Fprintf(&b, "  - %s: $%.2f / $%.2f (%.0f%%) %s\n",
				g.Category, g.EffectiveSpend, g.LimitAmount, g.Percent, status)
		}
	}

	wallet, err := a.cards.WalletSummary(userID)
	if err != nil {
		return "", err
	}
	if len(wallet.Cards) > 0 {
		fmt.Fprintf(&b, "\nCREDIT CARDS: %d cards in wallet\n", len(wallet.Cards))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// cleanResponse strips Markdown code fences the model sometimes wraps
// answers in despite instructions.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
