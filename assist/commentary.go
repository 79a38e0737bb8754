package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/renderer"
	"google.golang.org/genai"
)

// CommentaryPrompt is the prompt asking for a commentary of a report.
func CommentaryPrompt(report *tradebook.Report) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Below is the reconciliation report of a trading business.")
	fmt.Fprintln(&b, "Write a short commentary for its owner: the products running low, the oversold products,")
	fmt.Fprintln(&b, "the best and worst margins, and the accounts with the largest balances.")
	fmt.Fprintln(&b, "Quote figures as they appear in the report. Answer in markdown.")
	fmt.Fprintln(&b)
	b.WriteString(renderer.ReportMarkdown(report))
	return b.String()
}

// Commentary asks Gemini for a one-shot commentary of report.
func Commentary(ctx context.Context, client *genai.Client, report *tradebook.Report) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(CommentaryPrompt(report)), nil)
	if err != nil {
		return "", fmt.Errorf("generating commentary: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no commentary generated")
	}
	return text, nil
}
