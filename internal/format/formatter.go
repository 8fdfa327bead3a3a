// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format turns query results into user-facing prose. Small result
// sets render directly; larger ones go through a second gateway pass with a
// deterministic fallback when that pass fails.
package format

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shyamddesai/HRChatBot/internal/llm"
	"github.com/shyamddesai/HRChatBot/internal/loan"
	"github.com/shyamddesai/HRChatBot/internal/query"
	"go.uber.org/zap"
)

// NoRecordsReply is the fixed reply for empty result sets.
const NoRecordsReply = "I couldn't find any records matching your request."

// Formatter renders query results as natural-language answers.
type Formatter struct {
	gateway    llm.Gateway
	logger     *zap.Logger
	directRows int
	sampleRows int
}

// NewFormatter creates a result formatter. directRows bounds the size of
// result sets rendered without a model call; sampleRows caps the rows sent
// to the summarization pass.
func NewFormatter(gateway llm.Gateway, logger *zap.Logger, directRows, sampleRows int) *Formatter {
	if directRows <= 0 {
		directRows = 5
	}
	if sampleRows <= 0 {
		sampleRows = 15
	}
	return &Formatter{gateway: gateway, logger: logger, directRows: directRows, sampleRows: sampleRows}
}

// Format produces the user-facing answer for a query result. userMessage is
// the question being answered; loanRelated switches the summarization pass
// to loan framing.
func (f *Formatter) Format(ctx context.Context, userMessage string, res query.Result, loanRelated bool) string {
	if len(res.Rows) == 0 {
		return NoRecordsReply
	}

	if len(res.Rows) <= f.directRows && !loanRelated {
		return f.renderDirect(res)
	}

	answer, err := f.summarize(ctx, userMessage, res, loanRelated)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			f.logger.Warn("Summarization pass failed, using fallback", zap.Error(err))
		}
		return f.fallback(res)
	}
	return answer
}

// renderDirect renders each row as a bulleted key: value line, columns in
// query order.
func (f *Formatter) renderDirect(res query.Result) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n")
	for _, row := range res.Rows {
		parts := make([]string, 0, len(res.Columns))
		for _, col := range res.Columns {
			parts = append(parts, fmt.Sprintf("%s: %v", col, row[col]))
		}
		b.WriteString("- " + strings.Join(parts, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const loanRulesFraming = `Loan products and their rules, for context:
- Car loan: grade 10+, salary AED 8,000+, no existing active car loan. Max amount min(5x salary, 100,000), 48 months at 4%/yr.
- Housing loan: grade 12+, salary AED 15,000+, 2+ years tenure, no existing active housing loan. Max amount min(10x salary, 500,000), 120 months at 3%/yr.
- Personal loan: any active employee. Max amount 1x salary, 12 months at 6%/yr.`

func (f *Formatter) summarize(ctx context.Context, userMessage string, res query.Result, loanRelated bool) (string, error) {
	sample := res.Rows
	if len(sample) > f.sampleRows {
		sample = sample[:f.sampleRows]
	}
	payload, err := json.Marshal(sample)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result sample: %w", err)
	}

	var system strings.Builder
	system.WriteString("You are an HR assistant. Answer the user's question in clear, concise prose using ONLY the provided query results. Amounts are monthly AED figures. Do not invent data.")
	if loanRelated {
		system.WriteString("\n\n")
		system.WriteString(loanRulesFraming)
	}
	if len(res.Rows) > len(sample) {
		fmt.Fprintf(&system, "\n\nThe results were truncated: showing %d of %d rows. Mention the total count.",
			len(sample), len(res.Rows))
	}

	return f.gateway.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system.String()},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Question: %s\n\nQuery results (JSON):\n%s", userMessage, payload)},
	})
}

// fallback is the deterministic rendering used when the summarization pass
// fails or returns nothing.
func (f *Formatter) fallback(res query.Result) string {
	if len(res.Rows) == 1 {
		for _, col := range res.Columns {
			if strings.Contains(strings.ToLower(col), "salary") {
				return fmt.Sprintf("Your base salary is AED %v.", res.Rows[0][col])
			}
		}
	}
	if len(res.Rows) == 1 {
		return "I found 1 record matching your request."
	}
	return fmt.Sprintf("I found %d records matching your request.", len(res.Rows))
}

// FormatLoanResult renders a single product eligibility verdict.
func FormatLoanResult(r loan.Result) string {
	var b strings.Builder
	if r.IsEligible {
		fmt.Fprintf(&b, "Good news! You are eligible for a %s loan.\n", strings.ToLower(string(r.LoanType)))
		fmt.Fprintf(&b, "- Maximum amount: AED %.0f\n", r.MaxAmount)
		fmt.Fprintf(&b, "- Suggested tenure: %d months\n", r.SuggestedTenure)
		fmt.Fprintf(&b, "- Estimated monthly deduction: AED %.2f\n", r.MonthlyDeduction)
	} else {
		fmt.Fprintf(&b, "%s\n", r.Reason)
	}
	if len(r.RequirementsMet) > 0 {
		b.WriteString("Requirements met:\n")
		for _, m := range r.RequirementsMet {
			b.WriteString("- " + m + "\n")
		}
	}
	if len(r.RequirementsMissing) > 0 {
		b.WriteString("Requirements not met:\n")
		for _, m := range r.RequirementsMissing {
			b.WriteString("- " + m + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatLoanResults renders the all-products check.
func FormatLoanResults(results []loan.Result) string {
	var b strings.Builder
	b.WriteString("Here is your eligibility across all loan products:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%s loan:\n%s", r.LoanType, FormatLoanResult(r))
		if i < len(results)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
