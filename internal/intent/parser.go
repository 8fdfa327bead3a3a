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

package intent

import (
	"encoding/json"
	"strings"
)

// reply mirrors the JSON shape the system prompt instructs the model to emit.
// All fields are optional; Intent discriminates.
type reply struct {
	Intent       string   `json:"intent"`
	Response     string   `json:"response"`
	SQL          string   `json:"sql"`
	Explanation  string   `json:"explanation"`
	LoanType     string   `json:"loanType"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	Grade        string   `json:"grade"`
	Salary       *float64 `json:"salary"`
	Department   string   `json:"department"`
	NewGrade     string   `json:"newGrade"`
	NewSalary    *float64 `json:"newSalary"`
	EmployeeName string   `json:"employeeName"`
}

// Parse classifies a raw model reply into a ParsedIntent. It is a total
// function: every input string maps to exactly one ParsedIntent. Any parse
// failure, or a missing intent field, degrades to a conversation intent
// echoing the raw text so the caller always has something to show the user.
func Parse(raw string) ParsedIntent {
	body, ok := extractJSON(raw)
	if !ok {
		return conversationFallback(raw)
	}

	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return conversationFallback(raw)
	}

	if strings.TrimSpace(r.Intent) == "" {
		return conversationFallback(raw)
	}

	switch strings.ToLower(strings.TrimSpace(r.Intent)) {
	case "conversation":
		response := r.Response
		if response == "" {
			response = raw
		}
		return ParsedIntent{Kind: KindConversation, Response: response}

	case "data_query", "dataquery", "query":
		return ParsedIntent{
			Kind:        KindDataQuery,
			SQL:         strings.TrimSpace(r.SQL),
			Explanation: r.Explanation,
		}

	case "loan_eligibility", "loaneligibility", "loan_check":
		return ParsedIntent{Kind: KindLoanEligibility, LoanType: strings.TrimSpace(r.LoanType)}

	case "create_employee", "createemployee":
		var salary float64
		if r.Salary != nil {
			salary = *r.Salary
		}
		return ParsedIntent{
			Kind: KindCreateEmployee,
			Create: CreateEmployeeParams{
				FullName:   strings.TrimSpace(r.FullName),
				Email:      strings.TrimSpace(r.Email),
				Grade:      strings.TrimSpace(r.Grade),
				Salary:     salary,
				Department: strings.TrimSpace(r.Department),
			},
		}

	case "promote_employee", "promoteemployee":
		var newSalary float64
		if r.NewSalary != nil {
			newSalary = *r.NewSalary
		}
		return ParsedIntent{
			Kind: KindPromoteEmployee,
			Promote: PromoteEmployeeParams{
				EmployeeName: strings.TrimSpace(r.EmployeeName),
				NewGrade:     strings.TrimSpace(r.NewGrade),
				NewSalary:    newSalary,
			},
		}

	case "generate_certificate", "generatecertificate", "certificate":
		return ParsedIntent{Kind: KindGenerateCertificate, EmployeeName: strings.TrimSpace(r.EmployeeName)}

	default:
		return ParsedIntent{Kind: KindUnknown, Response: raw}
	}
}

// conversationFallback wraps unparseable model output as a conversation
// intent carrying the raw text.
func conversationFallback(raw string) ParsedIntent {
	return ParsedIntent{Kind: KindConversation, Response: strings.TrimSpace(raw)}
}

// extractJSON pulls the first JSON object out of free text. It tries an
// ordered list of strategies: a fenced ```json block first, then the first
// balanced {...} span. The first candidate that is structurally valid JSON
// wins.
func extractJSON(raw string) (string, bool) {
	for _, candidate := range []func(string) (string, bool){extractFenced, extractBraces} {
		if body, ok := candidate(raw); ok {
			if json.Valid([]byte(body)) && strings.HasPrefix(strings.TrimSpace(body), "{") {
				return body, true
			}
		}
	}
	return "", false
}

// extractFenced extracts the contents of a ```json ... ``` fence, tolerating
// a bare ``` fence as well.
func extractFenced(raw string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(raw, marker)
		if start < 0 {
			continue
		}
		rest := raw[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

// extractBraces extracts the first balanced top-level {...} span, tracking
// string literals so braces inside values do not confuse the scan.
func extractBraces(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
