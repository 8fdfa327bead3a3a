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

// Package sqlguard gates model-authored SQL before it can reach the store.
// The validator is a deliberate defense-in-depth textual check, not a parser:
// it trades precision for simplicity and only admits a single read-only
// SELECT. The rewriter then scopes the admitted statement to the caller.
package sqlguard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shyamddesai/HRChatBot/internal/identity"
)

// forbiddenKeywords are rejected anywhere in the statement as whole words.
// Order matters only for which keyword gets named in the verdict.
var forbiddenKeywords = []string{
	"DELETE", "DROP", "TRUNCATE", "UPDATE", "INSERT",
	"ALTER", "CREATE", "GRANT", "REVOKE",
}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(forbiddenKeywords))
	for _, kw := range forbiddenKeywords {
		patterns[kw] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return patterns
}

// Verdict is the outcome of validating one candidate statement. Reason is
// set only on rejection, naming the failed rule.
type Verdict struct {
	Accepted bool
	Reason   string
}

// Validate checks a candidate SQL string against the read-only safety rules.
// Role and caller id are accepted for interface symmetry with the rewriter;
// the gate itself is role-independent. Checks short-circuit at the first
// failure, in this order: forbidden keyword, SELECT prefix, comment
// sequences, statement stacking.
func Validate(sqlText string, _ identity.Role, _ string) Verdict {
	body := strings.TrimSpace(sqlText)
	body = strings.TrimSuffix(body, ";")
	body = strings.TrimSpace(body)

	if body == "" {
		return Verdict{Accepted: false, Reason: "empty statement"}
	}

	upper := strings.ToUpper(body)

	for _, kw := range forbiddenKeywords {
		if keywordPatterns[kw].MatchString(upper) {
			return Verdict{
				Accepted: false,
				Reason:   fmt.Sprintf("statement contains forbidden keyword %s", kw),
			}
		}
	}

	if !strings.HasPrefix(upper, "SELECT") {
		return Verdict{Accepted: false, Reason: "only SELECT statements are allowed"}
	}

	for _, seq := range []string{"--", "/*", "*/"} {
		if strings.Contains(body, seq) {
			return Verdict{
				Accepted: false,
				Reason:   fmt.Sprintf("statement contains comment sequence %q", seq),
			}
		}
	}

	if strings.Contains(body, ";") {
		return Verdict{Accepted: false, Reason: "statement stacking is not allowed"}
	}

	return Verdict{Accepted: true}
}
