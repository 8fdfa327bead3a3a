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

package sqlguard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shyamddesai/HRChatBot/internal/identity"
)

// ScopedStatement is a statement ready for execution, with bind arguments.
type ScopedStatement struct {
	SQL  string
	Args []interface{}
}

var (
	employeeIDWord = regexp.MustCompile(`\bEMPLOYEE_ID\b`)
	idWord         = regexp.MustCompile(`\bID\b`)
	fromTable      = regexp.MustCompile(`\bFROM\s+["'` + "`" + `]?(\w+)`)
)

// Rewrite applies row-level security to a statement that has already passed
// validation. For the HR role it is the identity function. For the Employee
// role the statement is wrapped as a subquery and an outer filter restricts
// the result to rows whose identifying column equals the caller's id. The
// wrap is textual: the inner statement's own WHERE/GROUP BY/ORDER BY clauses
// are untouched. When no identifying column can be named the filter
// degenerates to 1 = 0, returning zero rows rather than an error.
func Rewrite(sqlText string, id identity.Identity) ScopedStatement {
	body := strings.TrimSpace(sqlText)
	body = strings.TrimSpace(strings.TrimSuffix(body, ";"))

	if id.IsHR() {
		return ScopedStatement{SQL: body}
	}

	column := scopeColumn(body)
	if column == "" {
		// Fail closed: the inner projection names no identifying column.
		return ScopedStatement{
			SQL: fmt.Sprintf("SELECT * FROM (%s) AS scoped WHERE 1 = 0", body),
		}
	}

	return ScopedStatement{
		SQL:  fmt.Sprintf("SELECT * FROM (%s) AS scoped WHERE scoped.%s = ?", body, column),
		Args: []interface{}{id.ID},
	}
}

// scopeColumn chooses the identifying column for the outer filter by a
// textual scan of the inner statement's select list (the text before the
// first FROM). Only projected columns count: a column mentioned solely in a
// JOIN or WHERE clause is not exposed by the subquery, so filtering on it
// would be a column-not-found error rather than a scoped result.
// employee_id wins over id; a star projection resolves against the FROM
// target (the employees table scopes by its own id, anything else by the
// employee_id foreign key). An empty result means no column could be named.
func scopeColumn(body string) string {
	upper := strings.ToUpper(body)
	selectList := upper
	if idx := strings.Index(upper, "FROM"); idx >= 0 {
		selectList = upper[:idx]
	}

	if employeeIDWord.MatchString(selectList) {
		return "employee_id"
	}
	if idWord.MatchString(selectList) {
		return "id"
	}

	if strings.Contains(selectList, "*") {
		if m := fromTable.FindStringSubmatch(upper); m != nil {
			if strings.EqualFold(m[1], "employees") {
				return "id"
			}
			return "employee_id"
		}
	}

	return ""
}
