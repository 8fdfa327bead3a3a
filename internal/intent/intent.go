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

// Package intent classifies model replies into a closed set of intents.
// A ParsedIntent is produced exactly once per model reply and never mutated.
package intent

// Kind identifies the classified purpose of one parsed model reply.
type Kind string

const (
	// KindConversation is a plain conversational reply.
	KindConversation Kind = "conversation"
	// KindDataQuery carries a model-authored SQL statement.
	KindDataQuery Kind = "data_query"
	// KindLoanEligibility requests a loan eligibility check.
	KindLoanEligibility Kind = "loan_eligibility"
	// KindCreateEmployee requests creation of an employee record.
	KindCreateEmployee Kind = "create_employee"
	// KindPromoteEmployee requests a grade or salary change.
	KindPromoteEmployee Kind = "promote_employee"
	// KindGenerateCertificate requests a salary certificate lookup.
	KindGenerateCertificate Kind = "generate_certificate"
	// KindUnknown is the catch-all for intents outside the closed set.
	KindUnknown Kind = "unknown"
)

// CreateEmployeeParams holds the named parameters of a create_employee intent.
type CreateEmployeeParams struct {
	FullName   string
	Email      string
	Grade      string
	Salary     float64
	Department string
}

// PromoteEmployeeParams holds the named parameters of a promote_employee intent.
type PromoteEmployeeParams struct {
	EmployeeName string
	NewGrade     string
	NewSalary    float64
}

// ParsedIntent is the discriminated result of parsing one model reply.
// Only the fields relevant to Kind are populated.
type ParsedIntent struct {
	Kind Kind

	// Response carries the conversational reply text (KindConversation).
	Response string

	// SQL and Explanation carry the generated statement (KindDataQuery).
	SQL         string
	Explanation string

	// LoanType hints which loan product to evaluate (KindLoanEligibility).
	// Empty means evaluate all products.
	LoanType string

	// Create and Promote carry action parameters.
	Create  CreateEmployeeParams
	Promote PromoteEmployeeParams

	// EmployeeName names the certificate subject (KindGenerateCertificate).
	EmployeeName string
}
