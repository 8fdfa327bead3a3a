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

// Package loan implements the deterministic loan eligibility rules. The
// engine is a pure function of the employee profile: identical inputs always
// yield identical verdicts and identical computed amounts.
package loan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type identifies a loan product.
type Type string

const (
	// TypeCar requires grade 10+ and salary 8,000+.
	TypeCar Type = "Car"
	// TypeHousing requires grade 12+, salary 15,000+ and two years of tenure.
	TypeHousing Type = "Housing"
	// TypePersonal requires only active employment.
	TypePersonal Type = "Personal"
)

// AllTypes lists every supported loan product.
var AllTypes = []Type{TypeCar, TypeHousing, TypePersonal}

// ParseType normalizes a loan type hint. The boolean reports whether the
// hint named a known product.
func ParseType(hint string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "car":
		return TypeCar, true
	case "housing", "house", "home":
		return TypeHousing, true
	case "personal":
		return TypePersonal, true
	default:
		return "", false
	}
}

// Profile captures the inputs the rules evaluate against. HasActiveLoan
// refers to an active loan of the same type being evaluated.
type Profile struct {
	GradeNumber   int
	BaseSalary    float64
	TenureYears   float64
	HasActiveLoan bool
	Status        string
}

// Result records the eligibility verdict for one loan product. The
// requirement lists are populated regardless of the overall verdict so the
// user always sees which constraints passed and which failed.
type Result struct {
	LoanType            Type     `json:"loanType"`
	IsEligible          bool     `json:"isEligible"`
	Reason              string   `json:"reason"`
	MaxAmount           float64  `json:"maxAmount,omitempty"`
	SuggestedTenure     int      `json:"suggestedTenureMonths,omitempty"`
	MonthlyDeduction    float64  `json:"suggestedMonthlyDeduction,omitempty"`
	RequirementsMet     []string `json:"requirementsMet"`
	RequirementsMissing []string `json:"requirementsMissing"`
}

// Evaluate applies the rules for one loan product.
func Evaluate(loanType Type, p Profile) Result {
	switch loanType {
	case TypeCar:
		return evaluateCar(p)
	case TypeHousing:
		return evaluateHousing(p)
	case TypePersonal:
		return evaluatePersonal(p)
	default:
		return Result{
			LoanType:   loanType,
			IsEligible: false,
			Reason:     fmt.Sprintf("Unknown loan type: %s. Supported: Car, Housing, Personal", loanType),
		}
	}
}

// EvaluateAll applies the rules for every product against the same profile.
// The caller supplies a per-type active-loan lookup since the flag differs
// per product.
func EvaluateAll(p Profile, hasActiveLoan func(Type) bool) []Result {
	results := make([]Result, 0, len(AllTypes))
	for _, t := range AllTypes {
		typed := p
		if hasActiveLoan != nil {
			typed.HasActiveLoan = hasActiveLoan(t)
		}
		results = append(results, Evaluate(t, typed))
	}
	return results
}

func evaluateCar(p Profile) Result {
	result := Result{LoanType: TypeCar}

	if p.GradeNumber >= 10 {
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("Grade %d meets minimum (Grade 10)", p.GradeNumber))
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing,
			fmt.Sprintf("Grade %d below minimum (Grade 10)", p.GradeNumber))
	}

	if p.BaseSalary >= 8000 {
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("Salary AED %s meets minimum (AED 8,000)", formatAmount(p.BaseSalary)))
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing,
			fmt.Sprintf("Salary AED %s below minimum (AED 8,000)", formatAmount(p.BaseSalary)))
	}

	if !p.HasActiveLoan {
		result.RequirementsMet = append(result.RequirementsMet, "No existing active car loan")
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing, "Already has active car loan")
	}

	result.IsEligible = p.GradeNumber >= 10 && p.BaseSalary >= 8000 && !p.HasActiveLoan

	if result.IsEligible {
		maxAmount := math.Min(p.BaseSalary*5, 100000)
		result.MaxAmount = maxAmount
		result.SuggestedTenure = 48
		result.MonthlyDeduction = EMI(maxAmount, 0.04, 48)
		result.Reason = fmt.Sprintf("Eligible for car loan up to AED %s based on grade and salary",
			formatAmount(maxAmount))
	} else {
		result.Reason = "Not eligible for car loan: " + strings.Join(result.RequirementsMissing, ", ")
	}

	return result
}

func evaluateHousing(p Profile) Result {
	result := Result{LoanType: TypeHousing}

	if p.GradeNumber >= 12 {
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("Grade %d meets minimum (Grade 12)", p.GradeNumber))
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing,
			fmt.Sprintf("Grade %d below minimum (Grade 12)", p.GradeNumber))
	}

	if p.BaseSalary >= 15000 {
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("Salary AED %s meets minimum (AED 15,000)", formatAmount(p.BaseSalary)))
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing,
			fmt.Sprintf("Salary AED %s below minimum (AED 15,000)", formatAmount(p.BaseSalary)))
	}

	if p.TenureYears >= 2 {
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("Tenure %.1f years meets minimum (2 years)", p.TenureYears))
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing,
			fmt.Sprintf("Tenure %.1f years below minimum (2 years)", p.TenureYears))
	}

	if !p.HasActiveLoan {
		result.RequirementsMet = append(result.RequirementsMet, "No existing active housing loan")
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing, "Already has active housing loan")
	}

	result.IsEligible = p.GradeNumber >= 12 && p.BaseSalary >= 15000 &&
		p.TenureYears >= 2 && !p.HasActiveLoan

	if result.IsEligible {
		maxAmount := math.Min(p.BaseSalary*10, 500000)
		result.MaxAmount = maxAmount
		result.SuggestedTenure = 120
		result.MonthlyDeduction = EMI(maxAmount, 0.03, 120)
		result.Reason = fmt.Sprintf("Eligible for housing loan up to AED %s", formatAmount(maxAmount))
	} else {
		result.Reason = "Not eligible for housing loan: " + strings.Join(result.RequirementsMissing, ", ")
	}

	return result
}

func evaluatePersonal(p Profile) Result {
	result := Result{LoanType: TypePersonal}

	if p.Status == "Active" {
		result.RequirementsMet = append(result.RequirementsMet, "Active employee")
	} else {
		result.RequirementsMissing = append(result.RequirementsMissing, "Employee not active")
	}

	result.IsEligible = p.Status == "Active"

	if result.IsEligible {
		maxAmount := p.BaseSalary
		result.MaxAmount = maxAmount
		result.SuggestedTenure = 12
		result.MonthlyDeduction = EMI(maxAmount, 0.06, 12)
		result.Reason = fmt.Sprintf("Eligible for personal loan up to AED %s (1x salary)",
			formatAmount(maxAmount))
	} else {
		result.Reason = "Not eligible for personal loan"
	}

	return result
}

// EMI computes the standard amortizing-loan monthly payment:
// P * r * (1+r)^n / ((1+r)^n - 1), with r the monthly rate and n the term in
// months. The value is user-visible, so it is computed, not approximated.
func EMI(principal, annualRate float64, months int) float64 {
	monthlyRate := annualRate / 12
	factor := math.Pow(1+monthlyRate, float64(months))
	return principal * monthlyRate * factor / (factor - 1)
}

// formatAmount renders an amount with thousands separators and no decimals,
// matching the payroll display convention (AED 8,000).
func formatAmount(amount float64) string {
	s := strconv.FormatFloat(math.Round(amount), 'f', 0, 64)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}
