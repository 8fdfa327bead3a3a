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

package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/identity"
	"github.com/shyamddesai/HRChatBot/internal/llm"
)

func TestBuildSystemPrompt_Employee(t *testing.T) {
	caller := identity.Identity{
		ID:          "emp-42",
		Role:        identity.RoleEmployee,
		Email:       "john.doe@example.com",
		DisplayName: "John Doe",
	}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	got := BuildSystemPrompt(caller, now)

	for _, want := range []string{
		"2026-08-31",
		"John Doe",
		"emp-42",
		"grade_number",
		"effective_to IS NULL",
		`"intent": "data_query"`,
		`"intent": "loan_eligibility"`,
		`"intent": "generate_certificate"`,
		"ACCESS RESTRICTIONS",
		"employee id 'emp-42'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected system prompt to contain %q", want)
		}
	}
}

func TestBuildSystemPrompt_HR(t *testing.T) {
	caller := identity.Identity{
		ID:          "hr-1",
		Role:        identity.RoleHR,
		Email:       "sarah@example.com",
		DisplayName: "Sarah Al Mansouri",
	}

	got := BuildSystemPrompt(caller, time.Now())

	if strings.Contains(got, "ACCESS RESTRICTIONS") {
		t.Error("Expected no lockdown clause for HR")
	}
	if !strings.Contains(got, "HR role") {
		t.Error("Expected HR framing")
	}
}

func TestWindow_KeepsMostRecent(t *testing.T) {
	var history []Turn
	for i := 0; i < 25; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, Turn{Role: role, Text: fmt.Sprintf("turn %d", i)})
	}

	got := Window(history, 10)
	if len(got) != 10 {
		t.Fatalf("Expected 10 messages, got %d", len(got))
	}
	if got[0].Content != "turn 15" || got[9].Content != "turn 24" {
		t.Errorf("Expected the most recent turns, got %q .. %q", got[0].Content, got[9].Content)
	}
}

func TestWindow_DropsSystemTurns(t *testing.T) {
	history := []Turn{
		{Role: llm.RoleSystem, Text: "stale system prompt"},
		{Role: llm.RoleUser, Text: "hello"},
		{Role: llm.RoleAssistant, Text: "hi"},
	}

	got := Window(history, 10)
	if len(got) != 2 {
		t.Fatalf("Expected system turn dropped, got %d messages", len(got))
	}
	for _, m := range got {
		if m.Role == llm.RoleSystem {
			t.Errorf("Unexpected system turn %+v", m)
		}
	}
}

func TestWindow_DefaultsOnZero(t *testing.T) {
	history := []Turn{{Role: llm.RoleUser, Text: "hello"}}

	got := Window(history, 0)
	if len(got) != 1 {
		t.Fatalf("Expected history preserved with default window, got %d", len(got))
	}
}
