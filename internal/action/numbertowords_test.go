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

package action

import "testing"

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{13, "Thirteen"},
		{20, "Twenty"},
		{42, "Forty Two"},
		{100, "One Hundred"},
		{305, "Three Hundred Five"},
		{950, "Nine Hundred Fifty"},
		{8000, "Eight Thousand"},
		{12000, "Twelve Thousand"},
		{18500, "Eighteen Thousand Five Hundred"},
		{100000, "One Hundred Thousand"},
		{123456, "One Hundred Twenty Three Thousand Four Hundred Fifty Six"},
		{1000000, "One Million"},
		{18500.75, "Eighteen Thousand Five Hundred"},
	}

	for _, tt := range tests {
		if got := NumberToWords(tt.amount); got != tt.want {
			t.Errorf("NumberToWords(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
