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

import "math"

var onesWords = []string{"Zero", "One", "Two", "Three", "Four", "Five", "Six",
	"Seven", "Eight", "Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen",
	"Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty",
	"Seventy", "Eighty", "Ninety"}

// NumberToWords renders a non-negative amount in English words for use on
// salary certificates, e.g. 18500 -> "Eighteen Thousand Five Hundred".
// Fractions are dropped.
func NumberToWords(amount float64) string {
	n := int64(math.Floor(amount))
	if n < 0 {
		n = 0
	}
	return numberToWords(n)
}

func numberToWords(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n < 100 {
		s := tensWords[n/10]
		if n%10 != 0 {
			s += " " + onesWords[n%10]
		}
		return s
	}
	if n < 1000 {
		s := onesWords[n/100] + " Hundred"
		if n%100 != 0 {
			s += " " + numberToWords(n%100)
		}
		return s
	}

	for _, scale := range []struct {
		value int64
		name  string
	}{
		{1_000_000_000_000, "Trillion"},
		{1_000_000_000, "Billion"},
		{1_000_000, "Million"},
		{1_000, "Thousand"},
	} {
		if n >= scale.value {
			s := numberToWords(n/scale.value) + " " + scale.name
			if n%scale.value != 0 {
				s += " " + numberToWords(n%scale.value)
			}
			return s
		}
	}
	return onesWords[0]
}
