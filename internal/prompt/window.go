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

import "github.com/shyamddesai/HRChatBot/internal/llm"

// DefaultWindow is the number of prior turns carried into each request.
const DefaultWindow = 10

// Turn is one prior exchange in the conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Window trims history to the most recent keep turns and converts them to
// gateway messages. System turns in the history are dropped: the freshly
// built system prompt is the only system turn each request carries.
func Window(history []Turn, keep int) []llm.Message {
	if keep <= 0 {
		keep = DefaultWindow
	}

	filtered := make([]Turn, 0, len(history))
	for _, t := range history {
		switch t.Role {
		case llm.RoleUser, llm.RoleAssistant:
			filtered = append(filtered, t)
		}
	}
	if len(filtered) > keep {
		filtered = filtered[len(filtered)-keep:]
	}

	messages := make([]llm.Message, 0, len(filtered))
	for _, t := range filtered {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Text})
	}
	return messages
}
