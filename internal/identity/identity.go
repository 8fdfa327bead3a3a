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

// Package identity defines the authenticated caller identity supplied by the
// request boundary. The identity is immutable for the duration of a request
// and is never derived from model output.
package identity

// Role represents the caller's access role within the HR system.
type Role string

const (
	// RoleHR grants organization-wide data access.
	RoleHR Role = "HR"
	// RoleEmployee restricts data access to the caller's own records.
	RoleEmployee Role = "Employee"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleHR || r == RoleEmployee
}

// Identity describes the authenticated user making a request.
type Identity struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// IsHR reports whether the caller holds the HR role.
func (i Identity) IsHR() bool {
	return i.Role == RoleHR
}
