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

// Package chat orchestrates one request through the pipeline: prompt
// construction, the first gateway pass, intent classification, and the
// query, loan or action paths. Every failure converges on a user-visible
// reply; the service never returns an error to the transport layer.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/action"
	"github.com/shyamddesai/HRChatBot/internal/format"
	"github.com/shyamddesai/HRChatBot/internal/identity"
	"github.com/shyamddesai/HRChatBot/internal/intent"
	"github.com/shyamddesai/HRChatBot/internal/llm"
	"github.com/shyamddesai/HRChatBot/internal/loan"
	"github.com/shyamddesai/HRChatBot/internal/prompt"
	"github.com/shyamddesai/HRChatBot/internal/query"
	"github.com/shyamddesai/HRChatBot/internal/sqlguard"
	"github.com/shyamddesai/HRChatBot/internal/store"
	"go.uber.org/zap"
)

// Reply kinds surfaced to the client.
const (
	KindChat          = "chat"
	KindData          = "data"
	KindError         = "error"
	KindLoanCheck     = "loan_check"
	KindLoanCheckAll  = "loan_check_all"
	KindCertificate   = "certificate"
	KindActionSuccess = "action_success"
	KindUnknown       = "unknown"
)

// Request is one inbound chat message with its prior turns.
type Request struct {
	Message    string        `json:"message" binding:"required"`
	PriorTurns []prompt.Turn `json:"priorTurns"`
}

// Reply is the single envelope every path converges on. SQL is surfaced
// only to HR callers.
type Reply struct {
	Answer   string      `json:"answer"`
	Kind     string      `json:"kind"`
	SQL      string      `json:"sql,omitempty"`
	RowCount int         `json:"rowCount,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

const (
	gatewayDownReply  = "I'm having trouble reaching the assistant service right now. Please try again in a moment."
	executionReply    = "I couldn't complete that query. Please try rephrasing your question."
	actionFailedReply = "I couldn't complete that action. Please try again."
)

// Service wires the pipeline components together.
type Service struct {
	gateway    llm.Gateway
	store      *store.Store
	executor   *query.Executor
	formatter  *format.Formatter
	dispatcher *action.Dispatcher
	logger     *zap.Logger
	window     int
}

// NewService creates the chat service. window bounds the prior turns carried
// into each gateway call.
func NewService(gateway llm.Gateway, st *store.Store, executor *query.Executor,
	formatter *format.Formatter, dispatcher *action.Dispatcher, logger *zap.Logger, window int) *Service {
	if window <= 0 {
		window = prompt.DefaultWindow
	}
	return &Service{
		gateway:    gateway,
		store:      st,
		executor:   executor,
		formatter:  formatter,
		dispatcher: dispatcher,
		logger:     logger,
		window:     window,
	}
}

// Process handles one chat request end to end. It always returns a reply:
// gateway failures, rejected SQL, denied actions and execution errors all
// degrade to user-visible messages.
func (s *Service) Process(ctx context.Context, caller identity.Identity, req Request) Reply {
	messages := make([]llm.Message, 0, s.window+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: prompt.BuildSystemPrompt(caller, time.Now()),
	})
	messages = append(messages, prompt.Window(req.PriorTurns, s.window)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	raw, err := s.gateway.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Gateway call failed", zap.Error(err), zap.String("caller_id", caller.ID))
		return Reply{Answer: gatewayDownReply, Kind: KindError}
	}

	parsed := intent.Parse(raw)
	s.logger.Info("Intent classified",
		zap.String("caller_id", caller.ID),
		zap.String("intent", string(parsed.Kind)),
	)

	switch parsed.Kind {
	case intent.KindConversation:
		return Reply{Answer: parsed.Response, Kind: KindChat}
	case intent.KindDataQuery:
		return s.handleDataQuery(ctx, caller, req.Message, parsed)
	case intent.KindLoanEligibility:
		return s.handleLoanCheck(ctx, caller, parsed.LoanType)
	case intent.KindCreateEmployee:
		return s.handleAction(func() (*action.Result, error) {
			return s.dispatcher.CreateEmployee(ctx, caller, parsed.Create)
		}, KindActionSuccess)
	case intent.KindPromoteEmployee:
		return s.handleAction(func() (*action.Result, error) {
			return s.dispatcher.PromoteEmployee(ctx, caller, parsed.Promote)
		}, KindActionSuccess)
	case intent.KindGenerateCertificate:
		return s.handleAction(func() (*action.Result, error) {
			return s.dispatcher.GenerateCertificate(ctx, caller, parsed.EmployeeName)
		}, KindCertificate)
	default:
		answer := parsed.Response
		if strings.TrimSpace(answer) == "" {
			answer = "I'm not sure how to help with that. Could you rephrase?"
		}
		return Reply{Answer: answer, Kind: KindUnknown}
	}
}

func (s *Service) handleDataQuery(ctx context.Context, caller identity.Identity, userMessage string, parsed intent.ParsedIntent) Reply {
	verdict := sqlguard.Validate(parsed.SQL, caller.Role, caller.ID)
	if !verdict.Accepted {
		s.logger.Warn("Generated SQL rejected",
			zap.String("caller_id", caller.ID),
			zap.String("reason", verdict.Reason),
		)
		return Reply{
			Answer: "I can't run that query: " + verdict.Reason + ".",
			Kind:   KindError,
		}
	}

	scoped := sqlguard.Rewrite(parsed.SQL, caller)

	res, err := s.executor.Execute(ctx, scoped.SQL, scoped.Args, caller.ID)
	if err != nil {
		s.logger.Error("Query execution failed",
			zap.Error(err),
			zap.String("caller_id", caller.ID),
		)
		return Reply{Answer: executionReply, Kind: KindError}
	}

	answer := s.formatter.Format(ctx, userMessage, *res, isLoanRelated(parsed.SQL))

	reply := Reply{
		Answer:   answer,
		Kind:     KindData,
		RowCount: len(res.Rows),
		Data:     res.Rows,
	}
	if caller.IsHR() {
		reply.SQL = scoped.SQL
	}
	return reply
}

func (s *Service) handleLoanCheck(ctx context.Context, caller identity.Identity, loanTypeHint string) Reply {
	emp, err := s.store.GetEmployeeByID(ctx, caller.ID)
	if err != nil || emp == nil {
		if err != nil {
			s.logger.Error("Employee lookup failed", zap.Error(err), zap.String("caller_id", caller.ID))
		}
		return Reply{Answer: "I couldn't find your employee record to check loan eligibility.", Kind: KindError}
	}

	sal, err := s.store.CurrentSalary(ctx, emp.ID)
	if err != nil {
		s.logger.Error("Salary lookup failed", zap.Error(err), zap.String("caller_id", caller.ID))
		return Reply{Answer: executionReply, Kind: KindError}
	}
	var baseSalary float64
	if sal != nil {
		baseSalary = sal.BaseSalary
	}

	profile := loan.Profile{
		GradeNumber: emp.GradeNumber,
		BaseSalary:  baseSalary,
		TenureYears: emp.TenureYears(time.Now().UTC()),
		Status:      emp.Status,
	}

	hasActive := func(t loan.Type) bool {
		active, lookupErr := s.store.HasActiveLoan(ctx, emp.ID, string(t))
		if lookupErr != nil {
			s.logger.Error("Active loan lookup failed", zap.Error(lookupErr), zap.String("caller_id", caller.ID))
			// Treat lookup failure as an existing loan so eligibility
			// never overstates.
			return true
		}
		return active
	}

	if t, ok := loan.ParseType(loanTypeHint); ok {
		profile.HasActiveLoan = hasActive(t)
		result := loan.Evaluate(t, profile)
		return Reply{
			Answer: format.FormatLoanResult(result),
			Kind:   KindLoanCheck,
			Data:   result,
		}
	}

	results := loan.EvaluateAll(profile, hasActive)
	return Reply{
		Answer: format.FormatLoanResults(results),
		Kind:   KindLoanCheckAll,
		Data:   results,
	}
}

func (s *Service) handleAction(run func() (*action.Result, error), successKind string) Reply {
	res, err := run()
	if err != nil {
		if errors.Is(err, action.ErrNotPermitted) {
			return Reply{
				Answer: "You don't have permission to perform that action.",
				Kind:   KindError,
			}
		}
		s.logger.Error("Action failed", zap.Error(err))
		return Reply{Answer: actionFailedReply, Kind: KindError}
	}

	if !res.Completed {
		return Reply{Answer: res.Message, Kind: KindChat}
	}
	return Reply{Answer: res.Message, Kind: successKind, Data: res.Data}
}

func isLoanRelated(sqlText string) bool {
	return strings.Contains(strings.ToLower(sqlText), "loan")
}
