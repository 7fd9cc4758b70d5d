// Package pipeline wires translation and execution into the two operations
// callers use: Ask and FullTable. A Service holds no per-request state.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/studentsql/studentsql/internal/nl2sql"
	"github.com/studentsql/studentsql/internal/observability"
	"github.com/studentsql/studentsql/internal/query"
)

type QuestionTranslator interface {
	Translate(ctx context.Context, question string) (nl2sql.Result, error)
}

type Answer struct {
	SQL    string       `json:"sql"`
	Result query.Result `json:"result"`
}

type Service struct {
	translator QuestionTranslator
	executor   query.Executor
	logger     *slog.Logger
}

func NewService(translator QuestionTranslator, executor query.Executor, logger *slog.Logger) (*Service, error) {
	if translator == nil {
		return nil, newError(ErrorConfiguration, "translator is required", nil)
	}
	if executor == nil {
		return nil, newError(ErrorConfiguration, "executor is required", nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{translator: translator, executor: executor, logger: logger}, nil
}

// Ask translates the question and executes the resulting statement. Errors
// are returned as *Error; nothing is replaced by an empty result.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	traceID := slog.String("trace_id", observability.TraceIDFromContext(ctx))

	start := time.Now()
	translated, err := s.translator.Translate(ctx, question)
	observability.ObserveTranslation(err == nil, time.Since(start))
	if err != nil {
		s.logger.WarnContext(ctx, "translation failed", traceID, slog.Any("error", err))
		return Answer{}, newError(ErrorTranslation, "completion service call failed", err)
	}
	s.logger.DebugContext(ctx, "question_translated",
		traceID,
		slog.String("provider", translated.Provider),
		slog.String("model", translated.Model),
		slog.String("sql", translated.SQL),
	)

	result, err := s.executor.Execute(ctx, translated.SQL)
	observability.ObserveQueryExecution("translated", err == nil, result.RowCount)
	if err != nil {
		s.logger.WarnContext(ctx, "query execution failed", traceID, slog.String("sql", translated.SQL), slog.Any("error", err))
		return Answer{SQL: translated.SQL}, newError(ErrorQueryExecution, executionReason(err), err)
	}
	return Answer{SQL: translated.SQL, Result: result}, nil
}

// FullTable returns the complete contents of the known table.
func (s *Service) FullTable(ctx context.Context) (query.Result, error) {
	result, err := s.executor.FullTable(ctx)
	observability.ObserveQueryExecution("full_table", err == nil, result.RowCount)
	if err != nil {
		s.logger.WarnContext(ctx, "full table fetch failed",
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
			slog.Any("error", err),
		)
		return query.Result{}, newError(ErrorQueryExecution, executionReason(err), err)
	}
	return result, nil
}

func executionReason(err error) string {
	if errors.Is(err, query.ErrNoResultSet) {
		return "statement returned no result set"
	}
	return "store rejected statement"
}
