package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/studentsql/studentsql/internal/auth"
	"github.com/studentsql/studentsql/internal/pipeline"
	"github.com/studentsql/studentsql/internal/query"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	SQL      string   `json:"sql"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

type tableResponse struct {
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
	RowCount int      `json:"row_count"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "question pipeline is not configured", false, nil)
		return
	}
	if err := auth.RequireAnyRole(r.Context(), auth.RoleAsker); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}

	answer, err := deps.Pipeline.Ask(r.Context(), request.Question)
	if err != nil {
		writePipelineError(w, r, answer.SQL, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{
		SQL:      answer.SQL,
		Columns:  answer.Result.Columns,
		Rows:     nonNilRows(answer.Result),
		RowCount: answer.Result.RowCount,
	})
}

func handleTable(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TABLE_NOT_CONFIGURED", "question pipeline is not configured", false, nil)
		return
	}
	if err := auth.RequireAnyRole(r.Context(), auth.RoleReader, auth.RoleAsker); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	result, err := deps.Pipeline.FullTable(r.Context())
	if err != nil {
		writePipelineError(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{
		Columns:  result.Columns,
		Rows:     nonNilRows(result),
		RowCount: result.RowCount,
	})
}

func writePipelineError(w http.ResponseWriter, r *http.Request, sqlText string, err error) {
	var pipelineErr *pipeline.Error
	if !errors.As(err, &pipelineErr) {
		writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL", "unexpected pipeline failure", true, map[string]any{"details": err.Error()})
		return
	}
	details := map[string]any{"reason": pipelineErr.Reason}
	if pipelineErr.Err != nil {
		details["details"] = pipelineErr.Err.Error()
	}
	switch pipelineErr.Code {
	case pipeline.ErrorTranslation:
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATE_FAILED", "question translation failed", true, details)
	case pipeline.ErrorQueryExecution:
		if sqlText != "" {
			details["sql"] = sqlText
		}
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", "query execution failed", false, details)
	default:
		writeError(r.Context(), w, http.StatusInternalServerError, string(pipelineErr.Code), "pipeline is misconfigured", false, details)
	}
}

func nonNilRows(result query.Result) [][]any {
	if result.Rows == nil {
		return [][]any{}
	}
	return result.Rows
}
