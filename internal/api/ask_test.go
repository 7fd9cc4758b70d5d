package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/studentsql/studentsql/internal/pipeline"
	"github.com/studentsql/studentsql/internal/query"
)

func TestAskReturnsSQLAndRows(t *testing.T) {
	fake := &fakePipeline{answer: pipeline.Answer{
		SQL: "SELECT COUNT(*) FROM STUDENT;",
		Result: query.Result{
			Columns:  []string{"COUNT(*)"},
			Rows:     [][]any{{int64(5)}},
			RowCount: 1,
		},
	}}
	h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: fake})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"How many entries of records are present?"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["sql"] != "SELECT COUNT(*) FROM STUDENT;" {
		t.Fatalf("sql = %v", body["sql"])
	}
	if body["row_count"] != float64(1) {
		t.Fatalf("row_count = %v", body["row_count"])
	}
	rows, _ := body["rows"].([]any)
	if len(rows) != 1 {
		t.Fatalf("rows = %v", body["rows"])
	}
	if len(fake.questions) != 1 || fake.questions[0] != "How many entries of records are present?" {
		t.Fatalf("questions = %#v", fake.questions)
	}
}

func TestAskAcceptsEmptyQuestion(t *testing.T) {
	fake := &fakePipeline{answer: pipeline.Answer{SQL: "SELECT 1;", Result: query.Result{Columns: []string{"1"}}}}
	h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: fake})

	for _, payload := range []string{"", "{}"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(payload)))
		if rr.Code != http.StatusOK {
			t.Fatalf("payload %q: status = %d", payload, rr.Code)
		}
		body := decodeBody(t, rr)
		if rows, ok := body["rows"].([]any); !ok || len(rows) != 0 {
			t.Fatalf("rows = %#v, want empty list", body["rows"])
		}
	}
	if len(fake.questions) != 2 || fake.questions[0] != "" {
		t.Fatalf("questions = %#v", fake.questions)
	}
}

func TestAskRejectsUnknownFields(t *testing.T) {
	h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: &fakePipeline{}})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"prompt":"x"}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAskMapsPipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		answer     pipeline.Answer
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "translation",
			err:        &pipeline.Error{Code: pipeline.ErrorTranslation, Reason: "completion service call failed", Err: errors.New("status=401")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "TRANSLATE_FAILED",
		},
		{
			name:       "execution",
			answer:     pipeline.Answer{SQL: "SELEKT"},
			err:        &pipeline.Error{Code: pipeline.ErrorQueryExecution, Reason: "store rejected statement", Err: errors.New(`near "SELEKT": syntax error`)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "QUERY_EXECUTION_FAILED",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: &fakePipeline{answer: tt.answer, askErr: tt.err}})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"q"}`)))
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			body := decodeBody(t, rr)
			if body["error_code"] != tt.wantCode {
				t.Fatalf("error_code = %v", body["error_code"])
			}
			if tt.answer.SQL != "" {
				details, _ := body["context"].(map[string]any)
				if details["sql"] != tt.answer.SQL {
					t.Fatalf("context = %#v", body["context"])
				}
				if !strings.Contains(details["details"].(string), "syntax error") {
					t.Fatalf("store diagnostic missing: %#v", details)
				}
			}
		})
	}
}

func TestTableReturnsFullTable(t *testing.T) {
	fake := &fakePipeline{table: query.Result{
		Columns:  []string{"NAME", "COURSE", "SECTION", "MARKS"},
		Rows:     [][]any{{"Krish", "Data Science", "A", int64(90)}},
		RowCount: 1,
	}}
	h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: fake})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/table", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := decodeBody(t, rr)
	columns, _ := body["columns"].([]any)
	if len(columns) != 4 || columns[0] != "NAME" {
		t.Fatalf("columns = %v", body["columns"])
	}
}

func TestTableFailureIsQueryExecutionError(t *testing.T) {
	fake := &fakePipeline{tableErr: &pipeline.Error{Code: pipeline.ErrorQueryExecution, Reason: "store rejected statement", Err: errors.New("no such table: STUDENT")}}
	h := NewHandler(loadConfig(t, nil), Dependencies{Pipeline: fake})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/table", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAskNotConfigured(t *testing.T) {
	h := NewHandler(loadConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{}`)))
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}
