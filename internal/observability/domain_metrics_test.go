package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTranslationCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(translationsTotal.WithLabelValues("error"))
	ObserveTranslation(false, 20*time.Millisecond)
	if got := testutil.ToFloat64(translationsTotal.WithLabelValues("error")); got != before+1 {
		t.Fatalf("translations error = %v, want %v", got, before+1)
	}
}

func TestObserveQueryExecutionCountsByKind(t *testing.T) {
	before := testutil.ToFloat64(queryExecutionsTotal.WithLabelValues("full_table", "ok"))
	ObserveQueryExecution("full_table", true, 5)
	if got := testutil.ToFloat64(queryExecutionsTotal.WithLabelValues("full_table", "ok")); got != before+1 {
		t.Fatalf("executions = %v, want %v", got, before+1)
	}
}

func TestObserveExportCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(exportsTotal.WithLabelValues("ok"))
	ObserveExport(true)
	if got := testutil.ToFloat64(exportsTotal.WithLabelValues("ok")); got != before+1 {
		t.Fatalf("exports = %v, want %v", got, before+1)
	}
}
