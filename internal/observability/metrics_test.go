package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(operationCounter.WithLabelValues("metricsTest", "get", ResultOK))
	RecordOperation("metricsTest", "get", ResultOK, time.Millisecond)
	after := testutil.ToFloat64(operationCounter.WithLabelValues("metricsTest", "get", ResultOK))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestRecordCorruptAndWrite(t *testing.T) {
	RecordCorrupt("metricsTest")
	if got := testutil.ToFloat64(corruptCounter.WithLabelValues("metricsTest")); got < 1 {
		t.Fatalf("expected corrupt count, got %v", got)
	}

	ts := time.Unix(1700000000, 0)
	RecordWrite("metricsTest", ts)
	RecordWrite("metricsTest", time.Time{})
	if got := testutil.ToFloat64(lastWriteGauge.WithLabelValues("metricsTest")); got != 1700000000 {
		t.Fatalf("expected watermark 1700000000, got %v", got)
	}
}
