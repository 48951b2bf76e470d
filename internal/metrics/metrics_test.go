package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	// Call Init multiple times; promauto panics on duplicate registration if
	// the once guard is broken.
	Init()
	Init()

	if apiRequestsTotal == nil || pollRoundsTotal == nil ||
		dispatchOperationsTotal == nil || batchItemsTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserversRecord(t *testing.T) {
	Init()

	ObserveAPIRequest("POST", 200, 120*time.Millisecond)
	if val := testutil.ToFloat64(apiRequestsTotal.WithLabelValues("POST", "200")); val < 1 {
		t.Errorf("Expected apiRequestsTotal for POST 200 to be >= 1, got %f", val)
	}
	if val := testutil.CollectAndCount(apiRequestDurationSeconds); val <= 0 {
		t.Errorf("Expected apiRequestDurationSeconds to be observed, got %d", val)
	}

	ObservePollRound("running")
	if val := testutil.ToFloat64(pollRoundsTotal.WithLabelValues("running")); val < 1 {
		t.Errorf("Expected pollRoundsTotal for running to be >= 1, got %f", val)
	}

	ObserveDispatch("scrape.web.url", "success")
	if val := testutil.ToFloat64(dispatchOperationsTotal.WithLabelValues("scrape.web.url", "success")); val < 1 {
		t.Errorf("Expected dispatchOperationsTotal to be >= 1, got %f", val)
	}

	ObserveBatchItem("failure")
	if val := testutil.ToFloat64(batchItemsTotal.WithLabelValues("failure")); val < 1 {
		t.Errorf("Expected batchItemsTotal for failure to be >= 1, got %f", val)
	}
}

func TestObserversAreNilSafeBeforeInit(t *testing.T) {
	// Library consumers may never call Init; observers must not panic.
	saved := apiRequestsTotal
	apiRequestsTotal = nil
	defer func() { apiRequestsTotal = saved }()

	ObserveAPIRequest("GET", 200, time.Millisecond)
}
