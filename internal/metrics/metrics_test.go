// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op"))

	RecordDBQuery("test_op", 5*time.Millisecond, nil)
	RecordDBQuery("test_op", 5*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("test_op")) - before; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(DBQueryDuration, "duckdb_query_duration_seconds"); n == 0 {
		t.Error("duration histogram has no series")
	}
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		method, endpoint, status string
	}{
		{"GET", "/api/recipes/", "200"},
		{"POST", "/api/recipes/", "201"},
		{"DELETE", "/api/recipes/{id}/", "404"},
	}
	for _, tt := range tests {
		before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
		RecordAPIRequest(tt.method, tt.endpoint, tt.status, time.Millisecond)
		after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.status))
		if after-before != 1 {
			t.Errorf("%s %s %s: delta = %v", tt.method, tt.endpoint, tt.status, after-before)
		}
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+2 {
		t.Errorf("in flight = %v, want %v", got, start+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("in flight = %v, want %v", got, start)
	}
}

func TestRecordEvents(t *testing.T) {
	okBefore := testutil.ToFloat64(EventsPublished.WithLabelValues("recipe.created", "ok"))
	errBefore := testutil.ToFloat64(EventsPublished.WithLabelValues("recipe.created", "error"))

	RecordEventPublished("recipe.created", nil)
	RecordEventPublished("recipe.created", errors.New("broker down"))

	if d := testutil.ToFloat64(EventsPublished.WithLabelValues("recipe.created", "ok")) - okBefore; d != 1 {
		t.Errorf("ok delta = %v", d)
	}
	if d := testutil.ToFloat64(EventsPublished.WithLabelValues("recipe.created", "error")) - errBefore; d != 1 {
		t.Errorf("error delta = %v", d)
	}

	consumedBefore := testutil.ToFloat64(EventsConsumed.WithLabelValues("activity", "ok"))
	RecordEventConsumed("activity", nil)
	if d := testutil.ToFloat64(EventsConsumed.WithLabelValues("activity", "ok")) - consumedBefore; d != 1 {
		t.Errorf("consumed delta = %v", d)
	}
}

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(ImportRows.WithLabelValues("ingredients", "inserted"))
	RecordImport("ingredients", 10, 2, 1, time.Second)
	if d := testutil.ToFloat64(ImportRows.WithLabelValues("ingredients", "inserted")) - before; d != 10 {
		t.Errorf("inserted delta = %v, want 10", d)
	}
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(AuthLoginAttempts.WithLabelValues("throttled"))
	RecordLogin("throttled")
	if d := testutil.ToFloat64(AuthLoginAttempts.WithLabelValues("throttled")) - before; d != 1 {
		t.Errorf("throttled delta = %v", d)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	before := testutil.ToFloat64(WSMessagesSent)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			WSMessagesSent.Inc()
			RecordAPIRequest("GET", "/api/tags/", "200", time.Microsecond)
		}()
	}
	wg.Wait()
	if d := testutil.ToFloat64(WSMessagesSent) - before; d != 50 {
		t.Errorf("messages delta = %v, want 50", d)
	}
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint: %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint %s: %s", p.Metric, p.Text)
	}
}

func TestRecordImport_DurationSamples(t *testing.T) {
	sampleCount := func() uint64 {
		var m dto.Metric
		obs, err := ImportDuration.GetMetricWithLabelValues("tags")
		if err != nil {
			t.Fatalf("get histogram: %v", err)
		}
		if err := obs.(prometheus.Metric).Write(&m); err != nil {
			t.Fatalf("write histogram: %v", err)
		}
		return m.GetHistogram().GetSampleCount()
	}

	before := sampleCount()
	RecordImport("tags", 3, 0, 0, 20*time.Millisecond)
	RecordImport("tags", 0, 3, 0, 5*time.Millisecond)
	if got := sampleCount() - before; got != 2 {
		t.Errorf("import duration samples delta = %d, want 2", got)
	}
}
