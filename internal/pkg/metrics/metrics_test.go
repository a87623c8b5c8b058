package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

		Convey("When recording matches", func() {
			m.RecordMatch([]int{90, 40, 10})
			m.RecordMatch(nil)

			Convey("Then the request counter counts calls", func() {
				So(testutil.ToFloat64(m.matchRequests), ShouldEqual, 2)
			})
		})

		Convey("When recording demand refreshes by trigger", func() {
			m.RecordDemandRefresh(TriggerScheduled, 12)
			m.RecordDemandRefresh(TriggerManual, 1)
			m.RecordDemandRefreshError()

			Convey("Then each trigger has its own series", func() {
				So(testutil.ToFloat64(m.demandRefreshes.WithLabelValues(TriggerScheduled)), ShouldEqual, 12)
				So(testutil.ToFloat64(m.demandRefreshes.WithLabelValues(TriggerManual)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.demandRefreshErrors), ShouldEqual, 1)
			})
		})

		Convey("When recording recommendations", func() {
			m.RecordRecommendation(true, 3)
			m.RecordRecommendation(false, 0)
			m.RecordRecommendation(false, 5)

			Convey("Then hits and misses are split", func() {
				So(testutil.ToFloat64(m.recommendRequests.WithLabelValues("hit")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.recommendRequests.WithLabelValues("miss")), ShouldEqual, 2)
			})
		})

		Convey("When recording HTTP requests", func() {
			m.RecordHTTPRequest("/api/v1/jobs/matched", "GET", 200, 5*time.Millisecond)
			m.SetWSClients(4)

			Convey("Then the handler exposes them", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
				body := rec.Body.String()
				So(body, ShouldContainSubstring, `test_http_requests_total{method="GET",route="/api/v1/jobs/matched",status_code="200"} 1`)
				So(strings.Contains(body, "test_ws_clients 4"), ShouldBeTrue)
			})
		})
	})
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.RecordMatch([]int{1})
	m.RecordRecommendation(true, 1)
	m.RecordDemandRefresh(TriggerCLI, 1)
	m.RecordDemandRefreshError()
	m.ObserveDemandRefreshDuration(time.Second)
	m.SetWSClients(1)
	m.RecordHTTPRequest("/", "GET", 200, time.Millisecond)
	if m.Registry() != nil {
		t.Fatal("nil manager should have no registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("nil manager handler status = %d", rec.Code)
	}
}
