package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func scrape(m *Manager) (int, string) {
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return rec.Code, string(body)
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating two managers with default options", func() {
			a := NewManager()
			b := NewManager()

			Convey("Then neither collides with the other's registry", func() {
				So(a, ShouldNotBeNil)
				So(b, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithHistogramBuckets([]float64{0.1, 1}),
			)
			m.RecordStoreError()
			m.RecordQuery("streak", "ok", 50*time.Millisecond)

			Convey("Then metrics are exposed under the namespace with the given buckets", func() {
				_, body := scrape(m)
				So(body, ShouldContainSubstring, "test_engine_store_errors_total 1")
				So(body, ShouldContainSubstring, `test_engine_query_duration_seconds_bucket{function="streak",le="0.1"} 1`)
				So(body, ShouldNotContainSubstring, `le="0.25"`)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager", t, func() {
		m := NewManager()

		Convey("When queries are recorded", func() {
			m.RecordQuery("streak", "ok", 3*time.Millisecond)
			m.RecordQuery("streak", "ok", 5*time.Millisecond)
			m.RecordQuery("duel", "no_data", time.Millisecond)
			m.RecordEventsScanned(120)
			m.RecordEventsScanned(0)
			m.RecordHTTPRequest("/v1/query", "POST", "200")

			Convey("Then the handler exposes them", func() {
				code, body := scrape(m)
				So(code, ShouldEqual, 200)
				So(body, ShouldContainSubstring, `hoopstats_engine_queries_total{function="streak",status="ok"} 2`)
				So(body, ShouldContainSubstring, `hoopstats_engine_queries_total{function="duel",status="no_data"} 1`)
				So(body, ShouldContainSubstring, "hoopstats_engine_events_scanned_total 120")
				So(body, ShouldContainSubstring, `hoopstats_http_requests_total{endpoint="/v1/query",method="POST",status_code="200"} 1`)
			})
		})
	})
}
