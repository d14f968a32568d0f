package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given the metrics manager", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it registers without panicking", func() {
				So(manager, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithPrometheusRegistry(registry),
				WithNamespace("pulse_test"),
				WithSubsystem("engine"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithMetricsEnabled(true),
			)
			So(manager, ShouldNotBeNil)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording pipeline metrics", func() {
			recorders := func() {
				RecordReportGenerated()
				RecordReportDuration(12.5)
				RecordSnapshotRejected()
				RecordFlaggedKPIs(2)
				RecordIncompleteAxes(1)
				RecordProfileFallback()
				RecordKnowledgeReload("success")
				RecordKnowledgeReload("failure")
				UpdateKnowledgeProfiles(5)
				RecordRiskAlert("critical")
				RecordInsight("ltv_to_cac")
				RecordCacheHit()
				RecordCacheMiss()
				RecordBatchSize(10)
				RecordHTTPRequest("reports", "POST", "200")
				RecordHTTPRequestDuration("reports", "POST", "200", 3.2)
			}

			Convey("Then none of the recorders panic", func() {
				So(recorders, ShouldNotPanic)
			})

			Convey("Then the registry exposes the recorded families", func() {
				recorders()
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names, ShouldContainKey, "pulse_engine_reports_generated_total")
				So(names, ShouldContainKey, "pulse_engine_risk_alerts_total")
				So(names, ShouldContainKey, "pulse_engine_http_requests_total")
			})
		})

		Convey("When recording non-positive gauge inputs", func() {
			So(func() { RecordFlaggedKPIs(0) }, ShouldNotPanic)
			So(func() { RecordBatchSize(0) }, ShouldNotPanic)
		})
	})
}
