package report_test

import (
	"testing"

	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/report"
	"github.com/venturelens/pulse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleInputs() report.Inputs {
	return report.Inputs{
		SnapshotID:  "snap-1",
		Cluster:     model.ClusterKey{Segment: "saas", Stage: "seed"},
		ProfileName: "SaaS seed",
		Scored: []model.ScoredKPI{
			{KPIID: "team_health_score", Axis: types.AxisTeam, Score: model.Float(50)},
			{KPIID: "runway_score", Axis: types.AxisFinance, Score: model.Float(70)},
			{KPIID: "growth_rate_score", Axis: types.AxisGrowth, Score: model.Float(80)},
			{KPIID: "margin_quality", Axis: types.AxisFinance, Score: model.Float(60)},
		},
		Axes: []model.AxisScore{
			{Axis: types.AxisTeam, Complete: true, Score: model.Float(50)},
			{Axis: types.AxisGrowth, Complete: true, Score: model.Float(80)},
			{Axis: types.AxisFinance, Complete: true, Score: model.Float(65)},
		},
		Overall: model.Float(66),
		Comparisons: []model.BenchmarkComparison{
			{KPIID: "b", Category: "revenue", Percentile: 60},
			{KPIID: "a", Category: "cac", Percentile: 40},
			{KPIID: "a", Category: "revenue", Percentile: 50},
		},
		Insights: []model.CorrelationInsight{
			{Formula: "ltv_to_cac", Priority: types.PriorityMedium},
			{Formula: "burn_multiple", Priority: types.PriorityCritical},
			{Formula: "arpu", Priority: types.PriorityLow},
		},
		Alerts: []model.RiskAlert{
			{RuleID: "team_health", Severity: types.SeverityWarning, AffectedKPIs: []string{"t"}},
			{RuleID: "critical_kpi_low", Severity: types.SeverityCritical, AffectedKPIs: []string{"g"}},
		},
		Readiness: model.StageReadiness{Evaluated: true, Ready: false, NextStage: "series_a"},
	}
}

func TestAssembleOrdering(t *testing.T) {
	Convey("Given unordered component outputs", t, func() {
		rep := report.Assemble(sampleInputs())

		Convey("Then scored KPIs sort by axis rank, then ID", func() {
			ids := make([]string, 0, len(rep.Scored))
			for _, s := range rep.Scored {
				ids = append(ids, s.KPIID)
			}
			So(ids, ShouldResemble, []string{
				"growth_rate_score", "margin_quality", "runway_score", "team_health_score",
			})
		})

		Convey("Then axes follow the canonical axis order", func() {
			So(rep.Axes[0].Axis, ShouldEqual, types.AxisGrowth)
			So(rep.Axes[1].Axis, ShouldEqual, types.AxisFinance)
			So(rep.Axes[2].Axis, ShouldEqual, types.AxisTeam)
		})

		Convey("Then comparisons sort by category, then KPI", func() {
			So(rep.Comparisons[0].Category, ShouldEqual, "cac")
			So(rep.Comparisons[1].Category, ShouldEqual, "revenue")
			So(rep.Comparisons[1].KPIID, ShouldEqual, "a")
			So(rep.Comparisons[2].KPIID, ShouldEqual, "b")
		})

		Convey("Then insights sort by priority", func() {
			So(rep.Insights[0].Formula, ShouldEqual, "burn_multiple")
			So(rep.Insights[1].Formula, ShouldEqual, "ltv_to_cac")
			So(rep.Insights[2].Formula, ShouldEqual, "arpu")
		})

		Convey("Then alerts sort by severity", func() {
			So(rep.Alerts[0].RuleID, ShouldEqual, "critical_kpi_low")
			So(rep.Alerts[1].RuleID, ShouldEqual, "team_health")
		})

		Convey("Then scalar fields carry through untouched", func() {
			So(rep.SnapshotID, ShouldEqual, "snap-1")
			So(rep.Profile, ShouldEqual, "SaaS seed")
			So(*rep.Overall, ShouldEqual, 66.0)
			So(rep.Readiness.NextStage, ShouldEqual, "series_a")
		})
	})
}

func TestAssembleIdempotence(t *testing.T) {
	Convey("Given identical inputs", t, func() {
		first := report.Assemble(sampleInputs())
		second := report.Assemble(sampleInputs())

		Convey("Then assembly is deterministic and deep-equal", func() {
			So(second, ShouldResemble, first)
		})

		Convey("And assembling the assembled output changes nothing", func() {
			in := sampleInputs()
			in.Scored = first.Scored
			in.Comparisons = first.Comparisons
			in.Insights = first.Insights
			in.Alerts = first.Alerts
			So(report.Assemble(in), ShouldResemble, first)
		})
	})
}

func TestAssembleDoesNotMutateInputs(t *testing.T) {
	Convey("Given caller-owned slices", t, func() {
		in := sampleInputs()
		firstScored := in.Scored[0].KPIID
		firstInsight := in.Insights[0].Formula

		report.Assemble(in)

		Convey("Then the caller's slices keep their order", func() {
			So(in.Scored[0].KPIID, ShouldEqual, firstScored)
			So(in.Insights[0].Formula, ShouldEqual, firstInsight)
		})
	})
}
