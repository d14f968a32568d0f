package correlation_test

import (
	"testing"

	"github.com/venturelens/pulse/internal/domain/catalog"
	"github.com/venturelens/pulse/internal/domain/correlation"
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func metric(id string, value float64) model.ScoredKPI {
	return model.ScoredKPI{KPIID: id, Kind: types.KindMetric, RawValue: value}
}

func insightByFormula(insights []model.CorrelationInsight, formula string) (model.CorrelationInsight, bool) {
	for _, ins := range insights {
		if ins.Formula == formula {
			return ins, true
		}
	}
	return model.CorrelationInsight{}, false
}

func TestAnalyzeFormulas(t *testing.T) {
	Convey("Given the built-in analyzer", t, func() {
		a := correlation.New()

		Convey("When LTV and CAC are both present", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPILTV, 300000),
				metric(catalog.KPICAC, 150000),
			})

			Convey("Then LTV:CAC of 2.0 lands at medium priority", func() {
				ins, ok := insightByFormula(insights, correlation.FormulaLTVtoCAC)
				So(ok, ShouldBeTrue)
				So(ins.Value, ShouldEqual, 2.0)
				So(ins.Priority, ShouldEqual, types.PriorityMedium)
				So(ins.Message, ShouldContainSubstring, "2.0x")
			})
		})

		Convey("When LTV barely covers CAC", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPILTV, 90),
				metric(catalog.KPICAC, 100),
			})
			ins, _ := insightByFormula(insights, correlation.FormulaLTVtoCAC)
			So(ins.Priority, ShouldEqual, types.PriorityCritical)
		})

		Convey("When burn far outpaces net new ARR", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPINetBurn, 300000),
				metric(catalog.KPINetNewARR, 100000),
			})
			ins, ok := insightByFormula(insights, correlation.FormulaBurnMultiple)
			So(ok, ShouldBeTrue)
			So(ins.Value, ShouldEqual, 3.0)
			So(ins.Priority, ShouldEqual, types.PriorityCritical)
		})

		Convey("When computing ARPU", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPIRevenue, 100000),
				metric(catalog.KPIActiveUsers, 2000),
			})
			ins, ok := insightByFormula(insights, correlation.FormulaARPU)
			So(ok, ShouldBeTrue)
			So(ins.Value, ShouldEqual, 50.0)

			Convey("Then ARPU is always low priority", func() {
				So(ins.Priority, ShouldEqual, types.PriorityLow)
			})
		})

		Convey("When computing CAC payback", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPICAC, 1000),
				metric(catalog.KPIRevenue, 100000),
				metric(catalog.KPIActiveUsers, 1000),
				metric(catalog.KPIGrossMargin, 0.5),
			})
			ins, ok := insightByFormula(insights, correlation.FormulaCACPayback)
			So(ok, ShouldBeTrue)
			// 1000 / (100 * 0.5)
			So(ins.Value, ShouldEqual, 20.0)
			So(ins.Priority, ShouldEqual, types.PriorityHigh)
		})

		Convey("When computing growth efficiency", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPINewARR, 40000),
				metric(catalog.KPICAC, 100000),
			})
			ins, ok := insightByFormula(insights, correlation.FormulaGrowthEfficiency)
			So(ok, ShouldBeTrue)
			So(ins.Value, ShouldEqual, 40.0)
			So(ins.Priority, ShouldEqual, types.PriorityCritical)
		})
	})
}

func TestAnalyzeOmission(t *testing.T) {
	Convey("Given the built-in analyzer", t, func() {
		a := correlation.New()

		Convey("When a constituent is missing", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPIRevenue, 100000),
			})

			Convey("Then the formula is omitted, not zero-filled", func() {
				_, ok := insightByFormula(insights, correlation.FormulaARPU)
				So(ok, ShouldBeFalse)
				So(insights, ShouldBeEmpty)
			})
		})

		Convey("When a divisor is zero", func() {
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPIRevenue, 100000),
				metric(catalog.KPIActiveUsers, 0),
			})
			_, ok := insightByFormula(insights, correlation.FormulaARPU)
			So(ok, ShouldBeFalse)
		})

		Convey("When a constituent was flagged by scoring", func() {
			flagged := metric(catalog.KPICAC, 150000)
			flagged.Flag = model.FlagScoreOutOfRange
			insights := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPILTV, 300000),
				flagged,
			})

			Convey("Then its formulas are omitted too", func() {
				_, ok := insightByFormula(insights, correlation.FormulaLTVtoCAC)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When no raw metrics exist at all", func() {
			So(a.Analyze(nil), ShouldBeEmpty)
		})
	})
}

func TestAnalyzeOrdering(t *testing.T) {
	Convey("Given a mixed set of raw metrics", t, func() {
		a := correlation.New()
		insights := a.Analyze([]model.ScoredKPI{
			metric(catalog.KPIRevenue, 100000),
			metric(catalog.KPIActiveUsers, 2000),
			metric(catalog.KPINetBurn, 300000),
			metric(catalog.KPINetNewARR, 100000),
			metric(catalog.KPILTV, 300000),
			metric(catalog.KPICAC, 150000),
		})

		Convey("Then insights sort by priority, ties by formula ID", func() {
			So(len(insights), ShouldBeGreaterThanOrEqualTo, 3)
			for i := 1; i < len(insights); i++ {
				prev, cur := insights[i-1], insights[i]
				So(prev.Priority.Rank(), ShouldBeLessThanOrEqualTo, cur.Priority.Rank())
				if prev.Priority == cur.Priority {
					So(prev.Formula, ShouldBeLessThan, cur.Formula)
				}
			}
			So(insights[0].Formula, ShouldEqual, correlation.FormulaBurnMultiple)
		})

		Convey("Then reordering the input changes nothing", func() {
			reversed := a.Analyze([]model.ScoredKPI{
				metric(catalog.KPICAC, 150000),
				metric(catalog.KPILTV, 300000),
				metric(catalog.KPINetNewARR, 100000),
				metric(catalog.KPINetBurn, 300000),
				metric(catalog.KPIActiveUsers, 2000),
				metric(catalog.KPIRevenue, 100000),
			})
			So(reversed, ShouldResemble, insights)
		})
	})
}
