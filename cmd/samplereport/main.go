// Command samplereport generates synthetic assessment snapshots from the
// built-in KPI catalog, runs them through an in-process engine and prints the
// resulting reports as JSON. Useful for eyeballing report shape and for
// exercising a knowledge-base file before deploying it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/venturelens/pulse/internal/app"
	"github.com/venturelens/pulse/internal/domain/catalog"
	"github.com/venturelens/pulse/internal/domain/model"
	"github.com/venturelens/pulse/internal/domain/types"
	"github.com/venturelens/pulse/pkg/logger"
)

func main() {
	var (
		cluster   = flag.String("cluster", "saas/seed", "Cluster key as segment/stage")
		count     = flag.Int("count", 1, "Number of snapshots to generate")
		seed      = flag.Int64("seed", 1, "Random seed for reproducible snapshots")
		knowledge = flag.String("knowledge", "", "Knowledge-base YAML file (default: embedded baseline)")
		compact   = flag.Bool("compact", false, "Emit compact JSON instead of indented")
	)
	flag.Parse()

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	key, err := parseCluster(*cluster)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx := context.Background()

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithKnowledgePath(*knowledge, false),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start engine: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	rng := rand.New(rand.NewSource(*seed))
	enc := json.NewEncoder(os.Stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}

	for i := 0; i < *count; i++ {
		snap := model.Snapshot{
			ID:        uuid.NewString(),
			Cluster:   key,
			Responses: synthesize(rng),
		}
		rep, err := svc.GenerateReport(ctx, snap)
		if err != nil {
			os.Stderr.WriteString("report failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		if err := enc.Encode(rep); err != nil {
			os.Stderr.WriteString("encode failed: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
}

func parseCluster(s string) (model.ClusterKey, error) {
	seg, stage, ok := strings.Cut(s, "/")
	if !ok || seg == "" || stage == "" {
		return model.ClusterKey{}, errInvalidCluster(s)
	}
	return model.ClusterKey{Segment: seg, Stage: stage}, nil
}

type errInvalidCluster string

func (e errInvalidCluster) Error() string {
	return "invalid -cluster " + string(e) + ": want segment/stage"
}

// synthesize draws one plausible value per catalog definition.
func synthesize(rng *rand.Rand) []model.KPIResponse {
	defs := catalog.Default().All()
	out := make([]model.KPIResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, model.KPIResponse{KPIID: def.ID, Value: sample(rng, def)})
	}
	return out
}

func sample(rng *rand.Rand, def model.KPIDefinition) float64 {
	switch def.Kind {
	case types.KindScale:
		return float64(rng.Intn(101))
	case types.KindRubric:
		return float64(1 + rng.Intn(5))
	case types.KindFraction:
		return float64(rng.Intn(101)) / 100
	default:
		return metricSample(rng, def.ID)
	}
}

// metricSample keeps the raw metrics in ranges where the unit-economics
// formulas produce varied but sensible output.
func metricSample(rng *rand.Rand, id string) float64 {
	switch id {
	case catalog.KPIRevenue:
		return 20_000 + rng.Float64()*180_000
	case catalog.KPIActiveUsers:
		return float64(200 + rng.Intn(20_000))
	case catalog.KPICAC:
		return 500 + rng.Float64()*4_500
	case catalog.KPILTV:
		return 2_000 + rng.Float64()*28_000
	case catalog.KPINetBurn:
		return 30_000 + rng.Float64()*220_000
	case catalog.KPINetNewARR, catalog.KPINewARR:
		return 10_000 + rng.Float64()*140_000
	case catalog.KPIGrossMargin:
		return 0.3 + rng.Float64()*0.6
	default:
		return rng.Float64() * 1_000
	}
}
