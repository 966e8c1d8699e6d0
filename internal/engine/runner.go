package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/rackmap/internal/model"
)

// SplitBays groups rows into one work unit per (building, bay) pair, in the
// order each pair first appears. Rows without a building or bay are dropped;
// the importer already reports them.
func SplitBays(rows []model.InventoryRow) []WorkUnit {
	type key struct{ building, bay string }

	index := make(map[key]int)
	var units []WorkUnit
	for _, r := range rows {
		if r.Building == "" || r.Bay == "" {
			continue
		}
		k := key{building: r.Building, bay: r.Bay}
		i, ok := index[k]
		if !ok {
			i = len(units)
			index[k] = i
			units = append(units, WorkUnit{Building: r.Building, Bay: r.Bay})
		}
		units[i].Rows = append(units[i].Rows, r)
	}
	return units
}

// Runner processes work units concurrently.
type Runner struct {
	Settings model.Settings
	Workers  int
	Logger   *zap.Logger
}

func NewRunner(settings model.Settings, workers int, logger *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Settings: settings, Workers: workers, Logger: logger}
}

// Run processes every unit and returns the reports in unit order. Each unit
// gets its own Processor. The only error is context cancellation.
func (r *Runner) Run(ctx context.Context, units []WorkUnit) ([]model.BayReport, error) {
	reports := make([]model.BayReport, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	r.Logger.Debug("Processing bays", zap.Int("bays", len(units)), zap.Int("workers", r.Workers))

	for i, unit := range units {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report := NewProcessor(r.Settings).Process(unit)
			reports[i] = report

			if report.OK() {
				r.Logger.Info("Bay processed",
					zap.String("building", unit.Building),
					zap.String("bay", unit.Bay),
					zap.Int("rows", len(unit.Rows)),
					zap.Int("containers", len(report.Containers)),
					zap.Int("racks", len(report.Racks)),
					zap.Int("warnings", len(report.Warnings)))
			} else {
				r.Logger.Warn("Bay rejected",
					zap.String("building", unit.Building),
					zap.String("bay", unit.Bay),
					zap.Strings("errors", report.Errors))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
