package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/rackmap/internal/engine"
	"github.com/piwi3910/rackmap/internal/export"
	"github.com/piwi3910/rackmap/internal/importer"
	"github.com/piwi3910/rackmap/internal/model"
	"github.com/piwi3910/rackmap/internal/project"
)

type generateOptions struct {
	outputDir      string
	sheet          string
	shelfThickness float64
	workers        int
	planPDF        string
	labelsPDF      string
	workbook       string
	dxf            bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}
	defaults := model.DefaultAppConfig()

	cmd := &cobra.Command{
		Use:   "generate <input>",
		Short: "Generate per-bay scene JSON from an inventory export",
		Long: `Read an inventory export (.csv, .xlsx or .xlsm) and write one scene JSON
file per building and bay into the output directory.

Flags override the config file, which is overridden by RACKMAP_* environment
variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.applyLogLevel(cfg.LogLevel)

			_, err = generate(cmd.Context(), cfg, args[0], a.log(), cmd.OutOrStdout())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", defaults.OutputDir, "Output directory for JSON files")
	f.StringVarP(&opts.sheet, "sheet", "s", "", "Sheet name to read (auto-detects if not specified)")
	f.Float64Var(&opts.shelfThickness, "shelf-thickness", defaults.Settings.ShelfThicknessInches, "Shelf thickness in inches")
	f.IntVar(&opts.workers, "workers", defaults.Workers, "Bays processed in parallel")
	f.StringVar(&opts.planPDF, "pdf", "", "Also write a plan-view PDF with this name")
	f.StringVar(&opts.labelsPDF, "labels", "", "Also write a QR bin label PDF with this name")
	f.StringVar(&opts.workbook, "workbook", "", "Also write an XLSX summary with this name")
	f.BoolVar(&opts.dxf, "dxf", false, "Also write a DXF wireframe per bay")

	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (o *generateOptions) apply(cmd *cobra.Command, cfg *model.AppConfig) {
	f := cmd.Flags()
	if f.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if f.Changed("sheet") {
		cfg.Sheet = o.sheet
	}
	if f.Changed("shelf-thickness") {
		cfg.Settings.ShelfThicknessInches = o.shelfThickness
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("pdf") {
		cfg.PlanPDF = o.planPDF
	}
	if f.Changed("labels") {
		cfg.LabelsPDF = o.labelsPDF
	}
	if f.Changed("workbook") {
		cfg.Workbook = o.workbook
	}
	if f.Changed("dxf") {
		cfg.DXF = o.dxf
	}
}

// loadConfig reads the config file and applies environment overrides.
func (a *app) loadConfig() (model.AppConfig, error) {
	path := a.configPath
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadConfig(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := project.ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return model.AppConfig{}, err
	}
	return cfg, nil
}

// importFailure is the report written when the input cannot be read at all.
func importFailure(errs []string) model.BayReport {
	return model.BayReport{
		Building: model.UnknownBay,
		Bay:      model.UnknownBay,
		Errors:   errs,
	}
}

// generate runs the whole pipeline: import, per-bay processing, scene
// output and the optional extra exports. Data problems end up in the
// reports; the returned error is for I/O failures and cancellation.
func generate(ctx context.Context, cfg model.AppConfig, input string, logger *zap.Logger, out io.Writer) ([]model.BayReport, error) {
	fmt.Fprintf(out, "Processing: %s\n", input)
	fmt.Fprintf(out, "Config: shelf_thickness=%gin, level_1_offset=%gin\n\n",
		cfg.Settings.ShelfThicknessInches, cfg.Settings.Level1FloorOffsetInches)

	result := importer.Import(input, cfg.Sheet)
	for _, w := range result.Warnings {
		logger.Warn("Import warning", zap.String("message", w))
	}

	var reports []model.BayReport
	switch {
	case !result.OK():
		logger.Error("Import failed", zap.String("input", input), zap.Strings("errors", result.Errors))
		reports = []model.BayReport{importFailure(result.Errors)}
	default:
		units := engine.SplitBays(result.Rows)
		logger.Info("Input loaded",
			zap.String("input", input),
			zap.String("sheet", result.Sheet),
			zap.Int("rows", len(result.Rows)),
			zap.Int("bays", len(units)))

		if len(units) == 0 {
			reports = []model.BayReport{importFailure([]string{"No bays found in input"})}
			break
		}

		runner := engine.NewRunner(cfg.Settings, cfg.Workers, logger)
		var err error
		reports, err = runner.Run(ctx, units)
		if err != nil {
			return nil, err
		}
		for i := range reports {
			if notes := result.BayWarnings(reports[i].Building, reports[i].Bay); len(notes) > 0 {
				reports[i].Warnings = append(notes, reports[i].Warnings...)
			}
		}
	}

	paths, err := export.WriteReports(cfg.OutputDir, reports)
	if err != nil {
		return reports, err
	}
	for i, p := range paths {
		PrintSummary(out, filepath.Base(p), reports[i])
	}

	if err := writeExtras(cfg, reports, logger); err != nil {
		return reports, err
	}

	fmt.Fprintf(out, "\nOutput saved to: %s/\n", cfg.OutputDir)
	return reports, nil
}

// outputPath places a relative extra-output name inside the output directory.
func outputPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// writeExtras writes the optional PDF, label, workbook and DXF outputs.
// Container-based outputs are skipped when no bay produced containers.
func writeExtras(cfg model.AppConfig, reports []model.BayReport, logger *zap.Logger) error {
	containers := 0
	for _, r := range reports {
		containers += len(r.Containers)
	}

	if cfg.PlanPDF != "" {
		path := outputPath(cfg.OutputDir, cfg.PlanPDF)
		if err := export.ExportPlanPDF(path, reports, cfg.Settings); err != nil {
			return fmt.Errorf("plan PDF: %w", err)
		}
		logger.Info("Plan PDF written", zap.String("path", path))
	}

	if cfg.LabelsPDF != "" {
		if containers == 0 {
			logger.Warn("Skipping labels, no containers were generated")
		} else {
			path := outputPath(cfg.OutputDir, cfg.LabelsPDF)
			if err := export.ExportLabels(path, reports); err != nil {
				return fmt.Errorf("labels PDF: %w", err)
			}
			logger.Info("Labels written", zap.String("path", path), zap.Int("labels", containers))
		}
	}

	if cfg.Workbook != "" {
		path := outputPath(cfg.OutputDir, cfg.Workbook)
		if err := export.ExportWorkbook(path, reports); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
		logger.Info("Workbook written", zap.String("path", path))
	}

	if cfg.DXF {
		paths, err := export.WriteDXF(cfg.OutputDir, reports)
		if err != nil {
			return fmt.Errorf("DXF: %w", err)
		}
		logger.Info("DXF wireframes written", zap.Int("files", len(paths)))
	}

	return nil
}
