package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/rackmap/internal/mockdata"
)

type mockOptions struct {
	excel  string
	sheet  string
	column string
	maxRow int
	n      int
	seed   uint64
	out    string
}

func newMockCmd(a *app) *cobra.Command {
	opts := &mockOptions{}

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate mock inventory JSON from a bin location sheet",
		Long: `Read bin codes from one column of an Excel sheet, normalise them to
six-character shelf ids and generate repeatable mock inventory items.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.n < 0 {
				return fmt.Errorf("--n must not be negative, got %d", opts.n)
			}
			bins, err := mockdata.ReadBins(opts.excel, opts.sheet, opts.column, opts.maxRow)
			if err != nil {
				return err
			}

			items, err := mockdata.NewGenerator(opts.seed).Items(bins, opts.n)
			if err != nil {
				return err
			}

			if err := mockdata.WriteJSON(opts.out, items); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.out, err)
			}
			a.log().Info("Mock inventory written",
				zap.String("path", opts.out),
				zap.Int("items", len(items)),
				zap.Int("bins", len(bins)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d items to %s\n", len(items), opts.out)
			fmt.Fprintf(out, "Unique bins parsed: %d\n", len(bins))
			fmt.Fprintf(out, "First 10 bins: %v\n", bins[:min(10, len(bins))])
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.excel, "excel", "", "Path to the Excel file")
	f.StringVar(&opts.sheet, "sheet", "", "Sheet name (default: active)")
	f.StringVar(&opts.column, "col", "G", "Column letter for bins")
	f.IntVar(&opts.maxRow, "max-row", 701, "Max row to read")
	f.IntVar(&opts.n, "n", 100, "How many inventory items to generate")
	f.Uint64Var(&opts.seed, "seed", 22, "Random seed for repeatability")
	f.StringVar(&opts.out, "out", "inventory_mock.json", "Output JSON path")
	_ = cmd.MarkFlagRequired("excel")

	return cmd
}
