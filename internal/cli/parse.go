package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/rackmap/internal/bincode"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <code>...",
		Short: "Decode storage bin codes",
		Long: `Decode each bin code and print its variant and fields.

  rackmap parse 3E01A1C 3W22ENDCAP`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printCodes(cmd.OutOrStdout(), args)
			return nil
		},
	}
}

func printCodes(w io.Writer, codes []string) {
	for _, raw := range codes {
		code, err := bincode.Parse(raw)
		if err != nil {
			fmt.Fprintf(w, "%-10s %s\n", code.Kind, err)
			continue
		}
		fmt.Fprintf(w, "%-10s %s\n", code.Kind, code)
	}
}
