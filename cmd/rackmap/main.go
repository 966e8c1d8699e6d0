// rackmap - Warehouse Bay Layout Generator
//
// Converts warehouse inventory exports into per-bay 3D scene JSON for the
// warehouse viewer, with optional plan PDF, bin labels, DXF and XLSX output.
//
// Build:
//   go build -o rackmap ./cmd/rackmap
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o rackmap.exe ./cmd/rackmap
//   GOOS=darwin  GOARCH=arm64 go build -o rackmap-darwin ./cmd/rackmap

package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/piwi3910/rackmap/internal/cli"
)

const version = "0.1.0"

func main() {
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
