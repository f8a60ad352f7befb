// Package main provides the CLI entry point for gridscope.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/omnigrid/gridscope"
)

var (
	primarySheet string
	layersPath   string
	framesPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridscope [workbook.xlsx]",
		Short: "Analyze spreadsheet formula structure",
		Long: `gridscope reconstructs a workbook's formula dependency graph, layers the
computation topologically, compacts each layer into rectangular ranges and
infers labels for them. It prints two tab-delimited tables: the layer
assignment per cell and the compact ranges per frame.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&primarySheet, "sheet", "s", "", "Primary sheet unqualified references resolve against (default: first sheet)")
	rootCmd.Flags().StringVar(&layersPath, "layers-out", "", "Write the layers table to a file instead of stdout")
	rootCmd.Flags().StringVar(&framesPath, "frames-out", "", "Write the frames table to a file instead of stdout")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	f, err := excelize.OpenFile(args[0])
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	grid, err := gridscope.GridFromFile(f, primarySheet)
	if err != nil {
		return err
	}
	result, err := gridscope.Analyze(grid)
	if err != nil {
		return err
	}

	if err := writeTable(layersPath, result.WriteLayersTable); err != nil {
		return fmt.Errorf("write layers table: %w", err)
	}
	if err := writeTable(framesPath, result.WriteFramesTable); err != nil {
		return fmt.Errorf("write frames table: %w", err)
	}
	return nil
}

func writeTable(path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return write(out)
}
