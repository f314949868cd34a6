package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/km-arc/simpledi/framework/app"
	"github.com/km-arc/simpledi/framework/container"
	"github.com/km-arc/simpledi/framework/providers"
)

func newCountsCmd() *cobra.Command {
	var (
		constants string
		prefix    string
	)
	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Boot the application and print every entry with its resolution count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(envFiles...)
			if err != nil {
				return err
			}
			if constants != "" {
				err := application.Register(&providers.ConstantsServiceProvider{File: constants, Prefix: prefix})
				if err != nil {
					return err
				}
			}
			if err := application.Boot(); err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), application.Container)
			return nil
		},
	}
	cmd.Flags().StringVar(&constants, "constants", "", "YAML file whose top-level keys are registered as constants")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prefix for names loaded with --constants")
	return cmd
}

// printCounts renders one row per registered name.
func printCounts(w io.Writer, c *container.Container) {
	names := c.Names()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.FormatBool(c.Memoized(name)), strconv.Itoa(c.ResolvedCount(name))})
	}
	renderTable(w, []string{"NAME", "MEMOIZED", "COUNT"}, rows)
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	for i, h := range headers {
		bold.Fprint(w, padRight(h, widths[i]))
		if i < len(headers)-1 {
			fmt.Fprint(w, "  ")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		fmt.Fprintln(w, strings.TrimRight(joinPadded(row, widths), " "))
	}
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = padRight(cell, widths[i])
	}
	return strings.Join(padded, "  ")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
