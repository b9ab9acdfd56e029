package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
	"github.com/Sumatoshi-tech/chartkit/pkg/surface/record"
)

const (
	inspectCmdUse   = "inspect <document>"
	inspectCmdShort = "Print the computed range, points and ticks of a document"
	inspectArgCount = 1
	flagNoColor     = "no-color"
	coordFormat     = "%.2f"
)

// NewInspectCommand creates the inspect subcommand.
func NewInspectCommand() *cobra.Command {
	var (
		input   string
		nocolor bool
	)

	cmd := &cobra.Command{
		Use:           inspectCmdUse,
		Short:         inspectCmdShort,
		Args:          cobra.ExactArgs(inspectArgCount),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cf := addChartFlags(cmd)

	cmd.Flags().StringVar(&input, flagInput, "", renderInputUsage)
	cmd.Flags().BoolVar(&nocolor, flagNoColor, false, "disable colored output")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		if nocolor {
			color.NoColor = true //nolint:reassign // intentional override of library global
		}

		return runInspect(c, args[0], input, cf)
	}

	return cmd
}

func runInspect(cmd *cobra.Command, docPath, input string, cf chartFlags) error {
	e, err := setup(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer e.shutdown(cmd)

	doc, err := loadDocument(cmd.InOrStdin(), docPath, input)
	if err != nil {
		return err
	}

	docOv, err := doc.Overrides()
	if err != nil {
		return err
	}

	flags, err := cf.overrides()
	if err != nil {
		return err
	}

	c, err := chart.New(record.NewHost(inspectID), inspectID, doc.Data, e.defaults.Merge(docOv).Merge(flags))
	if err != nil {
		return err
	}

	lay, err := c.Layout()
	if err != nil {
		return err
	}

	writeInspection(cmd.OutOrStdout(), c.Config(), lay)

	return nil
}

const inspectID = "inspect"

func writeInspection(w io.Writer, cfg chart.Config, lay chart.Layout) {
	heading := color.New(color.Bold, color.FgCyan)

	heading.Fprintf(w, "%s %dx%d\n", cfg.Type, cfg.Width, cfg.Height)

	rng := lay.Range
	fmt.Fprintf(w, "range: %s .. %s, min %s, max %s, span %s\n",
		rng.FirstLabel, rng.LastLabel,
		chart.FormatTickValue(rng.MinValue), chart.FormatTickValue(rng.MaxValue), chart.FormatTickValue(rng.Span))

	if rng.Flat() {
		color.New(color.FgYellow).Fprintln(w, "flat range: points are centered vertically")
	}

	fmt.Fprintf(w, "step: "+coordFormat+"\n\n", lay.Step)

	points := table.NewWriter()
	points.SetStyle(table.StyleLight)
	points.AppendHeader(table.Row{"#", "Label", "Value", "X", "Y"})

	for idx, m := range lay.Markers {
		points.AppendRow(table.Row{
			idx, m.Label, m.Value,
			fmt.Sprintf(coordFormat, m.At.X), fmt.Sprintf(coordFormat, m.At.Y),
		})
	}

	heading.Fprintln(w, "points")
	fmt.Fprintln(w, points.Render())

	ticks := table.NewWriter()
	ticks.SetStyle(table.StyleLight)
	ticks.AppendHeader(table.Row{"Label", "Y", "Text X", "Text Y", "Max width"})

	for _, tick := range lay.YTicks {
		ticks.AppendRow(table.Row{
			tick.Label,
			fmt.Sprintf(coordFormat, tick.Mark.From.Y),
			fmt.Sprintf(coordFormat, tick.Text.X),
			fmt.Sprintf(coordFormat, tick.Text.Y),
			fmt.Sprintf(coordFormat, tick.MaxWidth),
		})
	}

	heading.Fprintln(w, "y ticks")
	fmt.Fprintln(w, ticks.Render())
}
