package ct

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ValentinKolb/dAttr/cmd/util"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/spf13/cobra"
)

var (
	showCmd = &cobra.Command{
		Use:   "show [name]",
		Short: "Prints the registry or a single color table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := colortable.NewAttributes()
			if err := replica.Fetch(rpcReplica, tables); err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Print(tables.Dump(""))
				return nil
			}
			table, err := tables.ColorControlPoints(args[0])
			if err != nil {
				return err
			}
			fmt.Print(table.Dump(""))
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [name] [r,g,b[,a]@position]...",
		Short: "Adds a color table made of the given control points",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := parseTable(cmd, args[1:])
			if err != nil {
				return err
			}
			replace, _ := cmd.Flags().GetBool("replace")
			return util.Edit(rpcReplica, colortable.NewAttributes(), func(a *colortable.Attributes) error {
				if replace {
					if _, err := a.ColorTableIndex(args[0]); err == nil {
						return a.UpdateColorTable(args[0], table)
					}
				}
				return a.AddColorTable(args[0], table)
			})
		},
	}
	rmCmd = &cobra.Command{
		Use:   "rm [name]",
		Short: "Removes a color table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Edit(rpcReplica, colortable.NewAttributes(), func(a *colortable.Attributes) error {
				if !a.RemoveColorTable(args[0]) {
					return fmt.Errorf("color table %s not found", args[0])
				}
				return nil
			})
		},
	}
	activeCmd = &cobra.Command{
		Use:   "active [continuous|discrete] [name]",
		Short: "Sets the active continuous or discrete color table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Edit(rpcReplica, colortable.NewAttributes(), func(a *colortable.Attributes) error {
				switch args[0] {
				case "continuous":
					return a.SetActiveContinuous(args[1])
				case "discrete":
					return a.SetActiveDiscrete(args[1])
				default:
					return fmt.Errorf("invalid selector %s (expected continuous or discrete)", args[0])
				}
			})
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Replaces the registry with the builtin color tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.Edit(rpcReplica, colortable.NewAttributes(), func(a *colortable.Attributes) error {
				builtin := colortable.NewDefaultAttributes()
				a.ClearColorTables()
				for i, name := range builtin.Names() {
					if err := a.AddColorTable(name, builtin.ColorTables()[i]); err != nil {
						return err
					}
				}
				if err := a.SetActiveContinuous(builtin.ActiveContinuous()); err != nil {
					return err
				}
				return a.SetActiveDiscrete(builtin.ActiveDiscrete())
			})
		},
	}
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Drains the registry periodically and prints it whenever it changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return watch(ctx, interval)
		},
	}
)

func init() {
	addCmd.Flags().String("smoothing", colortable.SmoothingLinear.String(), util.WrapString("Smoothing method of the color table (None, Linear, CubicSpline)"))
	addCmd.Flags().Bool("discrete", false, util.WrapString("Whether the color table is discrete"))
	addCmd.Flags().Bool("equal-spacing", false, util.WrapString("Whether the control points are equally spaced"))
	addCmd.Flags().Bool("replace", false, util.WrapString("Replace an existing color table of the same name"))
	watchCmd.Flags().Duration("interval", time.Second, util.WrapString("How often the registry is drained"))
}

// parseTable builds a color table from the control point arguments and the add flags
func parseTable(cmd *cobra.Command, points []string) (*colortable.ControlPointList, error) {
	table := colortable.NewControlPointList()
	for _, arg := range points {
		p, err := colortable.ParseControlPoint(arg)
		if err != nil {
			return nil, err
		}
		table.AddControlPoint(p)
	}

	smoothing, _ := cmd.Flags().GetString("smoothing")
	m, ok := colortable.SmoothingMethodFromString(smoothing)
	if !ok {
		return nil, fmt.Errorf("invalid smoothing method %s", smoothing)
	}
	table.SetSmoothing(m)
	discrete, _ := cmd.Flags().GetBool("discrete")
	table.SetDiscrete(discrete)
	equalSpacing, _ := cmd.Flags().GetBool("equal-spacing")
	table.SetEqualSpacing(equalSpacing)
	return table, nil
}

// watch keeps a local copy of the registry that is updated with the drained changes
func watch(ctx context.Context, interval time.Duration) error {
	tables := colortable.NewAttributes()
	if err := replica.Fetch(rpcReplica, tables); err != nil {
		return err
	}
	fmt.Print(tables.Dump(""))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			before := tables.Copy()
			if err := replica.Receive(rpcReplica, tables); err != nil {
				return err
			}
			if !tables.Equal(before) {
				fmt.Printf("--- %s\n", time.Now().Format(time.TimeOnly))
				fmt.Print(tables.Dump(""))
			}
		}
	}
}
