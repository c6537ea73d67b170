package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-fieldexpr/execution/data"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	var at []string

	cmd := &cobra.Command{
		Use:   "eval <script> <field>",
		Short: "Evaluate a field at mesh points",
		Long: `Evaluate a field at points of the configured mesh. Each --at point is located in
its owning element, so mesh_size and the sub-domain tag are those of that element.`,
		Example: `  # Evaluate at two points of the unit square
  fieldexpr eval heat.star heat --at 0.2,0.3 --at 0.7,0.1

  # Evaluate on a 3D mesh with a compiled plan
  fieldexpr eval heat.star heat --dim 3 --compile --at 0.5,0.5,0.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(at) == 0 {
				return fmt.Errorf("at least one --at point is required")
			}
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			n, err := loadField(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			m, err := cfg.BuildMesh(GetHandler(ctx))
			if err != nil {
				return err
			}

			pts := make([]data.Point, 0, len(at))
			for _, s := range at {
				coords, err := parseCoords(s)
				if err != nil {
					return err
				}
				p, err := m.MapPoint(coords...)
				if err != nil {
					return err
				}
				pts = append(pts, p)
			}

			ev, err := newEvaluator(ctx, cfg)
			if err != nil {
				return err
			}
			n, err = prepare(ctx, ev, cfg, n)
			if err != nil {
				return err
			}
			v, err := ev.Eval(ctx, n, data.NewBatch(pts...))
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout(), "Point", "Element", "Domain", "Value")
			for i, p := range pts {
				t.AppendRow([]any{at[i], p.Element, p.Domain, data.FormatRow(v, i)})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&at, "at", nil, "Point as comma-separated coordinates (repeatable)")
	return cmd
}

// parseCoords parses "x,y[,z]".
func parseCoords(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	coords := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q in %q: %w", part, s, err)
		}
		coords[i] = v
	}
	return coords, nil
}
