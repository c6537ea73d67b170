package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-fieldexpr/mesh"
)

// NewIntegrateCommand creates the integrate command.
func NewIntegrateCommand() *cobra.Command {
	var boundary bool

	cmd := &cobra.Command{
		Use:   "integrate <script> <field>",
		Short: "Integrate a field over the mesh",
		Long: `Integrate a field over the configured mesh, or over its boundary with --boundary,
and print one integral per component.`,
		Example: `  # Integrate over the unit square
  fieldexpr integrate heat.star heat

  # Boundary flux on a finer mesh
  fieldexpr integrate heat.star flux --boundary --n 32 --order 6`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			ev, err := newEvaluator(ctx, cfg)
			if err != nil {
				return err
			}
			n, err = prepare(ctx, ev, cfg, n)
			if err != nil {
				return err
			}

			start := time.Now()
			var sums []complex128
			if boundary {
				b, err := m.BoundaryPoints(cfg.Order)
				if err != nil {
					return err
				}
				sums, err = mesh.Sum(ctx, ev, n, b)
				if err != nil {
					return err
				}
			} else {
				sums, err = mesh.Integrate(ctx, ev, n, m, cfg.Order)
				if err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s, order %d\n", m, cfg.Order)
			t := newTable(w, "Component", "Integral")
			for c, s := range sums {
				t.AppendRow([]any{c, formatComplex(s)})
			}
			t.Render()
			_, _ = fmt.Fprintf(w, "(%s)\n", elapsed.Round(time.Microsecond))
			return nil
		},
	}

	cmd.Flags().BoolVar(&boundary, "boundary", false, "Integrate over the boundary facets instead")
	return cmd
}
