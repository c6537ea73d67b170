package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-fieldexpr/machines/plan/compiler"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <script> <field>",
		Short: "Show the evaluation plan of a field",
		Example: `  # Optimized plan
  fieldexpr plan heat.star heat

  # Plan without common sub-expression elimination, folding or fusion
  fieldexpr plan heat.star heat --optimize=false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)

			n, err := loadField(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			c, err := compiler.NewCompiler(
				compiler.WithOptimize(cfg.Optimize),
				compiler.WithLogHandler(GetHandler(ctx)),
			)
			if err != nil {
				return err
			}
			p, err := c.Compile(ctx, n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return err
		},
	}
}
