package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-fieldexpr/expr"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <script>",
		Short: "List the fields a script defines",
		Example: `  # List fields and parameters
  fieldexpr fields heat.star`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModule(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s (%s)\n", m.Name, m.ID)

			t := newTable(w, "Field", "Shape", "Nodes", "Expression")
			for _, name := range m.Names() {
				n := m.Fields[name]
				t.AppendRow([]any{name, n.Shape(), expr.Count(n), n})
			}
			t.Render()

			if len(m.Params) == 0 {
				return nil
			}
			pt := newTable(w, "Parameter", "Value")
			for _, name := range m.ParamNames() {
				pt.AppendRow([]any{name, formatFloat(m.Params[name].Value())})
			}
			pt.Render()
			return nil
		},
	}
}
