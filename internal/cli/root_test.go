package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-fieldexpr/machines/starlark"
)

const script = `
f = x + 0.1
cube = f * f * f
wind = vec(y, x)
one = 0 * x + 1
c = complex(1, 2)
k = parameter(2.0, name = "k")
heat = k * x
`

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fields.star")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

// tableRows returns the trimmed cells of every table row in out, header included.
func tableRows(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "│") {
			continue
		}
		cells := strings.Split(strings.Trim(line, "│"), "│")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fieldexpr v"+Version)
}

func TestFieldsCommand(t *testing.T) {
	out, err := run(t, "fields", writeScript(t))
	require.NoError(t, err)
	assert.Contains(t, out, "fields.star")
	for _, want := range []string{"cube", "wind", "real[2]", "complex", "heat"} {
		assert.Contains(t, out, want)
	}

	rows := tableRows(out)
	assert.Contains(t, rows, []string{"FIELD", "SHAPE", "NODES", "EXPRESSION"})
	assert.Contains(t, rows, []string{"PARAMETER", "VALUE"})
}

func TestEvalCommand(t *testing.T) {
	path := writeScript(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"vector", []string{"eval", path, "wind", "--at", "0.25,0.5"}, "(0.5, 0.25)"},
		{"compiled", []string{"eval", path, "wind", "--at", "0.25,0.5", "--compile"}, "(0.5, 0.25)"},
		{"parameter", []string{"eval", path, "heat", "--at", "0.25,0.5"}, "0.5"},
		{"cube", []string{"eval", path, "cube", "--at", "0.9,0.1", "--at", "0.2,0.2", "--n", "2"}, "0.9,0.1"},
		{"3d", []string{"eval", path, "wind", "--dim", "3", "--n", "2", "--at", "0.25,0.5,0.5"}, "(0.5, 0.25)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			rows := tableRows(out)
			require.NotEmpty(t, rows)
			assert.Equal(t, []string{"POINT", "ELEMENT", "DOMAIN", "VALUE"}, rows[0])
		})
	}
}

func TestIntegrateCommand(t *testing.T) {
	path := writeScript(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"area", []string{"integrate", path, "one"}, []string{"0", "1"}},
		{"linear", []string{"integrate", path, "heat", "--compile"}, []string{"0", "1"}},
		{"complex", []string{"integrate", path, "c", "--n", "2"}, []string{"0", "(1+2i)"}},
		{"vector", []string{"integrate", path, "wind"}, []string{"1", "0.5"}},
		{"boundary", []string{"integrate", path, "one", "--boundary"}, []string{"0", "4"}},
		{"volume", []string{"integrate", path, "one", "--dim", "3", "--n", "2"}, []string{"0", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "order 4")
			assert.Contains(t, tableRows(out), tt.want)
		})
	}
}

func TestPlanCommand(t *testing.T) {
	path := writeScript(t)

	out, err := run(t, "plan", path, "cube")
	require.NoError(t, err)
	assert.Contains(t, out, "plan ")
	assert.Contains(t, out, "fused")

	out, err = run(t, "plan", path, "cube", "--optimize=false")
	require.NoError(t, err)
	assert.NotContains(t, out, "fused")
}

func TestCommandErrors(t *testing.T) {
	path := writeScript(t)

	t.Run("unknown field", func(t *testing.T) {
		_, err := run(t, "eval", path, "nope", "--at", "0.5,0.5")
		require.ErrorIs(t, err, starlark.ErrFieldNotFound)
	})

	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{"no points", []string{"eval", path, "cube"}, "--at"},
		{"bad coordinate", []string{"eval", path, "cube", "--at", "0.5,abc"}, "invalid coordinate"},
		{"outside mesh", []string{"eval", path, "cube", "--at", "2,2"}, "outside"},
		{"missing script", []string{"fields", filepath.Join(t.TempDir(), "none.star")}, "failed to read script"},
		{"bad dim", []string{"integrate", path, "one", "--dim", "4"}, "mesh.dim"},
		{"bad level", []string{"fields", path, "--log-level", "loud"}, "log_level"},
		{"args", []string{"plan", path}, "accepts 2 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
