package mesh_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-fieldexpr/engine"
	"github.com/robbyt/go-fieldexpr/execution/data"
	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/testutil"
	"github.com/robbyt/go-fieldexpr/machines/mocks"
	"github.com/robbyt/go-fieldexpr/machines/plan/compiler"
	"github.com/robbyt/go-fieldexpr/mesh"
)

func newInterpreter(t *testing.T) *engine.Interpreter {
	t.Helper()
	ev, err := engine.New(engine.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	return ev
}

func unitSquare(t *testing.T, n int, opts ...mesh.Option) *mesh.Mesh {
	t.Helper()
	opts = append([]mesh.Option{mesh.WithLogHandler(testutil.NewTestHandler(t))}, opts...)
	m, err := mesh.UnitSquare(n, opts...)
	require.NoError(t, err)
	return m
}

func unitCube(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	m, err := mesh.UnitCube(n, mesh.WithLogHandler(testutil.NewTestHandler(t)))
	require.NoError(t, err)
	return m
}

// compile blocks until the plan for n is published.
func compile(t *testing.T, n expr.Node, optimize bool) expr.Node {
	t.Helper()
	ctx := context.Background()
	c, err := compiler.NewCompiler(compiler.WithOptimize(optimize), compiler.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	compiled, err := expr.Compile(ctx, n, c.Build, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, compiled.Wait(ctx))
	require.True(t, compiled.Ready())
	return compiled
}

// squaredError integrates (a-b)² over m.
func squaredError(t *testing.T, ev engine.Evaluator, m *mesh.Mesh, a, b expr.Node) float64 {
	t.Helper()
	d := expr.Must(expr.Sub(a, b))
	if d.Shape().Complex || d.Shape().IsVector() {
		d = expr.Must(expr.Abs(d))
	}
	e, err := mesh.IntegrateReal(context.Background(), ev, expr.Must(expr.Mul(d, d)), m, 5)
	require.NoError(t, err)
	return e
}

func TestConstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() (*mesh.Mesh, error)
		dim      int
		elements int
		boundary int
	}{
		{"unit square", func() (*mesh.Mesh, error) { return mesh.UnitSquare(3) }, 2, 18, 12},
		{"rectangle", func() (*mesh.Mesh, error) {
			return mesh.Rectangle([2]float64{-1, 0}, [2]float64{1, 0.5}, 4, 1)
		}, 2, 8, 10},
		{"unit cube", func() (*mesh.Mesh, error) { return mesh.UnitCube(2) }, 3, 48, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.dim, m.Dim())
			assert.Equal(t, tt.elements, m.Elements())
			assert.Equal(t, tt.boundary, m.BoundaryFacets())
			assert.Equal(t, 1, m.Domains())
		})
	}

	t.Run("errors", func(t *testing.T) {
		_, err := mesh.UnitSquare(0)
		require.ErrorIs(t, err, mesh.ErrResolution)
		_, err = mesh.UnitCube(-1)
		require.ErrorIs(t, err, mesh.ErrResolution)
		_, err = mesh.Rectangle([2]float64{1, 0}, [2]float64{0, 1}, 2, 2)
		require.ErrorIs(t, err, mesh.ErrBounds)
		_, err = mesh.UnitSquare(2, mesh.WithRegions(nil))
		require.ErrorIs(t, err, mesh.ErrRegion)
		_, err = mesh.UnitSquare(2, mesh.WithLogHandler(nil))
		require.Error(t, err)
	})
}

func TestMeasures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ev := newInterpreter(t)

	for _, m := range []*mesh.Mesh{unitSquare(t, 4), unitCube(t, 2)} {
		t.Run(m.String(), func(t *testing.T) {
			one := expr.Const(1)

			vol, err := mesh.IntegrateReal(ctx, ev, one, m, 0)
			require.NoError(t, err)
			assert.InDelta(t, 1, vol, 1e-12)

			b, err := m.BoundaryPoints(1)
			require.NoError(t, err)
			area, err := mesh.Sum(ctx, ev, one, b)
			require.NoError(t, err)
			assert.InDelta(t, float64(2*m.Dim()), real(area[0]), 1e-12)

			// divergence theorem: ∮ x·n_x = ∫ 1
			flux, err := mesh.Sum(ctx, ev, expr.Must(expr.Mul(expr.X(), expr.Must(expr.Index(expr.Must(expr.Normal(m.Dim())), 0)))), b)
			require.NoError(t, err)
			assert.InDelta(t, 1, real(flux[0]), 1e-12)

			// every element's normals integrate to zero over its own boundary
			eb, err := m.ElementBoundaryPoints(0)
			require.NoError(t, err)
			n, err := mesh.Sum(ctx, ev, expr.Must(expr.Normal(m.Dim())), eb)
			require.NoError(t, err)
			for _, c := range n {
				assert.InDelta(t, 0, real(c), 1e-12)
			}
		})
	}

	t.Run("polynomial exactness", func(t *testing.T) {
		m := unitSquare(t, 2)
		x2 := expr.Must(expr.Pow(expr.X(), 2))
		got, err := mesh.IntegrateReal(ctx, ev, expr.Must(expr.Mul(x2, expr.Y())), m, 3)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/6, got, 1e-14)

		c := unitCube(t, 1)
		got, err = mesh.IntegrateReal(ctx, ev, expr.Must(expr.Mul(expr.X(), expr.Must(expr.Mul(expr.Y(), expr.Z())))), c, 3)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/8, got, 1e-14)
	})
}

func TestMeshSize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ev := newInterpreter(t)

	tests := []struct {
		name   string
		m      *mesh.Mesh
		factor float64
	}{
		{"unit square", unitSquare(t, 5), 2},
		{"unit cube", unitCube(t, 3), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := expr.MeshSize()
			vol := expr.Must(expr.Div(expr.Must(expr.Pow(h, tt.m.Dim())), tt.factor))

			v, err := ev.Eval(ctx, vol, tt.m.Centroids())
			require.NoError(t, err)
			sum := 0.0
			for _, x := range v.RealData() {
				sum += x
			}
			assert.InDelta(t, 1, sum, 1e-12)

			diff := expr.Must(expr.Sub(h, compile(t, h, true)))
			inner, err := tt.m.IntegrationPoints(2)
			require.NoError(t, err)
			bnd, err := tt.m.ElementBoundaryPoints(2)
			require.NoError(t, err)
			for _, b := range []*data.Batch{inner, bnd} {
				v, err := ev.Eval(ctx, diff, b)
				require.NoError(t, err)
				for _, d := range v.RealData() {
					require.InDelta(t, 0, d, 1e-14)
				}
			}
		})
	}
}

func TestPowerScenario(t *testing.T) {
	t.Parallel()
	ev := newInterpreter(t)
	m := unitSquare(t, 5)
	base := expr.Must(expr.Add(expr.X(), 0.1))

	for p := range 10 {
		var c expr.Node = expr.Const(1.0)
		for range p {
			c = expr.Must(expr.Mul(c, base))
		}
		inv := expr.Must(expr.Div(1.0, c))

		assert.Less(t, squaredError(t, ev, m, expr.Must(expr.Pow(base, p)), c), 1e-14, "int %d", p)
		assert.Less(t, squaredError(t, ev, m, expr.Must(expr.Pow(base, -p)), inv), 1e-14, "negative %d", p)
		assert.Less(t, squaredError(t, ev, m, expr.Must(expr.Pow(base, float64(p))), c), 1e-14, "float %d", p)
		assert.Less(t, squaredError(t, ev, m, expr.Must(expr.Pow(base, expr.Const(float64(p)))), c), 1e-14, "node %d", p)
	}

	t.Run("cube forms integrate equal", func(t *testing.T) {
		cube := expr.Must(expr.Mul(expr.Must(expr.Mul(base, base)), base))
		want, err := mesh.IntegrateReal(context.Background(), ev, cube, m, 4)
		require.NoError(t, err)
		for _, n := range []expr.Node{
			expr.Must(expr.Pow(base, 3)),
			expr.Must(expr.Pow(base, 3.0)),
			expr.Must(expr.Pow(base, expr.Const(3))),
			compile(t, cube, true),
		} {
			got, err := mesh.IntegrateReal(context.Background(), ev, n, m, 4)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-14, n.String())
		}
	})
}

func TestRealImag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ev := newInterpreter(t)
	m := unitSquare(t, 5)
	cf := expr.ComplexConst(1 + 2i)

	p, err := m.MapPoint(0.4, 0.4)
	require.NoError(t, err)
	v, err := ev.EvalPoint(ctx, expr.Must(expr.Real(cf)), p)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Float(0, 0))

	p, err = m.MapPoint(0.2, 0.6)
	require.NoError(t, err)
	v, err = ev.EvalPoint(ctx, expr.Must(expr.Imag(cf)), p)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Float(0, 0))
}

func TestDomainwise(t *testing.T) {
	t.Parallel()
	ev := newInterpreter(t)

	inner, err := mesh.Disk(0.5, 0.5, 0.25)
	require.NoError(t, err)
	outer, err := mesh.Disk(0.5, 0.5, 0.4)
	require.NoError(t, err)
	m := unitSquare(t, 10, mesh.WithRegions(inner, outer))
	require.Equal(t, 3, m.Domains())

	seen := map[int]bool{}
	for i := range m.Elements() {
		seen[m.Tag(i)] = true
	}
	assert.Len(t, seen, 3)

	cVec := expr.Must(expr.DomainSelect(m.Domains(),
		expr.Must(expr.NewVector(expr.X(), expr.Y())),
		expr.VectorConst(1, 3),
		expr.ComplexVectorConst(1i, 2),
	))
	c := expr.Must(expr.Mul(expr.Must(expr.Index(cVec, 0)), expr.Must(expr.Index(cVec, 1))))

	for _, optimize := range []bool{false, true} {
		assert.Less(t, squaredError(t, ev, m, c, compile(t, c, optimize)), 1e-14)
	}
}

func TestMapPoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ev := newInterpreter(t)
	m := unitSquare(t, 5)

	xs := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	ys := make([]float64, len(xs))
	for i := range ys {
		ys[i] = 0.5
	}
	b, err := m.MapPoints(xs, ys)
	require.NoError(t, err)

	cf := expr.Must(expr.NewVector(expr.X(), expr.Y()))
	cf2 := expr.Must(expr.NewVector(expr.Y(), expr.Must(expr.Mul(expr.X(), 1i))))
	vals, err := ev.Eval(ctx, cf, b)
	require.NoError(t, err)
	vals2, err := ev.Eval(ctx, cf2, b)
	require.NoError(t, err)

	for i, x := range xs {
		assert.InDelta(t, x, vals.Float(i, 0), 1e-10)
		assert.InDelta(t, 0.5, vals.Float(i, 1), 1e-10)
		assert.Equal(t, complex(0.5, 0), vals2.Complex(i, 0))
		assert.Equal(t, complex(0, x), vals2.Complex(i, 1))

		single, err := ev.EvalPoint(ctx, cf, *b.At(i))
		require.NoError(t, err)
		assert.Equal(t, vals.FloatRow(i), single.FloatRow(0))
	}

	t.Run("point carries geometry", func(t *testing.T) {
		p, err := m.MapPoint(0.5, 0.5)
		require.NoError(t, err)
		assert.True(t, p.HasSize)
		assert.InDelta(t, 0.2, p.Size, 1e-14)
		assert.GreaterOrEqual(t, p.Element, 0)
		assert.Equal(t, 2, p.Dim)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := m.MapPoint(1.5, 0.5)
		require.ErrorIs(t, err, mesh.ErrOutside)
		_, err = m.MapPoint(0.5)
		require.ErrorIs(t, err, mesh.ErrDimension)
		_, err = m.MapPoints(xs, ys[:2])
		require.ErrorIs(t, err, mesh.ErrCoordinateCount)
		_, err = m.MapPoints(xs)
		require.ErrorIs(t, err, mesh.ErrDimension)
		_, err = m.IntegrationPoints(-1)
		require.ErrorIs(t, err, mesh.ErrOrder)
		_, err = m.BoundaryPoints(-1)
		require.ErrorIs(t, err, mesh.ErrOrder)
		_, err = mesh.IntegrateReal(ctx, ev, cf, m, 1)
		require.ErrorIs(t, err, mesh.ErrNotRealScalar)
	})
}

func TestRegions(t *testing.T) {
	t.Parallel()

	t.Run("planar", func(t *testing.T) {
		r, err := mesh.Rect([2]float64{0, 0}, [2]float64{0.5, 1})
		require.NoError(t, err)
		assert.True(t, r.Contains([3]float64{0.25, 0.5, 0}))
		assert.False(t, r.Contains([3]float64{0.75, 0.5, 0}))

		_, err = mesh.Rect([2]float64{1, 0}, [2]float64{0, 1})
		require.ErrorIs(t, err, mesh.ErrRegion)

		m := unitSquare(t, 4, mesh.WithRegions(r))
		for i := range m.Elements() {
			c := m.Centroids().At(i).Coords
			if c[0] < 0.5 {
				assert.Equal(t, 0, m.Tag(i))
			} else {
				assert.Equal(t, 1, m.Tag(i))
			}
		}
	})

	t.Run("solid", func(t *testing.T) {
		ball, err := mesh.Ball([3]float64{0, 0, 0}, 0.5)
		require.NoError(t, err)
		block, err := mesh.Block([3]float64{0, 0, 0.5}, [3]float64{1, 1, 1})
		require.NoError(t, err)
		assert.True(t, ball.Contains([3]float64{0.1, 0.1, 0.1}))
		assert.True(t, block.Contains([3]float64{0.9, 0.9, 0.9}))
		assert.False(t, block.Contains([3]float64{0.9, 0.9, 0.1}))

		m, err := mesh.UnitCube(2, mesh.WithRegions(ball, block), mesh.WithLogHandler(testutil.NewTestHandler(t)))
		require.NoError(t, err)
		assert.Equal(t, 3, m.Domains())
		for i := range m.Elements() {
			assert.InDelta(t, 0.5, m.Size(i), 1e-14)
			assert.InDelta(t, 1.0/48, m.Measure(i), 1e-15)
		}
	})

	t.Run("invalid radius", func(t *testing.T) {
		_, err := mesh.Disk(0, 0, -1)
		require.ErrorIs(t, err, mesh.ErrRegion)
		_, err = mesh.Ball([3]float64{}, -1)
		require.ErrorIs(t, err, mesh.ErrRegion)
	})
}

func TestSumUsesWeights(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	a, b := data.At(0.1, 0.1), data.At(0.9, 0.9)
	a.Weight, b.Weight = 0.25, 0.75
	batch := data.NewBatch(a, b)
	n := expr.X()

	ev := &mocks.Evaluator{}
	ev.On("Eval", ctx, n, batch).Return(data.FromReal(2, true, []float64{2, 4, 6, 8}), nil).Once()
	sums, err := mesh.Sum(ctx, ev, n, batch)
	require.NoError(t, err)
	assert.Equal(t, []complex128{5, 7}, sums)

	ev.On("Eval", ctx, n, batch).Return(nil, engine.ErrMissingGeometry).Once()
	_, err = mesh.Sum(ctx, ev, n, batch)
	require.ErrorIs(t, err, engine.ErrMissingGeometry)
	ev.AssertExpectations(t)
}
