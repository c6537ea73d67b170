// Package starlark loads field definitions written in Starlark. A script builds fields
// from the predeclared coordinates, special fields and builtins with ordinary arithmetic;
// every global bound to a field is exported as an expression node.
package starlark

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-fieldexpr/expr"
	"github.com/robbyt/go-fieldexpr/internal/helpers"
	"github.com/robbyt/go-fieldexpr/machines/plan/compiler"
)

// ctxKey is the thread-local key holding the load context.
const ctxKey = "fieldexpr.ctx"

// Loader executes field scripts.
type Loader struct {
	logHandler slog.Handler
	logger     *slog.Logger
}

// Module is the result of loading one script.
type Module struct {
	Name string
	// ID is a short content hash of the script body.
	ID string
	// Fields maps global names to the fields they are bound to, parameters excluded.
	Fields map[string]expr.Node
	// Params maps global names to the parameters the script declared.
	Params map[string]*expr.Parameter
}

// Names returns the field names in sorted order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParamNames returns the parameter names in sorted order.
func (m *Module) ParamNames() []string {
	return slices.Sorted(maps.Keys(m.Params))
}

// Field returns the named field or parameter.
func (m *Module) Field(name string) (expr.Node, error) {
	if n, ok := m.Fields[name]; ok {
		return n, nil
	}
	if p, ok := m.Params[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrFieldNotFound, name, m.Name)
}

// NewLoader creates a field script loader with the provided options.
func NewLoader(opts ...FunctionalOption) (*Loader, error) {
	l := &Loader{}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("error applying loader option: %w", err)
		}
	}
	l.applyDefaults()
	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("invalid loader configuration: %w", err)
	}

	if l.logger != nil {
		l.logHandler = l.logger.Handler()
	} else {
		l.logHandler, l.logger = helpers.SetupLogger(l.logHandler, "starlark", "Loader")
	}
	return l, nil
}

func (l *Loader) String() string {
	return "starlark.Loader"
}

// Load runs the script once with a fresh loader.
func Load(ctx context.Context, name string, src []byte, opts ...FunctionalOption) (*Module, error) {
	l, err := NewLoader(opts...)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, name, src)
}

// Load compiles and runs the script, then collects its field and parameter globals.
func (l *Loader) Load(ctx context.Context, name string, src []byte) (*Module, error) {
	id := helpers.ContentID(string(src))
	logger := l.logger.WithGroup("load").With("script", name, "id", id)

	predeclared := l.standardModules()
	prog, err := compile(name, src, predeclared)
	if err != nil {
		logger.Warn("compilation failed", "error", err)
		return nil, err
	}

	thread := &starlarkLib.Thread{
		Name: name,
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
	thread.SetLocal(ctxKey, ctx)

	// Set up cancellation from context
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	start := time.Now()
	globals, err := prog.Init(thread, predeclared)
	if err != nil {
		logger.Warn("script failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScriptFailed, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrScriptFailed, err)
	}
	globals.Freeze()

	m := &Module{
		Name:   name,
		ID:     id,
		Fields: make(map[string]expr.Node),
		Params: make(map[string]*expr.Parameter),
	}
	for key, v := range globals {
		f, ok := v.(*Field)
		if !ok {
			continue
		}
		if p, ok := f.node.(*expr.Parameter); ok {
			m.Params[key] = p
			continue
		}
		m.Fields[key] = f.node
	}
	logger.Debug("script loaded",
		"fields", len(m.Fields),
		"params", len(m.Params),
		"elapsed", time.Since(start),
	)
	return m, nil
}

// compileField wraps n in a compiled node from within a running script.
func (l *Loader) compileField(ctx context.Context, n expr.Node, optimize, wait bool) (*expr.Compiled, error) {
	c, err := compiler.NewCompiler(compiler.WithOptimize(optimize), compiler.WithLogHandler(l.logHandler))
	if err != nil {
		return nil, err
	}
	compiled, err := expr.Compile(ctx, n, c.Build, l.logger)
	if err != nil {
		return nil, err
	}
	if wait {
		// a failed build leaves the node on interpreted evaluation
		if err := compiled.Wait(ctx); err != nil && ctx.Err() != nil {
			return nil, err
		}
	}
	return compiled, nil
}

func threadContext(thread *starlarkLib.Thread) context.Context {
	if ctx, ok := thread.Local(ctxKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
