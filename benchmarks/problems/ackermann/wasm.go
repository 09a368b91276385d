package ackermann

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ErrNegativeInput is returned by Evaluator.Eval when m or n is negative.
var ErrNegativeInput = errors.New("ackermann: negative input")

const exportName = "ackermann"

// ackermannWasm exports ackermann(i32, i32) -> i32, equivalent to:
//
//	(func (export "ackermann") (param $m i32) (param $n i32) (result i32)
//	  (if (result i32) (i32.eqz (local.get $m))
//	    (then (i32.add (local.get $n) (i32.const 1)))
//	    (else
//	      (if (result i32) (i32.eqz (local.get $n))
//	        (then (call 0 (i32.sub (local.get $m) (i32.const 1)) (i32.const 1)))
//	        (else
//	          (call 0
//	            (i32.sub (local.get $m) (i32.const 1))
//	            (call 0 (local.get $m) (i32.sub (local.get $n) (i32.const 1)))))))))
var ackermannWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version

	// type section: (i32, i32) -> i32
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,

	// function section: func 0 has type 0
	0x03, 0x02, 0x01, 0x00,

	// export section: "ackermann" -> func 0
	0x07, 0x0d, 0x01,
	0x09, 'a', 'c', 'k', 'e', 'r', 'm', 'a', 'n', 'n',
	0x00, 0x00,

	// code section
	0x0a, 0x30, 0x01,
	0x2e,                         // body size
	0x00,                         // no locals
	0x20, 0x00, 0x45, 0x04, 0x7f, // local.get 0; i32.eqz; if (result i32)
	0x20, 0x01, 0x41, 0x01, 0x6a, // local.get 1; i32.const 1; i32.add
	0x05,                         // else
	0x20, 0x01, 0x45, 0x04, 0x7f, // local.get 1; i32.eqz; if (result i32)
	0x20, 0x00, 0x41, 0x01, 0x6b, // local.get 0; i32.const 1; i32.sub
	0x41, 0x01, 0x10, 0x00,       // i32.const 1; call 0
	0x05,                         // else
	0x20, 0x00, 0x41, 0x01, 0x6b, // local.get 0; i32.const 1; i32.sub
	0x20, 0x00, 0x20, 0x01,       // local.get 0; local.get 1
	0x41, 0x01, 0x6b,             // i32.const 1; i32.sub
	0x10, 0x00, 0x10, 0x00,       // call 0; call 0
	0x0b,                         // end
	0x0b,                         // end
	0x0b,                         // end
}

type config struct {
	interpreter        bool
	closeOnContextDone bool
	logger             *slog.Logger
}

// Option configures an Evaluator.
type Option func(*config)

// WithInterpreter uses wazero's interpreter instead of its compiler. The
// interpreter has a much lower call depth ceiling.
func WithInterpreter() Option {
	return func(c *config) { c.interpreter = true }
}

// WithCloseOnContextDone aborts a guest call when its context is done. Only
// the instance serving that call is closed; other calls are unaffected.
func WithCloseOnContextDone(enabled bool) Option {
	return func(c *config) { c.closeOnContextDone = enabled }
}

// WithLogger sets the logger for runtime events. Output is discarded by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Evaluator runs the Ackermann function as a WebAssembly guest using 32-bit
// signed arithmetic. Eval is safe for concurrent use.
type Evaluator struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	logger   *slog.Logger
}

// NewEvaluator compiles the guest once. Each Eval runs in its own instance.
func NewEvaluator(ctx context.Context, opts ...Option) (*Evaluator, error) {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}

	var rc wazero.RuntimeConfig
	if c.interpreter {
		rc = wazero.NewRuntimeConfigInterpreter()
	} else {
		rc = wazero.NewRuntimeConfig()
	}
	rc = rc.WithCloseOnContextDone(c.closeOnContextDone)

	r := wazero.NewRuntimeWithConfig(ctx, rc)
	compiled, err := r.CompileModule(ctx, ackermannWasm)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("compile ackermann module: %w", err)
	}
	c.logger.DebugContext(ctx, "compiled ackermann module",
		slog.Bool("interpreter", c.interpreter),
		slog.Bool("closeOnContextDone", c.closeOnContextDone))

	return &Evaluator{runtime: r, compiled: compiled, logger: c.logger}, nil
}

// Eval returns ackermann(m, n). Running out of guest call stack is reported
// as an error rather than crashing the process.
func (e *Evaluator) Eval(ctx context.Context, m, n int32) (int32, error) {
	if m < 0 || n < 0 {
		return 0, fmt.Errorf("%w: ackermann(%d, %d)", ErrNegativeInput, m, n)
	}

	// Anonymous instances aren't registered, so any number can coexist.
	mod, err := e.runtime.InstantiateModule(ctx, e.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return 0, fmt.Errorf("instantiate ackermann module: %w", err)
	}
	defer mod.Close(ctx)

	results, err := mod.ExportedFunction(exportName).Call(ctx, api.EncodeI32(m), api.EncodeI32(n))
	if err != nil {
		e.logger.DebugContext(ctx, "guest call failed",
			slog.Int("m", int(m)), slog.Int("n", int(n)), slog.Any("err", err))
		return 0, fmt.Errorf("ackermann(%d, %d): %w", m, n, err)
	}
	return api.DecodeI32(results[0]), nil
}

// Close releases the runtime and every instance still open.
func (e *Evaluator) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
