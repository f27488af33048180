// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lakegate Contributors

// Package perm compiles textual permission grants into a normalized
// permission graph: the most-permissive union of all granted scopes. The
// graph is the only artifact handed to the decision layer, which treats it
// as read-only.
package perm

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"

	"github.com/lakegate/lakegate/internal/perm/grammar"
	"github.com/lakegate/lakegate/internal/perm/types"
)

var tracer = otel.Tracer("lakegate/perm")

// Compiler turns batches of permission strings into permission graphs.
// Compilation is pure and synchronous; a Compiler is safe for concurrent use.
type Compiler struct {
	strict bool
	logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithStrict makes Compile abort the whole batch on the first grant that
// fails to parse or extract, instead of collecting a diagnostic and moving
// on. Use it at the policy-authoring surface, where a bad grant means the
// author made a mistake right now.
func WithStrict() Option {
	return func(c *Compiler) { c.strict = true }
}

// WithLogger sets the logger used for per-grant diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Diagnostic records one grant that contributed no paths and why.
type Diagnostic struct {
	Input string
	Code  string
	Err   error
}

// Result is the outcome of compiling one batch.
type Result struct {
	// BatchID correlates logs and diagnostics with one Compile call.
	BatchID ulid.ULID

	// Graph is the compiled permission graph. It is never invalid, only
	// incomplete relative to the intended policy when Diagnostics is
	// non-empty.
	Graph *types.Node

	// Diagnostics lists the grants that were dropped. The graph alone
	// cannot reveal that something was dropped; callers that care must
	// inspect this.
	Diagnostics []Diagnostic
}

// Compile parses every grant in the batch, extracts its paths, and reduces
// the union into a single graph. Failures are scoped to the offending grant:
// by default the grant is logged, recorded as a diagnostic, and skipped. In
// strict mode the first failure aborts the batch.
//
// Identical graphs come out of any permutation or repetition of the same
// batch; deduplication of inputs is the caller's concern but never required.
func (c *Compiler) Compile(ctx context.Context, grants []string) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "perm.Compile")
	defer span.End()

	batchID := ulid.Make()
	var (
		paths       []types.Path
		diagnostics []Diagnostic
		compiled    int
	)

	for _, raw := range grants {
		extracted, err := compileOne(raw)
		if err != nil {
			if c.strict {
				return nil, oops.
					With("batch_id", batchID.String()).
					With("grant", raw).
					Wrapf(err, "compiling grant batch")
			}
			diagnostics = append(diagnostics, Diagnostic{
				Input: raw,
				Code:  errorCode(err),
				Err:   err,
			})
			c.logger.WarnContext(ctx, "dropping permission grant",
				"batch_id", batchID.String(),
				"grant", raw,
				"code", errorCode(err),
				"error", err,
			)
			continue
		}
		paths = append(paths, extracted...)
		compiled++
	}

	graph := Reduce(paths)
	recordCompileMetrics(time.Since(start), diagnostics, compiled)

	c.logger.DebugContext(ctx, "compiled permission batch",
		"batch_id", batchID.String(),
		"grants", len(grants),
		"compiled", compiled,
		"dropped", len(diagnostics),
		"paths", len(paths),
	)

	return &Result{
		BatchID:     batchID,
		Graph:       graph,
		Diagnostics: diagnostics,
	}, nil
}

// compileOne takes a single grant from text to paths.
func compileOne(raw string) ([]types.Path, error) {
	tree, err := grammar.Parse(raw)
	if err != nil {
		return nil, err
	}
	return Extract(tree)
}

func errorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	code, _ := oopsErr.Code().(string)
	return code
}
