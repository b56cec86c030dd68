// Package engine implements field-level PII classification and redaction
// for structured records. The engine is pure per record: Classify, Decide,
// and Redact share no mutable state and are safe to call concurrently.
package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	shroudotel "github.com/dativo-io/shroud/internal/otel"
	"github.com/dativo-io/shroud/internal/record"
)

var tracer = shroudotel.Tracer("github.com/dativo-io/shroud/internal/engine")

// Engine evaluates field maps against an immutable compiled Ruleset.
type Engine struct {
	rules *Ruleset
}

// Option configures an Engine via the functional options pattern.
type Option func(*engineConfig)

type engineConfig struct {
	rulesFile         string
	customRecognizers []RecognizerConfig
	ruleset           *Ruleset
}

// WithRulesFile layers recognizers from an operator rules YAML file on top
// of the embedded defaults. If the file does not exist, it is silently
// skipped.
func WithRulesFile(path string) Option {
	return func(c *engineConfig) { c.rulesFile = path }
}

// WithCustomRecognizers adds per-call custom recognizer definitions, merged
// after the rules file.
func WithCustomRecognizers(recognizers []RecognizerConfig) Option {
	return func(c *engineConfig) { c.customRecognizers = recognizers }
}

// WithRuleset bypasses the merge chain entirely and uses a pre-compiled
// ruleset. Intended for tests that substitute a minimal rule table.
func WithRuleset(rs *Ruleset) Option {
	return func(c *engineConfig) { c.ruleset = rs }
}

// New creates an Engine. Without options it uses the embedded Indian-profile
// defaults. Options layer operator and per-call recognizers on top.
func New(opts ...Option) (*Engine, error) {
	var cfg engineConfig
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.ruleset != nil {
		return &Engine{rules: cfg.ruleset}, nil
	}

	// Layer 1: embedded defaults
	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	// Layer 2: operator rules file (optional)
	var operatorRecs []RecognizerConfig
	if cfg.rulesFile != "" {
		rf, err := LoadRecognizerFile(cfg.rulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading rules file: %w", err)
		}
		if rf != nil {
			operatorRecs = rf.Recognizers
		}
	}

	merged := MergeRecognizers(defaults, operatorRecs, cfg.customRecognizers)

	rules, err := CompileRules(merged)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}

	return &Engine{rules: rules}, nil
}

// MustNew is like New but panics on error. Useful for zero-config startup
// where the embedded defaults are expected to always compile.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("engine.New: %v", err))
	}
	return e
}

// Process chains Classify, Decide, and Redact for one field map and returns
// the redacted copy plus the record verdict. It introduces no decision logic
// of its own.
func (e *Engine) Process(ctx context.Context, fields record.FieldMap) (record.FieldMap, bool) {
	_, span := tracer.Start(ctx, "engine.process")
	defer span.End()

	tags := e.Classify(fields)
	verdict := e.Decide(tags)
	redacted := e.Redact(fields, tags, verdict)

	standalone, combinatorial := 0, 0
	for _, t := range tags {
		switch t.Kind {
		case KindStandalone:
			standalone++
		case KindCombinatorial:
			combinatorial++
		}
	}
	span.SetAttributes(
		attribute.Bool("pii.detected", verdict),
		attribute.Int("pii.field_count", len(fields)),
		attribute.Int("pii.standalone_fields", standalone),
		attribute.Int("pii.combinatorial_fields", combinatorial),
	)

	return redacted, verdict
}
