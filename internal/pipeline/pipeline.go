// Package pipeline is the batch collaborator around the engine: it reads
// record rows from a delimited source, runs each field map through the
// engine, and writes verdict rows to a sink. All decision logic lives in
// the engine; the pipeline is plumbing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/dativo-io/shroud/internal/engine"
	shroudotel "github.com/dativo-io/shroud/internal/otel"
	"github.com/dativo-io/shroud/internal/record"
)

var tracer = shroudotel.Tracer("github.com/dativo-io/shroud/internal/pipeline")

var meter = otel.Meter("github.com/dativo-io/shroud/internal/pipeline")

var (
	recordsTotal   metric.Int64Counter
	recordsPII     metric.Int64Counter
	recordsSkipped metric.Int64Counter
)

func init() {
	var err error
	recordsTotal, err = meter.Int64Counter("pipeline.records.total",
		metric.WithDescription("Total records processed"))
	if err != nil {
		recordsTotal, _ = meter.Int64Counter("pipeline.records.total.fallback")
	}

	recordsPII, err = meter.Int64Counter("pipeline.records.pii",
		metric.WithDescription("Records with a true is_pii verdict"))
	if err != nil {
		recordsPII, _ = meter.Int64Counter("pipeline.records.pii.fallback")
	}

	recordsSkipped, err = meter.Int64Counter("pipeline.records.skipped",
		metric.WithDescription("Records passed through unredacted due to malformed input"))
	if err != nil {
		recordsSkipped, _ = meter.Int64Counter("pipeline.records.skipped.fallback")
	}
}

// DefaultWorkers is the per-run concurrency when the caller does not choose.
// The engine is pure per record, so the pool needs no coordination beyond
// reassembling output order.
const DefaultWorkers = 8

// Stats summarizes one pipeline run.
type Stats struct {
	Records   int `json:"records"`
	PII       int `json:"pii"`
	Malformed int `json:"malformed"`
}

// Run reads every row from in, processes the rows concurrently, and writes
// results to out in input order. Malformed rows (unparseable data_json) do
// not abort the run: they are passed through unredacted with a false
// verdict, mirroring the contract that one bad record must not affect any
// other.
func Run(ctx context.Context, in io.Reader, out io.Writer, eng *engine.Engine, workers int) (Stats, error) {
	ctx, span := tracer.Start(ctx, "pipeline.run")
	defer span.End()

	if workers <= 0 {
		workers = DefaultWorkers
	}

	src, err := NewSource(in)
	if err != nil {
		return Stats{}, err
	}
	sink, err := NewSink(out)
	if err != nil {
		return Stats{}, err
	}

	rows := make(chan Row)
	results := make(chan Result)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rows)
		for {
			row, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			select {
			case rows <- row:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var workerGroup errgroup.Group
	for i := 0; i < workers; i++ {
		workerGroup.Go(func() error {
			for row := range rows {
				res := processRow(ctx, eng, row)
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		_ = workerGroup.Wait()
		close(results)
	}()

	var stats Stats
	g.Go(func() error {
		// Reassemble input order: results arrive in completion order.
		pending := make(map[int]Result)
		nextIdx := 0
		flush := func() error {
			for {
				res, ok := pending[nextIdx]
				if !ok {
					return nil
				}
				delete(pending, nextIdx)
				nextIdx++
				if err := sink.Write(res); err != nil {
					return err
				}
			}
		}
		for res := range results {
			stats.Records++
			if res.IsPII {
				stats.PII++
			}
			if res.Malformed {
				stats.Malformed++
			}
			pending[res.Index] = res
			if err := flush(); err != nil {
				return err
			}
		}
		if len(pending) > 0 {
			// Drain stragglers deterministically if the reader stopped early.
			keys := make([]int, 0, len(pending))
			for k := range pending {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			for _, k := range keys {
				if err := sink.Write(pending[k]); err != nil {
					return err
				}
			}
		}
		return sink.Flush()
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}

	recordsTotal.Add(ctx, int64(stats.Records))
	recordsPII.Add(ctx, int64(stats.PII))
	span.SetAttributes(
		attribute.Int("pipeline.records", stats.Records),
		attribute.Int("pipeline.pii", stats.PII),
	)

	log.Info().
		Int("records", stats.Records).
		Int("pii", stats.PII).
		Func(shroudotel.LogTraceFields(ctx)).
		Msg("pipeline_run_complete")

	return stats, nil
}

// processRow runs one row through the engine. Parse failures are confined
// to the row: the raw payload is passed through with a false verdict.
func processRow(ctx context.Context, eng *engine.Engine, row Row) Result {
	res := Result{Index: row.Index, RecordID: row.RecordID}

	if row.DataJSON == "" {
		res.RedactedJSON = "{}"
		return res
	}

	fields, err := record.ParseFieldMap([]byte(row.DataJSON))
	if err != nil {
		recordsSkipped.Add(ctx, 1)
		log.Warn().
			Str("record_id", row.RecordID).
			Err(err).
			Msg("malformed_field_map_passthrough")
		res.RedactedJSON = row.DataJSON
		res.Malformed = true
		return res
	}

	redacted, verdict := eng.Process(ctx, fields)
	res.IsPII = verdict

	outJSON, err := redacted.Marshal()
	if err != nil {
		// Field maps hold only scalars, so this should be unreachable;
		// fail closed with an empty object rather than leaking the input.
		log.Error().Str("record_id", row.RecordID).Err(err).Msg("serializing_redacted_map")
		res.RedactedJSON = "{}"
		return res
	}
	res.RedactedJSON = string(outJSON)
	return res
}
