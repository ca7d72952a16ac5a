// Package pipeline drives one run: it reads lines from a source, validates
// them into records and folds the valid ones into an aggregator.
package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"pharmacy-counting-go/internal/aggregator"
	"pharmacy-counting-go/internal/dataset"
	"pharmacy-counting-go/internal/record"
	"pharmacy-counting-go/internal/types"
)

// RejectFunc is told about every skipped line. line is 1-based.
type RejectFunc func(line int, err error)

type Options struct {
	// SkipHeader drops the first row when it does not validate as an order.
	// A first row that does validate is folded like any other.
	SkipHeader bool
	// Shards > 1 folds with one worker per shard after reading all input.
	Shards   int
	OnReject RejectFunc
}

type Stats struct {
	Lines   int
	Folded  int
	Skipped int
	// HeaderLine is the line dropped as a header, or 0.
	HeaderLine int
}

// Run consumes src until io.EOF. Malformed and invalid lines are reported
// through OnReject and skipped; any other source error ends the run.
func Run(ctx context.Context, src dataset.Source, opts Options) (*aggregator.Aggregator, Stats, error) {
	var stats Stats
	reject := opts.OnReject
	if reject == nil {
		reject = func(int, error) {}
	}

	sharded := opts.Shards > 1
	agg := aggregator.New()
	var pending []record.Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Lines++
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, stats, fmt.Errorf("read line %d: %w", stats.Lines, err)
			}
			stats.Skipped++
			reject(parseErr.StartLine, err)
			continue
		}

		rec, err := record.New(types.RawOrderFromFields(fields))
		if err != nil {
			if opts.SkipHeader && stats.Lines == 1 {
				stats.HeaderLine = src.Line()
				continue
			}
			stats.Skipped++
			reject(src.Line(), err)
			continue
		}
		stats.Folded++
		if sharded {
			pending = append(pending, rec)
		} else {
			agg.Fold(rec)
		}
	}

	if sharded {
		var err error
		agg, err = aggregator.FoldSharded(ctx, pending, opts.Shards)
		if err != nil {
			return nil, stats, err
		}
	}
	return agg, stats, nil
}
