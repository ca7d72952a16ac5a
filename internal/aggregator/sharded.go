package aggregator

import (
	"context"
	"hash/fnv"

	"golang.org/x/sync/errgroup"

	"pharmacy-counting-go/internal/record"
)

// FoldSharded folds records using one worker per shard. Records are routed by
// drug name hash, so each drug is owned by exactly one worker and sees its
// records in input order. Partial aggregators are merged once every worker is done.
func FoldSharded(ctx context.Context, records []record.Record, shards int) (*Aggregator, error) {
	if shards < 1 {
		shards = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	inputs := make([]chan record.Record, shards)
	partials := make([]*Aggregator, shards)

	for i := 0; i < shards; i++ {
		inputs[i] = make(chan record.Record, 256)
		partials[i] = New()
		in, part := inputs[i], partials[i]
		g.Go(func() error {
			for r := range in {
				part.Fold(r)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, in := range inputs {
				close(in)
			}
		}()
		for _, r := range records {
			select {
			case inputs[shardOf(r.DrugName(), shards)] <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := New()
	for _, part := range partials {
		out.Merge(part)
	}
	return out, nil
}

func shardOf(drug string, shards int) int {
	h := fnv.New32a()
	h.Write([]byte(drug))
	return int(h.Sum32() % uint32(shards))
}
