package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBounded runs task over every input with at most limit tasks in flight and
// returns the outputs in input order. Tasks report failure through their own
// output value; the runner never inspects it. A limit below 1 is treated as 1.
func RunBounded[In, Out any](ctx context.Context, inputs []In, limit int, task func(ctx context.Context, index int, input In) Out) []Out {
	outputs := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return outputs
	}
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, input := range inputs {
		g.Go(func() error {
			outputs[i] = task(ctx, i, input)
			return nil
		})
	}

	_ = g.Wait()
	return outputs
}
