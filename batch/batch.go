// Package batch parses independent JSON documents concurrently. Each
// document gets its own scratch buffer — the single-buffer design
// that makes one parse allocation-free doesn't extend across
// documents, so batch parallelizes across parses instead of trying to
// share one buffer.
package batch

import (
	"context"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	wordjson "github.com/biggeezerdevelopment/wordjson"
)

// ParseAll parses every element of inputs concurrently, one goroutine
// per document via errgroup, and returns their documents in the same
// order as inputs. The first error encountered cancels the group's
// context, so any goroutine that hasn't started its parse yet skips it
// and returns immediately; a parse already in progress still runs to
// completion, since Parse itself has no internal cancellation point to
// check against a context.
func ParseAll(ctx context.Context, inputs [][]byte) ([]*wordjson.Document, error) {
	docs := make([]*wordjson.Document, len(inputs))
	g, gctx := errgroup.WithContext(ctx)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := wordjson.ParseBytes(input)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Result pairs a parsed document with the error from parsing it, index
// preserved against the original input slice.
type Result struct {
	Index int
	Doc   *wordjson.Document
	Err   error
}

// ParseAllPooled parses every element of inputs on a bounded ants
// worker pool of the given size, rather than one goroutine per
// document. Use this over ParseAll when the input count can be much
// larger than the number of CPUs, to bound peak goroutine count and
// scratch-buffer memory.
func ParseAllPooled(inputs [][]byte, poolSize int) ([]Result, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]Result, len(inputs))
	done := make(chan struct{}, len(inputs))

	for i, input := range inputs {
		i, input := i, input
		submitErr := pool.Submit(func() {
			defer func() { done <- struct{}{} }()
			doc, perr := wordjson.ParseBytes(input)
			results[i] = Result{Index: i, Doc: doc, Err: perr}
		})
		if submitErr != nil {
			results[i] = Result{Index: i, Err: submitErr}
			done <- struct{}{}
		}
	}

	for range inputs {
		<-done
	}
	return results, nil
}
