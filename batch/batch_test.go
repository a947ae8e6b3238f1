package batch

import (
	"context"
	"testing"
)

func TestParseAllPreservesOrder(t *testing.T) {
	inputs := [][]byte{
		[]byte(`[1]`),
		[]byte(`[2,3]`),
		[]byte(`{"n":4}`),
	}
	docs, err := ParseAll(context.Background(), inputs)
	if err != nil {
		t.Fatalf("ParseAll error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len(docs) = %d, want 3", len(docs))
	}
	if docs[0].Root().Len() != 1 {
		t.Errorf("docs[0] len = %d, want 1", docs[0].Root().Len())
	}
	if docs[1].Root().Len() != 2 {
		t.Errorf("docs[1] len = %d, want 2", docs[1].Root().Len())
	}
	if v, ok := docs[2].Root().Get("n"); !ok {
		t.Error(`docs[2] missing key "n"`)
	} else if n, _ := v.Int32(); n != 4 {
		t.Errorf("docs[2].n = %d, want 4", n)
	}
}

func TestParseAllPropagatesError(t *testing.T) {
	inputs := [][]byte{
		[]byte(`[1]`),
		[]byte(`not json`),
	}
	if _, err := ParseAll(context.Background(), inputs); err == nil {
		t.Error("ParseAll with malformed input succeeded, want error")
	}
}

func TestParseAllPooled(t *testing.T) {
	inputs := make([][]byte, 20)
	for i := range inputs {
		inputs[i] = []byte(`{"i":1}`)
	}

	results, err := ParseAllPooled(inputs, 4)
	if err != nil {
		t.Fatalf("ParseAllPooled error: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(inputs))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d error: %v", i, r.Err)
			continue
		}
		if r.Doc == nil {
			t.Errorf("result %d has nil doc", i)
		}
	}
}
