package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/flatten"
)

// rows decodes one JSON object per argument and flattens it.
func rows(t *testing.T, docs ...string) []flatten.Row {
	t.Helper()
	out := make([]flatten.Row, 0, len(docs))
	for _, d := range docs {
		dec := json.NewDecoder(strings.NewReader(d))
		dec.UseNumber()
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec), d)
		out = append(out, flatten.Flatten(rec))
	}
	return out
}

func str(s string) *string { return &s }

func val[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
