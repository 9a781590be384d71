package facelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/extfaces/types"
)

// bucketOf makes a bucket whose entry i carries keys[i], addressed through
// the cell number
func bucketOf(keys []types.FaceKey) (refs []faceRef, keyOf func(faceRef) (types.FaceKey, error)) {
	refs = make([]faceRef, len(keys))
	for i := range refs {
		refs[i] = faceRef{cell: i}
	}
	keyOf = func(ref faceRef) (types.FaceKey, error) { return keys[ref.cell], nil }
	return
}

func TestResolveBucket(t *testing.T) {
	var (
		a = types.FaceKey{0, 1, 2}
		b = types.FaceKey{0, 1, 3}
		c = types.FaceKey{1, 2, 3}
		d = types.FaceKey{2, 3, 4}
	)
	tests := []struct {
		name     string
		keys     []types.FaceKey
		external []types.FaceKey // Keys expected in the external prefix
	}{
		{"empty", nil, nil},
		{"single", []types.FaceKey{a}, []types.FaceKey{a}},
		{"pair", []types.FaceKey{a, a}, nil},
		{"pair and unique", []types.FaceKey{a, c, a}, []types.FaceKey{c}},
		{"unique at tail", []types.FaceKey{a, a, c}, []types.FaceKey{c}},
		{"interleaved pairs", []types.FaceKey{a, b, a, b}, nil},
		{"nested pairs", []types.FaceKey{a, b, c, b, d, a}, []types.FaceKey{c, d}},
		{"all unique", []types.FaceKey{a, b, c, d}, []types.FaceKey{a, b, c, d}},
		// Only the first match is taken, the third sharer stays external
		{"three sharers", []types.FaceKey{a, a, a}, []types.FaceKey{a}},
	}
	for _, tt := range tests {
		for _, cached := range []bool{false, true} {
			refs, keyOf := bucketOf(tt.keys)
			var keys []types.FaceKey
			if cached {
				keys = append([]types.FaceKey{}, tt.keys...)
			}
			ext, err := resolveBucket(refs, keys, keyOf)
			require.NoError(t, err)
			require.Equal(t, len(tt.external), ext, "%s cached=%v", tt.name, cached)

			got := make([]types.FaceKey, ext)
			for i, ref := range refs[:ext] {
				got[i], _ = keyOf(ref)
				if cached {
					assert.Equal(t, got[i], keys[i], "cached keys follow their entries")
				}
			}
			assert.ElementsMatch(t, tt.external, got, "%s cached=%v", tt.name, cached)

			// Every entry is still present exactly once
			seen := make(map[int]bool)
			for _, ref := range refs {
				assert.False(t, seen[ref.cell])
				seen[ref.cell] = true
			}
			assert.Len(t, seen, len(tt.keys))
		}
	}
}
