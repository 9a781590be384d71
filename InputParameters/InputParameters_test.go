package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/extfaces/facelist"
	"github.com/notargets/extfaces/utils"
)

func TestExtractParameters(t *testing.T) {
	{ // Full set
		input := []byte(`
Title: "Hash count on a Kuhn grid"
Grid: tet:10x10x4
Algorithm: hash-count
ParallelDegree: 4
HashFunction: xxhash
HashTableSize: 1000
CacheThreshold: 50
MemoryOrder: seq_cst
ReportFile: report.yaml
`)
		var ep ExtractParameters
		require.NoError(t, ep.Parse(input))
		assert.Equal(t, "Hash count on a Kuhn grid", ep.Title)
		assert.Equal(t, "tet:10x10x4", ep.Grid)
		assert.Equal(t, "report.yaml", ep.ReportFile)
		opts, err := ep.Options()
		require.NoError(t, err)
		assert.Equal(t, facelist.HashCount, opts.Algorithm)
		assert.Equal(t, 4, opts.ParallelDegree)
		assert.Equal(t, facelist.XXHash, opts.HashFunction)
		assert.Equal(t, 1000, opts.HashTableSize)
		assert.Equal(t, 50, opts.CacheThreshold)
		assert.Equal(t, utils.SequentiallyConsistent, opts.MemoryOrder)
	}
	{ // Empty input gives the defaults
		var ep ExtractParameters
		require.NoError(t, ep.Parse([]byte("Title: defaults\n")))
		opts, err := ep.Options()
		require.NoError(t, err)
		assert.Equal(t, facelist.DefaultOptions(), opts)
	}
	{ // A negative threshold turns the key cache off
		ep := ExtractParameters{CacheThreshold: -1, Algorithm: "serial-map"}
		opts, err := ep.Options()
		require.NoError(t, err)
		assert.Equal(t, 0, opts.CacheThreshold)
		assert.Equal(t, facelist.SerialMap, opts.Algorithm)
	}
	{ // Bad values
		for _, ep := range []ExtractParameters{
			{HashFunction: "sha1"},
			{Algorithm: "octree"},
			{MemoryOrder: "consume"},
			{ParallelDegree: -2},
			{HashTableSize: -1},
		} {
			_, err := ep.Options()
			assert.Error(t, err, "%+v", ep)
		}
	}
	{ // Malformed YAML
		var ep ExtractParameters
		assert.Error(t, ep.Parse([]byte("ParallelDegree: [1, 2")))
	}
}
