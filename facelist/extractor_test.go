package facelist

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notargets/extfaces/mesh"
	"github.com/notargets/extfaces/types"
	"github.com/notargets/extfaces/utils"
)

var sortKeys = cmpopts.SortSlices(func(a, b types.FaceKey) bool { return a.Less(b) })

func extract(t *testing.T, topo Topology, opts Options) *Result {
	t.Helper()
	ex, err := NewExtractor(opts)
	require.NoError(t, err)
	res, err := ex.Extract(topo)
	require.NoError(t, err)
	checkWellFormed(t, topo, res)
	return res
}

// checkWellFormed verifies the output arrays agree with each other and that
// every output face is a face of the cell it is attributed to
func checkWellFormed(t *testing.T, topo Topology, res *Result) {
	t.Helper()
	ef := res.Faces
	require.Len(t, ef.CellIDs, ef.NumFaces())
	require.Len(t, ef.Offsets(), ef.NumFaces()+1)
	assert.LessOrEqual(t, ef.NumFaces(), res.NumFaces)
	var total int
	for i := 0; i < ef.NumFaces(); i++ {
		pts := ef.FacePoints(i)
		total += len(pts)
		switch len(pts) {
		case 3:
			assert.Equal(t, mesh.Triangle, ef.FaceShape(i))
		case 4:
			assert.Equal(t, mesh.Quad, ef.FaceShape(i))
		}
		var (
			cell   = ef.CellIDs[i]
			shape  = topo.CellShape(cell)
			nf, _  = shape.NumFaces()
			points = topo.CellPoints(cell)
			found  bool
		)
		for f := 0; f < nf && !found; f++ {
			n, _ := shape.FaceNumPoints(f)
			fp := make([]int, n)
			for j := range fp {
				local, _ := shape.FaceLocalIndex(f, j)
				fp[j] = points[local]
			}
			found = slices.Equal(fp, pts)
		}
		assert.True(t, found, "face %d %v is not a face of cell %d", i, pts, cell)
	}
	assert.Equal(t, total, len(ef.Connectivity()))
}

func TestExtractSingleCells(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	for _, cs := range []*mesh.CellSet{tm.SingleTet, tm.SingleHex, tm.SingleWedge, tm.SinglePyramid} {
		nf, _ := cs.CellShape(0).NumFaces()
		res := extract(t, cs, DefaultOptions())
		assert.Equal(t, nf, res.NumFaces)
		assert.Equal(t, nf, res.Faces.NumFaces(), cs.CellShape(0).String())
		for _, c := range res.Faces.CellIDs {
			assert.Equal(t, 0, c)
		}
		keys := res.Faces.Keys()
		slices.SortFunc(keys, func(a, b types.FaceKey) int {
			if a.Less(b) {
				return -1
			} else if b.Less(a) {
				return 1
			}
			return 0
		})
		assert.Len(t, slices.Compact(keys), nf, "faces of one cell are distinct")
	}
}

func TestExtractTwoTets(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	for _, alg := range []Algorithm{HashCount, SerialMap} {
		opts := DefaultOptions()
		opts.Algorithm = alg
		res := extract(t, tm.TwoTets, opts)
		assert.Equal(t, 8, res.NumFaces)
		assert.Equal(t, 6, res.Faces.NumFaces())
		assert.NotContains(t, res.Faces.Keys(), types.FaceKey{1, 2, 3})
		assert.ElementsMatch(t, []int{0, 0, 0, 1, 1, 1}, res.Faces.CellIDs)
		assert.Equal(t, 18, len(res.Faces.Connectivity()))
	}
}

func TestExtractMixedMesh(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	res := extract(t, tm.MixedMesh, DefaultOptions())
	assert.Equal(t, 20, res.NumFaces)
	assert.Equal(t, 14, res.Faces.NumFaces())
	assert.Equal(t, map[mesh.Shape]int{mesh.Triangle: 8, mesh.Quad: 6}, res.Faces.ShapeCounts())
	cellFaceCount := make(map[int]int)
	for _, c := range res.Faces.CellIDs {
		cellFaceCount[c]++
	}
	// Hex loses two sides, wedge, pyramid and tet lose one each
	assert.Equal(t, map[int]int{0: 4, 1: 4, 2: 3, 3: 3}, cellFaceCount)
}

func TestExtractNonManifold(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	shared := types.FaceKey{0, 1, 2}
	{ // One of the three copies of the shared face survives the first match
		res := extract(t, tm.NonManifoldTets, DefaultOptions())
		assert.Equal(t, 12, res.NumFaces)
		assert.Equal(t, 10, res.Faces.NumFaces())
		var count int
		for _, k := range res.Faces.Keys() {
			if k == shared {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
	{ // Counting every sharer drops the face altogether
		opts := DefaultOptions()
		opts.Algorithm = SerialMap
		res := extract(t, tm.NonManifoldTets, opts)
		assert.Equal(t, 9, res.Faces.NumFaces())
		assert.NotContains(t, res.Faces.Keys(), shared)
	}
}

func TestExtractLowerDimensionalCells(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	{
		res := extract(t, tm.WithSurfaceCells, DefaultOptions())
		assert.Equal(t, 4, res.NumFaces)
		assert.Equal(t, 4, res.Faces.NumFaces())
		assert.Equal(t, []int{0, 0, 0, 0}, res.Faces.CellIDs)
	}
	{ // No faces at all is a valid empty result
		b := mesh.NewCellSetBuilder(3)
		b.AddCell(mesh.Triangle, 0, 1, 2)
		b.AddCell(mesh.Line, 2, 3)
		b.AddCell(mesh.Empty)
		for _, cs := range []*mesh.CellSet{b.Build(-1), mesh.NewCellSetBuilder(0).Build(0)} {
			res := extract(t, cs, DefaultOptions())
			assert.Equal(t, 0, res.NumFaces)
			assert.Equal(t, 0, res.Faces.NumFaces())
			assert.Equal(t, []int{0}, res.Faces.Offsets())
			assert.Empty(t, res.Faces.Connectivity())
			assert.Empty(t, res.Faces.CellIDs)
			assert.Nil(t, res.Buckets)
			assert.Nil(t, res.Faces.PointIncidence())
		}
	}
}

func TestExtractStructuredGrids(t *testing.T) {
	var (
		grids = []mesh.GridSpec{
			{Kind: mesh.HexGrid, Nx: 2, Ny: 3, Nz: 4},
			{Kind: mesh.TetGrid, Nx: 3, Ny: 2, Nz: 2},
			{Kind: mesh.WedgeGrid, Nx: 2, Ny: 3, Nz: 4},
			{Kind: mesh.TetGrid, Nx: 1, Ny: 1, Nz: 1},
		}
		hashFunctions = []HashFunction{FNV1a, MinPoint, Farm, XXHash}
	)
	for _, gs := range grids {
		var (
			g           = mesh.NewStructuredGrid(gs)
			tris, quads = gs.ExpectedBoundaryFaces()
			serialOpts  = DefaultOptions()
		)
		serialOpts.Algorithm = SerialMap
		serial := extract(t, g.Cells, serialOpts)
		assert.Equal(t, tris+quads, serial.Faces.NumFaces(), gs.String())
		wantKeys := serial.Faces.Keys()

		for _, hf := range hashFunctions {
			for _, pd := range []int{1, 2, 4, 0} {
				for _, tableSize := range []int{0, 1, 3} {
					name := fmt.Sprintf("%s/%s/pd=%d/table=%d", gs, hf, pd, tableSize)
					opts := DefaultOptions()
					opts.HashFunction = hf
					opts.ParallelDegree = pd
					opts.HashTableSize = tableSize
					res := extract(t, g.Cells, opts)
					counts := res.Faces.ShapeCounts()
					assert.Equal(t, tris, counts[mesh.Triangle], name)
					assert.Equal(t, quads, counts[mesh.Quad], name)
					if diff := cmp.Diff(wantKeys, res.Faces.Keys(), sortKeys); diff != "" {
						t.Errorf("%s: face set differs from the serial map (-want +got):\n%s", name, diff)
					}
				}
			}
		}
	}
}

func TestExtractIdempotent(t *testing.T) {
	g := mesh.NewStructuredGrid(mesh.GridSpec{Kind: mesh.WedgeGrid, Nx: 4, Ny: 3, Nz: 2})
	opts := DefaultOptions()
	opts.ParallelDegree = 4
	first := extract(t, g.Cells, opts)
	second := extract(t, g.Cells, opts)
	assert.Empty(t, cmp.Diff(first.Faces.Keys(), second.Faces.Keys(), sortKeys))
	assert.ElementsMatch(t, first.Faces.CellIDs, second.Faces.CellIDs)
	assert.Equal(t, first.Faces.ShapeCounts(), second.Faces.ShapeCounts())
}

func TestExtractOptionVariants(t *testing.T) {
	g := mesh.NewStructuredGrid(mesh.GridSpec{Kind: mesh.HexGrid, Nx: 3, Ny: 3, Nz: 3})
	want := extract(t, g.Cells, DefaultOptions()).Faces.Keys()
	variants := map[string]func(o *Options){
		"no key cache":     func(o *Options) { o.CacheThreshold = 0 },
		"tiny key cache":   func(o *Options) { o.CacheThreshold = 2 },
		"seq cst":          func(o *Options) { o.MemoryOrder = utils.SequentiallyConsistent },
		"acquire release":  func(o *Options) { o.MemoryOrder = utils.AcquireRelease },
		"single bucket": func(o *Options) {
			o.HashTableSize = 1
			o.CacheThreshold = 1000
		},
		"oversized table":  func(o *Options) { o.HashTableSize = 10007 },
		"many partitions":  func(o *Options) { o.ParallelDegree = 64 },
		"serial algorithm": func(o *Options) { o.Algorithm = SerialMap },
		"uncached, 1 thread": func(o *Options) {
			o.ParallelDegree = 1
			o.CacheThreshold = 0
		},
	}
	for name, modify := range variants {
		opts := DefaultOptions()
		modify(&opts)
		res := extract(t, g.Cells, opts)
		assert.Empty(t, cmp.Diff(want, res.Faces.Keys(), sortKeys), name)
	}
}

func TestExtractErrors(t *testing.T) {
	{ // Unknown tags and polyhedra cannot be enumerated
		for _, bad := range []mesh.Shape{mesh.Polyhedron, mesh.Shape(99)} {
			b := mesh.NewCellSetBuilder(3)
			b.AddCell(mesh.Tet, 0, 1, 2, 3)
			b.AddCell(bad, 0, 1, 2, 3)
			b.AddCell(mesh.Tet, 1, 2, 3, 4)
			ex, err := NewExtractor(DefaultOptions())
			require.NoError(t, err)
			res, err := ex.Extract(b.Build(-1))
			assert.Nil(t, res)
			var use *UnsupportedShapeError
			require.True(t, errors.As(err, &use), "%v", err)
			assert.Equal(t, 1, use.CellID)
			assert.Equal(t, bad, use.Shape)
			assert.Contains(t, err.Error(), "cell 1")
		}
	}
	{ // The lowest offending cell is reported whatever the partitioning
		b := mesh.NewCellSetBuilder(100)
		for c := 0; c < 100; c++ {
			switch c {
			case 37, 80:
				b.AddCell(mesh.Polyhedron, c, c+1, c+2, c+3)
			default:
				b.AddCell(mesh.Tet, c, c+1, c+2, c+3)
			}
		}
		cs := b.Build(-1)
		for _, pd := range []int{1, 3, 8} {
			opts := DefaultOptions()
			opts.ParallelDegree = pd
			_, err := ExtractExternalFaces(cs, opts)
			var use *UnsupportedShapeError
			require.True(t, errors.As(err, &use))
			assert.Equal(t, 37, use.CellID)
		}
	}
	{ // A cell short of points fails instead of reading point zero
		b := mesh.NewCellSetBuilder(2)
		b.AddCell(mesh.Tet, 0, 1, 2, 3)
		b.AddCell(mesh.Hex, 0, 1, 2, 3, 4, 5)
		cs := b.Build(8)
		for _, alg := range []Algorithm{HashCount, SerialMap} {
			opts := DefaultOptions()
			opts.Algorithm = alg
			faces, err := ExtractExternalFaces(cs, opts)
			assert.Nil(t, faces)
			var fie *FaceIndexError
			require.True(t, errors.As(err, &fie), "%v", err)
			assert.Equal(t, 1, fie.CellID)
		}
	}
	{ // Options are checked up front
		for _, modify := range []func(o *Options){
			func(o *Options) { o.ParallelDegree = -1 },
			func(o *Options) { o.HashTableSize = -5 },
			func(o *Options) { o.CacheThreshold = -1 },
			func(o *Options) { o.HashFunction = HashFunction(17) },
			func(o *Options) { o.MemoryOrder = utils.MemoryOrder(9) },
			func(o *Options) { o.Algorithm = Algorithm(4) },
		} {
			opts := DefaultOptions()
			modify(&opts)
			_, err := NewExtractor(opts)
			assert.Error(t, err)
		}
	}
}

func TestAssembleFaceIndexError(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	r := &run{opts: DefaultOptions(), log: zap.NewNop()}
	{
		ef, err := r.assemble(tm.SingleTet, []int{0, 0}, []int{1, 3})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 3, 0, 3, 2}, ef.Connectivity())
	}
	{
		_, err := r.assemble(tm.SingleTet, []int{0}, []int{4})
		var fie *FaceIndexError
		require.True(t, errors.As(err, &fie))
		assert.Equal(t, 4, fie.FaceID)
	}
}

func TestResultReporting(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	{ // Every stage of the hash pipeline is timed in order
		core, logs := observer.New(zap.DebugLevel)
		opts := DefaultOptions()
		opts.Logger = zap.New(core)
		res := extract(t, tm.MixedMesh, opts)
		var stages []string
		for _, st := range res.Timings {
			stages = append(stages, st.Stage)
			assert.GreaterOrEqual(t, st.Seconds, 0.)
		}
		assert.Equal(t, []string{
			StageNumFacesPerCell, StageFacePerCellCount, StageFaceHash,
			StageNumFacesPerHash, StageFacePerHashCount, StageBuildFacesPerHash,
			StageFaceCounts, StageScatterCullInternalFaces, StagePointsPerFace,
			StageFacePointCount, StageBuildConnectivity,
		}, stages)
		assert.InDelta(t, res.TotalSeconds(), sumSeconds(res.Timings), 1e-12)
		assert.Equal(t, len(stages), logs.FilterMessage("stage finished").Len())
		summary := logs.FilterMessage("extracted external faces").All()
		require.Len(t, summary, 1)
		assert.Equal(t, int64(14), summary[0].ContextMap()["external"])
	}
	{ // The serial algorithm skips the bucket stages
		opts := DefaultOptions()
		opts.Algorithm = SerialMap
		res := extract(t, tm.MixedMesh, opts)
		var stages []string
		for _, st := range res.Timings {
			stages = append(stages, st.Stage)
		}
		assert.Equal(t, []string{
			StageNumFacesPerCell, StageFacePerCellCount, StageFaceCounts,
			StageScatterCullInternalFaces, StagePointsPerFace,
			StageFacePointCount, StageBuildConnectivity,
		}, stages)
		assert.Nil(t, res.Buckets)
		assert.Zero(t, res.TableSize)
	}
	{ // Bucket occupancy
		opts := DefaultOptions()
		opts.HashTableSize = 1
		res := extract(t, tm.SingleHex, opts)
		require.NotNil(t, res.Buckets)
		assert.Equal(t, BucketStats{
			NumBuckets: 1, NonEmpty: 1, MeanSize: 6, MaxSize: 6, Cached: 1,
		}, *res.Buckets)

		opts.HashTableSize = 0
		res = extract(t, tm.SingleHex, opts)
		assert.Equal(t, 8, res.TableSize)
		bs := res.Buckets
		assert.Equal(t, 8, bs.NumBuckets)
		assert.InDelta(t, 6./8., bs.MeanSize, 1e-12)
		assert.InDelta(t, float64(8-bs.NonEmpty)/8, bs.EmptyFraction, 1e-12)
	}
}

func sumSeconds(timings []StageTiming) (s float64) {
	for _, st := range timings {
		s += st.Seconds
	}
	return
}

func TestExternalFacesViews(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	{ // Every corner of a hex touches three of its faces
		ef, err := ExtractExternalFaces(tm.SingleHex, DefaultOptions())
		require.NoError(t, err)
		inc := ef.PointIncidence()
		require.NotNil(t, inc)
		r, c := inc.Dims()
		assert.Equal(t, 6, r)
		assert.Equal(t, 8, c)
		assert.Equal(t, 24, inc.NNZ())
		for p := 0; p < 8; p++ {
			var sum float64
			for f := 0; f < 6; f++ {
				sum += inc.At(f, p)
			}
			assert.Equal(t, 3., sum, "point %d", p)
		}
		for f := 0; f < 6; f++ {
			for _, p := range ef.FacePoints(f) {
				assert.Equal(t, 1., inc.At(f, p))
			}
		}
	}
	{ // Only the center point of a 2x2x2 block grid is interior
		g := mesh.NewStructuredGrid(mesh.GridSpec{Kind: mesh.TetGrid, Nx: 2, Ny: 2, Nz: 2})
		ef, err := ExtractExternalFaces(g.Cells, DefaultOptions())
		require.NoError(t, err)
		bp := ef.BoundaryPoints()
		assert.Len(t, bp, 26)
		assert.NotContains(t, bp, 13)
		assert.True(t, slices.IsSorted(bp))
	}
}
