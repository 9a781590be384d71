package facelist

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/notargets/extfaces/utils"
)

// Stage names used in Result.Timings, in pipeline order
const (
	StageNumFacesPerCell          = "seconds-num-faces-per-cell"
	StageFacePerCellCount         = "seconds-face-per-cell-count"
	StageFaceHash                 = "seconds-face-hash"
	StageNumFacesPerHash          = "seconds-num-faces-per-hash"
	StageFacePerHashCount         = "seconds-face-per-hash-count"
	StageBuildFacesPerHash        = "seconds-build-faces-per-hash"
	StageFaceCounts               = "seconds-face-counts"
	StageScatterCullInternalFaces = "seconds-scatter-cull-internal-faces"
	StagePointsPerFace            = "seconds-points-per-face"
	StageFacePointCount           = "seconds-face-point-count"
	StageBuildConnectivity        = "seconds-build-connectivity"
)

type StageTiming struct {
	Stage   string  `json:"stage"`
	Seconds float64 `json:"seconds"`
}

// Result is the outcome of one extraction
type Result struct {
	Faces     *ExternalFaces
	NumCells  int
	NumFaces  int // Faces of all cells before matching
	Algorithm Algorithm
	TableSize int           // Hash buckets used, zero for the serial algorithm
	Buckets   *BucketStats  // Nil unless hash buckets were built
	Timings   []StageTiming // One entry per stage that ran
}

func (r *Result) TotalSeconds() (total float64) {
	for _, st := range r.Timings {
		total += st.Seconds
	}
	return
}

// Extractor finds the faces on the outside of unstructured meshes. It holds
// no per mesh state and can be used from several goroutines.
type Extractor struct {
	opts Options
	log  *zap.Logger
}

func NewExtractor(opts Options) (*Extractor, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid extraction options")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{opts: opts, log: log}, nil
}

func (ex *Extractor) Options() Options { return ex.opts }

// ExtractExternalFaces runs a single extraction with the given options
func ExtractExternalFaces(topo Topology, opts Options) (*ExternalFaces, error) {
	ex, err := NewExtractor(opts)
	if err != nil {
		return nil, err
	}
	res, err := ex.Extract(topo)
	if err != nil {
		return nil, err
	}
	return res.Faces, nil
}

// run carries the options and timings of one extraction
type run struct {
	opts    Options
	log     *zap.Logger
	timings []StageTiming
}

func (r *run) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.timings = append(r.timings, StageTiming{Stage: name, Seconds: elapsed.Seconds()})
	r.log.Debug("stage finished",
		zap.String("stage", name),
		zap.Duration("elapsed", elapsed),
		zap.Error(err))
	return err
}

/*
Extract returns the faces of topo that belong to exactly one cell. Matching
is by point set, so winding and starting point do not matter. Errors are
*UnsupportedShapeError or *FaceIndexError naming the offending cell, and no
partial result is returned with them.
*/
func (ex *Extractor) Extract(topo Topology) (res *Result, err error) {
	var (
		r = &run{
			opts: ex.opts,
			log:  ex.log.With(zap.Stringer("algorithm", ex.opts.Algorithm)),
		}
		pd          = ex.opts.ParallelDegree
		faceCounts  = make([]int, topo.NumCells())
		faceOffsets []int
		numFaces    int
		cellIDs     []int
		faceIDs     []int
	)
	res = &Result{NumCells: topo.NumCells(), Algorithm: ex.opts.Algorithm}
	if err = r.stage(StageNumFacesPerCell, func() error {
		return countFaces(topo, pd, faceCounts)
	}); err != nil {
		return nil, err
	}
	_ = r.stage(StageFacePerCellCount, func() error {
		faceOffsets, numFaces = utils.OffsetsFromCounts(pd, faceCounts)
		return nil
	})
	res.NumFaces = numFaces

	switch {
	case numFaces == 0:
		res.Faces = emptyExternalFaces(topo.NumPoints())
	case ex.opts.Algorithm == SerialMap:
		if cellIDs, faceIDs, err = r.serialMatch(topo, faceOffsets); err != nil {
			return nil, err
		}
	default:
		res.TableSize = ex.opts.tableSize(topo.NumPoints())
		buckets, counts, err := r.buildBuckets(topo, faceOffsets, numFaces, res.TableSize)
		if err != nil {
			return nil, err
		}
		stats := newBucketStats(counts, ex.opts.CacheThreshold)
		res.Buckets = &stats
		external := make([]int, res.TableSize)
		if err = r.stage(StageFaceCounts, func() error {
			return r.resolveBuckets(topo, buckets, external)
		}); err != nil {
			return nil, err
		}
		cellIDs, faceIDs = r.gatherExternal(buckets, external)
	}
	if res.Faces == nil {
		if res.Faces, err = r.assemble(topo, cellIDs, faceIDs); err != nil {
			return nil, err
		}
	}
	res.Timings = r.timings
	r.log.Info("extracted external faces",
		zap.Int("cells", res.NumCells),
		zap.Int("faces", res.NumFaces),
		zap.Int("external", res.Faces.NumFaces()),
		zap.Float64("seconds", res.TotalSeconds()))
	return
}
