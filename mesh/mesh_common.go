package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/extfaces/utils"
)

// CellSet is an explicit cell-to-point table in CSR form: cell i has shape
// Shapes[i] and points Points.Group(i), each a global point index below
// NPoints.
type CellSet struct {
	Shapes  []Shape
	Points  utils.CSR[int]
	NPoints int
}

// NewCellSet wraps the three CSR arrays of a cell table. The offsets must
// start at zero, never decrease and end at len(connectivity).
func NewCellSet(shapes []Shape, connectivity, offsets []int, numPoints int) (*CellSet, error) {
	if len(offsets) != len(shapes)+1 {
		return nil, fmt.Errorf("have %d offsets for %d cells, need %d",
			len(offsets), len(shapes), len(shapes)+1)
	}
	if offsets[0] != 0 {
		return nil, fmt.Errorf("offsets must start at 0, first is %d", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("offsets decrease at cell %d: %d < %d",
				i-1, offsets[i], offsets[i-1])
		}
	}
	if last := offsets[len(offsets)-1]; last != len(connectivity) {
		return nil, fmt.Errorf("offsets end at %d, connectivity has %d entries",
			last, len(connectivity))
	}
	if numPoints < 0 {
		return nil, fmt.Errorf("negative point count %d", numPoints)
	}
	return &CellSet{
		Shapes:  shapes,
		Points:  utils.NewCSR(offsets, connectivity),
		NPoints: numPoints,
	}, nil
}

func (cs *CellSet) NumCells() int { return len(cs.Shapes) }

func (cs *CellSet) NumPoints() int { return cs.NPoints }

func (cs *CellSet) CellShape(cell int) Shape { return cs.Shapes[cell] }

// CellPoints returns the global point indices of a cell, sharing storage
// with the set
func (cs *CellSet) CellPoints(cell int) []int { return cs.Points.Group(cell) }

// Connectivity is the flat point index array
func (cs *CellSet) Connectivity() []int { return cs.Points.Data }

// Offsets is the per cell start into Connectivity, with a trailing total
func (cs *CellSet) Offsets() []int { return cs.Points.Offsets }

// CellSetBuilder accumulates cells one at a time
type CellSetBuilder struct {
	shapes       []Shape
	connectivity []int
	offsets      []int
}

func NewCellSetBuilder(cellCapacity int) *CellSetBuilder {
	b := &CellSetBuilder{
		shapes:  make([]Shape, 0, cellCapacity),
		offsets: make([]int, 1, cellCapacity+1),
	}
	return b
}

func (b *CellSetBuilder) AddCell(shape Shape, points ...int) {
	b.shapes = append(b.shapes, shape)
	b.connectivity = append(b.connectivity, points...)
	b.offsets = append(b.offsets, len(b.connectivity))
}

func (b *CellSetBuilder) NumCells() int { return len(b.shapes) }

// Build finishes the set. numPoints < 0 means one past the largest point
// index used.
func (b *CellSetBuilder) Build(numPoints int) *CellSet {
	if numPoints < 0 {
		numPoints = 0
		for _, p := range b.connectivity {
			if p+1 > numPoints {
				numPoints = p + 1
			}
		}
	}
	cs, err := NewCellSet(b.shapes, b.connectivity, b.offsets, numPoints)
	if err != nil {
		panic(err) // offsets are built here and are always consistent
	}
	return cs
}

// Grid couples a cell set with the coordinates of its points
type Grid struct {
	Coordinates  [][3]float64
	Cells        *CellSet
	BoundaryTags map[string]int // Marker name -> number of boundary elements listed for it
}

// PrintStatistics prints mesh statistics
func (g *Grid) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Points: %d\n", g.Cells.NumPoints())
	fmt.Printf("  Cells: %d\n", g.Cells.NumCells())

	// Count cell shapes
	typeCounts := make(map[Shape]int)
	for _, s := range g.Cells.Shapes {
		typeCounts[s]++
	}
	shapes := make([]Shape, 0, len(typeCounts))
	for s := range typeCounts {
		shapes = append(shapes, s)
	}
	sort.Slice(shapes, func(i, j int) bool { return shapes[i] < shapes[j] })
	fmt.Printf("  Cell shapes:\n")
	for _, s := range shapes {
		fmt.Printf("    %s: %d\n", s, typeCounts[s])
	}
	if len(g.BoundaryTags) != 0 {
		tags := make([]string, 0, len(g.BoundaryTags))
		for tag := range g.BoundaryTags {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		fmt.Printf("  Boundary markers:\n")
		for _, tag := range tags {
			fmt.Printf("    %s: %d elements\n", tag, g.BoundaryTags[tag])
		}
	}
}
