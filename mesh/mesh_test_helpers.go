package mesh

// TestMeshes is a collection of small hand built cell sets shared by the
// tests of this package, the readers and the face extraction
type TestMeshes struct {
	SingleTet     *CellSet
	SingleHex     *CellSet
	SingleWedge   *CellSet
	SinglePyramid *CellSet

	// Two unit tets sharing the face {1,2,3}
	TwoTets *CellSet
	// Hex with a wedge on its y=0 side, a pyramid on its top and a tet on
	// one pyramid side: three shared faces
	MixedMesh *CellSet
	// Three tets on the face {0,1,2}, which a 2-manifold mesh cannot have
	NonManifoldTets *CellSet
	// A tet next to lower dimensional cells, which have no faces
	WithSurfaceCells *CellSet
}

func GetStandardTestMeshes() *TestMeshes {
	return &TestMeshes{
		SingleTet:        singleCell(Tet),
		SingleHex:        singleCell(Hex),
		SingleWedge:      singleCell(Wedge),
		SinglePyramid:    singleCell(Pyramid),
		TwoTets:          createTwoTets(),
		MixedMesh:        createMixedMesh(),
		NonManifoldTets:  createNonManifoldTets(),
		WithSurfaceCells: createWithSurfaceCells(),
	}
}

func singleCell(s Shape) *CellSet {
	b := NewCellSetBuilder(1)
	pts := make([]int, s.NumPoints())
	for i := range pts {
		pts[i] = i
	}
	b.AddCell(s, pts...)
	return b.Build(-1)
}

func createTwoTets() *CellSet {
	// (0,0,0), (1,0,0), (0,1,0), (0,0,1), (1,1,1)
	b := NewCellSetBuilder(2)
	b.AddCell(Tet, 0, 1, 2, 3)
	b.AddCell(Tet, 1, 2, 3, 4)
	return b.Build(5)
}

func createMixedMesh() *CellSet {
	/*
		Hex points 0-7 on the unit cube, wedge adds 8 (0.5,-1,0) and 9
		(0.5,-1,1) below y=0, pyramid apex 10 above the top face, tet adds 11
		outside the pyramid side {4,5,10}.
	*/
	b := NewCellSetBuilder(4)
	b.AddCell(Hex, 0, 1, 2, 3, 4, 5, 6, 7)
	// Wedge quad {0,1,4,3} is the hex side {0,1,5,4}
	b.AddCell(Wedge, 0, 1, 8, 4, 5, 9)
	// Pyramid base {0,3,2,1} is the hex top {4,7,6,5}
	b.AddCell(Pyramid, 4, 5, 6, 7, 10)
	// Tet face {0,1,2} lies on the pyramid side {4,5,10}
	b.AddCell(Tet, 4, 5, 10, 11)
	return b.Build(12)
}

func createNonManifoldTets() *CellSet {
	b := NewCellSetBuilder(3)
	b.AddCell(Tet, 0, 1, 2, 3)
	b.AddCell(Tet, 0, 1, 2, 4)
	b.AddCell(Tet, 2, 1, 0, 5)
	return b.Build(6)
}

func createWithSurfaceCells() *CellSet {
	b := NewCellSetBuilder(4)
	b.AddCell(Tet, 0, 1, 2, 3)
	b.AddCell(Triangle, 0, 1, 2)
	b.AddCell(Line, 2, 3)
	b.AddCell(Vertex, 3)
	return b.Build(4)
}
