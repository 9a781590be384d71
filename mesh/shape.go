package mesh

// Shape is a cell shape tag. The values follow the VTK cell type ids, which
// SU2 files use directly.
type Shape uint8

const (
	Empty      Shape = 0
	Vertex     Shape = 1
	Line       Shape = 3
	Triangle   Shape = 5
	Polygon    Shape = 7
	Quad       Shape = 9
	Tet        Shape = 10
	Hex        Shape = 12
	Wedge      Shape = 13
	Pyramid    Shape = 14
	Polyhedron Shape = 42
)

// MaxFacePoints bounds the number of points on any face of a supported shape
const MaxFacePoints = 4

type shapeInfo struct {
	name      string
	known     bool
	dimension int
	numPoints int      // -1 for a variable number of points
	faces     [][]int8 // local point ordinals of each face
	// A shape whose faces cannot be described from its point list
	noFaceTable bool
}

// Face tables are wound so the normal points out of the cell
var shapeInfos = func() (infos [256]shapeInfo) {
	infos[Empty] = shapeInfo{name: "Empty", known: true, dimension: -1}
	infos[Vertex] = shapeInfo{name: "Vertex", known: true, dimension: 0, numPoints: 1}
	infos[Line] = shapeInfo{name: "Line", known: true, dimension: 1, numPoints: 2}
	infos[Triangle] = shapeInfo{name: "Triangle", known: true, dimension: 2, numPoints: 3}
	infos[Polygon] = shapeInfo{name: "Polygon", known: true, dimension: 2, numPoints: -1}
	infos[Quad] = shapeInfo{name: "Quad", known: true, dimension: 2, numPoints: 4}
	infos[Tet] = shapeInfo{name: "Tet", known: true, dimension: 3, numPoints: 4,
		faces: [][]int8{
			{0, 2, 1},
			{0, 1, 3},
			{1, 2, 3},
			{0, 3, 2},
		}}
	infos[Hex] = shapeInfo{name: "Hex", known: true, dimension: 3, numPoints: 8,
		faces: [][]int8{
			{0, 3, 2, 1}, // bottom
			{4, 5, 6, 7}, // top
			{0, 1, 5, 4},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{3, 0, 4, 7},
		}}
	infos[Wedge] = shapeInfo{name: "Wedge", known: true, dimension: 3, numPoints: 6,
		faces: [][]int8{
			{0, 2, 1}, // bottom tri
			{3, 4, 5}, // top tri
			{0, 1, 4, 3},
			{1, 2, 5, 4},
			{2, 0, 3, 5},
		}}
	infos[Pyramid] = shapeInfo{name: "Pyramid", known: true, dimension: 3, numPoints: 5,
		faces: [][]int8{
			{0, 3, 2, 1}, // base quad
			{0, 1, 4},
			{1, 2, 4},
			{2, 3, 4},
			{3, 0, 4},
		}}
	infos[Polyhedron] = shapeInfo{name: "Polyhedron", known: true, dimension: 3, numPoints: -1,
		noFaceTable: true}
	return
}()

func (s Shape) String() string {
	if info := &shapeInfos[s]; info.known {
		return info.name
	}
	return "Unknown"
}

// Known reports whether the tag names a shape at all
func (s Shape) Known() bool { return shapeInfos[s].known }

func (s Shape) Dimension() int { return shapeInfos[s].dimension }

// NumPoints is the number of points a cell of this shape carries, -1 when
// the count varies
func (s Shape) NumPoints() int { return shapeInfos[s].numPoints }

// NumFaces returns the number of 2-D faces bounding a cell of this shape.
// Cells of lower dimension have none. ok is false for unknown tags and for
// shapes whose faces are not derivable from the point list.
func (s Shape) NumFaces() (n int, ok bool) {
	info := &shapeInfos[s]
	if !info.known || info.noFaceTable {
		return 0, false
	}
	return len(info.faces), true
}

// FaceNumPoints returns the number of points on local face `face`
func (s Shape) FaceNumPoints(face int) (n int, ok bool) {
	info := &shapeInfos[s]
	if face < 0 || face >= len(info.faces) {
		return 0, false
	}
	return len(info.faces[face]), true
}

// FaceShape returns the shape of local face `face`
func (s Shape) FaceShape(face int) (Shape, bool) {
	n, ok := s.FaceNumPoints(face)
	if !ok {
		return Empty, false
	}
	switch n {
	case 3:
		return Triangle, true
	case 4:
		return Quad, true
	default:
		return Polygon, true
	}
}

// FaceLocalIndex maps point `point` of local face `face` to an index into
// the cell's point list
func (s Shape) FaceLocalIndex(face, point int) (local int, ok bool) {
	info := &shapeInfos[s]
	if face < 0 || face >= len(info.faces) {
		return 0, false
	}
	f := info.faces[face]
	if point < 0 || point >= len(f) {
		return 0, false
	}
	return int(f[point]), true
}
