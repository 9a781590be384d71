package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/extfaces/mesh"
)

// gambitShapes maps Gambit neutral element type codes to shapes
var gambitShapes = map[int]mesh.Shape{
	1: mesh.Line,     // Edge
	2: mesh.Quad,     // Quadrilateral
	3: mesh.Triangle, // Triangle
	4: mesh.Hex,      // Brick
	5: mesh.Wedge,    // Wedge (Prism)
	6: mesh.Tet,      // Tetrahedron
	7: mesh.Pyramid,  // Pyramid
}

// ReadGambitNeutral reads a Gambit neutral file (.neu)
func ReadGambitNeutral(filename string) (*mesh.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening Gambit mesh")
	}
	defer file.Close()
	g, err := ParseGambitNeutral(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return g, nil
}

// ParseGambitNeutral parses the control, nodal coordinate, element and
// boundary condition sections. Element groups are not needed here.
func ParseGambitNeutral(r io.Reader) (*mesh.Grid, error) {
	var (
		scanner              = bufio.NewScanner(r)
		numnp, nelem, nbsets int
		haveControl          bool
		g                    = &mesh.Grid{}
		b                    *mesh.CellSetBuilder
		nodeIndex            = make(map[int]int) // Gambit node id -> point index
	)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		switch {
		case strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM"):
			vl, ok := next()
			values := strings.Fields(vl)
			if !ok || len(values) < 4 {
				return nil, fmt.Errorf("incomplete control info after %q", line)
			}
			var err error
			if numnp, err = strconv.Atoi(values[0]); err != nil {
				return nil, errors.Wrap(err, "NUMNP")
			}
			if nelem, err = strconv.Atoi(values[1]); err != nil {
				return nil, errors.Wrap(err, "NELEM")
			}
			if nbsets, err = strconv.Atoi(values[3]); err != nil {
				return nil, errors.Wrap(err, "NBSETS")
			}
			haveControl = true

		case strings.Contains(line, "NODAL COORDINATES"):
			if !haveControl {
				return nil, fmt.Errorf("nodal coordinates before control info")
			}
			g.Coordinates = make([][3]float64, 0, numnp)
			for i := 0; i < numnp; i++ {
				nl, ok := next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading node %d of %d", i, numnp)
				}
				fields := strings.Fields(nl)
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid node line %q", nl)
				}
				id, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, errors.Wrapf(err, "node %d id", i)
				}
				var xyz [3]float64
				for j := 1; j < len(fields) && j <= 3; j++ {
					if xyz[j-1], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, errors.Wrapf(err, "node %d coordinate %d", id, j-1)
					}
				}
				nodeIndex[id] = len(g.Coordinates)
				g.Coordinates = append(g.Coordinates, xyz)
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			if !haveControl {
				return nil, fmt.Errorf("elements before control info")
			}
			b = mesh.NewCellSetBuilder(nelem)
			for i := 0; i < nelem; i++ {
				el, ok := next()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading element %d of %d", i, nelem)
				}
				fields := strings.Fields(el)
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line %q", el)
				}
				gambitType, err1 := strconv.Atoi(fields[1])
				numNodes, err2 := strconv.Atoi(fields[2])
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("invalid element header %q", el)
				}
				shape, known := gambitShapes[gambitType]
				if !known {
					return nil, fmt.Errorf("element %s: unknown Gambit element type %d", fields[0], gambitType)
				}
				// Long connectivity lists continue on the following lines
				for len(fields) < 3+numNodes {
					cl, ok := next()
					if !ok {
						return nil, fmt.Errorf("unexpected EOF in element %s connectivity", fields[0])
					}
					fields = append(fields, strings.Fields(cl)...)
				}
				nodes := make([]int, numNodes)
				for j := range nodes {
					id, err := strconv.Atoi(fields[3+j])
					if err != nil {
						return nil, errors.Wrapf(err, "element %s node %d", fields[0], j)
					}
					idx, found := nodeIndex[id]
					if !found {
						return nil, fmt.Errorf("element %s references missing node %d", fields[0], id)
					}
					nodes[j] = idx
				}
				if gambitType == 4 && numNodes == 8 {
					// Gambit bricks list each layer in lexicographic order
					nodes[2], nodes[3] = nodes[3], nodes[2]
					nodes[6], nodes[7] = nodes[7], nodes[6]
				}
				b.AddCell(shape, nodes...)
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			hl, ok := next()
			fields := strings.Fields(hl)
			if !ok || len(fields) < 3 {
				return nil, fmt.Errorf("invalid boundary condition header %q", hl)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, errors.Wrapf(err, "boundary set %s size", fields[0])
			}
			for i := 0; i < count; i++ {
				if _, ok := next(); !ok {
					return nil, fmt.Errorf("unexpected EOF in boundary set %s", fields[0])
				}
			}
			if g.BoundaryTags == nil {
				g.BoundaryTags = make(map[string]int, nbsets)
			}
			g.BoundaryTags[fields[0]] = count
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning Gambit content")
	}
	if !haveControl {
		return nil, fmt.Errorf("missing control info section")
	}
	if b == nil {
		b = mesh.NewCellSetBuilder(0)
	}
	g.Cells = b.Build(len(g.Coordinates))
	return g, nil
}
