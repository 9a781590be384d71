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

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*mesh.Grid, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening SU2 mesh")
	}
	defer file.Close()
	g, err := ParseSU2(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return g, nil
}

// ParseSU2 parses SU2 content. Volume cells become the grid's cell set,
// marker sections are only counted.
func ParseSU2(r io.Reader) (*mesh.Grid, error) {
	var (
		scanner            = bufio.NewScanner(r)
		ndime              int
		hasNDIME, hasNPOIN bool
		g                  = &mesh.Grid{}
		b                  *mesh.CellSetBuilder
	)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	// Each line with the trailing % comment removed, empty lines skipped
	nextLine := func() (string, bool) {
		for scanner.Scan() {
			line := scanner.Text()
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = line[:idx]
			}
			if line = strings.TrimSpace(line); line != "" {
				return line, true
			}
		}
		return "", false
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if _, err := fmt.Sscanf(line, "NDIME=%d", &ndime); err != nil {
				return nil, errors.Wrapf(err, "parsing %q", line)
			}
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			// Some writers append the number of domain points after the total
			if _, err := fmt.Sscanf(line, "NPOIN=%d", &npoin); err != nil {
				return nil, errors.Wrapf(err, "parsing %q", line)
			}
			g.Coordinates = make([][3]float64, npoin)
			for i := 0; i < npoin; i++ {
				pl, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading point %d of %d", i, npoin)
				}
				fields := strings.Fields(pl)
				if len(fields) < ndime {
					return nil, fmt.Errorf("point %d: expected at least %d coordinates, have %d",
						i, ndime, len(fields))
				}
				for j := 0; j < ndime; j++ {
					v, err := strconv.ParseFloat(fields[j], 64)
					if err != nil {
						return nil, errors.Wrapf(err, "point %d coordinate %d", i, j)
					}
					g.Coordinates[i][j] = v
				}
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			if _, err := fmt.Sscanf(line, "NELEM=%d", &nelem); err != nil {
				return nil, errors.Wrapf(err, "parsing %q", line)
			}
			b = mesh.NewCellSetBuilder(nelem)
			for i := 0; i < nelem; i++ {
				el, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading element %d of %d", i, nelem)
				}
				shape, nodes, err := parseSU2Element(el)
				if err != nil {
					return nil, errors.Wrapf(err, "element %d", i)
				}
				b.AddCell(shape, nodes...)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if _, err := fmt.Sscanf(line, "NMARK=%d", &nmark); err != nil {
				return nil, errors.Wrapf(err, "parsing %q", line)
			}
			g.BoundaryTags = make(map[string]int, nmark)
			for i := 0; i < nmark; i++ {
				tl, ok := nextLine()
				if !ok || !strings.HasPrefix(tl, "MARKER_TAG=") {
					return nil, fmt.Errorf("marker %d: expected MARKER_TAG=, got %q", i, tl)
				}
				tag := strings.TrimSpace(strings.TrimPrefix(tl, "MARKER_TAG="))
				el, ok := nextLine()
				var nMarkerElems int
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %s", tag)
				}
				if _, err := fmt.Sscanf(el, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", el)
				}
				for j := 0; j < nMarkerElems; j++ {
					bl, ok := nextLine()
					if !ok {
						return nil, fmt.Errorf("unexpected EOF reading marker %s element %d", tag, j)
					}
					if _, _, err := parseSU2Element(bl); err != nil {
						return nil, errors.Wrapf(err, "marker %s element %d", tag, j)
					}
				}
				g.BoundaryTags[tag] = nMarkerElems
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning SU2 content")
	}

	// Validate that we read the required sections
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	if b == nil {
		b = mesh.NewCellSetBuilder(0)
	}
	g.Cells = b.Build(len(g.Coordinates))
	for _, p := range g.Cells.Connectivity() {
		if p < 0 || p >= g.Cells.NumPoints() {
			return nil, fmt.Errorf("node index %d out of range [0,%d)", p, g.Cells.NumPoints())
		}
	}
	return g, nil
}

// parseSU2Element reads "type n0 n1 ... [id]"; the SU2 type ids are the VTK
// ids used by mesh.Shape
func parseSU2Element(line string) (shape mesh.Shape, nodes []int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, fmt.Errorf("invalid element line %q", line)
	}
	su2Type, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil, errors.Wrapf(err, "element type")
	}
	shape = mesh.Shape(su2Type)
	if su2Type < 0 || su2Type > 255 || !shape.Known() || shape.NumPoints() < 1 {
		return 0, nil, fmt.Errorf("unknown element type: %d", su2Type)
	}
	numNodes := shape.NumPoints()
	if len(fields) < numNodes+1 {
		return 0, nil, fmt.Errorf("element type %v expects %d nodes, got %d fields",
			shape, numNodes, len(fields)-1)
	}
	nodes = make([]int, numNodes)
	for j := range nodes {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return 0, nil, errors.Wrapf(err, "node %d", j)
		}
	}
	return
}
