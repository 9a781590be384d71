package readers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/notargets/extfaces/mesh"
)

// WriteSU2 writes the grid's volume cells and points in SU2 native format
func WriteSU2(filename string, g *mesh.Grid) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating SU2 mesh")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", filename)
		}
	}()
	return EncodeSU2(file, g)
}

// EncodeSU2 writes the grid to w. Boundary markers carry only counts in a
// Grid, so NMARK is always written as zero.
func EncodeSU2(w io.Writer, g *mesh.Grid) error {
	var (
		bw   = bufio.NewWriter(w)
		cs   = g.Cells
		line = make([]byte, 0, 128)
	)
	fmt.Fprintf(bw, "%% Generated mesh\n")
	fmt.Fprintf(bw, "NDIME= 3\n")
	fmt.Fprintf(bw, "NELEM= %d\n", cs.NumCells())
	for c := 0; c < cs.NumCells(); c++ {
		line = line[:0]
		line = strconv.AppendInt(line, int64(cs.CellShape(c)), 10)
		for _, p := range cs.CellPoints(c) {
			line = append(line, ' ')
			line = strconv.AppendInt(line, int64(p), 10)
		}
		line = append(line, ' ')
		line = strconv.AppendInt(line, int64(c), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, "writing elements")
		}
	}
	fmt.Fprintf(bw, "NPOIN= %d\n", len(g.Coordinates))
	for i, x := range g.Coordinates {
		line = line[:0]
		for _, v := range x {
			line = strconv.AppendFloat(line, v, 'e', 15, 64)
			line = append(line, ' ')
		}
		line = strconv.AppendInt(line, int64(i), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return errors.Wrap(err, "writing points")
		}
	}
	fmt.Fprintf(bw, "NMARK= 0\n")
	return errors.Wrap(bw.Flush(), "flushing SU2 output")
}
