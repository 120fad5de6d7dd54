package grid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// defaultNoData is assumed when a grid header omits NODATA_value.
const defaultNoData = -9999

// ReadASCII reads an ESRI ASCII grid file.
func ReadASCII(fn string) (*Raster, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	r, err := ParseASCII(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading grid %q", fn)
	}
	return r, nil
}

// ParseASCII reads an ESRI ASCII grid from rd. Header keys are matched
// case insensitively in any order, and the center registered forms
// xllcenter/yllcenter are converted to corner registration. A missing
// NODATA_value defaults to -9999.
func ParseASCII(rd io.Reader) (*Raster, error) {
	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	header := map[string]float64{}
	var firstTok string
	haveFirst := false
	for {
		tok, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			break
		}
		key := strings.ToLower(tok)
		switch key {
		case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
			val, ok := next()
			if !ok {
				return nil, errors.Errorf("header key %q has no value", tok)
			}
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, errors.Errorf("bad value %q for header key %q", val, tok)
			}
			header[key] = v
			continue
		}
		// first cell value
		firstTok, haveFirst = tok, true
		break
	}

	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if _, ok := header[key]; !ok {
			return nil, errors.Errorf("grid header is missing %s", key)
		}
	}
	ncols := int(header["ncols"])
	nrows := int(header["nrows"])
	if ncols <= 0 || ncols >= 100000 || nrows <= 0 || nrows >= 100000 {
		return nil, errors.Errorf("bad ncols or nrows for grid %v %v", ncols, nrows)
	}
	cellSize := header["cellsize"]
	if cellSize <= 0 {
		return nil, errors.Errorf("bad cellsize for grid %v", cellSize)
	}

	xll, haveX := header["xllcorner"]
	if !haveX {
		if c, ok := header["xllcenter"]; ok {
			xll, haveX = c-cellSize/2, true
		}
	}
	yll, haveY := header["yllcorner"]
	if !haveY {
		if c, ok := header["yllcenter"]; ok {
			yll, haveY = c-cellSize/2, true
		}
	}
	if !haveX || !haveY {
		return nil, errors.New("grid header is missing the lower left corner")
	}

	nodata, ok := header["nodata_value"]
	if !ok {
		nodata = defaultNoData
	}

	r, err := NewRaster(ncols, nrows, xll, yll, cellSize, nodata)
	if err != nil {
		return nil, err
	}

	tok, haveTok := firstTok, haveFirst
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if !haveTok {
				tok, haveTok = next()
				if !haveTok {
					if err := sc.Err(); err != nil {
						return nil, err
					}
					return nil, errors.Errorf("grid data ended early at row %d col %d", i, j)
				}
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, errors.Errorf("bad cell value %q at row %d col %d", tok, i, j)
			}
			r.data[i][j] = v
			haveTok = false
		}
	}
	return r, nil
}

// WriteASCII writes r to fn in ESRI ASCII format.
func WriteASCII(fn string, r *Raster) (err error) {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if err := r.WriteASCIITo(w); err != nil {
		return err
	}
	return w.Flush()
}

// WriteASCIITo writes the raster to w in ESRI ASCII format. Values are
// formatted with the shortest representation that parses back exactly.
func (r *Raster) WriteASCIITo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "ncols         %d\n", r.ncols); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "nrows         %d\n", r.nrows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "xllcorner     %s\n", formatCell(r.xll)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "yllcorner     %s\n", formatCell(r.yll)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "cellsize      %s\n", formatCell(r.cellSize)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "NODATA_value  %s\n", formatCell(r.nodata)); err != nil {
		return err
	}

	for i := 0; i < r.nrows; i++ {
		for j := 0; j < r.ncols; j++ {
			sep := " "
			if j == 0 {
				sep = ""
			}
			if _, err := io.WriteString(w, sep+formatCell(r.data[i][j])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
