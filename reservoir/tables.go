package reservoir

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ReadRatings reads a reservoir rating table file.
func ReadRatings(fn string) (_ []Rating, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	rows, err := ParseRatings(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rating table %q", fn)
	}
	return rows, nil
}

// ParseRatings reads a rating table: a count of rows followed by that
// many whitespace separated rows of water surface elevation,
// discharge, and storage.
func ParseRatings(rd io.Reader) ([]Rating, error) {
	sc := newWordScanner(rd, "rating table")
	count, err := sc.next("row count")
	if err != nil {
		return nil, err
	}
	if count < 1 || count >= 100000 {
		return nil, errors.Errorf("rating table declares %v rows", count)
	}
	rows := make([]Rating, int(count))
	for i := range rows {
		if rows[i].Elevation, err = sc.next("elevation"); err != nil {
			return nil, err
		}
		if rows[i].Discharge, err = sc.next("discharge"); err != nil {
			return nil, err
		}
		if rows[i].Storage, err = sc.next("storage"); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// ReadSites reads a reservoir site table file.
func ReadSites(fn string) (_ []Site, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	sites, err := ParseSites(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading reservoir table %q", fn)
	}
	return sites, nil
}

// ParseSites reads the reservoir site table: a count of reservoirs
// followed by one row per reservoir of network node ID, rating table
// type, and initial water surface elevation. A zero count is allowed
// and yields no sites.
func ParseSites(rd io.Reader) ([]Site, error) {
	sc := newWordScanner(rd, "reservoir table")
	count, err := sc.next("reservoir count")
	if err != nil {
		return nil, err
	}
	if count < 0 || count >= 100000 {
		return nil, errors.Errorf("reservoir table declares %v reservoirs", count)
	}
	sites := make([]Site, int(count))
	for i := range sites {
		id, err := sc.next("node ID")
		if err != nil {
			return nil, err
		}
		kind, err := sc.next("reservoir type")
		if err != nil {
			return nil, err
		}
		elev, err := sc.next("initial elevation")
		if err != nil {
			return nil, err
		}
		sites[i] = Site{NodeID: int(id), Type: int(kind), InitialElevation: elev}
	}
	return sites, nil
}

type wordScanner struct {
	sc   *bufio.Scanner
	what string
}

func newWordScanner(rd io.Reader, what string) *wordScanner {
	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	return &wordScanner{sc: sc, what: what}
}

func (w *wordScanner) next(field string) (float64, error) {
	if !w.sc.Scan() {
		if err := w.sc.Err(); err != nil {
			return 0, err
		}
		return 0, errors.Errorf("%s ended before %s", w.what, field)
	}
	v, err := strconv.ParseFloat(w.sc.Text(), 64)
	if err != nil {
		return 0, errors.Errorf("bad %s value %q", field, w.sc.Text())
	}
	return v, nil
}
