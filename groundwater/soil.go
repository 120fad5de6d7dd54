// Package groundwater derives a steady state initial water table for a
// basin from its terrain, following the TOPMODEL assumption that the
// depth to saturation tracks the local topographic index.
package groundwater

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Soil holds basin averaged soil hydraulic and thermal properties.
type Soil struct {
	ID               int
	Conductivity     float64 // saturated hydraulic conductivity at the surface, mm/hr
	SatMoisture      float64 // saturated moisture content
	ResidMoisture    float64 // residual moisture content
	PoreIndex        float64 // pore size distribution index
	AirEntry         float64 // air entry bubbling pressure, mm
	Decay            float64 // conductivity decay parameter f, 1/mm
	Anisotropy       float64 // saturated conductivity anisotropy ratio
	UnsatAnisotropy  float64 // unsaturated conductivity anisotropy ratio
	Porosity         float64
	HeatConductivity float64 // volumetric heat conductivity, J/msK
	HeatCapacity     float64 // soil heat capacity, J/m3K
}

// Gamma returns the areal integral soil parameter ln(K0 A_r / f) used
// by the steady state water table computation.
func (s Soil) Gamma() float64 {
	return math.Log(s.Conductivity * s.Anisotropy / s.Decay)
}

// MoistureAbove returns the integrated moisture content of the soil
// column above a water table at the given depth in mm.
func (s Soil) MoistureAbove(depth float64) float64 {
	diff := s.Porosity - s.ResidMoisture
	return diff*s.PoreIndex/s.Decay*(1-math.Exp(-s.Decay*depth/s.PoreIndex)) + s.ResidMoisture*depth
}

func (s Soil) validate() error {
	if s.Conductivity <= 0 {
		return errors.Errorf("soil conductivity must be positive, got %v", s.Conductivity)
	}
	if s.Decay <= 0 {
		return errors.Errorf("soil conductivity decay must be positive, got %v", s.Decay)
	}
	if s.Anisotropy <= 0 {
		return errors.Errorf("soil anisotropy must be positive, got %v", s.Anisotropy)
	}
	return nil
}

// ReadSoilTable reads the basin averaged soil properties from a
// reclassification table file.
func ReadSoilTable(fn string) (Soil, error) {
	f, err := os.Open(fn)
	if err != nil {
		return Soil{}, err
	}
	defer utils.UncheckedErrorFunc(f.Close)

	s, err := ParseSoilTable(f)
	if err != nil {
		return Soil{}, errors.Wrapf(err, "reading soil table %q", fn)
	}
	return s, nil
}

// ParseSoilTable reads a soil reclassification table: a header of two
// counts (soil types, properties per type) followed by one row per
// type of twelve whitespace separated values, the type ID and then the
// eleven properties in Soil field order. The first row is taken as the
// basin average.
func ParseSoilTable(rd io.Reader) (Soil, error) {
	sc := bufio.NewScanner(rd)
	sc.Split(bufio.ScanWords)
	next := func(what string) (float64, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, errors.Errorf("soil table ended before %s", what)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return 0, errors.Errorf("bad %s value %q", what, sc.Text())
		}
		return v, nil
	}

	types, err := next("type count")
	if err != nil {
		return Soil{}, err
	}
	if types < 1 {
		return Soil{}, errors.Errorf("soil table declares %v types", types)
	}
	if _, err := next("property count"); err != nil {
		return Soil{}, err
	}

	var s Soil
	fields := []struct {
		name string
		dst  *float64
	}{
		{"conductivity", &s.Conductivity},
		{"saturated moisture", &s.SatMoisture},
		{"residual moisture", &s.ResidMoisture},
		{"pore index", &s.PoreIndex},
		{"air entry pressure", &s.AirEntry},
		{"conductivity decay", &s.Decay},
		{"anisotropy", &s.Anisotropy},
		{"unsaturated anisotropy", &s.UnsatAnisotropy},
		{"porosity", &s.Porosity},
		{"heat conductivity", &s.HeatConductivity},
		{"heat capacity", &s.HeatCapacity},
	}
	id, err := next("soil ID")
	if err != nil {
		return Soil{}, err
	}
	s.ID = int(id)
	for _, f := range fields {
		v, err := next(f.name)
		if err != nil {
			return Soil{}, err
		}
		*f.dst = v
	}
	return s, nil
}
