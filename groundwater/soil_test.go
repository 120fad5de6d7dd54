package groundwater

import (
	"math"
	"os"
	"strings"
	"testing"

	"go.viam.com/test"
)

const soilTable = `1 12
1 10.0 0.45 0.05 0.3 -200 0.0008 1.2 1.0 0.45 1.5 2000000
`

func TestParseSoilTable(t *testing.T) {
	s, err := ParseSoilTable(strings.NewReader(soilTable))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.ID, test.ShouldEqual, 1)
	test.That(t, s.Conductivity, test.ShouldEqual, 10.0)
	test.That(t, s.SatMoisture, test.ShouldEqual, 0.45)
	test.That(t, s.ResidMoisture, test.ShouldEqual, 0.05)
	test.That(t, s.PoreIndex, test.ShouldEqual, 0.3)
	test.That(t, s.AirEntry, test.ShouldEqual, -200)
	test.That(t, s.Decay, test.ShouldEqual, 0.0008)
	test.That(t, s.Anisotropy, test.ShouldEqual, 1.2)
	test.That(t, s.UnsatAnisotropy, test.ShouldEqual, 1.0)
	test.That(t, s.Porosity, test.ShouldEqual, 0.45)
	test.That(t, s.HeatConductivity, test.ShouldEqual, 1.5)
	test.That(t, s.HeatCapacity, test.ShouldEqual, 2000000)
}

func TestParseSoilTableErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "ended before type count"},
		{"zero types", "0 12\n", "declares 0 types"},
		{"missing property count", "1", "ended before property count"},
		{"truncated row", "1 12\n1 10.0 0.45\n", "ended before residual moisture"},
		{"bad value", "1 12\n1 ten\n", "bad conductivity value"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSoilTable(strings.NewReader(tc.in))
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.want)
		})
	}
}

func TestReadSoilTable(t *testing.T) {
	dir := t.TempDir()
	fn := dir + "/soil.sdtt"
	test.That(t, os.WriteFile(fn, []byte(soilTable), 0o644), test.ShouldBeNil)

	s, err := ReadSoilTable(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Conductivity, test.ShouldEqual, 10.0)

	_, err = ReadSoilTable(dir + "/nope.sdtt")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSoilGamma(t *testing.T) {
	s := Soil{Conductivity: 10, Anisotropy: 2, Decay: 0.0008}
	test.That(t, s.Gamma(), test.ShouldAlmostEqual, math.Log(10*2/0.0008), 1e-12)
}

func TestSoilMoistureAbove(t *testing.T) {
	s := Soil{
		Porosity:      0.45,
		ResidMoisture: 0.05,
		PoreIndex:     0.3,
		Decay:         0.0008,
	}

	// No column above a table at the surface.
	test.That(t, s.MoistureAbove(0), test.ShouldEqual, 0.0)

	// Moisture accumulates monotonically with depth.
	prev := 0.0
	for _, d := range []float64{10, 100, 1000, 10000} {
		m := s.MoistureAbove(d)
		test.That(t, m, test.ShouldBeGreaterThan, prev)
		// Never more than a saturated column, never less than residual.
		test.That(t, m, test.ShouldBeLessThan, s.Porosity*d)
		test.That(t, m, test.ShouldBeGreaterThanOrEqualTo, s.ResidMoisture*d)
		prev = m
	}
}

func TestSoilValidate(t *testing.T) {
	good := Soil{Conductivity: 10, Decay: 0.0008, Anisotropy: 1}
	test.That(t, good.validate(), test.ShouldBeNil)

	bad := good
	bad.Conductivity = 0
	test.That(t, bad.validate(), test.ShouldNotBeNil)

	bad = good
	bad.Decay = -1
	test.That(t, bad.validate(), test.ShouldNotBeNil)

	bad = good
	bad.Anisotropy = 0
	test.That(t, bad.validate(), test.ShouldNotBeNil)
}
