package snow

import (
	"testing"

	"go.viam.com/test"
)

func TestUnitConversions(t *testing.T) {
	test.That(t, CtoK(0), test.ShouldEqual, 273.15)
	test.That(t, CtoK(-40), test.ShouldEqual, 233.15)
	test.That(t, KtoC(CtoK(12.5)), test.ShouldAlmostEqual, 12.5)
	test.That(t, CmToM(250), test.ShouldEqual, 2.5)
	test.That(t, MToCm(2.5), test.ShouldEqual, 250)
	test.That(t, MToCm(CmToM(37)), test.ShouldAlmostEqual, 37)
}

func TestSnowFrac(t *testing.T) {
	test.That(t, SnowFrac(-20), test.ShouldEqual, 1)
	test.That(t, SnowFrac(allSnowTemp), test.ShouldEqual, 1)
	test.That(t, SnowFrac(allRainTemp), test.ShouldEqual, 0)
	test.That(t, SnowFrac(10), test.ShouldEqual, 0)
	// midpoint of the ramp
	test.That(t, SnowFrac(1.1), test.ShouldAlmostEqual, 0.5)
	// monotone through the mixed range
	prev := 1.0
	for temp := allSnowTemp; temp <= allRainTemp; temp += 0.2 {
		f := SnowFrac(temp)
		test.That(t, f, test.ShouldBeLessThanOrEqualTo, prev)
		prev = f
	}
}

func TestSatVaporPressure(t *testing.T) {
	test.That(t, SatVaporPressure(0), test.ShouldAlmostEqual, 6.112)
	// Magnus form benchmarks
	test.That(t, SatVaporPressure(20), test.ShouldAlmostEqual, 23.4, 0.2)
	test.That(t, SatVaporPressure(-20), test.ShouldAlmostEqual, 1.25, 0.05)
	test.That(t, SatVaporPressure(10), test.ShouldBeGreaterThan, SatVaporPressure(-10))
}

func TestEnergyHelpers(t *testing.T) {
	// 10 cm of ice at -5 C and its melt equivalent
	test.That(t, ColdContent(0.1, -5), test.ShouldAlmostEqual, -1050)
	test.That(t, ColdContent(0.1, 0), test.ShouldEqual, 0)
	test.That(t, LiquidEnergy(0.01), test.ShouldAlmostEqual, 3340)
	test.That(t, LiquidEnergy(0), test.ShouldEqual, 0)
}

func TestAgedAlbedo(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.AgedAlbedo(0, false), test.ShouldAlmostEqual, cfg.InitialAlbedo)
	test.That(t, cfg.AgedAlbedo(0, true), test.ShouldAlmostEqual, cfg.InitialAlbedo)

	day := cfg.AgedAlbedo(24, false)
	week := cfg.AgedAlbedo(7*24, false)
	test.That(t, day, test.ShouldBeLessThan, cfg.InitialAlbedo)
	test.That(t, week, test.ShouldBeLessThan, day)

	// a ripe surface darkens faster than a cold one
	test.That(t, cfg.AgedAlbedo(5*24, true), test.ShouldBeLessThan, cfg.AgedAlbedo(5*24, false))

	// the floor holds for arbitrarily old surfaces
	test.That(t, cfg.AgedAlbedo(365*24, true), test.ShouldEqual, cfg.MinAlbedo)
	test.That(t, cfg.AgedAlbedo(365*24, false), test.ShouldEqual, cfg.MinAlbedo)
}

func TestDensityFromAge(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.DensityFromAge(0), test.ShouldAlmostEqual, cfg.FreshDensity)
	day := cfg.DensityFromAge(24)
	month := cfg.DensityFromAge(30*24)
	test.That(t, day, test.ShouldBeGreaterThan, cfg.FreshDensity)
	test.That(t, month, test.ShouldBeGreaterThan, day)
	test.That(t, month, test.ShouldBeLessThanOrEqualTo, cfg.MaxDensity)
	test.That(t, cfg.DensityFromAge(365*24), test.ShouldAlmostEqual, cfg.MaxDensity, 1)
}

func TestNewDefaults(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Config(), test.ShouldResemble, DefaultConfig())
	test.That(t, p.SWE, test.ShouldEqual, 0)

	// explicit parameters survive
	p, err = New(Config{InitialAlbedo: 0.9, FreshDensity: 120})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Config().InitialAlbedo, test.ShouldEqual, 0.9)
	test.That(t, p.Config().FreshDensity, test.ShouldEqual, 120)
	test.That(t, p.Config().MaxDensity, test.ShouldEqual, DefaultConfig().MaxDensity)
}

func TestNewValidation(t *testing.T) {
	for _, cfg := range []Config{
		{InitialAlbedo: 1.5},
		{MinAlbedo: 0.95},
		{LambdaDry: 1.2},
		{LambdaWet: -0.5},
		{LiquidFraction: 1.5},
		{MaxDensity: 50},
		{CompactionRate: -1},
		{MinPackTemp: 10},
		{RoughnessLength: 5},
	} {
		_, err := New(cfg)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestStepValidation(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	for _, f := range []Forcing{
		{},
		{Hours: -1},
		{Hours: 1, Precip: -0.01},
		{Hours: 1, LiquidFrac: 2},
		{Hours: 1, RelHumidity: 150},
		{Hours: 1, RelHumidity: -5},
		{Hours: 1, Pressure: -900},
		{Hours: 1, Wind: -3},
		{Hours: 1, ShortWave: -100},
	} {
		_, err := p.Step(f)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestStepRainPassthrough(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)

	out, err := p.Step(Forcing{
		AirTemp:    10,
		Precip:     0.004,
		LiquidFrac: AutoPhase,
		Hours:      1,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Rainfall, test.ShouldEqual, 0.004)
	test.That(t, out.Snowfall, test.ShouldEqual, 0)
	test.That(t, out.Routed, test.ShouldEqual, 0.004)
	test.That(t, p.SWE, test.ShouldEqual, 0)
	test.That(t, p.Persistence, test.ShouldEqual, 0)
}

func TestStepAccumulatesColdSnow(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		IceWE:      0.5,
		SWE:        0.5,
		Energy:     ColdContent(0.5, -5),
		PackTemp:   -5,
		SurfTemp:   -5,
		SurfaceAge: 24,
		DensityAge: 24,
	}
	e0 := p.Energy

	out, err := p.Step(Forcing{
		AirTemp:     -10,
		Precip:      0.01,
		LiquidFrac:  AutoPhase,
		ShortWave:   100,
		LongWave:    240,
		Wind:        2,
		RelHumidity: 70,
		Hours:       1,
	})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, out.Snowfall, test.ShouldEqual, 0.01)
	test.That(t, out.Rainfall, test.ShouldEqual, 0)
	test.That(t, out.Routed, test.ShouldEqual, 0)
	test.That(t, out.Sublimated, test.ShouldBeGreaterThan, 1e-5)
	test.That(t, out.Sublimated, test.ShouldBeLessThan, 2e-4)

	test.That(t, p.SWE, test.ShouldAlmostEqual, 0.51-out.Sublimated, 1e-12)
	test.That(t, p.LiquidWE, test.ShouldEqual, 0)
	test.That(t, p.Ripe(), test.ShouldBeFalse)
	// the pack cools: cold air, cold snowfall, and a radiative deficit
	test.That(t, p.PackTemp, test.ShouldBeLessThan, -5)
	test.That(t, p.PackTemp, test.ShouldBeGreaterThan, -7)
	test.That(t, p.SurfTemp, test.ShouldEqual, p.PackTemp)

	// fresh snow resets the surface age
	test.That(t, p.SurfaceAge, test.ShouldEqual, 1)
	test.That(t, p.Albedo, test.ShouldAlmostEqual, p.Config().AgedAlbedo(1, false))
	test.That(t, p.DensityAge, test.ShouldBeLessThan, 25)
	test.That(t, p.DensityAge, test.ShouldBeGreaterThan, 24)

	test.That(t, p.PeakSWE, test.ShouldEqual, p.SWE)
	test.That(t, p.Persistence, test.ShouldEqual, 1)
	test.That(t, p.Density, test.ShouldBeGreaterThan, p.Config().FreshDensity)
	test.That(t, p.Depth, test.ShouldAlmostEqual, p.SWE*1000/p.Density, 1e-9)

	// the reported fluxes close against the energy change
	test.That(t, p.Energy-e0, test.ShouldAlmostEqual, out.Fluxes.Net*3600/1000, 1e-6)
}

func TestStepMeltRouting(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		LiquidWE:   0.005,
		IceWE:      0.015,
		SWE:        0.02,
		Energy:     LiquidEnergy(0.005),
		SurfaceAge: 48,
		DensityAge: 48,
	}
	test.That(t, p.Ripe(), test.ShouldBeTrue)

	out, err := p.Step(Forcing{
		AirTemp:     5,
		ShortWave:   800,
		LongWave:    350,
		Wind:        3,
		RelHumidity: 80,
		Hours:       1,
	})
	test.That(t, err, test.ShouldBeNil)

	// strong melt forcing pushes the liquid past the holding capacity
	test.That(t, out.Routed, test.ShouldBeGreaterThan, 0.003)
	test.That(t, out.Routed, test.ShouldBeLessThan, 0.008)
	test.That(t, out.Condensed, test.ShouldBeGreaterThan, 0.0)
	test.That(t, p.Ripe(), test.ShouldBeTrue)
	test.That(t, p.PackTemp, test.ShouldEqual, 0)
	test.That(t, p.LiquidWE, test.ShouldAlmostEqual, p.Config().LiquidFraction*p.IceWE, 1e-15)
	test.That(t, p.Energy, test.ShouldAlmostEqual, LiquidEnergy(p.LiquidWE), 1e-9)
	test.That(t, p.SWE, test.ShouldAlmostEqual, p.IceWE+p.LiquidWE, 1e-15)

	// ripe surface ages on the wet curve
	test.That(t, p.Albedo, test.ShouldAlmostEqual, p.Config().AgedAlbedo(49, true))
}

func TestStepRefreeze(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		LiquidWE:   0.01,
		IceWE:      0.09,
		SWE:        0.1,
		Energy:     LiquidEnergy(0.01),
		SurfaceAge: 12,
		DensityAge: 12,
	}
	e0 := p.Energy

	out, err := p.Step(Forcing{
		AirTemp:     -15,
		LongWave:    240,
		Wind:        2,
		RelHumidity: 60,
		Hours:       6,
	})
	test.That(t, err, test.ShouldBeNil)

	// the melt water refreezes and the pack goes cold
	test.That(t, p.LiquidWE, test.ShouldEqual, 0)
	test.That(t, p.IceWE, test.ShouldEqual, p.SWE)
	test.That(t, p.Ripe(), test.ShouldBeFalse)
	test.That(t, p.PackTemp, test.ShouldBeLessThan, -15)
	test.That(t, p.PackTemp, test.ShouldBeGreaterThan, -30)

	// some liquid evaporated from the still ripe surface
	test.That(t, out.Evaporated, test.ShouldBeGreaterThan, 0.0)
	test.That(t, out.Routed, test.ShouldEqual, 0)

	test.That(t, p.Energy-e0, test.ShouldAlmostEqual, out.Fluxes.Net*6*3600/1000, 1e-6)
}

func TestStepFullMelt(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		IceWE: 0.001,
		SWE:   0.001,
	}

	out, err := p.Step(Forcing{
		AirTemp:     10,
		ShortWave:   600,
		LongWave:    350,
		Wind:        2,
		RelHumidity: 55,
		Hours:       2,
	})
	test.That(t, err, test.ShouldBeNil)

	// everything leaves through the base
	test.That(t, out.Routed, test.ShouldAlmostEqual, 0.001+out.Condensed, 1e-12)
	test.That(t, p.State, test.ShouldResemble, State{})
	test.That(t, p.PeakSWE, test.ShouldAlmostEqual, 0.001+out.Condensed, 1e-12)
	test.That(t, p.Persistence, test.ShouldEqual, 2)
}

func TestStepSublimatesAway(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		IceWE:    1e-6,
		SWE:      1e-6,
		Energy:   ColdContent(1e-6, -5),
		PackTemp: -5,
		SurfTemp: -5,
	}

	out, err := p.Step(Forcing{
		AirTemp:     -5,
		Wind:        5,
		RelHumidity: 10,
		Hours:       1,
	})
	test.That(t, err, test.ShouldBeNil)

	// the demand exceeds the pack, so the loss clamps to what is there
	test.That(t, out.Sublimated, test.ShouldEqual, 1e-6)
	test.That(t, out.Routed, test.ShouldEqual, 0)
	test.That(t, p.State, test.ShouldResemble, State{})
}

func TestStepRainOnColdPack(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	p.State = State{
		IceWE:      0.2,
		SWE:        0.2,
		Energy:     ColdContent(0.2, -2),
		PackTemp:   -2,
		SurfTemp:   -2,
		SurfaceAge: 6,
		DensityAge: 6,
	}
	e0 := p.Energy

	out, err := p.Step(Forcing{
		AirTemp:     -5,
		Precip:      0.004,
		LiquidFrac:  0.5,
		LongWave:    300,
		RelHumidity: 90,
		Hours:       1,
	})
	test.That(t, err, test.ShouldBeNil)

	// the explicit split overrides the temperature derived phase
	test.That(t, out.Snowfall, test.ShouldEqual, 0.002)
	test.That(t, out.Rainfall, test.ShouldEqual, 0.002)

	// rain freezes into the cold pack and its latent heat warms it
	test.That(t, p.LiquidWE, test.ShouldEqual, 0)
	test.That(t, p.PackTemp, test.ShouldBeGreaterThan, -2)
	test.That(t, p.PackTemp, test.ShouldBeLessThan, 0)
	test.That(t, out.Routed, test.ShouldEqual, 0)

	test.That(t, p.Energy-e0, test.ShouldAlmostEqual, out.Fluxes.Net*3600/1000, 1e-6)
}

func TestStepTemperatureFloor(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)
	// a sliver of snow under brutal radiative cooling pins at the floor
	p.State = State{
		IceWE:    0.002,
		SWE:      0.002,
		PackTemp: -10,
		SurfTemp: -10,
		Energy:   ColdContent(0.002, -10),
	}

	_, err = p.Step(Forcing{
		AirTemp:     -40,
		Wind:        10,
		RelHumidity: 40,
		Hours:       6,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.PackTemp, test.ShouldEqual, p.Config().MinPackTemp)
	test.That(t, p.Energy, test.ShouldAlmostEqual, ColdContent(p.SWE, p.Config().MinPackTemp), 1e-9)
}

func TestStepSeason(t *testing.T) {
	p, err := New(Config{})
	test.That(t, err, test.ShouldBeNil)

	// a cold snowy spell, a dry cold spell, then a warm sunny spell
	for i := 0; i < 24; i++ {
		_, err := p.Step(Forcing{
			AirTemp:     -8,
			Precip:      0.01,
			LiquidFrac:  AutoPhase,
			ShortWave:   50,
			LongWave:    260,
			Wind:        2,
			RelHumidity: 80,
			Hours:       1,
		})
		test.That(t, err, test.ShouldBeNil)
	}
	test.That(t, p.SWE, test.ShouldBeGreaterThan, 0.2)
	afterStorm := p.SWE

	for i := 0; i < 48; i++ {
		_, err := p.Step(Forcing{
			AirTemp:     -3,
			ShortWave:   120,
			LongWave:    280,
			Wind:        1,
			RelHumidity: 70,
			Hours:       1,
		})
		test.That(t, err, test.ShouldBeNil)
	}
	// nothing fell, so only vapor exchange moved the total
	test.That(t, p.SWE, test.ShouldAlmostEqual, afterStorm, 0.01)

	var melt float64
	for i := 0; i < 200 && p.SWE > 0; i++ {
		out, err := p.Step(Forcing{
			AirTemp:     8,
			ShortWave:   700,
			LongWave:    340,
			Wind:        3,
			RelHumidity: 60,
			Hours:       1,
		})
		test.That(t, err, test.ShouldBeNil)
		melt += out.Routed
	}
	// the pack ablates completely and the routed water accounts for it
	test.That(t, p.SWE, test.ShouldEqual, 0)
	test.That(t, melt, test.ShouldBeGreaterThan, 0.2)
	test.That(t, p.PeakSWE, test.ShouldBeGreaterThan, 0.2)
	test.That(t, p.Persistence, test.ShouldBeGreaterThan, 72)
}
