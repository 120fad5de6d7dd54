// Package snow models a single layer snowpack through its energy and
// mass balance. The pack carries ice and liquid water as water
// equivalent depths together with one internal energy taken relative
// to an all ice pack at 0 C, so negative energy is cold content and
// positive energy is melt. Steps are explicit in time: fluxes are
// evaluated at the state carried in from the previous step.
package snow

import (
	"math"

	"github.com/pkg/errors"
)

// Material constants. Heat capacities are in kJ/(kg K), latent heats
// in kJ/kg, and the Stefan-Boltzmann constant in kJ/(m^2 s K^4) to
// match the internal flux unit of kJ/(m^2 s).
const (
	rhoWater = 1000 // kg/m^3
	rhoAir   = 1.3  // kg/m^3

	cpIce   = 2.1
	cpWater = 4.19
	cpAir   = 1.005

	latentFreeze  = 334
	latentVapor   = 2500
	latentSublime = 2834

	stefanBoltzmann = 5.67e-11
	emissivitySnow  = 0.98
	vonKarman       = 0.41

	// ratio of the molecular weight of water vapor to dry air
	epsilonVapor = 0.622

	// saturation vapor pressure over a melting surface, mb
	meltVaporPressure = 6.111

	standardPressure = 1013.25 // mb

	minWind = 0.1 // m/s
)

// Precipitation falls entirely as snow below allSnowTemp and entirely
// as rain above allRainTemp, with a linear ramp between.
const (
	allSnowTemp = -1.1 // C
	allRainTemp = 3.3  // C
)

// Age exponents of the dry and wet albedo decay curves.
const (
	dryAgeExp = 0.58
	wetAgeExp = 0.46
)

// CtoK converts a temperature in Celsius to Kelvin.
func CtoK(c float64) float64 { return c + 273.15 }

// KtoC converts a temperature in Kelvin to Celsius.
func KtoC(k float64) float64 { return k - 273.15 }

// CmToM converts a depth in centimeters to meters.
func CmToM(cm float64) float64 { return cm / 100 }

// MToCm converts a depth in meters to centimeters.
func MToCm(m float64) float64 { return m * 100 }

// SnowFrac returns the fraction of precipitation falling as snow at
// the given air temperature.
func SnowFrac(airTempC float64) float64 {
	switch {
	case airTempC <= allSnowTemp:
		return 1
	case airTempC >= allRainTemp:
		return 0
	default:
		return (allRainTemp - airTempC) / (allRainTemp - allSnowTemp)
	}
}

// SatVaporPressure returns the saturation vapor pressure in mb at the
// given temperature.
func SatVaporPressure(tempC float64) float64 {
	return 6.112 * math.Exp(17.67*tempC/(tempC+243.5))
}

// ColdContent returns the energy in kJ/m^2 of an all ice pack of the
// given water equivalent at the given temperature.
func ColdContent(sweM, tempC float64) float64 {
	return cpIce * rhoWater * sweM * tempC
}

// LiquidEnergy returns the energy in kJ/m^2 of the given liquid water
// equivalent held at 0 C.
func LiquidEnergy(liquidM float64) float64 {
	return latentFreeze * rhoWater * liquidM
}

// Config holds the material and surface parameters of a pack. Zero
// fields take the DefaultConfig values.
type Config struct {
	InitialAlbedo  float64 // fresh snow albedo
	MinAlbedo      float64 // albedo floor under aging
	LambdaDry      float64 // daily albedo decay base while the pack is cold
	LambdaWet      float64 // daily albedo decay base while the pack is ripe
	LiquidFraction float64 // liquid holding capacity as a fraction of the ice water equivalent
	FreshDensity   float64 // density of new snow, kg/m^3
	MaxDensity     float64 // density the pack compacts toward, kg/m^3
	CompactionRate float64 // rate of the approach to MaxDensity, 1/day
	MinPackTemp    float64 // floor on the pack temperature, C

	MeasurementHeight float64 // wind and temperature measurement height, m
	RoughnessLength   float64 // momentum roughness of the snow surface, m
}

// DefaultConfig returns the standard parameter set.
func DefaultConfig() Config {
	return Config{
		InitialAlbedo:     0.85,
		MinAlbedo:         0.25,
		LambdaDry:         0.94,
		LambdaWet:         0.82,
		LiquidFraction:    0.4,
		FreshDensity:      100,
		MaxDensity:        550,
		CompactionRate:    0.3,
		MinPackTemp:       -50,
		MeasurementHeight: 2,
		RoughnessLength:   0.005,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InitialAlbedo == 0 {
		c.InitialAlbedo = def.InitialAlbedo
	}
	if c.MinAlbedo == 0 {
		c.MinAlbedo = def.MinAlbedo
	}
	if c.LambdaDry == 0 {
		c.LambdaDry = def.LambdaDry
	}
	if c.LambdaWet == 0 {
		c.LambdaWet = def.LambdaWet
	}
	if c.LiquidFraction == 0 {
		c.LiquidFraction = def.LiquidFraction
	}
	if c.FreshDensity == 0 {
		c.FreshDensity = def.FreshDensity
	}
	if c.MaxDensity == 0 {
		c.MaxDensity = def.MaxDensity
	}
	if c.CompactionRate == 0 {
		c.CompactionRate = def.CompactionRate
	}
	if c.MinPackTemp == 0 {
		c.MinPackTemp = def.MinPackTemp
	}
	if c.MeasurementHeight == 0 {
		c.MeasurementHeight = def.MeasurementHeight
	}
	if c.RoughnessLength == 0 {
		c.RoughnessLength = def.RoughnessLength
	}
	return c
}

func (c Config) validate() error {
	if c.InitialAlbedo <= 0 || c.InitialAlbedo > 1 {
		return errors.Errorf("initial albedo must be in (0, 1], got %v", c.InitialAlbedo)
	}
	if c.MinAlbedo < 0 || c.MinAlbedo > c.InitialAlbedo {
		return errors.Errorf("minimum albedo must be in [0, %v], got %v", c.InitialAlbedo, c.MinAlbedo)
	}
	if c.LambdaDry <= 0 || c.LambdaDry > 1 {
		return errors.Errorf("dry albedo decay base must be in (0, 1], got %v", c.LambdaDry)
	}
	if c.LambdaWet <= 0 || c.LambdaWet > 1 {
		return errors.Errorf("wet albedo decay base must be in (0, 1], got %v", c.LambdaWet)
	}
	if c.LiquidFraction <= 0 || c.LiquidFraction >= 1 {
		return errors.Errorf("liquid holding fraction must be in (0, 1), got %v", c.LiquidFraction)
	}
	if c.FreshDensity <= 0 {
		return errors.Errorf("fresh snow density must be positive, got %v", c.FreshDensity)
	}
	if c.MaxDensity < c.FreshDensity {
		return errors.Errorf("maximum density %v is below the fresh density %v", c.MaxDensity, c.FreshDensity)
	}
	if c.CompactionRate <= 0 {
		return errors.Errorf("compaction rate must be positive, got %v", c.CompactionRate)
	}
	if c.MinPackTemp >= 0 {
		return errors.Errorf("minimum pack temperature must be below 0 C, got %v", c.MinPackTemp)
	}
	if c.RoughnessLength <= 0 || c.MeasurementHeight <= c.RoughnessLength {
		return errors.Errorf("measurement height %v must exceed the roughness length %v and both must be positive",
			c.MeasurementHeight, c.RoughnessLength)
	}
	return nil
}

// AgedAlbedo returns the surface albedo after age hours of decay, on
// the wet curve when the pack is ripe.
func (c Config) AgedAlbedo(ageHours float64, ripe bool) float64 {
	days := ageHours / 24
	var a float64
	if ripe {
		a = c.InitialAlbedo * math.Pow(c.LambdaWet, math.Pow(days, wetAgeExp))
	} else {
		a = c.InitialAlbedo * math.Pow(c.LambdaDry, math.Pow(days, dryAgeExp))
	}
	if a < c.MinAlbedo {
		return c.MinAlbedo
	}
	return a
}

// DensityFromAge returns the pack density in kg/m^3 after age hours of
// compaction.
func (c Config) DensityFromAge(ageHours float64) float64 {
	days := ageHours / 24
	return c.MaxDensity - (c.MaxDensity-c.FreshDensity)*math.Exp(-c.CompactionRate*days)
}

// conductance returns the neutral aerodynamic conductance in m/s for
// the given wind speed.
func (c Config) conductance(wind float64) float64 {
	if wind < minWind {
		wind = minWind
	}
	lr := math.Log(c.MeasurementHeight / c.RoughnessLength)
	return vonKarman * vonKarman * wind / (lr * lr)
}

// State is the prognostic state of a pack. All water equivalents are
// in meters.
type State struct {
	LiquidWE float64 // liquid water equivalent
	IceWE    float64 // ice water equivalent
	SWE      float64 // total water equivalent
	Energy   float64 // internal energy relative to an all ice pack at 0 C, kJ/m^2
	SurfTemp float64 // surface temperature, C
	PackTemp float64 // bulk pack temperature, C

	SurfaceAge float64 // hours since the surface last saw fresh snow
	DensityAge float64 // mass weighted pack age, hours
	Albedo     float64 // surface albedo of the last step
	Density    float64 // kg/m^3
	Depth      float64 // m
}

// Ripe reports whether the pack sits at the melting point holding
// liquid water.
func (s State) Ripe() bool {
	return s.PackTemp == 0 && s.LiquidWE > 0
}

// Pack is a single layer snowpack. The zero state is bare ground; an
// existing pack is installed by assigning State directly.
type Pack struct {
	cfg Config
	State

	PeakSWE     float64 // largest water equivalent seen, m
	Persistence float64 // hours with snow on the ground
}

// New returns a pack over bare ground with the given parameters.
func New(cfg Config) (*Pack, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Pack{cfg: cfg}, nil
}

// Config returns the parameters the pack runs with.
func (p *Pack) Config() Config { return p.cfg }
