package snow

import (
	"math"

	"github.com/pkg/errors"
)

// AutoPhase asks Step to split precipitation into rain and snow from
// the air temperature.
const AutoPhase = -1

// Forcing drives one timestep of a pack.
type Forcing struct {
	AirTemp     float64 // C
	Precip      float64 // m of water equivalent over the step
	LiquidFrac  float64 // rain fraction of the precipitation, AutoPhase to derive it
	ShortWave   float64 // incoming shortwave, W/m^2
	LongWave    float64 // incoming longwave, W/m^2
	Wind        float64 // m/s
	RelHumidity float64 // percent
	Pressure    float64 // mb, zero for the standard atmosphere
	GroundHeat  float64 // W/m^2 into the pack
	Hours       float64 // step length
}

func (f Forcing) validate() error {
	if f.Hours <= 0 {
		return errors.Errorf("step length must be positive, got %v hours", f.Hours)
	}
	if f.Precip < 0 {
		return errors.Errorf("precipitation must not be negative, got %v m", f.Precip)
	}
	if f.LiquidFrac > 1 {
		return errors.Errorf("liquid fraction must be at most 1, got %v", f.LiquidFrac)
	}
	if f.RelHumidity < 0 || f.RelHumidity > 100 {
		return errors.Errorf("relative humidity must be in [0, 100], got %v", f.RelHumidity)
	}
	if f.Pressure < 0 {
		return errors.Errorf("pressure must not be negative, got %v mb", f.Pressure)
	}
	if f.Wind < 0 {
		return errors.Errorf("wind speed must not be negative, got %v m/s", f.Wind)
	}
	if f.ShortWave < 0 {
		return errors.Errorf("shortwave radiation must not be negative, got %v W/m^2", f.ShortWave)
	}
	return nil
}

// Fluxes itemizes the energy exchange of one step in W/m^2, positive
// into the pack. Latent includes the enthalpy of the exchanged vapor
// mass and Precip the enthalpy precipitation arrives with, so Net
// times the step length equals the pack energy change exactly, except
// when the pack temperature floor or the liquid routing intervenes.
type Fluxes struct {
	ShortNet float64
	LongIn   float64
	LongOut  float64
	Sensible float64
	Latent   float64
	Precip   float64
	Ground   float64
	Net      float64
}

// Output reports the water crossing the pack boundaries over one step,
// in m of water equivalent.
type Output struct {
	Routed     float64 // liquid leaving the base of the pack
	Sublimated float64 // ice lost to the atmosphere
	Evaporated float64 // liquid lost to the atmosphere
	Condensed  float64 // vapor gained from the atmosphere
	Snowfall   float64
	Rainfall   float64

	Fluxes Fluxes
}

// Step advances the pack by one forcing interval. Precipitation and
// vapor exchange adjust the mass first, the energy balance then
// updates the internal energy, and the pack settles into either a
// cold state with a new temperature or a ripe state at 0 C whose
// liquid beyond the holding capacity is routed out of the base.
func (p *Pack) Step(f Forcing) (Output, error) {
	if err := f.validate(); err != nil {
		return Output{}, err
	}
	if f.Pressure == 0 {
		f.Pressure = standardPressure
	}
	secs := f.Hours * 3600

	frac := f.LiquidFrac
	if frac < 0 {
		frac = 1 - SnowFrac(f.AirTemp)
	}
	rain := f.Precip * frac
	snowfall := f.Precip - rain
	out := Output{Snowfall: snowfall, Rainfall: rain}

	if p.SWE == 0 && snowfall == 0 {
		// nothing on the ground and none forming: rain passes through
		out.Routed = rain
		return out, nil
	}

	ripe := p.Ripe()

	// precipitation joins the pack carrying the enthalpy of its phase
	var precipEnergy float64 // kJ/m^2
	if snowfall > 0 {
		p.DensityAge *= p.SWE / (p.SWE + snowfall)
		p.SurfaceAge = 0
		p.IceWE += snowfall
		precipEnergy += ColdContent(snowfall, math.Min(f.AirTemp, 0))
	}
	if rain > 0 {
		p.LiquidWE += rain
		precipEnergy += LiquidEnergy(rain) + cpWater*rhoWater*rain*math.Max(f.AirTemp, 0)
	}
	p.SWE = p.IceWE + p.LiquidWE
	p.SurfaceAge += f.Hours
	p.DensityAge += f.Hours

	p.Albedo = p.cfg.AgedAlbedo(p.SurfaceAge, ripe)

	// energy balance at the carried in surface, kJ/(m^2 s)
	tsK := CtoK(p.SurfTemp)
	shortNet := f.ShortWave * (1 - p.Albedo) / 1000
	longIn := emissivitySnow * f.LongWave / 1000
	longOut := emissivitySnow * stefanBoltzmann * tsK * tsK * tsK * tsK
	kaero := p.cfg.conductance(f.Wind)
	sensible := cpAir * rhoAir * kaero * (f.AirTemp - p.SurfTemp)
	ground := f.GroundHeat / 1000

	// vapor exchange against the saturated surface
	eAir := f.RelHumidity / 100 * SatVaporPressure(f.AirTemp)
	eSurf := SatVaporPressure(p.SurfTemp)
	lat := float64(latentSublime)
	if ripe {
		eSurf = meltVaporPressure
		lat = latentVapor
	}
	vaporFlux := rhoAir * kaero * epsilonVapor * (eAir - eSurf) / f.Pressure // kg/(m^2 s)

	exch := vaporFlux * secs / rhoWater // m of water equivalent, negative leaves
	if exch < 0 {
		avail := p.IceWE
		if ripe {
			avail = p.LiquidWE
		}
		if -exch > avail {
			exch = -avail
		}
	}
	latent := lat * exch * rhoWater / secs

	var massEnergy float64 // enthalpy of the exchanged mass, kJ/m^2
	if ripe {
		if exch < 0 {
			out.Evaporated = -exch
		} else {
			out.Condensed = exch
		}
		p.LiquidWE += exch
		massEnergy = LiquidEnergy(exch)
	} else {
		if exch < 0 {
			out.Sublimated = -exch
			massEnergy = -ColdContent(-exch, p.PackTemp)
		} else {
			out.Condensed = exch
			massEnergy = ColdContent(exch, p.SurfTemp)
		}
		p.IceWE += exch
	}
	p.SWE = p.IceWE + p.LiquidWE

	dU := (shortNet + longIn - longOut + sensible + latent + ground) * secs
	p.Energy += dU + precipEnergy + massEnergy

	out.Fluxes = Fluxes{
		ShortNet: shortNet * 1000,
		LongIn:   longIn * 1000,
		LongOut:  longOut * 1000,
		Sensible: sensible * 1000,
		Latent:   (latent*secs + massEnergy) / secs * 1000,
		Precip:   precipEnergy / secs * 1000,
		Ground:   f.GroundHeat,
	}
	out.Fluxes.Net = out.Fluxes.ShortNet + out.Fluxes.LongIn - out.Fluxes.LongOut +
		out.Fluxes.Sensible + out.Fluxes.Latent + out.Fluxes.Precip + out.Fluxes.Ground

	if p.SWE > p.PeakSWE {
		p.PeakSWE = p.SWE
	}
	if p.SWE > 0 {
		p.Persistence += f.Hours
	}

	if p.SWE <= 0 {
		// the pack left through the atmosphere
		p.State = State{}
		return out, nil
	}

	if p.Energy < 0 {
		// cold pack: any liquid refreezes
		p.IceWE = p.SWE
		p.LiquidWE = 0
		t := p.Energy / (cpIce * rhoWater * p.SWE)
		if t < p.cfg.MinPackTemp {
			t = p.cfg.MinPackTemp
			p.Energy = ColdContent(p.SWE, t)
		}
		p.PackTemp = t
		p.SurfTemp = t
	} else {
		// ripe pack at the melting point
		p.PackTemp = 0
		p.SurfTemp = 0
		liq := p.Energy / (latentFreeze * rhoWater)
		if liq >= p.SWE {
			// complete melt
			out.Routed += p.SWE
			p.State = State{}
			return out, nil
		}
		p.IceWE = p.SWE - liq
		p.LiquidWE = liq
		if maxLiq := p.cfg.LiquidFraction * p.IceWE; p.LiquidWE > maxLiq {
			out.Routed += p.LiquidWE - maxLiq
			p.LiquidWE = maxLiq
			p.SWE = p.IceWE + p.LiquidWE
			p.Energy = LiquidEnergy(p.LiquidWE)
		}
	}

	p.Density = p.cfg.DensityFromAge(p.DensityAge)
	p.Depth = p.SWE * rhoWater / p.Density
	return out, nil
}
