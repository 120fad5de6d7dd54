// Package reservoir routes streamflow through in-network reservoirs
// by level pool routing over stage-discharge-storage rating tables.
package reservoir

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Rating is one row of a reservoir rating table: the discharge
// released and the volume impounded when the pool sits at a given
// water surface elevation. Pool states between rows interpolate
// linearly.
type Rating struct {
	Elevation float64 // water surface elevation, m
	Discharge float64 // outflow, m^3/s
	Storage   float64 // impounded volume, m^3
}

// Site places a reservoir in the flow network.
type Site struct {
	NodeID           int     // network node the reservoir occupies
	Type             int     // rating table the reservoir uses
	InitialElevation float64 // water surface elevation at the start of the run, m
}

// Reservoir routes inflow through a level pool by the storage
// indication method over its rating table. It records the inflow it
// has been fed so routed hydrographs can be replayed against the
// series that produced them.
type Reservoir struct {
	Site

	table []Rating
	eds   []float64 // 2*S/dt + O per row
	dt    float64   // routing step, s

	state   Rating
	inflows []float64
	steps   int
}

// New builds a reservoir at site from its rating table and the fixed
// routing timestep. The table needs at least two rows with strictly
// increasing elevation and storage and nondecreasing discharge. The
// starting pool state interpolates the table at the site's initial
// elevation, clamped to the table ends.
func New(site Site, table []Rating, step time.Duration) (*Reservoir, error) {
	if step <= 0 {
		return nil, errors.Errorf("routing step must be positive, got %v", step)
	}
	if len(table) < 2 {
		return nil, errors.Errorf("rating table needs at least two rows, got %d", len(table))
	}
	for i, row := range table {
		if !finite(row.Elevation) || !finite(row.Discharge) || !finite(row.Storage) {
			return nil, errors.Errorf("rating row %d is not finite", i)
		}
		if row.Discharge < 0 || row.Storage < 0 {
			return nil, errors.Errorf("rating row %d has negative discharge or storage", i)
		}
		if i == 0 {
			continue
		}
		switch prev := table[i-1]; {
		case row.Elevation <= prev.Elevation:
			return nil, errors.Errorf("rating elevation must increase, row %d has %v after %v",
				i, row.Elevation, prev.Elevation)
		case row.Storage <= prev.Storage:
			return nil, errors.Errorf("rating storage must increase, row %d has %v after %v",
				i, row.Storage, prev.Storage)
		case row.Discharge < prev.Discharge:
			return nil, errors.Errorf("rating discharge must not decrease, row %d has %v after %v",
				i, row.Discharge, prev.Discharge)
		}
	}
	if !finite(site.InitialElevation) {
		return nil, errors.Errorf("initial elevation must be finite, got %v", site.InitialElevation)
	}

	r := &Reservoir{
		Site:    site,
		table:   append([]Rating(nil), table...),
		eds:     make([]float64, len(table)),
		dt:      step.Seconds(),
		inflows: []float64{0},
	}
	for i, row := range r.table {
		r.eds[i] = 2*row.Storage/r.dt + row.Discharge
	}
	r.state = atElevation(r.table, site.InitialElevation)
	return r, nil
}

// State returns the current pool state as a point on the rating curve.
func (r *Reservoir) State() Rating { return r.state }

// Steps returns how many routing steps have run.
func (r *Reservoir) Steps() int { return r.steps }

// Inflows returns a copy of the recorded inflow series. Entry zero is
// the zero inflow seeded before the run; entry i is the inflow routed
// by step i.
func (r *Reservoir) Inflows() []float64 {
	return append([]float64(nil), r.inflows...)
}

// Step routes one timestep of inflow, in m^3/s, and returns the end of
// step pool state. The storage indication form of the level pool
// continuity equation fixes the end of step value of 2*S/dt + O from
// the inflow pair and the current state, and inverting it on the
// rating table yields the new elevation, discharge, and storage.
// Indication values past either end of the table clamp to the end
// row.
func (r *Reservoir) Step(inflow float64) (Rating, error) {
	if !finite(inflow) || inflow < 0 {
		return Rating{}, errors.Errorf("reservoir inflow must be finite and nonnegative, got %v", inflow)
	}
	prev := r.inflows[r.steps]
	r.steps++
	r.inflows = append(r.inflows, inflow)

	x := prev + inflow + 2*r.state.Storage/r.dt - r.state.Discharge
	r.state = r.atIndication(x)
	return r.state, nil
}

// atIndication inverts the storage indication curve at x.
func (r *Reservoir) atIndication(x float64) Rating {
	n := len(r.eds)
	if x <= r.eds[0] {
		return r.table[0]
	}
	if x >= r.eds[n-1] {
		return r.table[n-1]
	}
	k := sort.SearchFloat64s(r.eds, x)
	t := (x - r.eds[k-1]) / (r.eds[k] - r.eds[k-1])
	return lerp(r.table[k-1], r.table[k], t)
}

// atElevation interpolates the rating table at a pool elevation,
// clamping past the table ends.
func atElevation(table []Rating, elev float64) Rating {
	n := len(table)
	if elev <= table[0].Elevation {
		return table[0]
	}
	if elev >= table[n-1].Elevation {
		return table[n-1]
	}
	k := sort.Search(n, func(i int) bool { return table[i].Elevation >= elev })
	t := (elev - table[k-1].Elevation) / (table[k].Elevation - table[k-1].Elevation)
	return lerp(table[k-1], table[k], t)
}

func lerp(lo, hi Rating, t float64) Rating {
	return Rating{
		Elevation: lo.Elevation + t*(hi.Elevation-lo.Elevation),
		Discharge: lo.Discharge + t*(hi.Discharge-lo.Discharge),
		Storage:   lo.Storage + t*(hi.Storage-lo.Storage),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
