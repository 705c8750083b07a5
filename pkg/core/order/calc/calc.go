package calc

import (
	model "github.com/atmolab/gascalc/pkg/model"
)

const (
	// BaselineTemperature is the standard atmospheric temperature returned
	// for an empty order.
	BaselineTemperature = 15.0

	// defaultHeatCapacity covers gases absent from the lookup table.
	defaultHeatCapacity = 25.0
)

// heatCapacities maps gas id to molar heat capacity (J/(mol·K)) for the
// seeded catalog: CO2, O2, Ar, N2, H2O.
var heatCapacities = map[int64]float64{
	1: 37.11,
	2: 29.37,
	3: 20.79,
	4: 29.12,
	5: 33.58,
}

// HeatCapacity returns the tabulated heat capacity for a gas, falling back to
// a generic constant for unknown ids.
func HeatCapacity(gasID int64) float64 {
	if c, ok := heatCapacities[gasID]; ok {
		return c
	}
	return defaultHeatCapacity
}

// Local computes the heat-capacity-weighted mean of line temperatures. Each
// line weighs heatCapacity(gas) * concentration/100; concentration is stored
// as a 0..100 percentage and scaled exactly once here. Zero total weight
// degrades to the plain mean; no lines yields the baseline.
func Local(lines []*model.OrderLine) float64 {
	if len(lines) == 0 {
		return BaselineTemperature
	}

	var weighted, totalWeight float64
	for _, line := range lines {
		w := HeatCapacity(line.GasID) * (line.Concentration / 100)
		weighted += w * line.Temperature
		totalWeight += w
	}
	if totalWeight == 0 {
		return mean(lines, func(l *model.OrderLine) float64 { return l.Temperature })
	}
	return weighted / totalWeight
}

// FromResults computes the concentration-weighted mean of the per-line results
// supplied by the worker, ignoring lines that have no result yet. With results
// present but zero total weight it degrades to the plain mean of results; with
// no results at all it falls back to the plain mean of line temperatures.
func FromResults(lines []*model.OrderLine) float64 {
	if len(lines) == 0 {
		return BaselineTemperature
	}

	var weighted, totalWeight float64
	var resolved []*model.OrderLine
	for _, line := range lines {
		if line.Result == nil {
			continue
		}
		resolved = append(resolved, line)
		w := line.Concentration / 100
		weighted += w * *line.Result
		totalWeight += w
	}

	if len(resolved) == 0 {
		return mean(lines, func(l *model.OrderLine) float64 { return l.Temperature })
	}
	if totalWeight == 0 {
		return mean(resolved, func(l *model.OrderLine) float64 { return *l.Result })
	}
	return weighted / totalWeight
}

func mean(lines []*model.OrderLine, value func(*model.OrderLine) float64) float64 {
	var sum float64
	for _, line := range lines {
		sum += value(line)
	}
	return sum / float64(len(lines))
}
