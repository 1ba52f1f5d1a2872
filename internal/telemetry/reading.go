package telemetry

import (
	"fmt"
	"math/bits"
)

// Reading is the decoded view of one telemetry word.
type Reading struct {
	Temperature int16  `json:"temperature_c"`
	Pressure    uint16 `json:"pressure_hpa"`
	Humidity    uint8  `json:"humidity_bits"`
	FluidLevel  uint16 `json:"fluid_level_l"`
}

// Decode unpacks the four sensor fields of w. Values outside the documented
// sensor ranges decode as-is; judging them is the evaluator's job.
func Decode(w Word) Reading {
	return Reading{
		Temperature: w.Temperature(),
		Pressure:    w.Pressure(),
		Humidity:    w.Humidity(),
		FluidLevel:  w.FluidLevel(),
	}
}

// Pack is the exact inverse of Decode. It fails when a field does not fit
// the wire layout.
func (r Reading) Pack() (Word, error) {
	if r.Temperature < MinTemperatureC || r.Temperature > MaxTemperatureC {
		return 0, fmt.Errorf("temperature %d °C outside %d..%d", r.Temperature, MinTemperatureC, MaxTemperatureC)
	}
	if r.Pressure < MinPressureHPa || r.Pressure > MaxPressureHPa {
		return 0, fmt.Errorf("pressure %d hPa outside %d..%d", r.Pressure, MinPressureHPa, MaxPressureHPa)
	}
	if r.Humidity > MaxHumidityBits {
		return 0, fmt.Errorf("humidity pattern %#x wider than 4 bits", r.Humidity)
	}
	if r.FluidLevel > MaxFluidLevelL {
		return 0, fmt.Errorf("fluid level %d l outside 0..%d", r.FluidLevel, MaxFluidLevelL)
	}
	w := Word(uint32(r.Temperature - temperatureOffsetC))
	w |= Word(r.Pressure-pressureOffsetHPa) << pressureShift
	w |= Word(r.Humidity) << humidityShift
	w |= Word(r.FluidLevel) << fluidLevelShift
	return w, nil
}

// TrippedHumiditySensors reports how many of the four humidity sensors set
// their flag bit.
func (r Reading) TrippedHumiditySensors() int {
	return bits.OnesCount8(r.Humidity & humidityMask)
}
