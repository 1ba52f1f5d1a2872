// Package simulate produces synthetic telemetry words for exercising the
// monitor without a tank transmitter.
package simulate

import (
	"math/rand"

	"tankmon/internal/telemetry"
)

// alarmBias is the share of generated readings pushed past a threshold so
// the alarm path actually fires during demos.
const alarmBias = 0.2

// Humidity patterns grouped by how many sensor bits they set.
var (
	calmPatterns    = []uint8{0x0, 0x1, 0x2, 0x4, 0x8, 0x3, 0x5, 0x6, 0x9, 0xA, 0xC}
	trippedPatterns = []uint8{0x7, 0xB, 0xD, 0xE, 0xF}
)

// Generator builds random telemetry words, deterministic for a given seed.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns one packed telemetry word.
func (g *Generator) Next() telemetry.Word {
	r := g.reading()
	w, err := r.Pack()
	if err != nil {
		// The generator only produces encodable readings.
		panic(err)
	}
	return w
}

func (g *Generator) reading() telemetry.Reading {
	if g.rng.Float64() < alarmBias {
		return g.alarming()
	}
	return g.nominal()
}

// nominal keeps every field inside its alarm thresholds: temperature
// 5..100 °C, pressure 1013..1135 hPa, at most two tripped humidity bits,
// 1..8000 l of fluid.
func (g *Generator) nominal() telemetry.Reading {
	return telemetry.Reading{
		Temperature: int16(5 + g.rng.Intn(96)),
		Pressure:    uint16(1013 + g.rng.Intn(123)),
		Humidity:    calmPatterns[g.rng.Intn(len(calmPatterns))],
		FluidLevel:  uint16(1 + g.rng.Intn(8000)),
	}
}

// alarming pushes one randomly chosen field past a threshold.
func (g *Generator) alarming() telemetry.Reading {
	r := g.nominal()
	switch g.rng.Intn(4) {
	case 0:
		if g.rng.Intn(2) == 0 {
			r.Temperature = int16(-20 + g.rng.Intn(25)) // -20..4 °C
		} else {
			r.Temperature = int16(101 + g.rng.Intn(135)) // 101..235 °C
		}
	case 1:
		if g.rng.Intn(2) == 0 {
			r.Pressure = uint16(1010 + g.rng.Intn(3)) // 1010..1012 hPa
		} else {
			r.Pressure = uint16(1136 + g.rng.Intn(2)) // 1136..1137 hPa
		}
	case 2:
		r.Humidity = trippedPatterns[g.rng.Intn(len(trippedPatterns))]
	default:
		if g.rng.Intn(2) == 0 {
			r.FluidLevel = 0
		} else {
			r.FluidLevel = uint16(8001 + g.rng.Intn(191)) // 8001..8191 l
		}
	}
	return r
}
