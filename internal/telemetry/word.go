package telemetry

// Telemetry word layout (32 bits): temperature bits 0-7 (raw value minus
// 20 °C), pressure bits 8-14 (raw value plus 1010 hPa), humidity sensor
// flags bits 15-18 (one bit per sensor), fluid level bits 19-31 (liters).
// The four fields partition the word exactly; there are no spare bits.
const (
	temperatureMask = 0xFF

	pressureShift = 8
	pressureMask  = 0x7F

	humidityShift = 15
	humidityMask  = 0xF

	fluidLevelShift = 19
)

// Offsets the transmitter applies so that every field travels unsigned.
const (
	temperatureOffsetC = -20
	pressureOffsetHPa  = 1010
)

// Encodable ranges of the physical values.
const (
	MinTemperatureC = temperatureOffsetC
	MaxTemperatureC = temperatureMask + temperatureOffsetC
	MinPressureHPa  = pressureOffsetHPa
	MaxPressureHPa  = pressureMask + pressureOffsetHPa
	MaxHumidityBits = humidityMask
	MaxFluidLevelL  = 1<<(32-fluidLevelShift) - 1
)

// Word is one packed 32-bit telemetry word as transmitted by the tank
// controller.
type Word uint32

// Temperature returns the fluid temperature in °C (-20..235).
func (w Word) Temperature() int16 {
	return int16(w&temperatureMask) + temperatureOffsetC
}

// Pressure returns the tank pressure in hPa (1010..1137).
func (w Word) Pressure() uint16 {
	return uint16(w>>pressureShift)&pressureMask + pressureOffsetHPa
}

// Humidity returns the raw 4-bit humidity sensor pattern. Each bit is an
// independent sensor flag; the pattern is not a percentage.
func (w Word) Humidity() uint8 {
	return uint8(w>>humidityShift) & humidityMask
}

// FluidLevel returns the fluid level in liters (0..8191).
func (w Word) FluidLevel() uint16 {
	return uint16(w >> fluidLevelShift)
}

// Hex formats the word as 8 uppercase hex digits (e.g., "7D028A2D")
// Helper for frame formatting without pulling in fmt everywhere in logs
func (w Word) Hex() string {
	const hexd = "0123456789ABCDEF"
	out := make([]byte, 8)
	for i := range out {
		out[i] = hexd[(w>>(28-4*i))&0xF]
	}
	return string(out)
}
