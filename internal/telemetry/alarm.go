package telemetry

import "fmt"

// Fixed alarm thresholds. These mirror the transmitter firmware and are not
// configurable.
const (
	lowTemperatureMaxC  = 4
	highTemperatureMinC = 100

	normalPressureHPa = 1013
	maxPressureHPa    = 1135

	maxTrippedHumiditySensors = 2

	fluidLevelLimitL = 8000
	// TODO: confirm the documented tank capacity; the alarm trips above
	// 8000 l but operator docs cite 8100 l.
	fluidLevelDocumentedMaxL = 8100
)

// Rule identifies one alarm condition.
type Rule string

const (
	RuleLowTemperature     Rule = "low_temperature"
	RuleHighTemperature    Rule = "high_temperature"
	RuleLowPressure        Rule = "low_pressure"
	RuleHighPressure       Rule = "high_pressure"
	RuleHumidityOutOfRange Rule = "humidity_out_of_range"
	RuleTankEmpty          Rule = "tank_empty"
	RuleFluidLevelTooHigh  Rule = "fluid_level_too_high"
)

// Alarm is one triggered rule with its operator-facing message.
type Alarm struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Evaluate checks r against the fixed thresholds and returns the triggered
// alarms in field order: temperature, pressure, humidity, fluid level.
// Fields are judged independently, so a single reading can raise up to four
// alarms. Evaluate keeps no state between readings.
func Evaluate(r Reading) []Alarm {
	var alarms []Alarm
	if r.Temperature <= lowTemperatureMaxC {
		alarms = append(alarms, Alarm{
			Rule:    RuleLowTemperature,
			Message: fmt.Sprintf("fluid temperature %d °C is at or below %d °C", r.Temperature, lowTemperatureMaxC),
		})
	} else if r.Temperature > highTemperatureMinC {
		alarms = append(alarms, Alarm{
			Rule:    RuleHighTemperature,
			Message: fmt.Sprintf("fluid temperature %d °C is above %d °C", r.Temperature, highTemperatureMinC),
		})
	}
	if r.Pressure < normalPressureHPa {
		alarms = append(alarms, Alarm{
			Rule:    RuleLowPressure,
			Message: fmt.Sprintf("tank pressure %d hPa is below normal pressure (%d hPa)", r.Pressure, normalPressureHPa),
		})
	} else if r.Pressure > maxPressureHPa {
		alarms = append(alarms, Alarm{
			Rule:    RuleHighPressure,
			Message: fmt.Sprintf("tank pressure %d hPa is above the %d hPa maximum", r.Pressure, maxPressureHPa),
		})
	}
	if tripped := r.TrippedHumiditySensors(); tripped > maxTrippedHumiditySensors {
		alarms = append(alarms, Alarm{
			Rule:    RuleHumidityOutOfRange,
			Message: fmt.Sprintf("humidity is out of the acceptable range (%d of 4 sensors tripped)", tripped),
		})
	}
	if r.FluidLevel == 0 {
		alarms = append(alarms, Alarm{
			Rule:    RuleTankEmpty,
			Message: "the tank is empty",
		})
	} else if r.FluidLevel > fluidLevelLimitL {
		alarms = append(alarms, Alarm{
			Rule:    RuleFluidLevelTooHigh,
			Message: fmt.Sprintf("fluid level %d l is too high (maximum fluid level is %d l)", r.FluidLevel, fluidLevelDocumentedMaxL),
		})
	}
	return alarms
}
