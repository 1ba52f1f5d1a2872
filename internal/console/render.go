package console

import (
	"fmt"

	"tankmon/internal/telemetry"
)

// writeReport prints one decode cycle: the normalized token, the parsed
// word in both notations, the four decoded fields and one line per
// triggered alarm.
func (s *Session) writeReport(token string, word telemetry.Word, r telemetry.Reading, alarms []telemetry.Alarm) {
	fmt.Fprintf(s.out, "Received data = %s\n", token)
	fmt.Fprintf(s.out, "Telemetry word = 0x%s = %d\n", word.Hex(), uint32(word))
	fmt.Fprintf(s.out, "Temperature = %d °C\n", r.Temperature)
	fmt.Fprintf(s.out, "Pressure = 0x%X = %d hPa\n", r.Pressure, r.Pressure)
	fmt.Fprintf(s.out, "Humidity bits = %04b (%d of 4 sensors tripped)\n", r.Humidity, r.TrippedHumiditySensors())
	fmt.Fprintf(s.out, "Fluid level = 0x%X = %d l\n", r.FluidLevel, r.FluidLevel)
	for _, a := range alarms {
		fmt.Fprintf(s.out, "ALARM: %s\n", a.Message)
	}
}
