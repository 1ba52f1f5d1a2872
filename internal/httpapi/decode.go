package httpapi

import (
	"net/http"

	"tankmon/internal/frame"
	"tankmon/internal/telemetry"
)

// decodeResponse is the on-demand decode DTO for /v1/decode/{word}.
type decodeResponse struct {
	Word    string            `json:"word"`
	Value   uint32            `json:"value"`
	Reading telemetry.Reading `json:"reading"`
	Alarms  []telemetry.Alarm `json:"alarms"`
}

// handleDecode decodes one telemetry word on demand. Nothing is stored; the
// endpoint exists so operators can inspect a frame without the console tool.
func handleDecode(w http.ResponseWriter, r *http.Request) {
	token, cls := frame.Classify(r.PathValue("word"))
	if cls != frame.Valid {
		writeError(w, http.StatusBadRequest, "word must be 1-8 hexadecimal digits")
		return
	}

	word := frame.ParseWord(token)
	reading := telemetry.Decode(word)
	alarms := telemetry.Evaluate(reading)
	if alarms == nil {
		alarms = []telemetry.Alarm{}
	}

	writeJSON(w, http.StatusOK, decodeResponse{
		Word:    "0x" + word.Hex(),
		Value:   uint32(word),
		Reading: reading,
		Alarms:  alarms,
	})
}
