// Package mqtt carries telemetry frames between the tank transmitters and
// the monitor. A frame payload is the raw hexadecimal token, one telemetry
// word per message.
package mqtt

import (
	"fmt"
	"strings"
)

// FrameTopic returns the topic one tank publishes its frames on.
func FrameTopic(tankID string) string {
	return fmt.Sprintf("tanks/%s/frames", tankID)
}

// tankIDFromTopic extracts the tank id segment from "tanks/<id>/frames".
// Returns "" when the topic has a different shape.
func tankIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 3 && parts[0] == "tanks" && parts[2] == "frames" {
		return parts[1]
	}
	return ""
}
