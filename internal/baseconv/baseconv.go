// Package baseconv renders fixed-width unsigned integers in the notations
// used throughout the transmitter documentation: decimal, hexadecimal and
// binary. It is independent of the telemetry decoder.
package baseconv

import "strconv"

// Width is the rendered bit width. Tank controller registers are 16 bits.
const Width = 16

// Binary renders v MSB-first, zero-padded to Width digits (e.g., 23 becomes
// "0000000000010111").
func Binary(v uint16) string {
	out := make([]byte, Width)
	for i := range out {
		out[i] = '0' + byte(v>>(Width-1-i)&1)
	}
	return string(out)
}

// Decimal renders v in base 10 without padding.
func Decimal(v uint16) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Hex renders v in base 16 with the 0x prefix and without padding.
func Hex(v uint16) string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}
