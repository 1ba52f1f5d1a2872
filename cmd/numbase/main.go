package main

import (
	"fmt"
	"os"
	"strconv"

	"tankmon/internal/baseconv"
)

// Register constants from the tank controller documentation, used as the
// showcase when no value is given: one quoted in decimal, one in
// hexadecimal, one in binary.
var demo = []struct {
	native string
	value  uint16
}{
	{"2137", 2137},
	{"0x1660", 0x1660},
	{"0b10111", 0b10111},
}

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [value]\n  value  unsigned 16-bit integer; 0x and 0b prefixes select the base\n", os.Args[0])
		os.Exit(1)
	}

	if len(os.Args) == 2 {
		v, err := strconv.ParseUint(os.Args[1], 0, baseconv.Width)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse %q: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		render(os.Args[1], uint16(v))
		return
	}

	for i, d := range demo {
		if i > 0 {
			fmt.Println()
		}
		render(d.native, d.value)
	}
}

func render(native string, v uint16) {
	fmt.Printf("%s\n", native)
	fmt.Printf("  decimal = %s\n", baseconv.Decimal(v))
	fmt.Printf("  hex     = %s\n", baseconv.Hex(v))
	fmt.Printf("  binary  = 0b%s\n", baseconv.Binary(v))
}
