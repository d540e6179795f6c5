package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptConfirmer asks on a terminal. Without a terminal every prompt is
// declined unless assumeYes is set.
type promptConfirmer struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
}

func (p *promptConfirmer) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}

	if !p.interactive {
		return false
	}

	fmt.Fprintf(p.out, "%s [y/N] ", message)

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
