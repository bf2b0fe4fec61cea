// Package prompt is the line-based interactive front end: it reads validated
// non-negative numbers from the user, runs a calculator and prints the result.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"Floe/internal/calc/iceload"
	"Floe/internal/calc/lindqvist"
)

// ErrInputClosed is returned when the input stream ends before a value was read.
var ErrInputClosed = errors.New("input closed")

const invalidNumber = "Invalid input. Please enter a valid non-negative numeric value."

type Session struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *slog.Logger
}

func NewSession(r io.Reader, w io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{in: bufio.NewScanner(r), out: w, logger: logger}
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// ReadNonNegative prints prompt and reads a number, asking again until the
// answer parses and is not negative.
func (s *Session) ReadNonNegative(prompt string) (float64, error) {
	for {
		fmt.Fprint(s.out, prompt)
		line, err := s.readLine()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err == nil && v >= 0 {
			return v, nil
		}
		s.logger.Debug("rejected numeric input", "input", line)
		fmt.Fprintln(s.out, invalidNumber)
	}
}

// ReadPolarClass asks until one of PC1..PC7 is entered.
func (s *Session) ReadPolarClass() (iceload.PolarClass, error) {
	for {
		fmt.Fprint(s.out, "Enter the Polar Class (PC1, PC2, PC3, PC4, PC5, PC6, or PC7): ")
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if _, err := iceload.Factors(iceload.PolarClass(line)); err == nil {
			return iceload.PolarClass(line), nil
		}
		fmt.Fprintln(s.out, "Not acceptable Polar Class. Polar Class should be between PC1 - PC7")
	}
}

// ReadResistanceInput collects the eight level ice inputs in prompt order.
func (s *Session) ReadResistanceInput() (lindqvist.Input, error) {
	var in lindqvist.Input
	fields := []struct {
		prompt string
		dst    *float64
	}{
		{"\nEnter the length of the ship (m): ", &in.LengthM},
		{"Enter the breadth of the ship (m): ", &in.BreadthM},
		{"Enter the draft of the ship (m): ", &in.DraftM},
		{"Enter the ship speed (kn): ", &in.Speed},
		{"Enter the angle (trim) in degrees: ", &in.TrimDeg},
		{"Enter the angle (ship keel - direction of motion) in degrees: ", &in.KeelDeg},
		{"Enter the angle (ship side - waterline) in degrees: ", &in.SideDeg},
		{"Enter the ice thickness in cm: ", &in.IceThicknessCM},
	}
	for _, f := range fields {
		v, err := s.ReadNonNegative(f.prompt)
		if err != nil {
			return lindqvist.Input{}, err
		}
		*f.dst = v
	}
	return in, nil
}

// Resistance runs one level ice resistance calculation.
func (s *Session) Resistance() error {
	in, err := s.ReadResistanceInput()
	if err != nil {
		return err
	}
	res, err := lindqvist.Calculate(in)
	if err != nil {
		return err
	}
	s.logger.Debug("level ice resistance", "input", in, "total_n", res.TotalN)
	fmt.Fprintf(s.out, "%s\n\n", lindqvist.FormatKN(res))
	return nil
}

// DesignLoad runs one bow design ice load calculation.
func (s *Session) DesignLoad() error {
	var in iceload.Input
	var err error
	if in.LengthUIM, err = s.ReadNonNegative("\nEnter the ship's upper ice waterline length (Lui) in meters: "); err != nil {
		return err
	}
	if in.DeadweightKT, err = s.ReadNonNegative("Enter the ship's deadweight (Dui in kt) at Upper Ice Waterline (UIWL): "); err != nil {
		return err
	}
	if in.PolarClass, err = s.ReadPolarClass(); err != nil {
		return err
	}
	if in.BetaPrimeDeg, err = s.ReadNonNegative("Enter the normal frame angle at upper ice waterline for the Bow (β' in degrees): "); err != nil {
		return err
	}
	if in.AlphaDeg, err = s.ReadNonNegative("Enter the upper ice waterline angle for the Bow (α in degrees): "); err != nil {
		return err
	}
	if in.GammaDeg, err = s.ReadNonNegative("Enter the buttock angle at upper ice waterline for the Bow (γ in degrees): "); err != nil {
		return err
	}

	res, err := iceload.Calculate(in)
	if err != nil {
		return err
	}
	f := res.Factors
	fmt.Fprintf(s.out, "\nShape Factors for %s:\n", in.PolarClass)
	fmt.Fprintf(s.out, "  CFC: %s\n  CFF: %s\n  CFD: %s\n  CFDIS: %g\n  CFL: %s\n",
		factor(f.CFC), factor(f.CFF), factor(f.CFD), f.CFDIS, factor(f.CFL))
	fmt.Fprintf(s.out, "\nResults:\n")
	fmt.Fprintf(s.out, "  fai: %.2f\n", res.ShapeCoeff)
	fmt.Fprintf(s.out, "  Fi: %.2f MN\n", res.ForceMN)
	fmt.Fprintf(s.out, "  ARi: %.2f\n", res.AspectRatio)
	fmt.Fprintf(s.out, "  Qi: %.2f MN/m\n", res.LineLoadMNM)
	fmt.Fprintf(s.out, "  Pi: %.2f MPa\n", res.PressureMPa)
	fmt.Fprintf(s.out, "  Design Load Patch (b x w): %.2f x %.2f m\n", res.PatchWidthM, res.PatchHeight)
	fmt.Fprintf(s.out, "  Design Average Pressure (Pavg): %.2f MPa\n", res.AvgPressure)
	return nil
}

// RunMenu loops over the options menu until the user picks 0 or the input
// ends.
func (s *Session) RunMenu() error {
	for {
		fmt.Fprint(s.out, "\nOptions:\n0: End program\n1: Calculate level ice resistance\n2: Calculate design ice load at bow\n")
		choice, err := s.readLine()
		if errors.Is(err, ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "0":
			fmt.Fprintln(s.out, "Exiting the program.")
			return nil
		case "1":
			err = s.Resistance()
		case "2":
			err = s.DesignLoad()
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please select option 0, 1, or 2.")
		}
		if err != nil {
			return err
		}
	}
}

// RunOnce performs a single level ice resistance calculation without the menu.
func (s *Session) RunOnce() error {
	return s.Resistance()
}

// factor prints a class factor the way the table lists it: shortest form,
// but always with a decimal point (9 prints as 9.0).
func factor(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
