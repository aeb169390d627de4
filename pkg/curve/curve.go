// Package curve builds per-channel video LUT correction curves and encodes
// them in the CAL text format understood by dispwin.
package curve

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Size is the number of LUT entries.
const Size = 256

// Point is one LUT entry. In is the input fraction i/255; R, G and B are the
// clamped output fractions in [0, 1].
type Point struct {
	In float64
	R  float64
	G  float64
	B  float64
}

// Curve is an ordered 256-point correction curve, strictly ascending in In.
type Curve [Size]Point

// Generate computes the curve for the given channel multipliers and overall
// gain (1.0 = neutral). Outputs are clamped to [0, 1]. Generation is pure:
// identical inputs always yield an identical curve.
func Generate(red, green, blue, gain float64) Curve {
	var c Curve
	for i := range c {
		x := float64(i) / 255.0
		c[i] = Point{
			In: x,
			R:  clamp01(x * gain * red),
			G:  clamp01(x * gain * green),
			B:  clamp01(x * gain * blue),
		}
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Encode writes the curve as a CAL text block. The header identifies a
// 4-field RGB display calibration; data lines carry 6 decimal digits.
func (c Curve) Encode(w io.Writer, descriptor string) error {
	bw := bufio.NewWriter(w)

	header := []string{
		"CAL",
		fmt.Sprintf("DESCRIPTOR %q", descriptor),
		`ORIGINATOR "AutoCal Tuner"`,
		`DEVICE_CLASS "DISPLAY"`,
		`COLOR_REP "RGB"`,
		"NUMBER_OF_FIELDS 4",
		"BEGIN_DATA_FORMAT",
		"RGB_I RGB_R RGB_G RGB_B",
		"END_DATA_FORMAT",
		fmt.Sprintf("NUMBER_OF_SETS %d", Size),
		"BEGIN_DATA",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}

	for _, p := range c {
		if _, err := fmt.Fprintf(bw, "%.6f %.6f %.6f %.6f\n", p.In, p.R, p.G, p.B); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(bw, "END_DATA"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile encodes the curve to path, creating or truncating it.
func (c Curve) WriteFile(path, descriptor string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f, descriptor); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
