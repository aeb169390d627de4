package curve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNeutral(t *testing.T) {
	c := Generate(1, 1, 1, 1)

	assert.Equal(t, 0.0, c[0].In)
	assert.Equal(t, 1.0, c[255].In)
	assert.Equal(t, 1.0, c[255].R)

	// Identity: output equals input for every channel.
	for i, p := range c {
		assert.InDelta(t, p.In, p.R, 1e-9, "index %d", i)
		assert.InDelta(t, p.In, p.G, 1e-9, "index %d", i)
		assert.InDelta(t, p.In, p.B, 1e-9, "index %d", i)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(0.97, 1.02, 1.0, 1.05)
	b := Generate(0.97, 1.02, 1.0, 1.05)
	assert.Equal(t, a, b)
}

func TestGenerateStrictlyAscendingInput(t *testing.T) {
	c := Generate(0.9, 1.1, 1.0, 1.2)
	for i := 1; i < Size; i++ {
		assert.Greater(t, c[i].In, c[i-1].In)
	}
}

func TestGenerateClamped(t *testing.T) {
	// Gain pushes products above 1.0; a negative factor pushes below 0.
	c := Generate(2.0, -1.0, 1.0, 2.0)
	for i, p := range c {
		assert.GreaterOrEqual(t, p.R, 0.0, "index %d", i)
		assert.LessOrEqual(t, p.R, 1.0, "index %d", i)
		assert.Equal(t, 0.0, p.G, "index %d", i)
		assert.LessOrEqual(t, p.B, 1.0, "index %d", i)
	}
	assert.Equal(t, 1.0, c[255].R)
}

func TestGenerateMidpoint(t *testing.T) {
	// After decrease-red and increase-gain from neutral.
	c := Generate(0.99, 1.0, 1.0, 1.01)
	want := (127.0 / 255.0) * 0.99 * 1.01
	assert.InDelta(t, want, c[127].R, 1e-9)
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	c := Generate(1, 1, 1, 1)
	require.NoError(t, c.Encode(&buf, "Real-time Tuning"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.Equal(t, "CAL", lines[0])
	assert.Equal(t, `DESCRIPTOR "Real-time Tuning"`, lines[1])
	assert.Equal(t, `ORIGINATOR "AutoCal Tuner"`, lines[2])
	assert.Equal(t, `DEVICE_CLASS "DISPLAY"`, lines[3])
	assert.Equal(t, `COLOR_REP "RGB"`, lines[4])
	assert.Equal(t, "NUMBER_OF_FIELDS 4", lines[5])
	assert.Equal(t, "RGB_I RGB_R RGB_G RGB_B", lines[7])
	assert.Equal(t, "NUMBER_OF_SETS 256", lines[9])
	assert.Equal(t, "BEGIN_DATA", lines[10])
	assert.Equal(t, "END_DATA", lines[len(lines)-1])

	data := lines[11 : len(lines)-1]
	require.Len(t, data, 256)
	assert.Equal(t, "0.000000 0.000000 0.000000 0.000000", data[0])
	assert.Equal(t, "1.000000 1.000000 1.000000 1.000000", data[255])
	for _, l := range data {
		assert.Len(t, strings.Fields(l), 4)
	}
}
