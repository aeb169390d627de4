// Package ambient senses the ambient light level. A hardware reading through
// the colorimeter is preferred; when the device is absent or unresponsive the
// sampler degrades to a time-of-day heuristic. Sampling never fails: callers
// always get a usable Condition.
package ambient

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/argyll"
)

// sensorFragments are matched case-insensitively against device inventories
// to decide whether a colorimeter is attached.
var sensorFragments = []string{
	"spyder",
	"color munki",
	"i1 display",
	"datacolor",
}

// luxPattern extracts the illuminance from a spotread ambient reading.
var luxPattern = regexp.MustCompile(`Ambient\s*=\s*([\d.]+)\s*Lux`)

// usbProbe lists attached peripherals; the two probes are independent so a
// hiccup in one inventory does not mask a connected device.
type usbProbe struct {
	bin  string
	args []string
}

var usbProbes = []usbProbe{
	{bin: "system_profiler", args: []string{"SPUSBDataType"}},
	{bin: "ioreg", args: []string{"-p", "IOUSB", "-l"}},
}

// Sampler obtains a light-level classification. The zero value is not usable;
// use NewSampler.
type Sampler struct {
	Runner argyll.Runner

	// DetectRetries and DetectDelay bound the device availability check.
	DetectRetries int
	DetectDelay   time.Duration

	// ReadTimeout bounds a single spotread invocation, which otherwise blocks
	// waiting for interactive confirmation.
	ReadTimeout time.Duration

	// Now is the clock used by the time-of-day fallback.
	Now func() time.Time

	// Sleep is the delay between detection attempts.
	Sleep func(time.Duration)

	Log logrus.FieldLogger
}

// NewSampler returns a Sampler with the standard retry and timeout bounds.
func NewSampler(log logrus.FieldLogger) *Sampler {
	return &Sampler{
		Runner:        argyll.Exec,
		DetectRetries: 3,
		DetectDelay:   2 * time.Second,
		ReadTimeout:   3 * time.Second,
		Now:           time.Now,
		Sleep:         time.Sleep,
		Log:           log,
	}
}

// Sample classifies the current ambient light. The strategies are tried in
// order and the first that produces a value wins; the time-of-day heuristic
// always produces one, so Sample never fails.
func (s *Sampler) Sample(ctx context.Context) Condition {
	strategies := []func(context.Context) (Condition, bool){
		s.fromSensor,
		s.fromClock,
	}
	for _, attempt := range strategies {
		if cond, ok := attempt(ctx); ok {
			return cond
		}
	}
	// Unreachable: fromClock always succeeds.
	return ConditionMedium
}

// fromSensor takes a single hardware reading if a colorimeter is attached.
func (s *Sampler) fromSensor(ctx context.Context) (Condition, bool) {
	if !s.DetectDevice(ctx) {
		return "", false
	}

	lux, ok := s.readLux(ctx)
	if !ok {
		return "", false
	}

	cond := FromLux(lux)
	s.Log.WithFields(logrus.Fields{"lux": lux, "condition": cond}).Info("ambient light measured")
	return cond, true
}

// fromClock estimates the condition from the hour. Always succeeds.
func (s *Sampler) fromClock(context.Context) (Condition, bool) {
	hour := s.Now().Hour()
	cond := FromHour(hour)
	s.Log.WithFields(logrus.Fields{"hour": hour, "condition": cond}).Info("falling back to time-based ambient estimation")
	return cond, true
}

// DetectDevice checks whether a known colorimeter is attached, retrying a
// bounded number of times. Each attempt queries two independent device
// inventories and succeeds if either mentions a known sensor.
func (s *Sampler) DetectDevice(ctx context.Context) bool {
	retries := s.DetectRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		for _, probe := range usbProbes {
			res, err := s.Runner(ctx, "", probe.bin, probe.args...)
			if err != nil {
				s.Log.WithError(err).WithField("probe", probe.bin).Debug("device probe failed")
				continue
			}
			if containsSensor(res.Combined()) {
				s.Log.Info("colorimeter detected")
				return true
			}
		}

		s.Log.Warnf("colorimeter not detected (attempt %d/%d)", attempt+1, retries)
		if attempt < retries-1 {
			s.Sleep(s.DetectDelay)
		}
	}

	return false
}

// readLux requests one ambient illuminance reading. spotread is interactive,
// so "q" is piped in and the call is bounded by ReadTimeout.
func (s *Sampler) readLux(ctx context.Context) (float64, bool) {
	spotread, err := argyll.FindTool(argyll.ToolSpotread)
	if err != nil {
		s.Log.Warn("spotread not found, cannot read ambient light")
		return 0, false
	}

	rctx, cancel := context.WithTimeout(ctx, s.ReadTimeout)
	defer cancel()

	// -a: ambient mode, -N: skip instrument calibration
	res, err := s.Runner(rctx, "q\n", spotread, "-a", "-N")
	if err != nil {
		s.Log.WithError(err).Debug("ambient light reading failed (sensor may require manual input)")
		return 0, false
	}
	if res.ExitCode != 0 {
		s.Log.WithField("exitCode", res.ExitCode).Debug("spotread exited non-zero")
		return 0, false
	}

	m := luxPattern.FindStringSubmatch(res.Stdout)
	if m == nil {
		s.Log.Debug("could not parse Lux from spotread output")
		return 0, false
	}
	lux, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return lux, true
}

func containsSensor(inventory string) bool {
	lower := strings.ToLower(inventory)
	for _, frag := range sensorFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
