package ambient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/argyll"
)

func TestFromLux(t *testing.T) {
	cases := []struct {
		lux  float64
		want Condition
	}{
		{5, ConditionLow},
		{50, ConditionMedium},
		{500, ConditionHigh},
		{0, ConditionLow},
		{9.99, ConditionLow},
		{10, ConditionMedium}, // boundary: half-open
		{99.99, ConditionMedium},
		{100, ConditionHigh}, // boundary: half-open
	}
	for _, c := range cases {
		if got := FromLux(c.lux); got != c.want {
			t.Errorf("FromLux(%v) = %s, want %s", c.lux, got, c.want)
		}
	}
}

func TestFromHour(t *testing.T) {
	cases := []struct {
		hour int
		want Condition
	}{
		{7, ConditionHigh},
		{12, ConditionHigh},
		{18, ConditionMedium},
		{23, ConditionLow},
		{3, ConditionLow},
		{6, ConditionHigh},
		{9, ConditionHigh},
		{17, ConditionMedium},
		{20, ConditionLow},
	}
	for _, c := range cases {
		if got := FromHour(c.hour); got != c.want {
			t.Errorf("FromHour(%d) = %s, want %s", c.hour, got, c.want)
		}
	}
}

// fakeRunner records invocations and replies from a canned table keyed by
// binary name.
type fakeRunner struct {
	calls   []string
	results map[string]argyll.Result
	errs    map[string]error
}

func (f *fakeRunner) run(_ context.Context, _ string, bin string, args ...string) (argyll.Result, error) {
	f.calls = append(f.calls, bin)
	if err, ok := f.errs[bin]; ok {
		return argyll.Result{}, err
	}
	return f.results[bin], nil
}

func testSampler(f *fakeRunner, hour int) *Sampler {
	s := NewSampler(logrus.New())
	s.Runner = f.run
	s.Sleep = func(time.Duration) {}
	s.Now = func() time.Time {
		return time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC)
	}
	return s
}

func TestDetectDeviceFirstProbeMatches(t *testing.T) {
	f := &fakeRunner{results: map[string]argyll.Result{
		"system_profiler": {Stdout: "USB Bus:\n  Spyder5 EXPRES:\n"},
	}}
	s := testSampler(f, 12)

	if !s.DetectDevice(context.Background()) {
		t.Fatal("expected device to be detected")
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected 1 probe call, got %d", len(f.calls))
	}
}

func TestDetectDeviceSecondProbeMatches(t *testing.T) {
	f := &fakeRunner{
		results: map[string]argyll.Result{
			"system_profiler": {Stdout: "nothing here"},
			"ioreg":           {Stdout: `"USB Product Name" = "Datacolor Instrument"`},
		},
	}
	s := testSampler(f, 12)

	if !s.DetectDevice(context.Background()) {
		t.Fatal("expected device to be detected via second probe")
	}
}

func TestDetectDeviceExhaustsRetries(t *testing.T) {
	f := &fakeRunner{
		results: map[string]argyll.Result{},
		errs:    map[string]error{"system_profiler": fmt.Errorf("boom"), "ioreg": fmt.Errorf("boom")},
	}
	s := testSampler(f, 12)

	if s.DetectDevice(context.Background()) {
		t.Fatal("expected detection to fail")
	}
	// 3 attempts x 2 probes
	if len(f.calls) != 6 {
		t.Fatalf("expected 6 probe calls, got %d", len(f.calls))
	}
}

func TestSampleFallsBackToClockWhenNoDevice(t *testing.T) {
	f := &fakeRunner{results: map[string]argyll.Result{}}
	s := testSampler(f, 18)
	s.DetectRetries = 1

	if got := s.Sample(context.Background()); got != ConditionMedium {
		t.Fatalf("expected medium (18h fallback), got %s", got)
	}
}

func TestSampleFallsBackWhenReadingUnparseable(t *testing.T) {
	f := &fakeRunner{results: map[string]argyll.Result{
		"system_profiler": {Stdout: "Spyder5"},
	}}
	// Any spotread binary resolved by FindTool would be keyed by its full
	// path; the fake returns a zero Result for it, which has no Lux line.
	s := testSampler(f, 23)
	s.DetectRetries = 1

	if got := s.Sample(context.Background()); got != ConditionLow {
		t.Fatalf("expected low (23h fallback), got %s", got)
	}
}

func TestSampleNeverErrs(t *testing.T) {
	f := &fakeRunner{errs: map[string]error{
		"system_profiler": fmt.Errorf("exec format error"),
		"ioreg":           fmt.Errorf("exec format error"),
	}}
	s := testSampler(f, 3)
	s.DetectRetries = 1

	if got := s.Sample(context.Background()); got != ConditionLow {
		t.Fatalf("expected low, got %s", got)
	}
}
