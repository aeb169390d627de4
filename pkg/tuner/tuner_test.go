package tuner

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type scriptedKeys struct {
	keys []byte
	pos  int
}

func (s *scriptedKeys) ReadKey() (byte, error) {
	if s.pos >= len(s.keys) {
		return 0, io.EOF
	}
	k := s.keys[s.pos]
	s.pos++
	return k, nil
}

type fakeDisplay struct {
	loads  []string
	clears int
}

func (f *fakeDisplay) load(_ context.Context, path string) error {
	f.loads = append(f.loads, path)
	return nil
}

func (f *fakeDisplay) clear(_ context.Context) error {
	f.clears++
	return nil
}

func newTestSession(t *testing.T, keys string, name string) (*Session, *fakeDisplay) {
	t.Helper()
	d := &fakeDisplay{}
	return &Session{
		Keys:     &scriptedKeys{keys: []byte(keys)},
		Load:     d.load,
		Clear:    d.clear,
		ReadLine: func() (string, error) { return name + "\n", nil },
		WorkDir:  t.TempDir(),
		Display:  1,
		Out:      &bytes.Buffer{},
		Now:      func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) },
		Log:      logrus.New(),
	}, d
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSessionAdjustments(t *testing.T) {
	s, d := newTestSession(t, "rWq", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := s.State()
	if !almost(st.Red, 0.99) || !almost(st.Green, 1) || !almost(st.Blue, 1) || !almost(st.Gain, 1.01) {
		t.Fatalf("unexpected state %+v", st)
	}
	// Initial neutral apply plus one per adjustment keystroke.
	if len(d.loads) != 3 {
		t.Fatalf("expected 3 loads, got %d", len(d.loads))
	}
	if s.Phase() != PhaseDone {
		t.Fatalf("expected done phase, got %s", s.Phase())
	}
}

func TestSessionIgnoredKeysDoNotReapply(t *testing.T) {
	s, d := newTestSession(t, "z7 \tq", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.loads) != 1 {
		t.Fatalf("ignored keys must not reload, got %d loads", len(d.loads))
	}
}

func TestSessionQuitKeepsCurve(t *testing.T) {
	s, d := newTestSession(t, "Rq", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.clears != 0 {
		t.Fatal("quit must not clear the loaded curve")
	}
}

func TestSessionRevert(t *testing.T) {
	s, d := newTestSession(t, "bx", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.clears != 1 {
		t.Fatalf("expected exactly one clear, got %d", d.clears)
	}
	if s.Phase() != PhaseDone {
		t.Fatalf("expected done phase, got %s", s.Phase())
	}
}

func TestSessionExport(t *testing.T) {
	s, _ := newTestSession(t, "Gsq", "evening-warm")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Phase() != PhaseDone {
		t.Fatalf("export must end the session, phase %s", s.Phase())
	}

	calPath := filepath.Join(s.WorkDir, "evening-warm.cal")
	cal, err := os.ReadFile(calPath)
	if err != nil {
		t.Fatalf("exported curve missing: %v", err)
	}
	if !strings.HasPrefix(string(cal), "CAL\n") {
		t.Fatal("exported file is not a CAL block")
	}

	report, err := os.ReadFile(filepath.Join(s.WorkDir, "Report_evening-warm.txt"))
	if err != nil {
		t.Fatalf("export report missing: %v", err)
	}
	text := string(report)
	for _, want := range []string{
		"Name: evening-warm",
		"Green: 1.01",
		"Red:   1.00",
		"dispwin -d1 " + calPath,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestSessionExportAcceptsUppercase(t *testing.T) {
	s, _ := newTestSession(t, "Sq", "caps")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Phase() != PhaseDone {
		t.Fatalf("expected done phase, got %s", s.Phase())
	}
	if _, err := os.Stat(filepath.Join(s.WorkDir, "caps.cal")); err != nil {
		t.Fatalf("exported curve missing: %v", err)
	}
}

func TestSessionExportDefaultName(t *testing.T) {
	s, _ := newTestSession(t, "sq", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.WorkDir, "LiveTune_20240301_103000.cal")); err != nil {
		t.Fatalf("default-named export missing: %v", err)
	}
}

func TestSessionEOFBehavesLikeQuit(t *testing.T) {
	s, d := newTestSession(t, "R", "")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.clears != 0 {
		t.Fatal("input EOF must keep the loaded curve")
	}
	if s.Phase() != PhaseDone {
		t.Fatalf("expected done phase, got %s", s.Phase())
	}
}
