package gui

import (
	"context"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/autocal/autocal/pkg/settings"
)

func newTestUI(t *testing.T) *ui {
	t.Helper()
	test.NewApp()

	u := &ui{log: logrus.New()}
	content := u.build()
	u.window = test.NewWindow(content)
	t.Cleanup(u.window.Close)
	return u
}

func TestCalibrationRefusedWithoutDevice(t *testing.T) {
	orig := detectDevice
	detectDevice = func(context.Context, logrus.FieldLogger) bool { return false }
	defer func() { detectDevice = orig }()

	u := newTestUI(t)
	u.runCalibration(context.Background(), conditionAuto, settings.Overrides{})

	assert.Contains(t, u.logView.Text, "colorimeter not detected")
	// Nothing past the gate may run, not even the ambient sensing.
	assert.NotContains(t, u.logView.Text, "targets:")
	assert.NotContains(t, u.logView.Text, "sensed ambient condition")
}
