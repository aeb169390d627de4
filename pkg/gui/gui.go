// Package gui is the windowed front end to the calibration workflow: a
// settings form with live channel preview, a start/cancel pair, and a log
// view fed by the run in progress.
package gui

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/calibrate"
	"github.com/autocal/autocal/pkg/settings"
	"github.com/autocal/autocal/pkg/utils/ptr"
)

const (
	conditionAuto = "auto (sense)"

	// Slider range for per-channel adjustments, in percent.
	adjustMin = -20
	adjustMax = 20
)

// detectDevice reports whether a colorimeter is attached. Variable so tests
// can script the probe.
var detectDevice = func(ctx context.Context, log logrus.FieldLogger) bool {
	return ambient.NewSampler(log).DetectDevice(ctx)
}

// ui bundles the widgets the worker goroutine needs to update.
type ui struct {
	window fyne.Window

	conditionSelect *widget.Select
	gammaEntry      *widget.Entry
	whitePointEntry *widget.Entry
	brightnessEntry *widget.Entry
	nameEntry       *widget.Entry

	redSlider   *widget.Slider
	greenSlider *widget.Slider
	blueSlider  *widget.Slider
	redLabel    *widget.Label
	greenLabel  *widget.Label
	blueLabel   *widget.Label
	swatch      *canvas.Rectangle

	startButton  *widget.Button
	cancelButton *widget.Button
	progress     *widget.ProgressBarInfinite
	logView      *widget.Label
	logScroll    *container.Scroll

	log logrus.FieldLogger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Run opens the calibration window and blocks until it is closed.
func Run(log logrus.FieldLogger) error {
	a := app.NewWithID("com.autocal.autocal")
	w := a.NewWindow("AutoCal")

	u := &ui{window: w, log: log}
	w.SetContent(u.build())
	w.Resize(fyne.NewSize(520, 620))
	w.ShowAndRun()
	return nil
}

func (u *ui) build() fyne.CanvasObject {
	u.conditionSelect = widget.NewSelect([]string{
		conditionAuto,
		string(ambient.ConditionLow),
		string(ambient.ConditionMedium),
		string(ambient.ConditionHigh),
	}, func(string) {})
	u.conditionSelect.SetSelected(conditionAuto)

	u.gammaEntry = widget.NewEntry()
	u.gammaEntry.SetPlaceHolder("2.2")
	u.whitePointEntry = widget.NewEntry()
	u.whitePointEntry.SetPlaceHolder("6500")
	u.brightnessEntry = widget.NewEntry()
	u.brightnessEntry.SetPlaceHolder("100")
	u.nameEntry = widget.NewEntry()
	u.nameEntry.SetPlaceHolder("profile name (optional)")

	u.swatch = canvas.NewRectangle(color.White)
	u.swatch.SetMinSize(fyne.NewSize(60, 60))

	u.redSlider, u.redLabel = u.newChannelSlider()
	u.greenSlider, u.greenLabel = u.newChannelSlider()
	u.blueSlider, u.blueLabel = u.newChannelSlider()

	u.progress = widget.NewProgressBarInfinite()
	u.progress.Hide()

	u.logView = widget.NewLabel("")
	u.logView.Wrapping = fyne.TextWrapWord
	u.logScroll = container.NewVScroll(u.logView)
	u.logScroll.SetMinSize(fyne.NewSize(0, 160))

	u.startButton = widget.NewButton("Start Calibration", u.onStart)
	u.cancelButton = widget.NewButton("Cancel", u.onCancel)
	u.cancelButton.Disable()

	form := widget.NewForm(
		widget.NewFormItem("Condition", u.conditionSelect),
		widget.NewFormItem("Gamma", u.gammaEntry),
		widget.NewFormItem("White point (K)", u.whitePointEntry),
		widget.NewFormItem("Brightness (cd/m^2)", u.brightnessEntry),
		widget.NewFormItem("Profile name", u.nameEntry),
	)

	channels := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("R"), u.redLabel, u.redSlider),
		container.NewBorder(nil, nil, widget.NewLabel("G"), u.greenLabel, u.greenSlider),
		container.NewBorder(nil, nil, widget.NewLabel("B"), u.blueLabel, u.blueSlider),
	)

	return container.NewVBox(
		form,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, u.swatch, channels),
		widget.NewSeparator(),
		container.NewGridWithColumns(2, u.startButton, u.cancelButton),
		u.progress,
		u.logScroll,
	)
}

func (u *ui) newChannelSlider() (*widget.Slider, *widget.Label) {
	label := widget.NewLabel("+0%")
	slider := widget.NewSlider(adjustMin, adjustMax)
	slider.Step = 1
	slider.OnChanged = func(v float64) {
		label.SetText(fmt.Sprintf("%+.0f%%", v))
		u.refreshSwatch()
	}
	return slider, label
}

// refreshSwatch tints the preview toward the slider balance.
func (u *ui) refreshSwatch() {
	scale := func(adj float64) uint8 {
		v := 255.0 * settings.Factor(adj)
		if v > 255 {
			v = 255
		}
		if v < 0 {
			v = 0
		}
		return uint8(v)
	}
	u.swatch.FillColor = color.RGBA{
		R: scale(u.redSlider.Value),
		G: scale(u.greenSlider.Value),
		B: scale(u.blueSlider.Value),
		A: 255,
	}
	u.swatch.Refresh()
}

func (u *ui) onStart() {
	ov, err := u.readOverrides()
	if err != nil {
		u.appendLog(fmt.Sprintf("invalid input: %v", err))
		return
	}
	forced := u.conditionSelect.Selected

	ctx, cancel := context.WithCancel(context.Background())
	u.mu.Lock()
	u.cancel = cancel
	u.mu.Unlock()

	u.startButton.Disable()
	u.cancelButton.Enable()
	u.progress.Show()
	u.appendLog("starting calibration")

	go u.runCalibration(ctx, forced, ov)
}

func (u *ui) onCancel() {
	u.mu.Lock()
	cancel := u.cancel
	u.mu.Unlock()
	if cancel != nil {
		cancel()
		u.appendLog("cancel requested, waiting for the current stage to finish")
	}
}

// runCalibration is the worker. All UI mutations go through fyne.Do.
func (u *ui) runCalibration(ctx context.Context, forced string, ov settings.Overrides) {
	defer func() {
		fyne.Do(func() {
			u.progress.Hide()
			u.startButton.Enable()
			u.cancelButton.Disable()
		})
	}()

	// Measurement needs the colorimeter; refuse up front instead of letting
	// dispcal fail mid-run.
	if !detectDevice(ctx, u.log) {
		u.appendLogAsync(calibrate.ErrDeviceNotFound.Error())
		fyne.Do(func() {
			dialog.ShowError(calibrate.ErrDeviceNotFound, u.window)
		})
		return
	}

	orch, err := calibrate.NewOrchestrator(1, u.log)
	if err != nil {
		u.appendLogAsync(fmt.Sprintf("toolchain missing: %v", err))
		return
	}

	cond := ambient.Condition(forced)
	if forced == conditionAuto {
		sampler := ambient.NewSampler(u.log)
		cond = sampler.Sample(ctx)
		u.appendLogAsync(fmt.Sprintf("sensed ambient condition: %s", cond))
	}

	s := settings.Resolve(cond, ov)
	u.appendLogAsync("targets: " + s.String())

	res, err := orch.Run(ctx, s)
	if err != nil {
		u.appendLogAsync(fmt.Sprintf("calibration failed: %v", err))
		return
	}

	u.appendLogAsync("profile created: " + res.ProfilePath)
	if res.NeedsManualApply {
		u.appendLogAsync("automatic install failed; finish in the displays settings window")
	}
	if res.ReportPath != "" {
		u.appendLogAsync("report saved: " + res.ReportPath)
	}
}

func (u *ui) readOverrides() (settings.Overrides, error) {
	var ov settings.Overrides

	if v := u.gammaEntry.Text; v != "" {
		g, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ov, fmt.Errorf("gamma: %w", err)
		}
		ov.Gamma = ptr.To(g)
	}
	if v := u.whitePointEntry.Text; v != "" {
		wp, err := strconv.Atoi(v)
		if err != nil {
			return ov, fmt.Errorf("white point: %w", err)
		}
		ov.WhitePoint = ptr.To(wp)
	}
	if v := u.brightnessEntry.Text; v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			return ov, fmt.Errorf("brightness: %w", err)
		}
		ov.Brightness = ptr.To(b)
	}
	if v := u.nameEntry.Text; v != "" {
		ov.Name = ptr.To(v)
	}

	if v := u.redSlider.Value; v != 0 {
		ov.Red = ptr.To(v)
	}
	if v := u.greenSlider.Value; v != 0 {
		ov.Green = ptr.To(v)
	}
	if v := u.blueSlider.Value; v != 0 {
		ov.Blue = ptr.To(v)
	}

	return ov, nil
}

func (u *ui) appendLog(line string) {
	u.logView.SetText(u.logView.Text + line + "\n")
	u.logScroll.ScrollToBottom()
}

// appendLogAsync is appendLog for goroutines off the event thread.
func (u *ui) appendLogAsync(line string) {
	fyne.Do(func() {
		u.appendLog(line)
	})
}
