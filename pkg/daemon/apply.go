package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/profile"
	"github.com/autocal/autocal/pkg/types"
)

var (
	lastRunMu sync.Mutex
	lastRun   *types.ApplyResult
)

// applyOnce senses the ambient condition (unless one is forced), locates the
// matching profile, and installs it. The result is recorded as the daemon's
// last run regardless of outcome.
func applyOnce(ctx context.Context, forced ambient.Condition) (*types.ApplyResult, error) {
	res := &types.ApplyResult{
		Time:   time.Now(),
		Source: "forced",
	}

	cond := forced
	if cond == "" {
		cond = sampler.Sample(ctx)
		res.Source = "sensed"
	}
	res.Condition = string(cond)

	path, ok := profile.Locate(profile.FilenameForCondition(cond), conf.ProfileDir())
	if !ok {
		err := pkgerrors.Errorf("no profile %s found for condition %s", profile.FilenameForCondition(cond), cond)
		res.Error = err.Error()
		recordRun(res)
		return res, err
	}
	res.Profile = path

	err := applier.Install(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, profile.ErrManualCompletionRequired):
		res.NeedsManualApply = true
	default:
		res.Error = err.Error()
		recordRun(res)
		return res, err
	}

	logrus.WithFields(logrus.Fields{
		"condition": res.Condition,
		"source":    res.Source,
		"profile":   res.Profile,
	}).Info("profile applied")

	recordRun(res)
	return res, nil
}

// scheduledApply is the cron task.
func scheduledApply() error {
	_, err := applyOnce(context.Background(), "")
	return err
}

func recordRun(res *types.ApplyResult) {
	lastRunMu.Lock()
	defer lastRunMu.Unlock()
	lastRun = res
}

func lastRunSnapshot() *types.ApplyResult {
	lastRunMu.Lock()
	defer lastRunMu.Unlock()
	return lastRun
}
