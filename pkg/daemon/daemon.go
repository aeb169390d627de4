// Package daemon is the scheduled auto-apply service: on a cron schedule, or
// on request over its HTTP API, it senses the ambient light and installs the
// matching display profile. The API listens on a unix socket.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/argyll"
	"github.com/autocal/autocal/pkg/config"
	"github.com/autocal/autocal/pkg/profile"
)

var (
	conf    config.Config
	sampler *ambient.Sampler
	applier *profile.Applier
	sched   *Scheduler
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.GET("/config", getConfig)
	router.POST("/apply", applyNow)
	router.PUT("/schedule", setSchedule)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
			reschedule(conf.Schedule())
		}
	}()

	dispwin, err := argyll.FindTool(argyll.ToolDispwin)
	if err != nil {
		// Keep running: sensing and status still work, applies will fail
		// with a clear error until the toolchain is installed.
		logrus.WithError(err).Warn("dispwin not found, profile applies will fail")
	}

	sampler = ambient.NewSampler(logrus.StandardLogger())
	sampler.DetectRetries = conf.DetectRetries()
	sampler.ReadTimeout = time.Duration(conf.ReadTimeoutSeconds()) * time.Second

	applier = &profile.Applier{
		Dispwin: dispwin,
		Runner:  argyll.Exec,
		Display: conf.Display(),
		Log:     logrus.StandardLogger(),
	}

	sched = NewScheduler(scheduledApply, func(data any) {
		logrus.Errorf("scheduled apply failed: %v", data)
	})
	sched.Start()
	if expr := conf.Schedule(); expr != "" {
		if err := sched.Schedule(expr); err != nil {
			logrus.Errorf("invalid schedule %q in config: %v", expr, err)
		}
	}

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	if err := os.MkdirAll(filepath.Dir(unixSocketPath), 0755); err != nil {
		logrus.Fatal(err)
	}
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping scheduler")
	sched.Stop()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}

// reschedule applies a config-sourced cron expression to the running
// scheduler.
func reschedule(expr string) {
	if expr == "" {
		sched.Clear()
		return
	}
	if err := sched.Schedule(expr); err != nil {
		logrus.Errorf("invalid schedule %q: %v", expr, err)
	}
}
