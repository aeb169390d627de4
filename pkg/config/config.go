package config

import (
	"github.com/sirupsen/logrus"
)

type Config interface {
	ProfileDir() string
	ReportsDir() string
	Display() int
	Schedule() string
	DetectRetries() int
	ReadTimeoutSeconds() int

	SetProfileDir(string)
	SetReportsDir(string)
	SetDisplay(int)
	SetSchedule(string)
	SetDetectRetries(int)
	SetReadTimeoutSeconds(int)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	// LogrusFields renders the effective configuration for log lines.
	LogrusFields() logrus.Fields
}
