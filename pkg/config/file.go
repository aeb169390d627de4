package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		ProfileDir: ptr.To(""),
		ReportsDir: ptr.To(""),
		Display:    ptr.To(1),
		// Empty means the scheduler is disabled until the user sets one.
		Schedule:           ptr.To(""),
		DetectRetries:      ptr.To(3),
		ReadTimeoutSeconds: ptr.To(3),
	}
)

// DefaultPath is where the daemon and CLI look for the config file when no
// explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "autocal-config.json"
	}
	return filepath.Join(home, ".config", "autocal", "config.json")
}

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	ProfileDir         *string `json:"profileDir,omitempty"`
	ReportsDir         *string `json:"reportsDir,omitempty"`
	Display            *int    `json:"display,omitempty"`
	Schedule           *string `json:"schedule,omitempty"`
	DetectRetries      *int    `json:"detectRetries,omitempty"`
	ReadTimeoutSeconds *int    `json:"readTimeoutSeconds,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		ProfileDir:         ptr.To(c.ProfileDir()),
		ReportsDir:         ptr.To(c.ReportsDir()),
		Display:            ptr.To(c.Display()),
		Schedule:           ptr.To(c.Schedule()),
		DetectRetries:      ptr.To(c.DetectRetries()),
		ReadTimeoutSeconds: ptr.To(c.ReadTimeoutSeconds()),
	}

	return rawConfig, nil
}

func (f *File) ProfileDir() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var dir string

	if f.c.ProfileDir != nil {
		dir = *f.c.ProfileDir
	} else {
		dir = *defaultFileConfig.ProfileDir
	}

	return dir
}

func (f *File) ReportsDir() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var dir string

	if f.c.ReportsDir != nil {
		dir = *f.c.ReportsDir
	} else {
		dir = *defaultFileConfig.ReportsDir
	}

	return dir
}

func (f *File) Display() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var display int

	if f.c.Display != nil {
		display = *f.c.Display
	} else {
		display = *defaultFileConfig.Display
	}

	return display
}

func (f *File) Schedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var schedule string

	if f.c.Schedule != nil {
		schedule = *f.c.Schedule
	} else {
		schedule = *defaultFileConfig.Schedule
	}

	return schedule
}

func (f *File) DetectRetries() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var retries int

	if f.c.DetectRetries != nil {
		retries = *f.c.DetectRetries
	} else {
		retries = *defaultFileConfig.DetectRetries
	}

	return retries
}

func (f *File) ReadTimeoutSeconds() int {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var seconds int

	if f.c.ReadTimeoutSeconds != nil {
		seconds = *f.c.ReadTimeoutSeconds
	} else {
		seconds = *defaultFileConfig.ReadTimeoutSeconds
	}

	return seconds
}

func (f *File) SetProfileDir(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ProfileDir = &s
}

func (f *File) SetReportsDir(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ReportsDir = &s
}

func (f *File) SetDisplay(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < 1 {
		panic("display numbers start at 1")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Display = &i
}

func (f *File) SetSchedule(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Schedule = &s
}

func (f *File) SetDetectRetries(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < 1 {
		panic("detect retries must be at least 1")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.DetectRetries = &i
}

func (f *File) SetReadTimeoutSeconds(i int) {
	if f.c == nil {
		panic("config is nil")
	}

	if i < 1 {
		panic("read timeout must be at least 1 second")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.ReadTimeoutSeconds = &i
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}
	configString := string(b)

	if strings.TrimSpace(configString) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	if err := os.MkdirAll(filepath.Dir(f.filepath), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create config directory for %s", f.filepath)
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"profileDir":         f.ProfileDir(),
		"reportsDir":         f.ReportsDir(),
		"display":            f.Display(),
		"schedule":           f.Schedule(),
		"detectRetries":      f.DetectRetries(),
		"readTimeoutSeconds": f.ReadTimeoutSeconds(),
	}
}
