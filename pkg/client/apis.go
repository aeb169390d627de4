// Package client exposes typed access to the autocal daemon API.
package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"

	internalclient "github.com/autocal/autocal/internal/client"
	"github.com/autocal/autocal/pkg/config"
	"github.com/autocal/autocal/pkg/types"
)

// DefaultSocketPath is the user-level daemon socket. Profile application is
// per-user, so the socket lives under the user's home rather than /var/run.
func DefaultSocketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/autocal.sock"
	}
	return filepath.Join(home, "Library", "Application Support", "autocal", "autocal.sock")
}

type Client struct {
	*internalclient.Client
}

func NewClient(socketPath string) *Client {
	return &Client{Client: internalclient.NewClient(socketPath)}
}

func (c *Client) GetStatus() (*types.Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get status")
	}

	var status types.Status
	if err := json.Unmarshal([]byte(ret), &status); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal status")
	}

	return &status, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

// ApplyNow asks the daemon to apply a profile immediately. An empty condition
// means sense the ambient light first.
func (c *Client) ApplyNow(condition string) (*types.ApplyResult, error) {
	payload, err := json.Marshal(types.ApplyRequest{Condition: condition})
	if err != nil {
		return nil, err
	}

	ret, err := c.Post("/apply", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to apply profile")
	}

	var res types.ApplyResult
	if err := json.Unmarshal([]byte(ret), &res); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal apply result")
	}

	return &res, nil
}

// SetSchedule replaces the daemon's cron schedule. An empty expression
// disables scheduled applies.
func (c *Client) SetSchedule(cronExpr string) (string, error) {
	payload, err := json.Marshal(types.ScheduleRequest{Cron: cronExpr})
	if err != nil {
		return "", err
	}
	return c.Put("/schedule", string(payload))
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	// Remove "" around JSON string. I don't want to use a JSON decoder just for this.
	ret = ret[1 : len(ret)-1] // remove the surrounding quotes
	return ret, nil
}
