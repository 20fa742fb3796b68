// Package romy implements the local http interface of ROMY vacuum robots:
// port probing, unlocking, identity lookup, status refresh and the cleaning
// commands.
package romy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/xeniter/romygo/core/model"
	"github.com/xeniter/romygo/infra/logger"
)

// DefaultPorts are the candidate interface ports, probed in order.
var DefaultPorts = []int{8080, 10009, 80}

// DefaultTimeout bounds a single interface query.
const DefaultTimeout = 3 * time.Second

// passwordLength is the fixed length of the local interface password printed
// underneath the robot.
const passwordLength = 8

// Config describes how to reach a robot.
type Config struct {
	Host     string
	Password string
	Ports    []int
	Timeout  time.Duration
}

// Client talks to one robot. It is safe for concurrent use.
type Client struct {
	host     string
	port     int
	password string
	hc       *http.Client
	log      logger.Logger

	mu       sync.Mutex
	info     model.RobotInfo
	locked   bool
	paramSet int
	failing  bool
}

// Connect probes the candidate ports, unlocks the http interface when the
// robot reports it locked and loads the robot identity. The returned client
// is ready for commands.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("romy: host required")
	}
	ports := cfg.Ports
	if len(ports) == 0 {
		ports = DefaultPorts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		host:     cfg.Host,
		password: cfg.Password,
		hc:       &http.Client{Timeout: timeout},
		log:      logger.New("romy-client"),
	}

	// A robot answers ishttpinterfacelocked with 400 when the interface is
	// open and 403 when it is locked. Anything else is not a ROMY.
	found := false
	sawHTTP := false
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.port = port
		_, status, err := c.get(ctx, "ishttpinterfacelocked")
		if err != nil {
			continue
		}
		sawHTTP = true
		switch status {
		case http.StatusBadRequest:
			c.locked = false
		case http.StatusForbidden:
			c.locked = true
			c.log.Infof("http interface of %s is locked", cfg.Host)
		default:
			continue
		}
		found = true
		break
	}
	if !found {
		if sawHTTP {
			return nil, fmt.Errorf("%w: %s", ErrNotROMY, cfg.Host)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotReachable, cfg.Host)
	}

	if c.locked {
		if err := c.unlock(ctx); err != nil {
			return nil, err
		}
	}
	if err := c.loadInfo(ctx); err != nil {
		return nil, err
	}
	info := c.Info()
	c.log.Infof("connected to %s (%s) at %s:%d", info.Name, info.Model, c.host, c.port)
	return c, nil
}

func (c *Client) unlock(ctx context.Context) error {
	if c.password == "" {
		return ErrLocked
	}
	if len(c.password) != passwordLength {
		return ErrBadPassword
	}
	if _, err := c.query(ctx, "set/unlock_http?pass="+url.QueryEscape(c.password)); err != nil {
		return fmt.Errorf("%w: %w", ErrUnlockFailed, err)
	}
	c.mu.Lock()
	c.locked = false
	c.mu.Unlock()
	c.log.Infof("http interface unlocked")
	return nil
}

func (c *Client) loadInfo(ctx context.Context) error {
	var name struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, "get/robot_name", &name); err != nil {
		return err
	}
	var id struct {
		Name     string `json:"name"`
		UniqueID string `json:"unique_id"`
		Model    string `json:"model"`
		Firmware string `json:"firmware"`
	}
	if err := c.getJSON(ctx, "get/robot_id", &id); err != nil {
		return err
	}
	info := model.RobotInfo{
		Host:            c.host,
		Port:            c.port,
		Name:            name.Name,
		ProductName:     id.Name,
		UniqueID:        id.UniqueID,
		Model:           id.Model,
		FirmwareVersion: id.Firmware,
	}
	if v, err := c.ProtocolVersion(ctx); err == nil {
		info.ProtocolVersion = v
	}
	var param struct {
		CleaningParameterSet int `json:"cleaning_parameter_set"`
	}
	if err := c.getJSON(ctx, "get/cleaning_parameter_set", &param); err == nil {
		c.setParamSet(param.CleaningParameterSet)
	}
	c.mu.Lock()
	c.info = info
	c.mu.Unlock()
	return nil
}

// Info returns the robot identity collected during Connect.
func (c *Client) Info() model.RobotInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Unlocked reports whether the http interface accepts commands.
func (c *Client) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.locked
}

// CleaningParameterSet returns the last known fan/suction preset id.
func (c *Client) CleaningParameterSet() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paramSet
}

// ProtocolVersion fetches the interface protocol version as
// major.minor.patch.
func (c *Client) ProtocolVersion(ctx context.Context) (string, error) {
	var v struct {
		Major int `json:"version_major"`
		Minor int `json:"version_minor"`
		Patch int `json:"patch_level"`
	}
	if err := c.getJSON(ctx, "get/protocol_version", &v); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch), nil
}

// CleanStartOrContinue starts a cleaning run, or resumes one halted by Stop,
// with the current cleaning parameter set. The interface has no discrete
// pause command; Stop followed by CleanStartOrContinue covers pause and
// resume.
func (c *Client) CleanStartOrContinue(ctx context.Context) error {
	return c.command(ctx, fmt.Sprintf("set/clean_start_or_continue?cleaning_parameter_set=%d", c.CleaningParameterSet()))
}

// CleanAll starts a whole house cleaning run with the current cleaning
// parameter set.
func (c *Client) CleanAll(ctx context.Context) error {
	return c.command(ctx, fmt.Sprintf("set/clean_all?cleaning_parameter_set=%d", c.CleaningParameterSet()))
}

// Stop halts the current run. The robot stays where it is.
func (c *Client) Stop(ctx context.Context) error {
	return c.command(ctx, "set/stop")
}

// GoHome sends the robot back to its docking station.
func (c *Client) GoHome(ctx context.Context) error {
	return c.command(ctx, "set/go_home")
}

// SetCleaningParameterSet switches the fan/suction preset used by the next
// cleaning commands.
func (c *Client) SetCleaningParameterSet(ctx context.Context, set int) error {
	if err := c.command(ctx, fmt.Sprintf("set/switch_cleaning_parameter_set?cleaning_parameter_set=%d", set)); err != nil {
		return err
	}
	c.setParamSet(set)
	return nil
}

// SetName assigns a new user visible robot name.
func (c *Client) SetName(ctx context.Context, name string) error {
	if err := c.command(ctx, "set/robot_name?name="+url.QueryEscape(name)); err != nil {
		return err
	}
	c.mu.Lock()
	c.info.Name = name
	c.mu.Unlock()
	return nil
}

// Query sends a raw interface command and returns the response body. It is
// an escape hatch for diagnostics and commands the client does not model.
func (c *Client) Query(ctx context.Context, command string) ([]byte, error) {
	return c.query(ctx, command)
}

func (c *Client) command(ctx context.Context, command string) error {
	_, err := c.query(ctx, command)
	return err
}

// query sends a command and treats any non-200 answer as a failure, per the
// robot interface contract. The first failure after healthy traffic logs at
// error level, repeats log at debug until the link recovers.
func (c *Client) query(ctx context.Context, command string) ([]byte, error) {
	body, status, err := c.get(ctx, command)
	if err == nil && status != http.StatusOK {
		err = fmt.Errorf("%s: %w %d", command, ErrHTTPStatus, status)
	}
	c.mu.Lock()
	wasFailing := c.failing
	c.failing = err != nil
	c.mu.Unlock()
	if err != nil {
		if wasFailing {
			c.log.Debugf("query %s failed: %v", command, err)
		} else {
			c.log.Errorf("query %s failed: %v", command, err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, command string, dest any) error {
	body, err := c.query(ctx, command)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", command, err)
	}
	return nil
}

// get performs the request and returns body and status code. A non-200
// answer is not an error at this level; the probe in Connect needs the raw
// status.
func (c *Client) get(ctx context.Context, command string) ([]byte, int, error) {
	u := fmt.Sprintf("http://%s:%d/%s", c.host, c.port, command)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request %s: %w", command, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNotReachable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", command, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) setParamSet(set int) {
	c.mu.Lock()
	c.paramSet = set
	c.mu.Unlock()
}
