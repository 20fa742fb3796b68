// Package discovery locates ROMY robots on the local network, either via
// mDNS or by probing the local subnets with the robot interface contract.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeniter/romygo/infra/romy"
)

// ErrNoRobot is returned when no candidate port answers the interface
// contract on a probed host.
var ErrNoRobot = errors.New("no robot interface on host")

// probeTimeout bounds a single sweep probe; robots on the local subnet
// answer well below this.
const probeTimeout = 800 * time.Millisecond

// Candidate is a robot found on the local network.
type Candidate struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Locked bool   `json:"locked"`
	Name   string `json:"name,omitempty"`
}

// Config controls a Scan run.
type Config struct {
	// Mode selects the strategy: "mdns", "sweep" or "both". Both runs the
	// subnet sweep only when mDNS found nothing.
	Mode string
	// Timeout bounds the mDNS query phase.
	Timeout time.Duration
}

// Probe checks whether host answers the robot interface contract on one of
// the candidate ports and reports the port and lock state. An empty ports
// slice probes the default interface ports.
func Probe(ctx context.Context, host string, ports []int) (int, bool, error) {
	if len(ports) == 0 {
		ports = romy.DefaultPorts
	}
	client := &http.Client{Timeout: probeTimeout}
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		locked, ok := probePort(ctx, client, host, port)
		if ok {
			return port, locked, nil
		}
	}
	return 0, false, fmt.Errorf("%w: %s", ErrNoRobot, host)
}

// probePort sends ishttpinterfacelocked and classifies the answer: 400 means
// an unlocked robot, 403 a locked one, anything else is no robot.
func probePort(ctx context.Context, client *http.Client, host string, port int) (locked, ok bool) {
	url := fmt.Sprintf("http://%s:%d/ishttpinterfacelocked", host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, false
	}
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return false, true
	case http.StatusForbidden:
		return true, true
	}
	return false, false
}

// fetchName asks an unlocked robot for its user assigned name.
func fetchName(ctx context.Context, client *http.Client, host string, port int) string {
	url := fmt.Sprintf("http://%s:%d/get/robot_name", host, port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}
	resp, err := client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	var name struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &name); err != nil {
		return ""
	}
	return name.Name
}
