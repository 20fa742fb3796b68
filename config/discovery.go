package config

import (
	"fmt"
	"time"
)

// DiscoveryConfig controls how robots are located on the local network.
type DiscoveryConfig struct {
	// Mode selects the strategy: "mdns", "sweep" or "both". The sweep probes
	// every address of the local /24 subnets and is meant for networks that
	// filter multicast.
	Mode string `json:"mode"`
	// TimeoutSeconds bounds one discovery round.
	TimeoutSeconds int `json:"timeout_seconds"`
}

func (c *DiscoveryConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "mdns"
	}
}

func (c DiscoveryConfig) Validate() error {
	switch c.Mode {
	case "", "mdns", "sweep", "both":
		return nil
	}
	return fmt.Errorf("unknown discovery mode %s", c.Mode)
}

// Timeout returns the discovery round timeout.
func (c DiscoveryConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
