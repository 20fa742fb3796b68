package discovery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/xeniter/romygo/infra/logger"
)

// mdnsService is the service type the robots announce on the local network.
const mdnsService = "_aicu-http._tcp"

// Scan finds robots on the local network. The mDNS phase queries for the
// robot service type and probes every answer; the sweep phase probes the
// local /24 subnets with bounded concurrency.
func Scan(ctx context.Context, cfg Config) ([]Candidate, error) {
	log := logger.New("discovery")
	mode := cfg.Mode
	if mode == "" {
		mode = "mdns"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var candidates []Candidate
	if mode == "mdns" || mode == "both" {
		for _, host := range queryMDNS(ctx, timeout, log) {
			if c, ok := classify(ctx, host); ok {
				candidates = append(candidates, c)
			}
		}
		log.Infof("mdns found %d robot(s)", len(candidates))
	}
	if mode == "sweep" || (mode == "both" && len(candidates) == 0) {
		candidates = append(candidates, sweep(ctx, log)...)
	}
	return candidates, ctx.Err()
}

// classify probes a host and builds the candidate entry, asking unlocked
// robots for their name.
func classify(ctx context.Context, host string) (Candidate, bool) {
	port, locked, err := Probe(ctx, host, nil)
	if err != nil {
		return Candidate{}, false
	}
	c := Candidate{Host: host, Port: port, Locked: locked}
	if !locked {
		client := &http.Client{Timeout: probeTimeout}
		c.Name = fetchName(ctx, client, host, port)
	}
	return c, true
}

func queryMDNS(ctx context.Context, timeout time.Duration, log logger.Logger) []string {
	entries := make(chan *mdns.ServiceEntry, 10)
	go func() {
		params := &mdns.QueryParam{
			Service:             mdnsService,
			Domain:              "local",
			Timeout:             timeout,
			Entries:             entries,
			DisableIPv6:         true,
			WantUnicastResponse: true,
		}
		if err := mdns.Query(params); err != nil {
			log.Errorf("mdns query: %v", err)
		}
		close(entries)
	}()

	var hosts []string
	seen := make(map[string]bool)
	for entry := range entries {
		if ctx.Err() != nil {
			return hosts
		}
		if entry.AddrV4 == nil {
			continue
		}
		host := entry.AddrV4.String()
		if seen[host] {
			continue
		}
		seen[host] = true
		log.Debugf("mdns entry: name=%s addr=%s port=%d", entry.Name, host, entry.Port)
		hosts = append(hosts, host)
	}
	return hosts
}

// sweep probes every address of the local /24 subnets.
func sweep(ctx context.Context, log logger.Logger) []Candidate {
	subnets := localSubnets()
	if len(subnets) == 0 {
		log.Warnf("could not determine local subnets for sweep")
		return nil
	}

	var (
		mu         sync.Mutex
		candidates []Candidate
		wg         sync.WaitGroup
	)
	sem := make(chan struct{}, 50) // limit concurrency
	for _, subnet := range subnets {
		log.Infof("probing subnet %s.0/24 for robots", subnet)
		for _, ip := range expandSubnet(subnet) {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(host string) {
				defer wg.Done()
				defer func() { <-sem }()
				if c, ok := classify(ctx, host); ok {
					log.Infof("found robot at %s:%d", c.Host, c.Port)
					mu.Lock()
					candidates = append(candidates, c)
					mu.Unlock()
				}
			}(ip)
		}
	}
	wg.Wait()
	return candidates
}

// localSubnets returns the /24 prefixes of the non-loopback IPv4 interfaces.
func localSubnets() []string {
	var subnets []string
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil {
				continue
			}
			ones, bits := ipNet.Mask.Size()
			if ones == 0 || bits == 0 || ones > 24 {
				continue
			}
			subnets = append(subnets, fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]))
		}
	}
	return subnets
}

func expandSubnet(prefix string) []string {
	ips := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		ips = append(ips, fmt.Sprintf("%s.%d", prefix, i))
	}
	return ips
}
