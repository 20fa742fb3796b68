package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/mdns"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	robot := NewRobot(cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: newServer(robot),
	}

	if cfg.MDNS {
		shutdown, err := announce(cfg)
		if err != nil {
			log.Printf("mdns announce: %v", err)
		} else {
			defer shutdown()
		}
	}

	go runTicks(ctx, robot, cfg.Tick)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("%s (%s) listening on :%d", cfg.Name, cfg.Model, cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.IntVar(&cfg.Port, "port", 8080, "interface port")
	flag.StringVar(&cfg.Name, "name", "Kitchen", "robot name")
	flag.StringVar(&cfg.UniqueID, "unique-id", "sim-0001", "robot unique id")
	flag.StringVar(&cfg.Model, "model", "C5", "robot model")
	flag.StringVar(&cfg.Firmware, "firmware", "v1.2.3", "firmware version")
	flag.StringVar(&cfg.Password, "password", "", "interface password, empty starts unlocked")
	flag.IntVar(&cfg.BatteryLevel, "battery", 100, "initial battery percent")
	flag.Float64Var(&cfg.DrainPerMin, "drain-rate", 1.5, "battery percent lost per cleaning minute")
	flag.Float64Var(&cfg.ChargePerMin, "charge-rate", 3, "battery percent gained per docked minute")
	flag.DurationVar(&cfg.Tick, "tick", time.Second, "world update interval")
	flag.BoolVar(&cfg.MDNS, "mdns", false, "announce _aicu-http._tcp for discovery")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}

// runTicks advances the robot state on a fixed interval until ctx is done.
func runTicks(ctx context.Context, r *Robot, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Tick(now.Sub(last))
			last = now
		}
	}
}

// announce registers the robot service type on the local network so
// discovery scans find the simulator like a real robot.
func announce(cfg Config) (func(), error) {
	svc, err := mdns.NewMDNSService(cfg.Name, "_aicu-http._tcp", "", "", cfg.Port, nil,
		[]string{"model=" + cfg.Model})
	if err != nil {
		return nil, err
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, err
	}
	log.Printf("announcing %s on _aicu-http._tcp", cfg.Name)
	return func() {
		if err := server.Shutdown(); err != nil {
			log.Printf("mdns shutdown: %v", err)
		}
	}, nil
}
