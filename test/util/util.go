// Package util carries the helpers the integration tests share, such as
// reserving a loopback port for the simulator child process and polling
// until a robot interface or an exported metric answers. StartMosquitto
// runs a throwaway broker in Docker for the MQTT tests.
package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// Default timeouts for helper operations. RobotReadyTimeout is generous
	// because the simulator is compiled on first use.
	RobotReadyTimeout     = 60 * time.Second
	MosquittoReadyTimeout = 5 * time.Second
	MetricTimeout         = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

// FreePort reserves a TCP port on the loopback interface and releases it
// again so the caller can hand it to a child process.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}

// WaitForRobot polls the lock probe of a robot http interface until it
// answers like a ROMY (400 open, 403 locked) or the context is done.
func WaitForRobot(ctx context.Context, host string, port int) error {
	url := fmt.Sprintf("http://%s:%d/ishttpinterfacelocked", host, port)
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		if code, _, err := fetch(ctx, url); err == nil {
			if code == http.StatusBadRequest || code == http.StatusForbidden {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("robot not ready: %w", ctx.Err())
		case <-tick.C:
		}
	}
}

// WaitForMetric polls the given metrics URL until the named metric shows up
// in the exposition output or the context is done.
func WaitForMetric(ctx context.Context, metricsURL, metric string) error {
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		if _, body, err := fetch(ctx, metricsURL); err == nil && strings.Contains(body, metric) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("metric %q not exposed: %w", metric, ctx.Err())
		case <-tick.C:
		}
	}
}

// fetch performs one GET and returns the status code and body.
func fetch(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), err
}

// mosquittoConf keeps the broker open and quiet enough for tests.
const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
log_dest stdout
log_type error
log_type warning
`

// StartMosquitto launches a temporary Mosquitto broker inside a Docker
// container and returns its broker URL along with a cleanup function.
func StartMosquitto(ctx context.Context) (string, func(), error) {
	dir, err := os.MkdirTemp("", "romy-mosq")
	if err != nil {
		return "", nil, err
	}
	confPath := filepath.Join(dir, "mosquitto.conf")
	if err := os.WriteFile(confPath, []byte(mosquittoConf), 0644); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, fmt.Errorf("write broker conf: %w", err)
	}

	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      confPath,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0644,
			}},
		},
		Started: true,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, fmt.Errorf("start mosquitto: %w", err)
	}

	cleanup := func() {
		_ = cont.Terminate(context.Background())
		_ = os.RemoveAll(dir)
	}

	broker, err := cont.Endpoint(ctx, "tcp")
	if err != nil {
		cleanup()
		return "", nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, MosquittoReadyTimeout)
	defer cancel()
	if err := waitForBroker(waitCtx, broker); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("broker not accepting connections: %w", err)
	}
	return broker, cleanup, nil
}

// waitForBroker connects with a throwaway MQTT client until the broker
// accepts, so tests never race the container startup.
func waitForBroker(ctx context.Context, broker string) error {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("romy-probe")
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()
	for {
		cli := paho.NewClient(opts)
		if tok := cli.Connect(); tok.Wait() && tok.Error() == nil {
			cli.Disconnect(100)
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}
	}
}
