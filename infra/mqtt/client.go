package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremon "github.com/xeniter/romygo/core/monitoring"
	coremqtt "github.com/xeniter/romygo/core/mqtt"
	"github.com/xeniter/romygo/core/model"
	"github.com/xeniter/romygo/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled    bool            `json:"enabled"`
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	BaseTopic  string          `json:"base_topic"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	AuthMethod string          `json:"auth_method"`
	QoS        map[string]byte `json:"qos"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
	TLSConfig  *tls.Config     `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Mirror publishes robot state to an MQTT broker using Eclipse Paho. It
// implements the core mqtt.Publisher interface for a single robot.
type Mirror struct {
	cli     pahoClient
	logger  logger.Logger
	base    string
	robotID string
	name    string
	hwModel string

	qos        map[string]byte
	maxRetries int
	backoff    time.Duration

	mu     sync.Mutex
	online bool
}

// NewMirror connects to the MQTT broker and announces the robot online. The
// broker keeps an "offline" will on the availability topic for the case the
// daemon dies without disconnecting.
func NewMirror(cfg Config, info model.RobotInfo) (*Mirror, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt-mirror")
	m := &Mirror{
		logger:     log,
		base:       cfg.BaseTopic,
		robotID:    info.UniqueID,
		name:       info.Name,
		hwModel:    info.Model,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		online:     true,
	}
	if m.base == "" {
		m.base = "romy"
	}

	opts.SetWill(m.topic("availability"), "offline", m.qosFor("availability"), true)
	opts.OnConnect = func(_ paho.Client) {
		log.Infof("MQTT connected, mirroring %s", m.robotID)
		// Re-announce after every (re)connect, the will may have fired.
		// Repeats the last known robot availability, not a blanket online.
		m.mu.Lock()
		online := m.online
		m.mu.Unlock()
		if err := m.PublishAvailability(online); err != nil {
			log.Errorf("announce availability: %v", err)
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	m.cli = c
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return m, nil
}

// NewClientOptions builds mqtt client options from Config. The client id is
// suffixed with a random token so two daemons never collide on the broker.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	cid := cfg.ClientID
	if cid == "" {
		cid = "romy"
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(fmt.Sprintf("%s-%s", cid, uuid.NewString())).
		SetAutoReconnect(true)
	if cfg.usesPasswordAuth() {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// usesPasswordAuth reports whether username/password credentials apply for
// the configured auth method.
func (c Config) usesPasswordAuth() bool {
	switch c.AuthMethod {
	case "", "username_password", "both":
		return true
	}
	return false
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load client keypair: %w", err)
	}
	pool, err := loadCAPool(c.CABundle)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func loadCAPool(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ca bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("no certificates in %s", path)
	}
	return pool, nil
}

type statusMessage struct {
	RobotID string `json:"robot_id"`
	Name    string `json:"name"`
	Model   string `json:"model"`
	model.Status
}

type eventMessage struct {
	RobotID string    `json:"robot_id"`
	Event   string    `json:"event"`
	Time    time.Time `json:"time"`
	Data    any       `json:"data"`
}

// PublishStatus publishes a retained snapshot on <base>/<robot>/status.
func (m *Mirror) PublishStatus(st model.Status) error {
	payload, err := json.Marshal(statusMessage{RobotID: m.robotID, Name: m.name, Model: m.hwModel, Status: st})
	if err != nil {
		return err
	}
	return m.publish(m.topic("status"), "status", true, payload)
}

// PublishEvent publishes one robot event on <base>/<robot>/event.
func (m *Mirror) PublishEvent(event string, data any) error {
	payload, err := json.Marshal(eventMessage{RobotID: m.robotID, Event: event, Time: time.Now(), Data: data})
	if err != nil {
		return err
	}
	return m.publish(m.topic("event"), "event", false, payload)
}

// PublishAvailability publishes the retained online/offline marker.
func (m *Mirror) PublishAvailability(online bool) error {
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()
	state := "offline"
	if online {
		state = "online"
	}
	return m.publish(m.topic("availability"), "availability", true, []byte(state))
}

func (m *Mirror) topic(leaf string) string {
	return fmt.Sprintf("%s/%s/%s", m.base, m.robotID, leaf)
}

func (m *Mirror) qosFor(kind string) byte {
	if q, ok := m.qos[kind]; ok {
		return q
	}
	return 0
}

func (m *Mirror) publish(topic, kind string, retained bool, payload []byte) error {
	if !m.cli.IsConnected() {
		err := fmt.Errorf("%w", coremqtt.ErrNotConnected)
		tags := coremon.Tags("mqtt", m.robotID)
		tags["topic"] = topic
		coremon.CaptureException(err, tags)
		return err
	}
	maxRetries := m.maxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := m.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		token := m.cli.Publish(topic, m.qosFor(kind), retained, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			m.logger.Debugf("published %s", topic)
			return nil
		}
		m.logger.Errorf("publish attempt %d on %s failed: %v", attempt+1, topic, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	tags := coremon.Tags("mqtt", m.robotID)
	tags["topic"] = topic
	coremon.CaptureException(publishErr, tags)
	return publishErr
}

// Close announces the robot offline and disconnects from the broker.
func (m *Mirror) Close() {
	if m.cli != nil && m.cli.IsConnected() {
		if err := m.PublishAvailability(false); err != nil {
			m.logger.Errorf("announce offline: %v", err)
		}
		m.cli.Disconnect(250)
	}
}
