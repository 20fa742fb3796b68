package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/xeniter/romygo/core/metrics"
)

var (
	statusLabels = []string{"robot_id", "name", "model"}
	modeLabels   = []string{"robot_id", "name", "model", "mode"}
	sensorLabels = []string{"robot_id", "name", "model", "sensor"}
)

// PromSink exposes robot state, command outcomes and reachability as
// Prometheus metrics.
type PromSink struct {
	battery   *prometheus.GaugeVec
	mode      *prometheus.GaugeVec
	errorCode *prometheus.GaugeVec
	paramSet  *prometheus.GaugeVec
	rssi      *prometheus.GaugeVec
	rssiMean  *prometheus.GaugeVec
	poseX     *prometheus.GaugeVec
	poseY     *prometheus.GaugeVec
	poseTheta *prometheus.GaugeVec
	sensor    *prometheus.GaugeVec
	level     *prometheus.GaugeVec
	distance  *prometheus.GaugeVec
	cleanTime *prometheus.GaugeVec
	area      *prometheus.GaugeVec
	runs      *prometheus.GaugeVec
	updated   *prometheus.GaugeVec
	reachable *prometheus.GaugeVec
	commands  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewPromSink registers the robot metrics on the default Prometheus
// registerer. The HTTP endpoint is served separately via StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.battery, err = register(reg, newStatusGauge("romy_battery_level_percent", "Battery charge (0-100)")); err != nil {
		return nil, err
	}
	if s.mode, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "romy_mode",
		Help: "Cleaning mode (label) reported by the robot",
	}, modeLabels)); err != nil {
		return nil, err
	}
	if s.errorCode, err = register(reg, newStatusGauge("romy_error_code", "Device error code (0 = no error)")); err != nil {
		return nil, err
	}
	if s.paramSet, err = register(reg, newStatusGauge("romy_cleaning_parameter_set", "Active cleaning parameter set")); err != nil {
		return nil, err
	}
	if s.rssi, err = register(reg, newStatusGauge("romy_wifi_rssi_dbm", "Last reported Wi-Fi RSSI (dBm)")); err != nil {
		return nil, err
	}
	if s.rssiMean, err = register(reg, newStatusGauge("romy_wifi_rssi_mean_dbm", "Windowed mean Wi-Fi RSSI (dBm)")); err != nil {
		return nil, err
	}
	if s.poseX, err = register(reg, newStatusGauge("romy_pose_x", "Robot map position, x coordinate")); err != nil {
		return nil, err
	}
	if s.poseY, err = register(reg, newStatusGauge("romy_pose_y", "Robot map position, y coordinate")); err != nil {
		return nil, err
	}
	if s.poseTheta, err = register(reg, newStatusGauge("romy_pose_orientation", "Robot heading on the map")); err != nil {
		return nil, err
	}
	if s.sensor, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "romy_sensor_active",
		Help: "Binary sensor state (1=active, 0=inactive)",
	}, sensorLabels)); err != nil {
		return nil, err
	}
	if s.level, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "romy_sensor_level",
		Help: "Analog sensor reading",
	}, sensorLabels)); err != nil {
		return nil, err
	}
	if s.distance, err = register(reg, newStatusGauge("romy_total_distance_meters", "Total distance driven (meters)")); err != nil {
		return nil, err
	}
	if s.cleanTime, err = register(reg, newStatusGauge("romy_total_cleaning_hours", "Total cleaning time (hours)")); err != nil {
		return nil, err
	}
	if s.area, err = register(reg, newStatusGauge("romy_total_area_square_meters", "Total area cleaned (square meters)")); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, newStatusGauge("romy_total_cleaning_runs", "Total number of cleaning runs")); err != nil {
		return nil, err
	}
	if s.updated, err = register(reg, newStatusGauge("romy_last_update_timestamp_seconds", "Last successful status refresh (seconds since epoch)")); err != nil {
		return nil, err
	}
	if s.reachable, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "romy_reachable",
		Help: "Whether the robot answers on its local interface (1=yes, 0=no)",
	}, []string{"robot_id"})); err != nil {
		return nil, err
	}
	if s.commands, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "romy_commands_total",
		Help: "Total number of control commands sent",
	}, []string{"robot_id", "command", "ok"})); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "romy_command_latency_seconds",
		Help:    "Round-trip time of control commands",
		Buckets: prometheus.DefBuckets,
	}, []string{"robot_id", "command", "ok"})); err != nil {
		return nil, err
	}
	return s, nil
}

func newStatusGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, statusLabels)
}

// register tolerates duplicate registration and reuses the existing collector,
// so repeated sink construction against the default registerer stays safe.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

// RecordStatus updates all status gauges from the snapshot.
func (s *PromSink) RecordStatus(ev coremetrics.StatusEvent) error {
	labels := prometheus.Labels{
		"robot_id": ev.Info.UniqueID,
		"name":     ev.Info.Name,
		"model":    ev.Info.Model,
	}
	s.battery.With(labels).Set(float64(ev.Status.BatteryLevel))
	s.errorCode.With(labels).Set(float64(ev.Status.ErrorCode))
	s.paramSet.With(labels).Set(float64(ev.Status.CleaningParameterSet))
	s.rssi.With(labels).Set(float64(ev.Status.RSSI))
	if ev.RSSIMean != 0 {
		s.rssiMean.With(labels).Set(ev.RSSIMean)
	}
	if ev.Status.Pose.Valid {
		s.poseX.With(labels).Set(ev.Status.Pose.X)
		s.poseY.With(labels).Set(ev.Status.Pose.Y)
		s.poseTheta.With(labels).Set(ev.Status.Pose.Orientation)
	}

	st := ev.Status.Statistics
	s.distance.With(labels).Set(st.DistanceMeters())
	s.cleanTime.With(labels).Set(st.CleaningHours())
	s.area.With(labels).Set(st.AreaSquareMeters())
	s.runs.With(labels).Set(float64(st.CleaningRuns))

	// Mode and sensor readings carry their value in a label, so this robot's
	// series from the previous snapshot are dropped before the new ones are set.
	match := prometheus.Labels{"robot_id": ev.Info.UniqueID}
	s.mode.DeletePartialMatch(match)
	s.mode.With(withLabel(labels, "mode", ev.Status.Mode.String())).Set(1)
	s.sensor.DeletePartialMatch(match)
	for name, active := range ev.Status.BinarySensors {
		v := 0.0
		if active {
			v = 1
		}
		s.sensor.With(withLabel(labels, "sensor", name)).Set(v)
	}
	s.level.DeletePartialMatch(match)
	for name, value := range ev.Status.AdcSensors {
		s.level.With(withLabel(labels, "sensor", name)).Set(float64(value))
	}

	if !ev.Time.IsZero() {
		s.updated.With(labels).Set(float64(ev.Time.Unix()))
	}
	return nil
}

// RecordCommand counts the command and observes its round-trip latency.
func (s *PromSink) RecordCommand(ev coremetrics.CommandEvent) error {
	ok := strconv.FormatBool(ev.OK)
	s.commands.WithLabelValues(ev.RobotID, ev.Command, ok).Inc()
	s.latency.WithLabelValues(ev.RobotID, ev.Command, ok).Observe(ev.Latency.Seconds())
	return nil
}

// RecordConnectivity sets the reachability gauge for the robot.
func (s *PromSink) RecordConnectivity(ev coremetrics.ConnectivityEvent) error {
	v := 0.0
	if ev.Reachable {
		v = 1
	}
	s.reachable.WithLabelValues(ev.RobotID).Set(v)
	return nil
}

func withLabel(base prometheus.Labels, key, value string) prometheus.Labels {
	l := make(prometheus.Labels, len(base)+1)
	for k, v := range base {
		l[k] = v
	}
	l[key] = value
	return l
}
