package metrics

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/xeniter/romygo/core/metrics"
	"github.com/xeniter/romygo/infra/logger"
)

// influxTimeout bounds every request against the database.
const influxTimeout = 5 * time.Second

// InfluxSink writes robot snapshots and command events to an InfluxDB
// instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	opts := influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: influxTimeout})
	client := influxdb2.NewClientWithOptions(strings.TrimSuffix(url, "/api/v2/write"), token, opts)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so an unreachable database never
// breaks the daemon.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	if err := sink.ping(); err != nil {
		sink.log.Errorf("influx unreachable, falling back to nop sink: %v", err)
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil {
		return err
	}
	if health.Status != "pass" {
		return fmt.Errorf("health status %s", health.Status)
	}
	return nil
}

// RecordStatus writes the snapshot as a romy_status point.
func (s *InfluxSink) RecordStatus(ev coremetrics.StatusEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	st := ev.Status
	p := write.NewPointWithMeasurement("romy_status").
		AddTag("robot_id", ev.Info.UniqueID).
		AddTag("name", ev.Info.Name).
		AddTag("model", ev.Info.Model).
		AddTag("mode", st.Mode.String()).
		AddField("battery_level", st.BatteryLevel).
		AddField("error_code", st.ErrorCode).
		AddField("cleaning_parameter_set", st.CleaningParameterSet).
		AddField("rssi", st.RSSI).
		AddField("rssi_mean", round3(ev.RSSIMean)).
		AddField("distance_driven_m", round3(st.Statistics.DistanceMeters())).
		AddField("cleaning_time_h", round3(st.Statistics.CleaningHours())).
		AddField("area_cleaned_m2", round3(st.Statistics.AreaSquareMeters())).
		AddField("cleaning_runs", st.Statistics.CleaningRuns)
	if st.Pose.Valid {
		p.AddField("pose_x", round3(st.Pose.X)).
			AddField("pose_y", round3(st.Pose.Y)).
			AddField("pose_orientation", round3(st.Pose.Orientation))
	}
	for name, active := range st.BinarySensors {
		p.AddField("sensor_"+name, active)
	}
	for name, value := range st.AdcSensors {
		p.AddField("level_"+name, value)
	}
	p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCommand writes a command outcome as a romy_command point.
func (s *InfluxSink) RecordCommand(ev coremetrics.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("romy_command").
		AddTag("robot_id", ev.RobotID).
		AddTag("command", ev.Command).
		AddTag("ok", strconv.FormatBool(ev.OK)).
		AddField("parameter", ev.Parameter).
		AddField("latency_ms", round3(ev.Latency.Seconds()*1000)).
		AddField("errors", ev.Error).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordConnectivity writes a reachability transition.
func (s *InfluxSink) RecordConnectivity(ev coremetrics.ConnectivityEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxTimeout)
	defer cancel()
	p := write.NewPointWithMeasurement("romy_connectivity").
		AddTag("robot_id", ev.RobotID).
		AddField("reachable", ev.Reachable).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
