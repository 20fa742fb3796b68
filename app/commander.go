package app

import (
	"context"
	"time"

	"github.com/xeniter/romygo/core/events"
	"github.com/xeniter/romygo/infra/logger"
	"github.com/xeniter/romygo/infra/romy"
	"github.com/xeniter/romygo/internal/eventbus"
)

// Commander wraps the robot client and publishes a CommandIssued event for
// every control command. The command recorder and the metrics collector pick
// the events up from the bus, so API, MQTT and schedule triggered commands
// are accounted for uniformly.
type Commander struct {
	cli *romy.Client
	bus eventbus.EventBus
	log logger.Logger
}

// NewCommander wraps a connected client. bus may be nil, commands then run
// without event publishing.
func NewCommander(cli *romy.Client, bus eventbus.EventBus) *Commander {
	return &Commander{cli: cli, bus: bus, log: logger.New("commander")}
}

func (c *Commander) CleanStartOrContinue(ctx context.Context) error {
	return c.run(ctx, "clean_start_or_continue", c.cli.CleaningParameterSet(), c.cli.CleanStartOrContinue)
}

func (c *Commander) CleanAll(ctx context.Context) error {
	return c.run(ctx, "clean_all", c.cli.CleaningParameterSet(), c.cli.CleanAll)
}

func (c *Commander) Stop(ctx context.Context) error {
	return c.run(ctx, "stop", -1, c.cli.Stop)
}

func (c *Commander) GoHome(ctx context.Context) error {
	return c.run(ctx, "go_home", -1, c.cli.GoHome)
}

func (c *Commander) SetCleaningParameterSet(ctx context.Context, set int) error {
	return c.run(ctx, "switch_cleaning_parameter_set", set, func(ctx context.Context) error {
		return c.cli.SetCleaningParameterSet(ctx, set)
	})
}

func (c *Commander) SetName(ctx context.Context, name string) error {
	return c.run(ctx, "set_robot_name", -1, func(ctx context.Context) error {
		return c.cli.SetName(ctx, name)
	})
}

func (c *Commander) run(ctx context.Context, name string, param int, f func(context.Context) error) error {
	start := time.Now()
	err := f(ctx)
	ev := events.CommandIssued{
		RobotID:   c.cli.Info().UniqueID,
		Command:   name,
		Parameter: param,
		OK:        err == nil,
		Latency:   time.Since(start),
		Time:      time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
		c.log.Errorf("%s failed: %v", name, err)
	} else {
		c.log.Infof("%s ok after %s", name, ev.Latency)
	}
	if c.bus != nil {
		c.bus.Publish(ev)
	}
	return err
}
