package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowmatic/flowmatic/pkg/cmd"
	"github.com/flowmatic/flowmatic/pkg/events"
	"github.com/flowmatic/flowmatic/pkg/log"
	"github.com/flowmatic/flowmatic/pkg/otelhelper"
	"github.com/flowmatic/flowmatic/pkg/workflow"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowmatic-api",
		Usage:                 "Validate and execute workflow graphs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "from-address",
				Usage:   "Sender address for workflow emails",
				Value:   "workflows@flowmatic.local",
				Sources: cli.EnvVars("FROM_ADDRESS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export run traces over OTLP HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Flowmatic API")

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "flowmatic-api", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			err = eventBus.Subscribe(ctx, func(ctx context.Context, eventType events.EventType, payload []byte) error {
				logger.DebugContext(ctx, "Run event", "event_type", eventType, "payload_bytes", len(payload))

				return nil
			})
			if err != nil {
				return err
			}

			var runnerOpts []workflow.Option

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "flowmatic-api")
				if err != nil {
					return err
				}

				runnerOpts = append(runnerOpts, workflow.WithTracer(tracer))
			}

			api, err := NewAPI(logger, eventBus, command.String("from-address"), runnerOpts...)
			if err != nil {
				return err
			}

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
