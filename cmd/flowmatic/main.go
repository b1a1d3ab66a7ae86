// Package main provides the Flowmatic command-line runner for workflow
// graph files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/flowmatic/flowmatic/pkg/cmd"
	"github.com/flowmatic/flowmatic/pkg/log"
	"github.com/flowmatic/flowmatic/pkg/models"
	"github.com/flowmatic/flowmatic/pkg/services"
	"github.com/flowmatic/flowmatic/pkg/workflow"
)

type graphFile struct {
	Nodes []models.Node `json:"nodes"`
	Edges []models.Edge `json:"edges"`
}

func loadGraph(path string) (*graphFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var graph graphFile
	if err := json.Unmarshal(raw, &graph); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}

	return &graph, nil
}

func parseVariables(pairs []string) (map[string]any, error) {
	variables := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}

		variables[key] = value
	}

	return variables, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func main() {
	logger := log.WithModule("cli")

	fileFlag := &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the workflow graph JSON file",
		Required: true,
	}

	command := &cli.Command{
		Name:                  "flowmatic",
		Usage:                 "Validate and run workflow graph files",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a workflow graph without running it",
				Flags: []cli.Flag{fileFlag},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					graph, err := loadGraph(command.String("file"))
					if err != nil {
						return err
					}

					result := workflow.Validate(graph.Nodes, graph.Edges)
					if err := printJSON(result); err != nil {
						return err
					}

					if !result.IsValid {
						return fmt.Errorf("workflow is invalid: %d error(s)", len(result.Errors))
					}

					return nil
				},
			},
			{
				Name:  "run",
				Usage: "Run a workflow graph with console collaborators",
				Flags: []cli.Flag{
					fileFlag,
					&cli.StringFlag{
						Name:  "workflow-id",
						Usage: "Workflow identifier for the run",
						Value: "local",
					},
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "User identifier for the run",
						Value: "local",
					},
					&cli.StringSliceFlag{
						Name:    "var",
						Aliases: []string{"v"},
						Usage:   "Seed variable as key=value, repeatable",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					graph, err := loadGraph(command.String("file"))
					if err != nil {
						return err
					}

					if result := workflow.Validate(graph.Nodes, graph.Edges); !result.IsValid {
						if err := printJSON(result); err != nil {
							return err
						}

						return fmt.Errorf("workflow is invalid: %d error(s)", len(result.Errors))
					}

					variables, err := parseVariables(command.StringSlice("var"))
					if err != nil {
						return err
					}

					templates := services.NewTemplateStore()

					registry, err := cmd.NewRegistry(logger, cmd.Collaborators{
						Renderer:     templates,
						Sender:       services.NewConsoleSender(logger),
						FromAddress:  "workflows@flowmatic.local",
						PDFTemplates: templates,
						PDFRenderer:  services.NewConsolePDFRenderer(logger),
						Optimizer:    services.NewOptimizer(),
						Publisher:    services.NewConsolePublisher(logger),
					})
					if err != nil {
						return err
					}

					state := models.NewExecutionContext(
						uuid.NewString(),
						command.String("workflow-id"),
						command.String("user-id"),
						variables,
					)

					runner := workflow.NewRunner(registry, logger)
					result := runner.Execute(ctx, graph.Nodes, graph.Edges, state)

					if err := printJSON(result); err != nil {
						return err
					}

					if !result.Success {
						return fmt.Errorf("workflow run failed: %s", result.Error)
					}

					return nil
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
