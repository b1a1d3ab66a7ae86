// Package main provides the Flowmatic API server implementation.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/flowmatic/flowmatic/pkg/cmd"
	"github.com/flowmatic/flowmatic/pkg/eventbus"
	"github.com/flowmatic/flowmatic/pkg/services"
	"github.com/flowmatic/flowmatic/pkg/web"
	"github.com/flowmatic/flowmatic/pkg/workflow"
)

type API struct {
	logger   *slog.Logger
	handlers *web.APIHandlers
}

func NewAPI(logger *slog.Logger, eventBus eventbus.EventBus, fromAddress string, runnerOpts ...workflow.Option) (*API, error) {
	templates := services.NewTemplateStore()

	sender := services.NewDeliveryService(
		services.NewConsoleSender(logger),
		services.ExponentialBackoff{Base: time.Second, MaxAttempts: 3},
		services.NewInMemoryAttemptStore(),
		logger,
	)

	registry, err := cmd.NewRegistry(logger, cmd.Collaborators{
		Renderer:     templates,
		Sender:       sender,
		FromAddress:  fromAddress,
		PDFTemplates: templates,
		PDFRenderer:  services.NewConsolePDFRenderer(logger),
		Optimizer:    services.NewOptimizer(),
		Publisher:    services.NewConsolePublisher(logger),
	})
	if err != nil {
		return nil, err
	}

	runnerOpts = append(runnerOpts,
		workflow.WithActivityLog(eventbus.NewActivityLog(eventBus, logger)))
	runner := workflow.NewRunner(registry, logger, runnerOpts...)

	handlers := web.NewAPIHandlers(
		logger,
		validator.New(validator.WithRequiredStructEnabled()),
		registry,
		runner,
		eventBus,
	)

	return &API{logger: logger, handlers: handlers}, nil
}

func (a *API) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowmatic API")
	})

	w := app.Group("/workflows")
	w.Post("/validate", a.handlers.ValidateWorkflow)
	w.Post("/execute", a.handlers.ExecuteWorkflow)

	app.Get("/node-types", a.handlers.NodeTypes)

	return app
}

func (a *API) Start(port int) error {
	return a.App().Listen(":" + strconv.Itoa(port))
}
