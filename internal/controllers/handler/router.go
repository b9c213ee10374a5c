package handler

import (
	"events/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	handler  Handler
	app      *fiber.App
	conf     *config.Config
	logger   *zap.SugaredLogger
	gatherer prometheus.Gatherer
}

func NewRouter(handler Handler, app *fiber.App, conf *config.Config, logger *zap.SugaredLogger, gatherer prometheus.Gatherer) *Router {
	return &Router{
		logger:   logger,
		app:      app,
		conf:     conf,
		handler:  handler,
		gatherer: gatherer,
	}
}

func (r *Router) RegisterRouter() {
	r.app.Get("/health", r.handler.HealthCheck)
	if r.gatherer != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	r.app.Get("/swagger/*", swagger.New(swagger.Config{
		DeepLinking: false,
		URL:         "/swagger/doc.json",
	}))

	// маршруты работают и со слэшем на конце, и без (StrictRouting выключен)
	events := r.app.Group("/events")
	events.Post("/", r.handler.CreateEvent)
	events.Get("/", r.handler.ListEvents)
	events.Get("/:id", r.handler.GetEvent)
	events.Put("/:id", r.handler.UpdateEvent)
	events.Delete("/:id", r.handler.DeleteEvent)

	r.logger.Debugf("routes registered, port %s", r.conf.Server.Port)
}
