package httpserver

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"events/pkg/config"
	"events/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const defaultBodyLimit = 1024 * 1024

func NewFiber(conf config.Config, m *metrics.Metrics) *fiber.App {
	bodyLimit := conf.Server.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 1024 * 100,
			BodyLimit:      bodyLimit,
			ErrorHandler:   errorHandler,
		},
	)

	app.Use(
		cors.New(corsConfig(conf.Server.CORS)),
		recover.New(recover.Config{
			EnableStackTrace: true,
		}),
		logger.New(),
	)

	if m != nil {
		app.Use(metricsMiddleware(m))
	}

	return app
}

// errorHandler: ошибки fiber (404 маршрута, 413 и т.п.) отдаём с их кодом, остальное - 500 без деталей
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

func corsConfig(c config.CORS) cors.Config {
	cfg := cors.Config{
		AllowOrigins: c.AllowOrigins,
		AllowMethods: c.AllowMethods,
		AllowHeaders: c.AllowHeaders,
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.AllowHeaders == "*" {
		// пустое значение - cors отражает запрошенные заголовки
		cfg.AllowHeaders = ""
	}
	return cfg
}

// все запросы мимо роутов пишутся под одной меткой
const unmatchedRoute = "unmatched"

// isRouteNotFound - ответ роутера fiber, когда ни один обработчик не подошёл
func isRouteNotFound(err error) bool {
	var fe *fiber.Error
	return errors.As(err, &fe) && fe.Code == fiber.StatusNotFound
}

func metricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// путь берём из роута, чтобы id не раздували кардинальность
		path := unmatchedRoute
		method := strings.ToUpper(c.Method())
		if r := c.Route(); r != nil && !isRouteNotFound(err) {
			if r.Path != "" {
				path = r.Path
			}
			if r.Method != "" {
				method = strings.ToUpper(r.Method)
			}
		}
		method = normalizeHTTPMethod(method)

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		statusStr := strconv.Itoa(status)
		m.API.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.API.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		return err
	}
}

var validMethods = map[string]struct{}{
	fiber.MethodGet:     {},
	fiber.MethodPost:    {},
	fiber.MethodPut:     {},
	fiber.MethodDelete:  {},
	fiber.MethodPatch:   {},
	fiber.MethodHead:    {},
	fiber.MethodOptions: {},
	fiber.MethodTrace:   {},
	fiber.MethodConnect: {},
}

// normalizeHTTPMethod: нестандартные методы сводим в одну метку
func normalizeHTTPMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if _, ok := validMethods[method]; ok {
		return method
	}
	return "OTHER"
}
