// server/http/app.go
package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vinizap/portfolio/server/content"
)

type AppConfig struct {
	AllowedOrigin string
	// DataDir is served under /data, BlogsDir under /data/blogs and
	// ScriptsDir under /images/scripts.
	DataDir    string
	BlogsDir   string
	ScriptsDir string
}

func NewApp(s *Server, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "portfolio",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(s.log),
	})

	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions}, ","),
		AllowCredentials: origin != "*",
	}))
	app.Use(accessLog(s.log))

	api := app.Group("/api")
	api.Get("/portfolio", s.HandleStatic(content.CategoryPortfolio))
	api.Get("/portfolio/:section", s.HandleSection)
	api.Get("/blogs", s.HandleBlogs)
	api.Get("/scripts", s.HandleStatic(content.CategoryScripts))
	api.Get("/short-films", s.HandleStatic(content.CategoryShortFilms))
	api.Get("/content-branding", s.HandleStatic(content.CategoryPartnerships))

	if cfg.BlogsDir != "" {
		app.Static("/data/blogs", cfg.BlogsDir)
	}
	if cfg.DataDir != "" {
		app.Static("/data", cfg.DataDir)
	}
	if cfg.ScriptsDir != "" {
		app.Static("/images/scripts", cfg.ScriptsDir)
	}

	return app
}

func accessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return nil
	}
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
