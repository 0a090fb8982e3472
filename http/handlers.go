// server/http/handlers.go
package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/vinizap/portfolio/server/content"
	"github.com/vinizap/portfolio/server/domain"
	"github.com/vinizap/portfolio/server/filesystem"
	"golang.org/x/sync/semaphore"
)

type Server struct {
	catalog *content.Catalog
	loader  *filesystem.Loader
	scans   *semaphore.Weighted
	log     zerolog.Logger
}

// NewServer wires the static catalog and the blog loader. maxScans bounds how
// many directory scans may run at the same time.
func NewServer(catalog *content.Catalog, loader *filesystem.Loader, maxScans int64, log zerolog.Logger) *Server {
	if maxScans < 1 {
		maxScans = 1
	}
	return &Server{
		catalog: catalog,
		loader:  loader,
		scans:   semaphore.NewWeighted(maxScans),
		log:     log,
	}
}

// Blogs scans the Content Store. Every call rescans; nothing is cached.
func (s *Server) Blogs(ctx context.Context) filesystem.Result {
	if err := s.scans.Acquire(ctx, 1); err != nil {
		return s.loader.FallbackResult(fmt.Errorf("waiting for scan slot: %w", err))
	}
	defer s.scans.Release(1)
	return s.loader.Load()
}

func (s *Server) HandleBlogs(c *fiber.Ctx) error {
	res := s.Blogs(c.UserContext())
	if res.FallbackUsed() {
		s.log.Warn().Err(res.Cause).Str("root", s.loader.Root).Msg("serving fallback posts")
	} else {
		s.log.Debug().Int("posts", len(res.Posts)).Msg("scanned content store")
	}
	return c.JSON(res.Posts)
}

// HandleStatic serves one of the pre-encoded catalog categories.
func (s *Server) HandleStatic(cat content.Category) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, ok := s.catalog.Body(cat)
		if !ok {
			return fiber.ErrNotFound
		}

		c.Set(fiber.HeaderETag, body.ETag)
		if c.Get(fiber.HeaderIfNoneMatch) == body.ETag {
			c.Status(fiber.StatusNotModified)
			return nil
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body.JSON)
	}
}

func (s *Server) HandleSection(c *fiber.Ctx) error {
	id := domain.SectionID(c.Params("section"))
	section, ok := s.catalog.Section(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown section %q", id))
	}
	return c.JSON(section)
}
