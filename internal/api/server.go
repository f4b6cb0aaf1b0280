// Package api exposes the purchase data over HTTP: list/search,
// point lookups, summary statistics, and a CSV import trigger.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/seanloh/purchase-tracker/internal/common"
	"github.com/seanloh/purchase-tracker/internal/model"
	"github.com/seanloh/purchase-tracker/internal/storage"
)

// Store is the read surface the API needs from the storage layer.
type Store interface {
	ListPurchases(ctx context.Context, opts storage.ListOptions) ([]model.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*model.Purchase, error)
	GetPurchasesByDateRange(ctx context.Context, start, end time.Time) ([]model.Purchase, error)
	GetSummary(ctx context.Context) (*model.Summary, error)
}

// FileImporter runs a CSV import and reports the persisted count.
type FileImporter interface {
	ImportFile(ctx context.Context, path string) (int, error)
}

// Server wraps the fiber application and its dependencies.
type Server struct {
	app      *fiber.App
	store    Store
	importer FileImporter
}

// NewServer builds the HTTP server around a store and an importer.
func NewServer(store Store, importer FileImporter) *Server {
	app := fiber.New(fiber.Config{
		AppName: "purchase-tracker",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			if errors.Is(err, common.ErrNotFound) {
				code = fiber.StatusNotFound
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		app:      app,
		store:    store,
		importer: importer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.health)

	purchases := s.app.Group("/api/purchases")
	purchases.Get("/", s.listPurchases)
	purchases.Get("/stats/summary", s.getSummary)
	purchases.Post("/import", s.importCSV)
	purchases.Get("/:id<int>", s.getPurchase)
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
