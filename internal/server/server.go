// Package server exposes the form engine over HTTP: public form pages and
// submission endpoints, plus a token-guarded back office.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/doron007/realtechee-forms/internal/config"
	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/admin"
	"github.com/doron007/realtechee-forms/pkg/forms"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/renderers/vanilla"
	"github.com/doron007/realtechee-forms/pkg/upload"
	"github.com/doron007/realtechee-forms/pkg/validation"
)

// Deps bundles what the server needs; the caller owns their lifecycles.
type Deps struct {
	Config      *config.Config
	Registry    *registry.Registry
	Store       store.Store
	Uploader    *upload.Uploader
	HTMLForm    *vanilla.Renderer
	Logger      *logrus.Logger
	SchemaFor   func(def model.FormDefinition) *validation.Schema
	Clock       func() time.Time
}

// Server hosts the HTTP surface.
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	forms     *registry.Registry
	store     store.Store
	admin     *admin.Service
	uploader  *upload.Uploader
	html      *vanilla.Renderer
	log       *logrus.Logger
	schemaFor func(def model.FormDefinition) *validation.Schema
	now       func() time.Time
}

// New wires the fiber app and routes.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("server: form registry is required")
	}
	if deps.Store == nil {
		return nil, errors.New("server: submission store is required")
	}
	if deps.SchemaFor == nil {
		deps.SchemaFor = forms.SchemaFor
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.HTMLForm == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		deps.HTMLForm = renderer
	}

	adminService, err := admin.NewService(deps.Store)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       deps.Config,
		forms:     deps.Registry,
		store:     deps.Store,
		admin:     adminService,
		uploader:  deps.Uploader,
		html:      deps.HTMLForm,
		log:       deps.Logger,
		schemaFor: deps.SchemaFor,
		now:       deps.Clock,
	}

	app := fiber.New(fiber.Config{
		AppName:      "realtechee-forms",
		BodyLimit:    int(deps.Config.MaxFileSizeMB+1) * 1024 * 1024 * 4,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: s.errorHandler,
	})

	app.Use(recover.New())
	app.Use(s.requestLogger)

	s.app = app
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/forms", s.handleListForms)
	s.app.Get("/forms/:id", s.handleRenderForm)

	api := s.app.Group("/api")
	api.Post("/forms/:id/submissions", s.handleCreateSubmission)
	api.Post("/uploads", s.handleUpload)

	adminGroup := api.Group("/admin", requireAdmin(s.cfg.JWTSecret))
	adminGroup.Get("/columns", s.handleAdminColumns)
	adminGroup.Get("/submissions", s.handleAdminList)
	adminGroup.Get("/submissions/:id", s.handleAdminGet)
	adminGroup.Post("/submissions/:id/archive", s.handleAdminArchive)
	adminGroup.Delete("/submissions/:id/archive", s.handleAdminUnarchive)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured address.
func (s *Server) Listen() error {
	s.log.WithField("address", s.cfg.Address).Info("server listening")
	return s.app.Listen(s.cfg.Address)
}

// Shutdown drains connections.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.WithFields(logrus.Fields{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  c.Response().StatusCode(),
		"latency": time.Since(start).String(),
	}).Info("request")
	return err
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	if code >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
