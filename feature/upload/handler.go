package upload

import (
	"errors"
	"path/filepath"
	"strings"

	"blob-uploader/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for uploads.
type Handler struct {
	service *Service
	roots   []string
}

// NewHandler creates a new HTTP handler. Only sources below one of roots may
// be uploaded through the API.
func NewHandler(service *Service, roots []string) *Handler {
	var clean []string
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if abs, err := filepath.Abs(r); err == nil {
			clean = append(clean, abs)
		}
	}
	return &Handler{service: service, roots: clean}
}

// RegisterRoutes registers the upload routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/upload")
	group.Post("/", h.HandleUpload)
	group.Get("/containers/:name", h.HandleContainerExists)
}

// HandleUpload uploads a local directory into a container.
// Body: {"source": "...", "container": "...", "prefix": "..."}.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "details": err.Error()})
	}
	if req.Source != "" && !h.allowed(req.Source) {
		l.Warn("Rejected upload source", zap.String("source", req.Source))
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "source is outside the allowed roots"})
	}

	result, err := h.service.Upload(c.Context(), req)
	if errors.Is(err, ErrInvalidRequest) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Upload request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}
	return c.JSON(result)
}

// HandleContainerExists reports whether a container exists.
func (h *Handler) HandleContainerExists(c *fiber.Ctx) error {
	name := c.Params("name")
	exists, err := h.service.ContainerExists(c.Context(), name)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Container check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"name": name, "exists": exists})
}

func (h *Handler) allowed(source string) bool {
	abs, err := filepath.Abs(source)
	if err != nil {
		return false
	}
	for _, root := range h.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}
