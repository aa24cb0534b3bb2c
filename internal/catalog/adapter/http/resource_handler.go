package http

import (
	"bytes"
	"encoding/json"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/usecase"
	"v5c-properties/internal/shared/errors"
	"v5c-properties/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// metadataFields are owned by the server and stripped from request bodies.
var metadataFields = []string{"_id", "createdAt", "updatedAt", "seeded", "__v"}

// ResourceHandler serves the CRUD routes of one resource. The same handler
// type backs every resource in the catalog.
type ResourceHandler[T model.Entity] struct {
	uc *usecase.ResourceUsecase[T]
}

// NewResourceHandler creates a handler over uc.
func NewResourceHandler[T model.Entity](uc *usecase.ResourceUsecase[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{uc: uc}
}

// RegisterRoutes mounts /<name> and /<name>/:id on router. writeGuard, when
// not nil, runs before PUT and DELETE, before POST unless the resource is
// public, and before reads of private resources.
func (h *ResourceHandler[T]) RegisterRoutes(router fiber.Router, writeGuard fiber.Handler) {
	resource := h.uc.Resource()
	group := router.Group("/"+resource.Name, h.tagResource)

	guarded := func(handler fiber.Handler, guard bool) []fiber.Handler {
		if writeGuard != nil && guard {
			return []fiber.Handler{writeGuard, handler}
		}
		return []fiber.Handler{handler}
	}

	group.Get("/", guarded(h.List, resource.Private)...)
	group.Get("/:id", guarded(h.Get, resource.Private)...)
	group.Post("/", guarded(h.Create, !resource.Public)...)
	group.Put("/:id", guarded(h.Update, true)...)
	group.Delete("/:id", guarded(h.Delete, true)...)
}

func (h *ResourceHandler[T]) tagResource(c *fiber.Ctx) error {
	c.SetUserContext(utils.WithResource(c.UserContext(), h.uc.Resource().Name))
	return c.Next()
}

// List handles GET /<name>.
func (h *ResourceHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// Get handles GET /<name>/:id.
func (h *ResourceHandler[T]) Get(c *fiber.Ctx) error {
	item, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// Create handles POST /<name>.
func (h *ResourceHandler[T]) Create(c *fiber.Ctx) error {
	body, err := sanitizeBody(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	item := h.uc.New()
	if err := json.Unmarshal(body, item); err != nil {
		return respondError(c, errors.NewValidationError("invalid request body").WithCause(err))
	}

	created, err := h.uc.Create(c.UserContext(), item)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update handles PUT /<name>/:id. Only fields present in the body change.
func (h *ResourceHandler[T]) Update(c *fiber.Ctx) error {
	body, err := sanitizeBody(c.Body())
	if err != nil {
		return respondError(c, err)
	}

	updated, err := h.uc.Update(c.UserContext(), c.Params("id"), func(item T) error {
		return json.Unmarshal(body, item)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// Delete handles DELETE /<name>/:id.
func (h *ResourceHandler[T]) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Deleted successfully",
	})
}

// sanitizeBody checks that body is a JSON object and removes server-owned
// fields. An empty body is treated as {}.
func sanitizeBody(body []byte) ([]byte, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errors.NewValidationError("invalid request body").WithCause(err)
	}
	for _, f := range metadataFields {
		delete(fields, f)
	}
	return json.Marshal(fields)
}
