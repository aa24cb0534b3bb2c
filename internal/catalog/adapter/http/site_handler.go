package http

import (
	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/usecase"

	"github.com/gofiber/fiber/v2"
)

// SiteHandler serves the aggregated page data, the static content and the
// change history.
type SiteHandler struct {
	site    *usecase.SiteUsecase
	content model.SiteContent
	events  *usecase.EventsUsecase
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(site *usecase.SiteUsecase, content model.SiteContent, events *usecase.EventsUsecase) *SiteHandler {
	return &SiteHandler{site: site, content: content, events: events}
}

// RegisterRoutes mounts /site, /content and /events on router.
func (h *SiteHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/site", h.GetSite)
	router.Get("/content", h.GetContent)
	router.Get("/events", h.GetEvents)
}

// GetSite returns every public collection merged with its fallback content.
func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	return c.JSON(h.site.Snapshot(c.UserContext()))
}

// GetContent returns translations, FAQs and the other static sections.
func (h *SiteHandler) GetContent(c *fiber.Ctx) error {
	return c.JSON(h.content)
}

// GetEvents returns recent change events, newest first.
func (h *SiteHandler) GetEvents(c *fiber.Ctx) error {
	events, err := h.events.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}
