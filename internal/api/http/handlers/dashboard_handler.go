package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/atendesk/helpdesk/internal/api/dto"
	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/service"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// DashboardHandler serves the ticket listings and counters.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// ListMine GET /dashboard/tickets/mine.
func (h *DashboardHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListMine(c.Context(), principal, parseListParams(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// ListSectorQueue GET /dashboard/tickets/sector.
func (h *DashboardHandler) ListSectorQueue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListSectorQueue(c.Context(), principal, parseListParams(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// ListAll GET /dashboard/tickets/all. Admin only.
func (h *DashboardHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tickets, err := h.service.ListAll(c.Context(), principal, parseListParams(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// Counters GET /dashboard/counters.
func (h *DashboardHandler) Counters(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	counters, err := h.service.Counters(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"open_created":    counters.OpenCreated,
		"assigned_active": counters.AssignedActive,
		"sector_open":     counters.SectorOpen,
	}})
}

// parseListParams reads sort/search/pagination query parameters. Unknown
// sort keys fall back to id inside the repository allow-list.
func parseListParams(c *fiber.Ctx) service.ListParams {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return service.ListParams{
		SortBy:     c.Query("sort_by", "id"),
		Direction:  c.Query("direction", "asc"),
		SearchTerm: c.Query("q"),
		Limit:      limit,
		Offset:     offset,
	}
}
