package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atendesk/helpdesk/internal/api/dto"
	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/domain"
	"github.com/atendesk/helpdesk/internal/repository"
	"github.com/atendesk/helpdesk/internal/service"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// ReferencesHandler serves the sector/subject/status/priority panels and
// the lookups the ticket form depends on.
type ReferencesHandler struct {
	service *service.ReferenceService
}

// NewReferencesHandler constructs handler.
func NewReferencesHandler(referenceService *service.ReferenceService) *ReferencesHandler {
	return &ReferencesHandler{service: referenceService}
}

func referenceListOptions(c *fiber.Ctx) repository.ReferenceListOptions {
	return repository.ReferenceListOptions{
		SortBy:    c.Query("sort_by", "id"),
		Direction: c.Query("direction", "asc"),
	}
}

// ListSectors GET /sectors.
func (h *ReferencesHandler) ListSectors(c *fiber.Ctx) error {
	sectors, err := h.service.ListSectors(c.Context(), referenceListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSectorResponses(sectors)})
}

// SubjectsForSector GET /sectors/:id/subjects.
func (h *ReferencesHandler) SubjectsForSector(c *fiber.Ctx) error {
	sectorID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	subjects, err := h.service.SubjectsForSector(c.Context(), sectorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubjectResponses(subjects)})
}

// CreateSector POST /panel/sectors.
func (h *ReferencesHandler) CreateSector(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SectorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sector, err := h.service.CreateSector(c.Context(), principal, req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSectorResponse(sector)})
}

// UpdateSector PUT /panel/sectors/:id.
func (h *ReferencesHandler) UpdateSector(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SectorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sector, err := h.service.UpdateSector(c.Context(), principal, id, req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSectorResponse(sector)})
}

// DeleteSector DELETE /panel/sectors/:id.
func (h *ReferencesHandler) DeleteSector(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSector(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListSubjects GET /subjects.
func (h *ReferencesHandler) ListSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(c.Context(), referenceListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubjectResponses(subjects)})
}

// CreateSubject POST /panel/subjects.
func (h *ReferencesHandler) CreateSubject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subject, err := h.service.CreateSubject(c.Context(), principal, req.Name, req.SectorIDs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewSubjectResponse(subject)})
}

// UpdateSubject PUT /panel/subjects/:id.
func (h *ReferencesHandler) UpdateSubject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subject, err := h.service.UpdateSubject(c.Context(), principal, id, req.Name, req.SectorIDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubjectResponse(subject)})
}

// DeleteSubject DELETE /panel/subjects/:id.
func (h *ReferencesHandler) DeleteSubject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSubject(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListStatuses GET /statuses.
func (h *ReferencesHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.Context(), referenceListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponses(statuses)})
}

// CreateStatus POST /panel/statuses.
func (h *ReferencesHandler) CreateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := h.service.CreateStatus(c.Context(), principal, req.Name, req.Symbol, domain.StatusKind(req.Kind))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

// UpdateStatus PUT /panel/statuses/:id.
func (h *ReferencesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := h.service.UpdateStatus(c.Context(), principal, id, req.Name, req.Symbol, domain.StatusKind(req.Kind))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusResponse(status)})
}

// DeleteStatus DELETE /panel/statuses/:id.
func (h *ReferencesHandler) DeleteStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteStatus(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ListPriorities GET /priorities.
func (h *ReferencesHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.service.ListPriorities(c.Context(), referenceListOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPriorityResponses(priorities)})
}

// CreatePriority POST /panel/priorities.
func (h *ReferencesHandler) CreatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	priority, err := h.service.CreatePriority(c.Context(), principal, req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPriorityResponse(priority)})
}

// UpdatePriority PUT /panel/priorities/:id.
func (h *ReferencesHandler) UpdatePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	priority, err := h.service.UpdatePriority(c.Context(), principal, id, req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPriorityResponse(priority)})
}

// DeletePriority DELETE /panel/priorities/:id.
func (h *ReferencesHandler) DeletePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePriority(c.Context(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
