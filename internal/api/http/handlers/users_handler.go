package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atendesk/helpdesk/internal/api/dto"
	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/repository"
	"github.com/atendesk/helpdesk/internal/service"
	apperrors "github.com/atendesk/helpdesk/pkg/util"
)

// UsersHandler serves the back-office user management panel.
type UsersHandler struct {
	service *service.UserAdminService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userAdminService *service.UserAdminService) *UsersHandler {
	return &UsersHandler{service: userAdminService}
}

// List GET /panel/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	opts := repository.UserListOptions{
		SortBy:     c.Query("sort_by", "id"),
		Direction:  c.Query("direction", "asc"),
		SearchTerm: c.Query("q"),
	}
	users, err := h.service.ListUsers(c.Context(), principal, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Create POST /panel/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.Context(), principal, adminUserInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update PUT /panel/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateUser(c.Context(), principal, userID, adminUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete DELETE /panel/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Context(), principal, userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func adminUserInput(req dto.AdminUserRequest) service.AdminUserInput {
	return service.AdminUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Admin:     req.Admin,
		SectorIDs: req.SectorIDs,
	}
}
