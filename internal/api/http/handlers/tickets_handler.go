package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/robotics-tickets/internal/api/dto"
	"github.com/spec-kit/robotics-tickets/internal/domain"
	"github.com/spec-kit/robotics-tickets/internal/registry"
	"github.com/spec-kit/robotics-tickets/internal/service"
	"github.com/spec-kit/robotics-tickets/internal/view"
	apperrors "github.com/spec-kit/robotics-tickets/pkg/util"
)

// TicketsHandler manages ticket lifecycle and list endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	registry *registry.Registry
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, reg *registry.Registry) *TicketsHandler {
	return &TicketsHandler{service: ticketService, registry: reg}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := domain.TicketInput{
		Title:           req.Title,
		RobotID:         req.RobotID,
		IssueType:       req.IssueType,
		Priority:        req.Priority,
		DepartmentOwner: domain.Department(req.DepartmentOwner),
		Description:     req.Description,
	}
	ticket, err := h.service.Create(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ListTickets GET /tickets. Supports q, department and status filter params;
// empty criteria impose no constraint.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	list := h.registry.Snapshot()
	filtered := view.Filter(list,
		c.Query("q"),
		domain.Department(c.Query("department")),
		domain.TicketStatus(c.Query("status")),
	)
	result := view.Render(filtered)
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Rows:     result.Rows,
		Counters: result.Counters,
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.registry.FindByID(c.Params("id"))
	if err != nil {
		return apperrors.NewNotFound("ticket", map[string]any{"id": c.Params("id")})
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// SaveTicket POST /tickets/:id/save — the detail-view save chain.
func (h *TicketsHandler) SaveTicket(c *fiber.Ctx) error {
	var req dto.SaveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.SaveDetail(c.Context(), c.Params("id"), service.SaveDetailInput{
		HandoverDept: domain.Department(req.HandoverDept),
		Status:       domain.TicketStatus(req.Status),
		AssignTo:     req.AssignTo,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// QuickHandover POST /tickets/:id/handover.
func (h *TicketsHandler) QuickHandover(c *fiber.Ctx) error {
	var req dto.QuickHandoverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.QuickHandover(c.Context(), c.Params("id"), domain.Department(req.Department), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ForceHandover POST /tickets/:id/force-handover.
func (h *TicketsHandler) ForceHandover(c *fiber.Ctx) error {
	var req dto.ForceHandoverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ForceHandover(c.Context(), c.Params("id"), domain.Department(req.Department))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// AddComment POST /tickets/:id/comment.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Comment(c.Context(), c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// ExportTickets GET /tickets/export — the full registry as a pretty-printed
// JSON attachment with the fixed download filename.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	data, err := view.Export(h.registry.Snapshot())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+view.ExportFilename+`"`)
	return c.Send(data)
}

// SeedDemo POST /seed — creates the two fixed sample tickets.
func (h *TicketsHandler) SeedDemo(c *fiber.Ctx) error {
	seeded, err := h.service.SeedDemo(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TicketDetailResponse, 0, len(seeded))
	for _, t := range seeded {
		items = append(items, dto.FromTicket(t))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": items})
}
