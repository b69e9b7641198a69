package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// DepartmentDueHandler exposes departmental dues raised by staff.
type DepartmentDueHandler struct {
	service service.DepartmentDueService
	logger  zerolog.Logger
}

// NewDepartmentDueHandler constructs a department due handler.
func NewDepartmentDueHandler(service service.DepartmentDueService, logger zerolog.Logger) *DepartmentDueHandler {
	return &DepartmentDueHandler{
		service: service,
		logger:  logger.With().Str("component", "department_due_handler").Logger(),
	}
}

// Register wires department due routes onto the dues group.
func (h *DepartmentDueHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/:id/mark_as_paid", h.markPaid)
}

func (h *DepartmentDueHandler) list(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	req, err := parseDepartmentDueFilters(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), principal, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, "dues retrieved", result.Pagination)
}

func parseDepartmentDueFilters(c *fiber.Ctx) (dto.DepartmentDueListRequest, error) {
	page, pageSize, err := parsePage(c)
	if err != nil {
		return dto.DepartmentDueListRequest{}, err
	}
	req := dto.DepartmentDueListRequest{
		StudentID:  strings.TrimSpace(c.Query("student_id")),
		Department: strings.TrimSpace(c.Query("department")),
		Search:     strings.TrimSpace(c.Query("search")),
		Ordering:   strings.TrimSpace(c.Query("ordering")),
		Page:       page,
		PageSize:   pageSize,
	}
	if req.IsPaid, err = parseQueryBool(c, "is_paid"); err != nil {
		return req, service.NewValidationError("is_paid", "must be true or false")
	}
	if req.MinAmount, err = parseQueryInt64(c, "min_amount"); err != nil {
		return req, service.NewValidationError("min_amount", "must be a whole number")
	}
	if req.MaxAmount, err = parseQueryInt64(c, "max_amount"); err != nil {
		return req, service.NewValidationError("max_amount", "must be a whole number")
	}
	if req.DueDateBefore, err = parseQueryDate(c, "due_date_before"); err != nil {
		return req, service.NewValidationError("due_date_before", "expected YYYY-MM-DD")
	}
	if req.DueDateAfter, err = parseQueryDate(c, "due_date_after"); err != nil {
		return req, service.NewValidationError("due_date_after", "expected YYYY-MM-DD")
	}
	return req, nil
}

func (h *DepartmentDueHandler) create(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	var payload dto.DepartmentDueCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	due, err := h.service.Create(c.UserContext(), principal, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "due created", due)
}

func (h *DepartmentDueHandler) markPaid(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.MarkPaid(c.UserContext(), principal, id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "due marked as paid", result)
}
