package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// ChallanHandler handles payment proof uploads and their review.
type ChallanHandler struct {
	service service.ChallanService
	logger  zerolog.Logger
}

// NewChallanHandler constructs a challan handler.
func NewChallanHandler(service service.ChallanService, logger zerolog.Logger) *ChallanHandler {
	return &ChallanHandler{
		service: service,
		logger:  logger.With().Str("component", "challan_handler").Logger(),
	}
}

// Register wires challan routes.
func (h *ChallanHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
	router.Get("", h.list)
	router.Patch("/:id", h.review)
}

func (h *ChallanHandler) upload(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("amount")), 10, 64)
	if err != nil {
		return writeError(c, h.logger, service.NewValidationError("amount", "must be a whole number"))
	}
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	challan, err := h.service.Upload(c.UserContext(), principal, dto.ChallanUploadRequest{
		Department: strings.TrimSpace(c.FormValue("department")),
		Amount:     amount,
		Remarks:    c.FormValue("remarks"),
	}, file)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "challan uploaded", challan)
}

func (h *ChallanHandler) list(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	page, pageSize, err := parsePage(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), principal, dto.ChallanListRequest{
		StudentID:  strings.TrimSpace(c.Query("student_id")),
		Department: strings.TrimSpace(c.Query("department")),
		Status:     strings.TrimSpace(c.Query("status")),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, "challans retrieved", result.Pagination)
}

func (h *ChallanHandler) review(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	var payload dto.ChallanReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	challan, err := h.service.Review(c.UserContext(), principal, id, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "challan reviewed", challan)
}
