package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// CatalogHandler serves courses and fee structures.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/courses", h.courses)
	router.Get("/fee-structures", h.feeStructures)
	router.Put("/fee-structures", h.upsertFeeStructure)
}

func (h *CatalogHandler) courses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) feeStructures(c *fiber.Ctx) error {
	fees, err := h.service.ListFeeStructures(c.UserContext(), dto.FeeStructureListRequest{
		CourseName:   c.Query("course"),
		AcademicYear: c.Query("academic_year"),
		Category:     c.Query("category"),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "fee structures retrieved", fees)
}

func (h *CatalogHandler) upsertFeeStructure(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	var payload dto.FeeStructureUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	fee, err := h.service.UpsertFeeStructure(c.UserContext(), principal, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "fee structure saved", fee)
}
