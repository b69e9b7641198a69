package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// LedgerServices groups the per-department ledgers served under /dues.
type LedgerServices struct {
	Academic service.AcademicDueService
	Hostel   service.HostelDueService
	Other    service.OtherDueService
	Borrow   service.BorrowRecordService
	Legacy   service.LegacyRecordService
}

// LedgerHandler exposes the academic, hostel, other, borrow and legacy ledgers.
type LedgerHandler struct {
	services LedgerServices
	logger   zerolog.Logger
}

// NewLedgerHandler constructs a ledger handler.
func NewLedgerHandler(services LedgerServices, logger zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		services: services,
		logger:   logger.With().Str("component", "ledger_handler").Logger(),
	}
}

// Register wires ledger routes onto the dues group.
func (h *LedgerHandler) Register(router fiber.Router) {
	router.Get("/academic", h.listAcademic)
	router.Patch("/academic/:id", h.updateAcademic)

	router.Get("/hostel", h.listHostel)
	router.Patch("/hostel/:id", h.updateHostel)

	router.Get("/other", h.listOther)
	router.Post("/other", h.upsertOther)

	for path, kind := range map[string]string{"/library-records": "library", "/sports-records": "sports"} {
		kind := kind
		router.Get(path, func(c *fiber.Ctx) error { return h.listBorrow(c, kind) })
		router.Get(path+"/grouped", func(c *fiber.Ctx) error { return h.groupedBorrow(c, kind) })
		router.Post(path, func(c *fiber.Ctx) error { return h.createBorrow(c, kind) })
		router.Patch(path+"/:id", func(c *fiber.Ctx) error { return h.updateBorrow(c, kind) })
	}

	router.Get("/legacy", h.listLegacy)
}

func (h *LedgerHandler) listAcademic(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	page, pageSize, err := parsePage(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.services.Academic.List(c.UserContext(), principal, dto.AcademicDueListRequest{
		StudentID:     strings.TrimSpace(c.Query("student_id")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		YearLabel:     strings.TrimSpace(c.Query("year_label")),
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, "academic dues retrieved", result.Pagination)
}

func (h *LedgerHandler) updateAcademic(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	var payload dto.AcademicDueUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	due, err := h.services.Academic.Update(c.UserContext(), principal, id, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "academic due updated", due)
}

func (h *LedgerHandler) listHostel(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	page, pageSize, err := parsePage(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.services.Hostel.List(c.UserContext(), principal, dto.HostelDueListRequest{
		StudentID:   strings.TrimSpace(c.Query("student_id")),
		YearOfStudy: strings.TrimSpace(c.Query("year_of_study")),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, "hostel dues retrieved", result.Pagination)
}

func (h *LedgerHandler) updateHostel(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	var payload dto.HostelDueUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	due, err := h.services.Hostel.Update(c.UserContext(), principal, id, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "hostel due updated", due)
}

func (h *LedgerHandler) listOther(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	dues, err := h.services.Other.List(c.UserContext(), principal, dto.OtherDueListRequest{
		StudentID: strings.TrimSpace(c.Query("student_id")),
		Category:  strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "other dues retrieved", dues)
}

func (h *LedgerHandler) upsertOther(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var payload dto.OtherDueUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	due, err := h.services.Other.Upsert(c.UserContext(), principal, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "other due saved", due)
}

func borrowFilters(c *fiber.Ctx) (dto.BorrowRecordListRequest, error) {
	page, pageSize, err := parsePage(c)
	if err != nil {
		return dto.BorrowRecordListRequest{}, err
	}
	withFine, err := parseQueryBool(c, "with_fine")
	if err != nil {
		return dto.BorrowRecordListRequest{}, service.NewValidationError("with_fine", "must be true or false")
	}
	return dto.BorrowRecordListRequest{
		StudentID:    strings.TrimSpace(c.Query("student_id")),
		Search:       strings.TrimSpace(c.Query("search")),
		WithFineOnly: withFine != nil && *withFine,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (h *LedgerHandler) listBorrow(c *fiber.Ctx, kind string) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	req, err := borrowFilters(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	result, err := h.services.Borrow.List(c.UserContext(), principal, kind, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, kind+" records retrieved", result.Pagination)
}

func (h *LedgerHandler) groupedBorrow(c *fiber.Ctx, kind string) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	req, err := borrowFilters(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	groups, err := h.services.Borrow.Grouped(c.UserContext(), principal, kind, req)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, kind+" records grouped", groups)
}

func (h *LedgerHandler) createBorrow(c *fiber.Ctx, kind string) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var payload dto.BorrowRecordCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	record, err := h.services.Borrow.Create(c.UserContext(), principal, kind, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, kind+" record created", record)
}

func (h *LedgerHandler) updateBorrow(c *fiber.Ctx, kind string) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	var payload dto.BorrowRecordUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	record, err := h.services.Borrow.Update(c.UserContext(), principal, kind, id, payload)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.SendSuccess(c, kind+" record updated", record)
}

func (h *LedgerHandler) listLegacy(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	page, pageSize, err := parsePage(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	unmatched, err := parseQueryBool(c, "unmatched")
	if err != nil {
		return writeError(c, h.logger, service.NewValidationError("unmatched", "must be true or false"))
	}

	result, err := h.services.Legacy.List(c.UserContext(), principal, dto.LegacyRecordListRequest{
		StudentID:     strings.TrimSpace(c.Query("student_id")),
		Search:        strings.TrimSpace(c.Query("search")),
		UnmatchedOnly: unmatched != nil && *unmatched,
		Page:          page,
		PageSize:      pageSize,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return utils.OK(c, result.Items, "legacy records retrieved", result.Pagination)
}
