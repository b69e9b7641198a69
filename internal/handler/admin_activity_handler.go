package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// AdminActivityHandler exposes the staff audit trail to admins.
type AdminActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewAdminActivityHandler constructs the handler.
func NewAdminActivityHandler(service service.ActivityService, logger zerolog.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *AdminActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AdminActivityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePage(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return writeError(c, h.logger, service.NewValidationError("actor_id", "must be a positive number"))
	}
	from, err := parseQueryDate(c, "from")
	if err != nil {
		return writeError(c, h.logger, service.NewValidationError("from", "must be a date (YYYY-MM-DD)"))
	}
	to, err := parseQueryDate(c, "to")
	if err != nil {
		return writeError(c, h.logger, service.NewValidationError("to", "must be a date (YYYY-MM-DD)"))
	}

	response, err := h.service.List(c.UserContext(), dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    uint(actorID),
		Department: c.Query("department"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		From:       from,
		To:         to,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return utils.OK(c, response.Items, "activity logs", response.Pagination)
}
