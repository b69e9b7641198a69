package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// DuesSummaryHandler serves the per-category dues summary.
type DuesSummaryHandler struct {
	service service.DuesSummaryService
	logger  zerolog.Logger
}

// NewDuesSummaryHandler constructs a summary handler.
func NewDuesSummaryHandler(service service.DuesSummaryService, logger zerolog.Logger) *DuesSummaryHandler {
	return &DuesSummaryHandler{
		service: service,
		logger:  logger.With().Str("component", "dues_summary_handler").Logger(),
	}
}

// Register wires the summary route onto the dues group.
func (h *DuesSummaryHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *DuesSummaryHandler) summary(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	summary, err := h.service.Summary(c.UserContext(), principal, c.Query("student_id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if len(summary.Warnings) > 0 {
		requestLogger(h.logger, c).Warn().
			Str("roll_number", summary.RollNumber).
			Int("warnings", len(summary.Warnings)).
			Msg("dues summary served with integrity warnings")
	}
	return utils.SendSuccess(c, "dues summary retrieved", summary)
}
