package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ssp-go-api/internal/service"
	"github.com/noah-isme/ssp-go-api/internal/utils"
)

// ImportHandler accepts CSV uploads for the bulk imports.
type ImportHandler struct {
	service service.ImportService
	logger  zerolog.Logger
}

// NewImportHandler constructs an import handler.
func NewImportHandler(service service.ImportService, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service: service,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register wires import routes.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("/:kind", h.importFile)
}

func (h *ImportHandler) importFile(c *fiber.Ctx) error {
	principal, err := principalFromContext(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}
	source, err := file.Open()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer source.Close()

	kind := c.Params("kind")
	report, err := h.service.Import(c.UserContext(), principal, kind, source)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().
		Str("kind", kind).
		Str("filename", file.Filename).
		Int("processed", report.Processed).
		Int("errors", len(report.Errors)).
		Msg("import completed")
	return utils.SendSuccess(c, "import completed", report)
}
