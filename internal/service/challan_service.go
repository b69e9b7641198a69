package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/observability"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

var allowedChallanTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// FileStorage abstracts where challan files are kept.
type FileStorage interface {
	Put(ctx context.Context, department, rollNumber string, reader io.Reader) (string, error)
}

// ChallanService handles payment proof uploads and their verification.
type ChallanService interface {
	Upload(ctx context.Context, principal auth.Principal, req dto.ChallanUploadRequest, file *multipart.FileHeader) (dto.ChallanResponse, error)
	List(ctx context.Context, principal auth.Principal, req dto.ChallanListRequest) (dto.ChallanListResponse, error)
	Review(ctx context.Context, principal auth.Principal, id uint, req dto.ChallanReviewRequest) (dto.ChallanResponse, error)
}

type challanService struct {
	repo      repository.ChallanRepository
	resolver  studentResolver
	storage   FileStorage
	validator *validator.Validate
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
	now       func() time.Time
}

// NewChallanService constructs the challan service. A nil storage disables uploads.
func NewChallanService(repo repository.ChallanRepository, students repository.StudentProfileRepository, storage FileStorage, maxSize int64, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) ChallanService {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &challanService{
		repo:      repo,
		resolver:  studentResolver{profiles: students},
		storage:   storage,
		validator: validator,
		activity:  activity,
		events:    events,
		logger:    logger.With().Str("component", "challan_service").Logger(),
		maxSize:   maxSize,
		tracer:    otel.Tracer("github.com/noah-isme/ssp-go-api/internal/service/challan"),
		now:       time.Now,
	}
}

func (s *challanService) Upload(ctx context.Context, principal auth.Principal, req dto.ChallanUploadRequest, file *multipart.FileHeader) (dto.ChallanResponse, error) {
	ctx, span := s.tracer.Start(ctx, "challan.upload")
	defer span.End()

	if !principal.IsStudent() {
		return dto.ChallanResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ChallanResponse{}, err
	}
	if file == nil {
		return dto.ChallanResponse{}, NewValidationError("file", "file is required")
	}
	if s.storage == nil {
		span.SetStatus(codes.Error, "storage disabled")
		return dto.ChallanResponse{}, ErrServiceUnavailable
	}

	student, err := s.resolver.own(ctx, principal)
	if err != nil {
		return dto.ChallanResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ChallanResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.ChallanResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.ChallanResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ChallanResponse{}, ErrUploadTooLarge
	}

	fileType := normalizeMime(mimetype.Detect(buf.Bytes()).String())
	span.SetAttributes(
		attribute.String("challan.detected_mime", fileType),
		attribute.Int64("challan.size_bytes", int64(buf.Len())),
	)
	if _, ok := allowedChallanTypes[fileType]; !ok {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.ChallanResponse{}, ErrUploadTypeNotAllowed
	}

	department := models.Department(req.Department)
	url, err := s.storage.Put(ctx, string(department), student.RollNumber, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.ChallanResponse{}, err
	}

	challan := models.Challan{
		StudentProfileID: student.ID,
		Department:       department,
		FileURL:          url,
		MimeType:         fileType,
		Amount:           req.Amount,
		Status:           models.ChallanStatusPending,
		UploadedByID:     principal.UserID,
		Remarks:          cleanText(req.Remarks),
	}
	if err := s.repo.Create(ctx, &challan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ChallanResponse{}, err
	}
	challan.StudentProfile = student

	s.logger.Info().
		Uint("challan_id", challan.ID).
		Str("department", string(department)).
		Str("roll_number", student.RollNumber).
		Msg("challan uploaded")
	s.events.Publish(ctx, Event{
		Type:       EventChallanUploaded,
		Department: string(department),
		EntityID:   challan.ID,
		ActorID:    principal.UserID,
		Payload:    map[string]interface{}{"amount": challan.Amount, "roll_number": student.RollNumber},
	})
	return dto.NewChallanResponse(challan), nil
}

func (s *challanService) List(ctx context.Context, principal auth.Principal, req dto.ChallanListRequest) (dto.ChallanListResponse, error) {
	filter := repository.ChallanFilter{Status: strings.TrimSpace(req.Status)}
	switch {
	case principal.IsStudent():
		student, err := s.resolver.own(ctx, principal)
		if err != nil {
			return dto.ChallanListResponse{}, err
		}
		filter.StudentProfileID = &student.ID
	case principal.IsAdmin():
		filter.Department = models.Department(strings.TrimSpace(req.Department))
	default:
		if !acceptsChallans(principal.Department) {
			return dto.ChallanListResponse{}, ErrForbidden
		}
		filter.Department = principal.Department
	}
	if !principal.IsStudent() && strings.TrimSpace(req.StudentID) != "" {
		student, err := s.resolver.byRoll(ctx, req.StudentID)
		if err != nil {
			return dto.ChallanListResponse{}, err
		}
		filter.StudentProfileID = &student.ID
	}
	filter.Page, filter.PageSize = normalizePage(req.Page, req.PageSize)

	challans, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ChallanListResponse{}, err
	}
	items := make([]dto.ChallanResponse, 0, len(challans))
	for _, challan := range challans {
		items = append(items, dto.NewChallanResponse(challan))
	}
	return dto.ChallanListResponse{Items: items, Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total)}, nil
}

// Review verifies or rejects a pending challan.
func (s *challanService) Review(ctx context.Context, principal auth.Principal, id uint, req dto.ChallanReviewRequest) (dto.ChallanResponse, error) {
	ctx, span := s.tracer.Start(ctx, "challan.review")
	span.SetAttributes(attribute.Int64("challan.id", int64(id)))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.ChallanResponse{}, err
	}

	challan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChallanResponse{}, ErrChallanNotFound
		}
		span.RecordError(err)
		return dto.ChallanResponse{}, err
	}
	if err := requireDepartment(principal, challan.Department); err != nil {
		return dto.ChallanResponse{}, err
	}
	if challan.Status != models.ChallanStatusPending {
		return dto.ChallanResponse{}, NewValidationError("status", "challan has already been reviewed")
	}

	reviewedAt := s.now().UTC()
	reviewer := principal.UserID
	challan.Status = req.Status
	challan.VerifiedByID = &reviewer
	challan.VerifiedAt = &reviewedAt
	if remarks := cleanText(req.Remarks); remarks != "" {
		challan.Remarks = remarks
	}
	if err := s.repo.Save(ctx, &challan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ChallanResponse{}, err
	}

	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "challan." + req.Status,
		EntityType: "challan",
		EntityID:   &challan.ID,
		Metadata:   map[string]interface{}{"amount": challan.Amount, "roll_number": challan.StudentProfile.RollNumber},
	})
	s.events.Publish(ctx, Event{
		Type:       EventChallanReviewed,
		Department: string(challan.Department),
		EntityID:   challan.ID,
		ActorID:    principal.UserID,
		Payload:    map[string]interface{}{"status": challan.Status},
	})
	return dto.NewChallanResponse(challan), nil
}

func acceptsChallans(department models.Department) bool {
	for _, candidate := range models.ChallanDepartments {
		if candidate == department {
			return true
		}
	}
	return false
}

func normalizeMime(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
