package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/dto"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/observability"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// Import kinds accepted by ImportService.
const (
	ImportStudents = "students"
	ImportHostel   = "hostel"
	ImportAcademic = "academic"
	ImportLegacy   = "legacy"
)

const (
	defaultBaseAcademicYear = "2022-23"
	defaultFeeCategory      = "University Main Campus"
	maxImportYears          = 5
)

// ErrUnsupportedImport is returned for unknown import kinds or non-CSV payloads.
var ErrUnsupportedImport = errors.New("unsupported import")

// ImportService reconciles spreadsheet exports into the dues ledgers.
type ImportService interface {
	Import(ctx context.Context, principal auth.Principal, kind string, source io.Reader) (dto.ImportReport, error)
}

// ImportRepositories groups the stores written by imports.
type ImportRepositories struct {
	Students repository.StudentProfileRepository
	Catalog  repository.CatalogRepository
	Academic repository.AcademicDueRepository
	Hostel   repository.HostelDueRepository
	Legacy   repository.LegacyRecordRepository
}

// ImportOptions tunes how rows are interpreted.
type ImportOptions struct {
	// BaseAcademicYear is the academic year of year label "1".
	BaseAcademicYear       string
	DefaultCategory        string
	StudentDefaultPassword string
}

type importService struct {
	repos    ImportRepositories
	options  ImportOptions
	activity ActivityRecorder
	events   EventPublisher
	logger   zerolog.Logger
}

// NewImportService constructs the import service.
func NewImportService(repos ImportRepositories, options ImportOptions, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) ImportService {
	if options.BaseAcademicYear == "" {
		options.BaseAcademicYear = defaultBaseAcademicYear
	}
	if options.DefaultCategory == "" {
		options.DefaultCategory = defaultFeeCategory
	}
	return &importService{
		repos:    repos,
		options:  options,
		activity: activity,
		events:   events,
		logger:   logger.With().Str("component", "import_service").Logger(),
	}
}

// ImportDepartment reports the department that owns an import kind.
func ImportDepartment(kind string) (models.Department, bool) {
	switch kind {
	case ImportStudents, ImportAcademic, ImportLegacy:
		return models.DepartmentAccounts, true
	case ImportHostel:
		return models.DepartmentHostel, true
	}
	return "", false
}

func (s *importService) Import(ctx context.Context, principal auth.Principal, kind string, source io.Reader) (dto.ImportReport, error) {
	department, ok := ImportDepartment(kind)
	if !ok {
		return dto.ImportReport{}, fmt.Errorf("%w: kind %q", ErrUnsupportedImport, kind)
	}
	if err := requireDepartment(principal, department); err != nil {
		return dto.ImportReport{}, err
	}

	tracer := otel.Tracer("github.com/noah-isme/ssp-go-api/internal/service/import")
	ctx, span := tracer.Start(ctx, "import.run")
	span.SetAttributes(attribute.String("import.kind", kind))
	defer span.End()

	table, err := readCSV(source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read_csv_failed")
		return dto.ImportReport{}, err
	}

	report := dto.ImportReport{Kind: kind, Errors: make([]dto.ImportRowError, 0)}
	switch kind {
	case ImportStudents:
		err = s.importStudents(ctx, table, &report)
	case ImportHostel:
		err = s.importHostel(ctx, table, &report)
	case ImportAcademic:
		err = s.importAcademic(ctx, table, &report)
	case ImportLegacy:
		err = s.importLegacy(ctx, table, &report)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import_failed")
		return report, err
	}

	span.SetAttributes(
		attribute.Int("import.processed", report.Processed),
		attribute.Int("import.upserted", report.Upserted),
		attribute.Int("import.errors", len(report.Errors)),
	)
	s.logger.Info().
		Str("kind", kind).
		Int("processed", report.Processed).
		Int("upserted", report.Upserted).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("import completed")

	summary := map[string]interface{}{
		"kind":      kind,
		"processed": report.Processed,
		"upserted":  report.Upserted,
		"created":   report.Created,
		"skipped":   report.Skipped,
		"unmatched": report.Unmatched,
		"errors":    len(report.Errors),
	}
	record(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actorOf(principal),
		Action:     "import." + kind,
		EntityType: "import",
		Metadata:   summary,
	})
	s.events.Publish(ctx, Event{
		Type:       EventImportCompleted,
		Department: string(department),
		ActorID:    principal.UserID,
		Payload:    summary,
	})
	return report, nil
}

func (s *importService) importStudents(ctx context.Context, table csvTable, report *dto.ImportReport) error {
	if s.options.StudentDefaultPassword == "" {
		return NewValidationError("student_default_password", "must be configured to import students")
	}
	if !table.has("admission no") {
		return NewValidationError("file", "missing Admission No column")
	}
	hash, err := auth.HashPassword(s.options.StudentDefaultPassword)
	if err != nil {
		return err
	}

	for _, row := range table.rows {
		report.Processed++
		roll := row.get("admission no")
		if roll == "" {
			s.skip(report, row.line, "", "missing admission number")
			continue
		}

		firstName, lastName := splitName(row.get("name"))
		user := &models.User{
			Login:        roll,
			IsStudent:    true,
			IsActive:     true,
			FirstName:    firstName,
			LastName:     lastName,
			PasswordHash: hash,
		}
		profile := &models.StudentProfile{
			RollNumber:  roll,
			CourseName:  row.get("course"),
			Caste:       row.get("caste"),
			Gender:      row.get("gender"),
			PhoneNumber: row.get("phone number"),
			Batch:       row.get("batch"),
			YearOfStudy: row.get("year"),
			IsHostel:    parseYes(row.get("hostel")),
		}

		created, err := s.repos.Students.UpsertStudent(ctx, user, profile)
		if err != nil {
			s.fail(report, row.line, roll, err)
			continue
		}
		if created {
			report.Created++
		}
		s.upserted(report)
	}
	return nil
}

func (s *importService) importHostel(ctx context.Context, table csvTable, report *dto.ImportReport) error {
	if !table.has("admission no") {
		return NewValidationError("file", "missing Admission No column")
	}

	for _, row := range table.rows {
		report.Processed++
		student, ok := s.lookupStudent(ctx, report, row)
		if !ok {
			continue
		}

		deposit, err := parseAmount(row.get("deposit"))
		if err != nil {
			s.skip(report, row.line, student.RollNumber, "deposit: "+err.Error())
			continue
		}
		remarks := cleanText(row.get("remarks"))

		written := 0
		failed := false
		for year := 1; year <= maxImportYears; year++ {
			prefix := ordinal(year) + " year "
			messBill, err := parseAmount(row.get(prefix + "messbill"))
			if err != nil {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %d mess bill: %v", year, err))
				failed = true
				continue
			}
			scholarship, err := parseAmount(row.get(prefix + "s/ship"))
			if err != nil {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %d scholarship: %v", year, err))
				failed = true
				continue
			}
			if messBill == 0 && scholarship == 0 {
				continue
			}

			due := &models.HostelDue{
				StudentProfileID: student.ID,
				YearOfStudy:      strconv.Itoa(year),
				MessBill:         messBill,
				Scholarship:      scholarship,
				Remarks:          remarks,
			}
			if year == 1 {
				due.Deposit = deposit
			}
			if err := s.repos.Hostel.Upsert(ctx, due); err != nil {
				s.rowError(report, row.line, student.RollNumber, err.Error())
				failed = true
				continue
			}
			written++
		}
		s.settle(report, written, failed)
	}
	return nil
}

func (s *importService) importAcademic(ctx context.Context, table csvTable, report *dto.ImportReport) error {
	if !table.has("admission no") {
		return NewValidationError("file", "missing Admission No column")
	}
	if !validAcademicYear(s.options.BaseAcademicYear) {
		return NewValidationError("base_academic_year", fmt.Sprintf("invalid academic year %q", s.options.BaseAcademicYear))
	}

	fees := map[string]models.FeeStructure{}
	for _, row := range table.rows {
		report.Processed++
		student, ok := s.lookupStudent(ctx, report, row)
		if !ok {
			continue
		}

		category := row.get("category")
		if category == "" {
			category = s.options.DefaultCategory
		}
		remarks := cleanText(row.get("remarks"))

		written := 0
		failed := false
		for year := 1; year <= maxImportYears; year++ {
			label := strconv.Itoa(year)
			prefix := ordinal(year) + " year paid by "
			govtCell, studentCell := row.get(prefix+"govt"), row.get(prefix+"student")
			if govtCell == "" && studentCell == "" {
				continue
			}

			paidByGovt, err := parseAmount(govtCell)
			if err != nil {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %s paid by govt: %v", label, err))
				failed = true
				continue
			}
			paidByStudent, err := parseAmount(studentCell)
			if err != nil {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %s paid by student: %v", label, err))
				failed = true
				continue
			}

			academicYear, ok := academicYearForLabel(s.options.BaseAcademicYear, label)
			if !ok {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %s: no academic year", label))
				failed = true
				continue
			}
			fee, err := s.feeStructure(ctx, fees, student.CourseName, academicYear, category)
			if err != nil {
				s.rowError(report, row.line, student.RollNumber, fmt.Sprintf("year %s: %v", label, err))
				failed = true
				continue
			}

			due := &models.AcademicDue{
				StudentProfileID: student.ID,
				YearLabel:        label,
				FeeStructureID:   &fee.ID,
				PaidByGovt:       paidByGovt,
				PaidByStudent:    paidByStudent,
				PaymentStatus:    models.PaymentStatusUnpaid,
				Remarks:          remarks,
			}
			if due.DueAmount(fee) <= 0 {
				due.PaymentStatus = models.PaymentStatusPaid
			}
			if err := s.repos.Academic.Upsert(ctx, due); err != nil {
				s.rowError(report, row.line, student.RollNumber, err.Error())
				failed = true
				continue
			}
			written++
		}
		s.settle(report, written, failed)
	}
	return nil
}

func (s *importService) importLegacy(ctx context.Context, table csvTable, report *dto.ImportReport) error {
	if !table.has("admission no") || !table.has("label") {
		return NewValidationError("file", "missing Admission No or Label column")
	}

	for _, row := range table.rows {
		report.Processed++
		roll := row.get("admission no")
		label := row.get("label")
		if roll == "" || label == "" {
			s.skip(report, row.line, roll, "missing admission number or label")
			continue
		}

		amount, err := parseAmount(row.get("due amount"))
		if err != nil {
			s.skip(report, row.line, roll, "due amount: "+err.Error())
			continue
		}
		issuedOn, err := parseLooseDate(row.get("tc issued on"))
		if err != nil {
			s.skip(report, row.line, roll, "tc issued on: "+err.Error())
			continue
		}

		item := &models.LegacyAcademicRecord{
			RollNumber:  roll,
			StudentName: cleanText(row.get("name")),
			Label:       label,
			DueAmount:   amount,
			TCNumber:    row.get("tc no"),
			TCIssuedOn:  issuedOn,
			Remarks:     cleanText(row.get("remarks")),
		}
		student, err := s.repos.Students.GetByRollNumber(ctx, roll)
		switch {
		case err == nil:
			item.StudentProfileID = &student.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			report.Unmatched++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: row.line, RollNumber: roll, Message: "no matching student, kept unlinked"})
		default:
			s.fail(report, row.line, roll, err)
			continue
		}

		if err := s.repos.Legacy.Upsert(ctx, item); err != nil {
			s.fail(report, row.line, roll, err)
			continue
		}
		s.upserted(report)
	}
	return nil
}

func (s *importService) lookupStudent(ctx context.Context, report *dto.ImportReport, row csvRow) (models.StudentProfile, bool) {
	roll := row.get("admission no")
	if roll == "" {
		s.skip(report, row.line, "", "missing admission number")
		return models.StudentProfile{}, false
	}
	student, err := s.repos.Students.GetByRollNumber(ctx, roll)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.skip(report, row.line, roll, "student not found")
		} else {
			s.fail(report, row.line, roll, err)
		}
		return models.StudentProfile{}, false
	}
	return student, true
}

func (s *importService) feeStructure(ctx context.Context, cache map[string]models.FeeStructure, course, academicYear, category string) (models.FeeStructure, error) {
	key := course + "|" + academicYear + "|" + category
	if fee, ok := cache[key]; ok {
		return fee, nil
	}
	fee, err := s.repos.Catalog.FindFeeStructure(ctx, course, academicYear, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FeeStructure{}, fmt.Errorf("no fee structure for %s %s (%s)", course, academicYear, category)
		}
		return models.FeeStructure{}, err
	}
	cache[key] = fee
	return fee, nil
}

func (s *importService) settle(report *dto.ImportReport, written int, failed bool) {
	switch {
	case written > 0:
		s.upserted(report)
	case !failed:
		report.Skipped++
		observability.ImportRows().WithLabelValues(report.Kind, "empty").Inc()
	default:
		report.Skipped++
	}
}

func (s *importService) upserted(report *dto.ImportReport) {
	report.Upserted++
	observability.ImportRows().WithLabelValues(report.Kind, "upserted").Inc()
}

func (s *importService) skip(report *dto.ImportReport, line int, roll, message string) {
	report.Skipped++
	s.rowError(report, line, roll, message)
}

func (s *importService) fail(report *dto.ImportReport, line int, roll string, err error) {
	s.logger.Error().Err(err).Int("row", line).Str("roll_number", roll).Str("kind", report.Kind).Msg("import row failed")
	s.skip(report, line, roll, err.Error())
}

func (s *importService) rowError(report *dto.ImportReport, line int, roll, message string) {
	report.Errors = append(report.Errors, dto.ImportRowError{Row: line, RollNumber: roll, Message: message})
	observability.ImportRows().WithLabelValues(report.Kind, "error").Inc()
}

type csvRow struct {
	line    int
	columns map[string]int
	values  []string
}

func (r csvRow) get(column string) string {
	index, ok := r.columns[column]
	if !ok || index >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[index])
}

type csvTable struct {
	columns map[string]int
	rows    []csvRow
}

func (t csvTable) has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// readCSV parses a CSV export keyed by normalised header names.
func readCSV(source io.Reader) (csvTable, error) {
	payload, err := io.ReadAll(source)
	if err != nil {
		return csvTable{}, fmt.Errorf("read import: %w", err)
	}
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(payload)) == 0 {
		return csvTable{}, NewValidationError("file", "file is empty")
	}
	if !isTextPayload(payload) {
		return csvTable{}, fmt.Errorf("%w: file is not CSV", ErrUnsupportedImport)
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return csvTable{}, NewValidationError("file", "unreadable header: "+err.Error())
	}
	columns := make(map[string]int, len(header))
	for index, name := range header {
		key := normalizeHeader(name)
		if _, exists := columns[key]; !exists {
			columns[key] = index
		}
	}

	table := csvTable{columns: columns}
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvTable{}, NewValidationError("file", err.Error())
		}
		line, _ := reader.FieldPos(0)
		if blankRecord(values) {
			continue
		}
		table.rows = append(table.rows, csvRow{line: line, columns: columns, values: values})
	}
	return table, nil
}

func isTextPayload(payload []byte) bool {
	for detected := mimetype.Detect(payload); detected != nil; detected = detected.Parent() {
		if detected.Is("text/csv") || detected.Is("text/plain") {
			return true
		}
	}
	return false
}

var headerAliases = map[string]string{
	"online admission no": "admission no",
	"roll number":         "admission no",
	"roll no":             "admission no",
	"phone":               "phone number",
	"year of study":       "year",
}

// normalizeHeader folds case and whitespace, so "Online \nAdmission No." and
// "admission no" address the same column.
func normalizeHeader(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	key = strings.TrimSuffix(key, ".")
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

func blankRecord(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// parseAmount reads a whole currency amount; blanks and dashes count as zero.
func parseAmount(value string) (int64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" || value == "-" || strings.EqualFold(value, "nil") || strings.EqualFold(value, "nan") {
		return 0, nil
	}
	if amount, err := strconv.ParseInt(value, 10, 64); err == nil {
		return checkNonNegative(amount)
	}
	whole, fraction, found := strings.Cut(value, ".")
	if found && strings.Trim(fraction, "0") == "" {
		if amount, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return checkNonNegative(amount)
		}
	}
	return 0, fmt.Errorf("%q is not a whole amount", value)
}

func checkNonNegative(amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("amount %d is negative", amount)
	}
	return amount, nil
}

var looseDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2/1/2006", "02.01.2006"}

func parseLooseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil, nil
	}
	for _, layout := range looseDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date %q", value)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return strconv.Itoa(n) + "th"
}

func splitName(name string) (string, string) {
	parts := strings.Fields(cleanText(name))
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func parseYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "hosteller":
		return true
	}
	return false
}
