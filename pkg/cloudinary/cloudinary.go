package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Store keeps challan payment proofs in Cloudinary.
type Store struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Cloudinary store.
func New(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Store{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
		now:    time.Now,
	}, nil
}

// Put uploads the proof under <folder>/<department>/<roll>-<timestamp> and
// returns its secure URL. Images and PDFs are both accepted via the auto resource type.
func (s *Store) Put(ctx context.Context, department, rollNumber string, reader io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       s.folderFor(department),
		PublicID:     s.publicID(rollNumber),
		ResourceType: "auto",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload challan: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload challan: %s", result.Error.Message)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Str("department", department).
		Msg("challan stored")

	return result.SecureURL, nil
}

func (s *Store) folderFor(department string) string {
	department = slug(department)
	if department == "" {
		return s.folder
	}
	if s.folder == "" {
		return department
	}
	return path.Join(s.folder, department)
}

func (s *Store) publicID(rollNumber string) string {
	base := slug(rollNumber)
	if base == "" {
		base = "challan"
	}
	return fmt.Sprintf("%s-%d", base, s.now().UnixNano())
}

func slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, value)
	return strings.Trim(value, "-")
}
