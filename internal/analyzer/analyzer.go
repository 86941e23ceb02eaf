package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/kalorien/internal/domain"
)

// Providers understood by New.
const (
	ProviderMock      = "mock"
	ProviderAnthropic = "anthropic"
)

// MaxImageSize bounds the images accepted for analysis.
const MaxImageSize = 5 << 20

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image is too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// Image is a captured food photo.
type Image struct {
	Data      []byte
	MediaType string
}

// NewImage wraps data, sniffing the media type when none is given.
func NewImage(data []byte, mediaType string) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	if len(data) > MaxImageSize {
		return Image{}, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	mediaType = strings.TrimSpace(strings.Split(mediaType, ";")[0])
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mediaType)
	}
	return Image{Data: data, MediaType: mediaType}, nil
}

// Analyzer estimates the nutrition of the food shown in an image.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (domain.NutritionEstimate, error)
}

// Config selects and configures an Analyzer.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration

	// MockDelay simulates analysis latency for the mock provider.
	MockDelay time.Duration
}

// New creates the analyzer named by cfg.Provider. An empty provider means mock.
func New(cfg Config) (Analyzer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderMock:
		return &Mock{Delay: cfg.MockDelay}, nil
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.Provider)
	}
}
