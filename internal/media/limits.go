// Package media holds the upload constraint checks applied when issuing
// upload tokens. The checks gate declared metadata, not the bytes themselves;
// they are best-effort guards against oversized or out-of-range assets, not a
// security boundary.
package media

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Static errors for constraint violations.
var (
	// ErrVideoTooLarge is returned when the declared size exceeds the maximum.
	ErrVideoTooLarge = errors.New("media: video exceeds maximum size")
	// ErrDurationOutOfRange is returned when the declared duration is outside
	// the allowed window.
	ErrDurationOutOfRange = errors.New("media: video duration out of range")
	// ErrImageTooSmall is returned when an image's declared dimensions are
	// below the minimum on either axis.
	ErrImageTooSmall = errors.New("media: image dimensions below minimum")
)

// Limits holds the configured upload constraints.
type Limits struct {
	// MaxVideoBytes is the maximum accepted video size in bytes.
	MaxVideoBytes int64
	// MinDuration and MaxDuration bound the video length.
	MinDuration time.Duration
	MaxDuration time.Duration
	// MinImageDim is the minimum pixel size on both axes for character images.
	MinImageDim int
}

// DefaultLimits returns the stock constraints: 50 MiB, 1s to 30s, 256px.
func DefaultLimits() Limits {
	return Limits{
		MaxVideoBytes: 50 << 20,
		MinDuration:   1 * time.Second,
		MaxDuration:   30 * time.Second,
		MinImageDim:   256,
	}
}

// UploadCheck carries the metadata a client declares for an upload.
// Zero values mean "unknown"; unknown duration and dimensions are skipped,
// matching the client contract (if metadata cannot be read, the check is
// waived and downstream rejection is relied on).
type UploadCheck struct {
	ContentType     string
	SizeBytes       int64
	DurationSeconds float64
	Width           int
	Height          int
}

// IsVideo reports whether the declared content type is a video.
func (c UploadCheck) IsVideo() bool {
	return strings.HasPrefix(c.ContentType, "video/")
}

// IsImage reports whether the declared content type is an image.
func (c UploadCheck) IsImage() bool {
	return strings.HasPrefix(c.ContentType, "image/")
}

// Validate applies the limits to a declared upload.
func (l Limits) Validate(c UploadCheck) error {
	if c.IsVideo() {
		if c.SizeBytes > l.MaxVideoBytes {
			return fmt.Errorf("%w: %d bytes (max %d)", ErrVideoTooLarge, c.SizeBytes, l.MaxVideoBytes)
		}
		if c.DurationSeconds > 0 {
			d := time.Duration(c.DurationSeconds * float64(time.Second))
			if d < l.MinDuration || d > l.MaxDuration {
				return fmt.Errorf("%w: %.1fs (allowed %s to %s)",
					ErrDurationOutOfRange, c.DurationSeconds, l.MinDuration, l.MaxDuration)
			}
		}
		return nil
	}

	if c.IsImage() && c.Width > 0 && c.Height > 0 {
		if c.Width < l.MinImageDim || c.Height < l.MinImageDim {
			return fmt.Errorf("%w: %dx%d (min %dpx)", ErrImageTooSmall, c.Width, c.Height, l.MinImageDim)
		}
	}
	return nil
}
