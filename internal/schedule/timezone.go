package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// TimezoneSource supplies the organization's default IANA timezone name.
type TimezoneSource interface {
	DefaultTimezone(ctx context.Context) (string, error)
}

// LoadLocation parses an IANA timezone identifier. Empty and "UTC" map to UTC;
// invalid names return UTC together with an error.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Normalizer resolves the organizational timezone. Resolution never fails:
// a missing source, a fetch error or an unknown zone all fall back to UTC.
type Normalizer struct {
	source TimezoneSource
	logger *logging.Logger
}

// NewNormalizer creates a normalizer; source may be nil.
func NewNormalizer(source TimezoneSource, logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{source: source, logger: logger}
}

// Resolve returns the organizational location.
func (n *Normalizer) Resolve(ctx context.Context) *time.Location {
	if n == nil || n.source == nil {
		return time.UTC
	}
	name, err := n.source.DefaultTimezone(ctx)
	if err != nil {
		n.logger.Debug("timezone setting unavailable, using UTC", "error", err)
		return time.UTC
	}
	loc, err := LoadLocation(name)
	if err != nil {
		n.logger.Warn("configured timezone is invalid, using UTC", "timezone", name, "error", err)
	}
	return loc
}

// ToOrg converts a stored instant into the organizational timezone.
func ToOrg(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}
