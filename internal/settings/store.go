package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

const orgKey = "scheduling:settings:org"

var (
	// ErrNotConfigured is returned by DefaultTimezone when no timezone is stored.
	ErrNotConfigured = errors.New("settings: default timezone not configured")

	// ErrInvalidTimezone is returned when saving an unknown IANA zone.
	ErrInvalidTimezone = errors.New("settings: invalid timezone")
)

// OrgSettings are organization-wide scheduling settings.
type OrgSettings struct {
	Timezone  string    `json:"timezone"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that Timezone names a loadable zone when set.
func (s *OrgSettings) Validate() error {
	tz := strings.TrimSpace(s.Timezone)
	if tz == "" {
		return nil
	}
	if _, err := schedule.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return nil
}

// Store provides persistence for organization settings.
type Store struct {
	redis *redis.Client
	now   func() time.Time
}

// NewStore creates a new settings store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient, now: time.Now}
}

// Get retrieves settings, returning empty settings if none are stored.
func (s *Store) Get(ctx context.Context) (*OrgSettings, error) {
	data, err := s.redis.Get(ctx, orgKey).Bytes()
	if err == redis.Nil {
		return &OrgSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: get: %w", err)
	}

	var cfg OrgSettings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("settings: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Set validates and saves settings.
func (s *Store) Set(ctx context.Context, cfg *OrgSettings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	cfg.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := s.redis.Set(ctx, orgKey, data, 0).Err(); err != nil {
		return fmt.Errorf("settings: set: %w", err)
	}
	return nil
}

// DefaultTimezone returns the configured organizational timezone.
func (s *Store) DefaultTimezone(ctx context.Context) (string, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if cfg.Timezone == "" {
		return "", ErrNotConfigured
	}
	return cfg.Timezone, nil
}
