package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName               string
	AppEnv                string
	AppPort               string
	DatabaseURL           string
	RedisURL              string
	NATSURL               string
	JWTSecret             string
	CloudinaryCloudName   string
	CloudinaryAPIKey      string
	CloudinaryAPISecret   string
	CloudinarySheetFolder string
	CloudinaryAudioFolder string
	RosterCacheTTL        time.Duration
	AnnouncementCacheTTL  time.Duration
	MaxUploadSizeMB       int
	NotificationSubject   string
	SubmitRateLimitPerMin int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHORUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Chorus API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.sheet_folder", "chorus/sheet-music")
	v.SetDefault("cloudinary.audio_folder", "chorus/audio")
	v.SetDefault("roster.cache_ttl", "5m")
	v.SetDefault("announcements.cache_ttl", "5m")
	v.SetDefault("max_upload_size_mb", 25)
	v.SetDefault("notifications.subject", "chorus.events")
	v.SetDefault("submit_rate_limit_per_min", 30)

	rosterTTL, err := parseTTL(v.GetString("roster.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid roster cache ttl: %w", err)
	}

	announcementTTL, err := parseTTL(v.GetString("announcements.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid announcements cache ttl: %w", err)
	}

	cfg := Config{
		AppName:               v.GetString("app.name"),
		AppEnv:                v.GetString("app.env"),
		AppPort:               v.GetString("app.port"),
		DatabaseURL:           v.GetString("database.url"),
		RedisURL:              v.GetString("redis.url"),
		NATSURL:               v.GetString("nats.url"),
		JWTSecret:             v.GetString("jwt.secret"),
		CloudinaryCloudName:   v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:      v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:   v.GetString("cloudinary.api_secret"),
		CloudinarySheetFolder: v.GetString("cloudinary.sheet_folder"),
		CloudinaryAudioFolder: v.GetString("cloudinary.audio_folder"),
		RosterCacheTTL:        rosterTTL,
		AnnouncementCacheTTL:  announcementTTL,
		MaxUploadSizeMB:       v.GetInt("max_upload_size_mb"),
		NotificationSubject:   v.GetString("notifications.subject"),
		SubmitRateLimitPerMin: v.GetInt("submit_rate_limit_per_min"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 25
	}

	if cfg.SubmitRateLimitPerMin <= 0 {
		cfg.SubmitRateLimitPerMin = 30
	}

	return cfg, nil
}

func parseTTL(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	return time.ParseDuration(value)
}
