package config

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Port           string   `yaml:"port" env:"PIXORA_PORT" validate:"required"`
	APIOrigin      string   `yaml:"api_origin" env:"PIXORA_API_ORIGIN"` // empty means same origin
	MediaPath      string   `yaml:"media_path" env:"PIXORA_MEDIA_PATH" validate:"required"`
	TemplatesPath  string   `yaml:"templates_path" env:"PIXORA_TEMPLATES_PATH"` // empty means embedded templates
	SecureCookies  bool     `yaml:"secure_cookies" env:"PIXORA_SECURE_COOKIES"`
	AccessCookie   string   `yaml:"access_cookie" env:"PIXORA_ACCESS_COOKIE" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"PIXORA_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string   `yaml:"log_level" env:"PIXORA_LOG_LEVEL"`
	LogJSON        bool     `yaml:"log_json" env:"PIXORA_LOG_JSON"`

	ReadTimeout      time.Duration `yaml:"read_timeout" env:"PIXORA_READ_TIMEOUT" validate:"required"`
	WriteTimeout     time.Duration `yaml:"write_timeout" env:"PIXORA_WRITE_TIMEOUT" validate:"required"`
	APITimeout       time.Duration `yaml:"api_timeout" env:"PIXORA_API_TIMEOUT" validate:"required"`
	FeedFetchTimeout time.Duration `yaml:"feed_fetch_timeout" env:"PIXORA_FEED_FETCH_TIMEOUT" validate:"required"`
	NormalizeTimeout time.Duration `yaml:"normalize_timeout" env:"PIXORA_NORMALIZE_TIMEOUT" validate:"required"`

	FeedViewTTL    time.Duration `yaml:"feed_view_ttl" validate:"required"`
	MaxFeedViews   int           `yaml:"max_feed_views" validate:"required,gt=0"`
	SubmissionTTL  time.Duration `yaml:"submission_ttl" validate:"required"`
	MaxSubmissions int           `yaml:"max_submissions" validate:"required,gt=0"`
	AuthCacheTTL   time.Duration `yaml:"auth_cache_ttl" validate:"required"`
	MaxAuthEntries int           `yaml:"max_auth_entries" validate:"required,gt=0"`

	CaptionMaxLen int `yaml:"caption_max_len" validate:"required,gt=0"`
	BioMaxLen     int `yaml:"bio_max_len" validate:"required,gt=0"`

	PostUpload           UploadPolicy `yaml:"post_upload"`
	ProfilePictureUpload UploadPolicy `yaml:"profile_picture_upload"`
}

// UploadPolicy describes one upload flow. Flows do not share limits.
type UploadPolicy struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes" validate:"required,gt=0"`
	TargetSide   int   `yaml:"target_side" validate:"required,gt=0"`
	Quality      int   `yaml:"quality" validate:"required,gt=0,lte=100"`
}

type Private struct {
	SessionKey string `yaml:"session_key" env:"PIXORA_SESSION_KEY" validate:"required,min=32"`
}

func (c *Config) SessionKey() string {
	return c.private.SessionKey
}

// New assembles a config from parts. Used by tests and tools.
func New(public Public, private Private) *Config {
	return &Config{Public: public, private: private}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic(fmt.Sprintf("can't unmarshal config file %s: %v", configPath, err))
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// PIXORA_* environment overrides and validates the result.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	if err := env.Parse(&public); err != nil {
		panic(fmt.Sprintf("can't apply environment overrides: %v", err))
	}
	if err := env.Parse(&private); err != nil {
		panic(fmt.Sprintf("can't apply environment overrides: %v", err))
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(public); err != nil {
		panic(fmt.Sprintf("invalid public config: %v", err))
	}
	if err := validate.Struct(private); err != nil {
		panic("invalid private config: session_key is required (min 32 chars)")
	}

	return &Config{public, private}
}

// MediaBase is where post images are served from. A relative media path is
// resolved against the API origin.
func (p Public) MediaBase() string {
	if strings.HasPrefix(p.MediaPath, "/") {
		return strings.TrimSuffix(p.APIOrigin, "/") + p.MediaPath
	}
	return p.MediaPath
}
