package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Root          string        `yaml:"root" validate:"required"`
	ImagesDir     string        `yaml:"images_dir" validate:"required"`
	ListenAddr    string        `yaml:"listen_addr"`
	DirectoryMode uint32        `yaml:"directory_mode" validate:"lte=511"`
	Thumbnail     Thumbnail     `yaml:"thumbnail"`
	JwtTTL        time.Duration `yaml:"jwt_ttl" validate:"required"`
	SecureCookies bool          `yaml:"secure_cookies"`

	MaxUploadSize       int64 `yaml:"max_upload_size"`        // per file
	MaxTotalUploadSize  int64 `yaml:"max_total_upload_size"`  // per request, multipart overhead excluded
	MaxDecodedImageSize int64 `yaml:"max_decoded_image_size"` // width*height*4 of a thumbnail source

	AllowedOrigins []string  `yaml:"allowed_origins"`
	RateLimit      RateLimit `yaml:"rate_limit"`
	Cleanup        Cleanup   `yaml:"cleanup"`
	Log            Log       `yaml:"log"`
}

// RateLimit is in requests per second with a burst allowance.
type RateLimit struct {
	PublicRPS   float64 `yaml:"public_rps" validate:"gte=0"`
	PublicBurst float64 `yaml:"public_burst" validate:"gte=0"`
	AdminRPS    float64 `yaml:"admin_rps" validate:"gte=0"`
	AdminBurst  float64 `yaml:"admin_burst" validate:"gte=0"`
}

// Cleanup controls removal of temporary thumbnail files.
type Cleanup struct {
	Interval    time.Duration `yaml:"interval"`
	TempFileAge time.Duration `yaml:"temp_file_age"`
}

type Thumbnail struct {
	Width   int `yaml:"width" validate:"gte=0"`
	Height  int `yaml:"height" validate:"gte=0"`
	Quality int `yaml:"quality" validate:"gte=0,lte=100"`
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key" validate:"required"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func (p *Public) applyDefaults() {
	if p.ListenAddr == "" {
		p.ListenAddr = ":8080"
	}
	if p.DirectoryMode == 0 {
		p.DirectoryMode = 0777
	}
	if p.Thumbnail.Width == 0 {
		p.Thumbnail.Width = 564
	}
	if p.Thumbnail.Height == 0 {
		p.Thumbnail.Height = 452
	}
	if p.Thumbnail.Quality == 0 {
		p.Thumbnail.Quality = 90
	}
	if p.MaxUploadSize == 0 {
		p.MaxUploadSize = 10 << 20
	}
	if p.MaxTotalUploadSize == 0 {
		p.MaxTotalUploadSize = 50 << 20
	}
	if p.MaxDecodedImageSize == 0 {
		p.MaxDecodedImageSize = 200 << 20
	}
	if p.RateLimit.PublicRPS == 0 {
		p.RateLimit.PublicRPS = 20
	}
	if p.RateLimit.PublicBurst == 0 {
		p.RateLimit.PublicBurst = 40
	}
	if p.RateLimit.AdminRPS == 0 {
		p.RateLimit.AdminRPS = 5
	}
	if p.RateLimit.AdminBurst == 0 {
		p.RateLimit.AdminBurst = 20
	}
	if p.Cleanup.Interval == 0 {
		p.Cleanup.Interval = time.Hour
	}
	if p.Cleanup.TempFileAge == 0 {
		p.Cleanup.TempFileAge = 10 * time.Minute
	}
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}

	if err := validate.Struct(output); err != nil {
		panic(fmt.Sprintf("invalid config file %s: %v", configPath, err))
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.applyDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
