// Package config loads the roi-sentry configuration from the plain-text files
// under the args directory, an optional notify.yaml and environment overrides.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// DefaultCooldown is used for a cooldown whose file is absent.
const DefaultCooldown = 60 * time.Second

// ErrMalformed is wrapped by every parse failure of a required field.
var ErrMalformed = errors.New("malformed config")

// Paths locates the configuration files.
type Paths struct {
	Arguments      string
	ROI            string
	CooldownNotif  string
	CooldownMotion string
	Notify         string
}

// DefaultPaths returns the file layout rooted at dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Arguments:      filepath.Join(dir, "arguments.txt"),
		ROI:            filepath.Join(dir, "roi.txt"),
		CooldownNotif:  filepath.Join(dir, "cooldownnotif.txt"),
		CooldownMotion: filepath.Join(dir, "cooldownmotion.txt"),
		Notify:         filepath.Join(dir, "notify.yaml"),
	}
}

// Config holds the application configuration.
type Config struct {
	StreamURL string  `env:"ROI_SENTRY_STREAM_URL"`
	Threshold float64 `env:"ROI_SENTRY_THRESHOLD"`
	// MotionSensitivity is the third line of the arguments file. It is
	// loaded and logged but nothing consumes it.
	MotionSensitivity string
	ROI               ROI
	CooldownNotif     time.Duration `env:"ROI_SENTRY_COOLDOWN_NOTIF"`
	CooldownMotion    time.Duration `env:"ROI_SENTRY_COOLDOWN_MOTION"`
	Notify            NotifyConfig
}

// ROI is the region of interest rectangle in frame pixels.
type ROI struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts the ROI to an image.Rectangle.
func (r ROI) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// NotifyConfig contains notification endpoint and gate settings.
type NotifyConfig struct {
	URL                  string        `yaml:"url" json:"url" env:"ROI_SENTRY_NOTIFY_URL"`
	Title                string        `yaml:"title" json:"title" env:"ROI_SENTRY_NOTIFY_TITLE"`
	Priority             string        `yaml:"priority" json:"priority"`
	Tags                 []string      `yaml:"tags" json:"tags"`
	Timeout              time.Duration `yaml:"timeout" json:"timeout"`
	Async                bool          `yaml:"async" json:"async"`
	IndependentCooldowns bool          `yaml:"independent_cooldowns" json:"independent_cooldowns"`
}

// Snapshot is a read-only view of the configuration.
type Snapshot struct {
	StreamURL         string       `json:"stream_url"`
	Threshold         float64      `json:"threshold"`
	MotionSensitivity string       `json:"motion_sensitivity"`
	ROI               ROI          `json:"roi"`
	CooldownNotif     float64      `json:"cooldown_notif_seconds"`
	CooldownMotion    float64      `json:"cooldown_motion_seconds"`
	Notify            NotifyConfig `json:"notify"`
}

func defaultNotify() NotifyConfig {
	return NotifyConfig{
		Title:    "Front Driveway",
		Priority: "urgent",
		Tags:     []string{"rotating_light", "warning"},
		Timeout:  10 * time.Second,
	}
}

// Load reads every configuration file and applies env var overrides.
func Load(paths Paths) (*Config, error) {
	cfg := &Config{Notify: defaultNotify()}

	args, err := LoadArguments(paths.Arguments)
	if err != nil {
		return nil, err
	}
	cfg.StreamURL = args.StreamURL
	cfg.Threshold = args.Threshold
	cfg.MotionSensitivity = args.MotionSensitivity

	roi, err := LoadROI(paths.ROI)
	if err != nil {
		return nil, err
	}
	cfg.ROI = roi

	if cfg.CooldownNotif, err = LoadCooldown(paths.CooldownNotif, DefaultCooldown); err != nil {
		return nil, err
	}
	if cfg.CooldownMotion, err = LoadCooldown(paths.CooldownMotion, DefaultCooldown); err != nil {
		return nil, err
	}

	if paths.Notify != "" {
		if err := loadNotify(paths.Notify, &cfg.Notify); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if cfg.CooldownNotif < 0 || cfg.CooldownMotion < 0 {
		return nil, fmt.Errorf("env overrides: negative cooldown: %w", ErrMalformed)
	}

	return cfg, nil
}

// Arguments is the content of the arguments file.
type Arguments struct {
	StreamURL         string
	Threshold         float64
	MotionSensitivity string
}

// LoadArguments parses the three-line arguments file: stream URL, threshold
// percentage and an unused sensitivity field.
func LoadArguments(path string) (Arguments, error) {
	lines, err := readLines(path, 3)
	if err != nil {
		return Arguments{}, fmt.Errorf("arguments file %s: %w", path, err)
	}

	threshold, err := strconv.ParseFloat(lines[1], 64)
	if err != nil {
		return Arguments{}, fmt.Errorf("arguments file %s: threshold %q: %w", path, lines[1], ErrMalformed)
	}

	return Arguments{
		StreamURL:         lines[0],
		Threshold:         threshold,
		MotionSensitivity: lines[2],
	}, nil
}

// LoadROI parses a single line of the form "x=10, y=20, width=100, height=50".
// Fields are read positionally; key names are not checked.
func LoadROI(path string) (ROI, error) {
	lines, err := readLines(path, 1)
	if err != nil {
		return ROI{}, fmt.Errorf("roi file %s: %w", path, err)
	}
	roi, err := ParseROI(lines[0])
	if err != nil {
		return ROI{}, fmt.Errorf("roi file %s: %w", path, err)
	}
	return roi, nil
}

// ParseROI parses the ROI line format.
func ParseROI(line string) (ROI, error) {
	parts := strings.Split(line, ", ")
	if len(parts) < 4 {
		return ROI{}, fmt.Errorf("expected 4 fields, got %d: %w", len(parts), ErrMalformed)
	}

	fields := parts[:4]
	if bad, found := lo.Find(fields, func(p string) bool { return !strings.Contains(p, "=") }); found {
		return ROI{}, fmt.Errorf("field %q has no value: %w", bad, ErrMalformed)
	}

	nums := make([]int, len(fields))
	for i, field := range fields {
		_, v, _ := strings.Cut(field, "=")
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return ROI{}, fmt.Errorf("field %q: %w", field, ErrMalformed)
		}
		nums[i] = n
	}

	return ROI{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, nil
}

// LoadCooldown reads a single float seconds value. A missing file is not an
// error: def is returned and a warning is logged.
func LoadCooldown(path string, def time.Duration) (time.Duration, error) {
	lines, err := readLines(path, 1)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", path).Dur("default", def).Msg("Cooldown file not found, using default duration")
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cooldown file %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(lines[0], 64)
	if err != nil {
		return 0, fmt.Errorf("cooldown file %s: value %q: %w", path, lines[0], ErrMalformed)
	}
	d, err := secondsToDuration(seconds)
	if err != nil {
		return 0, fmt.Errorf("cooldown file %s: value %q: %w", path, lines[0], err)
	}
	return d, nil
}

// maxSeconds is the largest cooldown representable as a time.Duration.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// secondsToDuration rejects negative and non-finite values and saturates at
// the largest Duration instead of overflowing.
func secondsToDuration(seconds float64) (time.Duration, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, ErrMalformed
	}
	if seconds >= maxSeconds {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func loadNotify(path string, n *NotifyConfig) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", path).Msg("No notify config, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("notify config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, n); err != nil {
		return fmt.Errorf("notify config %s: %w", path, err)
	}
	return nil
}

// readLines returns exactly n trimmed lines; missing trailing lines are empty.
func readLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, n)
	scanner := bufio.NewScanner(f)
	for i := 0; i < n && scanner.Scan(); i++ {
		lines[i] = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Snapshot returns a read-only view suitable for JSON encoding.
func (c *Config) Snapshot() Snapshot {
	n := c.Notify
	n.Tags = append([]string(nil), c.Notify.Tags...)
	return Snapshot{
		StreamURL:         c.StreamURL,
		Threshold:         c.Threshold,
		MotionSensitivity: c.MotionSensitivity,
		ROI:               c.ROI,
		CooldownNotif:     c.CooldownNotif.Seconds(),
		CooldownMotion:    c.CooldownMotion.Seconds(),
		Notify:            n,
	}
}
