// Package config loads, saves and watches the JSON settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

const (
	appDir     = "glowpoint"
	configFile = "config.json"
)

// ErrInvalidColor is returned for colour strings that are not #RRGGBB or #RGB.
var ErrInvalidColor = errors.New("invalid hex colour")

// Spotlight holds the "spotlight" section.
type Spotlight struct {
	Enabled    bool    `json:"enabled"`
	Radius     float64 `json:"radius"`
	RingRadius float64 `json:"ring_radius"`
	Opacity    float64 `json:"opacity"`
	Color      string  `json:"color"`
	Style      string  `json:"style"`
}

// Drawing holds the "drawing" section.
type Drawing struct {
	LineWidth      int               `json:"line_width"`
	MinLineWidth   int               `json:"min_line_width"`
	MaxLineWidth   int               `json:"max_line_width"`
	SampleDistance float64           `json:"sample_distance"`
	Colors         map[string]string `json:"colors"`
	ToolShortcuts  map[string]string `json:"tool_shortcuts"`
}

// Remote holds the "remote" section.
type Remote struct {
	Enabled   bool   `json:"enabled"`
	Addr      string `json:"addr"`
	Advertise bool   `json:"advertise"`
}

// Settings is the whole configuration document. Values returned by
// Store.Snapshot are private copies and safe to keep.
type Settings struct {
	Shortcuts map[string]string `json:"shortcuts"`
	Spotlight Spotlight         `json:"spotlight"`
	Drawing   Drawing           `json:"drawing"`
	Remote    Remote            `json:"remote"`
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		Shortcuts: map[string]string{
			"toggle_spotlight": "<ctrl>+<shift>+s",
			"draw_blue":        "<ctrl>+<shift>+b",
			"draw_red":         "<ctrl>+<shift>+r",
			"draw_yellow":      "<ctrl>+<shift>+y",
			"draw_green":       "<ctrl>+<shift>+g",
			"clear_screen":     "<ctrl>+<shift>+c",
			"quit":             "<ctrl>+<shift>+q",
		},
		Spotlight: Spotlight{
			Enabled:    true,
			Radius:     80,
			RingRadius: 40,
			Opacity:    0.7,
			Color:      "#FFFF64",
			Style:      "highlight",
		},
		Drawing: Drawing{
			LineWidth:      4,
			MinLineWidth:   1,
			MaxLineWidth:   20,
			SampleDistance: 8,
			Colors: map[string]string{
				"blue":   "#2196F3",
				"red":    "#F44336",
				"yellow": "#FFEB3B",
				"green":  "#4CAF50",
			},
			ToolShortcuts: map[string]string{
				"freehand":  "1",
				"line":      "2",
				"rectangle": "3",
				"arrow":     "4",
				"circle":    "5",
			},
		},
		Remote: Remote{
			Enabled:   false,
			Addr:      "127.0.0.1:8765",
			Advertise: false,
		},
	}
}

// Clone deep-copies the maps so the copy can be handed to another goroutine.
func (s Settings) Clone() Settings {
	c := s
	c.Shortcuts = cloneMap(s.Shortcuts)
	c.Drawing.Colors = cloneMap(s.Drawing.Colors)
	c.Drawing.ToolShortcuts = cloneMap(s.Drawing.ToolShortcuts)
	return c
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// normalize replaces out-of-range values with defaults so the engine never
// sees them.
func (s *Settings) normalize() {
	d := Defaults()
	if s.Spotlight.Radius <= 0 {
		s.Spotlight.Radius = d.Spotlight.Radius
	}
	if s.Spotlight.RingRadius <= 0 {
		s.Spotlight.RingRadius = d.Spotlight.RingRadius
	}
	if s.Spotlight.Opacity < 0 || s.Spotlight.Opacity > 1 {
		s.Spotlight.Opacity = d.Spotlight.Opacity
	}
	if _, err := ParseColor(s.Spotlight.Color); err != nil {
		s.Spotlight.Color = d.Spotlight.Color
	}
	if s.Spotlight.Style != "highlight" && s.Spotlight.Style != "dim" {
		s.Spotlight.Style = d.Spotlight.Style
	}
	if s.Drawing.MinLineWidth < 1 {
		s.Drawing.MinLineWidth = d.Drawing.MinLineWidth
	}
	if s.Drawing.MaxLineWidth < s.Drawing.MinLineWidth {
		s.Drawing.MaxLineWidth = max(d.Drawing.MaxLineWidth, s.Drawing.MinLineWidth)
	}
	s.Drawing.LineWidth = ClampWidth(s.Drawing.LineWidth, s.Drawing.MinLineWidth, s.Drawing.MaxLineWidth)
	if s.Drawing.SampleDistance < 0 {
		s.Drawing.SampleDistance = d.Drawing.SampleDistance
	}
	for name, hex := range s.Drawing.Colors {
		if _, err := ParseColor(hex); err != nil {
			log.Printf("[config] drawing.colors.%s: %v, dropped", name, err)
			delete(s.Drawing.Colors, name)
		}
	}
	if len(s.Drawing.Colors) == 0 {
		s.Drawing.Colors = d.Drawing.Colors
	}
	if s.Drawing.ToolShortcuts == nil {
		s.Drawing.ToolShortcuts = map[string]string{}
	}
	for tool, key := range d.Drawing.ToolShortcuts {
		if strings.TrimSpace(s.Drawing.ToolShortcuts[tool]) == "" {
			s.Drawing.ToolShortcuts[tool] = key
		}
	}
	if s.Shortcuts == nil {
		s.Shortcuts = d.Shortcuts
	}
	if s.Remote.Addr == "" {
		s.Remote.Addr = d.Remote.Addr
	}
}

// ClampWidth limits w to [lo, hi].
func ClampWidth(w, lo, hi int) int {
	return min(max(w, lo), hi)
}

// ParseColor parses "#RRGGBB" or "#RGB" into an opaque colour.
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 3 && len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
		}
	}
	c := gg.Hex(s)
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255}, nil
}

func to8(v float64) uint8 { return uint8(math.Round(v * 255)) }

// ColorNames returns the configured palette names in a stable order.
func (s Settings) ColorNames() []string {
	names := make([]string, 0, len(s.Drawing.Colors))
	for name := range s.Drawing.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store owns the settings file. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	settings Settings
	path     string
}

// DefaultPath is <user config dir>/glowpoint/config.json.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads path and merges it over the defaults. A missing file is not an
// error. A malformed file yields the defaults together with the parse error.
func Load(path string) (*Store, error) {
	s := &Store{path: path, settings: Defaults()}
	err := s.reload()
	return s, err
}

// Reload rereads the file. On error the current settings are kept.
func (s *Store) Reload() error { return s.reload() }

// EnsureFile writes the current settings if the file does not exist yet, so
// users have a complete file to edit.
func (s *Store) EnsureFile() error {
	if _, err := os.Stat(s.path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return s.Save()
}

func (s *Store) reload() error {
	next, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	return nil
}

func readFile(path string) (Settings, error) {
	settings := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("read config %s: %w", path, err)
	}
	// Decoding over the defaults keeps every key the file leaves out.
	if err := json.Unmarshal(data, &settings); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}
	// A palette in the file replaces the default one instead of extending it.
	var palette struct {
		Drawing struct {
			Colors map[string]string `json:"colors"`
		} `json:"drawing"`
	}
	if err := json.Unmarshal(data, &palette); err == nil && palette.Drawing.Colors != nil {
		settings.Drawing.Colors = palette.Drawing.Colors
	}
	settings.normalize()
	return settings, nil
}

func (s *Store) Path() string { return s.path }

// Snapshot returns an immutable copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Save writes the settings as indented JSON.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.settings, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) update(fn func(*Settings)) error {
	s.mu.Lock()
	fn(&s.settings)
	s.mu.Unlock()
	return s.Save()
}

// SetSpotlightEnabled persists spotlight.enabled.
func (s *Store) SetSpotlightEnabled(enabled bool) error {
	return s.update(func(st *Settings) { st.Spotlight.Enabled = enabled })
}

// SetLineWidth persists drawing.line_width.
func (s *Store) SetLineWidth(width int) error {
	return s.update(func(st *Settings) {
		st.Drawing.LineWidth = ClampWidth(width, st.Drawing.MinLineWidth, st.Drawing.MaxLineWidth)
	})
}
