package config

import (
    "errors"
    "fmt"
    "os"
    "sort"
    "strconv"
    "time"

    "gopkg.in/yaml.v3"

    "sheetlab/internal/sheet"
)

// DefaultFile is the preset file `sheetlab init` writes and `demo` reads.
const DefaultFile = "sheetlab.yaml"

var (
    ErrNoSheets     = errors.New("config has no sheets")
    ErrUnknownSheet = errors.New("unknown sheet")
)

// Config is the sheetlab preset file:
//
//  px_per_row: 20
//  fps: 60
//  spring: {damping: 20, stiffness: 90, mass: 0.4}
//  sheets:
//    - name: comments
//      collapsed_height: 520
type Config struct {
    // PxPerRow maps one terminal row onto virtual pixels so thresholds keep
    // their pixel meaning.
    PxPerRow int          `yaml:"px_per_row,omitempty"`
    FPS      int          `yaml:"fps,omitempty"`
    Spring   sheet.Spring `yaml:"spring,omitempty"`
    // StaleDragTimeout is a Go duration string ("750ms").
    StaleDragTimeout string  `yaml:"stale_drag_timeout,omitempty"`
    Sheets           []Sheet `yaml:"sheets"`
}

// Sheet is one drawer preset. Zero fields fall back to engine defaults.
type Sheet struct {
    Name        string `yaml:"name"`
    Title       string `yaml:"title,omitempty"`
    Description string `yaml:"description,omitempty"`

    SupportsExtended  bool    `yaml:"supports_extended,omitempty"`
    CollapsedFraction float64 `yaml:"collapsed_fraction,omitempty"`
    CollapsedHeight   float64 `yaml:"collapsed_height,omitempty"` // px; wins over collapsed_fraction
    ExtendedFraction  float64 `yaml:"extended_fraction,omitempty"`

    CloseDragThreshold    float64 `yaml:"close_drag_threshold,omitempty"`
    ExtendDragThreshold   float64 `yaml:"extend_drag_threshold,omitempty"`
    CollapseDragThreshold float64 `yaml:"collapse_drag_threshold,omitempty"`
    VelocityThreshold     float64 `yaml:"velocity_threshold,omitempty"`
}

// Load reads, defaults, env-overrides and validates a preset file.
func Load(path string) (*Config, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("read config: %w", err)
    }
    c, err := Parse(data)
    if err != nil {
        return nil, fmt.Errorf("%s: %w", path, err)
    }
    return c, nil
}

// Parse decodes YAML (or JSON) preset data.
func Parse(data []byte) (*Config, error) {
    var c Config
    if err := yaml.Unmarshal(data, &c); err != nil {
        return nil, fmt.Errorf("parse config YAML: %w", err)
    }
    c.applyDefaults()
    c.applyEnvOverrides()
    if err := c.Validate(); err != nil {
        return nil, err
    }
    return &c, nil
}

// LoadOrDefault loads path, falling back to the built-in presets when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
    c, err := Load(path)
    if errors.Is(err, os.ErrNotExist) {
        d := Default()
        d.applyEnvOverrides()
        return d, nil
    }
    return c, err
}

// Default returns the built-in presets.
func Default() *Config {
    c := &Config{Sheets: DefaultSheets()}
    c.applyDefaults()
    return c
}

func (c *Config) applyDefaults() {
    if c.PxPerRow == 0 {
        c.PxPerRow = 20
    }
    if c.FPS == 0 {
        c.FPS = sheet.DefaultFPS
    }
    if c.Spring == (sheet.Spring{}) {
        c.Spring = sheet.DefaultSpring
    }
}

// applyEnvOverrides lets SHEETLAB_FPS and SHEETLAB_PX_PER_ROW win over the file.
func (c *Config) applyEnvOverrides() {
    if v, err := strconv.Atoi(os.Getenv("SHEETLAB_FPS")); err == nil && v > 0 {
        c.FPS = v
    }
    if v, err := strconv.Atoi(os.Getenv("SHEETLAB_PX_PER_ROW")); err == nil && v > 0 {
        c.PxPerRow = v
    }
}

// Validate checks the file as a whole and every preset against a nominal
// 800px screen.
func (c *Config) Validate() error {
    if len(c.Sheets) == 0 {
        return ErrNoSheets
    }
    if c.PxPerRow < 1 {
        return fmt.Errorf("px_per_row %d must be positive", c.PxPerRow)
    }
    if _, err := c.staleDrag(); err != nil {
        return err
    }
    seen := map[string]bool{}
    for _, s := range c.Sheets {
        if s.Name == "" {
            return fmt.Errorf("sheet without a name")
        }
        if seen[s.Name] {
            return fmt.Errorf("duplicate sheet %q", s.Name)
        }
        seen[s.Name] = true
        if _, err := c.SheetConfig(s, 800); err != nil {
            return err
        }
    }
    return nil
}

func (c *Config) staleDrag() (time.Duration, error) {
    if c.StaleDragTimeout == "" {
        return 0, nil
    }
    d, err := time.ParseDuration(c.StaleDragTimeout)
    if err != nil {
        return 0, fmt.Errorf("stale_drag_timeout: %w", err)
    }
    return d, nil
}

// SheetConfig builds the engine config for preset s on a screen of the
// given height in pixels.
func (c *Config) SheetConfig(s Sheet, screenHeight float64) (sheet.Config, error) {
    stale, err := c.staleDrag()
    if err != nil {
        return sheet.Config{}, err
    }
    sc := sheet.Config{
        ScreenHeight:          screenHeight,
        SupportsExtended:      s.SupportsExtended,
        CollapsedFraction:     s.CollapsedFraction,
        CollapsedHeight:       s.CollapsedHeight,
        ExtendedFraction:      s.ExtendedFraction,
        CloseDragThreshold:    s.CloseDragThreshold,
        ExtendDragThreshold:   s.ExtendDragThreshold,
        CollapseDragThreshold: s.CollapseDragThreshold,
        VelocityThreshold:     s.VelocityThreshold,
        Spring:                c.Spring,
        FPS:                   c.FPS,
        StaleDragTimeout:      stale,
    }
    if err := sc.Validate(); err != nil {
        return sheet.Config{}, fmt.Errorf("sheet %q: %w", s.Name, err)
    }
    return sc.WithScreenHeight(screenHeight), nil
}

// Find returns the preset called name.
func (c *Config) Find(name string) (Sheet, error) {
    for _, s := range c.Sheets {
        if s.Name == name {
            return s, nil
        }
    }
    return Sheet{}, fmt.Errorf("%w: %q", ErrUnknownSheet, name)
}

// SheetNames lists preset names in file order.
func SheetNames(c *Config) []string {
    names := make([]string, 0, len(c.Sheets))
    for _, s := range c.Sheets {
        names = append(names, s.Name)
    }
    return names
}

// SortedSheetNames lists preset names alphabetically.
func SortedSheetNames(c *Config) []string {
    names := SheetNames(c)
    sort.Strings(names)
    return names
}

// Clone returns a deep copy (sufficient for reload diffing).
func Clone(c *Config) *Config {
    out := *c
    out.Sheets = append([]Sheet(nil), c.Sheets...)
    return &out
}

// Marshal renders c in the preset file format.
func Marshal(c *Config) ([]byte, error) {
    return yaml.Marshal(c)
}

func Save(path string, c *Config) error {
    data, err := Marshal(c)
    if err != nil {
        return err
    }
    return os.WriteFile(path, data, 0644)
}
