// Package config loads the host runner configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harveysanders/picofade/fade"
	"github.com/harveysanders/picofade/hal"
)

type Config struct {
	Board BoardConfig `yaml:"board"`
	Pins  PinsConfig  `yaml:"pins"`
	Timer TimerConfig `yaml:"timer"`
	Fade  FadeConfig  `yaml:"fade"`
}

type BoardConfig struct {
	// Kind is "sim" or "gpiod".
	Kind      string `yaml:"kind"`
	Chip      string `yaml:"chip"`
	Consumer  string `yaml:"consumer"`
	CarrierHz int    `yaml:"carrier_hz"`
}

type PinsConfig struct {
	Red    *int `yaml:"red"`
	Green  *int `yaml:"green"`
	Blue   *int `yaml:"blue"`
	Button *int `yaml:"button"`
}

type TimerConfig struct {
	Number         int    `yaml:"number"`
	FrequencyHz    uint32 `yaml:"frequency_hz"`
	ResolutionBits uint8  `yaml:"resolution_bits"`
	// Clock is one of apb, xtal, rc-fast, system.
	Clock string `yaml:"clock"`
}

type FadeConfig struct {
	Duration time.Duration `yaml:"duration"`
	// TickInterval is how often the fade engine advances.
	TickInterval time.Duration `yaml:"tick_interval"`
}

const (
	BoardSim   = "sim"
	BoardGPIOD = "gpiod"
)

// Default returns the reference board setup on the simulator.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func intPtr(v int) *int { return &v }

func (c *Config) applyDefaults() {
	def := fade.DefaultConfig()
	if c.Board.Kind == "" {
		c.Board.Kind = BoardSim
	}
	if c.Pins.Red == nil {
		c.Pins.Red = intPtr(int(def.LEDs[0]))
	}
	if c.Pins.Green == nil {
		c.Pins.Green = intPtr(int(def.LEDs[1]))
	}
	if c.Pins.Blue == nil {
		c.Pins.Blue = intPtr(int(def.LEDs[2]))
	}
	if c.Pins.Button == nil {
		c.Pins.Button = intPtr(int(def.Button))
	}
	if c.Timer.FrequencyHz == 0 {
		c.Timer.FrequencyHz = def.Clock.FrequencyHz
	}
	if c.Timer.ResolutionBits == 0 {
		c.Timer.ResolutionBits = def.Clock.ResolutionBits
	}
	if c.Timer.Clock == "" {
		c.Timer.Clock = def.Clock.Source.String()
	}
	if c.Fade.Duration <= 0 {
		c.Fade.Duration = def.Duration
	}
	if c.Fade.TickInterval <= 0 {
		c.Fade.TickInterval = time.Millisecond
	}
}

func (c Config) Validate() error {
	switch c.Board.Kind {
	case BoardSim, BoardGPIOD:
	default:
		return fmt.Errorf("board.kind must be %q or %q", BoardSim, BoardGPIOD)
	}
	pins := map[string]*int{"red": c.Pins.Red, "green": c.Pins.Green, "blue": c.Pins.Blue, "button": c.Pins.Button}
	seen := map[int]string{}
	for _, name := range []string{"red", "green", "blue", "button"} {
		p := pins[name]
		if p == nil || *p < 0 || *p > 255 {
			return fmt.Errorf("pins.%s must be between 0 and 255", name)
		}
		if other, ok := seen[*p]; ok {
			return fmt.Errorf("pins.%s reuses pin %d of pins.%s", name, *p, other)
		}
		seen[*p] = name
	}
	if c.Timer.Number < 0 || c.Timer.Number > 255 {
		return fmt.Errorf("timer.number must be between 0 and 255")
	}
	if _, err := parseClock(c.Timer.Clock); err != nil {
		return err
	}
	return nil
}

func parseClock(s string) (hal.ClockSource, error) {
	for _, src := range []hal.ClockSource{hal.ClockAPB, hal.ClockXTAL, hal.ClockRCFast, hal.ClockSystem} {
		if src.String() == s {
			return src, nil
		}
	}
	return 0, fmt.Errorf("timer.clock %q unknown (apb, xtal, rc-fast, system)", s)
}

// FadeConfig converts c into the wiring used by fade.Bootstrap. Channels
// are numbered 0, 1, 2 in red, green, blue order.
func (c Config) FadeConfig() fade.Config {
	src, _ := parseClock(c.Timer.Clock)
	return fade.Config{
		LEDs:   [3]hal.Pin{hal.Pin(*c.Pins.Red), hal.Pin(*c.Pins.Green), hal.Pin(*c.Pins.Blue)},
		Button: hal.Pin(*c.Pins.Button),
		Timer:  hal.TimerNumber(c.Timer.Number),
		Clock: hal.TimerConfig{
			ResolutionBits: c.Timer.ResolutionBits,
			Source:         src,
			FrequencyHz:    c.Timer.FrequencyHz,
		},
		Channels: [3]hal.ChannelNumber{0, 1, 2},
		Duration: c.Fade.Duration,
	}
}
