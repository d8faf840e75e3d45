package emu

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"famiko/emu/log"
)

type Config struct {
	Input   InputConfig   `toml:"input"`
	Video   VideoConfig   `toml:"video"`
	General GeneralConfig `toml:"general"`
}

type GeneralConfig struct {
	Region string `toml:"region"`
}

type VideoConfig struct {
	DisableVSync bool `toml:"disable_vsync"`
	Scale        int  `toml:"scale"`
}

// InputConfig maps keyboard scancode names to the pad buttons of port 1.
type InputConfig struct {
	A      string `toml:"a"`
	B      string `toml:"b"`
	Select string `toml:"select"`
	Start  string `toml:"start"`
	Up     string `toml:"up"`
	Down   string `toml:"down"`
	Left   string `toml:"left"`
	Right  string `toml:"right"`
}

// DefaultConfig is used when no config file exists.
var DefaultConfig = Config{
	Input: InputConfig{
		A: "X", B: "Z", Select: "Right Shift", Start: "Return",
		Up: "Up", Down: "Down", Left: "Left", Right: "Right",
	},
	Video: VideoConfig{Scale: 3},
}

var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("famiko")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the famiko config
// directory, or provides the default one.
func LoadConfigOrDefault() Config {
	cfg := DefaultConfig
	if _, err := toml.DecodeFile(filepath.Join(ConfigDir(), cfgFilename), &cfg); err != nil {
		return DefaultConfig
	}
	return cfg
}

// SaveConfig into the famiko config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(ConfigDir(), cfgFilename), buf, 0644)
}
