package utils

import (
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Address    string
	TickRate   int
	Mode       string
	FeedTarget int
}

type ResolutionConfig struct {
	X, Y int
}

type UIConfig struct {
	Resolution ResolutionConfig
}

type Config struct {
	Server ServerConfig
	UI     UIConfig
}

// Default is the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:    "localhost:4242",
			TickRate:   30,
			Mode:       "agar",
			FeedTarget: 100,
		},
		UI: UIConfig{
			Resolution: ResolutionConfig{X: 1000, Y: 1000},
		},
	}
}

func ReadTOML(fileName string) (*Config, error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := toml.Unmarshal(file, config); err != nil {
		return nil, err
	}
	return config, nil
}

func AlmostEqual(a, b, threshold float64) bool {
	return math.Abs(a-b) <= threshold
}
