package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/napolitain/solver-tube/internal/models"
)

// ChannelJSON represents the JSON structure for one channel definition.
type ChannelJSON struct {
	Cost struct {
		Initial float64 `json:"initial"`
		Rate    float64 `json:"rate"`
	} `json:"cost"`
	Reward struct {
		Duration float64 `json:"duration"`
		Views    float64 `json:"views"`
		Revenue  float64 `json:"revenue"`
	} `json:"reward"`
	Level       int                `json:"level"`
	Multipliers map[string]float64 `json:"multipliers"`
}

// LoadChannels loads channel definitions from a JSON file and returns the
// economy. Channels are ordered by name so that search output is
// reproducible regardless of JSON key order.
func LoadChannels(path string) (*models.Economy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel definitions: %w", err)
	}

	var raw map[string]ChannelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse channel definitions: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no channel definitions in %s", path)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	channels := make([]*models.Channel, 0, len(raw))
	for _, name := range names {
		def := raw[name]

		multipliers := make(map[int]float64, len(def.Multipliers))
		for levelStr, factor := range def.Multipliers {
			level, err := strconv.Atoi(levelStr)
			if err != nil {
				return nil, fmt.Errorf("channel %s: invalid multiplier level %q: %w", name, levelStr, err)
			}
			multipliers[level] = factor
		}

		channels = append(channels, models.NewChannel(
			name,
			def.Cost.Initial, def.Cost.Rate,
			def.Reward.Duration, def.Reward.Views, def.Reward.Revenue,
			def.Level, multipliers,
		))
	}

	economy := models.NewEconomy(channels)
	if err := economy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel definitions: %w", err)
	}
	return economy, nil
}
