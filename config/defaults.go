package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults carries the business-rule knobs that are not per-request
// input: the fallback reservation window and list sizes.
type Defaults struct {
	Reservation struct {
		// Minutes a table stays occupied around the requested time
		// when the restaurant has no explicit setting.
		Minutes int `yaml:"minutes"`
	} `yaml:"reservation"`
	Listing struct {
		UpcomingLimit int `yaml:"upcoming_limit"`
	} `yaml:"listing"`
}

// LoadDefaults reads the yaml defaults file, falling back to built-in
// values when the file is absent or partial.
func LoadDefaults(path string) (*Defaults, error) {
	d := builtinDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, err
	}

	if d.Reservation.Minutes <= 0 {
		d.Reservation.Minutes = 120
	}
	if d.Listing.UpcomingLimit <= 0 {
		d.Listing.UpcomingLimit = 20
	}
	return d, nil
}

func builtinDefaults() *Defaults {
	d := &Defaults{}
	d.Reservation.Minutes = 120
	d.Listing.UpcomingLimit = 20
	return d
}
