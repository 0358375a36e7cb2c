package config

import (
	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/kernel-phase/kpfits/pkg/kpfits"
)

type ValidateConfig struct {
	MinExtensions int `toml:"minextensions"`
}

type CreateConfig struct {
	Seed    int64 `toml:"seed"`
	Minimal bool  `toml:"minimal"`
}

type KPFitsConfig struct {
	LogFile  string          `toml:"logfile"`
	LogLevel string          `toml:"loglevel"`
	Validate *ValidateConfig `toml:"Validate"`
	Create   *CreateConfig   `toml:"Create"`
}

// LoadKPFitsConfig decodes a TOML config on top of the built-in defaults.
func LoadKPFitsConfig(data string) (*KPFitsConfig, error) {
	var conf = &KPFitsConfig{
		LogLevel: "ERROR",
		Validate: &ValidateConfig{
			MinExtensions: kpfits.DefaultMinExtensions,
		},
		Create: &CreateConfig{},
	}
	if _, err := toml.Decode(data, conf); err != nil {
		return nil, errors.Wrap(err, "Error on loading config")
	}
	if conf.Validate.MinExtensions < 1 {
		return nil, errors.Errorf("invalid Validate.minextensions %d", conf.Validate.MinExtensions)
	}
	return conf, nil
}
