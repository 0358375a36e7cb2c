package config

import (
	"embed"
)

//go:embed default.toml
var configFS embed.FS

// DefaultConfig is the built-in configuration used when no config file is
// given on the command line.
var DefaultConfig string

func init() {
	data, err := configFS.ReadFile("default.toml")
	if err != nil {
		panic(err)
	}
	DefaultConfig = string(data)
}
