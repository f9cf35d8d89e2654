package main

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	imap "github.com/meszmate/imapgram"
)

// cliConfig is the YAML shape loaded for the "limits" section of a
// config file; everything else a session layer might want to configure
// is out of scope for this demo driver.
type cliConfig struct {
	Limits struct {
		MaxIDParams    int `koanf:"max_id_params"`
		MaxCommandSize int `koanf:"max_command_size"`
	} `koanf:"limits"`
}

// loadLimits reads ParserLimits from an optional YAML file at path,
// falling back to imap.DefaultParserLimits when the file does not
// exist or names no limits section.
func loadLimits(path string) (imap.ParserLimits, error) {
	limits := imap.DefaultParserLimits
	if path == "" {
		return limits, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return limits, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return limits, fmt.Errorf("imapparse: failed to load config file: %w", err)
	}
	var cfg cliConfig
	cfg.Limits.MaxIDParams = limits.MaxIDParams
	cfg.Limits.MaxCommandSize = limits.MaxCommandSize
	if err := k.Unmarshal("", &cfg); err != nil {
		return limits, fmt.Errorf("imapparse: failed to unmarshal config: %w", err)
	}
	return imap.ParserLimits{
		MaxIDParams:    cfg.Limits.MaxIDParams,
		MaxCommandSize: cfg.Limits.MaxCommandSize,
	}, nil
}
