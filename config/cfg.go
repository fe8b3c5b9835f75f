// Package config loads program configuration: embedded defaults overlaid
// with an optional YAML file.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/chrisuehlinger/jqalt/jq"
	"github.com/chrisuehlinger/jqalt/network"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	QueryConfig struct {
		LiteralTag      string `yaml:"literal_tag" validate:"required,alphanum"`
		FragmentContext string `yaml:"fragment_context" validate:"required,alphanum"`
		XPath           bool   `yaml:"xpath"`
	}

	EventsConfig struct {
		Native []string `yaml:"native" validate:"dive,required,alphanum"`
	}

	NetworkConfig struct {
		Timeout      int    `yaml:"timeout" validate:"gte=0"`
		MaxRedirects int    `yaml:"max_redirects" validate:"gte=0"`
		UserAgent    string `yaml:"user_agent"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Query   QueryConfig   `yaml:"query"`
		Events  EventsConfig  `yaml:"events"`
		Network NetworkConfig `yaml:"network"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields defined above are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template and
// performs validation. An empty path yields the defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare expands the configuration template and returns it.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Options turns the query section into jq options.
func (conf *QueryConfig) Options() []jq.Option {
	return []jq.Option{
		jq.WithLiteralTag(conf.LiteralTag),
		jq.WithFragmentContext(conf.FragmentContext),
		jq.WithXPath(conf.XPath),
	}
}

// Options turns the network section into client options. Timeout is in
// seconds.
func (conf *NetworkConfig) Options() []network.ClientOption {
	return []network.ClientOption{
		network.WithTimeout(time.Duration(conf.Timeout) * time.Second),
		network.WithMaxRedirects(conf.MaxRedirects),
		network.WithUserAgent(conf.UserAgent),
	}
}
