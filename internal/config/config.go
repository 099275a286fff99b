package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/imdario/mergo"
	"github.com/robgonnella/portx/internal/ports"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default values used when the user config omits a field
const (
	DefaultHost        = "127.0.0.1"
	DefaultPorts       = "20-80,443,8080"
	DefaultConcurrency = 500
	DefaultTimeout     = time.Second * 10
	MinConcurrency     = 50
	MaxConcurrency     = 1000
)

// ScanConfig represents the default parameters of a scan
type ScanConfig struct {
	Ports       string        `yaml:"ports"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Config represents the data structure of our user provided yaml configuration
type Config struct {
	Host      string     `yaml:"host"`
	Scan      ScanConfig `yaml:"scan"`
	ReportDir string     `yaml:"reportDir"`
}

// New returns umarshaled data structure of user provided config with
// missing fields filled from Default
func New(confPath string) (*Config, error) {
	var config Config

	raw, err := os.ReadFile(confPath)

	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, err
	}

	if err := mergo.Merge(&config, Default()); err != nil {
		return nil, err
	}

	return &config, nil
}

// Load returns the user config at confPath or the default config when
// the file does not exist yet
func Load(confPath string) (*Config, error) {
	conf, err := New(confPath)

	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return conf, err
}

// Default returns the default configuration
func Default() *Config {
	reportDir := viper.GetString("report-dir")

	if reportDir == "" {
		reportDir = "."
	}

	return &Config{
		Host: DefaultHost,
		Scan: ScanConfig{
			Ports:       DefaultPorts,
			Concurrency: DefaultConcurrency,
			Timeout:     DefaultTimeout,
		},
		ReportDir: reportDir,
	}
}

// Request builds a scan request from the configured defaults
func (c Config) Request() (scanner.Request, error) {
	portList, err := ports.Parse(c.Scan.Ports)

	if err != nil {
		return scanner.Request{}, err
	}

	return scanner.Request{
		Host:        c.Host,
		Ports:       portList,
		Concurrency: c.Scan.Concurrency,
		Timeout:     c.Scan.Timeout,
	}, nil
}

// WithRequest returns a copy of c with the scan defaults replaced by the
// parameters of req
func (c Config) WithRequest(req scanner.Request) Config {
	c.Host = req.Host
	c.Scan.Ports = ports.Compact(req.Ports)
	c.Scan.Concurrency = req.Concurrency
	c.Scan.Timeout = req.Timeout

	return c
}

// Write writes conf to the config file path shared through viper
func Write(conf Config) error {
	configFile := viper.GetString("config-file")

	if configFile == "" {
		return errors.New("failed to find config file path")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}

	file, err := os.Create(configFile)

	if err != nil {
		return err
	}

	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)

	return encoder.Encode(conf)
}
