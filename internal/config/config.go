
// Package config loads the harvester configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sankara-chandas/internal/models"
)

const (
	ClassifierSyllabic = "syllabic"
	ClassifierRemote   = "remote"
)

type Config struct {
	Root        string          `yaml:"root"`
	Sources     []models.Source `yaml:"sources"`
	Classifier  string          `yaml:"classifier"`
	Endpoint    string          `yaml:"endpoint"`
	Workers     int             `yaml:"workers"`
	Timeout     time.Duration   `yaml:"timeout"`
	DialTimeout time.Duration   `yaml:"dial_timeout"`
	SizeCap     int64           `yaml:"size_cap"`
	LogLevel    string          `yaml:"log_level"`
	Report      string          `yaml:"report"`
}

const site = "https://www.sankara.iitk.ac.in/"

// DefaultSources are the listing pages of the Sankara texts site.
func DefaultSources() []models.Source {
	devotional := []string{
		"ganesha-devotional-hyms",
		"devi-devotional-hyms",
		"vishnu-devotional-hyms",
		"shiva-devotional-hyms",
		"subramanya-devotional-hyms",
		"miscellaneous-devotional-hymns",
	}
	var out []models.Source
	for _, p := range devotional {
		out = append(out, models.Source{Folder: "devotional", URL: site + p, SelectID: "edit-field-text-tid"})
	}
	return append(out,
		models.Source{Folder: "preliminary", URL: site + "preliminary-texts", SelectID: "edit-field-text1-tid"},
		models.Source{Folder: "comprehensive", URL: site + "comprehensive-texts", SelectID: "edit-field-text2-tid"},
	)
}

func Default() *Config {
	return &Config{
		Root:        "corpus",
		Sources:     DefaultSources(),
		Classifier:  ClassifierSyllabic,
		Workers:     1,
		Timeout:     15 * time.Second,
		DialTimeout: 5 * time.Second,
		SizeCap:     5 * 1024 * 1024,
		LogLevel:    "info",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	c.Classifier = strings.ToLower(strings.TrimSpace(c.Classifier))
	if c.Classifier == "" {
		c.Classifier = ClassifierSyllabic
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	for i := range c.Sources {
		c.Sources[i].Folder = strings.TrimSpace(c.Sources[i].Folder)
		c.Sources[i].URL = strings.TrimSpace(c.Sources[i].URL)
		c.Sources[i].SelectID = strings.TrimPrefix(strings.TrimSpace(c.Sources[i].SelectID), "#")
	}
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Root) == "" {
		errs = append(errs, errors.New("root: must not be empty"))
	}
	switch c.Classifier {
	case ClassifierSyllabic:
	case ClassifierRemote:
		if c.Endpoint == "" {
			errs = append(errs, errors.New("endpoint: required for the remote classifier"))
		}
	default:
		errs = append(errs, fmt.Errorf("classifier: unsupported value %q", c.Classifier))
	}
	for i, s := range c.Sources {
		if s.URL == "" || s.Folder == "" || s.SelectID == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: folder, url and select_id are required", i))
		}
	}
	if c.SizeCap <= 0 {
		errs = append(errs, errors.New("size_cap: must be positive"))
	}
	return errors.Join(errs...)
}
