package ingest

import (
	"errors"
	"fmt"
)

// Source kinds.
const (
	SourceFile   = "file"
	SourceRabbit = "rabbit"
	SourceKafka  = "kafka"
	SourceMinio  = "minio"
)

// Config controls where articles come from and how they are stored.
type Config struct {
	Collection string `yaml:"collection" envconfig:"INGEST_COLLECTION"`
	Source     string `yaml:"source" envconfig:"INGEST_SOURCE"`

	// Root and Pattern select the files of the file source; Pattern is a
	// doublestar glob relative to Root.
	Root    string `yaml:"root" envconfig:"INGEST_ROOT"`
	Pattern string `yaml:"pattern" envconfig:"INGEST_PATTERN"`
	// Prefix selects the objects of the minio source.
	Prefix string `yaml:"prefix" envconfig:"INGEST_PREFIX"`

	BatchSize        int  `yaml:"batch_size" envconfig:"INGEST_BATCH_SIZE"`
	Concurrency      int  `yaml:"concurrency" envconfig:"INGEST_CONCURRENCY"`
	CreateCollection bool `yaml:"create_collection" envconfig:"INGEST_CREATE_COLLECTION"`
	ShowProgress     bool `yaml:"show_progress" envconfig:"INGEST_SHOW_PROGRESS"`
}

func DefaultConfig() *Config {
	return &Config{
		Source:           SourceFile,
		Root:             ".",
		Pattern:          "**/*.json*",
		BatchSize:        32,
		Concurrency:      4,
		CreateCollection: true,
	}
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile, SourceRabbit, SourceKafka, SourceMinio:
	default:
		return fmt.Errorf("ingest: unknown source %q", c.Source)
	}
	if c.Source == SourceFile && c.Pattern == "" {
		return errors.New("ingest: file source needs a pattern")
	}
	if c.BatchSize <= 0 {
		return errors.New("ingest: batch size must be positive")
	}
	if c.Concurrency <= 0 {
		return errors.New("ingest: concurrency must be positive")
	}
	return nil
}
