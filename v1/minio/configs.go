package minio

import (
	"errors"
	"time"
)

// Config holds the connection and bucket settings.
type Config struct {
	Endpoint        string `yaml:"endpoint" envconfig:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" envconfig:"MINIO_USE_SSL"`
	Region          string `yaml:"region" envconfig:"MINIO_REGION"`

	BucketName string `yaml:"bucket_name" envconfig:"MINIO_BUCKET_NAME"`
	// AllowBucketCreation creates BucketName on startup when it is missing.
	AllowBucketCreation bool `yaml:"allow_bucket_creation" envconfig:"MINIO_ALLOW_BUCKET_CREATION"`

	HealthCheckInterval time.Duration `yaml:"health_check_interval" envconfig:"MINIO_HEALTH_CHECK_INTERVAL"`
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint:            "localhost:9000",
		BucketName:          "articles",
		HealthCheckInterval: 30 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("minio: endpoint cannot be empty")
	}
	if c.BucketName == "" {
		return errors.New("minio: bucket name cannot be empty")
	}
	return nil
}
