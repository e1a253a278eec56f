package minio

import (
	"context"
	"io"
	"time"
)

// Client is the object store surface used for article ingestion.
//
// This interface is implemented by the concrete *MinioClient type.
type Client interface {
	// Put uploads an object. A size of 0 or none streams with unknown size.
	Put(ctx context.Context, objectKey string, reader io.Reader, size ...int64) (int64, error)

	// Get returns the full content of an object.
	Get(ctx context.Context, objectKey string) ([]byte, error)

	// List returns the objects under prefix, recursively, in key order.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	Delete(ctx context.Context, objectKey string) error

	GracefulShutdown()
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}
