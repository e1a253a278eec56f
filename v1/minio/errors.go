package minio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	ErrConnectionFailed = errors.New("minio: connection failed")
	ErrObjectNotFound   = errors.New("minio: object not found")
	ErrBucketNotFound   = errors.New("minio: bucket not found")
	ErrAccessDenied     = errors.New("minio: access denied")
	ErrServiceError     = errors.New("minio: service error")
)

// TranslateError maps S3 error responses onto the package sentinels. The
// result names the S3 error code and keeps the original error in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)

	var sentinel error
	switch {
	case resp.Code == "NoSuchKey":
		sentinel = ErrObjectNotFound
	case resp.Code == "NoSuchBucket":
		sentinel = ErrBucketNotFound
	case resp.Code == "AccessDenied" || resp.Code == "InvalidAccessKeyId" || resp.Code == "SignatureDoesNotMatch":
		sentinel = ErrAccessDenied
	case resp.StatusCode >= http.StatusInternalServerError:
		sentinel = ErrServiceError
	default:
		return err
	}
	return fmt.Errorf("%w: %s: %w", sentinel, resp.Code, err)
}
