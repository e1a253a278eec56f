// Package minio provides an S3-compatible object store client built on
// github.com/minio/minio-go/v7. The ingestion pipeline uses it to read
// article files from a bucket prefix.
//
//	client, err := minio.NewClient(cfg, log)
//	objects, err := client.List(ctx, "2024/")
//	for _, obj := range objects {
//	    data, err := client.Get(ctx, obj.Key)
//	    ...
//	}
//
// Errors are passed through TranslateError, so callers can test for
// ErrObjectNotFound, ErrBucketNotFound or ErrAccessDenied with errors.Is.
// FXModule runs a periodic bucket check and swaps in a fresh client when
// it fails.
package minio
