package minio

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/minio/minio-go/v7"
)

const unknownSize int64 = -1

func (m *MinioClient) Put(ctx context.Context, objectKey string, reader io.Reader, size ...int64) (int64, error) {
	actualSize := unknownSize
	if len(size) > 0 && size[0] != 0 {
		actualSize = size[0]
	}

	info, err := m.client.Load().PutObject(ctx, m.cfg.BucketName, objectKey, reader, actualSize, minio.PutObjectOptions{})
	if err != nil {
		return 0, TranslateError(err)
	}
	return info.Size, nil
}

func (m *MinioClient) Get(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := m.client.Load().GetObject(ctx, m.cfg.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectKey, TranslateError(err))
	}
	defer func() {
		if err := obj.Close(); err != nil {
			m.logger.WarnWithContext(ctx, "failed to close object reader", err, map[string]interface{}{
				"key": objectKey,
			})
		}
	}()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectKey, TranslateError(err))
	}
	return data, nil
}

func (m *MinioClient) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for obj := range m.client.Load().ListObjects(ctx, m.cfg.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, TranslateError(obj.Err)
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MinioClient) Delete(ctx context.Context, objectKey string) error {
	err := m.client.Load().RemoveObject(ctx, m.cfg.BucketName, objectKey, minio.RemoveObjectOptions{})
	return TranslateError(err)
}
