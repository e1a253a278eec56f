package qdrant

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// classify wraps an SDK error with the operation that failed and, when the
// gRPC status code identifies it, with the matching vectordb sentinel.
func classify(err error, op string, args ...any) error {
	what := fmt.Sprintf(op, args...)
	if sentinel := sentinelFor(err); sentinel != nil {
		return fmt.Errorf("[Qdrant] failed to %s: %w: %w", what, sentinel, err)
	}
	return fmt.Errorf("[Qdrant] failed to %s: %w", what, err)
}

func sentinelFor(err error) error {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return nil
	}

	switch st.Code() {
	case codes.AlreadyExists:
		return vectordb.ErrCollectionExists
	case codes.NotFound:
		return vectordb.ErrCollectionNotFound
	}
	return nil
}
