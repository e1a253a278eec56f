package qdrant

import (
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// validateSearchInput validates common search parameters
func validateSearchInput(collectionName string, vector []float32, topK int) error {
	if collectionName == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if len(vector) == 0 {
		return fmt.Errorf("[Qdrant] vector cannot be empty")
	}
	if topK <= 0 {
		return fmt.Errorf("[Qdrant] topK must be greater than 0")
	}
	return nil
}

// collectionFromInfo maps Qdrant's CollectionInfo onto vectordb.Collection.
func collectionFromInfo(name string, info *qdrant.CollectionInfo) *vectordb.Collection {
	size, distance := extractVectorDetails(info)
	return &vectordb.Collection{
		Name:        name,
		Status:      info.GetStatus().String(),
		VectorSize:  size,
		Distance:    distance,
		VectorCount: derefUint64(info.IndexedVectorsCount),
		PointCount:  derefUint64(info.PointsCount),
	}
}

// extractVectorDetails ──────────────────────────────────────────────────────────────
// extractVectorDetails
// ──────────────────────────────────────────────────────────────
//
// extractVectorDetails extracts the vector size and distance metric from a
// CollectionInfo, walking the nested oneof wrappers. Missing fields yield
// (0, "").
func extractVectorDetails(info *qdrant.CollectionInfo) (int, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := info.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok && cfg.Params != nil {
		return int(cfg.Params.Size), cfg.Params.Distance.String()
	}

	return 0, ""
}

// derefUint64 safely dereferences a *uint64 pointer.
func derefUint64(v *uint64) uint64 {
	if v != nil {
		return *v
	}
	return 0
}
