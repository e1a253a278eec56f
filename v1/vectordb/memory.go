package vectordb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// MemoryIndex is an in-process Index with brute-force cosine search.
// It evaluates filters the way Qdrant does (a match against a list field
// succeeds when any element is equal) and is meant for tests and local
// development. It is safe for concurrent use.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	order       []string
}

type memCollection struct {
	size   uint64
	points []memPoint
}

type memPoint struct {
	id      string
	vector  []float32
	payload map[string]any
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{collections: make(map[string]*memCollection)}
}

func (m *MemoryIndex) CollectionExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[name]
	return ok, nil
}

func (m *MemoryIndex) CreateCollection(_ context.Context, name string, vectorSize uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; ok {
		return fmt.Errorf("memory index: %q: %w", name, ErrCollectionExists)
	}
	m.collections[name] = &memCollection{size: vectorSize}
	m.order = append(m.order, name)
	return nil
}

func (m *MemoryIndex) DeleteCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[name]; !ok {
		return fmt.Errorf("memory index: %q: %w", name, ErrCollectionNotFound)
	}
	delete(m.collections, name)
	m.order = lo.Without(m.order, name)
	return nil
}

func (m *MemoryIndex) GetCollection(_ context.Context, name string) (*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.get(name)
	if err != nil {
		return nil, err
	}
	n := uint64(len(c.points))
	return &Collection{
		Name:        name,
		Status:      "Green",
		VectorSize:  int(c.size),
		Distance:    DistanceCosine,
		VectorCount: n,
		PointCount:  n,
	}, nil
}

func (m *MemoryIndex) ListCollections(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryIndex) Upsert(_ context.Context, collection string, points ...Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.get(collection)
	if err != nil {
		return err
	}

	for _, p := range points {
		if uint64(len(p.Vector)) != c.size {
			return fmt.Errorf("memory index: point %s has %d dimensions, collection %q expects %d", p.ID, len(p.Vector), collection, c.size)
		}
		stored := memPoint{id: p.ID, vector: append([]float32(nil), p.Vector...), payload: storedPayload(p.Payload)}
		if _, i, ok := lo.FindIndexOf(c.points, func(mp memPoint) bool { return mp.id == p.ID }); ok {
			c.points[i] = stored
			continue
		}
		c.points = append(c.points, stored)
	}
	return nil
}

func (m *MemoryIndex) Scroll(_ context.Context, collection string, filter *FilterSet, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.get(collection)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, p := range c.points {
		if len(records) >= limit {
			break
		}
		if matches(filter, p.payload) {
			records = append(records, Record{ID: p.id, Payload: copyPayload(p.payload)})
		}
	}
	return records, nil
}

func (m *MemoryIndex) DeleteByFilter(_ context.Context, collection string, filter *FilterSet) error {
	if filter.IsEmpty() {
		return fmt.Errorf("memory index: refusing to delete from %q without a filter", collection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.get(collection)
	if err != nil {
		return err
	}
	c.points = lo.Reject(c.points, func(p memPoint, _ int) bool { return matches(filter, p.payload) })
	return nil
}

func (m *MemoryIndex) Query(_ context.Context, req SearchRequest) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.get(req.CollectionName)
	if err != nil {
		return nil, err
	}
	if uint64(len(req.Vector)) != c.size {
		return nil, fmt.Errorf("memory index: query has %d dimensions, collection %q expects %d", len(req.Vector), req.CollectionName, c.size)
	}

	var results []SearchResult
	for _, p := range c.points {
		if !matches(req.Filters, p.payload) {
			continue
		}
		results = append(results, SearchResult{
			ID:      p.id,
			Score:   float32(cosineSimilarity(req.Vector, p.vector)),
			Payload: copyPayload(p.payload),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if req.TopK < len(results) {
		results = results[:req.TopK]
	}
	return results, nil
}

func (m *MemoryIndex) Count(_ context.Context, collection string, filter *FilterSet) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, err := m.get(collection)
	if err != nil {
		return 0, err
	}
	return uint64(lo.CountBy(c.points, func(p memPoint) bool { return matches(filter, p.payload) })), nil
}

func (m *MemoryIndex) get(name string) (*memCollection, error) {
	c, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("memory index: %q: %w", name, ErrCollectionNotFound)
	}
	return c, nil
}

// storedPayload copies payload the way a remote backend returns it:
// integers as int64 and lists as []any.
func storedPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch val := v.(type) {
		case int:
			out[k] = int64(val)
		case []string:
			out[k] = lo.Map(val, func(s string, _ int) any { return s })
		default:
			out[k] = v
		}
	}
	return out
}

func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if list, ok := v.([]any); ok {
			v = append([]any(nil), list...)
		}
		out[k] = v
	}
	return out
}

func matches(fs *FilterSet, payload map[string]any) bool {
	if fs.IsEmpty() {
		return true
	}
	if fs.Must != nil && !lo.EveryBy(fs.Must.Conditions, func(c FilterCondition) bool { return holds(c, payload) }) {
		return false
	}
	if fs.Should != nil && len(fs.Should.Conditions) > 0 &&
		!lo.SomeBy(fs.Should.Conditions, func(c FilterCondition) bool { return holds(c, payload) }) {
		return false
	}
	if fs.MustNot != nil && lo.SomeBy(fs.MustNot.Conditions, func(c FilterCondition) bool { return holds(c, payload) }) {
		return false
	}
	return true
}

func holds(c FilterCondition, payload map[string]any) bool {
	switch cond := c.(type) {
	case *MatchCondition:
		want := scalar(cond.Value)
		if list, ok := payload[cond.Field].([]any); ok {
			return lo.SomeBy(list, func(v any) bool { return scalar(v) == want })
		}
		return scalar(payload[cond.Field]) == want
	case *NumericRangeCondition:
		v, ok := number(payload[cond.Field])
		if !ok {
			return false
		}
		r := cond.Range
		return (r.Gt == nil || v > *r.Gt) &&
			(r.Gte == nil || v >= *r.Gte) &&
			(r.Lt == nil || v < *r.Lt) &&
			(r.Lte == nil || v <= *r.Lte)
	default:
		return false
	}
}

// scalar folds integer types together so int and int64 values compare equal.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	default:
		return v
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
