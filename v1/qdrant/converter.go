package qdrant

import (
	"fmt"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// ── Point Conversion ─────────────────────────────────────────────────────────

// toPointStructs converts vectordb points into Qdrant point structs.
// Point ids must be UUIDs.
func toPointStructs(points []vectordb.Point) ([]*qdrant.PointStruct, error) {
	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		if _, err := uuid.Parse(p.ID); err != nil {
			return nil, fmt.Errorf("point id %q is not a UUID: %w", p.ID, err)
		}
		payload, err := qdrant.TryValueMap(normalizePayload(p.Payload))
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", p.ID, err)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}
	return structs, nil
}

// normalizePayload rewrites typed slices as []any, the only list form the
// SDK value converter accepts.
func normalizePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return items
	case []int64:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return items
	case map[string]any:
		return normalizePayload(val)
	default:
		return v
	}
}

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter.
// It returns nil when no condition survives conversion.
func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters.IsEmpty() {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    convertConditionSet(filters.Must),
		Should:  convertConditionSet(filters.Should),
		MustNot: convertConditionSet(filters.MustNot),
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

// convertConditionSet converts a vectordb.ConditionSet to Qdrant conditions.
func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		if cond := convertCondition(c); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	return conditions
}

// convertCondition converts a single condition. Unsupported conditions
// and value types yield nil.
func convertCondition(c vectordb.FilterCondition) *qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatchCondition(cond)
	case *vectordb.NumericRangeCondition:
		return convertNumericRangeCondition(cond)
	default:
		return nil
	}
}

func convertMatchCondition(c *vectordb.MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		// JSON numbers decode as float64
		return qdrant.NewMatchInt(c.Field, int64(v))
	default:
		return nil
	}
}

func convertNumericRangeCondition(c *vectordb.NumericRangeCondition) *qdrant.Condition {
	if c.Range.IsOpen() {
		return nil
	}
	return qdrant.NewRange(c.Field, &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	})
}

// ── Result Conversion ────────────────────────────────────────────────────────

// parseSearchResults converts a Qdrant response to vectordb.SearchResult slice.
func parseSearchResults(resp []*qdrant.ScoredPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.GetId())
		if err != nil {
			return nil, err
		}

		results = append(results, vectordb.SearchResult{
			ID:      id,
			Score:   r.GetScore(),
			Payload: convertPayload(r.GetPayload()),
		})
	}
	return results, nil
}

// extractPointID extracts a string ID from Qdrant's PointId type.
func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Qdrant Value to a Go native type.
// Integers come back as int64 and lists as []any.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}
