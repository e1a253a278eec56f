package vectordb

// FilterCondition is the interface all filter conditions implement.
// Each backend converts these to its native filter format.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
type FilterSet struct {
	// Must: All conditions must match (AND)
	Must *ConditionSet `json:"must,omitempty"`
	// Should: At least one condition must match (OR)
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: None of the conditions should match (NOT)
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// IsEmpty reports whether the filter set carries no condition at all.
func (fs *FilterSet) IsEmpty() bool {
	if fs == nil {
		return true
	}
	return fs.Must.len() == 0 && fs.Should.len() == 0 && fs.MustNot.len() == 0
}

func (cs *ConditionSet) len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Conditions)
}

// MatchCondition is an exact match (field = value). For list-valued payload
// fields it matches when any element equals value.
// Supported values are string, bool and integer types.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// NumericRange defines bounds for numeric filtering. Nil bounds are open.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`          // exclusive
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"` // inclusive
	Lt  *float64 `json:"lessThan,omitempty"`             // exclusive
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`    // inclusive
}

// IsOpen reports whether no bound is set.
func (r NumericRange) IsOpen() bool {
	return r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil
}

// NumericRangeCondition filters by numeric range.
type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"range"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}
