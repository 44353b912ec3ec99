package types

// OperatorSuffix marks a parameter that carries the comparison operator of
// another filter, e.g. "age-op=gte" for the "age" filter.
const OperatorSuffix = "-op"

// Param is a single raw request parameter.
type Param struct {
	Key   string
	Value interface{}
}

// FilterSet is an ordered field -> value mapping. The order is the order in
// which the fields were first seen and therefore the order filters run in.
type FilterSet struct {
	keys   []string
	values map[string]interface{}
}

// NewFilterSet builds a FilterSet from params. A later duplicate key replaces
// the value but keeps the position of the first occurrence.
func NewFilterSet(params ...Param) *FilterSet {
	fs := &FilterSet{values: make(map[string]interface{}, len(params))}
	for _, p := range params {
		if _, exists := fs.values[p.Key]; !exists {
			fs.keys = append(fs.keys, p.Key)
		}
		fs.values[p.Key] = p.Value
	}
	return fs
}

// Lookup returns the value stored for field.
func (fs *FilterSet) Lookup(field string) (interface{}, bool) {
	if fs == nil {
		return nil, false
	}
	v, ok := fs.values[field]
	return v, ok
}

// Has reports whether field is present.
func (fs *FilterSet) Has(field string) bool {
	_, ok := fs.Lookup(field)
	return ok
}

// Keys returns the field names in order.
func (fs *FilterSet) Keys() []string {
	if fs == nil {
		return nil
	}
	keys := make([]string, len(fs.keys))
	copy(keys, fs.keys)
	return keys
}

// Params returns the entries in order.
func (fs *FilterSet) Params() []Param {
	if fs == nil {
		return nil
	}
	params := make([]Param, 0, len(fs.keys))
	for _, k := range fs.keys {
		params = append(params, Param{Key: k, Value: fs.values[k]})
	}
	return params
}

// Len returns the number of entries.
func (fs *FilterSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.keys)
}

// IsOperatorKey reports whether key carries an operator token rather than a filter.
func IsOperatorKey(key string) bool {
	return len(key) > len(OperatorSuffix) && key[len(key)-len(OperatorSuffix):] == OperatorSuffix
}
