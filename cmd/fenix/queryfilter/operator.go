package queryfilter

import (
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

// ResolveOperator returns the operator requested through "<field>-op" in fs,
// or def when the entry is missing or holds an unknown token.
func ResolveOperator(fs *types.FilterSet, field string, def types.Operator) types.Operator {
	if op, ok := explicitOperator(fs, field); ok {
		return op
	}
	return def
}

// explicitOperator reports the operator carried by "<field>-op", if it maps
// onto a known token.
func explicitOperator(fs *types.FilterSet, field string) (types.Operator, bool) {
	raw, ok := fs.Lookup(field + types.OperatorSuffix)
	if !ok {
		return "", false
	}
	token, ok := raw.(string)
	if !ok {
		return "", false
	}
	return types.ParseOperatorToken(token)
}
