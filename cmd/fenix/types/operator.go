package types

import "strings"

// Operator is the comparison symbol of a predicate.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpLike           Operator = "LIKE"
	OpNotLike        Operator = "NOT LIKE"
	OpIn             Operator = "IN"
	OpNotIn          Operator = "NOT IN"
)

// operatorTokens maps the textual tokens accepted in "<field>-op" parameters.
var operatorTokens = map[string]Operator{
	"eq":  OpEqual,
	"neq": OpNotEqual,
	"gt":  OpGreater,
	"gte": OpGreaterOrEqual,
	"lt":  OpLess,
	"lte": OpLessOrEqual,
}

// ParseOperatorToken translates a token such as "gte" into its symbol.
func ParseOperatorToken(token string) (Operator, bool) {
	op, ok := operatorTokens[token]
	return op, ok
}

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual,
		OpLike, OpNotLike, OpIn, OpNotIn:
		return true
	}
	return false
}

func (op Operator) String() string {
	return string(op)
}

// Direction is an ordering direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case. Anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}
