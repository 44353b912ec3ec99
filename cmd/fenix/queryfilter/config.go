package queryfilter

import (
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
)

// Config holds the options of a filter application. Each optional behaviour
// is an explicit capability flag.
type Config struct {
	// Prefix marks which parameters are filter candidates. Empty means all.
	Prefix string

	// PerPage is the pagination state before any "paginate" filter runs.
	// 0 returns the full result set.
	PerPage int

	// Pagination registers the "paginate" and "page" filters. Without it
	// results are never paginated and both names are ignored.
	Pagination bool

	// Links enables replaying the applied filters as pagination links.
	Links bool

	// Negation turns a leading "!" on a text-class value into NOT LIKE.
	Negation bool

	// Ignore lists filter names that are never applied, with or without prefix.
	Ignore []string

	// TextOperator is the default operator for columns without a cast or with
	// a string cast; TypedOperator for every other cast.
	TextOperator  types.Operator
	TypedOperator types.Operator

	// TextOverride lets "<field>-op" replace TextOperator on text columns.
	TextOverride bool

	// Inspector answers schema questions. When nil the target itself must
	// implement SchemaInspector.
	Inspector SchemaInspector

	// Handlers are registered on top of the built-in filters and replace
	// them on a name collision.
	Handlers map[string]Handler

	Observers []Observer
	Log       zerolog.Logger
}

// DefaultConfig returns a Config with the usual defaults: ten rows per page,
// links enabled, substring matching on text columns and equality elsewhere.
func DefaultConfig() Config {
	return Config{
		PerPage:       10,
		Pagination:    true,
		Links:         true,
		TextOperator:  types.OpLike,
		TypedOperator: types.OpEqual,
		TextOverride:  true,
		Log:           zerolog.Nop(),
	}
}
