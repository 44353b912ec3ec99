package queryfilter

import (
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
)

// Reasons passed to Observer.FilterIgnored.
const (
	ReasonIgnoreList    = "ignore-list"
	ReasonUnknownColumn = "unknown-column"
	ReasonInvalidValue  = "invalid-value"
	ReasonNoValue       = "no-value"

	ReasonPaginationDisabled = "pagination-disabled"
)

// HandlerDefault names the default predicate builder in observer events.
const HandlerDefault = "default"

// Observer is notified of every dispatch decision.
type Observer interface {
	FilterApplied(field string, op types.Operator, value interface{}, handler string)
	FilterIgnored(field string, reason string)
}

// ObserverFuncs adapts plain functions to Observer. Nil functions are skipped.
type ObserverFuncs struct {
	Applied func(field string, op types.Operator, value interface{}, handler string)
	Ignored func(field string, reason string)
}

func (o ObserverFuncs) FilterApplied(field string, op types.Operator, value interface{}, handler string) {
	if o.Applied != nil {
		o.Applied(field, op, value, handler)
	}
}

func (o ObserverFuncs) FilterIgnored(field string, reason string) {
	if o.Ignored != nil {
		o.Ignored(field, reason)
	}
}

// LogObserver writes dispatch decisions to a zerolog logger.
type LogObserver struct {
	log zerolog.Logger
}

func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) FilterApplied(field string, op types.Operator, value interface{}, handler string) {
	o.log.Info().
		Str("filter", field).
		Str("operator", op.String()).
		Interface("value", value).
		Str("method", handler).
		Msg("Filter applied")
}

func (o *LogObserver) FilterIgnored(field string, reason string) {
	o.log.Warn().
		Str("filter", field).
		Str("reason", reason).
		Msg("Filter ignored")
}
