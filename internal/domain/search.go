package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SearchOperator is the comparison applied by a SearchFilter.
type SearchOperator string

// Supported search operators.
const (
	OpEQ   SearchOperator = "EQ"
	OpLIKE SearchOperator = "LIKE"
	OpGT   SearchOperator = "GT"
	OpLT   SearchOperator = "LT"
	OpGTE  SearchOperator = "GTE"
	OpLTE  SearchOperator = "LTE"
)

// SearchableTaskFields are the task fields a filter may reference.
var SearchableTaskFields = map[string]bool{
	"title":       true,
	"description": true,
	"status":      true,
}

// SearchFilter is a single field comparison parsed from an "<OP>_<field>" key.
type SearchFilter struct {
	Field    string
	Operator SearchOperator
	Value    string
}

// ParseSearchFilter parses key (without the request prefix) and value into a
// filter. It rejects unknown operators and fields outside SearchableTaskFields.
func ParseSearchFilter(key, value string) (SearchFilter, error) {
	op, field, ok := strings.Cut(key, "_")
	if !ok || field == "" {
		return SearchFilter{}, fmt.Errorf("%w: %q", ErrMalformedSearchParam, key)
	}

	operator := SearchOperator(strings.ToUpper(op))
	switch operator {
	case OpEQ, OpLIKE, OpGT, OpLT, OpGTE, OpLTE:
	default:
		return SearchFilter{}, fmt.Errorf("%w: unknown operator %q", ErrMalformedSearchParam, op)
	}

	if !SearchableTaskFields[field] {
		return SearchFilter{}, fmt.Errorf("%w: unknown field %q", ErrMalformedSearchParam, field)
	}

	return SearchFilter{Field: field, Operator: operator, Value: value}, nil
}

// ParseSearchFilters parses every non-blank entry of params. Entries that do
// not parse are returned separately so callers can log and drop them.
// Filters come back sorted by key for deterministic queries.
func ParseSearchFilters(params map[string]string) ([]SearchFilter, []error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var filters []SearchFilter
	var errs []error
	for _, k := range keys {
		v := strings.TrimSpace(params[k])
		if v == "" {
			continue
		}
		f, err := ParseSearchFilter(k, v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		filters = append(filters, f)
	}
	return filters, errs
}
