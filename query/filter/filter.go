// Package filter builds WHERE clauses from an ordered list of optional predicates.
package filter

import (
	"reflect"
	"strings"
)

// Predicate returns a clause and its params, or used=false to opt out
type Predicate func() (clause string, params []interface{}, used bool)

// NotUsed is the result of a predicate that does not apply
func NotUsed() (string, []interface{}, bool) {
	return "", nil, false
}

// Filter concatenates the predicates that apply with AND
type Filter struct {
	predicates []Predicate
}

// New creates a filter from predicates, evaluated in order
func New(predicates ...Predicate) *Filter {
	return &Filter{predicates: predicates}
}

// Add appends a predicate
func (f *Filter) Add(p Predicate) *Filter {
	f.predicates = append(f.predicates, p)
	return f
}

// Construct returns "WHERE a AND b" and the params in predicate order.
// It returns an empty clause and nil params when no predicate applies.
func (f *Filter) Construct() (string, []interface{}) {
	if f == nil {
		return "", nil
	}

	var clauses []string
	var params []interface{}
	for _, p := range f.predicates {
		clause, args, used := p()
		if !used || clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		params = append(params, args...)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), params
}

// Clause is a predicate that always applies
func Clause(clause string, params ...interface{}) Predicate {
	return func() (string, []interface{}, bool) {
		return clause, params, true
	}
}

// When applies clause with value as its only param unless value is nil or a
// zero value of its type
func When(clause string, value interface{}) Predicate {
	return func() (string, []interface{}, bool) {
		if isZero(value) {
			return NotUsed()
		}
		return clause, []interface{}{value}, true
	}
}

func isZero(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	return v.IsZero()
}
