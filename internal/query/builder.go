// Package query translates generic search requests into MongoDB filters,
// sort specs and pagination metadata. The same builder serves every
// searchable collection; each one supplies a Definition describing its
// searchable and filterable fields.
package query

import (
	"math"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params is the request shape shared by every search endpoint.
type Params struct {
	Search    string         `json:"search"`
	Page      int            `json:"page"`
	Limit     int            `json:"limit"`
	SortBy    string         `json:"sortBy"`
	SortOrder string         `json:"sortOrder"`
	Filters   map[string]any `json:"filters"`
}

// NumericRange maps a pair of filter keys to inclusive bounds on a field.
type NumericRange struct {
	MinKey string
	MaxKey string
	Field  string
}

// Predicate turns a raw filter value into a filter clause. The boolean
// result is false when the value cannot be interpreted.
type Predicate func(value any) (bson.M, bool)

// Definition describes how one collection is searched: which fields the
// free-text search scans and how each filter key is interpreted.
type Definition struct {
	SearchFields []string          // case-insensitive substring, OR-combined
	Exact        map[string]string // filter key -> field, equality
	Substring    map[string]string // filter key -> field, case-insensitive substring
	Bool         map[string]string // filter key -> field, boolean equality
	Ranges       []NumericRange
	Derived      map[string]Predicate

	DefaultSortBy    string
	DefaultSortOrder string
}

// Pagination is the metadata returned alongside every result page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes page metadata for a total match count.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// PageOrDefault returns the requested page, flooring to the default.
func (p Params) PageOrDefault() int {
	if p.Page < 1 {
		return DefaultPage
	}
	return p.Page
}

// LimitOrDefault returns the requested page size, flooring to the default.
func (p Params) LimitOrDefault() int {
	if p.Limit < 1 {
		return DefaultLimit
	}
	return p.Limit
}

// Skip returns the number of documents to skip for the requested page.
func (p Params) Skip() int64 {
	return int64(p.PageOrDefault()-1) * int64(p.LimitOrDefault())
}

// Filter builds the match document: the free-text OR-group AND-combined
// with every recognized filter.
func (d Definition) Filter(p Params) bson.M {
	q := bson.M{}

	if p.Search != "" {
		or := make([]bson.M, 0, len(d.SearchFields))
		for _, field := range d.SearchFields {
			or = append(or, bson.M{field: ciSubstring(p.Search)})
		}
		q["$or"] = or
	}

	for key, field := range d.Exact {
		if s, ok := stringValue(p.Filters[key]); ok && s != "" {
			q[field] = s
		}
	}

	for key, field := range d.Substring {
		if s, ok := stringValue(p.Filters[key]); ok && s != "" {
			q[field] = ciSubstring(s)
		}
	}

	for key, field := range d.Bool {
		if b, ok := BoolValue(p.Filters[key]); ok {
			q[field] = b
		}
	}

	for _, r := range d.Ranges {
		bounds := bson.M{}
		if v, ok := floatValue(p.Filters[r.MinKey]); ok {
			bounds["$gte"] = v
		}
		if v, ok := floatValue(p.Filters[r.MaxKey]); ok {
			bounds["$lte"] = v
		}
		if len(bounds) > 0 {
			q[r.Field] = bounds
		}
	}

	for key, pred := range d.Derived {
		if v, present := p.Filters[key]; present {
			if clause, ok := pred(v); ok {
				for field, cond := range clause {
					q[field] = cond
				}
			}
		}
	}

	return q
}

// Sort builds the sort spec, falling back to the definition's defaults.
// Direction accepts asc/ascending/1 for ascending; anything else descends.
func (d Definition) Sort(p Params) bson.D {
	field := p.SortBy
	if field == "" {
		field = d.DefaultSortBy
	}
	order := p.SortOrder
	if order == "" {
		order = d.DefaultSortOrder
	}
	dir := -1
	switch order {
	case "asc", "ascending", "1":
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}

// ciSubstring matches value as a literal substring, ignoring case.
func ciSubstring(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// BoolValue interprets a raw filter value as a boolean. JSON booleans and
// their string forms are accepted. Derived predicates use it too.
func BoolValue(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	}
	return false, false
}

// floatValue interprets a raw filter value as a number.
func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
