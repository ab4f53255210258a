package utils

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PageMeta describes one page of a list
type PageMeta struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

// Page is a paginated list response
type Page[T any] struct {
	Meta   PageMeta `json:"meta"`
	Result []T      `json:"result"`
}

// reserved query keys that are never treated as filters
var reservedKeys = map[string]bool{"page": true, "limit": true, "current": true, "pageSize": true}

// Paginate filters items by the exact-match conditions in qs and returns the
// requested page. qs is "key=value&key2=value2" over the items' JSON fields.
func Paginate[T any](items []T, page, limit int, qs string) (Page[T], error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	filtered, err := Filter(items, qs)
	if err != nil {
		return Page[T]{}, err
	}

	total := len(filtered)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	// compare before multiplying so a huge page cannot overflow
	start, end := total, total
	if page-1 < pages {
		start = (page - 1) * limit
		end = min(start+limit, total)
	}

	result := make([]T, 0, end-start)
	result = append(result, filtered[start:end]...)

	return Page[T]{
		Meta: PageMeta{
			Current:  page,
			PageSize: limit,
			Pages:    pages,
			Total:    total,
		},
		Result: result,
	}, nil
}

// Filter keeps the items whose JSON fields equal every condition in qs.
// Array fields match when any element equals the value.
func Filter[T any](items []T, qs string) ([]T, error) {
	conditions, err := parseConditions(qs)
	if err != nil {
		return nil, err
	}
	if len(conditions) == 0 {
		return items, nil
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		fields, err := toFields(item)
		if err != nil {
			return nil, err
		}
		if matchesAll(fields, conditions) {
			out = append(out, item)
		}
	}
	return out, nil
}

func parseConditions(qs string) (map[string]string, error) {
	qs = strings.TrimPrefix(strings.TrimSpace(qs), "?")
	if qs == "" {
		return nil, nil
	}
	values, err := url.ParseQuery(qs)
	if err != nil {
		return nil, fmt.Errorf("invalid query string: %w", err)
	}
	conditions := make(map[string]string, len(values))
	for key, vals := range values {
		if reservedKeys[key] || len(vals) == 0 {
			continue
		}
		conditions[key] = vals[0]
	}
	return conditions, nil
}

func toFields(item interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func matchesAll(fields map[string]interface{}, conditions map[string]string) bool {
	for key, want := range conditions {
		if !matches(fields[key], want) {
			return false
		}
	}
	return true
}

func matches(value interface{}, want string) bool {
	switch v := value.(type) {
	case nil:
		return false
	case []interface{}:
		for _, e := range v {
			if matches(e, want) {
				return true
			}
		}
		return false
	case string:
		return v == want
	default:
		return fmt.Sprint(v) == want
	}
}
