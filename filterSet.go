package tbashell

import (
	"sort"
	"strings"
)

type (
	// FilterSet holds the key=value filters of a list request.
	FilterSet struct {
		filters map[string]string
	}
)

// ParseFilterSet parses "k1=v1&k2=v2". Every pair must have a non-empty
// key and value; a repeated key keeps its last value.
func ParseFilterSet(s string) (fs *FilterSet, err error) {
	filters := map[string]string{}
	for _, candidate := range strings.Split(s, "&") {
		pair := strings.Split(candidate, "=")
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			err = &CommandError{Kind: ErrMalformedFilter, Message: `Invalid filter syntax, expecting "<key>=<value>".`}
			return
		}
		filters[pair[0]] = pair[1]
	}

	fs = &FilterSet{filters: filters}
	return
}

func emptyFilterSet() *FilterSet {
	return &FilterSet{filters: map[string]string{}}
}

func (fs *FilterSet) ValueOf(key string) (value string, exists bool) {
	value, exists = fs.filters[key]
	return
}

func (fs *FilterSet) Count() int {
	return len(fs.filters)
}

func (fs *FilterSet) Keys() []string {
	keys := make([]string, 0, len(fs.filters))
	for k := range fs.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matches reports whether the set has exactly the given keys
func (fs *FilterSet) matches(keys []string) bool {
	if len(keys) != len(fs.filters) {
		return false
	}
	for _, k := range keys {
		if _, exists := fs.filters[k]; !exists {
			return false
		}
	}
	return true
}

func (fs *FilterSet) values() map[string]string {
	values := make(map[string]string, len(fs.filters))
	for k, v := range fs.filters {
		values[k] = v
	}
	return values
}
