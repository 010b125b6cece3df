package query

import (
	"net/url"
	"strings"
)

// ParseQueryOrdered decodes a raw query string into parameters in their
// original wire order. net/url.Values is a map and loses the order the client
// sent, which matters because attribute fragments follow request key order.
func ParseQueryOrdered(rawQuery string) []Param {
	var params []Param

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		params = append(params, Param{Key: decodedKey, Value: decodedValue})
	}

	return params
}

// ParamsFromMap converts a decoded JSON filter object into parameters. Object
// key order is not recoverable from a Go map, but only fixed predicates are
// compiled from these, and their order comes from the predicate list.
func ParamsFromMap(filters map[string]string) []Param {
	params := make([]Param, 0, len(filters))
	for key, value := range filters {
		params = append(params, Param{Key: key, Value: value})
	}
	return params
}
