package queryfilter

import (
	"net/url"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"golang.org/x/exp/slices"
)

// listSuffix marks a raw key whose values accumulate into a list ("tag[]=a&tag[]=b").
const listSuffix = "[]"

// Extract returns the parameters whose key starts with prefix, with the prefix
// removed once from the start of the key. Order follows params.
func Extract(params []types.Param, prefix string) *types.FilterSet {
	extracted := make([]types.Param, 0, len(params))
	for _, p := range params {
		if !strings.HasPrefix(p.Key, prefix) {
			continue
		}
		extracted = append(extracted, types.Param{
			Key:   strings.TrimPrefix(p.Key, prefix),
			Value: p.Value,
		})
	}
	return types.NewFilterSet(extracted...)
}

// ParseQuery parses a raw query string without losing the order of the
// parameters. Keys ending in "[]" collect their values into a []string under
// the bare key. Malformed pairs are skipped; the first error is returned
// alongside everything that could be parsed, like url.ParseQuery does.
func ParseQuery(rawQuery string) ([]types.Param, error) {
	var (
		params   []types.Param
		index    = make(map[string]int)
		firstErr error
	)

	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if strings.HasSuffix(key, listSuffix) && len(key) > len(listSuffix) {
			key = strings.TrimSuffix(key, listSuffix)
			if i, ok := index[key]; ok {
				if list, isList := params[i].Value.([]string); isList {
					params[i].Value = append(list, value)
					continue
				}
				params[i].Value = []string{value}
				continue
			}
			index[key] = len(params)
			params = append(params, types.Param{Key: key, Value: []string{value}})
			continue
		}

		if i, ok := index[key]; ok {
			params[i].Value = value
			continue
		}
		index[key] = len(params)
		params = append(params, types.Param{Key: key, Value: value})
	}

	return params, firstErr
}

// ParamsFromValues converts url.Values into params. url.Values carries no
// order, so keys are sorted. Multi-valued keys become a []string.
func ParamsFromValues(values url.Values) []types.Param {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	params := make([]types.Param, 0, len(keys))
	for _, k := range keys {
		vs := values[k]
		switch {
		case strings.HasSuffix(k, listSuffix) && len(k) > len(listSuffix):
			params = append(params, types.Param{Key: strings.TrimSuffix(k, listSuffix), Value: vs})
		case len(vs) == 1:
			params = append(params, types.Param{Key: k, Value: vs[0]})
		case len(vs) > 1:
			params = append(params, types.Param{Key: k, Value: vs})
		}
	}
	return params
}

// ParamsFromMap converts a programmatic map into params in key order.
func ParamsFromMap(m map[string]interface{}) []types.Param {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	params := make([]types.Param, 0, len(keys))
	for _, k := range keys {
		params = append(params, types.Param{Key: k, Value: m[k]})
	}
	return params
}

// EncodeParams renders params as a query string in their order. List values
// are written with the "[]" key suffix so ParseQuery reads them back as lists.
func EncodeParams(params []types.Param) string {
	var b strings.Builder
	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	for _, p := range params {
		switch v := p.Value.(type) {
		case []string:
			for _, item := range v {
				write(p.Key+listSuffix, item)
			}
		case []interface{}:
			for _, item := range v {
				write(p.Key+listSuffix, stringValue(item))
			}
		default:
			write(p.Key, stringValue(v))
		}
	}
	return b.String()
}
