package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"avapi/internal/tabular"
)

// pathSep joins nested object keys into one column name.
const pathSep = "."

// normalizeFlat turns an object into one record, or an array of objects into
// one record each. Nested objects are flattened with dotted paths and array
// elements with their index.
func normalizeFlat(root *node) (*tabular.Result, error) {
	var objects []*node
	switch root.kind {
	case objectNode:
		objects = []*node{root}
	case arrayNode:
		for i, item := range root.items {
			if item.kind != objectNode {
				return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedResponse, i)
			}
			objects = append(objects, item)
		}
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformedResponse)
	}

	records := make([]tabular.Record, 0, len(objects))
	for _, obj := range objects {
		rec := flatten(nil, "", obj)
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
	}
	return tabular.New(records), nil
}

func flatten(rec tabular.Record, prefix string, n *node) tabular.Record {
	switch n.kind {
	case objectNode:
		for _, e := range n.entries {
			rec = flatten(rec, join(prefix, e.key), e.value)
		}
	case arrayNode:
		for i, item := range n.items {
			rec = flatten(rec, join(prefix, strconv.Itoa(i)), item)
		}
	default:
		// Line endings are folded to \n, the form CSV readers return.
		rec = append(rec, tabular.Field{Name: prefix, Value: strings.ReplaceAll(n.text, "\r\n", "\n")})
	}
	return rec
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + pathSep + key
}
