package normalize

import (
	"errors"

	"github.com/tidwall/gjson"
)

type nodeKind int

const (
	scalarNode nodeKind = iota
	objectNode
	arrayNode
)

type entry struct {
	key   string
	value *node
}

// node is a decoded JSON value that remembers object key order. The
// provider's series objects are keyed by timestamp and their order is the
// series order, so a plain map cannot be used.
type node struct {
	kind    nodeKind
	entries []entry // objectNode, in body order
	items   []*node // arrayNode
	text    string  // scalarNode; strings unquoted, numbers verbatim, null empty
}

// get returns the first value stored under key.
func (n *node) get(key string) (*node, bool) {
	for _, e := range n.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

var errInvalidJSON = errors.New("invalid JSON")

// decodeOrdered decodes exactly one JSON value from body. Anything after the
// value other than whitespace is rejected.
func decodeOrdered(body []byte) (*node, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}
	return fromResult(gjson.ParseBytes(body)), nil
}

// fromResult copies r into a node tree. gjson iterates objects in body order,
// duplicate keys included.
func fromResult(r gjson.Result) *node {
	switch {
	case r.IsObject():
		n := &node{kind: objectNode}
		r.ForEach(func(k, v gjson.Result) bool {
			n.entries = append(n.entries, entry{key: k.Str, value: fromResult(v)})
			return true
		})
		return n
	case r.IsArray():
		n := &node{kind: arrayNode}
		r.ForEach(func(_, v gjson.Result) bool {
			n.items = append(n.items, fromResult(v))
			return true
		})
		return n
	}

	switch r.Type {
	case gjson.String:
		return &node{text: r.Str}
	case gjson.Number:
		return &node{text: r.Raw}
	case gjson.True:
		return &node{text: "true"}
	case gjson.False:
		return &node{text: "false"}
	}
	return &node{}
}
