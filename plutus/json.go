package plutus

import (
	"fmt"
	"math/big"

	jsoniter "github.com/json-iterator/go"
	"github.com/rawvie-ngit/mesh-common/pkg/bignum"
)

// json is strict about the schema: an unknown key is an unmapped shape, not
// something to skip.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// jsonNode mirrors the detailed JSON schema of Plutus data. Exactly one of
// the shape fields is set on a valid node; Fields accompanies Constructor.
type jsonNode struct {
	Int         *big.Int    `json:"int,omitempty"`
	Bytes       *string     `json:"bytes,omitempty"`
	List        *[]jsonNode `json:"list,omitempty"`
	Map         *[]jsonPair `json:"map,omitempty"`
	Constructor *uint64     `json:"constructor,omitempty"`
	Fields      *[]jsonNode `json:"fields,omitempty"`
}

// jsonPair is one association map entry.
type jsonPair struct {
	K jsonNode `json:"k"`
	V jsonNode `json:"v"`
}

// MarshalJSON encodes d in the detailed JSON schema, e.g. {"int": 5},
// {"bytes": "ab"}, {"list": [...]}, {"map": [{"k": ..., "v": ...}]} and
// {"constructor": 0, "fields": [...]}.
func MarshalJSON(d Data) ([]byte, error) {
	node, err := toNode(d)
	if err != nil {
		return nil, err
	}

	return json.Marshal(node)
}

// UnmarshalJSON decodes the detailed JSON schema into Data.
func UnmarshalJSON(raw []byte) (Data, error) {
	var node jsonNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnmappedShape, err)
	}

	return fromNode(node)
}

// toNode converts Data into its JSON mirror.
func toNode(d Data) (jsonNode, error) {
	switch v := d.(type) {
	case Int:
		return jsonNode{Int: v.Value.Big()}, nil

	case Bytes:
		h := v.Hex()
		return jsonNode{Bytes: &h}, nil

	case List:
		items, err := toNodes(v.Items)
		if err != nil {
			return jsonNode{}, err
		}

		return jsonNode{List: &items}, nil

	case Map:
		pairs := make([]jsonPair, 0, len(v.Pairs))
		for _, p := range v.Pairs {
			k, err := toNode(p.Key)
			if err != nil {
				return jsonNode{}, err
			}

			val, err := toNode(p.Value)
			if err != nil {
				return jsonNode{}, err
			}

			pairs = append(pairs, jsonPair{K: k, V: val})
		}

		return jsonNode{Map: &pairs}, nil

	case Constr:
		fields, err := toNodes(v.Fields)
		if err != nil {
			return jsonNode{}, err
		}
		alt := v.Alternative

		return jsonNode{Constructor: &alt, Fields: &fields}, nil

	default:
		return jsonNode{}, fmt.Errorf("%w: %T", ErrUnmappedShape, d)
	}
}

// toNodes converts a slice of Data.
func toNodes(items []Data) ([]jsonNode, error) {
	nodes := make([]jsonNode, 0, len(items))
	for _, item := range items {
		n, err := toNode(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}

	return nodes, nil
}

// fromNode converts a decoded JSON node back into Data.
func fromNode(n jsonNode) (Data, error) {
	shapes := 0
	for _, set := range []bool{
		n.Int != nil, n.Bytes != nil, n.List != nil, n.Map != nil,
		n.Constructor != nil,
	} {
		if set {
			shapes++
		}
	}
	if shapes != 1 {
		return nil, fmt.Errorf("%w: node sets %d shapes", ErrUnmappedShape,
			shapes)
	}
	if n.Fields != nil && n.Constructor == nil {
		return nil, fmt.Errorf("%w: fields without constructor",
			ErrUnmappedShape)
	}

	switch {
	case n.Int != nil:
		return NewInt(bignum.NewFromBig(n.Int)), nil

	case n.Bytes != nil:
		b, err := NewBytes(*n.Bytes)
		if err != nil {
			return nil, err
		}

		return b, nil

	case n.List != nil:
		items, err := fromNodes(*n.List)
		if err != nil {
			return nil, err
		}

		return List{Items: items}, nil

	case n.Map != nil:
		pairs := make([]Pair, 0, len(*n.Map))
		for _, p := range *n.Map {
			k, err := fromNode(p.K)
			if err != nil {
				return nil, err
			}

			v, err := fromNode(p.V)
			if err != nil {
				return nil, err
			}

			pairs = append(pairs, Pair{Key: k, Value: v})
		}

		return Map{Pairs: pairs}, nil

	default:
		if n.Fields == nil {
			return nil, fmt.Errorf("%w: constructor without fields",
				ErrUnmappedShape)
		}

		fields, err := fromNodes(*n.Fields)
		if err != nil {
			return nil, err
		}

		return Constr{Alternative: *n.Constructor, Fields: fields}, nil
	}
}

// fromNodes converts a slice of decoded JSON nodes.
func fromNodes(nodes []jsonNode) ([]Data, error) {
	items := make([]Data, 0, len(nodes))
	for _, n := range nodes {
		d, err := fromNode(n)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}

	return items, nil
}
