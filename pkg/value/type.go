package value

import "strings"

// Kind tags a Type with which value algebra member it describes.
type Kind int

const (
	KindValue Kind = iota // the universal top type; every Value is a subtype
	KindInteger
	KindRational
	KindReal
	KindBoolean
	KindString
	KindDateTime
	KindSourceLocation
	KindList
	KindSet
	KindMap
	KindTuple
	KindNode
	KindConstructor
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindInteger:
		return "int"
	case KindRational:
		return "rat"
	case KindReal:
		return "real"
	case KindBoolean:
		return "bool"
	case KindString:
		return "str"
	case KindDateTime:
		return "datetime"
	case KindSourceLocation:
		return "loc"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindNode:
		return "node"
	case KindConstructor:
		return "cons"
	default:
		return "?"
	}
}

// Type is a minimal type tag: enough for the reader's expected-type
// subtype check (spec.md §6) and for invariant 5 (literals built without
// explicit field labels carry field-nameless dynamic types). It
// deliberately does not compute a full ADT/parameter-type system —
// spec.md §1 keeps "the type-system computations over ADTs and parameter
// types" as an external collaborator; TypeChecker is where a caller
// plugs that in.
type Type struct {
	Kind Kind

	// Name is the node/constructor name; empty for every other kind.
	Name string

	// Elem is the element type for list/set, and the value type for
	// map (Elem2 then holds the key type). Nil when unknown/unchecked.
	Elem  *Type
	Elem2 *Type

	// Children holds declared child types for tuple/node/constructor,
	// when known; nil when the arity/types were not declared.
	Children []Type

	// FieldNames holds per-child field labels for node/constructor
	// types built with named fields. A literal built without explicit
	// labels leaves this nil, which is what invariant 5 checks for.
	FieldNames []string
}

// ValueType is the universal top type every value is a subtype of.
var ValueType = Type{Kind: KindValue}

// HasFieldNames reports whether t declares named fields (invariant 5:
// "values built without explicitly labelled fields carry unlabelled
// field types").
func (t Type) HasFieldNames() bool {
	return len(t.FieldNames) > 0
}

func (t Type) String() string {
	switch t.Kind {
	case KindList, KindSet:
		if t.Elem != nil {
			return t.Kind.String() + "[" + t.Elem.String() + "]"
		}
		return t.Kind.String()
	case KindMap:
		if t.Elem2 != nil && t.Elem != nil {
			return "map[" + t.Elem2.String() + "," + t.Elem.String() + "]"
		}
		return "map"
	case KindTuple:
		parts := make([]string, len(t.Children))
		for i, c := range t.Children {
			parts[i] = c.String()
		}
		return "<" + strings.Join(parts, ",") + ">"
	case KindNode, KindConstructor:
		if t.Name == "" {
			return t.Kind.String()
		}
		return t.Name
	default:
		return t.Kind.String()
	}
}

// TypeChecker decides whether v conforms to t. The core never computes
// this itself (spec.md §1's external collaborator boundary); a default,
// structural implementation is provided below for callers that have no
// richer type system to plug in.
type TypeChecker func(v Value, t Type) bool

// DefaultTypeChecker implements a purely structural subtype check:
// every value is a subtype of ValueType; otherwise the value's own Kind
// must match, and for node/constructor types a non-empty Name must
// match the value's name.
func DefaultTypeChecker(v Value, t Type) bool {
	if t.Kind == KindValue {
		return true
	}
	if v.Type().Kind != t.Kind {
		return false
	}
	switch t.Kind {
	case KindNode, KindConstructor:
		return t.Name == "" || v.Type().Name == t.Name
	default:
		return true
	}
}
