package value

import (
	"strings"

	"github.com/usethesource/pdb.values/internal/hamt"
	"github.com/usethesource/pdb.values/internal/hash"
	"github.com/usethesource/pdb.values/pkg/collection"
)

// stringValueHasher backs the keyword-parameter map every node and
// constructor carries: keys are plain Go strings, values are Value.
type stringValueHasher struct{}

func (stringValueHasher) Hash(k string) hamt.MixedHash { return hash.Mix64(fnvString(k)) }
func (stringValueHasher) Equal(a, b string) bool       { return a == b }
func (stringValueHasher) KeyHash64(k string) uint64    { return fnvString(k) }
func (stringValueHasher) ValueHash64(v Value) uint64   { return v.Hash() }
func (stringValueHasher) EqualValue(a, b Value) bool   { return a.Equal(b) }

// kwParams is the keyword-parameter payload node and constructor share:
// a persistent map for lookup/equality, plus the insertion order the
// Open Question decision in DESIGN.md pins printing to (spec.md §9's
// "printed order of keyword parameters... implementation-defined but
// stable per value").
type kwParams struct {
	m     *collection.Map[string, Value]
	order []string
}

func (k kwParams) hash() uint64 {
	if k.m == nil {
		return 0
	}
	return k.m.Hash()
}

func (k kwParams) equal(o kwParams) bool {
	kLen, oLen := len(k.order), len(o.order)
	if kLen == 0 || oLen == 0 {
		return kLen == oLen
	}
	return k.m.Equal(o.m)
}

func (k kwParams) String() string {
	if len(k.order) == 0 {
		return ""
	}
	parts := make([]string, len(k.order))
	for i, name := range k.order {
		val, _ := k.m.Get(name)
		parts[i] = name + "=" + val.String()
	}
	return "," + strings.Join(parts, ",")
}

// Node is an untyped term: a name, positional children and an optional
// set of keyword parameters. Equal ignores keyword parameters (spec.md
// §9 Open Question ii); identityEqual, used only by the hash-consing
// cache, folds them in so two nodes differing only in keyword
// parameters still intern to distinct canonical instances.
type Node struct {
	name     string
	children []Value
	kw       kwParams
}

func (n *Node) Hash() uint64 {
	h := fnvString("node:" + n.name)
	for _, c := range n.children {
		h = combineOrdered(h, c.Hash())
	}
	return h
}

func (n *Node) identityHash() uint64 {
	return combineOrdered(n.Hash(), n.kw.hash())
}

func (n *Node) identityEqual(other Value) bool {
	o, ok := other.(*Node)
	return ok && n.Equal(o) && n.kw.equal(o.kw)
}

func (n *Node) Equal(other Value) bool {
	o, ok := other.(*Node)
	if !ok || n.name != o.name || len(n.children) != len(o.children) {
		return false
	}
	for i, c := range n.children {
		if !c.Equal(o.children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) Type() Type { return Type{Kind: KindNode, Name: n.name} }

func (n *Node) String() string {
	parts := make([]string, len(n.children))
	for i, c := range n.children {
		parts[i] = c.String()
	}
	return nodeNameLiteral(n.name) + "(" + strings.Join(parts, ",") + n.kw.String() + ")"
}

// nodeNameLiteral quotes name when it is not a valid bare identifier
// (spec.md §4.5's node grammar names constructors by identifier; a name
// outside that alphabet, such as one starting with a digit, still needs
// a printable round-trippable form, so the writer falls back to the
// same quoting pkg/text's reader already accepts for quoted node names).
func nodeNameLiteral(name string) string {
	if isBareIdentifier(name) {
		return name
	}
	return quoteString(name)
}

func isBareIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		isStart := r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		isRest := isStart || ('0' <= r && r <= '9')
		if i == 0 && !isStart {
			return false
		}
		if i > 0 && !isRest {
			return false
		}
	}
	return true
}

func (n *Node) Accept(v Visitor) any { return v.VisitNode(n) }

// Name returns the node's constructor name.
func (n *Node) Name() string { return n.name }

// Arity returns the number of positional children.
func (n *Node) Arity() int { return len(n.children) }

// Get returns the positional child at i. It panics on out-of-range i.
func (n *Node) Get(i int) Value { return n.children[i] }

// Keyword returns the keyword parameter bound to name, if any.
func (n *Node) Keyword(name string) (Value, bool) {
	if n.kw.m == nil {
		return nil, false
	}
	return n.kw.m.Get(name)
}

// Keywords calls yield for every keyword parameter, in insertion order.
func (n *Node) Keywords(yield func(name string, val Value) bool) {
	for _, name := range n.kw.order {
		val, _ := n.kw.m.Get(name)
		if !yield(name, val) {
			return
		}
	}
}

// Constructor is a Node resolved against a ConstructorRegistry: it
// additionally carries the declared signature's Type, which records the
// field names invariant 5 checks for.
type Constructor struct {
	Node
	sig Type
}

func (c *Constructor) Type() Type { return c.sig }

func (c *Constructor) Equal(other Value) bool {
	o, ok := other.(*Constructor)
	if !ok {
		return false
	}
	return c.sig.Name == o.sig.Name && c.Node.Equal(&o.Node)
}

func (c *Constructor) identityEqual(other Value) bool {
	o, ok := other.(*Constructor)
	return ok && c.sig.Name == o.sig.Name && c.Node.identityEqual(&o.Node)
}

func (c *Constructor) identityHash() uint64 {
	return combineOrdered(c.Node.identityHash(), fnvString("ctor:"+c.sig.Name))
}

func (c *Constructor) Accept(v Visitor) any { return v.VisitConstructor(c) }

// Signature returns the resolved constructor type.
func (c *Constructor) Signature() Type { return c.sig }
