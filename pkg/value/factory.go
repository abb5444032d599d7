package value

import (
	"math/big"
	"net/url"
	"time"

	"github.com/usethesource/pdb.values/internal/config"
	"github.com/usethesource/pdb.values/pkg/collection"
	"github.com/usethesource/pdb.values/pkg/intern"
)

// boxedValue lets pkg/intern's single-type-parameter Cache canonicalize
// the many distinct concrete Go types this package's Value kinds use,
// grounded on anyunique's own value[T]{x T, hash uint64} boxing pattern:
// every candidate, whatever its concrete kind, is interned as the one
// type *boxedValue.
type boxedValue struct{ v Value }

type boxedValueHasher struct{}

func (boxedValueHasher) Hash(x *boxedValue) uint64 {
	if id, ok := x.v.(identity); ok {
		return id.identityHash()
	}
	return x.v.Hash()
}

func (boxedValueHasher) Equal(a, b *boxedValue) bool {
	if id, ok := a.v.(identity); ok {
		return id.identityEqual(b.v)
	}
	return a.v.Equal(b.v)
}

// globalCache is the single package-wide hash-consing cache every
// Factory interns container and heap-backed primitive values through,
// per spec.md's "Global mutable state is restricted to (a) the weak
// cache and (b) the precision setting".
var globalCache = intern.New[boxedValue](boxedValueHasher{})

func internValue[T Value](v T) T {
	got := globalCache.Intern(&boxedValue{v: v})
	return got.v.(T)
}

// Factory is the single entry point for building every value kind.
// Every method is pure and total except where a domain precondition
// fails, in which case it returns an error rather than panicking.
type Factory struct {
	registry  *ConstructorRegistry
	precision *config.Precision
}

// NewFactory returns a Factory with a fresh, empty ConstructorRegistry
// and the process-wide precision default.
func NewFactory() *Factory {
	return &Factory{registry: NewConstructorRegistry()}
}

// NewFactoryWithRegistry returns a Factory sharing r, so callers that
// need to register constructor signatures up front can build one
// registry and hand it to multiple factories.
func NewFactoryWithRegistry(r *ConstructorRegistry) *Factory {
	return &Factory{registry: r}
}

// Registry returns the factory's constructor registry.
func (f *Factory) Registry() *ConstructorRegistry { return f.registry }

func (f *Factory) precisionBits() uint {
	if f.precision != nil {
		return f.precision.Get()
	}
	return config.Global.Get()
}

// Integer builds an integer value from v. The argument is copied; the
// caller's *big.Int remains safe to mutate afterwards.
func (f *Factory) Integer(v *big.Int) *Integer {
	return internValue(&Integer{v: new(big.Int).Set(v)})
}

// IntegerFromInt64 builds an integer value from a native int64.
func (f *Factory) IntegerFromInt64(v int64) *Integer {
	return f.Integer(big.NewInt(v))
}

// Rational builds a rational value num/den, always reduced to lowest
// terms. It returns DomainError if den is zero.
func (f *Factory) Rational(num, den *big.Int) (*Rational, error) {
	if den.Sign() == 0 {
		return nil, &DomainError{Which: "rational denominator is zero", Value: num.String()}
	}
	r := new(big.Rat).SetFrac(num, den)
	return internValue(&Rational{v: r}), nil
}

// RealFromBigFloat builds a real value from v at the given bit
// precision. A precision of 0 uses the factory's (or, absent one, the
// process-wide) default.
func (f *Factory) RealFromBigFloat(v *big.Float, bits uint) *Real {
	if bits == 0 {
		bits = f.precisionBits()
	}
	rounded := new(big.Float).SetPrec(bits).Set(v)
	return internValue(&Real{v: rounded, bits: bits})
}

// RealFromString parses s (a decimal literal) as a real at the given
// precision (0 meaning the default), returning ParseError on malformed
// input.
func (f *Factory) RealFromString(s string, bits uint) (*Real, error) {
	if bits == 0 {
		bits = f.precisionBits()
	}
	v, _, err := big.ParseFloat(s, 10, bits, big.ToNearestEven)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	return internValue(&Real{v: v, bits: bits}), nil
}

// Boolean returns one of the two live Boolean instances.
func (f *Factory) Boolean(b bool) Boolean {
	if b {
		return True
	}
	return False
}

// String builds a string value.
func (f *Factory) String(s string) String { return String(s) }

// DateTimeDate builds a date-only value, in UTC.
func (f *Factory) DateTimeDate(year int, month time.Month, day int) *DateTime {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return internValue(&DateTime{t: t, shape: shapeDate})
}

// DateTimeOfDay builds a time-only value at the given UTC offset.
func (f *Factory) DateTimeOfDay(hour, min, sec, ms int, offsetSeconds int) *DateTime {
	loc := time.FixedZone("", offsetSeconds)
	t := time.Date(0, time.January, 1, hour, min, sec, ms*1e6, loc)
	return internValue(&DateTime{t: t, shape: shapeTime})
}

// DateTimeFull builds a full date+time value at the given UTC offset.
func (f *Factory) DateTimeFull(year int, month time.Month, day, hour, min, sec, ms int, offsetSeconds int) *DateTime {
	loc := time.FixedZone("", offsetSeconds)
	t := time.Date(year, month, day, hour, min, sec, ms*1e6, loc)
	return internValue(&DateTime{t: t, shape: shapeDateTime})
}

// SourceLocation builds a bare URI location, with no offset/length span.
func (f *Factory) SourceLocation(uri *url.URL) *SourceLocation {
	return internValue(&SourceLocation{uri: uri})
}

// SourceLocationSpan builds a URI location annotated with an
// offset/length span. It returns DomainError if offset or length is
// negative.
func (f *Factory) SourceLocationSpan(uri *url.URL, offset, length int) (*SourceLocation, error) {
	if offset < 0 || length < 0 {
		return nil, &DomainError{Which: "negative source location offset/length", Value: []int{offset, length}}
	}
	return internValue(&SourceLocation{uri: uri, hasSpan: true, offset: offset, length: length}), nil
}

// SourceLocationBox builds a URI location annotated with an
// offset/length span and a begin/end line-column box. It returns
// DomainError if offset/length is negative or the box is inconsistent
// (the end position precedes the begin position).
func (f *Factory) SourceLocationBox(uri *url.URL, offset, length, beginLine, beginCol, endLine, endCol int) (*SourceLocation, error) {
	if offset < 0 || length < 0 {
		return nil, &DomainError{Which: "negative source location offset/length", Value: []int{offset, length}}
	}
	if beginLine < 0 || beginCol < 0 || endLine < 0 || endCol < 0 {
		return nil, &DomainError{Which: "negative source location line/column", Value: []int{beginLine, beginCol, endLine, endCol}}
	}
	if endLine < beginLine || (endLine == beginLine && endCol < beginCol) {
		return nil, &DomainError{Which: "inconsistent source location line/column box", Value: []int{beginLine, beginCol, endLine, endCol}}
	}
	return internValue(&SourceLocation{
		uri: uri, hasSpan: true, offset: offset, length: length,
		hasBox: true, beginLine: beginLine, beginCol: beginCol, endLine: endLine, endCol: endCol,
	}), nil
}

// List builds a list value from elems, copying the slice.
func (f *Factory) List(elems ...Value) *List {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return internValue(&List{elems: cp})
}

// Tuple builds a fixed-arity tuple value from elems, copying the slice.
func (f *Factory) Tuple(elems ...Value) *Tuple {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return internValue(&Tuple{elems: cp})
}

// Set builds a set value from elems, built via a transient set and
// frozen, per spec.md's "builds via a transient collection... freezes
// it, and interns".
func (f *Factory) Set(elems ...Value) *Set {
	t := collection.NewTransientSet[Value](valueHasher{})
	for _, e := range elems {
		t.Add(e)
	}
	return internValue(&Set{s: t.Freeze()})
}

// MapEntry is one key/value pair passed to Factory.Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Map builds a map value from entries, built via a transient map and
// frozen. A key repeated across entries binds to its last value, as
// collection.TransientMap.Put does.
func (f *Factory) Map(entries ...MapEntry) *Map {
	t := collection.NewTransientMap[Value, Value](valueHasher{})
	for _, e := range entries {
		t.Put(e.Key, e.Value)
	}
	return internValue(&Map{m: t.Freeze()})
}

// KeywordParam is one keyword binding passed to Factory.Node or
// Factory.Constructor.
type KeywordParam struct {
	Name  string
	Value Value
}

func buildKwParams(kw []KeywordParam) kwParams {
	if len(kw) == 0 {
		return kwParams{}
	}
	t := collection.NewTransientMap[string, Value](stringValueHasher{})
	order := make([]string, 0, len(kw))
	for _, p := range kw {
		if _, had := t.Get(p.Name); !had {
			order = append(order, p.Name)
		}
		t.Put(p.Name, p.Value)
	}
	return kwParams{m: t.Freeze(), order: order}
}

// Node builds an untyped term with name and positional children, and
// no keyword parameters.
func (f *Factory) Node(name string, children ...Value) *Node {
	return f.NodeWithKeywords(name, children, nil)
}

// NodeWithKeywords builds an untyped term with name, positional
// children and keyword parameters.
func (f *Factory) NodeWithKeywords(name string, children []Value, kw []KeywordParam) *Node {
	cp := make([]Value, len(children))
	copy(cp, children)
	return internValue(&Node{name: name, children: cp, kw: buildKwParams(kw)})
}

// Constructor builds a term resolved against the factory's
// ConstructorRegistry, returning ArityError, TypeError or
// OverloadError per the registry's Resolve rules.
func (f *Factory) Constructor(name string, children []Value, kw []KeywordParam) (*Constructor, error) {
	sig, err := f.registry.Resolve(name, children)
	if err != nil {
		return nil, err
	}
	cp := make([]Value, len(children))
	copy(cp, children)
	node := Node{name: name, children: cp, kw: buildKwParams(kw)}
	return internValue(&Constructor{Node: node, sig: sig}), nil
}
