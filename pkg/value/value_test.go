package value

import (
	"math/big"
	"net/url"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEqualityIsReflexiveSymmetricTransitive(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	a := f.List(f.IntegerFromInt64(1), f.String("x"))
	b := f.List(f.IntegerFromInt64(1), f.String("x"))
	d := f.List(f.IntegerFromInt64(1), f.String("x"))

	c.Assert(a.Equal(a), qt.IsTrue)          // reflexive
	c.Assert(a.Equal(b), qt.IsTrue)          // a == b
	c.Assert(b.Equal(a), qt.IsTrue)          // symmetric
	c.Assert(b.Equal(d), qt.IsTrue)
	c.Assert(a.Equal(d), qt.IsTrue)          // transitive
}

func TestEqualityIsFalseAcrossKinds(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	i := f.IntegerFromInt64(1)
	s := f.String("1")
	c.Assert(i.Equal(s), qt.IsFalse)
	c.Assert(s.Equal(i), qt.IsFalse)
}

func TestHashRespectsEquality(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	pairs := []struct {
		a, b Value
	}{
		{f.IntegerFromInt64(42), f.IntegerFromInt64(42)},
		{f.String("hello"), f.String("hello")},
		{f.Boolean(true), f.Boolean(true)},
		{f.List(f.IntegerFromInt64(1), f.IntegerFromInt64(2)), f.List(f.IntegerFromInt64(1), f.IntegerFromInt64(2))},
		{f.Set(f.IntegerFromInt64(1), f.IntegerFromInt64(2)), f.Set(f.IntegerFromInt64(2), f.IntegerFromInt64(1))},
	}
	for _, p := range pairs {
		c.Assert(p.a.Equal(p.b), qt.IsTrue)
		c.Assert(p.a.Hash(), qt.Equals, p.b.Hash())
	}
}

func TestRationalDomainErrorOnZeroDenominator(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()
	_, err := f.Rational(big.NewInt(1), big.NewInt(0))
	c.Assert(err, qt.Not(qt.IsNil))
	var domainErr *DomainError
	c.Assert(err, qt.ErrorAs, &domainErr)
}

func TestLiteralsWithoutFieldLabelsCarryUnlabelledType(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()
	n := f.Node("pair", f.IntegerFromInt64(1), f.IntegerFromInt64(2))
	c.Assert(n.Type().HasFieldNames(), qt.IsFalse)
}

func TestConstructorWithDeclaredFieldsCarriesFieldNames(t *testing.T) {
	c := qt.New(t)
	r := NewConstructorRegistry()
	r.Declare("point", Type{
		Children:   []Type{ValueType, ValueType},
		FieldNames: []string{"x", "y"},
	}, nil)
	f := NewFactoryWithRegistry(r)

	v, err := f.Constructor("point", []Value{f.IntegerFromInt64(1), f.IntegerFromInt64(2)}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(v.Type().HasFieldNames(), qt.IsTrue)
}

func TestConstructorArityErrorAndOverloadError(t *testing.T) {
	c := qt.New(t)
	r := NewConstructorRegistry()
	r.Declare("f", Type{Children: []Type{ValueType}}, nil)
	fac := NewFactoryWithRegistry(r)

	_, err := fac.Constructor("f", []Value{fac.IntegerFromInt64(1), fac.IntegerFromInt64(2)}, nil)
	c.Assert(err, qt.Not(qt.IsNil))
	var arityErr *ArityError
	c.Assert(err, qt.ErrorAs, &arityErr)

	r2 := NewConstructorRegistry()
	r2.Declare("g", Type{Children: []Type{ValueType}}, nil)
	r2.Declare("g", Type{Children: []Type{ValueType}}, nil)
	fac2 := NewFactoryWithRegistry(r2)
	_, err = fac2.Constructor("g", []Value{fac2.IntegerFromInt64(1)}, nil)
	c.Assert(err, qt.Not(qt.IsNil))
	var overloadErr *OverloadError
	c.Assert(err, qt.ErrorAs, &overloadErr)
}

func TestNodeEqualityIgnoresKeywordsButIdentityDoesNot(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	n1 := f.NodeWithKeywords("p", []Value{f.IntegerFromInt64(1)}, []KeywordParam{{Name: "k", Value: f.String("a")}})
	n2 := f.NodeWithKeywords("p", []Value{f.IntegerFromInt64(1)}, []KeywordParam{{Name: "k", Value: f.String("b")}})

	c.Assert(n1.Equal(n2), qt.IsTrue) // public equality ignores keyword params

	var id1, id2 identity = n1, n2
	c.Assert(id1.identityEqual(n2), qt.IsFalse) // hash-consing identity does not
	c.Assert(id1.identityHash() == id2.identityHash(), qt.IsFalse)
}

func TestFactoryInternsEquivalentValuesToSameInstance(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	a := f.IntegerFromInt64(123456789)
	b := f.IntegerFromInt64(123456789)
	c.Assert(a, qt.Equals, b) // pointer identity
}

func TestSourceLocationDomainErrors(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()
	u, _ := url.Parse("file:///tmp/x")

	_, err := f.SourceLocationSpan(u, -1, 3)
	c.Assert(err, qt.Not(qt.IsNil))

	_, err = f.SourceLocationBox(u, 0, 1, 5, 0, 2, 0)
	c.Assert(err, qt.Not(qt.IsNil))

	loc, err := f.SourceLocationBox(u, 0, 1, 1, 0, 1, 5)
	c.Assert(err, qt.IsNil)
	c.Assert(loc.String(), qt.Equals, "|file:///tmp/x|(0,1,<1,0>,<1,5>)")
}

func TestMapAndSetStringFormsAreDeterministic(t *testing.T) {
	c := qt.New(t)
	f := NewFactory()

	m := f.Map(MapEntry{Key: f.IntegerFromInt64(2), Value: f.String("b")})
	c.Assert(m.String(), qt.Equals, `(2:"b")`)

	s := f.Set(f.IntegerFromInt64(2))
	c.Assert(s.String(), qt.Equals, `{2}`)
}
