package value

import (
	"math/big"
)

// Integer is an arbitrary-precision integer value, interned.
type Integer struct {
	v *big.Int
}

func (i *Integer) Hash() uint64            { return fnvString("i:" + i.v.String()) }
func (i *Integer) identityHash() uint64    { return i.Hash() }
func (i *Integer) identityEqual(o Value) bool { return i.Equal(o) }

func (i *Integer) Equal(other Value) bool {
	o, ok := other.(*Integer)
	return ok && i.v.Cmp(o.v) == 0
}

func (i *Integer) Type() Type { return Type{Kind: KindInteger} }

func (i *Integer) String() string { return i.v.String() }

func (i *Integer) Accept(v Visitor) any { return v.VisitInteger(i) }

// BigInt returns the underlying big.Int. Callers must not mutate the
// result: Integer values are immutable once published.
func (i *Integer) BigInt() *big.Int { return i.v }

// Rational is an arbitrary-precision rational value, always stored in
// lowest terms (big.Rat's own invariant), interned.
type Rational struct {
	v *big.Rat
}

func (r *Rational) Hash() uint64               { return fnvString("r:" + r.v.RatString()) }
func (r *Rational) identityHash() uint64       { return r.Hash() }
func (r *Rational) identityEqual(o Value) bool { return r.Equal(o) }

func (r *Rational) Equal(other Value) bool {
	o, ok := other.(*Rational)
	return ok && r.v.Cmp(o.v) == 0
}

func (r *Rational) Type() Type { return Type{Kind: KindRational} }

// String prints `num` when the denominator is 1, `num r den` otherwise,
// per spec.md §4.5's surface grammar for rationals.
func (r *Rational) String() string {
	if r.v.IsInt() {
		return r.v.Num().String()
	}
	return r.v.Num().String() + "r" + r.v.Denom().String()
}

func (r *Rational) Accept(v Visitor) any { return v.VisitRational(r) }

// BigRat returns the underlying big.Rat. Callers must not mutate the
// result.
func (r *Rational) BigRat() *big.Rat { return r.v }

// Real is a big.Float value carrying an explicit precision, interned.
// Two Real values are equal only when both their numeric value and
// their precision match: precision is part of a real's observable
// state, per spec.md §6's "real with configurable decimal precision".
type Real struct {
	v    *big.Float
	bits uint
}

func (r *Real) Hash() uint64 {
	return combineOrdered(fnvString("f:"+r.v.Text('g', -1)), uint64(r.bits))
}
func (r *Real) identityHash() uint64       { return r.Hash() }
func (r *Real) identityEqual(o Value) bool { return r.Equal(o) }

func (r *Real) Equal(other Value) bool {
	o, ok := other.(*Real)
	return ok && r.bits == o.bits && r.v.Cmp(o.v) == 0
}

func (r *Real) Type() Type { return Type{Kind: KindReal} }

func (r *Real) String() string {
	s := r.v.Text('g', -1)
	if !containsDotOrExp(s) {
		s += ".0"
	}
	return s
}

func (r *Real) Accept(v Visitor) any { return v.VisitReal(r) }

// BigFloat returns the underlying big.Float. Callers must not mutate
// the result.
func (r *Real) BigFloat() *big.Float { return r.v }

// Precision returns the bit precision this value was built with.
func (r *Real) Precision() uint { return r.bits }

func containsDotOrExp(s string) bool {
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}
