package config

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestZeroValueReadsDefault(t *testing.T) {
	c := qt.New(t)
	var p Precision
	c.Assert(p.Get(), qt.Equals, uint(defaultBits))
}

func TestSetThenGet(t *testing.T) {
	c := qt.New(t)
	var p Precision
	p.Set(128)
	c.Assert(p.Get(), qt.Equals, uint(128))
}

func TestSetZeroPanics(t *testing.T) {
	c := qt.New(t)
	var p Precision
	c.Assert(func() { p.Set(0) }, qt.PanicMatches, `config: precision must be non-zero`)
}
