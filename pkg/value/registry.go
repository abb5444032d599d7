package value

// signature is one registered overload of a constructor name. Its
// parameter types live in sig.Children; there is no separate copy.
type signature struct {
	sig     Type
	checker TypeChecker
}

// ConstructorRegistry maps a constructor name to the one or more
// signatures it may resolve to, realizing spec.md §6's "constructor
// application" and its ArityError/TypeError/OverloadError trio.
type ConstructorRegistry struct {
	byName map[string][]signature
}

// NewConstructorRegistry returns an empty registry.
func NewConstructorRegistry() *ConstructorRegistry {
	return &ConstructorRegistry{byName: make(map[string][]signature)}
}

// Declare registers one signature for name: an arity-and-field-name
// shaped Type (built with Children holding each positional parameter's
// declared type, and FieldNames set when the declaration names its
// fields) plus the TypeChecker used to validate actual arguments.
// Passing the same name more than once adds an overload rather than
// replacing the previous declaration.
func (r *ConstructorRegistry) Declare(name string, sig Type, checker TypeChecker) {
	sig.Kind = KindConstructor
	sig.Name = name
	r.byName[name] = append(r.byName[name], signature{sig: sig, checker: checker})
}

// Resolve picks the signature registered under name whose arity and
// (via checker) parameter types accept children. It returns
// DomainError when name was never declared, ArityError when every
// declared signature's arity disagrees with len(children), TypeError
// when exactly one candidate matches on arity but rejects a child's
// type, and OverloadError when more than one declared signature
// accepts children.
func (r *ConstructorRegistry) Resolve(name string, children []Value) (Type, error) {
	candidates, ok := r.byName[name]
	if !ok {
		return Type{}, &DomainError{Which: "unknown constructor name", Value: name}
	}

	var arityMatches []signature
	for _, c := range candidates {
		if len(c.sig.Children) == len(children) {
			arityMatches = append(arityMatches, c)
		}
	}
	if len(arityMatches) == 0 {
		return Type{}, &ArityError{Expected: len(candidates[0].sig.Children), Actual: len(children)}
	}

	var matches []signature
	var lastMismatch *TypeError
	for _, c := range arityMatches {
		checker := c.checker
		if checker == nil {
			checker = DefaultTypeChecker
		}
		ok := true
		for i, pt := range c.sig.Children {
			if !checker(children[i], pt) {
				ok = false
				lastMismatch = &TypeError{Expected: pt, Actual: children[i].Type()}
				break
			}
		}
		if ok {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return Type{}, lastMismatch
	case 1:
		return matches[0].sig, nil
	default:
		sigs := make([]Type, len(matches))
		for i, m := range matches {
			sigs[i] = m.sig
		}
		return Type{}, &OverloadError{Name: name, Candidates: sigs}
	}
}
