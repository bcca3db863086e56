package planner

// Substitution is a finite, immutable mapping from variable names to
// terms. Substitutions never mutate in place: Bind returns a new
// Substitution sharing the old bindings, following the copy-on-extend
// style of gokanlogic's core.go Substitution.Bind.
//
// Implementations are expected never to build cyclic bindings unless the
// caller explicitly requests occur-check to be skipped (the default) and
// then constructs one anyway; walk() does not guard against infinite
// loops.
type Substitution struct {
	bindings map[string]Term
}

// NewSubstitution returns the empty substitution.
func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[string]Term{}}
}

// Lookup returns the term bound to name, if any.
func (s *Substitution) Lookup(name string) (Term, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.bindings[name]
	return t, ok
}

// IsBound reports whether name has a binding in s.
func (s *Substitution) IsBound(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Bind returns a new substitution extending s with name -> term.
func (s *Substitution) Bind(name string, term Term) *Substitution {
	next := make(map[string]Term, len(s.bindings)+1)
	for k, v := range s.bindings {
		next[k] = v
	}
	next[name] = term
	return &Substitution{bindings: next}
}

// Size returns the number of bindings in s.
func (s *Substitution) Size() int { return len(s.bindings) }

// Names returns the set of bound variable names.
func (s *Substitution) Names() map[string]bool {
	out := make(map[string]bool, len(s.bindings))
	for k := range s.bindings {
		out[k] = true
	}
	return out
}

// String renders the substitution for debugging.
func (s *Substitution) String() string {
	if s == nil || len(s.bindings) == 0 {
		return "{}"
	}
	out := "{"
	first := true
	for k, v := range s.bindings {
		if !first {
			out += ", "
		}
		out += k + ": " + v.String()
		first = false
	}
	return out + "}"
}

// Substitute applies s to x: every variable bound in s is replaced by its
// binding, and every compound has Substitute applied to each of its
// elements. Substitute does not recurse into a substituted binding's own
// value (idempotence of repeated substitution is the caller's concern),
// matching spec.md §4.1 exactly.
func Substitute(s *Substitution, x Term) Term {
	switch v := x.(type) {
	case *Var:
		if bound, ok := s.Lookup(v.Name); ok {
			return bound
		}
		return x
	case *Compound:
		elems := make([]Term, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = Substitute(s, e)
		}
		return &Compound{Elements: elems}
	default:
		return x
	}
}

// walk follows a chain of variable bindings in s until it reaches an
// unbound variable or a non-variable term. Unlike Substitute, walk does
// recurse through chained bindings; it is used internally by Unify, which
// needs full dereferencing, while Substitute implements the single-level
// semantics spec.md requires for pattern and effect instantiation.
func walk(s *Substitution, t Term) Term {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound, ok := s.Lookup(v.Name)
		if !ok {
			return t
		}
		t = bound
	}
}
