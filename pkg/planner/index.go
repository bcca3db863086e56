package planner

import (
	"strconv"
	"strings"
)

// IndexKey is a hashable, deterministic encoding of a variablized term,
// used as the FactIndex's map key. Two terms with the same structure and
// the same variable/constant positions produce the same IndexKey.
type IndexKey string

var (
	varSentinel = NewAtom("?")
	numSentinel = NewAtom("#NUM")
)

func isVarSentinelTerm(t Term) bool {
	a, ok := t.(*Atom)
	return ok && a.Value == varSentinel.Value
}

// indexKeyTerm replaces every variable in t with the sentinel "?" and,
// when numericBucketing is set, every numeric atom with "#NUM", per
// spec.md §3/§4.3 and original_source/py_plan/pattern_matching.py's
// index_key.
func indexKeyTerm(t Term, numericBucketing bool) Term {
	switch v := t.(type) {
	case *Var:
		return varSentinel
	case *Compound:
		elems := make([]Term, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = indexKeyTerm(e, numericBucketing)
		}
		return &Compound{Elements: elems}
	case *Atom:
		if numericBucketing && isNumericAtom(v) {
			return numSentinel
		}
		return v
	case *Callable:
		return NewAtom("fn:" + v.Name)
	default:
		return t
	}
}

// keyString renders an already-variablized key term into a canonical,
// unambiguous string for use as an IndexKey. Control bytes (not valid in
// quoted atom text) delimit compound boundaries so that distinct term
// shapes never collide.
func keyString(t Term) string {
	var sb strings.Builder
	writeKeyString(&sb, t)
	return sb.String()
}

func writeKeyString(sb *strings.Builder, t Term) {
	switch v := t.(type) {
	case *Atom:
		sb.WriteByte(0x04)
		sb.WriteString(quoteAtomValue(v.Value))
	case *Compound:
		sb.WriteByte(0x02)
		for i, e := range v.Elements {
			if i > 0 {
				sb.WriteByte(0x1f)
			}
			writeKeyString(sb, e)
		}
		sb.WriteByte(0x03)
	default:
		sb.WriteByte(0x04)
		sb.WriteString(strconv.Quote(t.String()))
	}
}

// variablizedKeys enumerates k, then every variant obtainable by
// independently replacing each sub-position (recursively) by the "?"
// sentinel, terminating with the fully-variablized "?" key. Duplicates
// are skipped. Ordering is the key itself first, then its
// variablizations in depth-first, right-before-left body iteration (so
// more-specific keys precede less-specific ones), matching
// original_source/py_plan/pattern_matching.py's get_variablized_keys
// (including its head-is-itself-a-tuple special case, where the whole
// tuple is treated as body with no fixed head).
func variablizedKeys(k Term) []Term {
	seen := map[string]bool{}
	var out []Term
	emit := func(t Term) {
		s := keyString(t)
		if !seen[s] {
			seen[s] = true
			out = append(out, t)
		}
	}
	for _, v := range expandVariablizations(k) {
		emit(v)
	}
	return out
}

// expandVariablizations returns k's own variant list: itself first, then
// every positional variablization, then the bare "?" sentinel (unless k
// already is "?").
func expandVariablizations(k Term) []Term {
	variants := []Term{k}

	if c, ok := k.(*Compound); ok && len(c.Elements) > 0 {
		var head Term
		var body []Term
		if _, headIsCompound := c.Elements[0].(*Compound); headIsCompound {
			head = nil
			body = c.Elements
		} else {
			head = c.Elements[0]
			body = c.Elements[1:]
		}

		childVariants := make([][]Term, len(body))
		for i, e := range body {
			childVariants[i] = expandVariablizations(e)
		}

		for _, combo := range cartesianProduct(childVariants) {
			var elems []Term
			if head != nil {
				elems = append(elems, head)
			}
			elems = append(elems, combo...)
			candidate := &Compound{Elements: elems}
			if !candidate.Equal(k) {
				variants = append(variants, candidate)
			}
		}
	}

	if !isVarSentinelTerm(k) {
		variants = append(variants, varSentinel)
	}
	return variants
}

// cartesianProduct enumerates the product of lists, varying the last
// list fastest, matching Python's itertools.product default order (and
// hence the "right-before-left" ordering spec.md §4.3 calls for).
func cartesianProduct(lists [][]Term) [][]Term {
	if len(lists) == 0 {
		return [][]Term{{}}
	}
	rest := cartesianProduct(lists[1:])
	var out [][]Term
	for _, head := range lists[0] {
		for _, tail := range rest {
			combo := make([]Term, 0, len(tail)+1)
			combo = append(combo, head)
			combo = append(combo, tail...)
			out = append(out, combo)
		}
	}
	return out
}

// FactIndex maps IndexKeys to the ordered list of facts matching that key
// pattern, supporting O(1) amortized lookup of unification candidates for
// any partially-instantiated query term.
type FactIndex struct {
	buckets          map[IndexKey][]Term
	numericBucketing bool
}

// NewFactIndex returns an empty index.
func NewFactIndex(numericBucketing bool) *FactIndex {
	return &FactIndex{buckets: map[IndexKey][]Term{}, numericBucketing: numericBucketing}
}

// BuildIndex populates a FactIndex from facts: for each fact F, for each
// K in variablizedKeys(indexKeyTerm(F)), F is appended to buckets[K].
// Ordering inside a bucket reflects insertion order; duplicates are
// permitted, matching spec.md §4.3.
func BuildIndex(facts []Term, numericBucketing bool) *FactIndex {
	idx := NewFactIndex(numericBucketing)
	for _, f := range facts {
		idx.Add(f)
	}
	return idx
}

// Add inserts a single fact into the index.
func (idx *FactIndex) Add(fact Term) {
	base := indexKeyTerm(fact, idx.numericBucketing)
	for _, variant := range variablizedKeys(base) {
		k := IndexKey(keyString(variant))
		idx.buckets[k] = append(idx.buckets[k], fact)
	}
}

// Key computes the IndexKey a query term q would be looked up under. q
// is used as given; Lookup is the variant that substitutes sigma into q
// first.
func (idx *FactIndex) Key(q Term) IndexKey {
	return IndexKey(keyString(indexKeyTerm(q, idx.numericBucketing)))
}

// Bucket returns the candidate facts stored under key. The returned slice
// must not be mutated by the caller.
func (idx *FactIndex) Bucket(key IndexKey) []Term {
	return idx.buckets[key]
}

// Lookup returns the unification candidates for query term q under
// substitution sigma: Substitute(sigma, q)'s IndexKey bucket.
func (idx *FactIndex) Lookup(q Term, sigma *Substitution) []Term {
	bound := Substitute(sigma, q)
	return idx.Bucket(idx.Key(bound))
}

// Contains reports whether fact is present (by structural equality)
// within the candidate bucket for fact's own key; it is used by the
// matcher to resolve already-ground positive atoms without a full branch
// search.
func (idx *FactIndex) Contains(fact Term) bool {
	for _, f := range idx.Bucket(idx.Key(fact)) {
		if f.Equal(fact) {
			return true
		}
	}
	return false
}
