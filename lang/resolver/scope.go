package resolver

import (
	"github.com/dolthub/swiss"

	"github.com/soul-lang/soulc/lang/ast"
)

// scope is one lexical scope in the LIFO scope tree of spec.md §4.2. Values
// and types are kept in separate tables: a name may simultaneously name a
// variable/function and a struct/class/trait/enum/union without collision.
// Values is vector-valued so overload resolution (multiple FunctionDecl
// with the same name) has a candidate list to narrow down during type
// inference (spec.md §4.4 scenario 6), matching dolthub/swiss's use
// elsewhere in this module as the backing hash map.
type scope struct {
	parent *scope
	values *swiss.Map[string, []ast.NodeID]
	types  *swiss.Map[string, ast.NodeID]
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,
		values: swiss.NewMap[string, []ast.NodeID](8),
		types:  swiss.NewMap[string, ast.NodeID](8),
	}
}

// declareValue appends id to name's candidate vector in this scope,
// shadowing (not erroring on) same-named values in enclosing scopes. Used
// for overload declarations (FunctionDecl), which are intentionally
// multi-valued in the same scope.
func (s *scope) declareValue(name string, id ast.NodeID) {
	existing, _ := s.values.Get(name)
	s.values.Put(name, append(existing, id))
}

// declareVariable behaves like declareValue but reports whether name
// already had an entry in this exact scope, so the caller can log
// ScopeOverride for same-scope variable redeclaration (spec.md §4.2: "in
// the same scope, a second declaration of the same name logs a
// scope-override fault but continues (the latest wins)"). Appending (rather
// than replacing) keeps lookupValue's "innermost entry wins" behavior, which
// already gives the "latest wins" half of that rule.
func (s *scope) declareVariable(name string, id ast.NodeID) bool {
	existing, ok := s.values.Get(name)
	s.values.Put(name, append(existing, id))
	return ok
}

// declareType registers name in the type table of this scope. It reports
// false if name is already declared in this exact scope (spec.md §6
// ScopeOverride): redeclaring a type in the same block is a fault, unlike
// values, which are allowed to shadow.
func (s *scope) declareType(name string, id ast.NodeID) bool {
	if _, ok := s.types.Get(name); ok {
		return false
	}
	s.types.Put(name, id)
	return true
}

// lookupValue walks outward from s, returning the nearest scope's candidate
// vector for name. Used for plain variable references, where only the
// innermost binding is visible (shadowing).
func (s *scope) lookupValue(name string) ([]ast.NodeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if ids, ok := cur.values.Get(name); ok {
			return ids, true
		}
	}
	return nil, false
}

// lookupCallCandidates walks outward from s, concatenating every enclosing
// scope's candidate vector for name into one list, innermost-first (spec.md
// §4.2: call lookups "return all candidates from all enclosing scopes,
// innermost-first"). Distinct from lookupValue's single-scope-wins
// resolution: an outer overload of the same name must not disappear just
// because a nested scope also declares one.
func (s *scope) lookupCallCandidates(name string) ([]ast.NodeID, bool) {
	var out []ast.NodeID
	for cur := s; cur != nil; cur = cur.parent {
		if ids, ok := cur.values.Get(name); ok {
			out = append(out, ids...)
		}
	}
	return out, len(out) > 0
}

// lookupType walks outward from s, returning the nearest scope's type
// binding for name.
func (s *scope) lookupType(name string) (ast.NodeID, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.types.Get(name); ok {
			return id, true
		}
	}
	return ast.ErrorNodeID, false
}
