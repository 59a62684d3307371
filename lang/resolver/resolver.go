// Package resolver implements the two-phase name resolver of spec.md §4.2:
// a collect pass assigns a NodeID to every declaration-shaped AST node, and
// a resolve pass walks the tree a second time, pushing and popping lexical
// scopes, to bind every identifier use and type stub to the declaration it
// names. Like every other stage, the resolver never aborts on a fault: an
// unresolved reference keeps a nil Resolved slot and is recorded in the
// diagnostics bag, so downstream stages still see a well-formed tree.
package resolver

import (
	"strings"

	"github.com/soul-lang/soulc/lang/ast"
	"github.com/soul-lang/soulc/lang/diag"
	"github.com/soul-lang/soulc/lang/ids"
)

// Resolver holds the state shared by both passes of a single resolution:
// the NodeID generator (shared across every stage of the pipeline, per
// spec.md §5) and the diagnostics bag.
type Resolver struct {
	gen   *ids.Generator[ast.NodeID]
	diags *diag.Bag
}

// New creates a Resolver that allocates NodeIDs from gen and reports faults
// into diags.
func New(gen *ids.Generator[ast.NodeID], diags *diag.Bag) *Resolver {
	return &Resolver{gen: gen, diags: diags}
}

// Resolve runs both passes over f, mutating its AST nodes in place: filling
// every Resolved/DeclNodeID slot, binding every IdentExpr.Resolved and
// CallExpr.Candidates, and rewriting resolvable ast.StubType bases.
func (r *Resolver) Resolve(f *ast.File) {
	r.collectStmts(f.Statements)
	top := newScope(nil)
	r.resolveStmts(top, f.Statements)
}

func (r *Resolver) alloc() ast.NodeID { return r.gen.Alloc() }

func (r *Resolver) errorf(sp ast.Node, kind diag.Kind, format string, args ...any) {
	span := sp.Span()
	r.diags.Errorf(kind, &span, format, args...)
}

// --- collect pass --------------------------------------------------------

func (r *Resolver) collectStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.collectStmt(s)
	}
}

func (r *Resolver) collectStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VariableDecl:
		id := r.alloc()
		n.Resolved = &id
		r.collectExpr(n.Init)
	case *ast.FunctionDecl:
		id := r.alloc()
		n.Resolved = &id
		r.collectStmts(n.Body.Stmts)
	case *ast.NominalDecl:
		id := r.alloc()
		n.Resolved = &id
		for _, m := range n.Methods {
			r.collectStmt(m)
		}
	case *ast.ForStmt:
		id := r.alloc()
		n.Resolved = &id
		r.collectExpr(n.Collection)
		r.collectStmts(n.Body.Stmts)
	case *ast.UseStmt:
		id := r.alloc()
		n.Resolved = &id
	case *ast.ImportStmt:
		id := r.alloc()
		n.Resolved = &id
	case *ast.AssignStmt:
		r.collectExpr(n.Target)
		r.collectExpr(n.Value)
	case *ast.CompoundAssignStmt:
		r.collectExpr(n.Target)
		r.collectExpr(n.Value)
	case *ast.ExprStmt:
		r.collectExpr(n.Value)
	case *ast.ReturnStmt:
		r.collectExpr(n.Value)
	case *ast.BreakStmt:
		r.collectExpr(n.Value)
	case *ast.FallStmt:
		r.collectExpr(n.Value)
	case *ast.BlockStmt:
		r.collectStmts(n.Body.Stmts)
	case *ast.IfStmt:
		r.collectIfExpr(n.If)
	case *ast.WhileStmt:
		r.collectExpr(n.While.Cond)
		r.collectStmts(n.While.Body.Stmts)
	}
}

func (r *Resolver) collectIfExpr(ie *ast.IfExpr) {
	r.collectExpr(ie.Cond)
	r.collectStmts(ie.Then.Stmts)
	if ie.Arm == nil {
		return
	}
	if ie.Arm.ElseIf != nil {
		r.collectIfExpr(ie.Arm.ElseIf)
	}
	if ie.Arm.Else != nil {
		r.collectStmts(ie.Arm.Else.Stmts)
	}
}

func (r *Resolver) collectExpr(e ast.Expr) {
	switch n := e.(type) {
	case nil:
	case *ast.UnaryExpr:
		r.collectExpr(n.Operand)
	case *ast.PostfixExpr:
		r.collectExpr(n.Operand)
	case *ast.BinaryExpr:
		r.collectExpr(n.Left)
		r.collectExpr(n.Right)
	case *ast.IndexExpr:
		r.collectExpr(n.Base)
		r.collectExpr(n.Index)
	case *ast.FieldExpr:
		r.collectExpr(n.Base)
	case *ast.CallExpr:
		r.collectExpr(n.Callee)
		for _, a := range n.Args {
			r.collectExpr(a)
		}
	case *ast.AsExpr:
		r.collectExpr(n.Value)
	case *ast.IfExpr:
		r.collectIfExpr(n)
	case *ast.WhileExpr:
		r.collectExpr(n.Cond)
		r.collectStmts(n.Body.Stmts)
	case *ast.BlockExpr:
		r.collectStmts(n.Body.Stmts)
	case *ast.ArrayExpr:
		for _, el := range n.Elems {
			r.collectExpr(el)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elems {
			r.collectExpr(el)
		}
	case *ast.MatchExpr:
		r.collectExpr(n.Subject)
		for _, arm := range n.Arms {
			r.collectExpr(arm.Pattern)
			r.collectExpr(arm.Body)
		}
	}
}

// --- resolve pass ----------------------------------------------------------

// resolveStmts resolves a statement list under a freshly entered scope's
// block. FunctionDecl and NominalDecl names are hoisted first so that
// mutually recursive functions and forward-referenced types resolve,
// matching the "collect pass assigns NodeIds... resolve pass binds uses to
// declarations" ordering of spec.md §4.2 applied per-block.
func (r *Resolver) resolveStmts(sc *scope, stmts []ast.Stmt) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.FunctionDecl:
			sc.declareValue(n.Name, *n.Resolved)
		case *ast.NominalDecl:
			if !sc.declareType(n.Name, *n.Resolved) {
				r.errorf(n, diag.ScopeOverride, "%s is already declared in this scope", n.Name)
			}
		}
	}
	for _, s := range stmts {
		r.resolveStmt(sc, s)
	}
}

func (r *Resolver) resolveStmt(sc *scope, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VariableDecl:
		r.resolveExpr(sc, n.Init)
		if n.Type != nil {
			r.resolveType(sc, n.Type)
		}
		if sc.declareVariable(n.Name, *n.Resolved) {
			r.errorf(n, diag.ScopeOverride, "%s is already declared in this scope", n.Name)
		}
	case *ast.FunctionDecl:
		fnScope := newScope(sc)
		for _, g := range n.Generics {
			fnScope.declareType(g, r.alloc())
		}
		for i := range n.Params {
			r.resolveType(fnScope, n.Params[i].Type)
			fnScope.declareValue(n.Params[i].Name, r.alloc())
		}
		if n.ReturnType != nil {
			r.resolveType(fnScope, n.ReturnType)
		}
		r.resolveStmts(fnScope, n.Body.Stmts)
	case *ast.NominalDecl:
		nominalScope := newScope(sc)
		for _, g := range n.Generics {
			nominalScope.declareType(g, r.alloc())
		}
		for i := range n.Fields {
			r.resolveType(nominalScope, n.Fields[i].Type)
		}
		for _, m := range n.Methods {
			r.resolveStmt(nominalScope, m)
		}
	case *ast.ForStmt:
		r.resolveExpr(sc, n.Collection)
		bodyScope := newScope(sc)
		bodyScope.declareValue(n.Pattern, *n.Resolved)
		r.resolveStmts(bodyScope, n.Body.Stmts)
	case *ast.UseStmt:
		sc.declareValue(lastPathSegment(n.Path), *n.Resolved)
	case *ast.ImportStmt:
		sc.declareValue(lastPathSegment(n.Path), *n.Resolved)
	case *ast.AssignStmt:
		r.resolveExpr(sc, n.Target)
		r.resolveExpr(sc, n.Value)
	case *ast.CompoundAssignStmt:
		r.resolveExpr(sc, n.Target)
		r.resolveExpr(sc, n.Value)
	case *ast.ExprStmt:
		r.resolveExpr(sc, n.Value)
	case *ast.ReturnStmt:
		r.resolveExpr(sc, n.Value)
	case *ast.BreakStmt:
		r.resolveExpr(sc, n.Value)
	case *ast.FallStmt:
		r.resolveExpr(sc, n.Value)
	case *ast.BlockStmt:
		r.resolveStmts(newScope(sc), n.Body.Stmts)
	case *ast.IfStmt:
		r.resolveIfExpr(sc, n.If)
	case *ast.WhileStmt:
		if n.While.Cond != nil {
			r.resolveExpr(sc, n.While.Cond)
		}
		r.resolveStmts(newScope(sc), n.While.Body.Stmts)
	}
}

func (r *Resolver) resolveIfExpr(sc *scope, ie *ast.IfExpr) {
	r.resolveExpr(sc, ie.Cond)
	r.resolveStmts(newScope(sc), ie.Then.Stmts)
	if ie.Arm == nil {
		return
	}
	if ie.Arm.ElseIf != nil {
		r.resolveIfExpr(sc, ie.Arm.ElseIf)
	}
	if ie.Arm.Else != nil {
		r.resolveStmts(newScope(sc), ie.Arm.Else.Stmts)
	}
}

func (r *Resolver) resolveExpr(sc *scope, e ast.Expr) {
	switch n := e.(type) {
	case nil:
	case *ast.IdentExpr:
		candidates, ok := sc.lookupValue(n.Name)
		if !ok {
			r.errorf(n, diag.NotFoundInScope, "%q is not declared in this scope", n.Name)
			return
		}
		resolved := candidates[len(candidates)-1]
		n.Resolved = &resolved
	case *ast.UnaryExpr:
		r.resolveExpr(sc, n.Operand)
	case *ast.PostfixExpr:
		r.resolveExpr(sc, n.Operand)
	case *ast.BinaryExpr:
		r.resolveExpr(sc, n.Left)
		r.resolveExpr(sc, n.Right)
	case *ast.IndexExpr:
		r.resolveExpr(sc, n.Base)
		r.resolveExpr(sc, n.Index)
	case *ast.FieldExpr:
		r.resolveExpr(sc, n.Base)
	case *ast.CallExpr:
		r.resolveCall(sc, n)
	case *ast.AsExpr:
		r.resolveExpr(sc, n.Value)
		r.resolveType(sc, n.CastTo)
	case *ast.IfExpr:
		r.resolveIfExpr(sc, n)
	case *ast.WhileExpr:
		if n.Cond != nil {
			r.resolveExpr(sc, n.Cond)
		}
		r.resolveStmts(newScope(sc), n.Body.Stmts)
	case *ast.BlockExpr:
		r.resolveStmts(newScope(sc), n.Body.Stmts)
	case *ast.ArrayExpr:
		for _, el := range n.Elems {
			r.resolveExpr(sc, el)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elems {
			r.resolveExpr(sc, el)
		}
	case *ast.MatchExpr:
		r.resolveExpr(sc, n.Subject)
		for _, arm := range n.Arms {
			r.resolveExpr(sc, arm.Pattern)
			r.resolveExpr(sc, arm.Body)
		}
	}
}

// resolveCall binds a plain `name(...)` call to its full overload candidate
// vector (spec.md §4.2: "collects the entire candidate vector... into
// candidates", leaving inference to pick the single match). A method-style
// call (`base.name(...)`) cannot be bound without the receiver's type, so
// its candidate narrowing is left to type inference (spec.md §4.4 scenario
// 6) — the resolver only resolves the receiver expression here.
func (r *Resolver) resolveCall(sc *scope, call *ast.CallExpr) {
	if ident, ok := call.Callee.(*ast.IdentExpr); ok {
		candidates, ok := sc.lookupCallCandidates(ident.Name)
		if !ok {
			r.errorf(call, diag.NotFoundInScope, "%q is not declared in this scope", ident.Name)
		} else {
			call.Candidates = candidates
			last := candidates[len(candidates)-1]
			ident.Resolved = &last
		}
	} else {
		r.resolveExpr(sc, call.Callee)
	}
	for _, a := range call.Args {
		r.resolveExpr(sc, a)
	}
}

// resolveType rewrites a StubType base in place once its declaration is
// found (spec.md §4.2 "the resolver rewrites it in place to a resolved
// TypeKind variant"). An unresolved stub is left as-is and reported.
func (r *Resolver) resolveType(sc *scope, ty *ast.Type) {
	if ty == nil {
		return
	}
	for _, w := range ty.Wrappers {
		if w.Len != nil {
			r.resolveExpr(sc, w.Len)
		}
	}
	switch base := ty.Base.(type) {
	case *ast.StubType:
		id, ok := sc.lookupType(base.Name)
		if !ok {
			r.errorf(ty, diag.NotFoundInScope, "type %q is not declared in this scope", base.Name)
			return
		}
		base.ResolvedAs = &ast.Resolved{Kind: ast.ResolvedStruct, ID: id}
	case ast.TupleType:
		for _, elem := range base.Elems {
			r.resolveType(sc, elem)
		}
	case ast.NamedTupleType:
		for i := range base.Fields {
			r.resolveType(sc, base.Fields[i].Type)
		}
	}
}

func lastPathSegment(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
