// Package milp implements the small generic mixed-integer linear program
// abstraction the trading core's two solvers (business plan, contract
// signer) are built on: variable creation, linear-sum objective/constraint
// assembly, solve, and per-variable readout, independent of any specific
// backend.
//
// No Go MILP/LP binding is available (CBC, HiGHS, GLPK, and Gurobi
// bindings are all absent), and this codebase's own numerical
// optimizer elsewhere (a mean-variance portfolio allocator) is itself
// hand-rolled rather than delegated to an external solver. This package
// follows that precedent: an exact branch-and-bound solver over a
// dense-tableau bounded-variable simplex relaxation, entirely on the
// standard library. See DESIGN.md for the dependency-ledger entry.
package milp

import "fmt"

// Sense is the comparison operator of a linear constraint.
type Sense int

const (
	LE Sense = iota // <=
	GE              // >=
	EQ              // ==
)

// VarKind distinguishes binary decision variables from continuous ones.
// Every variable this module's callers create is binary, but the solver
// itself is written against the general bounded-variable case.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

// Var is a handle to a decision variable within a Model.
type Var struct {
	id int
}

type varDef struct {
	name string
	kind VarKind
	lb   float64
	ub   float64
}

// Term is one addend of a linear expression: coefficient * variable.
type Term struct {
	Var   Var
	Coeff float64
}

// Expr is a linear expression, the sum of its Terms.
type Expr []Term

// Sum builds an expression from a set of terms.
func Sum(terms ...Term) Expr { return Expr(terms) }

// Plus returns coeff*v as a single-term expression, for building up sums
// with ordinary `+` in caller code via append.
func Plus(coeff float64, v Var) Term { return Term{Var: v, Coeff: coeff} }

type constraint struct {
	expr  Expr
	sense Sense
	rhs   float64
}

// Model is a maximization MILP: an objective expression over binary (or
// bounded-continuous) variables plus a set of linear constraints.
type Model struct {
	vars        []varDef
	objective   Expr
	constraints []constraint
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// AddBinaryVar creates a new 0/1 decision variable.
func (m *Model) AddBinaryVar(name string) Var {
	id := len(m.vars)
	m.vars = append(m.vars, varDef{name: name, kind: Binary, lb: 0, ub: 1})
	return Var{id: id}
}

// SetObjective replaces the model's (maximized) objective expression.
func (m *Model) SetObjective(e Expr) {
	m.objective = e
}

// AddConstraint adds `expr sense rhs` to the model.
func (m *Model) AddConstraint(e Expr, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, constraint{expr: e, sense: sense, rhs: rhs})
}

// FixVar pins v to exactly value via an equality constraint. Used for the
// business plan solver's initial-state pinning.
func (m *Model) FixVar(v Var, value float64) {
	m.AddConstraint(Expr{{Var: v, Coeff: 1}}, EQ, value)
}

func (m *Model) numVars() int { return len(m.vars) }

func (m *Model) String() string {
	return fmt.Sprintf("milp.Model{vars=%d constraints=%d}", len(m.vars), len(m.constraints))
}
