package compiler

// ast (Abstract Syntax Tree) defines a data structure representing a SQL
// program. This data structure is generated from the parser. Nodes are built
// bottom up in a single pass and are not modified afterwards.

type Stmt interface {
	stmt()
}

// SelectStmt is SELECT <Projection> [FROM <From>] [WHERE <Selection>].
type SelectStmt struct {
	// Projection is the result columns in output order.
	Projection []SelectItem
	// From is nil when the statement has no FROM clause.
	From *Table
	// Selection is the WHERE predicate. It is nil when there is no WHERE.
	Selection Expr
}

func (*SelectStmt) stmt() {}

// NoneStmt is only produced by a permissive parser when the input is not a
// statement it recognizes.
type NoneStmt struct{}

func (*NoneStmt) stmt() {}

// SelectItem is one entry of a projection.
type SelectItem interface {
	selectItem()
}

// UnnamedExpr is a projected expression without an alias.
type UnnamedExpr struct {
	Expr Expr
}

func (*UnnamedExpr) selectItem() {}

// Wildcard is * in a select statement for example SELECT * FROM foo
type Wildcard struct{}

func (*Wildcard) selectItem() {}

type Ident struct {
	Value string
}

// Table is the table a statement reads from. Schema and Alias are reserved for
// qualified and aliased names and are always nil for now.
type Table struct {
	Name   string
	Schema *string
	Alias  *string
}

const (
	OpAdd   = "+"
	OpSub   = "-"
	OpMul   = "*"
	OpDiv   = "/"
	OpEq    = "="
	OpNotEq = "<>"
	OpLt    = "<"
	OpLtEq  = "<="
	OpGt    = ">"
	OpGtEq  = ">="
)

type ExprVisitor interface {
	VisitIdentifier(*Identifier)
	VisitNumberLit(*NumberLit)
	VisitBinaryExpr(*BinaryExpr)
	VisitCallExpr(*CallExpr)
	VisitParenExpr(*ParenExpr)
	VisitWildcardArg(*WildcardArg)
}

// Expr defines the interface of an expression.
type Expr interface {
	// Walk implements the visitor pattern for a pre-order depth first walk.
	Walk(v ExprVisitor)
}

// Identifier is a bare name such as a column.
type Identifier struct {
	Ident Ident
}

func (i *Identifier) Walk(v ExprVisitor) {
	v.VisitIdentifier(i)
}

// NumberLit is an expression that is a literal integer such as "1".
type NumberLit struct {
	Value int64
}

func (n *NumberLit) Walk(v ExprVisitor) {
	v.VisitNumberLit(n)
}

// BinaryExpr is for an expression with two operands.
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (be *BinaryExpr) Walk(v ExprVisitor) {
	v.VisitBinaryExpr(be)
	be.Left.Walk(v)
	be.Right.Walk(v)
}

// CallExpr is a function call such as COUNT(*) or ABS(x).
type CallExpr struct {
	Name string
	Args []Expr
}

func (c *CallExpr) Walk(v ExprVisitor) {
	v.VisitCallExpr(c)
	for _, a := range c.Args {
		a.Walk(v)
	}
}

// ParenExpr is an expression wrapped in parentheses. It is kept in the tree so
// the original grouping can be recovered.
type ParenExpr struct {
	Inner Expr
}

func (p *ParenExpr) Walk(v ExprVisitor) {
	v.VisitParenExpr(p)
	p.Inner.Walk(v)
}

// WildcardArg is * as a function argument for example COUNT(*).
type WildcardArg struct{}

func (w *WildcardArg) Walk(v ExprVisitor) {
	v.VisitWildcardArg(w)
}
