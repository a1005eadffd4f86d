package lang

// Node is the interface all AST nodes implement. The set of node types is
// closed: NumberLit, VarRef, BinaryExpr, PowExpr and FuncCall. Nodes are never
// mutated after construction; Derive and Simplify build new trees.
type Node interface {
	nodeTag()
}

// NumberLit represents a numeric constant. Name is set for the named
// constants pi and e so they render symbolically.
type NumberLit struct {
	Value float64
	Name  string
}

// VarRef represents the independent variable x.
type VarRef struct{}

// BinaryExpr represents an addition, subtraction, multiplication or division.
type BinaryExpr struct {
	Op    TokenType // TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH
	Left  Node
	Right Node
}

// PowExpr represents Base ^ Exp.
type PowExpr struct {
	Base Node
	Exp  Node
}

// FuncCall represents a call of a built-in single-argument function like sin(x).
type FuncCall struct {
	Name string
	Arg  Node
}

func (*NumberLit) nodeTag()  {}
func (*VarRef) nodeTag()     {}
func (*BinaryExpr) nodeTag() {}
func (*PowExpr) nodeTag()    {}
func (*FuncCall) nodeTag()   {}

func num(v float64) *NumberLit { return &NumberLit{Value: v} }

func add(l, r Node) *BinaryExpr { return &BinaryExpr{Op: TOKEN_PLUS, Left: l, Right: r} }
func sub(l, r Node) *BinaryExpr { return &BinaryExpr{Op: TOKEN_MINUS, Left: l, Right: r} }
func mul(l, r Node) *BinaryExpr { return &BinaryExpr{Op: TOKEN_STAR, Left: l, Right: r} }
func div(l, r Node) *BinaryExpr { return &BinaryExpr{Op: TOKEN_SLASH, Left: l, Right: r} }
func pow(b, e Node) *PowExpr    { return &PowExpr{Base: b, Exp: e} }
func call(name string, arg Node) *FuncCall {
	return &FuncCall{Name: name, Arg: arg}
}

// IsConstant reports whether the subtree does not reference x.
func IsConstant(node Node) bool {
	switch n := node.(type) {
	case *NumberLit:
		return true
	case *VarRef:
		return false
	case *BinaryExpr:
		return IsConstant(n.Left) && IsConstant(n.Right)
	case *PowExpr:
		return IsConstant(n.Base) && IsConstant(n.Exp)
	case *FuncCall:
		return IsConstant(n.Arg)
	default:
		return false
	}
}

// Walk calls fn for every node of the tree in pre-order.
func Walk(node Node, fn func(Node)) {
	if node == nil {
		return
	}
	fn(node)
	switch n := node.(type) {
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *PowExpr:
		Walk(n.Base, fn)
		Walk(n.Exp, fn)
	case *FuncCall:
		Walk(n.Arg, fn)
	case *NumberLit, *VarRef:
		// leaves
	}
}
