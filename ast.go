package lambdust

// Node is the surface/core AST sum type (spec §3 "AST"). Unlike Value,
// nodes are never GC-managed heap objects — they are produced once by
// the (external) reader/expander and then walked repeatedly by the
// evaluator, compiler, and printer, so they carry no GCHeader.
//
// The same node type serves both surface and core AST; macro expansion
// (macro_expander.go) rewrites a tree of these into one with no
// NodeMacroUse left, per spec §4.1.
type Node interface {
	NodeKind() NodeKind
	Loc() Span
}

// NodeKind discriminates the AST sum, mirroring ValueKind's role for
// Value and TypeTag's role for GC headers.
type NodeKind uint8

const (
	NodeLiteral NodeKind = iota
	NodeVarRef
	NodeApply
	NodeIf
	NodeDefine
	NodeDefineSyntax
	NodeLambda
	NodeLet
	NodeLetStar
	NodeLetrec
	NodeBegin
	NodeSetBang
	NodeQuote
	NodeQuasiquote
	NodeUnquote
	NodeUnquoteSplicing
	NodeSyntaxRules
	NodeCaseLambda
	NodeDelay
	NodeDelayForce
	NodeDottedList
	NodeVectorLiteral
	NodeMacroUse
)

func (k NodeKind) String() string {
	names := [...]string{
		"literal", "var-ref", "apply", "if", "define", "define-syntax",
		"lambda", "let", "let*", "letrec", "begin", "set!", "quote",
		"quasiquote", "unquote", "unquote-splicing", "syntax-rules",
		"case-lambda", "delay", "delay-force", "dotted-list",
		"vector-literal", "macro-use",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// baseNode factors the one field every node carries.
type baseNode struct {
	span Span
}

func (b baseNode) Loc() Span { return b.span }

// LiteralNode wraps a self-evaluating datum: a number, string, char,
// boolean, or quoted-equivalent vector/bytevector read directly from
// source (not produced by `quote`, which gets its own QuoteNode). The
// evaluator and the bytecode compiler treat the two alike: both yield
// Datum itself, unchanged, at every evaluation.
type LiteralNode struct {
	baseNode
	Datum Value
}

func (*LiteralNode) NodeKind() NodeKind { return NodeLiteral }

// VarRefNode is a bound-identifier reference.
type VarRefNode struct {
	baseNode
	Name SymbolID
}

func (*VarRefNode) NodeKind() NodeKind { return NodeVarRef }

// ApplyNode is a procedure application; Operator/Operands are themselves
// Nodes so the evaluator can distinguish tail-position operand slots.
type ApplyNode struct {
	baseNode
	Operator Node
	Operands []Node
}

func (*ApplyNode) NodeKind() NodeKind { return NodeApply }

// IfNode: Else is nil for the one-armed form (evaluates to Unspecified
// when the test is false).
type IfNode struct {
	baseNode
	Test Node
	Then Node
	Else Node
}

func (*IfNode) NodeKind() NodeKind { return NodeIf }

// DefineNode installs Name in the current frame; top-level or internal
// per where it appears.
type DefineNode struct {
	baseNode
	Name  SymbolID
	Value Node
}

func (*DefineNode) NodeKind() NodeKind { return NodeDefine }

// DefineSyntaxNode installs a syntax-rules transformer under Name in the
// macro environment (spec §4.1).
type DefineSyntaxNode struct {
	baseNode
	Name        SymbolID
	Transformer *SyntaxRulesNode
}

func (*DefineSyntaxNode) NodeKind() NodeKind { return NodeDefineSyntax }

// Formals describes a lambda's parameter list: Fixed names bind
// positionally; Rest, when HasRest is set, binds the remaining arguments
// as a list (R7RS dotted-formals / single-symbol-formals).
type Formals struct {
	Fixed []SymbolID
	Rest  SymbolID // ignored unless HasRest; callers pass 0 (never a valid id) when there is none
	HasRest bool
}

// LambdaNode. Body is a sequence; its last element is in tail position.
type LambdaNode struct {
	baseNode
	Params Formals
	Body   []Node
	Name   string // for diagnostics/disassembly only, may be ""
}

func (*LambdaNode) NodeKind() NodeKind { return NodeLambda }

// CaseLambdaNode dispatches to one of several LambdaNode clauses by
// argument count.
type CaseLambdaNode struct {
	baseNode
	Clauses []*LambdaNode
}

func (*CaseLambdaNode) NodeKind() NodeKind { return NodeCaseLambda }

// BindingClause is one `(name init)` pair shared by let/let*/letrec.
type BindingClause struct {
	Name SymbolID
	Init Node
}

type LetNode struct {
	baseNode
	Bindings []BindingClause
	Body     []Node
}

func (*LetNode) NodeKind() NodeKind { return NodeLet }

type LetStarNode struct {
	baseNode
	Bindings []BindingClause
	Body     []Node
}

func (*LetStarNode) NodeKind() NodeKind { return NodeLetStar }

type LetrecNode struct {
	baseNode
	Bindings []BindingClause
	Body     []Node
}

func (*LetrecNode) NodeKind() NodeKind { return NodeLetrec }

// BeginNode: last element is in tail position (spec §4.2).
type BeginNode struct {
	baseNode
	Body []Node
}

func (*BeginNode) NodeKind() NodeKind { return NodeBegin }

type SetBangNode struct {
	baseNode
	Name SymbolID
	Value Node
}

func (*SetBangNode) NodeKind() NodeKind { return NodeSetBang }

// QuoteNode carries the already-built Value form of its datum, since
// `quote` never re-evaluates its argument.
type QuoteNode struct {
	baseNode
	Datum Value
}

func (*QuoteNode) NodeKind() NodeKind { return NodeQuote }

// QuasiquoteNode / UnquoteNode / UnquoteSplicingNode keep quasiquote
// templates as Nodes (not a pre-expanded Value) because nested
// unquote/unquote-splicing slots must still be evaluated against the
// current environment.
type QuasiquoteNode struct {
	baseNode
	Template Node
}

func (*QuasiquoteNode) NodeKind() NodeKind { return NodeQuasiquote }

type UnquoteNode struct {
	baseNode
	Expr Node
}

func (*UnquoteNode) NodeKind() NodeKind { return NodeUnquote }

type UnquoteSplicingNode struct {
	baseNode
	Expr Node
}

func (*UnquoteSplicingNode) NodeKind() NodeKind { return NodeUnquoteSplicing }

// SyntaxRulesNode is a literal `syntax-rules` form, both as the RHS of
// `define-syntax` and (since R7RS allows it) wherever a transformer
// expression is expected.
type SyntaxRulesNode struct {
	baseNode
	Literals []SymbolID
	Rules    []SyntaxRule
	DefEnv   *SharedFrame // environment at the point of definition, for hygiene
}

func (*SyntaxRulesNode) NodeKind() NodeKind { return NodeSyntaxRules }

// SyntaxRule is one (pattern, template) clause.
type SyntaxRule struct {
	Pattern  Node
	Template Node
}

// DelayNode / DelayForceNode produce a Delayed / TailRecursive promise
// at evaluation time (spec §4.2).
type DelayNode struct {
	baseNode
	Expr Node
}

func (*DelayNode) NodeKind() NodeKind { return NodeDelay }

type DelayForceNode struct {
	baseNode
	Expr Node
}

func (*DelayForceNode) NodeKind() NodeKind { return NodeDelayForce }

// DottedListNode represents a quoted improper list read directly from
// source, distinct from QuoteNode so the printer/expander can special-
// case dotted-pair patterns without re-walking a generic Value.
type DottedListNode struct {
	baseNode
	Items []Node
	Tail  Node
}

func (*DottedListNode) NodeKind() NodeKind { return NodeDottedList }

// VectorLiteralNode is a quoted `#(...)` literal.
type VectorLiteralNode struct {
	baseNode
	Items []Node
}

func (*VectorLiteralNode) NodeKind() NodeKind { return NodeVectorLiteral }

// MacroUseNode is an application whose operator names a macro; the
// expander rewrites every one of these away before the evaluator ever
// sees the tree (spec §4.1: "its output is an AST in which no node is a
// macro application").
type MacroUseNode struct {
	baseNode
	Name      SymbolID
	Form      Node // the raw application, reparsed as a pattern-matchable Node
	Transformer *SyntaxRulesNode
}

func (*MacroUseNode) NodeKind() NodeKind { return NodeMacroUse }

// NewFormals builds a Formals from a fixed-name prefix and an optional
// rest parameter name.
func NewFormals(fixed []SymbolID, rest SymbolID, hasRest bool) Formals {
	return Formals{Fixed: fixed, Rest: rest, HasRest: hasRest}
}
