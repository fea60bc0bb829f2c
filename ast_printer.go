package lambdust

import (
	"fmt"
	"strings"
)

// astToken is the semantic category astPrinter hands to a FormatFunc,
// letting a themed printer (internal/ascii) colorize keywords
// differently from literals without the tree-walking logic knowing
// about color at all — the same separation printer.go's treePrinter
// uses generically.
type astToken int

const (
	astTokenKeyword astToken = iota
	astTokenName
	astTokenLiteral
	astTokenPunct
)

// PrintAST renders a Node tree as an indented box-drawing dump.
func PrintAST(n Node) string {
	tp := newTreePrinter(func(s string, _ astToken) string { return s })
	printNode(tp, n)
	return tp.output.String()
}

func printNode(tp *treePrinter[astToken], n Node) {
	if n == nil {
		tp.pwritel(tp.format("<nil>", astTokenPunct))
		return
	}
	switch v := n.(type) {
	case *LiteralNode:
		tp.pwritel(tp.format(writeString(v.Datum), astTokenLiteral))
	case *VarRefNode:
		tp.pwritel(tp.format(SymbolName(v.Name), astTokenName))
	case *ApplyNode:
		tp.pwritel(tp.format("(apply", astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Operator)
		for _, op := range v.Operands {
			printNode(tp, op)
		}
		tp.unindent()
		tp.pwritel(")")
	case *IfNode:
		tp.pwritel(tp.format("(if", astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Test)
		printNode(tp, v.Then)
		if v.Else != nil {
			printNode(tp, v.Else)
		}
		tp.unindent()
		tp.pwritel(")")
	case *DefineNode:
		tp.pwritel(tp.format(fmt.Sprintf("(define %s", SymbolName(v.Name)), astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Value)
		tp.unindent()
		tp.pwritel(")")
	case *LambdaNode:
		tp.pwritel(tp.format(fmt.Sprintf("(lambda %s", formalsString(v.Params)), astTokenKeyword))
		tp.indent("  ")
		for _, b := range v.Body {
			printNode(tp, b)
		}
		tp.unindent()
		tp.pwritel(")")
	case *BeginNode:
		tp.pwritel(tp.format("(begin", astTokenKeyword))
		tp.indent("  ")
		for _, b := range v.Body {
			printNode(tp, b)
		}
		tp.unindent()
		tp.pwritel(")")
	case *SetBangNode:
		tp.pwritel(tp.format(fmt.Sprintf("(set! %s", SymbolName(v.Name)), astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Value)
		tp.unindent()
		tp.pwritel(")")
	case *QuoteNode:
		tp.pwritel(tp.format("(quote "+writeString(v.Datum)+")", astTokenLiteral))
	case *LetNode:
		printLetFamily(tp, "let", v.Bindings, v.Body)
	case *LetStarNode:
		printLetFamily(tp, "let*", v.Bindings, v.Body)
	case *LetrecNode:
		printLetFamily(tp, "letrec", v.Bindings, v.Body)
	case *DelayNode:
		tp.pwritel(tp.format("(delay", astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Expr)
		tp.unindent()
		tp.pwritel(")")
	case *DelayForceNode:
		tp.pwritel(tp.format("(delay-force", astTokenKeyword))
		tp.indent("  ")
		printNode(tp, v.Expr)
		tp.unindent()
		tp.pwritel(")")
	case *CaseLambdaNode:
		tp.pwritel(tp.format("(case-lambda", astTokenKeyword))
		tp.indent("  ")
		for _, c := range v.Clauses {
			printNode(tp, c)
		}
		tp.unindent()
		tp.pwritel(")")
	default:
		tp.pwritel(tp.format(fmt.Sprintf("<%s>", n.NodeKind()), astTokenPunct))
	}
}

func printLetFamily(tp *treePrinter[astToken], kw string, bindings []BindingClause, body []Node) {
	tp.pwritel(tp.format("("+kw, astTokenKeyword))
	tp.indent("  ")
	for _, b := range bindings {
		tp.pwritel(tp.format("("+SymbolName(b.Name), astTokenName))
		tp.indent("  ")
		printNode(tp, b.Init)
		tp.unindent()
		tp.pwritel(")")
	}
	for _, b := range body {
		printNode(tp, b)
	}
	tp.unindent()
	tp.pwritel(")")
}

func formalsString(f Formals) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, name := range f.Fixed {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(SymbolName(name))
	}
	if f.HasRest {
		if len(f.Fixed) > 0 {
			sb.WriteString(" . ")
		}
		sb.WriteString(SymbolName(f.Rest))
	}
	sb.WriteByte(')')
	return sb.String()
}
