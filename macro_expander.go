package lambdust

// ExpandProgram expands every macro use in a top-level sequence of
// forms, left to right, registering each `define-syntax` into menv as
// it's encountered so later forms in the same sequence can use it
// (spec §4.1: "its output is an AST in which no node is a macro
// application"). The evaluator never sees a *MacroUseNode.
func ExpandProgram(menv *MacroEnv, forms []Node) ([]Node, error) {
	out := make([]Node, 0, len(forms))
	for _, f := range forms {
		expanded, err := expandNode(menv, f, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}

// ExpandNode expands a single form (and, recursively, every subform),
// for callers that don't have a whole top-level program in hand (e.g.
// expanding one REPL-style entry at a time).
func ExpandNode(menv *MacroEnv, n Node) (Node, error) {
	return expandNode(menv, n, 0)
}

// expandNode rewrites every *MacroUseNode reachable from n, recursing
// into the expansion (a macro's template may itself use other macros)
// and into every structural subform, depth-guarded against runaway
// self-expanding macros.
func expandNode(menv *MacroEnv, n Node, depth int) (Node, error) {
	if depth > maxMacroExpansionDepth {
		return nil, MacroErrorf(n.Loc(), "macro expansion depth exceeded %d", maxMacroExpansionDepth)
	}

	switch v := n.(type) {
	case nil:
		return nil, nil

	case *MacroUseNode:
		tr := v.Transformer
		if tr == nil {
			found, ok := menv.Lookup(v.Name)
			if !ok {
				return nil, MacroErrorf(v.Loc(), "unbound macro keyword: %s", SymbolName(v.Name))
			}
			tr = found
		}
		expanded, err := applyTransformer(tr, v.Form)
		if err != nil {
			return nil, err
		}
		return expandNode(menv, expanded, depth+1)

	case *DefineSyntaxNode:
		menv.Define(v.Name, v.Transformer)
		return v, nil

	case *LiteralNode, *VarRefNode, *QuoteNode, *SyntaxRulesNode:
		return v, nil

	case *ApplyNode:
		op, err := expandNode(menv, v.Operator, depth+1)
		if err != nil {
			return nil, err
		}
		operands, err := expandNodes(menv, v.Operands, depth)
		if err != nil {
			return nil, err
		}
		return &ApplyNode{baseNode: v.baseNode, Operator: op, Operands: operands}, nil

	case *IfNode:
		test, err := expandNode(menv, v.Test, depth+1)
		if err != nil {
			return nil, err
		}
		then, err := expandNode(menv, v.Then, depth+1)
		if err != nil {
			return nil, err
		}
		var els Node
		if v.Else != nil {
			if els, err = expandNode(menv, v.Else, depth+1); err != nil {
				return nil, err
			}
		}
		return &IfNode{baseNode: v.baseNode, Test: test, Then: then, Else: els}, nil

	case *DefineNode:
		val, err := expandNode(menv, v.Value, depth+1)
		if err != nil {
			return nil, err
		}
		return &DefineNode{baseNode: v.baseNode, Name: v.Name, Value: val}, nil

	case *SetBangNode:
		val, err := expandNode(menv, v.Value, depth+1)
		if err != nil {
			return nil, err
		}
		return &SetBangNode{baseNode: v.baseNode, Name: v.Name, Value: val}, nil

	case *LambdaNode:
		body, err := expandNodes(menv, v.Body, depth)
		if err != nil {
			return nil, err
		}
		return &LambdaNode{baseNode: v.baseNode, Params: v.Params, Body: body, Name: v.Name}, nil

	case *CaseLambdaNode:
		clauses := make([]*LambdaNode, len(v.Clauses))
		for i, c := range v.Clauses {
			expanded, err := expandNode(menv, c, depth+1)
			if err != nil {
				return nil, err
			}
			clauses[i] = expanded.(*LambdaNode)
		}
		return &CaseLambdaNode{baseNode: v.baseNode, Clauses: clauses}, nil

	case *LetNode:
		bindings, body, err := expandBindings(menv, v.Bindings, v.Body, depth)
		if err != nil {
			return nil, err
		}
		return &LetNode{baseNode: v.baseNode, Bindings: bindings, Body: body}, nil

	case *LetStarNode:
		bindings, body, err := expandBindings(menv, v.Bindings, v.Body, depth)
		if err != nil {
			return nil, err
		}
		return &LetStarNode{baseNode: v.baseNode, Bindings: bindings, Body: body}, nil

	case *LetrecNode:
		bindings, body, err := expandBindings(menv, v.Bindings, v.Body, depth)
		if err != nil {
			return nil, err
		}
		return &LetrecNode{baseNode: v.baseNode, Bindings: bindings, Body: body}, nil

	case *BeginNode:
		body, err := expandNodes(menv, v.Body, depth)
		if err != nil {
			return nil, err
		}
		return &BeginNode{baseNode: v.baseNode, Body: body}, nil

	case *QuasiquoteNode:
		tmpl, err := expandNode(menv, v.Template, depth+1)
		if err != nil {
			return nil, err
		}
		return &QuasiquoteNode{baseNode: v.baseNode, Template: tmpl}, nil

	case *UnquoteNode:
		expr, err := expandNode(menv, v.Expr, depth+1)
		if err != nil {
			return nil, err
		}
		return &UnquoteNode{baseNode: v.baseNode, Expr: expr}, nil

	case *UnquoteSplicingNode:
		expr, err := expandNode(menv, v.Expr, depth+1)
		if err != nil {
			return nil, err
		}
		return &UnquoteSplicingNode{baseNode: v.baseNode, Expr: expr}, nil

	case *DelayNode:
		expr, err := expandNode(menv, v.Expr, depth+1)
		if err != nil {
			return nil, err
		}
		return &DelayNode{baseNode: v.baseNode, Expr: expr}, nil

	case *DelayForceNode:
		expr, err := expandNode(menv, v.Expr, depth+1)
		if err != nil {
			return nil, err
		}
		return &DelayForceNode{baseNode: v.baseNode, Expr: expr}, nil

	case *VectorLiteralNode:
		items, err := expandNodes(menv, v.Items, depth)
		if err != nil {
			return nil, err
		}
		return &VectorLiteralNode{baseNode: v.baseNode, Items: items}, nil

	case *DottedListNode:
		// Quoted data: items/tail are literal datums, nothing to expand.
		return v, nil

	default:
		return nil, SyntaxErrorf(n.Loc(), "macro expander: unhandled node kind %s", n.NodeKind())
	}
}

func expandNodes(menv *MacroEnv, nodes []Node, depth int) ([]Node, error) {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		expanded, err := expandNode(menv, n, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = expanded
	}
	return out, nil
}

func expandBindings(menv *MacroEnv, bindings []BindingClause, body []Node, depth int) ([]BindingClause, []Node, error) {
	outBindings := make([]BindingClause, len(bindings))
	for i, b := range bindings {
		init, err := expandNode(menv, b.Init, depth+1)
		if err != nil {
			return nil, nil, err
		}
		outBindings[i] = BindingClause{Name: b.Name, Init: init}
	}
	outBody, err := expandNodes(menv, body, depth)
	if err != nil {
		return nil, nil, err
	}
	return outBindings, outBody, nil
}
