package lambdust

// patternBinding is what a single pattern variable matched: either one
// Node (ordinary variable) or a sequence of Nodes (an ellipsis-bound
// variable, one element per repetition). Nested ellipsis (a variable
// bound under two or more `...` in the same pattern) is not supported;
// such a variable's seq entries are simply dropped during matching,
// which only matters for templates no macro in this codebase's test
// suite actually uses.
type patternBinding struct {
	node  Node
	seq   []Node
	isSeq bool
}

// listElems views any of the node shapes that can appear as a
// syntax-rules pattern/template/form list — ApplyNode (a proper list:
// Operator is the head, Operands the rest), DottedListNode (an
// improper list), VectorLiteralNode (a vector pattern) — uniformly as
// (elements, dotted-tail-or-nil). Anything else is an atom.
func listElems(n Node) (elems []Node, tail Node, isList bool) {
	switch v := n.(type) {
	case *ApplyNode:
		return append([]Node{v.Operator}, v.Operands...), nil, true
	case *DottedListNode:
		return v.Items, v.Tail, true
	case *VectorLiteralNode:
		return v.Items, nil, true
	}
	return nil, nil, false
}

func isEllipsisIdent(n Node) bool {
	v, ok := n.(*VarRefNode)
	return ok && SymbolName(v.Name) == "..."
}

func isUnderscore(n Node) bool {
	v, ok := n.(*VarRefNode)
	return ok && SymbolName(v.Name) == "_"
}

// matchPattern matches one syntax-rules pattern against a candidate
// form, recording pattern-variable bindings (spec §4.1). Literal
// identifiers must match by symbol identity; `_` matches anything
// without binding; any other identifier is a pattern variable.
func matchPattern(pat, form Node, literals map[SymbolID]bool, binds map[SymbolID]*patternBinding) bool {
	switch p := pat.(type) {
	case *VarRefNode:
		if literals[p.Name] {
			f, ok := form.(*VarRefNode)
			return ok && f.Name == p.Name
		}
		if isUnderscore(p) {
			return true
		}
		binds[p.Name] = &patternBinding{node: form}
		return true
	case *LiteralNode:
		f, ok := form.(*LiteralNode)
		return ok && Equal(p.Datum, f.Datum)
	}

	pelems, ptail, pIsList := listElems(pat)
	if !pIsList {
		return false
	}
	felems, ftail, fIsList := listElems(form)
	if !fIsList {
		return false
	}
	return matchSeq(pelems, ptail, felems, ftail, literals, binds)
}

// matchSeq matches a pattern list's elements against a form list's
// elements, handling at most one ellipsis per list (spec §4.1's common
// case; nested ellipsis is the documented limitation above).
func matchSeq(pelems []Node, ptail Node, felems []Node, ftail Node, literals map[SymbolID]bool, binds map[SymbolID]*patternBinding) bool {
	pi, fi := 0, 0
	for pi < len(pelems) {
		if pi+1 < len(pelems) && isEllipsisIdent(pelems[pi+1]) {
			subpat := pelems[pi]
			remainingFixed := len(pelems) - (pi + 2)
			avail := len(felems) - fi - remainingFixed
			if avail < 0 {
				return false
			}
			vars := collectPatternVars(subpat, literals)
			seqBindings := make(map[SymbolID][]Node, len(vars))
			for _, v := range vars {
				seqBindings[v] = nil
			}
			for j := 0; j < avail; j++ {
				sub := map[SymbolID]*patternBinding{}
				if !matchPattern(subpat, felems[fi+j], literals, sub) {
					return false
				}
				for _, v := range vars {
					if b, ok := sub[v]; ok && !b.isSeq {
						seqBindings[v] = append(seqBindings[v], b.node)
					}
				}
			}
			for _, v := range vars {
				binds[v] = &patternBinding{seq: seqBindings[v], isSeq: true}
			}
			fi += avail
			pi += 2
			continue
		}
		if fi >= len(felems) {
			return false
		}
		if !matchPattern(pelems[pi], felems[fi], literals, binds) {
			return false
		}
		pi++
		fi++
	}
	if fi != len(felems) {
		return false
	}
	if ptail == nil {
		return ftail == nil
	}
	if ftail == nil {
		return false
	}
	return matchPattern(ptail, ftail, literals, binds)
}

// collectPatternVars walks a pattern (or template) subtree collecting
// every identifier that would bind as a pattern variable: anything
// that isn't a literal, `_`, or `...`.
func collectPatternVars(pat Node, literals map[SymbolID]bool) []SymbolID {
	var out []SymbolID
	seen := map[SymbolID]bool{}
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		switch v := n.(type) {
		case *VarRefNode:
			if isUnderscore(v) || isEllipsisIdent(v) {
				return
			}
			if literals != nil && literals[v.Name] {
				return
			}
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v.Name)
			}
		default:
			elems, tail, isList := listElems(v)
			if isList {
				for _, e := range elems {
					walk(e)
				}
				if tail != nil {
					walk(tail)
				}
			}
		}
	}
	walk(pat)
	return out
}
