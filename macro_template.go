package lambdust

// expandTemplate instantiates a syntax-rules template against the
// bindings a successful matchPattern produced (spec §4.1). Every
// identifier in the template that is neither a pattern variable nor
// already bound at the macro's definition site is treated as a fresh
// identifier the template introduces (e.g. a `let`-bound temporary)
// and renamed via GenSym for this expansion only — a practical
// approximation of full syntax-rules hygiene that covers the common
// temporary-variable-capture case (spec §8's hygiene testable
// property) without a full syntactic-closure implementation: global
// references (`+`, `car`, ...), which *are* bound at the
// definition site, are left untouched so the template keeps meaning
// what its author wrote.
func expandTemplate(tmpl Node, binds map[SymbolID]*patternBinding, renames map[SymbolID]SymbolID, defEnv *SharedFrame) Node {
	switch t := tmpl.(type) {
	case *VarRefNode:
		if isEllipsisIdent(t) {
			return t
		}
		if b, ok := binds[t.Name]; ok && !b.isSeq {
			return b.node
		}
		if renamed, ok := renames[t.Name]; ok {
			return &VarRefNode{baseNode: t.baseNode, Name: renamed}
		}
		if defEnv != nil {
			if _, bound := defEnv.Lookup(t.Name); bound {
				return t
			}
		}
		fresh := GenSym(SymbolName(t.Name))
		renames[t.Name] = fresh
		return &VarRefNode{baseNode: t.baseNode, Name: fresh}

	case *LiteralNode, *QuoteNode:
		return t
	}

	elems, tail, isList := listElems(tmpl)
	if !isList {
		return tmpl
	}
	newElems, newTail := expandTemplateList(elems, tail, binds, renames, defEnv)
	return rebuildList(tmpl, newElems, newTail)
}

// expandTemplateList expands a template list's elements, splicing in
// `sub ...` repetitions once per element of sub's ellipsis-bound
// pattern variables (all such variables in one repetition group must
// share a common length per R7RS; the shortest is used here rather
// than erroring, a permissive simplification).
func expandTemplateList(elems []Node, tail Node, binds map[SymbolID]*patternBinding, renames map[SymbolID]SymbolID, defEnv *SharedFrame) ([]Node, Node) {
	var out []Node
	i := 0
	for i < len(elems) {
		if i+1 < len(elems) && isEllipsisIdent(elems[i+1]) {
			sub := elems[i]
			vars := collectPatternVars(sub, nil)
			n := -1
			for _, v := range vars {
				if b, ok := binds[v]; ok && b.isSeq {
					if n == -1 || len(b.seq) < n {
						n = len(b.seq)
					}
				}
			}
			if n < 0 {
				n = 0
			}
			for j := 0; j < n; j++ {
				subBinds := make(map[SymbolID]*patternBinding, len(binds))
				for k, v := range binds {
					subBinds[k] = v
				}
				for _, v := range vars {
					if b, ok := binds[v]; ok && b.isSeq && j < len(b.seq) {
						subBinds[v] = &patternBinding{node: b.seq[j]}
					}
				}
				out = append(out, expandTemplate(sub, subBinds, renames, defEnv))
			}
			i += 2
			continue
		}
		out = append(out, expandTemplate(elems[i], binds, renames, defEnv))
		i++
	}
	var outTail Node
	if tail != nil {
		outTail = expandTemplate(tail, binds, renames, defEnv)
	}
	return out, outTail
}

// rebuildList reconstructs the same concrete Node shape orig was
// (ApplyNode/DottedListNode/VectorLiteralNode) from expanded elements.
func rebuildList(orig Node, elems []Node, tail Node) Node {
	switch o := orig.(type) {
	case *ApplyNode:
		if len(elems) == 0 {
			return &ApplyNode{baseNode: o.baseNode}
		}
		return &ApplyNode{baseNode: o.baseNode, Operator: elems[0], Operands: elems[1:]}
	case *DottedListNode:
		return &DottedListNode{baseNode: o.baseNode, Items: elems, Tail: tail}
	case *VectorLiteralNode:
		return &VectorLiteralNode{baseNode: o.baseNode, Items: elems}
	default:
		return orig
	}
}
