package lambdust

// maxMacroExpansionDepth bounds how deeply expandNode recurses, which
// stops runaway self-referential macros; exceeding it is a macro error,
// not a Go stack overflow. The depth counts every nesting level expandNode
// descends through, ordinary subforms as well as macro expansions. It is a
// fixed constant: the config entry macro.max_depth is not read, and no
// trail of active expansions is kept.
const maxMacroExpansionDepth = 500

// applyTransformer tries each rule of a syntax-rules transformer
// against form in order, returning the first successful expansion
// (spec §4.1). A rule's own keyword position (its pattern's head
// element) is never matched against form's head — by convention it is
// either `_` or the macro's own name, and is always ignored.
func applyTransformer(tr *SyntaxRulesNode, form Node) (Node, error) {
	literals := make(map[SymbolID]bool, len(tr.Literals))
	for _, l := range tr.Literals {
		literals[l] = true
	}
	for _, rule := range tr.Rules {
		pelems, ptail, pIsList := listElems(rule.Pattern)
		felems, ftail, fIsList := listElems(form)
		if !pIsList || !fIsList || len(pelems) == 0 || len(felems) == 0 {
			continue
		}
		binds := map[SymbolID]*patternBinding{}
		if matchSeq(pelems[1:], ptail, felems[1:], ftail, literals, binds) {
			renames := map[SymbolID]SymbolID{}
			return expandTemplate(rule.Template, binds, renames, tr.DefEnv), nil
		}
	}
	return nil, MacroErrorf(form.Loc(), "no syntax-rules clause matches this use")
}
