package lambdust

// stepLetFamily lowers let/let*/letrec into the FrameLetInit/FrameLetBody
// continuation pair; `let` evaluates every init in the outer environment
// and binds them all at once in a fresh child frame, `let*` creates a
// fresh child frame per binding so later inits see earlier ones, and
// `letrec` pre-creates the child frame so mutually recursive lambda
// bodies can already see every name (spec §3 "Environment").
func stepLetFamily(st *evalState, bindings []BindingClause, body []Node, kind NodeKind) {
	if len(bindings) == 0 {
		childEnv := st.e.Child()
		pushSeq(st, body, childEnv, st.k)
		return
	}

	bindEnv := st.e
	if kind == NodeLetrec {
		bindEnv = st.e.Child()
		for _, b := range bindings {
			bindEnv.Define(b.Name, TheUnspecified)
		}
	}

	f := pushFrame(st.k, FrameLetInit)
	f.Env, f.Body, f.PendingBindings, f.LetKind = bindEnv, body, bindings, kind

	initEnv := bindEnv
	if kind == NodeLetStar {
		initEnv = bindEnv.Child()
		f.Env = initEnv
	}
	st.c, st.e, st.k, st.haveVal = bindings[0].Init, initEnv, f, false
}

// resumeLetInit records the value just computed for the current
// binding and either evaluates the next init or transitions to
// FrameLetBody once every binding has a value.
func resumeLetInit(st *evalState, k *Frame) {
	done := append(append([]Value{}, k.Done...), st.val)

	if k.LetKind == NodeLetrec || k.LetKind == NodeLetStar {
		k.Env.Define(k.PendingBindings[0].Name, st.val)
	}

	rest := k.PendingBindings[1:]
	if len(rest) == 0 {
		f := pushFrame(k.Next, FrameLetBody)
		f.Env, f.Body, f.Done, f.PendingBindings, f.LetKind = k.Env, k.Body, done, k.PendingBindings, k.LetKind
		st.c, st.e, st.k, st.haveVal = nil, k.Env, f, true
		st.val = TheUnspecified
		return
	}

	env := k.Env
	if k.LetKind == NodeLetStar {
		env = k.Env.Child()
	}
	f := pushFrame(k.Next, FrameLetInit)
	f.Env, f.Body, f.Done, f.PendingBindings, f.LetKind = env, k.Body, done, rest, k.LetKind
	st.c, st.e, st.k, st.haveVal = rest[0].Init, env, f, false
}

// resumeLetBody binds `let`'s collected values all at once (they were
// deferred so earlier inits can't observe later ones) and runs the body.
func resumeLetBody(st *evalState, k *Frame) {
	bodyEnv := k.Env
	if k.LetKind == NodeLet {
		bodyEnv = k.Env.Child()
		for i, b := range k.PendingBindings {
			bodyEnv.Define(b.Name, k.Done[i])
		}
	}
	pushSeq(st, k.Body, bodyEnv, k.Next)
}
