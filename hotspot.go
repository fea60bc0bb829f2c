package lambdust

// maybePromote checks calls against this evaluator's configured
// thresholds and advances proc one tier when crossed (spec §4.3's hotspot
// detector: "When counters cross configurable thresholds the unit is
// scheduled for promotion to the next tier"). Promotion compiles the
// artifact the new tier needs (bytecode for T1, a guarded native wrapper
// for T2) before flipping the tier so the very next dispatch can use it;
// the call in flight when the threshold was crossed still finishes on its
// current tier, matching the spec's "promotion is asynchronous relative
// to execution" requirement.
func maybePromote(ev *Evaluator, proc *Closure, calls uint64) {
	switch proc.hotspot.currentTier() {
	case 0:
		if calls < uint64(ev.cfg.GetInt("tier.t1_promote_calls")) {
			return
		}
		proc.bc = CompileClosure(proc)
		proc.hotspot.promoteTo(1)
	case 1:
		if calls < uint64(ev.cfg.GetInt("tier.t2_promote_calls")) {
			return
		}
		if native, ok := compileNative(proc); ok {
			proc.native = native
			proc.hotspot.promoteTo(2)
		}
	}
}

// dispatchClosure is the hotspot-aware entry point apply() uses for every
// Closure call: it records the call, checks for a pending promotion, and
// runs the call on whichever tier the unit currently occupies, falling
// back a tier at a time on deopt.
func (ev *Evaluator) dispatchClosure(st *evalState, proc *Closure, args []Value, next *Frame) error {
	calls := proc.hotspot.recordCall()
	maybePromote(ev, proc, calls)

	if proc.hotspot.currentTier() >= 2 && proc.native != nil {
		v, err := runNativeTier(ev, proc, args)
		switch {
		case err == nil:
			st.val, st.e, st.k, st.haveVal = v, next.envOrNil(), next, true
			return nil
		case isDeopt(err):
			proc.hotspot.recordDeopt(ev.cfg.GetInt("tier.max_deopts_before_permanent_t0"))
			// fall through to T1/T0 below, per spec's "deopt MUST be
			// externally invisible" — the call still completes.
		default:
			return err
		}
	}

	if proc.hotspot.currentTier() >= 1 && proc.bc != nil {
		v, err := RunBytecode(ev, proc, args)
		if err != nil {
			return err
		}
		st.val, st.e, st.k, st.haveVal = v, next.envOrNil(), next, true
		return nil
	}

	return ev.applyClosure(st, proc, args, next)
}

func isDeopt(err error) bool {
	_, ok := err.(*deoptError)
	return ok
}
