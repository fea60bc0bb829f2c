package lambdust

// registerControlPrimitives installs the control-flow operators
// (spec §4.2) as ordinary *Primitive values so they print/compare like
// any other procedure; eval_apply.go's `apply` recognizes them by name
// (via controlOps) before ever consulting Fn/EvalFn, so the control
// operators' `unreachable` bodies here are never actually called — they
// exist so CheckArity and introspection (name, arity) behave uniformly for
// every global binding. make-promise, registered here too, is an ordinary
// primitive whose body does run.
func registerControlPrimitives(t *PrimitiveTable) {
	unreachable := func(args []Value) (Value, error) {
		return nil, newErr(ErrRuntime, "control operator invoked without evaluator context")
	}
	t.Register(NewPrimitive("call/cc", 1, 1, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("call-with-current-continuation", 1, 1, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("dynamic-wind", 3, 3, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("with-exception-handler", 2, 2, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("raise", 1, 1, []EffectTag{EffectErrorRaising}, unreachable))
	t.Register(NewPrimitive("raise-continuable", 1, 1, []EffectTag{EffectErrorRaising}, unreachable))
	t.Register(NewPrimitive("values", 0, -1, []EffectTag{EffectPure}, unreachable))
	t.Register(NewPrimitive("call-with-values", 2, 2, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("apply", 2, -1, []EffectTag{EffectCustom}, unreachable))
	t.Register(NewPrimitive("force", 1, 1, []EffectTag{EffectState}, unreachable))

	t.Register(NewPrimitive("make-promise", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		if p, ok := args[0].(*Promise); ok {
			return p, nil
		}
		return NewForcedPromise(args[0]), nil
	}))
}

func registerNumericPrimitives(t *PrimitiveTable) {
	fold := func(name string, init Value, unary func(a Value) (Value, error), op func(a, b Value) (Value, error)) *Primitive {
		minArity := 0
		if init == nil {
			minArity = 1
		}
		return NewPrimitive(name, minArity, -1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
			for _, a := range args {
				if _, ok := tierOf(a); !ok {
					return nil, TypeErrorf("%s: not a number: %s", name, writeString(a))
				}
			}
			if len(args) == 0 {
				return init, nil
			}
			acc := args[0]
			rest := args[1:]
			if init != nil {
				acc, rest = init, args
			} else if len(rest) == 0 {
				return unary(acc)
			}
			var err error
			for _, a := range rest {
				if acc, err = op(acc, a); err != nil {
					return nil, err
				}
			}
			return acc, nil
		})
	}
	neg := func(a Value) (Value, error) { return NumSub(SmallInt(0), a) }
	recip := func(a Value) (Value, error) { return NumDiv(SmallInt(1), a) }
	t.Register(fold("+", SmallInt(0), nil, NumAdd))
	t.Register(fold("*", SmallInt(1), nil, NumMul))
	t.Register(fold("-", nil, neg, NumSub))
	t.Register(fold("/", nil, recip, NumDiv))

	cmp := func(name string, ok func(c int) bool) *Primitive {
		return NewPrimitive(name, 1, -1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
			for i := 0; i+1 < len(args); i++ {
				c, err := NumCompare(args[i], args[i+1])
				if err != nil {
					return nil, err
				}
				if !ok(c) {
					return Boolean(false), nil
				}
			}
			return Boolean(true), nil
		})
	}
	t.Register(cmp("=", func(c int) bool { return c == 0 }))
	t.Register(cmp("<", func(c int) bool { return c < 0 }))
	t.Register(cmp(">", func(c int) bool { return c > 0 }))
	t.Register(cmp("<=", func(c int) bool { return c <= 0 }))
	t.Register(cmp(">=", func(c int) bool { return c >= 0 }))

	t.Register(NewPrimitive("zero?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		c, err := NumCompare(args[0], SmallInt(0))
		return Boolean(err == nil && c == 0), err
	}))
	t.Register(NewPrimitive("exact?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Boolean(IsExact(args[0])), nil
	}))
}

func registerPairPrimitives(t *PrimitiveTable) {
	t.Register(NewPrimitive("cons", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Cons(args[0], args[1]), nil
	}))
	t.Register(NewPrimitive("car", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		p, ok := args[0].(*Pair)
		if !ok {
			return nil, TypeErrorf("car: not a pair: %s", writeString(args[0]))
		}
		return p.Car, nil
	}))
	t.Register(NewPrimitive("cdr", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		p, ok := args[0].(*Pair)
		if !ok {
			return nil, TypeErrorf("cdr: not a pair: %s", writeString(args[0]))
		}
		return p.Cdr, nil
	}))
	t.Register(NewPrimitive("pair?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		_, ok := args[0].(*Pair)
		return Boolean(ok), nil
	}))
	t.Register(NewPrimitive("null?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		_, ok := args[0].(Nil)
		return Boolean(ok), nil
	}))
	t.Register(NewPrimitive("list", 0, -1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return SliceToList(args), nil
	}))
}

func registerPredicatePrimitives(t *PrimitiveTable) {
	t.Register(NewPrimitive("eq?", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Boolean(Eq(args[0], args[1])), nil
	}))
	t.Register(NewPrimitive("eqv?", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Boolean(Eqv(args[0], args[1])), nil
	}))
	t.Register(NewPrimitive("equal?", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Boolean(Equal(args[0], args[1])), nil
	}))
	t.Register(NewPrimitive("not", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return Boolean(!truthy(args[0])), nil
	}))
	t.Register(NewPrimitive("procedure?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		switch args[0].(type) {
		case *Closure, *caseLambda, *Primitive, *Continuation:
			return Boolean(true), nil
		default:
			return Boolean(false), nil
		}
	}))
	t.Register(NewPrimitive("error-object?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		_, ok := args[0].(*ErrorObjectValue)
		return Boolean(ok), nil
	}))
	t.Register(NewPrimitive("error-object-message", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		e, ok := args[0].(*ErrorObjectValue)
		if !ok {
			return nil, TypeErrorf("error-object-message: not an error object")
		}
		return InternString(e.Message), nil
	}))
	t.Register(NewPrimitive("error-object-irritants", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		e, ok := args[0].(*ErrorObjectValue)
		if !ok {
			return nil, TypeErrorf("error-object-irritants: not an error object")
		}
		return SliceToList(e.Irritants), nil
	}))
	t.Register(NewPrimitive("error", 1, -1, []EffectTag{EffectErrorRaising}, func(args []Value) (Value, error) {
		msg, ok := args[0].(StringValue)
		text := writeString(args[0])
		if ok {
			text = msg.RuneString()
		}
		return nil, &RuntimeErrorValue{Obj: NewErrorObject(text, args[1:], ErrRuntime)}
	}))
}

// registerContainerPrimitives installs the set/bag/deque/queue procedures
// (container.go) described in SPEC_FULL.md's value-model expansion.
func registerContainerPrimitives(t *PrimitiveTable) {
	t.Register(NewPrimitive("set", 0, -1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		s := NewSet()
		for _, a := range args {
			s.Add(a)
		}
		return s, nil
	}))
	t.Register(NewPrimitive("set?", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		_, ok := args[0].(*Set)
		return Boolean(ok), nil
	}))
	t.Register(NewPrimitive("set-add!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		s, ok := args[0].(*Set)
		if !ok {
			return nil, TypeErrorf("set-add!: not a set: %s", writeString(args[0]))
		}
		return Boolean(s.Add(args[1])), nil
	}))
	t.Register(NewPrimitive("set-contains?", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		s, ok := args[0].(*Set)
		if !ok {
			return nil, TypeErrorf("set-contains?: not a set: %s", writeString(args[0]))
		}
		return Boolean(s.Contains(args[1])), nil
	}))
	t.Register(NewPrimitive("set-remove!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		s, ok := args[0].(*Set)
		if !ok {
			return nil, TypeErrorf("set-remove!: not a set: %s", writeString(args[0]))
		}
		return Boolean(s.Remove(args[1])), nil
	}))
	t.Register(NewPrimitive("set->list", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		s, ok := args[0].(*Set)
		if !ok {
			return nil, TypeErrorf("set->list: not a set: %s", writeString(args[0]))
		}
		return SliceToList(s.ToSlice()), nil
	}))

	t.Register(NewPrimitive("bag", 0, -1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		b := NewBag()
		for _, a := range args {
			b.Add(a)
		}
		return b, nil
	}))
	t.Register(NewPrimitive("bag-add!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		b, ok := args[0].(*Bag)
		if !ok {
			return nil, TypeErrorf("bag-add!: not a bag: %s", writeString(args[0]))
		}
		b.Add(args[1])
		return TheUnspecified, nil
	}))
	t.Register(NewPrimitive("bag-count", 2, 2, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		b, ok := args[0].(*Bag)
		if !ok {
			return nil, TypeErrorf("bag-count: not a bag: %s", writeString(args[0]))
		}
		return SmallInt(b.Count(args[1])), nil
	}))
	t.Register(NewPrimitive("bag-remove!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		b, ok := args[0].(*Bag)
		if !ok {
			return nil, TypeErrorf("bag-remove!: not a bag: %s", writeString(args[0]))
		}
		return Boolean(b.Remove(args[1])), nil
	}))

	t.Register(NewPrimitive("make-deque", 0, 0, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return NewDeque(), nil
	}))
	t.Register(NewPrimitive("deque-push-front!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		d, ok := args[0].(*Deque)
		if !ok {
			return nil, TypeErrorf("deque-push-front!: not a deque: %s", writeString(args[0]))
		}
		d.PushFront(args[1])
		return TheUnspecified, nil
	}))
	t.Register(NewPrimitive("deque-push-back!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		d, ok := args[0].(*Deque)
		if !ok {
			return nil, TypeErrorf("deque-push-back!: not a deque: %s", writeString(args[0]))
		}
		d.PushBack(args[1])
		return TheUnspecified, nil
	}))
	t.Register(NewPrimitive("deque-pop-front!", 1, 1, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		d, ok := args[0].(*Deque)
		if !ok {
			return nil, TypeErrorf("deque-pop-front!: not a deque: %s", writeString(args[0]))
		}
		return d.PopFront()
	}))
	t.Register(NewPrimitive("deque-pop-back!", 1, 1, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		d, ok := args[0].(*Deque)
		if !ok {
			return nil, TypeErrorf("deque-pop-back!: not a deque: %s", writeString(args[0]))
		}
		return d.PopBack()
	}))
	t.Register(NewPrimitive("deque-length", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		d, ok := args[0].(*Deque)
		if !ok {
			return nil, TypeErrorf("deque-length: not a deque: %s", writeString(args[0]))
		}
		return SmallInt(d.Length()), nil
	}))

	t.Register(NewPrimitive("make-queue", 0, 0, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		return NewQueue(), nil
	}))
	t.Register(NewPrimitive("queue-enqueue!", 2, 2, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		q, ok := args[0].(*Queue)
		if !ok {
			return nil, TypeErrorf("queue-enqueue!: not a queue: %s", writeString(args[0]))
		}
		q.Enqueue(args[1])
		return TheUnspecified, nil
	}))
	t.Register(NewPrimitive("queue-dequeue!", 1, 1, []EffectTag{EffectState}, func(args []Value) (Value, error) {
		q, ok := args[0].(*Queue)
		if !ok {
			return nil, TypeErrorf("queue-dequeue!: not a queue: %s", writeString(args[0]))
		}
		return q.Dequeue()
	}))
	t.Register(NewPrimitive("queue-length", 1, 1, []EffectTag{EffectPure}, func(args []Value) (Value, error) {
		q, ok := args[0].(*Queue)
		if !ok {
			return nil, TypeErrorf("queue-length: not a queue: %s", writeString(args[0]))
		}
		return SmallInt(q.Length()), nil
	}))
}
