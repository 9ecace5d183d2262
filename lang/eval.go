package lang

import (
	"fmt"
	"log/slog"
	"math"
)

// signal classifies the outcome of executing a statement. Return, break,
// and continue are modeled as explicit result discriminants rather than
// panics; the call site in evalCall converts a return signal into the
// call's value, and loops absorb break and continue.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
	sigContinue
)

// outcome is the result of executing a statement or statement sequence.
type outcome struct {
	sig   signal
	value Value
}

var normal = outcome{sig: sigNone}

// execStmts executes a statement sequence, stopping at the first non-normal
// signal or error.
func (in *Interpreter) execStmts(stmts []Stmt, env *Env) (outcome, error) {
	for _, stmt := range stmts {
		out, err := in.execStmt(stmt, env)
		if err != nil {
			return normal, err
		}

		if out.sig != sigNone {
			return out, nil
		}
	}

	return normal, nil
}

// execStmt executes a single statement.
func (in *Interpreter) execStmt(stmt Stmt, env *Env) (outcome, error) {
	switch stmt := stmt.(type) {
	case *ExprStmt:
		value, err := in.evalExpr(stmt.Expr, env)
		if err != nil {
			return normal, err
		}

		return outcome{sig: sigNone, value: value}, nil

	case *BetStmt:
		value, err := in.evalExpr(stmt.Value, env)
		if err != nil {
			return normal, err
		}

		env.Define(stmt.Name, value)

		return normal, nil

	case *AssignStmt:
		return normal, in.execAssign(stmt, env)

	case *FlexStmt:
		env.Define(stmt.Name, &Function{
			Name:   stmt.Name,
			Params: stmt.Params,
			Body:   stmt.Body,
			Env:    env,
		})

		return normal, nil

	case *VibeStmt:
		value := Value(Null{})

		if stmt.Value != nil {
			v, err := in.evalExpr(stmt.Value, env)
			if err != nil {
				return normal, err
			}

			value = v
		}

		return outcome{sig: sigReturn, value: value}, nil

	case *SusStmt:
		cond, err := in.evalExpr(stmt.Cond, env)
		if err != nil {
			return normal, err
		}

		if Truthy(cond) {
			return in.execStmts(stmt.Then, NewEnv(env))
		}

		if stmt.Else != nil {
			return in.execStmts(stmt.Else, NewEnv(env))
		}

		return normal, nil

	case *LowkeyStmt:
		return in.execLowkey(stmt, env)

	case *HighkeyStmt:
		return in.execHighkey(stmt, env)

	case *SwitchStmt:
		return in.execSwitch(stmt, env)

	case *BruhStmt:
		value, err := in.evalExpr(stmt.Value, env)
		if err != nil {
			return normal, err
		}

		fmt.Fprintln(in.stdout, value.String())

		return normal, nil

	case *BlockStmt:
		return in.execStmts(stmt.Stmts, NewEnv(env))

	case *SlayStmt:
		return outcome{sig: sigBreak}, nil

	case *GhostStmt:
		return outcome{sig: sigContinue}, nil

	default:
		return normal, newRuntimeError(
			stmt.Pos().Line, stmt.Pos().Column,
			NewError("unsupported statement"),
		)
	}
}

// execAssign mutates a binding, object member, or array/object element in
// place.
func (in *Interpreter) execAssign(stmt *AssignStmt, env *Env) error {
	value, err := in.evalExpr(stmt.Value, env)
	if err != nil {
		return err
	}

	switch target := stmt.Target.(type) {
	case *Ident:
		if !env.Assign(target.Name, value) {
			return in.rtErr(target, ErrUnboundAssignment.With(
				slog.String("name", target.Name),
			))
		}

		return nil

	case *MemberExpr:
		object, err := in.evalExpr(target.Object, env)
		if err != nil {
			return err
		}

		obj, ok := object.(*Object)
		if !ok {
			return in.rtErr(target, ErrMemberAccess.With(
				slog.String("got", object.Kind().String()),
			))
		}

		obj.Set(target.Name, value)

		return nil

	case *IndexExpr:
		return in.execIndexAssign(target, value, env)

	default:
		return in.rtErr(stmt, NewError("invalid assignment target"))
	}
}

// execIndexAssign handles a[i] = v and o["k"] = v.
func (in *Interpreter) execIndexAssign(
	target *IndexExpr,
	value Value,
	env *Env,
) error {
	object, err := in.evalExpr(target.Object, env)
	if err != nil {
		return err
	}

	index, err := in.evalExpr(target.Index, env)
	if err != nil {
		return err
	}

	switch object := object.(type) {
	case *Array:
		i, ok := arrayIndex(index, len(object.Elems))
		if !ok {
			return in.rtErr(target, ErrIndexOutOfRange.With(
				slog.String("index", index.String()),
				slog.Int("length", len(object.Elems)),
			))
		}

		object.Elems[i] = value

		return nil

	case *Object:
		key, ok := index.(String)
		if !ok {
			return in.rtErr(target, ErrTypeMismatch.With(
				slog.String("want", "string key"),
				slog.String("got", index.Kind().String()),
			))
		}

		object.Set(string(key), value)

		return nil

	default:
		return in.rtErr(target, ErrTypeMismatch.With(
			slog.String("want", "array or object"),
			slog.String("got", object.Kind().String()),
		))
	}
}

// execLowkey runs a while loop. Each iteration executes the body in a
// fresh child environment.
func (in *Interpreter) execLowkey(
	stmt *LowkeyStmt,
	env *Env,
) (outcome, error) {
	for {
		cond, err := in.evalExpr(stmt.Cond, env)
		if err != nil {
			return normal, err
		}

		if !Truthy(cond) {
			return normal, nil
		}

		out, err := in.execStmts(stmt.Body, NewEnv(env))
		if err != nil {
			return normal, err
		}

		switch out.sig {
		case sigBreak:
			return normal, nil
		case sigReturn:
			return out, nil
		default:
			// normal completion or continue: next iteration
		}
	}
}

// execHighkey runs a for-each loop over an array's elements, an object's
// values in insertion order, or a string's single-character substrings.
func (in *Interpreter) execHighkey(
	stmt *HighkeyStmt,
	env *Env,
) (outcome, error) {
	iter, err := in.evalExpr(stmt.Iter, env)
	if err != nil {
		return normal, err
	}

	var items []Value

	switch iter := iter.(type) {
	case *Array:
		items = iter.Elems
	case *Object:
		items = iter.Values()
	case String:
		for _, r := range string(iter) {
			items = append(items, String(string(r)))
		}
	default:
		return normal, in.rtErr(stmt, ErrNotIterable.With(
			slog.String("got", iter.Kind().String()),
		))
	}

	for _, item := range items {
		child := NewEnv(env)
		child.Define(stmt.Var, item)

		out, err := in.execStmts(stmt.Body, child)
		if err != nil {
			return normal, err
		}

		switch out.sig {
		case sigBreak:
			return normal, nil
		case sigReturn:
			return out, nil
		default:
		}
	}

	return normal, nil
}

// execSwitch runs a vibe check: the subject is compared against each case
// label in order using the == rule (value for scalars, identity for
// containers); the first equal label's body executes in a fresh child
// environment, otherwise the default clause. There is no fall-through, so
// break and continue signals pass through to any enclosing loop.
func (in *Interpreter) execSwitch(
	stmt *SwitchStmt,
	env *Env,
) (outcome, error) {
	subject, err := in.evalExpr(stmt.Subject, env)
	if err != nil {
		return normal, err
	}

	for _, clause := range stmt.Cases {
		label, err := in.evalExpr(clause.Label, env)
		if err != nil {
			return normal, err
		}

		if Equal(subject, label) {
			return in.execStmts(clause.Body, NewEnv(env))
		}
	}

	if stmt.Default != nil {
		return in.execStmts(stmt.Default, NewEnv(env))
	}

	return normal, nil
}

// evalExpr evaluates an expression to a value.
func (in *Interpreter) evalExpr(expr Expr, env *Env) (Value, error) {
	switch expr := expr.(type) {
	case *NumberLit:
		return Number(expr.Value), nil

	case *StringLit:
		return String(expr.Value), nil

	case *BoolLit:
		return Bool(expr.Value), nil

	case *Ident:
		value, ok := env.Get(expr.Name)
		if !ok {
			return nil, in.rtErr(expr, ErrUnknownIdentifier.With(
				slog.String("name", expr.Name),
			))
		}

		return value, nil

	case *ArrayLit:
		elems := make([]Value, len(expr.Elems))

		for i, e := range expr.Elems {
			value, err := in.evalExpr(e, env)
			if err != nil {
				return nil, err
			}

			elems[i] = value
		}

		return NewArray(elems...), nil

	case *ObjectLit:
		obj := NewObject()

		for _, field := range expr.Fields {
			value, err := in.evalExpr(field.Value, env)
			if err != nil {
				return nil, err
			}

			obj.Set(field.Key, value)
		}

		return obj, nil

	case *UnaryExpr:
		return in.evalUnary(expr, env)

	case *BinaryExpr:
		return in.evalBinary(expr, env)

	case *MemberExpr:
		return in.evalMember(expr, env)

	case *IndexExpr:
		return in.evalIndex(expr, env)

	case *CallExpr:
		return in.evalCall(expr, env)

	default:
		return nil, in.rtErr(expr, NewError("unsupported expression"))
	}
}

func (in *Interpreter) evalUnary(expr *UnaryExpr, env *Env) (Value, error) {
	operand, err := in.evalExpr(expr.Operand, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case KindBang:
		return Bool(!Truthy(operand)), nil

	case KindMinus:
		n, ok := operand.(Number)
		if !ok {
			return nil, in.rtErr(expr, ErrTypeMismatch.With(
				slog.String("operator", "-"),
				slog.String("want", "number"),
				slog.String("got", operand.Kind().String()),
			))
		}

		return -n, nil

	default:
		return nil, in.rtErr(expr, NewError("unsupported unary operator"))
	}
}

func (in *Interpreter) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	// Logical operators short-circuit and return the determining operand.
	if expr.Op == KindAnd || expr.Op == KindOr {
		left, err := in.evalExpr(expr.Left, env)
		if err != nil {
			return nil, err
		}

		if expr.Op == KindAnd && !Truthy(left) {
			return left, nil
		}

		if expr.Op == KindOr && Truthy(left) {
			return left, nil
		}

		return in.evalExpr(expr.Right, env)
	}

	left, err := in.evalExpr(expr.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := in.evalExpr(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case KindEq:
		return Bool(Equal(left, right)), nil

	case KindNotEq:
		return Bool(!Equal(left, right)), nil

	case KindPlus:
		// String + anything (either side) concatenates.
		if left.Kind() == ValueString || right.Kind() == ValueString {
			return String(left.String() + right.String()), nil
		}

		return in.arith(expr, left, right)

	case KindMinus, KindStar, KindSlash, KindPercent:
		return in.arith(expr, left, right)

	case KindLess, KindLessEq, KindGreater, KindGreaterEq:
		return in.compare(expr, left, right)

	default:
		return nil, in.rtErr(expr, NewError("unsupported binary operator"))
	}
}

// arith applies a numeric operator. Division and modulo follow IEEE-754:
// dividing by zero yields an infinity or NaN, not a runtime error.
func (in *Interpreter) arith(
	expr *BinaryExpr,
	left, right Value,
) (Value, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)

	if !lok || !rok {
		return nil, in.rtErr(expr, ErrTypeMismatch.With(
			slog.String("operator", expr.Op.String()),
			slog.String("left", left.Kind().String()),
			slog.String("right", right.Kind().String()),
		))
	}

	switch expr.Op {
	case KindPlus:
		return l + r, nil
	case KindMinus:
		return l - r, nil
	case KindStar:
		return l * r, nil
	case KindSlash:
		return l / r, nil
	case KindPercent:
		return Number(math.Mod(float64(l), float64(r))), nil
	default:
		return nil, in.rtErr(expr, NewError("unsupported arithmetic operator"))
	}
}

// compare applies an ordering operator to two numbers or two strings
// (lexicographic).
func (in *Interpreter) compare(
	expr *BinaryExpr,
	left, right Value,
) (Value, error) {
	if l, ok := left.(Number); ok {
		if r, ok := right.(Number); ok {
			return compareOrdered(expr.Op, float64(l), float64(r)), nil
		}
	}

	if l, ok := left.(String); ok {
		if r, ok := right.(String); ok {
			return compareOrdered(expr.Op, string(l), string(r)), nil
		}
	}

	return nil, in.rtErr(expr, ErrTypeMismatch.With(
		slog.String("operator", expr.Op.String()),
		slog.String("left", left.Kind().String()),
		slog.String("right", right.Kind().String()),
	))
}

func compareOrdered[T float64 | string](op Kind, l, r T) Value {
	switch op {
	case KindLess:
		return Bool(l < r)
	case KindLessEq:
		return Bool(l <= r)
	case KindGreater:
		return Bool(l > r)
	default:
		return Bool(l >= r)
	}
}

// evalMember resolves object.name to the bound value, or Null when the key
// is absent.
func (in *Interpreter) evalMember(expr *MemberExpr, env *Env) (Value, error) {
	object, err := in.evalExpr(expr.Object, env)
	if err != nil {
		return nil, err
	}

	obj, ok := object.(*Object)
	if !ok {
		return nil, in.rtErr(expr, ErrMemberAccess.With(
			slog.String("member", expr.Name),
			slog.String("got", object.Kind().String()),
		))
	}

	if value, ok := obj.Get(expr.Name); ok {
		return value, nil
	}

	return Null{}, nil
}

// evalIndex resolves a[i] (integer index into an array) and o[k] (string
// key into an object, Null when absent).
func (in *Interpreter) evalIndex(expr *IndexExpr, env *Env) (Value, error) {
	object, err := in.evalExpr(expr.Object, env)
	if err != nil {
		return nil, err
	}

	index, err := in.evalExpr(expr.Index, env)
	if err != nil {
		return nil, err
	}

	switch object := object.(type) {
	case *Array:
		i, ok := arrayIndex(index, len(object.Elems))
		if !ok {
			return nil, in.rtErr(expr, ErrIndexOutOfRange.With(
				slog.String("index", index.String()),
				slog.Int("length", len(object.Elems)),
			))
		}

		return object.Elems[i], nil

	case *Object:
		key, ok := index.(String)
		if !ok {
			return nil, in.rtErr(expr, ErrTypeMismatch.With(
				slog.String("want", "string key"),
				slog.String("got", index.Kind().String()),
			))
		}

		if value, ok := object.Get(string(key)); ok {
			return value, nil
		}

		return Null{}, nil

	default:
		return nil, in.rtErr(expr, ErrTypeMismatch.With(
			slog.String("want", "array or object"),
			slog.String("got", object.Kind().String()),
		))
	}
}

// arrayIndex validates an integer-valued number index in [0, length).
func arrayIndex(index Value, length int) (int, bool) {
	n, ok := index.(Number)
	if !ok {
		return 0, false
	}

	f := float64(n)
	if f != math.Trunc(f) || f < 0 || int(f) >= length {
		return 0, false
	}

	return int(f), true
}

// evalCall evaluates the callee and arguments left to right, then invokes
// a user function in a fresh environment chained to its captured scope, or
// a built-in directly.
func (in *Interpreter) evalCall(expr *CallExpr, env *Env) (Value, error) {
	callee, err := in.evalExpr(expr.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(expr.Args))

	for i, arg := range expr.Args {
		value, err := in.evalExpr(arg, env)
		if err != nil {
			return nil, err
		}

		args[i] = value
	}

	switch callee := callee.(type) {
	case *Function:
		if len(args) != len(callee.Params) {
			return nil, in.rtErr(expr, ErrArityMismatch.With(
				slog.String("function", callee.Name),
				slog.Int("expected", len(callee.Params)),
				slog.Int("got", len(args)),
			))
		}

		frame := NewEnv(callee.Env)
		for i, param := range callee.Params {
			frame.Define(param, args[i])
		}

		out, err := in.execStmts(callee.Body, frame)
		if err != nil {
			return nil, err
		}

		if out.sig == sigReturn {
			return out.value, nil
		}

		return Null{}, nil

	case *Builtin:
		if len(args) != callee.Arity {
			return nil, in.rtErr(expr, ErrArityMismatch.With(
				slog.String("function", callee.Name),
				slog.Int("expected", callee.Arity),
				slog.Int("got", len(args)),
			))
		}

		value, err := callee.Fn(args)
		if err != nil {
			return nil, in.rtErr(expr, err)
		}

		return value, nil

	default:
		return nil, in.rtErr(expr, ErrNotCallable.With(
			slog.String("got", callee.Kind().String()),
		))
	}
}

// rtErr wraps an error with the source position of the offending node.
func (in *Interpreter) rtErr(node Node, err error) error {
	pos := node.Pos()

	return newRuntimeError(pos.Line, pos.Column, err)
}
