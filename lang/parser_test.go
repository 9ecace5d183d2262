package lang

import (
	"errors"
	"strings"
	"testing"
)

func parseProgram(t *testing.T, source string) *Program {
	t.Helper()

	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return program
}

func TestParse_Precedence(t *testing.T) {
	program := parseProgram(t, "bet x = 2 + 3 * 4")

	bet, ok := program.Stmts[0].(*BetStmt)
	if !ok {
		t.Fatalf("expected *BetStmt, got %T", program.Stmts[0])
	}

	// Must parse as 2 + (3 * 4).
	add, ok := bet.Value.(*BinaryExpr)
	if !ok || add.Op != KindPlus {
		t.Fatalf("expected + at root, got %T", bet.Value)
	}

	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != KindStar {
		t.Fatalf("expected * on the right, got %T", add.Right)
	}
}

func TestParse_LeftAssociativity(t *testing.T) {
	program := parseProgram(t, "bet x = 10 - 4 - 3")

	bet := program.Stmts[0].(*BetStmt)

	// Must parse as (10 - 4) - 3.
	outer, ok := bet.Value.(*BinaryExpr)
	if !ok || outer.Op != KindMinus {
		t.Fatalf("expected - at root, got %T", bet.Value)
	}

	inner, ok := outer.Left.(*BinaryExpr)
	if !ok || inner.Op != KindMinus {
		t.Fatalf("expected - on the left, got %T", outer.Left)
	}

	if lit, ok := outer.Right.(*NumberLit); !ok || lit.Value != 3 {
		t.Errorf("expected 3 on the right, got %v", outer.Right)
	}
}

func TestParse_LogicalPrecedence(t *testing.T) {
	program := parseProgram(t, "a || b && c")

	stmt := program.Stmts[0].(*ExprStmt)

	// Must parse as a || (b && c).
	or, ok := stmt.Expr.(*BinaryExpr)
	if !ok || or.Op != KindOr {
		t.Fatalf("expected || at root, got %T", stmt.Expr)
	}

	if and, ok := or.Right.(*BinaryExpr); !ok || and.Op != KindAnd {
		t.Fatalf("expected && on the right, got %T", or.Right)
	}
}

func TestParse_UnaryBindsTighterThanBinary(t *testing.T) {
	program := parseProgram(t, "-a + b")

	stmt := program.Stmts[0].(*ExprStmt)

	add, ok := stmt.Expr.(*BinaryExpr)
	if !ok || add.Op != KindPlus {
		t.Fatalf("expected + at root, got %T", stmt.Expr)
	}

	if _, ok := add.Left.(*UnaryExpr); !ok {
		t.Fatalf("expected unary on the left, got %T", add.Left)
	}
}

func TestParse_PostfixChain(t *testing.T) {
	program := parseProgram(t, "a.b[0](1, 2).c")

	stmt := program.Stmts[0].(*ExprStmt)

	member, ok := stmt.Expr.(*MemberExpr)
	if !ok || member.Name != "c" {
		t.Fatalf("expected trailing member access, got %T", stmt.Expr)
	}

	call, ok := member.Object.(*CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected call with 2 args, got %T", member.Object)
	}

	index, ok := call.Callee.(*IndexExpr)
	if !ok {
		t.Fatalf("expected index, got %T", call.Callee)
	}

	if _, ok := index.Object.(*MemberExpr); !ok {
		t.Fatalf("expected member access, got %T", index.Object)
	}
}

func TestParse_AssignmentTargets(t *testing.T) {
	program := parseProgram(t, "x = 1 o.k = 2 a[0] = 3")

	if len(program.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Stmts))
	}

	for i, want := range []any{&Ident{}, &MemberExpr{}, &IndexExpr{}} {
		assign, ok := program.Stmts[i].(*AssignStmt)
		if !ok {
			t.Fatalf("statement %d: expected assignment, got %T",
				i, program.Stmts[i])
		}

		switch want.(type) {
		case *Ident:
			if _, ok := assign.Target.(*Ident); !ok {
				t.Errorf("statement %d: wrong target %T", i, assign.Target)
			}
		case *MemberExpr:
			if _, ok := assign.Target.(*MemberExpr); !ok {
				t.Errorf("statement %d: wrong target %T", i, assign.Target)
			}
		case *IndexExpr:
			if _, ok := assign.Target.(*IndexExpr); !ok {
				t.Errorf("statement %d: wrong target %T", i, assign.Target)
			}
		}
	}
}

func TestParse_InvalidAssignmentTarget(t *testing.T) {
	_, err := Parse("1 + 2 = 3")
	if err == nil {
		t.Fatal("expected parse error")
	}

	parseErr := &ParseError{}
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParse_MissingExpression(t *testing.T) {
	_, err := Parse("bet x = ")
	if err == nil {
		t.Fatal("expected parse error")
	}

	parseErr := &ParseError{}
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	if parseErr.Expected != "expression" {
		t.Errorf("expected 'expression', got %q", parseErr.Expected)
	}
}

func TestParse_ErrorReferencesLineAndSnippet(t *testing.T) {
	_, err := Parse("bet x = 1\nbet = 2")
	if err == nil {
		t.Fatal("expected parse error")
	}

	parseErr := &ParseError{}
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	if parseErr.Line != 2 {
		t.Errorf("expected line 2, got %d", parseErr.Line)
	}

	msg := err.Error()
	if !strings.Contains(msg, "line 2") || !strings.Contains(msg, "^") {
		t.Errorf("diagnostic missing line or caret: %q", msg)
	}
}

func TestParse_SusWithBussin(t *testing.T) {
	program := parseProgram(t, "sus (fr) { bruh 1 } bussin { bruh 2 }")

	sus := program.Stmts[0].(*SusStmt)
	if len(sus.Then) != 1 || len(sus.Else) != 1 {
		t.Fatalf("expected one statement per branch, got %d/%d",
			len(sus.Then), len(sus.Else))
	}
}

func TestParse_SusWithoutBussin(t *testing.T) {
	program := parseProgram(t, "sus (fr) { bruh 1 }")

	sus := program.Stmts[0].(*SusStmt)
	if sus.Else != nil {
		t.Fatal("expected no else branch")
	}
}

func TestParse_BussinRequiresBlock(t *testing.T) {
	// Else-if is written as a nested sus inside the bussin block; a bare
	// sus after bussin is a parse error.
	if _, err := Parse("sus (fr) { } bussin sus (cap) { }"); err == nil {
		t.Fatal("expected parse error for bussin without block")
	}
}

func TestParse_HighkeyForm(t *testing.T) {
	program := parseProgram(t, "highkey (e in [1, 2]) { bruh e }")

	each := program.Stmts[0].(*HighkeyStmt)
	if each.Var != "e" {
		t.Errorf("expected loop variable 'e', got %q", each.Var)
	}

	if _, err := Parse("highkey (e of [1]) { }"); err == nil {
		t.Fatal("expected parse error without 'in'")
	}
}

func TestParse_ArrayLiteral(t *testing.T) {
	program := parseProgram(t, `bet a = [1, "two", fr]`)

	arr := program.Stmts[0].(*BetStmt).Value.(*ArrayLit)
	if len(arr.Elems) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elems))
	}
}

func TestParse_ArrayTrailingCommaRejected(t *testing.T) {
	if _, err := Parse("bet a = [1, 2,]"); err == nil {
		t.Fatal("expected parse error for trailing comma")
	}
}

func TestParse_ObjectLiteral(t *testing.T) {
	program := parseProgram(t, `bet o = {a: 1, "b c": 2}`)

	obj := program.Stmts[0].(*BetStmt).Value.(*ObjectLit)
	if len(obj.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(obj.Fields))
	}

	if obj.Fields[0].Key != "a" || obj.Fields[1].Key != "b c" {
		t.Errorf("unexpected keys: %q, %q",
			obj.Fields[0].Key, obj.Fields[1].Key)
	}
}

func TestParse_ObjectTrailingCommaRejected(t *testing.T) {
	if _, err := Parse("bet o = {a: 1,}"); err == nil {
		t.Fatal("expected parse error for trailing comma")
	}
}

func TestParse_EmptyObjectVsBlock(t *testing.T) {
	// A leading '{' opens a block statement; in expression position it
	// opens an object literal.
	program := parseProgram(t, "{ bruh 1 } bet o = {}")

	if _, ok := program.Stmts[0].(*BlockStmt); !ok {
		t.Fatalf("expected block statement, got %T", program.Stmts[0])
	}

	obj := program.Stmts[1].(*BetStmt).Value.(*ObjectLit)
	if len(obj.Fields) != 0 {
		t.Errorf("expected empty object, got %d fields", len(obj.Fields))
	}
}

func TestParse_VibeCheck(t *testing.T) {
	program := parseProgram(t, `
		vibe check (x) {
			case 1: bruh "one"
			case 2: bruh "two"
			default: bruh "other"
		}
	`)

	sw, ok := program.Stmts[0].(*SwitchStmt)
	if !ok {
		t.Fatalf("expected *SwitchStmt, got %T", program.Stmts[0])
	}

	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}

	if len(sw.Cases[0].Body) != 1 || len(sw.Cases[1].Body) != 1 {
		t.Errorf("each case must hold one statement: %d/%d",
			len(sw.Cases[0].Body), len(sw.Cases[1].Body))
	}

	if sw.Default == nil {
		t.Fatal("expected default clause")
	}
}

func TestParse_VibeCheckWithoutDefault(t *testing.T) {
	program := parseProgram(t, `vibe check (x) { case 1: bruh 1 }`)

	sw := program.Stmts[0].(*SwitchStmt)
	if sw.Default != nil {
		t.Fatal("expected no default clause")
	}
}

func TestParse_VibeCheckRequiresClause(t *testing.T) {
	if _, err := Parse("vibe check (x) { bruh 1 }"); err == nil {
		t.Fatal("expected parse error for statement outside a clause")
	}
}

func TestParse_VibeCheckSingleDefault(t *testing.T) {
	source := `vibe check (x) { default: bruh 1 default: bruh 2 }`

	if _, err := Parse(source); err == nil {
		t.Fatal("expected parse error for duplicate default")
	}
}

func TestParse_CaseIsSoftKeyword(t *testing.T) {
	// Outside vibe check braces, "case" and "default" are ordinary
	// identifiers.
	program := parseProgram(t, "bet case = 1 bruh case + 1")

	if _, ok := program.Stmts[0].(*BetStmt); !ok {
		t.Fatalf("expected binding, got %T", program.Stmts[0])
	}
}

func TestParse_BareVibe(t *testing.T) {
	program := parseProgram(t, "flex f() { vibe }")

	flex := program.Stmts[0].(*FlexStmt)

	vibe := flex.Body[0].(*VibeStmt)
	if vibe.Value != nil {
		t.Fatal("expected bare vibe to carry no expression")
	}
}

func TestParse_FlexParameters(t *testing.T) {
	program := parseProgram(t, "flex add(a, b) { vibe a + b }")

	flex := program.Stmts[0].(*FlexStmt)
	if len(flex.Params) != 2 || flex.Params[0] != "a" || flex.Params[1] != "b" {
		t.Errorf("unexpected params: %v", flex.Params)
	}
}
