package lang

import (
	"strings"
	"testing"
)

func TestFormatSource_NormalizesSpacing(t *testing.T) {
	got, err := FormatSource("bet   x=2+3*4\nbruh    x", 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "bet x = 2 + 3 * 4\nbruh x\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSource_Indentation(t *testing.T) {
	source := `flex f(n) { sus (n <= 1) { vibe 1 } bussin { vibe n * f(n - 1) } }`

	got, err := FormatSource(source, 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := strings.Join([]string{
		"flex f(n) {",
		"  sus (n <= 1) {",
		"    vibe 1",
		"  } bussin {",
		"    vibe n * f(n - 1)",
		"  }",
		"}",
		"",
	}, "\n")

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatSource_PreservesNecessaryParens(t *testing.T) {
	got, err := FormatSource("bruh (1 + 2) * 3", 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got != "bruh (1 + 2) * 3\n" {
		t.Errorf("grouping parens must survive: %q", got)
	}
}

func TestFormatSource_DropsRedundantParens(t *testing.T) {
	got, err := FormatSource("bruh (1 * 2) + 3", 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got != "bruh 1 * 2 + 3\n" {
		t.Errorf("redundant parens must be dropped: %q", got)
	}
}

func TestFormatSource_RightAssociativeParens(t *testing.T) {
	got, err := FormatSource("bruh 1 - (2 - 3)", 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got != "bruh 1 - (2 - 3)\n" {
		t.Errorf("right-operand parens must survive: %q", got)
	}
}

func TestFormatSource_Literals(t *testing.T) {
	source := `bet o={a:1,"b":[1,2],c:{d:fr}} bet s="x\ny"`

	got, err := FormatSource(source, 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "bet o = {a: 1, b: [1, 2], c: {d: fr}}\n" +
		"bet s = \"x\\ny\"\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSource_Idempotent(t *testing.T) {
	source := `
		bet total = 0
		highkey (n in [1, 2, 3]) {
			sus (n == 2) { ghost }
			total = total + n
		}
		lowkey (total > 0) {
			total = total - 1
			sus (total == 1) { slay }
		}
		bruh total
	`

	once, err := FormatSource(source, 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	twice, err := FormatSource(once, 2)
	if err != nil {
		t.Fatalf("reformat error: %v", err)
	}

	if once != twice {
		t.Errorf("formatting must be idempotent:\n%s\nvs\n%s", once, twice)
	}
}

func TestFormatSource_VibeCheck(t *testing.T) {
	source := `vibe check (n) { case 1: bruh "one" default: bruh "other" }`

	got, err := FormatSource(source, 2)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := strings.Join([]string{
		"vibe check (n) {",
		"  case 1:",
		`    bruh "one"`,
		"  default:",
		`    bruh "other"`,
		"}",
		"",
	}, "\n")

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	again, err := FormatSource(got, 2)
	if err != nil {
		t.Fatalf("reformat error: %v", err)
	}

	if got != again {
		t.Errorf("formatting must be idempotent:\n%s\nvs\n%s", got, again)
	}
}

func TestFormatSource_ParseErrorPropagates(t *testing.T) {
	if _, err := FormatSource("bet = 1", 2); err == nil {
		t.Fatal("expected parse error")
	}
}
