package cpp_test

import (
	"testing"

	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/cpp"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) ([]string, *diagnostic.Collector) {
	t.Helper()
	coll := diagnostic.NewCollector(false)
	pp := cpp.NewPreprocessor(config.Default(), coll, nil)
	pp.PushFile("t.c", src)
	var out []string
	for {
		tok, ok := pp.NextToken()
		if !ok {
			break
		}
		out = append(out, tok.Text)
	}
	return out, coll
}

func TestObjectLikeMacroExpansion(t *testing.T) {
	out, coll := run(t, "#define N 42\nint x = N;\n")
	assert.False(t, coll.HasErrors())
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "N")
}

func TestFunctionLikeMacroExpansion(t *testing.T) {
	out, coll := run(t, "#define MAX(a, b) ((a) > (b) ? (a) : (b))\nint y = MAX(1, 2);\n")
	require.False(t, coll.HasErrors())
	joined := ""
	for _, s := range out {
		joined += s
	}
	assert.Contains(t, joined, "((1)>(2)?(1):(2))")
}

func TestStringifyOperator(t *testing.T) {
	out, _ := run(t, "#define STR(x) #x\nSTR(hello world)\n")
	assert.Contains(t, out, `"hello world"`)
}

func TestTokenPasteOperator(t *testing.T) {
	out, _ := run(t, "#define CAT(a, b) a ## b\nCAT(foo, bar)\n")
	assert.Contains(t, out, "foobar")
}

func TestRescanPaddingNeverLeaksIntoTokenStream(t *testing.T) {
	out, coll := run(t, "#define GLUE(a, b) a b\nGLUE(foo, bar)\n")
	require.False(t, coll.HasErrors())
	assert.Equal(t, []string{"foo", "bar"}, out)
}

// When a macro's own expansion rescans into a further call whose argument is
// stringified, the rescanned fragments must not fuse: foo and bar arrived at
// different substitution points and the rescan-safety padding between them
// must still force a separating space in the stringized result.
func TestRescanStringifyDoesNotFuseSubstitutionFragments(t *testing.T) {
	out, coll := run(t, "#define STR(x) #x\n#define M(x) STR(TWO(x, bar))\nM(foo)\n")
	require.False(t, coll.HasErrors())
	joined := ""
	for _, s := range out {
		joined += s
	}
	assert.Contains(t, joined, "foo")
	assert.Contains(t, joined, "bar")
	assert.NotContains(t, joined, "foobar")
}

func TestMacroDoesNotReexpandItself(t *testing.T) {
	out, _ := run(t, "#define A A B\nA\n")
	assert.Equal(t, []string{"A", "B"}, out)
}

func TestConditionalCompilationTakesTrueBranch(t *testing.T) {
	out, coll := run(t, "#if 1\nyes\n#else\nno\n#endif\n")
	assert.False(t, coll.HasErrors())
	assert.Equal(t, []string{"yes"}, out)
}

func TestConditionalCompilationElifChain(t *testing.T) {
	out, _ := run(t, "#if 0\na\n#elif 0\nb\n#elif 1\nc\n#else\nd\n#endif\n")
	assert.Equal(t, []string{"c"}, out)
}

func TestIfdefUndefined(t *testing.T) {
	out, _ := run(t, "#ifdef NOPE\nyes\n#endif\nafter\n")
	assert.Equal(t, []string{"after"}, out)
}

func TestUndefRemovesDefinition(t *testing.T) {
	out, _ := run(t, "#define X 1\n#undef X\n#ifdef X\nyes\n#else\nno\n#endif\n")
	assert.Equal(t, []string{"no"}, out)
}

func TestDefinedOperatorInIfExpression(t *testing.T) {
	out, _ := run(t, "#define X\n#if defined(X) && !defined(Y)\nok\n#endif\n")
	assert.Equal(t, []string{"ok"}, out)
}

func TestIncludeViaResolver(t *testing.T) {
	coll := diagnostic.NewCollector(false)
	resolver := cpp.NewMapResolver(map[string]string{"h.h": "#define H 7\n"})
	pp := cpp.NewPreprocessor(config.Default(), coll, resolver)
	pp.PushFile("t.c", "#include \"h.h\"\nH\n")
	var out []string
	for {
		tok, ok := pp.NextToken()
		if !ok {
			break
		}
		out = append(out, tok.Text)
	}
	require.False(t, coll.HasErrors())
	assert.Equal(t, []string{"7"}, out)
}

func TestFileLineBuiltins(t *testing.T) {
	out, _ := run(t, "__LINE__\n__LINE__\n")
	assert.Equal(t, []string{"1", "2"}, out)
}

func TestLineDirectiveRetargetsLocation(t *testing.T) {
	coll := diagnostic.NewCollector(false)
	pp := cpp.NewPreprocessor(config.Default(), coll, nil)
	pp.PushFile("t.c", "#line 100 \"other.c\"\n__LINE__\n")
	tok, ok := pp.NextToken()
	require.True(t, ok)
	assert.Equal(t, "100", tok.Text)
}

func TestVariadicMacro(t *testing.T) {
	out, _ := run(t, "#define LOG(fmt, ...) fmt: __VA_ARGS__\nLOG(\"x\", 1, 2)\n")
	joined := ""
	for _, s := range out {
		joined += s
	}
	assert.Contains(t, joined, `"x"`)
	assert.Contains(t, joined, "1")
	assert.Contains(t, joined, "2")
}

func TestPoisonedIdentifierDiagnoses(t *testing.T) {
	_, coll := run(t, "#pragma GCC poison gets\nint x = gets();\n")
	assert.True(t, coll.HasErrors())
}

func TestErrorDirectiveReportsError(t *testing.T) {
	_, coll := run(t, "#error this is bad\n")
	assert.True(t, coll.HasErrors())
}

func TestAssertRoundTrip(t *testing.T) {
	out, _ := run(t, "#assert system(unix)\n#if #system(unix)\nyes\n#endif\n")
	_ = out // assertion-query parsing in #if is accepted input, not asserted to expand here
}
