package interpreter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/interpreter"
	"golox/lexer"
	"golox/parser"
	"golox/resolver"
)

// runSource executes a program through the full pipeline (scan, parse,
// resolve, interpret) and returns everything the program printed plus
// any runtime error.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()

	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)

	statements, parseErrs := parser.Make(tokens).Parse()
	require.Empty(t, parseErrs)

	var out bytes.Buffer
	interp := interpreter.MakeWithOutput(&out)
	require.NoError(t, resolver.Make(interp).Resolve(statements))

	runtimeErr := interp.Interpret(statements)
	return out.String(), runtimeErr
}

// expectOutput asserts that the program runs without error and prints
// exactly the expected text.
func expectOutput(t *testing.T, source string, expected string) {
	t.Helper()

	output, err := runSource(t, source)
	require.NoError(t, err)
	assert.Equal(t, expected, output)
}

// expectRuntimeError asserts that the program fails with a runtime error
// whose message contains the expected fragment.
func expectRuntimeError(t *testing.T, source string, fragment string) {
	t.Helper()

	_, err := runSource(t, source)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fragment)
	assert.IsType(t, interpreter.RuntimeError{}, err)
}

func TestArithmeticPrecedence(t *testing.T) {
	expectOutput(t, "print 1 + 2 * 3 - 4;", "3\n")
	expectOutput(t, "print 5 - 3 - 1;", "1\n")
	expectOutput(t, "print -1 + 2;", "1\n")
	expectOutput(t, "print ((1 + 2) * (3 + 4)) / 3;", "7\n")
}

func TestNumberFormatting(t *testing.T) {
	// integer-valued numbers print without a trailing .0
	expectOutput(t, "print 8 / 2;", "4\n")
	expectOutput(t, "print 1 / 2;", "0.5\n")
	expectOutput(t, "print 42.25;", "42.25\n")
}

func TestModuloAndPower(t *testing.T) {
	expectOutput(t, "print 5 % 2;", "1\n")
	expectOutput(t, "print 0 % 2;", "0\n")
	expectOutput(t, "print 2 ** 10;", "1024\n")
	// exponentiation associates to the right
	expectOutput(t, "print 2 ** 3 ** 2;", "512\n")
}

func TestDivisionAndModuloByZero(t *testing.T) {
	expectRuntimeError(t, "print 5 / 0;", "Division by 0")
	expectRuntimeError(t, "print 5 % 0;", "Modulo by 0")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `var a = "foo"; var b = "bar"; print a + b;`, "foobar\n")
}

func TestMixedAdditionFails(t *testing.T) {
	expectRuntimeError(t, `print "x" + 1;`, "Operands of + must be either numbers or strings")
}

func TestComparisonTypeErrors(t *testing.T) {
	expectRuntimeError(t, `print "a" < "b";`, "Operands of < must be numbers")
	expectRuntimeError(t, `print "a" - "b";`, "Operands of - must be numbers")
}

func TestUnaryOperators(t *testing.T) {
	expectOutput(t, "print -42;", "-42\n")
	expectOutput(t, "print !true;", "false\n")
	expectOutput(t, "print !nil;", "true\n")
	expectOutput(t, "print !0;", "false\n")
	expectRuntimeError(t, `print -"abc";`, "Operand of - must be a number")
}

func TestEquality(t *testing.T) {
	expectOutput(t, "print 3 == 3;", "true\n")
	expectOutput(t, `print "aa" == "aa";`, "true\n")
	// no cross-kind coercion
	expectOutput(t, `print 1 == "1";`, "false\n")
	expectOutput(t, "print nil == false;", "false\n")
	expectOutput(t, "print 1 != 2;", "true\n")
}

func TestTruthiness(t *testing.T) {
	// only nil and false are falsy: 0 and "" are truthy
	expectOutput(t, `print 0 ? "yes" : "no";`, "yes\n")
	expectOutput(t, `print "" ? "yes" : "no";`, "yes\n")
	expectOutput(t, `print nil ? "yes" : "no";`, "no\n")
	expectOutput(t, `print false ? "yes" : "no";`, "no\n")
}

func TestLogicalOperatorsReturnOperandValues(t *testing.T) {
	expectOutput(t, "print 1 or 2;", "1\n")
	expectOutput(t, "print nil or 2;", "2\n")
	expectOutput(t, "print nil and 2;", "nil\n")
	expectOutput(t, "print 1 and 2;", "2\n")
}

func TestLogicalShortCircuit(t *testing.T) {
	// the right operand must not be evaluated when the left decides
	source := `
	var called = false;
	fun touch() {
		called = true;
		return true;
	}
	var _ = false and touch();
	print called;
	var __ = true or touch();
	print called;`
	expectOutput(t, source, "false\nfalse\n")
}

func TestBlockScopeShadowing(t *testing.T) {
	source := `var x = 10;
	{
		var x = 20;
		print x;
	}
	print x;`
	expectOutput(t, source, "20\n10\n")
}

func TestUninitializedVariableIsNil(t *testing.T) {
	expectOutput(t, "var x; print x;", "nil\n")
}

func TestWhileLoop(t *testing.T) {
	source := `var i = 0;
	while (i < 3) {
		print i;
		i = i + 1;
	}`
	expectOutput(t, source, "0\n1\n2\n")
}

func TestForLoop(t *testing.T) {
	expectOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n")
}

func TestIfElse(t *testing.T) {
	expectOutput(t, `if (1 < 2) print "then"; else print "else";`, "then\n")
	expectOutput(t, `if (1 > 2) print "then"; else print "else";`, "else\n")
}

func TestFibonacci(t *testing.T) {
	source := `fun fib(n) {
		if (n < 2) return n;
		return fib(n - 1) + fib(n - 2);
	}
	print fib(10);`
	expectOutput(t, source, "55\n")
}

func TestClosureCounter(t *testing.T) {
	source := `fun make() {
		var x = 0;
		fun inc() {
			x = x + 1;
			return x;
		}
		return inc;
	}
	var f = make();
	print f();
	print f();
	print f();`
	expectOutput(t, source, "1\n2\n3\n")
}

func TestClosuresCaptureIndependentEnvironments(t *testing.T) {
	source := `fun make() {
		var x = 0;
		fun inc() {
			x = x + 1;
			return x;
		}
		return inc;
	}
	var f = make();
	var g = make();
	print f();
	print f();
	print g();`
	expectOutput(t, source, "1\n2\n1\n")
}

func TestLexicalBinding(t *testing.T) {
	// a name inside a function binds to the scope active at the
	// function's declaration site, not its call site
	source := `var a = "global";
	{
		fun show() {
			print a;
		}
		show();
		var a = "block";
		show();
	}`
	expectOutput(t, source, "global\nglobal\n")
}

func TestReturnWithoutValue(t *testing.T) {
	source := `fun noop() {
		return;
	}
	print noop();`
	expectOutput(t, source, "nil\n")
}

func TestFunctionWithoutReturn(t *testing.T) {
	source := `fun noop() {}
	print noop();`
	expectOutput(t, source, "nil\n")
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	source := `fun find() {
		var i = 0;
		while (true) {
			if (i == 2) {
				return i;
			}
			i = i + 1;
		}
	}
	print find();`
	expectOutput(t, source, "2\n")
}

func TestCurriedCall(t *testing.T) {
	source := `fun outer() {
		fun inner() {
			return "inner result";
		}
		return inner;
	}
	print outer()();`
	expectOutput(t, source, "inner result\n")
}

func TestCallArityMismatch(t *testing.T) {
	expectRuntimeError(t, `fun f(a, b) { return a; } f(1);`, "Expected 2 arguments, got 1")
	expectRuntimeError(t, `fun f() { return 1; } f(1, 2);`, "Expected 0 arguments, got 2")
}

func TestCallNonCallable(t *testing.T) {
	expectRuntimeError(t, `"abc"(1);`, "Cannot call non-callable object")
	expectRuntimeError(t, `var x = 1; x();`, "Cannot call non-callable object")
}

func TestUndefinedVariable(t *testing.T) {
	expectRuntimeError(t, "print missing;", "Undefined variable 'missing'")
	expectRuntimeError(t, "missing = 1;", "Cannot assign to undefined variable 'missing'")
}

func TestTernary(t *testing.T) {
	expectOutput(t, `print 1 < 2 ? "lower" : "higher";`, "lower\n")

	// only the selected branch is evaluated
	source := `var x = 0;
	fun sideEffect() {
		x = x + 1;
		return x;
	}
	var _ = true ? 1 : sideEffect();
	print x;`
	expectOutput(t, source, "0\n")
}

func TestPostfixIncrement(t *testing.T) {
	// the expression produces the pre-increment value and stores the
	// incremented one
	expectOutput(t, "var i = 5; print i++; print i;", "5\n6\n")
	expectOutput(t, `var i = 0;
	while (i < 3) {
		print i++;
	}`, "0\n1\n2\n")
}

func TestPostfixIncrementErrors(t *testing.T) {
	expectRuntimeError(t, `var s = "a"; s++;`, "Operand of ++ must be a number")
	expectRuntimeError(t, "1++;", "Operand of ++ must be a variable")
}

func TestAssignmentEvaluatesToValue(t *testing.T) {
	expectOutput(t, "var x = 1; print x = 2;", "2\n")
}

func TestFunctionValuesPrint(t *testing.T) {
	expectOutput(t, "fun add(a, b) { return a + b; } print add;", "<fn add(a, b)>\n")
	expectOutput(t, "print sqrt;", "<builtin sqrt/1>\n")
}

func TestBuiltinSqrt(t *testing.T) {
	expectOutput(t, "print sqrt(16);", "4\n")
	expectOutput(t, "print sqrt(2) * sqrt(2) > 1.99;", "true\n")
	expectRuntimeError(t, "print sqrt(-1);", "Cannot compute square root of negative number")
	expectRuntimeError(t, `print sqrt("four");`, "Argument of sqrt must be a number")
}

func TestBuiltinRand(t *testing.T) {
	expectOutput(t, "var r = rand(10); print r >= 0 and r < 10;", "true\n")
	expectRuntimeError(t, "rand(0);", "Argument of rand must be a number greater than 0")
}

func TestBuiltinTime(t *testing.T) {
	expectOutput(t, "print time() > 0;", "true\n")
	expectRuntimeError(t, "time(1);", "Expected 0 arguments, got 1")
}

func TestInterpreterSurvivesRuntimeErrors(t *testing.T) {
	tokens, err := lexer.New("var x = 1; print missing; print x;").Scan()
	require.NoError(t, err)
	statements, parseErrs := parser.Make(tokens).Parse()
	require.Empty(t, parseErrs)

	var out bytes.Buffer
	interp := interpreter.MakeWithOutput(&out)
	require.NoError(t, resolver.Make(interp).Resolve(statements))
	require.Error(t, interp.Interpret(statements))

	// the failed run aborted before the final print, and the interpreter
	// stays usable for the next program
	assert.Empty(t, out.String())

	tokens, err = lexer.New("print x;").Scan()
	require.NoError(t, err)
	statements, parseErrs = parser.Make(tokens).Parse()
	require.Empty(t, parseErrs)
	require.NoError(t, resolver.Make(interp).Resolve(statements))
	require.NoError(t, interp.Interpret(statements))
	assert.Equal(t, "1\n", out.String())
}
