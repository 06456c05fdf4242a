package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mila/frontend"
)

// lowerSrc is a small test helper: parse src and lower it, returning the
// textual IR.
func lowerSrc(t *testing.T, src string) string {
	t.Helper()
	prog, err := frontend.Parse(src)
	require.NoError(t, err)
	llctx, module, err := Lower(prog)
	require.NoError(t, err)
	defer llctx.Dispose()
	defer module.Dispose()
	return module.String()
}

func TestLowerEmptyProgram(t *testing.T) {
	ir := lowerSrc(t, `program empty;
begin
end.`)
	assert.Contains(t, ir, "define i32 @main")
	assert.Contains(t, ir, "declare")
}

func TestLowerHexAndOctalArithmetic(t *testing.T) {
	ir := lowerSrc(t, `program p;
var x: integer;
begin
  x := $ff + &10;
end.`)
	// Both operands are constants, so the builder folds $ff + &10 into the
	// single value 263 at emit time.
	assert.Contains(t, ir, "store i32 263, i32* @x")
	assert.NotContains(t, ir, "add i32")
	assert.NotContains(t, ir, "i32 255")
}

func TestLowerArrayIndexNonZeroLowerBound(t *testing.T) {
	ir := lowerSrc(t, `program p;
var a: array [5..7] of integer;
begin
  a[6] := 1;
end.`)
	assert.Contains(t, ir, "getelementptr")
	// The constant index 6 minus the lower bound 5 folds to element 1, the
	// middle of the three.
	assert.Contains(t, ir, "[3 x i32]* @a, i32 0, i32 1)")
}

func TestLowerDowntoLoopWithBreak(t *testing.T) {
	ir := lowerSrc(t, `program p;
var i: integer;
begin
  for i := 10 downto 1 do
  begin
    if i = 5 then break;
  end;
end.`)
	assert.Contains(t, ir, "icmp sge")
	assert.Contains(t, ir, "br")
}

func TestLowerForwardDeclarationThenDefinition(t *testing.T) {
	ir := lowerSrc(t, `program p;
function helper(x: integer): integer; forward;

function helper(x: integer): integer;
begin
  helper := x;
end;

begin
end.`)
	occurrences := strings.Count(ir, "define i32 @helper")
	assert.Equal(t, 1, occurrences, "the forward declaration must not produce a second definition")
}

func TestLowerDecByReference(t *testing.T) {
	ir := lowerSrc(t, `program p;
var n: integer;
begin
  n := 5;
  dec(n);
end.`)
	assert.NotContains(t, ir, "call i32 @dec", "dec must lower to an in-place decrement, not a call")
	assert.Contains(t, ir, "sub")
}

func TestLowerUndeclaredVariableError(t *testing.T) {
	prog, err := frontend.Parse(`program p;
begin
  x := 1;
end.`)
	require.NoError(t, err)
	_, _, err = Lower(prog)
	require.Error(t, err)
	var uve *UnknownVarError
	require.ErrorAs(t, err, &uve)
	assert.Equal(t, "x", uve.Name)
}

func TestLowerCallArityMismatchError(t *testing.T) {
	prog, err := frontend.Parse(`program p;
procedure greet(x: integer);
begin
end;

begin
  greet(1, 2);
end.`)
	require.NoError(t, err)
	_, _, err = Lower(prog)
	require.Error(t, err)
	var cme *CallMismatchError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, "greet", cme.Callee)
	assert.Equal(t, 1, cme.Expected)
	assert.Equal(t, 2, cme.Got)
}

func TestLowerByRefArrayParameter(t *testing.T) {
	ir := lowerSrc(t, `program p;
var a: array [5..8] of integer;

procedure fill(b: array [5..8] of integer; n: integer);
begin
  b[n] := 1;
end;

begin
  fill(a, 6);
end.`)
	// The formal must be a pointer to the whole array type, not to its
	// element, so the call site's argument type (the array global's own
	// address) matches the callee's declared parameter type.
	assert.Contains(t, ir, "define void @fill([4 x i32]* %b, i32 %n)", "array formal must be pointer-to-array, not pointer-to-element")
	assert.Contains(t, ir, "call void @fill([4 x i32]* @a, i32 6)", "call-site argument type must match the by-reference formal")
	// Indexing the parameter inside the callee must still subtract the
	// declared lower bound (5) via a two-index GEP on the pointer-to-array
	// value, exactly as for a local or global array — using a non-constant
	// index (n) so the subtraction cannot be folded away at emit time.
	assert.Contains(t, ir, "getelementptr")
	assert.Contains(t, ir, "sub i32 ")
}
