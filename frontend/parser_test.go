package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mila/ast"
)

func TestParseEmptyProgram(t *testing.T) {
	src := `program empty;
begin
end.`
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog, 2)
	assert.IsType(t, &ast.Program{}, prog[0])
	main, ok := prog[1].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "main", main.Name)
	assert.Empty(t, main.Body.Stmts)
}

func TestParseVarAndConstDecls(t *testing.T) {
	src := `program p;
const limit = 10;
var a, b: integer;
var c: array [0..4] of integer;
begin
end.`
	prog, err := Parse(src)
	require.NoError(t, err)

	var consts []*ast.ConstDecl
	var vars []*ast.VarDecl
	for _, s := range prog {
		switch v := s.(type) {
		case *ast.ConstDecl:
			consts = append(consts, v)
		case *ast.VarDecl:
			vars = append(vars, v)
		}
	}
	require.Len(t, consts, 1)
	assert.Equal(t, "limit", consts[0].Name)
	assert.Equal(t, 10, consts[0].Value)

	require.Len(t, vars, 3)
	assert.Equal(t, "a", vars[0].Name)
	assert.IsType(t, ast.Integer{}, vars[0].Type)
	assert.True(t, vars[0].Global)

	arr, ok := vars[2].Type.(ast.Array)
	require.True(t, ok)
	assert.Equal(t, 0, arr.Lo)
	assert.Equal(t, 4, arr.Hi)
}

func TestParseForDowntoWithBreak(t *testing.T) {
	src := `program p;
var i: integer;
begin
  for i := 10 downto 1 do
  begin
    if i = 5 then break;
  end;
end.`
	prog, err := Parse(src)
	require.NoError(t, err)
	main := prog[len(prog)-1].(*ast.Function)
	require.Len(t, main.Body.Stmts, 1)
	forStmt, ok := main.Body.Stmts[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.Var)
	assert.False(t, forStmt.Ascending)

	ifStmt, ok := forStmt.Body.Stmts[0].(*ast.If)
	require.True(t, ok)
	special, ok := ifStmt.Then.Stmts[0].(*ast.Special)
	require.True(t, ok)
	assert.Equal(t, ast.Break, special.Kind)
}

func TestParseForwardDeclarationThenDefinition(t *testing.T) {
	src := `program p;
function helper(x: integer): integer; forward;

function helper(x: integer): integer;
begin
  helper := x;
end;

begin
end.`
	prog, err := Parse(src)
	require.NoError(t, err)

	var fns []*ast.Function
	for _, s := range prog {
		if fn, ok := s.(*ast.Function); ok && fn.Name == "helper" {
			fns = append(fns, fn)
		}
	}
	require.Len(t, fns, 2)
	assert.Nil(t, fns[0].Body, "forward declaration should carry no body")
	require.NotNil(t, fns[1].Body)
}

func TestParseArrayIndexAssignmentAndDec(t *testing.T) {
	src := `program p;
var a: array [1..3] of integer;
var n: integer;
begin
  a[2] := $ff;
  dec(n);
end.`
	prog, err := Parse(src)
	require.NoError(t, err)
	main := prog[len(prog)-1].(*ast.Function)
	require.Len(t, main.Body.Stmts, 2)

	assign, ok := main.Body.Stmts[0].(*ast.Assign)
	require.True(t, ok)
	idx, ok := assign.Target.(*ast.ArrayIndex)
	require.True(t, ok)
	base, ok := idx.Base.(*ast.VarRef)
	require.True(t, ok)
	assert.Equal(t, "a", base.Name)

	call, ok := main.Body.Stmts[1].(*ast.ProcedureCall)
	require.True(t, ok)
	assert.Equal(t, "dec", call.Name)
	require.Len(t, call.Args, 1)
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `program p;
var x: integer;
begin
  x := 1 + 2 * 3 = 7 and not 0;
end.`
	prog, err := Parse(src)
	require.NoError(t, err)
	main := prog[len(prog)-1].(*ast.Function)
	assign := main.Body.Stmts[0].(*ast.Assign)
	rel, ok := assign.Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "=", rel.Op)

	add, ok := rel.Left.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)

	right, ok := rel.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "and", right.Op)
}

func TestParseUnknownTokenError(t *testing.T) {
	_, err := Parse(`program p; begin x := ; end.`)
	require.Error(t, err)
	var ute *UnknownTokenError
	require.ErrorAs(t, err, &ute)
}
