package ir

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"mila/ast"
)

// intType is the LLVM type backing the language's single numeric type. The
// original backend sized this per target architecture (32 or 64 bit); this
// implementation targets one architecture, so it is a fixed 32-bit integer.
var intType = llvm.Int32Type()

// UnknownVarError is raised when an identifier is referenced that no
// enclosing scope, constant table, or global table has a binding for.
type UnknownVarError struct {
	Name string
}

func (e *UnknownVarError) Error() string {
	return fmt.Sprintf("Unknown var: %q", e.Name)
}

// CallMismatchError is raised when a call site's argument count does not
// match the callee's declared parameter count.
type CallMismatchError struct {
	Callee   string
	Expected int
	Got      int
}

func (e *CallMismatchError) Error() string {
	return fmt.Sprintf("Call to function %q with wrong number of parameters. Got %d expected %d", e.Callee, e.Got, e.Expected)
}

// Lower translates a parsed program (as returned by frontend.Parse) into an
// LLVM module. The caller owns the returned module and its parent context
// and must dispose of both.
func Lower(prog []ast.Stmt) (llvm.Context, llvm.Module, error) {
	llctx := llvm.NewContext()
	module := llctx.NewModule("mila")
	builder := llctx.NewBuilder()
	defer builder.Dispose()

	c := NewContext(module, builder)

	for _, stmt := range prog {
		if _, ok := stmt.(*ast.Program); ok {
			declareRuntime(c)
			break
		}
	}

	// Pass 1: install every global declaration and function/procedure
	// signature before lowering any body, so forward references and
	// mutual recursion resolve regardless of declaration order.
	for _, stmt := range prog {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			declareGlobalVar(c, s)
		case *ast.ConstDecl:
			c.defineConst(s.Name, s.Value)
		case *ast.Function:
			if err := declareFuncHeader(c, s.Name, s.Params, s.ReturnType); err != nil {
				return llctx, module, err
			}
		case *ast.Procedure:
			if err := declareFuncHeader(c, s.Name, s.Params, nil); err != nil {
				return llctx, module, err
			}
		}
	}

	// Pass 2: lower bodies.
	for _, stmt := range prog {
		switch s := stmt.(type) {
		case *ast.Function:
			if s.Body != nil {
				if err := lowerFunction(c, s); err != nil {
					return llctx, module, err
				}
			}
		case *ast.Procedure:
			if s.Body != nil {
				if err := lowerProcedure(c, s); err != nil {
					return llctx, module, err
				}
			}
		}
	}

	return llctx, module, nil
}

// declareRuntime installs the external runtime shims every program may
// call: write/writeln (variadic integer printers), printf (used directly to
// print string-literal arguments), and readln. Grounded on
// Program::initFunctions in the original source.
func declareRuntime(c *Context) {
	i8ptr := llvm.PointerType(llvm.Int8Type(), 0)

	// write/writeln take one fixed integer argument and accept further
	// varargs, following Program::initFunctions in the original source.
	variadicInt := llvm.FunctionType(intType, []llvm.Type{intType}, true)
	llvm.AddFunction(c.Module, "write", variadicInt)
	llvm.AddFunction(c.Module, "writeln", variadicInt)

	// printf is declared with two fixed i8* parameters (format, argument)
	// followed by varargs, the shape of the standard C printf.
	printfType := llvm.FunctionType(intType, []llvm.Type{i8ptr, i8ptr}, true)
	printf := llvm.AddFunction(c.Module, "printf", printfType)
	printf.SetFunctionCallConv(llvm.CCallConv)

	readlnType := llvm.FunctionType(intType, []llvm.Type{llvm.PointerType(intType, 0)}, false)
	llvm.AddFunction(c.Module, "readln", readlnType)
}

func llvmType(t ast.Type) llvm.Type {
	switch v := t.(type) {
	case ast.Integer:
		return intType
	case ast.Array:
		return llvm.ArrayType(llvmType(v.Element), v.Len())
	default:
		return intType
	}
}

func declareGlobalVar(c *Context, v *ast.VarDecl) {
	typ := llvmType(v.Type)
	g := llvm.AddGlobal(c.Module, typ, v.Name)
	g.SetInitializer(llvm.ConstNull(typ))
	g.SetLinkage(llvm.CommonLinkage)
	c.define(v.Name, g)
	if arr, ok := v.Type.(ast.Array); ok {
		c.defineBound(v.Name, arr.Lo)
	}
}

// declareFuncHeader installs (or reuses, for a previously forward-declared
// function) a function signature. ret == nil means a void-returning
// procedure. Grounded on Function::initFunction / Procedure::initFunction's
// "reuse an existing declaration" check in the original source.
func declareFuncHeader(c *Context, name string, params []*ast.VarDecl, ret ast.Type) error {
	if existing := c.Module.NamedFunction(name); !existing.IsAFunction().IsNil() {
		return nil
	}

	paramTypes := make([]llvm.Type, len(params))
	for i1, p := range params {
		paramTypes[i1] = paramLLVMType(p.Type)
	}

	var retType llvm.Type
	if ret == nil {
		retType = llvm.VoidType()
	} else {
		retType = llvmType(ret)
	}

	ftyp := llvm.FunctionType(retType, paramTypes, false)
	llfn := llvm.AddFunction(c.Module, name, ftyp)
	for i1, p := range params {
		llfn.Param(i1).SetName(p.Name)
	}
	return nil
}

// paramLLVMType decides a formal parameter's LLVM type. Array-typed
// parameters are pointers to the whole array and so are passed by address;
// integer parameters are plain i32 values and so are passed by value. The
// call site picks address or value from this pointer-shapedness of the
// formal, following FunctionCall::getLLVMValue in the original source.
func paramLLVMType(t ast.Type) llvm.Type {
	if _, ok := t.(ast.Array); ok {
		return llvm.PointerType(llvmType(t), 0)
	}
	return llvmType(t)
}

func lowerFunction(c *Context, fn *ast.Function) error {
	llfn := c.Module.NamedFunction(fn.Name)
	return lowerCallable(c, llfn, fn.Name, fn.Params, fn.Locals, fn.Body, fn.ReturnType)
}

func lowerProcedure(c *Context, pr *ast.Procedure) error {
	llfn := c.Module.NamedFunction(pr.Name)
	return lowerCallable(c, llfn, pr.Name, pr.Params, pr.Locals, pr.Body, nil)
}

// lowerCallable lowers a function or procedure body. ret == nil marks a
// void-returning procedure. Grounded on Function::translateToLLVM /
// Procedure::translateToLLVM in the original source: a fresh entry block
// named after the function, one alloca per integer parameter (storing the
// incoming value; an array parameter is used through its incoming pointer),
// one alloca per local, and — for functions — a result-slot alloca named
// after the function that the final implicit return loads from.
func lowerCallable(c *Context, llfn llvm.Value, name string, params []*ast.VarDecl, locals []*ast.VarDecl, body *ast.Block, ret ast.Type) error {
	entry := llvm.AddBasicBlock(llfn, name)
	c.Builder.SetInsertPointAtEnd(entry)
	c.pushScope()
	defer c.popScope()

	for i1, p := range params {
		formal := llfn.Param(i1)
		if arr, isArr := p.Type.(ast.Array); isArr {
			c.define(p.Name, formal)
			c.defineBound(p.Name, arr.Lo)
			continue
		}
		alloc := c.Builder.CreateAlloca(llvmType(p.Type), p.Name)
		c.Builder.CreateStore(formal, alloc)
		c.define(p.Name, alloc)
	}

	for _, l := range locals {
		alloc := c.Builder.CreateAlloca(llvmType(l.Type), l.Name)
		c.define(l.Name, alloc)
		if arr, ok := l.Type.(ast.Array); ok {
			c.defineBound(l.Name, arr.Lo)
		}
	}

	savedResult := c.resultSlot
	c.resultSlot = llvm.Value{}
	defer func() { c.resultSlot = savedResult }()

	var resultSlot llvm.Value
	if ret != nil {
		resultSlot = c.Builder.CreateAlloca(llvmType(ret), name)
		c.Builder.CreateStore(llvm.ConstNull(llvmType(ret)), resultSlot)
		c.define(name, resultSlot)
		c.resultSlot = resultSlot
	}

	c.terminated = false
	if err := lowerBlock(c, llfn, body); err != nil {
		return err
	}

	if !c.terminated {
		if ret == nil {
			c.Builder.CreateRetVoid()
		} else {
			c.Builder.CreateRet(c.Builder.CreateLoad(resultSlot, ""))
		}
	}
	return nil
}

func lowerBlock(c *Context, fn llvm.Value, b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if c.terminated {
			return nil
		}
		if err := lowerStmt(c, fn, stmt); err != nil {
			return err
		}
	}
	return nil
}

func lowerStmt(c *Context, fn llvm.Value, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return lowerBlock(c, fn, s)
	case *ast.VarDecl:
		alloc := c.Builder.CreateAlloca(llvmType(s.Type), s.Name)
		c.define(s.Name, alloc)
		if arr, ok := s.Type.(ast.Array); ok {
			c.defineBound(s.Name, arr.Lo)
		}
		return nil
	case *ast.ConstDecl:
		c.defineConst(s.Name, s.Value)
		return nil
	case *ast.Assign:
		return lowerAssign(c, fn, s)
	case *ast.If:
		return lowerIf(c, fn, s)
	case *ast.While:
		return lowerWhile(c, fn, s)
	case *ast.For:
		return lowerFor(c, fn, s)
	case *ast.Special:
		return lowerSpecial(c, fn, s)
	case *ast.ProcedureCall:
		_, err := lowerCall(c, fn, s.Name, s.Args)
		return err
	default:
		return fmt.Errorf("ir: cannot lower statement of type %T", stmt)
	}
}

// lowerAssign stores Value into the address denoted by Target. Grounded on
// Assignment::translateToLLVM's getLLVMAddress/getLLVMValue pairing in the
// original source.
func lowerAssign(c *Context, fn llvm.Value, a *ast.Assign) error {
	val, err := lowerExpr(c, fn, a.Value)
	if err != nil {
		return err
	}
	addr, err := lowerAddress(c, fn, a.Target)
	if err != nil {
		return err
	}
	c.Builder.CreateStore(val, addr)
	return nil
}

// lowerAddress resolves an LValue to the llvm.Value address it denotes.
func lowerAddress(c *Context, fn llvm.Value, lv ast.LValue) (llvm.Value, error) {
	switch v := lv.(type) {
	case *ast.VarRef:
		addr, ok := c.lookup(v.Name)
		if !ok {
			return llvm.Value{}, &UnknownVarError{Name: v.Name}
		}
		return addr, nil
	case *ast.ArrayIndex:
		return lowerArrayAddress(c, fn, v)
	default:
		return llvm.Value{}, fmt.Errorf("ir: cannot address lvalue of type %T", lv)
	}
}

// lowerArrayAddress computes the GEP address of an (possibly nested) array
// element, subtracting the array's declared lower bound from the requested
// index — mirroring ArrayItemReference::getLLVMAddress in the original
// source.
func lowerArrayAddress(c *Context, fn llvm.Value, idx *ast.ArrayIndex) (llvm.Value, error) {
	baseAddr, err := lowerAddress(c, fn, idx.Base)
	if err != nil {
		return llvm.Value{}, err
	}
	index, err := lowerExpr(c, fn, idx.Index)
	if err != nil {
		return llvm.Value{}, err
	}

	lo := 0
	if ref, ok := idx.Base.(*ast.VarRef); ok {
		if b, ok := c.lookupBound(ref.Name); ok {
			lo = b
		}
	}
	if lo != 0 {
		index = c.Builder.CreateSub(index, llvm.ConstInt(intType, uint64(lo), true), "")
	}

	zero := llvm.ConstInt(intType, 0, false)
	return c.Builder.CreateGEP(baseAddr, []llvm.Value{zero, index}, ""), nil
}

// lowerIf lowers an if/then/[else] statement by splitting off then/else/
// merge basic blocks and routing each arm's fallthrough to the merge block,
// skipping the branch for an arm that already terminated (e.g. via break or
// exit). Grounded on If::translateToLLVM in the original source.
func lowerIf(c *Context, fn llvm.Value, s *ast.If) error {
	cond, err := lowerExpr(c, fn, s.Cond)
	if err != nil {
		return err
	}
	cond = toBool(c, cond)

	thenBB := llvm.AddBasicBlock(fn, "")
	elseBB := llvm.AddBasicBlock(fn, "")
	mergeBB := llvm.AddBasicBlock(fn, "")
	c.Builder.CreateCondBr(cond, thenBB, elseBB)

	c.Builder.SetInsertPointAtEnd(thenBB)
	c.terminated = false
	if err := lowerBlock(c, fn, s.Then); err != nil {
		return err
	}
	if !c.terminated {
		c.Builder.CreateBr(mergeBB)
	}

	// Without an else arm the else block holds only the branch to merge.
	c.Builder.SetInsertPointAtEnd(elseBB)
	c.terminated = false
	if s.Else != nil {
		if err := lowerBlock(c, fn, s.Else); err != nil {
			return err
		}
	}
	if !c.terminated {
		c.Builder.CreateBr(mergeBB)
	}

	c.terminated = false
	c.Builder.SetInsertPointAtEnd(mergeBB)
	return nil
}

// lowerWhile lowers a while loop: head (condition check), body, after.
// break/continue targets are saved and restored around the body so a
// nested loop's break/continue resolve to its own blocks. Grounded on
// While::translateToLLVM in the original source.
func lowerWhile(c *Context, fn llvm.Value, s *ast.While) error {
	head := llvm.AddBasicBlock(fn, "")
	body := llvm.AddBasicBlock(fn, "")
	after := llvm.AddBasicBlock(fn, "")

	c.Builder.CreateBr(head)
	c.Builder.SetInsertPointAtEnd(head)
	cond, err := lowerExpr(c, fn, s.Cond)
	if err != nil {
		return err
	}
	c.Builder.CreateCondBr(toBool(c, cond), body, after)

	savedBreak, savedContinue := c.whereBreak, c.whereContinue
	c.whereBreak, c.whereContinue = after, head

	c.Builder.SetInsertPointAtEnd(body)
	c.terminated = false
	if err := lowerBlock(c, fn, s.Body); err != nil {
		return err
	}
	if !c.terminated {
		c.Builder.CreateBr(head)
	}

	c.whereBreak, c.whereContinue = savedBreak, savedContinue
	c.terminated = false
	c.Builder.SetInsertPointAtEnd(after)
	return nil
}

// lowerFor lowers a for loop with an ascending or descending step of one.
// The induction variable is bound to a fresh alloca for the loop's
// duration and the previous binding (if any) is restored afterward —
// mirroring For::translateToLLVM's save/restore of NamedVars[varName] in
// the original source, expressed as a local shadow/restore on the Context
// instead of a global map mutation.
func lowerFor(c *Context, fn llvm.Value, s *ast.For) error {
	start, err := lowerExpr(c, fn, s.Start)
	if err != nil {
		return err
	}
	end, err := lowerExpr(c, fn, s.End)
	if err != nil {
		return err
	}

	ivar := c.Builder.CreateAlloca(intType, s.Var)
	c.Builder.CreateStore(start, ivar)
	saved := c.shadowVar(s.Var, ivar)
	defer c.restoreVar(saved)

	condBB := llvm.AddBasicBlock(fn, "")
	body := llvm.AddBasicBlock(fn, "")
	next := llvm.AddBasicBlock(fn, "")
	after := llvm.AddBasicBlock(fn, "")

	c.Builder.CreateBr(condBB)
	c.Builder.SetInsertPointAtEnd(condBB)
	cur := c.Builder.CreateLoad(ivar, "")
	var cmp llvm.Value
	if s.Ascending {
		cmp = c.Builder.CreateICmp(llvm.IntSLE, cur, end, "")
	} else {
		cmp = c.Builder.CreateICmp(llvm.IntSGE, cur, end, "")
	}
	c.Builder.CreateCondBr(cmp, body, after)

	savedBreak, savedContinue := c.whereBreak, c.whereContinue
	c.whereBreak, c.whereContinue = after, next

	c.Builder.SetInsertPointAtEnd(body)
	c.terminated = false
	if err := lowerBlock(c, fn, s.Body); err != nil {
		return err
	}
	if !c.terminated {
		c.Builder.CreateBr(next)
	}

	c.terminated = false
	c.Builder.SetInsertPointAtEnd(next)
	cur = c.Builder.CreateLoad(ivar, "")
	one := llvm.ConstInt(intType, 1, false)
	var stepped llvm.Value
	if s.Ascending {
		stepped = c.Builder.CreateAdd(cur, one, "")
	} else {
		stepped = c.Builder.CreateSub(cur, one, "")
	}
	c.Builder.CreateStore(stepped, ivar)
	c.Builder.CreateBr(condBB)

	c.whereBreak, c.whereContinue = savedBreak, savedContinue
	c.Builder.SetInsertPointAtEnd(after)
	return nil
}

// lowerSpecial lowers exit/break/continue as an unconditional branch (exit
// to the function's epilogue via an early return; break/continue to the
// innermost loop's registered targets). Grounded on
// Special::translateToLLVM in the original source.
func lowerSpecial(c *Context, fn llvm.Value, s *ast.Special) error {
	switch s.Kind {
	case ast.Exit:
		if c.resultSlot.IsNil() {
			c.Builder.CreateRetVoid()
		} else {
			c.Builder.CreateRet(c.Builder.CreateLoad(c.resultSlot, ""))
		}
	case ast.Break:
		c.Builder.CreateBr(c.whereBreak)
	case ast.Continue:
		c.Builder.CreateBr(c.whereContinue)
	}
	c.terminated = true
	return nil
}

// lowerCall lowers a call to a user function/procedure or one of the three
// built-in intrinsics (write, writeln, dec). Grounded on
// FunctionCall::getLLVMValue in the original source.
func lowerCall(c *Context, fn llvm.Value, name string, args []ast.Expr) (llvm.Value, error) {
	switch name {
	case "write", "writeln":
		return lowerPrint(c, fn, name, args)
	case "dec":
		return llvm.Value{}, lowerDec(c, fn, args)
	}

	target := c.Module.NamedFunction(name)
	if target.IsNil() {
		return llvm.Value{}, fmt.Errorf("Call to unknown function %q", name)
	}
	params := target.Params()
	if len(args) != len(params) {
		return llvm.Value{}, &CallMismatchError{Callee: name, Expected: len(params), Got: len(args)}
	}

	vals := make([]llvm.Value, len(args))
	for i1, arg := range args {
		if params[i1].Type().TypeKind() == llvm.PointerTypeKind {
			if lv, ok := arg.(ast.LValue); ok {
				addr, err := lowerAddress(c, fn, lv)
				if err != nil {
					return llvm.Value{}, err
				}
				vals[i1] = addr
				continue
			}
		}
		v, err := lowerExpr(c, fn, arg)
		if err != nil {
			return llvm.Value{}, err
		}
		vals[i1] = v
	}
	return c.Builder.CreateCall(target, vals, ""), nil
}

// lowerPrint lowers write/writeln. A string-literal argument is printed via
// a cached printf format string; anything else is handed to the write/
// writeln runtime shim as bare integers, and an argument that does not lower
// to an integer is rejected with an error. Grounded on the write/writeln
// dual dispatch in FunctionCall::getLLVMValue in the original source.
func lowerPrint(c *Context, fn llvm.Value, name string, args []ast.Expr) (llvm.Value, error) {
	if len(args) == 1 {
		if s, ok := args[0].(*ast.String); ok {
			return lowerPrintString(c, s.Value, name == "writeln"), nil
		}
	}

	target := c.Module.NamedFunction(name)
	vals := make([]llvm.Value, len(args))
	for i1, a := range args {
		v, err := lowerExpr(c, fn, a)
		if err != nil {
			return llvm.Value{}, err
		}
		if v.Type().TypeKind() != llvm.IntegerTypeKind {
			return llvm.Value{}, fmt.Errorf("ir: %s() accepts a single string literal or integer arguments", name)
		}
		vals[i1] = v
	}
	return c.Builder.CreateCall(target, vals, ""), nil
}

// lowerPrintString prints a literal string through printf, reusing a cached
// "%s" / "%s\n" format-string global across the whole module instead of
// re-emitting one per call site.
func lowerPrintString(c *Context, s string, newline bool) llvm.Value {
	printf := c.Module.NamedFunction("printf")
	var format llvm.Value
	if newline {
		if c.strFormatNl.IsNil() {
			c.strFormatNl = c.Builder.CreateGlobalStringPtr("%s\n", "L_fmt_nl")
		}
		format = c.strFormatNl
	} else {
		if c.strFormat.IsNil() {
			c.strFormat = c.Builder.CreateGlobalStringPtr("%s", "L_fmt")
		}
		format = c.strFormat
	}
	str := c.Builder.CreateGlobalStringPtr(s, "L_STR")
	return c.Builder.CreateCall(printf, []llvm.Value{format, str}, "")
}

// lowerDec lowers dec(v) to an in-place decrement with no call instruction:
// store(sub(load(v), 1), addr(v)). Grounded on the "dec" branch of
// FunctionCall::getLLVMValue in the original source.
func lowerDec(c *Context, fn llvm.Value, args []ast.Expr) error {
	if len(args) != 1 {
		return &CallMismatchError{Callee: "dec", Expected: 1, Got: len(args)}
	}
	lv, ok := args[0].(ast.LValue)
	if !ok {
		return fmt.Errorf("ir: dec() requires an addressable argument")
	}
	addr, err := lowerAddress(c, fn, lv)
	if err != nil {
		return err
	}
	cur := c.Builder.CreateLoad(addr, "")
	one := llvm.ConstInt(intType, 1, false)
	c.Builder.CreateStore(c.Builder.CreateSub(cur, one, ""), addr)
	return nil
}

// lowerExpr lowers an expression to its llvm.Value.
func lowerExpr(c *Context, fn llvm.Value, e ast.Expr) (llvm.Value, error) {
	switch v := e.(type) {
	case *ast.Number:
		return llvm.ConstInt(intType, uint64(v.Value), true), nil
	case *ast.String:
		return c.Builder.CreateGlobalStringPtr(v.Value, "L_STR"), nil
	case *ast.VarRef:
		return lowerVarRef(c, v)
	case *ast.ArrayIndex:
		addr, err := lowerArrayAddress(c, fn, v)
		if err != nil {
			return llvm.Value{}, err
		}
		return c.Builder.CreateLoad(addr, ""), nil
	case *ast.Call:
		return lowerCall(c, fn, v.Name, v.Args)
	case *ast.BinOp:
		return lowerBinOp(c, fn, v)
	case *ast.UnOp:
		return lowerUnOp(c, fn, v)
	default:
		return llvm.Value{}, fmt.Errorf("ir: cannot lower expression of type %T", e)
	}
}

// lowerVarRef resolves a bare identifier: a constant's compile-time value,
// or a load from its variable slot.
func lowerVarRef(c *Context, v *ast.VarRef) (llvm.Value, error) {
	if val, ok := c.lookupConst(v.Name); ok {
		return llvm.ConstInt(intType, uint64(val), true), nil
	}
	addr, ok := c.lookup(v.Name)
	if !ok {
		return llvm.Value{}, &UnknownVarError{Name: v.Name}
	}
	return c.Builder.CreateLoad(addr, ""), nil
}

func lowerBinOp(c *Context, fn llvm.Value, b *ast.BinOp) (llvm.Value, error) {
	left, err := lowerExpr(c, fn, b.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	right, err := lowerExpr(c, fn, b.Right)
	if err != nil {
		return llvm.Value{}, err
	}

	switch b.Op {
	case "+":
		return c.Builder.CreateAdd(left, right, ""), nil
	case "-":
		return c.Builder.CreateSub(left, right, ""), nil
	case "*":
		return c.Builder.CreateMul(left, right, ""), nil
	case "div":
		return c.Builder.CreateSDiv(left, right, ""), nil
	case "mod":
		return c.Builder.CreateSRem(left, right, ""), nil
	case "and":
		return c.Builder.CreateAnd(left, right, ""), nil
	case "or":
		return c.Builder.CreateOr(left, right, ""), nil
	case "xor":
		return c.Builder.CreateXor(left, right, ""), nil
	case "=":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntEQ, left, right, "")), nil
	case "<>":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntNE, left, right, "")), nil
	case "<":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntSLT, left, right, "")), nil
	case "<=":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntSLE, left, right, "")), nil
	case ">":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntSGT, left, right, "")), nil
	case ">=":
		return boolToInt(c, c.Builder.CreateICmp(llvm.IntSGE, left, right, "")), nil
	default:
		return llvm.Value{}, fmt.Errorf("ir: undefined binary operator %q", b.Op)
	}
}

func lowerUnOp(c *Context, fn llvm.Value, u *ast.UnOp) (llvm.Value, error) {
	operand, err := lowerExpr(c, fn, u.Operand)
	if err != nil {
		return llvm.Value{}, err
	}
	switch u.Op {
	case "-":
		return c.Builder.CreateSub(llvm.ConstInt(intType, 0, true), operand, ""), nil
	case "not":
		return c.Builder.CreateXor(llvm.ConstInt(intType, ^uint64(0), true), operand, ""), nil
	default:
		return llvm.Value{}, fmt.Errorf("ir: undefined unary operator %q", u.Op)
	}
}

// toBool converts an integer value used as a condition into an i1 by
// comparing it against zero.
func toBool(c *Context, v llvm.Value) llvm.Value {
	return c.Builder.CreateICmp(llvm.IntNE, v, llvm.ConstInt(v.Type(), 0, true), "")
}

// boolToInt widens an i1 comparison result back to the language's single
// integer type, since relational expressions are ordinary integer values
// here (truthiness is "nonzero"), not a distinct boolean type.
func boolToInt(c *Context, v llvm.Value) llvm.Value {
	return c.Builder.CreateIntCast(v, intType, "")
}
