// Package ir lowers the frontend's AST into LLVM IR using
// tinygo.org/x/go-llvm. Lowering is a single depth-first pass; there is no
// optimisation or validation stage.
package ir

import "tinygo.org/x/go-llvm"

// scope is one level of a lowering scope stack: a flat map from variable
// name to the llvm.Value holding its address (an alloca, a global, or a
// pointer-typed parameter).
type scope map[string]llvm.Value

// Context threads all of the mutable state a single function's or
// procedure's lowering needs through the recursive descent over its body.
// The source language's original implementation kept this as process-global
// static state (NamedVars, NamedConsts, ArrayBounds, exited, breaked,
// whereBreak/whereContinue, cached format strings); here it is an explicit
// value passed down the call stack instead, since nothing about lowering
// runs concurrently and a single compilation unit only ever has one
// Context alive at a time.
type Context struct {
	Module  llvm.Module
	Builder llvm.Builder

	// globals holds module-level variables, installed once before any
	// function body is lowered.
	globals scope

	// locals is a stack of block-local scopes; the innermost (last) entry
	// is searched first, then globals. Mila has no nested lexical blocks
	// that shadow at arbitrary depth, but parameters and locals share one
	// flat scope per function, so a single extra level is pushed per
	// function activation.
	locals []scope

	// consts map constant names to their compile-time integer value.
	// Constants are never addressable and never occupy a scope slot.
	consts map[string]int

	// bounds map array-typed variable names to their declared lower
	// bound, needed to translate a Mila index into a zero-based GEP
	// index (see Tree.cpp's ArrayItemReference::getLLVMAddress).
	bounds map[string]int

	// whereBreak and whereContinue name the basic blocks that a break or
	// continue statement inside the current loop should branch to. They
	// are saved and restored around each loop's lowering so nested loops
	// resolve break/continue to their own, innermost loop.
	whereBreak    llvm.BasicBlock
	whereContinue llvm.BasicBlock

	// resultSlot is the current function's return-value alloca. It is the
	// zero Value (IsNil) while lowering a procedure, which has none.
	resultSlot llvm.Value

	// strFormat and strFormatNl cache the printf format-string globals
	// used by write/writeln of a string literal, created lazily on first
	// use and reused afterward (see FunctionCall::getLLVMValue in
	// Tree.cpp).
	strFormat   llvm.Value
	strFormatNl llvm.Value

	// terminated mirrors the original source's "exited"/"breaked" flags,
	// collapsed into one: it is set once the current basic block has
	// already received a terminator (return, break, or continue) so
	// callers stop lowering further statements into it and skip emitting
	// a redundant fallthrough branch. Each block-opening construct
	// (if-arm, loop body) resets it to false before lowering its own
	// statements, exactly as Tree.cpp resets exited/breaked after each
	// arm.
	terminated bool
}

// NewContext creates a Context bound to module and builder, ready to lower
// top-level declarations.
func NewContext(module llvm.Module, builder llvm.Builder) *Context {
	return &Context{
		Module:  module,
		Builder: builder,
		globals: make(scope),
		consts:  make(map[string]int),
		bounds:  make(map[string]int),
	}
}

// pushScope opens a new local scope for a function activation.
func (c *Context) pushScope() {
	c.locals = append(c.locals, make(scope))
}

// popScope discards the innermost local scope.
func (c *Context) popScope() {
	c.locals = c.locals[:len(c.locals)-1]
}

// define installs name in the innermost local scope, or in globals if no
// function activation is currently open.
func (c *Context) define(name string, addr llvm.Value) {
	if len(c.locals) == 0 {
		c.globals[name] = addr
		return
	}
	c.locals[len(c.locals)-1][name] = addr
}

// lookup resolves name to its address, searching the innermost local scope
// and then globals.
func (c *Context) lookup(name string) (llvm.Value, bool) {
	if len(c.locals) > 0 {
		if v, ok := c.locals[len(c.locals)-1][name]; ok {
			return v, true
		}
	}
	v, ok := c.globals[name]
	return v, ok
}

// defineConst records a named compile-time constant.
func (c *Context) defineConst(name string, value int) {
	c.consts[name] = value
}

// lookupConst resolves a constant by name.
func (c *Context) lookupConst(name string) (int, bool) {
	v, ok := c.consts[name]
	return v, ok
}

// defineBound records an array variable's declared lower bound.
func (c *Context) defineBound(name string, lo int) {
	c.bounds[name] = lo
}

// lookupBound resolves an array variable's declared lower bound.
func (c *Context) lookupBound(name string) (int, bool) {
	v, ok := c.bounds[name]
	return v, ok
}

// shadowVar saves the current binding of name (if any), to be restored by
// restoreVar once a for-loop's private induction variable goes out of
// scope. This mirrors the source language's save-old-value / restore-or-
// erase pattern in For::translateToLLVM, expressed here as local state
// instead of a save/restore pair against a shared global map.
type savedVar struct {
	name     string
	had      bool
	previous llvm.Value
}

func (c *Context) shadowVar(name string, addr llvm.Value) savedVar {
	prev, had := c.lookup(name)
	c.define(name, addr)
	return savedVar{name: name, had: had, previous: prev}
}

func (c *Context) restoreVar(s savedVar) {
	if s.had {
		c.define(s.name, s.previous)
		return
	}
	if len(c.locals) > 0 {
		delete(c.locals[len(c.locals)-1], s.name)
		return
	}
	delete(c.globals, s.name)
}
