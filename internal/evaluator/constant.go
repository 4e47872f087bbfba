package evaluator

import (
	"github.com/cwbudde/go-cx/internal/runtimestack"
	"github.com/cwbudde/go-cx/internal/symtab"
	"github.com/cwbudde/go-cx/internal/typesys"
)

// ExecuteConstant pushes a KindConstant symbol's stored literal value,
// selecting the stack representation from sym.Type the way the source's
// execute_constant switches on defn.constant.value's active union member
// (spec.md §4.3).
func (e *Evaluator) ExecuteConstant(sym *symtab.SymbolNode) *typesys.Descriptor {
	e.Cur.Advance()

	typ := sym.Type
	switch {
	case typesys.IsFloat(typ):
		e.Stack.PushFloat(sym.Const.Float)
	case typesys.IsChar(typ):
		e.Stack.PushChar(sym.Const.Char)
	case typesys.IsBool(typ):
		e.Stack.PushBool(sym.Const.Int != 0)
	case typ != nil && typ.Form == typesys.FormArray:
		e.Stack.Push(runtimestack.BytesCell([]byte(sym.Const.String)))
	default:
		e.Stack.PushInt(sym.Const.Int)
	}

	return typ
}
