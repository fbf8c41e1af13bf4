package ast

import "strconv"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value, strconv.FormatFloat(value, 'f', -1, 64))
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Chr(value rune) *CharLiteral {
	return NewCharLiteral(value)
}

func Init(elements ...Expression) *InitializerList {
	return NewInitializerList(elements)
}

// Expression helpers.

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryNegate, operand)
}

func Un(operator UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func PreInc(target AssignmentTarget) *UpdateExpression {
	return NewUpdateExpression("++", true, target)
}

func PostInc(target AssignmentTarget) *UpdateExpression {
	return NewUpdateExpression("++", false, target)
}

func PostDec(target AssignmentTarget) *UpdateExpression {
	return NewUpdateExpression("--", false, target)
}

func Assign(target AssignmentTarget, value Expression) *Assignment {
	return NewAssignment(AssignmentAssign, target, value)
}

func AssignOp(operator AssignmentOperator, target AssignmentTarget, value Expression) *Assignment {
	return NewAssignment(operator, target, value)
}

func Index(array string, index Expression) *ArrayAccess {
	return NewArrayAccess(ID(array), index)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

// Declaration helpers.

func Decl(typeName, name string, initializer Expression) *Declaration {
	return NewDeclaration(typeName, ID(name), 0, false, nil, initializer)
}

func ArrDecl(typeName, name string, size Expression, initializer Expression) *Declaration {
	return NewDeclaration(typeName, ID(name), 0, true, size, initializer)
}

func Param(typeName, name string) *FunctionParameter {
	return NewFunctionParameter(typeName, ID(name), 0, false)
}

func Fn(returnType, name string, params []*FunctionParameter, body ...Statement) *FunctionDefinition {
	return NewFunctionDefinition(returnType, ID(name), params, NewBlock(body))
}

// Statement helpers.

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}

func If(condition Expression, consequent, alternative Statement) *IfStatement {
	return NewIfStatement(condition, consequent, alternative)
}

func While(condition Expression, body Statement) *WhileLoop {
	return NewWhileLoop(condition, body)
}

func DoWhile(body Statement, condition Expression) *DoWhileLoop {
	return NewDoWhileLoop(body, condition)
}

func For(init Statement, condition Expression, increment Statement, body Statement) *ForLoop {
	return NewForLoop(init, condition, increment, body)
}

func Case(value Expression, body ...Statement) *SwitchCase {
	return NewSwitchCase(value, body)
}

func Switch(test Expression, cases []*SwitchCase, def []Statement) *SwitchStatement {
	return NewSwitchStatement(test, cases, def)
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}
