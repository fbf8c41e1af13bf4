package ast

type NodeType string

const (
	NodeNumberLiteral         NodeType = "NumberLiteral"
	NodeStringLiteral         NodeType = "StringLiteral"
	NodeCharLiteral           NodeType = "CharLiteral"
	NodeInitializerList       NodeType = "InitializerList"
	NodeIdentifier            NodeType = "Identifier"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeUpdateExpression      NodeType = "UpdateExpression"
	NodeAssignment            NodeType = "Assignment"
	NodeArrayAccess           NodeType = "ArrayAccess"
	NodeFunctionCall          NodeType = "FunctionCall"
	NodeDeclaration           NodeType = "Declaration"
	NodeFunctionParameter     NodeType = "FunctionParameter"
	NodeFunctionDefinition    NodeType = "FunctionDefinition"
	NodeBlock                 NodeType = "Block"
	NodeProgram               NodeType = "Program"
	NodeIfStatement           NodeType = "IfStatement"
	NodeWhileLoop             NodeType = "WhileLoop"
	NodeDoWhileLoop           NodeType = "DoWhileLoop"
	NodeForLoop               NodeType = "ForLoop"
	NodeSwitchCase            NodeType = "SwitchCase"
	NodeSwitchStatement       NodeType = "SwitchStatement"
	NodeReturnStatement       NodeType = "ReturnStatement"
	NodeBreakStatement        NodeType = "BreakStatement"
	NodeContinueStatement     NodeType = "ContinueStatement"
	NodePreprocessorDirective NodeType = "PreprocessorDirective"
)

type Node interface {
	NodeType() NodeType
	Offset() int
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Pos  int      `json:"offset"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Offset() int        { return n.Pos }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setOffset(offset int) { n.Pos = offset }

// At records the source offset of node and returns it, so constructors can be
// wrapped inline by the parser.
func At[T Node](node T, offset int) T {
	if setter, ok := any(node).(interface{ setOffset(int) }); ok {
		setter.setOffset(offset)
	}
	return node
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// AssignmentTarget is implemented by the nodes that may appear on the left of
// an assignment or under ++/--.
type AssignmentTarget interface {
	Expression
	assignmentTargetNode()
}

type assignmentTargetMarker struct{}

func (assignmentTargetMarker) assignmentTargetNode() {}

// Literals

type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

func NewNumberLiteral(value float64, raw string) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value, Raw: raw}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type CharLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value rune `json:"value"`
}

func NewCharLiteral(value rune) *CharLiteral {
	return &CharLiteral{nodeImpl: newNodeImpl(NodeCharLiteral), Value: value}
}

// InitializerList is the brace-enclosed element list allowed on array
// declarations.
type InitializerList struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewInitializerList(elements []Expression) *InitializerList {
	return &InitializerList{nodeImpl: newNodeImpl(NodeInitializerList), Elements: elements}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Expressions

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type UnaryOperator string

const (
	UnaryNegate      UnaryOperator = "unary_neg"
	UnaryPlus        UnaryOperator = "unary_pos"
	UnaryNot         UnaryOperator = "!"
	UnaryAddressOf   UnaryOperator = "&"
	UnaryDereference UnaryOperator = "*"
)

// UnaryExpression is an assignment target only when Operator is
// UnaryDereference; the parser rejects the other forms on the left of '='.
type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// UpdateExpression is ++ or -- in prefix or postfix position.
type UpdateExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string           `json:"operator"`
	Prefix   bool             `json:"prefix"`
	Target   AssignmentTarget `json:"target"`
}

func NewUpdateExpression(operator string, prefix bool, target AssignmentTarget) *UpdateExpression {
	return &UpdateExpression{nodeImpl: newNodeImpl(NodeUpdateExpression), Operator: operator, Prefix: prefix, Target: target}
}

type AssignmentOperator string

const (
	AssignmentAssign AssignmentOperator = "="
	AssignmentAdd    AssignmentOperator = "+="
	AssignmentSub    AssignmentOperator = "-="
	AssignmentMul    AssignmentOperator = "*="
	AssignmentDiv    AssignmentOperator = "/="
	AssignmentMod    AssignmentOperator = "%="
)

// BinaryOperator returns the arithmetic operator a compound assignment applies.
func (op AssignmentOperator) BinaryOperator() (string, bool) {
	if op == AssignmentAssign || len(op) != 2 {
		return "", false
	}
	return string(op[:1]), true
}

type Assignment struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator AssignmentOperator `json:"operator"`
	Target   AssignmentTarget   `json:"target"`
	Value    Expression         `json:"value"`
}

func NewAssignment(operator AssignmentOperator, target AssignmentTarget, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Operator: operator, Target: target, Value: value}
}

type ArrayAccess struct {
	nodeImpl
	expressionMarker
	statementMarker
	assignmentTargetMarker

	Array *Identifier `json:"array"`
	Index Expression  `json:"index"`
}

func NewArrayAccess(array *Identifier, index Expression) *ArrayAccess {
	return &ArrayAccess{nodeImpl: newNodeImpl(NodeArrayAccess), Array: array, Index: index}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// Declarations

// Declaration introduces a variable. ArraySize is nil for an unsized array
// declarator; IsArray distinguishes that from a scalar.
type Declaration struct {
	nodeImpl
	statementMarker

	TypeName     string      `json:"typeName"`
	Name         *Identifier `json:"name"`
	PointerDepth int         `json:"pointerDepth,omitempty"`
	IsArray      bool        `json:"isArray,omitempty"`
	ArraySize    Expression  `json:"arraySize,omitempty"`
	Initializer  Expression  `json:"initializer,omitempty"`
}

func NewDeclaration(typeName string, name *Identifier, pointerDepth int, isArray bool, arraySize Expression, initializer Expression) *Declaration {
	return &Declaration{
		nodeImpl:     newNodeImpl(NodeDeclaration),
		TypeName:     typeName,
		Name:         name,
		PointerDepth: pointerDepth,
		IsArray:      isArray,
		ArraySize:    arraySize,
		Initializer:  initializer,
	}
}

type FunctionParameter struct {
	nodeImpl

	TypeName     string      `json:"typeName"`
	Name         *Identifier `json:"name"`
	PointerDepth int         `json:"pointerDepth,omitempty"`
	IsArray      bool        `json:"isArray,omitempty"`
}

func NewFunctionParameter(typeName string, name *Identifier, pointerDepth int, isArray bool) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), TypeName: typeName, Name: name, PointerDepth: pointerDepth, IsArray: isArray}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ReturnType string               `json:"returnType"`
	Name       *Identifier          `json:"name"`
	Params     []*FunctionParameter `json:"params"`
	Body       *Block               `json:"body"`
}

func NewFunctionDefinition(returnType string, name *Identifier, params []*FunctionParameter, body *Block) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ReturnType: returnType, Name: name, Params: params, Body: body}
}

// Statements

type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// Program is the root of a parse in program mode.
type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition   Expression `json:"condition"`
	Consequent  Statement  `json:"consequent"`
	Alternative Statement  `json:"alternative,omitempty"`
}

func NewIfStatement(condition Expression, consequent, alternative Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Consequent: consequent, Alternative: alternative}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileLoop(condition Expression, body Statement) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type DoWhileLoop struct {
	nodeImpl
	statementMarker

	Body      Statement  `json:"body"`
	Condition Expression `json:"condition"`
}

func NewDoWhileLoop(body Statement, condition Expression) *DoWhileLoop {
	return &DoWhileLoop{nodeImpl: newNodeImpl(NodeDoWhileLoop), Body: body, Condition: condition}
}

// ForLoop clauses are each optional; a nil Condition loops until break.
type ForLoop struct {
	nodeImpl
	statementMarker

	Init      Statement  `json:"init,omitempty"`
	Condition Expression `json:"condition,omitempty"`
	Increment Statement  `json:"increment,omitempty"`
	Body      Statement  `json:"body"`
}

func NewForLoop(init Statement, condition Expression, increment Statement, body Statement) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Init: init, Condition: condition, Increment: increment, Body: body}
}

type SwitchCase struct {
	nodeImpl

	Value Expression  `json:"value"`
	Body  []Statement `json:"body"`
}

func NewSwitchCase(value Expression, body []Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase), Value: value, Body: body}
}

// SwitchStatement keeps the default body apart from the ordered cases; a nil
// Default means the switch has no default label.
type SwitchStatement struct {
	nodeImpl
	statementMarker

	Test    Expression    `json:"test"`
	Cases   []*SwitchCase `json:"cases"`
	Default []Statement   `json:"default,omitempty"`
}

func NewSwitchStatement(test Expression, cases []*SwitchCase, def []Statement) *SwitchStatement {
	return &SwitchStatement{nodeImpl: newNodeImpl(NodeSwitchStatement), Test: test, Cases: cases, Default: def}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

// PreprocessorDirective keeps a `#...` line verbatim.
type PreprocessorDirective struct {
	nodeImpl
	statementMarker

	Text string `json:"text"`
}

func NewPreprocessorDirective(text string) *PreprocessorDirective {
	return &PreprocessorDirective{nodeImpl: newNodeImpl(NodePreprocessorDirective), Text: text}
}
