package expr

// Kind identifies the variant of a node.
type Kind string

// Node kinds.
const (
	// Leaves
	KindConstant   Kind = "constant"
	KindCoordinate Kind = "coordinate"
	KindParameter  Kind = "parameter"
	KindMeshSize   Kind = "mesh_size"
	KindNormal     Kind = "normal"

	// Operators
	KindBinary       Kind = "binary"
	KindPower        Kind = "power"
	KindReal         Kind = "real"
	KindImag         Kind = "imag"
	KindIndex        Kind = "index"
	KindVector       Kind = "vector"
	KindUnary        Kind = "unary"
	KindIfPos        Kind = "ifpos"
	KindDomainSelect Kind = "domain_select"

	// Wrappers
	KindCompiled Kind = "compiled"
)

// Op is a binary arithmetic operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Func is an element-wise unary function.
type Func string

const (
	FuncNeg  Func = "neg"
	FuncExp  Func = "exp"
	FuncLog  Func = "log"
	FuncSqrt Func = "sqrt"
	FuncSin  Func = "sin"
	FuncCos  Func = "cos"
	FuncTan  Func = "tan"
	FuncAtan Func = "atan"
	FuncAbs  Func = "abs"
)

// ExponentKind records how the exponent of a Power node was given.
type ExponentKind int

const (
	ExpInt ExponentKind = iota
	ExpFloat
	ExpNode
)
