// Package bytecode implements spec §4.H (the emitter) and §4.I (the
// opcode table): walking an annotated, laid-out AST into a flat,
// big-endian byte stream consumed by an external VM/linker.
package bytecode

import "github.com/simpla-lang/simplac/internal/ast"

// Op is a one-byte opcode.
type Op byte

// The first 61 values (0-60) are numbered exactly as the original
// compiler's opcode.rs. Opcodes the original snapshot never reached
// (per-kind Bool/Str comparisons, unary negation, INIT, the BFOR/CFOR/
// EFOR for-loop markers, and the write-flush pair) are appended after it
// at the next free values, since that snapshot predates those features.
const (
	ADDI Op = iota
	SUBI
	MULI
	DIVI
	GEQI
	GRI
	LEQI
	LESQI
	EQI
	NEI
	ADDR
	SUBR
	MULR
	DIVR
	GEQR
	GRR
	LEQR
	LESQR
	EQR
	NER
	CSTI
	CSTR
	OR
	AND
	RDI
	RDR
	RDB
	RDS
	WRI
	WRR
	WRB
	WRS
	WRLI
	WRLR
	WRLB
	WRLS
	LDI
	LDR
	LDB
	LDS
	STRI
	STRR
	STRB
	STRS
	JUMP
	JEQ
	JNE
	LBL
	CALL
	RET
	EXT
	LDIC
	LDRC
	LDBC
	LDSC
	PARAM
	STRIP
	STRRP
	STRBP
	STRSP
	FUNC
	EQB
	NEB
	GRB
	GEQB
	LESQB
	LEQB
	EQS
	NES
	GRS
	GEQS
	LESQS
	LEQS
	NEGI
	NEGR
	NOT
	INIT
	BFOR
	CFOR
	EFOR
	FLU
	FLN
)

var opNames = [...]string{
	"ADDI", "SUBI", "MULI", "DIVI", "GEQI", "GRI", "LEQI", "LESQI", "EQI", "NEI",
	"ADDR", "SUBR", "MULR", "DIVR", "GEQR", "GRR", "LEQR", "LESQR", "EQR", "NER",
	"CSTI", "CSTR", "OR", "AND",
	"RDI", "RDR", "RDB", "RDS",
	"WRI", "WRR", "WRB", "WRS",
	"WRLI", "WRLR", "WRLB", "WRLS",
	"LDI", "LDR", "LDB", "LDS",
	"STRI", "STRR", "STRB", "STRS",
	"JUMP", "JEQ", "JNE", "LBL",
	"CALL", "RET", "EXT",
	"LDIC", "LDRC", "LDBC", "LDSC",
	"PARAM", "STRIP", "STRRP", "STRBP", "STRSP",
	"FUNC",
	"EQB", "NEB", "GRB", "GEQB", "LESQB", "LEQB",
	"EQS", "NES", "GRS", "GEQS", "LESQS", "LEQS",
	"NEGI", "NEGR", "NOT",
	"INIT", "BFOR", "CFOR", "EFOR", "FLU", "FLN",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "UNKNOWN"
}

// binaryTable maps (kind, operator) to the opcode for a non-short-circuit
// binary expression, per the per-kind tables in spec §4.H. Logic-class
// entries (AND/OR) are only ever reached with kind == Bool in practice
// (the type checker requires both operands Bool for a Logic operator,
// and the emitter uses the short-circuit path for them rather than this
// table) but are listed for both Bool and Str to mirror the spec's
// opcode enumeration exactly.
var binaryTable = map[ast.Kind]map[ast.Operator]Op{
	ast.Int: {
		ast.Add: ADDI, ast.Sub: SUBI, ast.Mul: MULI, ast.Div: DIVI,
		ast.Eq: EQI, ast.Ne: NEI, ast.Lt: LESQI, ast.Le: LEQI, ast.Gt: GRI, ast.Ge: GEQI,
	},
	ast.Real: {
		ast.Add: ADDR, ast.Sub: SUBR, ast.Mul: MULR, ast.Div: DIVR,
		ast.Eq: EQR, ast.Ne: NER, ast.Lt: LESQR, ast.Le: LEQR, ast.Gt: GRR, ast.Ge: GEQR,
	},
	ast.Bool: {
		ast.And: AND, ast.Or: OR,
		ast.Eq: EQB, ast.Ne: NEB, ast.Lt: LESQB, ast.Le: LEQB, ast.Gt: GRB, ast.Ge: GEQB,
	},
	ast.Str: {
		ast.And: AND, ast.Or: OR,
		ast.Eq: EQS, ast.Ne: NES, ast.Lt: LESQS, ast.Le: LEQS, ast.Gt: GRS, ast.Ge: GEQS,
	},
}

// BinaryOp returns the opcode for a non-short-circuit binary operator
// applied to two operands of kind k.
func BinaryOp(k ast.Kind, op ast.Operator) Op {
	table, ok := binaryTable[k]
	if !ok {
		panic("bytecode: no binary opcode table for kind " + k.String())
	}
	o, ok := table[op]
	if !ok {
		panic("bytecode: no opcode for operator " + op.String() + " on kind " + k.String())
	}
	return o
}

// LoadConst returns the LD_C opcode for pushing a literal of kind k.
func LoadConst(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return LDIC
	case ast.Real:
		return LDRC
	case ast.Bool:
		return LDBC
	case ast.Str:
		return LDSC
	default:
		panic("bytecode: no constant opcode for kind " + k.String())
	}
}

// LoadVar returns the LD opcode for pushing a variable's value of kind k.
func LoadVar(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return LDI
	case ast.Real:
		return LDR
	case ast.Bool:
		return LDB
	case ast.Str:
		return LDS
	default:
		panic("bytecode: no load opcode for kind " + k.String())
	}
}

// Store returns the STR opcode for assigning a value of kind k.
func Store(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return STRI
	case ast.Real:
		return STRR
	case ast.Bool:
		return STRB
	case ast.Str:
		return STRS
	default:
		panic("bytecode: no store opcode for kind " + k.String())
	}
}

// StoreParam returns the STRP opcode for binding a call argument of kind
// k into the callee's frame.
func StoreParam(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return STRIP
	case ast.Real:
		return STRRP
	case ast.Bool:
		return STRBP
	case ast.Str:
		return STRSP
	default:
		panic("bytecode: no store-param opcode for kind " + k.String())
	}
}

// Read returns the RD opcode for a read statement target of kind k.
func Read(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return RDI
	case ast.Real:
		return RDR
	case ast.Bool:
		return RDB
	case ast.Str:
		return RDS
	default:
		panic("bytecode: no read opcode for kind " + k.String())
	}
}

// Write returns the WR opcode for a write argument of kind k.
func Write(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return WRI
	case ast.Real:
		return WRR
	case ast.Bool:
		return WRB
	case ast.Str:
		return WRS
	default:
		panic("bytecode: no write opcode for kind " + k.String())
	}
}

// UnaryMinus returns NEGI or NEGR for arithmetic negation of kind k.
func UnaryMinus(k ast.Kind) Op {
	switch k {
	case ast.Int:
		return NEGI
	case ast.Real:
		return NEGR
	default:
		panic("bytecode: arithmetic negation is undefined for kind " + k.String())
	}
}

// Cast returns the CST opcode for a cast in direction d.
func Cast(d ast.CastDirection) Op {
	if d == ast.ToInt {
		return CSTI
	}
	return CSTR
}
