package bytecode

import (
	"testing"

	"github.com/simpla-lang/simplac/internal/ast"
	"github.com/simpla-lang/simplac/internal/check"
	"github.com/simpla-lang/simplac/internal/layout"
)

func intConst(v int64) *ast.Expr {
	return &ast.Expr{Tree: &ast.Factor{Value: &ast.Const{Kind: ast.ConstInt, IntVal: v}}}
}

// analyzeAndEmit runs the full pipeline (check → layout → emit) so every
// test exercises the exact sequence the CLI driver will use.
func analyzeAndEmit(t *testing.T, prog *ast.Program) []byte {
	t.Helper()
	if _, err := check.AnalyzeProgram(prog); err != nil {
		t.Fatalf("unexpected analysis error: %v", err)
	}
	lay := layout.Build(prog)
	return Emit(prog, lay)
}

// instr is one decoded instruction: its opcode, its operand bytes (if
// any, not counting the opcode byte itself), and the stream offset it
// started at.
type instr struct {
	op     Op
	offset int
	operand []byte
}

// decode walks a full bytecode stream instruction by instruction. It
// knows every opcode's operand width so tests never misinterpret an
// operand byte as the following opcode.
func decode(t *testing.T, code []byte) []instr {
	t.Helper()
	var out []instr
	i := 0
	for i < len(code) {
		op := Op(code[i])
		start := i
		switch op {
		// No operand.
		case ADDI, SUBI, MULI, DIVI, GEQI, GRI, LEQI, LESQI, EQI, NEI,
			ADDR, SUBR, MULR, DIVR, GEQR, GRR, LEQR, LESQR, EQR, NER,
			CSTI, CSTR, OR, AND,
			WRI, WRR, WRB, WRS, WRLI, WRLR, WRLB, WRLS,
			EQB, NEB, GRB, GEQB, LESQB, LEQB,
			EQS, NES, GRS, GEQS, LESQS, LEQS,
			NEGI, NEGR, NOT,
			RET, EXT, FUNC, BFOR, CFOR, EFOR, FLU, FLN:
			i++
			out = append(out, instr{op: op, offset: start})

		// One 16-bit address/label/function-id operand.
		case RDI, RDR, RDB, RDS,
			LDI, LDR, LDB, LDS,
			STRI, STRR, STRB, STRS,
			STRIP, STRRP, STRBP, STRSP,
			JUMP, JEQ, JNE, LBL,
			CALL, PARAM:
			operand := code[i+1 : i+3]
			i += 3
			out = append(out, instr{op: op, offset: start, operand: operand})

		// INIT: four 16-bit counts.
		case INIT:
			operand := code[i+1 : i+9]
			i += 9
			out = append(out, instr{op: op, offset: start, operand: operand})

		// LDIC: 32-bit int.
		case LDIC:
			operand := code[i+1 : i+5]
			i += 5
			out = append(out, instr{op: op, offset: start, operand: operand})

		// LDRC: 64-bit float.
		case LDRC:
			operand := code[i+1 : i+9]
			i += 9
			out = append(out, instr{op: op, offset: start, operand: operand})

		// LDBC: one byte.
		case LDBC:
			operand := code[i+1 : i+2]
			i += 2
			out = append(out, instr{op: op, offset: start, operand: operand})

		// LDSC: 16-bit length prefix, then that many bytes.
		case LDSC:
			length := int(code[i+1])<<8 | int(code[i+2])
			operand := code[i+1 : i+3+length]
			i += 3 + length
			out = append(out, instr{op: op, offset: start, operand: operand})

		default:
			t.Fatalf("decode: unhandled opcode %s (%d) at offset %d", op, op, i)
		}
	}
	return out
}

func u16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

func TestProgramEndsWithExtAndFunctionsEndInRet(t *testing.T) {
	fn := &ast.FuncDecl{
		Id:     "f",
		Result: ast.Int,
		Body:   []ast.Statement{&ast.ReturnStat{Expr: intConst(1)}},
	}
	prog := &ast.Program{
		Globals:   []*ast.VarDecl{{Ids: []string{"x"}, Kind: ast.Int}},
		Functions: []*ast.FuncDecl{fn},
		Body:      []ast.Statement{&ast.AssignStat{Id: "x", Expr: intConst(1)}},
	}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	extIdx := -1
	for i, in := range instrs {
		if in.op == EXT {
			extIdx = i
			break
		}
	}
	if extIdx < 0 {
		t.Fatalf("no EXT opcode found in stream")
	}
	// Everything after EXT is FUNC...RET blocks; the very last
	// instruction must be a RET.
	if instrs[len(instrs)-1].op != RET {
		t.Fatalf("stream does not end in RET: last instruction %s", instrs[len(instrs)-1].op)
	}
	if instrs[extIdx+1].op != FUNC {
		t.Fatalf("expected FUNC immediately after EXT, got %s", instrs[extIdx+1].op)
	}
}

func TestGlobalInitHeaderMatchesDeclaredGlobals(t *testing.T) {
	prog := &ast.Program{
		Globals: []*ast.VarDecl{
			{Ids: []string{"a", "b"}, Kind: ast.Int},
			{Ids: []string{"c"}, Kind: ast.Str},
		},
	}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	if instrs[0].op != INIT {
		t.Fatalf("expected stream to begin with INIT, got %s", instrs[0].op)
	}
	counts := instrs[0].operand
	intCount := u16(counts[0:2])
	strCount := u16(counts[6:8])
	if intCount != 2 {
		t.Fatalf("expected 2 global ints, got %d", intCount)
	}
	if strCount != 1 {
		t.Fatalf("expected 1 global str, got %d", strCount)
	}
}

func TestAddressScopeBitMatchesDeclarationScope(t *testing.T) {
	fn := &ast.FuncDecl{
		Id:     "f",
		Result: ast.Void,
		Params: []ast.ParamDecl{{Id: "n", Kind: ast.Int}},
		Body: []ast.Statement{&ast.AssignStat{
			Id:   "g",
			Expr: &ast.Expr{Tree: &ast.Factor{Value: &ast.Id{Name: "n"}}},
		}},
	}
	prog := &ast.Program{
		Globals:   []*ast.VarDecl{{Ids: []string{"g"}, Kind: ast.Int}},
		Functions: []*ast.FuncDecl{fn},
	}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	var ldiAddr, striAddr layout.AddrSize
	found := 0
	for _, in := range instrs {
		switch in.op {
		case LDI:
			ldiAddr = layout.AddrSize(u16(in.operand))
			found++
		case STRI:
			striAddr = layout.AddrSize(u16(in.operand))
			found++
		}
	}
	if found != 2 {
		t.Fatalf("expected exactly one LDI and one STRI, found %d matches", found)
	}
	if !ldiAddr.IsLocal() {
		t.Fatalf("parameter n's address should be local-scoped")
	}
	if striAddr.IsLocal() {
		t.Fatalf("global g's address should be global-scoped")
	}
}

func TestStringConstantTruncatesAtCodepointBoundary(t *testing.T) {
	var big []byte
	for len(big) < (1<<16)+10 {
		big = append(big, []byte("游")...)
	}
	s := string(big)

	buf := NewBuffer()
	buf.WriteString(s)

	length := int(u16(buf.Code[0:2]))
	if length > (1<<16)-1 {
		t.Fatalf("truncated length %d exceeds max", length)
	}
	if length+2 != len(buf.Code) {
		t.Fatalf("declared length %d does not match buffer payload %d", length, len(buf.Code)-2)
	}
	payload := buf.Code[2 : 2+length]
	decoded := 0
	for decoded < len(payload) {
		_, size := decodeRune(payload[decoded:])
		if size == 0 {
			t.Fatalf("invalid/partial codepoint at byte %d", decoded)
		}
		decoded += size
	}
	if decoded != len(payload) {
		t.Fatalf("payload did not decode to exactly its own length: decoded %d of %d", decoded, len(payload))
	}
}

// decodeRune is a tiny local UTF-8 decoder so the test doesn't need to
// import unicode/utf8 just to restate what buffer.go already verified.
func decodeRune(b []byte) (rune, int) {
	if len(b) == 0 {
		return 0xFFFD, 0
	}
	var n int
	switch {
	case b[0]&0x80 == 0:
		n = 1
	case b[0]&0xE0 == 0xC0:
		n = 2
	case b[0]&0xF0 == 0xE0:
		n = 3
	case b[0]&0xF8 == 0xF0:
		n = 4
	default:
		return 0xFFFD, 0
	}
	if len(b) < n {
		return 0xFFFD, 0
	}
	return rune(b[0]), n
}

func TestLabelsAreUniqueAndEveryJumpHasAMatchingLabel(t *testing.T) {
	fn := &ast.FuncDecl{
		Id:     "f",
		Result: ast.Void,
		Locals: []*ast.VarDecl{{Ids: []string{"i"}, Kind: ast.Int}},
		Body: []ast.Statement{
			&ast.ForStat{
				Id:   "i",
				From: intConst(0),
				To:   intConst(10),
				Body: []ast.Statement{&ast.BreakStat{}},
			},
			&ast.IfStat{
				Cond: &ast.Expr{Tree: &ast.Factor{Value: &ast.Const{Kind: ast.ConstBool, BoolVal: true}}},
				Then: []ast.Statement{},
				Else: []ast.Statement{},
			},
		},
	}
	prog := &ast.Program{Functions: []*ast.FuncDecl{fn}}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	labelDefs := map[uint16]int{}
	var jumpTargets []uint16
	for _, in := range instrs {
		switch in.op {
		case LBL:
			labelDefs[u16(in.operand)]++
		case JUMP, JEQ, JNE:
			jumpTargets = append(jumpTargets, u16(in.operand))
		}
	}
	for id, count := range labelDefs {
		if count != 1 {
			t.Fatalf("label %d defined %d times, want exactly 1", id, count)
		}
	}
	for _, target := range jumpTargets {
		if _, ok := labelDefs[target]; !ok {
			t.Fatalf("jump targets undefined label %d", target)
		}
	}
}

func TestShortCircuitAndUsesJNE(t *testing.T) {
	expr := &ast.Expr{Tree: &ast.BinaryNode{
		Left:  &ast.Expr{Tree: &ast.Factor{Value: &ast.Const{Kind: ast.ConstBool, BoolVal: true}}},
		Op:    ast.And,
		Right: &ast.Expr{Tree: &ast.Factor{Value: &ast.Const{Kind: ast.ConstBool, BoolVal: false}}},
	}}
	prog := &ast.Program{Body: []ast.Statement{&ast.WriteStat{Args: []*ast.Expr{expr}}}}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	found := false
	for _, in := range instrs {
		if in.op == JNE {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a JNE opcode for and-short-circuit")
	}
}

func TestFunctionCallEmitsParamStoreCallInOrder(t *testing.T) {
	callee := &ast.FuncDecl{
		Id:     "add",
		Result: ast.Int,
		Params: []ast.ParamDecl{{Id: "a", Kind: ast.Int}, {Id: "b", Kind: ast.Int}},
		Body:   []ast.Statement{&ast.ReturnStat{Expr: &ast.Expr{Tree: &ast.Factor{Value: &ast.Id{Name: "a"}}}}},
	}
	call := &ast.FuncCall{Id: "add", Args: []*ast.Expr{intConst(1), intConst(2)}}
	prog := &ast.Program{
		Functions: []*ast.FuncDecl{callee},
		Body:      []ast.Statement{&ast.CallStat{Call: call}},
	}
	code := analyzeAndEmit(t, prog)
	instrs := decode(t, code)

	paramIdx, callIdx, stripCount := -1, -1, 0
	var lastStripIdx int
	for i, in := range instrs {
		switch in.op {
		case PARAM:
			if paramIdx < 0 {
				paramIdx = i
			}
		case STRIP:
			stripCount++
			lastStripIdx = i
		case CALL:
			if callIdx < 0 {
				callIdx = i
			}
		}
	}
	if paramIdx < 0 || stripCount != 2 || callIdx < 0 {
		t.Fatalf("expected PARAM, two STRIPs and CALL; got param=%d strips=%d call=%d", paramIdx, stripCount, callIdx)
	}
	if !(paramIdx < lastStripIdx && lastStripIdx < callIdx) {
		t.Fatalf("expected PARAM < STRIP < CALL ordering")
	}
}
