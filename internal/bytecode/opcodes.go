// Package bytecode decodes the VM's image format and names its opcodes. It
// has no knowledge of values or execution; it is purely the wire format.
package bytecode

// Op is a single instruction opcode. The byte values below are the
// authoritative assignment a compiler targeting this VM must use.
type Op byte

const (
	Add            Op = 0
	Sub            Op = 1
	Mul            Op = 2
	Div            Op = 3
	Mod            Op = 4
	Neg            Op = 5
	Not            Op = 6
	And            Op = 7
	Or             Op = 8
	Equal          Op = 9
	NotEqual       Op = 10
	Less           Op = 11
	LessEqual      Op = 12
	Greater        Op = 13
	GreaterEqual   Op = 14
	True           Op = 15
	False          Op = 16
	Jump           Op = 17
	JumpIfFalse    Op = 18
	Store          Op = 19
	Index          Op = 20
	Append         Op = 21
	Length         Op = 22
	List           Op = 23
	ConstU64       Op = 24
	ConstU32       Op = 25
	ConstU8        Op = 26
	String         Op = 27
	DefLocal       Op = 28
	GetLocal       Op = 29
	Assign         Op = 30
	Call           Op = 31
	Return         Op = 32
	Print          Op = 33
	Pop            Op = 34
	MakeList       Op = 35
	MakeTuple      Op = 36
	NativeCall     Op = 37
	ConstDouble    Op = 38
	MakeChan       Op = 39
	ChanRead       Op = 40
	ChanWrite      Op = 41
	Spawn          Op = 42
	opcodeCount        = 43
)

var names = [opcodeCount]string{
	Add: "ADD", Sub: "SUB", Mul: "MUL", Div: "DIV", Mod: "MOD",
	Neg: "NEG", Not: "NOT", And: "AND", Or: "OR",
	Equal: "EQUAL", NotEqual: "NOT_EQUAL", Less: "LESS", LessEqual: "LESS_EQUAL",
	Greater: "GREATER", GreaterEqual: "GREATER_EQUAL",
	True: "TRUE", False: "FALSE",
	Jump: "JUMP", JumpIfFalse: "JUMP_IF_FALSE",
	Store: "STORE", Index: "INDEX", Append: "APPEND", Length: "LENGTH",
	List: "LIST",
	ConstU64: "CONST_U64", ConstU32: "CONST_U32", ConstU8: "CONST_U8",
	String: "STRING",
	DefLocal: "DEF_LOCAL", GetLocal: "GET_LOCAL", Assign: "ASSIGN",
	Call: "CALL", Return: "RETURN",
	Print: "PRINT", Pop: "POP",
	MakeList: "MAKE_LIST", MakeTuple: "MAKE_TUPLE",
	NativeCall:  "NATIVE_CALL",
	ConstDouble: "CONST_DOUBLE",
	MakeChan:    "MAKE_CHAN", ChanRead: "CHAN_READ", ChanWrite: "CHAN_WRITE",
	Spawn: "SPAWN",
}

// String renders the opcode's mnemonic for tracing; out-of-range bytes
// render as "UNKNOWN" rather than panicking; see IsValid.
func (op Op) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "UNKNOWN"
}

// IsValid reports whether op is one of the defined opcodes.
func (op Op) IsValid() bool {
	return int(op) < opcodeCount
}
