package hash

import (
	"encoding/binary"

	"github.com/chazu/bcgen/compiler"
)

// ---------------------------------------------------------------------------
// Deterministic binary serialization of a program.
//
// Encoding conventions:
//   - First byte: HashVersion
//   - Integers: big-endian int64
//   - Strings and lists: uint32 big-endian length, then the contents
//   - Child nodes: serialized inline
//
// Parentheses, positions and literal spelling are not encoded, so programs
// that differ only in layout, comments or redundant parentheses serialize
// identically.
// ---------------------------------------------------------------------------

// Serialize produces a deterministic byte serialization of prog.
func Serialize(prog *compiler.Program) []byte {
	s := &serializer{buf: make([]byte, 0, 256)}
	s.writeByte(HashVersion)
	s.writeByte(TagProgram)
	s.stmts(prog.Statements)
	return s.buf
}

type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) {
	s.buf = append(s.buf, b)
}

func (s *serializer) writeUint32(v uint32) {
	s.buf = binary.BigEndian.AppendUint32(s.buf, v)
}

func (s *serializer) writeInt64(v int64) {
	s.buf = binary.BigEndian.AppendUint64(s.buf, uint64(v))
}

func (s *serializer) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.buf = append(s.buf, v...)
}

func (s *serializer) stmts(stmts []compiler.Stmt) {
	s.writeUint32(uint32(len(stmts)))
	for _, st := range stmts {
		s.stmt(st)
	}
}

func (s *serializer) stmt(st compiler.Stmt) {
	switch n := st.(type) {
	case *compiler.DeclAssign:
		s.writeByte(TagDeclAssign)
		s.writeString(n.Name)
		s.expr(n.Value)

	case *compiler.FuncDecl:
		s.writeByte(TagFuncDecl)
		s.writeString(n.Name)
		s.writeString(n.ReturnType)
		s.writeUint32(uint32(len(n.Params)))
		for _, p := range n.Params {
			s.writeString(p)
		}

	case *compiler.ReAssign:
		s.writeByte(TagReAssign)
		s.writeString(n.Name)
		s.expr(n.Value)

	case *compiler.AssignOp:
		s.writeByte(TagAssignOp)
		s.writeString(n.Name)
		s.writeString(n.Op)
		s.expr(n.Value)

	case *compiler.Print:
		s.writeByte(TagPrint)
		s.expr(n.Value)

	case *compiler.If:
		s.writeByte(TagIf)
		s.expr(n.Cond)
		s.stmts(n.Body)

	case *compiler.While:
		s.writeByte(TagWhile)
		s.expr(n.Cond)
		s.stmts(n.Body)
	}
}

func (s *serializer) expr(e compiler.Expr) {
	switch n := e.(type) {
	case *compiler.IntLiteral:
		s.writeByte(TagIntLiteral)
		s.writeInt64(n.Value)

	case *compiler.Identifier:
		s.writeByte(TagIdentifier)
		s.writeString(n.Name)

	case *compiler.ParenExpr:
		s.expr(n.Inner)

	case *compiler.BinaryExpr:
		s.writeByte(TagBinary)
		s.writeString(n.Op)
		s.expr(n.Left)
		s.expr(n.Right)
	}
}
