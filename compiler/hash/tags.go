package hash

// ---------------------------------------------------------------------------
// Frozen tag bytes for the program hashing serialization format.
//
// Once assigned, a tag byte must never change meaning. Adding new tags is
// fine; changing existing ones breaks all previously computed hashes.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix for the serialization format.
const HashVersion byte = 1

// Expression tags.
const (
	TagReservedZero byte = 0x00

	TagIntLiteral byte = 0x01
	TagIdentifier byte = 0x02
	TagBinary     byte = 0x03
)

// Statement tags.
const (
	TagDeclAssign byte = 0x10
	TagFuncDecl   byte = 0x11
	TagReAssign   byte = 0x12
	TagAssignOp   byte = 0x13
	TagPrint      byte = 0x14
	TagIf         byte = 0x15
	TagWhile      byte = 0x16
	TagProgram    byte = 0x17
)
