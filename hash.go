package gruntz

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// h128 is a 128-bit content digest of an expression tree. Two equal trees
// always have the same digest; the converse is checked structurally (see
// equalExpr) so a collision can never silently corrupt a substitution.
type h128 struct{ hi, lo uint64 }

// hashNode digests a node from its type tag, an optional payload (literal
// value, symbol name) and the digests of its children. Children of Add and
// Mul are canonically ordered before hashing, so the digest is insensitive
// to the order the caller supplied them in.
func hashNode(tag byte, payload []byte, children ...h128) h128 {
	buf := make([]byte, 0, 1+len(payload)+16*len(children))
	buf = append(buf, tag)
	buf = append(buf, payload...)
	var tmp [16]byte
	for _, c := range children {
		binary.LittleEndian.PutUint64(tmp[:8], c.hi)
		binary.LittleEndian.PutUint64(tmp[8:], c.lo)
		buf = append(buf, tmp[:]...)
	}
	sum := xxh3.Hash128(buf)
	return h128{hi: sum.Hi, lo: sum.Lo}
}

func childDigests(es []Expr) []h128 {
	out := make([]h128, len(es))
	for i, e := range es {
		out[i] = e.digest()
	}
	return out
}
