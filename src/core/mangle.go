package core

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// manglePrefix is prepended to every generated loader symbol so that it
// can never collide with a user-defined C or script identifier.
const manglePrefix = "zz_"

// mangleHexLen is the number of hex characters kept from the digest;
// 40 hex chars is 160 bits, the spec's minimum collision resistance.
const mangleHexLen = 40

// Mangle computes the globally unique loader symbol for module m
// exported from package p: zz_<hash("p/m")>.
func Mangle(p Identifier, m string) string {
	sum := blake3.Sum256([]byte(string(p) + "/" + m))
	return manglePrefix + hex.EncodeToString(sum[:])[:mangleHexLen]
}
