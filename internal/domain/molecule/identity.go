package molecule

import (
	"github.com/google/uuid"
)

// IdentifierLength is the number of characters kept from the hashed UUID.
const IdentifierLength = 8

// Identifier returns the deterministic molecule identifier of smiles: the
// first eight characters of its version-5 UUID in the URL namespace.  The
// value depends only on the exact string, so two spellings of the same
// compound receive different identifiers.
func Identifier(smiles string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(smiles)).String()[:IdentifierLength]
}

// IdentityAssigner maps a structure string to a molecule identifier.
type IdentityAssigner interface {
	Assign(smiles string) string
}

// AssignerFunc adapts a plain function to IdentityAssigner.
type AssignerFunc func(smiles string) string

// Assign implements IdentityAssigner.
func (f AssignerFunc) Assign(smiles string) string { return f(smiles) }

// DefaultAssigner assigns identifiers with Identifier.
var DefaultAssigner IdentityAssigner = AssignerFunc(Identifier)

//Personal.AI order the ending
