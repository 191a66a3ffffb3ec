// Package molecule models the candidate molecules of a docking campaign: their
// content-derived identifiers, the tabular molecule collection they are read
// from, and the structure validity check applied before preparation.
package molecule

// Molecule is a candidate compound.  ID is derived from SMILES and is the key
// used for every file the pipeline produces for the molecule.
type Molecule struct {
	ID     string `json:"uuid" yaml:"uuid"`
	SMILES string `json:"smiles" yaml:"smiles"`
}

// New builds a Molecule, assigning its identifier with a.  A nil assigner
// means DefaultAssigner.  smiles is used verbatim.
func New(smiles string, a IdentityAssigner) Molecule {
	if a == nil {
		a = DefaultAssigner
	}
	return Molecule{ID: a.Assign(smiles), SMILES: smiles}
}

// Dedupe keeps the first occurrence of every identifier, preserving order.
func Dedupe(mols []Molecule) []Molecule {
	seen := make(map[string]struct{}, len(mols))
	out := make([]Molecule, 0, len(mols))
	for _, m := range mols {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

// IDs returns the identifiers of mols in order.
func IDs(mols []Molecule) []string {
	ids := make([]string, len(mols))
	for i, m := range mols {
		ids[i] = m.ID
	}
	return ids
}

//Personal.AI order the ending
