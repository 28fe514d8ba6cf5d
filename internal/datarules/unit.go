package datarules

import "github.com/Lattice-Labs/lattice/internal/entity"

// Unit is the subject a data-aware rule runs against: one entity's
// declared configuration plus its realized dataset, and the realized
// datasets of its foreign key targets. A nil dataset means "unavailable"
// and every rule treats it as nothing to check.
type Unit struct {
	Config  *entity.Config
	Dataset *entity.Dataset
	Related map[string]*entity.Dataset
}
