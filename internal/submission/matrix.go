package submission

import "github.com/Lattice-Labs/lattice/internal/entity"

// typeMatrix maps a declared target column type to the coarse value
// families it accepts. Declared types not listed here accept anything.
var typeMatrix = map[string][]entity.Family{
	"integer":   {entity.FamilyNumeric},
	"bigint":    {entity.FamilyNumeric},
	"smallint":  {entity.FamilyNumeric},
	"numeric":   {entity.FamilyNumeric},
	"decimal":   {entity.FamilyNumeric},
	"real":      {entity.FamilyNumeric},
	"double":    {entity.FamilyNumeric},
	"float":     {entity.FamilyNumeric},
	"text":      {entity.FamilyText},
	"varchar":   {entity.FamilyText},
	"char":      {entity.FamilyText},
	"uuid":      {entity.FamilyText},
	"date":      {entity.FamilyDatetime, entity.FamilyText},
	"time":      {entity.FamilyDatetime, entity.FamilyText},
	"timestamp": {entity.FamilyDatetime, entity.FamilyText},
}

// Compatible reports whether a value family is acceptable for a declared
// target type.
func Compatible(declared string, family entity.Family) bool {
	families, ok := typeMatrix[declared]
	if !ok {
		return true
	}
	for _, f := range families {
		if f == family {
			return true
		}
	}
	return false
}
