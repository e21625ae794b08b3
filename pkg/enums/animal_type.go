package enums

import "fmt"

// AnimalType is the animal label as it appears in ledger rows.
type AnimalType string

const (
	AnimalTypeGoatSheep AnimalType = "Goat/Sheep"
	AnimalTypeCattle    AnimalType = "Cattle"
)

var validAnimalTypes = []AnimalType{
	AnimalTypeGoatSheep,
	AnimalTypeCattle,
}

// IsValid reports whether the value matches a known animal type.
func (t AnimalType) IsValid() bool {
	for _, candidate := range validAnimalTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// PlanKey maps the ledger label onto the key used by the order plan file.
// The mapping is a fixed two-way table, not a string transformation.
func (t AnimalType) PlanKey() string {
	switch t {
	case AnimalTypeGoatSheep:
		return "Goat"
	case AnimalTypeCattle:
		return "Cattle"
	}
	return string(t)
}

// AnimalTypeForPlanKey is the inverse of PlanKey.
func AnimalTypeForPlanKey(key string) (AnimalType, bool) {
	switch key {
	case "Goat":
		return AnimalTypeGoatSheep, true
	case "Cattle":
		return AnimalTypeCattle, true
	}
	return "", false
}

// ParseAnimalType converts raw input into AnimalType.
func ParseAnimalType(value string) (AnimalType, error) {
	for _, candidate := range validAnimalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal type %q", value)
}

// AnimalTypes lists every known animal type.
func AnimalTypes() []AnimalType {
	out := make([]AnimalType, len(validAnimalTypes))
	copy(out, validAnimalTypes)
	return out
}
