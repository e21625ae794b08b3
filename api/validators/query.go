package validators

import (
	"net/http"
	"strings"

	"github.com/kandangops/kandang-backend/pkg/enums"
	pkgerrors "github.com/kandangops/kandang-backend/pkg/errors"
)

// ParseAnimalFilter reads the optional animal_type query parameter.
// Absent means no filter.
func ParseAnimalFilter(r *http.Request) (enums.AnimalType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("animal_type"))
	if raw == "" {
		return "", nil
	}
	animal, err := enums.ParseAnimalType(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown animal type").
			WithDetails(map[string]any{"animal_type": raw, "valid": enums.AnimalTypes()})
	}
	return animal, nil
}
