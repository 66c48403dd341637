package atlas

import (
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
)

// forbiddenNameChars may not appear in atlas, region or map names.
const forbiddenNameChars = `:\*?/`

// ValidName reports whether name is non-empty and free of forbidden characters.
func ValidName(name string) bool {
	return name != "" && !strings.ContainsAny(name, forbiddenNameChars)
}

// ValidateName returns ErrInvalidName carrying the rejected name.
func ValidateName(name string) error {
	if ValidName(name) {
		return nil
	}
	return ErrInvalidName.With(name, nameMetadata(name))
}

func nameMetadata(name string) map[string]string {
	return map[string]string{"Name": name}
}

var (
	// ErrInvalidName indicates an empty name or one with forbidden characters.
	ErrInvalidName = apperrors.New(apperrors.CodeInvalidName, "invalid name")
	// ErrDuplicateRegionName indicates a region name already used in the atlas.
	ErrDuplicateRegionName = apperrors.New(apperrors.CodeDuplicateRegionName, "duplicate region name")
	// ErrDuplicateMapName indicates a map name already used anywhere in the atlas.
	ErrDuplicateMapName = apperrors.New(apperrors.CodeDuplicateMapName, "duplicate map name")
	// ErrInvalidAtlas indicates an operation against the invalid atlas.
	ErrInvalidAtlas = apperrors.New(apperrors.CodeInvalidAtlas, "invalid atlas")
	// ErrInvalidRegion indicates a region that does not resolve.
	ErrInvalidRegion = apperrors.New(apperrors.CodeInvalidRegion, "invalid region")
	// ErrInvalidMap indicates a map that does not resolve.
	ErrInvalidMap = apperrors.New(apperrors.CodeInvalidMap, "invalid map")
)

func invalidRegion(name string) *apperrors.Error {
	return ErrInvalidRegion.With(name, nameMetadata(name))
}

func invalidMap(name string) *apperrors.Error {
	return ErrInvalidMap.With(name, nameMetadata(name))
}

func duplicateRegion(name string) *apperrors.Error {
	return ErrDuplicateRegionName.With(name, nameMetadata(name))
}

func duplicateMap(name string) *apperrors.Error {
	return ErrDuplicateMapName.With(name, nameMetadata(name))
}
