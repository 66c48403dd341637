// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Naming errors
	CodeInvalidName         Code = "INVALID_NAME"
	CodeDuplicateRegionName Code = "DUPLICATE_REGION_NAME"
	CodeDuplicateMapName    Code = "DUPLICATE_MAP_NAME"

	// Coordinate system errors
	CodeInvalidSize          Code = "INVALID_SIZE"
	CodeUnknownNumeralMethod Code = "UNKNOWN_NUMERAL_METHOD"
	CodeUnknownOrigin        Code = "UNKNOWN_ORIGIN"
	CodeInvalidPosition      Code = "INVALID_POSITION"
	CodeInvalidMargin        Code = "INVALID_MARGIN"

	// Tile and layer errors
	CodeInvalidColor Code = "INVALID_COLOR"
	CodeInvalidTile  Code = "INVALID_TILE"
	CodeInvalidLayer Code = "INVALID_LAYER"
	CodeLayerMinimum Code = "LAYER_MINIMUM"

	// Structural errors
	CodeInvalidMap     Code = "INVALID_MAP"
	CodeInvalidRegion  Code = "INVALID_REGION"
	CodeInvalidAtlas   Code = "INVALID_ATLAS"
	CodeInvalidCommand Code = "INVALID_COMMAND"

	// Document errors
	CodeInvalidDocument Code = "INVALID_DOCUMENT"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Kind groups codes by how callers should react to them.
type Kind string

const (
	// KindValidation covers bad input detected before any mutation.
	KindValidation Kind = "validation"
	// KindStructural covers operations against invalid or stale entities.
	KindStructural Kind = "structural"
	// KindStorage covers persistence lookups.
	KindStorage Kind = "storage"
	// KindUnknown covers anything without a domain code.
	KindUnknown Kind = "unknown"
)

// Kind maps domain codes to their error kind.
func (c Code) Kind() Kind {
	switch c {
	case CodeInvalidName,
		CodeDuplicateRegionName,
		CodeDuplicateMapName,
		CodeInvalidSize,
		CodeUnknownNumeralMethod,
		CodeUnknownOrigin,
		CodeInvalidPosition,
		CodeInvalidMargin,
		CodeInvalidColor,
		CodeInvalidTile,
		CodeLayerMinimum,
		CodeInvalidDocument:
		return KindValidation

	case CodeInvalidMap,
		CodeInvalidRegion,
		CodeInvalidAtlas,
		CodeInvalidLayer,
		CodeInvalidCommand:
		return KindStructural

	case CodeNotFound:
		return KindStorage

	default:
		return KindUnknown
	}
}
