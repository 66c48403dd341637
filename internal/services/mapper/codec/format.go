package codec

import (
	"encoding/json"
	"path/filepath"
	"strings"

	apperrors "github.com/dyle/rpgmapper-sub001/internal/platform/errors"
	"github.com/dyle/rpgmapper-sub001/internal/services/mapper/domain/atlas"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects a wire encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatMsgPack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", ErrInvalidDocument.With("unknown format "+name, nil)
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".msgpack", ".mpk":
		return FormatMsgPack, true
	default:
		return "", false
	}
}

// Marshal encodes doc.
func Marshal(doc Document, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatMsgPack:
		data, err = msgpack.Marshal(doc)
	default:
		return nil, ErrInvalidDocument.With("unknown format "+string(f), nil)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidDocument, "encode atlas "+string(f), err)
	}
	return data, nil
}

// Unmarshal decodes a document without interpreting it.
func Unmarshal(data []byte, f Format) (Document, error) {
	var (
		doc Document
		err error
	)
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatMsgPack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		return Document{}, ErrInvalidDocument.With("unknown format "+string(f), nil)
	}
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeInvalidDocument, "decode atlas "+string(f), err)
	}
	return doc, nil
}

// Encode snapshots a and encodes it.
func Encode(a *atlas.Atlas, f Format) ([]byte, error) {
	if !a.IsValid() {
		return nil, atlas.ErrInvalidAtlas
	}
	return Marshal(FromAtlas(a), f)
}

// Decode decodes data and rebuilds the atlas.
func Decode(data []byte, f Format) (*atlas.Atlas, error) {
	doc, err := Unmarshal(data, f)
	if err != nil {
		return nil, err
	}
	return ToAtlas(doc)
}
