package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/repertree/repertree/pkg/errors"
)

// Format is a repertoire file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported repertoire file %q (want .json, .toml, .yaml or .yml)", path)
}

type document struct {
	ID        string         `json:"id" toml:"id" yaml:"id"`
	Name      string         `json:"name" toml:"name" yaml:"name"`
	Color     string         `json:"color" toml:"color" yaml:"color"`
	FEN       string         `json:"fen,omitempty" toml:"fen,omitempty" yaml:"fen,omitempty"`
	Root      string         `json:"root,omitempty" toml:"root,omitempty" yaml:"root,omitempty"`
	Positions []filePosition `json:"positions,omitempty" toml:"positions,omitempty" yaml:"positions,omitempty"`
	Lines     []string       `json:"lines,omitempty" toml:"lines,omitempty" yaml:"lines,omitempty"`
}

type filePosition struct {
	Key   string     `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty"`
	FEN   string     `json:"fen,omitempty" toml:"fen,omitempty" yaml:"fen,omitempty"`
	Moves []fileMove `json:"moves,omitempty" toml:"moves,omitempty" yaml:"moves,omitempty"`
}

type fileMove struct {
	SAN     string `json:"san" toml:"san" yaml:"san"`
	Color   string `json:"color" toml:"color" yaml:"color"`
	Planned bool   `json:"planned" toml:"planned" yaml:"planned"`
	Dest    string `json:"dest" toml:"dest" yaml:"dest"`
}

func decode(data []byte, f Format) (*document, error) {
	var doc document
	var err error
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return &doc, nil
}
