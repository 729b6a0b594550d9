package io

import (
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
)

// idNamespace scopes the name-based UUIDs generated for files without an id.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/repertree/repertree"))

// Import reads the repertoire file at path, choosing the decoder from its
// extension.
func Import(path string) (*repertoire.Repertoire, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer file.Close()

	rep, err := Read(file, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidFormat), err, "import %s", path)
	}
	return rep, nil
}

// ReadJSON decodes a JSON repertoire file from r. Either the graph form or
// the line form is accepted. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*repertoire.Repertoire, error) {
	return Read(r, FormatJSON)
}

// ReadLines decodes a TOML or YAML repertoire file from r.
func ReadLines(r io.Reader, f Format) (*repertoire.Repertoire, error) {
	return Read(r, f)
}

// Read decodes a repertoire file of the given format from r.
//
// The descriptor is validated (color and starting FEN). The graph itself is
// only checked for well-formedness; dangling destinations are left for
// [repertoire.Graph.Validate] and the converter to report.
func Read(r io.Reader, f Format) (*repertoire.Repertoire, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read")
	}
	doc, err := decode(data, f)
	if err != nil {
		return nil, err
	}

	d, err := descriptor(doc, data)
	if err != nil {
		return nil, err
	}

	switch {
	case len(doc.Positions) > 0 && len(doc.Lines) > 0:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "file has both positions and lines")
	case len(doc.Positions) > 0:
		return buildGraph(d, doc)
	default:
		return buildLines(d, doc.Lines)
	}
}

func descriptor(doc *document, data []byte) (repertoire.Descriptor, error) {
	c, err := repertoire.ParseColor(doc.Color)
	if err != nil {
		return repertoire.Descriptor{}, errors.Wrap(errors.ErrCodeInvalidRepertoire, err, "repertoire %q", doc.Name)
	}
	d := repertoire.Descriptor{ID: doc.ID, Name: doc.Name, Color: c, StartingFEN: doc.FEN}
	if d.ID == "" {
		d.ID = uuid.NewSHA1(idNamespace, data).String()
	} else if err := errors.ValidateRepertoireID(d.ID); err != nil {
		return repertoire.Descriptor{}, err
	}
	if err := d.Validate(); err != nil {
		return repertoire.Descriptor{}, err
	}
	fen, _ := position.Normalize(d.FEN())
	d.StartingFEN = fen
	return d, nil
}

func buildLines(d repertoire.Descriptor, lines []string) (*repertoire.Repertoire, error) {
	b, err := repertoire.NewBuilder(d)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if err := b.AddLine(repertoire.ParseLine(line)...); err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeIllegalMove), err, "line %d", i+1)
		}
	}
	return b.Repertoire(), nil
}

func buildGraph(d repertoire.Descriptor, doc *document) (*repertoire.Repertoire, error) {
	keys := make([]position.Key, len(doc.Positions))
	for i, p := range doc.Positions {
		switch {
		case p.Key != "":
			keys[i] = position.Key(p.Key)
		case p.FEN != "":
			k, err := position.Default(p.FEN)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedFEN, err, "position %d", i+1)
			}
			keys[i] = k
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "position %d has neither key nor fen", i+1)
		}
	}

	root := position.Key(doc.Root)
	if root == "" {
		root = keys[0]
	}

	g := repertoire.NewGraph(root)
	for i, p := range doc.Positions {
		if err := g.AddPosition(repertoire.Position{Key: keys[i], FEN: p.FEN}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "position %d", i+1)
		}
	}
	for i, p := range doc.Positions {
		for _, m := range p.Moves {
			c, err := repertoire.ParseColor(m.Color)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "move %s at position %d", m.SAN, i+1)
			}
			mv := repertoire.Move{SAN: m.SAN, Color: c, Planned: m.Planned, Dest: position.Key(m.Dest)}
			if err := g.AddMove(keys[i], mv); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "move %s at position %d", m.SAN, i+1)
			}
		}
	}
	return &repertoire.Repertoire{Descriptor: d, Graph: g}, nil
}
