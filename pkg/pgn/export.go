package pgn

import (
	"bytes"
	"io"
	"strings"

	"github.com/repertree/repertree/pkg/errors"
	"github.com/repertree/repertree/pkg/repertoire"
	"github.com/repertree/repertree/pkg/tree"
)

// Document is a serialized repertoire.
type Document struct {
	Metadata Metadata
	MoveText string
}

// Options carries the caller-supplied values of an export.
type Options struct {
	Date string // PGN date; UnknownDate when empty
	Overrides
}

// Export validates rep, converts its graph and serializes the result.
// The starting FEN is checked before the graph is walked, and a dangling
// reference anywhere in the graph fails the export without partial output.
func Export(rep *repertoire.Repertoire, opts Options) (*Document, error) {
	if rep == nil {
		return nil, errors.New(errors.ErrCodeInvalidRepertoire, "nil repertoire")
	}
	if err := rep.Descriptor.Validate(); err != nil {
		return nil, err
	}
	res, err := tree.Convert(rep.Graph)
	if err != nil {
		return nil, err
	}
	return Serialize(res, rep.Descriptor, opts)
}

// Serialize renders an already converted tree.
func Serialize(res *tree.Result, d repertoire.Descriptor, opts Options) (*Document, error) {
	meta, err := NewMetadata(d, res.PositionCount, opts.Date, opts.Overrides)
	if err != nil {
		return nil, err
	}
	text, err := MoveText(res.Root, meta.FEN)
	if err != nil {
		return nil, err
	}
	return &Document{Metadata: meta, MoveText: text}, nil
}

// WriteTo writes the tag block, a blank line and the move text.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, t := range d.Metadata.Tags() {
		buf.WriteString(t.String())
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(d.MoveText)
	buf.WriteByte('\n')
	return buf.WriteTo(w)
}

// String returns the full document text.
func (d *Document) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

// Bytes returns the full document text.
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

// Write exports rep to w.
func Write(w io.Writer, rep *repertoire.Repertoire, opts Options) error {
	doc, err := Export(rep, opts)
	if err != nil {
		return err
	}
	_, err = doc.WriteTo(w)
	return err
}

// Collapse reduces every whitespace run in s to a single space and trims
// the ends, for comparing documents that differ only in layout.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
