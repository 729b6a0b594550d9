package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/repertree/repertree/pkg/repertoire"
)

// Marshal encodes rep in graph form as indented JSON. Positions and moves
// keep their order, so equal repertoires give equal bytes; the cache uses
// this as the content hash input.
func Marshal(rep *repertoire.Repertoire) ([]byte, error) {
	doc := document{
		ID:    rep.ID,
		Name:  rep.Name,
		Color: string(rep.Color),
		FEN:   rep.StartingFEN,
		Root:  string(rep.Graph.Root()),
	}
	for _, p := range rep.Graph.Positions() {
		fp := filePosition{Key: string(p.Key), FEN: p.FEN}
		for _, m := range p.Moves {
			fp.Moves = append(fp.Moves, fileMove{
				SAN:     m.SAN,
				Color:   string(m.Color),
				Planned: m.Planned,
				Dest:    string(m.Dest),
			})
		}
		doc.Positions = append(doc.Positions, fp)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON encodes rep in graph form and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(rep *repertoire.Repertoire, w io.Writer) error {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportJSON writes rep to a JSON file at path.
func ExportJSON(rep *repertoire.Repertoire, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(rep, f)
}
