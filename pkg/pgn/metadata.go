package pgn

import (
	"strconv"
	"strings"

	"github.com/repertree/repertree/pkg/position"
	"github.com/repertree/repertree/pkg/repertoire"
)

// Unknown is the PGN placeholder for a tag value that is not known.
const Unknown = "?"

// UnknownDate is the PGN placeholder for a missing date.
const UnknownDate = "????.??.??"

// DateLayout formats a time.Time as a PGN date.
const DateLayout = "2006.01.02"

// Metadata holds the header values of an exported repertoire.
type Metadata struct {
	Event           string
	Site            string
	Date            string
	White           string
	Black           string
	RepertoireID    string
	RepertoireName  string
	RepertoireColor repertoire.Color
	FEN             string
	PositionCount   int
}

// Tag is a single header pair.
type Tag struct {
	Name  string
	Value string
}

// Overrides replaces the derived values of the presentation tags. Empty
// fields keep the defaults.
type Overrides struct {
	Event string
	Site  string
	White string
	Black string
}

// NewMetadata derives header values from a descriptor. The starting FEN is
// normalized to six fields; a FEN that fails normalization is reported as a
// MALFORMED_FEN error. The player's side is named after the repertoire and
// the other side is left unknown.
func NewMetadata(d repertoire.Descriptor, positionCount int, date string, o Overrides) (Metadata, error) {
	fen, err := position.Normalize(d.FEN())
	if err != nil {
		return Metadata{}, err
	}

	name := orUnknown(d.Name)
	m := Metadata{
		Event:           name,
		Site:            Unknown,
		Date:            date,
		White:           Unknown,
		Black:           Unknown,
		RepertoireID:    d.ID,
		RepertoireName:  d.Name,
		RepertoireColor: d.Color,
		FEN:             fen,
		PositionCount:   positionCount,
	}
	if m.Date == "" {
		m.Date = UnknownDate
	}
	if d.Color == repertoire.Black {
		m.Black = name
	} else {
		m.White = name
	}

	if o.Event != "" {
		m.Event = o.Event
	}
	if o.Site != "" {
		m.Site = o.Site
	}
	if o.White != "" {
		m.White = o.White
	}
	if o.Black != "" {
		m.Black = o.Black
	}
	return m, nil
}

// Tags returns the header in document order.
func (m Metadata) Tags() []Tag {
	return []Tag{
		{"Event", m.Event},
		{"Site", m.Site},
		{"Date", m.Date},
		{"White", m.White},
		{"Black", m.Black},
		{"RepertoireId", m.RepertoireID},
		{"RepertoireName", m.RepertoireName},
		{"RepertoireColor", string(m.RepertoireColor)},
		{"FEN", m.FEN},
		{"SetUp", "1"},
		{"PositionCount", strconv.Itoa(m.PositionCount)},
	}
}

// String renders the tag pair as [Name "Value"].
func (t Tag) String() string {
	return "[" + t.Name + " \"" + escape(t.Value) + "\"]"
}

var tagEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ", "\t", " ")

// escape quotes a tag value. Backslashes and quotes are escaped and line
// breaks become spaces, since a tag must fit on one line.
func escape(s string) string {
	return tagEscaper.Replace(s)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
