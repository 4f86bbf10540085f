// Package blocks defines the intermediate block record produced by
// classification and the dialects that serialise it.
package blocks

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Type names a block kind.
type Type string

const (
	Paragraph    Type = "paragraph"
	Heading      Type = "heading"
	Image        Type = "image"
	Embed        Type = "embed"
	Columns      Type = "columns"
	Column       Type = "column"
	List         Type = "list"
	Table        Type = "table"
	Buttons      Type = "buttons"
	Button       Type = "button"
	Separator    Type = "separator"
	AnchorTarget Type = "anchor"
	HTML         Type = "html"
	Quote        Type = "quote"
	Reusable     Type = "block"
)

// Alignment values.
const (
	AlignCenter = "center"
	AlignLeft   = "left"
	AlignRight  = "right"
)

// Block is one unit of output. Which fields matter depends on Type:
//
//	Paragraph, Quote, HTML   Inner, Align, ClassName
//	Heading                  Inner, Level, Anchor, Align, ClassName
//	Image                    URL, Alt, Link, Caption, Width, Height, Align
//	Embed                    URL, Caption
//	Columns, Column          Children, ClassName
//	List                     Inner (li markup), Ordered, ClassName
//	Table                    Inner (thead/tbody markup), ClassName
//	Buttons                  Children, Align
//	Button                   URL, Text, Color
//	AnchorTarget             Anchor
//	Reusable                 Ref
//
// Inner, Caption and Text hold markup that is already escaped.
type Block struct {
	Type      Type     `json:"type" yaml:"type"`
	Level     int      `json:"level,omitempty" yaml:"level,omitempty"`
	Ordered   bool     `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Align     string   `json:"align,omitempty" yaml:"align,omitempty"`
	ClassName string   `json:"class_name,omitempty" yaml:"class_name,omitempty"`
	Anchor    string   `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Link      string   `json:"link,omitempty" yaml:"link,omitempty"`
	Alt       string   `json:"alt,omitempty" yaml:"alt,omitempty"`
	Caption   string   `json:"caption,omitempty" yaml:"caption,omitempty"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty"`
	Color     string   `json:"color,omitempty" yaml:"color,omitempty"`
	Width     int      `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int      `json:"height,omitempty" yaml:"height,omitempty"`
	Ref       int      `json:"ref,omitempty" yaml:"ref,omitempty"`
	Inner     string   `json:"inner,omitempty" yaml:"inner,omitempty"`
	Children  []*Block `json:"children,omitempty" yaml:"children,omitempty"`
}

// AddClass appends class to ClassName unless already present.
func (b *Block) AddClass(class string) {
	if class == "" {
		return
	}
	for _, c := range strings.Fields(b.ClassName) {
		if c == class {
			return
		}
	}
	b.ClassName = strings.TrimSpace(b.ClassName + " " + class)
}

// Attr is one key of an ordered attribute record.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an attribute record that keeps insertion order when encoded.
type Attrs []Attr

// Set replaces key in place or appends it.
func (a *Attrs) Set(key string, value any) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

// Get returns the value for key.
func (a Attrs) Get(key string) (any, bool) {
	for _, at := range a {
		if at.Key == key {
			return at.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as an object in insertion order.
func (a Attrs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(at.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(at.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// commentSafe encodes attrs for use inside an HTML comment. A literal "--"
// would end the comment early, so it is written as escaped hyphens.
func (a Attrs) commentSafe() string {
	if len(a) == 0 {
		return ""
	}
	data, err := a.MarshalJSON()
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(string(data), "--", `\u002d\u002d`)
}
