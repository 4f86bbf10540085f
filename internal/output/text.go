package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes the converted markup of each report as is. Other values
// are printed with their default format. Items are separated by a blank line.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes one item.
func (w *TextWriter) Write(data any) error {
	var text string
	switch v := data.(type) {
	case *Report:
		text = v.Content
		if v.Error != "" {
			text = "error: " + v.Error
		}
	case Report:
		return w.Write(&v)
	case string:
		text = v
	case fmt.Stringer:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}

	if w.written > 0 {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}
	w.written++
	if _, err := w.w.WriteString(strings.TrimRight(text, "\n") + "\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
