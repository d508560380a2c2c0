package document

import (
	"image"

	"github.com/example/retouch/internal/history"
)

// Option configures a Document.
type Option func(*Document)

// WithHistoryLimit sets the number of undo steps kept.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		d.hist = history.New(n)
	}
}

// WithListener registers l before the document is populated.
func WithListener(l Listener) Option {
	return func(d *Document) {
		if l != nil {
			d.listeners = append(d.listeners, l)
		}
	}
}

// WithImage loads img as the initial image.
func WithImage(img image.Image) Option {
	return func(d *Document) {
		d.initial = img
	}
}
