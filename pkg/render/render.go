// Package render provides output renderers for rustdiag's patterns.
package render

import "github.com/gentoo90/rust-analyzer/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
