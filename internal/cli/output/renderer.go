// Package output provides mode-aware rendering for CLI commands.
//
// The renderer adapts to its environment: styled text on a terminal,
// markdown when piped, and machine-readable JSON on request.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. ModeAuto resolves against the terminal at
// first use.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode}
	r.styles = NewStyles(r.EffectiveMode() == ModeText)
	return r
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if termenv.NewOutput(r.out).EnvNoColor() || termenv.ColorProfile() == termenv.Ascii {
		return ModeMarkdown
	}
	return ModeText
}

// Styles returns the style set for the effective mode.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the underlying output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Println writes a line of output.
func (r *Renderer) Println(s string) {
	fmt.Fprintln(r.out, s)
}

// Success writes a styled success line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// Errorf writes a formatted line to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintf(r.errOut, format, args...)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
