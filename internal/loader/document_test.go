package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxtools/fxlint/internal/loader"
)

const appYAML = `Screen1:
  Gallery1:
    Items: =Filter(Orders, Status = "Open")
    Visible: true
  Label1:
    Text: "=Price * 2"
`

func TestParseDocument(t *testing.T) {
	doc, err := loader.ParseDocument("app.yaml", []byte(appYAML))
	require.NoError(t, err)
	require.Len(t, doc.Formulas, 2)

	items := doc.Formulas[0]
	assert.Equal(t, "app.yaml", items.Document)
	assert.Equal(t, "Screen1.Gallery1", items.Control)
	assert.Equal(t, "Items", items.Property)
	assert.Equal(t, `Filter(Orders, Status = "Open")`, items.Text)
	// The formula starts one column past the '=' marker.
	assert.Equal(t, 3, items.Base.Line)
	assert.Equal(t, 13, items.Base.Column)

	text := doc.Formulas[1]
	assert.Equal(t, "Screen1.Label1", text.Control)
	assert.Equal(t, "Text", text.Property)
	assert.Equal(t, "Price * 2", text.Text)
	// Quoted scalars shift one further for the opening quote.
	assert.Equal(t, 6, text.Base.Line)
	assert.Equal(t, 13, text.Base.Column)
}

func TestParseDocument_NonFormulaScalarsIgnored(t *testing.T) {
	doc, err := loader.ParseDocument("app.yaml", []byte("A:\n  Text: hello\n  Width: 40\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Formulas)
}

func TestParseDocument_BlockScalar(t *testing.T) {
	src := "Screen1:\n  OnVisible: |-\n    =Set(counter, 0);\n    Back()\n"
	doc, err := loader.ParseDocument("app.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Formulas, 1)

	f := doc.Formulas[0]
	assert.Equal(t, "Screen1", f.Control)
	assert.Equal(t, "OnVisible", f.Property)
	assert.Equal(t, "Set(counter, 0);\nBack()", f.Text)
	assert.Equal(t, 1, f.Base.Column)
}

func TestParseDocument_SequencesKeepTheKeyPath(t *testing.T) {
	src := "Screens:\n  - Name: Home\n    OnSelect: =Back()\n"
	doc, err := loader.ParseDocument("app.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Formulas, 1)
	assert.Equal(t, "Screens", doc.Formulas[0].Control)
	assert.Equal(t, "OnSelect", doc.Formulas[0].Property)
}

func TestParseDocument_TopLevelScalarIgnored(t *testing.T) {
	// A bare document scalar has no property to attach the formula to.
	doc, err := loader.ParseDocument("app.yaml", []byte("=1 + 1\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Formulas)
}

func TestParseDocument_MalformedYAML(t *testing.T) {
	_, err := loader.ParseDocument("bad.yaml", []byte("a: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "home.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appYAML), 0o644))

	doc, err := loader.LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Len(t, doc.Formulas, 2)

	_, err = loader.LoadDocument(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
