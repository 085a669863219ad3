package ocr

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PDFFallsBackToContentStreams(t *testing.T) {
	stub := &stubRunner{err: errors.New("exec: \"pdftotext\": executable file not found in $PATH")}
	e := NewExtractor(Config{}, nil).WithRunner(stub)

	res, err := e.Extract(context.Background(), "testdata/label.pdf")
	require.NoError(t, err)
	assert.Equal(t, MethodPDFContent, res.Method)
	assert.Equal(t, "Customer Address\nJane Doe\n", res.Text)
	assert.Equal(t, 1, res.Pages)
	assert.Len(t, stub.calls, 1)
	assert.NotEmpty(t, res.Warnings)
}

func TestContentStreamText(t *testing.T) {
	stream := `BT
/F1 12 Tf
72 720 Td
(Customer Address) Tj
0 -14 Td
(Jane Doe) Tj
T*
[(12 ) -250 (Lane)] TJ
(, Pune) Tj
(Order No. A1) '
ET
`
	got := contentStreamText([]byte(stream))
	assert.Equal(t, "Customer Address\nJane Doe\n12 Lane, Pune\nOrder No. A1", got)
}

func TestContentStreamText_HorizontalMoveAddsSpace(t *testing.T) {
	stream := "BT\n(Order No.) Tj\n40 0 Td\n(A1) Tj\nET\n"
	assert.Equal(t, "Order No. A1", contentStreamText([]byte(stream)))
}

func TestContentStreamText_NoText(t *testing.T) {
	assert.Equal(t, "", contentStreamText([]byte("q 1 0 0 1 0 0 cm Q\n")))
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`a\(b\)`, "a(b)"},
		{`tab\there`, "tab\there"},
		{`sp\040ace`, "sp ace"},
		{`back\\slash`, `back\slash`},
		{`trailing\`, `trailing\`},
		{`Caf\351`, "Café"},
		{`\200 10`, "€ 10"},
		{"Caf\u00e9", "Café"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodePDFString([]byte(tt.raw)), tt.raw)
	}
}

func TestPDFStringRegexAllowsEscapedParens(t *testing.T) {
	m := rePDFString.FindAllSubmatch([]byte(`(Price \(incl. tax\)) Tj`), -1)
	if assert.Len(t, m, 1) {
		assert.Equal(t, "Price (incl. tax)", decodePDFString(m[0][1]))
	}
}

func TestContentStreamText_OctalEscapesAreValidUTF8(t *testing.T) {
	got := contentStreamText([]byte("BT\n(Caf\\351 \\(Pune\\)) Tj\nET\n"))
	assert.Equal(t, "Café (Pune)", got)
	assert.True(t, utf8.ValidString(got))
}
