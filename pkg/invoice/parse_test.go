package invoice

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleInvoice = `\documentclass{facture}
% facture janvier
\setinvoicedate{05/01/2024}
\setmoresmallprints{Paiement par virement bancaire.}
\begin{document}
\additem{Cours Python avec M2 - 03/01/2024}{2}{heures}{80}{0}
\additem{Cours Python avec M2 - 04/01/2024}{1.5}{heures}{80}{0}
\end{document}
`

func writeInvoice(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write invoice file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeInvoice(t, "12_facture.tex", sampleInvoice)

	inv, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if inv.Number != "12" {
		t.Errorf("Number = %q, expected 12", inv.Number)
	}
	if !inv.Date.Equal(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", inv.Date)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(inv.Items))
	}

	first := inv.Items[0]
	if first.Desc != "Cours Python avec M2" {
		t.Errorf("item desc = %q", first.Desc)
	}
	if !first.Date.Equal(time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("item date = %v", first.Date)
	}
	if first.Unit != "heures" {
		t.Errorf("item unit = %q", first.Unit)
	}

	if !strings.HasPrefix(inv.SmallPrints, DefaultSmallPrints) {
		t.Error("small prints should start with the class defaults")
	}
	if !strings.Contains(inv.SmallPrints, DefaultNoVATMessage) {
		t.Error("small prints should carry the no-VAT message")
	}
	if !strings.HasSuffix(inv.SmallPrints, "Paiement par virement bancaire.") {
		t.Error("small prints should end with the document's own text")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := writeInvoice(t, "12_facture.tex", sampleInvoice)

	inv, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := inv.String(); got != sampleInvoice {
		t.Errorf("round trip mismatch:\n%s\nexpected:\n%s", got, sampleInvoice)
	}
}

func TestLoadBadFilename(t *testing.T) {
	path := writeInvoice(t, "facture.tex", sampleInvoice)

	_, err := Load(path)
	if !errors.Is(err, ErrMalformedFilename) {
		t.Errorf("error = %v, expected ErrMalformedFilename", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected error
	}{
		{
			"missing invoice date",
			"\\documentclass{facture}\n\\begin{document}\n\\end{document}\n",
			ErrNoInvoiceDate,
		},
		{
			"vat number unsupported",
			"\\setvatno{FR123}\n\\setinvoicedate{05/01/2024}\n",
			ErrVATNumberUnsupported,
		},
		{
			"bad item text",
			"\\setinvoicedate{05/01/2024}\n\\additem{sans date}{2}{heures}{80}{0}\n",
			ErrItemFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInvoice(t, "7_facture.tex", tt.content)
			_, err := Load(path)
			if !errors.Is(err, tt.expected) {
				t.Errorf("error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestParseIgnoresCommentedMacros(t *testing.T) {
	content := "% \\setvatno{FR123}\n\\setinvoicedate{05/01/2024}\n"
	path := writeInvoice(t, "7_facture.tex", content)

	inv, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(inv.Items) != 0 {
		t.Errorf("expected no items, got %d", len(inv.Items))
	}
}
