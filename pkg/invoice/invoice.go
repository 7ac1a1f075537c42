// Package invoice provides the invoice model and its LaTeX file format.
//
// An invoice file is a LaTeX document built around three macros:
// \setinvoicedate{DD/MM/YYYY}, optional \setmoresmallprints{...} and one
// \additem{desc - DD/MM/YYYY}{time}{unit}{rate}{vat} per line item. The rest
// of the document is kept verbatim as a template so that an updated invoice
// re-renders byte-identical outside the extracted macros.
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parse error taxonomy.
var (
	// ErrMalformedFilename is returned when the file name does not start
	// with an invoice number.
	ErrMalformedFilename = errors.New("invoice: filename does not start with an invoice number")

	// ErrNoInvoiceDate is returned when the document lacks \setinvoicedate.
	ErrNoInvoiceDate = errors.New("invoice: no invoice date")

	// ErrItemFormat is returned when an \additem description lacks the
	// "desc - DD/MM/YYYY" form.
	ErrItemFormat = errors.New("invoice: invalid item format")

	// ErrVATNumberUnsupported is returned when the document carries a
	// \setvatno macro.
	ErrVATNumberUnsupported = errors.New("invoice: VAT numbers are not supported")
)

// DefaultSmallPrints is the legal boilerplate hardcoded in the LaTeX class.
const DefaultSmallPrints = "Pas d'escompte pour règlement anticipé.\n" +
	"En cas de retard de paiement, application de pénalités au taux Refi " +
	"appliqué par la BCE majoré de 10 points et indemnité forfaitaire " +
	"pour frais de recouvrement de 40 euros.\n" +
	"Dispensé d’immatriculation au registre du commerce et des sociétés " +
	"(RCS) et au répertoire des métiers (RM)."

// DefaultNoVATMessage is appended when the invoice carries no VAT number.
const DefaultNoVATMessage = "TVA non applicable, art. 293 B du CGI"

// Item is one invoice line.
//
// Desc is matched approximately by the reconciliation engine, never exactly;
// all other fields compare exactly.
type Item struct {
	Desc string
	Date time.Time
	Time decimal.Decimal
	Unit string
	Rate decimal.Decimal
	VAT  decimal.Decimal
}

// Key returns the identity of the item: all fields, decimals by value.
func (i Item) Key() string {
	return strings.Join([]string{
		i.Desc,
		i.Date.Format("2006-01-02"),
		canonDecimal(i.Time),
		i.Unit,
		canonDecimal(i.Rate),
		canonDecimal(i.VAT),
	}, "|")
}

// Compare orders items by (desc, date, time, unit, rate, vat).
func (i Item) Compare(other Item) int {
	if c := strings.Compare(i.Desc, other.Desc); c != 0 {
		return c
	}
	if c := i.Date.Compare(other.Date); c != 0 {
		return c
	}
	if c := i.Time.Cmp(other.Time); c != 0 {
		return c
	}
	if c := strings.Compare(i.Unit, other.Unit); c != 0 {
		return c
	}
	if c := i.Rate.Cmp(other.Rate); c != 0 {
		return c
	}
	return i.VAT.Cmp(other.VAT)
}

func (i Item) String() string {
	return fmt.Sprintf("\\additem{%s - %s}{%s}{%s}{%s}{%s}",
		i.Desc, i.Date.Format("02/01/2006"), i.Time, i.Unit, i.Rate, i.VAT)
}

// Invoice is a list of items plus document metadata and the LaTeX template
// the items were extracted from.
type Invoice struct {
	Number      string
	Date        time.Time
	Items       []Item
	SmallPrints string
	Template    string
}

// String renders the invoice back to LaTeX using the stored template.
func (inv *Invoice) String() string {
	lines := make([]string, 0, len(inv.Items))
	for _, i := range inv.Items {
		lines = append(lines, i.String())
	}
	items := strings.Join(lines, "\n")

	invdate := fmt.Sprintf("\\setinvoicedate{%s}", inv.Date.Format("02/01/2006"))

	more := inv.SmallPrints
	if strings.HasPrefix(more, DefaultSmallPrints) {
		more = strings.TrimLeft(strings.TrimPrefix(more, DefaultSmallPrints), " \n")
	}
	if strings.HasPrefix(more, DefaultNoVATMessage) {
		more = strings.TrimLeft(strings.TrimPrefix(more, DefaultNoVATMessage), " \n")
	}
	more = fmt.Sprintf("\\setmoresmallprints{%s}", more)

	return strings.NewReplacer(
		invdateMark, invdate,
		smallprintsMark, more,
		itemsMark, items,
	).Replace(inv.Template)
}

func canonDecimal(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
