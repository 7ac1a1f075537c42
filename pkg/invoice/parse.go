package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Template placeholders. NUL bytes never appear in LaTeX source, so the
// markers cannot collide with document text.
const (
	invdateMark     = "\x00INVDATE\x00"
	smallprintsMark = "\x00MORESMALLPRINTS\x00"
	itemsMark       = "\x00ITEMS\x00"
)

var (
	numberRe      = regexp.MustCompile(`^(\d+)_`)
	vatnoRe       = regexp.MustCompile(`\\setvatno\{([^}]*)\}`)
	smallprintsRe = regexp.MustCompile(`\\setmoresmallprints\{([^}]*)\}`)
	invdateRe     = regexp.MustCompile(`\\setinvoicedate\{([^}]*)\}`)
	additemRe     = regexp.MustCompile(`\\additem\{([^}]*)\}\{([^}]*)\}\{([^}]*)\}\{([^}]*)\}\{([^}]*)\}`)
	itemTextRe    = regexp.MustCompile(`^(.*) - (\d{2}/\d{2}/\d{4})$`)
)

// Load reads an invoice from a LaTeX file. The invoice number is taken from
// the leading digits of the file name.
func Load(filename string) (*Invoice, error) {
	base := filepath.Base(filename)
	m := numberRe.FindStringSubmatch(base)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedFilename, base)
	}
	number := m[1]

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice: %w", err)
	}

	inv, err := parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice %s: %w", filename, err)
	}
	inv.Number = number
	return inv, nil
}

// parse extracts the invoice data from the document text and builds the
// re-rendering template. Macros are searched in the comment-stripped text so
// that commented-out lines are ignored.
func parse(raw string) (*Invoice, error) {
	data := stripComments(raw)
	template := raw
	smallprints := DefaultSmallPrints

	if vatnoRe.MatchString(data) {
		return nil, ErrVATNumberUnsupported
	}
	smallprints += "\n" + DefaultNoVATMessage

	if m := smallprintsRe.FindStringSubmatch(data); m != nil {
		smallprints += "\n" + m[1]
		template = smallprintsRe.ReplaceAllString(template, smallprintsMark)
	}

	m := invdateRe.FindStringSubmatch(data)
	if m == nil {
		return nil, ErrNoInvoiceDate
	}
	invdate, err := time.Parse("02/01/2006", m[1])
	if err != nil {
		return nil, fmt.Errorf("invalid invoice date %q: %w", m[1], err)
	}
	template = invdateRe.ReplaceAllString(template, invdateMark)

	var items []Item
	for _, m := range additemRe.FindAllStringSubmatch(data, -1) {
		item, err := parseItem(m)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	// Collapse the whole \additem block of the template, first macro to
	// last, into a single placeholder.
	spans := additemRe.FindAllStringIndex(template, -1)
	if len(spans) > 0 {
		start := spans[0][0]
		end := spans[len(spans)-1][1]
		template = template[:start] + itemsMark + template[end:]
	}

	return &Invoice{
		Date:        invdate,
		Items:       items,
		SmallPrints: smallprints,
		Template:    template,
	}, nil
}

func parseItem(m []string) (Item, error) {
	text, timeStr, unit, rateStr, vatStr := m[1], m[2], m[3], m[4], m[5]

	tm := itemTextRe.FindStringSubmatch(text)
	if tm == nil {
		return Item{}, fmt.Errorf("%w: %q", ErrItemFormat, text)
	}
	date, err := time.Parse("02/01/2006", tm[2])
	if err != nil {
		return Item{}, fmt.Errorf("%w: %q: %v", ErrItemFormat, text, err)
	}

	duration, err := decimal.NewFromString(timeStr)
	if err != nil {
		return Item{}, fmt.Errorf("invalid item time %q: %w", timeStr, err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return Item{}, fmt.Errorf("invalid item rate %q: %w", rateStr, err)
	}
	vat, err := decimal.NewFromString(vatStr)
	if err != nil {
		return Item{}, fmt.Errorf("invalid item vat %q: %w", vatStr, err)
	}

	return Item{Desc: tm[1], Date: date, Time: duration, Unit: unit, Rate: rate, VAT: vat}, nil
}

// stripComments removes LaTeX comments, keeping everything before the first
// '%' of each line.
func stripComments(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.Index(line, "%"); i >= 0 {
			line = line[:i]
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
