package reconcile

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/worklog-sync/pkg/approx"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/invoice"
	"github.com/shunichi-ikebuchi/worklog-sync/pkg/workfile"
)

// ItemDefaults provides the invoice fields the workfile does not carry.
type ItemDefaults struct {
	Unit string
	VAT  decimal.Decimal
}

// SectionView is the part of a workfile section the invoice merge reads. A
// plain section and a date-filtered view both qualify.
type SectionView interface {
	Title() string
	DatedEntries() []*workfile.DatedEntry
}

// MergeInvoice updates the invoice so that its items represent exactly the
// entries of the workfile section. Matching on item descriptions is
// approximate, so an invoice keeps its established wording even when the
// section title is spelled differently; fixed or shortfall items take their
// description from the existing matched item. When anything changed, the
// items are re-sorted and the invoice date is stamped to today.
func MergeInvoice(inv *invoice.Invoice, sec SectionView, defaults ItemDefaults) (*Report, error) {
	title := sec.Title()
	report := &Report{SectionTitle: title}

	newItems := NewMultiset(invoice.Item.Key)
	for _, e := range sec.DatedEntries() {
		newItems.Add(invoice.Item{
			Desc: title,
			Date: e.Date,
			Time: e.Hours,
			Unit: defaults.Unit,
			Rate: e.Rate,
			VAT:  defaults.VAT,
		})
	}
	current := Collect(invoice.Item.Key, inv.Items)

	added := newItems.Sub(current)
	removed := current.Sub(newItems)

	if added.IsEmpty() && removed.IsEmpty() {
		return report, nil
	}

	for _, i := range newItems.Inter(current).Elements() {
		report.event(EventExactMatch, i.String())
	}

	mergeItems(added, removed, current, report)

	final := current.Sub(removed)
	final.AddAll(added)
	report.Added += added.Len()
	report.Removed = removed.Len()

	items := final.Elements()
	sort.SliceStable(items, func(a, b int) bool { return items[a].Compare(items[b]) < 0 })
	inv.Items = items
	inv.Date = today()
	report.Changed = true

	return report, nil
}

// mergeItems runs the sum-match and partial-fix passes over the item
// multisets, editing current as fixes are decided.
func mergeItems(added, removed, current *Multiset[invoice.Item], report *Report) {
	// Sum-match: existing items covering exactly the new item's time,
	// allowing for an approximate description.
	for _, a := range added.Elements() {
		matches := itemMatches(a, removed)
		if len(matches) > 0 && sumTime(matches).Equal(a.Time) {
			for _, m := range matches {
				removed.Remove(m)
			}
			added.Remove(a)
			report.event(EventSumMatch, a.String(), renderItems(matches)...)
		}
	}

	// Partial-fix: a single match gets its time corrected, keeping the
	// existing description; several matches falling short are consumed
	// and a shortfall item carries the remaining time.
	for _, a := range added.Elements() {
		matches := itemMatches(a, removed)
		total := sumTime(matches)

		switch {
		case len(matches) == 1:
			m := matches[0]
			removed.Remove(m)
			added.Remove(a)
			current.Remove(m)
			fixed := invoice.Item{Desc: m.Desc, Date: m.Date, Time: a.Time, Unit: m.Unit, Rate: m.Rate, VAT: m.VAT}
			current.Add(fixed)
			report.Adjusted++
			report.event(EventPartialFix, a.String(), m.String())

		case len(matches) > 1 && total.LessThan(a.Time):
			for _, m := range matches {
				removed.Remove(m)
			}
			added.Remove(a)
			shortfall := invoice.Item{
				Desc: matches[0].Desc,
				Date: a.Date,
				Time: a.Time.Sub(total),
				Unit: a.Unit,
				Rate: a.Rate,
				VAT:  a.VAT,
			}
			current.Add(shortfall)
			report.Added++
			report.event(EventShortfall, shortfall.String(), renderItems(matches)...)

		case len(matches) > 1 && total.GreaterThan(a.Time):
			report.event(EventOvertime, a.String(), renderItems(matches)...)
		}
	}
}

// itemMatches returns the remaining removed items matching the reference on
// every field except time, with an approximate description. The score is
// normalized by the reference description's length.
func itemMatches(ref invoice.Item, removed *Multiset[invoice.Item]) []invoice.Item {
	var out []invoice.Item
	for _, m := range removed.Elements() {
		if !m.Date.Equal(ref.Date) || m.Unit != ref.Unit ||
			!m.Rate.Equal(ref.Rate) || !m.VAT.Equal(ref.VAT) {
			continue
		}
		if approx.Normalized(approx.Score(ref.Desc, m.Desc), ref.Desc) < approx.AcceptanceThreshold {
			out = append(out, m)
		}
	}
	return out
}

func sumTime(items []invoice.Item) decimal.Decimal {
	total := decimal.Zero
	for _, i := range items {
		total = total.Add(i.Time)
	}
	return total
}

func renderItems(items []invoice.Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.String())
	}
	return out
}

// today returns the current date at UTC midnight.
func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
