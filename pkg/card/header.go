package card

import (
	"strings"

	"github.com/matzehuels/blindcard/pkg/letter"
)

// Header resolves the header line of r. Both names present wins over the
// sender alone, which wins over the recipient alone. A sender equal to
// [letter.Anonymous] counts as absent.
func Header(r letter.Record, t Texts) string {
	fill := func(tmpl string) string {
		return strings.NewReplacer("{from}", r.From, "{to}", r.To).Replace(tmpl)
	}
	switch {
	case r.HasSender() && r.HasRecipient():
		return fill(t.HeaderBoth)
	case r.HasSender():
		return fill(t.HeaderFrom)
	case r.HasRecipient():
		return fill(t.HeaderTo)
	default:
		return t.HeaderDefault
	}
}
