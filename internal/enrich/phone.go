package enrich

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var phoneRe = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// ExtractPhone returns the first phone-shaped token in the page text. Used
// only as a fallback when discovery did not supply a phone.
func ExtractPhone(p *Page) (string, error) {
	if p == nil || p.Doc == nil {
		return "", eris.New("phone: no page")
	}
	return strings.TrimSpace(phoneRe.FindString(p.Text)), nil
}
