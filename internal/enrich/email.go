package enrich

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ExtractEmail returns the first contact-worthy email on the page, skipping
// placeholders and role accounts. Empty string means none found.
func ExtractEmail(p *Page) (string, error) {
	if p == nil || p.Doc == nil {
		return "", eris.New("email: no page")
	}
	for _, email := range emailRe.FindAllString(p.Text, -1) {
		if usableEmail(email) {
			return email, nil
		}
	}
	return "", nil
}

func usableEmail(email string) bool {
	lower := strings.ToLower(email)
	switch {
	case strings.Contains(lower, "example.com"),
		strings.Contains(lower, "yourdomain"),
		strings.HasPrefix(lower, "noreply"),
		strings.HasPrefix(lower, "no-reply"),
		strings.HasPrefix(lower, "privacy@"),
		strings.HasPrefix(lower, "abuse@"):
		return false
	}
	return true
}
