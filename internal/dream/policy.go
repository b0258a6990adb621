package dream

import "strings"

// ContentPolicy rejects submissions that are not genuine dream text. It
// returns a user-facing message, or "" when the text is acceptable.
type ContentPolicy interface {
	Check(text string) string
}

// Denylist rejects text containing any listed token as a lowercase
// substring.
type Denylist []string

func (d Denylist) Check(text string) string {
	lower := strings.ToLower(text)
	for _, w := range d {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return "Please provide a genuine dream description"
		}
	}
	return ""
}

// AllowAll accepts everything.
type AllowAll struct{}

func (AllowAll) Check(string) string { return "" }
