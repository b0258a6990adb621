package dream

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLen           = 100
	MinDreamLen          = 10
	MaxDreamLen          = 5000
	MinInterpretationLen = 10
	MaxInterpretationLen = 10000
	MaxInterpreterLen    = 100
	MaxTagLen            = 50
)

func runes(s string) int { return utf8.RuneCountInString(s) }

// Validate checks the stored-record constraints. Store implementations call
// it before every write.
func Validate(d *Dream) error {
	ve := &ValidationError{}

	if n := runes(d.Name); n == 0 {
		ve.add("Name is required")
	} else if n > MaxNameLen {
		ve.add("Name cannot exceed 100 characters")
	}
	if !d.Gender.Valid() {
		ve.add("Gender must be either male or female")
	}
	if !d.MaritalStatus.Valid() {
		ve.add("Marital status must be either single or married")
	}
	if n := runes(d.Dream); n < MinDreamLen {
		ve.add("Dream description must be at least 10 characters")
	} else if n > MaxDreamLen {
		ve.add("Dream description cannot exceed 5000 characters")
	}
	if d.Interpretation != nil && runes(*d.Interpretation) > MaxInterpretationLen {
		ve.add("Interpretation cannot exceed 10000 characters")
	}
	if d.InterpretedBy != nil && runes(*d.InterpretedBy) > MaxInterpreterLen {
		ve.add("Interpreter name cannot exceed 100 characters")
	}
	for _, t := range d.Tags {
		if runes(t) > MaxTagLen {
			ve.add("Tag cannot exceed 50 characters")
			break
		}
	}

	switch d.Status {
	case StatusPending:
		if d.Interpretation != nil {
			ve.add("Pending dream cannot carry an interpretation")
		}
	case StatusInterpreted:
		if d.Interpretation == nil || d.InterpretedAt == nil || d.InterpretedBy == nil {
			ve.add("Interpreted dream requires interpretation, interpretedAt and interpretedBy")
		}
	case StatusArchived:
	default:
		ve.add("Status must be pending, interpreted, or archived")
	}

	return ve.err()
}

// normalize trims the free-text fields the way they are persisted.
func normalize(d *Dream) {
	d.Name = strings.TrimSpace(d.Name)
	d.Dream = strings.TrimSpace(d.Dream)
	if d.Interpretation != nil {
		v := strings.TrimSpace(*d.Interpretation)
		d.Interpretation = &v
	}
	if d.InterpretedBy != nil {
		v := strings.TrimSpace(*d.InterpretedBy)
		d.InterpretedBy = &v
	}
	d.Tags = NormalizeTags(d.Tags)
	if d.Status == "" {
		d.Status = StatusPending
	}
	if strings.TrimSpace(d.IPAddress) == "" {
		d.IPAddress = UnknownIP
	}
}
