package domain

import "strings"

// Purpose selects a content template.
type Purpose string

// Recognised purposes. Anything else resolves to PurposeGeneral.
const (
	PurposeProjects  Purpose = "projects"
	PurposeEvents    Purpose = "events"
	PurposeTasks     Purpose = "tasks"
	PurposeContacts  Purpose = "contacts"
	PurposeDocuments Purpose = "documents"
	PurposeGeneral   Purpose = "general"
)

// AllPurposes returns every recognised purpose.
func AllPurposes() []Purpose {
	return []Purpose{
		PurposeProjects, PurposeEvents, PurposeTasks,
		PurposeContacts, PurposeDocuments, PurposeGeneral,
	}
}

// ParsePurpose resolves a free-form purpose, falling back to PurposeGeneral.
func ParsePurpose(s string) Purpose {
	p := Purpose(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPurposes() {
		if p == known {
			return p
		}
	}
	return PurposeGeneral
}

// String returns the string representation.
func (p Purpose) String() string {
	return string(p)
}

// ColumnKind is the Graph column type of a ColumnDefinition.
type ColumnKind string

// Column kinds.
const (
	ColumnText          ColumnKind = "text"
	ColumnMultilineText ColumnKind = "multilineText"
	ColumnNumber        ColumnKind = "number"
	ColumnCurrency      ColumnKind = "currency"
	ColumnDateTime      ColumnKind = "dateTime"
	ColumnDate          ColumnKind = "date"
	ColumnChoice        ColumnKind = "choice"
	ColumnBoolean       ColumnKind = "boolean"
	ColumnPerson        ColumnKind = "personOrGroup"
	ColumnHyperlink     ColumnKind = "hyperlink"
)

// ColumnDefinition is a list or library column template.
type ColumnDefinition struct {
	Name        string
	DisplayName string
	Description string
	Kind        ColumnKind
	Required    bool

	// Choices is set for ColumnChoice.
	Choices []string
}

// Section layouts understood by Graph canvas layouts.
const (
	SectionOneColumn     = "oneColumn"
	SectionTwoColumns    = "twoColumns"
	SectionThreeColumns  = "threeColumns"
	SectionOneThirdLeft  = "oneThirdLeftColumn"
	SectionOneThirdRight = "oneThirdRightColumn"
)

// Section emphasis values.
const (
	EmphasisNone    = "none"
	EmphasisNeutral = "neutral"
	EmphasisSoft    = "soft"
	EmphasisStrong  = "strong"
)

// PageSection is one horizontal section of a page. Each column holds HTML
// rendered into a text web part.
type PageSection struct {
	Layout   string
	Emphasis string
	Columns  []string
}

// ColumnCount returns how many columns the section layout has.
func (s PageSection) ColumnCount() int {
	switch s.Layout {
	case SectionTwoColumns, SectionOneThirdLeft, SectionOneThirdRight:
		return 2
	case SectionThreeColumns:
		return 3
	default:
		return 1
	}
}

// PageLayout is the generated body of a page.
type PageLayout struct {
	Sections []PageSection
}
