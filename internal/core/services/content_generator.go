package services

import (
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sharepoint-mcp/internal/core/domain"
	"github.com/custodia-labs/sharepoint-mcp/internal/core/ports/driving"
)

// Ensure ContentGenerator implements the interface.
var _ driving.ContentGenerator = (*ContentGenerator)(nil)

// ContentGenerator builds list schemas and page layouts from fixed templates.
type ContentGenerator struct {
	settings domain.GenerationSettings
}

// NewContentGenerator creates a generator with the given defaults.
func NewContentGenerator(settings domain.GenerationSettings) *ContentGenerator {
	if settings.DefaultAudience == "" {
		settings.DefaultAudience = domain.DefaultAudience
	}
	if settings.DefaultPurpose == "" {
		settings.DefaultPurpose = domain.DefaultPurpose
	}
	return &ContentGenerator{settings: settings}
}

// ResolvePurpose parses purpose, applying the configured default when empty.
func (g *ContentGenerator) ResolvePurpose(purpose string) domain.Purpose {
	if strings.TrimSpace(purpose) == "" {
		purpose = g.settings.DefaultPurpose
	}
	return domain.ParsePurpose(purpose)
}

// ResolveAudience applies the configured default audience when empty.
func (g *ContentGenerator) ResolveAudience(audience string) string {
	audience = strings.ToLower(strings.TrimSpace(audience))
	if audience == "" {
		return g.settings.DefaultAudience
	}
	return audience
}

// Shared choice sets.
var (
	priorityChoices = []string{"Low", "Medium", "High", "Critical"}
	statusChoices   = []string{"Not Started", "In Progress", "On Hold", "Completed", "Cancelled"}
	reviewChoices   = []string{"Draft", "In Review", "Approved", "Archived"}
)

func textColumn(name, display string) domain.ColumnDefinition {
	return domain.ColumnDefinition{Name: name, DisplayName: display, Kind: domain.ColumnText}
}

func typedColumn(name, display string, kind domain.ColumnKind) domain.ColumnDefinition {
	return domain.ColumnDefinition{Name: name, DisplayName: display, Kind: kind}
}

func choiceColumn(name, display string, choices ...string) domain.ColumnDefinition {
	return domain.ColumnDefinition{Name: name, DisplayName: display, Kind: domain.ColumnChoice, Choices: choices}
}

func required(c domain.ColumnDefinition) domain.ColumnDefinition {
	c.Required = true
	return c
}

// ListColumns returns the columns of an intelligent list for purpose.
func (g *ContentGenerator) ListColumns(purpose domain.Purpose) []domain.ColumnDefinition {
	switch purpose {
	case domain.PurposeProjects:
		return []domain.ColumnDefinition{
			required(choiceColumn("ProjectStatus", "Project Status", statusChoices...)),
			choiceColumn("Priority", "Priority", priorityChoices...),
			typedColumn("StartDate", "Start Date", domain.ColumnDate),
			typedColumn("DueDate", "Due Date", domain.ColumnDate),
			typedColumn("ProjectManager", "Project Manager", domain.ColumnPerson),
			typedColumn("Budget", "Budget", domain.ColumnCurrency),
			typedColumn("PercentComplete", "Percent Complete", domain.ColumnNumber),
			typedColumn("ProjectDescription", "Description", domain.ColumnMultilineText),
		}
	case domain.PurposeEvents:
		return []domain.ColumnDefinition{
			required(typedColumn("EventDate", "Event Date", domain.ColumnDateTime)),
			typedColumn("EndDate", "End Date", domain.ColumnDateTime),
			textColumn("Location", "Location"),
			choiceColumn("EventType", "Event Type", "Meeting", "Workshop", "Conference", "Webinar", "Social"),
			typedColumn("Organizer", "Organizer", domain.ColumnPerson),
			typedColumn("Capacity", "Capacity", domain.ColumnNumber),
			typedColumn("RegistrationLink", "Registration Link", domain.ColumnHyperlink),
		}
	case domain.PurposeTasks:
		return []domain.ColumnDefinition{
			required(choiceColumn("TaskStatus", "Status", statusChoices...)),
			choiceColumn("Priority", "Priority", priorityChoices...),
			typedColumn("DueDate", "Due Date", domain.ColumnDate),
			typedColumn("AssignedTo", "Assigned To", domain.ColumnPerson),
			typedColumn("PercentComplete", "Percent Complete", domain.ColumnNumber),
			typedColumn("TaskNotes", "Notes", domain.ColumnMultilineText),
		}
	case domain.PurposeContacts:
		return []domain.ColumnDefinition{
			textColumn("Company", "Company"),
			textColumn("JobTitle", "Job Title"),
			required(textColumn("Email", "Email")),
			textColumn("Phone", "Phone"),
			choiceColumn("ContactType", "Contact Type", "Client", "Vendor", "Partner", "Internal"),
			typedColumn("LinkedIn", "LinkedIn", domain.ColumnHyperlink),
			typedColumn("ContactNotes", "Notes", domain.ColumnMultilineText),
		}
	case domain.PurposeDocuments:
		return []domain.ColumnDefinition{
			choiceColumn("DocumentType", "Document Type", "Policy", "Procedure", "Report", "Template", "Form"),
			choiceColumn("ReviewStatus", "Review Status", reviewChoices...),
			typedColumn("Owner", "Owner", domain.ColumnPerson),
			typedColumn("ReviewDate", "Review Date", domain.ColumnDate),
			textColumn("DocumentVersion", "Version"),
		}
	default:
		return []domain.ColumnDefinition{
			choiceColumn("Category", "Category", "General", "Important", "Reference"),
			choiceColumn("ItemStatus", "Status", "Active", "Inactive"),
			typedColumn("ItemNotes", "Notes", domain.ColumnMultilineText),
		}
	}
}

// Document library types understood by LibraryColumns.
const (
	LibraryGeneral   = "general"
	LibraryContracts = "contracts"
	LibraryPolicies  = "policies"
	LibraryProjects  = "projects"
	LibraryReports   = "reports"
	LibraryMarketing = "marketing"
)

// LibraryColumns returns the metadata columns of a document library.
// Unknown doc types get the general columns.
func (g *ContentGenerator) LibraryColumns(docType string) []domain.ColumnDefinition {
	common := []domain.ColumnDefinition{
		choiceColumn("DocumentStatus", "Document Status", reviewChoices...),
		typedColumn("DocumentOwner", "Document Owner", domain.ColumnPerson),
	}

	switch strings.ToLower(strings.TrimSpace(docType)) {
	case LibraryContracts:
		return append(common,
			textColumn("ContractNumber", "Contract Number"),
			required(textColumn("Counterparty", "Counterparty")),
			typedColumn("EffectiveDate", "Effective Date", domain.ColumnDate),
			typedColumn("ExpirationDate", "Expiration Date", domain.ColumnDate),
			typedColumn("ContractValue", "Contract Value", domain.ColumnCurrency),
			typedColumn("AutoRenew", "Auto Renew", domain.ColumnBoolean),
		)
	case LibraryPolicies:
		return append(common,
			textColumn("PolicyNumber", "Policy Number"),
			choiceColumn("Department", "Department", "HR", "Finance", "IT", "Legal", "Operations"),
			typedColumn("EffectiveDate", "Effective Date", domain.ColumnDate),
			typedColumn("NextReviewDate", "Next Review Date", domain.ColumnDate),
			typedColumn("AcknowledgementRequired", "Acknowledgement Required", domain.ColumnBoolean),
		)
	case LibraryProjects:
		return append(common,
			required(textColumn("ProjectName", "Project Name")),
			choiceColumn("ProjectPhase", "Project Phase", "Initiation", "Planning", "Execution", "Monitoring", "Closure"),
			typedColumn("Deliverable", "Deliverable", domain.ColumnBoolean),
			typedColumn("DueDate", "Due Date", domain.ColumnDate),
		)
	case LibraryReports:
		return append(common,
			choiceColumn("ReportType", "Report Type", "Weekly", "Monthly", "Quarterly", "Annual", "Ad Hoc"),
			typedColumn("ReportingPeriod", "Reporting Period", domain.ColumnDate),
			choiceColumn("Confidentiality", "Confidentiality", "Public", "Internal", "Confidential"),
		)
	case LibraryMarketing:
		return append(common,
			textColumn("Campaign", "Campaign"),
			choiceColumn("AssetType", "Asset Type", "Brochure", "Presentation", "Image", "Video", "Social Post"),
			choiceColumn("Channel", "Channel", "Web", "Email", "Social", "Print", "Event"),
			typedColumn("PublishDate", "Publish Date", domain.ColumnDate),
		)
	default:
		return append(common,
			choiceColumn("Category", "Category", "General", "Reference", "Template", "Archive"),
			textColumn("Keywords", "Keywords"),
		)
	}
}

// purposeTitles prefix generated page titles.
var purposeTitles = map[domain.Purpose]string{
	domain.PurposeProjects:  "Project Overview",
	domain.PurposeEvents:    "Upcoming Events",
	domain.PurposeTasks:     "Task Board",
	domain.PurposeContacts:  "Contact Directory",
	domain.PurposeDocuments: "Document Center",
}

// PageTitle returns a title for a page that was created without one.
func (g *ContentGenerator) PageTitle(purpose domain.Purpose, name string) string {
	readable := humanise(name)
	prefix, ok := purposeTitles[purpose]
	switch {
	case !ok && readable == "":
		return "Welcome"
	case !ok:
		return readable
	case readable == "":
		return prefix
	default:
		return prefix + ": " + readable
	}
}

// humanise turns a page file name such as "team-news_2024.aspx" into "Team News 2024".
func humanise(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".aspx")
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// audienceIntros open the hero section for each audience.
var audienceIntros = map[string]string{
	"executives": "A concise summary of status, decisions and outcomes for leadership.",
	"team":       "Everything the team needs to stay aligned and get work done.",
	"employees":  "News, resources and updates for everyone in the organisation.",
	"customers":  "Information and resources for our customers and partners.",
	"general":    "Welcome. Find the latest information and resources below.",
}

// purposeBodies hold the main and side column HTML for each purpose.
var purposeBodies = map[domain.Purpose][2]string{
	domain.PurposeProjects: {
		"<h2>Project Status</h2><p>Summarise the current phase, progress and next milestones.</p>" +
			"<h3>Key Milestones</h3><ul><li>Kick-off</li><li>Design review</li><li>Delivery</li></ul>",
		"<h3>Project Team</h3><p>List the project manager, sponsors and core contributors.</p>",
	},
	domain.PurposeEvents: {
		"<h2>Upcoming Events</h2><p>Dates, locations and agendas for what is coming up.</p>",
		"<h3>Registration</h3><p>Link to registration forms and contact the organisers with questions.</p>",
	},
	domain.PurposeTasks: {
		"<h2>Current Priorities</h2><p>Track open work, owners and due dates.</p>",
		"<h3>How We Work</h3><p>Describe how tasks are requested, triaged and closed.</p>",
	},
	domain.PurposeContacts: {
		"<h2>Directory</h2><p>Key contacts grouped by team and responsibility.</p>",
		"<h3>Need Help?</h3><p>Reach out to the right person using the directory.</p>",
	},
	domain.PurposeDocuments: {
		"<h2>Document Library</h2><p>Browse policies, procedures, templates and reports.</p>",
		"<h3>Recently Updated</h3><p>Highlight documents that changed recently.</p>",
	},
	domain.PurposeGeneral: {
		"<h2>Overview</h2><p>Add the main content for this page here.</p>",
		"<h3>Quick Links</h3><p>Add links to frequently used resources.</p>",
	},
}

// PageLayout returns the sections of a new page. With rich layout disabled
// the page is a single one-column section holding the heading and intro.
func (g *ContentGenerator) PageLayout(purpose domain.Purpose, audience, title string) domain.PageLayout {
	audience = g.ResolveAudience(audience)
	intro, ok := audienceIntros[audience]
	if !ok {
		intro = audienceIntros["general"]
	}

	hero := fmt.Sprintf("<h1>%s</h1><p>%s</p>", html.EscapeString(title), intro)

	if !g.settings.EnableRichLayout {
		return domain.PageLayout{Sections: []domain.PageSection{
			{Layout: domain.SectionOneColumn, Emphasis: domain.EmphasisNone, Columns: []string{hero}},
		}}
	}

	body, ok := purposeBodies[purpose]
	if !ok {
		body = purposeBodies[domain.PurposeGeneral]
	}

	return domain.PageLayout{Sections: []domain.PageSection{
		{Layout: domain.SectionOneColumn, Emphasis: domain.EmphasisStrong, Columns: []string{hero}},
		{Layout: domain.SectionOneThirdRight, Emphasis: domain.EmphasisNone, Columns: []string{body[0], body[1]}},
		{
			Layout:   domain.SectionOneColumn,
			Emphasis: domain.EmphasisSoft,
			Columns:  []string{"<p>Questions or feedback? Contact the site owners.</p>"},
		},
	}}
}

// NewsLayout wraps rendered news content in a single section.
func (g *ContentGenerator) NewsLayout(title, description, bodyHTML string) domain.PageLayout {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(title))
	if description != "" {
		fmt.Fprintf(&b, "<p><em>%s</em></p>", html.EscapeString(description))
	}
	b.WriteString(bodyHTML)

	return domain.PageLayout{Sections: []domain.PageSection{
		{Layout: domain.SectionOneColumn, Emphasis: domain.EmphasisNone, Columns: []string{b.String()}},
	}}
}
