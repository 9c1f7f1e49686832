package domain

import "time"

// TimestampLayout is the string format of Page.CreatedAt and Page.ModifiedAt.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Page templates a theme may offer.
const (
	TemplateOneColumn        = "one_column"
	TemplateSidebarLeft      = "sidebar_left"
	TemplateSidebarRight     = "sidebar_right"
	TemplateFrontPage        = "front_page"
	TemplateSidebarLeftRight = "sidebar_left_right"
)

// PageTemplates lists the template names in display order.
var PageTemplates = []string{
	TemplateOneColumn,
	TemplateSidebarLeft,
	TemplateSidebarRight,
	TemplateFrontPage,
	TemplateSidebarLeftRight,
}

// Page is a content record addressed by its slug. Owner holds a username and
// is a lookup key only; deleting the user reassigns the page.
type Page struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Snippet      string `json:"snippet"`
	Owner        string `json:"owner"`
	IsPublished  bool   `json:"is_published"`
	ShowTitle    bool   `json:"show_title"`
	ShowNav      bool   `json:"show_nav"`
	IsSidebar    bool   `json:"is_sidebar"`
	IsMarkdown   bool   `json:"is_markdown"`
	Template     string `json:"template,omitempty"`
	SidebarLeft  string `json:"sidebar_left,omitempty"`
	SidebarRight string `json:"sidebar_right,omitempty"`
	Footer       string `json:"footer,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	ModifiedAt   string `json:"modified_at,omitempty"`
}

// DeletedPage is a page held in the retention store after a soft delete.
type DeletedPage struct {
	Page
	DeletedAt time.Time `json:"deleted_at"`
	DeletedBy string    `json:"deleted_by"`
}

// Slugs of the pages seeded on an empty site.
const (
	HomeSlug  = "home"
	AboutSlug = "about"

	// DefaultOwner owns the seeded pages when no admin is configured.
	DefaultOwner = "admin"
)

// DefaultPages returns the boilerplate home and about pages owned by owner.
func DefaultPages(owner string) []Page {
	return []Page{
		{
			Slug:        HomeSlug,
			Title:       "Home",
			Content:     "<b>Welcome, please change me.</b>  I am the <i>default</i> Home page!",
			Owner:       owner,
			ShowNav:     true,
			IsPublished: true,
		},
		{
			Slug:        AboutSlug,
			Title:       "About",
			Content:     "<b>Welcome</b>, please change me.  I am the <i>default</i> boilerplate About page.",
			Owner:       owner,
			ShowNav:     true,
			IsPublished: true,
		},
	}
}
