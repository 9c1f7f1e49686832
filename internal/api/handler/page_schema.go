package handler

import (
	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// Page requests are composed from named field groups, in this order.

type pageBodyFields struct {
	Title   string `json:"title"   validate:"max=200"`
	Slug    string `json:"slug"    validate:"max=200"`
	Content string `json:"content"`
}

type pageFlagFields struct {
	IsPublished bool `json:"is_published"`
	ShowTitle   bool `json:"show_title"`
	ShowNav     bool `json:"show_nav"`
	IsSidebar   bool `json:"is_sidebar"`
	IsMarkdown  bool `json:"is_markdown"`
}

type pageLayoutFields struct {
	Template     string `json:"template"      validate:"omitempty,oneof=one_column sidebar_left sidebar_right front_page sidebar_left_right"`
	SidebarLeft  string `json:"sidebar_left"`
	SidebarRight string `json:"sidebar_right"`
	Footer       string `json:"footer"`
}

type pageRequest struct {
	pageBodyFields
	pageFlagFields
	pageLayoutFields
}

func (r pageRequest) toInput(id string) ports.PageInput {
	return ports.PageInput{
		ID:           id,
		Slug:         r.Slug,
		Title:        r.Title,
		Content:      r.Content,
		IsPublished:  r.IsPublished,
		ShowTitle:    r.ShowTitle,
		ShowNav:      r.ShowNav,
		IsSidebar:    r.IsSidebar,
		IsMarkdown:   r.IsMarkdown,
		Template:     r.Template,
		SidebarLeft:  r.SidebarLeft,
		SidebarRight: r.SidebarRight,
		Footer:       r.Footer,
	}
}

type searchResult struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Term    string         `json:"term"`
	Results []searchResult `json:"results"`
}

func toSearchResults(pages []*domain.Page) []searchResult {
	out := make([]searchResult, 0, len(pages))
	for _, p := range pages {
		out = append(out, searchResult{Slug: p.Slug, Title: p.Title, Snippet: p.Snippet})
	}
	return out
}

// pageView is a page as shown to visitors together with the site settings.
type pageView struct {
	Page *domain.Page    `json:"page"`
	Meta domain.SiteMeta `json:"meta"`
}
