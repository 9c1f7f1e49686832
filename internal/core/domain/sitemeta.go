package domain

// Site-wide defaults applied when the stored record lacks a field.
const (
	DefaultBrand      = "FlaskPress"
	DefaultTheme      = "default"
	DefaultStylesheet = "https://cdnjs.cloudflare.com/ajax/libs/bulma/0.8.0/css/bulma.min.css"
)

// SiteMeta is the resolved site configuration read on every request.
type SiteMeta struct {
	Brand         string `json:"brand"`
	Theme         string `json:"theme"`
	Stylesheet    string `json:"stylesheet"`
	NavBackground bool   `json:"navbackground"`
	About         string `json:"about,omitempty"`
}

// SiteMetaFields is the stored shape of SiteMeta, where nil means absent. It
// doubles as a partial update: only non-nil fields are written.
type SiteMetaFields struct {
	Brand         *string
	Theme         *string
	Stylesheet    *string
	NavBackground *bool
	About         *string
}

// IsEmpty reports whether no field is set.
func (f SiteMetaFields) IsEmpty() bool {
	return f.Brand == nil && f.Theme == nil && f.Stylesheet == nil &&
		f.NavBackground == nil && f.About == nil
}

// WithDefaults resolves stored fields into a SiteMeta, filling every absent
// field with its default.
func (f SiteMetaFields) WithDefaults() SiteMeta {
	meta := SiteMeta{
		Brand:      DefaultBrand,
		Theme:      DefaultTheme,
		Stylesheet: DefaultStylesheet,
	}
	if f.Brand != nil {
		meta.Brand = *f.Brand
	}
	if f.Theme != nil {
		meta.Theme = *f.Theme
	}
	if f.Stylesheet != nil {
		meta.Stylesheet = *f.Stylesheet
	}
	if f.NavBackground != nil {
		meta.NavBackground = *f.NavBackground
	}
	if f.About != nil {
		meta.About = *f.About
	}
	return meta
}
