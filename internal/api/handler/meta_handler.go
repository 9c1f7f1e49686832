package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

type MetaHandler struct {
	meta ports.SiteMetaService
}

func NewMetaHandler(meta ports.SiteMetaService) *MetaHandler {
	return &MetaHandler{meta: meta}
}

// metaRequest is a partial update; omitted fields are left unchanged.
type metaRequest struct {
	Brand         *string `json:"brand"         validate:"omitempty,max=100"`
	Theme         *string `json:"theme"         validate:"omitempty,max=100"`
	Stylesheet    *string `json:"stylesheet"    validate:"omitempty,max=500"`
	NavBackground *bool   `json:"navbackground"`
	About         *string `json:"about"`
}

// Get returns the site settings with defaults applied.
//
// @Summary      Site settings
// @Tags         meta
// @Produce      json
// @Success      200  {object}  domain.SiteMeta
// @Router       /meta [get]
func (h *MetaHandler) Get(c echo.Context) error {
	meta, err := h.meta.Load(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meta)
}

// Update changes the supplied site settings.
//
// @Summary      Update site settings
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      metaRequest  true  "Fields to change"
// @Success      200   {object}  domain.SiteMeta
// @Failure      422   {object}  errorResponse
// @Router       /admin/meta [put]
func (h *MetaHandler) Update(c echo.Context) error {
	var req metaRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	meta, err := h.meta.Save(c.Request().Context(), sessionOf(c), domain.SiteMetaFields{
		Brand:         req.Brand,
		Theme:         req.Theme,
		Stylesheet:    req.Stylesheet,
		NavBackground: req.NavBackground,
		About:         req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meta)
}
