package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/api/metrics"
	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

type PageHandler struct {
	content ports.ContentService
	meta    ports.SiteMetaService
}

func NewPageHandler(content ports.ContentService, meta ports.SiteMetaService) *PageHandler {
	return &PageHandler{content: content, meta: meta}
}

// Home renders the home page.
//
// @Summary      Home page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  pageView
// @Failure      404  {object}  errorResponse
// @Router       / [get]
func (h *PageHandler) Home(c echo.Context) error {
	return h.render(c, domain.HomeSlug)
}

// View resolves the request path to a page.
//
// @Summary      Page by slug
// @Tags         pages
// @Produce      json
// @Param        slug  path      string  true  "Page slug, may contain slashes"
// @Success      200   {object}  pageView
// @Failure      404   {object}  errorResponse
// @Router       /{slug} [get]
func (h *PageHandler) View(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if slug == "" {
		slug = domain.HomeSlug
	}
	return h.render(c, slug)
}

func (h *PageHandler) render(c echo.Context, slug string) error {
	ctx := c.Request().Context()
	page, err := h.content.View(ctx, sessionOf(c), slug)
	if err != nil {
		return err
	}
	meta, err := h.meta.Load(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageView{Page: page, Meta: meta})
}

// Search finds pages whose content contains the term.
//
// @Summary      Search pages
// @Tags         pages
// @Produce      json
// @Param        s    query     string  false  "Search term"
// @Success      200  {object}  searchResponse
// @Router       /search [get]
func (h *PageHandler) Search(c echo.Context) error {
	term := c.QueryParam("s")
	pages, err := h.content.Search(c.Request().Context(), sessionOf(c), term)
	if err != nil {
		return err
	}
	metrics.SearchResults.Observe(float64(len(pages)))
	return c.JSON(http.StatusOK, searchResponse{Term: term, Results: toSearchResults(pages)})
}

// Create stores a new page owned by the caller.
//
// @Summary      Create a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      pageRequest  true  "Page fields"
// @Success      201   {object}  domain.Page
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /page [post]
func (h *PageHandler) Create(c echo.Context) error {
	var req pageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.content.Save(c.Request().Context(), sessionOf(c), req.toInput(""))
	if err != nil {
		return err
	}
	metrics.PagesSavedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, page)
}

// Get loads a page for editing.
//
// @Summary      Load a page for editing
// @Tags         pages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page ID"
// @Success      200  {object}  domain.Page
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /page/{id} [get]
func (h *PageHandler) Get(c echo.Context) error {
	page, err := h.content.GetForEdit(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Update replaces the editable fields of a page.
//
// @Summary      Update a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Page ID"
// @Param        body  body      pageRequest  true  "Page fields"
// @Success      200   {object}  domain.Page
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /page/{id} [put]
func (h *PageHandler) Update(c echo.Context) error {
	var req pageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	page, err := h.content.Save(c.Request().Context(), sessionOf(c), req.toInput(c.Param("id")))
	if err != nil {
		return err
	}
	metrics.PagesSavedTotal.WithLabelValues("updated").Inc()
	return c.JSON(http.StatusOK, page)
}

// Delete moves a page into the retention store.
//
// @Summary      Delete a page
// @Tags         pages
// @Security     BearerAuth
// @Param        id  path  string  true  "Page ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /page/{id} [delete]
func (h *PageHandler) Delete(c echo.Context) error {
	if err := h.content.SoftDelete(c.Request().Context(), sessionOf(c), c.Param("id")); err != nil {
		return err
	}
	metrics.PagesDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// List returns every active page.
//
// @Summary      List pages
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Page
// @Router       /admin/pages [get]
func (h *PageHandler) List(c echo.Context) error {
	pages, err := h.content.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pages)
}

// ListDeleted returns the retention store.
//
// @Summary      List deleted pages
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.DeletedPage
// @Router       /admin/deleted [get]
func (h *PageHandler) ListDeleted(c echo.Context) error {
	pages, err := h.content.ListDeleted(c.Request().Context(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pages)
}
