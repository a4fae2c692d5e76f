package httpserver

import (
	"bytes"
	"net/http"
	"strings"

	"opticshop/internal/domain"
	"opticshop/internal/exporter"
	catalogsvc "opticshop/internal/service/catalog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// listGlasses godoc
// @Summary  List glasses that are not deleted
// @Tags     glasses
// @Produce  json
// @Success  200 {array} glassesResponse
// @Router   /glasses [get]
func (h *handlers) listGlasses(c *gin.Context) {
	list, err := h.deps.Catalog.FindAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGlassesList(list, h.deps.Currency))
}

// searchGlasses godoc
// @Summary  Search glasses
// @Description Values of one parameter are alternatives; different parameters must all match. A parameter given once is split on commas, repeated parameters are taken verbatim.
// @Tags     glasses
// @Produce  json
// @Param    name         query string false "names"
// @Param    color        query string false "colors"
// @Param    model        query string false "models"
// @Param    manufacturer query string false "manufacturers"
// @Param    categoryId   query string false "category ids"
// @Param    priceFrom    query number false "lowest price, inclusive"
// @Param    priceTo      query number false "highest price, inclusive"
// @Success  200 {array} glassesResponse
// @Failure  400 {object} errorResponse
// @Router   /glasses/search [get]
func (h *handlers) searchGlasses(c *gin.Context) {
	params, err := parseSearchParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.deps.Catalog.SearchGlassesByParameters(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGlassesList(list, h.deps.Currency))
}

func parseSearchParams(c *gin.Context) (catalogsvc.SearchParams, error) {
	p := catalogsvc.SearchParams{
		Names:         queryList(c, "name"),
		Colors:        queryList(c, "color"),
		Models:        queryList(c, "model"),
		Manufacturers: queryList(c, "manufacturer"),
		CategoryIDs:   queryList(c, "categoryId"),
	}
	var err error
	if p.PriceFrom, err = queryDecimal(c, "priceFrom"); err != nil {
		return p, err
	}
	if p.PriceTo, err = queryDecimal(c, "priceTo"); err != nil {
		return p, err
	}
	return p, nil
}

// queryList reads the alternatives of one search parameter. A parameter given
// once is split on commas. Repeated parameters are taken verbatim, so values
// that contain a comma must be sent that way.
func queryList(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	if len(values) == 1 {
		values = strings.Split(values[0], ",")
	}
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.Invalid("%s must be a number", key)
	}
	return &d, nil
}

// exportGlasses godoc
// @Summary  Export the catalog as an Excel workbook
// @Tags     glasses
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success  200 {file} file
// @Router   /glasses/export [get]
func (h *handlers) exportGlasses(c *gin.Context) {
	list, err := h.deps.Catalog.FindAll(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := exporter.WriteXLSX(&buf, list); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="glasses.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// getGlasses godoc
// @Summary  Get glasses with their variations
// @Tags     glasses
// @Produce  json
// @Param    id path string true "glasses id"
// @Success  200 {object} glassesResponse
// @Failure  404 {object} errorResponse
// @Router   /glasses/{id} [get]
func (h *handlers) getGlasses(c *gin.Context) {
	g, err := h.deps.Catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGlasses(*g, h.deps.Currency))
}

// getGlassesByIdentifier godoc
// @Summary  Get glasses by their catalog identifier
// @Tags     glasses
// @Produce  json
// @Param    identifier path string true "catalog identifier"
// @Success  200 {object} glassesResponse
// @Failure  404 {object} errorResponse
// @Router   /glasses/identifier/{identifier} [get]
func (h *handlers) getGlassesByIdentifier(c *gin.Context) {
	g, err := h.deps.Catalog.FindByIdentifier(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGlasses(*g, h.deps.Currency))
}

// createGlasses godoc
// @Summary  Add glasses to the catalog
// @Tags     glasses
// @Accept   json
// @Produce  json
// @Param    body body catalogsvc.GlassesInput true "glasses"
// @Success  201 {object} glassesResponse
// @Failure  400 {object} errorResponse
// @Failure  409 {object} errorResponse
// @Router   /glasses [post]
func (h *handlers) createGlasses(c *gin.Context) {
	var in catalogsvc.GlassesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	g, err := h.deps.Catalog.Save(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGlasses(*g, h.deps.Currency))
}

// updateGlasses godoc
// @Summary  Update glasses
// @Description Overwrites only the fields present in the body.
// @Tags     glasses
// @Accept   json
// @Produce  json
// @Param    id   path string              true "glasses id"
// @Param    body body glassesPatchRequest true "fields to change"
// @Success  200 {object} glassesResponse
// @Failure  400 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Failure  409 {object} errorResponse
// @Router   /glasses/{id} [put]
func (h *handlers) updateGlasses(c *gin.Context) {
	var req glassesPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	g, err := h.deps.Catalog.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGlasses(*g, h.deps.Currency))
}

// deleteGlasses godoc
// @Summary  Remove glasses from the catalog
// @Tags     glasses
// @Param    id path string true "glasses id"
// @Success  204
// @Failure  404 {object} errorResponse
// @Router   /glasses/{id} [delete]
func (h *handlers) deleteGlasses(c *gin.Context) {
	if err := h.deps.Catalog.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listCategories godoc
// @Summary  List categories
// @Tags     categories
// @Produce  json
// @Success  200 {array} domain.Category
// @Router   /categories [get]
func (h *handlers) listCategories(c *gin.Context) {
	list, err := h.deps.Categories.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []domain.Category{}
	}
	c.JSON(http.StatusOK, list)
}

// createCategory godoc
// @Summary  Create a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Param    body body categoryRequest true "category"
// @Success  201 {object} domain.Category
// @Failure  400 {object} errorResponse
// @Failure  409 {object} errorResponse
// @Router   /categories [post]
func (h *handlers) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name required")
		return
	}
	cat, err := h.deps.Categories.Create(c.Request.Context(), domain.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}
