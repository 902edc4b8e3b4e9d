package handlers

import (
	"github.com/gin-gonic/gin"

	"bankreco/internal/core/apperror"
	"bankreco/internal/core/i18n"
	"bankreco/internal/domain/columns"
	"bankreco/internal/infrastructure/http/v1/dto"
	"bankreco/internal/metadata"
)

// ColumnsHandler exposes the column visibility registry of the current
// user.
type ColumnsHandler struct {
	*BaseHandler
	service  *columns.Service
	entities *metadata.Registry
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(base *BaseHandler, service *columns.Service, entities *metadata.Registry) *ColumnsHandler {
	return &ColumnsHandler{
		BaseHandler: base,
		service:     service,
		entities:    entities,
	}
}

func (h *ColumnsHandler) registry(c *gin.Context) *columns.Registry {
	user := h.User(c)
	if user == nil {
		return nil
	}
	reg, err := h.service.For(c.Request.Context(), user.UserID)
	if err != nil {
		h.Error(c, apperror.NewStorage(err))
		return nil
	}
	return reg
}

// List handles GET /ui/tables?pathname=
func (h *ColumnsHandler) List(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}
	h.OK(c, dto.TableListResponse{Items: reg.GetAllTables(q.Pathname)})
}

// Register handles POST /ui/tables
func (h *ColumnsHandler) Register(c *gin.Context) {
	var req dto.RegisterTableRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lang := h.Lang(c)
	defs := req.Columns
	if req.Entity != "" {
		def, ok := h.entities.Get(req.Entity)
		if !ok {
			h.Error(c, apperror.NewNotFound("entity", req.Entity))
			return
		}
		if len(defs) == 0 {
			defs = metadata.ListColumns(def, lang)
		}
	}
	if len(defs) == 0 {
		h.Error(c, apperror.NewValidation("columns or entity is required"))
		return
	}

	name := req.TableName
	if name == "" {
		name = i18n.Translate(lang, "table."+req.TableID)
	}

	reg := h.registry(c)
	if reg == nil {
		return
	}
	reg.RegisterTable(req.TableID, name, defs, req.OrderOrDefault(), req.Pathname)

	info, _ := reg.GetTableInfo(req.TableID, req.Pathname)
	h.Created(c, info)
}

// Get handles GET /ui/tables/:tableId?pathname=
func (h *ColumnsHandler) Get(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}
	tableID := c.Param("tableId")
	info, ok := reg.GetTableInfo(tableID, q.Pathname)
	if !ok {
		h.Error(c, apperror.NewNotFound("table", columns.Key(tableID, q.Pathname)))
		return
	}
	h.OK(c, info)
}

// Unregister handles DELETE /ui/tables/:tableId?pathname=
func (h *ColumnsHandler) Unregister(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}
	reg.UnregisterTable(c.Param("tableId"), q.Pathname)
	h.NoContent(c)
}

// UnregisterRoute handles DELETE /ui/routes?pathname=
func (h *ColumnsHandler) UnregisterRoute(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	if q.Pathname == "" {
		h.Error(c, apperror.NewValidation("pathname is required"))
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}
	reg.UnregisterTablesByPathname(q.Pathname)
	h.NoContent(c)
}

// SetVisibility handles PATCH /ui/tables/:tableId/columns/:columnId?pathname=
// Unknown tables and columns are ignored.
func (h *ColumnsHandler) SetVisibility(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	var req dto.UpdateVisibilityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}

	tableID, columnID := c.Param("tableId"), c.Param("columnId")
	reg.UpdateColumnVisibility(tableID, columnID, *req.Visible, q.Pathname)
	h.OK(c, dto.VisibilityResponse{
		TableID:  tableID,
		ColumnID: columnID,
		Visible:  reg.IsColumnVisible(tableID, columnID, q.Pathname),
	})
}

// Visibility handles GET /ui/tables/:tableId/columns/:columnId?pathname=
func (h *ColumnsHandler) Visibility(c *gin.Context) {
	var q dto.PathnameQuery
	if !h.BindQuery(c, &q) {
		return
	}
	reg := h.registry(c)
	if reg == nil {
		return
	}
	tableID, columnID := c.Param("tableId"), c.Param("columnId")
	h.OK(c, dto.VisibilityResponse{
		TableID:  tableID,
		ColumnID: columnID,
		Visible:  reg.IsColumnVisible(tableID, columnID, q.Pathname),
	})
}

// Reset handles DELETE /ui/tables: every registration of the user is
// dropped, along with the stored snapshot.
func (h *ColumnsHandler) Reset(c *gin.Context) {
	user := h.User(c)
	if user == nil {
		return
	}
	if err := h.service.Reset(c.Request.Context(), user.UserID); err != nil {
		h.Error(c, apperror.NewStorage(err))
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers the /ui routes.
func (h *ColumnsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tables := rg.Group("/tables")
	tables.GET("", h.List)
	tables.POST("", h.Register)
	tables.DELETE("", h.Reset)
	tables.GET("/:tableId", h.Get)
	tables.DELETE("/:tableId", h.Unregister)
	tables.GET("/:tableId/columns/:columnId", h.Visibility)
	tables.PATCH("/:tableId/columns/:columnId", h.SetVisibility)

	rg.DELETE("/routes", h.UnregisterRoute)
}
