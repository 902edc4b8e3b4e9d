package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"bankreco/internal/core/apperror"
	"bankreco/internal/domain/form"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/infrastructure/http/v1/dto"
	"bankreco/internal/metadata"
)

// maxOptionFetches bounds the backend calls of one layout request.
const maxOptionFetches = 4

// MetadataHandler serves entity definitions and rendered form layouts.
type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
	backend  *backend.Client
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry, client *backend.Client) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
		backend:     client,
	}
}

func (h *MetadataHandler) definition(c *gin.Context) (metadata.EntityDefinition, bool) {
	name := c.Param("name")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("entity", name))
		return metadata.EntityDefinition{}, false
	}
	return def, true
}

// List handles GET /meta
func (h *MetadataHandler) List(c *gin.Context) {
	defs := h.registry.List()
	items := make([]dto.EntitySummary, 0, len(defs))
	for _, def := range defs {
		items = append(items, dto.FromEntity(def))
	}
	h.OK(c, gin.H{"items": items})
}

// Get handles GET /meta/:name
func (h *MetadataHandler) Get(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	h.OK(c, def)
}

// Columns handles GET /meta/:name/columns
func (h *MetadataHandler) Columns(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	h.OK(c, gin.H{"items": metadata.ListColumns(def, h.Lang(c))})
}

// Layout handles POST /meta/:name/layout
func (h *MetadataHandler) Layout(c *gin.Context) {
	def, ok := h.definition(c)
	if !ok {
		return
	}
	var req dto.LayoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lang := h.Lang(c)
	var lookups map[string][]form.Option
	if req.WithOptions {
		user := h.User(c)
		if user == nil {
			return
		}
		var err error
		lookups, err = h.lookupOptions(c.Request.Context(), userBackend(c, h.backend, user), def)
		if err != nil {
			h.Error(c, backend.ToAppError(err, lang))
			return
		}
	}

	layout, err := form.Render(form.ConfigFor(def), req.Data, form.Options{
		Editing:       form.Mode(req.Mode) == form.ModeEdit,
		Lang:          lang,
		LookupOptions: lookups,
	})
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	h.OK(c, layout)
}

// lookupOptions fetches the choices of every lookup field of def in
// parallel. Fields whose target entity is unknown get no options.
func (h *MetadataHandler) lookupOptions(ctx context.Context, client *backend.Client, def metadata.EntityDefinition) (map[string][]form.Option, error) {
	type target struct {
		field string
		uri   string
	}
	var targets []target
	for _, f := range def.Fields {
		if f.Type != metadata.TypeLookup {
			continue
		}
		ref, ok := h.registry.Get(f.LookupEntity)
		if !ok || ref.APIURI == "" {
			continue
		}
		targets = append(targets, target{field: f.Field, uri: ref.APIURI})
	}

	results := make([][]form.Option, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOptionFetches)
	for i, t := range targets {
		g.Go(func() error {
			records, err := client.Records(t.uri).List(ctx, nil)
			if err != nil {
				return fmt.Errorf("options of %s: %w", t.field, err)
			}
			opts := make([]form.Option, 0, len(records))
			for _, r := range records {
				opts = append(opts, form.Option{Value: r["id"], Label: recordLabel(r)})
			}
			results[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]form.Option, len(targets))
	for i, t := range targets {
		out[t.field] = results[i]
	}
	return out, nil
}

// recordLabel picks the display text of a backend record.
func recordLabel(r backend.Record) string {
	for _, key := range []string{"name", "username", "label", "code"} {
		if v, ok := r[key]; ok && v != nil && fmt.Sprint(v) != "" {
			return fmt.Sprint(v)
		}
	}
	return fmt.Sprint(r["id"])
}

// RegisterRoutes registers the /meta routes.
func (h *MetadataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:name", h.Get)
	rg.GET("/:name/columns", h.Columns)
	rg.POST("/:name/layout", h.Layout)
}
