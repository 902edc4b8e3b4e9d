package handlers

import (
	"github.com/gin-gonic/gin"

	"bankreco/internal/core/apperror"
	appctx "bankreco/internal/core/context"
	"bankreco/internal/domain/lookup"
	"bankreco/internal/infrastructure/backend"
	"bankreco/internal/infrastructure/http/v1/dto"
	"bankreco/internal/metadata"
)

// LookupHandler searches the records offered by an EntityLookup picker.
type LookupHandler struct {
	*BaseHandler
	registry *metadata.Registry
	backend  *backend.Client
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(base *BaseHandler, registry *metadata.Registry, client *backend.Client) *LookupHandler {
	return &LookupHandler{
		BaseHandler: base,
		registry:    registry,
		backend:     client,
	}
}

// Search handles GET /lookup/:entity?q=
// The full list is fetched from the backend and filtered here with the
// same matching rule as the picker.
func (h *LookupHandler) Search(c *gin.Context) {
	user := h.User(c)
	if user == nil {
		return
	}

	name := c.Param("entity")
	def, ok := h.registry.Get(name)
	if !ok || def.APIURI == "" {
		h.Error(c, apperror.NewNotFound("entity", name))
		return
	}

	records, err := userBackend(c, h.backend, user).Records(def.APIURI).List(c.Request.Context(), nil)
	if err != nil {
		h.Error(c, backend.ToAppError(err, h.Lang(c)))
		return
	}

	query := c.Query("q")
	items := lookup.Match(records, query)
	if items == nil {
		items = []lookup.Record{}
	}
	h.OK(c, dto.LookupResponse{
		Entity: def.Name,
		Query:  query,
		Total:  len(records),
		Items:  items,
	})
}

// Token headers. A caller sending its refresh token in HeaderRefreshToken
// lets a rejected access token be renewed once; the renewed pair comes
// back in HeaderAccessToken and HeaderRefreshToken.
const (
	HeaderAccessToken  = "X-Access-Token"
	HeaderRefreshToken = "X-Refresh-Token"
)

// userBackend binds the backend client to the caller's tokens.
func userBackend(c *gin.Context, client *backend.Client, user *appctx.UserContext) *backend.Client {
	session := backend.NewSession(backend.Tokens{
		Access:  user.AccessToken,
		Refresh: c.GetHeader(HeaderRefreshToken),
	})
	session.OnRefresh(func(tokens backend.Tokens) {
		c.Header(HeaderAccessToken, tokens.Access)
		c.Header(HeaderRefreshToken, tokens.Refresh)
	})
	return client.WithSession(session)
}

// RegisterRoutes registers the /lookup routes.
func (h *LookupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entity", h.Search)
}
