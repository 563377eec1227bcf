package handler

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

// maxFormBytes caps back office request bodies.
const maxFormBytes = 1 << 20

// Collection is one CRUD collection of the booking API.
type Collection[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// CRUDHandler passes back office requests through to one collection. Bodies
// are validated with the model's struct tags before they are forwarded:
// fully on create, and only the fields present on update.
type CRUDHandler[T any] struct {
	Name     string // used in log lines, e.g. "vouchers"
	Store    Collection[T]
	Validate *utils.Validator
	Log      *zap.Logger
}

// List returns the collection. Query parameters are forwarded.
func (h *CRUDHandler[T]) List(c echo.Context) error {
	items, err := h.Store.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		return upstreamError(c, h.Log, h.Name+".List", err)
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one element.
func (h *CRUDHandler[T]) Get(c echo.Context) error {
	v, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return upstreamError(c, h.Log, h.Name+".Get", err)
	}
	return c.JSON(http.StatusOK, v)
}

// Create validates and forwards a new element.
func (h *CRUDHandler[T]) Create(c echo.Context) error {
	var v T
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Validate.Validate(v); err != nil {
		return validationError(c, err)
	}
	out, err := h.Store.Create(c.Request().Context(), v)
	if err != nil {
		return upstreamError(c, h.Log, h.Name+".Create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Update validates the fields present in the body and forwards them as a
// partial update.
func (h *CRUDHandler[T]) Update(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxFormBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var patch map[string]any
	if err := json.Unmarshal(raw, &patch); err != nil || len(patch) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body must be a non-empty JSON object"})
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	if err := h.Validate.ValidatePartial(v, keys); err != nil {
		return validationError(c, err)
	}
	out, err := h.Store.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return upstreamError(c, h.Log, h.Name+".Update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes an element.
func (h *CRUDHandler[T]) Delete(c echo.Context) error {
	if err := h.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return upstreamError(c, h.Log, h.Name+".Delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Register mounts the five routes on g under path.
func (h *CRUDHandler[T]) Register(g *echo.Group, path string) {
	g.GET(path, h.List)
	g.GET(path+"/:id", h.Get)
	g.POST(path, h.Create)
	g.PATCH(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}
