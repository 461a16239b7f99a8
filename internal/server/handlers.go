package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"github.com/vanshika/vizdash/internal/chart"
	"github.com/vanshika/vizdash/internal/domain"
)

// maxLoadWait bounds how long a view request with wait=true blocks.
const maxLoadWait = 30 * time.Second

// Zoom actions.
const (
	ZoomScale = "scale"
	ZoomPan   = "pan"
	ZoomReset = "reset"
)

// Hover targets of the election page.
const (
	HoverParties = "parties"
	HoverFeature = "feature"
)

type createRequest struct {
	Kind Kind `json:"kind" validate:"required,oneof=aid election"`
}

type brushRequest struct {
	Chart string            `json:"chart" validate:"required,oneof=timeline series"`
	Span  *domain.PixelSpan `json:"span"`
}

type selectRequest struct {
	Key string `json:"key"`
}

type hoverRequest struct {
	Target  string   `json:"target" validate:"omitempty,oneof=parties feature"`
	Entity  string   `json:"entity"`
	Parties []string `json:"parties"`
	Feature string   `json:"feature"`
}

type zoomRequest struct {
	Action string      `json:"action" validate:"required,oneof=scale pan reset"`
	Factor float64     `json:"factor" validate:"gte=0"`
	Center chart.Point `json:"center"`
	DX     float64     `json:"dx"`
	DY     float64     `json:"dy"`
}

type zoomResponse struct {
	Transform chart.Transform `json:"transform"`
}

// APIHandlers exposes the page sessions over HTTP.
type APIHandlers struct {
	sessions *Sessions
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(sessions *Sessions) *APIHandlers {
	return &APIHandlers{sessions: sessions}
}

func (h *APIHandlers) session(c echo.Context) (*Session, error) {
	return h.sessions.Get(c.Param("id"))
}

func (h *APIHandlers) createPage(c echo.Context) error {
	var req createRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	sess, err := h.sessions.Create(req.Kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess.State())
}

func (h *APIHandlers) getPage(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.State())
}

func (h *APIHandlers) deletePage(c echo.Context) error {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandlers) reloadPage(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	sess.Reload(context.WithoutCancel(c.Request().Context()))
	return c.JSON(http.StatusAccepted, sess.State())
}

// getView returns the page view model. With wait=true it first blocks until
// the initial load settled.
func (h *APIHandlers) getView(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if c.QueryParam("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), maxLoadWait)
		defer cancel()
		if err := sess.Wait(ctx); err != nil {
			return coded(http.StatusGatewayTimeout, errors.Wrap(err, "wait for load"))
		}
	}
	return c.JSON(http.StatusOK, sess.View())
}

func (h *APIHandlers) putLayout(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if sess.Aid != nil {
		layout := sess.Aid.Layout()
		if err := bindValid(c, &layout); err != nil {
			return err
		}
		sess.Aid.Resize(layout)
		return c.JSON(http.StatusOK, layout)
	}
	layout := sess.Election.Layout()
	if err := bindValid(c, &layout); err != nil {
		return err
	}
	sess.Election.Resize(layout)
	return c.JSON(http.StatusOK, layout)
}

func (h *APIHandlers) postBrush(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if sess.Aid == nil {
		return errors.Wrap(ErrWrongKind, "brush")
	}
	var req brushRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := sess.Aid.Brush(req.Chart, req.Span); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.Aid.Store().Filter())
}

func (h *APIHandlers) postSelect(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if sess.Aid != nil {
		sess.Aid.Select(req.Key)
	} else {
		sess.Election.Select(req.Key)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandlers) postHover(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	var req hoverRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if sess.Aid != nil {
		sess.Aid.Hover(req.Entity)
		return c.NoContent(http.StatusNoContent)
	}
	switch req.Target {
	case HoverParties:
		sess.Election.HoverParties(req.Parties)
	case HoverFeature:
		sess.Election.HoverFeature(req.Feature)
	default:
		return coded(http.StatusBadRequest, errors.New("hover target is required on the election page"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *APIHandlers) postZoom(c echo.Context) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if sess.Election == nil {
		return errors.Wrap(ErrWrongKind, "zoom")
	}
	var req zoomRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	var t chart.Transform
	switch req.Action {
	case ZoomScale:
		if req.Factor <= 0 {
			return coded(http.StatusBadRequest, errors.New("zoom factor must be positive"))
		}
		t = sess.Election.Zoom(req.Factor, req.Center)
	case ZoomPan:
		t = sess.Election.Pan(req.DX, req.DY)
	case ZoomReset:
		t = sess.Election.ResetZoom()
	}
	return c.JSON(http.StatusOK, zoomResponse{Transform: t})
}
