package submission

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rastreio/rastreio/internal/domain/record"
	"github.com/rastreio/rastreio/internal/platform/textgen"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/subjects/:id/submissions", h.ProcessSubmission)
	api.GET("/subjects/:id/record", h.GetRecord)
	api.GET("/subjects/:id/risk", h.GetRisk)
	api.GET("/subjects/:id/progress", h.GetProgress)
	api.GET("/subjects/:id/recommendations", h.GetRecommendations)
	api.POST("/subjects/:id/narrative/refresh", h.RefreshNarrative)
}

func subjectID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid subject id")
	}
	return id, nil
}

func (h *Handler) ProcessSubmission(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	var p Payload
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Process(c.Request().Context(), id, p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.Record(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) GetRisk(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Risk(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetProgress(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Progress(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetRecommendations(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	recs, err := h.svc.Recommendations(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) RefreshNarrative(c echo.Context) error {
	id, err := subjectID(c)
	if err != nil {
		return err
	}
	r, err := h.svc.RefreshNarrative(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, record.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		case errors.Is(err, textgen.ErrDisabled):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "text generation disabled")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, r)
}
