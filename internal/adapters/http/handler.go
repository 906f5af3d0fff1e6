package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minhthuy266/gemini-tarot/internal/app"
	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

type Handler struct {
	svc *app.TarotService
}

func NewHandler(svc *app.TarotService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	v1 := e.Group("/v1")
	v1.POST("/sessions", h.CreateSession)
	v1.GET("/sessions/:id", h.GetSession)
	v1.POST("/sessions/:id/start", h.Start)
	v1.POST("/sessions/:id/shuffle-complete", h.ShuffleComplete)
	v1.POST("/sessions/:id/select", h.Select)
	v1.POST("/sessions/:id/finalize", h.Finalize)
	v1.POST("/sessions/:id/back", h.Back)
	v1.POST("/sessions/:id/history", h.History)
	v1.POST("/sessions/:id/glossary", h.Glossary)
	v1.POST("/sessions/:id/daily-card", h.DailyCard)

	v1.GET("/spreads", h.Spreads)
	v1.GET("/cards", h.Cards)
	v1.GET("/cards/:name", h.CardDetails)

	v1.GET("/readings", h.Readings)
	v1.DELETE("/readings/:id", h.DeleteReading)
	v1.PUT("/readings/:id/notes", h.UpdateNotes)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateSession(c echo.Context) error {
	id, sess := h.svc.CreateSession()
	return c.JSON(http.StatusCreated, toSessionResponse(id, sess))
}

func (h *Handler) GetSession(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.Session(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Start(c echo.Context) error {
	var req StartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id := c.Param("id")
	sess, err := h.svc.StartReading(id, req.Spread, req.Theme, req.Question)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) ShuffleComplete(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.CompleteShuffle(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Select(c echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	id := c.Param("id")
	sess, err := h.svc.SelectCard(c.Request().Context(), id, *req.Index)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Finalize(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.FinalizeReading(c.Request().Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Back(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.GoBack(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) History(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.ShowHistory(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Glossary(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.ShowGlossary(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) DailyCard(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.svc.CardOfTheDay(c.Request().Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(id, sess))
}

func (h *Handler) Spreads(c echo.Context) error {
	spreads := h.svc.Spreads()
	out := make([]SpreadResponse, len(spreads))
	for i, s := range spreads {
		out[i] = toSpreadResponse(s)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Cards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Cards())
}

func (h *Handler) CardDetails(c echo.Context) error {
	details, err := h.svc.CardDetails(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, CardDetailsResponse{
		Name:            details.Name,
		UprightMeaning:  details.UprightMeaning,
		ReversedMeaning: details.ReversedMeaning,
		Description:     details.Description,
	})
}

func (h *Handler) Readings(c echo.Context) error {
	readings, err := h.svc.ListReadings(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	out := make([]ReadingResponse, len(readings))
	for i, r := range readings {
		out[i] = toReadingResponse(r)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteReading(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id must be an integer"})
	}
	if err := h.svc.DeleteReading(c.Request().Context(), id); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateNotes(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id must be an integer"})
	}
	var req NotesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.svc.UpdateNotes(c.Request().Context(), id, req.Notes); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSpreadNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrReadingNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCardIndex),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrIncompleteSelection):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInterpretInFlight),
		errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstreamLLM), errors.Is(err, domain.ErrInvalidLLMJSON):
		slog.Error("interpretation failure", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not retrieve interpretation"})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
