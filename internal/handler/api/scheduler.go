package api

import (
	"net/http"
	"time"

	"CapTrack/internal/service/ratelimit"
	"CapTrack/internal/usecase"
	xhttp "CapTrack/pkg/http"
	xlogger "CapTrack/pkg/logger"
	"CapTrack/pkg/queue"

	"github.com/labstack/echo/v4"
)

// SchedulerHandler triggers scheduler passes. The pass runs off the
// queue, so the response only acknowledges the trigger.
type SchedulerHandler struct {
	logger *xlogger.Logger
	queue  queue.QueueService
	rl     *ratelimit.Limiter
}

func NewSchedulerHandler(logger *xlogger.Logger, q queue.QueueService) *SchedulerHandler {
	return &SchedulerHandler{logger: logger, queue: q, rl: ratelimit.New()}
}

func (h *SchedulerHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/scheduler/run", h.Run)
}

func (h *SchedulerHandler) Run(c echo.Context) error {
	if !h.rl.Allow(c.RealIP()+":scheduler", 2, 0.2) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	payload := usecase.SchedulerRunPayload{
		TriggeredAt: time.Now(),
		Source:      "http",
	}
	if err := h.queue.PublishMessage(c.Request().Context(), "scheduler.run", payload); err != nil {
		h.logger.Error("enqueue scheduler pass error", xlogger.Error(err))
		return errorResponse(c, err)
	}

	h.logger.Info("scheduler pass triggered", xlogger.String("remote", c.RealIP()))
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{"status": "queued"})
}
