package api

import (
	"net/http"

	drepo "CapTrack/internal/domain/repository"
	xhttp "CapTrack/pkg/http"

	"github.com/labstack/echo/v4"
)

// Router wires all API handlers into one route registrar.
type Router struct {
	signals    *SignalsHandler
	cashflows  *CashflowsHandler
	revenue    *RevenueHandler
	projection *ProjectionHandler
	scheduler  *SchedulerHandler
	users      *UsersHandler
	health     drepo.UserRepository
}

func NewRouter(
	signals *SignalsHandler,
	cashflows *CashflowsHandler,
	revenue *RevenueHandler,
	projection *ProjectionHandler,
	scheduler *SchedulerHandler,
	users *UsersHandler,
	health drepo.UserRepository,
) *Router {
	return &Router{
		signals:    signals,
		cashflows:  cashflows,
		revenue:    revenue,
		projection: projection,
		scheduler:  scheduler,
		users:      users,
		health:     health,
	}
}

var _ xhttp.Handler = (*Router)(nil)

func (r *Router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.Health)

	g := e.Group("/api")
	r.signals.RegisterRoutes(g)
	r.cashflows.RegisterRoutes(g)
	r.revenue.RegisterRoutes(g)
	r.projection.RegisterRoutes(g)
	r.scheduler.RegisterRoutes(g)
	r.users.RegisterRoutes(g)
}

func (r *Router) Health(c echo.Context) error {
	if err := r.health.Health(c.Request().Context()); err != nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"database": err.Error()})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
