package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"dirmirror/internal/mirror"
	"dirmirror/internal/model"
	"dirmirror/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo     *echo.Echo
	manager  *JobManager
	jobRepo  *repository.JobRepository
	histRepo *repository.HistoryRepository
	port     int
	ctx      context.Context
	stopCh   chan struct{}
	log      *zap.Logger
}

// NewServer builds the control API. Jobs added through it run under ctx.
func NewServer(ctx context.Context, manager *JobManager, port int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		manager:  manager,
		jobRepo:  repository.NewJobRepository(),
		histRepo: repository.NewHistoryRepository(),
		port:     port,
		ctx:      ctx,
		stopCh:   make(chan struct{}, 1),
		log:      log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/stop", s.handleStop)

	g := s.echo.Group("/jobs")
	g.GET("", s.handleListJobs)
	g.POST("", s.handleAddJob)
	g.DELETE("/:id", s.handleRemoveJob)

	s.echo.GET("/history", s.handleHistory)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() {
	go func() {
		addr := "localhost:" + strconv.Itoa(s.port)
		s.log.Info("daemon server started",
			zap.String("addr", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("daemon server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.manager.StopAll()
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

func apiError(c echo.Context, code int, err error) error {
	return c.JSON(code, map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"jobs": s.manager.Snapshots(),
	})
}

func (s *Server) handleStop(c echo.Context) error {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleListJobs(c echo.Context) error {
	jobs, err := s.jobRepo.GetAll()
	if err != nil {
		return apiError(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"jobs":    jobs,
		"running": s.manager.Snapshots(),
	})
}

type addJobRequest struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	Delete bool   `json:"delete"`
	Depth  string `json:"depth"`
}

func (s *Server) handleAddJob(c echo.Context) error {
	var req addJobRequest
	if err := c.Bind(&req); err != nil || req.Src == "" || req.Dst == "" {
		return apiError(c, http.StatusBadRequest, errors.New("src and dst required"))
	}

	depth, err := mirror.ParseDepth(req.Depth)
	if err != nil {
		return apiError(c, http.StatusBadRequest, err)
	}

	job, err := s.jobRepo.Add(req.Src, req.Dst, req.Delete, depth)
	if err != nil {
		return apiError(c, http.StatusInternalServerError, err)
	}

	if err := s.manager.StartJob(s.ctx, job); err != nil {
		return apiError(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusCreated, job)
}

func (s *Server) handleRemoveJob(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusBadRequest, fmt.Errorf("invalid id %q", c.Param("id")))
	}

	_ = s.manager.StopJob(uint(id))

	if err := s.jobRepo.Delete(uint(id)); err != nil {
		return apiError(c, http.StatusInternalServerError, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleHistory(c echo.Context) error {
	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if parsed, err := strconv.Atoi(nStr); err == nil && parsed > 0 {
			n = parsed
		}
	}

	var (
		histories []model.History
		err       error
	)
	if c.QueryParam("failed") == "true" {
		histories, err = s.histRepo.GetFailed(n)
	} else {
		histories, err = s.histRepo.GetRecent(n)
	}
	if err != nil {
		return apiError(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, histories)
}
