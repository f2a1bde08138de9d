package server

import (
	"alertbot/internal/alert"
	"alertbot/internal/engine"
	"alertbot/internal/logger"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AlertHandler interface {
	HandleAlert(ctx context.Context, text string) error
}

type Server struct {
	addr    string
	handler AlertHandler
	router  *gin.Engine
	log     *logger.Logger
}

func New(addr string, handler AlertHandler, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:    addr,
		handler: handler,
		router:  router,
		log:     log,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/webhook", s.handleWebhook)

	return s
}

func (s *Server) handleWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 4096))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "reason": "body"})
		return
	}

	text := string(body)
	err = s.handler.HandleAlert(c.Request.Context(), text)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case isSkip(err):
		s.log.WithComponent("server").WithError(err).Warn("Алерт пропущен.")
		c.JSON(http.StatusOK, gin.H{"status": "skipped", "reason": err.Error()})
	case errors.Is(err, engine.ErrSubmission):
		s.log.WithComponent("server").WithError(err).Error("Отправка ордера не удалась.")
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "reason": err.Error()})
	default:
		s.log.WithComponent("server").WithError(err).Error("Ошибка обработки алерта.")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "reason": err.Error()})
	}
}

func isSkip(err error) bool {
	return errors.Is(err, alert.ErrParse) ||
		errors.Is(err, engine.ErrNotWatched) ||
		errors.Is(err, engine.ErrInsufficientFunds) ||
		errors.Is(err, engine.ErrShortingDisabled) ||
		errors.Is(err, engine.ErrStacking) ||
		errors.Is(err, engine.ErrNoPosition) ||
		errors.Is(err, engine.ErrAmbiguousIntent)
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.WithComponent("server").WithField("addr", s.addr).Info("HTTP сервер запущен.")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
