package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	judgesvc "gitlab.com/ojcore.net/internal/core/services/judge"
	"gitlab.com/ojcore.net/internal/handlers/judge"
)

type ServiceProvider struct {
	judgeService judgesvc.IJudgeService
	spjCompiler  *judgesvc.SPJCompiler
}

func NewServiceProvider(judgeService judgesvc.IJudgeService, spjCompiler *judgesvc.SPJCompiler) *ServiceProvider {
	return &ServiceProvider{
		judgeService: judgeService,
		spjCompiler:  spjCompiler,
	}
}

type Server struct {
	router          *mux.Router
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	judge.NewJudgeHandler(s.ServiceProvider.judgeService, s.ServiceProvider.spjCompiler, s.logger).RegisterRoutes(r)
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

}

func (s *Server) Stop() {
	s.logger.Info("Shutting down http server...")
}
