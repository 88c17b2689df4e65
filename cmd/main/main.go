package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"xhsops/internal/app/controller"
	"xhsops/internal/app/delivery"
	"xhsops/internal/app/store"
	"xhsops/internal/app/stream"
	"xhsops/internal/app/transport"
	"xhsops/internal/config"
	"xhsops/internal/middleware"
	"xhsops/internal/utils/logger"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("error initializing config: %v\n", err)
		os.Exit(1)
	}

	err = logger.Init(cfg.LogMode)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("configuration loaded successfully")
	logger.Debug("debug mode enabled",
		zap.String("log_mode", cfg.LogMode),
		zap.String("backend_url", cfg.BackendURL),
		zap.Int("max_tasks", cfg.MaxActiveTasks),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	backend := transport.CreateClient(cfg.BackendURL, nil)
	subscriber := stream.CreateSubscriber(cfg.BackendURL, nil)

	taskStore := store.CreateTaskStore(cfg.MaxActiveTasks)
	taskController := controller.CreateTaskController(taskStore, backend, subscriber, cfg.PollInterval)
	defer taskController.Close()

	watcher := stream.CreateBrowserWatcher()
	watcher.Start(subscriber)
	defer watcher.Stop()

	recoverCtx, recoverCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := taskController.Recover(recoverCtx); err != nil {
		logger.Warn("task recovery failed", zap.Error(err))
	}
	recoverCancel()

	taskDelivery := delivery.CreateTaskDelivery(taskController, watcher)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	taskRouter := apiRouter.PathPrefix("/tasks").Subrouter()
	taskRouter.HandleFunc("", taskDelivery.CreateTask).Methods("POST")
	taskRouter.HandleFunc("", taskDelivery.GetAllTasks).Methods("GET")
	taskRouter.HandleFunc("/{id}", taskDelivery.GetTask).Methods("GET")
	taskRouter.HandleFunc("/{id}", taskDelivery.DeleteTask).Methods("DELETE")
	taskRouter.HandleFunc("/{id}/logs", taskDelivery.GetTaskLogs).Methods("GET")
	taskRouter.HandleFunc("/{id}/cancel", taskDelivery.CancelTask).Methods("POST")

	resultRouter := apiRouter.PathPrefix("/results").Subrouter()
	resultRouter.HandleFunc("", taskDelivery.GetResults).Methods("GET")
	resultRouter.HandleFunc("", taskDelivery.DeleteResults).Methods("DELETE")
	resultRouter.HandleFunc("/{filename}", taskDelivery.GetResult).Methods("GET")
	resultRouter.HandleFunc("/{filename}", taskDelivery.DeleteResult).Methods("DELETE")

	apiRouter.HandleFunc("/browsers", taskDelivery.GetBrowsers).Methods("GET")
	apiRouter.HandleFunc("/stats", taskDelivery.GetStats).Methods("GET")

	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.PanicMiddleware)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("starting HTTP server",
			zap.String("address", server.Addr),
			zap.String("backend_url", cfg.BackendURL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("failed to start server", zap.Error(err))
		os.Exit(1)
	case sig := <-quit:
		logger.Info("server is shutting down",
			zap.String("signal", sig.String()),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
			os.Exit(1)
		}

		logger.Info("server stopped")
	}
}
