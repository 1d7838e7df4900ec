package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"eudiwallet/internal/registry/apiv1"
	"eudiwallet/internal/registry/db"
	"eudiwallet/internal/registry/grpcserver"
	"eudiwallet/internal/registry/tokenstatuslistissuer"
	"eudiwallet/pkg/configuration"
	"eudiwallet/pkg/logger"
	"eudiwallet/pkg/trace"
)

type service interface {
	Close(ctx context.Context) error
}

func main() {
	var (
		wg                 = &sync.WaitGroup{}
		ctx                = context.Background()
		services           = make(map[string]service)
		serviceName string = "registry"
	)

	cfg, err := configuration.New(ctx)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(serviceName, cfg.Common.Log.FolderPath, cfg.Common.Production)
	if err != nil {
		panic(err)
	}

	// main function log
	mainLog := log.New("main")

	tracer, err := trace.New(ctx, cfg, serviceName, log)
	if err != nil {
		panic(err)
	}

	dbService, err := db.New(ctx, cfg, tracer, log)
	services["dbService"] = dbService
	if err != nil {
		panic(err)
	}

	tokenStatusListIssuer, err := tokenstatuslistissuer.New(ctx, cfg, dbService, log)
	services["tokenStatusListIssuer"] = tokenStatusListIssuer
	if err != nil {
		panic(err)
	}

	apiv1Client, err := apiv1.New(ctx, cfg, tokenStatusListIssuer, dbService, log)
	if err != nil {
		panic(err)
	}

	grpcService, err := grpcserver.New(ctx, tokenStatusListIssuer, apiv1Client, cfg, log)
	services["grpcService"] = grpcService
	if err != nil {
		panic(err)
	}

	// Handle sigterm and await termChan signal
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan // Blocks here until interrupted

	mainLog.Info("HALTING SIGNAL!")

	for serviceName, service := range services {
		if err := service.Close(ctx); err != nil {
			mainLog.Error(err, "serviceName", serviceName)
		}
	}

	if err := tracer.Shutdown(ctx); err != nil {
		mainLog.Error(err, "Tracer shutdown")
	}

	wg.Wait() // Block here until are workers are done

	mainLog.Info("Stopped")
}
