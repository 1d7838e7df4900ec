package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"eudiwallet/internal/accountserver/apiv1"
	"eudiwallet/internal/accountserver/httpserver"
	"eudiwallet/pkg/accountserver"
	"eudiwallet/pkg/configuration"
	"eudiwallet/pkg/logger"
	"eudiwallet/pkg/trace"
)

type service interface {
	Close(ctx context.Context) error
}

func main() {
	var wg sync.WaitGroup
	ctx := context.Background()

	services := make(map[string]service)

	cfg, err := configuration.New(ctx)
	if err != nil {
		panic(err)
	}

	log, err := logger.New("accountserver", cfg.Common.Log.FolderPath, cfg.Common.Production)
	if err != nil {
		panic(err)
	}
	tracer, err := trace.New(ctx, cfg, log, "accountserver", "accountserver")
	if err != nil {
		panic(err)
	}

	// MemoryWalletUserRepository/MemoryKeyStore stand in for the
	// persistent datastore and HSM a production deployment delegates
	// registration and key custody to; swapping either for a real
	// backend only requires satisfying accountserver.WalletUserRepository
	// / accountserver.KeyStore.
	repo := accountserver.NewMemoryWalletUserRepository()
	keyStore := accountserver.NewMemoryKeyStore()

	apiv1Client, err := apiv1.New(ctx, repo, keyStore, tracer, cfg, log.New("apiv1"))
	if err != nil {
		log.Error(err, "apiv1Client")
		panic(err)
	}
	httpService, err := httpserver.New(ctx, cfg, apiv1Client, tracer, log.New("httpserver"))
	services["httpService"] = httpService
	if err != nil {
		panic(err)
	}

	// Handle sigterm and await termChan signal
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)

	<-termChan // Blocks here until interrupted

	mainLog := log.New("main")
	mainLog.Info("HALTING SIGNAL!")

	for serviceName, service := range services {
		if err := service.Close(ctx); err != nil {
			mainLog.Trace("serviceName", serviceName, "error", err)
		}
	}

	if err := tracer.Shutdown(ctx); err != nil {
		mainLog.Error(err, "Tracer shutdown")
	}

	wg.Wait() // Block here until are workers are done

	mainLog.Info("Stopped")
}
