package httpserver

import (
	"context"
	"net/http"
	"eudiwallet/internal/accountserver/apiv1"
	"eudiwallet/pkg/httphelpers"
	"eudiwallet/pkg/logger"
	"eudiwallet/pkg/model"
	"eudiwallet/pkg/trace"

	"github.com/gin-gonic/gin"
)

// Service is the service object for httpserver
type Service struct {
	tracer      *trace.Tracer
	cfg         *model.Cfg
	log         *logger.Log
	server      *http.Server
	apiv1       Apiv1
	gin         *gin.Engine
	httpHelpers *httphelpers.Client
}

// New creates a new httpserver service
func New(ctx context.Context, cfg *model.Cfg, apiv1 *apiv1.Client, tracer *trace.Tracer, log *logger.Log) (*Service, error) {
	s := &Service{
		tracer: tracer,
		cfg:    cfg,
		log:    log.New("httpserver"),
		apiv1:  apiv1,
		gin:    gin.New(),
		server: &http.Server{},
	}

	var err error
	s.httpHelpers, err = httphelpers.New(ctx, s.tracer, s.cfg, s.log)
	if err != nil {
		return nil, err
	}

	rgRoot, err := s.httpHelpers.Server.Default(ctx, s.server, s.gin, s.cfg.AccountServer.APIServer.Addr)
	if err != nil {
		return nil, err
	}

	s.httpHelpers.Server.RegEndpoint(ctx, rgRoot, http.MethodGet, "health", http.StatusOK, s.endpointHealth)

	rgAccounts := rgRoot.Group("api/v1/accounts")
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "", http.StatusCreated, s.endpointRegister)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/instructions/:name/challenge", http.StatusOK, s.endpointIssueChallenge)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/instructions/check_pin", http.StatusOK, s.endpointCheckPin)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/instructions/generate_key", http.StatusOK, s.endpointGenerateKey)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/instructions/sign", http.StatusOK, s.endpointSign)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/pin/start", http.StatusOK, s.endpointPinChangeStart)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/pin/commit", http.StatusOK, s.endpointPinChangeCommit)
	s.httpHelpers.Server.RegEndpoint(ctx, rgAccounts, http.MethodPost, "/:wallet_id/pin/rollback", http.StatusOK, s.endpointPinChangeRollback)

	// Run http server
	go func() {
		err := s.httpHelpers.Server.ListenAndServe(ctx, s.server, s.cfg.AccountServer.APIServer)
		if err != nil {
			s.log.Trace("listen_error", "error", err)
		}
	}()

	s.log.Info("Started")

	return s, nil
}

// Close closing httpserver
func (s *Service) Close(ctx context.Context) error {
	s.log.Info("Stopped")
	return nil
}
