package apiv1

import (
	"context"
	"eudiwallet/internal/registry/db"
	"eudiwallet/pkg/logger"
	"eudiwallet/pkg/model"
)

// TokenStatusListIssuer defines the interface for the status list issuer service
type TokenStatusListIssuer interface {
	GetCachedJWT(section int64) string
	GetCachedCWT(section int64) []byte
	GetAllSections(ctx context.Context) ([]int64, error)
}

// CredentialSubjectsStore defines the interface for credential subjects database operations
type CredentialSubjectsStore interface {
	Search(ctx context.Context, firstName, lastName, dateOfBirth string) ([]*db.CredentialSubjectDoc, error)
	Add(ctx context.Context, doc *db.CredentialSubjectDoc) error
}

// Client holds the public api object
type Client struct {
	cfg                   *model.Cfg
	log                   *logger.Log
	tokenStatusListIssuer TokenStatusListIssuer
	credentialSubjects    CredentialSubjectsStore
}

//	@title		Registry API
//	@version	0.1.0
//	@BasePath	/api/v1

// New creates a new instance of the public api
func New(ctx context.Context, cfg *model.Cfg, tokenStatusListIssuer TokenStatusListIssuer, dbService *db.Service, log *logger.Log) (*Client, error) {
	c := &Client{
		cfg:                   cfg,
		log:                   log.New("apiv1"),
		tokenStatusListIssuer: tokenStatusListIssuer,
	}

	if dbService != nil {
		c.credentialSubjects = dbService.CredentialSubjects
	}

	c.log.Info("Started")

	return c, nil
}
