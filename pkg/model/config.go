package model

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"eudiwallet/pkg/pki"
	"eudiwallet/pkg/sdjwtvc"
)

// APIServer holds the api server configuration
type APIServer struct {
	Addr       string            `yaml:"addr" validate:"required"`
	PublicKeys map[string]string `yaml:"public_keys"`
	TLS        TLS               `yaml:"tls" validate:"omitempty"`
	BasicAuth  BasicAuth         `yaml:"basic_auth"`
}

// TLS holds the tls configuration
type TLS struct {
	Enabled      bool   `yaml:"enabled"`
	CertFilePath string `yaml:"cert_file_path" validate:"required"`
	KeyFilePath  string `yaml:"key_file_path" validate:"required"`
}

// Mongo holds the database configuration
type Mongo struct {
	URI string `yaml:"uri" validate:"required"`
}

// KeyValue holds the key/value configuration
type KeyValue struct {
	Addr     string `yaml:"addr" validate:"required"`
	DB       int    `yaml:"db" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	PDF      PDF    `yaml:"pdf" validate:"required"`
}

// Log holds the log configuration
type Log struct {
	Level      string `yaml:"level"`
	FolderPath string `yaml:"folder_path"`
}

// Common holds the common configuration
type Common struct {
	HTTPProxy  string   `yaml:"http_proxy"`
	Production bool     `yaml:"production"`
	Log        Log      `yaml:"log"`
	Mongo      Mongo    `yaml:"mongo" validate:"required"`
	Tracing    OTEL     `yaml:"tracing" validate:"required"`
	Queues     Queues   `yaml:"queues" validate:"omitempty"`
	KeyValue   KeyValue `yaml:"key_value" validate:"omitempty"`
	QR         QRCfg    `yaml:"qr" validate:"omitempty"`
}

// SMT Spares Merkel Tree configuration
type SMT struct {
	UpdatePeriodicity int    `yaml:"update_periodicity" validate:"required"`
	InitLeaf          string `yaml:"init_leaf" validate:"required"`
}

// GRPCServer holds the rpc configuration
type GRPCServer struct {
	Addr     string        `yaml:"addr" validate:"required"`
	Insecure bool          `yaml:"insecure"`
	TLS      GRPCTLS `yaml:"tls"`
}

// GRPCTLS configures optional (mutual) TLS for a gRPC server.
type GRPCTLS struct {
	Enabled      bool   `yaml:"enabled"`
	CertFilePath string `yaml:"cert_file_path"`
	KeyFilePath  string `yaml:"key_file_path"`
	// ClientCAPath enables mTLS when set, requiring client certificates.
	ClientCAPath string `yaml:"client_ca_path"`
	// AllowedClientFingerprints maps a SHA256 client certificate fingerprint
	// to a friendly name; empty disables fingerprint allowlisting.
	AllowedClientFingerprints map[string]string `yaml:"allowed_client_fingerprints"`
}

// PDF holds the pdf configuration (special Ladok case)
type PDF struct {
	KeepSignedDuration   int `yaml:"keep_signed_duration"`
	KeepUnsignedDuration int `yaml:"keep_unsigned_duration"`
}

// QRCfg holds the qr configuration
type QRCfg struct {
	BaseURL       string `yaml:"base_url" validate:"required"`
	RecoveryLevel int    `yaml:"recovery_level" validate:"required,min=0,max=3"`
	Size          int    `yaml:"size" validate:"required"`
}

// Queues have the queue configuration
type Queues struct {
	SimpleQueue struct {
		VCPersistentSave struct {
			Name string `yaml:"name" validate:"required"`
		} `yaml:"vc_persistent_save" validate:"required"`
		VCPersistentGet struct {
			Name string `yaml:"name" validate:"required"`
		} `yaml:"vc_persistent_get" validate:"required"`
		VCPersistentDelete struct {
			Name string `yaml:"name" validate:"required"`
		} `yaml:"vc_persistent_delete" validate:"required"`
		VCPersistentReplace struct {
			Name string `yaml:"name" validate:"required"`
		} `yaml:"vc_persistent_replace" validate:"required"`
	} `yaml:"simple_queue" validate:"required"`
}

// TrustModel holds the trust model configuration
type TrustModel struct{}

// JWTAttribute holds the jwt attribute configuration.
// In a later state this should be placed under authentic source in order to issue credentials based on that configuration.
type JWTAttribute struct {
	// Issuer of the token example: https://issuer.sunet.se
	Issuer string `yaml:"issuer" validate:"required"`

	// EnableNotBefore states the time not before which the token is valid
	EnableNotBefore bool `yaml:"enable_not_before"`

	// Valid duration of the token in seconds
	ValidDuration int64 `yaml:"valid_duration" validate:"required_with=EnableNotBefore"`

	// VerifiableCredentialType URL example: https://credential.sunet.se/identity_credential
	VerifiableCredentialType string `yaml:"verifiable_credential_type" validate:"required"`

	// Status status of the Verifiable Credential
	Status string `yaml:"status"`
}

// Issuer holds the issuer configuration
type Issuer struct {
	APIServer      APIServer    `yaml:"api_server" validate:"required"`
	Identifier     string       `yaml:"identifier" validate:"required"`
	GRPCServer     GRPCServer   `yaml:"grpc_server" validate:"required"`
	SigningKeyPath string       `yaml:"signing_key_path" validate:"required"`
	JWTAttribute   JWTAttribute `yaml:"jwt_attribute" validate:"required"`

	// RegistryClient dials the registry service for Token Status List
	// section/index allocation. Addr left empty disables registry-backed
	// status lists on issued credentials.
	RegistryClient GRPCClientTLS `yaml:"registry_client"`

	// Metadata is the .well-known/openid-credential-issuer document, optionally
	// JWT-secured via the signed_metadata claim.
	Metadata IssuerMetadata `yaml:"metadata" validate:"omitempty"`

	// AuthorizationServer is the OAuth2/OIDC AS fronting credential issuance,
	// with optional JWT-secured authorization server metadata.
	AuthorizationServer OAuthServer `yaml:"authorization_server" validate:"omitempty"`
}

// GRPCClientTLS configures an outbound gRPC client connection, optionally
// with mutual TLS.
type GRPCClientTLS struct {
	Addr         string `yaml:"addr" validate:"required"`
	TLS          bool   `yaml:"tls"`
	CAFilePath   string `yaml:"ca_file_path"`
	CertFilePath string `yaml:"cert_file_path"`
	KeyFilePath  string `yaml:"key_file_path"`
	ServerName   string `yaml:"server_name"`
}

// Registry holds the registry configuration
type Registry struct {
	APIServer  APIServer  `yaml:"api_server" validate:"required"`
	SMT        SMT        `yaml:"smt" validate:"required"`
	GRPCServer GRPCServer `yaml:"grpc_server" validate:"required"`

	// ExternalServerURL is the base URL other services use to reach this
	// registry, used to build Status List Token and aggregation URIs.
	ExternalServerURL string `yaml:"external_server_url" validate:"required"`

	TokenStatusLists TokenStatusLists `yaml:"token_status_lists" validate:"required"`
}

// TokenStatusLists configures the draft-ietf-oauth-status-list issuer that
// backs credential revocation for the registry's Token Status List service.
type TokenStatusLists struct {
	// SigningKeyPath points at the ECDSA key used to sign Status List Tokens.
	SigningKeyPath string `yaml:"signing_key_path" validate:"required"`
	// SectionSize is the number of status entries per section; 0 defaults to 500,000.
	SectionSize int64 `yaml:"section_size"`
	// TokenRefreshInterval is how often cached tokens are regenerated, in seconds.
	TokenRefreshInterval int64 `yaml:"token_refresh_interval"`
}

// Persistent holds the persistent storage configuration
type Persistent struct {
	APIServer APIServer `yaml:"api_server" validate:"required"`
}

// AccountServer holds the wallet provider account server configuration
type AccountServer struct {
	APIServer APIServer `yaml:"api_server" validate:"required"`

	// RetryTiers describes the PIN back-off schedule applied after a
	// failed check_pin instruction; empty uses accountserver.DefaultRetryPolicy.
	RetryTiers []RetryTier `yaml:"retry_tiers" validate:"omitempty,dive"`
	// LockoutThreshold is the attempt count at which a wallet is
	// permanently blocked rather than merely delayed.
	LockoutThreshold int `yaml:"lockout_threshold" validate:"omitempty,gt=0"`
}

// RetryTier is one step of the PIN retry back-off schedule.
type RetryTier struct {
	Attempts int           `yaml:"attempts" validate:"required"`
	Cooldown time.Duration `yaml:"cooldown" validate:"required"`
}

// MockAS holds the mock as configuration
type MockAS struct {
	APIServer    APIServer `yaml:"api_server" validate:"required"`
	DatastoreURL string    `yaml:"datastore_url" validate:"required"`
}

// Verifier holds the verifier configuration
type Verifier struct {
	APIServer  APIServer  `yaml:"api_server" validate:"required"`
	GRPCServer GRPCServer `yaml:"grpc_server" validate:"required"`
}

// Datastore holds the datastore configuration
type Datastore struct {
	APIServer  APIServer  `yaml:"api_server" validate:"required"`
	GRPCServer GRPCServer `yaml:"grpc_server" validate:"required"`
}

// BasicAuth holds the basic auth configuration
type BasicAuth struct {
	Users   map[string]string `yaml:"users"`
	Enabled bool              `yaml:"enabled"`
}

// APIGW holds the datastore configuration
type APIGW struct {
	APIServer  APIServer  `yaml:"api_server" validate:"required"`
	TrustModel TrustModel `yaml:"trust_model" validate:"required"`
}

// OTEL holds the opentelemetry configuration
type OTEL struct {
	Addr    string `yaml:"addr" validate:"required"`
	Type    string `yaml:"type" validate:"required"`
	Timeout int64  `yaml:"timeout" default:"10"`
}

// UI holds the user-interface configuration
type UI struct {
	APIServer                      APIServer `yaml:"api_server" validate:"required"`
	Username                       string    `yaml:"username" validate:"required"`
	Password                       string    `yaml:"password" validate:"required"`
	SessionCookieAuthenticationKey string    `yaml:"session_cookie_authentication_key" validate:"required"`
	SessionStoreEncryptionKey      string    `yaml:"session_store_encryption_key" validate:"required"`
	Services                       struct {
		APIGW struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"apigw"`
		MockAS struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"mockas"`
	} `yaml:"services"`
}

// CredentialType holds the configuration for the credential type
type CredentialType struct {
	Profile string `yaml:"profile" validate:"required"`
}

// NotificationEndpoint holds the configuration for the notification endpoint
type NotificationEndpoint struct {
	URL string `yaml:"url" validate:"required"`
}

// AuthenticSourceEndpoint holds the configuration for the authentic source
type AuthenticSourceEndpoint struct {
	URL string `yaml:"url" validate:"required"`
}

// SignatureServiceEndpoint holds the configuration for the signature service
type SignatureServiceEndpoint struct {
	URL string `yaml:"url" validate:"required"`
}

// RevocationServiceEndpoint holds the configuration for the revocation service
type RevocationServiceEndpoint struct {
	URL string `yaml:"url" validate:"required"`
}

// AuthenticSource holds the configuration for the authentic source
type AuthenticSource struct {
	CountryCode               string                    `yaml:"country_code" validate:"required,iso3166_1_alpha2"`
	NotificationEndpoint      NotificationEndpoint      `yaml:"notification_endpoint" validate:"required"`
	AuthenticSourceEndpoint   AuthenticSourceEndpoint   `yaml:"authentic_source_endpoint" validate:"required"`
	SignatureServiceEndpoint  SignatureServiceEndpoint  `yaml:"signature_service_endpoint" validate:"required"`
	RevocationServiceEndpoint RevocationServiceEndpoint `yaml:"revocation_service_endpoint" validate:"required"`
	CredentialTypes           map[string]CredentialType `yaml:"credential_types" validate:"required"`
}

// Cfg is the main configuration structure for this application
type Cfg struct {
	Common           Common                     `yaml:"common"`
	AuthenticSources map[string]AuthenticSource `yaml:"authentic_sources" validate:"omitempty"`
	APIGW            APIGW                      `yaml:"apigw" validate:"omitempty"`
	Issuer           Issuer                     `yaml:"issuer" validate:"omitempty"`
	Verifier         Verifier                   `yaml:"verifier" validate:"omitempty"`
	Datastore        Datastore                  `yaml:"datastore" validate:"omitempty"`
	Registry         Registry                   `yaml:"registry" validate:"omitempty"`
	Persistent       Persistent                 `yaml:"persistent" validate:"omitempty"`
	MockAS           MockAS                     `yaml:"mock_as" validate:"omitempty"`
	UI               UI                         `yaml:"ui" validate:"omitempty"`
	AccountServer    AccountServer              `yaml:"account_server" validate:"omitempty"`

	// CredentialConstructor maps an OAuth2 scope (e.g. "pid", "ehic") to the
	// VCT/VCTM/auth configuration the issuer uses to build that credential type.
	CredentialConstructor map[string]*CredentialConstructor `yaml:"credential_constructor" validate:"omitempty"`
}

// GetCredentialConstructor returns the credential constructor registered for
// scope, or nil if none is configured.
func (c *Cfg) GetCredentialConstructor(scope string) *CredentialConstructor {
	cc, ok := c.CredentialConstructor[scope]
	if !ok {
		return nil
	}
	return cc
}

// GetCredentialConstructorAuthMethod returns the auth method configured for
// credentialType, defaulting to "basic" when the scope is unknown.
func (c *Cfg) GetCredentialConstructorAuthMethod(credentialType string) string {
	cc, ok := c.CredentialConstructor[credentialType]
	if !ok || cc.AuthMethod == "" {
		return "basic"
	}
	return cc.AuthMethod
}

// CredentialConstructor describes how the issuer builds one credential type:
// its VCT, the VCTM that documents its claims, and the auth method its
// issuance endpoint requires.
type CredentialConstructor struct {
	// VCT is the verifiable credential type identifier issued under this scope.
	VCT string `yaml:"vct" validate:"required"`

	// VCTMFilePath points at the JSON-encoded VCTM document for VCT.
	VCTMFilePath string `yaml:"vctm_file_path" validate:"required"`

	// AuthMethod selects how a holder authenticates before issuance
	// ("basic" or "pid_auth" for PID-attested issuance of attestations).
	AuthMethod string `yaml:"auth_method"`

	// VCTM is populated by LoadVCTMetadata.
	VCTM *sdjwtvc.VCTM `yaml:"-"`

	// Attributes is the display-label-to-claim-path index derived from VCTM,
	// populated by the caller once VCTM is loaded.
	Attributes map[string]map[string][]string `yaml:"-"`
}

// LoadVCTMetadata reads VCTMFilePath and decodes it into VCTM. scope is used
// only for error context.
func (c *CredentialConstructor) LoadVCTMetadata(ctx context.Context, scope string) error {
	if c.VCTMFilePath == "" {
		return fmt.Errorf("vctm_file_path is empty for scope %q", scope)
	}

	data, err := os.ReadFile(c.VCTMFilePath)
	if err != nil {
		return fmt.Errorf("failed to read VCTM file for scope %q: %w", scope, err)
	}

	vctm := &sdjwtvc.VCTM{}
	if err := json.Unmarshal(data, vctm); err != nil {
		return err
	}

	c.VCTM = vctm
	return nil
}

// IssuerMetadata is the .well-known/openid-credential-issuer document plus
// the key material used to produce its JWT-secured signed_metadata claim.
type IssuerMetadata struct {
	// Path is the JSON or YAML file holding the static metadata document.
	Path string `yaml:"path" validate:"required"`

	// SigningKeyPath is the private key used to sign signed_metadata.
	SigningKeyPath string `yaml:"signing_key_path" validate:"required"`

	// SigningChainPath is the leaf certificate (and any intermediates) for
	// the signing key, used as the x5c header of signed_metadata.
	SigningChainPath string `yaml:"signing_chain_path" validate:"required"`
}

// CredentialIssuerMetadata is the OpenID4VCI credential issuer metadata
// document served at /.well-known/openid-credential-issuer.
type CredentialIssuerMetadata struct {
	CredentialIssuer                  string         `json:"credential_issuer" yaml:"credential_issuer"`
	CredentialEndpoint                string         `json:"credential_endpoint,omitempty" yaml:"credential_endpoint,omitempty"`
	AuthorizationServers              []string       `json:"authorization_servers,omitempty" yaml:"authorization_servers,omitempty"`
	CredentialConfigurationsSupported map[string]any `json:"credential_configurations_supported,omitempty" yaml:"credential_configurations_supported,omitempty"`

	// SignedMetadata carries the JWT-secured form of this document, per
	// OpenID4VCI section 11.2.3. Never populated by loading the static
	// document itself — only by a caller that signs it separately.
	SignedMetadata string `json:"signed_metadata,omitempty" yaml:"signed_metadata,omitempty"`
}

// LoadAndSign reads the static issuer metadata document and the signing key
// and certificate chain configured for it, so a caller can build the
// signed_metadata JWT. It does not mutate SignedMetadata itself.
func (m IssuerMetadata) LoadAndSign(ctx context.Context) (*CredentialIssuerMetadata, any, *x509.Certificate, []*x509.Certificate, error) {
	metadata, err := loadMetadataFile[CredentialIssuerMetadata](m.Path)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	privateKey, err := pki.ParseKeyFromFile(m.SigningKeyPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cert, chain, err := pki.ParseX509CertificateFromFile(m.SigningChainPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return metadata, privateKey, cert, chain, nil
}

// OAuthServer describes the OAuth2/OIDC authorization server fronting
// credential issuance, and the material used to JWT-secure its metadata.
type OAuthServer struct {
	TokenEndpoint string        `yaml:"token_endpoint" validate:"required"`
	Metadata      OAuthMetadata `yaml:"metadata" validate:"omitempty"`
}

// OAuthMetadata is the signing configuration for JWT-secured authorization
// server metadata, per RFC 8414 section 4 / JWT-secured metadata drafts.
type OAuthMetadata struct {
	Path             string `yaml:"path" validate:"required"`
	SigningKeyPath   string `yaml:"signing_key_path" validate:"required"`
	SigningChainPath string `yaml:"signing_chain_path" validate:"required"`
}

// AuthorizationServerMetadata is the RFC 8414 authorization server metadata
// document.
type AuthorizationServerMetadata struct {
	Issuer         string `json:"issuer" yaml:"issuer"`
	TokenEndpoint  string `json:"token_endpoint,omitempty" yaml:"token_endpoint,omitempty"`
	SignedMetadata string `json:"signed_metadata,omitempty" yaml:"signed_metadata,omitempty"`
}

// LoadOAuth2Metadata reads the static AS metadata document plus the signing
// key and full certificate chain (leaf first) configured for it.
func (s OAuthServer) LoadOAuth2Metadata(ctx context.Context) (*AuthorizationServerMetadata, any, []*x509.Certificate, error) {
	metadata, err := loadMetadataFile[AuthorizationServerMetadata](s.Metadata.Path)
	if err != nil {
		return nil, nil, nil, err
	}

	privateKey, err := pki.ParseKeyFromFile(s.Metadata.SigningKeyPath)
	if err != nil {
		return nil, nil, nil, err
	}

	_, chain, err := pki.ParseX509CertificateFromFile(s.Metadata.SigningChainPath)
	if err != nil {
		return nil, nil, nil, err
	}

	return metadata, privateKey, chain, nil
}

// loadMetadataFile reads path as JSON or YAML, selected by extension, into T.
func loadMetadataFile[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	out := new(T)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	return out, nil
}
