package uaclient

import (
	"time"

	"go.uber.org/zap"

	"opcuacore/services"
	"opcuacore/ua"
)

// defaultTimeout is used for both the connect deadline and the default
// per-request timeoutHint when the caller doesn't override it.
const (
	defaultTimeout                 = 15 * time.Second
	defaultRequestedLifetime       = 60 * time.Minute
	defaultRequestedSessionTimeout = 10 * time.Minute
	defaultReconnectTimeout        = 5 * time.Second
	keepAliveInterval              = 5 * time.Second
)

// Config collects every option spec.md §6's operational configuration
// table names. Construct with NewConfig(endpointURL, opts...); unset
// fields fall back to the defaults above.
type Config struct {
	EndpointURL             string
	RequestedLifetime       time.Duration
	SecurityMode            services.MessageSecurityMode
	RequestedSessionTimeout time.Duration
	ApplicationName         string
	ProductURI              string
	SessionName             string
	UserIdentityToken       *ua.ExtensionObject
	UserIdentityPolicyID    string
	AutoReconnect           bool
	ReconnectTimeout        time.Duration
	Timeout                 time.Duration
	Logger                  *zap.Logger
}

// Option configures a Config, following the functional-options pattern a
// client library exposes to callers (as opposed to the tagged-struct
// configuration a standalone collector/receiver binary would parse).
type Option func(*Config)

func WithRequestedLifetime(d time.Duration) Option {
	return func(c *Config) { c.RequestedLifetime = d }
}

func WithSecurityMode(mode services.MessageSecurityMode) Option {
	return func(c *Config) { c.SecurityMode = mode }
}

func WithRequestedSessionTimeout(d time.Duration) Option {
	return func(c *Config) { c.RequestedSessionTimeout = d }
}

func WithApplicationName(name string) Option {
	return func(c *Config) { c.ApplicationName = name }
}

func WithProductURI(uri string) Option {
	return func(c *Config) { c.ProductURI = uri }
}

func WithSessionName(name string) Option {
	return func(c *Config) { c.SessionName = name }
}

// WithAnonymousIdentity selects the Anonymous user identity token kind
// (the default when no WithXxxIdentity option is given).
func WithAnonymousIdentity(policyID string) Option {
	return func(c *Config) {
		c.UserIdentityPolicyID = policyID
		c.UserIdentityToken = ua.NewExtensionObject(&services.AnonymousIdentityToken{PolicyID: policyID})
	}
}

// WithUserNameIdentity wraps a username/password pair as the activation
// identity token. Password is sent in the clear: only meaningful under
// SecurityMode=Sign/SignAndEncrypt, which this client doesn't implement —
// provided for API completeness and local/test servers.
func WithUserNameIdentity(policyID, username, password string) Option {
	return func(c *Config) {
		c.UserIdentityPolicyID = policyID
		c.UserIdentityToken = ua.NewExtensionObject(&services.UserNameIdentityToken{
			PolicyID: policyID,
			UserName: username,
			Password: []byte(password),
		})
	}
}

func WithAutoReconnect(enabled bool) Option {
	return func(c *Config) { c.AutoReconnect = enabled }
}

func WithReconnectTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReconnectTimeout = d }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// NewConfig builds a Config for endpointURL with defaults applied, then
// lets opts override them.
func NewConfig(endpointURL string, opts ...Option) Config {
	c := Config{
		EndpointURL:             endpointURL,
		RequestedLifetime:       defaultRequestedLifetime,
		SecurityMode:            services.SecurityModeNone,
		RequestedSessionTimeout: defaultRequestedSessionTimeout,
		ApplicationName:         "opcuacore-client",
		ProductURI:              "urn:opcuacore:client",
		SessionName:             "opcuacore-session",
		AutoReconnect:           true,
		ReconnectTimeout:        defaultReconnectTimeout,
		Timeout:                 defaultTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.UserIdentityToken == nil {
		WithAnonymousIdentity("anonymous")(&c)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
