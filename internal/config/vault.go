package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/vault/api"

	"careernav/internal/errors"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets holds the KVv2 paths secrets are read from. Empty paths are
// skipped.
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`   // "keys": comma-separated API keys
	JWTSecret string `mapstructure:"jwtSecret"` // "secret": HS256 signing secret
	GeminiKey string `mapstructure:"geminiKey"` // "api_key"
	Storage   string `mapstructure:"storage"`   // "access_key", "secret_key"
	TLSCerts  string `mapstructure:"tlsCerts"`  // "cert", "key": PEM content
}

// secretReader returns the data map of a KVv2 secret
type secretReader interface {
	ReadSecret(path string) (map[string]any, error)
}

// VaultClient reads KVv2 secrets from HashiCorp Vault
type VaultClient struct {
	client *api.Client
	logger *errors.Logger
}

// NewVaultClient connects to Vault and checks that it is reachable and unsealed.
func NewVaultClient(cfg VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	apiConfig := api.DefaultConfig()
	if cfg.Address != "" {
		apiConfig.Address = cfg.Address
	}

	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	// NewClient has already picked up VAULT_TOKEN
	token, err := vaultToken(cfg, client.Token())
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vault at %s: %w", apiConfig.Address, err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiConfig.Address)
	}

	logger.Info("Connected to Vault",
		"address", apiConfig.Address,
		"namespace", cfg.Namespace,
		"version", health.Version)

	return &VaultClient{client: client, logger: logger}, nil
}

// vaultToken picks the configured token, then the token file, then the
// token from the environment.
func vaultToken(cfg VaultConfig, envToken string) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}

	if cfg.TokenFile != "" {
		data, err := os.ReadFile(cfg.TokenFile) // #nosec G304 -- path comes from operator configuration
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("vault token file %s is empty", cfg.TokenFile)
	}

	if envToken != "" {
		return envToken, nil
	}
	return "", fmt.Errorf("vault token is required when vault is enabled")
}

// ReadSecret reads a KVv2 secret and unwraps its data envelope.
func (vc *VaultClient) ReadSecret(path string) (map[string]any, error) {
	vc.logger.Debug("Reading secret from Vault", "path", path)

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not a KVv2 secret", path)
	}
	return data, nil
}

// ApplyVaultSecrets overrides configured credentials with the ones stored in
// Vault. It does nothing when Vault is disabled.
func ApplyVaultSecrets(cfg *Config, logger *errors.Logger) error {
	if !cfg.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	client, err := NewVaultClient(cfg.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(client, cfg, logger)
}

// secretLoader copies the fields of one secret into cfg and returns how many
// it set
type secretLoader func(data map[string]any, cfg *Config) (int, error)

func applySecrets(reader secretReader, cfg *Config, logger *errors.Logger) error {
	paths := cfg.Vault.Secrets
	bindings := []struct {
		name string
		path string
		load secretLoader
	}{
		{"API keys", paths.APIKeys, loadAPIKeys},
		{"JWT secret", paths.JWTSecret, loadJWTSecret},
		{"Gemini API key", paths.GeminiKey, loadGeminiKey},
		{"storage credentials", paths.Storage, loadStorageCredentials},
		{"TLS certificates", paths.TLSCerts, loadTLSCertificateContent},
	}

	for _, b := range bindings {
		if b.path == "" {
			continue
		}

		data, err := reader.ReadSecret(b.path)
		loaded := 0
		if err == nil {
			loaded, err = b.load(data, cfg)
		}
		if err != nil {
			logger.LogError(err, "Failed to load secret from Vault", "secret", b.name, "path", b.path)
			return fmt.Errorf("failed to load %s from vault: %w", b.name, err)
		}

		if loaded == 0 {
			logger.Warn("Vault secret has no values, keeping configured ones", "secret", b.name, "path", b.path)
			continue
		}
		logger.Info("Secret loaded from Vault", "secret", b.name, "path", b.path, "fields", loaded)
	}
	return nil
}

// stringField returns data[key]. A missing key is an error only when required;
// a value of another type is always an error.
func stringField(data map[string]any, key string, required bool) (string, error) {
	raw, ok := data[key]
	if !ok {
		if required {
			return "", fmt.Errorf("key '%s' not found in secret", key)
		}
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string", key)
	}
	return value, nil
}

// setFields copies the non-empty values of the given keys into their targets.
func setFields(data map[string]any, required bool, targets map[string]*string) (int, error) {
	loaded := 0
	for key, target := range targets {
		value, err := stringField(data, key, required)
		if err != nil {
			return 0, err
		}
		if value != "" {
			*target = value
			loaded++
		}
	}
	return loaded, nil
}

func loadAPIKeys(data map[string]any, cfg *Config) (int, error) {
	value, err := stringField(data, "keys", true)
	if err != nil {
		return 0, err
	}

	var keys []string
	for key := range strings.SplitSeq(value, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}
	cfg.Server.APIKeys = keys
	return len(keys), nil
}

func loadJWTSecret(data map[string]any, cfg *Config) (int, error) {
	return setFields(data, true, map[string]*string{"secret": &cfg.Server.JWTSecret})
}

func loadGeminiKey(data map[string]any, cfg *Config) (int, error) {
	return setFields(data, true, map[string]*string{"api_key": &cfg.NLP.APIKey})
}

func loadStorageCredentials(data map[string]any, cfg *Config) (int, error) {
	return setFields(data, false, map[string]*string{
		"access_key": &cfg.Storage.AccessKey,
		"secret_key": &cfg.Storage.SecretKey,
	})
}

// loadTLSCertificateContent reads PEM content; files configured on disk are
// left alone and ValidateTLSConfig rejects having both.
func loadTLSCertificateContent(data map[string]any, cfg *Config) (int, error) {
	return setFields(data, false, map[string]*string{
		"cert": &cfg.Server.TLS.CertContent,
		"key":  &cfg.Server.TLS.KeyContent,
	})
}
