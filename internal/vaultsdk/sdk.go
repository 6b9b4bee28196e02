package vaultsdk

import (
	"fmt"
	"runtime"
	"time"

	"github.com/imroc/req/v3"

	"github.com/openvault/vaultsync/internal/utils"
	"github.com/openvault/vaultsync/internal/version"
)

const (
	HeaderVaultVersion  = "X-Vault-Version"
	HeaderVaultDeviceId = "X-Vault-Device-Id"
)

var VaultSyncUserAgent = fmt.Sprintf("VaultSync/%s (%s; %s; %s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// VaultSDK is the client for the vault server API
type VaultSDK struct {
	client *req.Client
	config *VaultSDKConfig
	Vault  *VaultAPI
}

// New creates a new VaultSDK client
func New(config *VaultSDKConfig) (*VaultSDK, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := req.C().
		SetBaseURL(config.BaseURL).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1*time.Second).
		SetUserAgent(VaultSyncUserAgent).
		SetCommonHeader(HeaderVaultVersion, version.Version).
		SetCommonHeader(HeaderVaultDeviceId, utils.HWID).
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	if config.AccessToken != "" {
		client.SetCommonBearerAuthToken(config.AccessToken)
	}

	return &VaultSDK{
		client: client,
		config: config,
		Vault:  newVaultAPI(client, config.VaultKey),
	}, nil
}

// Ready reports whether the SDK holds a usable access token. Used as the
// capability gate before any sync attempt.
func (s *VaultSDK) Ready() error {
	if s.config.AccessToken == "" {
		return ErrNoToken
	}
	if _, err := ParseToken(s.config.AccessToken); err != nil {
		return err
	}
	return nil
}

// Close terminates all connections and cleans up resources
func (s *VaultSDK) Close() {
	s.client.CloseIdleConnections()
}
