package vaultsdk

// VaultSDKConfig is the configuration for the VaultSDK
type VaultSDKConfig struct {
	BaseURL     string // BaseURL is required
	VaultKey    string // VaultKey is the remote document key, required
	AccessToken string // AccessToken is optional at construction, required to be Ready
}

func (c *VaultSDKConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrNoServerURL
	}

	if c.VaultKey == "" {
		return ErrNoVaultKey
	}

	return nil
}
