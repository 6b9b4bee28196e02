package vaultsdk

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/imroc/req/v3"
)

const (
	v1VaultMetadata = "/api/v1/vault/metadata"
	v1VaultDownload = "/api/v1/vault/download"
	v1VaultUpload   = "/api/v1/vault/upload"

	headerRequestId = "X-Vault-Request-Id"
)

// VaultAPI talks to the vault endpoints for one document key.
type VaultAPI struct {
	client *req.Client
	key    string
}

func newVaultAPI(client *req.Client, key string) *VaultAPI {
	return &VaultAPI{
		client: client,
		key:    key,
	}
}

// GetMetadata fetches the current revision and modified time of the vault.
// A vault that does not exist yet yields ErrVaultNotFound.
func (v *VaultAPI) GetMetadata(ctx context.Context) (apiResp *MetadataResponse, err error) {
	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader(headerRequestId, uuid.New().String()).
		SetQueryParam("key", v.key).
		SetSuccessResult(&apiResp).
		Get(v1VaultMetadata)

	if err := handleAPIError(resp, err, "vault metadata"); err != nil {
		return nil, err
	}

	return apiResp, nil
}

// Download fetches the full vault snapshot along with the revision it was
// served at.
func (v *VaultAPI) Download(ctx context.Context, params *DownloadParams) (apiResp *DownloadResponse, err error) {
	r := v.client.R().
		SetContext(ctx).
		SetHeader(headerRequestId, uuid.New().String()).
		SetQueryParam("key", v.key).
		SetSuccessResult(&apiResp)

	if params != nil && params.KnownRevision != "" {
		r.SetQueryParam("revision", params.KnownRevision)
	}

	resp, err := r.Get(v1VaultDownload)
	if err := handleAPIError(resp, err, "vault download"); err != nil {
		return nil, err
	}

	if apiResp.Snapshot == nil {
		return nil, fmt.Errorf("vault download: empty snapshot body")
	}

	return apiResp, nil
}

// Upload replaces the stored vault with the given snapshot and returns the
// newly issued revision.
func (v *VaultAPI) Upload(ctx context.Context, params *UploadParams) (apiResp *UploadResponse, err error) {
	if params == nil || params.Snapshot == nil {
		return nil, fmt.Errorf("vault upload: no snapshot provided")
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetHeader(headerRequestId, uuid.New().String()).
		SetQueryParam("key", v.key).
		SetBody(&uploadRequest{
			ClientModifiedMs: params.ClientModified.UnixMilli(),
			Snapshot:         params.Snapshot,
		}).
		SetSuccessResult(&apiResp).
		Put(v1VaultUpload)

	if err := handleAPIError(resp, err, "vault upload"); err != nil {
		return nil, err
	}

	if apiResp.Revision == "" {
		return nil, fmt.Errorf("vault upload: server issued no revision")
	}

	return apiResp, nil
}
