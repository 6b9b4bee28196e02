package client

import (
	"context"
	"errors"
	"time"

	"github.com/openvault/vaultsync/internal/client/datastore"
	"github.com/openvault/vaultsync/internal/client/sync"
	"github.com/openvault/vaultsync/internal/vaultsdk"
)

// remoteVault adapts the vault server API to the orchestrator's RemoteStore
// capability.
type remoteVault struct {
	api *vaultsdk.VaultAPI
}

func newRemoteVault(api *vaultsdk.VaultAPI) *remoteVault {
	return &remoteVault{api: api}
}

// FetchMetadata reports a vault that does not exist yet as zero metadata: an
// empty revision proves nothing, so the orchestrator takes the general path
// and the first upload creates the remote copy.
func (r *remoteVault) FetchMetadata(ctx context.Context) (*sync.RemoteMetadata, error) {
	meta, err := r.api.GetMetadata(ctx)
	if err != nil {
		if errors.Is(err, vaultsdk.ErrVaultNotFound) {
			return &sync.RemoteMetadata{}, nil
		}
		return nil, err
	}
	return &sync.RemoteMetadata{
		Revision:     meta.Revision,
		LastModified: meta.ModifiedTime(),
	}, nil
}

func (r *remoteVault) Download(ctx context.Context, knownRevision string) (*datastore.Snapshot, string, error) {
	resp, err := r.api.Download(ctx, &vaultsdk.DownloadParams{KnownRevision: knownRevision})
	if err != nil {
		if errors.Is(err, vaultsdk.ErrVaultNotFound) {
			// nothing stored yet; an empty snapshot with a zero change marker
			// lets the decision run without special cases
			return &datastore.Snapshot{}, "", nil
		}
		return nil, "", err
	}
	return resp.Snapshot, resp.Revision, nil
}

func (r *remoteVault) Upload(ctx context.Context, snap *datastore.Snapshot, clientModified time.Time) (string, error) {
	resp, err := r.api.Upload(ctx, &vaultsdk.UploadParams{
		ClientModified: clientModified,
		Snapshot:       snap,
	})
	if err != nil {
		return "", err
	}
	return resp.Revision, nil
}

var _ sync.RemoteStore = (*remoteVault)(nil)
