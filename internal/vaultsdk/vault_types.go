package vaultsdk

import (
	"time"

	"github.com/openvault/vaultsync/internal/client/datastore"
)

// MetadataResponse is the transport-level view of the stored vault. The
// server reports LastModified in whole unix seconds.
type MetadataResponse struct {
	Revision     string `json:"revision"`
	LastModified int64  `json:"last_modified"`
	Size         int64  `json:"size"`
}

// ModifiedTime returns LastModified as a time.Time.
func (m *MetadataResponse) ModifiedTime() time.Time {
	return time.Unix(m.LastModified, 0)
}

type DownloadParams struct {
	// KnownRevision lets the server skip the body when nothing changed.
	// Optional.
	KnownRevision string
}

type DownloadResponse struct {
	Revision     string              `json:"revision"`
	LastModified int64               `json:"last_modified"`
	Snapshot     *datastore.Snapshot `json:"snapshot"`
}

type UploadParams struct {
	// ClientModified is the snapshot's own change time, reported to the
	// server in unix milliseconds.
	ClientModified time.Time
	Snapshot       *datastore.Snapshot
}

type uploadRequest struct {
	ClientModifiedMs int64               `json:"client_modified_ms"`
	Snapshot         *datastore.Snapshot `json:"snapshot"`
}

type UploadResponse struct {
	Revision     string `json:"revision"`
	LastModified int64  `json:"last_modified"`
}
