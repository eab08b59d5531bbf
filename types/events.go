package types

// Event type constants pushed over the /events WebSocket feed.
const (
	EventUploadReceived    = "upload_received"
	EventDownloadStarted   = "download_started"
	EventDownloadCompleted = "download_completed"
	EventArchiveCreated    = "archive_created"
	EventServerStopping    = "server_stopping"
)

// Event is a transfer notification broadcast to connected web UI clients.
type Event struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
