// Package tasks defines the structure for jobs that are sent to Kafka.
package tasks

// ScanProcessingTask represents an inbox document waiting for text
// extraction. ItemID identifies the inbox row; ObjectKey locates the
// uploaded file in object storage.
type ScanProcessingTask struct {
	ItemID    uint   `json:"item_id"`
	UserID    uint   `json:"user_id"`
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
	ScanType  string `json:"scan_type"`
}
