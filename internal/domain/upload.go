package domain

import "time"

// UploadRecord is one entry in the append-only uploads log. It maps an upload
// id to the dynamically provisioned table that holds the parsed rows.
type UploadRecord struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	FileURL    *string   `json:"file_url,omitempty"`
	TableName  string    `json:"table_name"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}
