package entity

import "time"

// DbAttachment stores metadata about an uploaded file. The bytes live in the
// configured storage backend under StoragePath.
type DbAttachment struct {
	ID           string    `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	FileName     string    `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	ContentType  string    `gorm:"column:content_type;type:varchar(100)" json:"content_type"`
	SizeBytes    int64     `gorm:"column:size_bytes;not null" json:"size_bytes"`
	StoragePath  string    `gorm:"column:storage_path;type:varchar(512);not null" json:"-"`
	TaskID       string    `gorm:"column:task_id;type:varchar(36);index;not null" json:"task_id"`
	UploadedByID string    `gorm:"column:uploaded_by_id;type:varchar(36);index;not null" json:"uploaded_by_id"`
}

// TableName overrides the default pluralised name.
func (DbAttachment) TableName() string {
	return "task_attachments"
}

type AttachmentListResponse struct {
	Attachments []DbAttachment `json:"attachments"`
}
