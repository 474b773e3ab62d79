package files

import (
	"time"

	"github.com/yungbote/docqa-backend/internal/domain/user"
)

// File is one upload event. Re-uploading the same filename adds a new row pointing at the same path.
type File struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint       `gorm:"column:user_id;not null;index" json:"user_id"`
	Owner      *user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Filename   string     `gorm:"column:filename;not null" json:"filename"`
	FileType   string     `gorm:"column:file_type" json:"file_type"`
	FilePath   string     `gorm:"column:file_path;not null" json:"file_path"`
	SizeBytes  int64      `gorm:"column:size_bytes" json:"size_bytes"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;not null;index" json:"uploaded_at"`
}

func (File) TableName() string { return "files" }
