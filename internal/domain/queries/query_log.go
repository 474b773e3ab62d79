package queries

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/docqa-backend/internal/domain/user"
)

// QueryLog records one answered question. Sources holds the retrieved chunk metadata as JSON.
// Sources and Error stay server-side and are never serialized to clients.
type QueryLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	Owner     *user.User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Query     string         `gorm:"column:query;type:text;not null" json:"query"`
	Answer    string         `gorm:"column:answer;type:text" json:"answer"`
	Model     string         `gorm:"column:model" json:"model"`
	TopK      int            `gorm:"column:top_k" json:"top_k"`
	Sources   datatypes.JSON `gorm:"column:sources" json:"-"`
	LatencyMS int64          `gorm:"column:latency_ms" json:"latency_ms"`
	Status    string         `gorm:"column:status;not null;default:'ok'" json:"status"`
	Error     string         `gorm:"column:error;type:text" json:"-"`
	CreatedAt time.Time      `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (QueryLog) TableName() string { return "query_logs" }

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)
