package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation type constants
const (
	ConversationTypeDirect = "direct"
	ConversationTypeGroup  = "group"
	ConversationTypeTask   = "task"
	ConversationTypeCase   = "case"
)

// Message type constants
const (
	MessageTypeText   = "text"
	MessageTypeFile   = "file"
	MessageTypeSystem = "system"
)

// Notification type constants
const (
	ChatNotificationNewMessage = "new_message"
)

// ChatConversation groups messages between a set of participants, optionally
// anchored to a task or an onboarding case. Conversations are archived, never
// deleted.
type ChatConversation struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Type string `gorm:"not null" json:"type"` // direct, group, task, case
	Name string `json:"name,omitempty"`

	CreatedBy string `gorm:"type:uuid;not null" json:"created_by"`

	LastMessageID *string   `gorm:"type:uuid" json:"last_message_id,omitempty"`
	LastActivity  time.Time `gorm:"not null;index" json:"last_activity"`
	IsArchived    bool      `gorm:"not null;default:false;index" json:"is_archived"`

	TaskID *string `gorm:"type:uuid;index" json:"task_id,omitempty"`
	CaseID *string `gorm:"type:uuid;index" json:"case_id,omitempty"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp activity
func (c *ChatConversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.LastActivity.IsZero() {
		c.LastActivity = time.Now()
	}
	return nil
}

// TableName specifies the table name
func (ChatConversation) TableName() string {
	return "chat_conversations"
}

// ParticipantIDs returns member user IDs in insertion order
func (c *ChatConversation) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// HasParticipant reports membership
func (c *ChatConversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsValidConversationType checks if the conversation type is valid
func IsValidConversationType(t string) bool {
	switch t {
	case ConversationTypeDirect, ConversationTypeGroup, ConversationTypeTask, ConversationTypeCase:
		return true
	}
	return false
}

// ConversationParticipant is a membership row. Position retains insertion
// order for display; membership itself is a set.
type ConversationParticipant struct {
	ConversationID string    `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	UserID         string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Position       int       `gorm:"not null" json:"position"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`
}

// TableName specifies the table name
func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

// ChatMessage belongs to exactly one conversation. Content is mutable via
// edit (sets IsEdited); deletion is a hard delete with no tombstone.
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ConversationID string           `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation   ChatConversation `gorm:"foreignKey:ConversationID" json:"-"`

	SenderID string `gorm:"type:uuid;not null" json:"sender_id"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`

	Content     string `gorm:"type:text;not null" json:"content"`
	MessageType string `gorm:"not null;default:text" json:"message_type"` // text, file, system

	ReplyToID *string `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	IsEdited  bool    `gorm:"not null;default:false" json:"is_edited"`

	Attachments []ChatAttachment `gorm:"foreignKey:MessageID" json:"attachments,omitempty"`
	Reads       []MessageRead    `gorm:"foreignKey:MessageID" json:"reads,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ReadBy returns the IDs of users who have read this message
func (m *ChatMessage) ReadBy() []string {
	ids := make([]string, 0, len(m.Reads))
	for _, r := range m.Reads {
		ids = append(ids, r.UserID)
	}
	return ids
}

// IsReadBy reports whether the user has read this message
func (m *ChatMessage) IsReadBy(userID string) bool {
	for _, r := range m.Reads {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// MessageRead is a read receipt. Rows are only ever inserted; the read set
// grows monotonically and never shrinks.
type MessageRead struct {
	MessageID string    `gorm:"type:uuid;primaryKey" json:"message_id"`
	UserID    string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReadAt    time.Time `gorm:"not null" json:"read_at"`
}

// TableName specifies the table name
func (MessageRead) TableName() string {
	return "message_reads"
}

// ChatAttachment is a file attached to a message, held inline as a data URI
// like document uploads.
type ChatAttachment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MessageID string `gorm:"type:uuid;not null;index" json:"message_id"`

	Name     string `gorm:"not null" json:"name"`
	MimeType string `gorm:"not null" json:"mime_type"`
	Size     int64  `gorm:"not null" json:"size"`
	DataURL  string `gorm:"type:text" json:"-"`
}

// BeforeCreate hook to generate UUID
func (a *ChatAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ChatAttachment) TableName() string {
	return "chat_attachments"
}

// ChatNotification is one unread marker per (recipient, triggering message).
// IsRead flips once; rows are removed only when their message is deleted.
type ChatNotification struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID         string `gorm:"type:uuid;not null;index" json:"user_id"`
	ConversationID string `gorm:"type:uuid;not null;index" json:"conversation_id"`
	MessageID      string `gorm:"type:uuid;not null;index" json:"message_id"`

	Type   string `gorm:"not null;default:new_message" json:"type"`
	IsRead bool   `gorm:"not null;default:false;index" json:"is_read"`
}

// BeforeCreate hook to generate UUID
func (n *ChatNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ChatNotification) TableName() string {
	return "chat_notifications"
}
