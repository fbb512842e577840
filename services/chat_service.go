package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fica_onboarding_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Presence status constants
const (
	PresenceOnline  = "online"
	PresenceAway    = "away"
	PresenceBusy    = "busy"
	PresenceOffline = "offline"
)

// IsValidPresenceStatus checks if the presence status is valid
func IsValidPresenceStatus(status string) bool {
	switch status {
	case PresenceOnline, PresenceAway, PresenceBusy, PresenceOffline:
		return true
	}
	return false
}

// TypingIndicator is an ephemeral marker that a user is typing in a
// conversation. Indicators live in process memory only and expire on a
// timer; they are never persisted.
type TypingIndicator struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	StartedAt      time.Time `json:"started_at"`
}

// PresenceRecord is a user's self-reported availability. Explicit set only;
// there is no heartbeat-driven demotion.
type PresenceRecord struct {
	UserID   string    `json:"user_id"`
	Status   string    `json:"status"`
	Activity string    `json:"activity,omitempty"`
	LastSeen time.Time `json:"last_seen"`
}

// AttachmentInput carries an incoming message attachment
type AttachmentInput struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	DataURL  string `json:"data_url"`
}

// ConversationSummary is a conversation plus per-viewer unread count
type ConversationSummary struct {
	models.ChatConversation
	UnreadCount int64 `json:"unread_count"`
}

type typingKey struct {
	conversationID string
	userID         string
}

type typingEntry struct {
	startedAt time.Time
	timer     *time.Timer
}

// ChatService is the conversation/message store. Durable state lives in the
// database; typing indicators and presence are mutex-guarded in-memory maps.
type ChatService struct {
	DB        *gorm.DB
	TypingTTL time.Duration

	sanitizer *bluemonday.Policy

	mu       sync.Mutex
	typing   map[typingKey]*typingEntry
	presence map[string]PresenceRecord
}

func NewChatService(db *gorm.DB, typingTTL time.Duration) *ChatService {
	return &ChatService{
		DB:        db,
		TypingTTL: typingTTL,
		sanitizer: bluemonday.StrictPolicy(),
		typing:    make(map[typingKey]*typingEntry),
		presence:  make(map[string]PresenceRecord),
	}
}

// CreateConversation starts a conversation. The creator is always a member;
// duplicate participant entries are collapsed while insertion order is kept
// for display.
func (s *ChatService) CreateConversation(creator *models.User, convType string, participants []string, name string, taskID, caseID *string) (*models.ChatConversation, error) {
	if !models.IsValidConversationType(convType) {
		return nil, fmt.Errorf("%w: conversation type %q", ErrInvalidInput, convType)
	}

	ordered := dedupeParticipants(creator.ID, participants)

	conv := &models.ChatConversation{
		Type:      convType,
		Name:      name,
		CreatedBy: creator.ID,
		TaskID:    taskID,
		CaseID:    caseID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		now := time.Now()
		for i, userID := range ordered {
			p := models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         userID,
				Position:       i,
				JoinedAt:       now,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			conv.Participants = append(conv.Participants, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// dedupeParticipants collapses duplicates and guarantees creator membership,
// preserving first-seen order
func dedupeParticipants(creatorID string, participants []string) []string {
	seen := make(map[string]bool)
	var ordered []string
	for _, id := range append([]string{}, participants...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}
	if !seen[creatorID] {
		ordered = append(ordered, creatorID)
	}
	return ordered
}

// Conversation loads a conversation with its participants
func (s *ChatService) Conversation(id string) (*models.ChatConversation, error) {
	var conv models.ChatConversation
	err := s.DB.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&conv, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns the viewer's non-archived conversations ordered
// by last activity, each with an unread notification count.
func (s *ChatService) ListConversations(userID string) ([]ConversationSummary, error) {
	var convs []models.ChatConversation
	err := s.DB.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = chat_conversations.id").
		Where("cp.user_id = ? AND chat_conversations.is_archived = ?", userID, false).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("chat_conversations.last_activity DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		var unread int64
		if err := s.DB.Model(&models.ChatNotification{}).
			Where("user_id = ? AND conversation_id = ? AND is_read = ?", userID, conv.ID, false).
			Count(&unread).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{ChatConversation: conv, UnreadCount: unread})
	}
	return summaries, nil
}

// ConversationsByType filters the viewer's non-archived conversations
func (s *ChatService) ConversationsByType(userID, convType string) ([]ConversationSummary, error) {
	all, err := s.ListConversations(userID)
	if err != nil {
		return nil, err
	}
	var filtered []ConversationSummary
	for _, c := range all {
		if c.Type == convType {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// SendMessage appends a message and fans out one unread notification per
// other participant. The sender's own read receipt is seeded immediately.
func (s *ChatService) SendMessage(sender *models.User, conversationID, content string, attachments []AttachmentInput, replyToID *string) (*models.ChatMessage, error) {
	conv, err := s.Conversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(sender.ID) {
		return nil, ErrNotParticipant
	}

	if replyToID != nil {
		var target models.ChatMessage
		if err := s.DB.First(&target, "id = ?", *replyToID).Error; err != nil {
			return nil, fmt.Errorf("%w: reply target", ErrNotFound)
		}
		if target.ConversationID != conversationID {
			return nil, ErrReplyOtherConv
		}
	}

	messageType := models.MessageTypeText
	if len(attachments) > 0 {
		messageType = models.MessageTypeFile
	}

	msg := &models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		Content:        s.sanitizer.Sanitize(content),
		MessageType:    messageType,
		ReplyToID:      replyToID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Create(&models.MessageRead{MessageID: msg.ID, UserID: sender.ID, ReadAt: now}).Error; err != nil {
			return err
		}

		for _, a := range attachments {
			att := models.ChatAttachment{
				MessageID: msg.ID,
				Name:      a.Name,
				MimeType:  a.MimeType,
				Size:      a.Size,
				DataURL:   a.DataURL,
			}
			if err := tx.Create(&att).Error; err != nil {
				return err
			}
			msg.Attachments = append(msg.Attachments, att)
		}

		for _, p := range conv.Participants {
			if p.UserID == sender.ID {
				continue
			}
			n := models.ChatNotification{
				UserID:         p.UserID,
				ConversationID: conversationID,
				MessageID:      msg.ID,
				Type:           models.ChatNotificationNewMessage,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.ChatConversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_message_id": msg.ID,
				"last_activity":   now,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// Messages returns a conversation's messages in creation order
func (s *ChatService) Messages(conversationID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.DB.Where("conversation_id = ?", conversationID).
		Preload("Attachments").
		Preload("Reads").
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// MarkAsRead adds the reader to one message's read set, or to every message
// in the conversation when messageID is empty. Receipts only grow; marking
// twice is a no-op. Matching notifications flip to read.
func (s *ChatService) MarkAsRead(reader *models.User, conversationID, messageID string) error {
	conv, err := s.Conversation(conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(reader.ID) {
		return ErrNotParticipant
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var messageIDs []string
		if messageID != "" {
			var msg models.ChatMessage
			if err := tx.First(&msg, "id = ? AND conversation_id = ?", messageID, conversationID).Error; err != nil {
				return ErrNotFound
			}
			messageIDs = []string{messageID}
		} else {
			if err := tx.Model(&models.ChatMessage{}).
				Where("conversation_id = ?", conversationID).
				Pluck("id", &messageIDs).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		for _, id := range messageIDs {
			receipt := models.MessageRead{MessageID: id, UserID: reader.ID, ReadAt: now}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&receipt).Error; err != nil {
				return err
			}
		}

		query := tx.Model(&models.ChatNotification{}).
			Where("user_id = ? AND conversation_id = ?", reader.ID, conversationID)
		if messageID != "" {
			query = query.Where("message_id = ?", messageID)
		}
		return query.Update("is_read", true).Error
	})
}

// EditMessage mutates content in place; message IDs are globally unique so
// no conversation scope is needed. Sets IsEdited and advances UpdatedAt.
func (s *ChatService) EditMessage(actor *models.User, messageID, newContent string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.First(&msg, "id = ?", messageID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}
	if msg.SenderID != actor.ID {
		return nil, ErrNotSender
	}

	msg.Content = s.sanitizer.Sanitize(newContent)
	msg.IsEdited = true
	if err := s.DB.Save(&msg).Error; err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}
	return &msg, nil
}

// DeleteMessage hard-deletes a message along with its receipts,
// attachments and notifications. No tombstone is kept.
func (s *ChatService) DeleteMessage(actor *models.User, messageID string) error {
	var msg models.ChatMessage
	err := s.DB.First(&msg, "id = ?", messageID).Error
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch message: %w", err)
	}
	if msg.SenderID != actor.ID {
		return ErrNotSender
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", messageID).Delete(&models.MessageRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", messageID).Delete(&models.ChatAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", messageID).Delete(&models.ChatNotification{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&msg).Error; err != nil {
			return err
		}

		// Repoint the conversation head if it referenced the deleted message
		var conv models.ChatConversation
		if err := tx.First(&conv, "id = ?", msg.ConversationID).Error; err != nil {
			return err
		}
		if conv.LastMessageID != nil && *conv.LastMessageID == messageID {
			var latest models.ChatMessage
			err := tx.Where("conversation_id = ?", msg.ConversationID).
				Order("created_at DESC").
				First(&latest).Error
			if err == gorm.ErrRecordNotFound {
				return tx.Model(&conv).Update("last_message_id", nil).Error
			}
			if err != nil {
				return err
			}
			return tx.Model(&conv).Update("last_message_id", latest.ID).Error
		}
		return nil
	})
}

// ArchiveConversation hides a conversation from default listings without
// deleting it
func (s *ChatService) ArchiveConversation(conversationID string) error {
	result := s.DB.Model(&models.ChatConversation{}).
		Where("id = ?", conversationID).
		Update("is_archived", true)
	if result.Error != nil {
		return fmt.Errorf("failed to archive conversation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchMessages does a case-insensitive substring match over content,
// optionally scoped to one conversation, newest first.
func (s *ChatService) SearchMessages(query string, conversationID string) ([]models.ChatMessage, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := s.DB.Where("LOWER(content) LIKE ?", pattern)
	if conversationID != "" {
		q = q.Where("conversation_id = ?", conversationID)
	}
	var msgs []models.ChatMessage
	err := q.Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

// Notifications returns a user's chat notifications, newest first
func (s *ChatService) Notifications(userID string, unreadOnly bool) ([]models.ChatNotification, error) {
	q := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifs []models.ChatNotification
	err := q.Order("created_at DESC").Find(&notifs).Error
	return notifs, err
}

// SetTyping upserts or clears the caller's typing indicator. A fresh true
// call rearms the expiry timer (last writer wins); the indicator clears on
// its own after TypingTTL even without an explicit false.
func (s *ChatService) SetTyping(userID, conversationID string, isTyping bool) {
	key := typingKey{conversationID: conversationID, userID: userID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.typing[key]; ok {
		entry.timer.Stop()
		delete(s.typing, key)
	}

	if !isTyping {
		return
	}

	entry := &typingEntry{startedAt: time.Now()}
	entry.timer = time.AfterFunc(s.TypingTTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if current, ok := s.typing[key]; ok && current == entry {
			delete(s.typing, key)
		}
	})
	s.typing[key] = entry
}

// TypingIn lists who is currently typing in a conversation
func (s *ChatService) TypingIn(conversationID string) []TypingIndicator {
	s.mu.Lock()
	defer s.mu.Unlock()

	var indicators []TypingIndicator
	for key, entry := range s.typing {
		if key.conversationID == conversationID {
			indicators = append(indicators, TypingIndicator{
				ConversationID: key.conversationID,
				UserID:         key.userID,
				StartedAt:      entry.startedAt,
			})
		}
	}
	return indicators
}

// UpdatePresence upserts the caller's presence record
func (s *ChatService) UpdatePresence(userID, status, activity string) error {
	if !IsValidPresenceStatus(status) {
		return fmt.Errorf("%w: presence status %q", ErrInvalidInput, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence[userID] = PresenceRecord{
		UserID:   userID,
		Status:   status,
		Activity: activity,
		LastSeen: time.Now(),
	}
	return nil
}

// Presence returns a user's presence; users never seen report offline
func (s *ChatService) Presence(userID string) PresenceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.presence[userID]; ok {
		return record
	}
	return PresenceRecord{UserID: userID, Status: PresenceOffline}
}
