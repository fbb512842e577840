package handlers

import (
	"net/http"

	"fica_onboarding_go/middleware"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

type createConversationRequest struct {
	Type         string   `json:"type"`
	Participants []string `json:"participants"`
	Name         string   `json:"name"`
	TaskID       *string  `json:"task_id"`
	CaseID       *string  `json:"case_id"`
}

// CreateConversation starts a conversation with the caller as a member
func CreateConversation(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	conv, err := Chat.CreateConversation(user, req.Type, req.Participants, req.Name, req.TaskID, req.CaseID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, conv)
}

// ListConversations returns the caller's non-archived conversations with
// unread counts, most recently active first
func ListConversations(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if convType := c.QueryParam("type"); convType != "" {
		convs, err := Chat.ConversationsByType(user.ID, convType)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(http.StatusOK, convs)
	}

	convs, err := Chat.ListConversations(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, convs)
}

// GetMessages returns a conversation's messages in creation order
func GetMessages(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	conv, err := Chat.Conversation(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	if !conv.HasParticipant(user.ID) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Not a participant"})
	}

	msgs, err := Chat.Messages(conv.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Content     string                     `json:"content"`
	Attachments []services.AttachmentInput `json:"attachments"`
	ReplyToID   *string                    `json:"reply_to_id"`
}

// SendMessage appends a message and fans out notifications
func SendMessage(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	msg, err := Chat.SendMessage(user, c.Param("id"), req.Content, req.Attachments, req.ReplyToID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

type markReadRequest struct {
	MessageID string `json:"message_id"`
}

// MarkAsRead marks one message, or all messages when none given, as read
func MarkAsRead(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := Chat.MarkAsRead(user, c.Param("id"), req.MessageID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type typingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// SetTyping upserts the caller's typing indicator for a conversation
func SetTyping(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req typingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	Chat.SetTyping(user.ID, c.Param("id"), req.IsTyping)
	return c.NoContent(http.StatusNoContent)
}

// GetTyping lists who is typing in a conversation right now
func GetTyping(c echo.Context) error {
	return c.JSON(http.StatusOK, Chat.TypingIn(c.Param("id")))
}

type editMessageRequest struct {
	Content string `json:"content"`
}

// EditMessage mutates a message's content in place
func EditMessage(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req editMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	msg, err := Chat.EditMessage(user, c.Param("id"), req.Content)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

// DeleteMessage hard-deletes a message
func DeleteMessage(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := Chat.DeleteMessage(user, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ArchiveConversation hides a conversation from default listings
func ArchiveConversation(c echo.Context) error {
	if err := Chat.ArchiveConversation(c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchMessages matches message content case-insensitively
func SearchMessages(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q parameter is required"})
	}

	msgs, err := Chat.SearchMessages(query, c.QueryParam("conversation_id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// GetNotifications returns the caller's chat notifications
func GetNotifications(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	unreadOnly := c.QueryParam("unread") == "true"
	notifs, err := Chat.Notifications(user.ID, unreadOnly)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, notifs)
}

type presenceRequest struct {
	Status   string `json:"status"`
	Activity string `json:"activity"`
}

// UpdatePresence upserts the caller's presence record
func UpdatePresence(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req presenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := Chat.UpdatePresence(user.ID, req.Status, req.Activity); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, Chat.Presence(user.ID))
}

// GetPresence returns a user's presence record
func GetPresence(c echo.Context) error {
	return c.JSON(http.StatusOK, Chat.Presence(c.Param("id")))
}
