package services

import "errors"

// Sentinel errors shared across services. Lookup misses are surfaced
// explicitly rather than treated as silent no-ops.
var (
	ErrNotFound        = errors.New("record not found")
	ErrNotParticipant  = errors.New("user is not a participant of the conversation")
	ErrNotSender       = errors.New("only the sender may modify a message")
	ErrCaseLocked      = errors.New("case is not editable in its current status")
	ErrNoClientType    = errors.New("no client type selected")
	ErrInvalidInput    = errors.New("invalid input")
	ErrRoleNotAllowed  = errors.New("user role does not permit this operation")
	ErrTerminalStatus  = errors.New("case already reached a final decision")
	ErrBadTransition   = errors.New("status transition not allowed")
	ErrReplyOtherConv  = errors.New("reply target belongs to a different conversation")
	ErrDocumentTooBig  = errors.New("document exceeds maximum allowed size")
	ErrDocumentType    = errors.New("document MIME type not allowed for this requirement")
	ErrUnknownRequired = errors.New("unknown document requirement")
)
