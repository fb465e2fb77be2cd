package domain

import "time"

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Credential lifecycle events
	UserRegistrationEvent   AuditEventType = "USER_REGISTERED"
	EmailVerifiedEvent      AuditEventType = "EMAIL_VERIFIED"
	EmailVerifyFailureEvent AuditEventType = "EMAIL_VERIFICATION_FAILED"
	PasswordResetEvent      AuditEventType = "PASSWORD_RESET"
	PasswordChangedEvent    AuditEventType = "PASSWORD_CHANGED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent       AuditEventType = "USER_LOGOUT"
	TokenRefreshEvent     AuditEventType = "TOKEN_REFRESHED"

	// OTP events
	OTPRequestEvent       AuditEventType = "OTP_REQUESTED"
	OTPVerifyEvent        AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger records auth events for later inspection
type AuditLogger interface {
	LogEvent(event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithUser sets the user identity fields
func (e *AuditEvent) WithUser(userID, email string) *AuditEvent {
	e.UserID = userID
	e.Email = email
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
