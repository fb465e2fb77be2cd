package domain

import (
	"testing"
	"time"
)

func TestValidRole(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		valid bool
	}{
		{name: "admin role", role: RoleAdmin, valid: true},
		{name: "investor role", role: RoleInvestor, valid: true},
		{name: "empty role", role: "", valid: false},
		{name: "unknown role", role: "superuser", valid: false},
		{name: "case sensitive", role: "Admin", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRole(tt.role); got != tt.valid {
				t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.valid)
			}
		})
	}
}

func TestValidOTPPurpose(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
		valid   bool
	}{
		{name: "signup purpose", purpose: OTPPurposeSignup, valid: true},
		{name: "login purpose", purpose: OTPPurposeLogin, valid: true},
		{name: "reset password purpose", purpose: OTPPurposeResetPassword, valid: true},
		{name: "empty purpose", purpose: "", valid: false},
		{name: "unknown purpose", purpose: "mfa", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidOTPPurpose(tt.purpose); got != tt.valid {
				t.Errorf("ValidOTPPurpose(%q) = %v, want %v", tt.purpose, got, tt.valid)
			}
		})
	}
}

func TestNewAuditEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewAuditEvent(UserLoginEvent).
		WithUser("user-1", "test@example.com").
		WithMetadata("ip", "127.0.0.1")

	if event.EventType != UserLoginEvent {
		t.Errorf("expected event type %s, got %s", UserLoginEvent, event.EventType)
	}
	if !event.Success {
		t.Error("new events should default to success")
	}
	if event.UserID != "user-1" || event.Email != "test@example.com" {
		t.Errorf("unexpected identity fields: %q %q", event.UserID, event.Email)
	}
	if event.Metadata["ip"] != "127.0.0.1" {
		t.Errorf("expected metadata ip, got %v", event.Metadata["ip"])
	}
	if event.Timestamp.Before(before) {
		t.Error("timestamp should be populated at creation time")
	}
}

func TestAuditEvent_WithError(t *testing.T) {
	event := NewAuditEvent(UserLoginFailureEvent).WithError(ErrInvalidCredentials)

	if event.Success {
		t.Error("WithError should mark the event as failed")
	}
	if event.ErrorMsg != ErrInvalidCredentials.Error() {
		t.Errorf("expected error message %q, got %q", ErrInvalidCredentials.Error(), event.ErrorMsg)
	}
}
