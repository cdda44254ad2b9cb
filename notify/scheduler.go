package notify

import (
	"context"
	"errors"
)

// ChannelID is the notification channel reminders are delivered on.
const ChannelID = "daily-reminder-channel"

// DefaultSound is the sound played when a reminder fires.
const DefaultSound = "default"

// Permission is the user's answer to a notification permission request.
type Permission string

const (
	// PermissionGranted allows notifications to be scheduled.
	PermissionGranted Permission = "granted"

	// PermissionDenied forbids scheduling notifications.
	PermissionDenied Permission = "denied"
)

var (
	// ErrUnknownHandle is returned when cancelling a handle that is not scheduled.
	ErrUnknownHandle = errors.New("unknown notification handle")

	// ErrPermissionDenied is returned when scheduling without permission.
	ErrPermissionDenied = errors.New("notification permission denied")
)

// Content is what the user sees when a notification fires.
type Content struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Sound   string `json:"sound,omitempty"`
	Sticky  bool   `json:"sticky,omitempty"`
	Channel string `json:"channel,omitempty"`
}

// Scheduler requests and cancels notifications.
type Scheduler interface {
	// RequestPermission asks for permission to deliver notifications.
	RequestPermission(ctx context.Context) (Permission, error)

	// Schedule registers a notification and returns its handle.
	Schedule(ctx context.Context, content Content, trigger Trigger) (string, error)

	// Cancel removes a scheduled notification.
	Cancel(ctx context.Context, handle string) error
}
