package main

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultNotificationDisplay is how long an outcome notification stays up.
const DefaultNotificationDisplay = 5 * time.Second

type NotificationKind string

const (
	NotificationNone    NotificationKind = ""
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Kind NotificationKind
	Text string
}

func (n Notification) Visible() bool {
	return n.Kind != NotificationNone
}

// FormState holds what the visitor typed into the contact form.
type FormState struct {
	Name    string
	Email   string
	Message string
	File    *Attachment
}

// Outcome is the result of one submission. Reason is empty when OK.
type Outcome struct {
	OK     bool
	Reason string
}

// Sender delivers a contact submission to the email service.
type Sender interface {
	Send(ctx context.Context, form FormState) error
}

// ContactFlow is the contact form of a single page view: its fields, the
// attachment check, the busy flag while a submission is in flight and the
// notification shown once it settles.
type ContactFlow struct {
	mu      sync.Mutex
	sender  Sender
	form    FormState
	fileErr string
	busy    bool
	notice  Notification

	display   time.Duration
	afterFunc func(time.Duration, func())
}

type FlowOption func(*ContactFlow)

// WithNotificationDisplay changes how long notifications stay visible.
func WithNotificationDisplay(d time.Duration) FlowOption {
	return func(f *ContactFlow) {
		f.display = d
	}
}

func withAfterFunc(fn func(time.Duration, func())) FlowOption {
	return func(f *ContactFlow) {
		f.afterFunc = fn
	}
}

func NewContactFlow(sender Sender, opts ...FlowOption) *ContactFlow {
	f := &ContactFlow{
		sender:  sender,
		display: DefaultNotificationDisplay,
		afterFunc: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ContactFlow) SetName(v string) {
	f.mu.Lock()
	f.form.Name = v
	f.mu.Unlock()
}

func (f *ContactFlow) SetEmail(v string) {
	f.mu.Lock()
	f.form.Email = v
	f.mu.Unlock()
}

func (f *ContactFlow) SetMessage(v string) {
	f.mu.Lock()
	f.form.Message = v
	f.mu.Unlock()
}

// SelectFile stores the picked attachment. Files over MaxAttachmentSize are
// refused: the file error is set and no file is kept. A nil attachment clears
// the selection.
func (f *ContactFlow) SelectFile(att *Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if att != nil && att.Size > MaxAttachmentSize {
		f.fileErr = fileTooLargeText
		f.form.File = nil
		return &FileTooLargeError{Filename: att.Filename, Size: att.Size}
	}
	f.fileErr = ""
	f.form.File = att
	return nil
}

// Submit sends the current form once. The busy flag is held for the whole
// request and released however it ends. On success the form is emptied; on
// failure it is kept as typed so the visitor can retry.
func (f *ContactFlow) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Outcome{Reason: "submission already in progress"}
	}
	f.busy = true
	form := f.form
	f.mu.Unlock()

	defer f.setBusy(false)

	if err := f.sender.Send(ctx, form); err != nil {
		log.Printf("Error sending contact message: %v", err)
		f.notify(NotificationError, submitFailureText)
		return Outcome{Reason: failureReason(err)}
	}

	f.notify(NotificationSuccess, submitSuccessText)
	f.mu.Lock()
	f.form = FormState{}
	f.mu.Unlock()
	return Outcome{OK: true}
}

// notify shows a notification and schedules its clear. Earlier clears are
// not cancelled, so one may remove a newer notification before its own
// window ends.
func (f *ContactFlow) notify(kind NotificationKind, text string) {
	f.mu.Lock()
	f.notice = Notification{Kind: kind, Text: text}
	f.mu.Unlock()

	f.afterFunc(f.display, f.clearNotification)
}

func (f *ContactFlow) clearNotification() {
	f.mu.Lock()
	f.notice = Notification{}
	f.mu.Unlock()
}

func (f *ContactFlow) setBusy(v bool) {
	f.mu.Lock()
	f.busy = v
	f.mu.Unlock()
}

func (f *ContactFlow) Form() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *ContactFlow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *ContactFlow) FileError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fileErr
}

func (f *ContactFlow) Notification() Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// DisplayWindow is how long this flow keeps a notification up.
func (f *ContactFlow) DisplayWindow() time.Duration {
	return f.display
}
