package main

import (
	"errors"
	"fmt"
)

const (
	fileTooLargeText  = "File size must not exceed 5MB."
	genericRejection  = "Failed to send email"
	submitFailureText = "Failed to send message. Please try again later."
	submitSuccessText = "Message sent successfully! I'll get back to you soon."
)

// ErrFileTooLarge is matched by every FileTooLargeError.
var ErrFileTooLarge = errors.New("attachment exceeds size limit")

// FileTooLargeError rejects an attachment before anything touches the network.
type FileTooLargeError struct {
	Filename string
	Size     int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("attachment %q is %d bytes, limit is %d", e.Filename, e.Size, MaxAttachmentSize)
}

func (e *FileTooLargeError) Is(target error) bool {
	return target == ErrFileTooLarge
}

// TransportError means the request could not be sent or its response could
// not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("contact %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerRejection is a response from the email service with a non-2xx status.
type ServerRejection struct {
	Status  int
	Message string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("email service returned %d: %s", e.Status, e.Message)
}

// failureReason picks the text recorded in an Outcome for a failed send.
func failureReason(err error) string {
	var rejection *ServerRejection
	if errors.As(err, &rejection) {
		return rejection.Message
	}
	return err.Error()
}
