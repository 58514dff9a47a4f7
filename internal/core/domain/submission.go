package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength caps a submission message, counted in characters
const MaxMessageLength = 5000

// SubmissionKind distinguishes the outbound messages the catalog can send
type SubmissionKind string

const (
	KindCertificationRequest SubmissionKind = "certification_request"
	KindContact              SubmissionKind = "contact"
)

// Submission is the payload sent to the notification endpoint
type Submission struct {
	ID             string         `json:"id"`
	Kind           SubmissionKind `json:"kind"`
	Product        string         `json:"product,omitempty"`
	RequesterName  string         `json:"requester_name,omitempty"`
	RequesterEmail string         `json:"requester_email"`
	Message        string         `json:"message"`
	CreatedAt      time.Time      `json:"created_at"`
}

// DefaultRequestMessage is used when a certification request has no message
func DefaultRequestMessage(product string) string {
	return fmt.Sprintf("Hi AM Hub, I'd like the certification for %s…", product)
}

// Normalize trims fields and fills the default request message
func (s *Submission) Normalize() {
	s.Product = strings.TrimSpace(s.Product)
	s.RequesterName = strings.TrimSpace(s.RequesterName)
	s.RequesterEmail = strings.TrimSpace(s.RequesterEmail)
	s.Message = strings.TrimSpace(s.Message)
	if s.Kind == KindCertificationRequest && s.Message == "" && s.Product != "" {
		s.Message = DefaultRequestMessage(s.Product)
	}
}

// Validate checks the payload shape; it does not check the product exists
func (s Submission) Validate() error {
	switch s.Kind {
	case KindCertificationRequest:
		if s.Product == "" {
			return fmt.Errorf("product is required for a certification request")
		}
	case KindContact:
		if s.Message == "" {
			return fmt.Errorf("message cannot be empty")
		}
	default:
		return fmt.Errorf("unknown submission kind %q", s.Kind)
	}

	if s.RequesterEmail == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(s.RequesterEmail)
	if err != nil || addr.Address != s.RequesterEmail {
		return fmt.Errorf("invalid email %q", s.RequesterEmail)
	}
	if utf8.RuneCountInString(s.Message) > MaxMessageLength {
		return fmt.Errorf("message too long (max %d characters)", MaxMessageLength)
	}
	return nil
}

// Subject returns a one-line summary for notification channels
func (s Submission) Subject() string {
	if s.Kind == KindCertificationRequest {
		return "Certification request: " + s.Product
	}
	if s.RequesterName != "" {
		return "Contact message from " + s.RequesterName
	}
	return "Contact message from " + s.RequesterEmail
}
