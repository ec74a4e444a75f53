package submission

import (
	"context"
	"errors"
	"io"
)

var ErrEmptyPatch = errors.New("no updatable fields supplied")

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// DocumentStore uploads a verification document and returns its public URL.
type DocumentStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type SubmitInput struct {
	FullName         string
	Email            string
	OrganizationName string
	Phone            string
	Website          string
	JobTitle         string
	Message          string
	UserID           *string // linked account, when the applicant is signed in
}

// Document is an optional uploaded attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        io.Reader
}
