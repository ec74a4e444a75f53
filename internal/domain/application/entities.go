package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrNotFound               = errors.New("application not found")
	ErrAlreadyFinalized       = errors.New("application already finalized")
	ErrInvalidStatus          = errors.New("invalid application status")
	ErrInvalidAction          = errors.New("invalid review action")
	ErrInvalidKind            = errors.New("invalid application kind")
	ErrChecklistColumnMissing = errors.New("verification_checklist column missing")
	ErrConcurrentUpdate       = errors.New("application was modified concurrently")
)

// Kind selects which onboarding table an application lives in.
type Kind string

const (
	KindEnterprise Kind = "enterprise"
	KindEducator   Kind = "educator"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindEnterprise, KindEducator:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) TableName() string {
	if k == KindEducator {
		return "educator_applications"
	}
	return "enterprise_requests"
}

// InitialStatus is the status a fresh submission of this kind starts in.
func (k Kind) InitialStatus() Status {
	if k == KindEducator {
		return StatusPendingVerification
	}
	return StatusPending
}

type Status string

const (
	StatusPending                Status = "PENDING"
	StatusPendingVerification    Status = "PENDING_VERIFICATION"
	StatusClarificationRequested Status = "CLARIFICATION_REQUESTED"
	StatusApproved               Status = "APPROVED"
	StatusRejected               Status = "REJECTED"
)

var TerminalStatuses = []Status{StatusApproved, StatusRejected}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Known() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusPendingVerification, StatusClarificationRequested, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool { return s == StatusApproved || s == StatusRejected }

// IsOpen reports whether reviewers may still act on the application.
func (s Status) IsOpen() bool { return s.Known() && !s.IsTerminal() }

// FinalizedError wraps ErrAlreadyFinalized with the application's status.
func FinalizedError(s Status) error {
	return fmt.Errorf("%w: Application is already %s and cannot be modified", ErrAlreadyFinalized, s)
}

type ChecklistItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// Application is one onboarding request. Enterprise requests and educator
// applications share this layout in separate tables.
type Application struct {
	ID                    string                             `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Kind                  Kind                               `gorm:"-" json:"kind"`
	FullName              string                             `gorm:"column:full_name;not null" json:"full_name"`
	Email                 string                             `gorm:"column:email;not null;index" json:"email"`
	OrganizationName      string                             `gorm:"column:organization_name;not null" json:"organization_name"`
	Phone                 string                             `gorm:"column:phone" json:"phone,omitempty"`
	Website               string                             `gorm:"column:website" json:"website,omitempty"`
	JobTitle              string                             `gorm:"column:job_title" json:"job_title,omitempty"`
	Message               string                             `gorm:"column:message;type:text" json:"message,omitempty"`
	DocumentURL           string                             `gorm:"column:document_url;type:text" json:"document_url,omitempty"`
	Status                Status                             `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	AdminNotes            AdminNotes                         `gorm:"column:admin_notes;type:text" json:"admin_notes"`
	VerificationChecklist datatypes.JSONSlice[ChecklistItem] `gorm:"column:verification_checklist" json:"verification_checklist,omitempty"`
	UserID                *string                            `gorm:"column:user_id;type:varchar(36)" json:"user_id,omitempty"`
	Version               int64                              `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt             time.Time                          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time                          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Checklist returns the dedicated column value, or the one carried by the
// metadata note when the column is empty.
func (a *Application) Checklist() []ChecklistItem {
	if len(a.VerificationChecklist) > 0 {
		return a.VerificationChecklist
	}
	if m, ok := a.AdminNotes.Metadata(); ok {
		return m.VerificationChecklist
	}
	return nil
}

// Contact is the applicant identity used for notifications.
type Contact struct {
	Name             string
	Email            string
	OrganizationName string
}

func (a *Application) Contact() Contact {
	return Contact{Name: a.FullName, Email: a.Email, OrganizationName: a.OrganizationName}
}

// Fields is a whitelisted set of columns a passthrough edit may touch.
type Fields struct {
	FullName         *string
	Email            *string
	OrganizationName *string
	Phone            *string
	Website          *string
	JobTitle         *string
	Message          *string
}

func (f Fields) Columns() map[string]any {
	out := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			out[col] = strings.TrimSpace(*v)
		}
	}
	set("full_name", f.FullName)
	set("email", f.Email)
	set("organization_name", f.OrganizationName)
	set("phone", f.Phone)
	set("website", f.Website)
	set("job_title", f.JobTitle)
	set("message", f.Message)
	return out
}

func (f Fields) Empty() bool { return len(f.Columns()) == 0 }

// ProgressUpdate is written by save-progress. Nil fields are left as-is.
type ProgressUpdate struct {
	Status    *Status
	Notes     AdminNotes
	Checklist []ChecklistItem
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

// Action is a reviewer decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionClarify Action = "clarify"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionApprove, ActionReject, ActionClarify:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// NeedsReason is true for actions whose note and email carry a reason.
func (a Action) NeedsReason() bool { return a == ActionReject || a == ActionClarify }

func (a Action) TargetStatus() Status {
	switch a {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	default:
		return StatusClarificationRequested
	}
}

// NoteContent is the audit text recorded for the decision.
func (a Action) NoteContent(reason string) string {
	switch a {
	case ActionApprove:
		return "APPROVED: Access granted."
	case ActionReject:
		return "REJECTED: " + strings.TrimSpace(reason)
	default:
		return "CLARIFICATION REQUESTED: " + strings.TrimSpace(reason)
	}
}
