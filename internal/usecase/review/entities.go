package review

import (
	"errors"
	"strings"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/domain/profile"
)

var (
	ErrEmptyProgress  = errors.New("nothing to save: supply a note, checklist or status")
	ErrReasonRequired = errors.New("a reason is required for reject and clarify")
)

// Effect names used in warnings and the side-effect failure metric.
const (
	EffectEmail     = "email"
	EffectRoleGrant = "role_grant"
)

type ProgressInput struct {
	Actor     *profile.Profile
	Note      *string                     // appended as one note authored by Actor
	Checklist []application.ChecklistItem // nil leaves the checklist untouched
	Status    *application.Status         // open statuses only
}

// empty treats a whitespace-only note as no note.
func (in ProgressInput) empty() bool {
	blankNote := in.Note == nil || strings.TrimSpace(*in.Note) == ""
	return blankNote && in.Checklist == nil && in.Status == nil
}

type DecisionInput struct {
	Action application.Action
	Reason string
	Actor  *profile.Profile
	// Contact overrides the stored applicant identity for the email.
	Contact *application.Contact
}

// DecisionResult reports the committed transition and how its best-effort
// effects went.
type DecisionResult struct {
	Application *application.Application `json:"application"`
	EmailSent   bool                     `json:"email_sent"`
	RoleGranted bool                     `json:"role_granted"`
	Warnings    []string                 `json:"warnings,omitempty"`
}
