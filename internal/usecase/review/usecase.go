package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/domain/profile"
	"backoffice-review/internal/domain/uow"
	"backoffice-review/internal/infrastructure/logging"
	"backoffice-review/internal/infrastructure/mailer"
	"backoffice-review/internal/infrastructure/metrics"

	"github.com/labstack/gommon/log"
)

type Options struct {
	// BaseURL is linked from notification emails.
	BaseURL string
	// ChecklistFallback folds the checklist into admin_notes when the
	// table has no verification_checklist column.
	ChecklistFallback bool
}

type Usecase struct {
	repo     application.Repository
	profiles profile.Repository
	uow      uow.UnitOfWork
	mailer   mailer.Sender
	log      logging.Logger
	metrics  *metrics.Metrics
	opts     Options
	now      func() time.Time
}

// NewUsecase: the sender is constructed once at startup and injected here.
func NewUsecase(apps application.Repository, profiles profile.Repository, tx uow.UnitOfWork, sender mailer.Sender, logger logging.Logger, m *metrics.Metrics, opts Options) *Usecase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Usecase{
		repo:     apps,
		profiles: profiles,
		uow:      tx,
		mailer:   sender,
		log:      logger,
		metrics:  m,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func actorName(p *profile.Profile) string {
	if p == nil {
		return profile.DisplayName("", "")
	}
	return p.DisplayName()
}

// SaveReviewProgress appends an optional note and writes checklist/status
// under a row lock.
func (u *Usecase) SaveReviewProgress(ctx context.Context, kind application.Kind, appID string, in ProgressInput) (*application.Application, error) {
	if in.empty() {
		return nil, ErrEmptyProgress
	}
	if in.Status != nil && !in.Status.IsOpen() {
		return nil, fmt.Errorf("%w: %s is set through a decision", application.ErrInvalidStatus, *in.Status)
	}

	now := u.now()
	write := func(fold bool) error {
		return u.uow.WithinApplicationTx(ctx, kind, appID, func(r uow.Repos, a *application.Application) error {
			upd, err := progressUpdate(a, in, actorName(in.Actor), now, fold)
			if err != nil {
				return err
			}
			return r.Applications.UpdateProgress(ctx, kind, appID, upd)
		})
	}

	err := write(false)
	if errors.Is(err, application.ErrChecklistColumnMissing) && u.opts.ChecklistFallback {
		u.metrics.ObserveChecklistFallback()
		u.log.Warnj(log.JSON{"msg": "checklist column missing; storing checklist in admin_notes", "kind": kind, "id": appID})
		// the failed statement aborted the first tx, so retry in a fresh one
		err = write(true)
	}
	if err != nil {
		return nil, err
	}
	return u.repo.GetByID(ctx, kind, appID)
}

func progressUpdate(a *application.Application, in ProgressInput, author string, now time.Time, fold bool) (application.ProgressUpdate, error) {
	var upd application.ProgressUpdate
	if in.Status != nil {
		if a.Status.IsTerminal() {
			return upd, application.FinalizedError(a.Status)
		}
		st := *in.Status
		upd.Status = &st
	}

	notes, touched := a.AdminNotes, false
	if in.Note != nil {
		if text := strings.TrimSpace(*in.Note); text != "" {
			notes = notes.Append(application.AdminNote{Author: author, Timestamp: now, Content: text})
			touched = true
		}
	}
	if in.Checklist != nil {
		if fold {
			notes = notes.WithMetadata(in.Checklist, now)
			touched = true
		} else {
			upd.Checklist = in.Checklist
		}
	}
	if touched {
		upd.Notes = notes
	}
	return upd, nil
}

func elevatedRole(kind application.Kind) profile.Role {
	if kind == application.KindEducator {
		return profile.RoleEducator
	}
	return profile.RoleEnterpriseAdmin
}

// HandleDecision applies approve/reject/clarify. Once the status write
// commits, the role grant and email are best-effort: failures are logged,
// counted and reported in the result, never returned.
func (u *Usecase) HandleDecision(ctx context.Context, kind application.Kind, appID string, in DecisionInput) (*DecisionResult, error) {
	action, err := application.ParseAction(string(in.Action))
	if err != nil {
		return nil, err
	}
	if action.NeedsReason() && strings.TrimSpace(in.Reason) == "" {
		return nil, ErrReasonRequired
	}

	a, err := u.repo.GetByID(ctx, kind, appID)
	if err != nil {
		return nil, err
	}
	if a.Status.IsTerminal() {
		u.metrics.ObserveDecision(string(kind), string(action), "finalized")
		return nil, application.FinalizedError(a.Status)
	}

	note := application.AdminNote{
		Author:    actorName(in.Actor),
		Timestamp: u.now(),
		Content:   action.NoteContent(in.Reason),
	}
	notes := a.AdminNotes.Append(note)
	status := action.TargetStatus()

	if err := u.repo.UpdateDecision(ctx, kind, appID, a.Version, status, notes); err != nil {
		outcome := "error"
		if errors.Is(err, application.ErrConcurrentUpdate) {
			outcome = "conflict"
		}
		u.metrics.ObserveDecision(string(kind), string(action), outcome)
		return nil, err
	}
	a.Status, a.AdminNotes, a.Version = status, notes, a.Version+1
	u.metrics.ObserveDecision(string(kind), string(action), "applied")
	u.log.Infoj(log.JSON{"msg": "decision applied", "kind": kind, "id": appID, "action": action, "status": status, "actor": note.Author})

	res := &DecisionResult{Application: a}
	if action == application.ActionApprove {
		u.grantRole(ctx, a, res)
	}
	u.notify(ctx, a, action, in, res)
	return res, nil
}

func (u *Usecase) grantRole(ctx context.Context, a *application.Application, res *DecisionResult) {
	if a.UserID == nil || strings.TrimSpace(*a.UserID) == "" {
		return
	}
	role := elevatedRole(a.Kind)
	if err := u.profiles.UpdateRole(ctx, *a.UserID, role); err != nil {
		u.effectFailed(res, EffectRoleGrant, err, log.JSON{"kind": a.Kind, "id": a.ID, "user_id": *a.UserID, "role": role})
		return
	}
	res.RoleGranted = true
}

func (u *Usecase) notify(ctx context.Context, a *application.Application, action application.Action, in DecisionInput, res *DecisionResult) {
	to := a.Contact()
	if c := in.Contact; c != nil {
		if c.Email != "" {
			to.Email = c.Email
		}
		if c.Name != "" {
			to.Name = c.Name
		}
		if c.OrganizationName != "" {
			to.OrganizationName = c.OrganizationName
		}
	}
	fields := log.JSON{"kind": a.Kind, "id": a.ID, "to": to.Email, "action": action}
	if u.mailer == nil {
		u.effectFailed(res, EffectEmail, errors.New("no mail sender configured"), fields)
		return
	}
	msg, err := mailer.DecisionEmail(action, a.Kind, to, in.Reason, u.opts.BaseURL)
	if err == nil {
		err = u.mailer.Send(ctx, msg)
	}
	if err != nil {
		u.effectFailed(res, EffectEmail, err, fields)
		return
	}
	res.EmailSent = true
}

func (u *Usecase) effectFailed(res *DecisionResult, effect string, err error, fields log.JSON) {
	u.metrics.ObserveEffectFailure(effect)
	fields["msg"] = effect + " failed after decision"
	fields["error"] = err.Error()
	u.log.Errorj(fields)
	res.Warnings = append(res.Warnings, effect+" failed: "+err.Error())
}
