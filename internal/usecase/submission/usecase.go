package submission

import (
	"context"
	"strings"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/infrastructure/logging"
	"backoffice-review/internal/infrastructure/metrics"
	"backoffice-review/pkg/id"

	"github.com/labstack/gommon/log"
)

type Usecase struct {
	repo    application.Repository
	store   DocumentStore
	log     logging.Logger
	metrics *metrics.Metrics
}

// NewUsecase: store may be nil, in which case documents are dropped.
func NewUsecase(repo application.Repository, store DocumentStore, logger logging.Logger, m *metrics.Metrics) *Usecase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Usecase{repo: repo, store: store, log: logger, metrics: m}
}

func (u *Usecase) SubmitApplication(ctx context.Context, kind application.Kind, in SubmitInput, doc *Document) (*application.Application, error) {
	a := &application.Application{
		ID:               id.New(),
		Kind:             kind,
		FullName:         strings.TrimSpace(in.FullName),
		Email:            strings.TrimSpace(in.Email),
		OrganizationName: strings.TrimSpace(in.OrganizationName),
		Phone:            strings.TrimSpace(in.Phone),
		Website:          strings.TrimSpace(in.Website),
		JobTitle:         strings.TrimSpace(in.JobTitle),
		Message:          strings.TrimSpace(in.Message),
		Status:           kind.InitialStatus(),
		AdminNotes:       application.AdminNotes{},
		UserID:           in.UserID,
		Version:          1,
	}
	if doc != nil {
		a.DocumentURL = u.upload(ctx, kind, doc)
	}

	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	u.metrics.ObserveSubmission(string(kind))
	u.log.Infoj(log.JSON{"msg": "application submitted", "kind": kind, "id": a.ID, "has_document": a.DocumentURL != ""})
	return a, nil
}

// upload is best-effort: any failure leaves the submission without a document.
func (u *Usecase) upload(ctx context.Context, kind application.Kind, doc *Document) string {
	if u.store == nil {
		u.log.Warnj(log.JSON{"msg": "document store not configured; dropping upload", "kind": kind, "file": doc.Filename})
		return ""
	}
	key := id.StorageKey(string(kind), doc.Filename)
	url, err := u.store.Upload(ctx, key, doc.ContentType, doc.Body)
	if err != nil {
		u.metrics.ObserveEffectFailure("document_upload")
		u.log.Errorj(log.JSON{"msg": "document upload failed", "kind": kind, "key": key, "error": err.Error()})
		return ""
	}
	return url
}

func (u *Usecase) GetApplication(ctx context.Context, kind application.Kind, appID string) (*application.Application, error) {
	return u.repo.GetByID(ctx, kind, appID)
}

func (u *Usecase) ListApplications(ctx context.Context, kind application.Kind, f application.ListFilter) ([]application.Application, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	out, err := u.repo.List(ctx, kind, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []application.Application{}
	}
	return out, nil
}

// UpdateApplicationFields is a passthrough edit of contact fields; it
// performs no status checks.
func (u *Usecase) UpdateApplicationFields(ctx context.Context, kind application.Kind, appID string, f application.Fields) (*application.Application, error) {
	if f.Empty() {
		return nil, ErrEmptyPatch
	}
	if err := u.repo.UpdateFields(ctx, kind, appID, f); err != nil {
		return nil, err
	}
	return u.repo.GetByID(ctx, kind, appID)
}
