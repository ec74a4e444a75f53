package http

import (
	"net/http"

	"backoffice-review/internal/adapter/middleware"
	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/usecase/review"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct{ uc *review.Usecase }

func NewReviewHandler(uc *review.Usecase) *ReviewHandler { return &ReviewHandler{uc: uc} }

type checklistItemReq struct {
	Label   string `json:"label"   validate:"notblank,max=200"`
	Checked bool   `json:"checked"`
}

// A present but empty checklist clears it; an absent one leaves it as-is.
type progressReq struct {
	Note      *string            `json:"note"      validate:"omitempty,max=5000"`
	Checklist []checklistItemReq `json:"checklist" validate:"omitempty,max=100,dive"`
	Status    *string            `json:"status"`
}

func (h *ReviewHandler) SaveProgress(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req progressReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	in := review.ProgressInput{Actor: middleware.ActorFrom(c), Note: req.Note}
	if req.Checklist != nil {
		in.Checklist = make([]application.ChecklistItem, 0, len(req.Checklist))
		for _, it := range req.Checklist {
			in.Checklist = append(in.Checklist, application.ChecklistItem{Label: it.Label, Checked: it.Checked})
		}
	}
	if req.Status != nil {
		st, err := application.ParseStatus(*req.Status)
		if err != nil {
			return writeError(c, err)
		}
		in.Status = &st
	}

	a, err := h.uc.SaveReviewProgress(c.Request().Context(), kind, c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

type contactReq struct {
	Name             string `json:"name"              validate:"max=200"`
	Email            string `json:"email"             validate:"omitempty,email"`
	OrganizationName string `json:"organization_name" validate:"max=200"`
}

type decisionReq struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason" validate:"max=2000"`
	// overrides the stored applicant identity for the email
	Contact *contactReq `json:"contact"`
}

func (h *ReviewHandler) Decide(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	action, err := application.ParseAction(req.Action)
	if err != nil {
		return writeError(c, err)
	}

	in := review.DecisionInput{Action: action, Reason: req.Reason, Actor: middleware.ActorFrom(c)}
	if req.Contact != nil {
		in.Contact = &application.Contact{
			Name:             req.Contact.Name,
			Email:            req.Contact.Email,
			OrganizationName: req.Contact.OrganizationName,
		}
	}

	res, err := h.uc.HandleDecision(c.Request().Context(), kind, c.Param("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
