package http

import (
	"errors"
	"net/http"
	"strings"

	"backoffice-review/internal/domain/application"
	"backoffice-review/internal/usecase/submission"

	"github.com/labstack/echo/v4"
)

// MaxDocumentBytes caps the optional verification document.
const MaxDocumentBytes = 10 << 20

type ApplicationHandler struct{ uc *submission.Usecase }

func NewApplicationHandler(uc *submission.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// Accepts JSON or multipart/form-data (with an optional `document` file).
type submitReq struct {
	FullName         string `json:"full_name"         form:"full_name"         validate:"notblank,max=200"`
	Email            string `json:"email"             form:"email"             validate:"required,email,max=320"`
	OrganizationName string `json:"organization_name" form:"organization_name" validate:"notblank,max=200"`
	Phone            string `json:"phone"             form:"phone"             validate:"omitempty,phone"`
	Website          string `json:"website"           form:"website"           validate:"omitempty,url,max=500"`
	JobTitle         string `json:"job_title"         form:"job_title"         validate:"omitempty,max=200"`
	Message          string `json:"message"           form:"message"           validate:"omitempty,max=5000"`
	UserID           string `json:"user_id"           form:"user_id"           validate:"omitempty,uuid"`
}

func (r submitReq) input() submission.SubmitInput {
	in := submission.SubmitInput{
		FullName:         r.FullName,
		Email:            r.Email,
		OrganizationName: r.OrganizationName,
		Phone:            r.Phone,
		Website:          r.Website,
		JobTitle:         r.JobTitle,
		Message:          r.Message,
	}
	if uid := strings.ToLower(strings.TrimSpace(r.UserID)); uid != "" {
		in.UserID = &uid
	}
	return in
}

func (h *ApplicationHandler) Submit(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	var doc *submission.Document
	if isMultipart(c) {
		fh, err := c.FormFile("document")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return badBody(c)
		case fh.Size > MaxDocumentBytes:
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "document", Message: "must be at most 10MB"}},
			})
		default:
			f, err := fh.Open()
			if err != nil {
				return badBody(c)
			}
			defer f.Close()
			doc = &submission.Document{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Body:        f,
			}
		}
	}

	a, err := h.uc.SubmitApplication(c.Request().Context(), kind, req.input(), doc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

type listResp struct {
	Items  []application.Application `json:"items"`
	Limit  int                       `json:"limit"`
	Offset int                       `json:"offset"`
}

func (h *ApplicationHandler) List(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var (
		status        string
		limit, offset int
	)
	if err := echo.QueryParamsBinder(c).
		String("status", &status).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters"})
	}

	f := application.ListFilter{Limit: limit, Offset: offset}
	if status != "" {
		if f.Status, err = application.ParseStatus(status); err != nil {
			return writeError(c, err)
		}
	}
	items, err := h.uc.ListApplications(c.Request().Context(), kind, f)
	if err != nil {
		return writeError(c, err)
	}

	// echo the clamped paging back
	switch {
	case f.Limit <= 0:
		f.Limit = submission.DefaultListLimit
	case f.Limit > submission.MaxListLimit:
		f.Limit = submission.MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return c.JSON(http.StatusOK, listResp{Items: items, Limit: f.Limit, Offset: f.Offset})
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.GetApplication(c.Request().Context(), kind, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Absent fields are left untouched.
type patchReq struct {
	FullName         *string `json:"full_name"         validate:"omitempty,notblank,max=200"`
	Email            *string `json:"email"             validate:"omitempty,email,max=320"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,notblank,max=200"`
	Phone            *string `json:"phone"             validate:"omitempty,phone"`
	Website          *string `json:"website"           validate:"omitempty,url,max=500"`
	JobTitle         *string `json:"job_title"         validate:"omitempty,max=200"`
	Message          *string `json:"message"           validate:"omitempty,max=5000"`
}

func (h *ApplicationHandler) Patch(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req patchReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	a, err := h.uc.UpdateApplicationFields(c.Request().Context(), kind, c.Param("id"), application.Fields(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
