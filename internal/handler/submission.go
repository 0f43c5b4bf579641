package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
	"github.com/finbeam/guarantor-intake/internal/queue"
	"github.com/finbeam/guarantor-intake/internal/repository"
	"github.com/finbeam/guarantor-intake/internal/service"
)

// dateLayout is the wire format for date_of_birth (calendar date, no time part).
const dateLayout = "2006-01-02"

// SubmissionService is the service surface the submission endpoints
// consume. *service.SubmissionService implements it; handler tests
// substitute a stub.
type SubmissionService interface {
	List(ctx context.Context, crit query.Criteria, page query.PageRequest) (service.ListResult, error)
	Get(ctx context.Context, id string) (*model.Submission, error)
	Create(ctx context.Context, sub *model.Submission, userID uint64) error
	Update(ctx context.Context, id string, upd repository.SubmissionUpdate) (*model.Submission, error)
	Delete(ctx context.Context, id string) error
	CreateAttachment(ctx context.Context, a *model.Attachment) error
}

// SubmissionHandler exposes the guarantor submission endpoints.
type SubmissionHandler struct {
	Svc SubmissionService
}

func NewSubmissionHandler(svc SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{Svc: svc}
}

// ----- DTOs -----

type addressPart struct {
	StreetAddress string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
}

type submitReq struct {
	GuarantorName             string      `json:"guarantor_name"`
	RelationshipToBorrower    string      `json:"relationship_to_borrower"`
	Address                   addressPart `json:"address"`
	DateOfBirth               string      `json:"date_of_birth"` // YYYY-MM-DD
	Occupation                string      `json:"occupation"`
	EmployerOrBusiness        string      `json:"employer_or_business"`
	LinkedinProfile           string      `json:"linkedin_profile"`
	CompanyRegistrationNumber string      `json:"company_registration_number"`
	KnownAssociations         []string    `json:"known_associations"`
	Comments                  string      `json:"comments"`
}

// updateReq uses pointers so absent fields stay untouched; an explicit
// empty string clears the column.
type updateReq struct {
	GuarantorName             *string      `json:"guarantor_name"`
	RelationshipToBorrower    *string      `json:"relationship_to_borrower"`
	Address                   *addressPart `json:"address"`
	DateOfBirth               *string      `json:"date_of_birth"`
	Occupation                *string      `json:"occupation"`
	EmployerOrBusiness        *string      `json:"employer_or_business"`
	LinkedinProfile           *string      `json:"linkedin_profile"`
	CompanyRegistrationNumber *string      `json:"company_registration_number"`
	KnownAssociations         *[]string    `json:"known_associations"`
	Comments                  *string      `json:"comments"`
	RecordStatus              *string      `json:"record_status"`
}

type attachmentPart struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	URL        string    `json:"url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type submissionResp struct {
	ID                        string           `json:"id"`
	GuarantorName             string           `json:"guarantor_name"`
	RelationshipToBorrower    string           `json:"relationship_to_borrower"`
	Address                   addressPart      `json:"address"`
	DateOfBirth               string           `json:"date_of_birth"`
	Occupation                string           `json:"occupation"`
	EmployerOrBusiness        string           `json:"employer_or_business"`
	LinkedinProfile           string           `json:"linkedin_profile,omitempty"`
	CompanyRegistrationNumber string           `json:"company_registration_number,omitempty"`
	KnownAssociations         []string         `json:"known_associations"`
	Comments                  string           `json:"comments,omitempty"`
	SubmissionTimestamp       time.Time        `json:"submission_timestamp"`
	RecordStatus              string           `json:"record_status"`
	LastUpdated               time.Time        `json:"last_updated"`
	SubmittedBy               string           `json:"submitted_by,omitempty"`
	Attachments               []attachmentPart `json:"attachments"`
}

type listResp struct {
	Data  []submissionResp `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func toSubmissionResp(s model.Submission) submissionResp {
	atts := make([]attachmentPart, 0, len(s.Attachments))
	for _, a := range s.Attachments {
		atts = append(atts, attachmentPart{
			ID:         a.ID,
			Filename:   a.Filename,
			FileType:   a.FileType,
			FileSize:   a.FileSize,
			URL:        a.URL,
			UploadedAt: a.UploadedAt,
		})
	}
	assoc := s.KnownAssociations
	if assoc == nil {
		assoc = []string{}
	}
	return submissionResp{
		ID:                     s.ID,
		GuarantorName:          s.GuarantorName,
		RelationshipToBorrower: s.RelationshipToBorrower,
		Address: addressPart{
			StreetAddress: s.StreetAddress,
			City:          s.City,
			State:         s.State,
			Zip:           s.Zip,
		},
		DateOfBirth:               s.DateOfBirth.Format(dateLayout),
		Occupation:                s.Occupation,
		EmployerOrBusiness:        s.EmployerOrBusiness,
		LinkedinProfile:           s.LinkedinProfile,
		CompanyRegistrationNumber: s.CompanyRegistrationNumber,
		KnownAssociations:         assoc,
		Comments:                  s.Comments,
		SubmissionTimestamp:       s.SubmissionTimestamp,
		RecordStatus:              s.RecordStatus,
		LastUpdated:               s.LastUpdated,
		SubmittedBy:               s.SubmittedByName,
		Attachments:               atts,
	}
}

// currentUID pulls the numeric user id that JWTAuth stored in context.
// JWT numerics decode as float64.
func currentUID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// Submit handles POST /v1/guarantor/submit: validate, store with the
// pending status and fire the intake audit event.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.GuarantorName = strings.TrimSpace(req.GuarantorName)
	req.RelationshipToBorrower = strings.TrimSpace(req.RelationshipToBorrower)
	if req.GuarantorName == "" || req.RelationshipToBorrower == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guarantor_name and relationship_to_borrower required"})
	}
	dob, err := time.ParseInLocation(dateLayout, req.DateOfBirth, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}

	sub := model.Submission{
		GuarantorName:             req.GuarantorName,
		RelationshipToBorrower:    req.RelationshipToBorrower,
		StreetAddress:             req.Address.StreetAddress,
		City:                      req.Address.City,
		State:                     req.Address.State,
		Zip:                       req.Address.Zip,
		DateOfBirth:               dob,
		Occupation:                strings.TrimSpace(req.Occupation),
		EmployerOrBusiness:        strings.TrimSpace(req.EmployerOrBusiness),
		LinkedinProfile:           strings.TrimSpace(req.LinkedinProfile),
		CompanyRegistrationNumber: strings.TrimSpace(req.CompanyRegistrationNumber),
		KnownAssociations:         req.KnownAssociations,
		Comments:                  req.Comments,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Create(ctx, &sub, currentUID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create submission failed"})
	}

	// Audit event is fire-and-forget; intake never fails because the
	// broker is down.
	go func(ev queue.SubmissionReceivedEvent) {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = service.PublishSubmissionReceived(pctx, ev)
	}(queue.SubmissionReceivedEvent{
		SubmissionID:  sub.ID,
		GuarantorName: sub.GuarantorName,
		RecordStatus:  sub.RecordStatus,
		SubmittedByID: sub.SubmittedByID,
		SubmittedBy:   sub.SubmittedByName,
		ReceivedAt:    sub.SubmissionTimestamp.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toSubmissionResp(sub))
}

// Get handles GET /v1/guarantor/:id.
func (h *SubmissionHandler) Get(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sub, err := h.Svc.Get(ctx, id)
	if err != nil {
		if err == repository.ErrSubmissionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toSubmissionResp(*sub))
}

// Update handles PUT /v1/guarantor/:id: partial update, absent fields
// stay untouched and last_updated is bumped by the store.
func (h *SubmissionHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.SubmissionUpdate{
		GuarantorName:             req.GuarantorName,
		RelationshipToBorrower:    req.RelationshipToBorrower,
		Occupation:                req.Occupation,
		EmployerOrBusiness:        req.EmployerOrBusiness,
		LinkedinProfile:           req.LinkedinProfile,
		CompanyRegistrationNumber: req.CompanyRegistrationNumber,
		KnownAssociations:         req.KnownAssociations,
		Comments:                  req.Comments,
	}
	if req.Address != nil {
		upd.StreetAddress = &req.Address.StreetAddress
		upd.City = &req.Address.City
		upd.State = &req.Address.State
		upd.Zip = &req.Address.Zip
	}
	if req.DateOfBirth != nil {
		dob, err := time.ParseInLocation(dateLayout, *req.DateOfBirth, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		upd.DateOfBirth = &dob
	}
	if req.RecordStatus != nil {
		st := strings.ToLower(strings.TrimSpace(*req.RecordStatus))
		switch st {
		case model.StatusPendingVerification, model.StatusVerified, model.StatusRejected:
			upd.RecordStatus = &st
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown record_status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sub, err := h.Svc.Update(ctx, id, upd)
	if err != nil {
		if err == repository.ErrSubmissionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toSubmissionResp(*sub))
}

// List handles GET /v1/submissions/list with search/status/submitted_by
// filters plus page/limit/sortBy/sortType. Out-of-range paging values
// are clamped, never rejected; an unknown sortBy surfaces as a store
// failure.
func (h *SubmissionHandler) List(c echo.Context) error {
	// submitted_by is the documented spelling; submittedBy is accepted
	// too, mirroring the sort field allow-list.
	submittedBy := c.QueryParam("submitted_by")
	if submittedBy == "" {
		submittedBy = c.QueryParam("submittedBy")
	}
	crit := query.Criteria{
		Search:      c.QueryParam("search"),
		Status:      c.QueryParam("status"),
		SubmittedBy: submittedBy,
	}
	page := query.PageRequest{
		SortBy:   c.QueryParam("sortBy"),
		SortType: c.QueryParam("sortType"),
	}
	page.Page, _ = strconv.Atoi(c.QueryParam("page"))
	page.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.List(ctx, crit, page)
	if err != nil {
		// An unknown sortBy surfaces here as a store failure; the
		// pagination layer deliberately does not validate it.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	data := make([]submissionResp, 0, len(res.Data))
	for _, s := range res.Data {
		data = append(data, toSubmissionResp(s))
	}
	return c.JSON(http.StatusOK, listResp{Data: data, Total: res.Total, Page: res.Page, Limit: res.Limit})
}

// Delete handles DELETE /v1/submissions/:id. Attachments go first so a
// failure can never orphan them.
func (h *SubmissionHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		if err == repository.ErrSubmissionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
