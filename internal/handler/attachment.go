package handler

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/repository"
)

// AttachmentHandler records attachment metadata for a submission. The
// upload itself is simulated: no bytes are accepted or stored, the
// handler fabricates plausible PDF metadata and persists only that.
// Real object storage is a planned replacement for this stub.
type AttachmentHandler struct {
	Svc SubmissionService
}

func NewAttachmentHandler(svc SubmissionService) *AttachmentHandler {
	return &AttachmentHandler{Svc: svc}
}

type uploadReq struct {
	SubmissionID string `json:"submission_id"`
	Filename     string `json:"filename"`
}

// Upload handles POST /v1/attachments/upload. The submission must
// exist; a miss is a 404 and nothing is recorded.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	var req uploadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SubmissionID = strings.TrimSpace(req.SubmissionID)
	if req.SubmissionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "submission_id required"})
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = fmt.Sprintf("document-%d.pdf", time.Now().UTC().Unix())
	}

	// Fabricated metadata: PDF between 50KB and 5MB.
	att := model.Attachment{
		Filename:     filename,
		FileType:     "application/pdf",
		FileSize:     int64(50_000 + rand.Intn(4_950_000)),
		URL:          "https://storage.example.com/guarantor-uploads/" + filename,
		SubmissionID: req.SubmissionID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.CreateAttachment(ctx, &att); err != nil {
		if err == repository.ErrSubmissionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "submission not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save attachment failed"})
	}

	return c.JSON(http.StatusCreated, attachmentPart{
		ID:         att.ID,
		Filename:   att.Filename,
		FileType:   att.FileType,
		FileSize:   att.FileSize,
		URL:        att.URL,
		UploadedAt: att.UploadedAt,
	})
}
