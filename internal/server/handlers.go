package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/admin"
	"github.com/doron007/realtechee-forms/pkg/forms"
	"github.com/doron007/realtechee-forms/pkg/model"
	"github.com/doron007/realtechee-forms/pkg/render"
	"github.com/doron007/realtechee-forms/pkg/upload"
)

type formSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}

func (s *Server) handleListForms(c *fiber.Ctx) error {
	ids := s.forms.Forms()
	summaries := make([]formSummary, 0, len(ids))
	for _, id := range ids {
		def, ok := s.forms.Form(id)
		if !ok {
			continue
		}
		summaries = append(summaries, formSummary{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			Endpoint:    def.Endpoint,
		})
	}
	return c.JSON(summaries)
}

func (s *Server) handleRenderForm(c *fiber.Ctx) error {
	def, ok := s.forms.Form(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "form not found")
	}

	page, err := s.html.Render(c.Context(), def, render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, render.SessionField(upload.NewSessionID())),
	})
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, s.html.ContentType())
	return c.Send(page)
}

type submissionRequest struct {
	Values map[string]any       `json:"values"`
	Files  []model.UploadedFile `json:"files,omitempty"`
}

func (s *Server) handleCreateSubmission(c *fiber.Ctx) error {
	def, ok := s.forms.Form(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "form not found")
	}

	var req submissionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Values == nil {
		req.Values = map[string]any{}
	}

	schema := s.schemaFor(def)
	if fieldErrors := schema.Validate(req.Values); len(fieldErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": fieldErrors,
		})
	}

	submission := forms.Normalize(def, req.Values, req.Files, s.now())
	record, err := s.store.Create(c.Context(), submission)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

type uploadResponse struct {
	Uploaded []model.UploadedFile `json:"uploaded"`
	Failed   []uploadFailure      `json:"failed,omitempty"`
}

type uploadFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	if s.uploader == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "uploads are not configured")
	}

	multipart, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form")
	}

	address := c.FormValue("address")
	sessionID := c.FormValue("sessionId")

	var (
		files   []upload.File
		closers []func() error
	)
	defer func() {
		for _, closeFile := range closers {
			_ = closeFile()
		}
	}()

	for _, headers := range multipart.File {
		for _, header := range headers {
			opened, err := header.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "unreadable file "+header.Filename)
			}
			closers = append(closers, opened.Close)
			files = append(files, upload.File{
				Name:        header.Filename,
				Size:        header.Size,
				ContentType: header.Header.Get(fiber.HeaderContentType),
				Body:        opened,
			})
		}
	}
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files in request")
	}

	result, err := s.uploader.UploadBatch(c.Context(), files, address, sessionID, nil)
	var batchErr *upload.BatchError
	if errors.As(err, &batchErr) {
		return fiber.NewError(fiber.StatusBadRequest, batchErr.Error())
	}
	if err != nil {
		return err
	}

	response := uploadResponse{Uploaded: result.Uploaded}
	for _, failure := range result.Failed {
		response.Failed = append(response.Failed, uploadFailure{
			Filename: failure.Filename,
			Error:    "upload failed, please retry",
		})
	}
	return c.JSON(response)
}

func (s *Server) handleAdminColumns(c *fiber.Ctx) error {
	columns, err := admin.DefaultColumns()
	if err != nil {
		return err
	}
	return c.JSON(columns)
}

func (s *Server) handleAdminList(c *fiber.Ctx) error {
	query := store.Query{
		FormID:          c.Query("form"),
		Filter:          c.Query("filter"),
		IncludeArchived: c.QueryBool("includeArchived"),
		SortBy:          c.Query("sortBy"),
		Desc:            c.QueryBool("desc"),
	}
	if limit, err := strconv.ParseInt(c.Query("limit", "0"), 10, 64); err == nil {
		query.Limit = limit
	}
	if offset, err := strconv.ParseInt(c.Query("offset", "0"), 10, 64); err == nil {
		query.Offset = offset
	}

	rows, err := s.admin.List(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

func (s *Server) handleAdminGet(c *fiber.Ctx) error {
	row, err := s.admin.Get(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "submission not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(row)
}

func (s *Server) handleAdminArchive(c *fiber.Ctx) error {
	err := s.admin.Archive(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "submission not found")
	}
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleAdminUnarchive(c *fiber.Ctx) error {
	err := s.admin.Unarchive(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "submission not found")
	}
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
