package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doron007/realtechee-forms/internal/config"
	"github.com/doron007/realtechee-forms/internal/store"
	"github.com/doron007/realtechee-forms/pkg/registry"
	"github.com/doron007/realtechee-forms/pkg/upload"
)

func newTestServer(t *testing.T) (*Server, *store.MemoryStore, *upload.MemoryStorage) {
	t.Helper()

	reg, err := registry.Default()
	require.NoError(t, err)

	memory := store.NewMemoryStore()
	storage := upload.NewMemoryStorage()
	uploader, err := upload.New(storage, upload.WithMaxFileSizeMB(15))
	require.NoError(t, err)

	srv, err := New(Deps{
		Config: &config.Config{
			Address:       ":0",
			JWTSecret:     "test-secret",
			MaxFileSizeMB: 15,
		},
		Registry: reg,
		Store:    memory,
		Uploader: uploader,
	})
	require.NoError(t, err)
	return srv, memory, storage
}

func doJSON(t *testing.T, srv *Server, method, path string, payload any, token string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func generalInquiryValues() map[string]any {
	return map[string]any{
		"contactInfo": map[string]any{
			"fullName": "Jane Doe",
			"email":    "jane@example.com",
			"phone":    "5551234567",
		},
		"address": map[string]any{
			"streetAddress": "123 Main St",
			"city":          "Los Angeles",
			"state":         "CA",
			"zip":           "90001",
		},
		"product": "Design Services",
		"subject": "Kitchen consult",
		"message": "We would like a consult.",
	}
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doJSON(t, srv, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRenderFormPage(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/forms/get-estimate", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), `data-form="get-estimate"`)
	assert.Contains(t, string(page), `name="sessionId"`)
}

func TestRenderUnknownForm(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doJSON(t, srv, http.MethodGet, "/forms/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateSubmission(t *testing.T) {
	srv, memory, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/api/forms/general-inquiry/submissions",
		map[string]any{"values": generalInquiryValues()}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var record store.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "general-inquiry", record.FormID)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.SubmissionTime.IsZero())

	records, err := memory.List(context.Background(), store.Query{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCreateSubmissionValidationFailure(t *testing.T) {
	srv, memory, _ := newTestServer(t)

	values := generalInquiryValues()
	contact := values["contactInfo"].(map[string]any)
	contact["phone"] = "555-123-4567"

	resp := doJSON(t, srv, http.MethodPost, "/api/forms/general-inquiry/submissions",
		map[string]any{"values": values}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Errors["contactInfo.phone"])

	records, err := memory.List(context.Background(), store.Query{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUploadEndpoint(t *testing.T) {
	srv, _, storage := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("address", "123 Main St"))
	require.NoError(t, writer.WriteField("sessionId", "sess-7"))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="files"; filename="a.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body uploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Uploaded, 1)
	assert.Equal(t, "a.jpg", body.Uploaded[0].Name)
	assert.Contains(t, body.Uploaded[0].Key, "/sess-7/")
	assert.Equal(t, 1, storage.Len())
}

func TestAdminRequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := doJSON(t, srv, http.MethodGet, "/api/admin/submissions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/api/admin/submissions", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListAndArchive(t *testing.T) {
	srv, _, _ := newTestServer(t)

	create := doJSON(t, srv, http.MethodPost, "/api/forms/general-inquiry/submissions",
		map[string]any{"values": generalInquiryValues()}, "")
	require.Equal(t, http.StatusCreated, create.StatusCode)
	var record store.Record
	require.NoError(t, json.NewDecoder(create.Body).Decode(&record))

	token, err := IssueToken("test-secret", "ops@example.com", time.Hour)
	require.NoError(t, err)

	list := doJSON(t, srv, http.MethodGet, "/api/admin/submissions?form=general-inquiry", nil, token)
	require.Equal(t, http.StatusOK, list.StatusCode)
	listBody, err := io.ReadAll(list.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(listBody), record.ID))

	archive := doJSON(t, srv, http.MethodPost, "/api/admin/submissions/"+record.ID+"/archive", nil, token)
	assert.Equal(t, http.StatusNoContent, archive.StatusCode)

	empty := doJSON(t, srv, http.MethodGet, "/api/admin/submissions", nil, token)
	require.Equal(t, http.StatusOK, empty.StatusCode)
	emptyBody, err := io.ReadAll(empty.Body)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(emptyBody), record.ID))

	columns := doJSON(t, srv, http.MethodGet, "/api/admin/columns", nil, token)
	assert.Equal(t, http.StatusOK, columns.StatusCode)
}
