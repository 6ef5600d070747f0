package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postArtifactForm submits a multipart artifact request. fileBytes nil
// means no file part.
func postArtifactForm(t *testing.T, env *testEnv, cookie *http.Cookie, method, path string, fields map[string]string, fileBytes []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	if fileBytes != nil {
		part, err := form.CreateFormFile("file", "notes.pdf")
		require.NoError(t, err)
		_, err = part.Write(fileBytes)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateArtifactWithLink(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	path := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	resp := postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title":         "Wireframe beranda",
		"phase":         "discussion",
		"type":          "wireframe",
		"sourceLinkUrl": "https://figma.example.com/file/abc",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		Type          string `json:"type"`
		SourceLinkURL string `json:"sourceLinkUrl"`
		FileURL       string `json:"fileUrl"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "wireframe", created.Type)
	assert.Equal(t, "https://figma.example.com/file/abc", created.SourceLinkURL)
	assert.Empty(t, created.FileURL)
}

func TestCreateArtifactWithFile(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	path := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	resp := postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title": "Notulen kickoff",
		"phase": "discussion",
	}, []byte("%PDF-1.4 fake"))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		ID       string `json:"id"`
		FileName string `json:"fileName"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "notes.pdf", created.FileName)

	// Download round trip
	fileResp := env.do(t, http.MethodGet,
		fmt.Sprintf("/api/projects/%s/artifacts/%s/file", project["id"], created.ID), nil, cookie)
	require.Equal(t, http.StatusOK, fileResp.Code)
	assert.Equal(t, []byte("%PDF-1.4 fake"), fileResp.Body.Bytes())
}

func TestCreateArtifactExactlyOneSource(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	path := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	// Neither file nor link
	resp := postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title": "Kosong",
		"phase": "discussion",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Both file and link
	resp = postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title":         "Dua-duanya",
		"phase":         "discussion",
		"sourceLinkUrl": "https://example.com",
	}, []byte("data"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateArtifactValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	path := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	// Missing title
	resp := postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"phase":         "discussion",
		"sourceLinkUrl": "https://example.com",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown phase
	resp = postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title":         "Wireframe",
		"phase":         "planning",
		"sourceLinkUrl": "https://example.com",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown type
	resp = postArtifactForm(t, env, cookie, http.MethodPost, path, map[string]string{
		"title":         "Wireframe",
		"phase":         "discussion",
		"type":          "sketch",
		"sourceLinkUrl": "https://example.com",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUpdateArtifactReplacesLinkWithFile(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	basePath := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	createResp := postArtifactForm(t, env, cookie, http.MethodPost, basePath, map[string]string{
		"title":         "Desain",
		"phase":         "design",
		"sourceLinkUrl": "https://figma.example.com/file/abc",
	}, nil)
	require.Equal(t, http.StatusCreated, createResp.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, createResp, &created)

	resp := postArtifactForm(t, env, cookie, http.MethodPatch,
		fmt.Sprintf("%s/%s", basePath, created.ID), map[string]string{}, []byte("%PDF-1.4 export"))
	require.Equal(t, http.StatusOK, resp.Code)

	var updated struct {
		SourceLinkURL string `json:"sourceLinkUrl"`
		FileName      string `json:"fileName"`
	}
	decode(t, resp, &updated)
	assert.Empty(t, updated.SourceLinkURL, "file replaces the link branch")
	assert.Equal(t, "notes.pdf", updated.FileName)
}

func TestDeleteArtifact(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	basePath := fmt.Sprintf("/api/projects/%s/artifacts", project["id"])

	createResp := postArtifactForm(t, env, cookie, http.MethodPost, basePath, map[string]string{
		"title":         "Desain",
		"phase":         "design",
		"sourceLinkUrl": "https://example.com",
	}, nil)
	require.Equal(t, http.StatusCreated, createResp.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, createResp, &created)

	resp := env.do(t, http.MethodDelete, fmt.Sprintf("%s/%s", basePath, created.ID), nil, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	listResp := env.do(t, http.MethodGet, basePath, nil, cookie)
	require.Equal(t, http.StatusOK, listResp.Code)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, listResp, &list)
	assert.Zero(t, list.Total)
}
