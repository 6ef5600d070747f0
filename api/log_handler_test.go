package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokarsa/trackline-backend/models"
)

func TestCreateLogJSON(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%s/logs", project["id"]), map[string]interface{}{
		"title":       "Kickoff",
		"description": "mulai pengerjaan",
		"percentage":  15,
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		Title            string      `json:"title"`
		Percentage       int         `json:"percentage"`
		ProgressUpdateID interface{} `json:"progressUpdateId"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "Kickoff", created.Title)
	assert.Equal(t, 15, created.Percentage)
	assert.Nil(t, created.ProgressUpdateID, "no visual content, no progress update")
}

func TestCreateLogValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	path := fmt.Sprintf("/api/projects/%s/logs", project["id"])

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"description": "d", "percentage": 10}},
		{"missing description", map[string]interface{}{"title": "t", "percentage": 10}},
		{"percentage above 100", map[string]interface{}{"title": "t", "description": "d", "percentage": 101}},
		{"percentage below 0", map[string]interface{}{"title": "t", "description": "d", "percentage": -1}},
		{"links without valid phase", map[string]interface{}{
			"title": "t", "description": "d", "percentage": 10,
			"links": []map[string]string{{"url": "https://example.com"}},
		}},
		{"bad phase", map[string]interface{}{
			"title": "t", "description": "d", "percentage": 10, "phase": "planning",
		}},
		{"non-http link", map[string]interface{}{
			"title": "t", "description": "d", "percentage": 10, "phase": "design",
			"links": []map[string]string{{"url": "ftp://example.com"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, path, tt.body, cookie)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestCreateLogWithLinksAndPhase(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%s/logs", project["id"]), map[string]interface{}{
		"title":       "Preview siap",
		"description": "link staging",
		"percentage":  70,
		"phase":       "development",
		"links":       []map[string]string{{"url": "https://staging.example.com", "label": "Staging"}},
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)

	var created struct {
		ProgressUpdate struct {
			Phase string `json:"phase"`
		} `json:"progressUpdate"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "development", created.ProgressUpdate.Phase)
}

func TestCreateLogCompletesProject(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%s/logs", project["id"]), map[string]interface{}{
		"title":       "Rilis",
		"description": "selesai",
		"percentage":  100,
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)

	projResp := env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%s", project["id"]), nil, cookie)
	require.Equal(t, http.StatusOK, projResp.Code)

	var proj struct {
		Status   string `json:"status"`
		Progress int    `json:"progress"`
	}
	decode(t, projResp, &proj)
	assert.Equal(t, models.StatusDone, proj.Status)
	assert.Equal(t, 100, proj.Progress)
}

func TestCreateLogSendsNotification(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)
	welcomeCount := env.messenger.count()

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%s/logs", project["id"]), map[string]interface{}{
		"title":            "Setengah jalan",
		"description":      "progres",
		"percentage":       50,
		"sendNotification": true,
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)

	require.Eventually(t, func() bool {
		return env.messenger.count() > welcomeCount
	}, 2*time.Second, 10*time.Millisecond, "progress notification goes out in the background")

	msg := env.messenger.last()
	assert.Contains(t, msg.Body, "*50%*")
	assert.Contains(t, msg.Body, fmt.Sprintf("%s/track/%s", testBaseURL, project["token"]))
}

func TestCreateLogMultipartWithImage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	project := env.createProject(t, cookie)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Screenshot beranda"))
	require.NoError(t, form.WriteField("description", "tampilan awal"))
	require.NoError(t, form.WriteField("percentage", "30"))
	require.NoError(t, form.WriteField("phase", "design"))
	part, err := form.CreateFormFile("images", "home.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/projects/%s/logs", project["id"]), &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ProgressUpdate struct {
			Images []struct {
				ID       string `json:"id"`
				FileName string `json:"fileName"`
				URL      string `json:"url"`
			} `json:"images"`
		} `json:"progressUpdate"`
	}
	decode(t, rec, &created)
	require.Len(t, created.ProgressUpdate.Images, 1)
	assert.Equal(t, "home.png", created.ProgressUpdate.Images[0].FileName)
	assert.NotEmpty(t, created.ProgressUpdate.Images[0].URL)

	// The public tracking page can stream the image back
	imgResp := env.do(t, http.MethodGet,
		fmt.Sprintf("/api/track/%s/updates/images/%s", project["token"], created.ProgressUpdate.Images[0].ID), nil, nil)
	require.Equal(t, http.StatusOK, imgResp.Code)
	assert.Equal(t, []byte("\x89PNG fake image bytes"), imgResp.Body.Bytes())
}
