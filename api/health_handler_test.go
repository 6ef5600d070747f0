package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthNoSessionNeeded(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Uptime)
}
