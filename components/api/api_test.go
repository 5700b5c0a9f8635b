package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herai/automation-site/internal/component"
	"github.com/herai/automation-site/internal/lead"
)

const validBody = `{"name":"Ada","email":"ada@example.com","company":"Acme",
"businessSize":"medium","service":"integrations","processes":"CRM sync"}`

func newAPI(t *testing.T, sub lead.SubmitterFunc, origins ...string) http.Handler {
	t.Helper()
	c := &Component{}
	require.NoError(t, c.Init(component.Deps{
		NewController: func() *lead.Controller { return lead.NewController(sub) },
		CORSOrigins:   origins,
	}))
	r := chi.NewRouter()
	c.Routes(r)
	return r
}

func post(h http.Handler, body string) (*httptest.ResponseRecorder, Response) {
	req := httptest.NewRequest(http.MethodPost, "/api/consultations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestCreate(t *testing.T) {
	var got lead.Record
	h := newAPI(t, func(_ context.Context, rec lead.Record) error {
		got = rec
		return nil
	})

	rec, resp := post(h, validBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, resp.Success)
	assert.Equal(t, "medium", got.BusinessSize)
	assert.Equal(t, "CRM sync", got.Processes)
}

func TestCreate_Errors(t *testing.T) {
	ok := func(context.Context, lead.Record) error { return nil }
	failing := func(context.Context, lead.Record) error {
		return lead.NewRemoteError("Database error: Service Unavailable", nil)
	}

	tests := []struct {
		name string
		sub  lead.SubmitterFunc
		body string
		code int
		msg  string
	}{
		{"validation", ok, `{"name":"Ada"}`, http.StatusUnprocessableEntity, lead.MsgEmailRequired},
		{"bad enum", ok, strings.Replace(validBody, "medium", "huge", 1), http.StatusUnprocessableEntity, lead.MsgBusinessSizeInvalid},
		{"remote", failing, validBody, http.StatusBadGateway, "Submission failed: Database error: Service Unavailable"},
		{"bad json", ok, `{"name":`, http.StatusBadRequest, "invalid JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := post(newAPI(t, tt.sub), tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}
}

func TestCreate_TooLarge(t *testing.T) {
	h := newAPI(t, func(context.Context, lead.Record) error { return nil })
	body := `{"name":"` + strings.Repeat("x", maxBody) + `"}`
	rec, _ := post(h, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCORS(t *testing.T) {
	sub := func(context.Context, lead.Record) error { return nil }

	h := newAPI(t, sub, "https://partner.example")
	req := httptest.NewRequest(http.MethodOptions, "/api/consultations", nil)
	req.Header.Set("Origin", "https://partner.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://partner.example", rec.Header().Get("Access-Control-Allow-Origin"))

	closed := newAPI(t, sub)
	req = httptest.NewRequest(http.MethodPost, "/api/consultations", strings.NewReader(validBody))
	req.Header.Set("Origin", "https://partner.example")
	rec = httptest.NewRecorder()
	closed.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestInitRequiresFactory(t *testing.T) {
	assert.Error(t, (&Component{}).Init(component.Deps{}))
}
