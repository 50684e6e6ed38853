package webapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/remote"
	"github.com/oneconcern/solsync/pkg/remote/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const apiPrefix = "/api/data/v9.2/"

type recorded struct {
	method string
	path   string
	query  map[string]string
	auth   string
	body   map[string]interface{}
}

type apiMock struct {
	mu       sync.Mutex
	calls    []recorded
	jobID    uuid.UUID
	tokens   int
	handlers map[string]func(http.ResponseWriter, *http.Request)
}

func newAPIMock(t *testing.T) (*apiMock, *httptest.Server) {
	m := &apiMock{jobID: uuid.New(), handlers: make(map[string]func(http.ResponseWriter, *http.Request))}
	srv := httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(srv.Close)
	return m, srv
}

func (m *apiMock) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		m.mu.Lock()
		m.tokens++
		m.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"from-credentials","token_type":"Bearer","expires_in":3600}`)
		return
	}

	rec := recorded{
		method: r.Method,
		path:   strings.TrimPrefix(r.URL.Path, apiPrefix),
		query:  make(map[string]string),
		auth:   r.Header.Get("Authorization"),
	}
	for k := range r.URL.Query() {
		rec.query[k] = r.URL.Query().Get(k)
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = jsoniter.Unmarshal(data, &rec.body)
	}
	m.mu.Lock()
	m.calls = append(m.calls, rec)
	handler, ok := m.handlers[rec.path]
	m.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"0x80040217","message":"resource not found"}}`)
		return
	}
	handler(w, r)
}

func (m *apiMock) on(path string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = func(w http.ResponseWriter, _ *http.Request) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (m *apiMock) tokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

func (m *apiMock) last() recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func TestQueryBundles(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("solutions", http.StatusOK, `{"value":[{"uniquename":"contoso","version":"1.0.0.7","solutionid":"x"}]}`)

	c, err := New(srv.URL, Token("secret"), Logger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	found, err := c.QueryBundles(context.Background(), "contoso")
	require.NoError(t, err)
	assert.Equal(t, []model.BundleIdentity{{UniqueName: "contoso", Version: "1.0.0.7"}}, found)

	call := m.last()
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "uniquename,version", call.query["$select"])
	assert.Equal(t, "uniquename eq 'contoso'", call.query["$filter"])
	assert.Equal(t, "Bearer secret", call.auth)
}

func TestQueryBundlesEscapesQuotes(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("solutions", http.StatusOK, `{"value":[]}`)

	c, err := New(srv.URL)
	require.NoError(t, err)
	found, err := c.QueryBundles(context.Background(), "o'brien")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, "uniquename eq 'o''brien'", m.last().query["$filter"])
	assert.Empty(t, m.last().auth)
}

func TestExport(t *testing.T) {
	m, srv := newAPIMock(t)
	// "UEstYXJjaGl2ZQ==" is base64 for "PK-archive"
	m.on("ExportSolution", http.StatusOK, `{"ExportSolutionFile":"UEstYXJjaGl2ZQ=="}`)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	resp, err := c.Execute(context.Background(), remote.ExportCommand{SolutionName: "contoso"})
	require.NoError(t, err)
	assert.Equal(t, remote.ExportResponse{File: []byte("PK-archive")}, resp)

	call := m.last()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "contoso", call.body["SolutionName"])
	assert.Equal(t, false, call.body["Managed"])
	for _, setting := range []string{
		"ExportAutoNumberingSettings", "ExportCalendarSettings", "ExportCustomizationSettings",
		"ExportEmailTrackingSettings", "ExportGeneralSettings", "ExportIsvConfig",
		"ExportMarketingSettings", "ExportOutlookSynchronizationSettings", "ExportRelationshipRoles",
		"ExportSales", "ExportExternalApplications",
	} {
		assert.Equalf(t, false, call.body[setting], "setting %s", setting)
	}
}

func TestImportAsync(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("ImportSolutionAsync", http.StatusOK, `{"AsyncOperationId":"`+m.jobID.String()+`","ImportJobKey":"k"}`)

	c, err := New(srv.URL)
	require.NoError(t, err)
	importID := uuid.New()
	resp, err := c.ExecuteAsync(context.Background(), remote.ImportCommand{
		CustomizationFile:  []byte("PK-archive"),
		OverwriteUnmanaged: true,
		PublishWorkflows:   true,
		ImportJobID:        importID,
	})
	require.NoError(t, err)
	assert.Equal(t, m.jobID, resp.JobID)

	call := m.last()
	assert.Equal(t, true, call.body["OverwriteUnmanagedCustomizations"])
	assert.Equal(t, true, call.body["PublishWorkflows"])
	assert.Equal(t, "UEstYXJjaGl2ZQ==", call.body["CustomizationFile"])
	assert.Equal(t, importID.String(), call.body["ImportJobId"])

	_, err = c.ExecuteAsync(context.Background(), remote.PublishAllCommand{})
	assert.True(t, errors.Is(err, status.ErrUnsupportedCommand))
}

func TestImportAsyncWithoutJob(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("ImportSolutionAsync", http.StatusOK, `{}`)

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.ExecuteAsync(context.Background(), remote.ImportCommand{})
	assert.True(t, errors.Is(err, status.ErrUnexpectedResponse))
}

func TestPublishAll(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("PublishAllXml", http.StatusNoContent, "")

	c, err := New(srv.URL)
	require.NoError(t, err)
	resp, err := c.Execute(context.Background(), remote.PublishAllCommand{})
	require.NoError(t, err)
	assert.Equal(t, remote.EmptyResponse{}, resp)
	assert.Equal(t, http.MethodPost, m.last().method)
}

func TestJobStatus(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("asyncoperations("+m.jobID.String()+")", http.StatusOK,
		`{"statuscode":31,"message":"Import failed","friendlymessage":"A dependency is missing"}`)

	c, err := New(srv.URL)
	require.NoError(t, err)
	st, err := c.JobStatus(context.Background(), m.jobID)
	require.NoError(t, err)
	assert.True(t, st.Failed())
	assert.Equal(t, "Import failed\nA dependency is missing", st.FailureMessage())
	assert.Equal(t, "statuscode,message,friendlymessage", m.last().query["$select"])
}

func TestErrors(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("solutions", http.StatusUnauthorized, `{"error":{"code":"0x80072560","message":"The user is not a member of the organization."}}`)
	m.on("ExportSolution", http.StatusInternalServerError, `oops`)

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.QueryBundles(context.Background(), "contoso")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "0x80072560", apiErr.Code)
	assert.True(t, errors.Is(err, status.ErrUnauthorized))

	_, err = c.Execute(context.Background(), remote.ExportCommand{SolutionName: "contoso"})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "oops", apiErr.Message)
	assert.True(t, errors.Is(err, status.ErrRemote))

	_, err = c.JobStatus(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestClientCredentials(t *testing.T) {
	m, srv := newAPIMock(t)
	m.on("solutions", http.StatusOK, `{"value":[]}`)

	c, err := New(srv.URL, ClientCredentials(Credentials{
		ClientID:     "app",
		ClientSecret: "shh",
		TokenURL:     srv.URL + "/token",
	}), RateLimit(100, 1))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = c.QueryBundles(context.Background(), "contoso")
		require.NoError(t, err)
	}
	assert.Equal(t, "Bearer from-credentials", m.last().auth)
	assert.Equal(t, 1, m.tokenCount(), "token should be reused")
}

func TestTokenEndpoint(t *testing.T) {
	assert.Equal(t, "https://login.microsoftonline.com/contoso.onmicrosoft.com/oauth2/v2.0/token",
		Credentials{Tenant: "contoso.onmicrosoft.com"}.TokenEndpoint())
}

func TestInvalidURL(t *testing.T) {
	_, err := New("contoso")
	assert.True(t, errors.Is(err, status.ErrRemote))
}
