// Package webapi implements the remote service over its HTTP/JSON Web API.
package webapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/remote"
	"github.com/oneconcern/solsync/pkg/remote/status"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

var _ remote.Service = &Client{}

// Client of the Web API
type Client struct {
	baseURL     string
	apiVersion  string
	base        *http.Client
	client      *http.Client
	timeout     time.Duration
	tokenSource func(*Client) oauth2.TokenSource
	limiter     *rate.Limiter
	l           *zap.Logger
}

// New Web API client for the organization at baseURL, e.g. https://contoso.crm.dynamics.com
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, status.ErrRemote.WrapMessage("invalid service url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiVersion: DefaultAPIVersion,
		base:       http.DefaultClient,
		timeout:    DefaultRequestTimeout,
		l:          dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(c)
	}

	c.client = c.base
	if c.tokenSource != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
		c.client = oauth2.NewClient(ctx, c.tokenSource(c))
	}
	return c, nil
}

func (c *Client) endpoint(resource string, query url.Values) string {
	u := c.baseURL + "/api/data/" + c.apiVersion + "/" + resource
	if len(query) > 0 {
		// OData system query options keep their "$" prefix unescaped
		u += "?" + strings.ReplaceAll(query.Encode(), "%24", "$")
	}
	return u
}

// QueryBundles by exact unique name
func (c *Client) QueryBundles(ctx context.Context, uniqueName string) ([]model.BundleIdentity, error) {
	query := url.Values{}
	query.Set("$select", "uniquename,version")
	query.Set("$filter", "uniquename eq '"+strings.ReplaceAll(uniqueName, "'", "''")+"'")

	var result struct {
		Value []model.BundleIdentity `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, c.endpoint("solutions", query), nil, &result); err != nil {
		return nil, err
	}
	return result.Value, nil
}

type exportRequest struct {
	SolutionName string `json:"SolutionName"`
	Managed      bool   `json:"Managed"`
	remote.ExportSettings
}

type exportResponse struct {
	ExportSolutionFile []byte `json:"ExportSolutionFile"`
}

type importRequest struct {
	OverwriteUnmanagedCustomizations bool      `json:"OverwriteUnmanagedCustomizations"`
	PublishWorkflows                 bool      `json:"PublishWorkflows"`
	CustomizationFile                []byte    `json:"CustomizationFile"`
	ImportJobID                      uuid.UUID `json:"ImportJobId"`
}

type asyncResponse struct {
	AsyncOperationID uuid.UUID `json:"AsyncOperationId"`
	ImportJobKey     string    `json:"ImportJobKey,omitempty"`
}

func newImportRequest(cmd remote.ImportCommand) importRequest {
	return importRequest{
		OverwriteUnmanagedCustomizations: cmd.OverwriteUnmanaged,
		PublishWorkflows:                 cmd.PublishWorkflows,
		CustomizationFile:                cmd.CustomizationFile,
		ImportJobID:                      cmd.ImportJobID,
	}
}

// Execute a command
func (c *Client) Execute(ctx context.Context, cmd remote.Command) (remote.Response, error) {
	switch command := cmd.(type) {
	case remote.ExportCommand:
		var resp exportResponse
		req := exportRequest{SolutionName: command.SolutionName, Managed: command.Managed, ExportSettings: command.Settings}
		if err := c.do(ctx, http.MethodPost, c.endpoint(cmd.Name(), nil), req, &resp); err != nil {
			return nil, err
		}
		return remote.ExportResponse{File: resp.ExportSolutionFile}, nil

	case remote.ImportCommand:
		if err := c.do(ctx, http.MethodPost, c.endpoint(cmd.Name(), nil), newImportRequest(command), nil); err != nil {
			return nil, err
		}
		return remote.EmptyResponse{}, nil

	case remote.PublishAllCommand:
		if err := c.do(ctx, http.MethodPost, c.endpoint(cmd.Name(), nil), struct{}{}, nil); err != nil {
			return nil, err
		}
		return remote.EmptyResponse{}, nil

	default:
		return nil, status.ErrUnsupportedCommand.WrapMessage("%T", cmd)
	}
}

// ExecuteAsync starts a job. Only imports may run asynchronously.
func (c *Client) ExecuteAsync(ctx context.Context, cmd remote.Command) (remote.AsyncResponse, error) {
	command, ok := cmd.(remote.ImportCommand)
	if !ok {
		return remote.AsyncResponse{}, status.ErrUnsupportedCommand.WrapMessage("%s cannot run asynchronously", cmd.Name())
	}

	var resp asyncResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint(cmd.Name()+"Async", nil), newImportRequest(command), &resp); err != nil {
		return remote.AsyncResponse{}, err
	}
	if resp.AsyncOperationID == uuid.Nil {
		return remote.AsyncResponse{}, status.ErrUnexpectedResponse.WrapMessage("no async operation id returned")
	}
	return remote.AsyncResponse{JobID: resp.AsyncOperationID}, nil
}

// JobStatus of an asynchronous operation
func (c *Client) JobStatus(ctx context.Context, jobID uuid.UUID) (remote.JobStatus, error) {
	query := url.Values{}
	query.Set("$select", "statuscode,message,friendlymessage")

	var st remote.JobStatus
	err := c.do(ctx, http.MethodGet, c.endpoint("asyncoperations("+jobID.String()+")", query), nil, &st)
	return st, err
}

func (c *Client) do(ctx context.Context, method, target string, payload, result interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		data, err := jsoniter.Marshal(payload)
		if err != nil {
			return status.ErrRemote.Wrap(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return status.ErrRemote.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return status.ErrRemote.Wrap(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return status.ErrRemote.Wrap(err)
	}
	c.l.Debug("web api call",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := jsoniter.Unmarshal(data, result); err != nil {
		return status.ErrUnexpectedResponse.Wrap(err)
	}
	return nil
}

func decodeError(code int, data []byte) error {
	apiErr := &APIError{StatusCode: code}
	var odata odataError
	if err := jsoniter.Unmarshal(data, &odata); err == nil && odata.Error.Message != "" {
		apiErr.Code = odata.Error.Code
		apiErr.Message = odata.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}
