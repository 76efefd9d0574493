package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const statusSuccess = "success"

// Client talks to the permission API. Every method issues exactly one request;
// failures are returned as they are, never retried.
type Client struct {
	baseURL string
	tokens  TokenProvider
	timeout time.Duration
	log     *logrus.Logger
}

type Option func(*Client)

// WithTimeout bounds each request. Zero, the default, means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type catalogPageResponse struct {
	Items       []model.Permission `json:"items"`
	CurrentPage int                `json:"current_page"`
	LastPage    int                `json:"last_page"`
}

type assignedResponse struct {
	Items []model.Permission `json:"items" validate:"dive"`
}

type assignRequest struct {
	Permissions []int `json:"permissions"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FetchCatalogPage performs GET permission-catalog(page).
func (c *Client) FetchCatalogPage(ctx context.Context, page int) (*model.CatalogPage, error) {
	const op = "fetch catalog page"
	var resp catalogPageResponse
	url := fmt.Sprintf("%s/permissions?page=%d", c.baseURL, page)
	if err := c.do(ctx, op, fiber.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	result := &model.CatalogPage{
		Items:       resp.Items,
		CurrentPage: resp.CurrentPage,
		LastPage:    resp.LastPage,
	}
	if result.Items == nil {
		result.Items = []model.Permission{}
	}
	if err := ingest(op, result); err != nil {
		return nil, err
	}
	if result.CurrentPage > result.LastPage {
		return nil, malformed(op, fmt.Errorf("current_page %d beyond last_page %d", result.CurrentPage, result.LastPage))
	}
	if result.CurrentPage != page {
		return nil, malformed(op, fmt.Errorf("asked for page %d, got page %d", page, result.CurrentPage))
	}
	return result, nil
}

// FetchAssigned performs GET assigned-permissions(staffID).
func (c *Client) FetchAssigned(ctx context.Context, staffID uuid.UUID) ([]model.Permission, error) {
	const op = "fetch assigned permissions"
	var resp assignedResponse
	url := fmt.Sprintf("%s/staff/%s/permissions", c.baseURL, staffID)
	if err := c.do(ctx, op, fiber.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}
	if err := ingest(op, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []model.Permission{}, nil
	}
	return resp.Items, nil
}

// AssignPermissions performs POST assign-permissions(staffID, ids), replacing
// every grant the staff member holds with ids.
func (c *Client) AssignPermissions(ctx context.Context, staffID uuid.UUID, ids []int) error {
	const op = "assign permissions"
	if ids == nil {
		ids = []int{}
	}
	var resp statusResponse
	url := fmt.Sprintf("%s/staff/%s/permissions", c.baseURL, staffID)
	if err := c.do(ctx, op, fiber.MethodPost, url, assignRequest{Permissions: ids}, &resp); err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = DefaultServerMessage
		}
		return &ServerError{Op: op, Status: fiber.StatusOK, Message: msg}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, url string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = fiber.Post(url).JSON(body)
	default:
		agent = fiber.Get(url)
	}
	agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		c.log.WithFields(logrus.Fields{"op": op, "url": url}).WithError(errs[0]).Debug("request failed")
		return &NetworkError{Op: op, Err: errs[0]}
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		c.log.WithFields(logrus.Fields{"op": op, "url": url, "status": code}).Debug("server rejected request")
		return &ServerError{Op: op, Status: code, Message: serverMessage(respBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return malformed(op, err)
	}
	return nil
}

func serverMessage(body []byte) string {
	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return DefaultServerMessage
}

// ingest validates decoded records, rejecting unknown permission types.
func ingest(op string, v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		firstErr := errs[0]
		return malformed(op, fmt.Errorf("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag))
	}
	return nil
}

// malformed reports an unusable success response. It counts as a server
// error so that callers handle it like any other rejected request.
func malformed(op string, cause error) error {
	return &ServerError{
		Op:      op,
		Status:  fiber.StatusOK,
		Message: errors.Wrap(cause, "malformed response").Error(),
	}
}
