package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/getjson/jsonapi"
	"github.com/s0up4200/getjson/students"
	"github.com/s0up4200/getjson/transport"
)

const (
	studentsPath = "api/students"

	// DefaultConcurrency bounds concurrent detail requests
	DefaultConcurrency = 4
)

// Client is a typed client for the students API
type Client struct {
	transport   *transport.Client
	logger      zerolog.Logger
	concurrency int
	jsonOpts    []jsonapi.Option
}

// Option configures a Client
type Option func(*settings)

type settings struct {
	concurrency   int
	strict        bool
	transportOpts []transport.Option
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.transportOpts = append(s.transportOpts, transport.WithTimeout(timeout))
	}
}

// WithConcurrency sets how many detail requests may run at once
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithStrictDecoding rejects responses carrying fields the student types
// do not declare
func WithStrictDecoding() Option {
	return func(s *settings) {
		s.strict = true
	}
}

// WithTransportOptions passes options through to the underlying transport
func WithTransportOptions(opts ...transport.Option) Option {
	return func(s *settings) {
		s.transportOpts = append(s.transportOpts, opts...)
	}
}

// NewClient creates a new students API client
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: students API URL is required", ErrInvalidConfig)
	}

	s := settings{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&s)
	}

	transportOpts := append([]transport.Option{
		transport.WithBaseURL(baseURL),
		transport.WithLogger(logger),
	}, s.transportOpts...)

	t, err := transport.NewClient(transportOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	jsonOpts := []jsonapi.Option{jsonapi.WithLogger(logger)}
	if s.strict {
		jsonOpts = append(jsonOpts, jsonapi.WithDecodeOptions(jsonapi.DecodeOptions{DisallowUnknownFields: true}))
	}

	return &Client{
		transport:   t,
		logger:      logger,
		concurrency: s.concurrency,
		jsonOpts:    jsonOpts,
	}, nil
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.transport.BaseURL().String()
}

// TestConnection checks that the API answers the students list
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.ListStudents(ctx)
	return err
}

// ListStudents retrieves every student in the order served by the API
func (c *Client) ListStudents(ctx context.Context) ([]students.StudentListItem, error) {
	items, err := jsonapi.GetJSON[[]students.StudentListItem](ctx, c.transport, studentsPath, c.jsonOpts...)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, studentsPath)
	}

	c.logger.Debug().Int("count", len(*items)).Msg("Retrieved students")
	return *items, nil
}

// GetStudent retrieves student details from ref, which may be an absolute
// self URL or a path relative to the API base URL.
func (c *Client) GetStudent(ctx context.Context, ref string) (*students.StudentDetails, error) {
	details, err := jsonapi.GetJSON[students.StudentDetails](ctx, c.transport, ref, c.jsonOpts...)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, ref)
	}
	return details, nil
}

// GetStudentByID retrieves the details of a single student
func (c *Client) GetStudentByID(ctx context.Context, id uuid.UUID) (*students.StudentDetails, error) {
	return c.GetStudent(ctx, studentsPath+"/"+id.String())
}

// DetailResult is the outcome of fetching one student's details
type DetailResult struct {
	Item    students.StudentListItem
	Details *students.StudentDetails
	Err     error
}

// FetchAllDetails fetches the details of every item concurrently. Results
// keep the order of items and a failed item never stops the others.
func (c *Client) FetchAllDetails(ctx context.Context, items []students.StudentListItem) []DetailResult {
	results := make([]DetailResult, len(items))

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, item := range items {
		i, item := i, item // per-iteration copies; module targets go 1.21 loop semantics
		results[i].Item = item
		g.Go(func() error {
			ref := item.SelfURL
			if ref == "" {
				ref = studentsPath + "/" + item.ID.String()
			}

			details, err := c.GetStudent(ctx, ref)
			if err != nil {
				c.logger.Warn().
					Err(err).
					Str("student_id", item.ID.String()).
					Msg("Failed to fetch student details")
			}
			results[i].Details = details
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}
