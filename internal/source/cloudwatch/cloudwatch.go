// Package cloudwatch implements source.Store on top of AWS CloudWatch Logs.
package cloudwatch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"

	"github.com/psacc/lumberjack/internal/model"
	"github.com/psacc/lumberjack/internal/source"
)

// Name is the backend identifier used in config and on the command line.
const Name = "cloudwatch"

func init() {
	source.Register(source.Backend{Name: Name, Open: Open})
}

// API is the subset of the CloudWatch Logs client used by the store.
type API interface {
	cloudwatchlogs.DescribeLogGroupsAPIClient
	FilterLogEvents(ctx context.Context, in *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

type cloudwatchStore struct {
	api      API
	pageSize int
}

// Open loads the default AWS configuration chain (environment, shared
// config, SSO, instance role) and returns a store for it.
func Open(ctx context.Context, opts source.Options) (source.Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &source.InitError{Backend: Name, Err: err}
	}
	if cfg.Region == "" {
		return nil, &source.InitError{Backend: Name, Err: errors.New("no region configured (set --region, AWS_REGION or a profile region)")}
	}
	return New(cloudwatchlogs.NewFromConfig(cfg), opts.PageSize), nil
}

// MaxPageSize is the largest Limit FilterLogEvents accepts.
const MaxPageSize = 10000

// New wraps an existing client. pageSize <= 0 lets the service choose;
// larger values are capped at MaxPageSize.
func New(api API, pageSize int) source.Store {
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &cloudwatchStore{api: api, pageSize: pageSize}
}

func (s *cloudwatchStore) ListGroups(ctx context.Context) ([]string, error) {
	var names []string
	p := cloudwatchlogs.NewDescribeLogGroupsPaginator(s.api, &cloudwatchlogs.DescribeLogGroupsInput{})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe log groups: %w", err)
		}
		for _, g := range out.LogGroups {
			if name := aws.ToString(g.LogGroupName); name != "" {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *cloudwatchStore) QueryEvents(ctx context.Context, q source.Query) (source.Page, error) {
	in := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(q.Group),
		StartTime:    aws.Int64(q.StartMs),
		EndTime:      aws.Int64(q.EndMs),
		Interleaved:  aws.Bool(true),
	}
	if q.Filter != "" {
		in.FilterPattern = aws.String(q.Filter)
	}
	if q.Cursor != "" {
		in.NextToken = aws.String(q.Cursor)
	}
	if s.pageSize > 0 {
		in.Limit = aws.Int32(int32(s.pageSize))
	}

	out, err := s.api.FilterLogEvents(ctx, in)
	if err != nil {
		return source.Page{}, fmt.Errorf("filter log events: %w", err)
	}

	page := source.Page{NextCursor: aws.ToString(out.NextToken)}
	page.Events = make([]model.RawEvent, 0, len(out.Events))
	for _, ev := range out.Events {
		page.Events = append(page.Events, model.RawEvent{
			TimestampMs: aws.ToInt64(ev.Timestamp),
			Message:     aws.ToString(ev.Message),
		})
	}
	return page, nil
}
