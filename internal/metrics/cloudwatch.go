// Package metrics emits API request and recommendation outcome metrics to
// CloudWatch.
package metrics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"vibefinder/internal/types"
)

// Metric and dimension names.
const (
	MetricAPILatency      = "APILatency"
	MetricAPIRequestCount = "APIRequestCount"
	MetricSuggestOutcome  = "SuggestOutcome"

	DimMethod   = "Method"
	DimEndpoint = "Endpoint"
	DimStatus   = "Status"
	DimOutcome  = "Outcome"
)

const (
	// putTimeout bounds each PutMetricData call.
	putTimeout = 2 * time.Second

	defaultQueueSize     = 1024
	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Option configures a CloudWatchCollector.
type Option func(*CloudWatchCollector)

// WithFlushInterval sets how often buffered data is sent.
func WithFlushInterval(d time.Duration) Option {
	return func(c *CloudWatchCollector) { c.flushInterval = d }
}

// WithBatchSize sets how many data points trigger an early send.
func WithBatchSize(n int) Option {
	return func(c *CloudWatchCollector) { c.batchSize = n }
}

// WithQueueSize sets the buffer capacity. Data recorded while the buffer is
// full is dropped.
func WithQueueSize(n int) Option {
	return func(c *CloudWatchCollector) { c.queueSize = n }
}

// CloudWatchCollector records API request metrics and suggest outcomes.
//
// Metrics emitted:
//   - APIRequestCount: Dims {Method, Endpoint, Status}
//   - APILatency: Dims {Method, Endpoint}, milliseconds
//   - SuggestOutcome: Dims {Outcome}
//
// Recording only enqueues; a background loop batches the data into
// PutMetricData calls. Failures are logged and never surface to the caller.
// Close flushes whatever is still buffered.
type CloudWatchCollector struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger

	queueSize     int
	batchSize     int
	flushInterval time.Duration

	queue     chan cwtypes.MetricDatum
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	dropped   atomic.Int64
}

// NewCloudWatchCollector creates a collector publishing to namespace and
// starts its send loop.
func NewCloudWatchCollector(client CloudWatchClient, namespace string, logger *slog.Logger, opts ...Option) *CloudWatchCollector {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CloudWatchCollector{
		client:        client,
		namespace:     namespace,
		logger:        logger,
		queueSize:     defaultQueueSize,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.queue = make(chan cwtypes.MetricDatum, c.queueSize)

	go c.run()
	return c
}

// RecordRequest enqueues a request count and a latency datum.
func (c *CloudWatchCollector) RecordRequest(method, endpoint, status string, duration time.Duration) {
	methodDim := dimension(DimMethod, method)
	endpointDim := dimension(DimEndpoint, endpoint)

	c.enqueue(cwtypes.MetricDatum{
		MetricName: aws.String(MetricAPIRequestCount),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{methodDim, endpointDim, dimension(DimStatus, status)},
	})
	c.enqueue(cwtypes.MetricDatum{
		MetricName: aws.String(MetricAPILatency),
		Value:      aws.Float64(float64(duration.Milliseconds())),
		Unit:       cwtypes.StandardUnitMilliseconds,
		Dimensions: []cwtypes.Dimension{methodDim, endpointDim},
	})
}

// RecordOutcome counts one suggest request by how it ended.
func (c *CloudWatchCollector) RecordOutcome(_ context.Context, outcome types.Outcome) {
	c.enqueue(cwtypes.MetricDatum{
		MetricName: aws.String(MetricSuggestOutcome),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{dimension(DimOutcome, string(outcome))},
	})
}

// Dropped returns how many data points were discarded because the buffer
// was full or the collector was closed.
func (c *CloudWatchCollector) Dropped() int64 {
	return c.dropped.Load()
}

// Close stops the send loop after flushing buffered data. It returns
// ctx.Err() if the flush does not finish in time.
func (c *CloudWatchCollector) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.stop)
	})
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CloudWatchCollector) enqueue(d cwtypes.MetricDatum) {
	if c.closed.Load() {
		c.dropped.Add(1)
		return
	}
	select {
	case c.queue <- d:
	default:
		if c.dropped.Add(1) == 1 {
			c.logger.Warn("metrics buffer full, dropping data", "queue_size", c.queueSize)
		}
	}
}

func (c *CloudWatchCollector) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	batch := make([]cwtypes.MetricDatum, 0, c.batchSize)
	for {
		select {
		case d := <-c.queue:
			batch = append(batch, d)
			if len(batch) >= c.batchSize {
				batch = c.flush(batch)
			}
		case <-ticker.C:
			batch = c.flush(batch)
		case <-c.stop:
			for {
				select {
				case d := <-c.queue:
					batch = append(batch, d)
					if len(batch) >= c.batchSize {
						batch = c.flush(batch)
					}
				default:
					c.flush(batch)
					return
				}
			}
		}
	}
}

// flush sends batch and returns it emptied for reuse.
func (c *CloudWatchCollector) flush(batch []cwtypes.MetricDatum) []cwtypes.MetricDatum {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
	defer cancel()

	data := make([]cwtypes.MetricDatum, len(batch))
	copy(data, batch)
	_, err := c.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	})
	if err != nil {
		c.logger.Error("failed to send metrics", "error", err.Error(), "count", len(data))
	}
	return batch[:0]
}

func dimension(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

// NoopCollector discards every metric. Used when CloudWatch is disabled.
type NoopCollector struct{}

func (NoopCollector) RecordRequest(string, string, string, time.Duration) {}

func (NoopCollector) RecordOutcome(context.Context, types.Outcome) {}
