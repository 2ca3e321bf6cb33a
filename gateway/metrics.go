// file: gateway/metrics.go
package gateway

import (
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"go-event-admin/logger"
)

// Recorder receives one observation per gateway call.
type Recorder interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
	ObserveUnauthorized(path string)
	ObserveTransportFailure(path string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveRequest(string, string, int, time.Duration) {}
func (NopRecorder) ObserveUnauthorized(string)                        {}
func (NopRecorder) ObserveTransportFailure(string)                    {}

// CloudWatchMetrics publishes gateway metrics to CloudWatch from a single
// background goroutine so request handling never waits on PutMetricData.
type CloudWatchMetrics struct {
	api       cloudwatchiface.CloudWatchAPI
	namespace string
	queue     chan *cloudwatch.MetricDatum
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewCloudWatchMetrics uses the default AWS session chain.
func NewCloudWatchMetrics(namespace string) *CloudWatchMetrics {
	return NewCloudWatchMetricsWithAPI(cloudwatch.New(session.Must(session.NewSession())), namespace)
}

// NewCloudWatchMetricsWithAPI publishes through api.
func NewCloudWatchMetricsWithAPI(api cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchMetrics {
	m := &CloudWatchMetrics{
		api:       api,
		namespace: namespace,
		queue:     make(chan *cloudwatch.MetricDatum, 256),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

func (m *CloudWatchMetrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	m.enqueue("APIRequestLatencyMs", float64(elapsed.Milliseconds()), cloudwatch.StandardUnitMilliseconds, path)
}

func (m *CloudWatchMetrics) ObserveUnauthorized(path string) {
	m.enqueue("APIUnauthorized", 1, cloudwatch.StandardUnitCount, path)
}

func (m *CloudWatchMetrics) ObserveTransportFailure(path string) {
	m.enqueue("APITransportFailures", 1, cloudwatch.StandardUnitCount, path)
}

// Close stops accepting data and waits for the queue to drain.
func (m *CloudWatchMetrics) Close() {
	m.closeOnce.Do(func() {
		close(m.queue)
		m.wg.Wait()
	})
}

func (m *CloudWatchMetrics) enqueue(name string, value float64, unit, path string) {
	d := &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Dimensions: []*cloudwatch.Dimension{
			{Name: aws.String("Endpoint"), Value: aws.String(endpointDimension(path))},
		},
		Timestamp: aws.Time(time.Now()),
		Value:     aws.Float64(value),
		Unit:      aws.String(unit),
	}
	select {
	case m.queue <- d:
	default:
		logger.Warn.Printf("[metrics] queue full, dropping %s", name)
	}
}

func (m *CloudWatchMetrics) run() {
	defer m.wg.Done()
	for d := range m.queue {
		_, err := m.api.PutMetricData(&cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: []*cloudwatch.MetricDatum{d},
		})
		if err != nil {
			logger.Error.Printf("[metrics] CloudWatch metric failed (%s): %v", aws.StringValue(d.MetricName), err)
		}
	}
}

// endpointDimension drops trailing numeric ids so events/eliminar/4 and
// events/eliminar/9 share one dimension value.
func endpointDimension(path string) string {
	end := len(path)
	for end > 0 && path[end-1] >= '0' && path[end-1] <= '9' {
		end--
	}
	if end < len(path) {
		return path[:end] + "{id}"
	}
	return path
}
