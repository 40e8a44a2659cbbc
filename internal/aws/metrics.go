package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the checkout path.
const (
	MetricCheckoutSucceeded = "CheckoutSucceeded"
	MetricCheckoutFailed    = "CheckoutFailed"
	MetricOrderTotal        = "OrderTotal"
)

// Metrics publishes custom CloudWatch metrics. A nil *Metrics or nil client is a no-op.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

// NewMetrics returns a Metrics emitter for namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count records a single occurrence of name, with optional dimensions as name/value pairs.
func (m *Metrics) Count(ctx context.Context, name string, dims map[string]string) error {
	return m.put(ctx, name, 1, cwtypes.StandardUnitCount, dims)
}

// Value records an arbitrary value without unit.
func (m *Metrics) Value(ctx context.Context, name string, v float64, dims map[string]string) error {
	return m.put(ctx, name, v, cwtypes.StandardUnitNone, dims)
}

func (m *Metrics) put(ctx context.Context, name string, v float64, unit cwtypes.StandardUnit, dims map[string]string) error {
	if m == nil || m.client == nil {
		return nil
	}
	datum := cwtypes.MetricDatum{
		MetricName: awsString(name),
		Value:      &v,
		Unit:       unit,
		Timestamp:  timePtr(m.nowFunc()),
	}
	for k, val := range dims {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  awsString(k),
			Value: awsString(val),
		})
	}
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(m.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }
