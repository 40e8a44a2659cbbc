package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetrics_Count(t *testing.T) {
	mock := &mockCloudWatch{}
	m := NewMetrics(mock, "ClubShop")

	if err := m.Count(context.Background(), MetricCheckoutSucceeded, map[string]string{"PaymentMethod": "card"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected one PutMetricData call, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "ClubShop" {
		t.Fatalf("namespace mismatch: %s", *in.Namespace)
	}
	d := in.MetricData[0]
	if *d.MetricName != MetricCheckoutSucceeded || *d.Value != 1 {
		t.Fatalf("unexpected datum: %+v", d)
	}
	if len(d.Dimensions) != 1 || *d.Dimensions[0].Value != "card" {
		t.Fatalf("dimension missing: %+v", d.Dimensions)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	if err := m.Value(context.Background(), MetricOrderTotal, 10, nil); err != nil {
		t.Fatalf("nil metrics should be a no-op, got %v", err)
	}
}
