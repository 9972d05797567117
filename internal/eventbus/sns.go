package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// snsAPI is the subset of *sns.Client this publisher calls, narrowed to an
// interface so tests can substitute a fake.
type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publishes JSON-marshaled events to an AWS SNS topic.
type SNSPublisher struct {
	client snsAPI
}

// loadDefaultAWSConfig and newSNSClientFromConfig are seams for tests.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
var newSNSClientFromConfig = sns.NewFromConfig

// NewSNSPublisher constructs the event bus publisher for the given region,
// optionally overriding the endpoint for local development (e.g. LocalStack).
func NewSNSPublisher(ctx context.Context, region, endpoint string) (*SNSPublisher, error) {
	cfg, err := loadDefaultAWSConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	client := newSNSClientFromConfig(cfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &SNSPublisher{client: client}, nil
}

// Publish marshals event to JSON and publishes it to the named topic.
func (p *SNSPublisher) Publish(ctx context.Context, topicARN string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	message := string(body)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Message:  &message,
	})
	if err != nil {
		return fmt.Errorf("sns publish error: %w", err)
	}
	return nil
}

var _ Publisher = (*SNSPublisher)(nil)
