// Package queue provides the SQS producer that publishes served
// recommendations for downstream consumers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"vibefinder/internal/config"
	"vibefinder/internal/recommend"
	"vibefinder/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// EventPublisher sends recommendation events to the configured queue. The
// event type and outcome travel as message attributes so consumers can
// filter without parsing the body.
type EventPublisher struct {
	client   SQSSender
	queueURL string
	logger   *slog.Logger
}

var _ recommend.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher creates an EventPublisher for the recommendation events
// queue named in awsCfg.
func NewEventPublisher(client SQSSender, awsCfg config.AWSConfig, logger *slog.Logger) *EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		client:   client,
		queueURL: awsCfg.RecommendationEventsQueue,
		logger:   logger,
	}
}

// PublishRecommendation serializes the event and sends it to SQS.
func (p *EventPublisher) PublishRecommendation(ctx context.Context, event types.RecommendationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("queue: failed to marshal RecommendationEvent: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.EventType),
			},
			"outcome": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Outcome)),
			},
		},
	}

	if _, err := p.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("queue: failed to send RecommendationEvent to %s: %w", p.queueURL, err)
	}

	p.logger.DebugContext(ctx, "recommendation event sent",
		"event_id", event.EventID,
		"request_id", event.RequestID,
		"outcome", string(event.Outcome),
	)
	return nil
}
