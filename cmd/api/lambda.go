package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// lambdaHandlerFunc is the signature lambda.Start expects for HTTP API
// (payload format 2.0) events.
type lambdaHandlerFunc func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// newLambdaHandler adapts an http.Handler to API Gateway HTTP API events.
func newLambdaHandler(h http.Handler) lambdaHandlerFunc {
	return httpadapter.NewV2(h).ProxyWithContext
}
