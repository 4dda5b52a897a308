package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/pkg/lambda"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to initialize container")
		return lambda.ErrorResponse(http.StatusServiceUnavailable, event.RequestContext.RequestID,
			"SERVICE_UNAVAILABLE", "Service is starting, please retry"), nil
	}
	return lambda.NewProxy(container.Router).Handle(ctx, event)
}

func main() {
	awslambda.Start(handler)
}
