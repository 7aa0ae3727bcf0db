// Command lambda serves the shelfstack graphql API as a serverless function
// behind an API gateway. The database pool is sized for a single short-lived
// connection; the runtime may freeze the process between invocations.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/shelfstack/shelfstack/internal/config"
	"github.com/shelfstack/shelfstack/internal/controller"
	"github.com/shelfstack/shelfstack/internal/credentials"
	"github.com/shelfstack/shelfstack/internal/db"
	"github.com/shelfstack/shelfstack/internal/graph"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("[Startup] Failed to load configuration.", zap.Error(err))
	}

	dbcfg := cfg.Database
	dbcfg.Mode = db.ModeOnDemand

	dbconn, err := db.Open(ctx, dbcfg, logger)
	if err != nil {
		logger.Fatal("[Startup] Failed to initialize database connection.", zap.Error(err))
	}
	if err := dbconn.Ping(ctx); err != nil {
		logger.Fatal("[Startup] Failed to reach database.", zap.Error(err))
	}

	creds, err := credentials.NewManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("[Startup] Failed to create credentials manager.", zap.Error(err))
	}

	ctrl := controller.New(db.NewStore(logger, dbconn), creds)

	schema, err := graph.NewSchema(logger, ctrl)
	if err != nil {
		logger.Fatal("[Startup] Failed to parse graphql schema.", zap.Error(err))
	}

	lambda.StartWithOptions(
		newHandler(logger, schema).handle,
		lambda.WithContext(ctx),
		lambda.WithEnableSIGTERM(func() {
			dbconn.Close()
			_ = logger.Sync()
			os.Exit(0)
		}),
	)
}

func newHandler(logger *zap.Logger, schema *graphql.Schema) *handler {
	return &handler{logger: logger, schema: schema}
}

type handler struct {
	logger *zap.Logger
	schema *graphql.Schema
}

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

var corsHeaders = map[string]string{
	"Content-Type":                 "application/json",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Accept, Authorization, Content-Type",
}

func (h *handler) handle(
	ctx context.Context,
	event events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return errorResponse(http.StatusBadRequest, "malformed request body"), nil
		}
		body = decoded
	}

	var req graphqlRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(http.StatusBadRequest, "malformed request body"), nil
	}

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	payload, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("error marshalling graphql response", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "internal server error"), nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(payload),
	}, nil
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
	})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
