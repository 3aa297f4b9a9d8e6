package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	appconfig "github.com/wolfman30/voice-booking-demo/internal/config"
)

// LoadAWSConfig resolves region and credentials. Static keys are used when
// both are set; otherwise the default chain (env, profile, Lambda role).
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}

// BuildDynamoClient returns a DynamoDB client, pointed at
// AWS_ENDPOINT_OVERRIDE (LocalStack, dynamodb-local) when set.
func BuildDynamoClient(awsCfg aws.Config, cfg *appconfig.Config) *dynamodb.Client {
	endpoint := strings.TrimSpace(cfg.AWSEndpointOverride)
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
