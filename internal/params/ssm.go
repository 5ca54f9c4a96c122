package params

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSource reads parameters from AWS Systems Manager Parameter Store
type SSMSource struct {
	client         ssmAPI
	withDecryption bool
}

// NewSSMSource creates an SSM source from the default AWS credential chain.
// An empty region defers to the environment.
func NewSSMSource(ctx context.Context, region string, withDecryption bool) (*SSMSource, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newSSMSource(ssm.NewFromConfig(cfg), withDecryption), nil
}

func newSSMSource(client ssmAPI, withDecryption bool) *SSMSource {
	return &SSMSource{client: client, withDecryption: withDecryption}
}

func (s *SSMSource) GetParameter(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(s.withDecryption),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
		}
		return "", fmt.Errorf("failed to get parameter %s from ssm: %w", name, err)
	}

	if out.Parameter == nil {
		return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
	}

	return aws.ToString(out.Parameter.Value), nil
}
