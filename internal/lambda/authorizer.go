package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prperemyshlev/token-authorizer/internal/service"
	"go.uber.org/zap"
)

const (
	policyVersion = "2012-10-17"
	invokeAction  = "execute-api:Invoke"

	// deniedPrincipal is reported when there is no verified subject
	deniedPrincipal = "user"
)

// AuthorizerFunction is an API Gateway TOKEN authorizer
type AuthorizerFunction struct {
	authorizer service.Authorizer
	logger     *zap.Logger
}

func NewAuthorizerFunction(authorizer service.Authorizer, logger *zap.Logger) *AuthorizerFunction {
	return &AuthorizerFunction{
		authorizer: authorizer,
		logger:     logger,
	}
}

// Handle turns the authorization decision into an IAM policy. Denials are
// returned as Deny policies rather than errors.
func (f *AuthorizerFunction) Handle(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	decision := f.authorizer.Authorize(ctx, req.AuthorizationToken)
	if !decision.Allowed {
		f.logger.Info("Request denied",
			zap.String("method_arn", req.MethodArn),
			zap.String("reason", service.ReasonCode(decision.Reason)),
		)
		return policy(deniedPrincipal, "Deny", req.MethodArn, nil), nil
	}

	return policy(decision.Subject, "Allow", req.MethodArn, map[string]interface{}{
		"sub": decision.Subject,
	}), nil
}

func policy(principalID, effect, resource string, authContext map[string]interface{}) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: policyVersion,
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{invokeAction},
					Effect:   effect,
					Resource: []string{resource},
				},
			},
		},
		Context: authContext,
	}
}
