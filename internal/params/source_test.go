package params

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	values := map[string]string{"a": "1"}
	source := NewStaticSource(values)
	values["a"] = "changed"

	v, err := source.GetParameter(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = source.GetParameter(context.Background(), "b")
	assert.ErrorIs(t, err, ErrParameterNotFound)
}

type fakeSSM struct {
	input *ssm.GetParameterInput
	out   *ssm.GetParameterOutput
	err   error
}

func (f *fakeSSM) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.input = params
	return f.out, f.err
}

func TestSSMSource_GetParameter(t *testing.T) {
	client := &fakeSSM{out: &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("3600")},
	}}
	source := newSSMSource(client, true)

	v, err := source.GetParameter(context.Background(), "/auth/token/time")
	require.NoError(t, err)
	assert.Equal(t, "3600", v)
	assert.Equal(t, "/auth/token/time", aws.ToString(client.input.Name))
	assert.True(t, aws.ToBool(client.input.WithDecryption))
}

func TestSSMSource_NotFound(t *testing.T) {
	source := newSSMSource(&fakeSSM{err: &types.ParameterNotFound{}}, false)

	_, err := source.GetParameter(context.Background(), "/auth/token/time")
	assert.ErrorIs(t, err, ErrParameterNotFound)
}

func TestSSMSource_Error(t *testing.T) {
	source := newSSMSource(&fakeSSM{err: errors.New("throttled")}, false)

	_, err := source.GetParameter(context.Background(), "/auth/token/time")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrParameterNotFound)
}
