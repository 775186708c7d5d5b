package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	got *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.got = in
	return &ses.SendEmailOutput{}, f.err
}

func TestSESMailer_Send(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, from: "noreply@stead.app"}

	require.NoError(t, m.Send(context.Background(), "team@stead.app", "New feedback", "love it"))
	require.NotNil(t, fake.got)
	assert.Equal(t, "noreply@stead.app", aws.ToString(fake.got.Source))
	assert.Equal(t, []string{"team@stead.app"}, fake.got.Destination.ToAddresses)
	assert.Equal(t, "New feedback", aws.ToString(fake.got.Message.Subject.Data))
	assert.Equal(t, "love it", aws.ToString(fake.got.Message.Body.Text.Data))

	fake.err = errors.New("throttled")
	assert.Error(t, m.Send(context.Background(), "team@stead.app", "s", "b"))
}
