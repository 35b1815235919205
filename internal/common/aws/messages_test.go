package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailInput(t *testing.T) {
	input := NewEmailInput("alerts@example.com", "driver@example.com", "Budget check", "plain", "")

	assert.Equal(t, "alerts@example.com", aws.ToString(input.Source))
	assert.Equal(t, []string{"driver@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "Budget check", aws.ToString(input.Message.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(input.Message.Body.Text.Data))
	assert.Nil(t, input.Message.Body.Html)

	withHTML := NewEmailInput("a@example.com", "b@example.com", "s", "t", "<p>t</p>")
	require.NotNil(t, withHTML.Message.Body.Html)
}

func TestNewTopicMessage(t *testing.T) {
	input := NewTopicMessage("arn:aws:sns:us-east-1:123:budget-alerts", "Over budget", "{}",
		map[string]string{"withinGuideline": "false", "sessionId": "s-1"})

	assert.Equal(t, "arn:aws:sns:us-east-1:123:budget-alerts", aws.ToString(input.TopicArn))
	require.Len(t, input.MessageAttributes, 2)
	assert.Equal(t, "String", aws.ToString(input.MessageAttributes["sessionId"].DataType))
	assert.Equal(t, "false", aws.ToString(input.MessageAttributes["withinGuideline"].StringValue))

	bare := NewTopicMessage("arn", "s", "m", nil)
	assert.Nil(t, bare.MessageAttributes)
}
