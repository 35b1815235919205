package aws

import (
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

func NewEmailInput(from, to, subject, textBody, htmlBody string) *ses.SendEmailInput {
	body := &sestypes.Body{Text: &sestypes.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")}}
	if htmlBody != "" {
		body.Html = &sestypes.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")}
	}
	return &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
}

// NewTopicMessage builds an SNS publish with string message attributes so
// subscribers can filter on them.
func NewTopicMessage(topicARN, subject, message string, attrs map[string]string) *sns.PublishInput {
	input := &sns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}
	if len(attrs) == 0 {
		return input
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	input.MessageAttributes = make(map[string]snstypes.MessageAttributeValue, len(attrs))
	for _, k := range keys {
		input.MessageAttributes[k] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(attrs[k]),
		}
	}
	return input
}
