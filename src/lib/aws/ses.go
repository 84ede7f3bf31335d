package aws

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient() *ses.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := ses.NewFromConfig(cfg)
	return svc
}

func NewSESEmailInput(from string, to []string, replyTo, subject, body string, html bool) *ses.SendEmailInput {
	content := &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(body)}
	msgBody := &types.Body{Text: content}
	if html {
		msgBody = &types.Body{Html: content}
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Charset: aws.String("UTF-8"), Data: aws.String(subject)},
			Body:    msgBody,
		},
	}
	if replyTo != "" {
		input.ReplyToAddresses = []string{replyTo}
	}
	return input
}

func SESSendMessage(ctx context.Context, input *ses.SendEmailInput) error {
	c := GetSESClient()
	if c == nil {
		return ErrNoClient
	}
	out, err := c.SendEmail(ctx, input)
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return err
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
	return nil
}
