package mailer

import (
	"context"
	"fmt"
	"wedding/src/config"
	"wedding/src/lib"
	awslib "wedding/src/lib/aws"
)

type SendFunc func(ctx context.Context, input *lib.SendMailInput) error

var drivers = map[string]SendFunc{
	"smtp": func(ctx context.Context, input *lib.SendMailInput) error {
		return lib.SendMail(input)
	},
	"ses": func(ctx context.Context, input *lib.SendMailInput) error {
		return awslib.SESSendMessage(ctx, awslib.NewSESEmailInput(input.From, input.To, input.ReplyTo, input.Subject, input.Body, input.Html))
	},
}

// RegisterDriver adds or replaces a mail driver by name.
func RegisterDriver(name string, fn SendFunc) {
	drivers[name] = fn
}

func Enabled() bool {
	c := config.Get()
	_, ok := drivers[c.MailDriver]
	return ok && c.AdminEmail != ""
}

// NewMailerMessage sends input through the driver selected by MAIL_DRIVER,
// filling in the configured sender when missing.
func NewMailerMessage(ctx context.Context, input *lib.SendMailInput) error {
	c := config.Get()
	send, ok := drivers[c.MailDriver]
	if !ok {
		return fmt.Errorf("unknown mail driver %q", c.MailDriver)
	}
	if input.From == "" {
		input.From = c.MailFrom
	}
	if input.FromName == "" {
		input.FromName = c.MailFromName
	}
	if err := send(ctx, input); err != nil {
		return fmt.Errorf("error sending mail via %s: %s", c.MailDriver, err.Error())
	}
	return nil
}
