package lib

import (
	"log"
	"wedding/src/config"

	"github.com/wneessen/go-mail"
)

func GetSMTPClient() (*mail.Client, error) {
	c := config.Get()
	client, err := mail.NewClient(
		c.SMTPHost,
		mail.WithPort(c.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.SMTPUsername),
		mail.WithPassword(c.SMTPPassword),
	)
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return client, nil
}

// NewMailMessage builds the go-mail message for input without sending it.
func NewMailMessage(input *SendMailInput) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(input.FromName, input.From); err != nil {
		return nil, err
	}
	if err := msg.To(input.To...); err != nil {
		return nil, err
	}
	if input.ReplyTo != "" {
		if err := msg.ReplyTo(input.ReplyTo); err != nil {
			log.Printf("Failed to set Reply-To address: %s\n", err.Error())
		}
	}
	msg.Subject(input.Subject)
	if input.Html {
		msg.SetBodyString(mail.TypeTextHTML, input.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, input.Body)
	}
	return msg, nil
}

func SendMail(input *SendMailInput) error {
	msg, err := NewMailMessage(input)
	if err != nil {
		return err
	}
	c, err := GetSMTPClient()
	if err != nil {
		return err
	}
	return c.DialAndSend(msg)
}

type SendMailInput struct {
	From     string
	FromName string
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	Html     bool
}
