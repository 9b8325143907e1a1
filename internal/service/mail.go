// Package service holds the side-effectful collaborators of the API:
// mail transport, avatar storage and background cleanup.
package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer sends the account verification mail. It's an interface so
// handler tests can swap the SMTP transport out.
type Mailer interface {
	SendVerification(token, sendTo string) error
}

type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

func (m *SMTPMailer) SendVerification(token, sendTo string) error {
	from := viper.GetString("mail.sender")
	if sendTo == from {
		return errors.New("invalid email address")
	}

	var s string
	if viper.GetBool("host.ssl.enabled") {
		s = "s"
	}

	verifLink := fmt.Sprintf("http%v://%v/verify/%v", s, viper.GetString("host.domain"), token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", sendTo)
	msg.SetHeader("Subject", "Verify your email to start using your contact book")
	msg.SetBody("text/html", fmt.Sprintf("Click <a href='%v'>here</a> to verify your account.", verifLink))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(msg)
}
