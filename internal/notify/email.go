package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the part of the SES v2 client used to send mail.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type emailNotifier struct {
	client SESAPI
	from   string
}

// NewEmail sends the notes link to the requester through SES.
func NewEmail(client SESAPI, from string) Notifier {
	return &emailNotifier{client: client, from: strings.TrimSpace(from)}
}

// NewEmailFromConfig builds the SES client from a loaded AWS config.
func NewEmailFromConfig(cfg aws.Config, from string) Notifier {
	return NewEmail(sesv2.NewFromConfig(cfg), from)
}

func (e *emailNotifier) NotesReady(ctx context.Context, d Delivery) error {
	to := strings.TrimSpace(d.Recipient)
	if to == "" || e.from == "" {
		return nil
	}

	title := d.Title
	if title == "" {
		title = d.Name
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Your study notes for \"%s\" are ready.\n\n", title)
	fmt.Fprintf(&body, "PDF: %s\n", d.PDFURL)
	if d.DOCXURL != "" {
		fmt.Fprintf(&body, "Word: %s\n", d.DOCXURL)
	}
	if d.Placeholder {
		body.WriteString("\nThe notes could not be generated automatically this time, so the document only contains a notice.\n")
	}

	_, err := e.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String("Lecture notes ready: " + title), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body.String()), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// Failed sends nothing: requesters only hear about success, the webhook covers failures.
func (e *emailNotifier) Failed(context.Context, string, error) error { return nil }
