package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

func TestSMTPBuildMessage(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromEmail: "pool@example.com",
		FromName:  "Squares Pool",
	})
	m.now = func() time.Time { return time.Date(2026, 2, 8, 20, 0, 0, 0, time.UTC) }

	raw, err := m.buildMessage(Message{
		To:       "bob@example.com",
		ToName:   "Bob",
		Subject:  "Q1 results",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
	})
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}

	msg := string(raw)
	for _, want := range []string{
		`From: "Squares Pool" <pool@example.com>`,
		`To: "Bob" <bob@example.com>`,
		"Subject: Q1 results",
		"Content-Type: multipart/alternative; boundary=",
		"Content-Type: text/plain; charset=UTF-8",
		"Content-Type: text/html; charset=UTF-8",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Index(msg, "plain body") > strings.Index(msg, "<p>html body</p>") {
		t.Error("text part should precede the html part")
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer(t *testing.T) {
	client := &fakeSES{}
	m := NewSESMailerWithClient(client, "pool@example.com", "Squares Pool")

	err := m.Send(context.Background(), Message{
		To:       "bob@example.com",
		Subject:  "Q1 results",
		TextBody: "plain",
		HTMLBody: "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	in := client.input
	if got := aws.ToString(in.FromEmailAddress); got != "Squares Pool <pool@example.com>" {
		t.Errorf("from = %q", got)
	}
	if len(in.Destination.ToAddresses) != 1 || in.Destination.ToAddresses[0] != "bob@example.com" {
		t.Errorf("to = %v", in.Destination.ToAddresses)
	}
	if got := aws.ToString(in.Content.Simple.Body.Text.Data); got != "plain" {
		t.Errorf("text body = %q", got)
	}

	client.err = errors.New("throttled")
	if err := m.Send(context.Background(), Message{To: "bob@example.com"}); err == nil {
		t.Error("expected SES error to propagate")
	}
}

func TestMetricMailerCounts(t *testing.T) {
	metrics := NewCounterMetrics()
	stub := &stubMailer{}
	stub.setFail("bad@example.com", true)
	m := NewMetricMailer(stub, metrics)

	_ = m.Send(context.Background(), Message{To: "ok@example.com"})
	_ = m.Send(context.Background(), Message{To: "bad@example.com"})

	sends, sendErrors, _ := metrics.Snapshot()
	if sends != 2 || sendErrors != 1 {
		t.Errorf("sends=%d errors=%d, want 2 and 1", sends, sendErrors)
	}
}
