package notifications

import (
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeSMTPServer accepts one connection and speaks just enough SMTP for a
// single unauthenticated delivery. The DATA payload is sent on the channel.
func fakeSMTPServer(t *testing.T) (string, int, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				_ = tp.PrintfLine("500 empty command")
				continue
			}
			switch strings.ToUpper(fields[0]) {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 localhost")
			case "MAIL", "RCPT":
				_ = tp.PrintfLine("250 OK")
			case "DATA":
				_ = tp.PrintfLine("354 end with <CRLF>.<CRLF>")
				body, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				received <- string(body)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return host, p, received
}

// silentSMTPServer accepts connections and never sends a greeting.
func silentSMTPServer(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	var conns []net.Conn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		<-done
		for _, c := range conns {
			c.Close()
		}
	})

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return host, p
}

func TestSMTPMailerSend(t *testing.T) {
	host, port, received := fakeSMTPServer(t)
	m := NewSMTPMailer(SMTPConfig{
		Host:      host,
		Port:      port,
		FromEmail: "pool@example.com",
		FromName:  "Squares Pool",
	})

	err := m.Send(context.Background(), Message{
		To:       "alice@example.com",
		ToName:   "Alice",
		Subject:  "You won Q1",
		TextBody: "Prize: $5.00",
		HTMLBody: "<p>Prize: $5.00</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case body := <-received:
		for _, want := range []string{`To: "Alice" <alice@example.com>`, "Subject: You won Q1", "Prize: $5.00"} {
			if !strings.Contains(body, want) {
				t.Errorf("delivered message missing %q", want)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received DATA")
	}
}

func TestSMTPMailerStalledServer(t *testing.T) {
	msg := Message{To: "bob@example.com", Subject: "Q1 results", TextBody: "x", HTMLBody: "x"}

	tests := []struct {
		name    string
		timeout time.Duration
		ctx     func() (context.Context, context.CancelFunc)
	}{
		{
			name:    "send timeout without context deadline",
			timeout: 200 * time.Millisecond,
			ctx:     func() (context.Context, context.CancelFunc) { return context.Background(), func() {} },
		},
		{
			name:    "earlier context deadline wins",
			timeout: time.Minute,
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 200*time.Millisecond)
			},
		},
		{
			name:    "cancellation interrupts the handshake",
			timeout: time.Minute,
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(200*time.Millisecond, cancel)
				return ctx, cancel
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := silentSMTPServer(t)
			m := NewSMTPMailer(SMTPConfig{
				Host:        host,
				Port:        port,
				FromEmail:   "pool@example.com",
				SendTimeout: tt.timeout,
			})
			ctx, cancel := tt.ctx()
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- m.Send(ctx, msg) }()

			select {
			case err := <-errCh:
				if err == nil {
					t.Fatal("expected an error from a server that never greets")
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Send still blocked against a server that never greets")
			}
		})
	}
}
