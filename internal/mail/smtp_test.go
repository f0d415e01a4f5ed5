package mail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkdeck/api/internal/config"
)

// fakeSMTP speaks just enough SMTP to accept one message.
type fakeSMTP struct {
	ln     net.Listener
	silent bool

	mu   sync.Mutex
	rcpt []string
	data string
}

func startFakeSMTP(t *testing.T, silent bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{ln: ln, silent: silent}
	t.Cleanup(func() { ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) serve() {
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	if s.silent {
		time.Sleep(2 * time.Second)
		return
	}

	r := bufio.NewReader(conn)
	write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }
	write("220 fake ready")

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			write("250 fake")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			write("250 ok")
		case strings.HasPrefix(cmd, "RCPT TO"):
			s.mu.Lock()
			s.rcpt = append(s.rcpt, strings.TrimSpace(line[len("RCPT TO:"):]))
			s.mu.Unlock()
			write("250 ok")
		case cmd == "DATA":
			write("354 go ahead")
			var body strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				body.WriteString(l)
			}
			s.mu.Lock()
			s.data = body.String()
			s.mu.Unlock()
			write("250 queued")
		case cmd == "QUIT":
			write("221 bye")
			return
		default:
			write("502 unsupported")
		}
	}
}

func (s *fakeSMTP) config(t *testing.T) config.SMTPConfig {
	host, port, err := net.SplitHostPort(s.ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.SMTPConfig{
		Host:            host,
		Port:            p,
		ConnectTimeout:  time.Second,
		GreetingTimeout: 200 * time.Millisecond,
		SocketTimeout:   time.Second,
	}
}

func TestSMTPMailerDelivers(t *testing.T) {
	srv := startFakeSMTP(t, false)
	m := NewSMTPMailer("Linkdeck <no-reply@linkdeck.local>", srv.config(t))

	err := m.Send(context.Background(), Message{To: "ann@x.com", Subject: "Code", Text: "A1B2C3"})
	require.NoError(t, err)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, []string{"<ann@x.com>"}, srv.rcpt)
	assert.Contains(t, srv.data, "Subject: Code")
	assert.Contains(t, srv.data, "A1B2C3")
}

func TestSMTPMailerGreetingTimeout(t *testing.T) {
	srv := startFakeSMTP(t, true)
	m := NewSMTPMailer("no-reply@linkdeck.local", srv.config(t))

	start := time.Now()
	err := m.Send(context.Background(), Message{To: "ann@x.com", Subject: "Code", Text: "A1B2C3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp greeting")
	assert.Less(t, time.Since(start), 2*time.Second)
}
