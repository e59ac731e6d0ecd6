package emailsvc

import (
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	appfs "github.com/trezcool/edutracker/fs"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) {}
func (l *recordingLogger) Warn(msg string, args ...interface{})  {}
func (l *recordingLogger) Fatal(msg string, args ...interface{}) { panic(msg) }

func (l *recordingLogger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, msg)
}

func testConfig() *core.Config {
	return &core.Config{
		AppName:          "EduTracker",
		DefaultFromEmail: "EduTracker <noreply@edutracker.test>",
		FrontendBaseURL:  "http://edutracker.test",
	}
}

func TestConsoleService_send(t *testing.T) {
	logger := new(recordingLogger)
	svc := newConsoleService(testConfig(), logger)

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: "Robert Johnson", Address: "robert.j@email.com"}},
		Subject: "Hello",
		BodyStr: "Plain body",
	}
	require.NoError(t, msg.Attach(strings.NewReader("a,b\n1,2\n"), "scores.csv", "text/csv"))
	svc.sendMessage(msg)

	require.Len(t, logger.infos, 1)
	out := logger.infos[0]
	assert.Contains(t, out, "Subject: [EduTracker] Hello")
	assert.Contains(t, out, `To: "Robert Johnson" <robert.j@email.com>`)
	assert.Contains(t, out, "Content-Type: multipart/mixed")
	assert.Contains(t, out, "Plain body")
	assert.Contains(t, out, "attachment; filename=scores.csv")
	assert.Empty(t, logger.errs)
}

func TestConsoleServiceMock(t *testing.T) {
	require.NoError(t, core.ParseEmailTemplates(appfs.EmailTemplates(), false))
	logger := new(recordingLogger)
	svc := NewConsoleServiceMock(testConfig(), logger)

	tests := []struct {
		name     string
		msg      *core.EmailMessage
		wantSent bool
		wantErr  bool
	}{
		{name: "no recipient", msg: &core.EmailMessage{Subject: "Nobody", BodyStr: "body"}},
		{name: "no content", msg: &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "Empty"}},
		{
			name:    "unknown template",
			msg:     &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, TemplateName: "lol"},
			wantErr: true,
		},
		{
			name:     "plain",
			msg:      &core.EmailMessage{To: []mail.Address{{Address: "a@b.c"}}, Subject: "Plain", BodyStr: "body"},
			wantSent: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, errs := len(svc.SentMessages()), len(logger.errs)
			svc.SendMessages(tt.msg)

			sent := svc.SentMessages()
			if tt.wantSent {
				require.Len(t, sent, before+1)
				assert.Equal(t, tt.msg.Subject, sent[len(sent)-1].Subject)
			} else {
				assert.Len(t, sent, before)
			}
			assert.Equal(t, tt.wantErr, len(logger.errs) > errs, fmt.Sprintf("errors logged: %v", logger.errs))
		})
	}
	assert.Empty(t, logger.infos, "the mock does not print")
}
