package testutils

import (
	"context"
	"sync"

	"github.com/skillorbit/skillorbit/services/mail"
	"github.com/stretchr/testify/mock"
)

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendTemplate(ctx context.Context, templateName, to, subject string, data mail.TemplateData) error {
	args := m.Called(ctx, templateName, to, subject, data)
	return args.Error(0)
}

type DispatchedMail struct {
	Template string
	To       string
	Subject  string
	Data     mail.TemplateData
}

// RecordingDispatcher captures dispatched mail synchronously.
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []DispatchedMail
}

func (r *RecordingDispatcher) Dispatch(templateName, to, subject string, data mail.TemplateData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, DispatchedMail{Template: templateName, To: to, Subject: subject, Data: data})
}

func (r *RecordingDispatcher) Sent() []DispatchedMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DispatchedMail(nil), r.sent...)
}

func (r *RecordingDispatcher) Last() (DispatchedMail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return DispatchedMail{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *RecordingDispatcher) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
