package api

import (
	"fmt"
	"strings"
	"sync"

	"github.com/educonnect/educonnect/internal/auth"
)

// NoticeBuffer collects the notices the auth manager emits so the handler
// that triggered them can hand them back in its JSON response.
type NoticeBuffer struct {
	mu      sync.Mutex
	pending []auth.Notice
}

func NewNoticeBuffer() *NoticeBuffer {
	return &NoticeBuffer{}
}

func (buffer *NoticeBuffer) Notify(notice auth.Notice) {
	buffer.mu.Lock()
	buffer.pending = append(buffer.pending, notice)
	buffer.mu.Unlock()
}

func (buffer *NoticeBuffer) drain() []auth.Notice {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	drained := buffer.pending
	buffer.pending = nil
	return drained
}

// renderedNotice is the localized projection sent over the wire.
type renderedNotice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func renderNotices(messages map[string]string, notices []auth.Notice) []renderedNotice {
	rendered := make([]renderedNotice, 0, len(notices))
	for _, notice := range notices {
		template := translateMessage(messages, notice.Key)
		message := template
		if strings.Contains(template, "%s") {
			message = fmt.Sprintf(template, notice.Detail)
		}
		rendered = append(rendered, renderedNotice{Level: notice.Level, Message: message})
	}
	return rendered
}
