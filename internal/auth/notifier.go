package auth

import "log"

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice keys are i18n message keys; the presentation layer localizes them.
const (
	NoticeLoginSuccess   = "auth.login_success"
	NoticeLoginFailed    = "auth.login_failed"
	NoticeSignupSuccess  = "auth.signup_success"
	NoticeSignupFailed   = "auth.signup_failed"
	NoticeLogoutDone     = "auth.logout_done"
	NoticeSessionExpired = "auth.session_expired"
)

type Notice struct {
	Level  string `json:"level"`
	Key    string `json:"key"`
	Detail string `json:"detail,omitempty"`
}

// Notifier receives user-visible notices emitted by auth operations.
type Notifier interface {
	Notify(notice Notice)
}

// LogNotifier is the fallback sink when no presentation layer is attached.
type LogNotifier struct {
	Logger *log.Logger
}

func (notifier LogNotifier) Notify(notice Notice) {
	logger := notifier.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("notice [%s] %s: %s", notice.Level, notice.Key, notice.Detail)
}
