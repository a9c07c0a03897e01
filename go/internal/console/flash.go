package console

import (
	"time"
)

// Area names a message slot on the page
type Area string

const (
	AreaLoginError      Area = "loginError"
	AreaLeagueSuccess   Area = "leagueSuccess"
	AreaLeagueError     Area = "leagueError"
	AreaTeamSuccess     Area = "teamSuccess"
	AreaTeamError       Area = "teamError"
	AreaScheduleSuccess Area = "scheduleSuccess"
	AreaScheduleError   Area = "scheduleError"
	AreaResultSuccess   Area = "resultSuccess"
	AreaResultError     Area = "resultError"
	AreaLogoSuccess     Area = "logoSuccess"
	AreaLogoError       Area = "logoError"
)

// FlashKind is success or error
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

const (
	SuccessFlashTTL = 3 * time.Second
	ErrorFlashTTL   = 5 * time.Second
)

// Flash is a dismissible message shown in an area until ExpiresAt.
type Flash struct {
	Area      Area      `json:"area"`
	Kind      FlashKind `json:"kind"`
	Text      string    `json:"text"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newFlash(area Area, kind FlashKind, text string, now time.Time) Flash {
	ttl := SuccessFlashTTL
	if kind == FlashError {
		ttl = ErrorFlashTTL
	}
	return Flash{
		Area:      area,
		Kind:      kind,
		Text:      text,
		ShownAt:   now,
		ExpiresAt: now.Add(ttl),
	}
}

// Visible reports whether the flash is still shown at now.
func (f Flash) Visible(now time.Time) bool {
	return !f.ShownAt.IsZero() && now.Before(f.ExpiresAt)
}

// HideAfter is how long the flash stays up from when it was shown.
func (f Flash) HideAfter() time.Duration {
	return f.ExpiresAt.Sub(f.ShownAt)
}

// IsError reports whether the flash is an error message
func (f Flash) IsError() bool {
	return f.Kind == FlashError
}
