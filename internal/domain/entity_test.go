package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestUser_Validate(t *testing.T) {
	valid := func() User {
		return User{ChannelName: "Tech Talks", Email: "tech@example.com", PasswordHash: "h", Role: RoleUser}
	}
	tests := []struct {
		name   string
		mutate func(*User)
		field  string
	}{
		{"ok", func(*User) {}, ""},
		{"blank channel", func(u *User) { u.ChannelName = "  " }, "channelName"},
		{"long channel", func(u *User) { u.ChannelName = strings.Repeat("x", 51) }, "channelName"},
		{"bad email", func(u *User) { u.Email = "nope" }, "email"},
		{"display-name email", func(u *User) { u.Email = "Bob <bob@example.com>" }, "email"},
		{"bad role", func(u *User) { u.Role = "root" }, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.mutate(&u)
			assertField(t, u.Validate(), tt.field)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrValidation) {
		t.Errorf("short password: %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("6 chars: %v", err)
	}
}

func TestCategory_ValidateSetsKey(t *testing.T) {
	c := Category{Title: "  Music ", Description: "songs", UserID: "u1"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TitleKey != "music" {
		t.Errorf("TitleKey = %q, want music", c.TitleKey)
	}
}

func TestVideo_Validate(t *testing.T) {
	v := Video{Title: "a", URL: "https://x", UserID: "u", Status: StatusPrivate}
	assertField(t, v.Validate(), "")

	v.Status = "hidden"
	assertField(t, v.Validate(), "status")

	v.Status = StatusPublic
	v.Views = -1
	assertField(t, v.Validate(), "views")
}

func TestSubscription_RejectsSelf(t *testing.T) {
	s := Subscription{SubscriberID: "u1", ChannelID: "u1"}
	assertField(t, s.Validate(), "channelId")
}

func TestHistory_Validate(t *testing.T) {
	tests := []struct {
		name  string
		h     History
		field string
	}{
		{"watch ok", History{Type: HistoryWatch, VideoID: "v", UserID: "u"}, ""},
		{"watch without video", History{Type: HistoryWatch, UserID: "u"}, "videoId"},
		{"search ok", History{Type: HistorySearch, SearchText: "cats", UserID: "u"}, ""},
		{"search blank", History{Type: HistorySearch, SearchText: " ", UserID: "u"}, "searchText"},
		{"bad type", History{Type: "x", UserID: "u"}, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertField(t, tt.h.Validate(), tt.field)
		})
	}
}

func TestHistory_ValidateDetached(t *testing.T) {
	detached := History{Type: HistoryWatch, UserID: "u"}
	assertField(t, detached.ValidateDetached(), "")
	assertField(t, detached.Validate(), "videoId")

	noOwner := History{Type: HistoryWatch}
	assertField(t, noOwner.ValidateDetached(), "userId")
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	if field == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError on %s, got %v", field, err)
	}
	if ve.Field != field {
		t.Errorf("field = %q, want %q", ve.Field, field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError must unwrap to ErrValidation")
	}
}
