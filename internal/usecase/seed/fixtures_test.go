package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir_MixedFormats(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("users.json", `[{"channelName":"Ann","email":"ann@example.com","password":"123456"}]`)
	write("videos.yaml", "- title: Intro\n  url: v/intro.mp4\n  userId: ann@example.com\n")

	fx, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(fx.Users) != 1 || fx.Users[0].Email != "ann@example.com" {
		t.Errorf("users = %+v", fx.Users)
	}
	if len(fx.Videos) != 1 || fx.Videos[0].URL != "v/intro.mp4" {
		t.Errorf("videos = %+v", fx.Videos)
	}
	if len(fx.Comments) != 0 {
		t.Errorf("comments = %+v", fx.Comments)
	}
}

func TestLoadDir_ParseError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteDir_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			in := Fixtures{
				Users:    []User{{ChannelName: "Ann", Email: "ann@example.com", PasswordHash: "h"}},
				Comments: []Comment{{Text: "hi", VideoID: "Intro", UserID: "ann@example.com"}},
			}
			if err := WriteDir(dir, in, format); err != nil {
				t.Fatal(err)
			}
			out, err := LoadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(out.Users) != 1 || out.Users[0].PasswordHash != "h" || out.Comments[0].VideoID != "Intro" {
				t.Errorf("out = %+v", out)
			}
		})
	}
}

func TestWriteDir_UnknownFormat(t *testing.T) {
	if err := WriteDir(t.TempDir(), Fixtures{}, "xml"); err == nil {
		t.Fatal("expected error")
	}
}
