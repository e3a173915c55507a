package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/testutil"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBoardsCommand_RequiresFile(t *testing.T) {
	if _, err := executeCommand(t, "boards"); err == nil {
		t.Fatal("Expected an error without a board file")
	}
}

func TestVideosCommand_RequiresURL(t *testing.T) {
	if _, err := executeCommand(t, "videos"); err == nil {
		t.Fatal("Expected an error without a video URL")
	}
}

func TestBoardsCommand_RejectsNonPositiveRetryAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(t, "boards", path, "-r", "0")
	if err == nil || !strings.Contains(err.Error(), "--retry-amount") {
		t.Fatalf("Expected a retry amount error, got %v", err)
	}
}

func TestBoardsCommand_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "boards", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil || !strings.Contains(err.Error(), "open board list") {
		t.Fatalf("Expected an open error, got %v", err)
	}
}

func TestBoardsCommand_EndToEnd(t *testing.T) {
	platform := testutil.NewFakePlatform(t)
	platform.AddChannel("F001E5", "Some Channel")
	platform.AddBoard("F001E5", "7881", testutil.FakePost{PostID: "p", Video: &testutil.FakeVideo{
		Seq:   "100",
		Title: "Hello",
		Captions: []models.CaptionRecord{
			{Locale: "en", Type: "fan", Source: platform.AddCaption("a.vtt", "WEBVTT a")},
			{Locale: "en", Type: "fan", Source: platform.AddCaption("b.vtt", "WEBVTT b")},
			{Locale: "ko", Type: "cp", Source: platform.AddCaption("ko.vtt", "WEBVTT ko")},
		},
	}})

	t.Setenv("APP_API_BASE_URL", platform.APIBaseURL())
	t.Setenv("APP_RETRY_DELAY", "1ms")

	dir := t.TempDir()
	boardFile := filepath.Join(dir, "boards.txt")
	content := "\n" + platform.Server.URL + "/channel/F001E5/board/7881\n\n"
	if err := os.WriteFile(boardFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	outputDir := filepath.Join(dir, "out")

	out, err := executeCommand(t, "boards", boardFile, "-d", "-o", outputDir, "-l", "error")
	if err != nil {
		t.Fatalf("boards: %v", err)
	}

	for _, name := range []string{"Hello [100].en_fan_1.vtt", "Hello [100].en_fan_2.vtt"} {
		if _, err := os.Stat(filepath.Join(outputDir, "Some Channel", name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Some Channel", "Hello [100].ko_cp.vtt")); !os.IsNotExist(err) {
		t.Errorf("Singleton caption should not be written with --dupes-only")
	}
	if !strings.Contains(strings.ToUpper(out), "SOME CHANNEL") {
		t.Errorf("Expected the summary to list the channel, got:\n%s", out)
	}
}

func TestRenderSummary(t *testing.T) {
	summary := models.RunSummary{
		RunID: "run-1",
		Channels: []models.ChannelSummary{
			{Channel: "Alpha", Videos: 2, CaptionsFound: 5, CaptionsWritten: 4, Failed: 1},
			{Channel: "", Skipped: 3},
		},
	}

	// Headers and footers are upper-cased by the table style
	got := strings.ToUpper(renderSummary(summary))
	for _, want := range []string{"RUN-1", "ALPHA", "CAPTIONS WRITTEN", "TOTAL"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	if got := renderSummary(models.RunSummary{}); got != "No channel processed" {
		t.Errorf("Unexpected empty summary %q", got)
	}
}
