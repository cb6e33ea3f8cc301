package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/tdnguyen/bandup/internal/tuitest"
)

func TestStartupRendersVocabularyPane(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	passage := filepath.Join(cmdDir, "testdata", "passage.txt")
	if _, err := os.Stat(passage); err != nil {
		t.Fatalf("fixture missing: %v", err)
	}

	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-passage", passage},
		Dir:     cmdDir,
		Env:     []string{"GROQ_API_KEY="},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatal("no frames captured")
	}
	for _, want := range []string{
		"bandup",
		"Vocabulary",
		"Set GROQ_API_KEY",
		"A lighthouse keeper",
	} {
		if !strings.Contains(frame.Plain, want) {
			t.Fatalf("final frame missing %q:\n%s", want, frame.Plain)
		}
	}
}

func TestTabSwitchesToSpeakingPane(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen"},
		Dir:     cmdDir,
		Env:     []string{"GROQ_API_KEY="},
		Width:   100,
		Height:  32,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: tuitest.KeyTab},
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatal("no frames captured")
	}
	for _, want := range []string{"Band", "Part", "Speaking topic"} {
		if !strings.Contains(frame.Plain, want) {
			t.Fatalf("speaking pane missing %q:\n%s", want, frame.Plain)
		}
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "bandup-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
