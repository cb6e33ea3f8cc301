package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tdnguyen/bandup/internal/groq"
	"github.com/tdnguyen/bandup/internal/reading"
	"github.com/tdnguyen/bandup/internal/tui"
	"github.com/tdnguyen/bandup/internal/wordbook"
)

func main() {
	modelID := flag.String("model", "", "chat model id (defaults to "+groq.DefaultModel+")")
	endpoint := flag.String("endpoint", "", "OpenAI-compatible base URL (defaults to the Groq API)")
	passagePath := flag.String("passage", "", "optional .txt or .pdf passage to practice on")
	wordbookPath := flag.String("wordbook", wordbook.DefaultPath(), "path to the wordbook JSON file")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	if *modelID == "" {
		*modelID = os.Getenv("BANDUP_MODEL")
	}

	client, err := groq.NewFromEnv(groq.Config{BaseURL: *endpoint})
	if err != nil {
		fmt.Println("lookups disabled:", err)
		client = nil
	}

	var passage *reading.Passage
	if *passagePath != "" {
		passage, err = reading.Load(*passagePath)
		if err != nil {
			fmt.Println("failed to load passage:", err)
			os.Exit(1)
		}
	}

	opts := []tea.ProgramOption{tea.WithMouseAllMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:       client,
			Model:        *modelID,
			WordbookPath: *wordbookPath,
			Passage:      passage,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
