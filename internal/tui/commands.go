package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tdnguyen/bandup/internal/groq"
	"github.com/tdnguyen/bandup/internal/session"
	"github.com/tdnguyen/bandup/internal/wordbook"
)

const (
	lookupTimeout   = 45 * time.Second
	generateTimeout = 2 * time.Minute
)

func lookupJob(client groq.Client, modelID string, req session.LookupRequest) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, lookupTimeout)
		defer cancel()
		result, err := client.Lookup(ctx, modelID, req.Text, req.Context)
		return lookupResultMsg{query: req.Text, result: result, err: err}, err
	}
}

func searchJob(token uint64, client groq.Client, modelID, phrase string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, generateTimeout)
		defer cancel()
		sentences, err := client.GenerateExamples(ctx, modelID, phrase)
		return searchResultMsg{token: token, sentences: sentences, err: err}, err
	}
}

func randomSeedJob(token uint64, client groq.Client, modelID string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, generateTimeout)
		defer cancel()
		sentence, err := client.RandomSeed(ctx, modelID)
		return randomSeedMsg{token: token, sentence: sentence, err: err}, err
	}
}

func speakingJob(token uint64, client groq.Client, modelID, topic string, band groq.Band, part groq.Part) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, generateTimeout)
		defer cancel()
		draft, err := client.SpeakingAnswer(ctx, modelID, topic, band, part)
		return speakingResultMsg{token: token, draft: draft, err: err}, err
	}
}

func refineJob(token uint64, client groq.Client, modelID string, req groq.RefineRequest) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, generateTimeout)
		defer cancel()
		draft, err := client.RefineAnswer(ctx, modelID, req)
		return refineResultMsg{token: token, draft: draft, err: err}, err
	}
}

func listModelsJob(client groq.Client) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, lookupTimeout)
		defer cancel()
		models, err := client.ListModels(ctx)
		return modelsResultMsg{models: models, err: err}, err
	}
}

func saveEntriesJob(path string, entries []wordbook.Entry) jobRunner {
	toPersist := append([]wordbook.Entry(nil), entries...)
	return func(parent context.Context) (tea.Msg, error) {
		if err := wordbook.Save(path, toPersist...); err != nil {
			return saveResultMsg{err: err}, err
		}
		return saveResultMsg{count: len(toPersist)}, nil
	}
}
