package letters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdishayek-png/ai-job-bot/internal/llm"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, tier llm.ModelTier, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, tier llm.ModelTier, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                       { return nil }

var testJob = types.JobPosting{
	Title:   "Senior Accountant",
	Company: "Maple Ledger Inc",
	Summary: "Own month-end close and payroll.",
}

var testProfile = types.Profile{
	Name:     "Mehdi Shayek",
	Headline: "accountant, 5 years",
	Skills:   []string{"accounting", "payroll", "excel"},
}

func TestGenerate_PromptIncludesJobAndProfile(t *testing.T) {
	client := &fakeLLM{response: "Dear team, ..."}
	g := NewGenerator(client, t.TempDir())

	letter, err := g.Generate(context.Background(), testJob, testProfile)
	require.NoError(t, err)
	assert.Equal(t, "Dear team, ...", letter)

	assert.Contains(t, client.lastPrompt, "Senior Accountant")
	assert.Contains(t, client.lastPrompt, "Maple Ledger Inc")
	assert.Contains(t, client.lastPrompt, "accounting, payroll, excel")
	assert.NotContains(t, client.lastPrompt, "{{.")
}

func TestGenerate_ErrorSurfaced(t *testing.T) {
	sentinel := errors.New("quota exceeded")
	g := NewGenerator(&fakeLLM{err: sentinel}, t.TempDir())

	_, err := g.Generate(context.Background(), testJob, testProfile)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "Maple Ledger Inc")
}

func TestGenerate_EmptyResponse(t *testing.T) {
	g := NewGenerator(&fakeLLM{response: "   \n"}, t.TempDir())

	_, err := g.Generate(context.Background(), testJob, testProfile)
	assert.Error(t, err)
}

func TestGenerate_NoClient(t *testing.T) {
	g := NewGenerator(nil, t.TempDir())

	_, err := g.Generate(context.Background(), testJob, testProfile)
	assert.Error(t, err)
}

func TestGenerateToFile(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(&fakeLLM{response: "A short letter."}, dir)

	path, err := g.GenerateToFile(context.Background(), testJob, testProfile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Maple_Ledger_Inc__Senior_Accountant.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A short letter.\n", string(data))
}

func TestGenerateToFile_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "letters")
	g := NewGenerator(&fakeLLM{response: "ok"}, dir)

	_, err := g.GenerateToFile(context.Background(), testJob, testProfile)
	require.NoError(t, err)
}

func TestLetterFilename(t *testing.T) {
	tests := []struct {
		name     string
		job      types.JobPosting
		expected string
	}{
		{
			name:     "strips unsafe characters",
			job:      types.JobPosting{Title: "C++ Dev (Remote)", Company: "Acme / Labs"},
			expected: "Acme_Labs__C_Dev_Remote.txt",
		},
		{
			name:     "empty fields get placeholders",
			job:      types.JobPosting{},
			expected: "unknown__role.txt",
		},
		{
			name: "long names truncated",
			job: types.JobPosting{
				Title:   strings.Repeat("a", 100),
				Company: "X",
			},
			expected: "X__" + strings.Repeat("a", 60) + ".txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LetterFilename(tt.job))
		})
	}
}
