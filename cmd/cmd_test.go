package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankJSON = `[
  {"question": "What is a cell?", "answer": "The unit of life.", "difficulty": 20, "subject": "Biology", "topic": "Cells"},
  {"question": "What does DNA stand for?", "answer": "Deoxyribonucleic acid.", "difficulty": 45, "subject": "Biology", "topic": "Genetics"},
  {"question": "Explain meiosis.", "answer": "Division into four haploid cells.", "difficulty": 70, "subject": "Biology", "topic": "Genetics"},
  {"question": "What is an atom?", "answer": "The smallest unit of an element.", "level": "Easy", "subject": "Chemistry"}
]`

const poolJSON = `[
  {"id": "a", "question": "Q1", "answer": "A1", "level": "Basic"},
  {"id": "b", "question": "Q2", "answer": "A2", "level": "Intermediate"},
  {"id": "c", "question": "Q3", "answer": "A3", "level": "Intermediate"},
  {"id": "d", "question": "Q4", "answer": "A4", "level": "Advanced"},
  {"id": "e", "question": "Q5", "answer": "A5", "level": "Expert"}
]`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "echolearn %v\n%s", args, out.String())
	return out.String()
}

func TestCommands_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	db := filepath.Join(dir, "echo.db")

	bankFile := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(bankFile, []byte(bankJSON), 0o600))
	poolFile := filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(poolFile, []byte(poolJSON), 0o600))

	out := run(t, "bank", "import", bankFile, "--db", db)
	assert.Contains(t, out, "Imported 4 questions (4 in bank)")

	out = run(t, "bank", "list", "--db", db, "--subject", "biology", "--min", "30")
	assert.Contains(t, out, "What does DNA stand for?")
	assert.Contains(t, out, "Explain meiosis.")
	assert.NotContains(t, out, "What is a cell?")

	out = run(t, "simulate", "--db", db, "--pool", poolFile, "--scores", "9,2,3,5,10", "--seed", "7")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "finished")

	out = run(t, "report", "--db", db)
	assert.Contains(t, out, "By difficulty")

	out = run(t, "reset", "--db", db, "--all")
	assert.Contains(t, out, "Deleted")

	out = run(t, "report", "--db", db, "--session", "")
	assert.Contains(t, out, "No sessions recorded yet.")

	out = run(t, "llm", "list", "--db", db)
	assert.Contains(t, out, "No LLM events found.")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "echolearn")
}
