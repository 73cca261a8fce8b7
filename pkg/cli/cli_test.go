package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/olive/pkg/cli"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/repository/file"
	"github.com/secmon-lab/olive/pkg/usecase"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	restore := cli.SetOutput(&buf)
	defer restore()

	logPath := filepath.Join(t.TempDir(), "olive.log")
	argv := append([]string{"olive", "--log-output", logPath}, args...)
	gt.NoError(t, cli.Run(context.Background(), argv, "test")).Required()
	return buf.String()
}

func loadNotes(t *testing.T, dir string) []*model.Note {
	t.Helper()
	kv, err := file.New(dir)
	gt.NoError(t, err).Required()
	store := usecase.NewNoteStore(kv)
	store.Load(context.Background())
	notes, ok := store.Notes()
	gt.Bool(t, ok).True()
	return notes
}

func TestNoteCommands(t *testing.T) {
	dir := t.TempDir()
	storage := []string{"--storage-backend", "file", "--storage-dir", dir}

	out := runCLI(t, append([]string{"note", "add", "--author", "Alex"}, append(storage, "buy lemons, bread and milk")...)...)
	gt.String(t, out).Contains("Groceries")
	gt.String(t, out).Contains("- lemons")

	notes := loadNotes(t, dir)
	gt.Array(t, notes).Length(1)
	gt.Value(t, notes[0].AddedBy).Equal("Alex")
	id := notes[0].ID.String()

	out = runCLI(t, append([]string{"note", "list"}, storage...)...)
	gt.String(t, out).Contains(id[:8])

	runCLI(t, append(append([]string{"note", "done"}, storage...), id[:8])...)
	gt.Bool(t, loadNotes(t, dir)[0].Completed).True()

	out = runCLI(t, append([]string{"note", "list"}, storage...)...)
	gt.String(t, out).Contains(id[:8])

	out = runCLI(t, append([]string{"note", "list", "--category", "groceries"}, storage...)...)
	gt.String(t, out).Contains(id[:8])

	out = runCLI(t, append([]string{"note", "list", "--hide-completed"}, storage...)...)
	gt.String(t, out).Contains("No notes")

	out = runCLI(t, append([]string{"note", "list", "--hide-completed", "--category", "groceries"}, storage...)...)
	gt.String(t, out).Contains("No notes")

	out = runCLI(t, append(append([]string{"note", "show"}, storage...), id)...)
	gt.String(t, out).Contains("buy lemons, bread and milk")

	runCLI(t, append(append([]string{"note", "rm"}, storage...), id)...)
	gt.Array(t, loadNotes(t, dir)).Length(0)
}

func TestNoteShowUnknownID(t *testing.T) {
	var buf bytes.Buffer
	restore := cli.SetOutput(&buf)
	defer restore()

	dir := t.TempDir()
	err := cli.Run(context.Background(), []string{
		"olive", "--log-output", filepath.Join(t.TempDir(), "olive.log"),
		"note", "show", "--storage-backend", "file", "--storage-dir", dir, "missing",
	}, "test")
	gt.Error(t, err).Is(usecase.ErrNoteNotFound)
}

func TestClassifyCommand(t *testing.T) {
	out := runCLI(t, "classify", "--storage-backend", "memory", "fix kitchen sink")

	var note model.Note
	gt.NoError(t, json.Unmarshal([]byte(out), &note)).Required()
	gt.Value(t, note.Category).Equal(model.CategoryTask)
	gt.Value(t, note.Summary).Equal("fix kitchen sink")
	gt.Value(t, note.AddedBy).Equal(model.DefaultPartner1)
}
