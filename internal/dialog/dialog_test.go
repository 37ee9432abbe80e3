package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

func scripted(out string, code int, err error, calls *[]call) Runner {
	return func(ctx context.Context, name string, args ...string) (string, int, error) {
		*calls = append(*calls, call{name: name, args: args})
		return out, code, err
	}
}

// answers replies with outs in order, then cancels.
func answers(calls *[]call, outs ...string) Runner {
	return func(ctx context.Context, name string, args ...string) (string, int, error) {
		*calls = append(*calls, call{name: name, args: args})
		if len(outs) == 0 {
			return "", 1, nil
		}
		out := outs[0]
		outs = outs[1:]
		return out, 0, nil
	}
}

var mdFilter = []Filter{{Name: "Markdown", Extensions: []string{"md"}}}

func TestZenityOpen(t *testing.T) {
	var calls []call
	d, err := New("zenity", scripted("/tmp/a.md", 0, nil, &calls))
	require.NoError(t, err)

	p, ok, err := d.OpenFile(context.Background(), Options{Title: "Open", Filters: mdFilter})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/a.md", p)
	require.Len(t, calls, 1)
	assert.Equal(t, "zenity", calls[0].name)
	assert.Equal(t, []string{"--file-selection", "--title=Open", "--file-filter=Markdown | *.md"}, calls[0].args)
}

func TestZenitySaveAddsExtension(t *testing.T) {
	var calls []call
	d := &Zenity{run: scripted("/tmp/notes", 0, nil, &calls), exists: func(string) bool { return false }}

	p, ok, err := d.SaveFile(context.Background(), Options{Suggested: "Untitled.md", Filters: mdFilter})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/notes.md", p)
	assert.Contains(t, calls[0].args, "--save")
	assert.Contains(t, calls[0].args, "--filename=Untitled.md")
}

func TestCancelIsNotAnError(t *testing.T) {
	for _, driver := range []string{"zenity", "kdialog"} {
		t.Run(driver, func(t *testing.T) {
			var calls []call
			d, _ := New(driver, scripted("", 1, nil, &calls))

			p, ok, err := d.SaveFile(context.Background(), Options{Filters: mdFilter})
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, p)
		})
	}
}

func TestPickerFailure(t *testing.T) {
	var calls []call
	d, _ := New("kdialog", scripted("", 5, nil, &calls))
	_, ok, err := d.OpenFile(context.Background(), Options{})
	assert.False(t, ok)
	assert.EqualError(t, err, "kdialog exited with status 5")

	d, _ = New("zenity", scripted("", -1, errors.New("not found"), &calls))
	_, _, err = d.OpenFile(context.Background(), Options{})
	assert.EqualError(t, err, "zenity: not found")
}

func TestKDialogArgs(t *testing.T) {
	args := kdialogArgs("--getsavefilename", Options{Title: "Export", Suggested: "/tmp/a.html", Filters: []Filter{{Name: "HTML", Extensions: []string{"html", ".htm"}}}})
	assert.Equal(t, []string{"--getsavefilename", "/tmp/a.html", "HTML (*.html *.htm)", "--title", "Export"}, args)
}

func TestNoneAlwaysCancels(t *testing.T) {
	d, err := New("none", nil)
	require.NoError(t, err)
	_, ok, err := d.OpenFile(context.Background(), Options{})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownDriver(t *testing.T) {
	_, err := New("gtk4", nil)
	assert.Error(t, err)
}

func TestEnsureExtension(t *testing.T) {
	assert.Equal(t, "", EnsureExtension("", mdFilter))
	assert.Equal(t, "/a/b.md", EnsureExtension("/a/b", mdFilter))
	assert.Equal(t, "/a/b.txt", EnsureExtension("/a/b.txt", mdFilter))
	assert.Equal(t, "/a/b", EnsureExtension("/a/b", nil))
}

func TestSaveAsksAgainWhenExtensionHitsExistingFile(t *testing.T) {
	existing := map[string]bool{"/tmp/notes.md": true}
	var calls []call
	z := &Zenity{run: answers(&calls, "/tmp/notes", "/tmp/notes.md"), exists: func(p string) bool { return existing[p] }}

	p, ok, err := z.SaveFile(context.Background(), Options{Suggested: "Untitled.md", Filters: mdFilter})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/notes.md", p)
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].args, "--filename=/tmp/notes.md")
	assert.Contains(t, calls[1].args, "--confirm-overwrite")
}

func TestSaveCancelledOnSecondAsk(t *testing.T) {
	var calls []call
	k := &KDialog{run: answers(&calls, "/tmp/notes"), exists: func(string) bool { return true }}

	p, ok, err := k.SaveFile(context.Background(), Options{Filters: mdFilter})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, p)
	require.Len(t, calls, 2)
	assert.Equal(t, "/tmp/notes.md", calls[1].args[1])
}

func TestSaveNewFileAsksOnce(t *testing.T) {
	var calls []call
	z := &Zenity{run: answers(&calls, "/tmp/fresh"), exists: func(string) bool { return false }}

	p, ok, err := z.SaveFile(context.Background(), Options{Filters: mdFilter})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/tmp/fresh.md", p)
	assert.Len(t, calls, 1)
}
