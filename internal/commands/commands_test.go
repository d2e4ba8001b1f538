package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/catalog/internal/catalog"
	"github.com/colonyops/catalog/internal/core/config"
	"github.com/colonyops/catalog/internal/core/item"
	"github.com/colonyops/catalog/internal/data/db"
	"github.com/colonyops/catalog/internal/printer"
)

const payload = `[
	{"id": 684, "listId": 1, "name": "Item 684"},
	{"id": 276, "listId": 1, "name": "Item 276"},
	{"id": 808, "listId": 4, "name": "Item 808"},
	{"id": 680, "listId": 3, "name": ""},
	{"id": 906, "listId": 2, "name": null}
]`

type harness struct {
	flags *Flags
	app   *catalog.App
	out   *bytes.Buffer
	err   *bytes.Buffer
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Source.BaseURL = srv.URL + "/"

	app, err := catalog.NewApp(&cfg, database, nil)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	return &harness{
		flags: &Flags{DataDir: dir, Config: &cfg},
		app:   app,
		out:   &bytes.Buffer{},
		err:   &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()

	root := &cli.Command{
		Name:           "catalog",
		Writer:         h.out,
		ErrWriter:      h.err,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewLsCmd(h.flags, h.app).Register(root)
	root = NewHistoryCmd(h.flags, h.app).Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)

	ctx := printer.NewContext(context.Background(), printer.New(h.err))
	return root.Run(ctx, append([]string{"catalog"}, args...))
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestLs_Table(t *testing.T) {
	h := newHarness(t, serve(payload))

	require.NoError(t, h.run(t, "ls"))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"LIST", "ID", "NAME"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "276", "Item", "276"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "684", "Item", "684"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"4", "808", "Item", "808"}, strings.Fields(lines[3]))
}

func TestLs_JSONWithListFilter(t *testing.T) {
	h := newHarness(t, serve(payload))

	require.NoError(t, h.run(t, "ls", "--format", "json", "--list", "4"))

	var coll item.Collection
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &coll))
	require.Len(t, coll.Groups, 1)
	assert.Equal(t, 4, coll.Groups[0].ListID)
	assert.Equal(t, "Item 808", coll.Groups[0].Items[0].Name)
}

func TestLs_FetchError(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := h.run(t, "ls")
	require.Error(t, err)
	assert.Equal(t, "Error: 500 - Internal Server Error", err.Error())
}

func TestLs_InvalidFormat(t *testing.T) {
	h := newHarness(t, serve(payload))
	assert.Error(t, h.run(t, "ls", "--format", "xml"))
}

func TestRenderMarkdown(t *testing.T) {
	coll := item.BuildCollection([]item.RawItem{
		item.NewRaw(2, 1, "a|b"),
		item.NewRaw(1, 1, "Item 1"),
	})

	md := renderMarkdown(coll)
	assert.Contains(t, md, "# Items List")
	assert.Contains(t, md, "## List 1")
	assert.Contains(t, md, `| 2 | a\|b |`)
	assert.Less(t, strings.Index(md, "Item 1"), strings.Index(md, `a\|b`))

	assert.Contains(t, renderMarkdown(item.Collection{}), "No items available")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	coll := item.BuildCollection([]item.RawItem{item.NewRaw(1, 7, "Widget")})

	require.NoError(t, writeMarkdown(&buf, coll))
	assert.Contains(t, buf.String(), "List 7")
	assert.Contains(t, buf.String(), "Widget")
}

func TestHistory(t *testing.T) {
	h := newHarness(t, serve(payload))

	require.NoError(t, h.run(t, "ls"))
	h.out.Reset()

	require.NoError(t, h.run(t, "history"))
	out := h.out.String()
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "3/2")

	h.out.Reset()
	require.NoError(t, h.run(t, "history", "--json"))
	assert.Contains(t, h.out.String(), `"outcome":"success"`)

	h.out.Reset()
	require.NoError(t, h.run(t, "history", "--clear"))
	require.NoError(t, h.run(t, "history"))
	assert.Empty(t, h.out.String())
	assert.Contains(t, h.err.String(), "No refresh history")
}

func TestConfigValidate(t *testing.T) {
	h := newHarness(t, serve(payload))

	require.NoError(t, h.run(t, "config", "validate"))
	assert.Contains(t, h.err.String(), "Configuration is valid")

	h.flags.Config.Source.BaseURL = "ftp://example.com/"
	h.out.Reset()
	err := h.run(t, "config", "validate", "--format", "json")
	require.Error(t, err)

	var report validationReport
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &report))
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "source.base_url", report.Errors[0].Field)
}
