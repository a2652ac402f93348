package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/forge/internal/catalog"
	"github.com/mesh-intelligence/forge/internal/kv"
	"github.com/mesh-intelligence/forge/internal/suggest"
	"github.com/mesh-intelligence/forge/internal/tui"
	"github.com/mesh-intelligence/forge/pkg/types"
)

// harness runs forge commands in-process against one shared memory store.
type harness struct {
	mem       *kv.Memory
	configDir string

	suggester suggest.Suggester // nil selects the real Gemini client
	gotKey    string
	copied    string
	tuiOpts   *tui.Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"FORGE_BACKEND", "FORGE_DATA_DIR", "FORGE_DSN", "FORGE_LOG_LEVEL", "FORGE_SUGGEST_MODEL", "FORGE_SUGGEST_API_KEY", "FORGE_CONFIG_DIR"} {
		t.Setenv(k, "")
	}
	return &harness{mem: kv.NewMemory(), configDir: t.TempDir()}
}

// stdinNotTerminal makes set-key read the key from the command's stdin.
func stdinNotTerminal(a *app) {
	a.isTerminal = func() bool { return false }
}

type result struct {
	stdout string
	stderr string
	code   int
}

func (h *harness) run(t *testing.T, stdin string, argv ...string) result {
	t.Helper()
	root := NewRootCmd(
		WithKVOpener(func(context.Context, types.Config) (kv.Store, error) {
			return h.mem.Reopen(), nil
		}),
		WithSuggester(func(apiKey, model string) suggest.Suggester {
			h.gotKey = apiKey
			if h.suggester == nil {
				return suggest.NewGemini(apiKey, model)
			}
			return h.suggester
		}),
		WithClipboard(func(s string) error {
			h.copied = s
			return nil
		}),
		WithTUI(func(_ context.Context, _ *catalog.Store, opts tui.Options) error {
			h.tuiOpts = &opts
			return nil
		}),
		stdinNotTerminal,
	)
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", h.configDir}, argv...))

	err := root.ExecuteContext(context.Background())
	code := report(&errOut, err)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

// add creates an asset and returns it.
func (h *harness) add(t *testing.T, name string, extra ...string) types.Asset {
	t.Helper()
	argv := append([]string{"--json", "add", "--name", name, "--source", "https://src/" + name, "--image", "https://img/" + name}, extra...)
	r := h.run(t, "", argv...)
	require.Equal(t, 0, r.code, r.stderr)
	var a types.Asset
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &a))
	return a
}

func (h *harness) listJSON(t *testing.T, argv ...string) []types.Asset {
	t.Helper()
	r := h.run(t, "", append([]string{"--json", "list"}, argv...)...)
	require.Equal(t, 0, r.code, r.stderr)
	var assets []types.Asset
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &assets))
	return assets
}

func assetNames(assets []types.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Name
	}
	return out
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	r := h.run(t, "", "version")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "forge v")
	assert.Contains(t, r.stdout, "github.com/mesh-intelligence/forge")
}

func TestAddShowList(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, "Sword", "--category", "Weapons", "--tag", "Fantasy,Medieval", "--description", "old blade")

	assert.NotEmpty(t, a.ID)
	assert.NotZero(t, a.CreatedAt)
	assert.Equal(t, types.CategoryWeapons, a.CategoryID)
	assert.Equal(t, []string{"fantasy", "medieval"}, a.Tags)

	r := h.run(t, "", "show", a.ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Sword")
	assert.Contains(t, r.stdout, "Weapons")
	assert.Contains(t, r.stdout, "#fantasy")

	r = h.run(t, "", "list")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, a.ID)
	assert.Contains(t, r.stdout, "Sword")

	assert.Equal(t, []string{"Sword"}, assetNames(h.listJSON(t)))
}

func TestAddDefaultsCategory(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, "Car")
	assert.Equal(t, types.CategoryCars, a.CategoryID)
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)
	r := h.run(t, "", "add", "--source", "https://x")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "Error: Name is required")
	assert.Contains(t, r.stderr, "Error: Image is required")
	assert.NotContains(t, r.stderr, "Source")
	assert.Empty(t, h.listJSON(t))
}

func TestAddUnknownCategory(t *testing.T) {
	h := newHarness(t)
	r := h.run(t, "", "add", "--name", "x", "--source", "s", "--image", "i", "--category", "spaceships")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "spaceships")
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, "Sword", "--tag", "steel")

	r := h.run(t, "", "--json", "edit", a.ID, "--name", "Great Sword")
	require.Equal(t, 0, r.code, r.stderr)
	var got types.Asset
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, "Great Sword", got.Name)
	assert.Equal(t, a.SourceURL, got.SourceURL)
	assert.Equal(t, []string{"steel"}, got.Tags)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)

	r = h.run(t, "", "edit", "missing", "--name", "x")
	assert.Equal(t, exitUserError, r.code)

	r = h.run(t, "", "edit", a.ID, "--name", "")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "Name is required")
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, "Sword")
	b := h.add(t, "Shield")

	r := h.run(t, "n\n", "delete", a.ID)
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stdout, catalog.DeletePrompt)
	assert.Len(t, h.listJSON(t), 2)

	r = h.run(t, "y\n", "delete", a.ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, []string{"Shield"}, assetNames(h.listJSON(t)))

	r = h.run(t, "", "delete", "--yes", b.ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Empty(t, h.listJSON(t))

	r = h.run(t, "", "delete", "--yes", "missing")
	assert.Equal(t, exitUserError, r.code)
}

func TestListFilters(t *testing.T) {
	h := newHarness(t)
	h.add(t, "banana car", "--category", "cars", "--tag", "stylized")
	h.add(t, "Apple Knight", "--category", "characters", "--tag", "fantasy", "--description", "A hero")
	h.add(t, "Cyber Blade", "--category", "weapons", "--tag", "stylized,cyberpunk")

	assert.Equal(t, []string{"Cyber Blade", "Apple Knight", "banana car"}, assetNames(h.listJSON(t)))
	assert.Equal(t, []string{"Apple Knight", "banana car", "Cyber Blade"}, assetNames(h.listJSON(t, "--sort", "alphabetical")))
	assert.Equal(t, []string{"Cyber Blade", "banana car"}, assetNames(h.listJSON(t, "--tag", "stylized")))
	assert.Equal(t, []string{"Cyber Blade"}, assetNames(h.listJSON(t, "--tag", "stylized", "--tag", "cyberpunk")))
	assert.Equal(t, []string{"Apple Knight"}, assetNames(h.listJSON(t, "--search", "HERO")))
	assert.Equal(t, []string{"banana car"}, assetNames(h.listJSON(t, "--category", "Cars")))

	r := h.run(t, "", "list", "--sort", "random")
	assert.Equal(t, exitUserError, r.code)

	r = h.run(t, "", "list", "--search", "nothing-matches")
	assert.Contains(t, r.stdout, "No assets found.")
}

func TestTags(t *testing.T) {
	h := newHarness(t)
	h.add(t, "A", "--tag", "zeta,alpha")
	h.add(t, "B", "--tag", "alpha,mid")

	r := h.run(t, "", "tags")
	require.Equal(t, 0, r.code)
	assert.Equal(t, "alpha\nmid\nzeta\n", r.stdout)
}

func TestCategory(t *testing.T) {
	h := newHarness(t)

	r := h.run(t, "", "category", "add", "Sci", "Fi")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Added")
	assert.Contains(t, r.stdout, "sci-fi")

	r = h.run(t, "", "category", "add", "sci fi")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Exists")

	r = h.run(t, "", "--json", "category", "list")
	require.Equal(t, 0, r.code)
	var cats []types.Category
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &cats))
	require.Len(t, cats, 7)
	assert.Equal(t, "Sci Fi", cats[6].Name)
	assert.Contains(t, []string{"#f59e0b", "#94a3b8"}, cats[6].Color)

	h.add(t, "Ship", "--category", "sci-fi")
	r = h.run(t, "", "category", "list")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "Sci Fi")
	assert.Contains(t, r.stdout, "(1)")

	r = h.run(t, "", "category", "add", " ")
	assert.Equal(t, exitUserError, r.code)
}

func TestSuggest(t *testing.T) {
	h := newHarness(t)
	var gotCats []string
	h.suggester = suggest.SuggesterFunc(func(_ context.Context, text string, cats []string) (suggest.Suggestion, error) {
		gotCats = cats
		return suggest.Suggestion{Title: "Rusty Sword", Category: "Melee", Tags: []string{"Fantasy", "Old"}, Reasoning: "it is a sword"}, nil
	})
	require.Equal(t, 0, h.run(t, "", "config", "set-key", "secret").code)

	r := h.run(t, "", "suggest", "an", "old", "sword")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "secret", h.gotKey)
	assert.Contains(t, r.stdout, "Rusty Sword")
	assert.Contains(t, r.stdout, "#Fantasy")
	assert.Contains(t, gotCats, "Weapons")

	a := h.add(t, "sword", "--description", "an old sword", "--tag", "steel")
	r = h.run(t, "", "suggest", "--apply", a.ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Applied to")

	r = h.run(t, "", "--json", "show", a.ID)
	var got types.Asset
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.Equal(t, "Rusty Sword", got.Name)
	assert.Equal(t, "melee", got.CategoryID)
	assert.Equal(t, []string{"steel", "fantasy", "old"}, got.Tags)
}

func TestAddWithSuggest(t *testing.T) {
	h := newHarness(t)
	h.suggester = suggest.SuggesterFunc(func(_ context.Context, text string, _ []string) (suggest.Suggestion, error) {
		return suggest.Suggestion{Title: "Low Poly Tree", Category: "Environments", Tags: []string{"Stylized"}}, nil
	})
	a := h.add(t, "tree", "--suggest")
	assert.Equal(t, "Low Poly Tree", a.Name)
	assert.Equal(t, types.CategoryEnvironments, a.CategoryID)
	assert.Equal(t, []string{"stylized"}, a.Tags)
}

func TestSuggestErrors(t *testing.T) {
	h := newHarness(t)

	r := h.run(t, "", "suggest", "a", "sword")
	assert.Equal(t, exitUserError, r.code)
	assert.Contains(t, r.stderr, "API key")

	h.suggester = suggest.SuggesterFunc(func(context.Context, string, []string) (suggest.Suggestion, error) {
		return suggest.Suggestion{}, errors.New("service unavailable")
	})
	r = h.run(t, "", "suggest", "a", "sword")
	assert.Equal(t, exitSysError, r.code)
	assert.Contains(t, r.stderr, "suggestion failed")
}

func TestSuggestFallsBackToConfiguredKey(t *testing.T) {
	h := newHarness(t)
	t.Setenv("FORGE_SUGGEST_API_KEY", "from-env")
	h.suggester = suggest.SuggesterFunc(func(context.Context, string, []string) (suggest.Suggestion, error) {
		return suggest.Suggestion{Title: "x", Category: "Props"}, nil
	})
	require.Equal(t, 0, h.run(t, "", "suggest", "thing").code)
	assert.Equal(t, "from-env", h.gotKey)
}

func TestConfigSetKeyAndShow(t *testing.T) {
	h := newHarness(t)

	r := h.run(t, "  abcdef123456  \n", "config", "set-key")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "API key saved")

	r = h.run(t, "", "config", "show")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "********3456")
	assert.NotContains(t, r.stdout, "abcdef123456")

	r = h.run(t, "", "--json", "config", "show")
	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &m))
	assert.Equal(t, h.configDir, m["config_dir"])
	assert.Equal(t, "stored", m["suggest.api_key_source"])

	r = h.run(t, "", "config", "set-key", "")
	require.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "API key cleared")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "***", maskKey("abc"))
	assert.Equal(t, "**cdef", maskKey("abcdef"))
}

func TestTheme(t *testing.T) {
	h := newHarness(t)

	r := h.run(t, "", "--json", "theme", "show")
	require.Equal(t, 0, r.code, r.stderr)
	var info themeInfo
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	assert.Equal(t, "Platinum (Default)", info.Preset)
	assert.True(t, info.Gradient)
	assert.False(t, info.Dark)

	require.Equal(t, 0, h.run(t, "", "theme", "set", "--preset", "midnight").code)
	r = h.run(t, "", "--json", "theme", "show")
	info = themeInfo{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	assert.Equal(t, "Midnight Void", info.Preset)
	assert.True(t, info.Dark)

	require.Equal(t, 0, h.run(t, "", "theme", "set", "--color", "#000000", "--gradient").code)
	r = h.run(t, "", "--json", "theme", "show")
	info = themeInfo{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &info))
	assert.Equal(t, "radial-gradient(circle at 50% 0%, #999999 0%, #000000 100%)", info.Value)
	assert.Empty(t, info.Preset)
	assert.Equal(t, "#000000", info.Color)
	assert.False(t, info.Dark)

	assert.Equal(t, exitUserError, h.run(t, "", "theme", "set", "--color", "blue").code)
	assert.Equal(t, exitUserError, h.run(t, "", "theme", "set", "--preset", "neon").code)
	assert.Equal(t, exitUserError, h.run(t, "", "theme", "set").code)

	r = h.run(t, "", "theme", "show", "--presets")
	assert.Contains(t, r.stdout, "Warm Paper")
}

func TestCopy(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, "Sword")

	r := h.run(t, "", "copy", a.ID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "https://src/Sword", h.copied)

	assert.Equal(t, exitUserError, h.run(t, "", "copy", "missing").code)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Sword", "--tag", "fantasy")
	h.add(t, "Shield")
	require.Equal(t, 0, h.run(t, "", "category", "add", "Armour").code)

	for _, name := range []string{"backup.json", "backup.json.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			r := h.run(t, "", "export", path)
			require.Equal(t, 0, r.code, r.stderr)
			assert.Contains(t, r.stderr, "Exported 2 assets")

			other := newHarness(t)
			other.add(t, "Old")
			r = other.run(t, "n\n", "import", path)
			assert.Equal(t, exitUserError, r.code)
			assert.Equal(t, []string{"Old"}, assetNames(other.listJSON(t)))

			r = other.run(t, "", "import", "--yes", path)
			require.Equal(t, 0, r.code, r.stderr)
			assert.Contains(t, r.stdout, "Imported 2 assets and 7 categories")
			assert.Equal(t, assetNames(h.listJSON(t)), assetNames(other.listJSON(t)))
		})
	}

	r := h.run(t, "", "export", "--zstd")
	require.Equal(t, 0, r.code)
	assert.NotEmpty(t, r.stdout)

	assert.Equal(t, exitUserError, h.run(t, "", "import", "--yes", "/no/such/file").code)
}

func TestImportMigratesLegacyBackup(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{"version":1,"assets":[{"id":"x","name":"Orc","sourceUrl":"s","imageUrl":"i","categoryId":"non-humans","createdAt":1}],"categories":[{"id":"humans","name":"Humans","color":"#111111"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	r := h.run(t, "", "import", "--yes", path)
	require.Equal(t, 0, r.code, r.stderr)
	assets := h.listJSON(t)
	require.Len(t, assets, 1)
	assert.Equal(t, types.CategoryCharacters, assets[0].CategoryID)
}

func TestBrowse(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run(t, "", "theme", "set", "--preset", "Dark Slate").code)

	r := h.run(t, "", "browse")
	require.Equal(t, 0, r.code, r.stderr)
	require.NotNil(t, h.tuiOpts)
	assert.Equal(t, "#0f172a", h.tuiOpts.Background)
	assert.NotNil(t, h.tuiOpts.Suggester)
	assert.NotNil(t, h.tuiOpts.CopyText)
}

func TestInitWithFileBackend(t *testing.T) {
	for _, k := range []string{"FORGE_BACKEND", "FORGE_DATA_DIR", "FORGE_DSN", "FORGE_LOG_LEVEL", "FORGE_SUGGEST_MODEL", "FORGE_SUGGEST_API_KEY"} {
		t.Setenv(k, "")
	}
	configDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "data")

	exec := func(argv ...string) (string, int) {
		root := NewRootCmd(stdinNotTerminal)
		var out, errOut bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&errOut)
		root.SetArgs(append([]string{"--config-dir", configDir, "--data-dir", dataDir, "--backend", "file"}, argv...))
		code := report(&errOut, root.ExecuteContext(context.Background()))
		return out.String() + errOut.String(), code
	}

	out, code := exec("init")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "forge initialized")
	assert.FileExists(t, filepath.Join(configDir, "config.yaml"))
	assert.DirExists(t, dataDir)

	out, code = exec("add", "--name", "Sword", "--source", "https://x", "--image", "https://y")
	require.Equal(t, 0, code, out)
	assert.FileExists(t, filepath.Join(dataDir, types.RecordAssets+".json"))

	out, code = exec("list")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Sword")

	out, code = exec("init")
	require.Equal(t, 0, code, out)
	assert.NotContains(t, out, "Wrote", "second init keeps the existing config")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitSuccess},
		{&types.ValidationError{Fields: []string{types.FieldName}}, exitUserError},
		{fmt.Errorf("wrapped: %w", types.ErrNotFound), exitUserError},
		{types.ErrDeclined, exitUserError},
		{types.ErrMissingAPIKey, exitUserError},
		{types.ErrBackendUnknown, exitUserError},
		{usageError{errors.New("bad flag")}, exitUserError},
		{errors.New("disk on fire"), exitSysError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), fmt.Sprint(tt.err))
	}
}

func TestUnknownFlagIsUserError(t *testing.T) {
	h := newHarness(t)
	r := h.run(t, "", "list", "--no-such-flag")
	assert.Equal(t, exitUserError, r.code)
}
