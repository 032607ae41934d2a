package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthtrack/internal/cli"
	"github.com/rshade/healthtrack/internal/config"
)

const indicatorPayload = `[
  {"page":1,"pages":1,"per_page":20000,"total":5},
  [
    {"indicator":{"id":"SP.DYN.LE00.IN","value":"Life expectancy at birth, total (years)"},
     "country":{"id":"FR","value":"France"},"countryiso3code":"FRA","date":"2019","value":82.5},
    {"indicator":{"id":"SP.DYN.LE00.IN","value":"Life expectancy at birth, total (years)"},
     "country":{"id":"FR","value":"France"},"countryiso3code":"FRA","date":"2000","value":79.0},
    {"indicator":{"id":"SP.DYN.LE00.IN","value":"Life expectancy at birth, total (years)"},
     "country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2019","value":84.4},
    {"indicator":{"id":"SP.DYN.LE00.IN","value":"Life expectancy at birth, total (years)"},
     "country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2000","value":81.1},
    {"indicator":{"id":"SP.DYN.LE00.IN","value":"Life expectancy at birth, total (years)"},
     "country":{"id":"JP","value":"Japan"},"countryiso3code":"JPN","date":"2020","value":null}
  ]
]`

const franceInfo = `[{
  "name":{"common":"France","official":"French Republic"},
  "flags":{"png":"https://flagcdn.com/w320/fr.png","svg":"https://flagcdn.com/fr.svg"},
  "population":68042591,"region":"Europe","subregion":"Western Europe","capital":["Paris"]
}]`

// testEnv points the CLI at stub sources and an isolated home directory.
type testEnv struct {
	home      string
	cachePath string
	remoteUp  *atomic.Bool
}

func setupCLITest(t *testing.T) *testEnv {
	t.Helper()

	up := &atomic.Bool{}
	up.Store(true)
	indicator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !up.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(indicatorPayload))
	}))
	t.Cleanup(indicator.Close)

	countries := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/name/France" {
			_, _ = w.Write([]byte(franceInfo))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
	}))
	t.Cleanup(countries.Close)

	home := t.TempDir()
	cachePath := filepath.Join(home, "cache", "life_expectancy.csv")
	t.Setenv("HEALTHTRACK_HOME", home)
	t.Setenv("HEALTHTRACK_LOG_LEVEL", "error")
	t.Setenv("HEALTHTRACK_CACHE_PATH", cachePath)
	t.Setenv("HEALTHTRACK_INDICATOR_URL", indicator.URL)
	t.Setenv("HEALTHTRACK_COUNTRIES_URL", countries.URL)
	t.Cleanup(config.ResetGlobalConfigForTest)

	return &testEnv{home: home, cachePath: cachePath, remoteUp: up}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoad_LiveTable(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute(t, "load")
	require.NoError(t, err)

	assert.Contains(t, out, "[live]")
	assert.Contains(t, out, "Rows:")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "2000-2019")
	assert.FileExists(t, env.cachePath)
}

func TestLoad_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "load", "--output", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "live", got["status"])
	assert.Equal(t, "remote", got["source"])
	assert.InDelta(t, 4, got["rows"], 0)
	assert.InDelta(t, 2, got["countries"], 0)
	assert.InDelta(t, 2000, got["first_year"], 0)
	assert.InDelta(t, 2019, got["last_year"], 0)
}

func TestLoad_StaleAfterRemoteFailure(t *testing.T) {
	env := setupCLITest(t)

	_, err := execute(t, "load")
	require.NoError(t, err)

	env.remoteUp.Store(false)
	out, err := execute(t, "load", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "stale"`)
	assert.Contains(t, out, `"rows": 4`)
}

func TestLoad_StrictExitCodes(t *testing.T) {
	env := setupCLITest(t)
	env.remoteUp.Store(false)

	out, err := execute(t, "load", "--strict")
	require.Error(t, err)
	assert.Contains(t, out, "[unavailable]")

	var statusErr *cli.StatusExitError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 3, statusErr.ExitCode)

	env.remoteUp.Store(true)
	_, err = execute(t, "load", "--strict")
	require.NoError(t, err)

	env.remoteUp.Store(false)
	_, err = execute(t, "load", "--strict")
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 2, statusErr.ExitCode)
}

func TestLoad_InvalidOutput(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "load", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestCountries(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "countries")
	require.NoError(t, err)
	assert.Contains(t, out, "COUNTRY")
	assert.Contains(t, out, "France")
	assert.Contains(t, out, "Japan")
	assert.Less(t, strings.Index(out, "France"), strings.Index(out, "Japan"))

	out, err = execute(t, "countries", "--filter", "JAP", "--output", "json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Japan", rows[0]["country"])
	assert.InDelta(t, 2, rows[0]["points"], 0)
}

func TestCountries_EmptyDataset(t *testing.T) {
	env := setupCLITest(t)
	env.remoteUp.Store(false)

	out, err := execute(t, "countries")
	require.NoError(t, err)
	assert.Contains(t, out, "[unavailable]")
	assert.Contains(t, out, "no cache exists yet")
}

func TestShow_Plain(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "show", "france", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "[live]")
	assert.Contains(t, out, "France")
	assert.Contains(t, out, "68,042,591")
	assert.Contains(t, out, "Europe")
	assert.Contains(t, out, "Peak life expectancy for France: 82.5 (2019)")
}

func TestShow_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "show", "Japan", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Status  string           `json:"status"`
		Country string           `json:"country"`
		Series  []map[string]any `json:"series"`
		Info    *json.RawMessage `json:"info"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "live", got.Status)
	assert.Equal(t, "Japan", got.Country)
	require.Len(t, got.Series, 2)
	assert.InDelta(t, 2000, got.Series[0]["Year"], 0)
	assert.Nil(t, got.Info, "Japan is unknown to the stub country source")
}

func TestShow_UnknownCountry(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "show", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown country "Atlantis"`)
}

func TestShow_EmptyDatasetShowsGuidance(t *testing.T) {
	env := setupCLITest(t)
	env.remoteUp.Store(false)

	out, err := execute(t, "show", "France", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "[unavailable]")
	assert.Contains(t, out, "no cache exists yet")
}

func TestInfo(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "info", "France")
	require.NoError(t, err)
	assert.Contains(t, out, "French Republic")
	assert.Contains(t, out, "68,042,591")
	assert.Contains(t, out, "Paris")

	out, err = execute(t, "info", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, `No country details found for "Atlantis"`)

	out, err = execute(t, "info", "Atlantis", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)
}

func TestExport_CSVToStdout(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "export", "--format", "csv", "--country", "japan")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Country,Year,Life_Expectancy", lines[0])
	assert.Equal(t, "Japan,2000,81.1", lines[1])
	assert.Equal(t, "Japan,2019,84.4", lines[2])
}

func TestExport_ParquetToFile(t *testing.T) {
	env := setupCLITest(t)
	target := filepath.Join(env.home, "out.parquet")

	_, err := execute(t, "export", "--format", "parquet", "--file", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "PAR1", string(data[:4]))
}

func TestExport_Errors(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "export", "--format", "xlsx")
	require.Error(t, err)

	_, err = execute(t, "export", "--country", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown country")
}

func TestDashboard_NonInteractiveFallback(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "dashboard", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "France")
	assert.Contains(t, out, "2 countries available")
}

func TestConfigInit(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.FileExists(t, filepath.Join(env.home, "config.yaml"))

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	env := setupCLITest(t)
	target := filepath.Join(env.home, "nested", "custom.yaml")

	_, err := execute(t, "--config", target, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestConfigShow(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "sources:")
	assert.Contains(t, out, env.cachePath)

	out, err = execute(t, "config", "show", "--output", "json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "cache")
}

func TestVersion(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "healthtrack test")
}

func TestShow_EmptyDatasetNDJSONIsOneLine(t *testing.T) {
	env := setupCLITest(t)
	env.remoteUp.Store(false)

	out, err := execute(t, "show", "France", "--output", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "unavailable", got["status"])
	assert.Empty(t, got["series"])
}

func TestShow_JSONPeakKeys(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "show", "France", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Peak map[string]any `json:"peak"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "France", got.Peak["country"])
	assert.InDelta(t, 82.5, got.Peak["max"], 0.001)
	assert.Equal(t, []any{float64(2019)}, got.Peak["years"])
}

func TestLoad_StaleShowsCacheAge(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute(t, "load")
	require.NoError(t, err)
	assert.NotContains(t, out, "Cache age:")

	env.remoteUp.Store(false)
	out, err = execute(t, "load")
	require.NoError(t, err)
	assert.Contains(t, out, "[stale]")
	assert.Contains(t, out, "Cache age:")

	out, err = execute(t, "load", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"cache_age"`)
}

func TestCacheInfoAndClear(t *testing.T) {
	env := setupCLITest(t)

	out, err := execute(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, env.cachePath)
	assert.Contains(t, out, "no cache file yet")

	_, err = execute(t, "load")
	require.NoError(t, err)

	out, err = execute(t, "cache", "info", "--output", "json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["exists"])
	assert.Greater(t, got["size"], float64(0))
	assert.NotEmpty(t, got["age"])

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")
	assert.NoFileExists(t, env.cachePath)

	// Without remote or cache the next load has nothing to fall back to.
	env.remoteUp.Store(false)
	out, err = execute(t, "load", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "unavailable"`)
}

func TestRootExamplesUseKnownFlags(t *testing.T) {
	root := cli.NewRootCmd("test")

	for _, line := range strings.Split(root.Example, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "healthtrack ") {
			continue
		}
		args := strings.Fields(strings.TrimPrefix(line, "healthtrack "))
		sub, rest, err := root.Find(args)
		require.NoError(t, err, line)
		assert.NoError(t, sub.ParseFlags(rest), line)
	}
}
