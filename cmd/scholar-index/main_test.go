package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/config"
	"github.com/Aleph-Alpha/scholar-index/v1/ingest"
)

const sampleArticles = `[
  {"id": "a-1", "title": "Quantum dots", "language": "en", "created": "2020-01-01", "modified": "2020-02-01",
   "doi": "10.1/qd", "authors": [{"full_name": "Anna Nowak", "affiliation": "AGH"}],
   "abstract_en": "Dots.", "keywords": ["physics"]},
  {"id": "a-2", "title": "Soil bacteria", "language": "pl", "created": "2019-05-05", "modified": "2019-05-06",
   "doi": "10.1/sb", "authors": [{"full_name": "Piotr Zielinski", "affiliation": "UW"}],
   "abstract_pl": "Bakterie.", "keywords": "biology; soil"}
]`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func memoryBackend(t *testing.T) {
	t.Setenv("INDEX_BACKEND", config.BackendMemory)
	t.Setenv("EMBEDDING_DIMENSION", "32")
	t.Setenv("METRICS_ADDRESS", "127.0.0.1:0")
}

func TestIngestCommand(t *testing.T) {
	memoryBackend(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "export.json"), []byte(sampleArticles), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte("{"), 0o644))

	out, err := run(t, "ingest", "--collection", "papers", "--root", root, "--path", "*.json")
	require.NoError(t, err)
	assert.Contains(t, out, "records: 2, added: 2, skipped: 0, invalid: 1, failed: 0")
}

func TestIngestRequiresCollection(t *testing.T) {
	memoryBackend(t)
	_, err := run(t, "ingest", "--root", t.TempDir())
	assert.ErrorContains(t, err, "collection is required")
}

func TestIngestRejectsUnknownSource(t *testing.T) {
	memoryBackend(t)
	_, err := run(t, "ingest", "--collection", "papers", "--source", "ftp")
	assert.ErrorContains(t, err, "unknown source")
}

func TestCollectionsCommands(t *testing.T) {
	memoryBackend(t)

	out, err := run(t, "collections", "create", "papers", "--size", "8")
	require.NoError(t, err)
	assert.Equal(t, "Collection papers created.\n", out)

	_, err = run(t, "collections", "create", "papers", "--size", "0")
	assert.ErrorContains(t, err, "Vector size must be between 1 and 1024.")

	// Every invocation starts from an empty in-memory index.
	out, err = run(t, "collections", "list")
	require.NoError(t, err)
	assert.Equal(t, "NAME", strings.Fields(out)[0])

	_, err = run(t, "collections", "delete", "papers")
	assert.ErrorContains(t, err, "Collection 'papers' not found.")
}

func TestServeGraph(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendMemory
	require.NoError(t, fx.ValidateApp(serveOptions(cfg)))
}

func TestIngestGraphPerSource(t *testing.T) {
	for _, source := range []string{ingest.SourceFile, ingest.SourceRabbit, ingest.SourceKafka, ingest.SourceMinio} {
		t.Run(source, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Backend = config.BackendMemory
			cfg.Ingest.Source = source

			var src ingest.Source
			err := fx.ValidateApp(
				coreOptions(cfg, true),
				embeddingAndLedger(),
				sourceModule(source),
				ingest.FXModule,
				fx.Populate(&src),
			)
			assert.NoError(t, err)
		})
	}
}
