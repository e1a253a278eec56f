package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/kafka"
	"github.com/Aleph-Alpha/scholar-index/v1/ledger"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/minio"
	"github.com/Aleph-Alpha/scholar-index/v1/rabbit"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

const dim = 16

func article(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"title": "Article %s",
		"language": "en",
		"created": "2020-01-02",
		"modified": "2021-03-04T10:00:00Z",
		"doi": "10.1000/%s",
		"authors": [{"full_name": "Jan Kowalski", "affiliation": "University of Warsaw"}],
		"abstract_en": "About %s.",
		"keywords": "physics, chemistry"
	}`, id, id, id, id)
}

// invalidArticle fails validation: created is after modified.
func invalidArticle(id string) string {
	return strings.Replace(article(id), `"2020-01-02"`, `"2022-01-02"`, 1)
}

type recordingMetrics struct {
	mu       sync.Mutex
	ingested map[string]int
}

func (m *recordingMetrics) ObserveRequest(string, string, int, time.Time) {}
func (m *recordingMetrics) IncIndexOperation(string, string)              {}
func (m *recordingMetrics) IncEmbeddingCache(string)                      {}

func (m *recordingMetrics) IncIngested(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingested == nil {
		m.ingested = map[string]int{}
	}
	m.ingested[outcome]++
}

type failingEmbedder struct{ err error }

func (f failingEmbedder) Embed(context.Context, []string) ([][]float32, error) { return nil, f.err }
func (f failingEmbedder) Dimension() int                                       { return dim }

// sliceSource emits fixed bodies and tracks how each record was settled.
type sliceSource struct {
	bodies []string

	mu     sync.Mutex
	acked  []string
	nacked []string
}

func (s *sliceSource) Run(ctx context.Context, emit func(context.Context, Record) error) error {
	for i, body := range s.bodies {
		key := fmt.Sprintf("rec-%d", i)
		rec := Record{
			Key:  key,
			Body: []byte(body),
			Ack: func(context.Context) error {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.acked = append(s.acked, key)
				return nil
			},
			Nack: func(context.Context) error {
				s.mu.Lock()
				defer s.mu.Unlock()
				s.nacked = append(s.nacked, key)
				return nil
			},
		}
		if err := emit(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

type fixture struct {
	catalog  *catalog.Catalog
	ledger   *ledger.Memory
	metrics  *recordingMetrics
	pipeline *Pipeline
}

func newFixture(t *testing.T, cfg *Config, embedder embedding.Embedder) *fixture {
	t.Helper()
	f := &fixture{
		catalog: catalog.New(catalog.Params{Index: vectordb.NewMemoryIndex(), Logger: logger.NewNop()}),
		ledger:  ledger.NewMemory(),
		metrics: &recordingMetrics{},
	}
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(dim)
	}
	p, err := NewPipeline(Params{
		Config:   cfg,
		Catalog:  f.catalog,
		Embedder: embedder,
		Ledger:   f.ledger,
		Metrics:  f.metrics,
	})
	require.NoError(t, err)
	f.pipeline = p
	return f
}

func smallBatches() *Config {
	cfg := DefaultConfig()
	cfg.BatchSize = 2
	cfg.Concurrency = 3
	return cfg
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	for name, mutate := range map[string]func(*Config){
		"source":      func(c *Config) { c.Source = "ftp" },
		"pattern":     func(c *Config) { c.Pattern = "" },
		"batch":       func(c *Config) { c.BatchSize = 0 },
		"concurrency": func(c *Config) { c.Concurrency = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPipelineAddsArticles(t *testing.T) {
	f := newFixture(t, smallBatches(), nil)
	ctx := context.Background()

	src := &sliceSource{bodies: []string{
		"[" + article("a-1") + "," + article("a-2") + "," + article("a-3") + "]",
		article("b-1"),
		article("c-1") + "\n" + article("c-2"),
	}}

	stats, err := f.pipeline.Run(ctx, "papers", src)
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 3, Added: 6}, stats)
	assert.Equal(t, 6, f.metrics.ingested[OutcomeAdded])
	assert.ElementsMatch(t, []string{"rec-0", "rec-1", "rec-2"}, src.acked)
	assert.Empty(t, src.nacked)

	info, err := f.catalog.CollectionInfo(ctx, "papers")
	require.NoError(t, err)
	assert.Equal(t, dim, info.VectorSize)

	count, err := f.catalog.CountItems(ctx, "papers")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), count)

	seen, err := f.ledger.Seen(ctx, "papers", "b-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestPipelineStoresArticlePayload(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{article("a-1")}})
	require.NoError(t, err)

	vec, err := embedding.NewHashEmbedder(dim).Embed(ctx, []string{"Article a-1"})
	require.NoError(t, err)
	results, err := f.catalog.Search(ctx, catalog.Query{Collection: "papers", Vector: vec[0], TopK: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)

	doc := results[0].Payload
	assert.Equal(t, "Article a-1", doc.Title)
	assert.Equal(t, "2021-03-04", doc.Modified)
	assert.Equal(t, "https://doi.org/10.1000/a-1", doc.URL)
	assert.Equal(t, []string{"physics", "chemistry"}, doc.Keywords)
	assert.Equal(t, []string{"University of Warsaw"}, doc.AuthorAffiliations)
}

func TestPipelineSkipsLedgerEntries(t *testing.T) {
	f := newFixture(t, smallBatches(), nil)
	ctx := context.Background()
	body := "[" + article("a-1") + "," + article("a-2") + "]"

	_, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{body}})
	require.NoError(t, err)

	stats, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{body, article("a-3")}})
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 2, Added: 1, Skipped: 2}, stats)

	count, err := f.catalog.CountItems(ctx, "papers")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	// The same article may still go into another collection.
	stats, err = f.pipeline.Run(ctx, "other", &sliceSource{bodies: []string{article("a-1")}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Added)
}

func TestPipelineCountsInvalidInput(t *testing.T) {
	f := newFixture(t, smallBatches(), nil)

	src := &sliceSource{bodies: []string{
		"not json",
		"[" + article("a-1") + "," + invalidArticle("a-2") + "]",
	}}
	stats, err := f.pipeline.Run(context.Background(), "papers", src)
	require.NoError(t, err)

	assert.Equal(t, Stats{Records: 2, Added: 1, Invalid: 2}, stats)
	assert.Equal(t, []string{"rec-0"}, src.nacked)
	assert.Equal(t, []string{"rec-1"}, src.acked)
	assert.Equal(t, 2, f.metrics.ingested[OutcomeInvalid])

	seen, err := f.ledger.Seen(context.Background(), "papers", "a-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestPipelineStopsOnEmbeddingFailure(t *testing.T) {
	cfg := smallBatches()
	cfg.Concurrency = 1
	boom := errors.New("provider down")
	f := newFixture(t, cfg, failingEmbedder{err: boom})

	src := &sliceSource{bodies: []string{"[" + article("a-1") + "," + article("a-2") + "," + article("a-3") + "]"}}
	stats, err := f.pipeline.Run(context.Background(), "papers", src)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(3), stats.Failed)
	assert.Zero(t, stats.Added)
	assert.Equal(t, []string{"rec-0"}, src.nacked)
	assert.Empty(t, src.acked)
}

func TestPipelineCollectionHandling(t *testing.T) {
	ctx := context.Background()

	t.Run("missing without create", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CreateCollection = false
		f := newFixture(t, cfg, nil)
		_, err := f.pipeline.Run(ctx, "papers", &sliceSource{})
		assert.ErrorIs(t, err, catalog.ErrCollectionDoesNotExist)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		require.NoError(t, f.catalog.CreateCollection(ctx, "papers", dim*2))
		_, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{article("a-1")}})
		assert.ErrorContains(t, err, "vector size")
	})

	t.Run("existing collection is reused", func(t *testing.T) {
		f := newFixture(t, nil, nil)
		require.NoError(t, f.catalog.CreateCollection(ctx, "papers", dim))
		stats, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{article("a-1")}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Added)
	})
}

func TestPipelineHonoursCancellation(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Run(ctx, "papers", &sliceSource{bodies: []string{article("a-1")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource(t *testing.T) {
	root := t.TempDir()
	write := func(name, body string) {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("2024/01/a.json", article("a-1"))
	write("2024/02/b.jsonl", article("b-1")+"\n"+article("b-2"))
	write("2024/notes.txt", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024", "dir.json"), 0o755))

	src := &FileSource{Root: root, Pattern: "**/*.json*", Progress: io.Discard}
	var keys []string
	err := src.Run(context.Background(), func(_ context.Context, rec Record) error {
		keys = append(keys, strings.TrimPrefix(filepath.ToSlash(rec.Key), filepath.ToSlash(root)+"/"))
		assert.NotEmpty(t, rec.Body)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/01/a.json", "2024/02/b.jsonl"}, keys)

	f := newFixture(t, smallBatches(), nil)
	stats, err := f.pipeline.Run(context.Background(), "papers", src)
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 2, Added: 3}, stats)
}

func TestFileSourceStopsOnEmitError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.json"), []byte(article("a-1")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.json"), []byte(article("b-1")), 0o644))

	stop := errors.New("stop")
	calls := 0
	err := (&FileSource{Root: root, Pattern: "*.json"}).Run(context.Background(), func(context.Context, Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

type fakeRabbitMessage struct {
	body          []byte
	acked, nacked bool
	requeueOnNack bool
}

func (m *fakeRabbitMessage) AckMsg() error { m.acked = true; return nil }
func (m *fakeRabbitMessage) NackMsg(requeue bool) error {
	m.nacked, m.requeueOnNack = true, requeue
	return nil
}
func (m *fakeRabbitMessage) Body() []byte                   { return m.body }
func (m *fakeRabbitMessage) Header() map[string]interface{} { return nil }

type fakeRabbit struct{ msgs []*fakeRabbitMessage }

func (f *fakeRabbit) Publish(context.Context, []byte, ...map[string]interface{}) error { return nil }
func (f *fakeRabbit) GracefulShutdown()                                                {}
func (f *fakeRabbit) Consume(_ context.Context, _ *sync.WaitGroup) <-chan rabbit.Message {
	out := make(chan rabbit.Message, len(f.msgs))
	for _, m := range f.msgs {
		out <- m
	}
	close(out)
	return out
}

func TestRabbitSource(t *testing.T) {
	good := &fakeRabbitMessage{body: []byte(article("a-1"))}
	bad := &fakeRabbitMessage{body: []byte("{broken")}
	src := &RabbitSource{Client: &fakeRabbit{msgs: []*fakeRabbitMessage{good, bad}}}

	cfg := DefaultConfig()
	cfg.Concurrency = 1
	f := newFixture(t, cfg, nil)
	stats, err := f.pipeline.Run(context.Background(), "papers", src)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Added)
	assert.True(t, good.acked)
	assert.True(t, bad.nacked)
	assert.False(t, bad.requeueOnNack)
}

type fakeKafkaMessage struct {
	key       string
	body      []byte
	committed bool
}

func (m *fakeKafkaMessage) CommitMsg(context.Context) error { m.committed = true; return nil }
func (m *fakeKafkaMessage) Key() string                     { return m.key }
func (m *fakeKafkaMessage) Body() []byte                    { return m.body }
func (m *fakeKafkaMessage) Header() map[string]string       { return nil }

type fakeKafka struct{ msgs []*fakeKafkaMessage }

func (f *fakeKafka) Publish(context.Context, string, []byte, ...map[string]string) error { return nil }
func (f *fakeKafka) GracefulShutdown()                                                   {}
func (f *fakeKafka) Consume(_ context.Context, _ *sync.WaitGroup) <-chan kafka.Message {
	out := make(chan kafka.Message, len(f.msgs))
	for _, m := range f.msgs {
		out <- m
	}
	close(out)
	return out
}

func TestKafkaSource(t *testing.T) {
	good := &fakeKafkaMessage{key: "a-1", body: []byte(article("a-1"))}
	bad := &fakeKafkaMessage{key: "x", body: []byte("nope")}
	src := &KafkaSource{Client: &fakeKafka{msgs: []*fakeKafkaMessage{good, bad}}}

	f := newFixture(t, nil, nil)
	stats, err := f.pipeline.Run(context.Background(), "papers", src)
	require.NoError(t, err)

	assert.Equal(t, Stats{Records: 2, Added: 1, Invalid: 1}, stats)
	assert.True(t, good.committed)
	assert.False(t, bad.committed)
}

type fakeMinio struct {
	objects map[string]string
}

func (f *fakeMinio) Put(context.Context, string, io.Reader, ...int64) (int64, error) { return 0, nil }
func (f *fakeMinio) Delete(context.Context, string) error                            { return nil }
func (f *fakeMinio) GracefulShutdown()                                               {}

func (f *fakeMinio) Get(_ context.Context, key string) ([]byte, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, minio.ErrObjectNotFound
	}
	return []byte(body), nil
}

func (f *fakeMinio) List(_ context.Context, prefix string) ([]minio.ObjectInfo, error) {
	var out []minio.ObjectInfo
	for _, key := range []string{"2024/a.json", "2024/b.json", "2023/c.json"} {
		if _, ok := f.objects[key]; ok && strings.HasPrefix(key, prefix) {
			out = append(out, minio.ObjectInfo{Key: key})
		}
	}
	return out, nil
}

func TestMinioSource(t *testing.T) {
	client := &fakeMinio{objects: map[string]string{
		"2024/a.json": article("a-1"),
		"2024/b.json": article("b-1"),
		"2023/c.json": article("c-1"),
	}}

	f := newFixture(t, nil, nil)
	stats, err := f.pipeline.Run(context.Background(), "papers", &MinioSource{Client: client, Prefix: "2024/"})
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 2, Added: 2}, stats)
}

func TestNewSource(t *testing.T) {
	cfg := DefaultConfig()
	src, err := NewSource(SourceParams{Config: cfg})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	cfg.Source = SourceKafka
	_, err = NewSource(SourceParams{Config: cfg})
	assert.Error(t, err)

	src, err = NewSource(SourceParams{Config: cfg, Kafka: &fakeKafka{}})
	require.NoError(t, err)
	assert.IsType(t, &KafkaSource{}, src)

	cfg.Source = SourceMinio
	cfg.Prefix = "2024/"
	src, err = NewSource(SourceParams{Config: cfg, Minio: &fakeMinio{}})
	require.NoError(t, err)
	assert.Equal(t, "2024/", src.(*MinioSource).Prefix)

	cfg.Source = SourceRabbit
	src, err = NewSource(SourceParams{Config: cfg, Rabbit: &fakeRabbit{}})
	require.NoError(t, err)
	assert.IsType(t, &RabbitSource{}, src)
}
