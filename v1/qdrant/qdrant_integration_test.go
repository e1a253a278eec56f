package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	// Get a random free port
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	// Define container request
	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.11.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	// Start container
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	// Get host
	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	// Get mapped port
	mappedPort, err := container.MappedPort(ctx, "6334")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	portStr = mappedPort.Port()

	// Wait for Qdrant to be fully ready
	fmt.Printf("Waiting for Qdrant to be ready on %s:%s...\n", host, portStr)
	err = waitForQdrantReady(host, portStr, 30*time.Second)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}
	fmt.Printf("Qdrant is ready on %s:%s\n", host, portStr)

	return &QdrantContainer{
		Container: container,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func(addr net.Listener) {
		err := addr.Close()
		if err != nil {
			fmt.Printf("Failed to close listener: %v", err)
		}
	}(addr)

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		// Try to establish a TCP connection
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// Additional wait to ensure the service is fully ready
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

// TestQdrantWithFXModule runs the vectordb.Index contract against a real Qdrant.
func TestQdrantWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	t.Logf("Using Qdrant on %s:%s", containerInstance.Host, containerInstance.Port)

	portNum, err := strconv.Atoi(containerInstance.Port)
	require.NoError(t, err)

	var index vectordb.Index

	app := fxtest.New(t,
		fx.Provide(
			func() *Config {
				cfg := FromEndpoint(containerInstance.Host).WithCompatibilityCheck(false).WithTimeout(10 * time.Second)
				cfg.Port = portNum
				return cfg
			},
			func() logger.Logger { return logger.NewNop() },
		),
		FXModule,
		fx.Populate(&index),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, index)

	t.Run("CollectionLifecycle", func(t *testing.T) {
		require.NoError(t, index.CreateCollection(ctx, "lifecycle", 4))

		assert.Error(t, index.CreateCollection(ctx, "lifecycle", 4))

		exists, err := index.CollectionExists(ctx, "lifecycle")
		require.NoError(t, err)
		assert.True(t, exists)

		info, err := index.GetCollection(ctx, "lifecycle")
		require.NoError(t, err)
		assert.Equal(t, 4, info.VectorSize)
		assert.Equal(t, vectordb.DistanceCosine, info.Distance)

		names, err := index.ListCollections(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "lifecycle")

		require.NoError(t, index.DeleteCollection(ctx, "lifecycle"))
		exists, err = index.CollectionExists(ctx, "lifecycle")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("MissingCollection", func(t *testing.T) {
		_, err := index.GetCollection(ctx, "does_not_exist")
		assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)

		_, err = index.Query(ctx, vectordb.SearchRequest{CollectionName: "does_not_exist", Vector: []float32{1, 0, 0, 0}, TopK: 1})
		assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)
	})

	t.Run("PointsAndFilters", func(t *testing.T) {
		const name = "points"
		require.NoError(t, index.CreateCollection(ctx, name, 4))

		points := []vectordb.Point{
			{
				ID:     "00000000-0000-0000-0000-000000000001",
				Vector: []float32{1, 0, 0, 0},
				Payload: map[string]any{
					"document_id": "doc-1",
					"language":    "en",
					"authors":     []string{"Ada", "Grace"},
					"created":     int64(20200105),
				},
			},
			{
				ID:     "00000000-0000-0000-0000-000000000002",
				Vector: []float32{0, 1, 0, 0},
				Payload: map[string]any{
					"document_id": "doc-2",
					"language":    "pl",
					"authors":     []string{"Grace"},
					"created":     int64(20230710),
				},
			},
		}
		require.NoError(t, index.Upsert(ctx, name, points...))

		count, err := index.Count(ctx, name, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), count)

		results, err := index.Query(ctx, vectordb.SearchRequest{CollectionName: name, Vector: []float32{1, 0.1, 0, 0}, TopK: 10})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "doc-1", results[0].Payload["document_id"])
		assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

		byAuthor := vectordb.NewFilterSet(vectordb.Must(
			vectordb.NewMatch("authors", "Ada"),
			vectordb.NewMatch("authors", "Grace"),
		))
		results, err = index.Query(ctx, vectordb.SearchRequest{CollectionName: name, Vector: []float32{0, 1, 0, 0}, TopK: 10, Filters: byAuthor})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "doc-1", results[0].Payload["document_id"])

		byDate := vectordb.NewFilterSet(vectordb.Must(
			vectordb.NewNumericRange("created", vectordb.NumericRange{Gte: vectordb.Float(20230101)}),
		))
		count, err = index.Count(ctx, name, byDate)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)

		byDoc := vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("document_id", "doc-2")))
		records, err := index.Scroll(ctx, name, byDoc, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, points[1].ID, records[0].ID)
		assert.Equal(t, []any{"Grace"}, records[0].Payload["authors"])

		require.NoError(t, index.DeleteByFilter(ctx, name, byDoc))
		records, err = index.Scroll(ctx, name, byDoc, 1)
		require.NoError(t, err)
		assert.Empty(t, records)

		assert.Error(t, index.DeleteByFilter(ctx, name, nil))
	})
}
