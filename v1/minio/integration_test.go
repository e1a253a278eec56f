package minio

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func createMinIOContainer(ctx context.Context) (testcontainers.Container, string, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, "", fmt.Errorf("could not get free port: %w", err)
	}
	portStr := fmt.Sprintf("%d", port)

	req := testcontainers.ContainerRequest{
		Image: "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		Cmd:   []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ACCESS_KEY": "minio_admin",
			"MINIO_SECRET_KEY": "minio_admin",
		},
		ExposedPorts: []string{"9000/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = nat.PortMap{
				"9000/tcp": []nat.PortBinding{{HostPort: portStr}},
			}
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp").WithStartupTimeout(20*time.Second),
			wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(20*time.Second),
		),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to start MinIO container: %w", err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get host: %w", err)
	}
	return c, net.JoinHostPort(host, portStr), nil
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func TestMinioClientIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	c, endpoint, err := createMinIOContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	cfg := &Config{
		Endpoint:            endpoint,
		AccessKeyID:         "minio_admin",
		SecretAccessKey:     "minio_admin",
		BucketName:          "articles",
		AllowBucketCreation: true,
		HealthCheckInterval: time.Second,
	}

	var client *MinioClient
	app := fxtest.New(t,
		fx.Supply(cfg),
		FXModule,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	for _, key := range []string{"2024/b.jsonl", "2024/a.json", "other/c.json"} {
		body := []byte(`{"id":"` + key + `"}`)
		n, err := client.Put(ctx, key, bytes.NewReader(body), int64(len(body)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(body)), n)
	}

	objects, err := client.List(ctx, "2024/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "2024/a.json", objects[0].Key)
	assert.Equal(t, "2024/b.jsonl", objects[1].Key)

	data, err := client.Get(ctx, "2024/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2024/a.json"}`, string(data))

	require.NoError(t, client.Delete(ctx, "2024/a.json"))
	_, err = client.Get(ctx, "2024/a.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	missing := *cfg
	missing.BucketName = "missing"
	missing.AllowBucketCreation = false
	_, err = NewClient(&missing, nil)
	assert.ErrorIs(t, err, ErrBucketNotFound)
}
