package e2e_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string

	pgOnce    sync.Once
	pgDSN     string
	pgCleanup func()
)

func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "grabbieldb-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if pgCleanup != nil {
		pgCleanup()
	}
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// ServerConfig holds what differs between e2e server runs.
type ServerConfig struct {
	AdminPort int
	MediaPort int
	DBType    string // sqlite, postgres
	DBDSN     string
	SpoolPath string
}

// buildBinary compiles the grabbieldb binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "grabbieldb")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/grabbieldb")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes a config whose object store is echo, so every
// gsutil call succeeds and stat prints a non-empty line.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	content := fmt.Sprintf(`admin:
  addr: 127.0.0.1:%d
media:
  addr: 127.0.0.1:%d
database:
  type: %s
  dsn: "%s"
spool:
  path: "%s"
objectstore:
  command: ["echo"]
  timeout: 10s
log:
  level: error
`, cfg.AdminPort, cfg.MediaPort, cfg.DBType, cfg.DBDSN, cfg.SpoolPath)

	configPath := filepath.Join(t.TempDir(), "grabbieldb.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600), "write config file")

	return configPath
}

// startServers migrates the database and runs `grabbieldb serve all`.
// Returns the admin and media base URLs.
func startServers(t *testing.T, cfg ServerConfig) (adminURL, mediaURL string) {
	t.Helper()

	binary := buildBinary(t)
	configPath := createConfigFile(t, cfg)

	output, err := exec.Command(binary, "migrate", "--config", configPath).CombinedOutput()
	require.NoError(t, err, "migrate: %s", output)

	cmd := exec.Command(binary, "serve", "all", "--config", configPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Start(), "start server")

	t.Cleanup(func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	})

	adminURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.AdminPort)
	mediaURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.MediaPort)

	waitForServer(t, adminURL, 10*time.Second)
	waitForServer(t, mediaURL, 10*time.Second)

	return adminURL, mediaURL
}

func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server %s failed to start within %v", baseURL, timeout)
}

func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "find open port")

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close(), "close port")

	return port
}

// getSharedPostgresDSN starts one postgres container for the whole run.
func getSharedPostgresDSN(t *testing.T) string {
	t.Helper()

	pgOnce.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("grabbiel"),
			pgcontainer.WithUsername("grabbiel"),
			pgcontainer.WithPassword("grabbiel"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		pgCleanup = func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
			}
		}

		pgDSN, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("failed to get connection string: %v", err)
		}
	})

	if pgDSN == "" {
		t.Fatal("postgres container unavailable")
	}
	return pgDSN
}
