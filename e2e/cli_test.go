package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/demonkingdom/internal/api"
	"github.com/mcoot/demonkingdom/internal/api/response"
	"github.com/mcoot/demonkingdom/internal/factory"
	"github.com/mcoot/demonkingdom/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "dkgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/dkgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// runAs executes the CLI as the given player with JSON output
func (r *cliRunner) runAs(player int64, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--player", strconv.FormatInt(player, 10),
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "DKGAME_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func runJSON[T any](t *testing.T, r *cliRunner, player int64, args ...string) T {
	t.Helper()
	out, err := r.runAs(player, args...)
	require.NoError(t, err, out)

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

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

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	app      *factory.App
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	app, err := factory.New(factory.Config{
		StorageType:      factory.StorageTypeMemory,
		PrivilegedID:     999,
		AutosaveInterval: time.Hour,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		AuthService:       app.AuthService,
		KingdomController: app.KingdomController,
		BattleResolver:    app.BattleResolver,
		TransferService:   app.TransferService,
		Store:             app.Store,
		Scheduler:         app.Scheduler,
		Clock:             app.Clock,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		app:    app,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func TestCLIHealth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	srv := startTestServer(t)
	defer srv.shutdown()
	cli := newCLIRunner(t, srv.addr)

	health := runJSON[response.Health](t, cli, 0, "health")
	assert.Equal(t, "ok", health.Status)
}

func TestCLIPlayerFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	srv := startTestServer(t)
	defer srv.shutdown()
	cli := newCLIRunner(t, srv.addr)

	reg := runJSON[response.RegisterResponse](t, cli, 1, "register", "--name", "Alice")
	assert.True(t, reg.Created)
	assert.Equal(t, "Alice", reg.Player.DisplayName)
	runJSON[response.RegisterResponse](t, cli, 2, "register", "--name", "Bob")

	me := runJSON[response.Player](t, cli, 1, "whoami")
	assert.Equal(t, int64(1), me.ID)

	rel := runJSON[response.Relations](t, cli, 1, "ally", "add", "2")
	assert.Equal(t, []int64{2}, rel.Allies)

	rel = runJSON[response.Relations](t, cli, 1, "enemy", "add", "2")
	assert.Empty(t, rel.Allies)
	assert.Equal(t, []int64{2}, rel.Enemies)

	rel = runJSON[response.Relations](t, cli, 1, "enemy", "remove", "2")
	assert.Empty(t, rel.Enemies)

	gift := runJSON[response.GiftResult](t, cli, 1, "gift", "2", "30")
	assert.Equal(t, int64(70), gift.SenderBalance)
	assert.Equal(t, int64(130), gift.TargetBalance)

	status := runJSON[response.Status](t, cli, 2, "status")
	assert.Equal(t, int64(130), status.Gold)

	swords := runJSON[response.Swords](t, cli, 1, "swords")
	assert.NotEmpty(t, swords.Swords)

	sword := runJSON[response.Sword](t, cli, 1, "equip", "steel_sword")
	assert.True(t, sword.Active)

	outcome := runJSON[response.BattleOutcome](t, cli, 1, "battle")
	assert.GreaterOrEqual(t, outcome.Defense, int64(50))
	assert.LessOrEqual(t, outcome.Defense, int64(300))
}

func TestCLIErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	srv := startTestServer(t)
	defer srv.shutdown()
	cli := newCLIRunner(t, srv.addr)

	out, err := cli.runAs(5, "status")
	assert.Error(t, err)
	assert.Contains(t, out, "NOT_REGISTERED")

	out, err = cli.runAs(0, "status")
	assert.Error(t, err)
	assert.Contains(t, out, "--player is required")

	runJSON[response.RegisterResponse](t, cli, 1, "register", "--name", "Alice")
	out, err = cli.runAs(1, "gift", "1", "10")
	assert.Error(t, err)
	assert.Contains(t, out, "INVALID_TARGET")
}
