package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/task-order/pkg/api"
	"github.com/LENAX/task-order/pkg/config"
	"github.com/LENAX/task-order/pkg/core/dag"
	"github.com/LENAX/task-order/pkg/service"
)

const sampleInput = "5 4\n1 2\n2 3\n1 3\n1 5\n"

func init() {
	gin.SetMode(gin.TestMode)
	color.NoColor = true
}

// execute 以给定的标准输入执行命令，返回标准输出与标准错误
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	serverURL, outputJSON, configPath, logLevel = "", false, "", "error"
	sortDump, sortQuiet, sortVerify = false, false, false
	historyLimit, historyOffset, historyOlderThan = 20, 0, 7*24*time.Hour

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSort_Stdin(t *testing.T) {
	out, _, err := execute(t, sampleInput, "sort")
	require.NoError(t, err)
	assert.Equal(t, banner+"1 4 2 5 3\n", out)
}

func TestSort_QuietAndCycle(t *testing.T) {
	out, _, err := execute(t, "3 3\n1 2\n2 3\n3 1\n", "sort", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "Topological order does not exist.\n", out)
}

func TestSort_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, os.WriteFile(path, []byte("4 2\n1 2\n1 2\n"), 0o644))

	out, _, err := execute(t, "", "sort", "-q", "--verify", path)
	require.NoError(t, err)
	assert.Equal(t, "1 3 4 2\n", out)
}

func TestSort_Dump(t *testing.T) {
	out, _, err := execute(t, sampleInput, "sort", "--quiet", "--dump")
	require.NoError(t, err)
	assert.Equal(t, "1 {0} 2 3 5\n2 {1} 3\n3 {2}\n4 {0}\n5 {1}\n1 4 2 5 3\n", out)
}

func TestSort_JSON(t *testing.T) {
	out, _, err := execute(t, sampleInput, "sort", "--json")
	require.NoError(t, err)

	var res sortResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{1, 4, 2, 5, 3}, res.Order)
	assert.Equal(t, 5, res.Tasks)
	assert.Equal(t, 4, res.Edges)
	assert.False(t, res.Cycle)
}

func TestSort_InvalidInput(t *testing.T) {
	_, _, err := execute(t, "3 1\n1 4\n", "sort")
	assert.ErrorIs(t, err, dag.ErrOutOfRange)

	_, _, err = execute(t, "0 0\n", "sort")
	assert.ErrorIs(t, err, dag.ErrInvalidSize)

	_, _, err = execute(t, "101 0\n", "sort")
	assert.ErrorIs(t, err, service.ErrTooLarge)
}

func TestSort_EdgeLimit(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "task-order.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("task-order:\n  limits:\n    max_edges: 2\n"), 0o644))

	_, _, err := execute(t, "3 3\n1 2\n2 3\n1 3\n", "sort", "--config", cfgPath)
	assert.ErrorIs(t, err, service.ErrTooLarge)

	_, _, err = execute(t, "3 3\n1 2\n2 3\n1 3\n", "check", "--config", cfgPath)
	assert.ErrorIs(t, err, service.ErrTooLarge)

	out, _, err := execute(t, "3 2\n1 2\n2 3\n", "sort", "-q", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "1 2 3\n", out)
}

func TestSort_Remote(t *testing.T) {
	svc := service.New(service.Options{MaxTasks: 100}, nil, nil, nil)
	server := httptest.NewServer(api.SetupRouter(svc, "test", time.Second))
	defer server.Close()

	out, _, err := execute(t, sampleInput, "sort", "--server", server.URL, "-q")
	require.NoError(t, err)
	assert.Equal(t, "1 4 2 5 3\n", out)

	out, _, err = execute(t, "2 2\n1 2\n2 1\n", "sort", "--server", server.URL, "-q")
	require.NoError(t, err)
	assert.Equal(t, "Topological order does not exist.\n", out)

	_, _, err = execute(t, "2 1\n1 3\n", "sort", "--server", server.URL)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	_, stderr, err := execute(t, sampleInput, "check")
	require.NoError(t, err)
	assert.Contains(t, stderr, "无循环依赖")

	out, _, err := execute(t, "4 3\n1 2\n2 3\n3 2\n", "check", "--json")
	assert.ErrorIs(t, err, dag.ErrCycleDetected)

	var res checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Acyclic)
	assert.Equal(t, []int{2, 3}, res.Blocked)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}

func TestHistory_Local(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	cfgPath := filepath.Join(dir, "task-order.yaml")
	cfgYAML := fmt.Sprintf("task-order:\n  storage:\n    database:\n      type: sqlite\n      dsn: %q\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	_, _, err := execute(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)

	// 通过服务写入一条记录
	cfg := loadTestConfig(t, cfgPath)
	svc, err := service.NewFromConfig(cfg)
	require.NoError(t, err)
	res, err := svc.Order(t.Context(), service.Request{Tasks: 2, Edges: [][2]int{{2, 1}}})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	out, _, err := execute(t, "", "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, res.ID)
	assert.Contains(t, out, "2 1")

	out, _, err = execute(t, "", "history", "show", res.ID, "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, res.ID)

	out, _, err = execute(t, "", "history", "prune", "--older-than=-1h", "--config", cfgPath, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted": 1}`, out)
}

func TestHistory_StorageDisabled(t *testing.T) {
	_, _, err := execute(t, "", "history")
	assert.ErrorIs(t, err, service.ErrStorageDisabled)
}

func loadTestConfig(t *testing.T, path string) *config.Config {
	t.Helper()
	configPath = path
	cfg, err := loadConfig()
	require.NoError(t, err)
	return cfg
}
