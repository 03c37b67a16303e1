package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/modelexport/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "order.go"),
		[]byte("package shop\n\ntype Order struct {\n\tLines []OrderLine\n}\n\ntype OrderLine struct {\n\tSku string\n}\n"), 0644))
	flags := []string{"-m", "Order", "-i", in, "-o", out}
	output := filepath.Join(out, "SharedModels.ts")

	t.Run("check before export reports missing output", func(t *testing.T) {
		_, err := execute(t, append([]string{"check"}, flags...)...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrOutOfDate))
	})

	t.Run("export", func(t *testing.T) {
		_, err := execute(t, flags...)
		require.NoError(t, err)

		written, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(written), "export interface IOrder {\n  lines: IOrderLine[];\n}")
	})

	t.Run("check up to date", func(t *testing.T) {
		_, err := execute(t, append([]string{"check"}, flags...)...)
		assert.NoError(t, err)
	})

	t.Run("check detects drift", func(t *testing.T) {
		require.NoError(t, os.WriteFile(output, []byte("stale\n"), 0644))
		_, err := execute(t, append([]string{"check"}, flags...)...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrOutOfDate))
	})

	t.Run("closure", func(t *testing.T) {
		stdout, err := execute(t, append([]string{"closure", "--by-dir"}, flags...)...)
		require.NoError(t, err)

		var report closureReport
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, []string{"Order"}, report.Models)
		assert.Contains(t, report.Wanted, "OrderLine")
		assert.Equal(t, []string{filepath.Join(in, "order.go")}, report.Retained)
		assert.Len(t, report.ByDir, 1)
	})

	t.Run("missing input dir", func(t *testing.T) {
		_, err := execute(t, "-m", "Order", "-i", filepath.Join(in, "absent"), "-o", out)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])

	_, err = execute(t, "version", "--format", "xml")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelexport.toml")

	_, err := execute(t, "init", "--path", path, "-m", "Order")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Order")

	_, err = execute(t, "init", "--path", path)
	assert.Error(t, err)
}
