package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTransactions = `[
	{"id_Detail": 1, "tanggal_Transaksi": "2024-01-01T10:00:05", "nama_Customer": "Andi",
	 "nama_Kebab": "Kebab Ayam", "jumlah": 2, "total_Harga": 20000},
	{"id_Detail": 2, "tanggal_Transaksi": "2024-01-01T10:00:40", "nama_Customer": "Andi",
	 "nama_Snack": "Kentang", "jumlah": 3, "total_Harga": 9000},
	{"id_Detail": 3, "tanggal_Transaksi": "2024-01-02T09:15:00", "nama_Customer": "Budi",
	 "nama_Minuman": "Es Teh", "jumlah": 1, "total_Harga": 5000}
]`

// setup writes a config and an input file into a temp dir and returns their
// paths plus the export directory.
func setup(t *testing.T) (configPath, inputPath, exportDir string) {
	t.Helper()
	dir := t.TempDir()
	exportDir = filepath.Join(dir, "exports")

	configPath = filepath.Join(dir, "config.yaml")
	cfgYAML := "timezone: UTC\nexport_dir: " + exportDir + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(cfgYAML), 0644))

	inputPath = filepath.Join(dir, "transactions.json")
	require.NoError(t, os.WriteFile(inputPath, []byte(sampleTransactions), 0644))
	return configPath, inputPath, exportDir
}

// run executes the root command with args, resetting the package flag state
// left behind by earlier runs.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	summaryDate, summaryInput, summaryJSON, summaryOrders = "", "", false, false
	exportFormat, exportDate, exportInput, exportOutputDir = "pdf", "", "", ""
	exportDateSubdir, exportCleanOlder = false, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSummaryJSON(t *testing.T) {
	configPath, inputPath, _ := setup(t)

	out, err := run(t, "", "summary", "--config", configPath, "--input", inputPath, "--json")
	require.NoError(t, err)

	var got summaryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "34000", got.Revenue)
	assert.Equal(t, 2, got.OrderCount)
	assert.Equal(t, "17000.00", got.Average)
	assert.Empty(t, got.Date)
	require.NotEmpty(t, got.TopProducts)
	assert.Equal(t, productOutput{Name: "Kentang", Quantity: 3}, got.TopProducts[0])
}

func TestSummaryTableForOneDay(t *testing.T) {
	configPath, inputPath, _ := setup(t)

	out, err := run(t, "", "summary", "--config", configPath, "--input", inputPath,
		"--date", "2024-01-02", "--orders")
	require.NoError(t, err)

	assert.Contains(t, out, "Rp 5.000")
	assert.Contains(t, out, "Es Teh")
	assert.Contains(t, out, "Budi")
	assert.NotContains(t, out, "Andi")
}

func TestSummaryRejectsBadDate(t *testing.T) {
	configPath, inputPath, _ := setup(t)

	_, err := run(t, "", "summary", "--config", configPath, "--input", inputPath, "--date", "02/01/2024")
	require.Error(t, err)
}

func TestExportPrintView(t *testing.T) {
	configPath, inputPath, exportDir := setup(t)

	out, err := run(t, "", "export", "--config", configPath, "--input", inputPath,
		"--format", "print", "--date", "2024-01-01")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, exportDir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "laporan_transaksi_"))
	assert.Equal(t, ".html", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Andi")
	assert.Contains(t, string(data), "window.print()")
	assert.NotContains(t, string(data), "Budi")
}

func TestExportPDFIntoDateSubdirs(t *testing.T) {
	configPath, inputPath, _ := setup(t)
	outDir := t.TempDir()

	out, err := run(t, "", "export", "--config", configPath, "--input", inputPath,
		"--output-dir", outDir, "--date-subdirs")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	rel, err := filepath.Rel(outDir, path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(rel, string(filepath.Separator)), 4)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestSummaryMissingInput(t *testing.T) {
	configPath, inputPath, _ := setup(t)

	_, err := run(t, "", "summary", "--config", configPath, "--input", inputPath+".missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
}

func TestExportUnknownFormat(t *testing.T) {
	configPath, inputPath, _ := setup(t)

	_, err := run(t, "", "export", "--config", configPath, "--input", inputPath, "--format", "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docx")
}

func TestExportWithoutInputOrBackend(t *testing.T) {
	configPath, _, _ := setup(t)
	t.Setenv("BACKEND_URL", "")

	_, err := run(t, "", "export", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend_url")
}

func TestSessionCommand(t *testing.T) {
	configPath, _, _ := setup(t)

	sign := func(exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}

	out, err := run(t, "", "session", "--config", configPath, sign(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "authenticated\n", out)

	out, err = run(t, sign(time.Now().Add(-time.Hour))+"\n", "session", "--config", configPath)
	require.Error(t, err)
	assert.Equal(t, "expired\n", out)

	out, err = run(t, "", "session", "--config", configPath, "not-a-token")
	require.Error(t, err)
	assert.Equal(t, "unauthenticated\n", out)
}

func TestVersionSkipsConfig(t *testing.T) {
	out, err := run(t, "", "version", "--config", filepath.Join(t.TempDir(), "missing", "dir", "x.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
