package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const itcont = `id,prescriber_last_name,prescriber_first_name,drug_name,drug_cost
1000000001,Smith,James,AMBIEN,100
1000000002,Garcia,Maria,AMBIEN,200
1000000003,Johnson,James,CHLORPROMAZINE,1000
1000000004,Rodriguez,Maria,CHLORPROMAZINE,2000
1000000005,Smith,David,BENZTROPINE MESYLATE,1500
1000000006,Smith,,BENZTROPINE MESYLATE,99
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("LOG_FILE", "-")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("REPORT_FORMAT", "")
	t.Setenv("INPUT_HAS_HEADER", "")
	t.Setenv("SHARDS", "")
	t.Setenv("IO_RETRY_MAX", "0")
	return dir
}

func TestRun_WritesReport(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "itcont.txt")
	output := filepath.Join(dir, "top_cost_drug.txt")
	require.NoError(t, os.WriteFile(input, []byte(itcont), 0o644))

	var stderr bytes.Buffer
	code := run(context.Background(), []string{input, output}, &stderr)
	require.Equal(t, 0, code, stderr.String())

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "'CHLORPROMAZINE',2,3000.0\n'BENZTROPINE MESYLATE',1,1500.0\n'AMBIEN',2,300.0\n", string(got))
	assert.Contains(t, stderr.String(), `"line_number":7`)
	assert.Contains(t, stderr.String(), `"skipped":1`)
	assert.Contains(t, stderr.String(), "skipped header line")
}

func TestRun_HeaderlessInputKeepsFirstOrder(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "itcont.txt")
	output := filepath.Join(dir, "top_cost_drug.txt")
	orders := "1,John,Smith,AMBIEN,100.0\n2,Jane,Doe,AMBIEN,200.0\n3,Jane,Doe,AMBIEN,50.0\n4,John,Smith,ZOLPIDEM,300.0\n"
	require.NoError(t, os.WriteFile(input, []byte(orders), 0o644))

	var stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{input, output}, &stderr), stderr.String())

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "'AMBIEN',2,350.0\n'ZOLPIDEM',1,300.0\n", string(got))
	assert.NotContains(t, stderr.String(), "skipped header line")
	assert.Contains(t, stderr.String(), `"skipped":0`)
}

func TestRun_HeaderTreatedAsDataWhenDisabled(t *testing.T) {
	dir := setup(t)
	t.Setenv("INPUT_HAS_HEADER", "false")
	input := filepath.Join(dir, "itcont.txt")
	output := filepath.Join(dir, "top_cost_drug.txt")
	require.NoError(t, os.WriteFile(input, []byte(itcont), 0o644))

	var stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{input, output}, &stderr), stderr.String())
	assert.Contains(t, stderr.String(), `"line_number":1`)
	assert.Contains(t, stderr.String(), `"skipped":2`)
}

func TestRun_ShardedXLSX(t *testing.T) {
	dir := setup(t)
	t.Setenv("SHARDS", "3")
	input := filepath.Join(dir, "itcont.txt")
	output := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(input, []byte(itcont), 0o644))

	var stderr bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{input, output}, &stderr), stderr.String())

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("report")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "CHLORPROMAZINE", rows[1][0])
	assert.Equal(t, "AMBIEN", rows[3][0])
}

func TestRun_MissingInput(t *testing.T) {
	dir := setup(t)
	var stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt")}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "input unavailable")
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := setup(t)
	input := filepath.Join(dir, "itcont.txt")
	require.NoError(t, os.WriteFile(input, []byte(itcont), 0o644))

	var stderr bytes.Buffer
	code := run(context.Background(), []string{input, filepath.Join(dir, "no", "such", "out.txt")}, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "output unavailable")
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"only-one"}, &stderr))
	assert.Contains(t, stderr.String(), "usage:")
}
