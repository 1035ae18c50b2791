package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	domainerrors "munhash/internal/domain/errors"
	"munhash/internal/infra/pubsub"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const municipalities = "TOM;IBGE;Nome(TOM);Nome(IBGE);UF\n" +
	"0033;1100015;ALTA FLORESTA D'OESTE;Alta Floresta D'Oeste;RO\n" +
	"0007;1100023;ARIQUEMES;Ariquemes;RO\n" +
	"7107;3550308;SAO PAULO;São Paulo;SP\n" +
	"broken line\n"

func writeSource(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "municipios.csv")
	require.NoError(t, os.WriteFile(path, []byte(municipalities), 0o600))

	return path
}

func fastFlags(outDir string) []string {
	return []string{"-out", outDir, "-iterations", "10", "-length", "8", "-salt-length", "8", "-workers", "2"}
}

func TestExecute_RunThenVerify(t *testing.T) {
	ctx := context.Background()
	source := writeSource(t)
	outDir := filepath.Join(t.TempDir(), "out")

	var stdout bytes.Buffer
	args := append([]string{"run", "-source", source}, fastFlags(outDir)...)
	require.NoError(t, execute(ctx, args, &stdout, io.Discard))

	assert.Contains(t, stdout.String(), "RO: 2 records in ")
	assert.Contains(t, stdout.String(), "SP: 1 records in ")
	assert.Contains(t, stdout.String(), "Done: 3 records in 2 groups (1 rows dropped)")

	csvData, err := os.ReadFile(filepath.Join(outDir, "municipios_hash_RO.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "TOM;IBGE;Nome(TOM);Nome(IBGE);UF;HASH_HEX", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0033;1100015;"))

	_, err = os.Stat(filepath.Join(outDir, "municipios_hash_SP.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)

	stdout.Reset()
	args = append([]string{"verify", "-group", "RO"}, fastFlags(outDir)...)
	require.NoError(t, execute(ctx, args, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "OK: municipios_hash_RO.csv, 2 records")
}

func TestExecute_RunIsReproducible(t *testing.T) {
	ctx := context.Background()
	source := writeSource(t)
	first := filepath.Join(t.TempDir(), "first")
	second := filepath.Join(t.TempDir(), "second")

	require.NoError(t, execute(ctx, append([]string{"run", "-source", source}, fastFlags(first)...), io.Discard, io.Discard))
	require.NoError(t, execute(ctx, append(append([]string{"run", "-source", source}, fastFlags(second)...), "-workers", "1"), io.Discard, io.Discard))

	for _, name := range []string{"municipios_hash_RO.csv", "municipios_hash_RO.json", "municipios_hash_SP.csv"} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestExecute_VerifyDetectsTampering(t *testing.T) {
	ctx := context.Background()
	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, execute(ctx, append([]string{"run", "-source", writeSource(t)}, fastFlags(outDir)...), io.Discard, io.Discard))

	csvPath := filepath.Join(outDir, "municipios_hash_RO.csv")
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(csvPath, bytes.Replace(data, []byte(";RO;"), []byte(";AC;"), 1), 0o600))

	var stdout bytes.Buffer
	err = execute(ctx, append([]string{"verify", "-group", "RO"}, fastFlags(outDir)...), &stdout, io.Discard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDigestMismatch))

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageVerify, stage)
	assert.Contains(t, stdout.String(), "MISMATCH 1100015")
}

func TestExecute_InvalidConfiguration(t *testing.T) {
	err := execute(context.Background(), []string{"run", "-iterations", "0", "-out", t.TempDir()}, io.Discard, io.Discard)
	require.Error(t, err)

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageConfig, stage)
	assert.True(t, strings.HasPrefix(err.Error(), "config failed: "))
}

func TestExecute_BlankIdentifierWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "municipios.csv")
	require.NoError(t, os.WriteFile(path, []byte(municipalities+"0001;;SEM IBGE;Sem Ibge;SP\n"), 0o600))
	outDir := filepath.Join(t.TempDir(), "out")

	err := execute(context.Background(), append([]string{"run", "-source", path}, fastFlags(outDir)...), io.Discard, io.Discard)
	require.Error(t, err)

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageConfig, stage)
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyIdentifier))
	assert.Contains(t, err.Error(), "config failed [group=SP]")

	_, statErr := os.Stat(filepath.Join(outDir, "municipios_hash_RO.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecute_MissingSource(t *testing.T) {
	args := append([]string{"run", "-source", filepath.Join(t.TempDir(), "missing.csv")}, fastFlags(t.TempDir())...)

	err := execute(context.Background(), args, io.Discard, io.Discard)
	require.Error(t, err)

	stage, ok := domainerrors.StageOf(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.StageAcquisition, stage)
}

func TestExecute_UnknownSubcommand(t *testing.T) {
	var stdout bytes.Buffer

	err := execute(context.Background(), []string{"explode"}, &stdout, io.Discard)
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage: munhash")

	require.Error(t, execute(context.Background(), nil, io.Discard, io.Discard))
	require.NoError(t, execute(context.Background(), []string{"help"}, io.Discard, io.Discard))
}

func TestExecute_PublishesToLocalEndpoint(t *testing.T) {
	var (
		mu     sync.Mutex
		groups []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.PushMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		mu.Lock()
		groups = append(groups, msg.Message.Attributes["group"])
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "munhash.yaml")
	yaml := "pubsub:\n  provider: local\n  localEndpoint: " + server.URL + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o600))

	args := append([]string{"run", "-config", configPath, "-source", writeSource(t)}, fastFlags(t.TempDir())...)
	require.NoError(t, execute(context.Background(), args, io.Discard, io.Discard))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"RO", "SP"}, groups)
}
