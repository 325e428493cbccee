package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range keys {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(Options{ConfigPaths: []string{t.TempDir()}})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "memory", cfg.DatabaseDSN)
	assert.Equal(t, ProviderElevenLabs, cfg.TTSProvider)
	assert.Equal(t, BackendHub, cfg.DatasetBackend)
	assert.Equal(t, "responses.csv", cfg.HFDatasetPath)
	assert.Equal(t, "https://huggingface.co", cfg.HFEndpoint)
	assert.Equal(t, 20, cfg.SynthRatePerMin)
}

func TestLoadConfigFromEnvFileAndYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ELEVENLABS_API_KEY=xi-key\nHF_DATASET_REPO=lab/study\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_port: \"9090\"\nhf_dataset_repo: from/yaml\ndataset_backend: LOCAL\n"), 0o600))

	cfg, err := LoadConfig(Options{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}, ConfigPaths: []string{dir}})
	require.NoError(t, err)

	assert.Equal(t, "xi-key", cfg.ElevenLabsAPIKey)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "lab/study", cfg.HFDatasetRepo, "environment wins over config.yaml")
	assert.Equal(t, BackendLocal, cfg.DatasetBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "complete hub setup",
			cfg: Config{TTSProvider: ProviderElevenLabs, ElevenLabsAPIKey: "k", DatasetBackend: BackendHub,
				HFToken: "t", HFDatasetRepo: "r", SessionSecret: "s"},
			want: []string{},
		},
		{
			name: "everything missing",
			cfg:  Config{TTSProvider: ProviderElevenLabs, DatasetBackend: BackendHub},
			want: []string{
				"missing ELEVENLABS_API_KEY",
				"missing HF_TOKEN",
				"missing HF_DATASET_REPO",
				"missing SESSION_SECRET, using an ephemeral secret",
			},
		},
		{
			name: "openai with local store",
			cfg:  Config{TTSProvider: ProviderOpenAI, DatasetBackend: BackendLocal, HFDatasetRepo: "r", SessionSecret: "s"},
			want: []string{"missing OPENAI_API_KEY"},
		},
		{
			name: "unknown backends",
			cfg:  Config{TTSProvider: "espeak", OpenAIAPIKey: "k", DatasetBackend: "ftp", HFDatasetRepo: "r", SessionSecret: "s"},
			want: []string{`unknown TTS_PROVIDER "espeak"`, `unknown DATASET_BACKEND "ftp"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Messages(tt.cfg.Validate()))
		})
	}
}
