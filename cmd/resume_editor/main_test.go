package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/server"
	"github.com/jonathan/resume-editor/internal/templates"
	"github.com/jonathan/resume-editor/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	serveConfigPath = ""
	servePort = 0
	normalizeOutput = ""
	normalizeCompact = false
	validateNormalized = false
	tokenUserID = ""
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand_Stdin(t *testing.T) {
	out, err := execute(t, `{"basics": {"name": "Ada"}, "metadata": {"template": "retired"}}`, "normalize")
	require.NoError(t, err)

	var data types.ResumeData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "Ada", data.Basics.Name)
	assert.Equal(t, templates.Default, data.Metadata.Template)
	assert.NotNil(t, data.Sections.Experience.Items)
}

func TestNormalizeCommand_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "resume.json")
	outPath := filepath.Join(dir, "normalized.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"sections": {"skills": {"items": [{"name": "Go"}]}}}`), 0644))

	out, err := execute(t, "", "normalize", in, "--out", outPath, "--compact")
	require.NoError(t, err)
	assert.Empty(t, out)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(raw, []byte("\n")), "compact output is a single line")

	var data types.ResumeData
	require.NoError(t, json.Unmarshal(raw, &data))
	require.Len(t, data.Sections.Skills.Items, 1)
	assert.NotEmpty(t, data.Sections.Skills.Items[0].ID)
}

func TestNormalizeCommand_Errors(t *testing.T) {
	_, err := execute(t, `{"basics":`, "normalize")
	assert.ErrorContains(t, err, "failed to parse input")

	_, err = execute(t, "", "normalize", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read input file")
}

func TestValidateCommand(t *testing.T) {
	normalized, err := execute(t, `{}`, "normalize")
	require.NoError(t, err)

	out, err := execute(t, normalized, "validate")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = execute(t, `{"basics": {"name": 7}}`, "validate")
	assert.ErrorContains(t, err, "document is invalid")
	assert.NotEmpty(t, out)

	out, err = execute(t, `{"basics": {"name": 7}}`, "validate", "--normalized")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-jwt-signing-minimum-32-bytes")
	t.Setenv("JWT_EXPIRATION_HOURS", "1")
	userID := uuid.New()

	out, err := execute(t, "", "token", "--user", userID.String())
	require.NoError(t, err)

	jwtCfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtCfg).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	_, err = execute(t, "", "token", "--user", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid user id")
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "", "token")

	assert.ErrorIs(t, err, config.ErrJWTSecretMissing)
}

func TestServeCommand_BadConfig(t *testing.T) {
	_, err := execute(t, "", "serve", "--config", filepath.Join(t.TempDir(), "missing.yaml"))

	var loadErr *config.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	svc, err := loadJWT(zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, svc)

	t.Setenv("JWT_SECRET", "test-secret-key-for-jwt-signing-minimum-32-bytes")
	svc, err = loadJWT(zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
