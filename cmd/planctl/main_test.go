package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/sealer"
	jwttoken "payoutkyc/internal/jwt_token"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveJapaneseBusiness(t *testing.T) {
	out, err := execute(t, "resolve", "--country", "jp", "--business", "--business-country", "JP", "--visible-only")
	require.NoError(t, err)

	var plan models.FieldPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	visible := plan.Visible()
	assert.Contains(t, visible, models.FieldBusinessNameKanji)
	assert.Contains(t, visible, models.FieldFirstNameKana)
	assert.NotContains(t, visible, models.FieldStreetAddress)
	for _, f := range plan.Fields {
		assert.Empty(t, f.Options, f.Name)
	}
}

func TestResolveFromRecordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"country":"US","city":"Austin"}`), 0o600))

	out, err := execute(t, "resolve", "--record", path, "--tax-id-countries", "us", "--invalid", "city", "--lang", "es")
	require.NoError(t, err)

	var plan models.FieldPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	tax, ok := plan.Field(models.FieldIndividualTaxID)
	require.True(t, ok)
	assert.True(t, tax.Visible)
	city, _ := plan.Field(models.FieldCity)
	assert.True(t, city.Invalid)
	first, _ := plan.Field(models.FieldFirstName)
	assert.Equal(t, "Nombre", first.Label)
}

func TestResolveRejectsUnknownInvalidField(t *testing.T) {
	_, err := execute(t, "resolve", "--invalid", "shoe_size")
	assert.Error(t, err)
}

func TestPhone(t *testing.T) {
	out, err := execute(t, "phone", "5551234567", "--country", "us")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", strings.TrimSpace(out))

	out, err = execute(t, "phone", "call me")
	require.NoError(t, err)
	assert.Equal(t, "call me", strings.TrimSpace(out))

	_, err = execute(t, "phone", "call me", "--strict")
	assert.Error(t, err)
}

func TestTokenValidatesAgainstServerKey(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "planctl-test-key")
	t.Setenv("JWT_ISSUER", "payoutkyc-test")
	t.Setenv("COMPLIANCE_RECORD_STORE", "memory")

	out, err := execute(t, "token", "--user", "6f1c1f0e-5b7a-4a43-9d2e-6b1f6f3f2a10")
	require.NoError(t, err)

	claims, err := jwttoken.NewJWTService("planctl-test-key", "payoutkyc-test").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "6f1c1f0e-5b7a-4a43-9d2e-6b1f6f3f2a10", claims.UserID)
}

func TestSealingKeyOpensWhatItSeals(t *testing.T) {
	first, err := execute(t, "sealing-key")
	require.NoError(t, err)
	second, err := execute(t, "sealing-key")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	s, err := sealer.New(strings.TrimSpace(first))
	require.NoError(t, err)
	sealed, err := s.Seal("123-45-6789")
	require.NoError(t, err)
	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", opened)
}
