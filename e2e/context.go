package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TestContext holds the state of one scenario against a running server.
type TestContext struct {
	BaseURL    string
	SigningKey string
	Issuer     string
	AdminToken string

	client      *http.Client
	accessToken string
	userID      string
	status      int
	body        []byte
	parsed      any
}

func NewTestContext(baseURL, signingKey, issuer, adminToken string) *TestContext {
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SigningKey: signingKey,
		Issuer:     issuer,
		AdminToken: adminToken,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.userID = ""
	tc.status = 0
	tc.body = nil
	tc.parsed = nil
}

// AuthenticateAsNewUser mints a token for a fresh user the way the account
// service would.
func (tc *TestContext) AuthenticateAsNewUser() error {
	userID := uuid.NewString()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"sub":     userID,
		"iss":     tc.Issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(15 * time.Minute).Unix(),
		"jti":     uuid.NewString(),
	})
	signed, err := token.SignedString([]byte(tc.SigningKey))
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	tc.accessToken = signed
	tc.userID = userID
	return nil
}

// ClearAuthentication drops the bearer token for the rest of the scenario.
func (tc *TestContext) ClearAuthentication() {
	tc.accessToken = ""
}

func (tc *TestContext) GetAccessToken() string { return tc.accessToken }

func (tc *TestContext) GetUserID() string { return tc.userID }

func (tc *TestContext) GetAdminToken() string { return tc.AdminToken }

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.Do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.Do(http.MethodPost, path, body, nil)
}

func (tc *TestContext) PATCH(path string, body any) error {
	return tc.Do(http.MethodPatch, path, body, nil)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.Do(http.MethodPut, path, body, nil)
}

// Do sends a request, adding the bearer token when the scenario is
// authenticated, and records the response.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.parsed = nil
	tc.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(tc.body) > 0 {
		if err := json.Unmarshal(tc.body, &tc.parsed); err != nil {
			return fmt.Errorf("decoding response: %w (body: %s)", err, tc.body)
		}
	}
	return nil
}

func (tc *TestContext) GetLastStatus() int { return tc.status }

func (tc *TestContext) GetLastBody() []byte { return tc.body }

// GetResponseField walks a dotted path such as "plan.warnings.0.code".
func (tc *TestContext) GetResponseField(path string) (any, error) {
	cur := tc.parsed
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", path)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return cur, nil
}

func (tc *TestContext) ResponseContains(path string) bool {
	_, err := tc.GetResponseField(path)
	return err == nil
}
