// Package e2e runs the Gherkin features in features/ against a running
// server. Set E2E_BASE_URL (and E2E_JWT_SIGNING_KEY when the server guards
// /submit-proposal) to enable it.
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
)

const (
	tokenIssuer   = "expenseai"
	tokenAudience = "expenseai-api"
)

// TestContext holds the HTTP client and the last response of a scenario.
type TestContext struct {
	baseURL    string
	signingKey string
	client     *http.Client

	lastStatus int
	lastBody   []byte
	vars       map[string]string
}

func NewTestContext(baseURL, signingKey string) *TestContext {
	return &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		signingKey: signingKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		vars:       make(map[string]string),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.vars = make(map[string]string)
}

func (tc *TestContext) POST(path string, body any, headers map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(payload), headers)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GetLastStatusCode() int { return tc.lastStatus }

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetResponseField resolves a dotted path such as "0.expense_id" in the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	cur := doc
	for _, part := range strings.Split(field, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found", field)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, field)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", field)
		}
	}
	return cur, nil
}

func (tc *TestContext) SetVar(name, value string) { tc.vars[name] = value }

// Var returns the stored value for name, or name itself when unset, so
// steps accept either an alias or a literal.
func (tc *TestContext) Var(name string) string {
	if v, ok := tc.vars[name]; ok {
		return v
	}
	return name
}

// BearerToken signs a token for role. It returns "" when no signing key is
// configured, matching a server that leaves the route open.
func (tc *TestContext) BearerToken(identityKey, role string) (string, error) {
	if tc.signingKey == "" {
		return "", nil
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"identity_key": identityKey,
		"role":         role,
		"sub":          identityKey,
		"iss":          tokenIssuer,
		"aud":          []string{tokenAudience},
		"iat":          now.Unix(),
		"exp":          now.Add(10 * time.Minute).Unix(),
		"jti":          strconv.FormatInt(now.UnixNano(), 36),
	})
	signed, err := token.SignedString([]byte(tc.signingKey))
	if err != nil {
		return "", err
	}
	return "Bearer " + signed, nil
}
