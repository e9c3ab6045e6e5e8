package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zap.NewNop()), srv
}

func TestClient_BearerTokenAndBasePath(t *testing.T) {
	var gotPath, gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"user":{"id":"u1"},"organization":{"id":"o1"}}`)
	}))

	_, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/auth/me", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_LoginSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"token":"t","user":{"id":"u1"}}`)
	}))

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.test", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorBodyMapsToGatewayError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":"InsufficientPlan","message":"upgrade required"}`)
	}))

	_, err := c.ProcessingStatus(context.Background(), "tok")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusForbidden, gwErr.Status)
	assert.Equal(t, "InsufficientPlan", gwErr.Code)
	assert.Equal(t, "upgrade required", gwErr.Message)
	assert.False(t, gwErr.IsRetryable())
}

func TestClient_ErrorBodyDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{}`)
	}))

	_, err := c.ProcessingStatus(context.Background(), "tok")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, CodeUnknownError, gwErr.Code)
	assert.NotEmpty(t, gwErr.Message)
	assert.True(t, gwErr.IsRetryable())
}

// A non-JSON error body is a fatal client error, not part of the taxonomy.
func TestClient_NonJSONErrorBodyIsFatal(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `<html>bad gateway</html>`)
	}))

	_, err := c.ProcessingStatus(context.Background(), "tok")
	require.Error(t, err)
	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestClient_MultipartUpload(t *testing.T) {
	var names []string
	var contents []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data; boundary=")
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
			f, err := fh.Open()
			require.NoError(t, err)
			raw, err := io.ReadAll(f)
			require.NoError(t, err)
			f.Close()
			contents = append(contents, string(raw))
		}
		io.WriteString(w, `{"success":true,"stateId":"s1","status":"processing"}`)
	}))

	res, err := c.StartProcessing(context.Background(), "tok", []UploadFile{
		{Name: "sales.csv", Content: strings.NewReader("a,b\n1,2\n")},
		{Name: "customers.csv", Content: strings.NewReader("id,name\n")},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "s1", res.StateID)
	assert.Equal(t, []string{"sales.csv", "customers.csv"}, names)
	assert.Equal(t, []string{"a,b\n1,2\n", "id,name\n"}, contents)
}

func TestClient_ProcessingStatusDecodesSnapshot(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{
			"stage": "processing_data",
			"progress": {"current": 3, "total": 10, "percentage": 30},
			"qualityScore": {"score": 0.71}
		}`)
	}))

	state, err := c.ProcessingStatus(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, models.StageProcessingData, state.Stage)
	require.NotNil(t, state.Progress)
	assert.Equal(t, 3, state.Progress.Current)
	require.NotNil(t, state.QualityScore)
	assert.InDelta(t, 0.71, float64(*state.QualityScore), 1e-9)
}

func TestClient_ConversationRoutes(t *testing.T) {
	var gotMethod, gotPath, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.Path, r.URL.RawQuery
		io.WriteString(w, `{"conversations":[],"total":0}`)
	}))

	_, err := c.ListConversations(context.Background(), "tok", 20, 40)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/api/v1/conversations", gotPath)
	assert.Equal(t, "limit=20&offset=40", gotQuery)

	require.NoError(t, c.DeleteConversation(context.Background(), "tok", "c1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/conversations/c1", gotPath)

	require.NoError(t, c.RenameConversation(context.Background(), "tok", "c1", "Q3 numbers"))
	assert.Equal(t, http.MethodPatch, gotMethod)
}

func TestGatewayError_ConsentRequired(t *testing.T) {
	tests := []struct {
		name string
		err  GatewayError
		want bool
	}{
		{"by code", GatewayError{Status: 403, Code: "DPARequired", Message: "consent missing"}, true},
		{"by message", GatewayError{Status: 403, Code: "Forbidden", Message: "You must accept the Data Processing Agreement"}, true},
		{"by abbreviation", GatewayError{Status: 403, Code: "Forbidden", Message: "DPA consent pending"}, true},
		{"unrelated", GatewayError{Status: 403, Code: "Forbidden", Message: "no access to this resource"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.ConsentRequired())
		})
	}
}
