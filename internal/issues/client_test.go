package issues

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/issuebot/internal/credential"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: baseURL,
		Owner:   "octo",
		Repo:    "widgets",
		Timeout: timeout,
	}, credential.New("s3cret"), discardLogger())
	require.NoError(t, err)
	return c
}

func TestLookup_Found(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, `{"number":42,"html_url":"http://x/42","state":"open","title":"Bug","body":"desc","labels":[]}`)
	}))
	defer srv.Close()

	issue, err := newTestClient(t, srv.URL, time.Second).Lookup(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, Issue{Number: 42, URL: "http://x/42", State: "open", Title: "Bug", Body: "desc"}, issue)
	assert.Equal(t, "/repos/octo/widgets/issues/42", gotPath)
	assert.Equal(t, "token s3cret", gotAuth)
	assert.Equal(t, acceptHeader, gotAccept)
}

func TestLookup_NullBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"number":7,"html_url":"http://x/7","state":"closed","title":"Empty","body":null}`)
	}))
	defer srv.Close()

	issue, err := newTestClient(t, srv.URL, time.Second).Lookup(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "", issue.Body)
	assert.Equal(t, "closed", issue.State)
}

func TestLookup_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"message":"Not Found"}`,
			wantKind:    KindNotFound,
			wantMessage: `404 Not Found: {"message":"Not Found"}`,
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        "{\n  \"message\": \"Bad credentials\"\n}",
			wantKind:    KindStatus,
			wantMessage: `401 Unauthorized: { "message": "Bad credentials" }`,
		},
		{
			name:        "server error without body",
			status:      http.StatusBadGateway,
			wantKind:    KindStatus,
			wantMessage: "502 Bad Gateway",
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `{"number": 42,`,
			wantKind:    KindDecode,
			wantMessage: "malformed response",
		},
		{
			name:        "not an object",
			status:      http.StatusOK,
			body:        `[1,2,3]`,
			wantKind:    KindDecode,
			wantMessage: "malformed response",
		},
		{
			name:        "missing title",
			status:      http.StatusOK,
			body:        `{"number":42,"html_url":"http://x/42","state":"open","body":"desc"}`,
			wantKind:    KindDecode,
			wantMessage: "malformed response: missing field title",
		},
		{
			name:        "missing body",
			status:      http.StatusOK,
			body:        `{"number":42,"html_url":"http://x/42","state":"open","title":"Bug"}`,
			wantKind:    KindDecode,
			wantMessage: "malformed response: missing field body",
		},
		{
			name:        "number is a string",
			status:      http.StatusOK,
			body:        `{"number":"42","html_url":"http://x/42","state":"open","title":"Bug","body":""}`,
			wantKind:    KindDecode,
			wantMessage: "malformed response: missing field number",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, time.Second).Lookup(context.Background(), 42)
			require.Error(t, err)

			var lookupErr *LookupError
			require.ErrorAs(t, err, &lookupErr)
			assert.Equal(t, tt.wantKind, lookupErr.Kind)
			assert.Equal(t, tt.wantMessage, err.Error())
			assert.Equal(t, 42, lookupErr.IssueID)
		})
	}
}

func TestLookup_LongErrorBodyIsTruncated(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("x", 5000))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).Lookup(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "500 Internal Server Error: "+strings.Repeat("x", maxExcerptSize)+"...", err.Error())
}

func TestLookup_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := newTestClient(t, srv.URL, 50*time.Millisecond).Lookup(context.Background(), 7)
	require.Error(t, err)

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, KindTransport, lookupErr.Kind)
	assert.NotEmpty(t, err.Error())
	assert.Less(t, time.Since(start), time.Second)
}

func TestLookup_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newTestClient(t, baseURL, time.Second).Lookup(context.Background(), 3)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, KindTransport, lookupErr.Kind)
	assert.NotEmpty(t, lookupErr.Error())
	assert.NotContains(t, lookupErr.Error(), "s3cret")
}

func TestLookup_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv.URL, time.Second).Lookup(ctx, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLookup_NoCaching(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"number":5,"html_url":"http://x/5","state":"open","title":"T","body":"B"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, time.Second)
	first, err := c.Lookup(context.Background(), 5)
	require.NoError(t, err)
	second, err := c.Lookup(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Owner: "o"}, credential.New("t"), nil)
	require.Error(t, err)

	_, err = NewClient(Config{Owner: "o", Repo: "r"}, credential.Token{}, nil)
	require.Error(t, err)

	_, err = NewClient(Config{Owner: "o", Repo: "r", BaseURL: "not a url"}, credential.New("t"), nil)
	require.Error(t, err)

	c, err := NewClient(Config{Owner: "o", Repo: "r"}, credential.New("t"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/repos/o/r/issues", c.endpoint)
	assert.Equal(t, DefaultTimeout, c.timeout)
}
