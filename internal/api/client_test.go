package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c, err := NewClient(Options{BaseURL: server.URL + "/api", Timeout: 2 * time.Second, Tokens: tokens})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("default = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatal("parseBaseURL(http://) returned nil error")
	}
}

func TestClient_ResolveKeepsBasePath(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "https://host/api/"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	cases := map[string]string{
		"Arisan":                    "https://host/api/Arisan",
		"/Transaksi/user/+6281":     "https://host/api/Transaksi/user/+6281",
		"file/images?page=2":        "https://host/api/file/images?page=2",
		"Arisan/AddNewArisanMember": "https://host/api/Arisan/AddNewArisanMember",
	}
	for in, want := range cases {
		if got := c.resolve(in); got != want {
			t.Fatalf("resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClient_SendsHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{"code":200,"data":[]}`)
	}, staticToken("tok-123"))

	var out []Setting
	if err := c.Get(testContext(t), "setting", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Get("Authorization") != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want bearer token", got.Get("Authorization"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID missing")
	}
	if got.Get("Accept") != "application/json" {
		t.Fatalf("Accept = %q", got.Get("Accept"))
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "arisan-admin/") {
		t.Fatalf("User-Agent = %q", got.Get("User-Agent"))
	}
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"data":[]}`)
	}, staticToken(" "))

	var out []Setting
	_ = c.Get(testContext(t), "setting", &out)
	if auth != "" {
		t.Fatalf("Authorization = %q, want none", auth)
	}
}

func TestClient_GetWithoutDataFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":404,"Error":"tidak ditemukan"}`)
	}, nil)

	var out []User
	err := c.Get(testContext(t), "user", &out)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get error = %v, want *Error", err)
	}
	if apiErr.Message != "tidak ditemukan" || apiErr.Code != 404 {
		t.Fatalf("apiErr = %#v", apiErr)
	}
}

func TestClient_GetSingleObjectBecomesList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"id":1,"fullName":"Ana"}}`)
	}, nil)

	var out []User
	if err := c.Get(testContext(t), "user", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(out) != 1 || out[0].FullName != "Ana" || out[0].ID != "1" {
		t.Fatalf("users = %#v, want single Ana", out)
	}
}

func TestClient_HTTPErrorCarriesBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":400,"status":"error","message":"Judul wajib diisi"}`)
	}, nil)

	_, err := c.Post(testContext(t), "Arisan", map[string]string{})
	if got := Message(err); got != "Judul wajib diisi" {
		t.Fatalf("Message(err) = %q, want backend message", got)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("err = %#v, want status 400", err)
	}
}

func TestClient_HTTPErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, nil)

	_, err := c.Delete(testContext(t), "setting/1")
	if got := Message(err); got != "Unauthorized" {
		t.Fatalf("Message(err) = %q, want Unauthorized", got)
	}
	if !IsUnauthorized(err) {
		t.Fatal("IsUnauthorized = false, want true")
	}
}

func TestClient_WriteRules(t *testing.T) {
	cases := []struct {
		body string
		ok   bool
	}{
		{``, true},
		{`{}`, true},
		{`{"code":200}`, true},
		{`{"code":201}`, true},
		{`{"status":"success","code":0}`, true},
		{`{"code":500,"message":"gagal"}`, false},
		{`{"code":200,"Error":"duplikat"}`, false},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, tc.body)
		}, nil)
		_, err := c.Put(testContext(t), "setting/1", map[string]string{"key": "a"})
		if (err == nil) != tc.ok {
			t.Fatalf("body %q: err = %v, want ok=%v", tc.body, err, tc.ok)
		}
	}
}

func TestClient_MalformedBodyIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}, nil)
	var out []Event
	err := c.Get(testContext(t), "event", &out)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("err = %v, want decode error", err)
	}
}

func TestClient_UploadMultipart(t *testing.T) {
	var name, content, ctype string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ctype = r.Header.Get("Content-Type")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		name, content = hdr.Filename, string(b)
		_, _ = io.WriteString(w, `{"code":200}`)
	}, nil)

	if _, err := c.Upload(testContext(t), "file/upload", "a.png", strings.NewReader("PNGDATA")); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if !strings.HasPrefix(ctype, "multipart/form-data") {
		t.Fatalf("Content-Type = %q", ctype)
	}
	if name != "a.png" || content != "PNGDATA" {
		t.Fatalf("uploaded %q=%q", name, content)
	}
}

func TestClient_TransportError(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.GetEnvelope(testContext(t), "user")
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("err = %v, want execute request error", err)
	}
}
