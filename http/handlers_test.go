package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinizap/portfolio/server/content"
	"github.com/vinizap/portfolio/server/domain"
	"github.com/vinizap/portfolio/server/filesystem"
)

type testEnv struct {
	app     *fiber.App
	server  *Server
	dataDir string
	blogs   string
}

func newTestEnv(t *testing.T, cfg AppConfig) *testEnv {
	t.Helper()
	catalog, err := content.Load()
	require.NoError(t, err)

	dataDir := t.TempDir()
	blogs := filepath.Join(dataDir, "blogs")
	scripts := filepath.Join(dataDir, "scripts")
	require.NoError(t, os.MkdirAll(blogs, 0o755))
	require.NoError(t, os.MkdirAll(scripts, 0o755))

	loader := filesystem.NewLoader(blogs, catalog.FallbackPosts())
	loader.Location = time.UTC

	cfg.DataDir = dataDir
	cfg.BlogsDir = blogs
	cfg.ScriptsDir = scripts

	server := NewServer(catalog, loader, 2, zerolog.Nop())
	return &testEnv{
		app:     NewApp(server, cfg),
		server:  server,
		dataDir: dataDir,
		blogs:   blogs,
	}
}

func (e *testEnv) writePost(t *testing.T, folder string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(e.blogs, folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func (e *testEnv) get(t *testing.T, path string, headers ...string) (*nethttp.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHandleBlogs(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "first-post", map[string]string{
		"post.txt":  "TITLE - Hello World\nSUBTITLE - A Story\nBody text.",
		"cover.png": "png",
	})
	env.writePost(t, "my-cool-post", map[string]string{"post.txt": "Plain body."})

	resp, body := env.get(t, "/api/blogs")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

	var posts []domain.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 2)

	assert.Equal(t, "Hello World", posts[0].Title)
	require.NotNil(t, posts[0].Subtitle)
	assert.Equal(t, "A Story", *posts[0].Subtitle)
	assert.Equal(t, "Body text.", posts[0].Content)
	require.NotNil(t, posts[0].Image)
	assert.Equal(t, "/data/blogs/first-post/cover.png", *posts[0].Image)

	assert.Equal(t, 2, posts[1].ID)
	assert.Equal(t, "my cool post", posts[1].Title)
}

func TestHandleBlogs_NullFields(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "bare", map[string]string{"p.txt": "body"})

	_, body := env.get(t, "/api/blogs")

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "null", string(raw[0]["subtitle"]))
	assert.Equal(t, "null", string(raw[0]["image"]))
}

func TestHandleBlogs_EmptyStore(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, body := env.get(t, "/api/blogs")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestHandleBlogs_FallbackIsStill200(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	require.NoError(t, os.RemoveAll(env.blogs))

	resp, body := env.get(t, "/api/blogs")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []domain.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "The Art of Visual Storytelling", posts[0].Title)
}

func TestHandleBlogs_RescansEveryRequest(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "one", map[string]string{"p.txt": "one"})

	_, body := env.get(t, "/api/blogs")
	var posts []domain.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 1)

	env.writePost(t, "two", map[string]string{"p.txt": "two"})

	_, body = env.get(t, "/api/blogs")
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 2)
}

func TestHandleBlogs_Idempotent(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "a", map[string]string{"p.txt": "TITLE - A\nSUBTITLE - S\nbody", "i.jpg": "jpg"})
	env.writePost(t, "b", map[string]string{"p.txt": "body b"})

	_, first := env.get(t, "/api/blogs")
	_, second := env.get(t, "/api/blogs")
	assert.JSONEq(t, string(first), string(second))
}

func TestServer_BlogsConcurrent(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "a", map[string]string{"p.txt": "a"})

	var wg sync.WaitGroup
	results := make([]filesystem.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = env.server.Blogs(context.Background())
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.False(t, res.FallbackUsed())
		assert.Len(t, res.Posts, 1)
	}
}

func TestServer_BlogsCanceledWhileWaiting(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "a", map[string]string{"p.txt": "a"})

	// Occupy every scan slot.
	require.NoError(t, env.server.scans.Acquire(context.Background(), 2))
	defer env.server.scans.Release(2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := env.server.Blogs(ctx)
	require.True(t, res.FallbackUsed())
	assert.ErrorIs(t, res.Cause, context.Canceled)
	assert.Len(t, res.Posts, 3)
}

func TestHandleStatic(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	tests := map[string]int{
		"/api/scripts":          11,
		"/api/short-films":      3,
		"/api/content-branding": 4,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			resp, first := env.get(t, path)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderETag))

			var records []map[string]any
			require.NoError(t, json.Unmarshal(first, &records))
			assert.Len(t, records, want)

			_, second := env.get(t, path)
			assert.Equal(t, first, second, "static bodies must be byte-identical")
		})
	}
}

func TestHandleStatic_NotModified(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, _ := env.get(t, "/api/scripts")
	etag := resp.Header.Get(fiber.HeaderETag)
	require.NotEmpty(t, etag)

	resp, body := env.get(t, "/api/scripts", fiber.HeaderIfNoneMatch, etag)
	assert.Equal(t, fiber.StatusNotModified, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = env.get(t, "/api/scripts", fiber.HeaderIfNoneMatch, `"stale"`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandlePortfolio(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, body := env.get(t, "/api/portfolio")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var p struct {
		Header   domain.Header     `json:"header"`
		Sections []json.RawMessage `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Director | Writer | Producer", p.Header.Role)
	assert.Len(t, p.Sections, len(domain.SectionIDs))
}

func TestHandleSection(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, body := env.get(t, "/api/portfolio/process")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var section struct {
		ID    string        `json:"id"`
		Steps []domain.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(body, &section))
	assert.Equal(t, "process", section.ID)
	assert.Len(t, section.Steps, 4)

	resp, body = env.get(t, "/api/portfolio/gallery")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "unknown section")
}

func TestStaticFiles(t *testing.T) {
	env := newTestEnv(t, AppConfig{})
	env.writePost(t, "pics", map[string]string{"p.txt": "x", "cover.png": "png-bytes"})
	require.NoError(t, os.WriteFile(filepath.Join(env.dataDir, "scripts", "Script-1.jpeg"), []byte("jpeg-bytes"), 0o644))

	_, blogBody := env.get(t, "/api/blogs")
	var posts []domain.Post
	require.NoError(t, json.Unmarshal(blogBody, &posts))
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].Image)

	resp, body := env.get(t, *posts[0].Image)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))

	resp, body = env.get(t, "/images/scripts/Script-1.jpeg")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jpeg-bytes", string(body))

	resp, _ = env.get(t, "/data/blogs/pics/missing.png")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	t.Run("development allows any origin", func(t *testing.T) {
		env := newTestEnv(t, AppConfig{})
		resp, _ := env.get(t, "/api/scripts", fiber.HeaderOrigin, "https://anywhere.test")
		assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})

	t.Run("production pins the frontend origin", func(t *testing.T) {
		env := newTestEnv(t, AppConfig{AllowedOrigin: "https://site.test"})

		resp, _ := env.get(t, "/api/scripts", fiber.HeaderOrigin, "https://site.test")
		assert.Equal(t, "https://site.test", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))

		resp, _ = env.get(t, "/api/scripts", fiber.HeaderOrigin, "https://other.test")
		assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	})
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, _ := env.get(t, "/api/short-films")
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, AppConfig{})

	resp, body := env.get(t, "/api/nope")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}
