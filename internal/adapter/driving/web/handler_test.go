package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mycookbook/internal/domain/model"
)

// --- Fake recipe service ---

type fakeRecipes struct {
	mu      sync.Mutex
	catalog map[string]model.Recipe
	saved   []model.Recipe
	subs    []chan []model.Recipe
	offline bool
}

func newFakeRecipes(catalog ...model.Recipe) *fakeRecipes {
	f := &fakeRecipes{catalog: make(map[string]model.Recipe)}
	for _, r := range catalog {
		f.catalog[r.ID] = r
	}
	return f
}

func (f *fakeRecipes) SearchRecipes(_ context.Context, query string) ([]model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.offline {
		return nil, &model.NetworkError{Err: errors.New("connection refused")}
	}
	out := []model.Recipe{}
	for _, r := range f.catalog {
		if query != "" && strings.Contains(strings.ToLower(r.Name), strings.ToLower(query)) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.Recipe) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeRecipes) GetRecipeDetails(_ context.Context, id string) (model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.catalog[id]
	if !ok {
		return model.Recipe{}, model.ErrRecipeNotFound
	}
	return r, nil
}

func (f *fakeRecipes) SaveRecipe(_ context.Context, recipe model.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saved = slices.DeleteFunc(f.saved, func(r model.Recipe) bool { return r.ID == recipe.ID })
	f.saved = append(f.saved, recipe)
	f.publishLocked()
	return nil
}

func (f *fakeRecipes) DeleteRecipe(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saved = slices.DeleteFunc(f.saved, func(r model.Recipe) bool { return r.ID == id })
	f.publishLocked()
	return nil
}

func (f *fakeRecipes) WatchSaved(ctx context.Context) (<-chan []model.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan []model.Recipe, 1)
	ch <- slices.Clone(f.saved)
	f.subs = append(f.subs, ch)

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs = slices.DeleteFunc(f.subs, func(c chan []model.Recipe) bool { return c == ch })
		close(ch)
	}()
	return ch, nil
}

func (f *fakeRecipes) publishLocked() {
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- slices.Clone(f.saved)
	}
}

func (f *fakeRecipes) savedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.saved))
	for _, r := range f.saved {
		ids = append(ids, r.ID)
	}
	return ids
}

// --- Helpers ---

var (
	arrabiata = model.Recipe{
		ID:           "52771",
		Name:         "Spicy Arrabiata Penne",
		ImageURL:     "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
		Instructions: "Boil water.\r\nAdd penne.",
		Ingredients:  []model.Ingredient{{Name: "penne rigate", Measure: "1 pound"}},
		Category:     "Vegetarian",
		Area:         "Italian",
	}
	handi = model.Recipe{ID: "52795", Name: "Chicken Handi", Category: "Chicken", Area: "Indian"}
)

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T, svc *fakeRecipes) (*browser, *Handler) {
	t.Helper()

	h := NewHandler(svc, 20*time.Millisecond, time.Hour, slog.Default())
	h.longPoll = time.Second

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	srv := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:   t,
		srv: srv,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, h
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.srv.URL + path)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(body)
}

func (b *browser) csrf() string {
	u, _ := url.Parse(b.srv.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	return ""
}

// post submits a form with the CSRF token and returns the status and Location.
func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfFormField, b.csrf())

	resp, err := b.client.PostForm(b.srv.URL+path, form)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header.Get("Location")
}

// --- Search ---

func TestSearchPage_SetsCookiesAndRenders(t *testing.T) {
	b, h := newTestServer(t, newFakeRecipes(arrabiata))

	status, body := b.get("/")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `id="search-input"`)
	assert.Contains(t, body, `/static/app.js`)
	assert.NotEmpty(t, b.csrf())
	assert.Zero(t, h.sessions.len())

	// The first form post opens the session; later requests reuse it.
	b.post("/app/search/submit", url.Values{"q": {"penne"}})
	assert.Equal(t, 1, h.sessions.len())
	b.get("/")
	b.post("/app/search/query", url.Values{"q": {"pen"}})
	assert.Equal(t, 1, h.sessions.len())
}

func TestCookielessGetsOpenNoSessions(t *testing.T) {
	b, h := newTestServer(t, newFakeRecipes(arrabiata))

	for range 5 {
		for _, path := range []string{"/", "/app/search/results", "/app/recipes/52771", "/app/saved"} {
			resp, err := http.Get(b.srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	}
	assert.Zero(t, h.sessions.len())

	resp, err := http.Get(b.srv.URL + "/app/search/results?wait=1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, h.sessions.len())
}

func TestSearchFlow_SubmitShowsResults(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes(arrabiata, handi))
	b.get("/")

	status, location := b.post("/app/search/submit", url.Values{"q": {"penne"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", location)

	require.Eventually(t, func() bool {
		_, body := b.get("/app/search/results")
		return strings.Contains(body, "Spicy Arrabiata Penne")
	}, time.Second, 10*time.Millisecond)

	_, body := b.get("/")
	assert.Contains(t, body, `value="penne"`)
	assert.NotContains(t, body, "Chicken Handi")
}

func TestSearchFlow_DebouncedQuery(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes(arrabiata, handi))
	b.get("/")

	for _, q := range []string{"c", "ch", "chicken"} {
		status, _ := b.post("/app/search/query", url.Values{"q": {q}})
		require.Equal(t, http.StatusNoContent, status)
	}

	// The long poll returns on the next change.
	require.Eventually(t, func() bool {
		_, body := b.get("/app/search/results?wait=1")
		return strings.Contains(body, "Chicken Handi")
	}, 3*time.Second, 10*time.Millisecond)
}

func TestSearchFlow_NetworkErrorMessageAndDismiss(t *testing.T) {
	svc := newFakeRecipes(arrabiata)
	svc.offline = true
	b, _ := newTestServer(t, svc)
	b.get("/")

	b.post("/app/search/submit", url.Values{"q": {"penne"}})

	require.Eventually(t, func() bool {
		_, body := b.get("/app/search/results")
		return strings.Contains(body, "Please check your network connection.")
	}, time.Second, 10*time.Millisecond)

	status, _ := b.post("/app/messages/dismiss", nil)
	assert.Equal(t, http.StatusSeeOther, status)

	_, body := b.get("/app/search/results")
	assert.NotContains(t, body, "Please check your network connection.")
}

func TestPostWithoutCSRFIsRejected(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes())
	b.get("/")

	resp, err := b.client.PostForm(b.srv.URL+"/app/search/submit", url.Values{"q": {"x"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestScriptedPostGetsNoContent(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes())
	b.get("/")

	req, err := http.NewRequest(http.MethodPost, b.srv.URL+"/app/search/submit", strings.NewReader("q=soup"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeader, b.csrf())
	req.Header.Set("X-Requested-With", "fetch")

	resp, err := b.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// --- Detail ---

func TestRecipeDetail(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes(arrabiata))

	status, body := b.get("/app/recipes/52771")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>Spicy Arrabiata Penne</h1>")
	assert.Contains(t, body, "Vegetarian · Italian")
	assert.Contains(t, body, "<ol>")
	assert.Contains(t, body, "<li>Boil water.</li>")
	assert.Contains(t, body, "penne rigate")
	assert.Contains(t, body, "&#9734; Save")
}

func TestRecipeDetail_CatalogNumberingIsNotDoubled(t *testing.T) {
	numbered := model.Recipe{
		ID:           "53010",
		Name:         "Rice Pudding",
		Instructions: "1. Rinse the rice.\r\n2. Simmer in milk.\r\nSTEP 3\r\nServe warm.",
	}
	b, _ := newTestServer(t, newFakeRecipes(numbered))

	_, body := b.get("/app/recipes/53010")

	assert.Equal(t, 1, strings.Count(body, "<ol>"))
	assert.Equal(t, 3, strings.Count(body, "<li>"))
	assert.Contains(t, body, "<li>Rinse the rice.</li>")
	assert.Contains(t, body, "<li>Serve warm.</li>")
	assert.NotContains(t, body, "STEP 3")
}

func TestRecipeDetail_NotFound(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes())

	status, body := b.get("/app/recipes/1")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Recipe not found.")
}

func TestRecipeDetail_EscapesText(t *testing.T) {
	evil := model.Recipe{ID: "9", Name: `<img src=x onerror=alert(1)>`}
	b, _ := newTestServer(t, newFakeRecipes(evil))

	_, body := b.get("/app/recipes/9")

	assert.NotContains(t, body, `<img src=x`)
	assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;")
}

func TestToggleSave_FromDetail(t *testing.T) {
	svc := newFakeRecipes(arrabiata)
	b, _ := newTestServer(t, svc)
	b.get("/app/recipes/52771")

	status, location := b.post("/app/recipes/52771/toggle-save", url.Values{"return_to": {"/app/recipes/52771"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/app/recipes/52771", location)
	assert.Equal(t, []string{"52771"}, svc.savedIDs())

	_, body := b.get("/app/recipes/52771")
	assert.Contains(t, body, "&#9733; Saved")

	b.post("/app/recipes/52771/toggle-save", nil)
	assert.Empty(t, svc.savedIDs())
}

func TestToggleSave_FromSearchResults(t *testing.T) {
	svc := newFakeRecipes(arrabiata)
	b, _ := newTestServer(t, svc)
	b.get("/")
	b.post("/app/search/submit", url.Values{"q": {"penne"}})

	require.Eventually(t, func() bool {
		_, body := b.get("/app/search/results")
		return strings.Contains(body, "Spicy Arrabiata Penne")
	}, time.Second, 10*time.Millisecond)

	status, location := b.post("/app/recipes/52771/toggle-save", url.Values{"return_to": {"/"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/", location)
	assert.Equal(t, []string{"52771"}, svc.savedIDs())

	_, body := b.get("/app/search/results")
	assert.Contains(t, body, "&#9733; Saved")
}

func TestToggleSave_UnknownRecipe(t *testing.T) {
	svc := newFakeRecipes()
	b, _ := newTestServer(t, svc)
	b.get("/")

	status, _ := b.post("/app/recipes/1/toggle-save", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Empty(t, svc.savedIDs())
}

// --- Saved ---

func TestSavedPage_ListFilterUnsave(t *testing.T) {
	svc := newFakeRecipes()
	require.NoError(t, svc.SaveRecipe(context.Background(), arrabiata))
	require.NoError(t, svc.SaveRecipe(context.Background(), handi))
	b, _ := newTestServer(t, svc)

	status, body := b.get("/app/saved")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Spicy Arrabiata Penne")
	assert.Contains(t, body, "Chicken Handi")

	_, body = b.get("/app/saved?q=CHICKEN")
	assert.NotContains(t, body, "Spicy Arrabiata Penne")
	assert.Contains(t, body, "Chicken Handi")

	status, location := b.post("/app/saved/52795/unsave", url.Values{"return_to": {"/app/saved"}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/app/saved", location)
	assert.Equal(t, []string{"52771"}, svc.savedIDs())
}

func TestSavedPage_Empty(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes())

	_, body := b.get("/app/saved")
	assert.Contains(t, body, "Nothing saved yet.")
}

// --- Plumbing ---

func TestStaticAssets(t *testing.T) {
	b, _ := newTestServer(t, newFakeRecipes())

	for _, path := range []string{"/static/app.js", "/static/app.css"} {
		status, body := b.get(path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.NotEmpty(t, body, path)
	}
}

func TestReturnTo(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"/app/saved", "/app/saved"},
		{"", "/fallback"},
		{"https://evil.example", "/fallback"},
		{"//evil.example", "/fallback"},
		{`/\evil.example`, "/fallback"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"return_to": {tt.value}}.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, tt.want, returnTo(r, "/fallback"), tt.value)
	}
}

func TestSessionStore_ReapsIdleSessions(t *testing.T) {
	svc := newFakeRecipes()
	h := NewHandler(svc, time.Hour, time.Minute, slog.Default())
	store := h.sessions

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	sess := store.get(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, store.len())

	now = now.Add(30 * time.Second)
	assert.Zero(t, store.reap())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.reap())
	assert.Zero(t, store.len())

	// The screen is closed: its change channel is drained and closed.
	for range sess.search.Changes() {
	}

	// The old cookie now opens a fresh session.
	cookie := rec.Result().Cookies()[0]
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	fresh := store.get(httptest.NewRecorder(), req)
	assert.NotEqual(t, sess.id, fresh.id)

	store.closeAll()
	assert.Zero(t, store.len())
}
