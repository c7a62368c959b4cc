package club

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

const (
	defaultBaseURL = "https://www.rockclimbing.org"

	loginPath  = "/index.php/component/comprofiler/login"
	eventsPath = "/index.php/event-list/events-list"

	// The club site serves a mobile-hostile page to unknown agents.
	userAgent = "Mozilla/5.0"
)

// ErrBadCredentials reports a login rejected by the club site.
var ErrBadCredentials = errors.New("bad username or password")

// WebClient is the authenticated HTTP plumbing for the club site: a
// cookie-backed session established by the login form, plus page fetches
// within that session. Turning fetched pages into records is the job of a
// site-specific parser layered on top.
type WebClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewWebClient builds a client for the club site. An empty baseURL selects
// the production site.
func NewWebClient(baseURL, username, password string) (*WebClient, error) {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &WebClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		client:   &http.Client{Jar: jar},
	}, nil
}

// Login submits the login form and verifies the session. The site answers
// a successful login with a redirect to the front page; landing anywhere
// else with a 2xx status means the credentials were rejected.
func (w *WebClient) Login(ctx context.Context) error {
	form := url.Values{
		"username": {w.username},
		"passwd":   {w.password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		w.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	rsp, err := w.client.Do(req)
	if err != nil {
		return &SourceError{Op: "login", Err: err}
	}
	defer rsp.Body.Close()
	io.Copy(io.Discard, rsp.Body)

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return &SourceError{Op: "login", Err: fmt.Errorf("status %d", rsp.StatusCode)}
	}
	if rsp.Request.URL.Path != "/" {
		return &SourceError{Op: "login", Err: ErrBadCredentials}
	}
	return nil
}

// FetchPage retrieves a site page within the logged-in session.
func (w *WebClient) FetchPage(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	rsp, err := w.client.Do(req)
	if err != nil {
		return nil, &SourceError{Op: path, Err: err}
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return nil, &SourceError{Op: path, Err: fmt.Errorf("status %d", rsp.StatusCode)}
	}
	return io.ReadAll(rsp.Body)
}

// FetchEventsPage retrieves the event listing page for parsing.
func (w *WebClient) FetchEventsPage(ctx context.Context) ([]byte, error) {
	return w.FetchPage(ctx, eventsPath)
}
