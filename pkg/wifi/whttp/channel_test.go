package whttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
)

func newChannel(t *testing.T, srv *httptest.Server, timeout time.Duration) *Channel {
	t.Helper()
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	return New(Config{
		Base:    base,
		Timeout: timeout,
		Client:  srv.Client(),
		Log:     testr.New(t),
	})
}

func TestQueryEncode(t *testing.T) {
	q := Query{{"ssid", "My Cafe+Bar"}, {"key", "p&ss=é"}}
	want := "ssid=My%20Cafe%2BBar&key=p%26ss%3D%C3%A9"
	if got := q.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	if got := (Query{}).Encode(); got != "" {
		t.Errorf("empty Encode() = %q", got)
	}
}

func TestURL(t *testing.T) {
	base, _ := url.Parse("http://192.168.0.1/")
	ch := New(Config{Base: base})
	got := ch.URL("wifi_status.json", Query{{"bssid", "00:11:22:33:44:55"}})
	want := "http://192.168.0.1/wifi_status.json?bssid=00%3A11%3A22%3A33%3A44%3A55"
	if got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	if got := ch.URL("wifi_scan.json", nil); got != "http://192.168.0.1/wifi_scan.json" {
		t.Errorf("URL() = %q", got)
	}
}

func TestDoReadsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/wifi_profile.json" || r.URL.Query().Get("ssid") != "home net" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ch := newChannel(t, srv, time.Second)
	res, err := ch.DoTimeout(context.Background(), http.MethodDelete, "wifi_profile.json", Query{{"ssid", "home net"}})
	if err != nil {
		t.Fatalf("DoTimeout: %v", err)
	}
	if res.StatusCode != http.StatusNotFound || res.OK() || string(res.Body) != "{}" {
		t.Errorf("response = %d %q", res.StatusCode, res.Body)
	}
}

func TestDoTimeoutAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ch := newChannel(t, srv, 50*time.Millisecond)
	start := time.Now()
	_, err := ch.DoTimeout(context.Background(), http.MethodGet, "wifi_scan_results.json", nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("DoTimeout() = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("DoTimeout took %v", elapsed)
	}
}

func TestGoNeverInvokesCallbackOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer close(release)

	ch := newChannel(t, srv, 50*time.Millisecond)
	var called atomic.Int32
	ch.Go(context.Background(), http.MethodGet, "wifi_status.json", nil, func(*Response) {
		called.Add(1)
	})

	time.Sleep(300 * time.Millisecond)
	if n := called.Load(); n != 0 {
		t.Errorf("callback invoked %d times after timeout", n)
	}
}

func TestGoInvokesCallbackInTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ch := newChannel(t, srv, time.Second)
	done := make(chan int, 1)
	ch.Go(context.Background(), http.MethodPost, "wifi_scan.json", nil, func(res *Response) {
		done <- res.StatusCode
	})

	select {
	case code := <-done:
		if code != http.StatusAccepted {
			t.Errorf("status = %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
}

func TestRedact(t *testing.T) {
	got := redact("http://h/wifi_connect.json?ssid=x&key=secret")
	if got != "http://h/wifi_connect.json?key=xxxxx&ssid=x" {
		t.Errorf("redact() = %q", got)
	}
}
