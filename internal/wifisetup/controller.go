package wifisetup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/asnowfix/wifictl/hlog"
	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/pkg/wifi"
	"github.com/asnowfix/wifictl/pkg/wifi/whttp"
)

var (
	ErrNoAttempt = errors.New("no connection attempt")
	ErrCancelled = errors.New("cancelled")
	ErrIndex     = errors.New("no such network")
	ErrRejected  = errors.New("rejected by device")
	ErrNoPrompt  = errors.New("no prompt available")
	ErrNoSSID    = errors.New("no network name")
)

// DefaultPollInterval is the period of connection status polls.
const DefaultPollInterval = 1000 * time.Millisecond

// Prompter asks the user for input the controller cannot decide on its own.
type Prompter interface {
	// Credentials returns the key for the network described by p. When
	// p.Manual is set, it also returns the network name typed by the user.
	// Returning ErrCancelled abandons the connection attempt.
	Credentials(ctx context.Context, p view.ConnectPrompt) (ssid string, key string, err error)
	// Confirm asks whether to go ahead with a profile deletion.
	Confirm(ctx context.Context, c view.DeleteConfirm) (bool, error)
}

// Renderer receives a new page after every state change. It may be called
// from the poll goroutine.
type Renderer interface {
	Render(p view.Page)
}

type RendererFunc func(p view.Page)

func (f RendererFunc) Render(p view.Page) {
	f(p)
}

type Config struct {
	Channel      *whttp.Channel
	Prompter     Prompter
	Renderer     Renderer
	PollInterval time.Duration
	Log          logr.Logger
}

// attempt is the poll handle of a submitted connection attempt.
type attempt struct {
	id        uuid.UUID
	target    wifi.ScanResult
	cancel    context.CancelFunc
	done      chan struct{}
	outcome   wifi.Outcome
	cancelled bool
}

// Controller is the Wi-Fi setup client of one device. It owns the state
// snapshots (status, scan results, profiles, current attempt) and renders
// them after each operation.
type Controller struct {
	mu       sync.Mutex
	ch       *whttp.Channel
	prompter Prompter
	renderer Renderer
	interval time.Duration
	log      logr.Logger
	state    view.State
	attempt  *attempt // polled attempt, nil when none
	last     *attempt // most recent attempt, kept for Wait
	gen      uint64   // bumped by Connect and Cancel
}

func New(config Config) *Controller {
	c := &Controller{
		ch:       config.Channel,
		prompter: config.Prompter,
		renderer: config.Renderer,
		interval: config.PollInterval,
		log:      config.Log.WithName("wifisetup"),
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	return c
}

// Load fetches the status synchronously, then profiles and scan results.
// It is the first call made against a device.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.FetchStatus(ctx); err != nil {
		return err
	}
	return c.Update(ctx)
}

// Update refreshes profiles and scan results, without triggering a new scan.
func (c *Controller) Update(ctx context.Context) error {
	return errors.Join(c.FetchProfiles(ctx), c.FetchScanResults(ctx))
}

// FetchStatus gets the device status, blocking until the response or ctx is done,
// and caches it.
func (c *Controller) FetchStatus(ctx context.Context) error {
	res, err := c.ch.Do(ctx, http.MethodGet, wifi.StatusPath, nil)
	if err != nil {
		return fmt.Errorf("fetching status: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("fetching status: HTTP %d", res.StatusCode)
	}
	status, err := parseStatus(res.Body)
	if err != nil {
		return fmt.Errorf("fetching status: %w", err)
	}

	c.mu.Lock()
	c.state.Status = status
	c.mu.Unlock()
	c.log.V(1).Info("Status", "host", status.HostSymname, "connected", status.ConnectedSSID, "state", status.State)
	return nil
}

// Rescan asks the device for a new scan, then fetches its results.
func (c *Controller) Rescan(ctx context.Context) error {
	_, err := c.ch.DoTimeout(ctx, http.MethodPost, wifi.ScanPath, nil)
	if err != nil {
		c.transportError("Scan", err)
		return fmt.Errorf("starting scan: %w", err)
	}
	return c.FetchScanResults(ctx)
}

// FetchScanResults gets and sorts the latest scan results. A malformed body
// yields an empty list; the "Join Other Network..." entry is always appended.
func (c *Controller) FetchScanResults(ctx context.Context) error {
	err := c.fetchScanResults(ctx)
	if err != nil {
		c.transportError("Scan results", err)
	}
	return err
}

func (c *Controller) fetchScanResults(ctx context.Context) error {
	res, err := c.ch.DoTimeout(ctx, http.MethodGet, wifi.ScanResultsPath, nil)
	if err != nil {
		return fmt.Errorf("fetching scan results: %w", err)
	}
	scans, err := wifi.ParseScanResults(res.Body)
	if err != nil {
		c.log.V(1).Info("Ignoring malformed scan results", "code", res.StatusCode, "error", err.Error())
	}

	c.mu.Lock()
	c.state.Scans = scans
	c.mu.Unlock()
	c.render()
	return nil
}

// FetchProfiles gets the saved profiles, sorted by SSID. A malformed body
// leaves the previous profiles in place.
func (c *Controller) FetchProfiles(ctx context.Context) error {
	err := c.fetchProfiles(ctx)
	if err != nil {
		c.transportError("Profiles", err)
	}
	return err
}

func (c *Controller) fetchProfiles(ctx context.Context) error {
	res, err := c.ch.DoTimeout(ctx, http.MethodGet, wifi.ProfilesPath, nil)
	if err != nil {
		return fmt.Errorf("fetching profiles: %w", err)
	}
	var body wifi.Profiles
	if err := json.Unmarshal(res.Body, &body); err != nil {
		c.log.V(1).Info("Ignoring malformed profiles", "code", res.StatusCode, "error", err.Error())
		return nil
	}
	profiles := body.Profiles
	if profiles == nil {
		profiles = []wifi.Profile{}
	}
	wifi.SortProfiles(profiles)

	c.mu.Lock()
	c.state.Profiles = profiles
	c.mu.Unlock()
	c.render()
	return nil
}

// Connect starts a connection attempt to the network at index in the last
// rendered scan list. Secured networks (and manual entry) go through the
// credential prompt; open networks are joined right away with no key.
// Any previous attempt is cancelled first.
func (c *Controller) Connect(ctx context.Context, index int) error {
	c.mu.Lock()
	if index < 0 || index >= len(c.state.Scans) {
		n := len(c.state.Scans)
		c.mu.Unlock()
		return fmt.Errorf("%w: index %d of %d", ErrIndex, index, n)
	}
	target := c.state.Scans[index]
	c.stopLocked()
	c.gen++
	c.state.Target = &target
	c.state.ConfirmSSID = ""
	c.state.Prompting = target.Secured()
	c.mu.Unlock()
	c.render()

	c.log.Info("Connect", "ssid", target.SSID, "bssid", target.BSSID, "security", target.Security)

	if !target.Secured() {
		return c.SubmitConnect(ctx, "")
	}
	if c.prompter == nil {
		c.Cancel()
		return fmt.Errorf("%s: %w", target.SSID, ErrNoPrompt)
	}

	ssid, key, err := c.prompter.Credentials(ctx, *view.RenderPrompt(target))
	if err != nil {
		c.Cancel()
		if errors.Is(err, ErrCancelled) {
			return err
		}
		return fmt.Errorf("credentials for %s: %w", target.SSID, err)
	}

	c.mu.Lock()
	if c.state.Target == nil {
		// cancelled while the prompt was open
		c.mu.Unlock()
		return ErrCancelled
	}
	if target.Manual() {
		if ssid == "" {
			c.mu.Unlock()
			c.Cancel()
			return ErrNoSSID
		}
		c.state.Target.SSID = ssid
	}
	c.state.Prompting = false
	c.mu.Unlock()

	return c.SubmitConnect(ctx, key)
}

// SubmitConnect asks the device to join the current target network. On
// acceptance, status polling starts; on refusal the device message is shown.
func (c *Controller) SubmitConnect(ctx context.Context, key string) error {
	c.mu.Lock()
	if c.state.Target == nil {
		c.mu.Unlock()
		return ErrNoAttempt
	}
	target := *c.state.Target
	gen := c.gen
	c.mu.Unlock()

	query := targetQuery(target)
	if key != "" {
		query = append(query, whttp.Param{Key: "key", Value: key})
	}

	res, err := c.ch.DoTimeout(ctx, http.MethodPost, wifi.ConnectPath, query)
	if c.superseded(gen) {
		c.log.Info("Dropping connect reply of a cancelled attempt", "ssid", target.SSID)
		return ErrCancelled
	}
	if err != nil {
		c.transportError("Connect", err)
		return fmt.Errorf("connecting to %s: %w", target.SSID, err)
	}
	if !res.OK() {
		msg := connectErrorMessage(res)
		c.setMessage("Error: "+msg, false)
		return fmt.Errorf("connecting to %s: %w: %s", target.SSID, ErrRejected, msg)
	}

	a := &attempt{
		id:     uuid.New(),
		target: target,
		done:   make(chan struct{}),
	}
	pctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		cancel()
		c.log.Info("Dropping connect reply of a cancelled attempt", "ssid", target.SSID)
		return ErrCancelled
	}
	c.stopLocked()
	c.attempt = a
	c.last = a
	c.state.Prompting = false
	c.state.Polling = true
	c.state.Message = &view.Message{Text: "Status unknown, please wait."}
	c.mu.Unlock()
	c.render()

	c.log.Info("Connection accepted, polling status", "attempt", a.id, "ssid", target.SSID, "interval", c.interval)
	go c.poll(pctx, a)
	return nil
}

func (c *Controller) poll(ctx context.Context, a *attempt) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	query := targetQuery(a.target)
	for {
		select {
		case <-ctx.Done():
			c.log.V(1).Info("Stopped polling", "attempt", a.id)
			return
		case <-ticker.C:
			c.ch.Go(ctx, http.MethodGet, wifi.StatusPath, query, func(res *whttp.Response) {
				c.progress(a, res)
			})
		}
	}
}

// progress handles one status poll response for attempt a.
func (c *Controller) progress(a *attempt, res *whttp.Response) {
	if res.StatusCode != http.StatusOK {
		c.log.V(1).Info("Ignoring status poll", "attempt", a.id, "code", res.StatusCode)
		return
	}
	status, err := parseStatus(res.Body)
	if err != nil {
		c.log.V(1).Info("Ignoring malformed status", "attempt", a.id, "error", err.Error())
		return
	}
	outcome := wifi.Classify(status)

	c.mu.Lock()
	if c.attempt != a {
		c.mu.Unlock()
		c.log.V(1).Info("Ignoring stale status", "attempt", a.id)
		return
	}
	c.state.Status = status
	if outcome.Kind == wifi.OutcomeUnknown {
		c.mu.Unlock()
		c.log.V(1).Info("Status unknown", "attempt", a.id)
		return
	}
	a.outcome = outcome
	c.state.Message = &view.Message{
		Text:    "Connection to " + a.target.SSID + "\n" + outcome.Message(),
		Dismiss: outcome.Terminal(),
	}
	if outcome.Terminal() {
		a.cancel()
		close(a.done)
		c.attempt = nil
		c.state.Polling = false
		c.state.Target = nil
	}
	c.mu.Unlock()
	c.render()

	c.log.Info("Connection progress", "attempt", a.id, "ssid", a.target.SSID, "outcome", outcome.Kind.String(), "error", int(outcome.Error))
}

// Wait blocks until the most recent attempt reaches a terminal outcome, is
// cancelled, or ctx is done.
func (c *Controller) Wait(ctx context.Context) (wifi.Outcome, error) {
	c.mu.Lock()
	a := c.last
	c.mu.Unlock()
	if a == nil {
		return wifi.Outcome{}, ErrNoAttempt
	}

	select {
	case <-ctx.Done():
		return wifi.Outcome{}, ctx.Err()
	case <-a.done:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if a.cancelled {
		return a.outcome, ErrCancelled
	}
	return a.outcome, nil
}

// Cancel drops the current attempt, prompt or confirmation and re-renders.
// Nothing is sent to the device.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.stopLocked()
	c.gen++
	c.state.Target = nil
	c.state.Prompting = false
	c.state.ConfirmSSID = ""
	c.state.Message = nil
	c.mu.Unlock()
	c.render()
}

// superseded reports whether Connect or Cancel was called since gen was read.
func (c *Controller) superseded(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen != gen
}

// stopLocked stops polling the current attempt, if any.
func (c *Controller) stopLocked() {
	a := c.attempt
	if a == nil {
		return
	}
	a.cancel()
	a.cancelled = true
	close(a.done)
	c.attempt = nil
	c.state.Polling = false
	c.log.Info("Cancelled attempt", "attempt", a.id, "ssid", a.target.SSID)
}

// DeleteProfile removes a saved profile after confirmation, then re-fetches
// profiles and scan results whatever the outcome. The refresh is best effort:
// its failures are logged and never replace the delete result.
func (c *Controller) DeleteProfile(ctx context.Context, ssid string) error {
	if c.prompter == nil {
		return fmt.Errorf("deleting profile %s: %w", ssid, ErrNoPrompt)
	}

	c.mu.Lock()
	connected := c.state.ConnectedSSID()
	c.state.ConfirmSSID = ssid
	c.mu.Unlock()
	c.render()

	ok, err := c.prompter.Confirm(ctx, *view.RenderConfirm(ssid, connected))
	if err != nil {
		ok = false
		if !errors.Is(err, ErrCancelled) {
			c.log.Error(err, "Confirmation failed", "ssid", ssid)
		}
	}

	c.mu.Lock()
	c.state.ConfirmSSID = ""
	c.mu.Unlock()
	if !ok {
		c.render()
		return ErrCancelled
	}

	c.log.Info("Deleting profile", "ssid", ssid, "connected", ssid == connected)
	res, err := c.ch.DoTimeout(ctx, http.MethodDelete, wifi.ProfilePath, whttp.Query{{Key: "ssid", Value: ssid}})
	switch {
	case err != nil:
		err = fmt.Errorf("deleting profile %s: %w", ssid, err)
	case res.StatusCode >= 299:
		err = fmt.Errorf("deleting profile %s: %w: HTTP %d", ssid, ErrRejected, res.StatusCode)
	}
	if err != nil {
		c.setMessage("Delete failed", true)
	} else {
		c.setMessage("Delete successful", true)
	}

	if uerr := errors.Join(c.fetchProfiles(ctx), c.fetchScanResults(ctx)); uerr != nil {
		c.log.V(1).Info("Refresh after delete failed", "ssid", ssid, "error", uerr.Error())
	}
	return err
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Status != nil {
		status := *s.Status
		status.ConnectHistory = append([]wifi.HistoryEntry(nil), status.ConnectHistory...)
		s.Status = &status
	}
	s.Scans = append([]wifi.ScanResult(nil), s.Scans...)
	s.Profiles = append([]wifi.Profile(nil), s.Profiles...)
	if s.Target != nil {
		target := *s.Target
		s.Target = &target
	}
	if s.Message != nil {
		msg := *s.Message
		s.Message = &msg
	}
	return s
}

// Page renders the current state.
func (c *Controller) Page() view.Page {
	return view.Render(c.Snapshot())
}

func (c *Controller) render() {
	if c.renderer == nil {
		return
	}
	c.renderer.Render(c.Page())
}

func (c *Controller) setMessage(text string, dismiss bool) {
	c.mu.Lock()
	c.state.Message = &view.Message{Text: text, Dismiss: dismiss}
	c.mu.Unlock()
	c.render()
}

func (c *Controller) transportError(what string, err error) {
	hlog.ErrorIfNotCanceled(c.log, err, "Request failed", "what", what)
	switch {
	case hlog.IsContextCancellation(err):
	case errors.Is(err, whttp.ErrTimeout):
		c.setMessage(what+": request timed out", true)
	default:
		c.setMessage(what+": request failed", true)
	}
}

// targetQuery identifies a network by BSSID when known, by SSID otherwise.
func targetQuery(target wifi.ScanResult) whttp.Query {
	if target.BSSID != "" {
		return whttp.Query{{Key: "bssid", Value: target.BSSID}}
	}
	return whttp.Query{{Key: "ssid", Value: target.SSID}}
}

func parseStatus(body []byte) (*wifi.Status, error) {
	var res wifi.StatusResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}
	if res.Status == nil {
		return nil, errors.New("missing wifi_status")
	}
	return res.Status, nil
}

func connectErrorMessage(res *whttp.Response) string {
	var body wifi.ConnectError
	if err := json.Unmarshal(res.Body, &body); err == nil && body.Msg != "" {
		return body.Msg
	}
	return fmt.Sprintf("HTTP %d", res.StatusCode)
}
