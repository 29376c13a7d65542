// Package ui implements the interactive countdown as a Bubble Tea program.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/solat/internal/api"
	"github.com/smokyabdulrahman/solat/internal/cache"
	"github.com/smokyabdulrahman/solat/internal/config"
	"github.com/smokyabdulrahman/solat/internal/notify"
	"github.com/smokyabdulrahman/solat/internal/tracker"
	"github.com/smokyabdulrahman/solat/internal/tray"
	"github.com/smokyabdulrahman/solat/internal/zone"
)

const (
	tickInterval = time.Second
	retryBackoff = 5 * time.Minute
	statusTTL    = 5 * time.Second
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Tracker    *tracker.Tracker
	Cache      *cache.Cache
	Fetcher    cache.ScheduleFetcher
	Catalog    *zone.Catalog
	Notifier   notify.Notifier
	Config     *config.Config
	ConfigPath string
	Zone       string // zone to load when the tracker has no schedule
	TimeFormat string // Go layout for prayer times
	Tray       bool
	Version    string
	APIURL     string
}

// trayControl is the part of the tray the model drives.
type trayControl interface {
	SetMuted(bool)
	SetStatus(string)
}

type loadReason int

const (
	reasonReload loadReason = iota
	reasonZoneChange
)

type (
	tickMsg     time.Time
	scheduleMsg struct {
		schedule *api.Schedule
		zone     string
		reason   loadReason
		err      error
	}
	notifiedMsg struct {
		body string
		err  error
	}
	// showMsg is sent by the tray's Show item.
	showMsg struct{}
	// muteChangedMsg is sent after the tray toggled the mute flag.
	muteChangedMsg struct{ muted bool }
)

// alertKey identifies a reminder so a second tick within the same second
// does not send it twice.
type alertKey struct {
	at   int64
	lead time.Duration
}

// Model is the Bubble Tea model for the countdown.
type Model struct {
	ctx        context.Context
	tracker    *tracker.Tracker
	cache      *cache.Cache
	fetcher    cache.ScheduleFetcher
	catalog    *zone.Catalog
	notifier   notify.Notifier
	cfg        *config.Config
	cfgPath    string
	timeFormat string
	version    string
	apiURL     string
	tray       trayControl
	clock      func() time.Time
	ticker     func(time.Duration) tea.Cmd

	keys      keyMap
	help      help.Model
	themeName string
	styles    Styles
	panels    panels

	width  int
	height int

	zone        string
	frame       tracker.Frame
	loading     bool
	retryAt     time.Time
	lastAlert   alertKey
	status      string
	statusUntil time.Time
	tooltip     string
}

// New creates the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	n := opts.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	tr := opts.Tracker
	if tr == nil {
		tr = tracker.New(nil, time.Now(), nil)
	}
	layout := opts.TimeFormat
	if layout == "" {
		layout = "15:04"
	}
	z := tr.Zone()
	if z == "" {
		z = api.NormalizeZone(opts.Zone)
	}

	theme := GetTheme("")
	return Model{
		ctx:        ctx,
		tracker:    tr,
		cache:      opts.Cache,
		fetcher:    opts.Fetcher,
		catalog:    opts.Catalog,
		notifier:   n,
		cfg:        cfg,
		cfgPath:    opts.ConfigPath,
		timeFormat: layout,
		version:    opts.Version,
		apiURL:     opts.APIURL,
		clock:      time.Now,
		ticker:     tickCmd,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		themeName:  theme.Name,
		styles:     theme.Styles(),
		zone:       z,
	}
}

// Init starts the ticker.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg(m.clock()) }
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case scheduleMsg:
		return m.handleSchedule(msg)

	case zoneRequestMsg:
		return m.requestZone(msg)

	case toggleMuteMsg:
		m.applyMute(m.tracker.ToggleMute())
		return m, nil

	case muteChangedMsg:
		m.applyMute(msg.muted)
		return m, nil

	case showMsg:
		m.panels.CloseAll()
		return m, tea.ClearScreen

	case notifiedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("body", msg.body).Msg("notification failed")
		} else {
			log.Info().Str("body", msg.body).Msg("notification sent")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if top, ok := m.panels.Top(); ok {
		next, cmd, closed := top.Update(msg, m.keys)
		if closed {
			m.panels.Close(top.ID())
		} else {
			m.panels.replace(next)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Settings):
		m.panels.Open(newSettingsPanel())
	case key.Matches(msg, m.keys.About):
		dir := ""
		if m.cache != nil {
			dir = m.cache.Dir()
		}
		m.panels.Open(aboutPanel{version: m.version, apiURL: m.apiURL, cacheDir: dir})
	case key.Matches(msg, m.keys.ToggleMute):
		m.applyMute(m.tracker.ToggleMute())
	case key.Matches(msg, m.keys.Refresh):
		return m.requestZone(zoneRequestMsg{state: m.zone})
	case key.Matches(msg, m.keys.CycleTheme):
		m.themeName = NextTheme(m.themeName)
		m.styles = GetTheme(m.themeName).Styles()
	}
	return m, nil
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.frame = m.safeTick(now)
	if m.frame.RolledOver {
		log.Info().Str("heading", m.frame.Heading).Msg("day rollover")
	}

	cmds := append([]tea.Cmd{m.ticker(tickInterval)}, m.alertCmds(m.frame)...)

	// The month is judged on the display calendar, same as the tracker.
	local := now.In(m.tracker.Location())
	if !m.loading && m.tracker.Stale(local) && !now.Before(m.retryAt) && m.zone != "" {
		m.loading = true
		m.setStatus("Loading prayer times for "+m.zone+"...", now)
		cmds = append(cmds, loadCmd(m.ctx, m.cache, m.fetcher, m.zone, local))
	}

	if m.tray != nil && m.frame.Text != m.tooltip {
		m.tooltip = m.frame.Text
		m.tray.SetStatus(m.frame.Text)
	}

	return m, tea.Batch(cmds...)
}

// safeTick runs one tracker tick. A panic is turned into an error frame so
// the ticker keeps running.
func (m Model) safeTick(now time.Time) (f tracker.Frame) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("tick: %v", r)
			log.Error().Err(err).Msg("tick failed")
			f = tracker.ErrorFrame(now, err)
		}
	}()
	return m.tracker.Tick(now)
}

func (m *Model) alertCmds(f tracker.Frame) []tea.Cmd {
	var cmds []tea.Cmd
	for _, a := range f.Alerts {
		k := alertKey{at: a.Prayer.Unix(), lead: a.Lead}
		if k == m.lastAlert {
			continue
		}
		m.lastAlert = k
		cmds = append(cmds, notifyCmd(m.notifier, a))
	}
	return cmds
}

// keepCached writes the schedule on display back to the cache, so a load
// that finished for another zone does not win on disk.
func (m *Model) keepCached() {
	s := m.tracker.Schedule()
	if m.cache == nil || s == nil {
		return
	}
	if err := m.cache.SaveSchedule(s); err != nil {
		log.Warn().Err(err).Str("zone", m.zone).Msg("could not cache schedule")
	}
}

func (m Model) handleSchedule(msg scheduleMsg) (tea.Model, tea.Cmd) {
	now := m.clock()

	switch msg.reason {
	case reasonZoneChange:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("zone", msg.zone).Msg("zone change failed")
			m.setStatus("", now)
			m.panels.Open(newErrorPanel("Could not load zone "+msg.zone, msg.err))
			return m, nil
		}
		m.tracker.SetSchedule(msg.schedule, now)
		m.zone = m.tracker.Zone()
		m.retryAt = time.Time{}
		m.keepCached()
		m.panels.Close(panelSettings)
		m.setStatus("Zone set to "+m.catalog.Describe(m.zone), now)
		log.Info().Str("zone", m.zone).Msg("zone changed")

	default:
		m.loading = false
		if z := api.NormalizeZone(msg.zone); z != m.zone {
			log.Debug().Str("zone", z).Str("current", m.zone).Msg("dropping reload for previous zone")
			m.keepCached()
			return m, nil
		}
		if msg.err != nil {
			m.retryAt = now.Add(retryBackoff)
			m.setStatus("Could not load prayer times, retrying later", now)
			log.Warn().Err(msg.err).Str("zone", msg.zone).Time("retry_at", m.retryAt).Msg("schedule reload failed")
			return m, nil
		}
		m.tracker.SetSchedule(msg.schedule, now)
		if z := m.tracker.Zone(); z != "" {
			m.zone = z
		}
		if m.tracker.Stale(now) {
			m.retryAt = now.Add(retryBackoff)
			log.Warn().Str("zone", m.zone).Time("retry_at", m.retryAt).Msg("reloaded schedule is not for the current month")
		} else {
			m.retryAt = time.Time{}
		}
		m.setStatus("", now)
		log.Info().Str("zone", m.zone).Msg("schedule reloaded")
	}

	m.frame = m.safeTick(now)
	return m, tea.Batch(m.alertCmds(m.frame)...)
}

// requestZone validates a zone selection and starts the fetch. An invalid
// selection opens the error panel and changes nothing.
func (m Model) requestZone(req zoneRequestMsg) (tea.Model, tea.Cmd) {
	code, err := m.catalog.Resolve(req.state, req.district)
	if err != nil {
		m.panels.Open(newErrorPanel("Invalid location", err))
		return m, nil
	}
	if m.cache == nil || m.fetcher == nil {
		m.panels.Open(newErrorPanel("Cannot change zone", errors.New("no prayer data source configured")))
		return m, nil
	}

	m.setStatus("Loading prayer times for "+code+"...", m.clock())
	return m, refreshCmd(m.ctx, m.cache, m.fetcher, code)
}

// applyMute records a new mute state: the tray checkbox and config file
// follow the tracker's flag.
func (m *Model) applyMute(muted bool) {
	m.tracker.SetMuted(muted)
	if m.tray != nil {
		m.tray.SetMuted(muted)
	}

	m.cfg.Muted = &muted
	if m.cfgPath != "" {
		if err := m.cfg.SaveTo(m.cfgPath); err != nil {
			log.Warn().Err(err).Msg("could not save mute setting")
		}
	}

	if muted {
		m.setStatus("Notifications muted", m.clock())
	} else {
		m.setStatus("Notifications enabled", m.clock())
	}
	log.Info().Bool("muted", muted).Msg("mute toggled")
}

func (m *Model) setStatus(s string, now time.Time) {
	m.status = s
	m.statusUntil = now.Add(statusTTL)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func notifyCmd(n notify.Notifier, a tracker.Alert) tea.Cmd {
	return func() tea.Msg {
		body := a.Body()
		return notifiedMsg{body: body, err: notify.Send(n, a.Title(), body)}
	}
}

func loadCmd(ctx context.Context, c *cache.Cache, f cache.ScheduleFetcher, zone string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		if c == nil || f == nil {
			return scheduleMsg{zone: zone, reason: reasonReload, err: errors.New("no prayer data source configured")}
		}
		s, err := c.Load(ctx, f, zone, now)
		return scheduleMsg{schedule: s, zone: zone, reason: reasonReload, err: err}
	}
}

func refreshCmd(ctx context.Context, c *cache.Cache, f cache.ScheduleFetcher, zone string) tea.Cmd {
	return func() tea.Msg {
		s, err := c.Refresh(ctx, f, zone)
		return scheduleMsg{schedule: s, zone: zone, reason: reasonZoneChange, err: err}
	}
}

// trayHolder lets the model be built before the tray starts.
type trayHolder struct {
	t *tray.Tray
}

func (h *trayHolder) SetMuted(v bool) {
	if h.t != nil {
		h.t.SetMuted(v)
	}
}

func (h *trayHolder) SetStatus(s string) {
	if h.t != nil {
		h.t.SetStatus(s)
	}
}

// Run starts the TUI and, when enabled, the tray icon. It returns when the
// user quits or the context is cancelled.
func Run(opts Options) error {
	m := New(opts)

	var holder *trayHolder
	if opts.Tray {
		holder = &trayHolder{}
		m.tray = holder
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	if holder != nil {
		tr := m.tracker
		holder.t = tray.Start(tr.Muted(), tray.Handlers{
			Show: func() { p.Send(showMsg{}) },
			ToggleMute: func() bool {
				v := tr.ToggleMute()
				p.Send(muteChangedMsg{muted: v})
				return v
			},
			Quit: p.Quit,
		})
		defer holder.t.Stop()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
