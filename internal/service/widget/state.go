// Package widget runs the self-animating page widgets server-side.
// Each widget kind is a small state machine advanced on its own timer;
// published pages read periodic snapshots of that state.
package widget

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"pageforge/internal/domain/models/builder"
)

// Snapshot is one widget's current display state.
type Snapshot map[string]interface{}

// State is a single widget's animation state. Tick and Snapshot are
// safe for concurrent use; the scheduler ticks from its own goroutine
// while handlers read snapshots.
type State interface {
	Kind() builder.WidgetKind

	// Interval returns the delay before the next tick. Kinds with
	// jittered timing draw a fresh value every call. Zero means the
	// widget is static and never ticks.
	Interval() time.Duration

	Tick(now time.Time)
	Snapshot(now time.Time) Snapshot
}

// NewState builds the animation state for one widget block. A nil rng
// falls back to the shared global source.
func NewState(kind builder.WidgetKind, cfg builder.WidgetConfig, rng *rand.Rand, now time.Time) State {
	if rng == nil {
		rng = rand.New(rand.NewSource(now.UnixNano()))
	}
	switch kind {
	case builder.WidgetApplicantList:
		return newApplicantState(cfg, rng, now)
	case builder.WidgetCountdownBanner:
		return newCountdownState(cfg, now)
	case builder.WidgetDiscountCounter:
		return &discountState{cfg: cfg, rng: rng, count: orInt(cfg.CurrentCount, 0)}
	case builder.WidgetVisitorCount:
		return &visitorState{cfg: cfg, rng: rng, visitors: orInt(cfg.BaseCount, 234)}
	case builder.WidgetStockAlert:
		return &stockState{cfg: cfg, rng: rng, stock: orInt(cfg.CurrentStock, 23)}
	case builder.WidgetFloatingMenu:
		return &floatingMenuState{cfg: cfg}
	default:
		return &floatingMenuState{cfg: cfg}
	}
}

var sampleNames = []string{
	"James Kim", "Emily Lee", "Daniel Park", "Sophia Chung", "Grace Choi",
	"Henry Jang", "Chloe Yoon", "Mia Han", "Ethan Oh", "Olivia Kang",
	"Lucas Lim", "Ella Song", "Noah Bae", "Liam Seo", "Ava Hwang",
	"Ryan Kwon", "Leo Cho", "Nina Shin", "Jack Hong", "Zoe Yu",
	"Owen Kang", "Ivy Kim", "Max Song", "Luna Jeon",
}

type applicant struct {
	name  string
	phone string
}

// applicantState rolls a fixed roster one row at a time. The roster is
// generated once at twice the window size so the rolling window always
// has somewhere to go.
type applicantState struct {
	mu      sync.Mutex
	cfg     builder.WidgetConfig
	roster  []applicant
	index   int
	maxItem int
}

func newApplicantState(cfg builder.WidgetConfig, rng *rand.Rand, now time.Time) *applicantState {
	maxItems := orInt(cfg.MaxItems, 5)
	roster := make([]applicant, maxItems*2)
	for i := range roster {
		roster[i] = applicant{
			name: sampleNames[rng.Intn(len(sampleNames))],
			phone: fmt.Sprintf("010-%04d-%04d",
				1000+rng.Intn(9000), 1000+rng.Intn(9000)),
		}
	}
	return &applicantState{cfg: cfg, roster: roster, maxItem: maxItems}
}

func (s *applicantState) Kind() builder.WidgetKind { return builder.WidgetApplicantList }

func (s *applicantState) Interval() time.Duration {
	return msOr(s.cfg.AnimationSpeed, msOr(s.cfg.RollingSpeed, 3000*time.Millisecond))
}

func (s *applicantState) Tick(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	window := len(s.roster) - s.maxItem + 1
	if window <= 0 {
		return
	}
	s.index = (s.index + 1) % window
}

func (s *applicantState) Snapshot(time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]map[string]interface{}, 0, s.maxItem)
	for i := 0; i < s.maxItem && s.index+i < len(s.roster); i++ {
		a := s.roster[s.index+i]
		entry := map[string]interface{}{
			"name":  formatName(a.name, s.cfg.NameFormat),
			"phone": formatPhone(a.phone, s.cfg.PhoneFormat),
		}
		if s.cfg.ShowTimestamp {
			if i == 0 {
				entry["ago"] = "just now"
			} else {
				entry["ago"] = fmt.Sprintf("%dm ago", i)
			}
		}
		entries = append(entries, entry)
	}
	return Snapshot{"entries": entries}
}

// formatName applies the configured privacy masking.
func formatName(name, format string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	switch format {
	case "mask":
		return string(runes[0]) + strings.Repeat("*", len(runes)-1)
	case "initial":
		if len(runes) == 1 {
			return name
		}
		return string(runes[0]) + "*" + string(runes[len(runes)-1])
	default:
		return name
	}
}

// formatPhone masks a 010-XXXX-XXXX number.
func formatPhone(phone, format string) string {
	if len(phone) < 7 {
		return phone
	}
	switch format {
	case "mask":
		return phone[:3] + "-****-" + phone[len(phone)-2:] + "**"
	case "partial":
		return phone[:3] + "-" + phone[3:7] + "-**" + phone[len(phone)-2:]
	default:
		return phone
	}
}

// countdownState counts down to a target instant, latching into the
// expired state once reached.
type countdownState struct {
	mu      sync.Mutex
	cfg     builder.WidgetConfig
	target  time.Time
	left    time.Duration
	expired bool
}

func newCountdownState(cfg builder.WidgetConfig, now time.Time) *countdownState {
	s := &countdownState{cfg: cfg}
	s.target = parseTargetDate(cfg.TargetDate, now)
	s.Tick(now)
	return s
}

func parseTargetDate(raw string, now time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	// No usable target: count down a day from startup.
	return now.Add(24 * time.Hour)
}

func (s *countdownState) Kind() builder.WidgetKind { return builder.WidgetCountdownBanner }

func (s *countdownState) Interval() time.Duration { return time.Second }

func (s *countdownState) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired {
		return
	}
	left := s.target.Sub(now)
	if left < 0 {
		s.expired = true
		s.left = 0
		return
	}
	s.left = left
}

func (s *countdownState) Snapshot(time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired {
		return Snapshot{"expired": true}
	}
	left := s.left
	days := int(left / (24 * time.Hour))
	left -= time.Duration(days) * 24 * time.Hour
	hours := int(left / time.Hour)
	left -= time.Duration(hours) * time.Hour
	minutes := int(left / time.Minute)
	seconds := int((left - time.Duration(minutes)*time.Minute) / time.Second)

	return Snapshot{
		"expired": false,
		"days":    days,
		"hours":   hours,
		"minutes": minutes,
		"seconds": seconds,
	}
}

// discountState counts claimed discounts upward by a fixed increment.
type discountState struct {
	mu    sync.Mutex
	cfg   builder.WidgetConfig
	rng   *rand.Rand
	count int
}

func (s *discountState) Kind() builder.WidgetKind { return builder.WidgetDiscountCounter }

func (s *discountState) Interval() time.Duration {
	base := msOr(s.cfg.AnimationSpeed, 3000*time.Millisecond)
	return base + time.Duration(s.rng.Intn(2000))*time.Millisecond
}

func (s *discountState) Tick(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count += orInt(s.cfg.Increment, 1)
}

func (s *discountState) Snapshot(time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{"count": s.count}
}

// visitorState random-walks around the base count, never below one.
type visitorState struct {
	mu       sync.Mutex
	cfg      builder.WidgetConfig
	rng      *rand.Rand
	visitors int
}

func (s *visitorState) Kind() builder.WidgetKind { return builder.WidgetVisitorCount }

func (s *visitorState) Interval() time.Duration {
	base := msOr(s.cfg.AnimationSpeed, 5000*time.Millisecond)
	return base + time.Duration(s.rng.Int63n(int64(base)))
}

func (s *visitorState) Tick(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variation := orInt(s.cfg.Variation, 10)
	change := s.rng.Intn(variation) - variation/2
	s.visitors += change
	if s.visitors < 1 {
		s.visitors = 1
	}
}

func (s *visitorState) Snapshot(time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{"visitors": s.visitors}
}

// stockState only ever decreases, bottoming out at zero.
type stockState struct {
	mu    sync.Mutex
	cfg   builder.WidgetConfig
	rng   *rand.Rand
	stock int
}

func (s *stockState) Kind() builder.WidgetKind { return builder.WidgetStockAlert }

func (s *stockState) Interval() time.Duration {
	base := msOr(s.cfg.AnimationSpeed, 8000*time.Millisecond)
	return base + time.Duration(s.rng.Intn(3000))*time.Millisecond
}

func (s *stockState) Tick(time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock -= s.rng.Intn(3)
	if s.stock < 0 {
		s.stock = 0
	}
}

func (s *stockState) Snapshot(time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := orInt(s.cfg.TotalStock, 100)
	threshold := orInt(s.cfg.LowStockThreshold, 30)
	percentage := 0.0
	if total > 0 {
		percentage = float64(s.stock) / float64(total) * 100
	}
	return Snapshot{
		"currentStock": s.stock,
		"totalStock":   total,
		"percentage":   percentage,
		"lowStock":     s.stock <= threshold,
	}
}

// floatingMenuState is static: the menu never animates server-side.
type floatingMenuState struct {
	cfg builder.WidgetConfig
}

func (s *floatingMenuState) Kind() builder.WidgetKind  { return builder.WidgetFloatingMenu }
func (s *floatingMenuState) Interval() time.Duration   { return 0 }
func (s *floatingMenuState) Tick(time.Time)            {}
func (s *floatingMenuState) Snapshot(time.Time) Snapshot {
	return Snapshot{
		"chatChannelUrl": s.cfg.ChatChannelURL,
		"phoneNumber":    s.cfg.PhoneNumber,
		"position":       s.cfg.Position,
	}
}

// orInt substitutes fallback for missing or out-of-range config
// values. Config ints feed rand.Intn and make, so zero and negative
// are both treated as unset.
func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func msOr(ms int, fallback time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
