package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"pageforge/internal/domain/models/builder"
	"pageforge/internal/service/widget"
)

// renderWidget emits a static snapshot of a widget. In published mode
// the snapshot comes from the scheduler's live state; in edit mode (or
// without a scheduler) the widget renders its initial state so the
// editor stays inert and starts no timers.
func (r *Renderer) renderWidget(block builder.Block, content builder.WidgetContent) string {
	cfg := content.WidgetConfig

	var snap widget.Snapshot
	if r.mode == ModePublished && r.snapshots != nil {
		if live, ok := r.snapshots(block.ID); ok {
			snap = live
		}
	}
	if snap == nil {
		snap = widget.NewState(content.WidgetType, cfg, nil, time.Now()).Snapshot(time.Now())
	}

	var markup string
	switch content.WidgetType {
	case builder.WidgetApplicantList:
		markup = renderApplicantList(cfg, snap)
	case builder.WidgetCountdownBanner:
		markup = renderCountdownBanner(cfg, snap)
	case builder.WidgetDiscountCounter:
		markup = renderDiscountCounter(cfg, snap)
	case builder.WidgetVisitorCount:
		markup = renderVisitorCount(cfg, snap)
	case builder.WidgetStockAlert:
		markup = renderStockAlert(cfg, snap)
	case builder.WidgetFloatingMenu:
		return r.renderFloatingMenu(cfg)
	default:
		return `<div style="padding:16px;color:#6b7280">Unknown widget type</div>`
	}

	return boxWrap(block, markup)
}

func renderApplicantList(cfg builder.WidgetConfig, snap widget.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div style="padding:16px;border:1px solid %s;border-radius:%s;background-color:%s">`,
		attr(orStr(cfg.BorderColor, "#e9ecef")), attr(orStr(cfg.BorderRadius, "8px")), attr(orStr(cfg.BackgroundColor, "#f8f9fa")))
	fmt.Fprintf(&b, `<h3 style="font-weight:600;text-align:center;margin:0 0 12px;color:%s">%s</h3>`,
		attr(orStr(cfg.TextColor, "#333333")), html.EscapeString(orStr(cfg.Title, "Live signup feed")))

	entries, _ := snap["entries"].([]map[string]interface{})
	for _, entry := range entries {
		b.WriteString(`<div style="display:flex;justify-content:space-between;padding:8px;background-color:#ffffff;border-left:4px solid #3b82f6;border-radius:4px;margin-bottom:8px">`)
		fmt.Fprintf(&b, `<div><div style="font-weight:500;color:#1f2937">%s</div><div style="font-size:14px;color:#4b5563">%s</div></div>`,
			html.EscapeString(str(entry["name"])), html.EscapeString(str(entry["phone"])))
		if ago := str(entry["ago"]); ago != "" {
			fmt.Fprintf(&b, `<div style="font-size:12px;color:#6b7280">%s</div>`, html.EscapeString(ago))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderCountdownBanner(cfg builder.WidgetConfig, snap widget.Snapshot) string {
	if expired, _ := snap["expired"].(bool); expired {
		return fmt.Sprintf(`<div style="width:100%%;padding:12px 16px;text-align:center;font-weight:700;color:#ffffff;background-color:%s">%s</div>`,
			attr(orStr(cfg.UrgentColor, "#dc3545")),
			html.EscapeString(orStr(cfg.CompletedText, "This event has ended!")))
	}

	var units strings.Builder
	if days := intVal(snap["days"]); days > 0 {
		fmt.Fprintf(&units, unitCell, fmt.Sprintf("%dd", days))
	}
	fmt.Fprintf(&units, unitCell, fmt.Sprintf("%02dh", intVal(snap["hours"])))
	fmt.Fprintf(&units, unitCell, fmt.Sprintf("%02dm", intVal(snap["minutes"])))
	fmt.Fprintf(&units, unitCell, fmt.Sprintf("%02ds", intVal(snap["seconds"])))

	return fmt.Sprintf(`<div style="width:100%%;padding:12px 16px;text-align:center;font-weight:700;background-color:%s;color:%s">🔥 %s %s 🔥</div>`,
		attr(orStr(cfg.BackgroundColor, "#ff6b35")),
		attr(orStr(cfg.TextColor, "#ffffff")),
		html.EscapeString(orStr(cfg.BannerText, "Offer ends in")),
		units.String())
}

const unitCell = `<span style="background-color:rgba(255,255,255,0.2);padding:4px 8px;border-radius:4px;margin:0 2px">%s</span>`

func renderDiscountCounter(cfg builder.WidgetConfig, snap widget.Snapshot) string {
	return fmt.Sprintf(`<div style="padding:16px;text-align:center;border:2px solid %s;border-radius:%s;background-color:%s">`+
		`<h3 style="font-weight:600;margin:0 0 8px;color:%s">%s</h3>`+
		`<div style="font-size:24px;font-weight:700;color:%s">%s<span style="color:#ef4444">%d</span>%s</div></div>`,
		attr(orStr(cfg.BorderColor, "#28a745")), attr(orStr(cfg.BorderRadius, "8px")), attr(orStr(cfg.BackgroundColor, "#e8f5e8")),
		attr(orStr(cfg.TextColor, "#155724")), html.EscapeString(orStr(cfg.Title, "Live discount counter")),
		attr(orStr(cfg.TextColor, "#155724")),
		html.EscapeString(orStr(cfg.Prefix, "So far ")),
		intVal(snap["count"]),
		html.EscapeString(orStr(cfg.Suffix, " people claimed 50% off!")))
}

func renderVisitorCount(cfg builder.WidgetConfig, snap widget.Snapshot) string {
	return fmt.Sprintf(`<div style="padding:12px;border-left:4px solid #3b82f6;border-radius:%s;background-color:%s">`+
		`<div style="font-size:14px;color:#4b5563">%s</div>`+
		`<div style="font-weight:600;color:%s"><span style="color:#ef4444">%d</span> people are viewing this page</div></div>`,
		attr(orStr(cfg.BorderRadius, "6px")), attr(orStr(cfg.BackgroundColor, "#f0f8ff")),
		html.EscapeString(orStr(cfg.Title, "Watching now")),
		attr(orStr(cfg.TextColor, "#0066cc")),
		intVal(snap["visitors"]))
}

func renderStockAlert(cfg builder.WidgetConfig, snap widget.Snapshot) string {
	stock := intVal(snap["currentStock"])
	total := intVal(snap["totalStock"])
	low, _ := snap["lowStock"].(bool)
	percentage, _ := snap["percentage"].(float64)

	background := orStr(cfg.BackgroundColor, "#f0fff4")
	border := orStr(cfg.BorderColor, "#68d391")
	text := orStr(cfg.TextColor, "#2f855a")
	bar := "#22c55e"
	if low {
		background = orStr(cfg.BackgroundColor, "#fff5f5")
		border = orStr(cfg.BorderColor, "#fc8181")
		text = orStr(cfg.TextColor, "#c53030")
		bar = "#ef4444"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div style="padding:16px;border:1px solid %s;border-radius:%s;background-color:%s">`,
		attr(border), attr(orStr(cfg.BorderRadius, "8px")), attr(background))
	fmt.Fprintf(&b, `<h3 style="font-weight:600;margin:0 0 12px;color:%s">%s</h3>`,
		attr(text), html.EscapeString(orStr(cfg.Title, "Limited stock alert")))
	fmt.Fprintf(&b, `<div style="display:flex;justify-content:space-between;font-size:14px;margin-bottom:8px"><span>Remaining</span><span style="font-weight:600">%d of %d left</span></div>`,
		stock, total)
	fmt.Fprintf(&b, `<div style="width:100%%;height:12px;background-color:#e5e7eb;border-radius:9999px"><div style="width:%.0f%%;height:12px;border-radius:9999px;background-color:%s"></div></div>`,
		percentage, bar)
	if low {
		b.WriteString(`<div style="font-size:12px;color:#dc2626;font-weight:500;margin-top:8px">⏰ Almost sold out, order now!</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// renderFloatingMenu renders without the usual row wrapper: the menu
// pins itself to a viewport corner.
func (r *Renderer) renderFloatingMenu(cfg builder.WidgetConfig) string {
	if r.mode != ModePublished {
		return `<div style="padding:16px;border:2px dashed #d1d5db;border-radius:8px;color:#6b7280">Floating menu (shown on the published page)</div>`
	}

	side := "right:24px"
	if cfg.Position == "bottom-left" {
		side = "left:24px"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div style="position:fixed;bottom:24px;%s;display:flex;flex-direction:column;gap:8px;z-index:50">`, side)
	if cfg.ChatChannelURL != "" {
		fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer" style="width:56px;height:56px;border-radius:%s;background-color:%s;color:%s;display:flex;align-items:center;justify-content:center;text-decoration:none;box-shadow:0 4px 12px rgba(0,0,0,0.15)">💬</a>`,
			html.EscapeString(cfg.ChatChannelURL), attr(orStr(cfg.BorderRadius, "50%")),
			attr(orStr(cfg.BackgroundColor, "#007bff")), attr(orStr(cfg.TextColor, "#ffffff")))
	}
	if cfg.PhoneNumber != "" {
		fmt.Fprintf(&b, `<a href="tel:%s" style="width:56px;height:56px;border-radius:%s;background-color:%s;color:%s;display:flex;align-items:center;justify-content:center;text-decoration:none;box-shadow:0 4px 12px rgba(0,0,0,0.15)">📞</a>`,
			html.EscapeString(cfg.PhoneNumber), attr(orStr(cfg.BorderRadius, "50%")),
			attr(orStr(cfg.BackgroundColor, "#007bff")), attr(orStr(cfg.TextColor, "#ffffff")))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func orStr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func intVal(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
