package builder

// WidgetKind identifies one of the self-animating decorative widgets.
type WidgetKind string

const (
	WidgetApplicantList   WidgetKind = "applicant-list"
	WidgetCountdownBanner WidgetKind = "countdown-banner"
	WidgetDiscountCounter WidgetKind = "discount-counter"
	WidgetVisitorCount    WidgetKind = "visitor-count"
	WidgetStockAlert      WidgetKind = "stock-alert"
	WidgetFloatingMenu    WidgetKind = "floating-menu"
)

// WidgetKinds lists every supported widget kind.
var WidgetKinds = []WidgetKind{
	WidgetApplicantList,
	WidgetCountdownBanner,
	WidgetDiscountCounter,
	WidgetVisitorCount,
	WidgetStockAlert,
	WidgetFloatingMenu,
}

// WidgetConfig is the sparse per-kind configuration record. Each kind
// reads its own subset; zero values fall through to the kind defaults
// applied at render time.
type WidgetConfig struct {
	// Shared appearance settings
	Title           string `json:"title,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
	Animation       bool   `json:"animation,omitempty"`
	AnimationSpeed  int    `json:"animationSpeed,omitempty"` // milliseconds per tick
	Sticky          bool   `json:"sticky,omitempty"`
	FullWidth       bool   `json:"fullWidth,omitempty"`

	// applicant-list
	MaxItems      int    `json:"maxItems,omitempty"`
	RollingSpeed  int    `json:"rollingSpeed,omitempty"` // milliseconds
	ShowTimestamp bool   `json:"showTimestamp,omitempty"`
	NameFormat    string `json:"nameFormat,omitempty"`  // mask, initial, full
	PhoneFormat   string `json:"phoneFormat,omitempty"` // mask, partial, full

	// countdown-banner
	TargetDate    string `json:"targetDate,omitempty"` // RFC 3339-ish, minute precision
	BannerText    string `json:"bannerText,omitempty"`
	UrgentColor   string `json:"urgentColor,omitempty"`
	CompletedText string `json:"completedText,omitempty"`
	Position      string `json:"position,omitempty"` // top, bottom (banner); bottom-right, bottom-left (floating menu)

	// discount-counter
	CurrentCount int    `json:"currentCount,omitempty"`
	Increment    int    `json:"increment,omitempty"`
	Suffix       string `json:"suffix,omitempty"`
	Prefix       string `json:"prefix,omitempty"`

	// visitor-count
	BaseCount int `json:"baseCount,omitempty"`
	Variation int `json:"variation,omitempty"`

	// stock-alert
	TotalStock        int `json:"totalStock,omitempty"`
	CurrentStock      int `json:"currentStock,omitempty"`
	LowStockThreshold int `json:"lowStockThreshold,omitempty"`

	// floating-menu
	ChatChannelURL string `json:"chatChannelUrl,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}

// DefaultWidgetConfig returns the seed configuration for a widget kind.
// Unknown kinds get an empty config.
func DefaultWidgetConfig(kind WidgetKind) WidgetConfig {
	switch kind {
	case WidgetApplicantList:
		return WidgetConfig{
			Title:           "📝 Live signup feed",
			BackgroundColor: "#f8f9fa",
			TextColor:       "#333333",
			BorderColor:     "#e9ecef",
			BorderRadius:    "8px",
			Animation:       true,
			AnimationSpeed:  2000,
			MaxItems:        5,
			RollingSpeed:    4000,
			ShowTimestamp:   true,
			NameFormat:      "mask",
			PhoneFormat:     "mask",
		}
	case WidgetCountdownBanner:
		return WidgetConfig{
			Title:           "🔥 Offer ends in",
			BackgroundColor: "#ff6b35",
			TextColor:       "#ffffff",
			BorderColor:     "#ff6b35",
			BorderRadius:    "0px",
			Animation:       true,
			AnimationSpeed:  1000,
			Sticky:          true,
			FullWidth:       true,
			BannerText:      "Offer ends in",
			UrgentColor:     "#dc3545",
			CompletedText:   "⏰ This event has ended!",
			Position:        "top",
		}
	case WidgetDiscountCounter:
		return WidgetConfig{
			Title:           "💰 Live discount counter",
			BackgroundColor: "#e8f5e8",
			TextColor:       "#155724",
			BorderColor:     "#28a745",
			BorderRadius:    "8px",
			Animation:       true,
			AnimationSpeed:  3000,
			CurrentCount:    1247,
			Increment:       1,
			Prefix:          "So far ",
			Suffix:          " people claimed 50% off!",
		}
	case WidgetVisitorCount:
		return WidgetConfig{
			Title:           "Watching now",
			BackgroundColor: "#f0f8ff",
			TextColor:       "#0066cc",
			BorderColor:     "#4a90e2",
			BorderRadius:    "6px",
			Animation:       true,
			AnimationSpeed:  5000,
			BaseCount:       234,
			Variation:       10,
		}
	case WidgetStockAlert:
		return WidgetConfig{
			Title:             "🎯 Limited stock alert",
			BackgroundColor:   "#f0fff4",
			TextColor:         "#2f855a",
			BorderColor:       "#68d391",
			BorderRadius:      "8px",
			Animation:         true,
			AnimationSpeed:    4000,
			TotalStock:        100,
			CurrentStock:      23,
			LowStockThreshold: 30,
		}
	case WidgetFloatingMenu:
		return WidgetConfig{
			Title:           "Floating menu",
			BackgroundColor: "#007bff",
			TextColor:       "#ffffff",
			BorderColor:     "#0056b3",
			BorderRadius:    "50%",
			Animation:       true,
			ChatChannelURL:  "https://example.com/chat",
			PhoneNumber:     "010-1234-5678",
			Position:        "bottom-right",
		}
	default:
		return WidgetConfig{}
	}
}
