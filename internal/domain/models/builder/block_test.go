package builder

import (
	"encoding/json"
	"testing"
)

func TestBlockUnmarshalTypedContent(t *testing.T) {
	raw := `{
		"id": "b1",
		"type": "form",
		"order": 3,
		"content": {
			"fields": [
				{"id": "f1", "type": "email", "label": "Email", "required": true}
			],
			"buttonText": "Sign up"
		}
	}`

	var b Block
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatal(err)
	}

	form, ok := b.Content.(FormContent)
	if !ok {
		t.Fatalf("content is %T, want FormContent", b.Content)
	}
	if len(form.Fields) != 1 || form.Fields[0].Type != "email" {
		t.Errorf("fields = %+v", form.Fields)
	}
	if form.ButtonText != "Sign up" {
		t.Errorf("buttonText = %q", form.ButtonText)
	}
}

func TestBlockUnmarshalWidgetConfig(t *testing.T) {
	raw := `{
		"id": "w1",
		"type": "widget",
		"order": 0,
		"content": {
			"widgetType": "countdown-banner",
			"widgetConfig": {"targetDate": "2026-01-01", "completedText": "Done"}
		}
	}`

	var b Block
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatal(err)
	}

	widget, ok := b.Content.(WidgetContent)
	if !ok {
		t.Fatalf("content is %T, want WidgetContent", b.Content)
	}
	if widget.WidgetType != WidgetCountdownBanner {
		t.Errorf("widgetType = %q", widget.WidgetType)
	}
	if widget.WidgetConfig.TargetDate != "2026-01-01" {
		t.Errorf("targetDate = %q", widget.WidgetConfig.TargetDate)
	}
}

func TestBlockUnmarshalUnknownTypeSurvives(t *testing.T) {
	raw := `{"id": "x1", "type": "carousel", "order": 1, "content": {"slides": 3}}`

	var b Block
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatal(err)
	}

	unknown, ok := b.Content.(UnknownContent)
	if !ok {
		t.Fatalf("content is %T, want UnknownContent", b.Content)
	}
	if unknown["slides"] != float64(3) {
		t.Errorf("slides = %v", unknown["slides"])
	}

	// Unknown content round-trips without loss.
	out, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	var again Block
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatal(err)
	}
	if again.Content.(UnknownContent)["slides"] != float64(3) {
		t.Error("unknown content lost in round trip")
	}
}

func TestDefaultContentPerType(t *testing.T) {
	tests := []struct {
		name  string
		typ   BlockType
		check func(t *testing.T, c Content)
	}{
		{
			name: "heading starts at level 1",
			typ:  BlockTypeHeading,
			check: func(t *testing.T, c Content) {
				h := c.(HeadingContent)
				if h.Level != 1 || h.Text == "" {
					t.Errorf("heading default = %+v", h)
				}
			},
		},
		{
			name: "form carries the stock three fields",
			typ:  BlockTypeForm,
			check: func(t *testing.T, c Content) {
				f := c.(FormContent)
				if len(f.Fields) != 3 {
					t.Fatalf("fields = %d, want 3", len(f.Fields))
				}
				if !f.Fields[0].Required || !f.Fields[1].Required || f.Fields[2].Required {
					t.Error("required flags: want name and email required, phone optional")
				}
				if f.Fields[1].Type != "email" || f.Fields[2].Type != "tel" {
					t.Errorf("field types = %s/%s/%s", f.Fields[0].Type, f.Fields[1].Type, f.Fields[2].Type)
				}
			},
		},
		{
			name: "spacer defaults to 32",
			typ:  BlockTypeSpacer,
			check: func(t *testing.T, c Content) {
				if c.(SpacerContent).Spacing != 32 {
					t.Errorf("spacing = %d", c.(SpacerContent).Spacing)
				}
			},
		},
		{
			name: "widget defaults to applicant list",
			typ:  BlockTypeWidget,
			check: func(t *testing.T, c Content) {
				w := c.(WidgetContent)
				if w.WidgetType != WidgetApplicantList {
					t.Errorf("widgetType = %q", w.WidgetType)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, DefaultContent(tt.typ))
		})
	}
}

func TestBusinessDefaultsDivergeFromPageDefaults(t *testing.T) {
	page := DefaultContent(BlockTypeHeading).(HeadingContent)
	business := BusinessDefaultContent(BlockTypeHeading).(HeadingContent)

	if page.Text == business.Text {
		t.Error("business heading default should differ from page default")
	}
	if business.Level != 3 {
		t.Errorf("business heading level = %d, want 3", business.Level)
	}

	// Types without a business-specific default fall through.
	if _, ok := BusinessDefaultContent(BlockTypeSpacer).(SpacerContent); !ok {
		t.Error("spacer should fall back to the page default")
	}
}

func TestNewBlockAssignsFreshIdentity(t *testing.T) {
	a := NewBlock(BlockTypeText)
	b := NewBlock(BlockTypeText)

	if a.ID == "" || b.ID == "" {
		t.Fatal("missing id")
	}
	if a.ID == b.ID {
		t.Error("ids collide")
	}
	if a.Order != 0 {
		t.Errorf("order = %d, want 0 before insert", a.Order)
	}
}
