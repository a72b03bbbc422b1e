package widget

import (
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"pageforge/internal/domain/models/builder"
)

func testPage(id string, blocks ...builder.Block) *builder.Page {
	return &builder.Page{
		ID:       id,
		Elements: blocks,
		Settings: builder.DefaultSettings(),
	}
}

func widgetBlock(id string, kind builder.WidgetKind) builder.Block {
	return builder.Block{
		ID:   id,
		Type: builder.BlockTypeWidget,
		Content: builder.WidgetContent{
			WidgetType:   kind,
			WidgetConfig: builder.DefaultWidgetConfig(kind),
		},
	}
}

func TestSchedulerStartsAndStopsRunners(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(slog.Default())
	defer s.Close()

	page := testPage("p1",
		widgetBlock("w1", builder.WidgetVisitorCount),
		widgetBlock("w2", builder.WidgetDiscountCounter),
		builder.Block{ID: "t1", Type: builder.BlockTypeText, Content: builder.TextContent{Text: "hi"}},
	)
	s.EnsurePage(page)

	if _, ok := s.Snapshot("p1", "w1"); !ok {
		t.Fatal("expected snapshot for running widget")
	}
	if _, ok := s.Snapshot("p1", "t1"); ok {
		t.Fatal("expected no runner for a text block")
	}

	// Removing a widget from the composition stops its runner.
	page.Elements = page.Elements[1:]
	s.EnsurePage(page)
	if _, ok := s.Snapshot("p1", "w1"); ok {
		t.Fatal("expected removed widget's runner gone")
	}
	if _, ok := s.Snapshot("p1", "w2"); !ok {
		t.Fatal("expected surviving widget still running")
	}
}

func TestSchedulerStopPage(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(slog.Default())
	defer s.Close()

	s.EnsurePage(testPage("p1", widgetBlock("w1", builder.WidgetApplicantList)))
	s.EnsurePage(testPage("p2", widgetBlock("w2", builder.WidgetStockAlert)))

	s.StopPage("p1")
	if _, ok := s.Snapshot("p1", "w1"); ok {
		t.Fatal("expected p1 runners stopped")
	}
	if _, ok := s.Snapshot("p2", "w2"); !ok {
		t.Fatal("expected p2 untouched")
	}
}

func TestSchedulerCloseWaitsForGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(slog.Default())
	for i := 0; i < 5; i++ {
		s.EnsurePage(testPage("p1",
			widgetBlock("w1", builder.WidgetCountdownBanner),
			widgetBlock("w2", builder.WidgetVisitorCount),
		))
	}
	s.Close()

	// Closed schedulers ignore late EnsurePage calls.
	s.EnsurePage(testPage("p1", widgetBlock("w3", builder.WidgetDiscountCounter)))
	if _, ok := s.Snapshot("p1", "w3"); ok {
		t.Fatal("expected no runner after Close")
	}
}

func TestBusinessInfoWidgetsOnlyWhenVisible(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewScheduler(slog.Default())
	defer s.Close()

	page := testPage("p1")
	page.Settings.BusinessInfo.Elements = []builder.Block{widgetBlock("bw", builder.WidgetVisitorCount)}

	s.EnsurePage(page)
	if _, ok := s.Snapshot("p1", "bw"); ok {
		t.Fatal("hidden business section must not run widgets")
	}

	page.Settings.BusinessInfo.IsVisible = true
	s.EnsurePage(page)
	if _, ok := s.Snapshot("p1", "bw"); !ok {
		t.Fatal("visible business section widget should run")
	}
}
