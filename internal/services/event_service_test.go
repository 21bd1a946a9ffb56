package services

import (
	"path/filepath"
	"testing"

	apperrors "github.com/Halcyonic/VoidTrader/internal/errors"
	"github.com/Halcyonic/VoidTrader/internal/models"
	"github.com/Halcyonic/VoidTrader/internal/storage"
)

func newTestService(t *testing.T) *EventService {
	t.Helper()
	fs, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	archive, err := storage.NewHistoryStore(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })
	return NewEventService(fs, archive, 0, 0)
}

func TestCreateSessionStocksCatalog(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	defs, err := svc.Catalog(id)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(defs) != 10 {
		t.Fatalf("expected 10 stock events, got %d", len(defs))
	}
	if len(svc.ListSessions()) != 1 {
		t.Fatal("expected one live session")
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Statistics("ghost")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !apperrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found category, got %v", err)
	}
}

func TestResolveRecordsHistory(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	state := models.NewGameState()
	outcome, err := svc.Resolve(id, "space_storm", state, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !outcome.Success {
		t.Fatal("storm resolution should succeed")
	}

	history, err := svc.History(id, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].EventID != "space_storm" {
		t.Fatalf("expected one space_storm record, got %v", history)
	}
}

func TestResolveUnknownEventID(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	_, err := svc.Resolve(id, "ghost_event", models.NewGameState(), "")
	if err == nil {
		t.Fatal("expected error for unknown event id")
	}
	if !apperrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found category, got %v", err)
	}
}

func TestRegisterEventValidation(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	cases := []*models.EventDefinition{
		nil,
		{ID: ""},
		{ID: "bad_prob", BaseProbability: 1.5, MinLevel: 1, MaxLevel: 10},
		{ID: "bad_band", BaseProbability: 0.5, MinLevel: 10, MaxLevel: 1},
		{ID: "bad_cooldown", BaseProbability: 0.5, MinLevel: 1, MaxLevel: 10, CooldownSeconds: -1},
	}
	for i, def := range cases {
		err := svc.RegisterEvent(id, def)
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		if !apperrors.IsValidationError(err) {
			t.Fatalf("case %d: expected validation category, got %v", i, err)
		}
	}

	good := &models.EventDefinition{
		ID:              "solar_flare",
		Name:            "Solar Flare",
		Type:            models.EventStorm,
		Context:         models.ContextDuringTravel,
		BaseProbability: 0.2,
		MinLevel:        1,
		MaxLevel:        100,
	}
	if err := svc.RegisterEvent(id, good); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	defs, _ := svc.Catalog(id)
	if len(defs) != 11 {
		t.Fatalf("expected 11 events after registration, got %d", len(defs))
	}

	if err := svc.UnregisterEvent(id, "solar_flare"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	defs, _ = svc.Catalog(id)
	if len(defs) != 10 {
		t.Fatalf("expected 10 events after unregister, got %d", len(defs))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	state := models.NewGameState()
	svc.Resolve(id, "space_storm", state, "")
	svc.Resolve(id, "market_crash", state, "")

	if err := svc.Save(id); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A second resolve after save diverges the in-memory state, then the
	// load rolls it back to the persisted snapshot.
	svc.Resolve(id, "space_storm", state, "")
	if err := svc.Load(id); err != nil {
		t.Fatalf("load: %v", err)
	}

	history, _ := svc.History(id, 10)
	if len(history) != 2 {
		t.Fatalf("expected 2 records after load, got %d", len(history))
	}
}

func TestLoadWithoutSaveIsNotFound(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	err := svc.Load(id)
	if err == nil {
		t.Fatal("expected error when no save exists")
	}
	if !apperrors.IsNotFoundError(err) {
		t.Fatalf("expected not-found category, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)
	svc.Save(id)

	if err := svc.DeleteSession(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteSession(id); err == nil {
		t.Fatal("second delete should report not found")
	}
	if len(svc.ListSessions()) != 0 {
		t.Fatal("expected no live sessions")
	}
}

type recordingNotifier struct {
	sessions []string
	payloads []any
}

func (r *recordingNotifier) NotifySession(sessionID string, payload any) {
	r.sessions = append(r.sessions, sessionID)
	r.payloads = append(r.payloads, payload)
}

func TestResolveNotifiesSubscribers(t *testing.T) {
	svc := newTestService(t)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	id := svc.CreateSession(42)
	svc.Resolve(id, "space_storm", models.NewGameState(), "")

	if len(notifier.sessions) != 1 || notifier.sessions[0] != id {
		t.Fatalf("expected one notification for %s, got %v", id, notifier.sessions)
	}
	payload, ok := notifier.payloads[0].(map[string]any)
	if !ok || payload["type"] != "event_resolved" {
		t.Fatalf("unexpected payload %v", notifier.payloads[0])
	}
}

func TestArchiveStatisticsAcrossSessions(t *testing.T) {
	svc := newTestService(t)
	id := svc.CreateSession(42)

	// Force a guaranteed trigger through a custom certain event.
	svc.RegisterEvent(id, &models.EventDefinition{
		ID:              "docking_mishap",
		Name:            "Docking Mishap",
		Description:     "The docking clamps slip.",
		Type:            models.EventMalfunction,
		Context:         models.ContextAtStation,
		BaseProbability: 1.0,
		MinLevel:        1,
		MaxLevel:        100,
	})

	state := models.NewGameState()
	fired := false
	for i := 0; i < 200 && !fired; i++ {
		def, err := svc.Check(id, models.ContextAtStation, state)
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if def != nil {
			fired = true
			break
		}
		// Global cooldown blocks nothing here: nothing fired yet.
	}
	if !fired {
		t.Skip("no trigger in 200 draws; capped draw left this run empty")
	}

	stats, err := svc.ArchiveStatistics()
	if err != nil {
		t.Fatalf("archive statistics: %v", err)
	}
	if stats.TotalEvents != 1 || stats.Sessions != 1 {
		t.Fatalf("expected 1 archived event, got %+v", stats)
	}
}
