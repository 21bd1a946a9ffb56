// internal/services/event_service.go
package services

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"time"

	"github.com/Halcyonic/VoidTrader/internal/errors"
	"github.com/Halcyonic/VoidTrader/internal/events"
	"github.com/Halcyonic/VoidTrader/internal/models"
	"github.com/Halcyonic/VoidTrader/internal/storage"
	"github.com/Halcyonic/VoidTrader/internal/utils"
	"github.com/google/uuid"
)

const sessionStateFile = "events.json"

// SessionNotifier pushes engine activity to realtime subscribers of a
// session. Implemented by the API WebSocket manager.
type SessionNotifier interface {
	NotifySession(sessionID string, payload any)
}

// EventService owns one trigger engine per game session. Engines are not
// safe for concurrent use, so every engine operation runs under the service
// mutex; callers see a synchronous call-and-return API.
type EventService struct {
	BasePath string // session state directory, relative to the file storage root

	storage *storage.FileStorage
	archive *storage.HistoryStore

	mutex    sync.Mutex
	sessions map[string]*events.Engine

	defaultSeed     int64 // 0 means time-seeded
	defaultCooldown float64

	notifier SessionNotifier
}

// NewEventService creates the service. The archive store may be nil; archive
// writes then become no-ops.
func NewEventService(fileStorage *storage.FileStorage, archive *storage.HistoryStore, defaultSeed int64, defaultCooldown float64) *EventService {
	if defaultCooldown <= 0 {
		defaultCooldown = events.DefaultGlobalCooldown
	}
	return &EventService{
		BasePath:        "sessions",
		storage:         fileStorage,
		archive:         archive,
		sessions:        make(map[string]*events.Engine),
		defaultSeed:     defaultSeed,
		defaultCooldown: defaultCooldown,
	}
}

// SetNotifier attaches the realtime notifier. Nil disables notifications.
func (s *EventService) SetNotifier(notifier SessionNotifier) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.notifier = notifier
}

func (s *EventService) sessionDir(sessionID string) string {
	return filepath.Join(s.BasePath, sessionID)
}

// CreateSession starts a new session with the stock catalog. A non-zero seed
// makes the session's event sequence reproducible; seed 0 defers to the
// service default, then to the clock.
func (s *EventService) CreateSession(seed int64) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if seed == 0 {
		seed = s.defaultSeed
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	engine := events.NewEngine(events.DefaultCatalog(), rng)
	engine.SetGlobalCooldown(s.defaultCooldown)

	sessionID := uuid.New().String()
	s.sessions[sessionID] = engine

	utils.GetLogger().Info("event session created", map[string]interface{}{
		"session_id": sessionID,
		"seeded":     seed != 0,
	})
	return sessionID
}

func (s *EventService) engine(sessionID string) (*events.Engine, error) {
	engine, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("session %s not found", sessionID), nil)
	}
	return engine, nil
}

// DeleteSession drops the engine and the session's persisted state. Archived
// history survives deliberately; the archive is the durable record.
func (s *EventService) DeleteSession(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return errors.NewNotFoundError(fmt.Sprintf("session %s not found", sessionID), nil)
	}
	delete(s.sessions, sessionID)

	if s.storage.FileExists(s.sessionDir(sessionID), sessionStateFile) {
		if err := s.storage.DeleteDir(s.sessionDir(sessionID)); err != nil {
			utils.GetLogger().Warnf("failed to delete session state for %s: %v", sessionID, err)
		}
	}
	return nil
}

// ListSessions returns the ids of all live sessions.
func (s *EventService) ListSessions() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Check runs one trigger check for the session. A fired event is archived
// and pushed to realtime subscribers before it is returned.
func (s *EventService) Check(sessionID string, ctx models.EventContext, state *models.GameState) (*models.EventDefinition, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}

	fired := engine.Check(ctx, state)
	if fired == nil {
		return nil, nil
	}

	if s.archive != nil {
		excerpt := state.Excerpt()
		archiveErr := s.archive.Append(storage.ArchiveRecord{
			SessionID:     sessionID,
			EventID:       fired.ID,
			FiredAt:       fired.LastTriggered,
			PlayerLevel:   excerpt.PlayerLevel,
			CurrentSector: excerpt.CurrentSector,
			Credits:       excerpt.Credits,
		})
		if archiveErr != nil {
			// The session keeps running; only the durable trail is degraded.
			utils.GetLogger().Warnf("failed to archive event %s: %v", fired.ID, archiveErr)
		}
	}

	s.notify(sessionID, map[string]any{
		"type":  "event_triggered",
		"event": fired,
	})

	return fired, nil
}

// Resolve runs one resolution step for an event of the session. The empty
// choice is the presentation stage.
func (s *EventService) Resolve(sessionID, eventID string, state *models.GameState, choice string) (models.EventOutcome, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return models.EventOutcome{}, err
	}

	outcome, err := engine.ResolveByID(eventID, state, choice)
	if err != nil {
		return models.EventOutcome{}, errors.NewNotFoundError(err.Error(), err)
	}

	s.notify(sessionID, map[string]any{
		"type":     "event_resolved",
		"event_id": eventID,
		"choice":   choice,
		"outcome":  outcome,
	})

	return outcome, nil
}

// RegisterEvent adds or replaces a custom event definition in the session's
// catalog.
func (s *EventService) RegisterEvent(sessionID string, def *models.EventDefinition) error {
	if def == nil || def.ID == "" {
		return errors.NewValidationError("event definition requires an id", nil)
	}
	if def.BaseProbability < 0 || def.BaseProbability > 1 {
		return errors.NewValidationError("base_probability must be within [0, 1]", nil)
	}
	if def.MinLevel > def.MaxLevel {
		return errors.NewValidationError("min_level must not exceed max_level", nil)
	}
	if def.CooldownSeconds < 0 {
		return errors.NewValidationError("cooldown_seconds must not be negative", nil)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.Catalog().Register(def)
	return nil
}

// UnregisterEvent removes an event definition; absent ids are a no-op.
func (s *EventService) UnregisterEvent(sessionID, eventID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}
	engine.Catalog().Unregister(eventID)
	return nil
}

// Catalog returns the session's event definitions in registration order.
func (s *EventService) Catalog(sessionID string) ([]*models.EventDefinition, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.Catalog().All(), nil
}

// History returns the last limit records of the session's in-memory log.
func (s *EventService) History(sessionID string, limit int) ([]models.HistoryRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.History().Recent(limit), nil
}

// Statistics returns aggregate numbers for one session.
func (s *EventService) Statistics(sessionID string) (events.Statistics, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return events.Statistics{}, err
	}
	return engine.Statistics(), nil
}

// DebugInfo reports the session engine's registration and history state.
func (s *EventService) DebugInfo(sessionID string) (map[string]any, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return nil, err
	}
	return engine.DebugInfo(), nil
}

// Save persists the session's cooldown and history state to its JSON file.
func (s *EventService) Save(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}

	data, err := engine.MarshalState()
	if err != nil {
		return errors.NewProcessingError("failed to serialize session state", err)
	}
	if err := s.storage.SaveRawFile(s.sessionDir(sessionID), sessionStateFile, data); err != nil {
		return errors.NewProcessingError("failed to save session state", err)
	}
	return nil
}

// Load restores the session's state from its JSON file. Loading is
// best-effort per the persistence contract: a missing or malformed file is
// reported and leaves the in-memory state unchanged.
func (s *EventService) Load(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	engine, err := s.engine(sessionID)
	if err != nil {
		return err
	}

	if !s.storage.FileExists(s.sessionDir(sessionID), sessionStateFile) {
		return errors.NewNotFoundError(fmt.Sprintf("no saved state for session %s", sessionID), nil)
	}

	data, err := s.storage.LoadTextFile(s.sessionDir(sessionID), sessionStateFile)
	if err != nil {
		return errors.NewProcessingError("failed to read session state", err)
	}
	if err := engine.RestoreState(data); err != nil {
		return errors.NewProcessingError("failed to restore session state", err)
	}
	return nil
}

// ArchiveStatistics aggregates the durable archive across all sessions.
func (s *EventService) ArchiveStatistics() (storage.ArchiveStatistics, error) {
	if s.archive == nil {
		return storage.ArchiveStatistics{EventCounts: map[string]int{}}, nil
	}
	return s.archive.Statistics()
}

// ArchivedHistory returns the durable trail of one session, oldest first.
func (s *EventService) ArchivedHistory(sessionID string, limit int) ([]storage.ArchiveRecord, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.RecentForSession(sessionID, limit)
}

func (s *EventService) notify(sessionID string, payload any) {
	if s.notifier == nil {
		return
	}
	payloadWithTime := map[string]any{
		"timestamp": time.Now().Unix(),
	}
	if m, ok := payload.(map[string]any); ok {
		for k, v := range m {
			payloadWithTime[k] = v
		}
	} else {
		payloadWithTime["data"] = payload
	}
	s.notifier.NotifySession(sessionID, payloadWithTime)
}
