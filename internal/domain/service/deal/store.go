package deal

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"ltd_tracker/internal/domain"
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/value"
	"ltd_tracker/pkg/errcodes"
)

// Store — единственный владелец коллекции сделок и единственное место, где
// она меняется. Новые сделки добавляются в начало (новые сверху), порядок
// хранения не зависит от сортировки при показе.
//
// Каждая мутация выполняется целиком под mu: валидация и запись атомарны.
// Подписчики вызываются уже после снятия mu, строго в порядке ревизий.
// Подписчик может читать хранилище, но не должен его менять.
type Store struct {
	mu       sync.RWMutex
	deals    []entity.Deal
	revision uint64

	notifyMu    sync.Mutex
	subsMu      sync.Mutex
	subscribers []subscription
	nextSubID   int

	validate *validator.Validate
	now      func() time.Time
	newID    func() value.DealID
}

type subscription struct {
	id int
	fn Subscriber
}

func NewStore() *Store {
	return &Store{
		deals:    make([]entity.Deal, 0),
		validate: newValidator(),
		now:      time.Now,
		newID:    value.NewDealID,
	}
}

func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) WithIDGenerator(newID func() value.DealID) *Store {
	s.newID = newID
	return s
}

// Subscribe регистрирует подписчика; возвращённая функция отписывает его.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// AddDeal проверяет input, выдаёт новый ID, считает RefundDeadline и
// добавляет сделку в начало коллекции.
func (s *Store) AddDeal(input entity.DealInput) (entity.Deal, error) {
	d, err := s.build(input)
	if err != nil {
		return entity.Deal{}, err
	}

	s.mu.Lock()

	now := s.now()
	d.ID = s.newID()
	d.CreatedAt = now
	d.UpdatedAt = now

	s.deals = append([]entity.Deal{d}, s.deals...)

	s.commit(EventCreated, d.ID)

	return d.Clone(), nil
}

// UpdateDeal накладывает patch на существующую запись, заново валидирует
// результат и пересчитывает RefundDeadline по итоговым PurchaseDate и
// RefundWindow.
func (s *Store) UpdateDeal(id value.DealID, patch entity.DealPatch) (entity.Deal, error) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Deal{}, &domain.NotFoundError{ID: id}
	}

	existing := s.deals[idx]

	d, err := s.build(patch.ApplyTo(existing.Input()))
	if err != nil {
		s.mu.Unlock()
		return entity.Deal{}, err
	}

	d.ID = existing.ID
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = s.now()

	s.deals[idx] = d

	s.commit(EventUpdated, id)

	return d.Clone(), nil
}

// DeleteDeal идемпотентен: отсутствующий ID — не ошибка и не событие.
func (s *Store) DeleteDeal(id value.DealID) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.deals = append(s.deals[:idx:idx], s.deals[idx+1:]...)

	s.commit(EventDeleted, id)
}

func (s *Store) ToggleFavorite(id value.DealID) (entity.Deal, error) {
	s.mu.Lock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Deal{}, &domain.NotFoundError{ID: id}
	}

	d := s.deals[idx]
	d.Favorite = !d.Favorite
	d.UpdatedAt = s.now()
	s.deals[idx] = d

	s.commit(EventFavoriteToggled, id)

	return d.Clone(), nil
}

func (s *Store) GetDealByID(id value.DealID) (entity.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Deal{}, false
	}

	return s.deals[idx].Clone(), true
}

// ListDeals возвращает копию коллекции в порядке хранения.
func (s *Store) ListDeals() []entity.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// Snapshot — копия коллекции вместе с ревизией, к которой она относится.
func (s *Store) Snapshot() ([]entity.Deal, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot(), s.revision
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.revision
}

// Load заменяет коллекцию снимком из хранилища. Каждая запись проходит ту же
// валидацию, что и при создании, RefundDeadline пересчитывается. При любой
// ошибке коллекция остаётся прежней.
func (s *Store) Load(deals []entity.Deal) error {
	loaded := make([]entity.Deal, 0, len(deals))
	seen := make(map[value.DealID]struct{}, len(deals))

	for i, raw := range deals {
		if raw.ID == "" {
			return domain.NewError(errcodes.InvalidDealID, fmt.Sprintf("deal at index %d has no id", i))
		}

		if _, ok := seen[raw.ID]; ok {
			return domain.NewError(errcodes.DuplicateDealID, fmt.Sprintf("duplicate deal id %s", raw.ID))
		}
		seen[raw.ID] = struct{}{}

		d, err := s.build(raw.Input())
		if err != nil {
			return fmt.Errorf("deal %s: %w", raw.ID, err)
		}

		d.ID = raw.ID
		d.CreatedAt = raw.CreatedAt
		d.UpdatedAt = raw.UpdatedAt

		loaded = append(loaded, d)
	}

	s.mu.Lock()
	s.deals = loaded
	s.commit(EventLoaded, "")

	return nil
}

// commit вызывается под s.mu: увеличивает ревизию, снимает s.mu и рассылает
// событие. notifyMu берётся до снятия s.mu, поэтому события доходят до
// подписчиков в порядке ревизий.
func (s *Store) commit(eventType EventType, id value.DealID) {
	s.revision++

	event := Event{
		Type:     eventType,
		DealID:   id,
		Revision: s.revision,
		Snapshot: s.snapshot(),
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.subsMu.Lock()
	subscribers := make([]subscription, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.subsMu.Unlock()

	for _, sub := range subscribers {
		sub.fn(event)
	}
}

func (s *Store) snapshot() []entity.Deal {
	out := make([]entity.Deal, len(s.deals))
	for i, d := range s.deals {
		out[i] = d.Clone()
	}
	return out
}

func (s *Store) indexOf(id value.DealID) int {
	for i := range s.deals {
		if s.deals[i].ID == id {
			return i
		}
	}
	return -1
}
