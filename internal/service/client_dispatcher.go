package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/store"
	"github.com/MKhiriev/go-board-sync/internal/validators"
	"github.com/MKhiriev/go-board-sync/models"
)

// IDGenerator allocates client-side entity ids.
type IDGenerator interface {
	Generate() string
}

// dispatcher implements [ClientBoardService]. The mutex is held for the whole
// of Apply, including local IO, so the drain path never observes a half
// applied intent.
type dispatcher struct {
	entities   store.EntityStore
	operations store.OperationLog
	validator  validators.Validator
	ids        IDGenerator
	trigger    *syncTrigger

	mu    sync.RWMutex
	lists map[string]models.Entity
	cards map[string]models.Entity
}

func newDispatcher(entities store.EntityStore, operations store.OperationLog, validator validators.Validator,
	ids IDGenerator, trigger *syncTrigger) *dispatcher {
	return &dispatcher{
		entities:   entities,
		operations: operations,
		validator:  validator,
		ids:        ids,
		trigger:    trigger,
		lists:      make(map[string]models.Entity),
		cards:      make(map[string]models.Entity),
	}
}

// mutation is one prepared intent. apply changes memory, persist writes the
// store, compensate undoes persist when the log append fails.
type mutation struct {
	id         string
	op         models.QueuedOperation
	apply      func()
	persist    func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// snapshot is a full copy of the in-memory board used for rollback.
type snapshot struct {
	lists map[string]models.Entity
	cards map[string]models.Entity
}

func (d *dispatcher) Load(ctx context.Context) error {
	lists, err := d.entities.GetAll(ctx, models.KindList)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}
	cards, err := d.entities.GetAll(ctx, models.KindCard)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists = indexByID(lists)
	d.cards = indexByID(cards)
	return nil
}

func (d *dispatcher) Apply(ctx context.Context, intent models.Intent) (string, error) {
	log := logger.FromContext(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	m, err := d.prepare(ctx, intent)
	if err != nil {
		return "", err
	}
	if m == nil {
		return intent.ID, nil
	}

	snap := d.snapshot()
	m.apply()

	if err = m.persist(ctx); err != nil {
		d.restore(snap)
		log.Err(err).
			Str("func", "dispatcher.Apply").
			Str("intent", string(intent.Type)).
			Str("id", m.id).
			Msg("local persist failed, optimistic change rolled back")
		return "", fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}

	m.op.CreatedAt = time.Now()
	key, err := d.operations.Append(ctx, m.op)
	if err != nil {
		if cErr := m.compensate(ctx); cErr != nil {
			log.Err(cErr).
				Str("func", "dispatcher.Apply").
				Str("id", m.id).
				Msg("failed to compensate local store after append failure")
		}
		d.restore(snap)
		log.Err(err).
			Str("func", "dispatcher.Apply").
			Str("intent", string(intent.Type)).
			Str("id", m.id).
			Msg("operation append failed, optimistic change rolled back")
		return "", fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}

	log.Debug().
		Str("func", "dispatcher.Apply").
		Str("intent", string(intent.Type)).
		Str("id", m.id).
		Int64("key", key).
		Msg("intent applied and queued")

	d.trigger.Fire()
	return m.id, nil
}

func (d *dispatcher) Board() models.Board {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return models.BuildBoard(slices.Collect(maps.Values(d.lists)), slices.Collect(maps.Values(d.cards)))
}

func (d *dispatcher) Get(kind models.EntityKind, id string) (models.Entity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.table(kind)[id]
	if !ok {
		return models.Entity{}, false
	}
	return e.Clone(), true
}

func (d *dispatcher) Absorb(ctx context.Context, entities ...models.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.entities.BatchPut(ctx, entities); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}
	for _, e := range entities {
		d.table(e.Kind)[e.ID] = e.Clone()
	}
	return nil
}

func (d *dispatcher) Discard(ctx context.Context, kind models.EntityKind, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.entities.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}
	delete(d.table(kind), id)
	if kind == models.KindList {
		for _, c := range d.cardsOf(id) {
			delete(d.cards, c.ID)
		}
	}
	return nil
}

func (d *dispatcher) Acknowledge(ctx context.Context, kind models.EntityKind, id string, version int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.table(kind)[id]
	if !ok || current.Version >= version {
		return nil
	}

	next := current.Clone()
	next.Version = version
	if err := d.entities.Put(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}
	d.table(kind)[id] = next
	return nil
}

func (d *dispatcher) ReplaceFromRemote(ctx context.Context, board models.Board, guard QueueGuard) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	allowed, err := guard(ctx)
	if err != nil || !allowed {
		return false, err
	}

	if err = d.entities.ReplaceAll(ctx, board); err != nil {
		return false, fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}
	lists, cards := board.Flatten()
	d.lists = indexByID(lists)
	d.cards = indexByID(cards)
	return true, nil
}

// prepare validates the intent against current state and builds its
// mutation. A nil mutation means the intent changes nothing.
func (d *dispatcher) prepare(ctx context.Context, intent models.Intent) (*mutation, error) {
	switch intent.Type {
	case models.IntentAddList:
		return d.addList(ctx, intent)
	case models.IntentAddCard:
		return d.addCard(ctx, intent)
	case models.IntentEditList:
		return d.edit(ctx, models.KindList, intent)
	case models.IntentEditCard:
		return d.edit(ctx, models.KindCard, intent)
	case models.IntentDeleteList:
		return d.deleteList(intent)
	case models.IntentDeleteCard:
		return d.deleteCard(intent)
	case models.IntentMoveList:
		return d.moveList(intent)
	case models.IntentMoveCard:
		return d.moveCard(intent)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Type)
	}
}

func (d *dispatcher) addList(ctx context.Context, intent models.Intent) (*mutation, error) {
	list := models.NewList(d.ids.Generate(), strings.TrimSpace(intent.Title), len(d.lists))
	if err := d.validator.Validate(ctx, list, validators.FieldTitle); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
	}

	return d.createMutation(list, models.OpCreateList), nil
}

func (d *dispatcher) addCard(ctx context.Context, intent models.Intent) (*mutation, error) {
	if _, ok := d.lists[intent.ListID]; !ok {
		return nil, fmt.Errorf("%w: list %s", ErrEntityNotFound, intent.ListID)
	}

	card := models.NewCard(d.ids.Generate(), intent.ListID, strings.TrimSpace(intent.Title),
		intent.Description, intent.Tags, len(d.cardsOf(intent.ListID)))
	if err := d.validator.Validate(ctx, card, validators.FieldTitle, validators.FieldDescription, validators.FieldListID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
	}

	return d.createMutation(card, models.OpCreateCard), nil
}

func (d *dispatcher) createMutation(e models.Entity, opType models.OperationType) *mutation {
	payload := e.Clone()
	return &mutation{
		id: e.ID,
		op: models.QueuedOperation{
			Type:     opType,
			EntityID: e.ID,
			Entity:   &payload,
		},
		apply: func() { d.table(e.Kind)[e.ID] = e.Clone() },
		persist: func(ctx context.Context) error {
			return d.entities.Put(ctx, e)
		},
		compensate: func(ctx context.Context) error {
			return d.entities.Delete(ctx, e.Kind, e.ID)
		},
	}
}

func (d *dispatcher) edit(ctx context.Context, kind models.EntityKind, intent models.Intent) (*mutation, error) {
	current, ok := d.table(kind)[intent.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrEntityNotFound, kind, intent.ID)
	}

	patch := intent.Patch
	if kind == models.KindList {
		patch.ListID = nil
	}
	if err := d.validator.Validate(ctx, patch, validators.PatchKind(kind)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIntent, err)
	}
	if patch.ListID != nil {
		if _, exists := d.lists[*patch.ListID]; !exists {
			return nil, fmt.Errorf("%w: list %s", ErrEntityNotFound, *patch.ListID)
		}
	}

	base := current.Clone()
	updated := patch.Apply(base)
	updated.Version = base.Version + 1
	updated.LastModifiedAt = models.NowMillis()
	patch.Version = base.Version

	opType := models.OpUpdateCard
	if kind == models.KindList {
		opType = models.OpUpdateList
	}

	return &mutation{
		id: current.ID,
		op: models.QueuedOperation{
			Type:        opType,
			EntityID:    current.ID,
			Patch:       &patch,
			BaseVersion: &base,
		},
		apply: func() { d.table(kind)[updated.ID] = updated },
		persist: func(ctx context.Context) error {
			return d.entities.Put(ctx, updated)
		},
		compensate: func(ctx context.Context) error {
			return d.entities.Put(ctx, base)
		},
	}, nil
}

func (d *dispatcher) deleteList(intent models.Intent) (*mutation, error) {
	list, ok := d.lists[intent.ID]
	if !ok {
		return nil, fmt.Errorf("%w: list %s", ErrEntityNotFound, intent.ID)
	}

	base := list.Clone()
	removed := append([]models.Entity{base}, d.cardsOf(list.ID)...)

	return &mutation{
		id: list.ID,
		op: models.QueuedOperation{
			Type:        models.OpDeleteList,
			EntityID:    list.ID,
			BaseVersion: &base,
		},
		apply: func() {
			delete(d.lists, list.ID)
			for _, c := range removed[1:] {
				delete(d.cards, c.ID)
			}
		},
		persist: func(ctx context.Context) error {
			return d.entities.Delete(ctx, models.KindList, list.ID)
		},
		compensate: func(ctx context.Context) error {
			return d.entities.BatchPut(ctx, removed)
		},
	}, nil
}

func (d *dispatcher) deleteCard(intent models.Intent) (*mutation, error) {
	card, ok := d.cards[intent.ID]
	if !ok {
		return nil, fmt.Errorf("%w: card %s", ErrEntityNotFound, intent.ID)
	}

	base := card.Clone()
	return &mutation{
		id: card.ID,
		op: models.QueuedOperation{
			Type:        models.OpDeleteCard,
			EntityID:    card.ID,
			BaseVersion: &base,
		},
		apply: func() { delete(d.cards, card.ID) },
		persist: func(ctx context.Context) error {
			return d.entities.Delete(ctx, models.KindCard, card.ID)
		},
		compensate: func(ctx context.Context) error {
			return d.entities.Put(ctx, base)
		},
	}, nil
}

func (d *dispatcher) moveList(intent models.Intent) (*mutation, error) {
	lists := d.sortedLists()
	from := indexOf(lists, intent.ID)
	if from < 0 {
		return nil, fmt.Errorf("%w: list %s", ErrEntityNotFound, intent.ID)
	}

	moved := lists[from]
	lists = slices.Delete(lists, from, from+1)
	to := clampIndex(intent.ToIndex, len(lists))
	lists = slices.Insert(lists, to, moved)

	return d.reorderMutation(intent.ID, models.OpReorderLists, reposition(lists, ""))
}

func (d *dispatcher) moveCard(intent models.Intent) (*mutation, error) {
	card, ok := d.cards[intent.ID]
	if !ok {
		return nil, fmt.Errorf("%w: card %s", ErrEntityNotFound, intent.ID)
	}

	source := card.ListID
	dest := intent.ListID
	if dest == "" {
		dest = source
	}
	if _, exists := d.lists[dest]; !exists {
		return nil, fmt.Errorf("%w: list %s", ErrEntityNotFound, dest)
	}

	destCards := slices.DeleteFunc(d.cardsOf(dest), func(e models.Entity) bool { return e.ID == card.ID })
	to := clampIndex(intent.ToIndex, len(destCards))
	destCards = slices.Insert(destCards, to, card.Clone())

	changed := reposition(destCards, dest)
	if source != dest {
		sourceCards := slices.DeleteFunc(d.cardsOf(source), func(e models.Entity) bool { return e.ID == card.ID })
		changed = append(changed, reposition(sourceCards, source)...)
	}

	return d.reorderMutation(intent.ID, models.OpReorderCards, changed)
}

// reorderMutation turns the repositioned entities into one reorder operation.
// Each pair carries the version the entity had before the move; the local
// copy gets the forecast version + 1.
func (d *dispatcher) reorderMutation(id string, opType models.OperationType, changed []models.Entity) (*mutation, error) {
	if len(changed) == 0 {
		return nil, nil
	}

	kind := opType.Kind()
	now := models.NowMillis()
	before := make([]models.Entity, 0, len(changed))
	after := make([]models.Entity, 0, len(changed))
	pairs := make([]models.PositionUpdate, 0, len(changed))

	for _, next := range changed {
		prev := d.table(kind)[next.ID]
		before = append(before, prev.Clone())

		pair := models.PositionUpdate{ID: next.ID, Position: next.Position, Version: prev.Version}
		if kind == models.KindCard {
			pair.ListID = next.ListID
		}
		pairs = append(pairs, pair)

		next.Version = prev.Version + 1
		next.LastModifiedAt = now
		after = append(after, next)
	}

	return &mutation{
		id: id,
		op: models.QueuedOperation{
			Type:     opType,
			EntityID: id,
			Reorder:  pairs,
		},
		apply: func() {
			for _, e := range after {
				d.table(kind)[e.ID] = e.Clone()
			}
		},
		persist: func(ctx context.Context) error {
			return d.entities.BatchPut(ctx, after)
		},
		compensate: func(ctx context.Context) error {
			return d.entities.BatchPut(ctx, before)
		},
	}, nil
}

func (d *dispatcher) table(kind models.EntityKind) map[string]models.Entity {
	if kind == models.KindList {
		return d.lists
	}
	return d.cards
}

func (d *dispatcher) sortedLists() []models.Entity {
	lists := make([]models.Entity, 0, len(d.lists))
	for _, l := range d.lists {
		lists = append(lists, l.Clone())
	}
	models.SortByPosition(lists)
	return lists
}

// cardsOf returns copies of the cards of listID ordered by position.
func (d *dispatcher) cardsOf(listID string) []models.Entity {
	var cards []models.Entity
	for _, c := range d.cards {
		if c.ListID == listID {
			cards = append(cards, c.Clone())
		}
	}
	models.SortByPosition(cards)
	return cards
}

func (d *dispatcher) snapshot() snapshot {
	return snapshot{lists: cloneTable(d.lists), cards: cloneTable(d.cards)}
}

func (d *dispatcher) restore(s snapshot) {
	d.lists = s.lists
	d.cards = s.cards
}

// reposition assigns positions 0..n-1 in slice order and returns the entities
// whose position or list changed. listID is empty for lists.
func reposition(entities []models.Entity, listID string) []models.Entity {
	var changed []models.Entity
	for i, e := range entities {
		if e.Position == i && (listID == "" || e.ListID == listID) {
			continue
		}
		next := e.Clone()
		next.Position = i
		if listID != "" {
			next.ListID = listID
		}
		changed = append(changed, next)
	}
	return changed
}

// clampIndex maps a requested insert index into [0, n]. Negative values
// append.
func clampIndex(i, n int) int {
	if i < 0 || i > n {
		return n
	}
	return i
}

func indexOf(entities []models.Entity, id string) int {
	return slices.IndexFunc(entities, func(e models.Entity) bool { return e.ID == id })
}

func indexByID(entities []models.Entity) map[string]models.Entity {
	table := make(map[string]models.Entity, len(entities))
	for _, e := range entities {
		table[e.ID] = e.Clone()
	}
	return table
}

func cloneTable(table map[string]models.Entity) map[string]models.Entity {
	out := make(map[string]models.Entity, len(table))
	for id, e := range table {
		out[id] = e.Clone()
	}
	return out
}
