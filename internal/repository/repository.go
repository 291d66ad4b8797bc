package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prospectflow/internal/model"
	"prospectflow/internal/storage"
)

// DefaultKey is the storage key the document lives under.
const DefaultKey = "prospectFlowDB"

// Slot is the durable key-value location the document is persisted to.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, payload []byte) error
}

// stampedSlot reports when a key was last written.
type stampedSlot interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Options tunes a Repository. Zero values select defaults.
type Options struct {
	Key      string
	Triggers []model.StatTrigger
	Logger   *zap.Logger
	Now      func() time.Time
	NewID    func() string
}

// Repository owns the in-memory document and is its only writer.
// Every mutation is persisted before the call returns.
type Repository struct {
	slot     Slot
	key      string
	doc      model.Document
	triggers []model.StatTrigger
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// New constructs a Repository and loads the persisted document.
func New(ctx context.Context, slot Slot, opts Options) *Repository {
	r := &Repository{
		slot:   slot,
		key:    opts.Key,
		logger: opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if r.key == "" {
		r.key = DefaultKey
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	r.triggers = sanitizeTriggers(opts.Triggers, r.logger)
	r.Load(ctx)
	return r
}

// Load replaces the in-memory document with the persisted one. A missing,
// unreadable or corrupt payload yields an empty document.
func (r *Repository) Load(ctx context.Context) model.Document {
	r.doc = r.read(ctx)
	return r.doc.Clone()
}

func (r *Repository) read(ctx context.Context) model.Document {
	payload, err := r.slot.Read(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Info("No persisted document, starting empty", zap.String("key", r.key))
		} else {
			r.logger.Error("Failed to read persisted document",
				zap.String("key", r.key),
				zap.Error(err))
		}
		return model.NewDocument()
	}
	var doc model.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		r.logger.Warn("Discarding corrupt persisted document",
			zap.String("key", r.key),
			zap.Int("bytes", len(payload)),
			zap.Error(err))
		return model.NewDocument()
	}
	doc.Normalize()
	fields := []zap.Field{
		zap.String("key", r.key),
		zap.Int("accounts", len(doc.Accounts)),
		zap.Int("todos", len(doc.ToDos)),
	}
	if stamped, ok := r.slot.(stampedSlot); ok {
		if savedAt, err := stamped.UpdatedAt(ctx, r.key); err == nil {
			fields = append(fields, zap.Time("saved_at", savedAt))
		}
	}
	r.logger.Info("Loaded persisted document", fields...)
	return doc
}

// persist writes the whole document. Failures are logged and swallowed;
// the in-memory document stays authoritative for the session.
func (r *Repository) persist(ctx context.Context) {
	payload, err := json.Marshal(r.doc)
	if err != nil {
		r.logger.Error("Failed to encode document", zap.Error(err))
		return
	}
	if err := r.slot.Write(ctx, r.key, payload); err != nil {
		r.logger.Error("Failed to persist document",
			zap.String("key", r.key),
			zap.Error(err))
	}
}

// Document returns a deep copy of the current document.
func (r *Repository) Document() model.Document {
	return r.doc.Clone()
}

func (r *Repository) accountIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.doc.Accounts {
		if r.doc.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) prospectIndex(accountID, prospectID string) (int, int) {
	ai := r.accountIndex(accountID)
	if ai < 0 || prospectID == "" {
		return ai, -1
	}
	return ai, r.doc.Accounts[ai].FindProspect(prospectID)
}

// Account returns a copy of the account with id.
func (r *Repository) Account(id string) (model.Account, bool) {
	i := r.accountIndex(id)
	if i < 0 {
		return model.Account{}, false
	}
	return r.doc.Accounts[i].Clone(), true
}

// Prospect returns a copy of the prospect, resolved by its account.
func (r *Repository) Prospect(accountID, prospectID string) (model.Prospect, bool) {
	ai, pi := r.prospectIndex(accountID, prospectID)
	if ai < 0 || pi < 0 {
		return model.Prospect{}, false
	}
	return r.doc.Accounts[ai].Prospects[pi].Clone(), true
}

// SaveAccount merges fields into the account named by fields.ID, or creates
// a new account with a fresh id when the id is empty or unknown.
func (r *Repository) SaveAccount(ctx context.Context, fields model.AccountFields) model.Account {
	if i := r.accountIndex(fields.ID); i >= 0 {
		fields.Apply(&r.doc.Accounts[i])
		r.persist(ctx)
		return r.doc.Accounts[i].Clone()
	}
	account := model.Account{ID: r.newID(), Prospects: []model.Prospect{}}
	fields.Apply(&account)
	r.doc.Accounts = append(r.doc.Accounts, account)
	r.persist(ctx)
	return account.Clone()
}

// DeleteAccount removes the account, its prospects, and every to-do that
// references it. Unknown ids are a no-op.
func (r *Repository) DeleteAccount(ctx context.Context, id string) {
	i := r.accountIndex(id)
	if i < 0 {
		return
	}
	r.doc.Accounts = append(r.doc.Accounts[:i], r.doc.Accounts[i+1:]...)

	kept := r.doc.ToDos[:0]
	for _, t := range r.doc.ToDos {
		if t.AccountID != id {
			kept = append(kept, t)
		}
	}
	r.doc.ToDos = kept
	r.persist(ctx)
}

// SaveProspect merges or creates a prospect under the account. It reports
// false, changing nothing, when the account does not exist.
func (r *Repository) SaveProspect(ctx context.Context, accountID string, fields model.ProspectFields) (model.Prospect, bool) {
	ai := r.accountIndex(accountID)
	if ai < 0 {
		return model.Prospect{}, false
	}
	account := &r.doc.Accounts[ai]
	if pi := account.FindProspect(fields.ID); fields.ID != "" && pi >= 0 {
		fields.Apply(&account.Prospects[pi])
		r.persist(ctx)
		return account.Prospects[pi].Clone(), true
	}
	prospect := model.Prospect{ID: r.newID(), Interactions: []model.Interaction{}}
	fields.Apply(&prospect)
	account.Prospects = append(account.Prospects, prospect)
	r.persist(ctx)
	return prospect.Clone(), true
}

// DeleteProspect removes the prospect and its interactions. To-dos that
// reference it are kept.
func (r *Repository) DeleteProspect(ctx context.Context, accountID, prospectID string) {
	ai, pi := r.prospectIndex(accountID, prospectID)
	if ai < 0 || pi < 0 {
		return
	}
	account := &r.doc.Accounts[ai]
	account.Prospects = append(account.Prospects[:pi], account.Prospects[pi+1:]...)
	r.persist(ctx)
}

// AddInteraction appends a new interaction to the prospect, bumps the
// matching counters and, when todo is non-nil, records the follow-up. The
// document is persisted once after all changes. It reports false when the
// prospect cannot be resolved.
func (r *Repository) AddInteraction(ctx context.Context, accountID, prospectID string, fields model.InteractionFields, todo *model.ToDo) (model.Interaction, bool) {
	ai, pi := r.prospectIndex(accountID, prospectID)
	if ai < 0 || pi < 0 {
		return model.Interaction{}, false
	}
	interaction := model.Interaction{
		ID:        r.newID(),
		Type:      fields.Type,
		Feedback:  fields.Feedback,
		Notes:     fields.Notes,
		Timestamp: r.now().UTC(),
	}
	prospect := &r.doc.Accounts[ai].Prospects[pi]
	prospect.Interactions = append(prospect.Interactions, interaction)

	applyTriggers(&r.doc.Stats, r.triggers, fields)

	if todo != nil {
		item := *todo
		item.ID = r.newID()
		r.doc.ToDos = append(r.doc.ToDos, item)
	}
	r.persist(ctx)
	return interaction, true
}

// CompleteToDo marks the to-do done. It reports false for unknown ids.
func (r *Repository) CompleteToDo(ctx context.Context, id string) bool {
	for i := range r.doc.ToDos {
		if r.doc.ToDos[i].ID == id {
			if r.doc.ToDos[i].Completed {
				return true
			}
			r.doc.ToDos[i].Completed = true
			r.persist(ctx)
			return true
		}
	}
	return false
}

// applyTriggers fires at most one trigger per axis, the first match in table order.
func applyTriggers(stats *model.Stats, triggers []model.StatTrigger, fields model.InteractionFields) {
	fired := make(map[model.Axis]bool, 2)
	for _, t := range triggers {
		if fired[t.Axis] {
			continue
		}
		var value string
		switch t.Axis {
		case model.AxisType:
			value = string(fields.Type)
		case model.AxisFeedback:
			value = string(fields.Feedback)
		}
		if value == t.Value {
			stats.Increment(t.Counter)
			fired[t.Axis] = true
		}
	}
}

func sanitizeTriggers(triggers []model.StatTrigger, logger *zap.Logger) []model.StatTrigger {
	valid := make([]model.StatTrigger, 0, len(triggers))
	for _, t := range triggers {
		if !t.Valid() {
			logger.Warn("Ignoring invalid stats trigger",
				zap.String("axis", string(t.Axis)),
				zap.String("value", t.Value),
				zap.String("counter", string(t.Counter)))
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) == 0 {
		return model.DefaultStatTriggers()
	}
	return valid
}
