package repository

import (
	"context"
	"errors"
	"time"

	"notevault/apperr"
	"notevault/dto"
	"notevault/model"
	"notevault/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	notesCollection = "notes"
	ownerField      = "user_id"
)

// NotesRepo implements owner-scoped note CRUD over the generic document
// store. Every operation takes the caller's resolved user id; a note that is
// absent and a note owned by someone else are both reported as
// apperr.ErrNoteNotFound, so a caller cannot probe for other users' notes.
type NotesRepo struct {
	Store store.DocumentStore

	now func() time.Time
}

func GetNotesRepo(s store.DocumentStore) *NotesRepo {
	return &NotesRepo{Store: s, now: time.Now}
}

// CreateNote stores a new note for the given user. The owner and both
// timestamps are assigned here; nothing owner- or time-related is taken from
// the request.
func (r *NotesRepo) CreateNote(ctx context.Context, userID string, req dto.CreateNoteRequest) (*model.Note, error) {
	now := r.timestamp()

	fields := store.Fields{
		ownerField:   userID,
		"title":      req.Title,
		"content":    req.Content,
		"is_pinned":  req.IsPinned,
		"created_at": now,
		"updated_at": now,
	}

	id, err := r.Store.Add(ctx, notesCollection, fields)
	if err != nil {
		return nil, err
	}

	return &model.Note{
		ID:        id,
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		IsPinned:  req.IsPinned,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetNote is the single ownership-checked lookup every other operation goes
// through. Wrong owner and missing document are indistinguishable.
func (r *NotesRepo) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	doc, err := r.Store.Get(ctx, notesCollection, noteID)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc[ownerField] != userID {
		return nil, apperr.ErrNoteNotFound
	}
	return noteFromFields(doc), nil
}

// GetUserNotes lists the caller's notes, newest first by created_at.
func (r *NotesRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	docs, err := r.Store.ListWhere(ctx, notesCollection, ownerField, userID, "created_at", true)
	if err != nil {
		return nil, err
	}

	notes := make([]*model.Note, len(docs))
	for i, doc := range docs {
		notes[i] = noteFromFields(doc)
	}
	return notes, nil
}

// UpdateNote applies a partial update. Fields left nil in the request are not
// touched; updated_at is refreshed on every successful call, even when the
// request carries no fields. ID, owner and created_at never change.
func (r *NotesRepo) UpdateNote(ctx context.Context, userID, noteID string, req dto.UpdateNoteRequest) (*model.Note, error) {
	if _, err := r.GetNote(ctx, userID, noteID); err != nil {
		return nil, err
	}

	fields := store.Fields{"updated_at": r.timestamp()}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.IsPinned != nil {
		fields["is_pinned"] = *req.IsPinned
	}

	if err := r.Store.Update(ctx, notesCollection, noteID, fields); err != nil {
		// The note can vanish between the ownership read and the write.
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperr.ErrNoteNotFound
		}
		return nil, err
	}

	return r.GetNote(ctx, userID, noteID)
}

// DeleteNote removes the caller's note after the same ownership check as
// GetNote.
func (r *NotesRepo) DeleteNote(ctx context.Context, userID, noteID string) error {
	if _, err := r.GetNote(ctx, userID, noteID); err != nil {
		return err
	}
	return r.Store.Delete(ctx, notesCollection, noteID)
}

// timestamp returns the current time in UTC at millisecond precision, which
// is what the store round-trips.
func (r *NotesRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

func noteFromFields(doc store.Fields) *model.Note {
	return &model.Note{
		ID:        stringField(doc, "id"),
		UserID:    stringField(doc, ownerField),
		Title:     stringField(doc, "title"),
		Content:   stringField(doc, "content"),
		IsPinned:  boolField(doc, "is_pinned"),
		CreatedAt: coerceTime(doc["created_at"]),
		UpdatedAt: coerceTime(doc["updated_at"]),
	}
}

// coerceTime normalizes a store-native timestamp value to a UTC time.Time.
// Absent stays absent (zero value); it is never replaced with a synthetic
// "now".
func coerceTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case primitive.DateTime:
		return t.Time().UTC()
	default:
		return time.Time{}
	}
}

func stringField(doc store.Fields, key string) string {
	s, _ := doc[key].(string)
	return s
}

func boolField(doc store.Fields, key string) bool {
	b, _ := doc[key].(bool)
	return b
}
