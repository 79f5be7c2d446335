package dto

import (
	"time"

	"notevault/model"
)

type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=256"`
	Content  string `json:"content" binding:"max=50000"`
	IsPinned bool   `json:"is_pinned"`
}

// UpdateNoteRequest is a partial update. Nil fields are left untouched on the
// stored note; absent and explicit null are equivalent.
type UpdateNoteRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=256"`
	Content  *string `json:"content" binding:"omitempty,max=50000"`
	IsPinned *bool   `json:"is_pinned"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPinned  bool      `json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Convert a single note to NoteResponse
func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		IsPinned:  note.IsPinned,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// Convert slice of notes to slice of NoteResponse
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}
