package usecase

import (
	"context"
	"strings"

	"notevault/apperr"
	"notevault/dto"
	"notevault/model"
	"notevault/repository"
	"notevault/utils"
)

const (
	maxTitleLength   = 256
	maxContentLength = 50000
)

type NotesService struct {
	NotesRepo *repository.NotesRepo
}

func (s *NotesService) validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.With(apperr.ErrBadRequest, "note title is required")
	}
	if len(title) > maxTitleLength {
		return "", apperr.With(apperr.ErrBadRequest, "note title exceeds maximum length")
	}
	return title, nil
}

func (s *NotesService) validateContent(content string) error {
	if len(content) > maxContentLength {
		return apperr.With(apperr.ErrBadRequest, "note content exceeds maximum length")
	}
	return nil
}

func (s *NotesService) CreateNote(ctx context.Context, userID string, req dto.CreateNoteRequest) (*model.Note, error) {
	title, err := s.validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	req.Title = title

	if err := s.validateContent(req.Content); err != nil {
		return nil, err
	}

	note, err := s.NotesRepo.CreateNote(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("create")
	return note, nil
}

func (s *NotesService) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.NotesRepo.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("get")
	return note, nil
}

func (s *NotesService) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	notes, err := s.NotesRepo.GetUserNotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("list")
	return notes, nil
}

func (s *NotesService) UpdateNote(ctx context.Context, userID, noteID string, req dto.UpdateNoteRequest) (*model.Note, error) {
	if req.Title != nil {
		title, err := s.validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		req.Title = &title
	}
	if req.Content != nil {
		if err := s.validateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	note, err := s.NotesRepo.UpdateNote(ctx, userID, noteID, req)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("update")
	return note, nil
}

func (s *NotesService) DeleteNote(ctx context.Context, userID, noteID string) error {
	if err := s.NotesRepo.DeleteNote(ctx, userID, noteID); err != nil {
		return err
	}
	utils.TrackNoteOperation("delete")
	return nil
}
