package handler

import (
	"notevault/dto"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
)

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation")
		utils.BadRequest(c, "invalid request body")
		return
	}

	userID := c.GetString("user_id")
	note, err := notesService.CreateNote(c.Request.Context(), userID, req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, dto.ToNoteResponse(note))
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	note, err := notesService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListNotes(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("validation")
		utils.BadRequest(c, "invalid request body")
		return
	}

	note, err := notesService.UpdateNote(c.Request.Context(), userID, noteID, req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("user_id")

	if err := notesService.DeleteNote(c.Request.Context(), userID, noteID); err != nil {
		utils.Error(c, err)
		return
	}

	utils.NoContent(c)
}
