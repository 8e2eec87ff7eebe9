package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/tracker"
)

type reorderRequest struct {
	TaskIDs []int64 `json:"task_ids" binding:"required"`
}

type subtaskRequest struct {
	Title string `json:"title"`
}

// pathID parses an integer path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.svc.Ping(c.Request.Context()); err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDueToday(c *gin.Context) {
	views, err := s.svc.DueToday(c.Request.Context(), userID(c))
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleAllTasks(c *gin.Context) {
	tasks, err := s.svc.AllTasks(c.Request.Context(), userID(c))
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := s.svc.GetTask(c.Request.Context(), userID(c), id)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in tracker.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	task, err := s.svc.CreateTask(c.Request.Context(), userID(c), in)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in tracker.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	task, err := s.svc.UpdateTask(c.Request.Context(), userID(c), id, in)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.svc.DeleteTask(c.Request.Context(), userID(c), id); err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleArchive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	active, err := s.svc.ToggleArchive(c.Request.Context(), userID(c), id)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": active})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	completed, err := s.svc.ToggleTask(c.Request.Context(), userID(c), id)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

func (s *Server) handleReorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := s.svc.ReorderTasks(c.Request.Context(), userID(c), req.TaskIDs); err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	st, err := s.svc.CreateSubtask(c.Request.Context(), userID(c), id, req.Title)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *Server) handleToggleSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}
	completed, err := s.svc.ToggleSubtask(c.Request.Context(), userID(c), id, subID)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}
	var patch model.SubtaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	st, err := s.svc.UpdateSubtask(c.Request.Context(), userID(c), id, subID, patch)
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subID, ok := pathID(c, "subtaskId")
	if !ok {
		return
	}
	if err := s.svc.DeleteSubtask(c.Request.Context(), userID(c), id, subID); err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.svc.Stats(c.Request.Context(), userID(c))
	if err != nil {
		HandleError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
