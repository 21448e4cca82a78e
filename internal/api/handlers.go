package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dailyquest/internal/engine"
)

type createTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// updateTaskRequest carries optional fields; absent fields are left alone.
type updateTaskRequest struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"is_pinned"`
}

type pinRequest struct {
	Pinned *bool `json:"is_pinned"`
}

// GET /api/tasks
func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.svc.ListTasks(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"today": s.svc.Today(),
	})
}

// POST /api/tasks
func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.svc.CreateTask(c.Request.Context(), c.GetString(ctxUserID), req.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// PATCH /api/tasks/:id
func (s *Server) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == nil && req.Pinned == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	task, err := s.svc.UpdateTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), engine.TaskPatch{
		Title:  req.Title,
		Pinned: req.Pinned,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DELETE /api/tasks/:id
func (s *Server) deleteTask(c *gin.Context) {
	res, err := s.svc.DeleteTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/tasks/:id/complete
func (s *Server) completeTask(c *gin.Context) {
	res, err := s.svc.CompleteTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/tasks/:id/undo
func (s *Server) undoTask(c *gin.Context) {
	res, err := s.svc.UndoTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/tasks/:id/toggle
func (s *Server) toggleTask(c *gin.Context) {
	res, err := s.svc.ToggleTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/tasks/:id/pin
// An empty body pins; {"is_pinned": false} unpins.
func (s *Server) pinTask(c *gin.Context) {
	var req pinRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	pinned := true
	if req.Pinned != nil {
		pinned = *req.Pinned
	}
	task, err := s.svc.PinTask(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"), pinned)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /api/stats
func (s *Server) stats(c *gin.Context) {
	res, err := s.svc.Status(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/session/start
func (s *Server) startSession(c *gin.Context) {
	res, err := s.svc.StartSession(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /api/session/unlock
func (s *Server) unlock(c *gin.Context) {
	sess, err := s.svc.Unlock(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/rewards
func (s *Server) listRewards(c *gin.Context) {
	rewards, err := s.svc.Inventory(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

// POST /api/rewards/:id/redeem
func (s *Server) redeemReward(c *gin.Context) {
	res, err := s.svc.RedeemReward(c.Request.Context(), c.GetString(ctxUserID), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/calendar?from=2025-03-01&to=2025-03-31
// Without a range the last seven days are returned.
func (s *Server) calendar(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(ctxUserID)
	from, to := c.Query("from"), c.Query("to")

	if from == "" && to == "" {
		days, err := s.svc.WeekStrip(ctx, userID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"days": days})
		return
	}
	if to == "" {
		to = s.svc.Today()
	}
	// Validated here so that bad or oversized ranges are a 400, not a 500.
	if _, err := engine.DaysBetween(from, to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	days, err := s.svc.Calendar(ctx, userID, from, to)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GET /api/leaderboard?limit=10
func (s *Server) leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(engine.DefaultLeaderboardSize)))
	if err != nil || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}
	entries, err := s.svc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GET /api/achievements
func (s *Server) achievements(c *gin.Context) {
	list, err := s.svc.Achievements(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": list})
}

// GET /api/blueprints
func (s *Server) listBlueprints(c *gin.Context) {
	list, err := s.svc.Blueprints(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blueprints": list})
}

// POST /api/blueprints/:code/accept
func (s *Server) acceptBlueprint(c *gin.Context) {
	task, err := s.svc.AcceptBlueprint(c.Request.Context(), c.GetString(ctxUserID), c.Param("code"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
