package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/streak"
	"github.com/eduagenda/eduagenda/utils"
)

// UserController serves cross-cutting views over a user's data.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new controller instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Stats summarizes the user's todos, events and achievements in one payload.
func (u *UserController) Stats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	cacheKey := statsCachePrefix(userID) + "overview"
	if b, hit := utils.CacheGetBytes(cacheKey); hit {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	now := time.Now()
	counts := map[string]int64{}
	type countQuery struct {
		name  string
		model interface{}
		where string
		args  []interface{}
	}
	queries := []countQuery{
		{"todos_total", &models.Todo{}, "user_id = ?", []interface{}{userID}},
		{"todos_done", &models.Todo{}, "user_id = ? AND done = ?", []interface{}{userID, true}},
		{"todos_overdue", &models.Todo{}, "user_id = ? AND done = ? AND due_at < ?", []interface{}{userID, false, now}},
		{"events_total", &models.Event{}, "user_id = ?", []interface{}{userID}},
		{"events_completed", &models.Event{}, "user_id = ? AND is_completed = ?", []interface{}{userID, true}},
	}
	for _, q := range queries {
		var n int64
		if err := u.db.Model(q.model).Where(q.where, q.args...).Count(&n).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to compute statistics")
			return
		}
		counts[q.name] = n
	}

	var achievements []models.Achievement
	if err := u.db.Where("user_id = ?", userID).Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load achievements")
		return
	}
	result := streak.Compute(achievements, now)

	data := gin.H{
		"counts":             counts,
		"achievements_total": len(achievements),
		"total_points":       streak.TotalPoints(achievements),
		"counts_by_category": streak.CountByCategory(achievements),
		"current_streak":     result.Current,
		"max_streak":         result.Max,
	}

	body := utils.JSONResponse{Code: 0, Message: "success", Data: data}
	utils.CacheSetJSON(cacheKey, body, statsCacheTTL)
	ctx.JSON(http.StatusOK, body)
}

// Dashboard returns the data a landing page needs in one round trip: today's
// todos, overdue todos, the next week of events and recent achievements.
func (u *UserController) Dashboard(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	weekEnd := now.Add(7 * 24 * time.Hour)

	var todayTodos, overdueTodos []models.Todo
	if err := u.db.Where("user_id = ? AND done = ? AND due_at >= ? AND due_at < ?", userID, false, dayStart, dayEnd).
		Order("due_at ASC, id ASC").Find(&todayTodos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load today's todos")
		return
	}
	if err := u.db.Where("user_id = ? AND done = ? AND due_at < ?", userID, false, now).
		Order("due_at ASC, id ASC").Find(&overdueTodos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to load overdue todos")
		return
	}

	var upcomingEvents []models.Event
	if err := u.db.Where("user_id = ? AND is_completed = ? AND occurs_at >= ? AND occurs_at < ?", userID, false, now, weekEnd).
		Order("occurs_at ASC, id ASC").Find(&upcomingEvents).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to load upcoming events")
		return
	}

	var recent []models.Achievement
	if err := u.db.Where("user_id = ?", userID).
		Order("achieved_at DESC, id DESC").Limit(5).Find(&recent).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50055, "failed to load recent achievements")
		return
	}

	var all []models.Achievement
	if err := u.db.Where("user_id = ?", userID).Find(&all).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50056, "failed to load achievements")
		return
	}
	result := streak.Compute(all, now)

	utils.Success(ctx, gin.H{
		"today_todos":         withTodoStatus(todayTodos, now),
		"overdue_todos":       withTodoStatus(overdueTodos, now),
		"upcoming_events":     withEventStatus(upcomingEvents, now),
		"recent_achievements": recent,
		"current_streak":      result.Current,
		"max_streak":          result.Max,
	})
}

// DeleteAccount removes the user and everything they own inside one
// transaction.
func (u *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	err := u.db.Transaction(func(tx *gorm.DB) error {
		todoIDs := tx.Model(&models.Todo{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("todo_id IN (?)", todoIDs).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Todo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Achievement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50057, "failed to delete account")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix(userID))
	utils.Success(ctx, gin.H{"deleted": userID})
}
