package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/streak"
	"github.com/eduagenda/eduagenda/utils"
)

const statsCacheTTL = 5 * time.Minute

// AchievementController manages accomplishments and the statistics derived
// from them.
type AchievementController struct {
	db *gorm.DB
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db}
}

type achievementRequest struct {
	Title       string    `json:"title" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=500"`
	AchievedAt  time.Time `json:"achieved_at" binding:"required"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Points      int       `json:"points"`
	Notes       string    `json:"notes" binding:"max=1000"`
}

func (r *achievementRequest) validate() (int, string) {
	if r.Category != "" && !contains(models.AchievementCategories, r.Category) {
		return 40041, "invalid category"
	}
	if r.Difficulty != "" && !contains(models.AchievementDifficulties, r.Difficulty) {
		return 40042, "invalid difficulty"
	}
	if r.Points != 0 && (r.Points < 1 || r.Points > 1000) {
		return 40043, "points must be between 1 and 1000"
	}
	return 0, ""
}

// List returns the user's achievements with optional filters and pagination.
func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	query := a.db.Model(&models.Achievement{}).Where("user_id = ?", userID)
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty := ctx.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if from, ok := parseTimeQuery(ctx, "from"); ok {
		query = query.Where("achieved_at >= ?", from)
	}
	if to, ok := parseTimeQuery(ctx, "to"); ok {
		query = query.Where("achieved_at < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to count achievements")
		return
	}

	page, pageSize := parsePagination(ctx)
	var achievements []models.Achievement
	if err := query.Order("achieved_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list achievements")
		return
	}

	utils.Success(ctx, gin.H{
		"items":     achievements,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single achievement owned by the user.
func (a *AchievementController) Get(ctx *gin.Context) {
	achievement, ok := a.findOwned(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, achievement)
}

// Create records a new achievement and invalidates the cached statistics.
func (a *AchievementController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req achievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	achievement := models.Achievement{
		UserID:      userID,
		Title:       utils.Sanitize(req.Title),
		Description: utils.Sanitize(req.Description),
		AchievedAt:  req.AchievedAt,
		Category:    defaultString(req.Category, "personal"),
		Difficulty:  defaultString(req.Difficulty, "medium"),
		Points:      req.Points,
		Notes:       utils.Sanitize(req.Notes),
	}
	if achievement.Points == 0 {
		achievement.Points = 10
	}
	if err := a.db.Create(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to create achievement")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix(userID))
	utils.Respond(ctx, http.StatusCreated, 0, "success", achievement)
}

// Update replaces the mutable fields of an achievement.
func (a *AchievementController) Update(ctx *gin.Context) {
	achievement, ok := a.findOwned(ctx)
	if !ok {
		return
	}

	var req achievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	achievement.Title = utils.Sanitize(req.Title)
	achievement.Description = utils.Sanitize(req.Description)
	achievement.AchievedAt = req.AchievedAt
	achievement.Notes = utils.Sanitize(req.Notes)
	if req.Category != "" {
		achievement.Category = req.Category
	}
	if req.Difficulty != "" {
		achievement.Difficulty = req.Difficulty
	}
	if req.Points > 0 {
		achievement.Points = req.Points
	}

	if err := a.db.Save(achievement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to update achievement")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix(achievement.UserID))
	utils.Success(ctx, achievement)
}

// Delete removes an achievement owned by the user.
func (a *AchievementController) Delete(ctx *gin.Context) {
	achievement, ok := a.findOwned(ctx)
	if !ok {
		return
	}

	if err := a.db.Delete(achievement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to delete achievement")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix(achievement.UserID))
	utils.Success(ctx, gin.H{"deleted": achievement.ID})
}

// Recent lists the user's most recent achievements, newest first.
func (a *AchievementController) Recent(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var achievements []models.Achievement
	if err := a.db.Where("user_id = ?", userID).
		Order("achieved_at DESC, id DESC").Limit(10).
		Find(&achievements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to list recent achievements")
		return
	}
	utils.Success(ctx, achievements)
}

// Stats returns total points, per-category counts and streaks. Results are
// cached per user and invalidated by any achievement write.
func (a *AchievementController) Stats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	cacheKey := statsCachePrefix(userID) + "summary"
	if b, hit := utils.CacheGetBytes(cacheKey); hit {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	stats, err := a.computeStats(userID, time.Now())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to compute statistics")
		return
	}

	body := utils.JSONResponse{Code: 0, Message: "success", Data: stats}
	utils.CacheSetJSON(cacheKey, body, statsCacheTTL)
	ctx.JSON(http.StatusOK, body)
}

// Streak returns only the current and maximum streak lengths.
func (a *AchievementController) Streak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	achievements, err := a.loadAll(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to load achievements")
		return
	}

	result := streak.Compute(achievements, time.Now())
	utils.Success(ctx, gin.H{
		"current_streak": result.Current,
		"max_streak":     result.Max,
	})
}

func (a *AchievementController) computeStats(userID uint, now time.Time) (gin.H, error) {
	achievements, err := a.loadAll(userID)
	if err != nil {
		return nil, err
	}

	result := streak.Compute(achievements, now)
	return gin.H{
		"total":              len(achievements),
		"total_points":       streak.TotalPoints(achievements),
		"counts_by_category": streak.CountByCategory(achievements),
		"current_streak":     result.Current,
		"max_streak":         result.Max,
	}, nil
}

func (a *AchievementController) loadAll(userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := a.db.Where("user_id = ?", userID).Find(&achievements).Error
	return achievements, err
}

func (a *AchievementController) findOwned(ctx *gin.Context) (*models.Achievement, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return nil, false
	}

	var achievement models.Achievement
	if err := a.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "achievement not found")
		return nil, false
	}
	return &achievement, true
}

func statsCachePrefix(userID uint) string {
	return fmt.Sprintf("eduagenda:stats:%d:", userID)
}
