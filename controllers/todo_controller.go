package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/utils"
)

// TodoController manages task CRUD for the authenticated user.
type TodoController struct {
	db *gorm.DB
}

// NewTodoController creates a new controller instance.
func NewTodoController(db *gorm.DB) *TodoController {
	return &TodoController{db: db}
}

type todoRequest struct {
	Text        string     `json:"text" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=500"`
	DueAt       time.Time  `json:"due_at" binding:"required"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Done        *bool      `json:"done"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (r *todoRequest) validate() (int, string) {
	if r.Priority != "" && !contains(models.TodoPriorities, r.Priority) {
		return 40011, "invalid priority"
	}
	if r.Category != "" && !contains(models.TodoCategories, r.Category) {
		return 40012, "invalid category"
	}
	return 0, ""
}

// List returns the user's todos with optional filters and pagination.
// Supported filters: category, priority, done, from, to (RFC3339 due range).
func (t *TodoController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	query := t.db.Model(&models.Todo{}).Where("user_id = ?", userID)
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if priority := ctx.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if done := ctx.Query("done"); done == "true" || done == "false" {
		query = query.Where("done = ?", done == "true")
	}
	if from, ok := parseTimeQuery(ctx, "from"); ok {
		query = query.Where("due_at >= ?", from)
	}
	if to, ok := parseTimeQuery(ctx, "to"); ok {
		query = query.Where("due_at < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count todos")
		return
	}

	page, pageSize := parsePagination(ctx)
	var todos []models.Todo
	if err := query.Preload("Subtasks").Order("due_at ASC, id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&todos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list todos")
		return
	}

	utils.Success(ctx, gin.H{
		"items":     withTodoStatus(todos, time.Now()),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single todo owned by the user.
func (t *TodoController) Get(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, todoView(*todo, time.Now()))
}

// Create adds a new todo.
func (t *TodoController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req todoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	todo := models.Todo{
		UserID:      userID,
		Text:        utils.Sanitize(req.Text),
		Description: utils.Sanitize(req.Description),
		DueAt:       req.DueAt,
		Priority:    defaultString(req.Priority, "medium"),
		Category:    defaultString(req.Category, "personal"),
	}
	if err := t.db.Create(&todo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to create todo")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "success", todoView(todo, time.Now()))
}

// Update replaces the mutable fields of a todo.
func (t *TodoController) Update(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	var req todoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	todo.Text = utils.Sanitize(req.Text)
	todo.Description = utils.Sanitize(req.Description)
	todo.DueAt = req.DueAt
	if req.Priority != "" {
		todo.Priority = req.Priority
	}
	if req.Category != "" {
		todo.Category = req.Category
	}
	if req.Done != nil {
		setTodoDone(todo, *req.Done, time.Now())
	}

	if err := t.db.Save(todo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update todo")
		return
	}
	utils.Success(ctx, todoView(*todo, time.Now()))
}

// Toggle flips the done flag, stamping or clearing CompletedAt.
func (t *TodoController) Toggle(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	setTodoDone(todo, !todo.Done, time.Now())
	if err := t.db.Save(todo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to toggle todo")
		return
	}
	utils.Success(ctx, todoView(*todo, time.Now()))
}

// Complete marks a todo done and cascades to its open subtasks. Completing an
// already-done todo is a no-op.
func (t *TodoController) Complete(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	if !todo.Done {
		now := time.Now()
		todo.MarkCompleted(now)
		err := t.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Todo{}).Where("id = ?", todo.ID).
				Updates(map[string]interface{}{"done": true, "completed_at": now}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Subtask{}).Where("todo_id = ? AND done = ?", todo.ID, false).
				Updates(map[string]interface{}{"done": true, "completed_at": now}).Error
		})
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to complete todo")
			return
		}
	}
	utils.Success(ctx, todoView(*todo, time.Now()))
}

// Delete removes a todo owned by the user.
func (t *TodoController) Delete(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	if err := t.db.Delete(todo).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to delete todo")
		return
	}
	utils.Success(ctx, gin.H{"deleted": todo.ID})
}

// Today lists incomplete todos due during the current UTC day.
func (t *TodoController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var todos []models.Todo
	if err := t.db.Where("user_id = ? AND done = ? AND due_at >= ? AND due_at < ?", userID, false, start, end).
		Order("due_at ASC, id ASC").Find(&todos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to list today's todos")
		return
	}
	utils.Success(ctx, withTodoStatus(todos, now))
}

// Overdue lists incomplete todos whose due time has passed.
func (t *TodoController) Overdue(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now()
	var todos []models.Todo
	if err := t.db.Where("user_id = ? AND done = ? AND due_at < ?", userID, false, now).
		Order("due_at ASC, id ASC").Find(&todos).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to list overdue todos")
		return
	}
	utils.Success(ctx, withTodoStatus(todos, now))
}

// AddSubtask appends a checklist entry to a todo.
func (t *TodoController) AddSubtask(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required,max=100"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid request payload")
		return
	}

	subtask := models.Subtask{TodoID: todo.ID, Text: utils.Sanitize(req.Text)}
	if err := t.db.Create(&subtask).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to add subtask")
		return
	}

	todo.Subtasks = append(todo.Subtasks, subtask)
	utils.Respond(ctx, http.StatusCreated, 0, "success", todoView(*todo, time.Now()))
}

// ToggleSubtask flips one subtask's done flag. The parent todo's flag is not
// touched; progress is derived, not stored.
func (t *TodoController) ToggleSubtask(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	var subtask *models.Subtask
	for i := range todo.Subtasks {
		if subtaskParam(ctx) == todo.Subtasks[i].ID {
			subtask = &todo.Subtasks[i]
			break
		}
	}
	if subtask == nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "subtask not found")
		return
	}

	subtask.Done = !subtask.Done
	if subtask.Done {
		now := time.Now()
		subtask.CompletedAt = &now
	} else {
		subtask.CompletedAt = nil
	}
	if err := t.db.Save(subtask).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to toggle subtask")
		return
	}
	utils.Success(ctx, todoView(*todo, time.Now()))
}

// DeleteSubtask removes a checklist entry from a todo.
func (t *TodoController) DeleteSubtask(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	res := t.db.Where("id = ? AND todo_id = ?", subtaskParam(ctx), todo.ID).Delete(&models.Subtask{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete subtask")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40411, "subtask not found")
		return
	}
	utils.Success(ctx, gin.H{"deleted": subtaskParam(ctx)})
}

// Progress reports the todo's completion percentage derived from subtasks.
func (t *TodoController) Progress(ctx *gin.Context) {
	todo, ok := t.findOwned(ctx)
	if !ok {
		return
	}

	completed := 0
	for _, s := range todo.Subtasks {
		if s.Done {
			completed++
		}
	}
	utils.Success(ctx, gin.H{
		"progress":           todo.Progress(),
		"subtasks_total":     len(todo.Subtasks),
		"subtasks_completed": completed,
	})
}

func subtaskParam(ctx *gin.Context) uint {
	id, _ := strconv.ParseUint(ctx.Param("subtaskId"), 10, 32)
	return uint(id)
}

// findOwned loads the todo named by the :id param, scoped to the caller.
// On failure it writes the error response and returns ok=false.
func (t *TodoController) findOwned(ctx *gin.Context) (*models.Todo, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return nil, false
	}

	var todo models.Todo
	if err := t.db.Preload("Subtasks").Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&todo).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "todo not found")
		return nil, false
	}
	return &todo, true
}

func setTodoDone(todo *models.Todo, done bool, now time.Time) {
	todo.Done = done
	if done {
		todo.CompletedAt = &now
	} else {
		todo.CompletedAt = nil
	}
}

func todoView(todo models.Todo, now time.Time) gin.H {
	return gin.H{"todo": todo, "status": todo.Status(now), "progress": todo.Progress()}
}

func withTodoStatus(todos []models.Todo, now time.Time) []gin.H {
	out := make([]gin.H, 0, len(todos))
	for i := range todos {
		out = append(out, todoView(todos[i], now))
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
