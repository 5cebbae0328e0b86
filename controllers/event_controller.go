package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/utils"
)

// EventController manages calendar entries for the authenticated user.
type EventController struct {
	db *gorm.DB
}

// NewEventController creates a new controller instance.
func NewEventController(db *gorm.DB) *EventController {
	return &EventController{db: db}
}

type eventRequest struct {
	Title              string     `json:"title" binding:"required,max=100"`
	Description        string     `json:"description" binding:"max=500"`
	OccursAt           time.Time  `json:"occurs_at" binding:"required"`
	DurationMin        int        `json:"duration_min"`
	Location           string     `json:"location" binding:"max=200"`
	Category           string     `json:"category"`
	Priority           string     `json:"priority"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceType     string     `json:"recurrence_type"`
	RecurrenceInterval int        `json:"recurrence_interval"`
	RecurrenceEnd      *time.Time `json:"recurrence_end"`
}

func (r *eventRequest) validate() (int, string) {
	if r.Priority != "" && !contains(models.TodoPriorities, r.Priority) {
		return 40021, "invalid priority"
	}
	if r.Category != "" && !contains(models.TodoCategories, r.Category) {
		return 40022, "invalid category"
	}
	if r.DurationMin != 0 && (r.DurationMin < 15 || r.DurationMin > 480) {
		return 40023, "duration must be between 15 and 480 minutes"
	}
	if r.IsRecurring {
		if !contains(models.RecurrenceTypes, r.RecurrenceType) {
			return 40025, "invalid recurrence type"
		}
		if r.RecurrenceInterval < 0 {
			return 40026, "recurrence interval must be at least 1"
		}
	}
	return 0, ""
}

// List returns the user's events with optional filters and pagination.
func (e *EventController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	query := e.db.Model(&models.Event{}).Where("user_id = ?", userID)
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if completed := ctx.Query("completed"); completed == "true" || completed == "false" {
		query = query.Where("is_completed = ?", completed == "true")
	}
	if from, ok := parseTimeQuery(ctx, "from"); ok {
		query = query.Where("occurs_at >= ?", from)
	}
	if to, ok := parseTimeQuery(ctx, "to"); ok {
		query = query.Where("occurs_at < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count events")
		return
	}

	page, pageSize := parsePagination(ctx)
	var events []models.Event
	if err := query.Order("occurs_at ASC, id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&events).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list events")
		return
	}

	utils.Success(ctx, gin.H{
		"items":     withEventStatus(events, time.Now()),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single event owned by the user.
func (e *EventController) Get(ctx *gin.Context) {
	event, ok := e.findOwned(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, eventView(*event, time.Now()))
}

// Create adds a new event.
func (e *EventController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	event := models.Event{
		UserID:      userID,
		Title:       utils.Sanitize(req.Title),
		Description: utils.Sanitize(req.Description),
		OccursAt:    req.OccursAt,
		DurationMin: req.DurationMin,
		Location:    utils.Sanitize(req.Location),
		Category:    defaultString(req.Category, "personal"),
		Priority:    defaultString(req.Priority, "medium"),
	}
	if event.DurationMin == 0 {
		event.DurationMin = 60
	}
	applyRecurrence(&event, &req)
	if err := e.db.Create(&event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create event")
		return
	}

	utils.Respond(ctx, http.StatusCreated, 0, "success", eventView(event, time.Now()))
}

// Update replaces the mutable fields of an event.
func (e *EventController) Update(ctx *gin.Context) {
	event, ok := e.findOwned(ctx)
	if !ok {
		return
	}

	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	event.Title = utils.Sanitize(req.Title)
	event.Description = utils.Sanitize(req.Description)
	event.OccursAt = req.OccursAt
	event.Location = utils.Sanitize(req.Location)
	if req.DurationMin > 0 {
		event.DurationMin = req.DurationMin
	}
	if req.Category != "" {
		event.Category = req.Category
	}
	if req.Priority != "" {
		event.Priority = req.Priority
	}
	applyRecurrence(event, &req)

	if err := e.db.Save(event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update event")
		return
	}
	utils.Success(ctx, eventView(*event, time.Now()))
}

// Complete marks an event as done. Completing twice is a no-op.
func (e *EventController) Complete(ctx *gin.Context) {
	event, ok := e.findOwned(ctx)
	if !ok {
		return
	}

	if !event.IsCompleted {
		now := time.Now()
		event.IsCompleted = true
		event.CompletedAt = &now
		if err := e.db.Save(event).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to complete event")
			return
		}
	}
	utils.Success(ctx, eventView(*event, time.Now()))
}

// Delete removes an event owned by the user.
func (e *EventController) Delete(ctx *gin.Context) {
	event, ok := e.findOwned(ctx)
	if !ok {
		return
	}

	if err := e.db.Delete(event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to delete event")
		return
	}
	utils.Success(ctx, gin.H{"deleted": event.ID})
}

// Upcoming lists incomplete events occurring within the next 7 days.
func (e *EventController) Upcoming(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	now := time.Now()
	limit := now.Add(7 * 24 * time.Hour)
	var events []models.Event
	if err := e.db.Where("user_id = ? AND is_completed = ? AND occurs_at >= ? AND occurs_at < ?", userID, false, now, limit).
		Order("occurs_at ASC, id ASC").Find(&events).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to list upcoming events")
		return
	}
	utils.Success(ctx, withEventStatus(events, now))
}

// Range lists event occurrences between the required from/to RFC3339 query
// parameters. Recurring events are expanded into their occurrences inside the
// window, including ones whose base time precedes it.
func (e *EventController) Range(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	from, okFrom := parseTimeQuery(ctx, "from")
	to, okTo := parseTimeQuery(ctx, "to")
	if !okFrom || !okTo || !to.After(from) {
		utils.Error(ctx, http.StatusBadRequest, 40024, "from and to must be valid RFC3339 timestamps with from < to")
		return
	}

	// Recurring events that started before the window can still occur inside
	// it, so only the upper bound filters the query.
	var events []models.Event
	if err := e.db.Where("user_id = ? AND occurs_at < ? AND (is_recurring = ? OR occurs_at >= ?)", userID, to, true, from).
		Order("occurs_at ASC, id ASC").Find(&events).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to list events in range")
		return
	}

	now := time.Now()
	occurrences := make([]gin.H, 0, len(events))
	for i := range events {
		for _, at := range events[i].Occurrences(from, to) {
			occurrences = append(occurrences, gin.H{
				"event":     events[i],
				"occurs_at": at,
				"status":    events[i].Status(now),
			})
		}
	}
	sort.Slice(occurrences, func(i, j int) bool {
		ti := occurrences[i]["occurs_at"].(time.Time)
		tj := occurrences[j]["occurs_at"].(time.Time)
		return ti.Before(tj)
	})
	utils.Success(ctx, occurrences)
}

func applyRecurrence(event *models.Event, req *eventRequest) {
	event.IsRecurring = req.IsRecurring
	if !req.IsRecurring {
		event.RecurrenceType = ""
		event.RecurrenceInterval = 1
		event.RecurrenceEnd = nil
		return
	}
	event.RecurrenceType = req.RecurrenceType
	event.RecurrenceInterval = req.RecurrenceInterval
	if event.RecurrenceInterval < 1 {
		event.RecurrenceInterval = 1
	}
	event.RecurrenceEnd = req.RecurrenceEnd
}

func (e *EventController) findOwned(ctx *gin.Context) (*models.Event, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return nil, false
	}

	var event models.Event
	if err := e.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&event).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "event not found")
		return nil, false
	}
	return &event, true
}

func eventView(event models.Event, now time.Time) gin.H {
	return gin.H{"event": event, "status": event.Status(now)}
}

func withEventStatus(events []models.Event, now time.Time) []gin.H {
	out := make([]gin.H, 0, len(events))
	for i := range events {
		out = append(out, eventView(events[i], now))
	}
	return out
}
