package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/services"
)

type HabitHandler struct {
	habits   *services.HabitService
	progress *services.ProgressService
	clock    domain.Clock
}

func NewHabitHandler(habits *services.HabitService, progress *services.ProgressService, clock domain.Clock) *HabitHandler {
	return &HabitHandler{
		habits:   habits,
		progress: progress,
		clock:    clock,
	}
}

type createHabitRequest struct {
	Name      string   `json:"name" binding:"required"`
	DailyGoal *float64 `json:"daily_goal" binding:"required"`
}

type recordProgressRequest struct {
	Quantity *float64 `json:"quantity"`
	Date     string   `json:"date"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.RecordProgress)
		habits.GET("/:id/progress", h.History)
	}
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name (string) and daily_goal (number) are required")
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), services.CreateHabitInput{
		Name:      req.Name,
		DailyGoal: *req.DailyGoal,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	var filter services.ListHabitsFilter
	if raw, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}

	list, err := h.habits.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits": list,
		"total":  len(list),
	})
}

func (h *HabitHandler) Get(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	habit, err := h.habits.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// RecordProgress adds quantity (one unit by default) to the habit's progress
// for date (today by default). The body may be empty.
func (h *HabitHandler) RecordProgress(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	var req recordProgressRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "quantity must be a number and date a YYYY-MM-DD string")
			return
		}
	}

	input := services.RecordProgressInput{HabitID: id, Amount: req.Quantity}
	if req.Date != "" {
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		input.Date = &date
	}

	result, err := h.progress.Record(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History lists recorded days in [from, to]. Without parameters it covers
// the trailing week.
func (h *HabitHandler) History(c *gin.Context) {
	id, ok := habitID(c)
	if !ok {
		return
	}

	to := h.clock.Today()
	if raw := c.Query("to"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		to = d
	}

	from, _ := domain.WeekWindow(to)
	if raw := c.Query("from"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		from = d
	}

	entries, err := h.progress.History(c.Request.Context(), id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id": id,
		"from":     from,
		"to":       to,
		"progress": entries,
	})
}

// habitID parses the :id parameter. Identifiers that cannot name a habit
// are reported as not found.
func habitID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, domain.ErrHabitNotFound)
		return 0, false
	}
	return id, true
}
