package handlers

import (
	"net/http"
	"time"

	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

// taskResponse adds the derived display status. Overdue is computed at
// read time and never stored.
type taskResponse struct {
	*models.Task
	DisplayStatus string `json:"display_status"`
}

func newTaskResponse(t *models.Task, now time.Time) taskResponse {
	return taskResponse{Task: t, DisplayStatus: t.DisplayStatus(now)}
}

// CreateTask creates a task assigned by the actor
func CreateTask(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var input services.CreateTaskInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewTaskService(db.DB)
	task, err := svc.CreateTask(actor, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, newTaskResponse(task, time.Now()))
}

// ListTasks lists tasks, optionally scoped to an assignee
func ListTasks(c echo.Context) error {
	svc := services.NewTaskService(db.DB)
	tasks, err := svc.ListTasks(c.QueryParam("assigned_to"))
	if err != nil {
		return serviceError(c, err)
	}

	now := time.Now()
	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, newTaskResponse(&tasks[i], now))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetTask returns one task by ID
func GetTask(c echo.Context) error {
	svc := services.NewTaskService(db.DB)
	task, err := svc.TaskByID(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task, time.Now()))
}

type updateTaskStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTaskStatus moves a task between pending, in progress and completed
func UpdateTaskStatus(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req updateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewTaskService(db.DB)
	task, err := svc.UpdateTaskStatus(actor, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task, time.Now()))
}

// ListOverdueTasks lists open tasks whose due date has passed
func ListOverdueTasks(c echo.Context) error {
	svc := services.NewTaskService(db.DB)
	now := time.Now()
	tasks, err := svc.OverdueTasks(now)
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, newTaskResponse(&tasks[i], now))
	}
	return c.JSON(http.StatusOK, responses)
}
