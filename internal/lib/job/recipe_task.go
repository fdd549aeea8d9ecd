package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TaskRecipeEvent is the asynq type for recipe lifecycle events.
const TaskRecipeEvent = "recipe:event"

// RecipeAction names what happened to the recipes in a RecipeEvent.
type RecipeAction string

const (
	RecipeCreated RecipeAction = "created"
	RecipeUpdated RecipeAction = "updated"
	RecipeDeleted RecipeAction = "deleted"
)

// RecipeEvent is the JSON payload of a TaskRecipeEvent.
type RecipeEvent struct {
	Action    RecipeAction `json:"action"`
	UserID    int          `json:"user_id"`
	RecipeIDs []int        `json:"recipe_ids"`
	At        time.Time    `json:"at"`
}

// NewRecipeEventTask builds the task for ev. Events go to the low queue:
// they feed analytics only and must never starve other work.
func NewRecipeEventTask(ev RecipeEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskRecipeEvent,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(10*time.Second),
	), nil
}
