package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleRecipeEventTask logs a recipe event and, when New Relic is on,
// records it as a RecipeEvent custom event. Malformed payloads are not
// retried.
func (j *JobService) handleRecipeEventTask(ctx context.Context, t *asynq.Task) error {
	var ev RecipeEvent
	if err := json.Unmarshal(t.Payload(), &ev); err != nil {
		return fmt.Errorf("failed to unmarshal recipe event payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskRecipeEvent).
		Str("action", string(ev.Action)).
		Int("user_id", ev.UserID).
		Ints("recipe_ids", ev.RecipeIDs).
		Time("at", ev.At).
		Msg("processing recipe event")

	if j.nrApp != nil {
		j.nrApp.RecordCustomEvent("RecipeEvent", map[string]interface{}{
			"action":       string(ev.Action),
			"user_id":      ev.UserID,
			"recipe_count": len(ev.RecipeIDs),
		})
	}

	return nil
}
